// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package k2182

import "context"

// Trigger source symbols accepted by TriggerCommands.SetSource
const (
	// SourceImmediate passes the trigger layer immediately ("IMM")
	SourceImmediate = "immediate"

	// SourceTimer triggers from the internal timer ("TIM")
	SourceTimer = "timer"

	// SourceManual triggers from the front-panel TRIG key ("MAN")
	SourceManual = "manual"

	// SourceBus triggers from a bus trigger (*TRG) ("BUS")
	SourceBus = "bus"

	// SourceExternal triggers from the rear trigger link ("EXT")
	SourceExternal = "external"
)

// TriggerCountInfinite is the wire token for unlimited trigger repetition.
// It is written by SetCountInfinite and deliberately kept out of the
// bounded Count attribute.
const TriggerCountInfinite = "INF"

// TriggerCommands controls the instrument's trigger layer.
//
// The trigger state machine itself (idle, armed, waiting-for-event,
// measuring) lives in the instrument; this group only issues the
// corresponding phrases and trusts the instrument's transitions. Initiate
// arms the model, Abort on the client returns it to idle, and Signal
// forces an armed-and-waiting layer to proceed.
type TriggerCommands struct {
	conn   Connection
	logger Logger

	source    Command[string]
	timer     Command[float64]
	delay     Command[float64]
	autoDelay Command[bool]
	count     Command[int]
	signal    Action
}

func newTriggerCommands(conn Connection, logger Logger) *TriggerCommands {
	interval := FloatType{Min: 0, Max: 999999.999}
	return &TriggerCommands{
		conn:   conn,
		logger: logger,

		source: NewCommand[string](":TRIG:SOUR?", ":TRIG:SOUR", NewMapping(map[string]string{
			SourceImmediate: "IMM",
			SourceTimer:     "TIM",
			SourceManual:    "MAN",
			SourceBus:       "BUS",
			SourceExternal:  "EXT",
		})),
		timer:     NewCommand[float64](":TRIG:TIM?", ":TRIG:TIM", interval),
		delay:     NewCommand[float64](":TRIG:DEL?", ":TRIG:DEL", interval),
		autoDelay: NewCommand[bool](":TRIG:DEL:AUTO?", ":TRIG:DEL:AUTO", BoolType{}),
		count:     NewCommand[int](":TRIG:COUN?", ":TRIG:COUN", IntType{Min: 1, Max: 9999}),
		signal:    NewAction(":TRIG:SIGN"),
	}
}

// Source reads the trigger source as one of the Source... symbols
func (t *TriggerCommands) Source(ctx context.Context) (string, error) {
	return t.source.Read(ctx, t.conn)
}

// SetSource selects the trigger source. Unknown symbols fail with
// UnknownSymbolError before any command is issued.
//
// Example:
//
//	err := client.Trigger.SetSource(ctx, k2182.SourceTimer) // ":TRIG:SOUR TIM"
func (t *TriggerCommands) SetSource(ctx context.Context, source string) error {
	return t.source.Write(ctx, t.conn, source)
}

// Timer reads the trigger timer interval in seconds
func (t *TriggerCommands) Timer(ctx context.Context) (float64, error) {
	return t.timer.Read(ctx, t.conn)
}

// SetTimer sets the trigger timer interval in seconds (0 to 999999.999)
func (t *TriggerCommands) SetTimer(ctx context.Context, seconds float64) error {
	return t.timer.Write(ctx, t.conn, seconds)
}

// Delay reads the trigger delay in seconds
func (t *TriggerCommands) Delay(ctx context.Context) (float64, error) {
	return t.delay.Read(ctx, t.conn)
}

// SetDelay sets the trigger delay in seconds (0 to 999999.999)
func (t *TriggerCommands) SetDelay(ctx context.Context, seconds float64) error {
	return t.delay.Write(ctx, t.conn, seconds)
}

// AutoDelay reads whether the trigger delay is chosen automatically
func (t *TriggerCommands) AutoDelay(ctx context.Context) (bool, error) {
	return t.autoDelay.Read(ctx, t.conn)
}

// SetAutoDelay enables or disables automatic trigger delay
func (t *TriggerCommands) SetAutoDelay(ctx context.Context, enabled bool) error {
	return t.autoDelay.Write(ctx, t.conn, enabled)
}

// Count reads the trigger count. An instrument set to infinite repetition
// answers 9.9E37, which does not parse as an integer; use SetCountInfinite
// and treat the resulting ParseError as the infinite case if needed.
func (t *TriggerCommands) Count(ctx context.Context) (int, error) {
	return t.count.Read(ctx, t.conn)
}

// SetCount sets the trigger count (1 to 9999)
func (t *TriggerCommands) SetCount(ctx context.Context, count int) error {
	return t.count.Write(ctx, t.conn, count)
}

// SetCountInfinite selects unlimited trigger repetition (":TRIG:COUN INF")
func (t *TriggerCommands) SetCountInfinite(ctx context.Context) error {
	return t.conn.Write(ctx, ":TRIG:COUN "+TriggerCountInfinite)
}

// Signal issues ":TRIG:SIGN", bypassing the event detection block once so
// an armed-and-waiting trigger layer proceeds
func (t *TriggerCommands) Signal(ctx context.Context) error {
	return t.signal.Invoke(ctx, t.conn)
}
