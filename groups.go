// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package k2182

import "context"

// Measurement function symbols accepted by SenseCommands.SetFunction.
// The instrument quotes the function tokens on the wire.
const (
	// FunctionVoltage selects DC voltage measurement (`"VOLT:DC"`)
	FunctionVoltage = "voltage"

	// FunctionTemperature selects temperature measurement (`"TEMP"`)
	FunctionTemperature = "temperature"
)

// Temperature unit symbols accepted by UnitCommands.SetTemperature
const (
	UnitCelsius    = "celsius"
	UnitFahrenheit = "fahrenheit"
	UnitKelvin     = "kelvin"
)

// InitiateCommands controls the trigger model's initiate layer
type InitiateCommands struct {
	conn   Connection
	logger Logger

	continuous Command[bool]
	start      Action
}

func newInitiateCommands(conn Connection, logger Logger) *InitiateCommands {
	return &InitiateCommands{
		conn:   conn,
		logger: logger,

		continuous: NewCommand[bool](":INIT:CONT?", ":INIT:CONT", BoolType{}),
		start:      NewAction(":INIT"),
	}
}

// Continuous reads whether continuous initiation is enabled
func (i *InitiateCommands) Continuous(ctx context.Context) (bool, error) {
	return i.continuous.Read(ctx, i.conn)
}

// SetContinuous enables or disables continuous initiation
func (i *InitiateCommands) SetContinuous(ctx context.Context, enabled bool) error {
	return i.continuous.Write(ctx, i.conn, enabled)
}

// Start issues ":INIT", arming the trigger model once
func (i *InitiateCommands) Start(ctx context.Context) error {
	return i.start.Invoke(ctx, i.conn)
}

// OutputCommands controls the analog output
type OutputCommands struct {
	conn   Connection
	logger Logger

	gain     Command[float64]
	relative Command[bool]
	enabled  Command[bool]
}

func newOutputCommands(conn Connection, logger Logger) *OutputCommands {
	return &OutputCommands{
		conn:   conn,
		logger: logger,

		gain:     NewCommand[float64]("OUTP:GAIN?", "OUTP:GAIN", FloatType{Min: -100e6, Max: 100e6}),
		relative: NewCommand[bool]("OUTP:REL?", "OUTP:REL", BoolType{}),
		enabled:  NewCommand[bool]("OUTP:STAT?", "OUTP:STAT", BoolType{}),
	}
}

// Gain reads the analog output gain
func (o *OutputCommands) Gain(ctx context.Context) (float64, error) {
	return o.gain.Read(ctx, o.conn)
}

// SetGain sets the analog output gain (-100e6 to 100e6)
func (o *OutputCommands) SetGain(ctx context.Context, gain float64) error {
	return o.gain.Write(ctx, o.conn, gain)
}

// Relative reads whether the analog output is referenced to the relative value
func (o *OutputCommands) Relative(ctx context.Context) (bool, error) {
	return o.relative.Read(ctx, o.conn)
}

// SetRelative references the analog output to the relative value
func (o *OutputCommands) SetRelative(ctx context.Context, enabled bool) error {
	return o.relative.Write(ctx, o.conn, enabled)
}

// Enabled reads the analog output state
func (o *OutputCommands) Enabled(ctx context.Context) (bool, error) {
	return o.enabled.Read(ctx, o.conn)
}

// SetEnabled switches the analog output on or off
func (o *OutputCommands) SetEnabled(ctx context.Context, enabled bool) error {
	return o.enabled.Write(ctx, o.conn, enabled)
}

// SenseVoltageCommands configures the DC voltage measurement channel
type SenseVoltageCommands struct {
	conn   Connection
	logger Logger

	rng       Command[float64]
	autoRange Command[bool]
	nplc      Command[float64]
}

func newSenseVoltageCommands(conn Connection, logger Logger) *SenseVoltageCommands {
	return &SenseVoltageCommands{
		conn:   conn,
		logger: logger,

		rng:       NewCommand[float64](":SENS:VOLT:RANG?", ":SENS:VOLT:RANG", FloatType{Min: 0, Max: 120}),
		autoRange: NewCommand[bool](":SENS:VOLT:RANG:AUTO?", ":SENS:VOLT:RANG:AUTO", BoolType{}),
		nplc:      NewCommand[float64](":SENS:VOLT:NPLC?", ":SENS:VOLT:NPLC", FloatType{Min: 0.01, Max: 60}),
	}
}

// Range reads the measurement range in volts
func (s *SenseVoltageCommands) Range(ctx context.Context) (float64, error) {
	return s.rng.Read(ctx, s.conn)
}

// SetRange sets the measurement range in volts (0 to 120)
func (s *SenseVoltageCommands) SetRange(ctx context.Context, volts float64) error {
	return s.rng.Write(ctx, s.conn, volts)
}

// AutoRange reads whether auto-ranging is enabled
func (s *SenseVoltageCommands) AutoRange(ctx context.Context) (bool, error) {
	return s.autoRange.Read(ctx, s.conn)
}

// SetAutoRange enables or disables auto-ranging
func (s *SenseVoltageCommands) SetAutoRange(ctx context.Context, enabled bool) error {
	return s.autoRange.Write(ctx, s.conn, enabled)
}

// NPLC reads the integration time in power line cycles
func (s *SenseVoltageCommands) NPLC(ctx context.Context) (float64, error) {
	return s.nplc.Read(ctx, s.conn)
}

// SetNPLC sets the integration time in power line cycles (0.01 to 60)
func (s *SenseVoltageCommands) SetNPLC(ctx context.Context, cycles float64) error {
	return s.nplc.Write(ctx, s.conn, cycles)
}

// SenseCommands selects and configures the measurement function
type SenseCommands struct {
	conn   Connection
	logger Logger

	function Command[string]

	// Voltage configures the DC voltage channel
	Voltage *SenseVoltageCommands
}

func newSenseCommands(conn Connection, logger Logger) *SenseCommands {
	return &SenseCommands{
		conn:   conn,
		logger: logger,

		function: NewCommand[string](":SENS:FUNC?", ":SENS:FUNC", NewMapping(map[string]string{
			FunctionVoltage:     `"VOLT:DC"`,
			FunctionTemperature: `"TEMP"`,
		})),
		Voltage: newSenseVoltageCommands(conn, logger),
	}
}

// Function reads the active measurement function
func (s *SenseCommands) Function(ctx context.Context) (string, error) {
	return s.function.Read(ctx, s.conn)
}

// SetFunction selects the measurement function, FunctionVoltage or
// FunctionTemperature
func (s *SenseCommands) SetFunction(ctx context.Context, function string) error {
	return s.function.Write(ctx, s.conn, function)
}

// SystemCommands groups the :SYSTem subtree
type SystemCommands struct {
	conn   Connection
	logger Logger

	autozero      Command[bool]
	frontAutozero Command[bool]
	lineFrequency Command[int]
	preset        Action
}

func newSystemCommands(conn Connection, logger Logger) *SystemCommands {
	return &SystemCommands{
		conn:   conn,
		logger: logger,

		autozero:      NewCommand[bool](":SYST:AZER:STAT?", ":SYST:AZER:STAT", BoolType{}),
		frontAutozero: NewCommand[bool](":SYST:FAZ:STAT?", ":SYST:FAZ:STAT", BoolType{}),
		lineFrequency: QueryCommand[int](":SYST:LFR?", IntType{Min: 50, Max: 60}),
		preset:        NewAction(":SYST:PRES"),
	}
}

// Autozero reads whether autozero is enabled
func (s *SystemCommands) Autozero(ctx context.Context) (bool, error) {
	return s.autozero.Read(ctx, s.conn)
}

// SetAutozero enables or disables autozero
func (s *SystemCommands) SetAutozero(ctx context.Context, enabled bool) error {
	return s.autozero.Write(ctx, s.conn, enabled)
}

// FrontAutozero reads whether front autozero is enabled
func (s *SystemCommands) FrontAutozero(ctx context.Context) (bool, error) {
	return s.frontAutozero.Read(ctx, s.conn)
}

// SetFrontAutozero enables or disables front autozero. Disabling it
// roughly halves the measurement time of the delta mode at the cost of
// front-end zero drift.
func (s *SystemCommands) SetFrontAutozero(ctx context.Context, enabled bool) error {
	return s.frontAutozero.Write(ctx, s.conn, enabled)
}

// LineFrequency reads the detected power line frequency in Hz (50 or 60)
func (s *SystemCommands) LineFrequency(ctx context.Context) (int, error) {
	return s.lineFrequency.Read(ctx, s.conn)
}

// Preset issues ":SYST:PRES", returning the instrument to its bench defaults
func (s *SystemCommands) Preset(ctx context.Context) error {
	return s.preset.Invoke(ctx, s.conn)
}

// UnitCommands selects measurement units
type UnitCommands struct {
	conn   Connection
	logger Logger

	temperature Command[string]
}

func newUnitCommands(conn Connection, logger Logger) *UnitCommands {
	return &UnitCommands{
		conn:   conn,
		logger: logger,

		temperature: NewCommand[string](":UNIT:TEMP?", ":UNIT:TEMP", NewMapping(map[string]string{
			UnitCelsius:    "C",
			UnitFahrenheit: "F",
			UnitKelvin:     "K",
		})),
	}
}

// Temperature reads the temperature unit as one of the Unit... symbols
func (u *UnitCommands) Temperature(ctx context.Context) (string, error) {
	return u.temperature.Read(ctx, u.conn)
}

// SetTemperature selects the temperature unit
func (u *UnitCommands) SetTemperature(ctx context.Context, unit string) error {
	return u.temperature.Write(ctx, u.conn, unit)
}
