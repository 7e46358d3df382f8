// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package k2182

import (
	"context"
	"strconv"
	"strings"
)

// Flag names of the IEC 60488-2 standard event status register (*ESR?),
// bit 0 through bit 7
var eventStatusBits = map[uint]string{
	0: "operation complete",
	1: "request control",
	2: "query error",
	3: "device dependent error",
	4: "execution error",
	5: "command error",
	6: "user request",
	7: "power on",
}

// Flag names of the IEC 60488-2 status byte (*STB?). Bits 0-3 and 7 are
// device dependent and keep their numeric names.
var statusByteBits = map[uint]string{
	0: "0",
	1: "1",
	2: "2",
	3: "3",
	4: "MAV",
	5: "ESB",
	6: "RQS",
	7: "7",
}

// Identification is the instrument's *IDN? response
type Identification struct {
	Manufacturer string
	Model        string
	SerialNumber string
	Firmware     string
}

// CommonCommands implements the IEC 60488-2:2004(E) mandatory common
// commands: status reporting (*CLS, *ESE, *ESR?, *SRE, *STB?), internal
// operation (*IDN?, *RST, *TST?) and synchronisation (*OPC, *OPC?, *WAI),
// plus the optional *TRG trigger event.
//
// The group holds its own connection handle and is composed into the
// client facade rather than inherited from, so instrument drivers can
// combine command groups freely.
type CommonCommands struct {
	conn   Connection
	logger Logger

	eventStatus          Command[map[string]bool]
	eventStatusEnable    Command[map[string]bool]
	statusByte           Command[map[string]bool]
	serviceRequestEnable Command[map[string]bool]
	operationComplete    Command[bool]

	clear             Action
	completeOperation Action
	reset             Action
	triggerEvent      Action
	wait              Action
}

func newCommonCommands(conn Connection, logger Logger) *CommonCommands {
	esr := NewRegister(eventStatusBits)
	stb := NewRegister(statusByteBits)
	return &CommonCommands{
		conn:   conn,
		logger: logger,

		eventStatus:          QueryCommand[map[string]bool]("*ESR?", esr),
		eventStatusEnable:    NewCommand[map[string]bool]("*ESE?", "*ESE", esr),
		statusByte:           QueryCommand[map[string]bool]("*STB?", stb),
		serviceRequestEnable: NewCommand[map[string]bool]("*SRE?", "*SRE", stb),
		operationComplete:    QueryCommand[bool]("*OPC?", BoolType{}),

		clear:             NewAction("*CLS"),
		completeOperation: NewAction("*OPC"),
		reset:             NewAction("*RST"),
		triggerEvent:      NewAction("*TRG"),
		wait:              NewAction("*WAI"),
	}
}

// Identification queries *IDN? and parses the four comma-separated fields
// (manufacturer, model, serial number, firmware level)
func (c *CommonCommands) Identification(ctx context.Context) (Identification, error) {
	raw, err := c.conn.Ask(ctx, "*IDN?")
	if err != nil {
		return Identification{}, err
	}
	fields := strings.Split(raw, ",")
	if len(fields) != 4 {
		return Identification{}, &ParseError{Raw: raw, Want: "identification with 4 fields"}
	}
	return Identification{
		Manufacturer: strings.TrimSpace(fields[0]),
		Model:        strings.TrimSpace(fields[1]),
		SerialNumber: strings.TrimSpace(fields[2]),
		Firmware:     strings.TrimSpace(fields[3]),
	}, nil
}

// EventStatus reads the standard event status register (*ESR?) as named flags
func (c *CommonCommands) EventStatus(ctx context.Context) (map[string]bool, error) {
	return c.eventStatus.Read(ctx, c.conn)
}

// EventStatusEnable reads the event status enable register (*ESE?)
func (c *CommonCommands) EventStatusEnable(ctx context.Context) (map[string]bool, error) {
	return c.eventStatusEnable.Read(ctx, c.conn)
}

// SetEventStatusEnable writes the event status enable register (*ESE)
func (c *CommonCommands) SetEventStatusEnable(ctx context.Context, flags map[string]bool) error {
	return c.eventStatusEnable.Write(ctx, c.conn, flags)
}

// StatusByte reads the status byte (*STB?) as named flags
func (c *CommonCommands) StatusByte(ctx context.Context) (map[string]bool, error) {
	return c.statusByte.Read(ctx, c.conn)
}

// ServiceRequestEnable reads the service request enable register (*SRE?)
func (c *CommonCommands) ServiceRequestEnable(ctx context.Context) (map[string]bool, error) {
	return c.serviceRequestEnable.Read(ctx, c.conn)
}

// SetServiceRequestEnable writes the service request enable register (*SRE)
func (c *CommonCommands) SetServiceRequestEnable(ctx context.Context, flags map[string]bool) error {
	return c.serviceRequestEnable.Write(ctx, c.conn, flags)
}

// OperationComplete queries *OPC? and reports whether all pending
// operations have finished
func (c *CommonCommands) OperationComplete(ctx context.Context) (bool, error) {
	return c.operationComplete.Read(ctx, c.conn)
}

// Clear issues *CLS, clearing the status data structures
func (c *CommonCommands) Clear(ctx context.Context) error {
	return c.clear.Invoke(ctx, c.conn)
}

// CompleteOperation issues *OPC, arming the operation-complete bit of the
// event status register
func (c *CommonCommands) CompleteOperation(ctx context.Context) error {
	return c.completeOperation.Invoke(ctx, c.conn)
}

// Reset issues *RST, performing a device reset
func (c *CommonCommands) Reset(ctx context.Context) error {
	return c.reset.Invoke(ctx, c.conn)
}

// TriggerEvent issues *TRG, creating a bus trigger event
func (c *CommonCommands) TriggerEvent(ctx context.Context) error {
	return c.triggerEvent.Invoke(ctx, c.conn)
}

// WaitToContinue issues *WAI, preventing the instrument from executing
// further commands until pending operations complete
func (c *CommonCommands) WaitToContinue(ctx context.Context) error {
	return c.wait.Invoke(ctx, c.conn)
}

// SelfTest issues *TST? and returns the self-test result code. Zero means
// the test completed without errors.
func (c *CommonCommands) SelfTest(ctx context.Context) (int, error) {
	raw, err := c.conn.Ask(ctx, "*TST?")
	if err != nil {
		return 0, err
	}
	code, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &ParseError{Raw: raw, Want: "integer self-test result"}
	}
	return code, nil
}

// StoredSettings implements the IEC 60488-2 optional stored setting
// commands *SAV and *RCL. The 2182 provides memory slots 0 through 4.
type StoredSettings struct {
	conn   Connection
	logger Logger

	save   Command[int]
	recall Command[int]
}

func newStoredSettings(conn Connection, logger Logger) *StoredSettings {
	slot := IntType{Min: 0, Max: 4}
	return &StoredSettings{
		conn:   conn,
		logger: logger,
		save:   WriteCommand[int]("*SAV", slot),
		recall: WriteCommand[int]("*RCL", slot),
	}
}

// Save stores the current instrument settings in the given memory slot
func (s *StoredSettings) Save(ctx context.Context, slot int) error {
	return s.save.Write(ctx, s.conn, slot)
}

// Recall restores the instrument settings from the given memory slot
func (s *StoredSettings) Recall(ctx context.Context, slot int) error {
	return s.recall.Write(ctx, s.conn, slot)
}
