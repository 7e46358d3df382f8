// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package k2182

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Default client configuration values
const (
	DefaultOperationTimeout = 15 * time.Second
)

// Client is the driver facade for a Keithley 2182/2182A nanovoltmeter.
//
// It composes independent command groups over one shared connection:
// the IEC 60488 common-command layer, the stored-settings layer, and the
// instrument's SCPI subtrees (initiate, output, sense, system, trigger,
// unit). Every attribute access is exactly one synchronous round trip on
// the injected connection; the driver keeps no cache, performs no retries
// and tracks no instrument state.
type Client struct {
	// conn carries every round trip; injected or created from Target
	conn Connection

	// ownedConn is set when the client created the TCP connection itself
	// and is therefore responsible for closing it
	ownedConn *Conn

	// Connection parameters
	Target string
	Port   int

	// Timeout configuration
	ConnectTimeout   time.Duration
	OperationTimeout time.Duration

	// Logging configuration
	logger Logger

	// Common implements the IEC 60488-2 common commands (*IDN?, *RST, ...)
	Common *CommonCommands

	// Settings implements the stored-setting commands (*SAV, *RCL)
	Settings *StoredSettings

	// Initiate controls the trigger model's initiate layer (:INIT)
	Initiate *InitiateCommands

	// Output controls the analog output (OUTP)
	Output *OutputCommands

	// Sense selects and configures the measurement function (:SENS)
	Sense *SenseCommands

	// System groups the :SYSTem subtree
	System *SystemCommands

	// Trigger controls the trigger layer (:TRIG)
	Trigger *TriggerCommands

	// Unit selects measurement units (:UNIT)
	Unit *UnitCommands

	sampleCount Command[int]
	voltage     Command[float64]
	temperature Command[float64]
}

// NewClient creates a nanovoltmeter client for the given target.
//
// By default the client creates a lazy SCPI-over-TCP connection; no I/O
// happens until the first operation. A different transport (serial bridge,
// test fake) can be injected with WithConnection, in which case target may
// be empty.
//
// Example:
//
//	client, err := k2182.NewClient(
//	    "10.0.0.5",
//	    k2182.OperationTimeout(5*time.Second),
//	    k2182.WithLogger(k2182.NewDefaultLogger(k2182.LogLevelInfo)),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	v, err := client.Read(ctx) // ":READ?"
func NewClient(target string, opts ...func(*Client)) (*Client, error) {
	client := &Client{
		Target:           target,
		Port:             DefaultPort,
		ConnectTimeout:   DefaultConnectTimeout,
		OperationTimeout: DefaultOperationTimeout,
		logger:           &NoOpLogger{},
	}

	// Apply functional options
	for _, opt := range opts {
		opt(client)
	}

	if err := client.validateConfig(); err != nil {
		return nil, err
	}

	// Create the TCP connection unless one was injected (lazy, no I/O yet)
	if client.conn == nil {
		conn := NewConn(client.Target)
		conn.Port = client.Port
		conn.ConnectTimeout = client.ConnectTimeout
		conn.Timeout = client.OperationTimeout
		conn.Logger = client.logger
		client.conn = conn
		client.ownedConn = conn
	}

	// Compose the command groups over the shared connection
	client.Common = newCommonCommands(client.conn, client.logger)
	client.Settings = newStoredSettings(client.conn, client.logger)
	client.Initiate = newInitiateCommands(client.conn, client.logger)
	client.Output = newOutputCommands(client.conn, client.logger)
	client.Sense = newSenseCommands(client.conn, client.logger)
	client.System = newSystemCommands(client.conn, client.logger)
	client.Trigger = newTriggerCommands(client.conn, client.logger)
	client.Unit = newUnitCommands(client.conn, client.logger)

	client.sampleCount = NewCommand[int](":SAMP:COUN?", ":SAMP:COUN", IntType{Min: 1, Max: 1024})
	client.voltage = QueryCommand[float64](":MEAS:VOLT?", UnboundedFloat())
	client.temperature = QueryCommand[float64](":MEAS:TEMP?", UnboundedFloat())

	client.logger.Info(context.Background(), "nanovoltmeter client created",
		"target", client.Target,
		"connection", "lazy")

	return client, nil
}

// validateConfig validates client configuration before first use
func (c *Client) validateConfig() error {
	if c.conn == nil && strings.TrimSpace(c.Target) == "" {
		return fmt.Errorf("target address cannot be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be 1-65535)", c.Port)
	}
	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("connect timeout must be positive, got: %v", c.ConnectTimeout)
	}
	if c.OperationTimeout <= 0 {
		return fmt.Errorf("operation timeout must be positive, got: %v", c.OperationTimeout)
	}
	return nil
}

// opCtx applies the client's operation timeout when the caller's context
// carries no deadline of its own
func (c *Client) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.OperationTimeout)
}

// askFloat performs one fixed-phrase query and parses the reply as a
// floating-point measurement
func (c *Client) askFloat(ctx context.Context, phrase string) (float64, error) {
	raw, err := c.conn.Ask(ctx, phrase)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &ParseError{Raw: raw, Want: "float measurement"}
	}
	return v, nil
}

// Read performs a single-shot measurement (":READ?"): it resets the
// trigger model to idle, initiates it and returns the new reading.
//
// Example:
//
//	v, err := client.Read(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%g V\n", v)
func (c *Client) Read(ctx context.Context) (float64, error) {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	c.logger.Debug(ctx, "read", "target", c.Target)
	return c.askFloat(ctx, ":READ?")
}

// Fetch returns the latest available reading (":FETC?") without
// triggering a new measurement
func (c *Client) Fetch(ctx context.Context) (float64, error) {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	c.logger.Debug(ctx, "fetch", "target", c.Target)
	return c.askFloat(ctx, ":FETC?")
}

// MeasureVoltage performs a single-shot voltage measurement
// (":MEAS:VOLT?"). This configures the instrument for voltage first and
// is therefore much slower than Read.
func (c *Client) MeasureVoltage(ctx context.Context) (float64, error) {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	c.logger.Debug(ctx, "measure voltage", "target", c.Target)
	return c.voltage.Read(ctx, c.conn)
}

// MeasureTemperature performs a single-shot temperature measurement
// (":MEAS:TEMP?"), in the unit selected via Unit.SetTemperature. Much
// slower than Read.
func (c *Client) MeasureTemperature(ctx context.Context) (float64, error) {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	c.logger.Debug(ctx, "measure temperature", "target", c.Target)
	return c.temperature.Read(ctx, c.conn)
}

// Abort issues ":ABOR", resetting the trigger model and putting the
// instrument in idle mode
func (c *Client) Abort(ctx context.Context) error {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	c.logger.Debug(ctx, "abort", "target", c.Target)
	return c.conn.Write(ctx, ":ABOR")
}

// SampleCount reads the number of readings per trigger (":SAMP:COUN?")
func (c *Client) SampleCount(ctx context.Context) (int, error) {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()
	return c.sampleCount.Read(ctx, c.conn)
}

// SetSampleCount sets the number of readings per trigger (1 to 1024).
// Out-of-range counts fail with RangeError and issue no command.
func (c *Client) SetSampleCount(ctx context.Context, count int) error {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()
	return c.sampleCount.Write(ctx, c.conn, count)
}

// Ping verifies connectivity by querying the instrument identification
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()
	_, err := c.Common.Identification(ctx)
	return err
}

// Disconnect closes the underlying TCP connection but keeps the client
// reusable; the next operation re-dials. No-op when the connection was
// injected via WithConnection.
func (c *Client) Disconnect() error {
	if c.ownedConn == nil {
		return nil
	}
	c.logger.Info(context.Background(), "instrument connection disconnected",
		"target", c.Target,
		"reusable", true)
	return c.ownedConn.Disconnect()
}

// Close closes the client-owned connection permanently. No-op when the
// connection was injected via WithConnection. Safe to call more than once.
func (c *Client) Close() error {
	if c.ownedConn == nil {
		return nil
	}
	c.logger.Info(context.Background(), "instrument connection closed",
		"target", c.Target,
		"reusable", false)
	return c.ownedConn.Close()
}

// Snapshot is a JSON document of the instrument's identification and key
// settings, queryable with gjson paths.
type Snapshot struct {
	doc string
}

// JSON returns the snapshot as a JSON string
func (s Snapshot) JSON() string {
	return s.doc
}

// GetValue retrieves a value from the snapshot using a gjson path.
//
// Example paths:
//   - "identification.model"
//   - "trigger.source"
//   - "sample_count"
func (s Snapshot) GetValue(path string) gjson.Result {
	return gjson.Get(s.doc, path)
}

// Snapshot reads the instrument identification and the most commonly
// inspected settings in a fixed series of round trips and returns them as
// one JSON document.
//
// The snapshot is atomic per attribute, not as a whole: a transport or
// decode failure on any read aborts the snapshot with that error.
//
// Example:
//
//	snap, err := client.Snapshot(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(snap.GetValue("identification.model").String())
//	fmt.Println(snap.GetValue("trigger.source").String())
func (c *Client) Snapshot(ctx context.Context) (Snapshot, error) {
	idn, err := c.Common.Identification(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	function, err := c.Sense.Function(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	source, err := c.Trigger.Source(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	continuous, err := c.Initiate.Continuous(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	unit, err := c.Unit.Temperature(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	count, err := c.SampleCount(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	doc := Record{}.
		Set("identification.manufacturer", idn.Manufacturer).
		Set("identification.model", idn.Model).
		Set("identification.serial_number", idn.SerialNumber).
		Set("identification.firmware", idn.Firmware).
		Set("sense.function", function).
		Set("trigger.source", source).
		Set("initiate.continuous", continuous).
		Set("unit.temperature", unit).
		Set("sample_count", count)

	json, err := doc.String()
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{doc: json}, nil
}
