// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package k2182

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"
)

// Default connection configuration values
const (
	// DefaultPort is the raw-socket SCPI port used by LAN-attached
	// instruments and GPIB/serial bridges
	DefaultPort = 5025

	DefaultConnectTimeout = 10 * time.Second
	DefaultTimeout        = 5 * time.Second

	// DefaultTerminator ends every outgoing command line
	DefaultTerminator = "\n"
)

// Connection is the capability the driver consumes to reach the
// instrument: a bare write with no response, and an ask returning the
// single-line textual reply.
//
// Implementations own transport concerns entirely (framing, timeouts,
// reconnection policy); the driver issues exactly one Write or Ask per
// attribute access and propagates any error unchanged. Conn is the
// SCPI-over-TCP implementation; tests and serial bridges supply their own.
type Connection interface {
	// Write sends a command with no response expected
	Write(ctx context.Context, cmd string) error

	// Ask sends a command and returns the single-line response
	Ask(ctx context.Context, cmd string) (string, error)
}

// Conn is a line-oriented SCPI connection over a raw TCP socket.
//
// The TCP connection is established lazily on the first Write or Ask.
// Round trips are serialized with an internal mutex, so a Conn may be
// shared by the command groups of one client; arbitrating access between
// independent clients is the caller's responsibility.
//
// Configuration fields may be adjusted between NewConn and first use,
// following the net.Dialer convention.
//
// Example:
//
//	conn := k2182.NewConn("10.0.0.5")
//	conn.Timeout = 2 * time.Second
//	reply, err := conn.Ask(ctx, "*IDN?")
type Conn struct {
	// Target is the instrument host, with or without an explicit port
	Target string

	// Port is appended to Target when Target carries no port (default: 5025)
	Port int

	// ConnectTimeout bounds the TCP dial (default: 10s)
	ConnectTimeout time.Duration

	// Timeout bounds each round trip when the context has no deadline
	// (default: 5s)
	Timeout time.Duration

	// Terminator ends every outgoing command line (default: "\n")
	Terminator string

	// Logger receives transport-level debug output (default: NoOpLogger)
	Logger Logger

	mu     sync.Mutex
	tcp    net.Conn
	reader *bufio.Reader
	closed bool
}

// NewConn creates a lazy SCPI-over-TCP connection to the given target.
// No I/O happens until the first Write or Ask.
func NewConn(target string) *Conn {
	return &Conn{
		Target:         target,
		Port:           DefaultPort,
		ConnectTimeout: DefaultConnectTimeout,
		Timeout:        DefaultTimeout,
		Terminator:     DefaultTerminator,
		Logger:         &NoOpLogger{},
	}
}

// address returns the dial address, appending the default port when the
// target carries none
func (c *Conn) address() string {
	if strings.Contains(c.Target, ":") {
		return c.Target
	}
	return fmt.Sprintf("%s:%d", c.Target, c.Port)
}

// ensureConnected dials the instrument if no connection is established.
//
// PRECONDITION: caller holds c.mu.
func (c *Conn) ensureConnected(ctx context.Context) error {
	if c.closed {
		return &TransportError{Op: "dial", Err: net.ErrClosed}
	}
	if c.tcp != nil {
		return nil
	}

	dialer := net.Dialer{Timeout: c.ConnectTimeout}
	tcp, err := dialer.DialContext(ctx, "tcp", c.address())
	if err != nil {
		return &TransportError{Op: "dial", Err: err}
	}

	c.tcp = tcp
	c.reader = bufio.NewReader(tcp)

	c.Logger.Info(ctx, "instrument connection established",
		"target", c.address())

	return nil
}

// deadline returns the absolute deadline for one round trip: the context
// deadline when present, otherwise now+Timeout
func (c *Conn) deadline(ctx context.Context) time.Time {
	if d, ok := ctx.Deadline(); ok {
		return d
	}
	if c.Timeout > 0 {
		return time.Now().Add(c.Timeout)
	}
	return time.Time{}
}

// drop discards a broken connection so the next call re-dials.
//
// PRECONDITION: caller holds c.mu.
func (c *Conn) drop() {
	if c.tcp != nil {
		_ = c.tcp.Close()
		c.tcp = nil
		c.reader = nil
	}
}

// send writes one terminated command line.
//
// PRECONDITION: caller holds c.mu and the connection is established.
func (c *Conn) send(ctx context.Context, cmd string) error {
	if err := c.tcp.SetDeadline(c.deadline(ctx)); err != nil {
		return &TransportError{Op: "write", Err: err}
	}
	if _, err := c.tcp.Write([]byte(cmd + c.Terminator)); err != nil {
		c.drop()
		return &TransportError{Op: "write", Err: err}
	}
	return nil
}

// Write sends a command with no response expected
func (c *Conn) Write(ctx context.Context, cmd string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureConnected(ctx); err != nil {
		return err
	}

	c.Logger.Debug(ctx, "instrument write",
		"target", c.address(),
		"command", cmd)

	return c.send(ctx, cmd)
}

// Ask sends a command and returns the single-line response with the line
// terminator stripped
func (c *Conn) Ask(ctx context.Context, cmd string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureConnected(ctx); err != nil {
		return "", err
	}

	c.Logger.Debug(ctx, "instrument query",
		"target", c.address(),
		"command", cmd)

	if err := c.send(ctx, cmd); err != nil {
		return "", err
	}

	line, err := c.reader.ReadString('\n')
	if err != nil {
		c.drop()
		return "", &TransportError{Op: "read", Err: err}
	}

	reply := strings.TrimRight(line, "\r\n")

	c.Logger.Debug(ctx, "instrument reply",
		"target", c.address(),
		"response", reply)

	return reply, nil
}

// Disconnect closes the TCP connection but keeps the Conn reusable; the
// next Write or Ask re-dials
func (c *Conn) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drop()
	return nil
}

// Close closes the connection permanently. Subsequent operations fail
// with a TransportError. Safe to call more than once.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drop()
	c.closed = true
	return nil
}
