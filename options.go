// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package k2182

import "time"

// Client configuration options using the functional options pattern

// Port sets the SCPI raw-socket port (default: 5025).
// Ignored when the target address already carries a port or a connection
// is injected with WithConnection.
func Port(port int) func(*Client) {
	return func(c *Client) {
		c.Port = port
	}
}

// ConnectTimeout sets the TCP dial timeout (default: 10s)
func ConnectTimeout(duration time.Duration) func(*Client) {
	return func(c *Client) {
		c.ConnectTimeout = duration
	}
}

// OperationTimeout sets the per-operation timeout applied when the
// caller's context has no deadline (default: 15s)
func OperationTimeout(duration time.Duration) func(*Client) {
	return func(c *Client) {
		c.OperationTimeout = duration
	}
}

// WithConnection injects a custom connection, bypassing the built-in
// SCPI-over-TCP transport.
//
// The client never closes an injected connection; its lifecycle stays
// with the caller. Use this for serial bridges, shared connections or
// test fakes.
//
// Example:
//
//	conn := k2182.NewConn("10.0.0.5:5025")
//	a, _ := k2182.NewClient("", k2182.WithConnection(conn))
func WithConnection(conn Connection) func(*Client) {
	return func(c *Client) {
		if conn != nil {
			c.conn = conn
		}
	}
}

// WithLogger configures a custom logger for the client and its transport
//
// By default the client uses NoOpLogger which discards all log messages.
//
// Example:
//
//	logger := k2182.NewDefaultLogger(k2182.LogLevelDebug)
//	client, _ := k2182.NewClient("10.0.0.5",
//	    k2182.WithLogger(logger))
func WithLogger(logger Logger) func(*Client) {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}
