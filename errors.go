// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package k2182

import (
	"fmt"
	"strings"
)

// ParseError indicates that an instrument response could not be parsed
// into the expected native value.
//
// The instrument always answers with a single line of ASCII text; a
// ParseError means the text did not match the wire syntax the command's
// value type expects (e.g. a non-numeric reply to a numeric query).
type ParseError struct {
	// Raw is the response text as received from the instrument
	Raw string

	// Want describes the expected wire syntax (e.g. "float", "boolean 0/1")
	Want string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("k2182: cannot parse %q as %s", e.Raw, e.Want)
}

// RangeError indicates that a numeric value is outside the bounds declared
// for a command argument.
//
// The check happens at encode time, before anything is sent to the
// instrument, so a RangeError guarantees no command was issued.
type RangeError struct {
	// Value is the rejected value
	Value float64

	// Min is the inclusive lower bound
	Min float64

	// Max is the inclusive upper bound
	Max float64
}

// Error implements the error interface
func (e *RangeError) Error() string {
	return fmt.Sprintf("k2182: value %v out of range [%v, %v]", e.Value, e.Min, e.Max)
}

// UnknownSymbolError indicates that a symbolic value has no wire token in
// the command's declared mapping. Raised at encode time, before any I/O.
type UnknownSymbolError struct {
	// Symbol is the rejected symbolic value
	Symbol string

	// Allowed lists the valid symbols, sorted
	Allowed []string
}

// Error implements the error interface
func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("k2182: unknown symbol %q (valid values: %s)",
		e.Symbol, strings.Join(e.Allowed, ", "))
}

// UnknownTokenError indicates that the instrument answered with a wire
// token that is not present in the command's declared mapping.
type UnknownTokenError struct {
	// Token is the unrecognized wire token
	Token string

	// Known lists the wire tokens the mapping declares, sorted
	Known []string
}

// Error implements the error interface
func (e *UnknownTokenError) Error() string {
	return fmt.Sprintf("k2182: unknown wire token %q (known tokens: %s)",
		e.Token, strings.Join(e.Known, ", "))
}

// InvalidValueError indicates that a value is outside a declared discrete
// set of permitted values. Unlike a mapping, the value itself travels on
// the wire unchanged.
type InvalidValueError struct {
	// Value is the rejected value
	Value string

	// Allowed lists the permitted values, sorted
	Allowed []string
}

// Error implements the error interface
func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("k2182: invalid value %q (valid values: %s)",
		e.Value, strings.Join(e.Allowed, ", "))
}

// UnsupportedOperationError indicates a read on a write-only command or a
// write on a read-only command.
type UnsupportedOperationError struct {
	// Op is the attempted operation, "read" or "write"
	Op string

	// Command is the phrase of the command the operation was attempted on
	Command string
}

// Error implements the error interface
func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("k2182: %s not supported by command %q", e.Op, e.Command)
}

// TransportError wraps a failure of the underlying connection.
//
// The driver never produces a TransportError itself and never retries one;
// it propagates unchanged from the connection to the caller.
//
// Example:
//
//	_, err := client.Read(ctx)
//	var terr *k2182.TransportError
//	if errors.As(err, &terr) {
//	    log.Printf("connection to instrument lost: %v", terr.Unwrap())
//	}
type TransportError struct {
	// Op is the transport operation that failed ("dial", "write", "read")
	Op string

	// Err is the underlying error
	Err error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return fmt.Sprintf("k2182: transport %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is/errors.As
func (e *TransportError) Unwrap() error {
	return e.Err
}
