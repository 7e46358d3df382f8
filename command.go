// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package k2182

import "context"

// Command is a typed, bidirectional instrument endpoint: an optional query
// phrase and an optional write phrase paired with one value codec.
//
// Reading sends the query phrase and decodes the single-line reply; writing
// encodes the value and sends "<write phrase> <argument>". Every invocation
// is exactly one connection round trip; there is no caching and no retry.
// Commands are immutable after construction.
//
// Example:
//
//	gain := k2182.NewCommand[float64]("OUTP:GAIN?", "OUTP:GAIN",
//	    k2182.FloatType{Min: -100e6, Max: 100e6})
//	v, err := gain.Read(ctx, conn)       // issues "OUTP:GAIN?"
//	err = gain.Write(ctx, conn, 150.0)   // issues "OUTP:GAIN 150"
type Command[T any] struct {
	query string
	write string
	codec Codec[T]
}

// NewCommand creates a command with both a query and a write phrase.
// Either phrase may be empty to declare a read-only or write-only command;
// at least one must be present for the command to be usable.
func NewCommand[T any](query, write string, codec Codec[T]) Command[T] {
	return Command[T]{query: query, write: write, codec: codec}
}

// QueryCommand creates a read-only command
func QueryCommand[T any](query string, codec Codec[T]) Command[T] {
	return Command[T]{query: query, codec: codec}
}

// WriteCommand creates a write-only command
func WriteCommand[T any](write string, codec Codec[T]) Command[T] {
	return Command[T]{write: write, codec: codec}
}

// Query returns the command's query phrase, empty if write-only
func (c Command[T]) Query() string {
	return c.query
}

// WritePhrase returns the command's write phrase, empty if read-only
func (c Command[T]) WritePhrase() string {
	return c.write
}

// Read sends the query phrase and decodes the reply.
//
// Fails with UnsupportedOperationError if the command has no query phrase.
// Transport failures and decode failures propagate unchanged.
func (c Command[T]) Read(ctx context.Context, conn Connection) (T, error) {
	var zero T
	if c.query == "" {
		return zero, &UnsupportedOperationError{Op: "read", Command: c.write}
	}
	raw, err := conn.Ask(ctx, c.query)
	if err != nil {
		return zero, err
	}
	return c.codec.Decode(raw)
}

// Write encodes the value and sends "<write phrase> <argument>".
//
// Fails with UnsupportedOperationError if the command has no write phrase.
// Encode failures (RangeError, UnknownSymbolError, InvalidValueError) are
// returned before any command is issued.
func (c Command[T]) Write(ctx context.Context, conn Connection, value T) error {
	if c.write == "" {
		return &UnsupportedOperationError{Op: "write", Command: c.query}
	}
	arg, err := c.codec.Encode(value)
	if err != nil {
		return err
	}
	return conn.Write(ctx, c.write+" "+arg)
}

// Action is the degenerate command variant: a fixed phrase invoked
// directly, with no argument and no response. Used for trigger-style
// operations such as ":ABOR" or ":TRIG:SIGN".
type Action struct {
	phrase string
}

// NewAction creates an action for the given fixed phrase
func NewAction(phrase string) Action {
	return Action{phrase: phrase}
}

// Phrase returns the action's fixed command phrase
func (a Action) Phrase() string {
	return a.phrase
}

// Invoke sends the fixed phrase as a bare write, one round trip, no reply
func (a Action) Invoke(ctx context.Context, conn Connection) error {
	return conn.Write(ctx, a.phrase)
}
