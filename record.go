// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package k2182

import (
	"fmt"

	"github.com/tidwall/sjson"
)

// Record provides a fluent interface for building JSON measurement and
// settings documents using sjson for path-based manipulation.
//
// The builder tracks errors internally to enable method chaining while
// providing error checking through String() or Err(). Snapshot uses it to
// assemble the instrument state document; telemetry pipelines can use it
// to shape reading payloads.
//
// Example:
//
//	rec := k2182.Record{}.
//	    Set("instrument", "2182A").
//	    Set("reading.value", 1.234e-6).
//	    Set("reading.unit", "V")
//
//	payload, err := rec.String()
//	if err != nil {
//	    log.Fatal(err)
//	}
type Record struct {
	// str contains the JSON string being built
	str string
	// err tracks the first error encountered during building
	err error
}

// Set sets a value at the specified JSON path and returns a new Record
//
// The path uses dot notation for nested fields (e.g. "reading.value").
// Once an error occurs, all subsequent operations are no-ops that
// preserve the error.
//
// Returns the Record for method chaining.
func (r Record) Set(path string, value any) Record {
	if r.err != nil {
		return r
	}

	result, err := sjson.Set(r.str, path, value)
	if err != nil {
		return Record{str: r.str, err: fmt.Errorf("Set(%q): %w", path, err)}
	}
	return Record{str: result}
}

// Delete removes a value at the specified JSON path and returns a new Record
func (r Record) Delete(path string) Record {
	if r.err != nil {
		return r
	}

	result, err := sjson.Delete(r.str, path)
	if err != nil {
		return Record{str: r.str, err: fmt.Errorf("Delete(%q): %w", path, err)}
	}
	return Record{str: result}
}

// String returns the JSON string representation and any error encountered
// during building
func (r Record) String() (string, error) {
	return r.str, r.err
}

// Err returns any error that occurred during the building process
func (r Record) Err() error {
	return r.err
}

// Res returns the JSON string for further processing with gjson.
// Returns an empty string if an error occurred during building; use Err()
// or String() to check for errors.
func (r Record) Res() string {
	if r.err != nil {
		return ""
	}
	return r.str
}

// Bytes returns the JSON byte slice representation and any error
// encountered during building
func (r Record) Bytes() ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	return []byte(r.str), nil
}
