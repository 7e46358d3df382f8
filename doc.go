// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

// Package k2182 provides a typed driver for the Keithley 2182/2182A
// nanovoltmeter speaking its SCPI command dialect.
//
// The library maps the instrument's command tree onto typed command groups
// (trigger, sense, output, system, unit, plus the IEC 60488-2 common
// commands) and a handful of high-level measurement actions. Every
// attribute read or write is a single synchronous round trip on an
// injected connection; value parsing, range checks and enum validation
// happen in pure codecs before anything touches the wire.
//
// # Quick Start
//
// Create a client and perform basic operations:
//
//	client, err := k2182.NewClient(
//	    "10.0.0.5",
//	    k2182.OperationTimeout(5*time.Second),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	ctx := context.Background()
//
//	// Single-shot measurement
//	v, err := client.Read(ctx) // issues ":READ?"
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%g V\n", v)
//
//	// Typed attribute access
//	err = client.Trigger.SetSource(ctx, k2182.SourceTimer) // ":TRIG:SOUR TIM"
//	gain, err := client.Output.Gain(ctx)                   // "OUTP:GAIN?"
//
// # Validation
//
// Writes validate before any command is issued: numeric attributes
// enforce the instrument's documented bounds (RangeError), enumerated
// attributes enforce the declared symbol sets (UnknownSymbolError). A
// failed validation guarantees no wire traffic.
//
//	err = client.SetSampleCount(ctx, 2000)
//	// RangeError: value 2000 out of range [1, 1024]; nothing was sent
//
// # Transport
//
// The default transport is SCPI over a raw TCP socket (port 5025),
// dialed lazily on first use. Any transport implementing the Connection
// interface can be injected instead:
//
//	client, _ := k2182.NewClient("", k2182.WithConnection(myBridge))
//
// Transport failures surface as TransportError and are never retried;
// retry policy belongs to the caller.
//
// # Concurrency
//
// The driver is synchronous by design. The TCP connection serializes
// round trips so one client's command groups can share it, but
// arbitrating access between independent callers is out of scope.
//
// # References
//
//   - Keithley Model 2182/2182A User's Manual (SCPI command reference)
//   - IEC 60488-2:2004(E) common commands
//   - gjson: https://github.com/tidwall/gjson
//   - sjson: https://github.com/tidwall/sjson
package k2182
