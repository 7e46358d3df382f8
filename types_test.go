// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package k2182

import (
	"errors"
	"math"
	"testing"
)

// TestBoolType_RoundTrip tests that booleans survive encode/decode in both directions
func TestBoolType_RoundTrip(t *testing.T) {
	b := BoolType{}

	for _, value := range []bool{true, false} {
		wire, err := b.Encode(value)
		if err != nil {
			t.Fatalf("Encode(%v) returned error: %v", value, err)
		}
		got, err := b.Decode(wire)
		if err != nil {
			t.Fatalf("Decode(%q) returned error: %v", wire, err)
		}
		if got != value {
			t.Errorf("Decode(Encode(%v)) = %v, want %v", value, got, value)
		}
	}
}

// TestBoolType_Encode tests the exact wire tokens
func TestBoolType_Encode(t *testing.T) {
	b := BoolType{}

	if wire, _ := b.Encode(true); wire != "1" {
		t.Errorf("Encode(true) = %q, want %q", wire, "1")
	}
	if wire, _ := b.Encode(false); wire != "0" {
		t.Errorf("Encode(false) = %q, want %q", wire, "0")
	}
}

// TestBoolType_DecodeInvalid tests that unexpected responses fail with ParseError
func TestBoolType_DecodeInvalid(t *testing.T) {
	b := BoolType{}

	for _, raw := range []string{"", "2", "ON", "true", "yes"} {
		_, err := b.Decode(raw)
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Errorf("Decode(%q) error = %v, want ParseError", raw, err)
		}
	}
}

// TestFloatType_Decode tests parsing of instrument numeric literals
func TestFloatType_Decode(t *testing.T) {
	f := FloatType{Min: -1e6, Max: 1e6}

	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{name: "scientific notation", raw: "1.5E+02", want: 150.0},
		{name: "negative scientific", raw: "-1.234E-05", want: -1.234e-5},
		{name: "plain decimal", raw: "42.5", want: 42.5},
		{name: "integer literal", raw: "10", want: 10},
		{name: "surrounding whitespace", raw: " 3.5 ", want: 3.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.Decode(tt.raw)
			if err != nil {
				t.Fatalf("Decode(%q) returned error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("Decode(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

// TestFloatType_DecodeInvalid tests that malformed text fails with ParseError
func TestFloatType_DecodeInvalid(t *testing.T) {
	f := FloatType{Min: 0, Max: 1}

	for _, raw := range []string{"", "abc", "1.2.3", "1,5"} {
		_, err := f.Decode(raw)
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Errorf("Decode(%q) error = %v, want ParseError", raw, err)
		}
	}
}

// TestFloatType_EncodeRange tests bound enforcement at encode time
func TestFloatType_EncodeRange(t *testing.T) {
	f := FloatType{Min: 0, Max: 999999.999}

	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{name: "lower bound inclusive", value: 0, wantErr: false},
		{name: "upper bound inclusive", value: 999999.999, wantErr: false},
		{name: "interior value", value: 150, wantErr: false},
		{name: "below minimum", value: -0.001, wantErr: true},
		{name: "above maximum", value: 1000000, wantErr: true},
		{name: "NaN", value: math.NaN(), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Encode(tt.value)
			var rerr *RangeError
			if tt.wantErr {
				if !errors.As(err, &rerr) {
					t.Errorf("Encode(%v) error = %v, want RangeError", tt.value, err)
				}
			} else if err != nil {
				t.Errorf("Encode(%v) returned error: %v", tt.value, err)
			}
		})
	}
}

// TestFloatType_RoundTrip tests decode(encode(x)) == x for in-range values
func TestFloatType_RoundTrip(t *testing.T) {
	f := FloatType{Min: -100e6, Max: 100e6}

	for _, value := range []float64{0, 150, -1.234e-5, 99999999.5, -100e6, 100e6} {
		wire, err := f.Encode(value)
		if err != nil {
			t.Fatalf("Encode(%v) returned error: %v", value, err)
		}
		got, err := f.Decode(wire)
		if err != nil {
			t.Fatalf("Decode(%q) returned error: %v", wire, err)
		}
		if got != value {
			t.Errorf("Decode(Encode(%v)) = %v via %q", value, got, wire)
		}
	}
}

// TestIntType tests the bounded integer codec
func TestIntType(t *testing.T) {
	i := IntType{Min: 1, Max: 1024}

	// Round trip over the full contract
	for _, value := range []int{1, 10, 1024} {
		wire, err := i.Encode(value)
		if err != nil {
			t.Fatalf("Encode(%d) returned error: %v", value, err)
		}
		got, err := i.Decode(wire)
		if err != nil {
			t.Fatalf("Decode(%q) returned error: %v", wire, err)
		}
		if got != value {
			t.Errorf("Decode(Encode(%d)) = %d", value, got)
		}
	}

	// Out of range fails with RangeError
	for _, value := range []int{0, 2000, -5} {
		_, err := i.Encode(value)
		var rerr *RangeError
		if !errors.As(err, &rerr) {
			t.Errorf("Encode(%d) error = %v, want RangeError", value, err)
		}
	}

	// Malformed text fails with ParseError
	_, err := i.Decode("4.5x")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Errorf("Decode(\"4.5x\") error = %v, want ParseError", err)
	}
}

// TestMappingType tests the bidirectional symbol/wire-token lookup
func TestMappingType(t *testing.T) {
	m := NewMapping(map[string]string{
		"immediate": "IMM",
		"timer":     "TIM",
		"manual":    "MAN",
		"bus":       "BUS",
		"external":  "EXT",
	})

	// Round trip for every declared symbol
	for _, sym := range []string{"immediate", "timer", "manual", "bus", "external"} {
		wire, err := m.Encode(sym)
		if err != nil {
			t.Fatalf("Encode(%q) returned error: %v", sym, err)
		}
		got, err := m.Decode(wire)
		if err != nil {
			t.Fatalf("Decode(%q) returned error: %v", wire, err)
		}
		if got != sym {
			t.Errorf("Decode(Encode(%q)) = %q", sym, got)
		}
	}

	// Specific wire tokens must be exact for instrument compatibility
	if wire, _ := m.Encode("timer"); wire != "TIM" {
		t.Errorf("Encode(\"timer\") = %q, want %q", wire, "TIM")
	}

	// Unknown symbol on encode
	_, err := m.Encode("network")
	var serr *UnknownSymbolError
	if !errors.As(err, &serr) {
		t.Fatalf("Encode(\"network\") error = %v, want UnknownSymbolError", err)
	}
	if serr.Symbol != "network" {
		t.Errorf("UnknownSymbolError.Symbol = %q, want %q", serr.Symbol, "network")
	}

	// Unknown wire token on decode
	_, err = m.Decode("XYZ")
	var terr *UnknownTokenError
	if !errors.As(err, &terr) {
		t.Fatalf("Decode(\"XYZ\") error = %v, want UnknownTokenError", err)
	}

	// Lookup is case-sensitive, no normalization
	if _, err := m.Encode("Timer"); err == nil {
		t.Error("Encode(\"Timer\") succeeded, want case-sensitive failure")
	}
	if _, err := m.Decode("tim"); err == nil {
		t.Error("Decode(\"tim\") succeeded, want case-sensitive failure")
	}
}

// TestSetType tests the discrete permitted-value set
func TestSetType(t *testing.T) {
	s := NewSet("MOV", "REP")

	// Identity for members
	for _, v := range []string{"MOV", "REP"} {
		if got, err := s.Encode(v); err != nil || got != v {
			t.Errorf("Encode(%q) = %q, %v, want identity", v, got, err)
		}
		if got, err := s.Decode(v); err != nil || got != v {
			t.Errorf("Decode(%q) = %q, %v, want identity", v, got, err)
		}
	}

	// Non-members fail with InvalidValueError on both sides
	var verr *InvalidValueError
	if _, err := s.Encode("AVG"); !errors.As(err, &verr) {
		t.Errorf("Encode(\"AVG\") error = %v, want InvalidValueError", err)
	}
	if _, err := s.Decode("mov"); !errors.As(err, &verr) {
		t.Errorf("Decode(\"mov\") error = %v, want InvalidValueError (case-sensitive)", err)
	}
}

// TestRegisterType tests status register decoding and encoding
func TestRegisterType(t *testing.T) {
	r := NewRegister(map[uint]string{
		0: "operation complete",
		5: "command error",
		7: "power on",
	})

	// 0b10100001 = 161: bits 0, 5 and 7 set
	flags, err := r.Decode("161")
	if err != nil {
		t.Fatalf("Decode(\"161\") returned error: %v", err)
	}
	want := map[string]bool{
		"operation complete": true,
		"command error":      true,
		"power on":           true,
	}
	for name, set := range want {
		if flags[name] != set {
			t.Errorf("Decode(\"161\")[%q] = %v, want %v", name, flags[name], set)
		}
	}

	// Encode folds the flags back
	wire, err := r.Encode(flags)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if wire != "161" {
		t.Errorf("Encode(Decode(\"161\")) = %q, want \"161\"", wire)
	}

	// Unknown flag name fails with UnknownSymbolError
	var serr *UnknownSymbolError
	if _, err := r.Encode(map[string]bool{"overheat": true}); !errors.As(err, &serr) {
		t.Errorf("Encode(unknown flag) error = %v, want UnknownSymbolError", err)
	}

	// Malformed register text fails with ParseError
	var perr *ParseError
	if _, err := r.Decode("xx"); !errors.As(err, &perr) {
		t.Errorf("Decode(\"xx\") error = %v, want ParseError", err)
	}
}
