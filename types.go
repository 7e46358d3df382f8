// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package k2182

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Codec converts between native Go values and the instrument's textual
// wire representation.
//
// Codecs are pure: they never perform I/O and never retain state. Decode
// turns a single-line instrument response into a native value; Encode
// turns a native value into the argument text of a write command,
// enforcing the declared domain constraints (numeric bounds, permitted
// symbol sets) before anything reaches the wire.
//
// For every value accepted by a codec, Decode(Encode(v)) == v and
// Encode(Decode(s)) produces an equivalent wire literal (floats up to
// formatting normalization).
type Codec[T any] interface {
	// Decode parses instrument response text into a native value
	Decode(raw string) (T, error)

	// Encode formats a native value as write-command argument text
	Encode(value T) (string, error)
}

// BoolType encodes booleans using the instrument's "1"/"0" wire tokens.
type BoolType struct{}

// Decode maps "1" to true and "0" to false, failing with ParseError on
// any other response text
func (BoolType) Decode(raw string) (bool, error) {
	switch strings.TrimSpace(raw) {
	case "1":
		return true, nil
	case "0":
		return false, nil
	}
	return false, &ParseError{Raw: raw, Want: "boolean 0/1"}
}

// Encode maps true to "1" and false to "0"
func (BoolType) Encode(value bool) (string, error) {
	if value {
		return "1", nil
	}
	return "0", nil
}

// FloatType is a floating-point value bounded to [Min, Max].
//
// Decode does not range-check: the instrument is trusted to answer within
// its own documented limits. Encode rejects out-of-range values with a
// RangeError before any command is issued.
type FloatType struct {
	// Min is the inclusive lower bound enforced on encode
	Min float64

	// Max is the inclusive upper bound enforced on encode
	Max float64
}

// UnboundedFloat returns a FloatType that accepts any finite value.
//
// Used for query-only measurement commands where no write bound applies.
func UnboundedFloat() FloatType {
	return FloatType{Min: math.Inf(-1), Max: math.Inf(1)}
}

// Decode parses the response as a floating-point number
func (t FloatType) Decode(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &ParseError{Raw: raw, Want: "float"}
	}
	return v, nil
}

// Encode formats the value as a SCPI numeric literal, failing with
// RangeError if it falls outside [Min, Max]
func (t FloatType) Encode(value float64) (string, error) {
	if math.IsNaN(value) || value < t.Min || value > t.Max {
		return "", &RangeError{Value: value, Min: t.Min, Max: t.Max}
	}
	return strconv.FormatFloat(value, 'G', -1, 64), nil
}

// IntType is an integral value bounded to [Min, Max].
//
// Same contract as FloatType: decode trusts the instrument, encode
// enforces the bounds.
type IntType struct {
	// Min is the inclusive lower bound enforced on encode
	Min int

	// Max is the inclusive upper bound enforced on encode
	Max int
}

// Decode parses the response as a decimal integer
func (t IntType) Decode(raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &ParseError{Raw: raw, Want: "integer"}
	}
	return v, nil
}

// Encode formats the value as a decimal literal, failing with RangeError
// if it falls outside [Min, Max]
func (t IntType) Encode(value int) (string, error) {
	if value < t.Min || value > t.Max {
		return "", &RangeError{Value: float64(value), Min: float64(t.Min), Max: float64(t.Max)}
	}
	return strconv.Itoa(value), nil
}

// MappingType is a bidirectional, case-sensitive lookup between symbolic
// values used in Go code and the exact wire tokens the instrument expects.
//
// Example:
//
//	source := k2182.NewMapping(map[string]string{
//	    "immediate": "IMM",
//	    "timer":     "TIM",
//	})
//	arg, _ := source.Encode("timer") // "TIM"
//	sym, _ := source.Decode("IMM")   // "immediate"
type MappingType struct {
	symbols map[string]string // symbol -> wire token
	tokens  map[string]string // wire token -> symbol
}

// NewMapping creates a MappingType from a symbol-to-wire-token map
func NewMapping(symbols map[string]string) MappingType {
	tokens := make(map[string]string, len(symbols))
	for sym, tok := range symbols {
		tokens[tok] = sym
	}
	return MappingType{symbols: symbols, tokens: tokens}
}

// Decode looks up the wire token and returns the corresponding symbol,
// failing with UnknownTokenError if the token is not declared.
// Lookup is exact; no case folding or whitespace normalization beyond
// trimming the line terminator.
func (t MappingType) Decode(raw string) (string, error) {
	tok := strings.TrimSpace(raw)
	sym, ok := t.tokens[tok]
	if !ok {
		return "", &UnknownTokenError{Token: tok, Known: sortedKeys(t.tokens)}
	}
	return sym, nil
}

// Encode looks up the symbol and returns the corresponding wire token,
// failing with UnknownSymbolError if the symbol is not declared
func (t MappingType) Encode(value string) (string, error) {
	tok, ok := t.symbols[value]
	if !ok {
		return "", &UnknownSymbolError{Symbol: value, Allowed: sortedKeys(t.symbols)}
	}
	return tok, nil
}

// SetType is a discrete set of permitted values that travel on the wire
// unchanged. Decode and encode are identity with membership validation;
// anything outside the set fails with InvalidValueError.
type SetType struct {
	allowed map[string]struct{}
}

// NewSet creates a SetType from the permitted values
func NewSet(values ...string) SetType {
	allowed := make(map[string]struct{}, len(values))
	for _, v := range values {
		allowed[v] = struct{}{}
	}
	return SetType{allowed: allowed}
}

// Decode validates membership and passes the value through unchanged
func (t SetType) Decode(raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if _, ok := t.allowed[v]; !ok {
		return "", &InvalidValueError{Value: v, Allowed: t.values()}
	}
	return v, nil
}

// Encode validates membership and passes the value through unchanged
func (t SetType) Encode(value string) (string, error) {
	if _, ok := t.allowed[value]; !ok {
		return "", &InvalidValueError{Value: value, Allowed: t.values()}
	}
	return value, nil
}

func (t SetType) values() []string {
	vals := make([]string, 0, len(t.allowed))
	for v := range t.allowed {
		vals = append(vals, v)
	}
	sort.Strings(vals)
	return vals
}

// RegisterType decodes an 8-bit status register into a map of named flags
// and encodes the map back into the register's decimal wire form.
//
// Bits without a declared name are ignored on decode and cannot be set on
// encode. Used for the IEC 60488 status byte and standard event status
// register.
type RegisterType struct {
	bits  map[uint]string // bit position -> flag name
	names map[string]uint // flag name -> bit position
}

// NewRegister creates a RegisterType from a bit-position-to-name map
func NewRegister(bits map[uint]string) RegisterType {
	names := make(map[string]uint, len(bits))
	for bit, name := range bits {
		names[name] = bit
	}
	return RegisterType{bits: bits, names: names}
}

// Decode parses the decimal register value and returns the state of every
// named flag
func (t RegisterType) Decode(raw string) (map[string]bool, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return nil, &ParseError{Raw: raw, Want: "register integer"}
	}
	flags := make(map[string]bool, len(t.bits))
	for bit, name := range t.bits {
		flags[name] = v&(1<<bit) != 0
	}
	return flags, nil
}

// Encode folds the named flags back into the register's decimal form,
// failing with UnknownSymbolError on a flag name the register does not
// declare
func (t RegisterType) Encode(flags map[string]bool) (string, error) {
	var v int64
	for name, set := range flags {
		bit, ok := t.names[name]
		if !ok {
			return "", &UnknownSymbolError{Symbol: name, Allowed: sortedKeys(t.names)}
		}
		if set {
			v |= 1 << bit
		}
	}
	return strconv.FormatInt(v, 10), nil
}

// sortedKeys returns the map keys in sorted order for stable error messages
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
