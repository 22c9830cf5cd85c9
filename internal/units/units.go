package units

import (
	"errors"
	"fmt"
)

// ErrUnknownUnit is returned when a prefix symbol is not in the unit table.
var ErrUnknownUnit = errors.New("unknown unit prefix")

// Base is the identity symbol (no prefix).
const Base = ""

// prefixScales maps a unit-prefix symbol to its multiplicative scale.
var prefixScales = map[string]float64{
	"p": 1e-12, // pico
	"n": 1e-9,  // nano
	"u": 1e-6,  // micro
	"m": 1e-3,  // milli
	"":  1,     // none
	"k": 1e3,   // kilo
	"M": 1e6,   // mega
	"G": 1e9,   // giga
}

// symbolOrder lists the symbols by ascending scale.
var symbolOrder = []string{"p", "n", "u", "m", "", "k", "M", "G"}

// ScaleOf returns the scale factor for a prefix symbol.
func ScaleOf(symbol string) (float64, error) {
	scale, ok := prefixScales[symbol]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, symbol)
	}
	return scale, nil
}

// Symbols returns every recognized prefix symbol, smallest scale first.
func Symbols() []string {
	out := make([]string, len(symbolOrder))
	copy(out, symbolOrder)
	return out
}

// Validate reports whether symbol is a recognized prefix.
func Validate(symbol string) error {
	_, err := ScaleOf(symbol)
	return err
}
