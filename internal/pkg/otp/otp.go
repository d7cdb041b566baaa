package otp

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand/v2"
	"strconv"
)

// OTP defines the contract for generating one-time passcodes.
type OTP interface {
	// Generate returns a new random passcode.
	Generate() string
}

// DefaultDigits is the passcode width used when NewNumeric receives an
// out-of-range value.
const DefaultDigits = 6

// Numeric generates fixed-width decimal passcodes.
//
// The first digit is never zero, so a 6-digit generator always produces a
// value in [100000, 999999] and the string width never collapses.
type Numeric struct {
	digits int
	low    int64
	span   int64
}

// NewNumeric constructs a Numeric generator producing codes of the given width.
//
// Widths outside [4, 10] fall back to DefaultDigits.
func NewNumeric(digits int) *Numeric {
	if digits < 4 || digits > 10 {
		digits = DefaultDigits
	}

	low := int64(1)
	for range digits - 1 {
		low *= 10
	}

	return &Numeric{
		digits: digits,
		low:    low,
		span:   9 * low,
	}
}

// Generate returns a new random passcode.
//
// It reads from crypto/rand and never fails: if the system entropy source is
// unavailable it degrades to math/rand/v2 rather than returning an error,
// since a passcode request must always yield a code.
func (o *Numeric) Generate() string {
	n, err := rand.Int(rand.Reader, big.NewInt(o.span))
	if err != nil {
		return strconv.FormatInt(o.low+mrand.Int64N(o.span), 10)
	}

	return strconv.FormatInt(o.low+n.Int64(), 10)
}
