package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Generator defines the contract for producing one-time codes.
type Generator interface {
	// Generate creates a new numeric code.
	Generate() (string, error)
}

// Numeric implements Generator with uniformly random decimal codes of a
// fixed digit count.
type Numeric struct {
	digits int
}

// NewNumeric constructs a Numeric generator. Digit counts outside 4..10
// fall back to 6.
func NewNumeric(digits int) *Numeric {
	if digits < 4 || digits > 10 {
		digits = 6
	}

	return &Numeric{digits: digits}
}

// Generate returns a code with exactly n.digits decimal digits. The first
// digit is never zero, so a 6-digit code lies in [100000, 999999].
func (n *Numeric) Generate() (string, error) {
	min := int64(1)
	for range n.digits - 1 {
		min *= 10
	}
	span := min*10 - min // e.g. 900000 for 6 digits

	v, err := rand.Int(rand.Reader, big.NewInt(span))
	if err != nil {
		return "", fmt.Errorf("otp: read random: %w", err)
	}

	return fmt.Sprintf("%d", min+v.Int64()), nil
}
