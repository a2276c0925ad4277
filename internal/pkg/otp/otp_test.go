package otp

import (
	"strconv"
	"testing"
)

func TestNumericGenerate(t *testing.T) {
	t.Run("ShouldProduceSixDigitCodesInRange", func(t *testing.T) {
		// Arrange
		gen := NewNumeric(6)

		for range 200 {
			// Act
			code, err := gen.Generate()

			// Assert
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(code) != 6 {
				t.Fatalf("expected 6 digits, got %q", code)
			}
			n, err := strconv.Atoi(code)
			if err != nil {
				t.Fatalf("expected numeric code, got %q", code)
			}
			if n < 100000 || n > 999999 {
				t.Fatalf("code %d outside [100000, 999999]", n)
			}
		}
	})

	t.Run("ShouldFallBackToSixDigitsOnBadConfig", func(t *testing.T) {
		// Arrange
		gen := NewNumeric(0)

		// Act
		code, err := gen.Generate()

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
	})

	t.Run("ShouldHonorOtherDigitCounts", func(t *testing.T) {
		// Arrange
		gen := NewNumeric(4)

		// Act
		code, err := gen.Generate()

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(code) != 4 {
			t.Fatalf("expected 4 digits, got %q", code)
		}
	})
}
