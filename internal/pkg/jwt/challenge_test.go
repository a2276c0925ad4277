package jwt

import (
	"errors"
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func TestChallengeGenerateVerify(t *testing.T) {
	secret := []byte("challenge-secret")
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	t.Run("ShouldRoundTripClaims", func(t *testing.T) {
		// Arrange
		clk := &fakeClock{now: base}
		ch := NewChallenge(10*time.Minute, clk)

		// Act
		token, expiresAt, err := ch.Generate(secret, "ada@example.com", "abc123")

		// Assert
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got, want := expiresAt, base.Add(10*time.Minute); !got.Equal(want) {
			t.Fatalf("expected expiry %v, got %v", want, got)
		}

		claims, err := ch.Verify(secret, token)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if claims.Email != "ada@example.com" {
			t.Fatalf("expected email to round trip, got %q", claims.Email)
		}
		if claims.OTPHash != "abc123" {
			t.Fatalf("expected otp hash to round trip, got %q", claims.OTPHash)
		}
	})

	t.Run("ShouldRejectExpiredToken", func(t *testing.T) {
		// Arrange
		clk := &fakeClock{now: base}
		ch := NewChallenge(10*time.Minute, clk)
		token, _, err := ch.Generate(secret, "ada@example.com", "abc123")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		// Act
		clk.now = base.Add(10*time.Minute + time.Second)
		_, err = ch.Verify(secret, token)

		// Assert
		if !errors.Is(err, ErrTokenExpired) {
			t.Fatalf("expected ErrTokenExpired, got %v", err)
		}
	})

	t.Run("ShouldRejectWrongSecret", func(t *testing.T) {
		// Arrange
		clk := &fakeClock{now: base}
		ch := NewChallenge(10*time.Minute, clk)
		token, _, err := ch.Generate(secret, "ada@example.com", "abc123")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		// Act
		_, err = ch.Verify([]byte("another-secret"), token)

		// Assert
		if err == nil {
			t.Fatal("expected verification to fail")
		}
	})

	t.Run("ShouldRejectGarbageToken", func(t *testing.T) {
		// Arrange
		ch := NewChallenge(10*time.Minute, &fakeClock{now: base})

		// Act
		_, err := ch.Verify(secret, "not.a.token")

		// Assert
		if err == nil {
			t.Fatal("expected verification to fail")
		}
	})

	t.Run("ShouldDefaultTTLWhenZero", func(t *testing.T) {
		// Arrange + Act
		ch := NewChallenge(0, &fakeClock{now: base})

		// Assert
		if ch.TTL() != 10*time.Minute {
			t.Fatalf("expected 10m default, got %v", ch.TTL())
		}
	})
}
