package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rankstage/rankstage/internal/pkg/goerror"
)

// issueChallenge runs the issuer and returns the token plus the code that was
// mailed, so verifier tests exercise the real pairing.
func issueChallenge(t *testing.T, fix *challengeFixture, email string) (token, code string) {
	t.Helper()

	out, err := fix.uc.OTPIssue(context.Background(), OTPIssueInput{
		Email:       email,
		RequestType: "sign-up",
		Name:        "Verify Tester",
	})
	if err != nil {
		t.Fatalf("failed to issue challenge: %v", err)
	}

	return out.Token, fix.mailer.sentCode
}

func TestOTPVerify(t *testing.T) {
	ctx := context.Background()

	t.Run("RoundTrip", func(t *testing.T) {
		// Arrange
		fix := newChallengeFixture(testOTPSecret)
		token, code := issueChallenge(t, fix, "user@example.com")

		// Act
		out, err := fix.uc.OTPVerify(ctx, OTPVerifyInput{Email: "user@example.com", OTP: code, Token: token})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !out.Valid {
			t.Fatal("expected the issued code to verify")
		}
	})

	t.Run("RepeatableUntilExpiry", func(t *testing.T) {
		// Arrange
		fix := newChallengeFixture(testOTPSecret)
		token, code := issueChallenge(t, fix, "user@example.com")
		in := OTPVerifyInput{Email: "user@example.com", OTP: code, Token: token}

		// Act
		first, err1 := fix.uc.OTPVerify(ctx, in)
		second, err2 := fix.uc.OTPVerify(ctx, in)

		// Assert
		if err1 != nil || err2 != nil {
			t.Fatalf("unexpected errors: %v, %v", err1, err2)
		}
		if !first.Valid || !second.Valid {
			t.Fatal("a stateless check must give the same answer twice")
		}
	})

	t.Run("WrongCode", func(t *testing.T) {
		// Arrange
		fix := newChallengeFixture(testOTPSecret)
		token, code := issueChallenge(t, fix, "user@example.com")
		wrong := "123456"
		if wrong == code {
			wrong = "654321"
		}

		// Act
		out, err := fix.uc.OTPVerify(ctx, OTPVerifyInput{Email: "user@example.com", OTP: wrong, Token: token})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Valid {
			t.Fatal("a wrong code must not verify")
		}
	})

	t.Run("EmailMismatch", func(t *testing.T) {
		// Arrange
		fix := newChallengeFixture(testOTPSecret)
		token, code := issueChallenge(t, fix, "user@example.com")

		// Act
		out, err := fix.uc.OTPVerify(ctx, OTPVerifyInput{Email: "other@example.com", OTP: code, Token: token})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Valid {
			t.Fatal("a token bound to another email must not verify")
		}
	})

	t.Run("EmailComparisonIsCaseSensitive", func(t *testing.T) {
		// Arrange
		fix := newChallengeFixture(testOTPSecret)
		token, code := issueChallenge(t, fix, "User@Example.com")

		// Act
		differentCase, err1 := fix.uc.OTPVerify(ctx, OTPVerifyInput{Email: "uSER@eXAMPLE.COM", OTP: code, Token: token})
		exactCase, err2 := fix.uc.OTPVerify(ctx, OTPVerifyInput{Email: "User@Example.com", OTP: code, Token: token})

		// Assert
		if err1 != nil || err2 != nil {
			t.Fatalf("unexpected errors: %v, %v", err1, err2)
		}
		if differentCase.Valid {
			t.Fatal("the email must match exactly as provided, casing included")
		}
		if !exactCase.Valid {
			t.Fatal("the exact address the token was issued for must verify")
		}
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		// Arrange
		fix := newChallengeFixture(testOTPSecret)
		token, code := issueChallenge(t, fix, "user@example.com")
		fix.clk.now = fix.clk.now.Add(fix.challenge.TTL() + time.Minute)

		// Act
		out, err := fix.uc.OTPVerify(ctx, OTPVerifyInput{Email: "user@example.com", OTP: code, Token: token})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Valid {
			t.Fatal("an expired token must not verify")
		}
	})

	t.Run("GarbageToken", func(t *testing.T) {
		// Arrange
		fix := newChallengeFixture(testOTPSecret)

		// Act
		out, err := fix.uc.OTPVerify(ctx, OTPVerifyInput{Email: "user@example.com", OTP: "123456", Token: "not-a-jwt"})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Valid {
			t.Fatal("a malformed token must not verify")
		}
	})

	t.Run("TokenSignedWithOtherSecret", func(t *testing.T) {
		// Arrange
		other := newChallengeFixture("a-different-secret")
		token, code := issueChallenge(t, other, "user@example.com")
		fix := newChallengeFixture(testOTPSecret)

		// Act
		out, err := fix.uc.OTPVerify(ctx, OTPVerifyInput{Email: "user@example.com", OTP: code, Token: token})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Valid {
			t.Fatal("a token signed with another secret must not verify")
		}
	})

	t.Run("MissingFields", func(t *testing.T) {
		// Arrange
		fix := newChallengeFixture(testOTPSecret)

		// Act
		_, err := fix.uc.OTPVerify(ctx, OTPVerifyInput{Email: "user@example.com", OTP: "123456"})

		// Assert
		assertErrorCode(t, err, goerror.CodeInvalidFormat)
	})

	t.Run("SecretNotConfigured", func(t *testing.T) {
		// Arrange
		fix := newChallengeFixture("")

		// Act
		_, err := fix.uc.OTPVerify(ctx, OTPVerifyInput{Email: "user@example.com", OTP: "123456", Token: "whatever"})

		// Assert
		if !errors.Is(err, ErrOTPSecretMissing) {
			t.Fatalf("expected ErrOTPSecretMissing, got %v", err)
		}
	})
}
