package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/rankstage/rankstage/internal/identity/entity"
	"github.com/rankstage/rankstage/internal/pkg/goerror"
	"github.com/rankstage/rankstage/internal/pkg/hash"
)

func assertErrorCode(t *testing.T, err error, want goerror.Code) {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *goerror.Error, got %T: %v", err, err)
	}
	if gerr.Code() != want {
		t.Fatalf("expected code %s, got %s", want.String(), gerr.Code().String())
	}
}

func TestOTPIssue(t *testing.T) {
	ctx := context.Background()

	t.Run("SignUpSuccess", func(t *testing.T) {
		// Arrange
		fix := newChallengeFixture(testOTPSecret)
		in := OTPIssueInput{Email: "New.User@Example.com", RequestType: "sign-up", Name: "New User"}

		// Act
		out, err := fix.uc.OTPIssue(ctx, in)

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Token == "" {
			t.Fatal("expected a challenge token")
		}

		wantExpiry := fix.clk.now.Add(fix.challenge.TTL()).UnixMilli()
		if out.ExpiresAt != wantExpiry {
			t.Fatalf("expected expiresAt %d, got %d", wantExpiry, out.ExpiresAt)
		}

		if fix.mailer.sentEmail != "New.User@Example.com" {
			t.Fatalf("expected mail to the address as provided, got %q", fix.mailer.sentEmail)
		}
		if fix.mailer.sentName != "New User" {
			t.Fatalf("expected mail addressed to %q, got %q", "New User", fix.mailer.sentName)
		}
		if len(fix.mailer.sentCode) != 6 {
			t.Fatalf("expected a six digit code, got %q", fix.mailer.sentCode)
		}

		claims, err := fix.challenge.Verify([]byte(testOTPSecret), out.Token)
		if err != nil {
			t.Fatalf("issued token does not verify: %v", err)
		}
		if claims.Email != "New.User@Example.com" {
			t.Fatalf("expected claims bound to the email as provided, got %q", claims.Email)
		}

		binding, err := hash.NewHMACSHA256(testOTPSecret).Hash("New.User@Example.com:" + fix.mailer.sentCode)
		if err != nil {
			t.Fatalf("failed to compute binding: %v", err)
		}
		if claims.OTPHash != string(binding) {
			t.Fatal("token hash does not match the mailed code")
		}
	})

	t.Run("AccountBoundUsesStoredName", func(t *testing.T) {
		// Arrange
		fix := newChallengeFixture(testOTPSecret)
		fix.db.getUserByEmail = func(_ context.Context, email string, _ bool) (*entity.User, error) {
			return &entity.User{ID: 7, Email: email, FullName: "Stored Name"}, nil
		}
		in := OTPIssueInput{Email: "user@example.com", RequestType: "change-password", Name: "Ignored"}

		// Act
		out, err := fix.uc.OTPIssue(ctx, in)

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Token == "" {
			t.Fatal("expected a challenge token")
		}
		if fix.mailer.sentName != "Stored Name" {
			t.Fatalf("expected mail addressed to stored name, got %q", fix.mailer.sentName)
		}
	})

	t.Run("MissingEmail", func(t *testing.T) {
		// Arrange
		fix := newChallengeFixture(testOTPSecret)

		// Act
		_, err := fix.uc.OTPIssue(ctx, OTPIssueInput{RequestType: "sign-in"})

		// Assert
		assertErrorCode(t, err, goerror.CodeInvalidFormat)
	})

	t.Run("MissingRequestType", func(t *testing.T) {
		// Arrange
		fix := newChallengeFixture(testOTPSecret)

		// Act
		_, err := fix.uc.OTPIssue(ctx, OTPIssueInput{Email: "user@example.com"})

		// Assert
		assertErrorCode(t, err, goerror.CodeInvalidFormat)
	})

	t.Run("UnknownRequestType", func(t *testing.T) {
		// Arrange
		fix := newChallengeFixture(testOTPSecret)

		// Act
		_, err := fix.uc.OTPIssue(ctx, OTPIssueInput{Email: "user@example.com", RequestType: "mfa-enroll"})

		// Assert
		assertErrorCode(t, err, goerror.CodeInvalidFormat)
	})

	t.Run("SignUpWithoutName", func(t *testing.T) {
		// Arrange
		fix := newChallengeFixture(testOTPSecret)

		// Act
		_, err := fix.uc.OTPIssue(ctx, OTPIssueInput{Email: "user@example.com", RequestType: "sign-up"})

		// Assert
		assertErrorCode(t, err, goerror.CodeInvalidFormat)
	})

	t.Run("AccountBoundUnknownUser", func(t *testing.T) {
		// Arrange
		fix := newChallengeFixture(testOTPSecret)

		// Act
		_, err := fix.uc.OTPIssue(ctx, OTPIssueInput{Email: "ghost@example.com", RequestType: "sign-in"})

		// Assert
		assertErrorCode(t, err, goerror.CodeNotFound)
		if fix.mailer.sentCode != "" {
			t.Fatal("no mail should be sent for an unknown account")
		}
	})

	t.Run("AccountBoundUnnamedUser", func(t *testing.T) {
		// Arrange
		fix := newChallengeFixture(testOTPSecret)
		fix.db.getUserByEmail = func(_ context.Context, email string, _ bool) (*entity.User, error) {
			return &entity.User{ID: 7, Email: email, FullName: "   "}, nil
		}

		// Act
		_, err := fix.uc.OTPIssue(ctx, OTPIssueInput{Email: "user@example.com", RequestType: "change-password"})

		// Assert
		assertErrorCode(t, err, goerror.CodeNotFound)
	})

	t.Run("SecretNotConfigured", func(t *testing.T) {
		// Arrange
		fix := newChallengeFixture("")

		// Act
		_, err := fix.uc.OTPIssue(ctx, OTPIssueInput{Email: "user@example.com", RequestType: "sign-up", Name: "User"})

		// Assert
		if !errors.Is(err, ErrOTPSecretMissing) {
			t.Fatalf("expected ErrOTPSecretMissing, got %v", err)
		}
		assertErrorCode(t, err, goerror.CodeInternal)
	})

	t.Run("MailDeliveryFails", func(t *testing.T) {
		// Arrange
		fix := newChallengeFixture(testOTPSecret)
		fix.mailer.err = errors.New("smtp: connection refused")

		// Act
		_, err := fix.uc.OTPIssue(ctx, OTPIssueInput{Email: "user@example.com", RequestType: "sign-up", Name: "User"})

		// Assert
		assertErrorCode(t, err, goerror.CodeDependencyFailure)
	})
}
