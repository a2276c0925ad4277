package usecase

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"

	"github.com/rankstage/rankstage/internal/pkg/goerror"
	"github.com/rankstage/rankstage/internal/pkg/hash"
)

type OTPVerifyInput struct {
	Email string
	OTP   string
	Token string
}

type OTPVerifyOutput struct {
	Valid bool
}

// OTPVerify checks a submitted code against a challenge token. A failed
// signature, an expired token, an email mismatch, or a wrong code all come
// back as Valid=false; the check itself succeeding is not an error. The
// check is pure, so the same triple verifies identically until the token
// expires.
func (s *Usecase) OTPVerify(ctx context.Context, in OTPVerifyInput) (*OTPVerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "OTPVerify")
	defer span.End()

	// Trim only. The comparison against the token's email claim and the
	// binding hash is exact, casing included.
	in.Email = strings.TrimSpace(in.Email)

	if in.Email == "" || in.OTP == "" || in.Token == "" {
		return nil, goerror.NewInvalidFormat("Email, OTP and token are required")
	}

	secret := s.otpSecret()
	if secret == "" {
		slog.ErrorContext(ctx, "otp secret is not configured")
		return nil, goerror.NewServer(ErrOTPSecretMissing)
	}

	claims, err := s.challenge.Verify([]byte(secret), in.Token)
	if err != nil {
		// Expired or tampered tokens are a negative answer, not a failure.
		slog.WarnContext(ctx, "challenge token rejected", "reason", err)
		return &OTPVerifyOutput{Valid: false}, nil
	}

	if claims.Email != in.Email {
		slog.WarnContext(ctx, "challenge token bound to a different email")
		return &OTPVerifyOutput{Valid: false}, nil
	}

	expected, err := hash.NewHMACSHA256(secret).Hash(in.Email + ":" + in.OTP)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp binding", "error", err)
		return nil, goerror.NewServer(err)
	}

	valid := subtle.ConstantTimeCompare(expected, []byte(claims.OTPHash)) == 1

	return &OTPVerifyOutput{Valid: valid}, nil
}
