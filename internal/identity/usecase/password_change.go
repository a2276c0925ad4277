package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"

	"github.com/rankstage/rankstage/internal/pkg/goerror"
	"github.com/rankstage/rankstage/internal/pkg/hash"
)

type PasswordChangeInput struct {
	Email       string `validate:"required,email"`
	RequestType string `validate:"required,oneof=reset-password forgot-password"`
	NewPassword string `validate:"required,password"`

	// CurrentPassword authorizes a reset-password request.
	CurrentPassword string
	// OTP and OTPToken authorize a forgot-password request through the
	// email challenge workflow.
	OTP      string
	OTPToken string
}

// PasswordChange replaces a user's password. A reset-password request proves
// identity with the current password; a forgot-password request proves it
// with a verified email challenge.
func (s *Usecase) PasswordChange(ctx context.Context, in PasswordChangeInput) error {
	ctx, span := s.startSpan(ctx, "PasswordChange")
	defer span.End()

	// The challenge binding compares the address exactly as provided, so the
	// lowercased form is only for the account lookup.
	in.Email = strings.TrimSpace(in.Email)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	user, err := s.repoDB.GetUserCredentialInfo(ctx, strings.ToLower(in.Email))
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found for password change")
		return goerror.NewBusiness("No account found for this email", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user credential info", "error", err)
		return goerror.NewServer(err)
	}

	if err := s.ensureUserStatusAllowed(ctx, user.ID, user.Status); err != nil {
		return err
	}

	switch in.RequestType {
	case "reset-password":
		if in.CurrentPassword == "" {
			return goerror.NewInvalidInput(nil, "current_password", "current password is required")
		}
		if !s.bcrypt.Verify(user.Password, in.CurrentPassword) {
			slog.WarnContext(ctx, "current password mismatch", "user_id", user.ID)
			return goerror.NewBusiness("invalid password", goerror.CodeUnauthorized)
		}

	case "forgot-password":
		if err := s.verifyChallenge(ctx, in.Email, in.OTP, in.OTPToken); err != nil {
			return err
		}
	}

	newHash, err := s.bcrypt.Hash(in.NewPassword)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash new password", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.UpdateUserCredential(ctx, user.ID, string(newHash)); err != nil {
		slog.ErrorContext(ctx, "failed to update user password", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoMessaging.PublishPasswordChanged(ctx, PasswordChangedEvent{
		UserID: user.ID,
		Email:  user.Email,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish password changed", "user_id", user.ID, "error", err)
	}

	return nil
}

// verifyChallenge re-runs the email challenge binding check server-side so a
// forgot-password request cannot skip verification by tampering with the
// client.
func (s *Usecase) verifyChallenge(ctx context.Context, email, code, token string) error {
	if code == "" || token == "" {
		return goerror.NewInvalidInput(nil, "otp", "verification code and token are required")
	}

	secret := s.otpSecret()
	if secret == "" {
		slog.ErrorContext(ctx, "otp secret is not configured")
		return goerror.NewServer(ErrOTPSecretMissing)
	}

	claims, err := s.challenge.Verify([]byte(secret), token)
	if err != nil {
		slog.WarnContext(ctx, "challenge token rejected", "reason", err)
		return goerror.NewBusiness("verification code is invalid or expired", goerror.CodeUnauthorized)
	}

	if claims.Email != email {
		return goerror.NewBusiness("verification code is invalid or expired", goerror.CodeUnauthorized)
	}

	expected, err := hash.NewHMACSHA256(secret).Hash(email + ":" + code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp binding", "error", err)
		return goerror.NewServer(err)
	}

	if subtle.ConstantTimeCompare(expected, []byte(claims.OTPHash)) != 1 {
		return goerror.NewBusiness("verification code is invalid or expired", goerror.CodeUnauthorized)
	}

	return nil
}
