package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/rankstage/rankstage/internal/identity/entity"
	"github.com/rankstage/rankstage/internal/pkg/goerror"
	"github.com/rankstage/rankstage/internal/pkg/hash"
)

// ErrOTPSecretMissing is returned when the challenge signing secret is not
// configured in the environment.
var ErrOTPSecretMissing = errors.New("identity: otp secret is not configured")

type OTPIssueInput struct {
	Email       string
	RequestType string
	Name        string
}

type OTPIssueOutput struct {
	Token string
	// ExpiresAt is milliseconds since the Unix epoch.
	ExpiresAt int64
}

// OTPIssue creates a stateless email verification challenge: a random
// six-digit code bound to the address with an HMAC, carried in a signed
// short-lived token. The code travels only by email; the token and expiry go
// back to the caller. Nothing is persisted.
func (s *Usecase) OTPIssue(ctx context.Context, in OTPIssueInput) (*OTPIssueOutput, error) {
	ctx, span := s.startSpan(ctx, "OTPIssue")
	defer span.End()

	// The address is trimmed but never case-folded: the binding hash and the
	// token carry it exactly as provided, and verification compares it
	// byte-for-byte.
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)

	if in.Email == "" || in.RequestType == "" {
		return nil, goerror.NewInvalidFormat("Email and request type are required")
	}

	reqType := entity.RequestType(in.RequestType)
	if !reqType.IsValid() {
		return nil, goerror.NewInvalidFormat("Unknown request type")
	}

	recipientName := in.Name
	if reqType.RequiresAccount() {
		// Account resolution stays forgiving about casing; only the
		// challenge binding is exact.
		user, err := s.repoDB.GetUserByEmail(ctx, strings.ToLower(in.Email), false)
		if errors.Is(err, goerror.ErrNotFound) {
			slog.WarnContext(ctx, "challenge requested for unknown account", "request_type", in.RequestType)
			return nil, goerror.NewBusiness("No account found for this email", goerror.CodeNotFound)
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo get user by email", "error", err)
			return nil, goerror.NewServer(err)
		}
		if strings.TrimSpace(user.FullName) == "" {
			slog.WarnContext(ctx, "challenge requested for unnamed account", "user_id", user.ID)
			return nil, goerror.NewBusiness("No account found for this email", goerror.CodeNotFound)
		}
		recipientName = user.FullName
	} else if recipientName == "" {
		return nil, goerror.NewInvalidFormat("Name is required to sign up")
	}

	secret := s.otpSecret()
	if secret == "" {
		slog.ErrorContext(ctx, "otp secret is not configured")
		return nil, goerror.NewServer(ErrOTPSecretMissing)
	}

	code, err := s.otpGen.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "error", err)
		return nil, goerror.NewServer(err)
	}

	otpHash, err := hash.NewHMACSHA256(secret).Hash(in.Email + ":" + code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp binding", "error", err)
		return nil, goerror.NewServer(err)
	}

	token, expiresAt, err := s.challenge.Generate([]byte(secret), in.Email, string(otpHash))
	if err != nil {
		slog.ErrorContext(ctx, "failed to sign challenge token", "error", err)
		return nil, goerror.NewServer(err)
	}

	// Delivery is synchronous: a token for a code the user never received
	// would be useless, so the whole request fails when the mail does.
	if err := s.repoMailer.SendVerificationCode(ctx, in.Email, recipientName, code); err != nil {
		slog.ErrorContext(ctx, "failed to send verification email", "error", err)
		return nil, goerror.NewDependencyFailure(err, "Failed to send verification email")
	}

	return &OTPIssueOutput{
		Token:     token,
		ExpiresAt: expiresAt.UnixMilli(),
	}, nil
}
