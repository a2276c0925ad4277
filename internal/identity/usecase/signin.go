package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/rankstage/rankstage/internal/pkg/goerror"
)

type SigninInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type SigninOutput struct {
	AccessToken string
	UserID      int64
	FullName    string
	Role        string
}

func (s *Usecase) Signin(ctx context.Context, in SigninInput) (*SigninOutput, error) {
	ctx, span := s.startSpan(ctx, "Signin")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	email := strings.TrimSpace(strings.ToLower(in.Email))
	user, err := s.repoDB.GetUserCredentialInfo(ctx, email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "email", email)
		return nil, goerror.NewBusiness("invalid email or password", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user credential info", "email", email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.ensureUserStatusAllowed(ctx, user.ID, user.Status); err != nil {
		return nil, err
	}

	if !s.bcrypt.Verify(user.Password, in.Password) {
		slog.WarnContext(ctx, "password user account not match", "user_id", user.ID)
		return nil, goerror.NewBusiness("invalid email or password", goerror.CodeUnauthorized)
	}

	acToken, err := s.jwt.Generate(user.ID, user.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access jwt token", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &SigninOutput{
		AccessToken: acToken,
		UserID:      user.ID,
		FullName:    user.FullName,
		Role:        user.Role.String(),
	}, nil
}
