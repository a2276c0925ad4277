package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/rankstage/rankstage/internal/identity/entity"
	"github.com/rankstage/rankstage/internal/pkg/goerror"
	"github.com/rankstage/rankstage/internal/pkg/idempotency"
)

type SignupInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,password"`
	FullName string `validate:"required,min=3,max=100,alphaspace"`
	Bio      string `validate:"omitempty,max=500"`
	Location string `validate:"omitempty,max=100"`
}

// Signup creates a new account. The email is expected to have been verified
// through the challenge workflow before the form is submitted, so the
// account starts active.
func (s *Usecase) Signup(ctx context.Context, in SignupInput) error {
	ctx, span := s.startSpan(ctx, "Signup")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	err := s.idemp.Exec(ctx, "identity:signup:"+in.Email, func(ctx context.Context) error {
		return s.signup(ctx, in)
	})
	if errors.Is(err, idempotency.ErrAlreadyInProgress) || errors.Is(err, idempotency.ErrAlreadyCompleted) {
		return goerror.NewBusiness("Email already registered", goerror.CodeConflict)
	}

	return err
}

func (s *Usecase) signup(ctx context.Context, in SignupInput) error {
	user, err := s.repoDB.GetUserByEmail(ctx, in.Email, true)
	if err == nil {
		switch user.Status {
		case entity.UserStatusActive:
			return goerror.NewBusiness("Email already registered", goerror.CodeConflict)
		case entity.UserStatusInactive:
			return goerror.NewBusiness("Account deactivated", goerror.CodeConflict)
		default:
			return goerror.NewBusiness("Account not allowed", goerror.CodeForbidden)
		}
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	hashedPassword, err := s.bcrypt.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return goerror.NewServer(err)
	}

	newUserID := s.uid.Generate()
	newUser := entity.NewUser{
		ID:        newUserID,
		CreatedBy: newUserID,
		UpdatedBy: newUserID,
		Email:     in.Email,
		FullName:  in.FullName,
		Bio:       strings.TrimSpace(in.Bio),
		Location:  strings.TrimSpace(in.Location),
		AvatarURL: "https://ui-avatars.com/api/?name=" + url.QueryEscape(in.FullName),
		Role:      entity.UserRoleUser,
		Status:    entity.UserStatusActive,
	}

	if err := s.repoDB.CreateUserWithCredential(ctx, newUser, string(hashedPassword)); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			return goerror.NewBusiness("Email already registered", goerror.CodeConflict)
		}
		slog.ErrorContext(ctx, "failed to repo create user", "email", newUser.Email, "error", err)
		return goerror.NewServer(err)
	}

	if _, err := s.enforcer.AddGroupingPolicy(strconv.FormatInt(newUser.ID, 10), entity.UserRoleUser.String()); err != nil {
		slog.ErrorContext(ctx, "failed to grant default role", "user_id", newUser.ID, "error", err)
	}

	if err := s.repoMessaging.PublishUserSignedUp(ctx, UserSignedUpEvent{
		UserID:   newUser.ID,
		Email:    newUser.Email,
		FullName: newUser.FullName,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish user signed up", "user_id", newUser.ID, "error", err)
	}

	return nil
}
