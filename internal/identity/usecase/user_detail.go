package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rankstage/rankstage/internal/identity/entity"
	"github.com/rankstage/rankstage/internal/pkg/goerror"
	"github.com/rankstage/rankstage/internal/shared/constant"
)

type (
	UserDetailInput struct {
		ID int64 `validate:"required,gt=0"`
	}

	UserDetailOutput struct {
		User entity.User
	}
)

func (s *Usecase) UserDetail(ctx context.Context, in UserDetailInput) (*UserDetailOutput, error) {
	ctx, span := s.startSpan(ctx, "UserDetail")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if _, err := s.authenticatedAndAuthorized(ctx, constant.PermIdentityMgmtUsers, constant.PermActRead); err != nil {
		return nil, err
	}

	user, err := s.repoDB.GetUserByID(ctx, in.ID, true)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user not found", "user_id", in.ID)
		return nil, goerror.NewBusiness("user not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to get user by id", "user_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &UserDetailOutput{User: *user}, nil
}
