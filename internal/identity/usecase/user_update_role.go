package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/rankstage/rankstage/internal/identity/entity"
	"github.com/rankstage/rankstage/internal/pkg/goerror"
	"github.com/rankstage/rankstage/internal/shared/constant"
)

type UserUpdateRoleInput struct {
	ID   int64  `validate:"required,gt=0"`
	Role string `validate:"required,oneof=user moderator admin"`
}

// UserUpdateRole reassigns a user's role and synchronizes the casbin
// grouping policy so the change takes effect without re-login on the
// authorization side.
func (s *Usecase) UserUpdateRole(ctx context.Context, in UserUpdateRoleInput) error {
	ctx, span := s.startSpan(ctx, "UserUpdateRole")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	clm, err := s.authenticatedAndAuthorized(ctx, constant.PermIdentityMgmtUsers, constant.PermActUpdate)
	if err != nil {
		return err
	}

	if clm.UserID == in.ID {
		return goerror.NewBusiness("cannot change own role", goerror.CodeForbidden)
	}

	user, err := s.repoDB.GetUserByID(ctx, in.ID, false)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user not found", "user_id", in.ID)
		return goerror.NewBusiness("user not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to get user by id", "user_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}

	newRole := entity.UserRoleFromString(in.Role)
	if user.Role == newRole {
		return nil
	}

	if err := s.repoDB.UpdateUserRole(ctx, user.ID, user.Role, newRole); err != nil {
		slog.ErrorContext(ctx, "failed to update user role", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	sub := strconv.FormatInt(user.ID, 10)
	if _, err := s.enforcer.RemoveGroupingPolicy(sub, user.Role.String()); err != nil {
		slog.ErrorContext(ctx, "failed to revoke old role", "user_id", user.ID, "error", err)
	}
	if _, err := s.enforcer.AddGroupingPolicy(sub, newRole.String()); err != nil {
		slog.ErrorContext(ctx, "failed to grant new role", "user_id", user.ID, "error", err)
	}

	return nil
}
