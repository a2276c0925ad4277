package db

import (
	"context"

	"github.com/rankstage/rankstage/internal/identity/entity"
	"github.com/rankstage/rankstage/internal/pkg/goerror"
)

func (s *DB) UpdateUserProfile(ctx context.Context, in entity.UpdateProfile) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateUserProfile")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		UPDATE users
		SET full_name = $2, bio = $3, location = $4, updated_by = $1, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`,
		in.ID, in.FullName, in.Bio, in.Location,
	)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}

func (s *DB) UpdateUserAvatar(ctx context.Context, id int64, avatarURL string) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateUserAvatar")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		UPDATE users
		SET avatar_url = $2, updated_by = $1, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`,
		id, avatarURL,
	)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}

func (s *DB) UpdateUserCredential(ctx context.Context, userID int64, hash string) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateUserCredential")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		UPDATE user_credentials
		SET password = $2, updated_at = now()
		WHERE user_id = $1`,
		userID, hash,
	)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}

// UpdateUserRole is guarded by the old role so a concurrent reassignment
// loses instead of silently overwriting.
func (s *DB) UpdateUserRole(ctx context.Context, id int64, oldRole, newRole entity.UserRole) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateUserRole")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		UPDATE users
		SET role = $3, updated_at = now()
		WHERE id = $1 AND role = $2 AND deleted_at IS NULL`,
		id, int16(oldRole), int16(newRole),
	)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}

func (s *DB) MarkUserDeleted(ctx context.Context, id, byID int64) (err error) {
	ctx, span := s.startSpan(ctx, "MarkUserDeleted")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		UPDATE users
		SET status = $3, deleted_at = now(), deleted_by = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`,
		id, byID, int16(entity.UserStatusInactive),
	)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}
