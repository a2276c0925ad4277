package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/rankstage/rankstage/internal/identity/entity"
)

// CreateUserWithCredential inserts the user row and its credential in one
// transaction so a failed credential insert never leaves an orphaned,
// password-less account.
func (s *DB) CreateUserWithCredential(ctx context.Context, user entity.NewUser, passwordHash string) (err error) {
	ctx, span := s.startSpan(ctx, "CreateUserWithCredential")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback", "error", rErr)
		}
	}()

	if _, err = tx.Exec(ctx, `
		INSERT INTO users (id, email, full_name, bio, location, avatar_url, role, status, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		user.ID,
		user.Email,
		user.FullName,
		user.Bio,
		user.Location,
		user.AvatarURL,
		int16(user.Role),
		int16(user.Status),
		user.CreatedBy,
		user.UpdatedBy,
	); err != nil {
		return s.mapError(err)
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO user_credentials (user_id, password)
		VALUES ($1, $2)`,
		user.ID,
		passwordHash,
	); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}
