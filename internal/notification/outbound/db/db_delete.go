package db

import (
	"context"
)

func (s *DB) SoftDeleteNotification(ctx context.Context, userID, notificationID int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "SoftDeleteNotification")
	defer func() { s.endSpan(span, err) }()

	query := `UPDATE notifications SET deleted_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

	tag, err := s.conn.Exec(ctx, query, notificationID, userID)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() == 1, nil
}
