package db

import (
	"context"
)

func (s *DB) MarkNotificationRead(ctx context.Context, userID, notificationID int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "MarkNotificationRead")
	defer func() { s.endSpan(span, err) }()

	query := `UPDATE notifications SET read_at = NOW()
		WHERE id = $1 AND user_id = $2 AND read_at IS NULL AND deleted_at IS NULL`

	tag, err := s.conn.Exec(ctx, query, notificationID, userID)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() == 1, nil
}

func (s *DB) MarkNotificationsReadAll(ctx context.Context, userID int64) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "MarkNotificationsReadAll")
	defer func() { s.endSpan(span, err) }()

	query := `UPDATE notifications SET read_at = NOW()
		WHERE user_id = $1 AND read_at IS NULL AND deleted_at IS NULL`

	tag, err := s.conn.Exec(ctx, query, userID)
	if err != nil {
		return 0, s.mapError(err)
	}

	return tag.RowsAffected(), nil
}
