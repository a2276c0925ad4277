package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rankstage/rankstage/internal/notification/entity"
)

func (s *DB) ListNotifications(ctx context.Context, userID int64, status entity.NotificationStatus, limit, offset int32) (_ []entity.NotificationItem, err error) {
	ctx, span := s.startSpan(ctx, "ListNotifications")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT id, trigger_key, title, body, data, read_at, created_at
		FROM notifications
		WHERE user_id = $1 AND deleted_at IS NULL`

	switch status {
	case entity.NotificationStatusUnread:
		query += " AND read_at IS NULL"
	case entity.NotificationStatusRead:
		query += " AND read_at IS NOT NULL"
	}

	query += " ORDER BY created_at DESC LIMIT $2 OFFSET $3"

	rows, err := s.conn.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	items := make([]entity.NotificationItem, 0, limit)
	for rows.Next() {
		var (
			item    entity.NotificationItem
			readAt  pgtype.Timestamptz
			created pgtype.Timestamptz
		)
		if err = rows.Scan(&item.ID, &item.TriggerKey, &item.Title, &item.Body, &item.Data, &readAt, &created); err != nil {
			return nil, s.mapError(err)
		}
		item.ReadAt = timePtrFromPgTimestamptz(readAt)
		item.CreatedAt = created.Time
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return items, nil
}

func (s *DB) CountUnreadNotifications(ctx context.Context, userID int64) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "CountUnreadNotifications")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT COUNT(*) FROM notifications
		WHERE user_id = $1 AND read_at IS NULL AND deleted_at IS NULL`

	var count int64
	err = s.conn.QueryRow(ctx, query, userID).Scan(&count)

	return count, s.mapError(err)
}

func timePtrFromPgTimestamptz(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}

	tt := t.Time

	return &tt
}
