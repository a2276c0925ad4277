package entity

import (
	"time"

	"github.com/rankstage/rankstage/internal/pkg/valueobject"
)

type CreateNotification struct {
	ID         int64
	UserID     int64
	TriggerKey TriggerKey
	Title      string
	Body       string
	Data       valueobject.JSONMap
}

// NotificationItem is a single inbox entry as read back from storage.
type NotificationItem struct {
	ID         int64
	TriggerKey TriggerKey
	Title      string
	Body       string
	Data       valueobject.JSONMap
	ReadAt     *time.Time
	CreatedAt  time.Time
}
