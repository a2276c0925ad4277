package inbound

import (
	"time"

	"github.com/rankstage/rankstage/internal/pkg/valueobject"
)

type NotificationResponse struct {
	ID         int64               `json:"id,string"`
	TriggerKey string              `json:"trigger_key"`
	Title      string              `json:"title"`
	Body       string              `json:"body"`
	Data       valueobject.JSONMap `json:"data"`
	ReadAt     *time.Time          `json:"read_at,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

type NotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Unread        int64                  `json:"unread"`
}
