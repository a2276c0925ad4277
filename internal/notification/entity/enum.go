package entity

// TriggerKey identifies the event that produced a notification.
type TriggerKey string

const (
	TriggerKeyUserWelcome     TriggerKey = "user_welcome"
	TriggerKeyPasswordChanged TriggerKey = "password_changed"
)

func (tk TriggerKey) String() string {
	return string(tk)
}

type NotificationStatus string

const (
	NotificationStatusAll    NotificationStatus = "all"
	NotificationStatusUnread NotificationStatus = "unread"
	NotificationStatusRead   NotificationStatus = "read"
)
