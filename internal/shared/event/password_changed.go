package event

const PasswordChangedDestination string = "user_password_changed"
const PasswordChangedConsumerNotification string = "user_password_changed_notification"

type PasswordChangedMessage struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}
