package event

const UserSignedUpDestination string = "user_signed_up"
const UserSignedUpConsumerNotification string = "user_signed_up_notification"

type UserSignedUpMessage struct {
	UserID   int64  `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}
