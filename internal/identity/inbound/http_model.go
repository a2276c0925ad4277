package inbound

import (
	"time"

	"github.com/rankstage/rankstage/internal/identity/entity"
)

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Bio      string `json:"bio,omitempty"`
	Location string `json:"location,omitempty"`
}

type SignupResponse struct{}

func (SignupResponse) Message() string {
	return "Account created. You can sign in now."
}

type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SigninResponse struct {
	AccessToken string `json:"access_token"`
	UserID      int64  `json:"user_id,string"`
	FullName    string `json:"full_name"`
	Role        string `json:"role"`
}

type PasswordChangeRequest struct {
	Email       string `json:"email"`
	RequestType string `json:"requestType"`
	NewPassword string `json:"new_password"`

	// reset-password proof
	CurrentPassword string `json:"current_password,omitempty"`

	// forgot-password proof
	OTP      string `json:"otp,omitempty"`
	OTPToken string `json:"otp_token,omitempty"`
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name"`
	Bio      string `json:"bio,omitempty"`
	Location string `json:"location,omitempty"`
}

type ProfilePermissionsResponse struct {
	Permissions map[string][]string `json:"permissions"`
}

type ProfileResponse struct {
	ID        int64  `json:"id,string"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Bio       string `json:"bio"`
	Location  string `json:"location"`
	AvatarURL string `json:"avatar_url"`
	Role      string `json:"role"`
	Status    string `json:"status"`
}

type UserResponse struct {
	ID        int64             `json:"id,string"`
	Email     string            `json:"email"`
	FullName  string            `json:"full_name"`
	AvatarURL string            `json:"avatar_url"`
	Role      string            `json:"role"`
	Status    entity.UserStatus `json:"status"`
	UpdateAt  time.Time         `json:"updated_at"`
}

type UserUpdateRoleRequest struct {
	Role string `json:"role"`
}

type UsersResponse struct {
	Users []UserResponse `json:"users"`
	// meta
	total int64
	size  int32
	page  int32
}

func (r UsersResponse) Meta() map[string]any {
	return map[string]any{
		"total": r.total,
		"size":  r.size,
		"page":  r.page,
	}
}

type UserDetailResponse struct {
	User UserResponse `json:"user"`
}
