package entity

import (
	"time"
)

type User struct {
	ID        int64
	Email     string
	FullName  string
	Bio       string
	Location  string
	AvatarURL string
	Role      UserRole
	Status    UserStatus
	UpdatedAt time.Time
	DeletedAt *time.Time
}

type UserCredentialInfo struct {
	ID       int64
	Email    string
	FullName string
	Role     UserRole
	Status   UserStatus
	Password string
}

type NewUser struct {
	ID        int64
	Email     string
	FullName  string
	Bio       string
	Location  string
	AvatarURL string
	Role      UserRole
	Status    UserStatus
	CreatedBy int64
	UpdatedBy int64
}

type UpdateProfile struct {
	ID       int64
	FullName string
	Bio      string
	Location string
}

type UserListFilterData struct {
	IsFilterBySearch bool
	IsFilterByStatus bool
	IsFilterByRole   bool
	Search           string
	Statuses         []int16
	Role             UserRole
	DateFrom         time.Time
	DateTo           time.Time
	Size             int32
	Page             int32
	OrderBy          string
	OrderDirection   string
}
