package entity

import (
	"strconv"
)

type UserStatus int16

const (
	// UserStatusUnknown is mean status is not known / not set.
	UserStatusUnknown UserStatus = 0

	// UserStatusActive mean user is verified and allowed to use the app.
	UserStatusActive UserStatus = 1

	// UserStatusBanned mean user is blocked from using the app (policy/abuse/etc).
	UserStatusBanned UserStatus = 2

	// UserStatusInactive mean user is not currently active (e.g., deactivated, closed).
	UserStatusInactive UserStatus = 3
)

func (us UserStatus) String() string {
	switch us {
	case UserStatusActive:
		return "Active"
	case UserStatusBanned:
		return "Banned"
	case UserStatusInactive:
		return "Inactive"
	default:
		return "Unknown"
	}
}

func (us UserStatus) IsUnknown() bool {
	switch us {
	case UserStatusActive, UserStatusBanned, UserStatusInactive:
		return false
	default:
		return true
	}
}

func (us UserStatus) Ensure() UserStatus {
	switch us {
	case UserStatusActive:
		return UserStatusActive
	case UserStatusBanned:
		return UserStatusBanned
	case UserStatusInactive:
		return UserStatusInactive
	default:
		return UserStatusUnknown
	}
}

func ParseSafeUserStatuses(raws []string) []UserStatus {
	out := make([]UserStatus, 0)
	seen := map[UserStatus]struct{}{}

	for _, v := range raws {
		n, err := strconv.ParseInt(v, 10, 16)
		if err != nil {
			continue
		}

		s := UserStatus(n)
		if s.IsUnknown() {
			continue
		}

		if _, ok := seen[s]; ok {
			continue
		}

		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}

func ToInt16Slice(sts []UserStatus) []int16 {
	out := make([]int16, len(sts))
	for i, s := range sts {
		out[i] = int16(s)
	}
	return out
}

type UserRole int16

const (
	UserRoleUnknown   UserRole = 0
	UserRoleUser      UserRole = 1
	UserRoleModerator UserRole = 2
	UserRoleAdmin     UserRole = 3
)

func UserRoleFromString(str string) UserRole {
	switch str {
	case "user":
		return UserRoleUser
	case "moderator":
		return UserRoleModerator
	case "admin":
		return UserRoleAdmin
	default:
		return UserRoleUnknown
	}
}

func (r UserRole) String() string {
	switch r {
	case UserRoleUser:
		return "user"
	case UserRoleModerator:
		return "moderator"
	case UserRoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

func (r UserRole) IsKnown() bool {
	return r == UserRoleUser || r == UserRoleModerator || r == UserRoleAdmin
}

// RequestType labels what an email verification challenge is for. The
// issuer applies different preconditions per type.
type RequestType string

const (
	RequestTypeSignUp         RequestType = "sign-up"
	RequestTypeSignIn         RequestType = "sign-in"
	RequestTypeChangePassword RequestType = "change-password"
)

func (rt RequestType) IsValid() bool {
	switch rt {
	case RequestTypeSignUp, RequestTypeSignIn, RequestTypeChangePassword:
		return true
	default:
		return false
	}
}

// RequiresAccount reports whether the challenge may only be issued for an
// already registered address.
func (rt RequestType) RequiresAccount() bool {
	return rt == RequestTypeSignIn || rt == RequestTypeChangePassword
}
