package inbound

import (
	"context"

	"github.com/rankstage/rankstage/internal/identity/usecase"
	"github.com/rankstage/rankstage/internal/pkg/router"
)

type uc interface {
	OTPIssue(ctx context.Context, in usecase.OTPIssueInput) (*usecase.OTPIssueOutput, error)
	OTPVerify(ctx context.Context, in usecase.OTPVerifyInput) (*usecase.OTPVerifyOutput, error)

	Signup(ctx context.Context, in usecase.SignupInput) error
	Signin(ctx context.Context, in usecase.SigninInput) (*usecase.SigninOutput, error)
	PasswordChange(ctx context.Context, in usecase.PasswordChangeInput) error

	Profile(ctx context.Context, in usecase.ProfileInput) (*usecase.ProfileOutput, error)
	ProfileUpdate(ctx context.Context, in usecase.ProfileUpdateInput) error
	ProfileUpdateAvatar(ctx context.Context, in usecase.ProfileUpdateAvatarInput) error
	ProfilePermissions(ctx context.Context) (map[string][]string, error)

	UserList(ctx context.Context, in usecase.UserListInput) (*usecase.UserListOutput, error)
	UserDetail(ctx context.Context, in usecase.UserDetailInput) (*usecase.UserDetailOutput, error)
	UserUpdateRole(ctx context.Context, in usecase.UserUpdateRoleInput) error
	UserDelete(ctx context.Context, in usecase.UserDeleteInput) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Email Verification Challenge. These keep their own wire contract and
	// bypass the response envelope.
	r.POSTRaw("/verify-email/generator", end.ChallengeGenerate())
	r.POSTRaw("/verify-email/verifier", end.ChallengeVerify())

	// Auth
	r.POST("/api/v1/auth/signup", end.Signup)
	r.POST("/api/v1/auth/signin", end.Signin)
	r.POST("/api/v1/auth/password/change", end.PasswordChange)

	// User Profile (need authenticated)
	r.GET("/api/v1/profile", end.Profile)
	r.PUT("/api/v1/profile", end.ProfileUpdate)
	r.PUT("/api/v1/profile/avatar", end.ProfileUpdateAvatar)
	r.GET("/api/v1/profile/permissions", end.ProfilePermissions)

	// User Directory (need authenticated & authorization)
	r.GET("/api/v1/users", end.UserList)
	r.GET("/api/v1/users/:id", end.UserDetail)
	r.PUT("/api/v1/users/:id/role", end.UserUpdateRole)
	r.DELETE("/api/v1/users/:id", end.UserDelete)
}
