package inbound

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/rankstage/rankstage/internal/identity/usecase"
	"github.com/rankstage/rankstage/internal/pkg/goerror"
	"github.com/rankstage/rankstage/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the identity workflows.
type HTTPEndpoint struct {
	uc uc
}

// Signup creates a new user account.
// @Summary Sign up
// @Description Creates a new account. The email is expected to have passed the verification challenge first.
// @Tags Identity, Authentication
// @Accept json
// @Param request body SignupRequest true "Signup payload"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 409 {object} router.errorResponse "Email already registered"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/signup [post]
func (h *HTTPEndpoint) Signup(r *router.Request) (any, error) {
	var req SignupRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.Signup(r.Context(), usecase.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Bio:      req.Bio,
		Location: req.Location,
	}); err != nil {
		return nil, err
	}

	return &SignupResponse{}, nil
}

// Signin authenticates a user and returns an access token.
// @Summary Sign in
// @Description Validates credentials and returns an access token.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body SigninRequest true "Signin payload"
// @Success 200 {object} router.successResponse{data=SigninResponse} "Authentication result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid credentials"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/signin [post]
func (h *HTTPEndpoint) Signin(r *router.Request) (any, error) {
	var req SigninRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Signin(r.Context(), usecase.SigninInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	return SigninResponse{
		AccessToken: resp.AccessToken,
		UserID:      resp.UserID,
		FullName:    resp.FullName,
		Role:        resp.Role,
	}, nil
}

// PasswordChange replaces a user's password.
// @Summary Change password
// @Description Replaces the password. Identity is proven by the current password or by a verified email challenge.
// @Tags Identity, Authentication
// @Accept json
// @Param request body PasswordChangeRequest true "Change password payload"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Proof of identity rejected"
// @Failure 404 {object} router.errorResponse "Account not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/password/change [post]
func (h *HTTPEndpoint) PasswordChange(r *router.Request) (any, error) {
	var req PasswordChangeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return nil, h.uc.PasswordChange(r.Context(), usecase.PasswordChangeInput{
		Email:           req.Email,
		RequestType:     req.RequestType,
		NewPassword:     req.NewPassword,
		CurrentPassword: req.CurrentPassword,
		OTP:             req.OTP,
		OTPToken:        req.OTPToken,
	})
}

// Profile retrieves the current user's profile details.
// @Summary Get profile
// @Description Returns profile information for the authenticated user.
// @Tags Identity, Profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} router.successResponse{data=ProfileResponse} "Profile result"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/profile [get]
func (h *HTTPEndpoint) Profile(r *router.Request) (any, error) {
	resp, err := h.uc.Profile(r.Context(), usecase.ProfileInput{})
	if err != nil {
		return nil, err
	}

	return ProfileResponse{
		ID:        resp.ID,
		Email:     resp.Email,
		FullName:  resp.FullName,
		Bio:       resp.Bio,
		Location:  resp.Location,
		AvatarURL: resp.AvatarURL,
		Role:      resp.Role,
		Status:    resp.Status,
	}, nil
}

// ProfileUpdate updates the current user's profile information.
// @Summary Update profile
// @Description Updates profile details for the authenticated user.
// @Tags Identity, Profile
// @Security BearerAuth
// @Accept json
// @Param request body UpdateProfileRequest true "Profile update payload"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/profile [put]
func (h *HTTPEndpoint) ProfileUpdate(r *router.Request) (any, error) {
	var req UpdateProfileRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return nil, h.uc.ProfileUpdate(r.Context(), usecase.ProfileUpdateInput{
		FullName: req.FullName,
		Bio:      req.Bio,
		Location: req.Location,
	})
}

// ProfileUpdateAvatar replaces the current user's avatar image.
// @Summary Update profile avatar
// @Description Uploads a new avatar for the authenticated user.
// @Tags Identity, Profile
// @Security BearerAuth
// @Accept multipart/form-data
// @Param avatar formData file true "Avatar image"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/profile/avatar [put]
func (h *HTTPEndpoint) ProfileUpdateAvatar(r *router.Request) (any, error) {
	ctx := r.Context()

	file, err := r.StreamSingleFile("avatar")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			slog.ErrorContext(ctx, "failed to close file", "error", err)
		}
	}()

	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, goerror.NewInvalidFormat()
	}

	return nil, h.uc.ProfileUpdateAvatar(ctx, usecase.ProfileUpdateAvatarInput{
		File:        io.MultiReader(bytes.NewReader(head[:n]), file),
		ContentType: http.DetectContentType(head[:n]),
	})
}

// @Summary Get profile permissions
// @Tags Identity, Profile
// @Security BearerAuth
// @Success 200 {object} router.successResponse{data=ProfilePermissionsResponse} "Permissions list"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/profile/permissions [get]
func (h *HTTPEndpoint) ProfilePermissions(r *router.Request) (any, error) {
	resp, err := h.uc.ProfilePermissions(r.Context())
	if err != nil {
		return nil, err
	}

	if resp == nil {
		resp = map[string][]string{}
	}

	return ProfilePermissionsResponse{Permissions: resp}, nil
}

// UserList returns a list of users with optional filters.
// @Summary List users
// @Description Returns a paginated list of users with optional search, status and role filters.
// @Tags Identity, Management Users
// @Security BearerAuth
// @Produce json
// @Param search query string false "Search by email or full name"
// @Param sort_by query string false "Sort by email, full name and etc."
// @Param sort_order query string false "Sort order asc or desc"
// @Param status query []int false "Filter by statuses (1=active|2=banned|3=inactive)"
// @Param role query string false "Filter by role (user|moderator|admin)"
// @Param date_from query string false "Filter by created_at >= date_from (RFC3339)"
// @Param date_to query string false "Filter by created_at <= date_to (RFC3339)"
// @Param size query int false "Pagination size"
// @Param page query int false "Pagination page"
// @Success 200 {object} router.successResponse{data=UsersResponse} "User list"
// @Failure 400 {object} router.errorResponse "Invalid query parameters"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/users [get]
func (h *HTTPEndpoint) UserList(r *router.Request) (any, error) {
	size, err := r.GetQueryInt32("size")
	if err != nil {
		return nil, err
	}

	page, err := r.GetQueryInt32("page")
	if err != nil {
		return nil, err
	}

	dateFrom, err := r.GetQueryDate("date_from", time.RFC3339)
	if err != nil {
		return nil, err
	}

	dateTo, err := r.GetQueryDate("date_to", time.RFC3339)
	if err != nil {
		return nil, err
	}

	if !dateFrom.IsZero() && !dateTo.IsZero() && dateFrom.After(dateTo) {
		return nil, goerror.NewInvalidFormat("date_from must be before date_to")
	}

	resp, err := h.uc.UserList(r.Context(), usecase.UserListInput{
		Search:    r.GetQuery("search"),
		Statuses:  r.GetQueries("status"),
		Role:      r.GetQuery("role"),
		SortBy:    r.GetQuery("sort_by"),
		SortOrder: r.GetQuery("sort_order"),
		DateFrom:  dateFrom,
		DateTo:    dateTo,
		Size:      size,
		Page:      page,
	})
	if err != nil {
		return nil, err
	}

	users := make([]UserResponse, 0, len(resp.Users))
	for _, item := range resp.Users {
		users = append(users, UserResponse{
			ID:        item.ID,
			Email:     item.Email,
			FullName:  item.FullName,
			AvatarURL: item.AvatarURL,
			Role:      item.Role.String(),
			Status:    item.Status,
			UpdateAt:  item.UpdatedAt,
		})
	}

	return UsersResponse{
		total: resp.Total,
		size:  resp.Size,
		page:  resp.Page,
		Users: users,
	}, nil
}

// @Summary Get user detail
// @Description Returns user details for a given user ID.
// @Tags Identity, Management Users
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} router.successResponse{data=UserDetailResponse} "User detail"
// @Failure 400 {object} router.errorResponse "Invalid path parameter"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 404 {object} router.errorResponse "User not found"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/users/{id} [get]
func (h *HTTPEndpoint) UserDetail(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.UserDetail(r.Context(), usecase.UserDetailInput{ID: id})
	if err != nil {
		return nil, err
	}

	return UserDetailResponse{User: UserResponse{
		ID:        resp.User.ID,
		Email:     resp.User.Email,
		FullName:  resp.User.FullName,
		AvatarURL: resp.User.AvatarURL,
		Role:      resp.User.Role.String(),
		Status:    resp.User.Status,
		UpdateAt:  resp.User.UpdatedAt,
	}}, nil
}

// @Summary Update user role
// @Description Reassigns the role of a user by ID.
// @Tags Identity, Management Users
// @Security BearerAuth
// @Accept json
// @Param id path int true "User ID"
// @Param request body UserUpdateRoleRequest true "Role payload"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 404 {object} router.errorResponse "User not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/users/{id}/role [put]
func (h *HTTPEndpoint) UserUpdateRole(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req UserUpdateRoleRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return nil, h.uc.UserUpdateRole(r.Context(), usecase.UserUpdateRoleInput{
		ID:   id,
		Role: req.Role,
	})
}

// @Summary Delete user
// @Description Soft deletes a user by ID.
// @Tags Identity, Management Users
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid path parameter"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 404 {object} router.errorResponse "User not found"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/users/{id} [delete]
func (h *HTTPEndpoint) UserDelete(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	return nil, h.uc.UserDelete(r.Context(), usecase.UserDeleteInput{ID: id})
}
