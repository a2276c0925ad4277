package inbound

import (
	"strconv"

	"github.com/rankstage/rankstage/internal/notification/usecase"
	"github.com/rankstage/rankstage/internal/pkg/goerror"
	"github.com/rankstage/rankstage/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

// ListInbox returns user notifications.
// @Summary List notifications
// @Description Returns notifications for the authenticated user along with the unread count.
// @Tags Notification
// @Security BearerAuth
// @Produce json
// @Param status query string false "Filter by status (all|read|unread)"
// @Param limit query int false "Pagination limit"
// @Param offset query int false "Pagination offset"
// @Success 200 {object} router.successResponse{data=NotificationsResponse} "Notification list"
// @Failure 400 {object} router.errorResponse "Invalid query parameters"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notifications [get]
func (h *HTTPEndpoint) ListInbox(r *router.Request) (any, error) {
	query := r.URL.Query()
	limit, err := parseInt32(query.Get("limit"))
	if err != nil {
		return nil, goerror.NewInvalidFormat()
	}
	offset, err := parseInt32(query.Get("offset"))
	if err != nil {
		return nil, goerror.NewInvalidFormat()
	}

	out, err := h.uc.ListInbox(r.Context(), usecase.ListInboxInput{
		Status: query.Get("status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]NotificationResponse, 0, len(out.Items))
	for _, item := range out.Items {
		resp = append(resp, NotificationResponse{
			ID:         item.ID,
			TriggerKey: item.TriggerKey.String(),
			Title:      item.Title,
			Body:       item.Body,
			Data:       item.Data,
			ReadAt:     item.ReadAt,
			CreatedAt:  item.CreatedAt,
		})
	}

	return NotificationsResponse{Notifications: resp, Unread: out.Unread}, nil
}

// MarkInboxRead marks a notification as read.
// @Summary Mark notification read
// @Description Marks a notification as read.
// @Tags Notification
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid notification id"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 404 {object} router.errorResponse "Notification not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notifications/{id}/read [patch]
func (h *HTTPEndpoint) MarkInboxRead(r *router.Request) (any, error) {
	id, err := strconv.ParseInt(r.GetParam("id"), 10, 64)
	if err != nil {
		return nil, goerror.NewInvalidFormat()
	}

	return nil, h.uc.MarkInboxRead(r.Context(), usecase.MarkInboxReadInput{ID: id})
}

// MarkAllInboxRead marks every unread notification as read.
// @Summary Mark all notifications read
// @Description Marks all unread notifications of the authenticated user as read.
// @Tags Notification
// @Security BearerAuth
// @Success 204 "No Content"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notifications/read-all [put]
func (h *HTTPEndpoint) MarkAllInboxRead(r *router.Request) (any, error) {
	return nil, h.uc.MarkAllInboxRead(r.Context())
}

// DeleteInbox removes a notification from the inbox.
// @Summary Delete notification
// @Description Soft deletes a notification for the authenticated user.
// @Tags Notification
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid notification id"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 404 {object} router.errorResponse "Notification not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notifications/{id} [delete]
func (h *HTTPEndpoint) DeleteInbox(r *router.Request) (any, error) {
	id, err := strconv.ParseInt(r.GetParam("id"), 10, 64)
	if err != nil {
		return nil, goerror.NewInvalidFormat()
	}

	return nil, h.uc.DeleteInbox(r.Context(), usecase.DeleteInboxInput{ID: id})
}

func parseInt32(raw string) (int32, error) {
	if raw == "" {
		return 0, nil
	}

	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, err
	}

	return int32(v), nil
}
