package inbound

import (
	"github.com/rankstage/rankstage/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/api/v1/notifications", end.ListInbox)
	r.PATCH("/api/v1/notifications/:id/read", end.MarkInboxRead)
	r.PUT("/api/v1/notifications/read-all", end.MarkAllInboxRead)
	r.DELETE("/api/v1/notifications/:id", end.DeleteInbox)
}
