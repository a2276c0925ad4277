package inbound

import (
	"context"

	"github.com/rankstage/rankstage/internal/domains/usecase"
	"github.com/rankstage/rankstage/internal/pkg/router"
)

type uc interface {
	DomainList(ctx context.Context) (*usecase.DomainListOutput, error)
	DomainCreate(ctx context.Context, in usecase.DomainCreateInput) error
	ApplicationApply(ctx context.Context, in usecase.ApplicationApplyInput) error
	ApplicationReview(ctx context.Context, in usecase.ApplicationReviewInput) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/api/v1/domains", end.DomainList)
	r.POST("/api/v1/domains", end.DomainCreate)
	r.POST("/api/v1/domains/:id/apply", end.ApplicationApply)
	r.PUT("/api/v1/domains/:id/applications/:userID", end.ApplicationReview)
}
