package inbound

import (
	"github.com/rankstage/rankstage/internal/domains/usecase"
	"github.com/rankstage/rankstage/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the domains workflows.
type HTTPEndpoint struct {
	uc uc
}

// DomainList returns all skill domains.
// @Summary List domains
// @Tags Domains
// @Security BearerAuth
// @Produce json
// @Success 200 {object} router.successResponse{data=DomainsResponse} "Domain list"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/domains [get]
func (h *HTTPEndpoint) DomainList(r *router.Request) (any, error) {
	resp, err := h.uc.DomainList(r.Context())
	if err != nil {
		return nil, err
	}

	domains := make([]DomainResponse, 0, len(resp.Domains))
	for _, item := range resp.Domains {
		domains = append(domains, DomainResponse{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			CreatedAt:   item.CreatedAt,
		})
	}

	return DomainsResponse{Domains: domains}, nil
}

// DomainCreate creates a new skill domain.
// @Summary Create domain
// @Tags Domains
// @Security BearerAuth
// @Accept json
// @Param request body DomainCreateRequest true "Domain payload"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 409 {object} router.errorResponse "Domain already exists"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/domains [post]
func (h *HTTPEndpoint) DomainCreate(r *router.Request) (any, error) {
	var req DomainCreateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return nil, h.uc.DomainCreate(r.Context(), usecase.DomainCreateInput{
		Name:        req.Name,
		Description: req.Description,
	})
}

// ApplicationApply submits a membership request for a domain.
// @Summary Apply to domain
// @Tags Domains
// @Security BearerAuth
// @Param id path int true "Domain ID"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid path parameter"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 404 {object} router.errorResponse "Domain not found"
// @Failure 409 {object} router.errorResponse "Already applied"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/domains/{id}/apply [post]
func (h *HTTPEndpoint) ApplicationApply(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	return nil, h.uc.ApplicationApply(r.Context(), usecase.ApplicationApplyInput{DomainID: id})
}

// ApplicationReview decides a pending membership request.
// @Summary Review domain application
// @Tags Domains
// @Security BearerAuth
// @Accept json
// @Param id path int true "Domain ID"
// @Param userID path int true "Applicant user ID"
// @Param request body ApplicationReviewRequest true "Decision payload"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 404 {object} router.errorResponse "Application not found"
// @Failure 409 {object} router.errorResponse "Already decided"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/domains/{id}/applications/{userID} [put]
func (h *HTTPEndpoint) ApplicationReview(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	userID, err := r.GetParamInt64("userID")
	if err != nil {
		return nil, err
	}

	var req ApplicationReviewRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return nil, h.uc.ApplicationReview(r.Context(), usecase.ApplicationReviewInput{
		DomainID: id,
		UserID:   userID,
		Decision: req.Decision,
	})
}
