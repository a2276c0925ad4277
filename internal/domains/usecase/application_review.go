package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rankstage/rankstage/internal/domains/entity"
	"github.com/rankstage/rankstage/internal/pkg/goerror"
	"github.com/rankstage/rankstage/internal/shared/constant"
)

type ApplicationReviewInput struct {
	DomainID int64  `validate:"required,gt=0"`
	UserID   int64  `validate:"required,gt=0"`
	Decision string `validate:"required,oneof=approve reject"`
}

// ApplicationReview decides a pending membership request. Only pending
// applications can be decided; a second review conflicts because the
// status guard on the update matches nothing.
func (s *Usecase) ApplicationReview(ctx context.Context, in ApplicationReviewInput) error {
	ctx, span := s.startSpan(ctx, "ApplicationReview")
	defer span.End()

	clm, err := s.authenticatedAndAuthorized(ctx, constant.PermDomainsReview, constant.PermActUpdate)
	if err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	app, err := s.repoDB.GetApplication(ctx, in.DomainID, in.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("Application not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get application", "domain_id", in.DomainID, "error", err)
		return goerror.NewServer(err)
	}

	if app.Status != entity.ApplicationStatusPending {
		return goerror.NewBusiness("Application was already decided", goerror.CodeConflict)
	}

	status := entity.ApplicationDecisionFromString(in.Decision)

	err = s.repoDB.UpdateApplicationStatus(ctx, in.DomainID, in.UserID, clm.UserID, status)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("Application was already decided", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo update application", "domain_id", in.DomainID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
