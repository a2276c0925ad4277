package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rankstage/rankstage/internal/pkg/goerror"
)

type ApplicationApplyInput struct {
	DomainID int64 `validate:"required,gt=0"`
}

// ApplicationApply registers the caller's membership request for a domain.
// The request starts pending and waits for a moderator decision.
func (s *Usecase) ApplicationApply(ctx context.Context, in ApplicationApplyInput) error {
	ctx, span := s.startSpan(ctx, "ApplicationApply")
	defer span.End()

	clm, err := s.authenticated(ctx)
	if err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	if _, err := s.repoDB.GetDomainByID(ctx, in.DomainID); err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			return goerror.NewBusiness("Domain not found", goerror.CodeNotFound)
		}
		slog.ErrorContext(ctx, "failed to repo get domain", "domain_id", in.DomainID, "error", err)
		return goerror.NewServer(err)
	}

	err = s.repoDB.CreateApplication(ctx, in.DomainID, clm.UserID)
	if errors.Is(err, goerror.ErrConflict) {
		return goerror.NewBusiness("You already applied to this domain", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create application", "domain_id", in.DomainID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
