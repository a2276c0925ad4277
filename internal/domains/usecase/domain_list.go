package usecase

import (
	"context"
	"log/slog"

	"github.com/rankstage/rankstage/internal/domains/entity"
	"github.com/rankstage/rankstage/internal/pkg/goerror"
)

type DomainListOutput struct {
	Domains []entity.Domain
}

func (s *Usecase) DomainList(ctx context.Context) (*DomainListOutput, error) {
	ctx, span := s.startSpan(ctx, "DomainList")
	defer span.End()

	if _, err := s.authenticated(ctx); err != nil {
		return nil, err
	}

	domains, err := s.repoDB.ListDomains(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list domains", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &DomainListOutput{Domains: domains}, nil
}
