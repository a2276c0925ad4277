package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/rankstage/rankstage/internal/domains/entity"
	"github.com/rankstage/rankstage/internal/pkg/goerror"
	"github.com/rankstage/rankstage/internal/shared/constant"
)

type DomainCreateInput struct {
	Name        string `validate:"required,min=2,max=100"`
	Description string `validate:"omitempty,max=500"`
}

func (s *Usecase) DomainCreate(ctx context.Context, in DomainCreateInput) error {
	ctx, span := s.startSpan(ctx, "DomainCreate")
	defer span.End()

	clm, err := s.authenticatedAndAuthorized(ctx, constant.PermDomainsMgmt, constant.PermActCreate)
	if err != nil {
		return err
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	err = s.repoDB.CreateDomain(ctx, entity.NewDomain{
		ID:          s.uid.Generate(),
		Name:        in.Name,
		Description: in.Description,
		CreatedBy:   clm.UserID,
	})
	if errors.Is(err, goerror.ErrConflict) {
		return goerror.NewBusiness("A domain with this name already exists", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create domain", "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
