package usecase

import (
	"context"
	"log/slog"

	"github.com/casbin/casbin/v3"
	"github.com/rankstage/rankstage/internal/domains/entity"
	"github.com/rankstage/rankstage/internal/pkg/clock"
	"github.com/rankstage/rankstage/internal/pkg/goerror"
	"github.com/rankstage/rankstage/internal/pkg/instrument"
	"github.com/rankstage/rankstage/internal/pkg/jwt"
	"github.com/rankstage/rankstage/internal/pkg/uid"
	"github.com/rankstage/rankstage/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	ListDomains(ctx context.Context) ([]entity.Domain, error)
	GetDomainByID(ctx context.Context, id int64) (*entity.Domain, error)
	CreateDomain(ctx context.Context, in entity.NewDomain) error

	CreateApplication(ctx context.Context, domainID, userID int64) error
	GetApplication(ctx context.Context, domainID, userID int64) (*entity.Application, error)
	UpdateApplicationStatus(ctx context.Context, domainID, userID, reviewerID int64, status entity.ApplicationStatus) error
}

type Usecase struct {
	repoDB    repoDB
	validator validator.Validator
	uid       uid.NumberID
	clock     clock.Clocker
	ins       instrument.Instrumentation
	enforcer  *casbin.Enforcer
}

type Dependency struct {
	RepoDB     repoDB
	Validator  validator.Validator
	UID        uid.NumberID
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
	Enforcer   *casbin.Enforcer
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		validator: dep.Validator,
		uid:       dep.UID,
		clock:     dep.Clock,
		ins:       dep.Instrument,
		enforcer:  dep.Enforcer,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("domains.usecase").Start(ctx, name)
}

func (s *Usecase) authenticated(ctx context.Context) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	return clm, nil
}

func (s *Usecase) authenticatedAndAuthorized(ctx context.Context, obj, act string) (*jwt.Claims, error) {
	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	ok, err := s.enforcer.Enforce(clm.Subject, obj, act)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check authorization", "user_id", clm.Subject, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !ok {
		return nil, goerror.NewBusiness("Account not allowed", goerror.CodeForbidden)
	}

	return clm, nil
}
