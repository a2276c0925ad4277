package domains

import (
	"github.com/casbin/casbin/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rankstage/rankstage/internal/domains/inbound"
	"github.com/rankstage/rankstage/internal/domains/outbound/db"
	"github.com/rankstage/rankstage/internal/domains/usecase"
	"github.com/rankstage/rankstage/internal/pkg/clock"
	"github.com/rankstage/rankstage/internal/pkg/instrument"
	"github.com/rankstage/rankstage/internal/pkg/router"
	"github.com/rankstage/rankstage/internal/pkg/uid"
	"github.com/rankstage/rankstage/internal/pkg/validator"
)

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	Enforcer   *casbin.Enforcer           `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	repoDB := db.NewDB(dep.DBConn, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:     repoDB,
		Validator:  dep.Validator,
		UID:        dep.UID,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
		Enforcer:   dep.Enforcer,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
