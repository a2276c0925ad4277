package identity

import (
	"github.com/casbin/casbin/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rankstage/rankstage/internal/identity/inbound"
	"github.com/rankstage/rankstage/internal/identity/outbound/db"
	"github.com/rankstage/rankstage/internal/identity/outbound/mailer"
	"github.com/rankstage/rankstage/internal/identity/outbound/mq"
	"github.com/rankstage/rankstage/internal/identity/usecase"
	"github.com/rankstage/rankstage/internal/pkg/clock"
	"github.com/rankstage/rankstage/internal/pkg/config"
	"github.com/rankstage/rankstage/internal/pkg/goroutine"
	"github.com/rankstage/rankstage/internal/pkg/hash"
	"github.com/rankstage/rankstage/internal/pkg/idempotency"
	"github.com/rankstage/rankstage/internal/pkg/instrument"
	"github.com/rankstage/rankstage/internal/pkg/jwt"
	"github.com/rankstage/rankstage/internal/pkg/mail"
	"github.com/rankstage/rankstage/internal/pkg/messaging"
	"github.com/rankstage/rankstage/internal/pkg/otp"
	"github.com/rankstage/rankstage/internal/pkg/router"
	"github.com/rankstage/rankstage/internal/pkg/storage"
	"github.com/rankstage/rankstage/internal/pkg/uid"
	"github.com/rankstage/rankstage/internal/pkg/validator"
)

type Dependency struct {
	DBConn      *pgxpool.Pool              `validate:"required"`
	CacheConn   *redis.Client              `validate:"required"`
	Goroutine   *goroutine.Manager         `validate:"required"`
	Enforcer    *casbin.Enforcer           `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Messaging   messaging.Messaging        `validate:"required"`
	Mail        mail.Mail                  `validate:"required"`
	Storage     storage.Storage            `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UID         uid.NumberID               `validate:"required"`
	UUID        uid.StringID               `validate:"required"`
	OID         uid.StringID               `validate:"required"`
	Bcrypt      hash.Hash                  `validate:"required"`
	OTP         otp.Generator              `validate:"required"`
	Challenge   *jwt.Challenge             `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
	JWT         jwt.JWT                    `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	repoDB := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)
	repoMailer := mailer.New(dep.Mail, int(dep.Challenge.TTL().Minutes()), dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        repoDB,
		RepoMessaging: repoMsg,
		RepoMailer:    repoMailer,
		Idempotency:   dep.Idempotency,
		Validator:     dep.Validator,
		Config:        dep.Config,
		Storage:       dep.Storage,
		Bcrypt:        dep.Bcrypt,
		OTP:           dep.OTP,
		Challenge:     dep.Challenge,
		UID:           dep.UID,
		OID:           dep.OID,
		Clock:         dep.Clock,
		JWT:           dep.JWT,
		Instrument:    dep.Instrument,
		Enforcer:      dep.Enforcer,
		Goroutine:     dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
