package notification

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rankstage/rankstage/internal/notification/inbound"
	"github.com/rankstage/rankstage/internal/notification/outbound/db"
	"github.com/rankstage/rankstage/internal/notification/outbound/email"
	"github.com/rankstage/rankstage/internal/notification/usecase"
	"github.com/rankstage/rankstage/internal/pkg/clock"
	"github.com/rankstage/rankstage/internal/pkg/config"
	"github.com/rankstage/rankstage/internal/pkg/goroutine"
	"github.com/rankstage/rankstage/internal/pkg/instrument"
	"github.com/rankstage/rankstage/internal/pkg/mail"
	"github.com/rankstage/rankstage/internal/pkg/messaging"
	"github.com/rankstage/rankstage/internal/pkg/router"
	"github.com/rankstage/rankstage/internal/pkg/uid"
	"github.com/rankstage/rankstage/internal/pkg/validator"
)

type Dependency struct {
	Ctx        context.Context
	DBConn     *pgxpool.Pool
	Messaging  messaging.Messaging
	Config     config.Config
	Instrument instrument.Instrumentation
	UID        uid.NumberID
	UUID       uid.StringID
	Clock      clock.Clocker
	Goroutine  *goroutine.Manager
	Validator  validator.Validator
	Router     *router.Router
	Mail       mail.Mail
}

func New(dep Dependency) error {
	dbNotif := db.NewDB(dep.DBConn, dep.Instrument)
	repoMail := email.New(dep.Mail, dep.Instrument)

	uc := usecase.NewNotification(usecase.Dependency{
		RepoDB:     dbNotif,
		UID:        dep.UID,
		Clock:      dep.Clock,
		Validator:  dep.Validator,
		RepoMail:   repoMail,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	if dep.Ctx != nil {
		inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)
	}

	return nil
}
