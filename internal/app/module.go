package app

import (
	"log/slog"
	"os"

	"github.com/rankstage/rankstage/internal/domains"
	"github.com/rankstage/rankstage/internal/identity"
	"github.com/rankstage/rankstage/internal/notification"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.identity.enabled") {
		if err := identity.New(identity.Dependency{
			Config:      a.config,
			Instrument:  a.ins,
			UID:         a.uid,
			UUID:        a.uuid,
			OID:         a.oid,
			Bcrypt:      a.bcrypt,
			OTP:         a.otp,
			Challenge:   a.challenge,
			Clock:       a.clock,
			Validator:   a.validator,
			Router:      a.router,
			DBConn:      a.dbConn,
			CacheConn:   a.cacheConn,
			Idempotency: a.idemp,
			Messaging:   a.messaging,
			Mail:        a.mail,
			Storage:     a.storage,
			Goroutine:   a.goroutine,
			JWT:         a.jwt,
			Enforcer:    a.casbin,
		}); err != nil {
			slog.Error("failed to init module identity", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.domains.enabled") {
		if err := domains.New(domains.Dependency{
			DBConn:     a.dbConn,
			Enforcer:   a.casbin,
			Router:     a.router,
			Instrument: a.ins,
			UID:        a.uid,
			Clock:      a.clock,
			Validator:  a.validator,
		}); err != nil {
			slog.Error("failed to init module domains", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.notification.enabled") {
		if err := notification.New(notification.Dependency{
			Ctx:        a.ctx,
			DBConn:     a.dbConn,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			UUID:       a.uuid,
			Clock:      a.clock,
			Goroutine:  a.goroutine,
			Validator:  a.validator,
			Router:     a.router,
			Mail:       a.mail,
		}); err != nil {
			slog.Error("failed to init module notification", "error", err)
			os.Exit(1)
		}
	}
}
