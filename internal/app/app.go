package app

import (
	"context"
	"net/http"

	"github.com/casbin/casbin/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
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
	"github.com/rankstage/rankstage/internal/pkg/pgxcasbin"
	"github.com/rankstage/rankstage/internal/pkg/router"
	"github.com/rankstage/rankstage/internal/pkg/storage"
	"github.com/rankstage/rankstage/internal/pkg/uid"
	"github.com/rankstage/rankstage/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	bcrypt    hash.Hash
	uid       uid.NumberID
	oid       uid.StringID
	uuid      uid.StringID
	otp       otp.Generator
	challenge *jwt.Challenge
	jwt       jwt.JWT

	// resources
	dbConn        *pgxpool.Pool
	cacheConn     *redis.Client
	idemp         idempotency.Idempotency
	mail          mail.Mail
	messaging     messaging.Messaging
	storage       storage.Storage
	casbin        *casbin.Enforcer
	casbinWatcher *pgxcasbin.Watcher

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initMail()
	app.initStorage()
	app.initMessaging()
	app.initCasbin()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
