package usecase

import (
	"context"
	"log/slog"

	"github.com/casbin/casbin/v3"
	"github.com/rankstage/rankstage/internal/identity/entity"
	"github.com/rankstage/rankstage/internal/pkg/clock"
	"github.com/rankstage/rankstage/internal/pkg/config"
	"github.com/rankstage/rankstage/internal/pkg/goerror"
	"github.com/rankstage/rankstage/internal/pkg/goroutine"
	"github.com/rankstage/rankstage/internal/pkg/hash"
	"github.com/rankstage/rankstage/internal/pkg/idempotency"
	"github.com/rankstage/rankstage/internal/pkg/instrument"
	"github.com/rankstage/rankstage/internal/pkg/jwt"
	"github.com/rankstage/rankstage/internal/pkg/otp"
	"github.com/rankstage/rankstage/internal/pkg/storage"
	"github.com/rankstage/rankstage/internal/pkg/uid"
	"github.com/rankstage/rankstage/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type UserSignedUpEvent struct {
	UserID   int64
	Email    string
	FullName string
}

type PasswordChangedEvent struct {
	UserID int64
	Email  string
}

type repoMessaging interface {
	PublishUserSignedUp(ctx context.Context, msg UserSignedUpEvent) error
	PublishPasswordChanged(ctx context.Context, msg PasswordChangedEvent) error
}

// repoMailer delivers verification codes synchronously; issuance fails when
// delivery fails.
type repoMailer interface {
	SendVerificationCode(ctx context.Context, email, name, code string) error
}

type repoDB interface {
	GetUserByEmail(ctx context.Context, email string, includeDeleted bool) (*entity.User, error)
	GetUserByID(ctx context.Context, id int64, includeDeleted bool) (*entity.User, error)
	GetUserCredentialInfo(ctx context.Context, email string) (*entity.UserCredentialInfo, error)
	GetUserList(ctx context.Context, filter entity.UserListFilterData) ([]entity.User, int64, error)

	CreateUserWithCredential(ctx context.Context, user entity.NewUser, passwordHash string) error

	UpdateUserProfile(ctx context.Context, in entity.UpdateProfile) error
	UpdateUserAvatar(ctx context.Context, id int64, avatarURL string) error
	UpdateUserCredential(ctx context.Context, userID int64, hash string) error
	UpdateUserRole(ctx context.Context, id int64, oldRole, newRole entity.UserRole) error
	MarkUserDeleted(ctx context.Context, id, byID int64) error
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	repoMailer    repoMailer
	idemp         idempotency.Idempotency
	validator     validator.Validator
	cfg           config.Config
	storage       storage.Storage
	bcrypt        hash.Hash
	otpGen        otp.Generator
	challenge     *jwt.Challenge
	uid           uid.NumberID
	oid           uid.StringID
	clock         clock.Clocker
	jwt           jwt.JWT
	ins           instrument.Instrumentation
	enforcer      *casbin.Enforcer
	goroutine     *goroutine.Manager
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	RepoMailer    repoMailer
	Idempotency   idempotency.Idempotency
	Validator     validator.Validator
	Config        config.Config
	Storage       storage.Storage
	Bcrypt        hash.Hash
	OTP           otp.Generator
	Challenge     *jwt.Challenge
	UID           uid.NumberID
	OID           uid.StringID
	Clock         clock.Clocker
	JWT           jwt.JWT
	Instrument    instrument.Instrumentation
	Enforcer      *casbin.Enforcer
	Goroutine     *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		repoMailer:    dep.RepoMailer,
		idemp:         dep.Idempotency,
		validator:     dep.Validator,
		cfg:           dep.Config,
		storage:       dep.Storage,
		bcrypt:        dep.Bcrypt,
		otpGen:        dep.OTP,
		challenge:     dep.Challenge,
		uid:           dep.UID,
		oid:           dep.OID,
		clock:         dep.Clock,
		jwt:           dep.JWT,
		ins:           dep.Instrument,
		enforcer:      dep.Enforcer,
		goroutine:     dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}

// otpSecret reads the challenge signing secret. It is resolved per request so
// a missing OTP_SECRET surfaces as a request error instead of a boot failure.
func (s *Usecase) otpSecret() string {
	return s.cfg.GetString("otp.secret")
}

func (s *Usecase) ensureUserStatusAllowed(ctx context.Context, userID int64, status entity.UserStatus) error {
	switch status.Ensure() {
	case entity.UserStatusUnknown:
		slog.WarnContext(ctx, "user account status is unrecognized", "user_id", userID)
		return goerror.NewBusiness("account status is unrecognized", goerror.CodeForbidden)

	case entity.UserStatusBanned:
		slog.WarnContext(ctx, "user account is banned", "user_id", userID)
		return goerror.NewBusiness("account is banned", goerror.CodeForbidden)

	case entity.UserStatusInactive:
		slog.WarnContext(ctx, "user account is deleted", "user_id", userID)
		return goerror.NewBusiness("account is deleted", goerror.CodeForbidden)

	default:
		return nil
	}
}

func (s *Usecase) authenticatedAndAuthorized(ctx context.Context, obj, act string) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
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
