package usecase

import (
	"context"
	"time"

	"github.com/rankstage/rankstage/internal/identity/entity"
	"github.com/rankstage/rankstage/internal/pkg/goerror"
	"github.com/rankstage/rankstage/internal/pkg/instrument"
	"github.com/rankstage/rankstage/internal/pkg/jwt"
	"github.com/rankstage/rankstage/internal/pkg/otp"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

// stubConfig backs config.Config with a plain map. Only string lookups carry
// data; every other accessor returns its zero value.
type stubConfig struct {
	values map[string]string
}

func (stubConfig) Close() error { return nil }

func (stubConfig) GetSecond(string) time.Duration { return 0 }
func (stubConfig) GetMinute(string) time.Duration { return 0 }
func (stubConfig) GetHour(string) time.Duration   { return 0 }
func (stubConfig) GetDay(string) time.Duration    { return 0 }

func (stubConfig) GetInt(string) int     { return 0 }
func (stubConfig) GetInt32(string) int32 { return 0 }
func (stubConfig) GetInt64(string) int64 { return 0 }

func (stubConfig) GetUint(string) uint     { return 0 }
func (stubConfig) GetUint16(string) uint16 { return 0 }
func (stubConfig) GetUint32(string) uint32 { return 0 }
func (stubConfig) GetUint64(string) uint64 { return 0 }

func (stubConfig) GetFloat32(string) float32 { return 0 }
func (stubConfig) GetFloat64(string) float64 { return 0 }

func (stubConfig) GetBool(string) bool { return false }

func (c stubConfig) GetString(key string) string {
	return c.values[key]
}

func (c stubConfig) GetBinary(key string) []byte {
	return []byte(c.values[key])
}

func (stubConfig) GetArray(string) []string        { return nil }
func (stubConfig) GetMap(string) map[string]string { return nil }

// fakeRepoDB satisfies repoDB through optional function fields. A nil field
// behaves like an empty database.
type fakeRepoDB struct {
	getUserByEmail           func(ctx context.Context, email string, includeDeleted bool) (*entity.User, error)
	getUserByID              func(ctx context.Context, id int64, includeDeleted bool) (*entity.User, error)
	getUserCredentialInfo    func(ctx context.Context, email string) (*entity.UserCredentialInfo, error)
	getUserList              func(ctx context.Context, filter entity.UserListFilterData) ([]entity.User, int64, error)
	createUserWithCredential func(ctx context.Context, user entity.NewUser, passwordHash string) error
	updateUserProfile        func(ctx context.Context, in entity.UpdateProfile) error
	updateUserAvatar         func(ctx context.Context, id int64, avatarURL string) error
	updateUserCredential     func(ctx context.Context, userID int64, hash string) error
	updateUserRole           func(ctx context.Context, id int64, oldRole, newRole entity.UserRole) error
	markUserDeleted          func(ctx context.Context, id, byID int64) error
}

func (f *fakeRepoDB) GetUserByEmail(ctx context.Context, email string, includeDeleted bool) (*entity.User, error) {
	if f.getUserByEmail == nil {
		return nil, goerror.ErrNotFound
	}
	return f.getUserByEmail(ctx, email, includeDeleted)
}

func (f *fakeRepoDB) GetUserByID(ctx context.Context, id int64, includeDeleted bool) (*entity.User, error) {
	if f.getUserByID == nil {
		return nil, goerror.ErrNotFound
	}
	return f.getUserByID(ctx, id, includeDeleted)
}

func (f *fakeRepoDB) GetUserCredentialInfo(ctx context.Context, email string) (*entity.UserCredentialInfo, error) {
	if f.getUserCredentialInfo == nil {
		return nil, goerror.ErrNotFound
	}
	return f.getUserCredentialInfo(ctx, email)
}

func (f *fakeRepoDB) GetUserList(ctx context.Context, filter entity.UserListFilterData) ([]entity.User, int64, error) {
	if f.getUserList == nil {
		return nil, 0, nil
	}
	return f.getUserList(ctx, filter)
}

func (f *fakeRepoDB) CreateUserWithCredential(ctx context.Context, user entity.NewUser, passwordHash string) error {
	if f.createUserWithCredential == nil {
		return nil
	}
	return f.createUserWithCredential(ctx, user, passwordHash)
}

func (f *fakeRepoDB) UpdateUserProfile(ctx context.Context, in entity.UpdateProfile) error {
	if f.updateUserProfile == nil {
		return nil
	}
	return f.updateUserProfile(ctx, in)
}

func (f *fakeRepoDB) UpdateUserAvatar(ctx context.Context, id int64, avatarURL string) error {
	if f.updateUserAvatar == nil {
		return nil
	}
	return f.updateUserAvatar(ctx, id, avatarURL)
}

func (f *fakeRepoDB) UpdateUserCredential(ctx context.Context, userID int64, hash string) error {
	if f.updateUserCredential == nil {
		return nil
	}
	return f.updateUserCredential(ctx, userID, hash)
}

func (f *fakeRepoDB) UpdateUserRole(ctx context.Context, id int64, oldRole, newRole entity.UserRole) error {
	if f.updateUserRole == nil {
		return nil
	}
	return f.updateUserRole(ctx, id, oldRole, newRole)
}

func (f *fakeRepoDB) MarkUserDeleted(ctx context.Context, id, byID int64) error {
	if f.markUserDeleted == nil {
		return nil
	}
	return f.markUserDeleted(ctx, id, byID)
}

type fakeMailer struct {
	err error

	sentEmail string
	sentName  string
	sentCode  string
}

func (f *fakeMailer) SendVerificationCode(_ context.Context, email, name, code string) error {
	if f.err != nil {
		return f.err
	}

	f.sentEmail = email
	f.sentName = name
	f.sentCode = code

	return nil
}

type fakeMessaging struct {
	signedUp        []UserSignedUpEvent
	passwordChanged []PasswordChangedEvent
	err             error
}

func (f *fakeMessaging) PublishUserSignedUp(_ context.Context, msg UserSignedUpEvent) error {
	if f.err != nil {
		return f.err
	}
	f.signedUp = append(f.signedUp, msg)
	return nil
}

func (f *fakeMessaging) PublishPasswordChanged(_ context.Context, msg PasswordChangedEvent) error {
	if f.err != nil {
		return f.err
	}
	f.passwordChanged = append(f.passwordChanged, msg)
	return nil
}

const testOTPSecret = "unit-test-challenge-secret"

type challengeFixture struct {
	uc        *Usecase
	clk       *fakeClock
	db        *fakeRepoDB
	mailer    *fakeMailer
	challenge *jwt.Challenge
}

func newChallengeFixture(secret string) *challengeFixture {
	clk := &fakeClock{now: time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)}
	db := &fakeRepoDB{}
	mailer := &fakeMailer{}
	challenge := jwt.NewChallenge(10*time.Minute, clk)

	uc := New(Dependency{
		RepoDB:     db,
		RepoMailer: mailer,
		Config:     stubConfig{values: map[string]string{"otp.secret": secret}},
		OTP:        otp.NewNumeric(6),
		Challenge:  challenge,
		Clock:      clk,
		Instrument: instrument.NewNoop(),
	})

	return &challengeFixture{uc: uc, clk: clk, db: db, mailer: mailer, challenge: challenge}
}
