package usecase

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/rankstage/rankstage/internal/domains/entity"
	"github.com/rankstage/rankstage/internal/pkg/goerror"
	"github.com/rankstage/rankstage/internal/pkg/instrument"
	"github.com/rankstage/rankstage/internal/pkg/jwt"
	"github.com/rankstage/rankstage/internal/pkg/validator"
	"github.com/rankstage/rankstage/internal/shared/constant"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

func newTestEnforcer(t *testing.T) *casbin.Enforcer {
	t.Helper()

	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		t.Fatalf("failed to create model: %v", err)
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		t.Fatalf("failed to create enforcer: %v", err)
	}

	if _, err := e.AddPolicy("moderator", constant.PermDomainsMgmt, "*"); err != nil {
		t.Fatalf("failed to add policy: %v", err)
	}
	if _, err := e.AddPolicy("moderator", constant.PermDomainsReview, "*"); err != nil {
		t.Fatalf("failed to add policy: %v", err)
	}

	return e
}

func authCtx(userID int64) context.Context {
	clm := jwt.Claims{
		RegisteredClaims: jwtlib.RegisteredClaims{Subject: strconv.FormatInt(userID, 10)},
		UserID:           userID,
		UserEmail:        "user@example.com",
	}

	return jwt.SetAuth(context.Background(), clm)
}

func assertCode(t *testing.T, err error, want goerror.Code) {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected a goerror, got %v", err)
	}
	if gerr.Code() != want {
		t.Fatalf("expected code %v, got %v (%v)", want, gerr.Code(), err)
	}
}

type fakeNumberID struct {
	next int64
}

func (f *fakeNumberID) Generate() int64 {
	f.next++
	return f.next
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

type fakeRepoDB struct {
	domains      map[int64]*entity.Domain
	applications map[[2]int64]*entity.Application
}

func newFakeRepoDB() *fakeRepoDB {
	return &fakeRepoDB{
		domains:      map[int64]*entity.Domain{},
		applications: map[[2]int64]*entity.Application{},
	}
}

func (f *fakeRepoDB) ListDomains(context.Context) ([]entity.Domain, error) {
	out := make([]entity.Domain, 0, len(f.domains))
	for _, d := range f.domains {
		out = append(out, *d)
	}
	return out, nil
}

func (f *fakeRepoDB) GetDomainByID(_ context.Context, id int64) (*entity.Domain, error) {
	d, ok := f.domains[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return d, nil
}

func (f *fakeRepoDB) CreateDomain(_ context.Context, in entity.NewDomain) error {
	for _, d := range f.domains {
		if d.Name == in.Name {
			return goerror.ErrConflict
		}
	}
	f.domains[in.ID] = &entity.Domain{ID: in.ID, Name: in.Name, Description: in.Description, CreatedBy: in.CreatedBy}
	return nil
}

func (f *fakeRepoDB) CreateApplication(_ context.Context, domainID, userID int64) error {
	key := [2]int64{domainID, userID}
	if _, ok := f.applications[key]; ok {
		return goerror.ErrConflict
	}
	f.applications[key] = &entity.Application{DomainID: domainID, UserID: userID, Status: entity.ApplicationStatusPending}
	return nil
}

func (f *fakeRepoDB) GetApplication(_ context.Context, domainID, userID int64) (*entity.Application, error) {
	app, ok := f.applications[[2]int64{domainID, userID}]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return app, nil
}

func (f *fakeRepoDB) UpdateApplicationStatus(_ context.Context, domainID, userID, reviewerID int64, status entity.ApplicationStatus) error {
	app, ok := f.applications[[2]int64{domainID, userID}]
	if !ok || app.Status != entity.ApplicationStatusPending {
		return goerror.ErrNotFound
	}
	app.Status = status
	app.ReviewedBy = &reviewerID
	return nil
}

func newTestUsecase(t *testing.T, repo *fakeRepoDB, grants map[int64]string) *Usecase {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("failed to create validator: %v", err)
	}

	enforcer := newTestEnforcer(t)
	for userID, role := range grants {
		if _, err := enforcer.AddGroupingPolicy(strconv.FormatInt(userID, 10), role); err != nil {
			t.Fatalf("failed to add grouping policy: %v", err)
		}
	}

	return New(Dependency{
		RepoDB:     repo,
		Validator:  v,
		UID:        &fakeNumberID{},
		Clock:      &fakeClock{now: time.Now()},
		Instrument: instrument.NewNoop(),
		Enforcer:   enforcer,
	})
}

func TestDomainCreate(t *testing.T) {

	t.Run("ModeratorCanCreate", func(t *testing.T) {
		// Arrange
		repo := newFakeRepoDB()
		uc := newTestUsecase(t, repo, map[int64]string{7: "moderator"})

		// Act
		err := uc.DomainCreate(authCtx(7), DomainCreateInput{Name: "Backend"})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(repo.domains) != 1 {
			t.Fatalf("expected one domain, got %d", len(repo.domains))
		}
	})

	t.Run("PlainUserForbidden", func(t *testing.T) {
		// Arrange
		repo := newFakeRepoDB()
		uc := newTestUsecase(t, repo, nil)

		// Act
		err := uc.DomainCreate(authCtx(7), DomainCreateInput{Name: "Backend"})

		// Assert
		assertCode(t, err, goerror.CodeForbidden)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		// Arrange
		uc := newTestUsecase(t, newFakeRepoDB(), nil)

		// Act
		err := uc.DomainCreate(context.Background(), DomainCreateInput{Name: "Backend"})

		// Assert
		assertCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("DuplicateName", func(t *testing.T) {
		// Arrange
		repo := newFakeRepoDB()
		uc := newTestUsecase(t, repo, map[int64]string{7: "moderator"})
		if err := uc.DomainCreate(authCtx(7), DomainCreateInput{Name: "Backend"}); err != nil {
			t.Fatalf("seed create failed: %v", err)
		}

		// Act
		err := uc.DomainCreate(authCtx(7), DomainCreateInput{Name: "Backend"})

		// Assert
		assertCode(t, err, goerror.CodeConflict)
	})
}

func TestApplicationApply(t *testing.T) {

	t.Run("Success", func(t *testing.T) {
		// Arrange
		repo := newFakeRepoDB()
		repo.domains[1] = &entity.Domain{ID: 1, Name: "Backend"}
		uc := newTestUsecase(t, repo, nil)

		// Act
		err := uc.ApplicationApply(authCtx(7), ApplicationApplyInput{DomainID: 1})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		app := repo.applications[[2]int64{1, 7}]
		if app == nil || app.Status != entity.ApplicationStatusPending {
			t.Fatal("expected a pending application")
		}
	})

	t.Run("UnknownDomain", func(t *testing.T) {
		// Arrange
		uc := newTestUsecase(t, newFakeRepoDB(), nil)

		// Act
		err := uc.ApplicationApply(authCtx(7), ApplicationApplyInput{DomainID: 99})

		// Assert
		assertCode(t, err, goerror.CodeNotFound)
	})

	t.Run("DuplicateApplication", func(t *testing.T) {
		// Arrange
		repo := newFakeRepoDB()
		repo.domains[1] = &entity.Domain{ID: 1, Name: "Backend"}
		uc := newTestUsecase(t, repo, nil)
		if err := uc.ApplicationApply(authCtx(7), ApplicationApplyInput{DomainID: 1}); err != nil {
			t.Fatalf("seed apply failed: %v", err)
		}

		// Act
		err := uc.ApplicationApply(authCtx(7), ApplicationApplyInput{DomainID: 1})

		// Assert
		assertCode(t, err, goerror.CodeConflict)
	})
}

func TestApplicationReview(t *testing.T) {

	t.Run("ApprovePending", func(t *testing.T) {
		// Arrange
		repo := newFakeRepoDB()
		repo.domains[1] = &entity.Domain{ID: 1, Name: "Backend"}
		repo.applications[[2]int64{1, 7}] = &entity.Application{DomainID: 1, UserID: 7, Status: entity.ApplicationStatusPending}
		uc := newTestUsecase(t, repo, map[int64]string{9: "moderator"})

		// Act
		err := uc.ApplicationReview(authCtx(9), ApplicationReviewInput{DomainID: 1, UserID: 7, Decision: "approve"})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repo.applications[[2]int64{1, 7}].Status != entity.ApplicationStatusApproved {
			t.Fatal("expected application approved")
		}
	})

	t.Run("AlreadyDecided", func(t *testing.T) {
		// Arrange
		repo := newFakeRepoDB()
		repo.applications[[2]int64{1, 7}] = &entity.Application{DomainID: 1, UserID: 7, Status: entity.ApplicationStatusApproved}
		uc := newTestUsecase(t, repo, map[int64]string{9: "moderator"})

		// Act
		err := uc.ApplicationReview(authCtx(9), ApplicationReviewInput{DomainID: 1, UserID: 7, Decision: "reject"})

		// Assert
		assertCode(t, err, goerror.CodeConflict)
	})

	t.Run("PlainUserForbidden", func(t *testing.T) {
		// Arrange
		repo := newFakeRepoDB()
		repo.applications[[2]int64{1, 7}] = &entity.Application{DomainID: 1, UserID: 7, Status: entity.ApplicationStatusPending}
		uc := newTestUsecase(t, repo, nil)

		// Act
		err := uc.ApplicationReview(authCtx(8), ApplicationReviewInput{DomainID: 1, UserID: 7, Decision: "approve"})

		// Assert
		assertCode(t, err, goerror.CodeForbidden)
	})
}
