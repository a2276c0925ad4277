package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/rankstage/rankstage/internal/notification/entity"
	"github.com/rankstage/rankstage/internal/pkg/goerror"
	"github.com/rankstage/rankstage/internal/pkg/instrument"
	"github.com/rankstage/rankstage/internal/pkg/jwt"
	"github.com/rankstage/rankstage/internal/pkg/mail"
	"github.com/rankstage/rankstage/internal/pkg/validator"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

type fakeNumberID struct {
	next int64
}

func (f *fakeNumberID) Generate() int64 {
	f.next++
	return f.next
}

type fakeMail struct {
	err  error
	sent []mail.Message
}

func (f *fakeMail) Send(_ context.Context, msg mail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeRepoDB struct {
	created []entity.CreateNotification
	items   []entity.NotificationItem
	unread  int64

	createErr error
	listErr   error

	markedRead    []int64
	markReadOK    bool
	markedAllFor  []int64
	deleted       []int64
	softDeleteOK  bool
	lastListInput struct {
		userID        int64
		status        entity.NotificationStatus
		limit, offset int32
	}
}

func (f *fakeRepoDB) CreateNotification(_ context.Context, data entity.CreateNotification) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, data)
	return nil
}

func (f *fakeRepoDB) ListNotifications(_ context.Context, userID int64, status entity.NotificationStatus, limit, offset int32) ([]entity.NotificationItem, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.lastListInput.userID = userID
	f.lastListInput.status = status
	f.lastListInput.limit = limit
	f.lastListInput.offset = offset
	return f.items, nil
}

func (f *fakeRepoDB) CountUnreadNotifications(context.Context, int64) (int64, error) {
	return f.unread, nil
}

func (f *fakeRepoDB) MarkNotificationRead(_ context.Context, _, notificationID int64) (bool, error) {
	f.markedRead = append(f.markedRead, notificationID)
	return f.markReadOK, nil
}

func (f *fakeRepoDB) MarkNotificationsReadAll(_ context.Context, userID int64) (int64, error) {
	f.markedAllFor = append(f.markedAllFor, userID)
	return 1, nil
}

func (f *fakeRepoDB) SoftDeleteNotification(_ context.Context, _, notificationID int64) (bool, error) {
	f.deleted = append(f.deleted, notificationID)
	return f.softDeleteOK, nil
}

type fixture struct {
	uc   *Usecase
	db   *fakeRepoDB
	mail *fakeMail
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("failed to create validator: %v", err)
	}

	db := &fakeRepoDB{}
	ml := &fakeMail{}

	uc := NewNotification(Dependency{
		RepoDB:     db,
		UID:        &fakeNumberID{},
		Clock:      &fakeClock{now: time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)},
		Validator:  v,
		RepoMail:   ml,
		Instrument: instrument.NewNoop(),
	})

	return &fixture{uc: uc, db: db, mail: ml}
}

func authCtx(userID int64) context.Context {
	clm := jwt.Claims{
		RegisteredClaims: jwtlib.RegisteredClaims{Subject: strconv.FormatInt(userID, 10)},
		UserID:           userID,
		UserEmail:        "user@example.com",
	}

	return jwt.SetAuth(context.Background(), clm)
}

func TestConsumeUserSignedUp(t *testing.T) {

	t.Run("SendsWelcomeEmailAndInboxEntry", func(t *testing.T) {
		// Arrange
		fix := newFixture(t)

		// Act
		err := fix.uc.ConsumeUserSignedUp(context.Background(), ConsumeUserSignedUpInput{
			UserID:   42,
			Email:    "jane.doe@example.com",
			FullName: "Jane Doe",
		})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(fix.mail.sent) != 1 {
			t.Fatalf("expected one email, got %d", len(fix.mail.sent))
		}
		msg := fix.mail.sent[0]
		if msg.To[0] != "jane.doe@example.com" {
			t.Fatalf("unexpected recipient %q", msg.To[0])
		}
		if !strings.Contains(msg.HTMLBody, "Jane Doe") {
			t.Fatal("expected email body to greet the user by name")
		}
		if len(fix.db.created) != 1 {
			t.Fatalf("expected one inbox entry, got %d", len(fix.db.created))
		}
		if fix.db.created[0].TriggerKey != entity.TriggerKeyUserWelcome {
			t.Fatalf("unexpected trigger key %q", fix.db.created[0].TriggerKey)
		}
		if fix.db.created[0].UserID != 42 {
			t.Fatalf("unexpected user id %d", fix.db.created[0].UserID)
		}
	})

	t.Run("MalformedPayloadIsDropped", func(t *testing.T) {
		// Arrange
		fix := newFixture(t)

		// Act
		err := fix.uc.ConsumeUserSignedUp(context.Background(), ConsumeUserSignedUpInput{
			UserID: 42,
			Email:  "not-an-email",
		})

		// Assert: the handler acks malformed events instead of retrying them.
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		if len(fix.mail.sent) != 0 || len(fix.db.created) != 0 {
			t.Fatal("expected no side effects for malformed payload")
		}
	})

	t.Run("MailFailureStillWritesInbox", func(t *testing.T) {
		// Arrange
		fix := newFixture(t)
		fix.mail.err = errors.New("smtp down")

		// Act
		err := fix.uc.ConsumeUserSignedUp(context.Background(), ConsumeUserSignedUpInput{
			UserID:   42,
			Email:    "jane.doe@example.com",
			FullName: "Jane Doe",
		})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(fix.db.created) != 1 {
			t.Fatal("expected inbox entry despite mail failure")
		}
	})
}

func TestConsumePasswordChanged(t *testing.T) {

	t.Run("SendsSecurityAlert", func(t *testing.T) {
		// Arrange
		fix := newFixture(t)

		// Act
		err := fix.uc.ConsumePasswordChanged(context.Background(), ConsumePasswordChangedInput{
			UserID: 42,
			Email:  "jane.doe@example.com",
		})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(fix.mail.sent) != 1 {
			t.Fatalf("expected one email, got %d", len(fix.mail.sent))
		}
		if fix.mail.sent[0].Subject != "Your password was changed" {
			t.Fatalf("unexpected subject %q", fix.mail.sent[0].Subject)
		}
		if len(fix.db.created) != 1 || fix.db.created[0].TriggerKey != entity.TriggerKeyPasswordChanged {
			t.Fatal("expected a password changed inbox entry")
		}
	})
}

func TestListInbox(t *testing.T) {

	t.Run("RequiresAuth", func(t *testing.T) {
		// Arrange
		fix := newFixture(t)

		// Act
		_, err := fix.uc.ListInbox(context.Background(), ListInboxInput{})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeUnauthorized {
			t.Fatalf("expected unauthorized, got %v", err)
		}
	})

	t.Run("DefaultsAndUnreadCount", func(t *testing.T) {
		// Arrange
		fix := newFixture(t)
		fix.db.items = []entity.NotificationItem{{ID: 1, TriggerKey: entity.TriggerKeyUserWelcome}}
		fix.db.unread = 3

		// Act
		out, err := fix.uc.ListInbox(authCtx(42), ListInboxInput{})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Unread != 3 || len(out.Items) != 1 {
			t.Fatalf("unexpected output %+v", out)
		}
		if fix.db.lastListInput.status != entity.NotificationStatusAll {
			t.Fatalf("expected default status all, got %q", fix.db.lastListInput.status)
		}
		if fix.db.lastListInput.limit != 20 {
			t.Fatalf("expected default limit 20, got %d", fix.db.lastListInput.limit)
		}
		if fix.db.lastListInput.userID != 42 {
			t.Fatalf("expected caller's user id, got %d", fix.db.lastListInput.userID)
		}
	})

	t.Run("RejectsUnknownStatus", func(t *testing.T) {
		// Arrange
		fix := newFixture(t)

		// Act
		_, err := fix.uc.ListInbox(authCtx(42), ListInboxInput{Status: "archived"})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeInvalidInput {
			t.Fatalf("expected invalid input, got %v", err)
		}
	})
}

func TestInboxActions(t *testing.T) {

	t.Run("MarkReadNotFound", func(t *testing.T) {
		// Arrange
		fix := newFixture(t)
		fix.db.markReadOK = false

		// Act
		err := fix.uc.MarkInboxRead(authCtx(42), MarkInboxReadInput{ID: 9})

		// Assert
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeNotFound {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("MarkReadSuccess", func(t *testing.T) {
		// Arrange
		fix := newFixture(t)
		fix.db.markReadOK = true

		// Act
		err := fix.uc.MarkInboxRead(authCtx(42), MarkInboxReadInput{ID: 9})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(fix.db.markedRead) != 1 || fix.db.markedRead[0] != 9 {
			t.Fatalf("expected mark read for id 9, got %v", fix.db.markedRead)
		}
	})

	t.Run("DeleteSuccess", func(t *testing.T) {
		// Arrange
		fix := newFixture(t)
		fix.db.softDeleteOK = true

		// Act
		err := fix.uc.DeleteInbox(authCtx(42), DeleteInboxInput{ID: 9})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(fix.db.deleted) != 1 || fix.db.deleted[0] != 9 {
			t.Fatalf("expected delete for id 9, got %v", fix.db.deleted)
		}
	})

	t.Run("MarkAllUsesCallerID", func(t *testing.T) {
		// Arrange
		fix := newFixture(t)

		// Act
		err := fix.uc.MarkAllInboxRead(authCtx(42))

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(fix.db.markedAllFor) != 1 || fix.db.markedAllFor[0] != 42 {
			t.Fatalf("expected mark all for user 42, got %v", fix.db.markedAllFor)
		}
	})
}
