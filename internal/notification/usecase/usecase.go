package usecase

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"

	"github.com/rankstage/rankstage/internal/notification/entity"
	"github.com/rankstage/rankstage/internal/pkg/clock"
	"github.com/rankstage/rankstage/internal/pkg/instrument"
	"github.com/rankstage/rankstage/internal/pkg/mail"
	"github.com/rankstage/rankstage/internal/pkg/uid"
	"github.com/rankstage/rankstage/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	CreateNotification(ctx context.Context, data entity.CreateNotification) error
	ListNotifications(ctx context.Context, userID int64, status entity.NotificationStatus, limit, offset int32) ([]entity.NotificationItem, error)
	CountUnreadNotifications(ctx context.Context, userID int64) (int64, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID int64) (bool, error)
	MarkNotificationsReadAll(ctx context.Context, userID int64) (int64, error)
	SoftDeleteNotification(ctx context.Context, userID, notificationID int64) (bool, error)
}

type repoMail interface {
	Send(ctx context.Context, msg mail.Message) error
}

type Usecase struct {
	repoDB    repoDB
	uid       uid.NumberID
	clock     clock.Clocker
	validator validator.Validator
	repoMail  repoMail
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	UID        uid.NumberID
	Clock      clock.Clocker
	Validator  validator.Validator
	RepoMail   repoMail
	Instrument instrument.Instrumentation
}

func NewNotification(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		uid:       dep.UID,
		clock:     dep.Clock,
		validator: dep.Validator,
		repoMail:  dep.RepoMail,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}

func (s *Usecase) renderTemplate(name, tpl string, data map[string]any) (string, error) {
	t, err := template.New(name).Option("missingkey=zero").Parse(tpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *Usecase) baseEmailTemplateData() map[string]any {
	return map[string]any{
		"support_email": "support@rankstage.io",
		"company_name":  "RankStage",
		"year":          s.clock.Now().Format("2006"),
	}
}

// sendEmail renders an email template and hands it to the mail repo. Delivery
// failures are logged and swallowed so a broken mail provider never blocks the
// consumer from acking the message.
func (s *Usecase) sendEmail(ctx context.Context, to, subject, tplName, tpl string, data map[string]any) {
	body, err := s.renderTemplate(tplName, tpl, data)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render notification email", "template", tplName, "error", err)
		return
	}

	err = s.repoMail.Send(ctx, mail.Message{
		To:       []string{to},
		Subject:  subject,
		HTMLBody: body,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to send notification email", "template", tplName, "error", err)
	}
}

// createInbox stores an in-app notification. Storage failures are logged and
// swallowed for the same reason as sendEmail.
func (s *Usecase) createInbox(ctx context.Context, n entity.CreateNotification) {
	if err := s.repoDB.CreateNotification(ctx, n); err != nil {
		slog.ErrorContext(ctx, "failed to repo create notification", "user_id", n.UserID, "trigger_key", n.TriggerKey.String(), "error", err)
	}
}
