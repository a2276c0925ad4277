package usecase

import (
	"context"
	"log/slog"

	"github.com/rankstage/rankstage/internal/notification/entity"
	"github.com/rankstage/rankstage/internal/pkg/valueobject"
)

const passwordChangedEmailTemplate = `
<p>Hi,</p>
<p>The password on your {{.company_name}} account was just changed.</p>
<p>If you made this change you can ignore this email. If you did not,
contact {{.support_email}} immediately.</p>
<p>&copy; {{.year}} {{.company_name}}</p>
`

type ConsumePasswordChangedInput struct {
	UserID int64  `validate:"required,gt=0"`
	Email  string `validate:"required,email"`
}

// ConsumePasswordChanged handles the password-changed event with a security
// alert email and an in-app notice.
func (s *Usecase) ConsumePasswordChanged(ctx context.Context, in ConsumePasswordChangedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumePasswordChanged")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	data := s.baseEmailTemplateData()

	s.sendEmail(ctx, in.Email, "Your password was changed", "password_changed", passwordChangedEmailTemplate, data)

	s.createInbox(ctx, entity.CreateNotification{
		ID:         s.uid.Generate(),
		UserID:     in.UserID,
		TriggerKey: entity.TriggerKeyPasswordChanged,
		Title:      "Password changed",
		Body:       "Your account password was changed. If this wasn't you, contact support.",
		Data:       valueobject.JSONMap{},
	})

	return nil
}
