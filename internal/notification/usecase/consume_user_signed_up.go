package usecase

import (
	"context"
	"log/slog"

	"github.com/rankstage/rankstage/internal/notification/entity"
	"github.com/rankstage/rankstage/internal/pkg/valueobject"
)

const welcomeEmailTemplate = `
<p>Hi {{.full_name}},</p>
<p>Welcome to {{.company_name}}! Your account is ready and you can sign in right away.</p>
<p>If this wasn't you, reply to {{.support_email}} and we will look into it.</p>
<p>&copy; {{.year}} {{.company_name}}</p>
`

type ConsumeUserSignedUpInput struct {
	UserID   int64  `validate:"required,gt=0"`
	Email    string `validate:"required,email"`
	FullName string `validate:"required,min=5,max=100,alphaspace"`
}

// ConsumeUserSignedUp handles the signed-up event: a welcome email plus an
// in-app welcome notification. Malformed payloads are dropped, not retried.
func (s *Usecase) ConsumeUserSignedUp(ctx context.Context, in ConsumeUserSignedUpInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeUserSignedUp")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	data := s.baseEmailTemplateData()
	data["full_name"] = in.FullName

	s.sendEmail(ctx, in.Email, "Welcome to RankStage", "welcome", welcomeEmailTemplate, data)

	s.createInbox(ctx, entity.CreateNotification{
		ID:         s.uid.Generate(),
		UserID:     in.UserID,
		TriggerKey: entity.TriggerKeyUserWelcome,
		Title:      "Welcome to RankStage",
		Body:       "Your account is ready. Pick a domain and start climbing.",
		Data:       valueobject.JSONMap{"full_name": in.FullName},
	})

	return nil
}
