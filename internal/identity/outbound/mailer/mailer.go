package mailer

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/rankstage/rankstage/internal/pkg/instrument"
	"github.com/rankstage/rankstage/internal/pkg/mail"
	"go.opentelemetry.io/otel/codes"
)

var verificationHTML = template.Must(template.New("verification").Parse(`
<p>Hi {{.Name}},</p>
<p>Your verification code is:</p>
<p style="font-size:24px;font-weight:bold;letter-spacing:4px;">{{.Code}}</p>
<p>The code expires in {{.TTL}} minutes. If you did not request it, you can ignore this email.</p>
`))

// Mailer delivers verification codes. The issuer treats a failed send as a
// failed request, so Send errors are returned untouched.
type Mailer struct {
	client     mail.Mail
	ttlMinutes int
	ins        instrument.Instrumentation
}

func New(client mail.Mail, ttlMinutes int, ins instrument.Instrumentation) *Mailer {
	if ttlMinutes <= 0 {
		ttlMinutes = 10
	}

	return &Mailer{client: client, ttlMinutes: ttlMinutes, ins: ins}
}

func (m *Mailer) SendVerificationCode(ctx context.Context, email, name, code string) error {
	ctx, span := m.ins.Tracer("identity.outbound.mailer").Start(ctx, "SendVerificationCode")
	defer span.End()

	data := struct {
		Name string
		Code string
		TTL  int
	}{Name: name, Code: code, TTL: m.ttlMinutes}

	var html strings.Builder
	if err := verificationHTML.Execute(&html, data); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	text := fmt.Sprintf(
		"Hi %s,\n\nYour verification code is: %s\n\nThe code expires in %d minutes. If you did not request it, you can ignore this email.\n",
		name, code, m.ttlMinutes,
	)

	if err := m.client.Send(ctx, mail.Message{
		To:       []string{email},
		Subject:  "Your verification code",
		TextBody: text,
		HTMLBody: html.String(),
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
