package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/rankstage/rankstage/internal/notification/usecase"
	"github.com/rankstage/rankstage/internal/pkg/instrument"
	"github.com/rankstage/rankstage/internal/pkg/messaging"
	"github.com/rankstage/rankstage/internal/pkg/uid"
	"github.com/rankstage/rankstage/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers []messaging.Header) context.Context {
	for i := range headers {
		if headers[i].Key == keyOfCorrelationID {
			return instrument.SetCorrelationID(ctx, string(headers[i].Value))
		}
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) UserSignedUpNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "UserSignedUpNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: user signed up notification", "msg_body", string(body))

	var payload event.UserSignedUpMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of user signed up notification", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.ConsumeUserSignedUp(ctx, usecase.ConsumeUserSignedUpInput{
		UserID:   payload.UserID,
		Email:    payload.Email,
		FullName: payload.FullName,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume user signed up", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}

func (h *MQHandler) PasswordChangedNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "PasswordChangedNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: password changed notification", "msg_body", string(body))

	var payload event.PasswordChangedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of password changed notification", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.ConsumePasswordChanged(ctx, usecase.ConsumePasswordChangedInput{
		UserID: payload.UserID,
		Email:  payload.Email,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume password changed", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}
