package inbound

import (
	"context"

	"github.com/rankstage/rankstage/internal/notification/usecase"
)

type ucConsumer interface {
	ConsumeUserSignedUp(ctx context.Context, in usecase.ConsumeUserSignedUpInput) error
	ConsumePasswordChanged(ctx context.Context, in usecase.ConsumePasswordChangedInput) error
}

type uc interface {
	ucConsumer

	ListInbox(ctx context.Context, in usecase.ListInboxInput) (*usecase.ListInboxOutput, error)
	MarkInboxRead(ctx context.Context, in usecase.MarkInboxReadInput) error
	MarkAllInboxRead(ctx context.Context) error
	DeleteInbox(ctx context.Context, in usecase.DeleteInboxInput) error
}
