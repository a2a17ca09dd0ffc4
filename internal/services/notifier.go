package services

import (
	"context"
	"time"

	"github.com/peerassist/backend/internal/outbox"
	"github.com/peerassist/backend/usecase"
)

// OutboxNotifier adapts the mail dispatcher to the use-case Notifier port.
type OutboxNotifier struct {
	dispatcher *MailDispatcher
}

func NewOutboxNotifier(dispatcher *MailDispatcher) *OutboxNotifier {
	return &OutboxNotifier{dispatcher: dispatcher}
}

var _ usecase.Notifier = (*OutboxNotifier)(nil)

func (n *OutboxNotifier) NotifyAcceptance(ctx context.Context, workerEmail, taskTitle string) error {
	return n.dispatcher.Dispatch(ctx, outbox.Message{
		Kind:      outbox.KindAcceptance,
		To:        workerEmail,
		TaskTitle: taskTitle,
	})
}

func (n *OutboxNotifier) SendCompletionCode(ctx context.Context, ownerEmail, taskTitle, code string, expiresAt time.Time) error {
	return n.dispatcher.Dispatch(ctx, outbox.Message{
		Kind:      outbox.KindCompletionCode,
		To:        ownerEmail,
		TaskTitle: taskTitle,
		Code:      code,
		ExpiresAt: expiresAt,
	})
}

func (n *OutboxNotifier) SendPasswordReset(ctx context.Context, userEmail, code string, expiresAt time.Time) error {
	return n.dispatcher.Dispatch(ctx, outbox.Message{
		Kind:      outbox.KindPasswordReset,
		To:        userEmail,
		Code:      code,
		ExpiresAt: expiresAt,
	})
}
