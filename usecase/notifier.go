package usecase

import (
	"context"
	"time"
)

// Notifier abstracts outbound mail so use cases stay transport-agnostic.
// Sends are fire-and-forget: failures are logged by the implementation and
// never roll back a committed workflow transition.
type Notifier interface {
	NotifyAcceptance(ctx context.Context, workerEmail, taskTitle string) error
	SendCompletionCode(ctx context.Context, ownerEmail, taskTitle, code string, expiresAt time.Time) error
	SendPasswordReset(ctx context.Context, userEmail, code string, expiresAt time.Time) error
}
