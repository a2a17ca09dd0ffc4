package repository

import (
	"context"
	"time"
)

// ResetCodeRepository stores short-lived password reset codes keyed by
// user email. A stored code expires on its own after the given TTL.
type ResetCodeRepository interface {
	Save(ctx context.Context, email, code string, ttl time.Duration) error
	Get(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, email string) error
}
