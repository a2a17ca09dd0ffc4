package redis

import (
	"context"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/peerassist/backend/domain"
	"github.com/peerassist/backend/repository"
)

type resetRepository struct {
	client *redislib.Client
	prefix string
}

// NewResetRepository creates a Redis-backed password reset code store.
// Expiry rides on the Redis key TTL.
func NewResetRepository(client *redislib.Client) repository.ResetCodeRepository {
	return &resetRepository{
		client: client,
		prefix: "pwreset:",
	}
}

func (r *resetRepository) Save(ctx context.Context, email, code string, ttl time.Duration) error {
	if email == "" || code == "" {
		return domain.ErrInvalidPayload
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return r.client.Set(ctx, r.key(email), code, ttl).Err()
}

func (r *resetRepository) Get(ctx context.Context, email string) (string, error) {
	code, err := r.client.Get(ctx, r.key(email)).Result()
	if err != nil {
		if err == redislib.Nil {
			return "", domain.ErrInvalidResetCode
		}
		return "", err
	}
	return code, nil
}

func (r *resetRepository) Delete(ctx context.Context, email string) error {
	return r.client.Del(ctx, r.key(email)).Err()
}

func (r *resetRepository) key(email string) string {
	return fmt.Sprintf("%s%s", r.prefix, email)
}
