package repository

import (
	"context"

	"github.com/peerassist/backend/domain"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	IncrementCompleted(ctx context.Context, email string) error
}
