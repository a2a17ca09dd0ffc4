package repository

import (
	"context"

	"github.com/peerassist/backend/domain"
)

// TaskFilter narrows List queries. Zero values mean "no constraint".
type TaskFilter struct {
	Status           domain.TaskStatus
	Category         string
	CreatorEmail     string
	ExcludeCreator   string
	Applicant        string
	ExcludeApplicant string
	SelectedUser     string
	FromDate         string // YYYY-MM-DD
	ToDate           string // YYYY-MM-DD
	Limit            int
	Offset           int
}

// MutateFunc applies a workflow transition to a task. Returning an error
// aborts the mutation with no change persisted.
type MutateFunc func(task *domain.Task) error

// TaskRepository stores tasks. Mutate is the single write path for
// lifecycle transitions: the task is loaded, the function applied, and the
// result persisted atomically with respect to concurrent Mutate calls on
// the same task.
type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Mutate(ctx context.Context, id string, fn MutateFunc) (*domain.Task, error)
	IncrementViews(ctx context.Context, ids []string) error
}
