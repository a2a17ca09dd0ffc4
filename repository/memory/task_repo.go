package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/peerassist/backend/domain"
	"github.com/peerassist/backend/repository"
)

// TaskRepository is a mutex-guarded in-memory implementation used in tests
// and local development. Mutate holds the repository lock for the whole
// load-apply-store cycle, giving it the same serialization guarantee as
// the Postgres row lock.
type TaskRepository struct {
	mu    sync.Mutex
	tasks map[string]*domain.Task
}

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{tasks: make(map[string]*domain.Task)}
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return cloneTask(task), nil
}

func (r *TaskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var tasks []domain.Task
	for _, task := range r.tasks {
		if matches(task, filter) {
			tasks = append(tasks, *cloneTask(task))
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.Status == "" {
		task.Status = domain.StatusOpen
	}
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	r.tasks[task.ID] = cloneTask(task)
	return task, nil
}

func (r *TaskRepository) Mutate(ctx context.Context, id string, fn repository.MutateFunc) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}

	task := cloneTask(stored)
	if err := fn(task); err != nil {
		return nil, err
	}
	task.UpdatedAt = time.Now()

	r.tasks[id] = cloneTask(task)
	return task, nil
}

func (r *TaskRepository) IncrementViews(ctx context.Context, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		if task, ok := r.tasks[id]; ok {
			task.Views++
		}
	}
	return nil
}

func matches(task *domain.Task, filter repository.TaskFilter) bool {
	if filter.Status != "" && task.Status != filter.Status {
		return false
	}
	if filter.Category != "" && string(task.WorkType) != filter.Category {
		return false
	}
	if filter.CreatorEmail != "" && task.CreatorEmail != filter.CreatorEmail {
		return false
	}
	if filter.ExcludeCreator != "" && task.CreatorEmail == filter.ExcludeCreator {
		return false
	}
	if filter.Applicant != "" && !task.HasApplicant(filter.Applicant) {
		return false
	}
	if filter.ExcludeApplicant != "" && task.HasApplicant(filter.ExcludeApplicant) {
		return false
	}
	if filter.SelectedUser != "" && !task.IsSelected(filter.SelectedUser) {
		return false
	}
	if filter.FromDate != "" {
		if from, err := time.Parse("2006-01-02", filter.FromDate); err == nil && task.TaskDate.Before(from) {
			return false
		}
	}
	if filter.ToDate != "" {
		if to, err := time.Parse("2006-01-02", filter.ToDate); err == nil && task.TaskDate.After(to) {
			return false
		}
	}
	return true
}

func cloneTask(task *domain.Task) *domain.Task {
	clone := *task
	clone.Applicants = append([]string(nil), task.Applicants...)
	clone.SelectedUsers = append([]string(nil), task.SelectedUsers...)
	if task.PendingOTP != nil {
		otp := *task.PendingOTP
		clone.PendingOTP = &otp
	}
	return &clone
}
