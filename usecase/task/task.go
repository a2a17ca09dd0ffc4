package task

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/peerassist/backend/domain"
	"github.com/peerassist/backend/repository"
)

// Input carries the owner-editable task fields.
type Input struct {
	Title            string
	Description      string
	TaskTime         string
	TaskDate         string // YYYY-MM-DD
	EstimatedPayRate float64
	PlaceOfWork      string
	WorkType         string
	PeopleNeeded     int
}

// UseCase handles task posting and owner-side edits.
type UseCase struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		logger: logger,
	}
}

// Create posts a new open task owned by the caller.
func (uc *UseCase) Create(ctx context.Context, ownerEmail string, input Input) (*domain.Task, error) {
	taskDate, err := validate(input)
	if err != nil {
		return nil, err
	}

	task := &domain.Task{
		Title:            input.Title,
		Description:      input.Description,
		TaskTime:         input.TaskTime,
		TaskDate:         taskDate,
		EstimatedPayRate: input.EstimatedPayRate,
		PlaceOfWork:      input.PlaceOfWork,
		WorkType:         domain.TaskCategory(input.WorkType),
		PeopleNeeded:     input.PeopleNeeded,
		CreatorEmail:     ownerEmail,
		Status:           domain.StatusOpen,
		Applicants:       []string{},
		SelectedUsers:    []string{},
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("task posted",
		zap.String("task_id", created.ID),
		zap.String("owner", ownerEmail),
		zap.Int("people_needed", created.PeopleNeeded))

	return created, nil
}

// Update edits the presentation fields of an open task. Only the owner may
// edit, and only while the task is still open; the applicant and selection
// sets are untouched.
func (uc *UseCase) Update(ctx context.Context, ownerEmail, taskID string, input Input) (*domain.Task, error) {
	taskDate, err := validate(input)
	if err != nil {
		return nil, err
	}

	return uc.tasks.Mutate(ctx, taskID, func(task *domain.Task) error {
		if !task.IsOwner(ownerEmail) {
			return domain.ErrNotTaskOwner
		}
		if task.Status != domain.StatusOpen {
			return domain.ErrTaskNotOpen
		}
		if input.PeopleNeeded < len(task.SelectedUsers) {
			return domain.ErrCapacityExceeded
		}
		task.Title = input.Title
		task.Description = input.Description
		task.TaskTime = input.TaskTime
		task.TaskDate = taskDate
		task.EstimatedPayRate = input.EstimatedPayRate
		task.PlaceOfWork = input.PlaceOfWork
		task.WorkType = domain.TaskCategory(input.WorkType)
		task.PeopleNeeded = input.PeopleNeeded
		return nil
	})
}

func validate(input Input) (time.Time, error) {
	if input.Title == "" || input.Description == "" || input.TaskTime == "" || input.PlaceOfWork == "" {
		return time.Time{}, domain.NewError(domain.ErrCodeInvalid, "title, description, task_time and place_of_work are required")
	}
	if input.PeopleNeeded < 1 {
		return time.Time{}, domain.NewError(domain.ErrCodeInvalid, "people_needed must be at least 1")
	}
	if !domain.ValidCategory(input.WorkType) {
		return time.Time{}, domain.NewError(domain.ErrCodeInvalid, "invalid work type")
	}
	taskDate, err := time.Parse("2006-01-02", input.TaskDate)
	if err != nil {
		return time.Time{}, domain.NewError(domain.ErrCodeInvalid, "invalid date format, use YYYY-MM-DD")
	}
	return taskDate, nil
}
