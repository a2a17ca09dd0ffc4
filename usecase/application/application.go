package application

import (
	"context"

	"go.uber.org/zap"

	"github.com/peerassist/backend/domain"
	"github.com/peerassist/backend/repository"
	"github.com/peerassist/backend/usecase"
)

// UseCase manages task applications and owner-side selection.
type UseCase struct {
	tasks    repository.TaskRepository
	notifier usecase.Notifier
	logger   *zap.Logger
}

func New(tasks repository.TaskRepository, notifier usecase.Notifier, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:    tasks,
		notifier: notifier,
		logger:   logger,
	}
}

// Apply records an application for an open task. Applying twice is a
// no-op success. Capacity is not checked here: anyone may apply.
func (uc *UseCase) Apply(ctx context.Context, taskID, applicantEmail string) (*domain.Task, error) {
	return uc.tasks.Mutate(ctx, taskID, func(task *domain.Task) error {
		return task.Apply(applicantEmail)
	})
}

// Accept selects an applicant on behalf of the task owner. The capacity
// check-and-append runs inside one atomic repository mutation, so two
// concurrent Accepts onto the last open slot cannot both commit.
func (uc *UseCase) Accept(ctx context.Context, taskID, applicantEmail, callerEmail string) (*domain.Task, error) {
	task, err := uc.tasks.Mutate(ctx, taskID, func(task *domain.Task) error {
		return task.Select(applicantEmail, callerEmail)
	})
	if err != nil {
		return nil, err
	}

	if uc.notifier != nil {
		if err := uc.notifier.NotifyAcceptance(ctx, applicantEmail, task.Title); err != nil {
			uc.logger.Warn("acceptance notification failed",
				zap.String("task_id", taskID),
				zap.String("applicant", applicantEmail),
				zap.Error(err))
		}
	}

	uc.logger.Info("applicant selected",
		zap.String("task_id", taskID),
		zap.String("applicant", applicantEmail),
		zap.Int("selected", len(task.SelectedUsers)),
		zap.Int("people_needed", task.PeopleNeeded))

	return task, nil
}
