package completion

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/peerassist/backend/domain"
	"github.com/peerassist/backend/repository"
	"github.com/peerassist/backend/usecase"
)

// DefaultCodeTTL is how long an issued completion code stays valid.
const DefaultCodeTTL = 30 * time.Minute

// UseCase drives the completion request and verification workflow.
type UseCase struct {
	tasks    repository.TaskRepository
	users    repository.UserRepository
	notifier usecase.Notifier
	logger   *zap.Logger
	codeTTL  time.Duration

	// indirection for tests
	generate func() (string, error)
	now      func() time.Time
}

func New(tasks repository.TaskRepository, users repository.UserRepository, notifier usecase.Notifier, logger *zap.Logger, codeTTL time.Duration) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if codeTTL <= 0 {
		codeTTL = DefaultCodeTTL
	}
	return &UseCase{
		tasks:    tasks,
		users:    users,
		notifier: notifier,
		logger:   logger,
		codeTTL:  codeTTL,
		generate: GenerateCode,
		now:      time.Now,
	}
}

// Request lets a selected worker signal completion. A fresh code is stored
// together with the PendingVerification transition in one atomic mutation;
// a still-pending prior code is replaced, invalidating it. The code is then
// dispatched to the task owner.
func (uc *UseCase) Request(ctx context.Context, taskID, workerEmail string) (*domain.Task, error) {
	code, err := uc.generate()
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "failed to generate verification code", err)
	}
	expiresAt := uc.now().Add(uc.codeTTL)

	task, err := uc.tasks.Mutate(ctx, taskID, func(task *domain.Task) error {
		return task.IssueCompletionOTP(workerEmail, code, expiresAt)
	})
	if err != nil {
		return nil, err
	}

	if uc.notifier != nil {
		if err := uc.notifier.SendCompletionCode(ctx, task.CreatorEmail, task.Title, code, expiresAt); err != nil {
			// The worker can re-request, so a failed send does not undo the transition.
			uc.logger.Warn("completion code dispatch failed",
				zap.String("task_id", taskID),
				zap.String("owner", task.CreatorEmail),
				zap.Error(err))
		}
	}

	uc.logger.Info("completion requested",
		zap.String("task_id", taskID),
		zap.String("worker", workerEmail),
		zap.Time("code_expires_at", expiresAt))

	return task, nil
}

// Verify checks the code submitted by the owner and completes the task.
// The whole check-and-clear runs inside one atomic mutation: a mismatch
// burns an attempt, success consumes the code and the status transition
// commits together with it.
func (uc *UseCase) Verify(ctx context.Context, taskID, callerEmail, code string) (*domain.Task, error) {
	var worker string
	var verifyErr error
	task, err := uc.tasks.Mutate(ctx, taskID, func(task *domain.Task) error {
		w, err := task.VerifyCompletionOTP(callerEmail, code, uc.now())
		if err == domain.ErrCodeMismatch {
			// Commit the mutation anyway so the burned attempt counts.
			verifyErr = err
			return nil
		}
		if err != nil {
			return err
		}
		worker = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	if verifyErr != nil {
		return nil, verifyErr
	}

	if uc.users != nil && worker != "" {
		if err := uc.users.IncrementCompleted(ctx, worker); err != nil {
			uc.logger.Warn("failed to credit completed task",
				zap.String("worker", worker),
				zap.Error(err))
		}
	}

	uc.logger.Info("task completed",
		zap.String("task_id", taskID),
		zap.String("worker", worker))

	return task, nil
}
