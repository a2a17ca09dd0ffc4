package taskview

import (
	"context"

	"go.uber.org/zap"

	"github.com/peerassist/backend/domain"
	"github.com/peerassist/backend/repository"
)

// UseCase assembles read-side task views. It never mutates workflow state
// and always reflects the latest committed repository state.
type UseCase struct {
	tasks  repository.TaskRepository
	users  repository.UserRepository
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		users:  users,
		logger: logger,
	}
}

// ApplicantView is one applicant row in the owner-facing task view.
type ApplicantView struct {
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Mobile   string `json:"mobile,omitempty"`
	Selected bool   `json:"selected"`
}

// TaskWithApplicants is the owner-facing aggregation: the task plus its
// applicants and the derived capacity flag callers use to disable further
// Accept actions client-side. Enforcement never relies on this flag.
type TaskWithApplicants struct {
	Task         *domain.Task    `json:"task"`
	Applicants   []ApplicantView `json:"applicants"`
	LimitReached bool            `json:"limit_reached"`
}

// CreatorInfo is the contact block shown to applicants.
type CreatorInfo struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
}

// AppliedTask is the worker-facing view of a task the viewer applied to.
// Other applicants' identities are stripped; only the count remains.
type AppliedTask struct {
	ID               string              `json:"id"`
	Title            string              `json:"title"`
	Description      string              `json:"description"`
	TaskTime         string              `json:"task_time"`
	TaskDate         string              `json:"task_date"`
	EstimatedPayRate float64             `json:"estimated_pay_rate"`
	PlaceOfWork      string              `json:"place_of_work"`
	WorkType         domain.TaskCategory `json:"work_type"`
	PeopleNeeded     int                 `json:"people_needed"`
	Status           domain.TaskStatus   `json:"status"`
	TotalApplicants  int                 `json:"total_applicants"`
	Selected         bool                `json:"selected"`
	Creator          CreatorInfo         `json:"creator"`
}

// FeedFilter carries the optional feed constraints.
type FeedFilter struct {
	Category string
	FromDate string
	ToDate   string
	Limit    int
	Offset   int
}

// GetTaskWithApplicants returns the owner view of a task. Only the owner
// sees applicant identities.
func (uc *UseCase) GetTaskWithApplicants(ctx context.Context, taskID, callerEmail string) (*TaskWithApplicants, error) {
	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.IsOwner(callerEmail) {
		return nil, domain.ErrNotTaskOwner
	}

	applicants := make([]ApplicantView, 0, len(task.Applicants))
	for _, email := range task.Applicants {
		view := ApplicantView{
			Email:    email,
			Selected: task.IsSelected(email),
		}
		if uc.users != nil {
			if user, err := uc.users.GetByEmail(ctx, email); err == nil {
				view.Name = user.Name
				view.Mobile = user.Mobile
			}
		}
		applicants = append(applicants, view)
	}

	return &TaskWithApplicants{
		Task:         task,
		Applicants:   applicants,
		LimitReached: task.LimitReached(),
	}, nil
}

// Feed lists open tasks the viewer can apply to: not their own and not
// already applied to, oldest first. View counters bump in the background.
func (uc *UseCase) Feed(ctx context.Context, viewerEmail string, filter FeedFilter) ([]domain.Task, error) {
	tasks, err := uc.tasks.List(ctx, repository.TaskFilter{
		Status:           domain.StatusOpen,
		Category:         filter.Category,
		ExcludeCreator:   viewerEmail,
		ExcludeApplicant: viewerEmail,
		FromDate:         filter.FromDate,
		ToDate:           filter.ToDate,
		Limit:            filter.Limit,
		Offset:           filter.Offset,
	})
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}

	if len(tasks) > 0 {
		ids := make([]string, 0, len(tasks))
		for _, t := range tasks {
			ids = append(ids, t.ID)
		}
		go func() {
			if err := uc.tasks.IncrementViews(context.Background(), ids); err != nil {
				uc.logger.Warn("failed to bump task views", zap.Error(err))
			}
		}()
	}

	return tasks, nil
}

// Applied lists the tasks the viewer has applied to, sanitized for a
// non-owner audience.
func (uc *UseCase) Applied(ctx context.Context, viewerEmail string) ([]AppliedTask, error) {
	tasks, err := uc.tasks.List(ctx, repository.TaskFilter{Applicant: viewerEmail})
	if err != nil {
		return nil, err
	}

	applied := make([]AppliedTask, 0, len(tasks))
	for _, task := range tasks {
		creator := CreatorInfo{Email: task.CreatorEmail}
		if uc.users != nil {
			if user, err := uc.users.GetByEmail(ctx, task.CreatorEmail); err == nil {
				creator.Name = user.Name
				creator.Mobile = user.Mobile
			}
		}

		applied = append(applied, AppliedTask{
			ID:               task.ID,
			Title:            task.Title,
			Description:      task.Description,
			TaskTime:         task.TaskTime,
			TaskDate:         task.TaskDate.Format("2006-01-02"),
			EstimatedPayRate: task.EstimatedPayRate,
			PlaceOfWork:      task.PlaceOfWork,
			WorkType:         task.WorkType,
			PeopleNeeded:     task.PeopleNeeded,
			Status:           task.Status,
			TotalApplicants:  len(task.Applicants),
			Selected:         task.IsSelected(viewerEmail),
			Creator:          creator,
		})
	}

	return applied, nil
}

// Scheduled lists tasks the viewer was selected for that are still running.
func (uc *UseCase) Scheduled(ctx context.Context, workerEmail string) ([]domain.Task, error) {
	tasks, err := uc.tasks.List(ctx, repository.TaskFilter{SelectedUser: workerEmail})
	if err != nil {
		return nil, err
	}

	scheduled := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if !task.IsCompleted() {
			scheduled = append(scheduled, task)
		}
	}
	return scheduled, nil
}

// Created lists the tasks the owner has posted.
func (uc *UseCase) Created(ctx context.Context, ownerEmail string) ([]domain.Task, error) {
	tasks, err := uc.tasks.List(ctx, repository.TaskFilter{CreatorEmail: ownerEmail})
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}
