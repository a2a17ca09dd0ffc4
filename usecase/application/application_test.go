package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerassist/backend/domain"
	"github.com/peerassist/backend/repository/memory"
	"github.com/peerassist/backend/usecase/application"
)

type fakeNotifier struct {
	accepted []string
	fail     bool
}

func (f *fakeNotifier) NotifyAcceptance(ctx context.Context, workerEmail, taskTitle string) error {
	if f.fail {
		return errors.New("smtp unavailable")
	}
	f.accepted = append(f.accepted, workerEmail)
	return nil
}

func (f *fakeNotifier) SendCompletionCode(ctx context.Context, ownerEmail, taskTitle, code string, expiresAt time.Time) error {
	return nil
}

func (f *fakeNotifier) SendPasswordReset(ctx context.Context, userEmail, code string, expiresAt time.Time) error {
	return nil
}

func newTask(t *testing.T, repo *memory.TaskRepository, task *domain.Task) *domain.Task {
	t.Helper()
	if task.Status == "" {
		task.Status = domain.StatusOpen
	}
	created, err := repo.Create(context.Background(), task)
	require.NoError(t, err)
	return created
}

func TestApply(t *testing.T) {
	tests := map[string]struct {
		task      *domain.Task
		applicant string
		expErr    error
		expCount  int
	}{
		"Applying to an open task records the applicant": {
			task:      &domain.Task{CreatorEmail: "owner@x.com", PeopleNeeded: 2},
			applicant: "worker@x.com",
			expCount:  1,
		},
		"Re-applying is a no-op success": {
			task:      &domain.Task{CreatorEmail: "owner@x.com", PeopleNeeded: 2, Applicants: []string{"worker@x.com"}},
			applicant: "worker@x.com",
			expCount:  1,
		},
		"Owner cannot apply to their own task": {
			task:      &domain.Task{CreatorEmail: "owner@x.com", PeopleNeeded: 2},
			applicant: "owner@x.com",
			expErr:    domain.ErrOwnTask,
		},
		"Applying to a completed task fails": {
			task:      &domain.Task{CreatorEmail: "owner@x.com", PeopleNeeded: 2, Status: domain.StatusCompleted},
			applicant: "worker@x.com",
			expErr:    domain.ErrTaskNotOpen,
		},
		"Applying over capacity is still allowed": {
			task: &domain.Task{
				CreatorEmail:  "owner@x.com",
				PeopleNeeded:  1,
				Applicants:    []string{"a@x.com"},
				SelectedUsers: []string{"a@x.com"},
			},
			applicant: "worker@x.com",
			expCount:  2,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			repo := memory.NewTaskRepository()
			task := newTask(t, repo, test.task)
			uc := application.New(repo, nil, nil)

			got, err := uc.Apply(context.Background(), task.ID, test.applicant)
			if test.expErr != nil {
				assert.ErrorIs(t, err, test.expErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got.Applicants, test.expCount)
			assert.Contains(t, got.Applicants, test.applicant)
		})
	}
}

func TestApplyUnknownTask(t *testing.T) {
	uc := application.New(memory.NewTaskRepository(), nil, nil)
	_, err := uc.Apply(context.Background(), "missing", "worker@x.com")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestAccept(t *testing.T) {
	tests := map[string]struct {
		task      *domain.Task
		applicant string
		caller    string
		expErr    error
	}{
		"Owner selects an applicant": {
			task:      &domain.Task{CreatorEmail: "owner@x.com", PeopleNeeded: 1, Applicants: []string{"worker@x.com"}},
			applicant: "worker@x.com",
			caller:    "owner@x.com",
		},
		"Non-owner cannot select": {
			task:      &domain.Task{CreatorEmail: "owner@x.com", PeopleNeeded: 1, Applicants: []string{"worker@x.com"}},
			applicant: "worker@x.com",
			caller:    "worker@x.com",
			expErr:    domain.ErrNotTaskOwner,
		},
		"Cannot select someone who never applied": {
			task:      &domain.Task{CreatorEmail: "owner@x.com", PeopleNeeded: 1},
			applicant: "worker@x.com",
			caller:    "owner@x.com",
			expErr:    domain.ErrNotAnApplicant,
		},
		"Selecting twice fails": {
			task: &domain.Task{
				CreatorEmail:  "owner@x.com",
				PeopleNeeded:  2,
				Applicants:    []string{"worker@x.com"},
				SelectedUsers: []string{"worker@x.com"},
			},
			applicant: "worker@x.com",
			caller:    "owner@x.com",
			expErr:    domain.ErrAlreadySelected,
		},
		"Selection past capacity fails": {
			task: &domain.Task{
				CreatorEmail:  "owner@x.com",
				PeopleNeeded:  1,
				Applicants:    []string{"a@x.com", "b@x.com"},
				SelectedUsers: []string{"a@x.com"},
			},
			applicant: "b@x.com",
			caller:    "owner@x.com",
			expErr:    domain.ErrCapacityExceeded,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			repo := memory.NewTaskRepository()
			task := newTask(t, repo, test.task)
			notifier := &fakeNotifier{}
			uc := application.New(repo, notifier, nil)

			got, err := uc.Accept(context.Background(), task.ID, test.applicant, test.caller)
			if test.expErr != nil {
				assert.ErrorIs(t, err, test.expErr)
				assert.Empty(t, notifier.accepted)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.IsSelected(test.applicant))
			assert.Equal(t, []string{test.applicant}, notifier.accepted)
		})
	}
}

func TestAcceptSurvivesNotifierFailure(t *testing.T) {
	repo := memory.NewTaskRepository()
	task := newTask(t, repo, &domain.Task{
		CreatorEmail: "owner@x.com",
		PeopleNeeded: 1,
		Applicants:   []string{"worker@x.com"},
	})
	uc := application.New(repo, &fakeNotifier{fail: true}, nil)

	got, err := uc.Accept(context.Background(), task.ID, "worker@x.com", "owner@x.com")
	require.NoError(t, err)
	assert.True(t, got.IsSelected("worker@x.com"))
}
