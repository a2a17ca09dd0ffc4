package taskview_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerassist/backend/domain"
	"github.com/peerassist/backend/repository/memory"
	"github.com/peerassist/backend/usecase/taskview"
)

type fixture struct {
	tasks *memory.TaskRepository
	users *memory.UserRepository
	uc    *taskview.UseCase
}

func newFixture() *fixture {
	f := &fixture{
		tasks: memory.NewTaskRepository(),
		users: memory.NewUserRepository(),
	}
	f.uc = taskview.New(f.tasks, f.users, nil)
	return f
}

func (f *fixture) seed(t *testing.T, task *domain.Task) *domain.Task {
	t.Helper()
	if task.Status == "" {
		task.Status = domain.StatusOpen
	}
	created, err := f.tasks.Create(context.Background(), task)
	require.NoError(t, err)
	return created
}

func TestGetTaskWithApplicants(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.users.Create(context.Background(), &domain.User{
		Email: "a@x.com", Name: "Alice", Mobile: "111",
	}))
	task := f.seed(t, &domain.Task{
		CreatorEmail:  "owner@x.com",
		PeopleNeeded:  1,
		Applicants:    []string{"a@x.com", "b@x.com"},
		SelectedUsers: []string{"a@x.com"},
	})

	view, err := f.uc.GetTaskWithApplicants(context.Background(), task.ID, "owner@x.com")
	require.NoError(t, err)

	assert.True(t, view.LimitReached)
	require.Len(t, view.Applicants, 2)
	assert.Equal(t, taskview.ApplicantView{Email: "a@x.com", Name: "Alice", Mobile: "111", Selected: true}, view.Applicants[0])
	// No profile on record, identity still listed.
	assert.Equal(t, taskview.ApplicantView{Email: "b@x.com"}, view.Applicants[1])
}

func TestGetTaskWithApplicantsOwnerOnly(t *testing.T) {
	f := newFixture()
	task := f.seed(t, &domain.Task{
		CreatorEmail: "owner@x.com",
		PeopleNeeded: 1,
		Applicants:   []string{"a@x.com"},
	})

	_, err := f.uc.GetTaskWithApplicants(context.Background(), task.ID, "a@x.com")
	assert.ErrorIs(t, err, domain.ErrNotTaskOwner)
}

func TestFeed(t *testing.T) {
	f := newFixture()
	f.seed(t, &domain.Task{ID: "own", CreatorEmail: "viewer@x.com", PeopleNeeded: 1})
	f.seed(t, &domain.Task{ID: "applied", CreatorEmail: "other@x.com", PeopleNeeded: 1, Applicants: []string{"viewer@x.com"}})
	f.seed(t, &domain.Task{ID: "done", CreatorEmail: "other@x.com", PeopleNeeded: 1, Status: domain.StatusCompleted})
	f.seed(t, &domain.Task{ID: "fresh", CreatorEmail: "other@x.com", PeopleNeeded: 1, WorkType: domain.CategoryCleaning})

	tasks, err := f.uc.Feed(context.Background(), "viewer@x.com", taskview.FeedFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "fresh", tasks[0].ID)
}

func TestFeedCategoryFilter(t *testing.T) {
	f := newFixture()
	f.seed(t, &domain.Task{ID: "clean", CreatorEmail: "other@x.com", PeopleNeeded: 1, WorkType: domain.CategoryCleaning})
	f.seed(t, &domain.Task{ID: "tutor", CreatorEmail: "other@x.com", PeopleNeeded: 1, WorkType: domain.CategoryTutoring})

	tasks, err := f.uc.Feed(context.Background(), "viewer@x.com", taskview.FeedFilter{
		Category: string(domain.CategoryTutoring),
	})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "tutor", tasks[0].ID)
}

func TestFeedBumpsViews(t *testing.T) {
	f := newFixture()
	task := f.seed(t, &domain.Task{CreatorEmail: "other@x.com", PeopleNeeded: 1})

	_, err := f.uc.Feed(context.Background(), "viewer@x.com", taskview.FeedFilter{})
	require.NoError(t, err)

	// The bump is asynchronous.
	assert.Eventually(t, func() bool {
		stored, err := f.tasks.GetByID(context.Background(), task.ID)
		return err == nil && stored.Views == 1
	}, time.Second, 10*time.Millisecond)
}

func TestFeedEmptyIsNotNil(t *testing.T) {
	f := newFixture()
	tasks, err := f.uc.Feed(context.Background(), "viewer@x.com", taskview.FeedFilter{})
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestAppliedSanitizesApplicants(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.users.Create(context.Background(), &domain.User{
		Email: "owner@x.com", Name: "Owner", Mobile: "999",
	}))
	f.seed(t, &domain.Task{
		CreatorEmail:  "owner@x.com",
		Title:         "Move boxes",
		TaskDate:      time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		PeopleNeeded:  2,
		Applicants:    []string{"viewer@x.com", "rival@x.com", "third@x.com"},
		SelectedUsers: []string{"viewer@x.com"},
	})

	applied, err := f.uc.Applied(context.Background(), "viewer@x.com")
	require.NoError(t, err)
	require.Len(t, applied, 1)

	view := applied[0]
	assert.Equal(t, "Move boxes", view.Title)
	assert.Equal(t, "2026-09-10", view.TaskDate)
	assert.Equal(t, 3, view.TotalApplicants)
	assert.True(t, view.Selected)
	assert.Equal(t, taskview.CreatorInfo{Email: "owner@x.com", Name: "Owner", Mobile: "999"}, view.Creator)
}

func TestScheduledExcludesCompleted(t *testing.T) {
	f := newFixture()
	f.seed(t, &domain.Task{ID: "running", CreatorEmail: "owner@x.com", PeopleNeeded: 1, SelectedUsers: []string{"worker@x.com"}})
	f.seed(t, &domain.Task{ID: "done", CreatorEmail: "owner@x.com", PeopleNeeded: 1, Status: domain.StatusCompleted, SelectedUsers: []string{"worker@x.com"}})
	f.seed(t, &domain.Task{ID: "unrelated", CreatorEmail: "owner@x.com", PeopleNeeded: 1})

	tasks, err := f.uc.Scheduled(context.Background(), "worker@x.com")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "running", tasks[0].ID)
}

func TestCreated(t *testing.T) {
	f := newFixture()
	f.seed(t, &domain.Task{ID: "mine", CreatorEmail: "owner@x.com", PeopleNeeded: 1})
	f.seed(t, &domain.Task{ID: "theirs", CreatorEmail: "other@x.com", PeopleNeeded: 1})

	tasks, err := f.uc.Created(context.Background(), "owner@x.com")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "mine", tasks[0].ID)
}
