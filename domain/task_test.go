package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerassist/backend/domain"
)

func newOpenTask() *domain.Task {
	return &domain.Task{
		ID:            "task-1",
		Title:         "Fix kitchen sink",
		CreatorEmail:  "owner@example.com",
		PeopleNeeded:  2,
		Status:        domain.StatusOpen,
		Applicants:    []string{},
		SelectedUsers: []string{},
	}
}

func TestTaskApply(t *testing.T) {
	tests := map[string]struct {
		setup         func(task *domain.Task)
		applicant     string
		expErr        error
		expApplicants []string
	}{
		"Applying to an open task records the applicant": {
			applicant:     "worker@example.com",
			expApplicants: []string{"worker@example.com"},
		},
		"Applying twice is a no-op success": {
			setup: func(task *domain.Task) {
				require.NoError(t, task.Apply("worker@example.com"))
			},
			applicant:     "worker@example.com",
			expApplicants: []string{"worker@example.com"},
		},
		"The owner cannot apply to their own task": {
			applicant: "owner@example.com",
			expErr:    domain.ErrOwnTask,
		},
		"Applications are rejected once the task is no longer open": {
			setup: func(task *domain.Task) {
				task.Status = domain.StatusPendingVerification
			},
			applicant: "worker@example.com",
			expErr:    domain.ErrTaskNotOpen,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			task := newOpenTask()
			if test.setup != nil {
				test.setup(task)
			}

			err := task.Apply(test.applicant)

			if test.expErr != nil {
				assert.ErrorIs(t, err, test.expErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expApplicants, task.Applicants)
		})
	}
}

func TestTaskSelect(t *testing.T) {
	tests := map[string]struct {
		setup       func(task *domain.Task)
		applicant   string
		caller      string
		expErr      error
		expSelected []string
	}{
		"Owner selects an applicant": {
			setup: func(task *domain.Task) {
				require.NoError(t, task.Apply("a@example.com"))
			},
			applicant:   "a@example.com",
			caller:      "owner@example.com",
			expSelected: []string{"a@example.com"},
		},
		"Only the owner may select": {
			setup: func(task *domain.Task) {
				require.NoError(t, task.Apply("a@example.com"))
			},
			applicant: "a@example.com",
			caller:    "a@example.com",
			expErr:    domain.ErrNotTaskOwner,
		},
		"Selecting a non-applicant fails": {
			applicant: "ghost@example.com",
			caller:    "owner@example.com",
			expErr:    domain.ErrNotAnApplicant,
		},
		"Selecting the same applicant twice fails": {
			setup: func(task *domain.Task) {
				require.NoError(t, task.Apply("a@example.com"))
				require.NoError(t, task.Select("a@example.com", "owner@example.com"))
			},
			applicant: "a@example.com",
			caller:    "owner@example.com",
			expErr:    domain.ErrAlreadySelected,
		},
		"Selection past capacity fails": {
			setup: func(task *domain.Task) {
				task.PeopleNeeded = 1
				require.NoError(t, task.Apply("a@example.com"))
				require.NoError(t, task.Apply("b@example.com"))
				require.NoError(t, task.Select("a@example.com", "owner@example.com"))
			},
			applicant: "b@example.com",
			caller:    "owner@example.com",
			expErr:    domain.ErrCapacityExceeded,
		},
		"Selection requires an open task": {
			setup: func(task *domain.Task) {
				require.NoError(t, task.Apply("a@example.com"))
				task.Status = domain.StatusPendingVerification
			},
			applicant: "a@example.com",
			caller:    "owner@example.com",
			expErr:    domain.ErrTaskNotOpen,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			task := newOpenTask()
			if test.setup != nil {
				test.setup(task)
			}

			err := task.Select(test.applicant, test.caller)

			if test.expErr != nil {
				assert.ErrorIs(t, err, test.expErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expSelected, task.SelectedUsers)
			assert.LessOrEqual(t, len(task.SelectedUsers), task.PeopleNeeded)
			assert.Subset(t, task.Applicants, task.SelectedUsers)
		})
	}
}

func TestTaskSelectionInvariantHoldsAcrossFullWorkflow(t *testing.T) {
	task := newOpenTask()
	task.PeopleNeeded = 2

	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		require.NoError(t, task.Apply(email))
	}

	require.NoError(t, task.Select("a@x.com", "owner@example.com"))
	require.NoError(t, task.Select("b@x.com", "owner@example.com"))
	assert.ErrorIs(t, task.Select("c@x.com", "owner@example.com"), domain.ErrCapacityExceeded)

	assert.Equal(t, []string{"a@x.com", "b@x.com"}, task.SelectedUsers)
	assert.True(t, task.LimitReached())
	// Selecting never flips the status on its own.
	assert.Equal(t, domain.StatusOpen, task.Status)
}

func TestIssueCompletionOTP(t *testing.T) {
	now := time.Now()
	expiry := now.Add(30 * time.Minute)

	tests := map[string]struct {
		setup  func(task *domain.Task)
		worker string
		expErr error
	}{
		"Selected worker can request completion": {
			setup: func(task *domain.Task) {
				require.NoError(t, task.Apply("a@x.com"))
				require.NoError(t, task.Select("a@x.com", "owner@example.com"))
			},
			worker: "a@x.com",
		},
		"Unselected applicant cannot request completion": {
			setup: func(task *domain.Task) {
				require.NoError(t, task.Apply("a@x.com"))
			},
			worker: "a@x.com",
			expErr: domain.ErrNotSelectedWorker,
		},
		"Completed task rejects further requests": {
			setup: func(task *domain.Task) {
				task.Status = domain.StatusCompleted
			},
			worker: "a@x.com",
			expErr: domain.ErrAlreadyCompleted,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			task := newOpenTask()
			if test.setup != nil {
				test.setup(task)
			}

			err := task.IssueCompletionOTP(test.worker, "123456", expiry)

			if test.expErr != nil {
				assert.ErrorIs(t, err, test.expErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.StatusPendingVerification, task.Status)
			require.NotNil(t, task.PendingOTP)
			assert.Equal(t, "123456", task.PendingOTP.Code)
			assert.Equal(t, test.worker, task.PendingOTP.WorkerEmail)
			assert.Equal(t, 0, task.PendingOTP.Attempts)
		})
	}
}

func TestReissueReplacesPendingCode(t *testing.T) {
	task := newOpenTask()
	require.NoError(t, task.Apply("a@x.com"))
	require.NoError(t, task.Select("a@x.com", "owner@example.com"))

	expiry := time.Now().Add(30 * time.Minute)
	require.NoError(t, task.IssueCompletionOTP("a@x.com", "111111", expiry))
	require.NoError(t, task.IssueCompletionOTP("a@x.com", "222222", expiry))

	// The first code is gone for good.
	_, err := task.VerifyCompletionOTP("owner@example.com", "111111", time.Now())
	assert.ErrorIs(t, err, domain.ErrCodeMismatch)

	_, err = task.VerifyCompletionOTP("owner@example.com", "222222", time.Now())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, task.Status)
}

func TestVerifyCompletionOTP(t *testing.T) {
	now := time.Now()

	pending := func() *domain.Task {
		task := newOpenTask()
		require.NoError(t, task.Apply("a@x.com"))
		require.NoError(t, task.Select("a@x.com", "owner@example.com"))
		require.NoError(t, task.IssueCompletionOTP("a@x.com", "654321", now.Add(30*time.Minute)))
		return task
	}

	tests := map[string]struct {
		setup     func(task *domain.Task)
		caller    string
		code      string
		expErr    error
		expWorker string
	}{
		"Correct code completes the task": {
			caller:    "owner@example.com",
			code:      "654321",
			expWorker: "a@x.com",
		},
		"Only the owner may verify": {
			caller: "a@x.com",
			code:   "654321",
			expErr: domain.ErrNotTaskOwner,
		},
		"Wrong code burns an attempt": {
			caller: "owner@example.com",
			code:   "000000",
			expErr: domain.ErrCodeMismatch,
		},
		"Expired code is rejected": {
			setup: func(task *domain.Task) {
				task.PendingOTP.ExpiresAt = now.Add(-time.Minute)
			},
			caller: "owner@example.com",
			code:   "654321",
			expErr: domain.ErrCodeExpired,
		},
		"Locked code requires a fresh request": {
			setup: func(task *domain.Task) {
				task.PendingOTP.Attempts = domain.MaxOTPAttempts
			},
			caller: "owner@example.com",
			code:   "654321",
			expErr: domain.ErrTooManyAttempts,
		},
		"No pending verification": {
			setup: func(task *domain.Task) {
				task.PendingOTP = nil
				task.Status = domain.StatusOpen
			},
			caller: "owner@example.com",
			code:   "654321",
			expErr: domain.ErrNoPendingVerification,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			task := pending()
			if test.setup != nil {
				test.setup(task)
			}

			worker, err := task.VerifyCompletionOTP(test.caller, test.code, now)

			if test.expErr != nil {
				assert.ErrorIs(t, err, test.expErr)
				assert.NotEqual(t, domain.StatusCompleted, task.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expWorker, worker)
			assert.Equal(t, domain.StatusCompleted, task.Status)
			assert.Nil(t, task.PendingOTP)
		})
	}
}

func TestVerifyAfterCompletionFails(t *testing.T) {
	task := newOpenTask()
	require.NoError(t, task.Apply("a@x.com"))
	require.NoError(t, task.Select("a@x.com", "owner@example.com"))
	require.NoError(t, task.IssueCompletionOTP("a@x.com", "654321", time.Now().Add(30*time.Minute)))

	_, err := task.VerifyCompletionOTP("owner@example.com", "654321", time.Now())
	require.NoError(t, err)

	// The code is single-use: once consumed, nothing is pending anymore.
	_, err = task.VerifyCompletionOTP("owner@example.com", "654321", time.Now())
	assert.ErrorIs(t, err, domain.ErrNoPendingVerification)

	err = task.IssueCompletionOTP("a@x.com", "999999", time.Now().Add(30*time.Minute))
	assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)
}

func TestWrongCodeBurnsAttempts(t *testing.T) {
	task := newOpenTask()
	require.NoError(t, task.Apply("a@x.com"))
	require.NoError(t, task.Select("a@x.com", "owner@example.com"))
	require.NoError(t, task.IssueCompletionOTP("a@x.com", "654321", time.Now().Add(30*time.Minute)))

	for i := 0; i < domain.MaxOTPAttempts; i++ {
		_, err := task.VerifyCompletionOTP("owner@example.com", "000000", time.Now())
		assert.ErrorIs(t, err, domain.ErrCodeMismatch)
	}

	// Even the right code is rejected once locked.
	_, err := task.VerifyCompletionOTP("owner@example.com", "654321", time.Now())
	assert.ErrorIs(t, err, domain.ErrTooManyAttempts)
}

func TestReclaimStaleOTP(t *testing.T) {
	now := time.Now()
	grace := time.Hour

	tests := map[string]struct {
		setup        func(task *domain.Task)
		expReclaimed bool
		expStatus    domain.TaskStatus
	}{
		"Stale pending verification is reclaimed": {
			setup: func(task *domain.Task) {
				require.NoError(t, task.IssueCompletionOTP("a@x.com", "654321", now.Add(-2*time.Hour)))
			},
			expReclaimed: true,
			expStatus:    domain.StatusInProgress,
		},
		"Expired but within grace is left alone": {
			setup: func(task *domain.Task) {
				require.NoError(t, task.IssueCompletionOTP("a@x.com", "654321", now.Add(-time.Minute)))
			},
			expReclaimed: false,
			expStatus:    domain.StatusPendingVerification,
		},
		"Open task is untouched": {
			expReclaimed: false,
			expStatus:    domain.StatusOpen,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			task := newOpenTask()
			require.NoError(t, task.Apply("a@x.com"))
			require.NoError(t, task.Select("a@x.com", "owner@example.com"))
			if test.setup != nil {
				test.setup(task)
			}

			reclaimed := task.ReclaimStaleOTP(now, grace)

			assert.Equal(t, test.expReclaimed, reclaimed)
			assert.Equal(t, test.expStatus, task.Status)
			if reclaimed {
				assert.Nil(t, task.PendingOTP)
				// A worker can request completion again afterwards.
				require.NoError(t, task.IssueCompletionOTP("a@x.com", "111111", now.Add(30*time.Minute)))
			}
		})
	}
}
