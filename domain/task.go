package domain

import "time"

// TaskCategory classifies the kind of work a task involves.
type TaskCategory string

const (
	CategoryPlumbing      TaskCategory = "Plumbing"
	CategoryHouseShifting TaskCategory = "House Shifting"
	CategoryCarpentry     TaskCategory = "Carpentry"
	CategoryCleaning      TaskCategory = "Cleaning"
	CategoryElectrical    TaskCategory = "Electrical"
	CategoryPainting      TaskCategory = "Painting"
	CategoryGardening     TaskCategory = "Gardening"
	CategoryTutoring      TaskCategory = "Tutoring"
	CategoryComputerHelp  TaskCategory = "Computer Help"
	CategoryOther         TaskCategory = "Other"
)

// TaskCategories lists every valid category, in display order.
var TaskCategories = []TaskCategory{
	CategoryPlumbing,
	CategoryHouseShifting,
	CategoryCarpentry,
	CategoryCleaning,
	CategoryElectrical,
	CategoryPainting,
	CategoryGardening,
	CategoryTutoring,
	CategoryComputerHelp,
	CategoryOther,
}

// ValidCategory reports whether the given value names a known category.
func ValidCategory(value string) bool {
	for _, c := range TaskCategories {
		if string(c) == value {
			return true
		}
	}
	return false
}

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	StatusOpen                TaskStatus = "Open"
	StatusInProgress          TaskStatus = "InProgress"
	StatusPendingVerification TaskStatus = "PendingVerification"
	StatusCompleted           TaskStatus = "Completed"
)

// MaxOTPAttempts bounds failed verification attempts before a pending
// code locks and a fresh completion request is required.
const MaxOTPAttempts = 5

// CompletionOTP is the one-time code gating the final completion
// confirmation. It belongs to exactly one task and one issuing worker,
// and is verifiable only by the task owner.
type CompletionOTP struct {
	Code        string    `json:"code"`
	WorkerEmail string    `json:"worker_email"`
	ExpiresAt   time.Time `json:"expires_at"`
	Attempts    int       `json:"attempts"`
}

func (o *CompletionOTP) IsExpired(reference time.Time) bool {
	if o == nil {
		return true
	}
	return !o.ExpiresAt.After(reference)
}

func (o *CompletionOTP) IsLocked() bool {
	return o != nil && o.Attempts >= MaxOTPAttempts
}

// Task is a unit of work posted by an owner with a fixed worker capacity.
type Task struct {
	ID               string       `json:"id"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	TaskTime         string       `json:"task_time"`
	TaskDate         time.Time    `json:"task_date"`
	EstimatedPayRate float64      `json:"estimated_pay_rate"`
	PlaceOfWork      string       `json:"place_of_work"`
	WorkType         TaskCategory `json:"work_type"`
	PeopleNeeded     int          `json:"people_needed"`

	CreatorEmail  string         `json:"creator_email"`
	Status        TaskStatus     `json:"status"`
	Views         int            `json:"views"`
	Applicants    []string       `json:"applicants"`
	SelectedUsers []string       `json:"selected_users"`
	PendingOTP    *CompletionOTP `json:"pending_otp,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Task) IsOwner(email string) bool {
	return t != nil && t.CreatorEmail == email
}

func (t *Task) HasApplicant(email string) bool {
	return t != nil && contains(t.Applicants, email)
}

func (t *Task) IsSelected(email string) bool {
	return t != nil && contains(t.SelectedUsers, email)
}

// LimitReached reports whether the owner has exhausted the task capacity.
func (t *Task) LimitReached() bool {
	return t != nil && len(t.SelectedUsers) >= t.PeopleNeeded
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == StatusCompleted
}

// Apply records an application from the given identity. Re-applying is a
// no-op success, so duplicate applications cannot grow the set.
func (t *Task) Apply(applicantEmail string) error {
	if t.Status != StatusOpen {
		return ErrTaskNotOpen
	}
	if t.IsOwner(applicantEmail) {
		return ErrOwnTask
	}
	if t.HasApplicant(applicantEmail) {
		return nil
	}
	t.Applicants = append(t.Applicants, applicantEmail)
	return nil
}

// Select moves an applicant into the selected set on behalf of the owner.
// The capacity check runs against the state the repository is about to
// commit, so it holds under concurrent selection.
func (t *Task) Select(applicantEmail, callerEmail string) error {
	if !t.IsOwner(callerEmail) {
		return ErrNotTaskOwner
	}
	if t.Status != StatusOpen {
		return ErrTaskNotOpen
	}
	if !t.HasApplicant(applicantEmail) {
		return ErrNotAnApplicant
	}
	if t.IsSelected(applicantEmail) {
		return ErrAlreadySelected
	}
	if t.LimitReached() {
		return ErrCapacityExceeded
	}
	t.SelectedUsers = append(t.SelectedUsers, applicantEmail)
	return nil
}

// IssueCompletionOTP stores a fresh one-time code on behalf of a selected
// worker and moves the task to PendingVerification. An existing pending
// code is replaced wholesale, invalidating it.
func (t *Task) IssueCompletionOTP(workerEmail, code string, expiresAt time.Time) error {
	if t.IsCompleted() {
		return ErrAlreadyCompleted
	}
	if !t.IsSelected(workerEmail) {
		return ErrNotSelectedWorker
	}
	t.PendingOTP = &CompletionOTP{
		Code:        code,
		WorkerEmail: workerEmail,
		ExpiresAt:   expiresAt,
	}
	t.Status = StatusPendingVerification
	return nil
}

// VerifyCompletionOTP consumes the pending code and completes the task.
// A wrong code burns one attempt; at MaxOTPAttempts the code locks until
// a worker requests completion again. Returns the issuing worker's email
// on success so callers can credit the completion. Verifying again after
// completion reports no pending verification: the code was consumed.
func (t *Task) VerifyCompletionOTP(callerEmail, code string, now time.Time) (string, error) {
	if !t.IsOwner(callerEmail) {
		return "", ErrNotTaskOwner
	}
	if t.PendingOTP == nil || t.Status != StatusPendingVerification {
		return "", ErrNoPendingVerification
	}
	if t.PendingOTP.IsExpired(now) {
		return "", ErrCodeExpired
	}
	if t.PendingOTP.IsLocked() {
		return "", ErrTooManyAttempts
	}
	if t.PendingOTP.Code != code {
		t.PendingOTP.Attempts++
		return "", ErrCodeMismatch
	}

	worker := t.PendingOTP.WorkerEmail
	t.PendingOTP = nil
	t.Status = StatusCompleted
	return worker, nil
}

// ReclaimStaleOTP clears a pending code whose expiry lies past the grace
// window and parks the task in InProgress so a worker can request
// completion again. Reports whether anything changed.
func (t *Task) ReclaimStaleOTP(now time.Time, grace time.Duration) bool {
	if t.Status != StatusPendingVerification || t.PendingOTP == nil {
		return false
	}
	if now.Before(t.PendingOTP.ExpiresAt.Add(grace)) {
		return false
	}
	t.PendingOTP = nil
	t.Status = StatusInProgress
	return true
}

func contains(values []string, item string) bool {
	for _, v := range values {
		if v == item {
			return true
		}
	}
	return false
}
