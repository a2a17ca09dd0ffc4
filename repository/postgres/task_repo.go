package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/peerassist/backend/domain"
	"github.com/peerassist/backend/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

const taskColumns = `
	id, title, description, task_time, task_date, estimated_pay_rate,
	place_of_work, work_type, people_needed, creator_email, status, views,
	applicants, selected_users, pending_otp, created_at, updated_at`

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	row := r.pool.QueryRow(ctx, query, id)
	return scanTask(row)
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	query := `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE ($1 = '' OR status = $1)
	  AND ($2 = '' OR work_type = $2)
	  AND ($3 = '' OR creator_email = $3)
	  AND ($4 = '' OR creator_email <> $4)
	  AND ($5 = '' OR $5 = ANY(applicants))
	  AND ($6 = '' OR NOT ($6 = ANY(applicants)))
	  AND ($7 = '' OR $7 = ANY(selected_users))
	  AND ($8 = '' OR task_date >= $8::date)
	  AND ($9 = '' OR task_date <= $9::date)
	ORDER BY created_at ASC
	LIMIT $10 OFFSET $11
	`
	rows, err := r.pool.Query(ctx, query,
		string(filter.Status),
		filter.Category,
		filter.CreatorEmail,
		filter.ExcludeCreator,
		filter.Applicant,
		filter.ExcludeApplicant,
		filter.SelectedUser,
		filter.FromDate,
		filter.ToDate,
		clampLimit(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.Status == "" {
		task.Status = domain.StatusOpen
	}

	const query = `
	INSERT INTO tasks (
		id, title, description, task_time, task_date, estimated_pay_rate,
		place_of_work, work_type, people_needed, creator_email, status,
		applicants, selected_users
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.TaskTime,
		task.TaskDate,
		task.EstimatedPayRate,
		task.PlaceOfWork,
		string(task.WorkType),
		task.PeopleNeeded,
		task.CreatorEmail,
		string(task.Status),
		stringArray(task.Applicants),
		stringArray(task.SelectedUsers),
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}

	return task, nil
}

// Mutate loads the task under a row lock, applies fn and persists the
// result in the same transaction. Concurrent Mutate calls on one task
// serialize on the lock, so fn always sees the latest committed state.
func (r *taskRepository) Mutate(ctx context.Context, id string, fn repository.MutateFunc) (*domain.Task, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 FOR UPDATE`
	task, err := scanTask(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	if err := fn(task); err != nil {
		return nil, err
	}

	otp, err := marshalOTP(task.PendingOTP)
	if err != nil {
		return nil, err
	}

	const update = `
	UPDATE tasks
	SET title = $2,
		description = $3,
		task_time = $4,
		task_date = $5,
		estimated_pay_rate = $6,
		place_of_work = $7,
		work_type = $8,
		people_needed = $9,
		status = $10,
		applicants = $11,
		selected_users = $12,
		pending_otp = $13,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`
	if err := tx.QueryRow(ctx, update,
		task.ID,
		task.Title,
		task.Description,
		task.TaskTime,
		task.TaskDate,
		task.EstimatedPayRate,
		task.PlaceOfWork,
		string(task.WorkType),
		task.PeopleNeeded,
		string(task.Status),
		stringArray(task.Applicants),
		stringArray(task.SelectedUsers),
		otp,
	).Scan(&task.UpdatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) IncrementViews(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	const query = `UPDATE tasks SET views = views + 1 WHERE id = ANY($1)`
	_, err := r.pool.Exec(ctx, query, ids)
	return err
}

func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Task, error) {
	var task domain.Task
	var (
		workType string
		status   string
		otp      []byte
	)

	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.TaskTime,
		&task.TaskDate,
		&task.EstimatedPayRate,
		&task.PlaceOfWork,
		&workType,
		&task.PeopleNeeded,
		&task.CreatorEmail,
		&status,
		&task.Views,
		&task.Applicants,
		&task.SelectedUsers,
		&otp,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.WorkType = domain.TaskCategory(workType)
	task.Status = domain.TaskStatus(status)
	if len(otp) > 0 {
		var pending domain.CompletionOTP
		if err := json.Unmarshal(otp, &pending); err != nil {
			return nil, domain.WrapError(domain.ErrCodeInternal, "corrupt pending verification payload", err)
		}
		task.PendingOTP = &pending
	}

	return &task, nil
}
