package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bulatsharif/trading-api/internal/platform/logger"
	"github.com/bulatsharif/trading-api/internal/store"
	"github.com/bulatsharif/trading-api/internal/task"
)

// Rehydrator reconstructs the execution logic of a task loaded from the
// database based on its type and persisted payload. Recovered tasks carry
// only data; the wiring layer supplies the behavior.
type Rehydrator interface {
	Rehydrate(taskType string, payload []byte) (func(ctx context.Context) error, error)
}

// PostgresTaskStore implements the task.TaskStore interface using PostgreSQL
type PostgresTaskStore struct {
	db         store.DBTX
	rehydrator Rehydrator
}

// NewPostgresTaskStore creates a new PostgresTaskStore. The rehydrator may
// be nil when recovery is not needed (e.g., in tests); recovered tasks then
// fail their execution with a descriptive error.
func NewPostgresTaskStore(db store.DBTX, rehydrator Rehydrator) *PostgresTaskStore {
	return &PostgresTaskStore{
		db:         db,
		rehydrator: rehydrator,
	}
}

// Ensure PostgresTaskStore implements task.TaskStore interface
var _ task.TaskStore = (*PostgresTaskStore)(nil)

// SaveTask persists a task to the database
func (s *PostgresTaskStore) SaveTask(ctx context.Context, t task.Task) error {
	log := logger.FromContext(ctx)

	query := `
		INSERT INTO tasks (id, type, payload, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, query,
		t.ID(),
		t.Type(),
		t.Payload(),
		t.Status(),
		now,
		now,
	)

	if err != nil {
		log.Error("failed to save task",
			"task_id", t.ID(),
			"task_type", t.Type(),
			"error", err)
		return fmt.Errorf("failed to save task to database: %w", MapError(err))
	}

	return nil
}

// UpdateTaskStatus updates the status of a task in the database
func (s *PostgresTaskStore) UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status task.TaskStatus, errorMsg string) error {
	log := logger.FromContext(ctx)

	query := `
		UPDATE tasks
		SET status = $1, error_message = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(ctx, query,
		status,
		errorMsg,
		time.Now().UTC(),
		taskID,
	)

	if err != nil {
		log.Error("failed to update task status",
			"task_id", taskID,
			"status", status,
			"error", err)
		return fmt.Errorf("failed to update task status: %w", MapError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		// Task not found, treat as no-op
		log.Warn("no task found with ID to update status", "task_id", taskID)
	}

	return nil
}

// GetPendingTasks retrieves all tasks with "pending" status
func (s *PostgresTaskStore) GetPendingTasks(ctx context.Context) ([]task.Task, error) {
	return s.getTasksByStatus(ctx, task.TaskStatusPending, 0)
}

// GetProcessingTasks retrieves tasks with "processing" status
func (s *PostgresTaskStore) GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]task.Task, error) {
	return s.getTasksByStatus(ctx, task.TaskStatusProcessing, olderThan)
}

// WithTx returns a new TaskStore instance that uses the provided transaction
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) task.TaskStore {
	return &PostgresTaskStore{
		db:         tx,
		rehydrator: s.rehydrator,
	}
}

// getTasksByStatus is a helper method to get tasks by status with optional age filter
func (s *PostgresTaskStore) getTasksByStatus(ctx context.Context, status task.TaskStatus, olderThan time.Duration) ([]task.Task, error) {
	log := logger.FromContext(ctx)

	var query string
	var args []any

	if olderThan > 0 {
		query = `
			SELECT id, type, payload, status, error_message
			FROM tasks
			WHERE status = $1 AND updated_at < $2
			ORDER BY created_at ASC
		`
		args = []any{status, time.Now().UTC().Add(-olderThan)}
	} else {
		query = `
			SELECT id, type, payload, status, error_message
			FROM tasks
			WHERE status = $1
			ORDER BY created_at ASC
		`
		args = []any{status}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks by status",
			"status", status,
			"error", err)
		return nil, fmt.Errorf("failed to query tasks by status: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var tasks []task.Task

	for rows.Next() {
		var id uuid.UUID
		var taskType string
		var payload []byte
		var taskStatus task.TaskStatus
		var errorMessage sql.NullString

		if err := rows.Scan(&id, &taskType, &payload, &taskStatus, &errorMessage); err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}

		t := &recoveredTask{
			id:       id,
			taskType: taskType,
			payload:  payload,
			status:   taskStatus,
		}

		if s.rehydrator != nil {
			executeFn, err := s.rehydrator.Rehydrate(taskType, payload)
			if err != nil {
				log.Error("failed to rehydrate recovered task",
					"task_id", id,
					"task_type", taskType,
					"error", err)
			} else {
				t.executeFn = executeFn
			}
		}

		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", MapError(err))
	}

	return tasks, nil
}

// recoveredTask implements the task.Task interface for tasks loaded from
// the database. Its behavior is supplied by the store's Rehydrator.
type recoveredTask struct {
	id        uuid.UUID
	taskType  string
	payload   []byte
	status    task.TaskStatus
	executeFn func(ctx context.Context) error
}

// ID returns the task's unique identifier
func (t *recoveredTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *recoveredTask) Type() string {
	return t.taskType
}

// Payload returns the task data as a byte slice
func (t *recoveredTask) Payload() []byte {
	return t.payload
}

// Status returns the current task status
func (t *recoveredTask) Status() task.TaskStatus {
	return t.status
}

// Execute runs the rehydrated task logic.
func (t *recoveredTask) Execute(ctx context.Context) error {
	if t.executeFn == nil {
		return errors.New("no execution function defined for recovered task")
	}
	return t.executeFn(ctx)
}
