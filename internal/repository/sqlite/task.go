package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sandesh/weatherly/internal/apperror"
	"github.com/sandesh/weatherly/internal/model"
	"github.com/sandesh/weatherly/internal/repository"
)

// TaskStore implements repository.TaskRepository on the shared pool.
type TaskStore struct {
	conn *sql.DB
}

// compile-time check that *TaskStore implements repository.TaskRepository
var _ repository.TaskRepository = (*TaskStore)(nil)

// Create inserts a new task. The caller sets UserID and Name; ID, status,
// and the creation timestamp are filled in here. xid IDs sort by creation
// time, which gives the DESC ordering a stable tiebreak when two tasks
// land in the same second.
func (s *TaskStore) Create(ctx context.Context, task *model.Task) error {
	task.ID = xid.New().String()
	task.CreatedAt = time.Now()
	if task.Status == "" {
		task.Status = model.StatusPending
	}

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO tasks (id, user_id, name, status, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		task.ID,
		task.UserID,
		task.Name,
		task.Status,
		task.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating task: %w", err)
	}

	return nil
}

// GetByID retrieves a single task by its ID, regardless of owner — the
// ownership check belongs to the service layer, which needs to tell
// "no such task" apart from "someone else's task".
func (s *TaskStore) GetByID(ctx context.Context, id string) (*model.Task, error) {
	var t model.Task

	err := s.conn.QueryRowContext(ctx,
		`SELECT id, user_id, name, status, created_at
		 FROM tasks WHERE id = ?`,
		id,
	).Scan(
		&t.ID,
		&t.UserID,
		&t.Name,
		&t.Status,
		&t.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("task", id)
		}
		return nil, fmt.Errorf("sqlite: getting task %s: %w", id, err)
	}

	return &t, nil
}

// ListByUser returns all of a user's tasks, newest first. No pagination —
// this is a personal task list, not a feed.
func (s *TaskStore) ListByUser(ctx context.Context, userID string) ([]model.Task, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, user_id, name, status, created_at
		 FROM tasks
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tasks for user %s: %w", userID, err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Status, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tasks: %w", err)
	}

	return tasks, nil
}

// UpdateStatus sets a task's status. Single UPDATE, last write wins — two
// sessions toggling the same task concurrently don't conflict, the later
// statement simply overwrites.
func (s *TaskStore) UpdateStatus(ctx context.Context, id, status string) error {
	result, err := s.conn.ExecContext(ctx,
		`UPDATE tasks SET status = ? WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating task %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("task", id)
	}

	return nil
}

// Delete removes a task by ID. Same pattern as UpdateStatus — zero rows
// affected means the task never existed.
func (s *TaskStore) Delete(ctx context.Context, id string) error {
	result, err := s.conn.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting task %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("task", id)
	}

	return nil
}
