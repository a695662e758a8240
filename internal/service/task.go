package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sandesh/weatherly/internal/model"
	"github.com/sandesh/weatherly/internal/repository"
)

// TaskService handles the task list business rules: ownership checks and
// the silent-no-op cases the forms rely on.
type TaskService struct {
	tasks  repository.TaskRepository
	logger *slog.Logger
}

// NewTaskService creates a TaskService.
func NewTaskService(tasks repository.TaskRepository, logger *slog.Logger) *TaskService {
	return &TaskService{
		tasks:  tasks,
		logger: logger,
	}
}

// List returns the user's tasks, newest first.
func (s *TaskService) List(ctx context.Context, userID string) ([]model.Task, error) {
	tasks, err := s.tasks.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list tasks",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return tasks, nil
}

// Add creates a pending task for the user.
//
// An empty or whitespace-only name is a silent no-op: no task is created,
// no error is returned, and the caller just redirects back to the
// dashboard. The form is the only way in, and an empty submit simply
// does nothing.
func (s *TaskService) Add(ctx context.Context, userID, name string) (*model.Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	task := &model.Task{
		UserID: userID,
		Name:   name,
		Status: model.StatusPending,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		s.logger.Error("failed to add task",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("adding task: %w", err)
	}

	s.logger.Info("task added",
		slog.String("taskID", task.ID),
		slog.String("userID", userID),
	)

	return task, nil
}

// Toggle flips a task between pending and completed.
//
// OWNERSHIP GATES THE MUTATION, NOT THE LOOKUP:
// A task ID that exists nowhere is a hard NotFound. A task that exists
// but belongs to a different user is returned unchanged with no error —
// the caller can't tell the toggle didn't happen. That mirrors the
// long-standing behavior of this app; a warning is logged so the attempt
// is at least visible to operators.
func (s *TaskService) Toggle(ctx context.Context, userID, taskID string) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if task.UserID != userID {
		s.logger.Warn("cross-user task toggle ignored",
			slog.String("taskID", taskID),
			slog.String("ownerID", task.UserID),
			slog.String("actorID", userID),
		)
		return task, nil
	}

	if task.Status == model.StatusPending {
		task.Status = model.StatusCompleted
	} else {
		task.Status = model.StatusPending
	}

	// Plain UPDATE, last write wins — two sessions toggling at once
	// don't conflict, the later write overwrites.
	if err := s.tasks.UpdateStatus(ctx, task.ID, task.Status); err != nil {
		s.logger.Error("failed to toggle task",
			slog.String("taskID", taskID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("toggling task: %w", err)
	}

	s.logger.Info("task toggled",
		slog.String("taskID", task.ID),
		slog.String("status", task.Status),
	)

	return task, nil
}

// Delete removes a task. Same ownership semantics as Toggle: unknown ID
// is NotFound, someone else's task is a silent no-op.
func (s *TaskService) Delete(ctx context.Context, userID, taskID string) error {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}

	if task.UserID != userID {
		s.logger.Warn("cross-user task delete ignored",
			slog.String("taskID", taskID),
			slog.String("ownerID", task.UserID),
			slog.String("actorID", userID),
		)
		return nil
	}

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		s.logger.Error("failed to delete task",
			slog.String("taskID", taskID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("deleting task: %w", err)
	}

	s.logger.Info("task deleted", slog.String("taskID", taskID))
	return nil
}
