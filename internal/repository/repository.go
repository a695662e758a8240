// Package repository declares the storage interfaces the service layer
// depends on. Services receive these interfaces, never the concrete
// sqlite types — tests swap in in-memory mocks, and the storage backend
// could change without touching business logic.
package repository

import (
	"context"

	"github.com/sandesh/weatherly/internal/model"
)

// UserRepository persists user accounts.
type UserRepository interface {
	// Create inserts a new user. It checks the username first and then the
	// email, returning apperror.ErrDuplicateUsername or
	// apperror.ErrDuplicateEmail respectively — the check order is part of
	// the contract because registration surfaces only the first conflict.
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// GetByGitHubID looks up an account linked to a GitHub identity.
	// Returns apperror.ErrNotFound if no account is linked.
	GetByGitHubID(ctx context.Context, githubID int64) (*model.User, error)
}

// TaskRepository persists tasks. Ownership checks live in the service
// layer — the repository only guarantees referential integrity.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id string) (*model.Task, error)
	// ListByUser returns the user's tasks newest first.
	ListByUser(ctx context.Context, userID string) ([]model.Task, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}
