package model

import "time"

// Task statuses. A task is either pending or completed — toggling flips
// between the two.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Task is a single to-do item owned by exactly one user.
// A task has no existence independent of its owner: deleting the user
// cascades to its tasks at the database level.
type Task struct {
	ID        string    `json:"id"        db:"id"`
	UserID    string    `json:"userId"    db:"user_id"`
	Name      string    `json:"name"      db:"name"`
	Status    string    `json:"status"    db:"status"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Completed reports whether the task has been marked done.
func (t Task) Completed() bool {
	return t.Status == StatusCompleted
}
