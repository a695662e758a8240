package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sandesh/weatherly/internal/apperror"
	"github.com/sandesh/weatherly/internal/model"
)

// =========================================================================
// ADD TESTS
// =========================================================================

func TestAdd_Success(t *testing.T) {
	svc, _ := newTestTaskService(t)

	task, err := svc.Add(context.Background(), "user-1", "Buy milk")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if task == nil {
		t.Fatal("Add() returned nil task")
	}
	if task.Name != "Buy milk" {
		t.Errorf("Name = %q, want %q", task.Name, "Buy milk")
	}
	if task.Status != model.StatusPending {
		t.Errorf("Status = %q, want %q", task.Status, model.StatusPending)
	}
}

func TestAdd_TrimsWhitespace(t *testing.T) {
	svc, _ := newTestTaskService(t)

	task, err := svc.Add(context.Background(), "user-1", "  Buy milk  ")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if task.Name != "Buy milk" {
		t.Errorf("Name = %q, want trimmed %q", task.Name, "Buy milk")
	}
}

func TestAdd_EmptyNameIsNoOp(t *testing.T) {
	svc, _ := newTestTaskService(t)

	for _, name := range []string{"", "   ", "\t\n"} {
		task, err := svc.Add(context.Background(), "user-1", name)
		if err != nil {
			t.Errorf("Add(%q) error = %v, want nil (silent no-op)", name, err)
		}
		if task != nil {
			t.Errorf("Add(%q) created a task, want no-op", name)
		}
	}

	// The list must be unchanged.
	tasks, err := svc.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("len(tasks) = %d after empty adds, want 0", len(tasks))
	}
}

// =========================================================================
// LIST TESTS
// =========================================================================

func TestList_NewestFirst(t *testing.T) {
	svc, _ := newTestTaskService(t)

	for _, name := range []string{"first", "second", "third"} {
		if _, err := svc.Add(context.Background(), "user-1", name); err != nil {
			t.Fatalf("setup: Add(%q) error = %v", name, err)
		}
	}

	tasks, err := svc.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	wantOrder := []string{"third", "second", "first"}
	if len(tasks) != len(wantOrder) {
		t.Fatalf("len(tasks) = %d, want %d", len(tasks), len(wantOrder))
	}
	for i, want := range wantOrder {
		if tasks[i].Name != want {
			t.Errorf("tasks[%d].Name = %q, want %q", i, tasks[i].Name, want)
		}
	}
}

func TestList_Idempotent(t *testing.T) {
	svc, _ := newTestTaskService(t)

	if _, err := svc.Add(context.Background(), "user-1", "Buy milk"); err != nil {
		t.Fatalf("setup: Add() error = %v", err)
	}

	first, err := svc.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	second, err := svc.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(first) != len(second) {
		t.Errorf("List() is not idempotent: %d vs %d tasks", len(first), len(second))
	}
}

// =========================================================================
// TOGGLE TESTS
// =========================================================================

func TestToggle_FlipsBothWays(t *testing.T) {
	svc, _ := newTestTaskService(t)

	created, err := svc.Add(context.Background(), "user-1", "Buy milk")
	if err != nil {
		t.Fatalf("setup: Add() error = %v", err)
	}

	toggled, err := svc.Toggle(context.Background(), "user-1", created.ID)
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if toggled.Status != model.StatusCompleted {
		t.Errorf("Status = %q, want %q", toggled.Status, model.StatusCompleted)
	}

	back, err := svc.Toggle(context.Background(), "user-1", created.ID)
	if err != nil {
		t.Fatalf("second Toggle() error = %v", err)
	}
	if back.Status != model.StatusPending {
		t.Errorf("Status = %q, want %q after double toggle", back.Status, model.StatusPending)
	}
}

func TestToggle_NotFound(t *testing.T) {
	svc, _ := newTestTaskService(t)

	_, err := svc.Toggle(context.Background(), "user-1", "nonexistent")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestToggle_CrossUserIsSilentNoOp(t *testing.T) {
	svc, repo := newTestTaskService(t)

	owned, err := svc.Add(context.Background(), "user-B", "B's task")
	if err != nil {
		t.Fatalf("setup: Add() error = %v", err)
	}

	// User A toggles B's task: no error, state unchanged.
	got, err := svc.Toggle(context.Background(), "user-A", owned.ID)
	if err != nil {
		t.Fatalf("Toggle() by non-owner error = %v, want silent no-op", err)
	}
	if got.Status != model.StatusPending {
		t.Errorf("returned Status = %q, want unchanged %q", got.Status, model.StatusPending)
	}

	stored, err := repo.GetByID(context.Background(), owned.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if stored.Status != model.StatusPending {
		t.Errorf("stored Status = %q, toggle must not have run", stored.Status)
	}
}

// =========================================================================
// DELETE TESTS
// =========================================================================

func TestDelete_Success(t *testing.T) {
	svc, _ := newTestTaskService(t)

	created, err := svc.Add(context.Background(), "user-1", "Buy milk")
	if err != nil {
		t.Fatalf("setup: Add() error = %v", err)
	}

	if err := svc.Delete(context.Background(), "user-1", created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	tasks, err := svc.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("len(tasks) = %d after delete, want 0", len(tasks))
	}
}

func TestDelete_NotFound(t *testing.T) {
	svc, _ := newTestTaskService(t)

	err := svc.Delete(context.Background(), "user-1", "nonexistent")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestDelete_CrossUserIsSilentNoOp(t *testing.T) {
	svc, repo := newTestTaskService(t)

	owned, err := svc.Add(context.Background(), "user-B", "B's task")
	if err != nil {
		t.Fatalf("setup: Add() error = %v", err)
	}

	if err := svc.Delete(context.Background(), "user-A", owned.ID); err != nil {
		t.Fatalf("Delete() by non-owner error = %v, want silent no-op", err)
	}

	// B's task must still exist.
	if _, err := repo.GetByID(context.Background(), owned.ID); err != nil {
		t.Errorf("task was deleted by a non-owner: %v", err)
	}
}

// =========================================================================
// END-TO-END SCENARIO
// =========================================================================

func TestTaskLifecycle(t *testing.T) {
	svc, _ := newTestTaskService(t)
	ctx := context.Background()

	// add → list shows one pending task
	created, err := svc.Add(ctx, "alice", "Buy milk")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	tasks, err := svc.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tasks) != 1 || tasks[0].Name != "Buy milk" || tasks[0].Status != model.StatusPending {
		t.Fatalf("List() = %+v, want one pending %q", tasks, "Buy milk")
	}

	// toggle → completed
	toggled, err := svc.Toggle(ctx, "alice", created.ID)
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if toggled.Status != model.StatusCompleted {
		t.Errorf("Status = %q, want %q", toggled.Status, model.StatusCompleted)
	}

	// delete → list empty
	if err := svc.Delete(ctx, "alice", created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	tasks, err = svc.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("len(tasks) = %d, want 0", len(tasks))
	}
}
