package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/sandesh/weatherly/internal/apperror"
	"github.com/sandesh/weatherly/internal/auth"
	"github.com/sandesh/weatherly/internal/model"
	"github.com/sandesh/weatherly/internal/weather"
)

// Hand-written in-memory mocks. They implement the same repository
// interfaces as the sqlite package, including the duplicate-check order
// and not-found sentinels the services rely on.

type mockUserRepo struct {
	users  map[string]*model.User // keyed by ID
	nextID int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	// Username first, then email — same order as the real repository.
	for _, u := range m.users {
		if u.Username == user.Username {
			return apperror.DuplicateUsername()
		}
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperror.DuplicateEmail()
		}
	}

	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	if user.PreferredCity == "" {
		user.PreferredCity = model.DefaultCity
	}
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

func (m *mockUserRepo) GetByGitHubID(_ context.Context, githubID int64) (*model.User, error) {
	for _, u := range m.users {
		if u.GitHubID == githubID && githubID != 0 {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", fmt.Sprint(githubID))
}

type mockTaskRepo struct {
	tasks  map[string]*model.Task
	order  []string // creation order of IDs
	nextID int
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[string]*model.Task)}
}

func (m *mockTaskRepo) Create(_ context.Context, task *model.Task) error {
	m.nextID++
	task.ID = fmt.Sprintf("task-%d", m.nextID)
	if task.Status == "" {
		task.Status = model.StatusPending
	}
	stored := *task
	m.tasks[task.ID] = &stored
	m.order = append(m.order, task.ID)
	return nil
}

func (m *mockTaskRepo) GetByID(_ context.Context, id string) (*model.Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return nil, apperror.NotFound("task", id)
	}
	result := *t
	return &result, nil
}

func (m *mockTaskRepo) ListByUser(_ context.Context, userID string) ([]model.Task, error) {
	// Newest first — walk the creation order backwards.
	var result []model.Task
	for i := len(m.order) - 1; i >= 0; i-- {
		if t := m.tasks[m.order[i]]; t != nil && t.UserID == userID {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (m *mockTaskRepo) UpdateStatus(_ context.Context, id, status string) error {
	t, ok := m.tasks[id]
	if !ok {
		return apperror.NotFound("task", id)
	}
	t.Status = status
	return nil
}

func (m *mockTaskRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.tasks[id]; !ok {
		return apperror.NotFound("task", id)
	}
	delete(m.tasks, id)
	return nil
}

// mockWeather returns a canned snapshot or error.
type mockWeather struct {
	snapshot *weather.Snapshot
	err      error
}

func (m *mockWeather) Current(_ context.Context, city string) (*weather.Snapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	snap := *m.snapshot
	snap.City = city
	return &snap, nil
}

// =========================================================================
// SHARED HELPERS
// =========================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestAuthService(t *testing.T) (*AuthService, *mockUserRepo) {
	t.Helper()
	repo := newMockUserRepo()
	svc := NewAuthService(repo, auth.NewPasswordServiceForTest(4), testLogger())
	return svc, repo
}

func newTestTaskService(t *testing.T) (*TaskService, *mockTaskRepo) {
	t.Helper()
	repo := newMockTaskRepo()
	svc := NewTaskService(repo, testLogger())
	return svc, repo
}
