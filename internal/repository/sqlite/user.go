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

// UserStore implements repository.UserRepository on the shared pool.
type UserStore struct {
	conn *sql.DB
}

// compile-time check that *UserStore implements repository.UserRepository
var _ repository.UserRepository = (*UserStore)(nil)

// Create inserts a new user after checking for conflicts.
//
// CHECK ORDER MATTERS:
// Registration reports only the first conflict, and the username check
// comes before the email check. That order is observable behavior (a
// request with both taken reports "Username already exists!"), so we do
// two explicit lookups rather than relying on which UNIQUE constraint
// the INSERT happens to trip first.
//
// The UNIQUE constraints still back us up: if two registrations race
// between the check and the INSERT, the loser gets a constraint error
// instead of silently creating a duplicate.
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	var exists int
	err := s.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username = ?`, user.Username,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("sqlite: checking username %q: %w", user.Username, err)
	}
	if exists > 0 {
		return apperror.DuplicateUsername()
	}

	err = s.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = ?`, user.Email,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("sqlite: checking email %q: %w", user.Email, err)
	}
	if exists > 0 {
		return apperror.DuplicateEmail()
	}

	user.ID = xid.New().String()
	user.CreatedAt = time.Now()
	if user.PreferredCity == "" {
		user.PreferredCity = model.DefaultCity
	}

	// github_id is NULL unless the account came through GitHub sign-in.
	var githubID any
	if user.GitHubID != 0 {
		githubID = user.GitHubID
	}

	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, preferred_city, github_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.PreferredCity,
		githubID,
		user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Username, err)
	}

	return nil
}

// GetByID retrieves a user by internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (s *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.getUser(ctx,
		`SELECT id, username, email, password_hash, preferred_city, github_id, created_at
		 FROM users WHERE id = ?`, id)
}

// GetByUsername retrieves a user by username.
// Returns apperror.ErrNotFound if the username is unknown.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.getUser(ctx,
		`SELECT id, username, email, password_hash, preferred_city, github_id, created_at
		 FROM users WHERE username = ?`, username)
}

// GetByGitHubID retrieves the account linked to a GitHub identity.
func (s *UserStore) GetByGitHubID(ctx context.Context, githubID int64) (*model.User, error) {
	return s.getUser(ctx,
		`SELECT id, username, email, password_hash, preferred_city, github_id, created_at
		 FROM users WHERE github_id = ?`, githubID)
}

func (s *UserStore) getUser(ctx context.Context, query string, arg any) (*model.User, error) {
	var (
		u        model.User
		githubID sql.NullInt64
	)

	err := s.conn.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.PreferredCity,
		&githubID,
		&u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprint(arg))
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}

	if githubID.Valid {
		u.GitHubID = githubID.Int64
	}

	return &u, nil
}
