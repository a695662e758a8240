// Package service contains the business logic layer: validation,
// ownership rules, and orchestration between repositories and the
// outward-facing handlers.
//
// Handlers parse HTTP and render pages; services know nothing about
// HTTP; repositories know nothing but storage. Services receive
// repository interfaces, so tests swap in in-memory mocks.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rs/xid"
	"github.com/sandesh/weatherly/internal/apperror"
	"github.com/sandesh/weatherly/internal/auth"
	"github.com/sandesh/weatherly/internal/model"
	"github.com/sandesh/weatherly/internal/repository"
)

// AuthService handles registration and login.
type AuthService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all dependencies injected.
func NewAuthService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		passwords: passwords,
		logger:    logger,
	}
}

// Register creates a new account.
//
// The repository enforces the duplicate checks (username first, then
// email) so the two-step check and the UNIQUE constraints live next to
// each other. The password is hashed here, before anything is persisted;
// the plaintext never leaves this call.
func (s *AuthService) Register(ctx context.Context, username, email, password, city string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	city = strings.TrimSpace(city)

	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Username:      username,
		Email:         email,
		PasswordHash:  hash,
		PreferredCity: city, // repository applies the default when blank
	}

	if err := s.users.Create(ctx, user); err != nil {
		// Duplicate errors are user-correctable, not server failures.
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Login verifies credentials and returns the user on success.
//
// INDISTINGUISHABLE FAILURES:
// An unknown username and a wrong password both return
// apperror.ErrInvalidCredentials. We still run a bcrypt comparison in the
// unknown-username case (against an empty hash, which always fails) so
// the two paths cost roughly the same and response timing doesn't reveal
// which usernames exist.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			_ = s.passwords.Verify("", password)
			return nil, apperror.InvalidCredentials()
		}
		return nil, fmt.Errorf("service/auth: looking up user %q: %w", username, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.InvalidCredentials()
	}

	s.logger.Info("user logged in",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// LoginWithGitHub finds or creates the local account for a GitHub
// identity. First sign-in creates an account with an empty password hash
// (unusable through the password form); later sign-ins just look it up.
func (s *AuthService) LoginWithGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*model.User, error) {
	if ghUser == nil {
		return nil, fmt.Errorf("service/auth: GitHub user must not be nil")
	}

	user, err := s.users.GetByGitHubID(ctx, ghUser.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: looking up GitHub user %d: %w", ghUser.ID, err)
	}

	email := ghUser.Email
	if email == "" {
		// GitHub hides the email when the user opts out; synthesize the
		// noreply form so the NOT NULL UNIQUE column stays satisfied.
		email = fmt.Sprintf("%d+%s@users.noreply.github.com", ghUser.ID, ghUser.Login)
	}

	user = &model.User{
		Username: ghUser.Login,
		Email:    email,
		GitHubID: ghUser.ID,
	}

	err = s.users.Create(ctx, user)
	if errors.Is(err, apperror.ErrDuplicateUsername) {
		// A password account already owns this username. Suffix with an
		// xid and retry once; xids are unique so the retry can only fail
		// on the email column.
		user.Username = ghUser.Login + "-" + xid.New().String()
		err = s.users.Create(ctx, user)
	}
	if err != nil {
		return nil, fmt.Errorf("service/auth: creating GitHub user %q: %w", ghUser.Login, err)
	}

	s.logger.Info("user registered via GitHub",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
		slog.Int64("githubID", ghUser.ID),
	)

	return user, nil
}

// GetUserByID returns the user for the given internal ID. Used by the
// dashboard to resolve the preferred city after the middleware has
// validated the session.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("service/auth: user ID must not be empty")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", id, err)
	}

	return user, nil
}
