package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/rs/xid"
	"github.com/sandesh/weatherly/internal/apperror"
	"github.com/sandesh/weatherly/internal/auth"
	"github.com/sandesh/weatherly/internal/service"
)

// AuthHandler serves the registration and login pages and their form
// posts, plus logout and the optional GitHub sign-in flow.
//
// Every POST follows post/redirect/get: outcomes travel as a flash
// cookie and the browser always lands on a GET. Refreshing never
// resubmits a form.
type AuthHandler struct {
	auth     *service.AuthService
	sessions *auth.SessionService
	github   *auth.GitHubProvider // nil when GitHub sign-in isn't configured
	renderer *Renderer
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler. github may be nil; the GitHub
// routes are only registered when it isn't.
func NewAuthHandler(
	authSvc *service.AuthService,
	sessions *auth.SessionService,
	github *auth.GitHubProvider,
	renderer *Renderer,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		auth:     authSvc,
		sessions: sessions,
		github:   github,
		renderer: renderer,
		logger:   logger,
	}
}

// GitHubEnabled reports whether the GitHub sign-in routes should exist.
func (h *AuthHandler) GitHubEnabled() bool {
	return h.github != nil
}

// HandleRegisterPage renders the registration form.
//
// HTTP: GET /register (anonymous only — the middleware redirects
// logged-in users to the dashboard before this runs)
func (h *AuthHandler) HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, "register.html", map[string]any{
		"Title":  "Register — Weatherly",
		"Cities": service.Cities,
		"GitHub": h.GitHubEnabled(),
	})
}

// HandleRegister processes the registration form.
//
// HTTP: POST /register
// Duplicate username/email and validation problems are user-correctable:
// flash the message and send them back to the form. Anything else is a
// server problem and renders a 500.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	_, err := h.auth.Register(r.Context(),
		r.PostFormValue("username"),
		r.PostFormValue("email"),
		r.PostFormValue("password"),
		r.PostFormValue("city"),
	)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			setFlash(w, "danger", appErr.Message)
			http.Redirect(w, r, "/register", http.StatusSeeOther)
			return
		}
		h.logger.Error("registration failed", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	setFlash(w, "success", "Registration successful! Please login.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// HandleLoginPage renders the login form.
//
// HTTP: GET /login (anonymous only)
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, "login.html", map[string]any{
		"Title":  "Login — Weatherly",
		"GitHub": h.GitHubEnabled(),
	})
}

// HandleLogin processes the login form.
//
// HTTP: POST /login
// Success establishes the session cookie and lands on the dashboard.
// Failure flashes the single invalid-credentials message — the handler
// never knows whether the username or the password was wrong.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	user, err := h.auth.Login(r.Context(),
		r.PostFormValue("username"),
		r.PostFormValue("password"),
	)
	if err != nil {
		if errors.Is(err, apperror.ErrInvalidCredentials) {
			setFlash(w, "danger", "Invalid username or password")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		h.logger.Error("login failed", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := h.establishSession(w, user.ID); err != nil {
		h.logger.Error("issuing session failed", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	setFlash(w, "success", "Welcome back, "+user.Username+"!")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// HandleLogout clears the session.
//
// HTTP: GET /logout (authenticated)
// The session token itself stays valid until it expires; without the
// cookie the browser can no longer present it.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearCookie(w)
	setFlash(w, "info", "You have been logged out.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleGitHubLogin starts the GitHub OAuth flow.
//
// HTTP: GET /auth/github/login (anonymous only)
// The random state lands in a short-lived cookie; the callback checks it
// to make sure the flow started here (CSRF protection).
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10 minutes
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback completes the GitHub OAuth flow.
//
// HTTP: GET /auth/github/callback?code=xxx&state=yyy
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("github callback: state mismatch")
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}

	// The state is single-use.
	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		// The user denied the authorization request on GitHub.
		setFlash(w, "info", "GitHub sign-in was cancelled.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing OAuth code", http.StatusBadRequest)
		return
	}

	ghUser, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("github callback: exchange failed", slog.String("error", err.Error()))
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	user, err := h.auth.LoginWithGitHub(r.Context(), ghUser)
	if err != nil {
		h.logger.Error("github callback: sign-in failed",
			slog.Int64("githubID", ghUser.ID),
			slog.String("error", err.Error()),
		)
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	if err := h.establishSession(w, user.ID); err != nil {
		h.logger.Error("issuing session failed", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	setFlash(w, "success", "Welcome, "+user.Username+"!")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// establishSession issues a session token and sets it as the cookie.
func (h *AuthHandler) establishSession(w http.ResponseWriter, userID string) error {
	token, err := h.sessions.Issue(userID)
	if err != nil {
		return err
	}
	auth.SetCookie(w, token)
	return nil
}
