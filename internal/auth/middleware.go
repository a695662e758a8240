package auth

import (
	"context"
	"net/http"
)

// contextKey is an unexported type for context keys in this package.
// Using a private type means no other package can read or shadow the
// userID value we put in the request context.
type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth guards routes that need a logged-in user.
//
// REDIRECT, NOT 401:
// This is a browser application, not a JSON API. An anonymous request for
// /dashboard should land the user on the login page, so the guard answers
// with a 303 redirect to /login instead of an error status. Handlers
// behind this middleware can rely on UserIDFromContext returning a value.
func RequireAuth(sessions *SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, sessions)
			if err != nil {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RedirectIfAuthenticated is the inverse guard for /login and /register:
// a user who already has a valid session gets sent straight to the
// dashboard instead of seeing the form again.
func RedirectIfAuthenticated(sessions *SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, err := extractUserID(r, sessions); err == nil && userID != "" {
				http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID set by
// RequireAuth. Returns ("", false) for anonymous requests.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// IsAuthenticated reports whether the request carries a valid session.
// Used by the landing page, which serves both states.
func IsAuthenticated(r *http.Request, sessions *SessionService) bool {
	userID, err := extractUserID(r, sessions)
	return err == nil && userID != ""
}

// extractUserID reads the session cookie and validates it.
func extractUserID(r *http.Request, sessions *SessionService) (string, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		// http.ErrNoCookie — no session at all, the request is anonymous.
		return "", err
	}

	return sessions.Validate(cookie.Value)
}
