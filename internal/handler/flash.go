package handler

import (
	"net/http"
	"net/url"
	"strings"
)

// flashCookie carries a one-shot message across a redirect, standing in
// for a server-side session store: set on the redirecting response, read
// and cleared on the next render. Sessions here are stateless signed
// tokens, so there is nowhere server-side to park a message.
const flashCookie = "flash"

// Flash is a one-shot message shown on the next rendered page.
// Category is one of "success", "danger", "info" and maps to styling.
type Flash struct {
	Category string
	Message  string
}

// setFlash stores a flash message for the next page load. The value is
// "category|message", URL-escaped to stay within cookie-safe characters.
func setFlash(w http.ResponseWriter, category, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(category + "|" + message),
		Path:     "/",
		MaxAge:   60, // a flash that's never read shouldn't linger
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeFlash reads and clears the flash cookie. Returns nil when there is
// no message (the common case).
func takeFlash(w http.ResponseWriter, r *http.Request) *Flash {
	cookie, err := r.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}

	// Clear it: a flash is shown exactly once.
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	value, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return nil
	}

	category, message, found := strings.Cut(value, "|")
	if !found {
		return &Flash{Category: "info", Message: value}
	}
	return &Flash{Category: category, Message: message}
}
