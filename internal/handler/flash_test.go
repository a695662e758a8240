package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFlashRoundTrip(t *testing.T) {
	// Set the flash on one response...
	rec := httptest.NewRecorder()
	setFlash(rec, "success", "Task added!")

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("len(cookies) = %d, want 1", len(cookies))
	}

	// ...and read it back on the next request.
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookies[0])

	rec2 := httptest.NewRecorder()
	flash := takeFlash(rec2, req)
	if flash == nil {
		t.Fatal("takeFlash() = nil, want a flash")
	}
	if flash.Category != "success" {
		t.Errorf("Category = %q, want %q", flash.Category, "success")
	}
	if flash.Message != "Task added!" {
		t.Errorf("Message = %q, want %q", flash.Message, "Task added!")
	}

	// takeFlash must clear the cookie.
	var cleared bool
	for _, c := range rec2.Result().Cookies() {
		if c.Name == flashCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("takeFlash() did not clear the flash cookie")
	}
}

func TestTakeFlash_NoCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	if flash := takeFlash(rec, req); flash != nil {
		t.Errorf("takeFlash() = %+v, want nil", flash)
	}
}

func TestFlash_MessageWithSpecialCharacters(t *testing.T) {
	rec := httptest.NewRecorder()
	setFlash(rec, "success", "Welcome back, alice & bob; 100%!")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(rec.Result().Cookies()[0])

	flash := takeFlash(httptest.NewRecorder(), req)
	if flash == nil {
		t.Fatal("takeFlash() = nil, want a flash")
	}
	if flash.Message != "Welcome back, alice & bob; 100%!" {
		t.Errorf("Message = %q, escaping is not round-tripping", flash.Message)
	}
}
