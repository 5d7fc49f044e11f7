package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
)

func TestAuthMiddlewareRejectsAnonymous(t *testing.T) {
	store := sessions.NewCookieStore([]byte("test-secret"))

	handled := false
	wrapped := AuthMiddleware(store, func(w http.ResponseWriter, r *http.Request) {
		handled = true
	})

	recorder := httptest.NewRecorder()
	wrapped(recorder, httptest.NewRequest("GET", "/friends", nil))

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 without a session, got %d", recorder.Code)
	}
	if handled {
		t.Fatalf("The inner handler must not run without a session")
	}
}

func TestAuthMiddlewarePassesSessionAccount(t *testing.T) {
	store := sessions.NewCookieStore([]byte("test-secret"))

	// Log in once to obtain the cookie the real login handler would set.
	loginRecorder := httptest.NewRecorder()
	loginRequest := httptest.NewRequest("POST", "/login", nil)
	session, err := store.Get(loginRequest, "auth-session")
	if err != nil {
		t.Fatalf("Could not create a session: %v", err)
	}
	session.Values["account_uuid"] = "u-alice"
	session.Values["name"] = "alice"
	if err := session.Save(loginRequest, loginRecorder); err != nil {
		t.Fatalf("Could not save the session: %v", err)
	}
	cookies := loginRecorder.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("Expected a session cookie to be set")
	}

	wrapped := AuthMiddleware(store, func(w http.ResponseWriter, r *http.Request) {
		account, ok := AccountFrom(r.Context())
		if !ok {
			t.Fatalf("Expected the account on the request context")
		}
		if account.UUID != "u-alice" || account.Name != "alice" {
			t.Fatalf("Wrong account on the context: %+v", account)
		}
		w.WriteHeader(http.StatusOK)
	})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/friends", nil)
	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}
	wrapped(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected the request to pass with a session, got %d", recorder.Code)
	}
}
