package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/davrell/tasklist/internal/storage/sqlite"
	"github.com/davrell/tasklist/internal/token"
)

// testServer creates a fully wired Server backed by a temp-file SQLite store.
func testServer(t *testing.T) (*Server, *token.Service) {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "tasklist.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	tokens, err := token.NewService([]byte("test-secret"), time.Hour, nil)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}

	server := NewServer(store, store, tokens)
	// Step the clock per call so records created in the same test get
	// distinct, ordered creation timestamps.
	server.clock = steppingClock(time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC))
	return server, tokens
}

func steppingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}

// doJSON performs a request against the server's full handler, encoding body
// as JSON and attaching bearerToken when non-empty.
func doJSON(t *testing.T, server *Server, method, path, bearerToken string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+bearerToken)
	}
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(target); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// signupAndSignin registers a user through the API and returns a bearer token.
func signupAndSignin(t *testing.T, server *Server, username, password string) string {
	t.Helper()
	creds := map[string]string{"username": username, "password": password}

	w := doJSON(t, server, http.MethodPost, "/api/auth/signup", "", creds)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup %s: expected 201, got %d (%s)", username, w.Code, w.Body.String())
	}

	w = doJSON(t, server, http.MethodPost, "/api/auth/signin", "", creds)
	if w.Code != http.StatusOK {
		t.Fatalf("signin %s: expected 200, got %d (%s)", username, w.Code, w.Body.String())
	}
	var response tokenResponse
	decodeJSON(t, w, &response)
	if response.Token == "" {
		t.Fatalf("signin %s: expected token in response", username)
	}
	return response.Token
}

// createTodo creates a todo through the API and returns its response body.
func createTodo(t *testing.T, server *Server, bearerToken, title, description string) todoResponse {
	t.Helper()
	w := doJSON(t, server, http.MethodPost, "/api/todos", bearerToken, map[string]string{
		"title":       title,
		"description": description,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create todo %q: expected 201, got %d (%s)", title, w.Code, w.Body.String())
	}
	var created todoResponse
	decodeJSON(t, w, &created)
	return created
}
