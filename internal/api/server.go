package api

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/davrell/tasklist/internal/storage"
	"github.com/davrell/tasklist/internal/token"
)

// Server hosts the auth and todo endpoints.
type Server struct {
	users  storage.UserStore
	todos  storage.TodoStore
	tokens *token.Service
	clock  func() time.Time
	tracer trace.Tracer
}

// NewServer builds an API server bound to its backing stores and token
// service.
func NewServer(users storage.UserStore, todos storage.TodoStore, tokens *token.Service) *Server {
	return &Server{
		users:  users,
		todos:  todos,
		tokens: tokens,
		clock:  time.Now,
		tracer: otel.Tracer("github.com/davrell/tasklist/internal/api"),
	}
}

// RegisterRoutes registers all HTTP endpoints on the provided mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	if mux == nil {
		return
	}

	mux.HandleFunc("POST /api/auth/signup", s.handleSignup)
	mux.HandleFunc("POST /api/auth/signin", s.handleSignin)

	mux.Handle("POST /api/todos", s.requireUser(s.handleCreateTodo))
	mux.Handle("GET /api/todos", s.requireUser(s.handleListTodos))
	mux.Handle("GET /api/todos/{id}", s.requireUser(s.handleGetTodo))
	mux.Handle("PUT /api/todos/{id}", s.requireUser(s.handleUpdateTodo))
	mux.Handle("DELETE /api/todos/{id}", s.requireUser(s.handleDeleteTodo))
	mux.Handle("PUT /api/todos/{id}/favorite", s.requireUser(s.handleToggleFavorite))
	mux.Handle("PUT /api/todos/{id}/pinned", s.requireUser(s.handleTogglePinned))

	mux.HandleFunc("GET /up", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}

// Handler returns the full request handler: routes wrapped with tracing.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return s.withTracing(mux)
}

// withTracing opens one span per request. With no tracer provider configured
// the global tracer is a no-op, so this costs nothing unless tracing is
// enabled at startup.
func (s *Server) withTracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := s.tracer.Start(r.Context(), r.Method+" "+r.URL.Path)
		defer span.End()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
