package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	apperrors "github.com/davrell/tasklist/internal/platform/errors"
	"github.com/davrell/tasklist/internal/platform/requestctx"
	"github.com/davrell/tasklist/internal/storage"
	"github.com/davrell/tasklist/internal/todo"
	"github.com/davrell/tasklist/internal/user"
)

type createTodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// updateTodoRequest carries an explicit patch: only fields present in the
// body are applied, so `{"description": ""}` clears the description while an
// absent description leaves it alone.
type updateTodoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsFavorite  *bool   `json:"isFavorite"`
	Pinned      *bool   `json:"pinned"`
}

type todoResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsFavorite  bool      `json:"isFavorite"`
	Pinned      bool      `json:"pinned"`
	CreatedAt   time.Time `json:"createdAt"`
}

type todoListResponse struct {
	Todos []todoResponse `json:"todos"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Pages int            `json:"pages"`
}

func toTodoResponse(t todo.Todo) todoResponse {
	return todoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		IsFavorite:  t.IsFavorite,
		Pinned:      t.Pinned,
		CreatedAt:   t.CreatedAt,
	}
}

// callerUser returns the user the auth gate attached to the request.
func callerUser(r *http.Request) (user.User, bool) {
	return requestctx.UserFromContext(r.Context())
}

func (s *Server) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerUser(r)
	if !ok {
		writeError(w, errMissingToken)
		return
	}

	var payload createTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apperrors.Wrap(apperrors.CodeInvalidPayload, "invalid request body", err))
		return
	}

	created, err := todo.NewTodo(todo.CreateTodoInput{
		OwnerID:     caller.ID,
		Title:       payload.Title,
		Description: payload.Description,
	}, s.clock, nil)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.todos.PutTodo(r.Context(), created); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTodoResponse(created))
}

func (s *Server) handleListTodos(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerUser(r)
	if !ok {
		writeError(w, errMissingToken)
		return
	}

	query := storage.TodoQuery{
		OwnerID: caller.ID,
		Search:  r.URL.Query().Get("search"),
		Page:    queryInt(r, "page", 1),
		Limit:   queryInt(r, "limit", 10),
	}

	page, err := s.todos.ListTodos(r.Context(), query)
	if err != nil {
		writeError(w, err)
		return
	}

	todos := make([]todoResponse, 0, len(page.Todos))
	for _, t := range page.Todos {
		todos = append(todos, toTodoResponse(t))
	}
	writeJSON(w, http.StatusOK, todoListResponse{
		Todos: todos,
		Total: page.Total,
		Page:  page.Page,
		Pages: page.Pages,
	})
}

func (s *Server) handleGetTodo(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerUser(r)
	if !ok {
		writeError(w, errMissingToken)
		return
	}

	t, err := s.todos.GetTodo(r.Context(), caller.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTodoResponse(t))
}

func (s *Server) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerUser(r)
	if !ok {
		writeError(w, errMissingToken)
		return
	}

	var payload updateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apperrors.Wrap(apperrors.CodeInvalidPayload, "invalid request body", err))
		return
	}

	patch := todo.Patch{
		Title:       payload.Title,
		Description: payload.Description,
		IsFavorite:  payload.IsFavorite,
		Pinned:      payload.Pinned,
	}
	updated, err := s.todos.UpdateTodo(r.Context(), caller.ID, r.PathValue("id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTodoResponse(updated))
}

func (s *Server) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerUser(r)
	if !ok {
		writeError(w, errMissingToken)
		return
	}

	if err := s.todos.DeleteTodo(r.Context(), caller.ID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Todo deleted"})
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerUser(r)
	if !ok {
		writeError(w, errMissingToken)
		return
	}

	toggled, err := s.todos.ToggleFavorite(r.Context(), caller.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTodoResponse(toggled))
}

func (s *Server) handleTogglePinned(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerUser(r)
	if !ok {
		writeError(w, errMissingToken)
		return
	}

	toggled, err := s.todos.TogglePinned(r.Context(), caller.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTodoResponse(toggled))
}

// queryInt parses a positive integer query parameter, falling back to the
// default on absent or malformed values.
func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
