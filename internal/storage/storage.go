// Package storage defines the persistence contracts for users and todos.
package storage

import (
	"context"

	"github.com/davrell/tasklist/internal/platform/errors"
	"github.com/davrell/tasklist/internal/todo"
	"github.com/davrell/tasklist/internal/user"
)

// ErrNotFound indicates a requested record is missing. Lookups scoped to an
// owner return it for records owned by someone else, so callers cannot
// distinguish "missing" from "not yours".
var ErrNotFound = errors.New(errors.CodeNotFound, "record not found")

// ErrUsernameTaken indicates a signup reused an existing username.
var ErrUsernameTaken = errors.New(errors.CodeUsernameTaken, "username is already taken")

// UserStore persists account records.
type UserStore interface {
	// PutUser persists a new user. It returns ErrUsernameTaken when the
	// username is already claimed, without mutating state.
	PutUser(ctx context.Context, u user.User) error
	GetUser(ctx context.Context, userID string) (user.User, error)
	GetUserByUsername(ctx context.Context, username string) (user.User, error)
}

// TodoQuery describes an owner-scoped, filtered, paginated listing.
type TodoQuery struct {
	OwnerID string
	Search  string // case-insensitive title substring; empty matches all
	Page    int    // 1-indexed
	Limit   int    // items per page
}

// TodoPage is one page of todos plus totals for the filtered set.
type TodoPage struct {
	Todos []todo.Todo
	Total int
	Page  int
	Pages int
}

// TodoStore persists task records. Every lookup and mutation is keyed by
// (ownerID, id) together; a non-owned record behaves exactly like a missing
// one.
type TodoStore interface {
	PutTodo(ctx context.Context, t todo.Todo) error
	ListTodos(ctx context.Context, query TodoQuery) (TodoPage, error)
	GetTodo(ctx context.Context, ownerID, todoID string) (todo.Todo, error)
	UpdateTodo(ctx context.Context, ownerID, todoID string, patch todo.Patch) (todo.Todo, error)
	DeleteTodo(ctx context.Context, ownerID, todoID string) error
	ToggleFavorite(ctx context.Context, ownerID, todoID string) (todo.Todo, error)
	TogglePinned(ctx context.Context, ownerID, todoID string) (todo.Todo, error)
}
