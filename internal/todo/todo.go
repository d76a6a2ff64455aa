// Package todo provides the task record domain model.
package todo

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/davrell/tasklist/internal/platform/errors"
	"github.com/davrell/tasklist/internal/platform/id"
)

var (
	// ErrEmptyTitle indicates a missing todo title.
	ErrEmptyTitle = apperrors.New(apperrors.CodeTodoEmptyTitle, "title is required")
	// ErrEmptyOwnerID indicates a todo without an owning user.
	ErrEmptyOwnerID = apperrors.New(apperrors.CodeTodoEmptyOwnerID, "owner id is required")
)

// Todo represents a task record. OwnerID and CreatedAt are immutable after
// creation; everything else is mutated only through owner-scoped updates.
type Todo struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	IsFavorite  bool
	Pinned      bool
	CreatedAt   time.Time
}

// CreateTodoInput describes the fields needed to create a todo.
type CreateTodoInput struct {
	OwnerID     string
	Title       string
	Description string
}

// NewTodo creates a todo from validated input. New todos start unfavorited
// and unpinned.
func NewTodo(input CreateTodoInput, now func() time.Time, idGenerator func() (string, error)) (Todo, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	if strings.TrimSpace(input.OwnerID) == "" {
		return Todo{}, ErrEmptyOwnerID
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return Todo{}, ErrEmptyTitle
	}

	todoID, err := idGenerator()
	if err != nil {
		return Todo{}, fmt.Errorf("generate todo id: %w", err)
	}

	return Todo{
		ID:          todoID,
		OwnerID:     input.OwnerID,
		Title:       title,
		Description: input.Description,
		CreatedAt:   now().UTC(),
	}, nil
}

// Patch carries a partial update. Only non-nil fields are applied, so an
// absent field is left untouched rather than cleared.
type Patch struct {
	Title       *string
	Description *string
	IsFavorite  *bool
	Pinned      *bool
}

// IsZero reports whether the patch changes nothing.
func (p Patch) IsZero() bool {
	return p.Title == nil && p.Description == nil && p.IsFavorite == nil && p.Pinned == nil
}

// Validate rejects patches that would violate record invariants.
func (p Patch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

// Apply returns a copy of t with the patch fields applied.
func (p Patch) Apply(t Todo) Todo {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.IsFavorite != nil {
		t.IsFavorite = *p.IsFavorite
	}
	if p.Pinned != nil {
		t.Pinned = *p.Pinned
	}
	return t
}
