package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/davrell/tasklist/internal/storage"
	"github.com/davrell/tasklist/internal/todo"
)

const (
	defaultPage  = 1
	defaultLimit = 10

	todoColumns = `id, owner_id, title, description, is_favorite, pinned, created_at`
)

// PutTodo persists a new todo record.
func (s *Store) PutTodo(ctx context.Context, t todo.Todo) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ensureDB(); err != nil {
		return err
	}
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("todo id is required")
	}
	if strings.TrimSpace(t.OwnerID) == "" {
		return fmt.Errorf("todo owner id is required")
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO todos (id, owner_id, title, description, is_favorite, pinned, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.OwnerID, t.Title, t.Description, boolToInt(t.IsFavorite), boolToInt(t.Pinned), toMillis(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("put todo: %w", err)
	}
	return nil
}

// ListTodos returns one page of the owner's todos, pinned first and newest
// first within each pinned group. Total and page counts reflect the filtered
// set, not the full owner set.
func (s *Store) ListTodos(ctx context.Context, query storage.TodoQuery) (storage.TodoPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.TodoPage{}, err
	}
	if err := s.ensureDB(); err != nil {
		return storage.TodoPage{}, err
	}
	if strings.TrimSpace(query.OwnerID) == "" {
		return storage.TodoPage{}, fmt.Errorf("owner id is required")
	}

	page := query.Page
	if page < 1 {
		page = defaultPage
	}
	limit := query.Limit
	if limit < 1 {
		limit = defaultLimit
	}

	// Empty search matches everything; otherwise unanchored case-insensitive
	// substring on the title.
	filter := ` WHERE owner_id = ?1 AND (?2 = '' OR instr(lower(title), lower(?2)) > 0)`

	var total int
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM todos`+filter,
		query.OwnerID, query.Search,
	).Scan(&total)
	if err != nil {
		return storage.TodoPage{}, fmt.Errorf("count todos: %w", err)
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+todoColumns+` FROM todos`+filter+
			` ORDER BY pinned DESC, created_at DESC LIMIT ?3 OFFSET ?4`,
		query.OwnerID, query.Search, limit, (page-1)*limit,
	)
	if err != nil {
		return storage.TodoPage{}, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	var todos []todo.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return storage.TodoPage{}, err
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return storage.TodoPage{}, fmt.Errorf("iterate todos: %w", err)
	}

	return storage.TodoPage{
		Todos: todos,
		Total: total,
		Page:  page,
		Pages: (total + limit - 1) / limit,
	}, nil
}

// GetTodo returns the todo with the given id when it belongs to ownerID.
func (s *Store) GetTodo(ctx context.Context, ownerID, todoID string) (todo.Todo, error) {
	if err := ctx.Err(); err != nil {
		return todo.Todo{}, err
	}
	if err := s.ensureDB(); err != nil {
		return todo.Todo{}, err
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE id = ? AND owner_id = ?`,
		todoID, ownerID,
	)
	t, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return todo.Todo{}, storage.ErrNotFound
		}
		return todo.Todo{}, err
	}
	return t, nil
}

// UpdateTodo applies a partial update inside a transaction and returns the
// updated record. Fields absent from the patch are left untouched.
func (s *Store) UpdateTodo(ctx context.Context, ownerID, todoID string, patch todo.Patch) (todo.Todo, error) {
	if err := ctx.Err(); err != nil {
		return todo.Todo{}, err
	}
	if err := s.ensureDB(); err != nil {
		return todo.Todo{}, err
	}
	if err := patch.Validate(); err != nil {
		return todo.Todo{}, err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return todo.Todo{}, fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	row := tx.QueryRowContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE id = ? AND owner_id = ?`,
		todoID, ownerID,
	)
	current, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return todo.Todo{}, storage.ErrNotFound
		}
		return todo.Todo{}, err
	}

	updated := patch.Apply(current)
	if _, err := tx.ExecContext(ctx,
		`UPDATE todos SET title = ?, description = ?, is_favorite = ?, pinned = ?
		WHERE id = ? AND owner_id = ?`,
		updated.Title, updated.Description, boolToInt(updated.IsFavorite), boolToInt(updated.Pinned),
		todoID, ownerID,
	); err != nil {
		return todo.Todo{}, fmt.Errorf("update todo: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return todo.Todo{}, fmt.Errorf("commit update: %w", err)
	}
	return updated, nil
}

// DeleteTodo removes the todo with the given id when it belongs to ownerID.
func (s *Store) DeleteTodo(ctx context.Context, ownerID, todoID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ensureDB(); err != nil {
		return err
	}

	result, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM todos WHERE id = ? AND owner_id = ?`,
		todoID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete todo rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ToggleFavorite flips the favorite flag in place and returns the updated
// record. The flip is a single statement so concurrent toggles cannot lose
// updates.
func (s *Store) ToggleFavorite(ctx context.Context, ownerID, todoID string) (todo.Todo, error) {
	return s.toggleFlag(ctx, ownerID, todoID, "is_favorite")
}

// TogglePinned flips the pinned flag in place and returns the updated record.
func (s *Store) TogglePinned(ctx context.Context, ownerID, todoID string) (todo.Todo, error) {
	return s.toggleFlag(ctx, ownerID, todoID, "pinned")
}

func (s *Store) toggleFlag(ctx context.Context, ownerID, todoID, column string) (todo.Todo, error) {
	if err := ctx.Err(); err != nil {
		return todo.Todo{}, err
	}
	if err := s.ensureDB(); err != nil {
		return todo.Todo{}, err
	}

	result, err := s.sqlDB.ExecContext(ctx,
		`UPDATE todos SET `+column+` = 1 - `+column+` WHERE id = ? AND owner_id = ?`,
		todoID, ownerID,
	)
	if err != nil {
		return todo.Todo{}, fmt.Errorf("toggle %s: %w", column, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return todo.Todo{}, fmt.Errorf("toggle %s rows affected: %w", column, err)
	}
	if affected == 0 {
		return todo.Todo{}, storage.ErrNotFound
	}
	return s.GetTodo(ctx, ownerID, todoID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (todo.Todo, error) {
	var t todo.Todo
	var isFavorite, pinned int
	var createdAt int64
	err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &isFavorite, &pinned, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return todo.Todo{}, err
		}
		return todo.Todo{}, fmt.Errorf("scan todo: %w", err)
	}
	t.IsFavorite = isFavorite != 0
	t.Pinned = pinned != 0
	t.CreatedAt = fromMillis(createdAt)
	return t, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
