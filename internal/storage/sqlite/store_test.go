package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/davrell/tasklist/internal/storage"
	"github.com/davrell/tasklist/internal/todo"
	"github.com/davrell/tasklist/internal/user"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "tasklist.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedUser(t *testing.T, store *Store, username string) user.User {
	t.Helper()
	created, err := user.CreateUser(user.CreateUserInput{Username: username, Password: "correct-horse"}, nil, nil)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := store.PutUser(context.Background(), created); err != nil {
		t.Fatalf("put user: %v", err)
	}
	return created
}

func seedTodo(t *testing.T, store *Store, ownerID, title string, createdAt time.Time) todo.Todo {
	t.Helper()
	created, err := todo.NewTodo(
		todo.CreateTodoInput{OwnerID: ownerID, Title: title},
		func() time.Time { return createdAt },
		nil,
	)
	if err != nil {
		t.Fatalf("new todo: %v", err)
	}
	if err := store.PutTodo(context.Background(), created); err != nil {
		t.Fatalf("put todo: %v", err)
	}
	return created
}

func TestPutUserDuplicateUsername(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := seedUser(t, store, "mika")

	dup, err := user.CreateUser(user.CreateUserInput{Username: "mika", Password: "other-pass"}, nil, nil)
	if err != nil {
		t.Fatalf("create duplicate user: %v", err)
	}
	if err := store.PutUser(ctx, dup); !errors.Is(err, storage.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	// The original record is untouched.
	stored, err := store.GetUserByUsername(ctx, "mika")
	if err != nil {
		t.Fatalf("get user by username: %v", err)
	}
	if stored.ID != first.ID {
		t.Fatalf("stored user %q, want original %q", stored.ID, first.ID)
	}
}

func TestGetUserRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	created := seedUser(t, store, "mika")

	byID, err := store.GetUser(ctx, created.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if byID.Username != "mika" || byID.PasswordHash != created.PasswordHash {
		t.Fatalf("unexpected user: %+v", byID)
	}

	if _, err := store.GetUser(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.GetUserByUsername(ctx, "nobody"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListTodosPagination(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	owner := seedUser(t, store, "mika")

	base := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		seedTodo(t, store, owner.ID, fmt.Sprintf("todo %02d", i), base.Add(time.Duration(i)*time.Minute))
	}

	page, err := store.ListTodos(ctx, storage.TodoQuery{OwnerID: owner.ID, Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("list todos: %v", err)
	}
	if len(page.Todos) != 10 {
		t.Fatalf("page 1 len = %d, want 10", len(page.Todos))
	}
	if page.Total != 15 || page.Pages != 2 || page.Page != 1 {
		t.Fatalf("page meta = total %d page %d pages %d, want 15/1/2", page.Total, page.Page, page.Pages)
	}

	second, err := store.ListTodos(ctx, storage.TodoQuery{OwnerID: owner.ID, Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("list todos page 2: %v", err)
	}
	if len(second.Todos) != 5 {
		t.Fatalf("page 2 len = %d, want 5", len(second.Todos))
	}

	// Newest first.
	if page.Todos[0].Title != "todo 14" {
		t.Fatalf("first item = %q, want todo 14", page.Todos[0].Title)
	}
}

func TestListTodosPinnedFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	owner := seedUser(t, store, "mika")

	base := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	oldPinned := seedTodo(t, store, owner.ID, "old pinned", base)
	seedTodo(t, store, owner.ID, "newer plain", base.Add(time.Hour))
	if _, err := store.TogglePinned(ctx, owner.ID, oldPinned.ID); err != nil {
		t.Fatalf("toggle pinned: %v", err)
	}

	page, err := store.ListTodos(ctx, storage.TodoQuery{OwnerID: owner.ID})
	if err != nil {
		t.Fatalf("list todos: %v", err)
	}
	if len(page.Todos) != 2 {
		t.Fatalf("len = %d, want 2", len(page.Todos))
	}
	if page.Todos[0].Title != "old pinned" || !page.Todos[0].Pinned {
		t.Fatalf("expected pinned todo first despite being older, got %+v", page.Todos[0])
	}
}

func TestListTodosSearch(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	owner := seedUser(t, store, "mika")

	base := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	seedTodo(t, store, owner.ID, "Buy Milk", base)
	seedTodo(t, store, owner.ID, "walk dog", base.Add(time.Minute))
	seedTodo(t, store, owner.ID, "buy milkshake mix", base.Add(2*time.Minute))

	page, err := store.ListTodos(ctx, storage.TodoQuery{OwnerID: owner.ID, Search: "MILK"})
	if err != nil {
		t.Fatalf("list todos: %v", err)
	}
	if page.Total != 2 || len(page.Todos) != 2 {
		t.Fatalf("search total = %d len = %d, want 2/2", page.Total, len(page.Todos))
	}
	for _, item := range page.Todos {
		if item.Title == "walk dog" {
			t.Fatalf("search matched unrelated todo: %+v", item)
		}
	}

	// Pages reflect the filtered set.
	if page.Pages != 1 {
		t.Fatalf("pages = %d, want 1", page.Pages)
	}
}

func TestListTodosScopedToOwner(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")

	base := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	seedTodo(t, store, alice.ID, "alice secret", base)

	page, err := store.ListTodos(ctx, storage.TodoQuery{OwnerID: bob.ID})
	if err != nil {
		t.Fatalf("list todos: %v", err)
	}
	if page.Total != 0 || len(page.Todos) != 0 || page.Pages != 0 {
		t.Fatalf("expected empty page for other owner, got %+v", page)
	}
}

func TestGetTodoOwnedByOtherUserIsNotFound(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")

	created := seedTodo(t, store, alice.ID, "alice secret", time.Now())

	if _, err := store.GetTodo(ctx, bob.ID, created.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for cross-owner get, got %v", err)
	}
	if _, err := store.UpdateTodo(ctx, bob.ID, created.ID, todo.Patch{}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for cross-owner update, got %v", err)
	}
	if err := store.DeleteTodo(ctx, bob.ID, created.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for cross-owner delete, got %v", err)
	}
	if _, err := store.ToggleFavorite(ctx, bob.ID, created.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for cross-owner favorite, got %v", err)
	}
	if _, err := store.TogglePinned(ctx, bob.ID, created.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for cross-owner pin, got %v", err)
	}

	// The record is still intact for its owner.
	if _, err := store.GetTodo(ctx, alice.ID, created.ID); err != nil {
		t.Fatalf("owner get after cross-owner attempts: %v", err)
	}
}

func TestUpdateTodoPartial(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	owner := seedUser(t, store, "mika")
	created := seedTodo(t, store, owner.ID, "Buy milk", time.Now())

	desc := "oat milk"
	updated, err := store.UpdateTodo(ctx, owner.ID, created.ID, todo.Patch{Description: &desc})
	if err != nil {
		t.Fatalf("update todo: %v", err)
	}
	if updated.Description != "oat milk" {
		t.Fatalf("Description = %q, want oat milk", updated.Description)
	}
	if updated.Title != "Buy milk" || updated.IsFavorite || updated.Pinned {
		t.Fatalf("unrelated fields changed: %+v", updated)
	}

	blank := "  "
	if _, err := store.UpdateTodo(ctx, owner.ID, created.ID, todo.Patch{Title: &blank}); !errors.Is(err, todo.ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
}

func TestToggleFavoriteTwiceRestoresValue(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	owner := seedUser(t, store, "mika")
	created := seedTodo(t, store, owner.ID, "Buy milk", time.Now())

	once, err := store.ToggleFavorite(ctx, owner.ID, created.ID)
	if err != nil {
		t.Fatalf("toggle favorite: %v", err)
	}
	if !once.IsFavorite {
		t.Fatal("expected favorite after first toggle")
	}

	twice, err := store.ToggleFavorite(ctx, owner.ID, created.ID)
	if err != nil {
		t.Fatalf("toggle favorite again: %v", err)
	}
	if twice.IsFavorite {
		t.Fatal("expected original value after second toggle")
	}
}

func TestDeleteTodo(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	owner := seedUser(t, store, "mika")
	created := seedTodo(t, store, owner.ID, "Buy milk", time.Now())

	if err := store.DeleteTodo(ctx, owner.ID, created.ID); err != nil {
		t.Fatalf("delete todo: %v", err)
	}
	if _, err := store.GetTodo(ctx, owner.ID, created.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.DeleteTodo(ctx, owner.ID, created.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
