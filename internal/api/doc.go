// Package api implements the HTTP JSON surface of the task list service.
//
// Handlers are grouped by concern:
//
//   - handlers_auth.go: signup and signin
//   - handlers_todos.go: owner-scoped todo CRUD, listing, and flag toggles
//   - middleware.go: bearer-token authentication for protected routes
//
// Handlers translate between wire payloads and the domain packages; business
// rules live in internal/user and internal/todo, persistence behind the
// storage interfaces.
package api
