package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// User errors
	CodeUserEmptyUsername   Code = "USER_EMPTY_USERNAME"
	CodeUserInvalidUsername Code = "USER_INVALID_USERNAME"
	CodeUserEmptyPassword   Code = "USER_EMPTY_PASSWORD"
	CodeUsernameTaken       Code = "USERNAME_TAKEN"
	CodeInvalidCredentials  Code = "INVALID_CREDENTIALS"

	// Token errors
	CodeTokenInvalid Code = "TOKEN_INVALID"
	CodeTokenExpired Code = "TOKEN_EXPIRED"

	// Request errors
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeInvalidPayload  Code = "INVALID_PAYLOAD"

	// Todo errors
	CodeTodoEmptyTitle   Code = "TODO_EMPTY_TITLE"
	CodeTodoEmptyOwnerID Code = "TODO_EMPTY_OWNER_ID"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad request - validation failures, bad input, credential mismatches.
	// Duplicate usernames surface as 400 to match the public API contract,
	// even though the code itself is conflict-flavored.
	case CodeUserEmptyUsername,
		CodeUserInvalidUsername,
		CodeUserEmptyPassword,
		CodeUsernameTaken,
		CodeInvalidCredentials,
		CodeInvalidPayload,
		CodeTodoEmptyTitle,
		CodeTodoEmptyOwnerID:
		return http.StatusBadRequest

	// Unauthorized - missing, malformed, expired, or stale tokens.
	case CodeTokenInvalid,
		CodeTokenExpired,
		CodeUnauthenticated:
		return http.StatusUnauthorized

	// Not found - unknown records, including records owned by someone else.
	case CodeNotFound:
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}
