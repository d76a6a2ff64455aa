package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	apperrors "github.com/davrell/tasklist/internal/platform/errors"
)

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	_ = encoder.Encode(payload)
}

// writeError maps a domain error to its HTTP status and a short message.
// Unexpected faults are logged server-side and returned as a generic 500 so
// internal detail never reaches the caller.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		log.Printf("unexpected error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal server error"})
		return
	}

	status := appErr.Code.HTTPStatus()
	if status == http.StatusInternalServerError {
		log.Printf("internal error [%s]: %v", appErr.Code, err)
		writeJSON(w, status, errorResponse{Message: "internal server error"})
		return
	}
	// Metadata is server-side context; it goes to the log, never the body.
	if len(appErr.Metadata) > 0 {
		log.Printf("request rejected [%s]: %v %v", appErr.Code, err, appErr.Metadata)
	}
	writeJSON(w, status, errorResponse{Message: appErr.Message})
}
