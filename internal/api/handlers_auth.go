package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	apperrors "github.com/davrell/tasklist/internal/platform/errors"
	"github.com/davrell/tasklist/internal/storage"
	"github.com/davrell/tasklist/internal/user"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var payload credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apperrors.Wrap(apperrors.CodeInvalidPayload, "invalid request body", err))
		return
	}

	created, err := user.CreateUser(user.CreateUserInput{
		Username: payload.Username,
		Password: payload.Password,
	}, s.clock, nil)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.users.PutUser(r.Context(), created); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, messageResponse{Message: "user created successfully"})
}

func (s *Server) handleSignin(w http.ResponseWriter, r *http.Request) {
	var payload credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apperrors.Wrap(apperrors.CodeInvalidPayload, "invalid request body", err))
		return
	}

	// Usernames are stored normalized, so the lookup normalizes the same way
	// or mixed-case credentials that signed up could never sign in.
	username := strings.ToLower(strings.TrimSpace(payload.Username))

	// Unknown usernames and wrong passwords produce the same response so
	// signin does not leak which usernames exist.
	u, err := s.users.GetUserByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, user.ErrInvalidCredentials)
			return
		}
		writeError(w, err)
		return
	}
	if err := u.CheckPassword(payload.Password); err != nil {
		writeError(w, err)
		return
	}

	signed, err := s.tokens.Issue(u.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: signed})
}
