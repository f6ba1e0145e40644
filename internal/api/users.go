package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/iot-inventory/internal/integrity"
	"github.com/nerrad567/iot-inventory/internal/user"
)

// handleListUsers returns all users, or the one matching ?email=.
//
// GET /users
// GET /users?email=ana@lab.io
// Response: {"users": [...], "count": N}
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if email := r.URL.Query().Get("email"); email != "" {
		u, err := s.users.FindByEmail(ctx, email)
		if errors.Is(err, integrity.ErrNotFound) {
			writeList(w, "users", []user.User{})
			return
		}
		if err != nil {
			s.writeServiceError(w, r, "user", err)
			return
		}
		writeList(w, "users", []user.User{*u})
		return
	}

	users, err := s.users.List(ctx)
	if err != nil {
		s.writeServiceError(w, r, "user", err)
		return
	}
	writeList(w, "users", users)
}

// handleCreateUser creates a user. The password is hashed before storage
// and never returned.
//
// POST /users
// Response: 201 Created with the user
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var in user.CreateInput
	if !decodeJSON(w, r, &in) {
		return
	}

	u, err := s.users.Create(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, "user", err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// handleGetUser returns one user.
//
// GET /users/{id}
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, "user", err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// handleUpdateUser applies a partial update.
//
// PATCH /users/{id}
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var p user.Patch
	if !decodeJSON(w, r, &p) {
		return
	}

	u, err := s.users.Update(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		s.writeServiceError(w, r, "user", err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// handleDeleteUser removes a user who owns no devices.
//
// DELETE /users/{id}
// Response: {"message": "...", "user": {id, email, name}}
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	sum, err := s.users.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, "user", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "user deleted",
		"user":    sum,
	})
}
