package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/statelab/statelab/internal/db"
	"github.com/statelab/statelab/internal/models"
	"github.com/statelab/statelab/internal/schema"
)

type UsersHandler struct {
	store Store
}

func NewUsersHandler(store Store) *UsersHandler {
	return &UsersHandler{store: store}
}

// List returns every user ordered by name.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		log.Printf("list users: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// Create parses, validates and persists a new user. A duplicate email is a
// store failure on this surface and collapses into the generic 500; the
// detail stays in the server log.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.NewUser
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if result := schema.CheckNewUser(in); !result.OK {
		respondValidation(w, result)
		return
	}

	created, err := h.store.CreateUser(r.Context(), in)
	if err != nil {
		log.Printf("create user: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Username *string `json:"username"`
	Phone    *string `json:"phone"`
	Website  *string `json:"website"`
}

// Update applies a partial update to a user (admin extension surface).
// Unlike the public create path, a duplicate email maps to 409 here.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	upd := models.UserUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Username: req.Username,
		Phone:    req.Phone,
		Website:  req.Website,
	}

	if result := schema.CheckUserUpdate(upd); !result.OK {
		respondValidation(w, result)
		return
	}

	updated, err := h.store.UpdateUser(r.Context(), id, upd)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		if errors.Is(err, db.ErrDuplicateEmail) {
			respondError(w, http.StatusConflict, "Email already exists")
			return
		}
		log.Printf("update user: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// Delete removes a user and returns the deleted record (admin extension
// surface). Posts referencing the user keep their author name.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	deleted, err := h.store.DeleteUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("delete user: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	respondJSON(w, http.StatusOK, deleted)
}
