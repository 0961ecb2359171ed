package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/statelab/statelab/internal/models"
	"github.com/statelab/statelab/internal/schema"
)

// Store is the persistence surface the handlers depend on. *db.Store
// implements it; tests substitute an in-memory implementation.
type Store interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	ListPostsByAuthor(ctx context.Context, author string) ([]models.Post, error)
	SearchPosts(ctx context.Context, substr string) ([]models.Post, error)
	ListPostsWithAuthors(ctx context.Context) ([]models.PostWithAuthor, error)
	CreatePost(ctx context.Context, in models.NewPost) (*models.Post, error)
	UpdatePost(ctx context.Context, id int64, upd models.PostUpdate) (*models.Post, error)
	DeletePost(ctx context.Context, id int64) (*models.Post, error)

	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, in models.NewUser) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) (*models.User, error)
}

type ErrorResponse struct {
	Error   string              `json:"error"`
	Details []schema.FieldError `json:"details,omitempty"`
}

func Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

func respondValidation(w http.ResponseWriter, result schema.Result) {
	respondJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   "Validation failed",
		Details: result.Errors,
	})
}
