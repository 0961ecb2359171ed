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

type PostsHandler struct {
	store Store
}

func NewPostsHandler(store Store) *PostsHandler {
	return &PostsHandler{store: store}
}

// List returns every post, newest first. An author parameter narrows the
// list to exact author-name matches.
func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	var posts []models.Post
	var err error
	if author := r.URL.Query().Get("author"); author != "" {
		posts, err = h.store.ListPostsByAuthor(r.Context(), author)
	} else {
		posts, err = h.store.ListPosts(r.Context())
	}
	if err != nil {
		log.Printf("list posts: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch posts")
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

// Search returns posts whose title contains the q parameter.
func (h *PostsHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, "Missing search query")
		return
	}
	posts, err := h.store.SearchPosts(r.Context(), query)
	if err != nil {
		log.Printf("search posts: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to search posts")
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

// ListWithAuthors returns posts annotated with their referenced user's
// public fields.
func (h *PostsHandler) ListWithAuthors(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.ListPostsWithAuthors(r.Context())
	if err != nil {
		log.Printf("list posts with authors: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch posts")
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

// Create parses, validates and persists a new post. A malformed body and a
// validation failure are distinct 400 responses; only the latter carries
// field details.
func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.NewPost
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if result := schema.CheckNewPost(in); !result.OK {
		respondValidation(w, result)
		return
	}

	created, err := h.store.CreatePost(r.Context(), in)
	if err != nil {
		log.Printf("create post: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to create post")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

type updatePostRequest struct {
	Title    *string `json:"title"`
	Body     *string `json:"body"`
	Author   *string `json:"author"`
	AuthorID *int64  `json:"authorId"`
}

// Update applies a partial update to a post (admin extension surface).
func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	var req updatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	upd := models.PostUpdate{Title: req.Title, Body: req.Body, Author: req.Author, AuthorID: req.AuthorID}

	if result := schema.CheckPostUpdate(upd); !result.OK {
		respondValidation(w, result)
		return
	}

	updated, err := h.store.UpdatePost(r.Context(), id, upd)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Post not found")
			return
		}
		log.Printf("update post: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to update post")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// Delete removes a post and returns the deleted record (admin extension
// surface).
func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	deleted, err := h.store.DeletePost(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Post not found")
			return
		}
		log.Printf("delete post: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to delete post")
		return
	}
	respondJSON(w, http.StatusOK, deleted)
}
