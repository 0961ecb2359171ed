package models

import "time"

type Post struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Author string `json:"author"`
	// AuthorID is nil for posts that carry only the free-text author name.
	AuthorID  *int64    `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewPost carries the caller-supplied fields of a post; the store assigns
// id and timestamps.
type NewPost struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Author   string `json:"author"`
	AuthorID *int64 `json:"authorId,omitempty"`
}

// PostUpdate is a partial update: nil fields are left untouched.
type PostUpdate struct {
	Title    *string
	Body     *string
	Author   *string
	AuthorID *int64
}

// AuthorSummary is the public subset of User exposed on joined reads.
type AuthorSummary struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
}

// PostWithAuthor is the left-join projection of a post and its referenced
// user. User is nil when the post has no author reference.
type PostWithAuthor struct {
	ID        int64          `json:"id"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Author    string         `json:"author"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	User      *AuthorSummary `json:"user"`
}
