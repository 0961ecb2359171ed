package db

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/statelab/statelab/internal/models"
)

const postColumns = `id, title, body, author, author_id, created_at, updated_at`

func scanPost(row pgx.Row) (*models.Post, error) {
	var post models.Post
	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Body,
		&post.Author,
		&post.AuthorID,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *Store) collectPosts(ctx context.Context, query string, args ...any) ([]models.Post, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]models.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return posts, nil
}

// ListPosts returns every post, newest first.
func (s *Store) ListPosts(ctx context.Context) ([]models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC`
	posts, err := s.collectPosts(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// ListPostsByAuthor returns the posts whose author name matches exactly.
func (s *Store) ListPostsByAuthor(ctx context.Context, author string) ([]models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE author = $1 ORDER BY created_at DESC`
	posts, err := s.collectPosts(ctx, query, author)
	if err != nil {
		return nil, fmt.Errorf("list posts by author: %w", err)
	}
	return posts, nil
}

// SearchPosts returns the posts whose title contains the query as a
// case-sensitive substring.
func (s *Store) SearchPosts(ctx context.Context, substr string) ([]models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE title LIKE '%' || $1 || '%' ORDER BY created_at DESC`
	posts, err := s.collectPosts(ctx, query, substr)
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	return posts, nil
}

func (s *Store) GetPostByID(ctx context.Context, id int64) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	post, err := scanPost(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

func (s *Store) CreatePost(ctx context.Context, in models.NewPost) (*models.Post, error) {
	query := `
		INSERT INTO posts (title, body, author, author_id)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + postColumns
	post, err := scanPost(s.pool.QueryRow(ctx, query, in.Title, in.Body, in.Author, in.AuthorID))
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// UpdatePost applies the non-nil fields of upd to the post and refreshes
// updated_at. Returns ErrNotFound for an absent id.
func (s *Store) UpdatePost(ctx context.Context, id int64, upd models.PostUpdate) (*models.Post, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}

	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}
	if upd.Title != nil {
		appendSet("title", *upd.Title)
	}
	if upd.Body != nil {
		appendSet("body", *upd.Body)
	}
	if upd.Author != nil {
		appendSet("author", *upd.Author)
	}
	if upd.AuthorID != nil {
		appendSet("author_id", *upd.AuthorID)
	}

	query := `UPDATE posts SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + postColumns
	post, err := scanPost(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	return post, nil
}

// DeletePost removes the post and returns the deleted record, or ErrNotFound.
func (s *Store) DeletePost(ctx context.Context, id int64) (*models.Post, error) {
	query := `DELETE FROM posts WHERE id = $1 RETURNING ` + postColumns
	post, err := scanPost(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete post: %w", err)
	}
	return post, nil
}

// ListPostsWithAuthors returns every post annotated with its referenced
// user's public fields. Posts with no author reference yield a nil user.
func (s *Store) ListPostsWithAuthors(ctx context.Context) ([]models.PostWithAuthor, error) {
	const query = `
		SELECT
			p.id, p.title, p.body, p.author, p.created_at, p.updated_at,
			u.id, u.name, u.email, u.username
		FROM posts p
		LEFT JOIN users u ON p.author_id = u.id
		ORDER BY p.created_at DESC
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list posts with authors: %w", err)
	}
	defer rows.Close()

	posts := make([]models.PostWithAuthor, 0)
	for rows.Next() {
		var post models.PostWithAuthor
		var userID *int64
		var name, email, username *string
		err := rows.Scan(
			&post.ID,
			&post.Title,
			&post.Body,
			&post.Author,
			&post.CreatedAt,
			&post.UpdatedAt,
			&userID,
			&name,
			&email,
			&username,
		)
		if err != nil {
			return nil, fmt.Errorf("scan joined post: %w", err)
		}
		if userID != nil {
			post.User = &models.AuthorSummary{ID: *userID, Name: *name, Email: *email, Username: *username}
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return posts, nil
}
