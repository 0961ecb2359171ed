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

const userColumns = `id, name, email, username, phone, website, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Username,
		&user.Phone,
		&user.Website,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns every user ordered by name ascending.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY name ASC`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return users, nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(s.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

func (s *Store) CreateUser(ctx context.Context, in models.NewUser) (*models.User, error) {
	query := `
		INSERT INTO users (name, email, username, phone, website)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns
	user, err := scanUser(s.pool.QueryRow(ctx, query, in.Name, in.Email, in.Username, in.Phone, in.Website))
	if err != nil {
		if uniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// UpdateUser applies the non-nil fields of upd and refreshes updated_at.
func (s *Store) UpdateUser(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}

	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}
	if upd.Name != nil {
		appendSet("name", *upd.Name)
	}
	if upd.Email != nil {
		appendSet("email", *upd.Email)
	}
	if upd.Username != nil {
		appendSet("username", *upd.Username)
	}
	if upd.Phone != nil {
		appendSet("phone", *upd.Phone)
	}
	if upd.Website != nil {
		appendSet("website", *upd.Website)
	}

	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + userColumns
	user, err := scanUser(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if uniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// DeleteUser removes the user and returns the deleted record, or
// ErrNotFound. Posts referencing the user keep their author name; the
// foreign key is nullified by the schema's ON DELETE SET NULL.
func (s *Store) DeleteUser(ctx context.Context, id int64) (*models.User, error) {
	query := `DELETE FROM users WHERE id = $1 RETURNING ` + userColumns
	user, err := scanUser(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete user: %w", err)
	}
	return user, nil
}

// GetUserWithPosts returns the user and every post referencing them,
// newest post first.
func (s *Store) GetUserWithPosts(ctx context.Context, id int64) (*models.UserWithPosts, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + postColumns + ` FROM posts WHERE author_id = $1 ORDER BY created_at DESC`
	posts, err := s.collectPosts(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("get user posts: %w", err)
	}
	return &models.UserWithPosts{User: *user, Posts: posts}, nil
}
