package handlers

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/statelab/statelab/internal/db"
	"github.com/statelab/statelab/internal/models"
)

// memStore is an in-memory Store with the same ordering, uniqueness and
// sentinel semantics as the real one. Creation timestamps advance by one
// second per record so ordering is deterministic.
type memStore struct {
	mu      sync.Mutex
	posts   []models.Post
	users   []models.User
	nextID  int64
	base    time.Time
	failing bool
}

func newMemStore() *memStore {
	return &memStore{base: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

var errStoreDown = errors.New("store unreachable")

func (m *memStore) tick() time.Time {
	m.nextID++
	return m.base.Add(time.Duration(m.nextID) * time.Second)
}

func (m *memStore) ListPosts(ctx context.Context) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return nil, errStoreDown
	}
	out := make([]models.Post, len(m.posts))
	copy(out, m.posts)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) ListPostsByAuthor(ctx context.Context, author string) ([]models.Post, error) {
	posts, err := m.ListPosts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Post, 0)
	for _, p := range posts {
		if p.Author == author {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) SearchPosts(ctx context.Context, substr string) ([]models.Post, error) {
	posts, err := m.ListPosts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Post, 0)
	for _, p := range posts {
		if strings.Contains(p.Title, substr) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) ListPostsWithAuthors(ctx context.Context) ([]models.PostWithAuthor, error) {
	posts, err := m.ListPosts(ctx)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.PostWithAuthor, 0, len(posts))
	for _, p := range posts {
		joined := models.PostWithAuthor{
			ID:        p.ID,
			Title:     p.Title,
			Body:      p.Body,
			Author:    p.Author,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		}
		if p.AuthorID != nil {
			for _, u := range m.users {
				if u.ID == *p.AuthorID {
					joined.User = &models.AuthorSummary{ID: u.ID, Name: u.Name, Email: u.Email, Username: u.Username}
					break
				}
			}
		}
		out = append(out, joined)
	}
	return out, nil
}

func (m *memStore) CreatePost(ctx context.Context, in models.NewPost) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return nil, errStoreDown
	}
	now := m.tick()
	post := models.Post{
		ID:        m.nextID,
		Title:     in.Title,
		Body:      in.Body,
		Author:    in.Author,
		AuthorID:  in.AuthorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.posts = append(m.posts, post)
	return &post, nil
}

func (m *memStore) UpdatePost(ctx context.Context, id int64, upd models.PostUpdate) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return nil, errStoreDown
	}
	for i, p := range m.posts {
		if p.ID != id {
			continue
		}
		if upd.Title != nil {
			p.Title = *upd.Title
		}
		if upd.Body != nil {
			p.Body = *upd.Body
		}
		if upd.Author != nil {
			p.Author = *upd.Author
		}
		if upd.AuthorID != nil {
			p.AuthorID = upd.AuthorID
		}
		p.UpdatedAt = m.tick()
		m.posts[i] = p
		return &p, nil
	}
	return nil, db.ErrNotFound
}

func (m *memStore) DeletePost(ctx context.Context, id int64) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.posts {
		if p.ID == id {
			m.posts = append(m.posts[:i], m.posts[i+1:]...)
			return &p, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *memStore) ListUsers(ctx context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return nil, errStoreDown
	}
	out := make([]models.User, len(m.users))
	copy(out, m.users)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) CreateUser(ctx context.Context, in models.NewUser) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return nil, errStoreDown
	}
	for _, u := range m.users {
		if u.Email == in.Email {
			return nil, db.ErrDuplicateEmail
		}
	}
	now := m.tick()
	user := models.User{
		ID:        m.nextID,
		Name:      in.Name,
		Email:     in.Email,
		Username:  in.Username,
		Phone:     in.Phone,
		Website:   in.Website,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.users = append(m.users, user)
	return &user, nil
}

func (m *memStore) UpdateUser(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, u := range m.users {
		if u.ID != id {
			continue
		}
		if upd.Email != nil {
			for _, other := range m.users {
				if other.ID != id && other.Email == *upd.Email {
					return nil, db.ErrDuplicateEmail
				}
			}
			u.Email = *upd.Email
		}
		if upd.Name != nil {
			u.Name = *upd.Name
		}
		if upd.Username != nil {
			u.Username = *upd.Username
		}
		if upd.Phone != nil {
			u.Phone = *upd.Phone
		}
		if upd.Website != nil {
			u.Website = *upd.Website
		}
		u.UpdatedAt = m.tick()
		m.users[i] = u
		return &u, nil
	}
	return nil, db.ErrNotFound
}

func (m *memStore) DeleteUser(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, u := range m.users {
		if u.ID == id {
			m.users = append(m.users[:i], m.users[i+1:]...)
			// same semantics as ON DELETE SET NULL
			for j, p := range m.posts {
				if p.AuthorID != nil && *p.AuthorID == id {
					p.AuthorID = nil
					m.posts[j] = p
				}
			}
			return &u, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *memStore) userCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

var _ Store = (*memStore)(nil)
