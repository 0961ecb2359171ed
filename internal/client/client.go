package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/statelab/statelab/internal/models"
	"github.com/statelab/statelab/internal/schema"
)

// Cache keys, one per logical resource.
const (
	KeyPosts            = "posts"
	KeyPostsWithAuthors = "posts-with-authors"
	KeyUsers            = "users"
)

// APIError is a non-2xx response decoded from the API's error payload.
type APIError struct {
	Status  int
	Message string
	Details []schema.FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

// Client is the typed front door to the HTTP API. All reads go through the
// shared cache; creates invalidate the list they affect.
type Client struct {
	baseURL string
	httpc   *http.Client
	cache   *Cache

	posts            *Query[[]models.Post]
	postsWithAuthors *Query[[]models.PostWithAuthor]
	users            *Query[[]models.User]
	createPost       *Mutation[models.NewPost, models.Post]
	createUser       *Mutation[models.NewUser, models.User]
}

func New(baseURL string, ttl time.Duration) *Client {
	c := &Client{
		baseURL: baseURL,
		httpc:   &http.Client{},
		cache:   NewCache(ttl),
	}
	c.posts = NewQuery(c.cache, KeyPosts, c.fetchPosts)
	c.postsWithAuthors = NewQuery(c.cache, KeyPostsWithAuthors, c.fetchPostsWithAuthors)
	c.users = NewQuery(c.cache, KeyUsers, c.fetchUsers)
	c.createPost = NewMutation(c.cache, c.doCreatePost, KeyPosts, KeyPostsWithAuthors)
	c.createUser = NewMutation(c.cache, c.doCreateUser, KeyUsers)
	return c
}

func (c *Client) Cache() *Cache { return c.cache }

func (c *Client) Posts() *Query[[]models.Post]                      { return c.posts }
func (c *Client) PostsWithAuthors() *Query[[]models.PostWithAuthor] { return c.postsWithAuthors }
func (c *Client) Users() *Query[[]models.User]                      { return c.users }

func (c *Client) CreatePost() *Mutation[models.NewPost, models.Post] { return c.createPost }
func (c *Client) CreateUser() *Mutation[models.NewUser, models.User] { return c.createUser }

func (c *Client) fetchPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := c.getJSON(ctx, "/api/posts", &posts)
	return posts, err
}

func (c *Client) fetchPostsWithAuthors(ctx context.Context) ([]models.PostWithAuthor, error) {
	var posts []models.PostWithAuthor
	err := c.getJSON(ctx, "/api/posts/with-authors", &posts)
	return posts, err
}

func (c *Client) fetchUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := c.getJSON(ctx, "/api/users", &users)
	return users, err
}

func (c *Client) doCreatePost(ctx context.Context, in models.NewPost) (models.Post, error) {
	var post models.Post
	err := c.postJSON(ctx, "/api/posts", in, &post)
	return post, err
}

func (c *Client) doCreateUser(ctx context.Context, in models.NewUser) (models.User, error) {
	var user models.User
	err := c.postJSON(ctx, "/api/users", in, &user)
	return user, err
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode, Message: "request failed"}
		var payload struct {
			Error   string              `json:"error"`
			Details []schema.FieldError `json:"details"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
			apiErr.Message = payload.Error
			apiErr.Details = payload.Details
		}
		return apiErr
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
