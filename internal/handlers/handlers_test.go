package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statelab/statelab/internal/models"
	"github.com/statelab/statelab/internal/schema"
)

const testToken = "test-admin-token"

func newTestServer(t *testing.T) (*httptest.Server, *memStore) {
	t.Helper()
	store := newMemStore()
	srv := httptest.NewServer(Router(store, testToken))
	t.Cleanup(srv.Close)
	return srv, store
}

func doJSON(t *testing.T, method, url, body string, header http.Header) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func adminHeader() http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+testToken)
	return h
}

func TestCreatePost_Valid(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/posts",
		`{"title":"Hello World","body":"This is a test body.","author":"Jane Doe"}`, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Post
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "Hello World", created.Title)
	assert.Equal(t, "This is a test body.", created.Body)
	assert.Equal(t, "Jane Doe", created.Author)
	assert.Greater(t, created.ID, int64(0))
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.UpdatedAt.Before(created.CreatedAt))
}

func TestCreatePost_ValidationFailure(t *testing.T) {
	srv, store := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/posts",
		`{"title":"Hi","body":"short","author":"A"}`, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var payload ErrorResponse
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "Validation failed", payload.Error)

	paths := make([]string, 0, len(payload.Details))
	for _, d := range payload.Details {
		paths = append(paths, d.Path)
	}
	assert.Equal(t, []string{"title", "body", "author"}, paths)

	posts, err := store.ListPosts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, posts, "rejected input must not reach the store")
}

func TestCreatePost_MalformedJSON(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/posts", `{"title": `, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var payload ErrorResponse
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "Invalid JSON", payload.Error)
	assert.Empty(t, payload.Details, "parse failure carries no field details")
}

func TestListPosts_OrderAndIdempotence(t *testing.T) {
	srv, store := newTestServer(t)

	for _, title := range []string{"First post", "Second post", "Third post"} {
		_, err := store.CreatePost(context.Background(), models.NewPost{
			Title: title, Body: "0123456789", Author: "Jane Doe",
		})
		require.NoError(t, err)
	}

	resp1, body1 := doJSON(t, http.MethodGet, srv.URL+"/api/posts", "", nil)
	require.Equal(t, http.StatusOK, resp1.StatusCode)
	resp2, body2 := doJSON(t, http.MethodGet, srv.URL+"/api/posts", "", nil)
	require.Equal(t, http.StatusOK, resp2.StatusCode)

	assert.Equal(t, body1, body2, "reads with no intervening writes are identical")

	var posts []models.Post
	require.NoError(t, json.Unmarshal(body1, &posts))
	require.Len(t, posts, 3)
	assert.Equal(t, "Third post", posts[0].Title, "newest first")
	assert.Equal(t, "First post", posts[2].Title)
}

func TestListPosts_StoreFailure(t *testing.T) {
	srv, store := newTestServer(t)
	store.failing = true

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/posts", "", nil)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var payload ErrorResponse
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "Failed to fetch posts", payload.Error)
}

func TestListPosts_FilterByAuthor(t *testing.T) {
	srv, store := newTestServer(t)

	_, err := store.CreatePost(context.Background(), models.NewPost{Title: "By Jane", Body: "0123456789", Author: "Jane Doe"})
	require.NoError(t, err)
	_, err = store.CreatePost(context.Background(), models.NewPost{Title: "By John", Body: "0123456789", Author: "John Doe"})
	require.NoError(t, err)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/posts?author=Jane+Doe", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var posts []models.Post
	require.NoError(t, json.Unmarshal(body, &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, "By Jane", posts[0].Title)

	// exact match, not substring
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/posts?author=Jane", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &posts))
	assert.Empty(t, posts)
}

func TestSearchPosts(t *testing.T) {
	srv, store := newTestServer(t)

	_, err := store.CreatePost(context.Background(), models.NewPost{Title: "Query caching in practice", Body: "0123456789", Author: "Jane Doe"})
	require.NoError(t, err)
	_, err = store.CreatePost(context.Background(), models.NewPost{Title: "Form state deep dive", Body: "0123456789", Author: "Jane Doe"})
	require.NoError(t, err)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/posts/search?q=caching", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var posts []models.Post
	require.NoError(t, json.Unmarshal(body, &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, "Query caching in practice", posts[0].Title)

	// substring match is case-sensitive
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/posts/search?q=Caching", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &posts))
	assert.Empty(t, posts)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/posts/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListPostsWithAuthors(t *testing.T) {
	srv, store := newTestServer(t)

	user, err := store.CreateUser(context.Background(), models.NewUser{Name: "Jane Smith", Email: "jane@example.com", Username: "janesmith"})
	require.NoError(t, err)
	_, err = store.CreatePost(context.Background(), models.NewPost{Title: "Linked post", Body: "0123456789", Author: "Jane Smith", AuthorID: &user.ID})
	require.NoError(t, err)
	_, err = store.CreatePost(context.Background(), models.NewPost{Title: "Orphan post", Body: "0123456789", Author: "Nobody Special"})
	require.NoError(t, err)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/posts/with-authors", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var posts []models.PostWithAuthor
	require.NoError(t, json.Unmarshal(body, &posts))
	require.Len(t, posts, 2)

	// newest first: orphan, then linked
	assert.Equal(t, "Orphan post", posts[0].Title)
	assert.Nil(t, posts[0].User, "post without reference yields null user, not a missing row")
	require.NotNil(t, posts[1].User)
	assert.Equal(t, "Jane Smith", posts[1].User.Name)
	assert.Equal(t, "jane@example.com", posts[1].User.Email)
}

func TestCreateUser_Valid(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/users",
		`{"name":"John Doe","email":"john@example.com","username":"johndoe","website":"https://johndoe.dev"}`, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.User
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "John Doe", created.Name)
	assert.Greater(t, created.ID, int64(0))
}

func TestCreateUser_ValidationFailure(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/users",
		`{"name":"","email":"not-an-email"}`, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var payload ErrorResponse
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "Validation failed", payload.Error)
	require.Len(t, payload.Details, 2)
	assert.Equal(t, schema.FieldError{Path: "name", Message: "Name is required"}, payload.Details[0])
	assert.Equal(t, schema.FieldError{Path: "email", Message: "Invalid email format"}, payload.Details[1])
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	srv, store := newTestServer(t)

	first, _ := doJSON(t, http.MethodPost, srv.URL+"/api/users",
		`{"name":"John Doe","email":"john@example.com"}`, nil)
	require.Equal(t, http.StatusCreated, first.StatusCode)
	require.Equal(t, 1, store.userCount())

	// the public surface collapses the constraint violation into the
	// generic store-failure response
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/users",
		`{"name":"Other Person","email":"john@example.com"}`, nil)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var payload ErrorResponse
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "Failed to create user", payload.Error)
	assert.Equal(t, 1, store.userCount(), "failed create must not mutate the store")
}

func TestListUsers_OrderedByName(t *testing.T) {
	srv, store := newTestServer(t)

	for _, u := range []models.NewUser{
		{Name: "Mike Johnson", Email: "mike@example.com"},
		{Name: "Jane Smith", Email: "jane@example.com"},
		{Name: "John Doe", Email: "john@example.com"},
	} {
		_, err := store.CreateUser(context.Background(), u)
		require.NoError(t, err)
	}

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/users", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var users []models.User
	require.NoError(t, json.Unmarshal(body, &users))
	require.Len(t, users, 3)
	assert.Equal(t, "Jane Smith", users[0].Name)
	assert.Equal(t, "John Doe", users[1].Name)
	assert.Equal(t, "Mike Johnson", users[2].Name)
}

func TestAdmin_RequiresToken(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPut, srv.URL+"/api/admin/posts/1", `{"title":"New title"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	bad := http.Header{}
	bad.Set("Authorization", "Bearer wrong")
	resp, _ = doJSON(t, http.MethodPut, srv.URL+"/api/admin/posts/1", `{"title":"New title"}`, bad)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminUpdatePost(t *testing.T) {
	srv, store := newTestServer(t)

	post, err := store.CreatePost(context.Background(), models.NewPost{Title: "Original title", Body: "0123456789", Author: "Jane Doe"})
	require.NoError(t, err)

	resp, body := doJSON(t, http.MethodPut, srv.URL+"/api/admin/posts/1", `{"title":"Updated title"}`, adminHeader())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Post
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, "Updated title", updated.Title)
	assert.Equal(t, "0123456789", updated.Body, "unspecified fields untouched")
	assert.True(t, updated.UpdatedAt.After(post.UpdatedAt), "update refreshes updatedAt")

	// partial validation still applies
	resp, _ = doJSON(t, http.MethodPut, srv.URL+"/api/admin/posts/1", `{"title":"ab"}`, adminHeader())
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPut, srv.URL+"/api/admin/posts/99", `{"title":"Updated title"}`, adminHeader())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminDeletePost(t *testing.T) {
	srv, store := newTestServer(t)

	_, err := store.CreatePost(context.Background(), models.NewPost{Title: "Doomed post", Body: "0123456789", Author: "Jane Doe"})
	require.NoError(t, err)

	resp, body := doJSON(t, http.MethodDelete, srv.URL+"/api/admin/posts/1", "", adminHeader())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var deleted models.Post
	require.NoError(t, json.Unmarshal(body, &deleted))
	assert.Equal(t, "Doomed post", deleted.Title, "delete returns the deleted record")

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/admin/posts/1", "", adminHeader())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminUpdateUser_DuplicateEmailConflict(t *testing.T) {
	srv, store := newTestServer(t)

	_, err := store.CreateUser(context.Background(), models.NewUser{Name: "John Doe", Email: "john@example.com"})
	require.NoError(t, err)
	second, err := store.CreateUser(context.Background(), models.NewUser{Name: "Jane Smith", Email: "jane@example.com"})
	require.NoError(t, err)

	resp, body := doJSON(t, http.MethodPut,
		srv.URL+"/api/admin/users/2", `{"email":"john@example.com"}`, adminHeader())
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var payload ErrorResponse
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "Email already exists", payload.Error)
	_ = second
}

func TestAdminDeleteUser_NullifiesPostReference(t *testing.T) {
	srv, store := newTestServer(t)

	user, err := store.CreateUser(context.Background(), models.NewUser{Name: "Jane Smith", Email: "jane@example.com"})
	require.NoError(t, err)
	post, err := store.CreatePost(context.Background(), models.NewPost{Title: "Surviving post", Body: "0123456789", Author: "Jane Smith", AuthorID: &user.ID})
	require.NoError(t, err)

	resp, _ := doJSON(t, http.MethodDelete, srv.URL+"/api/admin/users/1", "", adminHeader())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	posts, err := store.ListPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, post.ID, posts[0].ID)
	assert.Nil(t, posts[0].AuthorID, "deleting a referenced user nullifies the reference")
	assert.Equal(t, "Jane Smith", posts[0].Author, "denormalized author name survives")
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, bytes.Contains(body, []byte(`"ok"`)))
}
