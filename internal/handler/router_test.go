package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"blog_api/internal/logger"
	"blog_api/internal/model"
	"blog_api/internal/repository"
	"blog_api/internal/service"
	"blog_api/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret = "router-test-secret"
	adminName  = "admin"
)

type testServer struct {
	handler http.Handler
	jwt     *utils.JWTUtil
	users   repository.UserRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWith(t, RouterDeps{})
}

// newTestServerWith builds a memory-backed server; limiter and proxy settings come from extra
func newTestServerWith(t *testing.T, extra RouterDeps) *testServer {
	t.Helper()
	log := logger.NewNop()
	jwtUtil := utils.NewJWTUtil(testSecret, 1)
	userRepo := repository.NewMemoryUserRepository()
	blogRepo := repository.NewMemoryBlogRepository()

	authSvc := service.NewAuthService(userRepo, jwtUtil, service.AuthOptions{
		BcryptCost:           bcrypt.MinCost,
		InitialAdminUsername: adminName,
	}, log)

	router := NewRouter(RouterDeps{
		Auth:  NewAuthHandler(authSvc, log),
		Users: NewUserHandler(service.NewUserService(userRepo, bcrypt.MinCost), log),
		Blogs: NewBlogHandler(service.NewBlogService(blogRepo), log),
		JWT:   jwtUtil,
		Log:   log,

		SignInLimiter:  extra.SignInLimiter,
		TrustedProxies: extra.TrustedProxies,
	})
	return &testServer{handler: router, jwt: jwtUtil, users: userRepo}
}

type apiResponse struct {
	Msg     string          `json:"msg"`
	Variant string          `json:"variant"`
	Payload json.RawMessage `json:"payload"`
	Total   *int64          `json:"total"`
	Token   string          `json:"token"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, apiResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

func (s *testServer) signUp(t *testing.T, username, password string) model.User {
	t.Helper()
	status, resp := s.do(t, http.MethodPost, "/users/sign-up", "", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusCreated, status, resp.Msg)
	var user model.User
	require.NoError(t, json.Unmarshal(resp.Payload, &user))
	return user
}

func (s *testServer) signIn(t *testing.T, username, password string) string {
	t.Helper()
	status, resp := s.do(t, http.MethodPost, "/users/sign-in", "", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, status, resp.Msg)
	return resp.Token
}

func TestRouter_SignUpAndSignIn(t *testing.T) {
	s := newTestServer(t)

	status, resp := s.do(t, http.MethodPost, "/users/sign-up", "", map[string]string{"username": "alice", "password": "secret1", "role": "admin"})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "User is created", resp.Msg)
	assert.Equal(t, model.VariantSuccess, resp.Variant)
	assert.NotContains(t, string(resp.Payload), "password")

	var created model.User
	require.NoError(t, json.Unmarshal(resp.Payload, &created))
	assert.Equal(t, model.RoleUser, created.Role)

	stored, err := s.users.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)

	status, resp = s.do(t, http.MethodPost, "/users/sign-in", "", map[string]string{"username": "alice", "password": "secret1"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Log in", resp.Msg)
	claims, err := s.jwt.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
	assert.Equal(t, model.RoleUser, claims.Role)

	status, resp = s.do(t, http.MethodPost, "/users/sign-in", "", map[string]string{"username": "alice", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Password is wrong", resp.Msg)
	assert.Empty(t, resp.Token)

	status, resp = s.do(t, http.MethodPost, "/users/sign-in", "", map[string]string{"username": "nobody", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, model.VariantError, resp.Variant)
	assert.Equal(t, "Username is not found", resp.Msg)
}

func TestRouter_SignUpWarnings(t *testing.T) {
	s := newTestServer(t)
	s.signUp(t, "alice", "secret1")

	status, resp := s.do(t, http.MethodPost, "/users/sign-up", "", map[string]string{"username": "alice", "password": "another1"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, model.VariantWarning, resp.Variant)
	assert.Equal(t, "This username has been used", resp.Msg)

	status, resp = s.do(t, http.MethodPost, "/users/sign-up", "", map[string]string{"username": "bob"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, model.VariantWarning, resp.Variant)
	assert.Equal(t, `"password" is required`, resp.Msg)
}

func TestRouter_InitialAdmin(t *testing.T) {
	s := newTestServer(t)
	admin := s.signUp(t, adminName, "secret1")
	assert.Equal(t, model.RoleAdmin, admin.Role)

	claims, err := s.jwt.ValidateToken(s.signIn(t, adminName, "secret1"))
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, claims.Role)
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	user := s.signUp(t, "alice", "secret1")

	for _, id := range []string{user.ID, "does-not-exist", "0"} {
		status, resp := s.do(t, http.MethodDelete, "/users/"+id, "", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, model.VariantError, resp.Variant)

		status, _ = s.do(t, http.MethodDelete, "/users/"+id, "not-a-token", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	}

	status, _ := s.do(t, http.MethodGet, "/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = s.do(t, http.MethodPost, "/api/blogs", "", map[string]string{"title": "t", "content": "c"})
	assert.Equal(t, http.StatusUnauthorized, status)

	stored, err := s.users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored)
}

func TestRouter_TokenWithUnknownRoleRejected(t *testing.T) {
	s := newTestServer(t)
	token, err := s.jwt.GenerateToken("someone", "superuser")
	require.NoError(t, err)

	status, _ := s.do(t, http.MethodGet, "/users", token, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestRouter_ListUsersPagination(t *testing.T) {
	s := newTestServer(t)
	for i := 0; i < 12; i++ {
		s.signUp(t, fmt.Sprintf("user%02d", i), "secret1")
	}
	token := s.signIn(t, "user00", "secret1")

	status, resp := s.do(t, http.MethodGet, "/users?limit=10&skip=1", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "All Users", resp.Msg)
	var page []model.User
	require.NoError(t, json.Unmarshal(resp.Payload, &page))
	assert.Len(t, page, 10)
	require.NotNil(t, resp.Total)
	assert.Equal(t, int64(12), *resp.Total)

	status, resp = s.do(t, http.MethodGet, "/users?limit=10&skip=2", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(resp.Payload, &page))
	assert.Len(t, page, 2)

	status, resp = s.do(t, http.MethodGet, "/users?limit=10&skip=3", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Users is not defined", resp.Msg)
	assert.Equal(t, model.VariantWarning, resp.Variant)

	status, resp = s.do(t, http.MethodGet, "/users?limit=10&skip=1000000000000000000", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Users is not defined", resp.Msg)

	status, resp = s.do(t, http.MethodGet, "/users?limit=100&skip=9223372036854775807", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, model.VariantWarning, resp.Variant)

	status, resp = s.do(t, http.MethodGet, "/users?limit=abc&skip=-4", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(resp.Payload, &page))
	assert.Len(t, page, model.DefaultPageLimit)
}

func TestRouter_GetUser(t *testing.T) {
	s := newTestServer(t)
	user := s.signUp(t, "alice", "secret1")
	token := s.signIn(t, "alice", "secret1")

	status, resp := s.do(t, http.MethodGet, "/users/"+user.ID, token, nil)
	require.Equal(t, http.StatusOK, status)
	var got model.User
	require.NoError(t, json.Unmarshal(resp.Payload, &got))
	assert.Equal(t, "alice", got.Username)

	status, resp = s.do(t, http.MethodGet, "/users/unknown-id", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "User is not defined", resp.Msg)
}

func TestRouter_UpdateAndDeleteUser(t *testing.T) {
	s := newTestServer(t)
	s.signUp(t, adminName, "secret1")
	alice := s.signUp(t, "alice", "secret1")
	bob := s.signUp(t, "bob", "secret1")

	adminToken := s.signIn(t, adminName, "secret1")
	aliceToken := s.signIn(t, "alice", "secret1")

	status, resp := s.do(t, http.MethodPut, "/users/"+bob.ID, aliceToken, map[string]string{"username": "bobby"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, model.VariantError, resp.Variant)

	status, resp = s.do(t, http.MethodPut, "/users/"+alice.ID, aliceToken, map[string]string{"username": "bob"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "This username has been used", resp.Msg)

	status, resp = s.do(t, http.MethodPut, "/users/"+alice.ID, aliceToken, map[string]string{"username": "al"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, model.VariantWarning, resp.Variant)
	assert.Equal(t, `"username" length must be at least 3 characters long`, resp.Msg)

	status, resp = s.do(t, http.MethodPut, "/users/"+alice.ID, aliceToken, map[string]string{"username": "alicia", "password": "newsecret"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User is updated", resp.Msg)
	s.signIn(t, "alicia", "newsecret")

	status, _ = s.do(t, http.MethodDelete, "/users/"+bob.ID, aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, resp = s.do(t, http.MethodDelete, "/users/"+bob.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "user is deleted", resp.Msg)
	var deleted model.User
	require.NoError(t, json.Unmarshal(resp.Payload, &deleted))
	assert.Equal(t, "bob", deleted.Username)

	status, resp = s.do(t, http.MethodDelete, "/users/"+bob.ID, adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, model.VariantWarning, resp.Variant)
	assert.Equal(t, "User is not defined", resp.Msg)

	status, _ = s.do(t, http.MethodDelete, "/users/not-an-id", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRouter_Blogs(t *testing.T) {
	s := newTestServer(t)
	alice := s.signUp(t, "alice", "secret1")
	token := s.signIn(t, "alice", "secret1")

	status, resp := s.do(t, http.MethodGet, "/api/blogs", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Blogs is not defined", resp.Msg)

	status, resp = s.do(t, http.MethodPost, "/api/blogs", token, map[string]string{"title": "Hello"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, `"content" is required`, resp.Msg)

	status, resp = s.do(t, http.MethodPost, "/api/blogs", token, map[string]string{"title": "Hello", "content": "World"})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Blog is created", resp.Msg)
	var blog model.Blog
	require.NoError(t, json.Unmarshal(resp.Payload, &blog))
	assert.Equal(t, alice.ID, blog.AuthorID)

	status, resp = s.do(t, http.MethodGet, "/api/blogs?limit=10&skip=1", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "All Blogs", resp.Msg)
	require.NotNil(t, resp.Total)
	assert.Equal(t, int64(1), *resp.Total)

	status, resp = s.do(t, http.MethodGet, "/api/blogs/"+blog.ID, "", nil)
	require.Equal(t, http.StatusOK, status)
	var got model.Blog
	require.NoError(t, json.Unmarshal(resp.Payload, &got))
	assert.Equal(t, "World", got.Content)

	status, _ = s.do(t, http.MethodGet, "/api/blogs/missing", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRouter_Health(t *testing.T) {
	log := logger.NewNop()
	build := func(check HealthCheck) http.Handler {
		return NewRouter(RouterDeps{
			Auth:   NewAuthHandler(nil, log),
			Users:  NewUserHandler(nil, log),
			Blogs:  NewBlogHandler(nil, log),
			JWT:    utils.NewJWTUtil(testSecret, 1),
			Health: check,
			Log:    log,
		})
	}

	w := httptest.NewRecorder()
	build(func(context.Context) error { return nil }).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","db":"healthy"}`, w.Body.String())

	w = httptest.NewRecorder()
	build(func(context.Context) error { return errors.New("down") }).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouter_RequestIDHeader(t *testing.T) {
	s := newTestServer(t)
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/blogs", nil))
	assert.NotEmpty(t, w.Header().Get(logger.RequestIDHeader))
}
