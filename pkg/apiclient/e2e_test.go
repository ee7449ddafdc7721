package apiclient_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"blog_api/internal/handler"
	"blog_api/internal/logger"
	"blog_api/internal/repository"
	"blog_api/internal/service"
	"blog_api/internal/utils"
	"blog_api/pkg/apiclient"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()
	jwtUtil := utils.NewJWTUtil("e2e-secret", 1)
	users := repository.NewMemoryUserRepository()
	blogs := repository.NewMemoryBlogRepository()

	router := handler.NewRouter(handler.RouterDeps{
		Auth: handler.NewAuthHandler(service.NewAuthService(users, jwtUtil, service.AuthOptions{
			BcryptCost:           bcrypt.MinCost,
			InitialAdminUsername: "root",
		}, log), log),
		Users: handler.NewUserHandler(service.NewUserService(users, bcrypt.MinCost), log),
		Blogs: handler.NewBlogHandler(service.NewBlogService(blogs), log),
		JWT:   jwtUtil,
		Log:   log,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientAgainstServer(t *testing.T) {
	srv := newBackend(t)
	ctx := context.Background()
	c := apiclient.New(srv.URL)

	_, err := c.RegisterUser(ctx, apiclient.Credentials{Username: "root", Password: "secret1"})
	require.NoError(t, err)
	bob, err := c.CreateUser(ctx, apiclient.Credentials{Username: "bob", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "user", bob.Role)

	_, err = c.CreateUser(ctx, apiclient.Credentials{Username: "bob", Password: "secret1"})
	var apiErr *apiclient.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "warning", apiErr.Variant)
	assert.Equal(t, "This username has been used", apiErr.Msg)

	_, err = c.GetUsers(ctx, apiclient.ListParams{})
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	_, err = c.SignIn(ctx, apiclient.Credentials{Username: "root", Password: "wrong-one"})
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Empty(t, c.Token())

	admin, err := c.SignIn(ctx, apiclient.Credentials{Username: "root", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Role)
	assert.NotEmpty(t, c.Token())

	list, err := c.GetUsers(ctx, apiclient.ListParams{Limit: 10, Skip: 1})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
	assert.Equal(t, int64(2), list.Total)

	got, err := c.GetUserByID(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", got.Username)

	newName := "robert"
	updated, err := c.UpdateUser(ctx, bob.ID, apiclient.UserUpdate{Username: &newName})
	require.NoError(t, err)
	assert.Equal(t, "robert", updated.Username)

	got, err = c.GetUserByID(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "robert", got.Username, "update must invalidate cached user queries")

	blog, err := c.CreateBlog(ctx, apiclient.NewBlog{Title: "Hello", Content: "World"})
	require.NoError(t, err)
	assert.Equal(t, admin.ID, blog.AuthorID)

	blogs, err := c.GetBlogs(ctx, apiclient.ListParams{})
	require.NoError(t, err)
	require.Len(t, blogs.Items, 1)

	gotBlog, err := c.GetBlogByID(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", gotBlog.Title)

	deleted, err := c.DeleteUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, deleted.ID)

	list, err = c.GetUsers(ctx, apiclient.ListParams{Limit: 10, Skip: 1})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)

	_, err = c.DeleteUser(ctx, bob.ID)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "User is not defined", apiErr.Msg)
}
