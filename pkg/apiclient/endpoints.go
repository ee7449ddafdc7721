package apiclient

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Tag groups cached query results so mutations can invalidate them
type Tag string

const (
	TagUser Tag = "User"
	TagBlog Tag = "Blog"
)

// Endpoint describes one backend route.
// Queries list the tags they provide, mutations the tags they invalidate.
type Endpoint struct {
	Name        string
	Method      string
	Path        string
	Provides    []Tag
	Invalidates []Tag
	Auth        bool
}

// IsQuery reports whether responses from the endpoint are cached
func (e Endpoint) IsQuery() bool {
	return e.Method == http.MethodGet && len(e.Provides) > 0
}

// Expand substitutes {name} placeholders in the path with escaped values
func (e Endpoint) Expand(params map[string]string) (string, error) {
	path := e.Path
	for name, value := range params {
		path = strings.ReplaceAll(path, "{"+name+"}", url.PathEscape(value))
	}
	if strings.ContainsAny(path, "{}") {
		return "", fmt.Errorf("endpoint %s: unresolved path parameter in %q", e.Name, path)
	}
	return path, nil
}

const (
	GetUsers     = "getUsers"
	GetUserByID  = "getUserById"
	CreateUser   = "createUser"
	RegisterUser = "registerUser"
	DeleteUser   = "deleteUser"
	UpdateUser   = "updateUser"
	SignIn       = "signIn"
	GetBlogs     = "getBlogs"
	GetBlogByID  = "getBlogById"
	CreateBlog   = "createBlog"
)

// Endpoints is the map of every route the client knows how to call
var Endpoints = map[string]Endpoint{
	GetUsers:     {Name: GetUsers, Method: http.MethodGet, Path: "/users", Provides: []Tag{TagUser}, Auth: true},
	GetUserByID:  {Name: GetUserByID, Method: http.MethodGet, Path: "/users/{id}", Provides: []Tag{TagUser}, Auth: true},
	CreateUser:   {Name: CreateUser, Method: http.MethodPost, Path: "/users/sign-up", Invalidates: []Tag{TagUser}},
	RegisterUser: {Name: RegisterUser, Method: http.MethodPost, Path: "/users/sign-up", Invalidates: []Tag{TagUser}},
	DeleteUser:   {Name: DeleteUser, Method: http.MethodDelete, Path: "/users/{id}", Invalidates: []Tag{TagUser}, Auth: true},
	UpdateUser:   {Name: UpdateUser, Method: http.MethodPut, Path: "/users/{id}", Invalidates: []Tag{TagUser}, Auth: true},
	SignIn:       {Name: SignIn, Method: http.MethodPost, Path: "/users/sign-in", Invalidates: []Tag{TagUser}},
	GetBlogs:     {Name: GetBlogs, Method: http.MethodGet, Path: "/api/blogs", Provides: []Tag{TagBlog}},
	GetBlogByID:  {Name: GetBlogByID, Method: http.MethodGet, Path: "/api/blogs/{id}", Provides: []Tag{TagBlog}},
	CreateBlog:   {Name: CreateBlog, Method: http.MethodPost, Path: "/api/blogs", Invalidates: []Tag{TagBlog}, Auth: true},
}
