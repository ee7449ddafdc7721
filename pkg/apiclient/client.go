package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const maxResponseBytes = 4 << 20

// APIError is a non-2xx response decoded from the API envelope
type APIError struct {
	Status  int
	Msg     string
	Variant string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Variant, e.Msg)
}

type envelope struct {
	Msg     string          `json:"msg"`
	Variant string          `json:"variant"`
	Payload json.RawMessage `json:"payload"`
	Total   *int64          `json:"total,omitempty"`
	Token   string          `json:"token,omitempty"`
}

// Client calls the blog API, caching query responses until a mutation invalidates their tags
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *tagCache

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cache:      newTagCache(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken sets the bearer credential. Cached responses are dropped since they may depend on the caller.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	c.cache.reset()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// call performs the named endpoint and returns the decoded envelope
func (c *Client) call(ctx context.Context, name string, params map[string]string, query url.Values, body any) (*envelope, error) {
	ep, ok := Endpoints[name]
	if !ok {
		return nil, fmt.Errorf("unknown endpoint %q", name)
	}
	path, err := ep.Expand(params)
	if err != nil {
		return nil, err
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	cacheKey := ep.Method + " " + path
	if ep.IsQuery() {
		if raw, ok := c.cache.get(cacheKey); ok {
			var env envelope
			if err := json.Unmarshal(raw, &env); err == nil {
				return &env, nil
			}
		}
	}

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode body: %w", name, err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, ep.Method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", name, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); ep.Auth && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", ep.Method, ep.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", ep.Method, ep.Path, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Msg: env.Msg, Variant: env.Variant}
		if decodeErr != nil || apiErr.Msg == "" {
			apiErr.Msg = http.StatusText(resp.StatusCode)
		}
		return nil, apiErr
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%s %s: decode: %w", ep.Method, ep.Path, decodeErr)
	}

	if ep.IsQuery() {
		c.cache.put(cacheKey, raw, ep.Provides)
	} else if len(ep.Invalidates) > 0 {
		c.cache.invalidate(ep.Invalidates...)
	}
	return &env, nil
}

func decodePayload[T any](env *envelope) (T, error) {
	var out T
	if len(env.Payload) == 0 || string(env.Payload) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(env.Payload, &out); err != nil {
		return out, fmt.Errorf("decode payload: %w", err)
	}
	return out, nil
}

func decodeList[T any](env *envelope) (*List[T], error) {
	items, err := decodePayload[[]T](env)
	if err != nil {
		return nil, err
	}
	list := &List[T]{Items: items}
	if env.Total != nil {
		list.Total = *env.Total
	}
	return list, nil
}

func (p ListParams) values() url.Values {
	q := url.Values{}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Skip > 0 {
		q.Set("skip", strconv.Itoa(p.Skip))
	}
	return q
}

func idParam(id string) map[string]string {
	return map[string]string{"id": id}
}

func (c *Client) GetUsers(ctx context.Context, p ListParams) (*List[User], error) {
	env, err := c.call(ctx, GetUsers, nil, p.values(), nil)
	if err != nil {
		return nil, err
	}
	return decodeList[User](env)
}

func (c *Client) GetUserByID(ctx context.Context, id string) (*User, error) {
	env, err := c.call(ctx, GetUserByID, idParam(id), nil, nil)
	if err != nil {
		return nil, err
	}
	return decodePayload[*User](env)
}

func (c *Client) CreateUser(ctx context.Context, in Credentials) (*User, error) {
	env, err := c.call(ctx, CreateUser, nil, nil, in)
	if err != nil {
		return nil, err
	}
	return decodePayload[*User](env)
}

// RegisterUser is the self-service form of CreateUser
func (c *Client) RegisterUser(ctx context.Context, in Credentials) (*User, error) {
	env, err := c.call(ctx, RegisterUser, nil, nil, in)
	if err != nil {
		return nil, err
	}
	return decodePayload[*User](env)
}

func (c *Client) DeleteUser(ctx context.Context, id string) (*User, error) {
	env, err := c.call(ctx, DeleteUser, idParam(id), nil, nil)
	if err != nil {
		return nil, err
	}
	return decodePayload[*User](env)
}

func (c *Client) UpdateUser(ctx context.Context, id string, in UserUpdate) (*User, error) {
	env, err := c.call(ctx, UpdateUser, idParam(id), nil, in)
	if err != nil {
		return nil, err
	}
	return decodePayload[*User](env)
}

// SignIn authenticates and keeps the returned token for later calls
func (c *Client) SignIn(ctx context.Context, in Credentials) (*User, error) {
	env, err := c.call(ctx, SignIn, nil, nil, in)
	if err != nil {
		return nil, err
	}
	user, err := decodePayload[*User](env)
	if err != nil {
		return nil, err
	}
	if env.Token != "" {
		c.SetToken(env.Token)
	}
	return user, nil
}

func (c *Client) GetBlogs(ctx context.Context, p ListParams) (*List[Blog], error) {
	env, err := c.call(ctx, GetBlogs, nil, p.values(), nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Blog](env)
}

func (c *Client) GetBlogByID(ctx context.Context, id string) (*Blog, error) {
	env, err := c.call(ctx, GetBlogByID, idParam(id), nil, nil)
	if err != nil {
		return nil, err
	}
	return decodePayload[*Blog](env)
}

func (c *Client) CreateBlog(ctx context.Context, in NewBlog) (*Blog, error) {
	env, err := c.call(ctx, CreateBlog, nil, nil, in)
	if err != nil {
		return nil, err
	}
	return decodePayload[*Blog](env)
}
