package repository

import (
	"context"
	"sync"
	"time"

	"blog_api/internal/model"

	"github.com/google/uuid"
)

type memoryUserRepository struct {
	mu         sync.RWMutex
	order      []string
	byID       map[string]model.User
	byUsername map[string]string
}

// NewMemoryUserRepository creates an in-process UserRepository.
// Uniqueness is checked under the same lock as the insert.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		byID:       make(map[string]model.User),
		byUsername: make(map[string]string),
	}
}

func (r *memoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byUsername[user.Username]; taken {
		return ErrDuplicateUsername
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.UpdatedAt = user.CreatedAt

	r.byID[user.ID] = *user
	r.byUsername[user.Username] = user.ID
	r.order = append(r.order, user.ID)
	return nil
}

func (r *memoryUserRepository) FindByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, nil
	}
	user := r.byID[id]
	return &user, nil
}

func (r *memoryUserRepository) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (r *memoryUserRepository) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byUsername[username]
	return ok, nil
}

func (r *memoryUserRepository) List(_ context.Context, page model.Page) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := []model.User{}
	for _, id := range window(r.order, page) {
		users = append(users, r.byID[id])
	}
	return users, nil
}

func (r *memoryUserRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byID)), nil
}

func (r *memoryUserRepository) Update(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[user.ID]
	if !ok {
		return ErrNotFound
	}
	if owner, taken := r.byUsername[user.Username]; taken && owner != user.ID {
		return ErrDuplicateUsername
	}
	delete(r.byUsername, existing.Username)
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = time.Now().UTC()
	r.byID[user.ID] = *user
	r.byUsername[user.Username] = user.ID
	return nil
}

func (r *memoryUserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	delete(r.byUsername, user.Username)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

type memoryBlogRepository struct {
	mu    sync.RWMutex
	order []string // newest first
	byID  map[string]model.Blog
}

// NewMemoryBlogRepository creates an in-process BlogRepository
func NewMemoryBlogRepository() BlogRepository {
	return &memoryBlogRepository{byID: make(map[string]model.Blog)}
}

func (r *memoryBlogRepository) Create(_ context.Context, blog *model.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if blog.ID == "" {
		blog.ID = uuid.NewString()
	}
	if blog.CreatedAt.IsZero() {
		blog.CreatedAt = time.Now().UTC()
	}
	blog.UpdatedAt = blog.CreatedAt

	r.byID[blog.ID] = *blog
	r.order = append([]string{blog.ID}, r.order...)
	return nil
}

func (r *memoryBlogRepository) FindByID(_ context.Context, id string) (*model.Blog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	blog, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &blog, nil
}

func (r *memoryBlogRepository) List(_ context.Context, page model.Page) ([]model.Blog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	blogs := []model.Blog{}
	for _, id := range window(r.order, page) {
		blogs = append(blogs, r.byID[id])
	}
	return blogs, nil
}

func (r *memoryBlogRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byID)), nil
}

func window(ids []string, page model.Page) []string {
	start := page.Offset()
	if start < 0 || start >= int64(len(ids)) {
		return nil
	}
	end := start + page.Limit
	if end > int64(len(ids)) {
		end = int64(len(ids))
	}
	return ids[start:end]
}
