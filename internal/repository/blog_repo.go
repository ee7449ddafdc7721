package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blog_api/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type blogRepository struct {
	db DBTX
}

// NewBlogRepository creates a postgres-backed BlogRepository
func NewBlogRepository(db DBTX) BlogRepository {
	return &blogRepository{db: db}
}

const blogColumns = `id::text, title, content, COALESCE(author_id::text, ''), created_at, updated_at`

// Create inserts a new blog, assigning its id
func (r *blogRepository) Create(ctx context.Context, blog *model.Blog) error {
	if blog.ID == "" {
		blog.ID = uuid.NewString()
	}
	if blog.CreatedAt.IsZero() {
		blog.CreatedAt = time.Now().UTC()
	}
	blog.UpdatedAt = blog.CreatedAt

	var authorID *string
	if blog.AuthorID != "" {
		authorID = &blog.AuthorID
	}

	sql := `INSERT INTO blogs (id, title, content, author_id, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.Exec(ctx, sql, blog.ID, blog.Title, blog.Content, authorID, blog.CreatedAt, blog.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create blog: %w", err)
	}
	return nil
}

// FindByID retrieves a blog by id
func (r *blogRepository) FindByID(ctx context.Context, id string) (*model.Blog, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	sql := `SELECT ` + blogColumns + ` FROM blogs WHERE id = $1`
	blog, err := scanBlog(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find blog by ID: %w", err)
	}
	return blog, nil
}

// List returns one page of blogs, newest first
func (r *blogRepository) List(ctx context.Context, page model.Page) ([]model.Blog, error) {
	sql := `SELECT ` + blogColumns + ` FROM blogs ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, sql, page.Limit, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to query blogs: %w", err)
	}
	defer rows.Close()

	blogs := []model.Blog{}
	for rows.Next() {
		blog, err := scanBlog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan blog row: %w", err)
		}
		blogs = append(blogs, *blog)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating blog rows: %w", err)
	}
	return blogs, nil
}

// Count returns the number of blogs
func (r *blogRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM blogs`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count blogs: %w", err)
	}
	return total, nil
}

func scanBlog(row pgx.Row) (*model.Blog, error) {
	blog := &model.Blog{}
	if err := row.Scan(&blog.ID, &blog.Title, &blog.Content, &blog.AuthorID, &blog.CreatedAt, &blog.UpdatedAt); err != nil {
		return nil, err
	}
	return blog, nil
}
