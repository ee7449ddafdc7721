package service

import (
	"context"
	"fmt"

	"blog_api/internal/model"
	"blog_api/internal/repository"
)

// BlogService manages blog posts
type BlogService interface {
	List(ctx context.Context, page model.Page) ([]model.Blog, int64, error)
	GetByID(ctx context.Context, id string) (*model.Blog, error)
	Create(ctx context.Context, authorID string, req model.CreateBlogRequest) (*model.Blog, error)
}

type blogService struct {
	repo repository.BlogRepository
}

// NewBlogService creates a new BlogService
func NewBlogService(repo repository.BlogRepository) BlogService {
	return &blogService{repo: repo}
}

func (s *blogService) List(ctx context.Context, page model.Page) ([]model.Blog, int64, error) {
	blogs, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list blogs: %w", err)
	}
	if len(blogs) == 0 {
		return blogs, 0, nil
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count blogs: %w", err)
	}
	return blogs, total, nil
}

func (s *blogService) GetByID(ctx context.Context, id string) (*model.Blog, error) {
	blog, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find blog by ID: %w", err)
	}
	if blog == nil {
		return nil, ErrBlogNotFound
	}
	return blog, nil
}

func (s *blogService) Create(ctx context.Context, authorID string, req model.CreateBlogRequest) (*model.Blog, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	blog := &model.Blog{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: authorID,
	}
	if err := s.repo.Create(ctx, blog); err != nil {
		return nil, fmt.Errorf("failed to create blog in repo: %w", err)
	}
	return blog, nil
}
