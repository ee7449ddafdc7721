package service

import (
	"context"
	"errors"
	"fmt"

	"blog_api/internal/model"
	"blog_api/internal/repository"
	"blog_api/internal/utils"
)

// Actor is the authenticated caller of an operation
type Actor struct {
	UserID string
	Role   string
}

// CanModify reports whether the actor may change the given user's account
func (a Actor) CanModify(userID string) bool {
	return a.Role == model.RoleAdmin || a.UserID == userID
}

// UserService manages user accounts
type UserService interface {
	List(ctx context.Context, page model.Page) ([]model.User, int64, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	Update(ctx context.Context, actor Actor, id string, req model.UpdateUserRequest) (*model.User, error)
	Delete(ctx context.Context, actor Actor, id string) (*model.User, error)
}

type userService struct {
	repo       repository.UserRepository
	bcryptCost int
}

// NewUserService creates a new UserService
func NewUserService(repo repository.UserRepository, bcryptCost int) UserService {
	return &userService{repo: repo, bcryptCost: bcryptCost}
}

func (s *userService) List(ctx context.Context, page model.Page) ([]model.User, int64, error) {
	users, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	if len(users) == 0 {
		return users, 0, nil
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}
	return users, total, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, actor Actor, id string, req model.UpdateUserRequest) (*model.User, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(user.ID) {
		return nil, ErrForbidden
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Password != nil {
		hashed, err := utils.HashPasswordWithCost(*req.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}

	if err := s.repo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, ErrUsernameTaken
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user in repository: %w", err)
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, actor Actor, id string) (*model.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(user.ID) {
		return nil, ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to delete user in repository: %w", err)
	}
	return user, nil
}
