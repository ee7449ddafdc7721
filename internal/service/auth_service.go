package service

import (
	"context"
	"errors"
	"fmt"

	"blog_api/internal/logger"
	"blog_api/internal/model"
	"blog_api/internal/repository"
	"blog_api/internal/utils"

	"go.uber.org/zap"
)

// AuthService provides sign-up and sign-in
type AuthService interface {
	SignUp(ctx context.Context, req model.SignUpRequest) (*model.User, error)
	SignIn(ctx context.Context, req model.SignInRequest) (*model.User, string, error)
}

// AuthOptions tunes account creation
type AuthOptions struct {
	BcryptCost           int
	InitialAdminUsername string
}

type authService struct {
	userRepo repository.UserRepository
	jwtUtil  *utils.JWTUtil
	opts     AuthOptions
	log      *logger.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil, opts AuthOptions, log *logger.Logger) AuthService {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = utils.DefaultBcryptCost
	}
	return &authService{
		userRepo: userRepo,
		jwtUtil:  jwtUtil,
		opts:     opts,
		log:      log,
	}
}

// SignUp validates the request, hashes the password and stores a new user
func (s *authService) SignUp(ctx context.Context, req model.SignUpRequest) (*model.User, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	hashedPassword, err := utils.HashPasswordWithCost(req.Password, s.opts.BcryptCost)
	if err != nil {
		return nil, err
	}

	role := model.RoleUser
	if s.opts.InitialAdminUsername != "" && req.Username == s.opts.InitialAdminUsername {
		role = model.RoleAdmin
		s.log.Ctx(ctx).Info("registering initial admin", zap.String("username", req.Username))
	}

	user := &model.User{
		Username:     req.Username,
		PasswordHash: hashedPassword,
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// the existence check above is not atomic with the insert
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}
	return user, nil
}

// SignIn checks the credentials and issues a token carrying the user's role
func (s *authService) SignIn(ctx context.Context, req model.SignInRequest) (*model.User, string, error) {
	if err := validateStruct(req); err != nil {
		return nil, "", err
	}

	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by username: %w", err)
	}
	if user == nil {
		return nil, "", ErrUnknownUsername
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, "", ErrInvalidPassword
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}
