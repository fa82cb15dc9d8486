package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mcg-platform/componentgen/internal/domain"
	"github.com/mcg-platform/componentgen/internal/security"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo   domain.UserRepository
	jwtManager *security.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo domain.UserRepository, jwtManager *security.JWTManager) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
	}
}

// Signup creates a new user account and returns the user with a signed token.
func (s *AuthService) Signup(ctx context.Context, input domain.UserSignup) (*domain.User, string, error) {
	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, "", domain.ErrEmailTaken
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.jwtManager.GenerateToken(user.ID.Hex(), user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// Login authenticates a user and returns the user with a signed token.
func (s *AuthService) Login(ctx context.Context, input domain.UserLogin) (*domain.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	if !security.CheckPassword(user.PasswordHash, input.Password) {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateToken(user.ID.Hex(), user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// GetUser retrieves a user by hex id.
func (s *AuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return s.userRepo.GetByID(ctx, oid)
}
