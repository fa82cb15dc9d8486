package service

import (
	"context"
	"testing"
	"time"

	"github.com/mcg-platform/componentgen/internal/domain"
	"github.com/mcg-platform/componentgen/internal/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestAuthService(repo domain.UserRepository) *AuthService {
	return NewAuthService(repo, security.NewJWTManager("test-secret-key-with-32-chars!!", 7*24*time.Hour))
}

func TestAuthService_Signup(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, domain.ErrNotFound)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.User).ID = primitive.NewObjectID()
		}).
		Return(nil)

	svc := newTestAuthService(repo)

	user, token, err := svc.Signup(context.Background(), domain.UserSignup{
		Name:     "New User",
		Email:    "new@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, token)
	assert.Equal(t, "new@example.com", user.Email)
	assert.NotEqual(t, "password123", user.PasswordHash, "password must be hashed")
	assert.True(t, security.CheckPassword(user.PasswordHash, "password123"))
}

func TestAuthService_Signup_EmailTaken(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("GetByEmail", mock.Anything, "taken@example.com").
		Return(&domain.User{Email: "taken@example.com"}, nil)

	svc := newTestAuthService(repo)

	_, _, err := svc.Signup(context.Background(), domain.UserSignup{
		Name:     "Someone",
		Email:    "taken@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestAuthService_Login(t *testing.T) {
	hash, err := security.HashPassword("password123")
	require.NoError(t, err)

	repo := new(MockUserRepository)
	repo.On("GetByEmail", mock.Anything, "user@example.com").Return(&domain.User{
		ID:           primitive.NewObjectID(),
		Email:        "user@example.com",
		PasswordHash: hash,
	}, nil)

	svc := newTestAuthService(repo)

	user, token, err := svc.Login(context.Background(), domain.UserLogin{
		Email:    "user@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "user@example.com", user.Email)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	hash, err := security.HashPassword("password123")
	require.NoError(t, err)

	repo := new(MockUserRepository)
	repo.On("GetByEmail", mock.Anything, "user@example.com").Return(&domain.User{
		Email:        "user@example.com",
		PasswordHash: hash,
	}, nil)

	svc := newTestAuthService(repo)

	_, _, err = svc.Login(context.Background(), domain.UserLogin{
		Email:    "user@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, domain.ErrNotFound)

	svc := newTestAuthService(repo)

	_, _, err := svc.Login(context.Background(), domain.UserLogin{
		Email:    "ghost@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_GetUser_BadID(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newTestAuthService(repo)

	_, err := svc.GetUser(context.Background(), "not-a-hex-id")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
