package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"blog-auth/internal/models"
	"blog-auth/internal/storage"
)

// UserService is the identity store the authentication flows compose with:
// it owns password hashing and verification.
type UserService struct {
	users storage.UserRepository
	log   *zap.SugaredLogger
}

func NewUserService(users storage.UserRepository, log *zap.SugaredLogger) *UserService {
	return &UserService{users: users, log: log}
}

func (us *UserService) Register(ctx context.Context, email, name, password string) (*models.User, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := us.users.CreateUser(ctx, &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(passwordHash),
		Role:         models.RoleUser,
	})
	if err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	us.log.Infow("user registered", "user_id", user.ID)
	return user, nil
}

// VerifyCredentials collapses "unknown email" and "wrong password" into the
// same error so callers cannot enumerate accounts.
func (us *UserService) VerifyCredentials(ctx context.Context, email, password string) (*models.User, error) {
	user, err := us.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (us *UserService) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := us.users.UserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

func (us *UserService) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := us.users.UserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}
