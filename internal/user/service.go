package user

import (
	"context"
	"errors"

	"gymbook/internal/api"
	"gymbook/internal/auth"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordTooLong    = errors.New("password too long")
)

type Service interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (int, error)
	DeleteUser(ctx context.Context, id int) (*api.DeleteResult, error)
	AuthenticateUser(ctx context.Context, email, password string) (*PublicUser, error)
	GetUser(ctx context.Context, id int) (*User, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
	}
}

func (s *service) CreateUser(ctx context.Context, req CreateUserRequest) (int, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, ErrEmailExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		if auth.IsHashTooLong(err) {
			return 0, ErrPasswordTooLong
		}
		return 0, err
	}

	return s.repo.Create(ctx, req.Name, req.Email, passwordHash)
}

func (s *service) DeleteUser(ctx context.Context, id int) (*api.DeleteResult, error) {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	return &api.DeleteResult{AffectedRows: n}, nil
}

// AuthenticateUser distinguishes an unknown email (ErrUserNotFound) from a
// wrong password (ErrInvalidCredentials).
func (s *service) AuthenticateUser(ctx context.Context, email, password string) (*PublicUser, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return user.Public(), nil
}

func (s *service) GetUser(ctx context.Context, id int) (*User, error) {
	return s.repo.FindByID(ctx, id)
}
