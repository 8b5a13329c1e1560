package user

import "context"

type Repository interface {
	Create(ctx context.Context, name *string, email, passwordHash string) (int, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Delete(ctx context.Context, id int) (int64, error)
}
