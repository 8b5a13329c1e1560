package user

import "time"

type User struct {
	ID           int       `db:"id" json:"id"`
	Name         *string   `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// PublicUser is the only user shape returned to clients.
type PublicUser struct {
	ID    int     `json:"id"`
	Name  *string `json:"name"`
	Email string  `json:"email"`
}

func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}

type CreateUserRequest struct {
	Name     *string `json:"name"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,max=72"`
}

type AuthenticateRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthenticateResponse struct {
	Message string      `json:"message" example:"Login successful"`
	User    *PublicUser `json:"user"`
}

type CreateUserResponse struct {
	Message string `json:"message" example:"User created"`
	UserID  int    `json:"userId" example:"7"`
}
