package user

import (
	"context"
	"time"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Repository stores users. Create must report duplicate usernames and emails
// as ErrUsernameTaken and ErrEmailTaken; lookups report ErrUserNotFound.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
}

type RegisterInput struct {
	Username string `form:"username" validate:"required,min=3,max=80,username"`
	Email    string `form:"email" validate:"required,max=120,email"`
	Password string `form:"password" validate:"required,max=72"`
}
