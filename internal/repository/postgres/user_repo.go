package postgres

import (
	"context"
	"database/sql"
	"errors"

	"poll-maker/internal/domain/user"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, u *user.User) error {
	query := `
        INSERT INTO users (username, email, password_hash)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `
	err := r.db.QueryRowContext(ctx, query, u.Username, u.Email, u.PasswordHash).
		Scan(&u.ID, &u.CreatedAt)
	switch {
	case isUniqueViolation(err, "users_username_key"):
		return user.ErrUsernameTaken
	case isUniqueViolation(err, "users_email_key"):
		return user.ErrEmailTaken
	}
	return err
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.getOne(ctx, `
        SELECT id, username, email, password_hash, created_at
        FROM users WHERE username = $1
    `, username)
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return r.getOne(ctx, `
        SELECT id, username, email, password_hash, created_at
        FROM users WHERE id = $1
    `, id)
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg any) (*user.User, error) {
	u := &user.User{}
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
