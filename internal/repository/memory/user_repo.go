package memory

import (
	"context"

	"poll-maker/internal/domain/user"
)

type UserRepo struct {
	s *Store
}

func (r *UserRepo) Create(ctx context.Context, u *user.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byUsername[u.Username]; ok {
		return user.ErrUsernameTaken
	}
	if _, ok := s.byEmail[u.Email]; ok {
		return user.ErrEmailTaken
	}

	u.ID = s.nextUserID
	s.nextUserID++
	u.CreatedAt = s.now()

	stored := *u
	s.users[u.ID] = &stored
	s.byUsername[u.Username] = u.ID
	s.byEmail[u.Email] = u.ID
	return nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	u := *s.users[id]
	return &u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	u := *stored
	return &u, nil
}
