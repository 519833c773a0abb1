package user

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"poll-maker/internal/platform/validate"
)

type memoryUserRepo struct {
	mu     sync.Mutex
	users  map[int64]*User
	nextID int64
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[int64]*User), nextID: 1}
}

func (r *memoryUserRepo) Create(ctx context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return ErrUsernameTaken
		}
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}
	u.ID = r.nextID
	r.nextID++
	u.CreatedAt = time.Now()
	copyUser := *u
	r.users[u.ID] = &copyUser
	return nil
}

func (r *memoryUserRepo) GetByUsername(ctx context.Context, username string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			copyUser := *u
			return &copyUser, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *memoryUserRepo) GetByID(ctx context.Context, id int64) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copyUser := *u
	return &copyUser, nil
}

func newTestService() (*Service, *memoryUserRepo) {
	repo := newMemoryUserRepo()
	return NewService(repo).WithHashCost(bcrypt.MinCost), repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Username: " testuser ", Email: "Test@Example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.ID == 0 || u.Username != "testuser" || u.Email != "test@example.com" {
		t.Fatalf("unexpected user %+v", u)
	}
	if u.PasswordHash == "password123" {
		t.Fatalf("password stored in clear")
	}

	logged, err := svc.Login(ctx, "testuser", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.ID != u.ID {
		t.Fatalf("expected user %d, got %d", u.ID, logged.ID)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "pw"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	cases := []struct{ username, password string }{
		{"alice", "wrong"},
		{"nobody", "pw"},
		{"", ""},
	}
	for _, tc := range cases {
		if _, err := svc.Login(ctx, tc.username, tc.password); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("login(%q,%q): expected ErrInvalidCredentials, got %v", tc.username, tc.password, err)
		}
	}
}

func TestRegisterDuplicates(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "pw"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "other@example.com", Password: "pw"}); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Username: "alice2", Email: "ALICE@example.com", Password: "pw"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	cases := []struct {
		name string
		in   RegisterInput
		want string
	}{
		{"missing username", RegisterInput{Email: "a@example.com", Password: "pw"}, "username is required"},
		{"bad email", RegisterInput{Username: "bob", Email: "not-an-email", Password: "pw"}, "valid email"},
		{"missing password", RegisterInput{Username: "bob", Email: "bob@example.com"}, "password is required"},
		{"long password", RegisterInput{Username: "bob", Email: "bob@example.com", Password: strings.Repeat("x", 80)}, "password must be at most 72 characters"},
		{"long multibyte password", RegisterInput{Username: "bob", Email: "bob@example.com", Password: strings.Repeat("é", 40)}, "password must be at most 72 bytes"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.in)
			if !errors.Is(err, validate.ErrInvalid) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in %q", tc.want, err.Error())
			}
		})
	}
	if len(repo.users) != 0 {
		t.Fatalf("invalid input must not create users")
	}
}
