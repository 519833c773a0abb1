// Package session keeps the logged-in identity and one-shot flash messages in
// signed cookies.
//
// Middleware decodes both cookies into a per-request State. Handlers read the
// viewer from it, queue flashes on it, and then either render a page (which
// consumes every flash and clears the cookie) or redirect (which carries the
// unconsumed flashes to the next request).
package session

import (
	"context"
	"net/http"
	"time"
)

const (
	SessionCookie = "session"
	FlashCookie   = "flash"

	flashTTL = 10 * time.Minute
)

type Manager struct {
	signer signer
	ttl    time.Duration
	secure bool
}

func NewManager(secret, issuer string, ttl time.Duration, secure bool) *Manager {
	if issuer == "" {
		issuer = "poll-maker"
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Manager{
		signer: signer{secret: []byte(secret), issuer: issuer},
		ttl:    ttl,
		secure: secure,
	}
}

// State is the per-request view of the session.
type State struct {
	UserID   int64
	Username string

	flashes     []Flash
	flashCookie bool
}

func (s *State) Authenticated() bool {
	return s != nil && s.UserID != 0
}

type ctxKey struct{}

// FromContext returns the request's session state. It never returns nil so
// handlers outside the middleware see an anonymous session.
func FromContext(ctx context.Context) *State {
	if st, ok := ctx.Value(ctxKey{}).(*State); ok {
		return st
	}
	return &State{}
}

func WithState(ctx context.Context, st *State) context.Context {
	return context.WithValue(ctx, ctxKey{}, st)
}

// Middleware loads the session and flash cookies into the request context.
// A session cookie that fails verification is cleared and ignored.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st := &State{}

		if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
			claims, err := m.Parse(c.Value)
			if err != nil {
				m.clear(w, SessionCookie)
			} else {
				st.UserID = claims.UserID
				st.Username = claims.Username
			}
		}

		if c, err := r.Cookie(FlashCookie); err == nil && c.Value != "" {
			st.flashCookie = true
			if flashes, err := m.decodeFlashes(c.Value); err == nil {
				st.flashes = flashes
			}
		}

		next.ServeHTTP(w, r.WithContext(WithState(r.Context(), st)))
	})
}

// Login writes a fresh session cookie and updates st to reflect it.
func (m *Manager) Login(w http.ResponseWriter, st *State, userID int64, username string) error {
	token, err := m.Generate(userID, username)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	st.UserID = userID
	st.Username = username
	return nil
}

func (m *Manager) Logout(w http.ResponseWriter, st *State) {
	m.clear(w, SessionCookie)
	st.UserID = 0
	st.Username = ""
}

func (m *Manager) clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
