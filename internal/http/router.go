// Package web serves the poll maker's HTML pages and its small JSON API.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"poll-maker/internal/domain/poll"
	"poll-maker/internal/domain/user"
	"poll-maker/internal/domain/vote"
	"poll-maker/internal/platform/session"
	"poll-maker/internal/worker"
)

// Pinger is satisfied by *sql.DB and the in-memory store.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Options struct {
	Users    *user.Service
	Polls    *poll.Service
	Votes    *vote.Service
	Sessions *session.Manager
	VoteCh   chan<- worker.VoteEvent
	DB       Pinger

	// BaseURL overrides the origin used in share links. When empty it is
	// derived from each request.
	BaseURL string

	VoteRate  rate.Limit
	VoteBurst int

	// TrustProxy honours X-Forwarded-For and X-Real-IP. Enable it only when
	// every request arrives through a proxy that overwrites those headers.
	TrustProxy bool
}

type Handler struct {
	users    *user.Service
	polls    *poll.Service
	votes    *vote.Service
	sessions *session.Manager
	voteCh   chan<- worker.VoteEvent
	db       Pinger
	baseURL  string
}

func NewRouter(opts Options) http.Handler {
	h := &Handler{
		users:    opts.Users,
		polls:    opts.Polls,
		votes:    opts.Votes,
		sessions: opts.Sessions,
		voteCh:   opts.VoteCh,
		db:       opts.DB,
		baseURL:  opts.BaseURL,
	}

	voteRate, voteBurst := opts.VoteRate, opts.VoteBurst
	if voteRate == 0 {
		voteRate = rate.Every(time.Minute / 30)
	}
	if voteBurst <= 0 {
		voteBurst = 5
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if opts.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(RequestLogger)
	r.Use(h.sessions.Middleware)

	r.NotFound(h.handleNotFound)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ready", h.handleReady)
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Get("/", h.handleIndex)
	r.Get("/login", h.handleLoginPage)
	r.Post("/login", h.handleLogin)
	r.Get("/register", h.handleRegisterPage)
	r.Post("/register", h.handleRegister)
	r.Get("/logout", h.handleLogout)
	r.Get("/poll/{id}", h.handleViewPoll)

	r.Group(func(r chi.Router) {
		r.Use(h.RequireLogin)

		r.Get("/create", h.handleCreatePage)
		r.Post("/create", h.handleCreatePoll)
		r.Get("/my_polls", h.handleMyPolls)
		r.With(RateLimitVotes(voteRate, voteBurst, h.handleVoteRateLimited)).Post("/vote/{id}", h.handleVote)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}).Handler)

		r.Get("/polls/{id}/results", h.handlePollResults)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	idStr := chi.URLParam(r, name)
	return strconv.ParseInt(idStr, 10, 64)
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "db_unavailable",
			"message": "database not configured",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "db_unavailable",
			"message": "database not ready",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
