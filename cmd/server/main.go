package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	_ "poll-maker/docs"
	"poll-maker/internal/config"
	"poll-maker/internal/domain/poll"
	"poll-maker/internal/domain/user"
	"poll-maker/internal/domain/vote"
	web "poll-maker/internal/http"
	"poll-maker/internal/metrics"
	"poll-maker/internal/platform/database"
	"poll-maker/internal/platform/logger"
	"poll-maker/internal/platform/session"
	"poll-maker/internal/repository/memory"
	"poll-maker/internal/repository/postgres"
	"poll-maker/internal/worker"
)

type stores struct {
	users user.Repository
	polls poll.Repository
	votes vote.Repository
	// tallies is the vote store seen from the poll side
	tallies poll.VoteReader
	db      web.Pinger
	close   func() error
}

// @title           Poll Maker API
// @version         1.0
// @description     JSON endpoints of the poll maker web app. Authentication uses the session cookie set by /login.
// @BasePath        /api/v1
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Env)
	slog.SetDefault(log)
	web.SetLogger(log)
	metrics.Register()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Error("storage error", "storage", cfg.Storage, "error", err)
		os.Exit(1)
	}
	defer st.close()

	userSvc := user.NewService(st.users)
	pollSvc := poll.NewService(st.polls, st.tallies)
	voteSvc := vote.NewService(st.votes)

	sessions := session.NewManager(cfg.SessionSecret, "", cfg.SessionTTL, cfg.SecureCookies)

	voteCh := make(chan worker.VoteEvent, 100)
	statsWorker := worker.NewStatsWorker(voteCh, log)

	router := web.NewRouter(web.Options{
		Users:      userSvc,
		Polls:      pollSvc,
		Votes:      voteSvc,
		Sessions:   sessions,
		VoteCh:     voteCh,
		DB:         st.db,
		BaseURL:    cfg.BaseURL,
		VoteRate:   rate.Every(time.Minute / time.Duration(cfg.VoteRatePerMinute)),
		VoteBurst:  cfg.VoteBurst,
		TrustProxy: cfg.TrustProxy,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	workerDone := make(chan struct{})
	go func() {
		statsWorker.Run(ctx)
		close(workerDone)
	}()

	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Env, "storage", cfg.Storage)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", "error", err)
	}
	<-workerDone

	log.Info("server stopped")
}

func openStores(ctx context.Context, cfg config.Config, log *slog.Logger) (*stores, error) {
	if cfg.Storage == config.StorageMemory {
		log.Warn("using in-memory storage; data is lost on restart")
		s := memory.NewStore()
		votes := s.Votes()
		return &stores{
			users:   s.Users(),
			polls:   s.Polls(),
			votes:   votes,
			tallies: votes,
			db:      s,
			close:   func() error { return nil },
		}, nil
	}

	db, err := database.NewPostgres(ctx, cfg.DB_DSN)
	if err != nil {
		return nil, err
	}

	if cfg.MigrateOnStart {
		if err := database.Migrate(cfg.DB_DSN); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info("database schema up to date")
	}

	votes := postgres.NewVoteRepo(db)
	return &stores{
		users:   postgres.NewUserRepo(db),
		polls:   postgres.NewPollRepo(db),
		votes:   votes,
		tallies: votes,
		db:      db,
		close:   db.Close,
	}, nil
}
