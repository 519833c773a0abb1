package worker

import (
	"context"
	"log/slog"

	"poll-maker/internal/metrics"
)

// VoteEvent is published after a vote has been stored.
type VoteEvent struct {
	PollID   int64
	OptionID int64
	UserID   int64
}

type StatsWorker struct {
	Ch  <-chan VoteEvent
	log *slog.Logger

	processed int64
}

func NewStatsWorker(ch <-chan VoteEvent, log *slog.Logger) *StatsWorker {
	if log == nil {
		log = slog.Default()
	}
	return &StatsWorker{Ch: ch, log: log.With("component", "stats_worker")}
}

// Run consumes events until ctx is cancelled or the channel is closed.
func (w *StatsWorker) Run(ctx context.Context) {
	w.log.Info("stats worker started")
	for {
		select {
		case <-ctx.Done():
			w.log.Info("stats worker stopped", "processed", w.processed)
			return
		case ev, ok := <-w.Ch:
			if !ok {
				w.log.Info("stats worker stopped", "processed", w.processed)
				return
			}
			w.processed++
			metrics.IncVote()
			w.log.Debug("vote recorded",
				"poll_id", ev.PollID,
				"option_id", ev.OptionID,
				"user_id", ev.UserID,
			)
		}
	}
}

// Processed is only safe to read after Run has returned.
func (w *StatsWorker) Processed() int64 {
	return w.processed
}
