package worker

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatsWorkerDrainsUntilClosed(t *testing.T) {
	ch := make(chan VoteEvent, 3)
	w := NewStatsWorker(ch, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ch <- VoteEvent{PollID: 1, OptionID: 2, UserID: 3}
	ch <- VoteEvent{PollID: 1, OptionID: 4, UserID: 5}
	close(ch)

	done := make(chan struct{})
	go func() {
		w.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after channel close")
	}
	assert.Equal(t, int64(2), w.Processed())
}

func TestStatsWorkerStopsOnCancel(t *testing.T) {
	ch := make(chan VoteEvent)
	w := NewStatsWorker(ch, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
