package vote

import (
	"context"
	"time"
)

type Vote struct {
	ID        int64     `json:"id"`
	PollID    int64     `json:"poll_id"`
	OptionID  int64     `json:"option_id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Repository interface {
	// OptionIDs lists the poll's options, or ErrPollNotFound.
	OptionIDs(ctx context.Context, pollID int64) ([]int64, error)
	// Create inserts the vote. The store enforces one vote per (user, poll)
	// and reports a violation as ErrAlreadyVoted; an option outside the poll
	// is ErrInvalidOption.
	Create(ctx context.Context, v *Vote) error
	CountByPoll(ctx context.Context, pollID int64) (map[int64]int64, int64, error)
	HasVoted(ctx context.Context, pollID, userID int64) (bool, error)
}
