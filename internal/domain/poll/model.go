package poll

import (
	"context"
	"time"
)

type Poll struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type Option struct {
	ID       int64  `json:"id"`
	PollID   int64  `json:"poll_id"`
	Text     string `json:"text"`
	Position int    `json:"position"`
}

// Summary is a poll as listed on its owner's dashboard.
type Summary struct {
	Poll
	OptionCount int
	TotalVotes  int64
}

// VotedSummary is a poll the user voted on, with the choice they made.
type VotedSummary struct {
	Poll
	OptionText string
	VotedAt    time.Time
}

type Repository interface {
	// Create stores the poll and its options atomically and fills in their IDs.
	Create(ctx context.Context, p *Poll, options []Option) (int64, error)
	// GetByID returns ErrPollNotFound for unknown IDs. Options come back in
	// position order.
	GetByID(ctx context.Context, id int64) (*Poll, []Option, error)
	ListRecent(ctx context.Context, limit int) ([]Poll, error)
	ListByOwner(ctx context.Context, userID int64) ([]Summary, error)
	ListVotedBy(ctx context.Context, userID int64) ([]VotedSummary, error)
}

// VoteReader is the read side of vote storage the poll view needs.
type VoteReader interface {
	CountByPoll(ctx context.Context, pollID int64) (map[int64]int64, int64, error)
	HasVoted(ctx context.Context, pollID, userID int64) (bool, error)
}

type CreateInput struct {
	UserID      int64    `form:"-" validate:"required"`
	Title       string   `form:"title" validate:"required,max=200"`
	Description string   `form:"description" validate:"max=2000"`
	Options     []string `form:"options" validate:"dive,max=200"`
}
