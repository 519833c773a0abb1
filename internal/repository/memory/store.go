// Package memory is an in-process implementation of the repositories. It
// enforces the same uniqueness and membership rules as the Postgres schema so
// the app behaves identically when run without a database.
package memory

import (
	"context"
	"sync"
	"time"

	"poll-maker/internal/domain/poll"
	"poll-maker/internal/domain/user"
	"poll-maker/internal/domain/vote"
)

type voteKey struct {
	pollID int64
	userID int64
}

type Store struct {
	mu sync.RWMutex

	users      map[int64]*user.User
	byUsername map[string]int64
	byEmail    map[string]int64

	polls   map[int64]*poll.Poll
	options map[int64][]poll.Option

	votes     []vote.Vote
	voteIndex map[voteKey]int

	nextUserID   int64
	nextPollID   int64
	nextOptionID int64
	nextVoteID   int64

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:        make(map[int64]*user.User),
		byUsername:   make(map[string]int64),
		byEmail:      make(map[string]int64),
		polls:        make(map[int64]*poll.Poll),
		options:      make(map[int64][]poll.Option),
		voteIndex:    make(map[voteKey]int),
		nextUserID:   1,
		nextPollID:   1,
		nextOptionID: 1,
		nextVoteID:   1,
		now:          time.Now,
	}
}

// PingContext lets the store stand in for a database in readiness checks.
func (s *Store) PingContext(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }
func (s *Store) Polls() *PollRepo { return &PollRepo{s: s} }
func (s *Store) Votes() *VoteRepo { return &VoteRepo{s: s} }
