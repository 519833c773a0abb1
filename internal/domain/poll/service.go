package poll

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"poll-maker/internal/platform/validate"
)

const MinOptions = 2

var (
	ErrPollNotFound = errors.New("poll not found")
	ErrInvalidPoll  = errors.New("invalid poll")
)

type Service struct {
	repo  Repository
	votes VoteReader
}

func NewService(repo Repository, votes VoteReader) *Service {
	return &Service{repo: repo, votes: votes}
}

// Create validates and stores a new poll owned by in.UserID. Blank options
// are dropped; at least MinOptions distinct options must remain.
func (s *Service) Create(ctx context.Context, in CreateInput) (int64, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Options = cleanOptions(in.Options)

	if err := validate.Struct(in); err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidPoll, validate.Message(err))
	}
	if len(in.Options) < MinOptions {
		return 0, fmt.Errorf("%w: a poll needs at least %d different options", ErrInvalidPoll, MinOptions)
	}

	p := &Poll{
		Title:       in.Title,
		Description: in.Description,
		UserID:      in.UserID,
	}
	opts := make([]Option, 0, len(in.Options))
	for i, text := range in.Options {
		opts = append(opts, Option{Text: text, Position: i})
	}
	return s.repo.Create(ctx, p, opts)
}

func (s *Service) Get(ctx context.Context, id int64) (*Poll, []Option, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Recent(ctx context.Context, limit int) ([]Poll, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.ListRecent(ctx, limit)
}

type Dashboard struct {
	Created []Summary
	Voted   []VotedSummary
}

func (s *Service) Dashboard(ctx context.Context, userID int64) (*Dashboard, error) {
	created, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	voted, err := s.repo.ListVotedBy(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Created: created, Voted: voted}, nil
}

func cleanOptions(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, o := range raw {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		key := strings.ToLower(o)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, o)
	}
	return out
}
