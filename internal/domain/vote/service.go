package vote

import (
	"context"
	"errors"
	"slices"
	"sort"
)

var (
	ErrAlreadyVoted    = errors.New("user already voted in this poll")
	ErrInvalidOption   = errors.New("option does not belong to poll")
	ErrPollNotFound    = errors.New("poll not found")
	ErrUnauthenticated = errors.New("voting requires a logged-in user")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Cast records userID's choice of optionID in pollID. Uniqueness is left to
// the repository so concurrent submissions cannot both succeed.
func (s *Service) Cast(ctx context.Context, pollID, optionID, userID int64) (*Vote, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}

	optionIDs, err := s.repo.OptionIDs(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(optionIDs, optionID) {
		return nil, ErrInvalidOption
	}

	v := &Vote{
		PollID:   pollID,
		OptionID: optionID,
		UserID:   userID,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Service) HasVoted(ctx context.Context, pollID, userID int64) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	return s.repo.HasVoted(ctx, pollID, userID)
}

type Result struct {
	OptionID   int64   `json:"option_id"`
	Votes      int64   `json:"votes"`
	Percentage float64 `json:"percentage"`
}

// Results returns one entry per option of the poll, including options
// nobody picked, ordered by option ID.
func (s *Service) Results(ctx context.Context, pollID int64) ([]Result, int64, error) {
	optionIDs, err := s.repo.OptionIDs(ctx, pollID)
	if err != nil {
		return nil, 0, err
	}
	counts, total, err := s.repo.CountByPoll(ctx, pollID)
	if err != nil {
		return nil, 0, err
	}

	results := make([]Result, 0, len(optionIDs))
	for _, optionID := range optionIDs {
		c := counts[optionID]
		var p float64
		if total > 0 {
			p = float64(c) * 100.0 / float64(total)
		}
		results = append(results, Result{
			OptionID:   optionID,
			Votes:      c,
			Percentage: p,
		})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].OptionID < results[j].OptionID })

	return results, total, nil
}
