package memory

import (
	"context"

	"poll-maker/internal/domain/vote"
)

type VoteRepo struct {
	s *Store
}

func (r *VoteRepo) OptionIDs(ctx context.Context, pollID int64) ([]int64, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.polls[pollID]; !ok {
		return nil, vote.ErrPollNotFound
	}
	ids := make([]int64, 0, len(s.options[pollID]))
	for _, o := range s.options[pollID] {
		ids = append(ids, o.ID)
	}
	return ids, nil
}

// Create checks the voter, option membership and uniqueness under the write lock, so of two
// concurrent votes by one user exactly one is stored.
func (r *VoteRepo) Create(ctx context.Context, v *vote.Vote) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.polls[v.PollID]; !ok {
		return vote.ErrPollNotFound
	}
	if _, ok := s.users[v.UserID]; !ok {
		return vote.ErrUnauthenticated
	}
	member := false
	for _, o := range s.options[v.PollID] {
		if o.ID == v.OptionID {
			member = true
			break
		}
	}
	if !member {
		return vote.ErrInvalidOption
	}

	key := voteKey{pollID: v.PollID, userID: v.UserID}
	if _, exists := s.voteIndex[key]; exists {
		return vote.ErrAlreadyVoted
	}

	v.ID = s.nextVoteID
	s.nextVoteID++
	v.CreatedAt = s.now()
	s.voteIndex[key] = len(s.votes)
	s.votes = append(s.votes, *v)
	return nil
}

func (r *VoteRepo) CountByPoll(ctx context.Context, pollID int64) (map[int64]int64, int64, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make(map[int64]int64)
	var total int64
	for _, v := range s.votes {
		if v.PollID != pollID {
			continue
		}
		res[v.OptionID]++
		total++
	}
	return res, total, nil
}

func (r *VoteRepo) HasVoted(ctx context.Context, pollID, userID int64) (bool, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.voteIndex[voteKey{pollID: pollID, userID: userID}]
	return ok, nil
}
