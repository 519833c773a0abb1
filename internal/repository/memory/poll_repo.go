package memory

import (
	"context"
	"sort"

	"poll-maker/internal/domain/poll"
)

type PollRepo struct {
	s *Store
}

func (r *PollRepo) Create(ctx context.Context, p *poll.Poll, options []poll.Option) (int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[p.UserID]; !ok {
		return 0, poll.ErrInvalidPoll
	}

	p.ID = s.nextPollID
	s.nextPollID++
	p.CreatedAt = s.now()

	stored := make([]poll.Option, len(options))
	for i := range options {
		options[i].ID = s.nextOptionID
		s.nextOptionID++
		options[i].PollID = p.ID
		stored[i] = options[i]
	}

	cp := *p
	s.polls[p.ID] = &cp
	s.options[p.ID] = stored
	return p.ID, nil
}

func (r *PollRepo) GetByID(ctx context.Context, id int64) (*poll.Poll, []poll.Option, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.polls[id]
	if !ok {
		return nil, nil, poll.ErrPollNotFound
	}
	cp := *p
	opts := append([]poll.Option(nil), s.options[id]...)
	sort.SliceStable(opts, func(i, j int) bool { return opts[i].Position < opts[j].Position })
	return &cp, opts, nil
}

func (r *PollRepo) ListRecent(ctx context.Context, limit int) ([]poll.Poll, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]poll.Poll, 0, len(s.polls))
	for _, p := range s.polls {
		res = append(res, *p)
	}
	sortNewestFirst(res, func(p poll.Poll) poll.Poll { return p })
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (r *PollRepo) ListByOwner(ctx context.Context, userID int64) ([]poll.Summary, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	var res []poll.Summary
	for _, p := range s.polls {
		if p.UserID != userID {
			continue
		}
		var total int64
		for _, v := range s.votes {
			if v.PollID == p.ID {
				total++
			}
		}
		res = append(res, poll.Summary{
			Poll:        *p,
			OptionCount: len(s.options[p.ID]),
			TotalVotes:  total,
		})
	}
	sortNewestFirst(res, func(sm poll.Summary) poll.Poll { return sm.Poll })
	return res, nil
}

func (r *PollRepo) ListVotedBy(ctx context.Context, userID int64) ([]poll.VotedSummary, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	var res []poll.VotedSummary
	// newest vote first
	for i := len(s.votes) - 1; i >= 0; i-- {
		v := s.votes[i]
		if v.UserID != userID {
			continue
		}
		p, ok := s.polls[v.PollID]
		if !ok {
			continue
		}
		vs := poll.VotedSummary{Poll: *p, VotedAt: v.CreatedAt}
		for _, o := range s.options[v.PollID] {
			if o.ID == v.OptionID {
				vs.OptionText = o.Text
				break
			}
		}
		res = append(res, vs)
	}
	return res, nil
}

func sortNewestFirst[T any](items []T, key func(T) poll.Poll) {
	sort.Slice(items, func(i, j int) bool {
		a, b := key(items[i]), key(items[j])
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}
