package poll

import (
	"context"
	"strconv"
	"strings"
)

type OptionResult struct {
	ID         int64   `json:"id"`
	Text       string  `json:"text"`
	Votes      int64   `json:"votes"`
	Percentage float64 `json:"percentage"`
}

// View is everything the poll page needs for one viewer.
type View struct {
	Poll       Poll
	Options    []OptionResult
	TotalVotes int64
	IsOwner    bool
	HasVoted   bool
	// ShareURL is only set for the owner.
	ShareURL string
}

// CanVote reports whether the page should offer the voting form.
func (v *View) CanVote() bool {
	return !v.HasVoted && len(v.Options) > 0
}

// View assembles the poll page for viewerID, where 0 means an anonymous
// visitor. baseURL is the externally visible origin used for the share link.
func (s *Service) View(ctx context.Context, pollID, viewerID int64, baseURL string) (*View, error) {
	p, opts, err := s.repo.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}

	counts, total, err := s.votes.CountByPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}

	v := &View{
		Poll:       *p,
		Options:    make([]OptionResult, 0, len(opts)),
		TotalVotes: total,
		IsOwner:    viewerID != 0 && viewerID == p.UserID,
	}

	for _, o := range opts {
		c := counts[o.ID]
		var pct float64
		if total > 0 {
			pct = float64(c) * 100.0 / float64(total)
		}
		v.Options = append(v.Options, OptionResult{
			ID:         o.ID,
			Text:       o.Text,
			Votes:      c,
			Percentage: pct,
		})
	}

	if viewerID != 0 {
		voted, err := s.votes.HasVoted(ctx, pollID, viewerID)
		if err != nil {
			return nil, err
		}
		v.HasVoted = voted
	}

	if v.IsOwner {
		v.ShareURL = ShareURL(baseURL, p.ID)
	}

	return v, nil
}

func ShareURL(baseURL string, pollID int64) string {
	return strings.TrimRight(baseURL, "/") + "/poll/" + strconv.FormatInt(pollID, 10)
}
