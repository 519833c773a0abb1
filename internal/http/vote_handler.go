package web

import (
	"errors"
	"net/http"
	"strconv"

	"poll-maker/internal/domain/vote"
	"poll-maker/internal/platform/apperr"
	"poll-maker/internal/platform/session"
	"poll-maker/internal/worker"
)

type optionResult struct {
	OptionID   int64   `json:"option_id"`
	Text       string  `json:"text"`
	Votes      int64   `json:"votes"`
	Percentage float64 `json:"percentage"`
}

type pollResultsResponse struct {
	PollID     int64          `json:"poll_id"`
	Title      string         `json:"title"`
	TotalVotes int64          `json:"total_votes"`
	Options    []optionResult `json:"options"`
}

func (h *Handler) handleVote(w http.ResponseWriter, r *http.Request) {
	pollID, err := parseIDParam(r, "id")
	if err != nil {
		h.fail(w, r, vote.ErrPollNotFound)
		return
	}

	// a missing or malformed choice is treated like a foreign option
	optionID, _ := strconv.ParseInt(r.FormValue("option"), 10, 64)

	st := sessionState(r)
	v, err := h.votes.Cast(r.Context(), pollID, optionID, st.UserID)
	switch {
	case err == nil:
		select {
		case h.voteCh <- worker.VoteEvent{PollID: v.PollID, OptionID: v.OptionID, UserID: v.UserID}:
		default:
		}
		st.AddFlash(session.FlashSuccess, "Your vote has been recorded!")
	case errors.Is(err, vote.ErrAlreadyVoted):
		st.AddFlash(session.FlashWarning, mapError(err).Message)
	case errors.Is(err, vote.ErrInvalidOption):
		st.AddFlash(session.FlashDanger, mapError(err).Message)
	default:
		h.fail(w, r, err)
		return
	}

	h.redirect(w, r, pollPath(pollID))
}

func (h *Handler) handleVoteRateLimited(w http.ResponseWriter, r *http.Request) {
	pollID, err := parseIDParam(r, "id")
	if err != nil {
		h.fail(w, r, vote.ErrPollNotFound)
		return
	}
	sessionState(r).AddFlash(session.FlashWarning, "You are voting too quickly. Please wait a moment and try again.")
	h.redirect(w, r, pollPath(pollID))
}

// @Summary     Poll results
// @Description Vote totals per option. Only the poll's owner may read them.
// @Tags        polls
// @Produce     json
// @Param       id   path      int64  true  "Poll ID"
// @Success     200  {object}  pollResultsResponse
// @Failure     401  {object}  map[string]string  "not logged in"
// @Failure     403  {object}  map[string]string  "not the poll owner"
// @Failure     404  {object}  map[string]string  "not found"
// @Failure     500  {object}  map[string]string  "server error"
// @Router      /polls/{id}/results [get]
func (h *Handler) handlePollResults(w http.ResponseWriter, r *http.Request) {
	pollID, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.NotFound("poll_not_found", "poll not found", err))
		return
	}

	st := sessionState(r)
	if !st.Authenticated() {
		errorResponse(w, apperr.Unauthorized("login_required", "login required", nil))
		return
	}

	p, opts, err := h.polls.Get(r.Context(), pollID)
	if err != nil {
		errorResponse(w, err)
		return
	}
	if p.UserID != st.UserID {
		errorResponse(w, apperr.Forbidden("forbidden", "only the poll owner can see detailed results", nil))
		return
	}

	res, total, err := h.votes.Results(r.Context(), pollID)
	if err != nil {
		errorResponse(w, err)
		return
	}

	votesByOption := make(map[int64]vote.Result, len(res))
	for _, rr := range res {
		votesByOption[rr.OptionID] = rr
	}

	resp := pollResultsResponse{
		PollID:     p.ID,
		Title:      p.Title,
		TotalVotes: total,
		Options:    make([]optionResult, 0, len(opts)),
	}
	for _, o := range opts {
		rr := votesByOption[o.ID]
		resp.Options = append(resp.Options, optionResult{
			OptionID:   o.ID,
			Text:       o.Text,
			Votes:      rr.Votes,
			Percentage: rr.Percentage,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
