package web

import (
	"net/http"
	"strconv"
	"strings"

	"poll-maker/internal/domain/poll"
	"poll-maker/internal/metrics"
	"poll-maker/internal/platform/apperr"
	"poll-maker/internal/platform/session"
)

const recentPollsLimit = 10

type createForm struct {
	Title       string
	Description string
	Options     []string
}

type indexPage struct {
	Polls []poll.Poll
}

type viewPage struct {
	*poll.View
	ChartLabels []string
	ChartVotes  []int64
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	polls, err := h.polls.Recent(r.Context(), recentPollsLimit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "index.html", "", indexPage{Polls: polls})
}

func (h *Handler) handleCreatePage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "create.html", "Create Poll", createForm{
		Options: padOptions(nil),
	})
}

func (h *Handler) handleCreatePoll(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, apperr.BadRequest("invalid_input", "invalid form", err))
		return
	}

	form := createForm{
		Title:       r.PostForm.Get("title"),
		Description: r.PostForm.Get("description"),
		Options:     r.PostForm["options"],
	}

	st := sessionState(r)
	id, err := h.polls.Create(r.Context(), poll.CreateInput{
		UserID:      st.UserID,
		Title:       form.Title,
		Description: form.Description,
		Options:     form.Options,
	})
	if err != nil {
		form.Options = padOptions(form.Options)
		h.renderFormError(w, r, "create.html", "Create Poll", form, err)
		return
	}

	metrics.IncPollCreated()
	slogLogger.Info("poll created", "poll_id", id, "user_id", st.UserID)

	st.AddFlash(session.FlashSuccess, "Poll created successfully!")
	h.redirect(w, r, pollPath(id))
}

func (h *Handler) handleViewPoll(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		h.fail(w, r, poll.ErrPollNotFound)
		return
	}

	view, err := h.polls.View(r.Context(), id, sessionState(r).UserID, h.shareBase(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	page := viewPage{View: view}
	for _, o := range view.Options {
		page.ChartLabels = append(page.ChartLabels, o.Text)
		page.ChartVotes = append(page.ChartVotes, o.Votes)
	}
	h.render(w, r, http.StatusOK, "view.html", view.Poll.Title, page)
}

func (h *Handler) handleMyPolls(w http.ResponseWriter, r *http.Request) {
	dash, err := h.polls.Dashboard(r.Context(), sessionState(r).UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "my_polls.html", "My Polls", dash)
}

// shareBase is the origin visitors reach the app on.
func (h *Handler) shareBase(r *http.Request) string {
	if h.baseURL != "" {
		return h.baseURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}

// padOptions keeps the form showing at least as many inputs as a poll needs.
func padOptions(opts []string) []string {
	out := make([]string, 0, max(len(opts), poll.MinOptions))
	for _, o := range opts {
		out = append(out, strings.TrimSpace(o))
	}
	for len(out) < poll.MinOptions {
		out = append(out, "")
	}
	return out
}

func pollPath(id int64) string {
	return "/poll/" + strconv.FormatInt(id, 10)
}
