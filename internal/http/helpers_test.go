package web

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"poll-maker/internal/domain/poll"
	"poll-maker/internal/domain/user"
	"poll-maker/internal/domain/vote"
	"poll-maker/internal/platform/session"
	"poll-maker/internal/repository/memory"
	"poll-maker/internal/worker"
)

const testPassword = "password123"

type testApp struct {
	srv      *httptest.Server
	store    *memory.Store
	users    *user.Service
	polls    *poll.Service
	votes    *vote.Service
	sessions *session.Manager
	voteCh   chan worker.VoteEvent
}

func newTestApp(t *testing.T, tweak ...func(*Options)) *testApp {
	t.Helper()

	store := memory.NewStore()
	app := &testApp{
		store:    store,
		users:    user.NewService(store.Users()).WithHashCost(bcrypt.MinCost),
		polls:    poll.NewService(store.Polls(), store.Votes()),
		votes:    vote.NewService(store.Votes()),
		sessions: session.NewManager("test-secret", "poll-maker-test", time.Hour, false),
		voteCh:   make(chan worker.VoteEvent, 100),
	}

	opts := Options{
		Users:     app.users,
		Polls:     app.polls,
		Votes:     app.votes,
		Sessions:  app.sessions,
		VoteCh:    app.voteCh,
		DB:        store,
		VoteRate:  rate.Inf,
		VoteBurst: 1,
	}
	for _, fn := range tweak {
		fn(&opts)
	}

	app.srv = httptest.NewServer(NewRouter(opts))
	t.Cleanup(app.srv.Close)
	return app
}

func (a *testApp) url(path string) string {
	return a.srv.URL + path
}

// client follows redirects and keeps cookies, like a browser.
func (a *testApp) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar, Timeout: 5 * time.Second}
}

// noRedirect returns a copy of c that stops at the first response.
func noRedirect(c *http.Client) *http.Client {
	cp := *c
	cp.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &cp
}

func (a *testApp) registerUser(t *testing.T, username string) *user.User {
	t.Helper()
	u, err := a.users.Register(context.Background(), user.RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: testPassword,
	})
	require.NoError(t, err)
	return u
}

// loggedIn returns a browser-like client with a session for username.
func (a *testApp) loggedIn(t *testing.T, username string) *http.Client {
	t.Helper()
	c := a.client(t)
	resp, _ := postForm(t, c, a.url("/login"), url.Values{
		"username": {username},
		"password": {testPassword},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "/", resp.Request.URL.Path)
	return c
}

func (a *testApp) createPoll(t *testing.T, owner int64, title, description string, options ...string) int64 {
	t.Helper()
	id, err := a.polls.Create(context.Background(), poll.CreateInput{
		UserID:      owner,
		Title:       title,
		Description: description,
		Options:     options,
	})
	require.NoError(t, err)
	return id
}

func (a *testApp) optionIDs(t *testing.T, pollID int64) []int64 {
	t.Helper()
	_, opts, err := a.polls.Get(context.Background(), pollID)
	require.NoError(t, err)
	ids := make([]int64, len(opts))
	for i, o := range opts {
		ids[i] = o.ID
	}
	return ids
}

func fetch(t *testing.T, c *http.Client, target string) (*http.Response, *goquery.Document) {
	t.Helper()
	resp, err := c.Get(target)
	require.NoError(t, err)
	return resp, document(t, resp)
}

func postForm(t *testing.T, c *http.Client, target string, form url.Values) (*http.Response, *goquery.Document) {
	t.Helper()
	resp, err := c.PostForm(target, form)
	require.NoError(t, err)
	return resp, document(t, resp)
}

func document(t *testing.T, resp *http.Response) *goquery.Document {
	t.Helper()
	defer resp.Body.Close()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	return doc
}

func flashText(doc *goquery.Document, category string) string {
	return strings.TrimSpace(doc.Find("div.alert-" + category).Text())
}

func texts(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out
}
