package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Semior001/newsreader/app/device"
	"github.com/Semior001/newsreader/app/feed"
	"github.com/Semior001/newsreader/app/newsapi"
	"github.com/Semior001/newsreader/app/poll"
	"github.com/Semior001/newsreader/app/post"
	"github.com/Semior001/newsreader/app/profile"
	"github.com/Semior001/newsreader/app/store"
	"github.com/Semior001/newsreader/pkg/logx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type env struct {
	ts   *httptest.Server
	srv  *Server
	news *feed.NewsSourceMock
	bolt *store.Bolt
	// token is sent as a bearer token when set
	token string
}

func prepEnv(t *testing.T) *env {
	t.Helper()

	b, err := store.NewBolt(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, b.Close()) })

	lg := slog.New(logx.NoOp())
	news := &feed.NewsSourceMock{EverythingFunc: func(_ context.Context, q newsapi.Query) ([]store.Article, error) {
		return []store.Article{
			{ID: "news-0", Title: "Rain", Category: q.Query, PublishedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
			{ID: "news-1", Title: "Sun", Category: q.Query, PublishedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		}, nil
	}}

	srv := &Server{
		Logger:     lg,
		Devices:    device.NewRegistry(lg, b, b, device.Options{}),
		Feed:       feed.NewAggregator(news, b, feed.WithLogger(lg), feed.WithRand(func(int) int { return 0 })),
		Posts:      post.NewService(lg, b),
		Polls:      poll.NewCreator(lg, b),
		Profiles:   profile.NewService(lg, b, b),
		Timeout:    5 * time.Second,
		AdminToken: "admin-secret",
	}

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)

	return &env{ts: ts, srv: srv, news: news, bolt: b}
}

func (e *env) do(t *testing.T, method, path, dev string, body any, out any) int {
	t.Helper()

	var rd io.Reader = http.NoBody
	if body != nil {
		bts, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(bts)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, e.ts.URL+path, rd)
	require.NoError(t, err)
	if dev != "" {
		req.Header.Set(DeviceHeader, dev)
	}
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	resp, err := e.ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestServer_DeviceRequired(t *testing.T) {
	e := prepEnv(t)

	var resp errorResponse
	status := e.do(t, http.MethodGet, "/api/v1/state", "", nil, &resp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "X-Device-ID header is required", resp.Error)
}

func TestServer_State(t *testing.T) {
	e := prepEnv(t)

	var st stateResponse
	require.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/api/v1/state", "d1", nil, &st))
	assert.Equal(t, "Popular", st.Category)
	assert.False(t, st.Loading)
	assert.Nil(t, st.SelectedArticle)

	require.Equal(t, http.StatusOK, e.do(t, http.MethodPut, "/api/v1/state/category", "d1",
		map[string]string{"category": "Sports"}, &st))
	assert.Equal(t, "Sports", st.Category)

	require.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/api/v1/state", "d2", nil, &st))
	assert.Equal(t, "Popular", st.Category, "devices are isolated")

	require.Equal(t, http.StatusOK, e.do(t, http.MethodDelete, "/api/v1/state/category", "d1", nil, &st))
	assert.Equal(t, "", st.Category)

	var errResp errorResponse
	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodPut, "/api/v1/state/category", "d1",
		map[string]string{"unknown": "x"}, &errResp))
}

func TestServer_FeedAndArticle(t *testing.T) {
	e := prepEnv(t)

	var errResp errorResponse
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodPut, "/api/v1/state/article", "d1",
		map[string]string{"id": "news-0"}, &errResp), "nothing is loaded yet")

	_, err := e.srv.Polls.Create(context.Background(), poll.Draft{Question: "q?", Options: []string{"a", "b"}})
	require.NoError(t, err)

	var f feedResponse
	require.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/api/v1/feed", "d1", nil, &f))
	assert.Equal(t, "Popular", f.Category)
	require.Len(t, f.Articles, 2)
	assert.Equal(t, "news-0", f.Articles[0].ID)
	assert.Equal(t, 1, f.PollIndex)
	require.NotNil(t, f.Poll)
	assert.Equal(t, "q?", f.Poll.Question)

	var cached feedResponse
	require.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/api/v1/news/Popular", "d1", nil, &cached))
	assert.Equal(t, f.Articles, cached.Articles)

	require.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/api/v1/news/Sports", "d1", nil, &cached))
	assert.Empty(t, cached.Articles)

	var a store.Article
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPut, "/api/v1/state/article", "d1",
		map[string]string{"id": "news-1"}, &a))
	assert.Equal(t, "Sun", a.Title)

	require.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/api/v1/state/article", "d1", nil, &a))
	assert.Equal(t, "news-1", a.ID)

	var st stateResponse
	require.Equal(t, http.StatusOK, e.do(t, http.MethodDelete, "/api/v1/state/article", "d1", nil, &st))
	assert.Nil(t, st.SelectedArticle)
	assert.Equal(t, []string{"Popular"}, st.CachedCategories)

	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/api/v1/state/article", "d1", nil, &errResp))
}

func TestServer_FeedError(t *testing.T) {
	e := prepEnv(t)
	e.news.EverythingFunc = func(context.Context, newsapi.Query) ([]store.Article, error) {
		return nil, &newsapi.Error{StatusCode: http.StatusUnauthorized, Code: "apiKeyInvalid", Message: "Your API key is invalid."}
	}

	var errResp errorResponse
	assert.Equal(t, http.StatusBadGateway, e.do(t, http.MethodGet, "/api/v1/feed", "d1", nil, &errResp))
	assert.Equal(t, "Your API key is invalid.", errResp.Error)

	var st stateResponse
	require.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/api/v1/state", "d1", nil, &st))
	assert.Equal(t, "Your API key is invalid.", st.Error)
	assert.Empty(t, st.CachedCategories)
}

func TestServer_Poll(t *testing.T) {
	e := prepEnv(t)

	var errResp errorResponse
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/api/v1/poll", "d1", nil, &errResp))

	assert.Equal(t, http.StatusConflict, e.do(t, http.MethodPost, "/api/v1/poll/vote", "d1",
		map[string]string{"poll_id": "x", "option": "a"}, &errResp), "vote before the poll is loaded")

	draft := poll.Draft{Question: "Tea or coffee?", Options: []string{"Tea", "Coffee"}}
	assert.Equal(t, http.StatusUnauthorized, e.do(t, http.MethodPost, "/api/v1/polls", "", draft, &errResp))
	e.token = "wrong"
	assert.Equal(t, http.StatusUnauthorized, e.do(t, http.MethodPost, "/api/v1/polls", "", draft, &errResp))
	e.token = "admin-secret"

	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodPost, "/api/v1/polls", "",
		poll.Draft{Question: "", Options: []string{"A"}}, &errResp))
	assert.Equal(t, store.ValidationError{
		"question": "Question is required",
		"options":  "At least 2 options are required",
	}, errResp.Errors)

	var created store.Poll
	require.Equal(t, http.StatusCreated, e.do(t, http.MethodPost, "/api/v1/polls", "",
		poll.Draft{Question: "Tea or coffee?", Options: []string{"Tea", "Coffee"}}, &created))

	var pr pollResponse
	require.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/api/v1/poll", "d1", nil, &pr))
	assert.Equal(t, created.ID, pr.Poll.ID)
	assert.False(t, pr.Voted)
	assert.Equal(t, map[string]float64{"Tea": 0, "Coffee": 0}, pr.Shares)

	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodPost, "/api/v1/poll/vote", "d1",
		map[string]string{"poll_id": created.ID, "option": "Juice"}, &errResp))
	assert.Equal(t, http.StatusConflict, e.do(t, http.MethodPost, "/api/v1/poll/vote", "d1",
		map[string]string{"poll_id": "another-poll", "option": "Tea"}, &errResp), "vote for a poll that is not loaded")

	require.Equal(t, http.StatusOK, e.do(t, http.MethodPost, "/api/v1/poll/vote", "d1",
		map[string]string{"poll_id": created.ID, "option": "Tea"}, &pr))
	assert.True(t, pr.Voted)
	assert.Equal(t, map[string]int{"Tea": 1, "Coffee": 0}, pr.Poll.Options)
	assert.Equal(t, map[string]float64{"Tea": 100, "Coffee": 0}, pr.Shares)
	assert.Equal(t, 1, pr.Total)

	assert.Equal(t, http.StatusConflict, e.do(t, http.MethodPost, "/api/v1/poll/vote", "d1",
		map[string]string{"poll_id": created.ID, "option": "Coffee"}, &errResp), "second vote of the device")
	assert.Equal(t, "already voted in this poll", errResp.Error)

	require.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/api/v1/poll", "d2", nil, &pr))
	assert.False(t, pr.Voted, "voted flag is per device")
	assert.Equal(t, 1, pr.Poll.Options["Tea"])
}

func TestServer_Posts(t *testing.T) {
	e := prepEnv(t)

	var errResp errorResponse
	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodPost, "/api/v1/posts", "", post.Draft{}, &errResp))
	assert.Equal(t, "Heading is required", errResp.Errors["heading"])
	assert.Equal(t, "Tag is required", errResp.Errors["tag"])
	assert.Equal(t, "Article is required", errResp.Errors["article"])

	var p store.Post
	require.Equal(t, http.StatusCreated, e.do(t, http.MethodPost, "/api/v1/posts", "",
		post.Draft{Heading: "New park", Tag: "#city", Article: strings.Repeat("a", 200), Author: "jdoe"}, &p))
	assert.Equal(t, "city", p.Tag)
	assert.Equal(t, "General", p.Category)
	assert.Len(t, p.Description, 120)

	var f feedResponse
	require.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/api/v1/feed", "d1", nil, &f))
	require.Len(t, f.Articles, 3)
	assert.Equal(t, p.ID, f.Articles[0].ID)
	assert.Equal(t, store.OriginUserSubmitted, f.Articles[0].Origin)

	var cats map[string][]string
	require.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/api/v1/categories", "", nil, &cats))
	assert.Equal(t, "Popular", cats["categories"][0])
	assert.Equal(t, post.Categories(), cats["post_categories"])
}

func TestServer_Profile(t *testing.T) {
	e := prepEnv(t)

	var p store.Profile
	require.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/api/v1/profile", "d1", nil, &p))
	assert.Equal(t, store.Profile{ID: "d1", Role: store.RoleMedia}, p)

	var upd struct {
		Profile store.Profile `json:"profile"`
		Updated bool          `json:"updated"`
	}
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPatch, "/api/v1/profile", "d1",
		map[string]string{"username": "jdoe", "role": "visitor"}, &upd))
	assert.True(t, upd.Updated)
	assert.Equal(t, "jdoe", upd.Profile.Username)
	assert.Equal(t, store.RoleVisitor, upd.Profile.Role)

	require.Equal(t, http.StatusOK, e.do(t, http.MethodPatch, "/api/v1/profile", "d1",
		map[string]string{"username": "jdoe"}, &upd))
	assert.False(t, upd.Updated)

	var errResp errorResponse
	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodPatch, "/api/v1/profile", "d1",
		map[string]string{"role": "admin"}, &errResp))
	assert.Contains(t, errResp.Errors, "role")

	var img imageBody
	require.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/api/v1/profile/image", "d1", nil, &img))
	assert.Empty(t, img.URI)
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPut, "/api/v1/profile/image", "d1",
		imageBody{URI: "file:///me.png"}, &img))
	require.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/api/v1/profile/image", "d1", nil, &img))
	assert.Equal(t, "file:///me.png", img.URI)
}

func TestServer_Theme(t *testing.T) {
	e := prepEnv(t)

	var th themeBody
	require.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/api/v1/theme", "d1", nil, &th))
	assert.Equal(t, "light", th.Theme)

	require.Equal(t, http.StatusOK, e.do(t, http.MethodPost, "/api/v1/theme/toggle", "d1", nil, &th))
	assert.Equal(t, "dark", th.Theme)

	require.Equal(t, http.StatusOK, e.do(t, http.MethodPut, "/api/v1/theme", "d1", themeBody{Theme: "light"}, &th))
	require.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/api/v1/theme", "d1", nil, &th))
	assert.Equal(t, "light", th.Theme)

	var errResp errorResponse
	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodPut, "/api/v1/theme", "d1", themeBody{Theme: "blue"}, &errResp))
	assert.Equal(t, "Theme must be either light or dark", errResp.Errors["theme"])
}

func TestServer_ReadArticle(t *testing.T) {
	e := prepEnv(t)

	var errResp errorResponse
	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodGet, "/api/v1/article?url=nope", "", nil, &errResp))
	assert.Equal(t, http.StatusNotImplemented, e.do(t, http.MethodGet, "/api/v1/article?url=https://example.com/a", "", nil, &errResp))
}

func TestServer_Run(t *testing.T) {
	e := prepEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.srv.Run(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestAdminOnly_Disabled(t *testing.T) {
	h := adminOnly("")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("must not be called")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/polls", http.NoBody)
	req.Header.Set("Authorization", "Bearer ")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
