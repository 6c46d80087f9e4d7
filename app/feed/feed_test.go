package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Semior001/newsreader/app/newsapi"
	"github.com/Semior001/newsreader/app/store"
	"github.com/Semior001/newsreader/app/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func ids(articles []store.Article) []string {
	res := make([]string, 0, len(articles))
	for _, a := range articles {
		res = append(res, a.ID)
	}
	return res
}

func TestMerge(t *testing.T) {
	t.Run("descending by time", func(t *testing.T) {
		external := []store.Article{
			{ID: "1", PublishedAt: time.Unix(100, 0)},
			{ID: "2", PublishedAt: time.Unix(300, 0)},
		}
		posts := map[string]store.Post{"3": {Title: "post", CreatedAt: time.Unix(200, 0)}}

		merged := Merge(external, posts)
		assert.Equal(t, []string{"2", "3", "1"}, ids(merged))
		assert.Equal(t, store.OriginUserSubmitted, merged[1].Origin)
		assert.Equal(t, "post", merged[1].Title)
	})

	t.Run("equal timestamps keep concatenation order", func(t *testing.T) {
		ts := time.Unix(500, 0)
		external := []store.Article{{ID: "e1", PublishedAt: ts}, {ID: "e2", PublishedAt: ts}}
		posts := map[string]store.Post{
			"p2": {CreatedAt: ts},
			"p1": {CreatedAt: ts},
		}

		for i := 0; i < 10; i++ {
			assert.Equal(t, []string{"e1", "e2", "p1", "p2"}, ids(Merge(external, posts)))
		}
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, Merge(nil, nil))
	})
}

func TestAggregator_Fetch(t *testing.T) {
	news := &NewsSourceMock{EverythingFunc: func(ctx context.Context, q newsapi.Query) ([]store.Article, error) {
		return []store.Article{
			{ID: "news-0", PublishedAt: time.Unix(100, 0)},
			{ID: "news-1", PublishedAt: time.Unix(300, 0)},
		}, nil
	}}
	posts := &PostSourceMock{ListPostsFunc: func(ctx context.Context) (map[string]store.Post, error) {
		return map[string]store.Post{"abc": {CreatedAt: time.Unix(200, 0)}}, nil
	}}

	var intnArgs []int
	agg := NewAggregator(news, posts,
		WithLogger(slog.Default()),
		WithPageSize(50),
		WithSortBy(newsapi.SortPopularity),
		WithRand(func(n int) int { intnArgs = append(intnArgs, n); return n - 1 }),
	)

	f, err := agg.Fetch(context.Background(), "Bitcoin")
	require.NoError(t, err)

	assert.Equal(t, "Bitcoin", f.Category)
	assert.Equal(t, []string{"news-1", "abc", "news-0"}, ids(f.Articles))
	assert.Equal(t, 2, f.PollIndex)
	assert.Equal(t, []int{2}, intnArgs)

	require.Len(t, news.EverythingCalls(), 1)
	assert.Equal(t, newsapi.Query{Query: "Bitcoin", PageSize: 50, SortBy: newsapi.SortPopularity},
		news.EverythingCalls()[0].Q)
	assert.Len(t, posts.ListPostsCalls(), 1)
}

func TestAggregator_PollIndex(t *testing.T) {
	agg := NewAggregator(nil, nil, WithRand(func(n int) int { return 0 }))
	assert.Equal(t, 1, agg.pollIndex(0))
	assert.Equal(t, 1, agg.pollIndex(1))
	assert.Equal(t, 1, agg.pollIndex(2))
	assert.Equal(t, 1, agg.pollIndex(10))

	agg = NewAggregator(nil, nil)
	for i := 0; i < 100; i++ {
		idx := agg.pollIndex(5)
		assert.GreaterOrEqual(t, idx, 1)
		assert.LessOrEqual(t, idx, 4)
	}
}

func TestAggregator_Load(t *testing.T) {
	news := &NewsSourceMock{EverythingFunc: func(ctx context.Context, q newsapi.Query) ([]store.Article, error) {
		return []store.Article{{ID: "news-0", PublishedAt: time.Unix(100, 0)}}, nil
	}}
	posts := &PostSourceMock{ListPostsFunc: func(ctx context.Context) (map[string]store.Post, error) {
		return nil, nil
	}}

	st := ui.NewState()
	st.SetError("previous failure")

	var loading []bool
	st.Subscribe(func(f ui.Field) {
		if f == ui.FieldLoading {
			loading = append(loading, st.IsLoading())
		}
	})

	f, err := NewAggregator(news, posts).Load(context.Background(), st, "Sports")
	require.NoError(t, err)

	assert.Equal(t, f.Articles, st.NewsForCategory("Sports"))
	assert.Empty(t, st.Error())
	assert.Equal(t, []bool{true, false}, loading)
}

func TestAggregator_LoadError(t *testing.T) {
	cached := []store.Article{{ID: "old"}}

	tbl := []struct {
		name    string
		newsErr error
		postErr error
		wantMsg string
	}{
		{
			name:    "news api failed",
			newsErr: &newsapi.Error{StatusCode: 429, Message: "You have made too many requests."},
			wantMsg: "You have made too many requests.",
		},
		{
			name:    "posts failed",
			postErr: errors.New("database is unavailable"),
			wantMsg: "database is unavailable",
		},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			news := &NewsSourceMock{EverythingFunc: func(ctx context.Context, q newsapi.Query) ([]store.Article, error) {
				return []store.Article{{ID: "new"}}, tt.newsErr
			}}
			posts := &PostSourceMock{ListPostsFunc: func(ctx context.Context) (map[string]store.Post, error) {
				return map[string]store.Post{"p": {}}, tt.postErr
			}}

			st := ui.NewState()
			st.SetNewsForCategory("Sports", cached)

			_, err := NewAggregator(news, posts).Load(context.Background(), st, "Sports")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrFetch)

			var ferr *Error
			require.ErrorAs(t, err, &ferr)
			assert.Equal(t, "Sports", ferr.Category)

			assert.Equal(t, cached, st.NewsForCategory("Sports"))
			assert.Equal(t, tt.wantMsg, st.Error())
			assert.False(t, st.IsLoading())
		})
	}
}

func TestAggregator_LoadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	news := &NewsSourceMock{EverythingFunc: func(context.Context, newsapi.Query) ([]store.Article, error) {
		// the screen went away while the request was in flight
		cancel()
		return []store.Article{{ID: "late"}}, nil
	}}
	posts := &PostSourceMock{ListPostsFunc: func(context.Context) (map[string]store.Post, error) {
		return nil, nil
	}}

	st := ui.NewState()
	st.SetNewsForCategory("Sports", []store.Article{{ID: "old"}})

	_, err := NewAggregator(news, posts).Load(ctx, st, "Sports")
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, []store.Article{{ID: "old"}}, st.NewsForCategory("Sports"))
	assert.Empty(t, st.Error())
	assert.False(t, st.IsLoading())
}

func TestAggregator_LastCompletedLoadWins(t *testing.T) {
	token := make(chan struct{}, 1)
	token <- struct{}{}
	started, release := make(chan struct{}), make(chan struct{})

	news := &NewsSourceMock{EverythingFunc: func(context.Context, newsapi.Query) ([]store.Article, error) {
		select {
		case <-token:
			close(started)
			<-release
			return []store.Article{{ID: "first"}}, nil
		default:
			return []store.Article{{ID: "second"}}, nil
		}
	}}
	posts := &PostSourceMock{ListPostsFunc: func(context.Context) (map[string]store.Post, error) {
		return nil, nil
	}}

	st := ui.NewState()
	agg := NewAggregator(news, posts)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := agg.Load(context.Background(), st, "Sports")
		assert.NoError(t, err)
	}()

	<-started
	_, err := agg.Load(context.Background(), st, "Sports")
	require.NoError(t, err)
	assert.Equal(t, "second", st.NewsForCategory("Sports")[0].ID)

	close(release)
	<-done

	// the load triggered first completes last and overwrites the cache
	assert.Equal(t, "first", st.NewsForCategory("Sports")[0].ID)
}
