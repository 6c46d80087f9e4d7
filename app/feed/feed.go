// Package feed builds the news feed of a category out of the external
// news API and the user-submitted posts.
package feed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/Semior001/newsreader/app/newsapi"
	"github.com/Semior001/newsreader/app/store"
	"github.com/Semior001/newsreader/app/ui"
	"github.com/Semior001/newsreader/pkg/logx"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"
)

// ErrFetch is returned when one of the feed sources failed.
var ErrFetch = errors.New("fetch feed")

// Error describes a failed fetch of a category.
type Error struct {
	Category string
	Err      error
}

// Error returns the error message.
func (e *Error) Error() string { return fmt.Sprintf("fetch feed %q: %v", e.Category, e.Err) }

// Unwrap returns the error of the failed source.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is ErrFetch.
func (e *Error) Is(target error) bool { return target == ErrFetch }

//go:generate moq -out mock_news_source.go . NewsSource

// NewsSource searches external news.
type NewsSource interface {
	Everything(ctx context.Context, q newsapi.Query) ([]store.Article, error)
}

//go:generate moq -out mock_post_source.go . PostSource

// PostSource lists user-submitted posts.
type PostSource interface {
	ListPosts(ctx context.Context) (map[string]store.Post, error)
}

// Feed is an ordered list of articles of a category.
type Feed struct {
	Category string
	Articles []store.Article
	// PollIndex is the position in Articles before which the active poll
	// is shown. It changes on every load.
	PollIndex int
}

// Aggregator merges articles from the news API and user posts.
type Aggregator struct {
	news  NewsSource
	posts PostSource
	Options
}

// Options defines options for Aggregator.
type Options struct {
	Logger   *slog.Logger
	PageSize int
	SortBy   newsapi.SortBy
	// Intn returns a pseudo-random number in [0, n).
	Intn func(n int) int
}

// Option defines a function that configures Aggregator.
type Option func(*Options)

// WithLogger sets the logger to use.
func WithLogger(lg *slog.Logger) Option { return func(o *Options) { o.Logger = lg } }

// WithPageSize sets the number of external articles to request.
func WithPageSize(n int) Option { return func(o *Options) { o.PageSize = n } }

// WithSortBy sets the order of external articles.
func WithSortBy(s newsapi.SortBy) Option { return func(o *Options) { o.SortBy = s } }

// WithRand sets the source of the poll position.
func WithRand(intn func(n int) int) Option { return func(o *Options) { o.Intn = intn } }

// NewAggregator makes a new Aggregator.
func NewAggregator(news NewsSource, posts PostSource, opts ...Option) *Aggregator {
	options := Options{
		Logger:   slog.New(logx.NoOp()),
		PageSize: newsapi.DefaultPageSize,
		SortBy:   newsapi.DefaultSortBy,
		Intn:     rand.Intn,
	}

	for _, opt := range opts {
		opt(&options)
	}

	return &Aggregator{news: news, posts: posts, Options: options}
}

// Fetch requests both sources concurrently and merges their results.
// If any of the sources fails, no feed is returned.
func (a *Aggregator) Fetch(ctx context.Context, category string) (Feed, error) {
	var (
		external []store.Article
		posts    map[string]store.Post
	)

	ewg, gctx := errgroup.WithContext(ctx)
	ewg.Go(func() (err error) {
		external, err = a.news.Everything(gctx, newsapi.Query{
			Query:    category,
			PageSize: a.PageSize,
			SortBy:   a.SortBy,
		})
		if err != nil {
			return fmt.Errorf("search news: %w", err)
		}
		return nil
	})
	ewg.Go(func() (err error) {
		if posts, err = a.posts.ListPosts(gctx); err != nil {
			return fmt.Errorf("list posts: %w", err)
		}
		return nil
	})

	if err := ewg.Wait(); err != nil {
		return Feed{}, &Error{Category: category, Err: err}
	}

	articles := Merge(external, posts)

	return Feed{
		Category:  category,
		Articles:  articles,
		PollIndex: a.pollIndex(len(articles)),
	}, nil
}

// Load fetches the feed and puts it into the state cache.
// On failure the state error is set and the cache stays as it was.
// If ctx is done by the time sources respond, the result is discarded.
func (a *Aggregator) Load(ctx context.Context, st *ui.State, category string) (Feed, error) {
	st.ShowLoader()
	defer st.HideLoader()

	f, err := a.Fetch(ctx, category)

	if ctxErr := ctx.Err(); ctxErr != nil {
		a.Logger.DebugCtx(ctx, "feed load discarded", slog.String("category", category))
		return Feed{}, fmt.Errorf("load %q: %w", category, ctxErr)
	}

	if err != nil {
		a.Logger.WarnCtx(ctx, "failed to load feed",
			slog.String("category", category),
			slog.Any("err", err),
		)
		st.SetError(errorMessage(err))
		return Feed{}, err
	}

	st.SetNewsForCategory(category, f.Articles)
	st.ClearError()

	a.Logger.DebugCtx(ctx, "feed loaded",
		slog.String("category", category),
		slog.Int("articles", len(f.Articles)),
		slog.Int("poll_index", f.PollIndex),
	)

	return f, nil
}

// Merge concatenates external articles and posts (ordered by their ids)
// and sorts them by publication time, newest first. Items with equal
// time keep their concatenation order.
func Merge(external []store.Article, posts map[string]store.Post) []store.Article {
	ids := lo.Keys(posts)
	sort.Strings(ids)

	result := make([]store.Article, 0, len(external)+len(posts))
	result = append(result, external...)
	for _, id := range ids {
		a := posts[id].Article()
		a.ID = id
		result = append(result, a)
	}

	slices.SortStableFunc(result, func(a, b store.Article) bool {
		return a.PublishedAt.After(b.PublishedAt)
	})

	return result
}

// pollIndex returns a random index in [1, n-1], or 1 for feeds shorter than 2.
func (a *Aggregator) pollIndex(n int) int {
	if n < 2 {
		return 1
	}
	return 1 + a.Intn(n-1)
}

// errorMessage unwraps the feed error to the message of the failed source.
func errorMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
