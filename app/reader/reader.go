// Package reader downloads full articles and summarizes them.
package reader

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Semior001/newsreader/app/store"
	"golang.org/x/exp/slog"
)

//go:generate moq -out mock_summarizer.go . Summarizer

// ErrNoURL is returned on expanding an external article without a link.
var ErrNoURL = errors.New("article has no url")

// MinSummaryWords is the length of a text below which it is shown as is,
// without bullet points.
const MinSummaryWords = 60

// Summarizer makes bullet points of an article.
type Summarizer interface {
	BulletPoints(ctx context.Context, article store.Article) (string, error)
}

// Service reads articles from the web.
type Service struct {
	log        *slog.Logger
	cl         *http.Client
	summarizer Summarizer
	extractor  Extractor
}

// NewService creates new service. Summarizer is optional, without it
// articles are returned without bullet points.
func NewService(lg *slog.Logger, cl *http.Client, summarizer Summarizer) *Service {
	return &Service{log: lg, cl: cl, summarizer: summarizer}
}

// Read downloads the page and returns the article it contains.
func (s *Service) Read(ctx context.Context, u string) (store.Article, error) {
	s.log.DebugCtx(ctx, "reading article", slog.String("url", u))

	pageURL, err := url.Parse(u)
	if err != nil || !pageURL.IsAbs() {
		return store.Article{}, fmt.Errorf("invalid url %q", u)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return store.Article{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.cl.Do(req)
	if err != nil {
		return store.Article{}, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			s.log.WarnCtx(ctx, "failed to close response body", slog.Any("err", err))
		}
	}()

	ok := resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices
	if !ok {
		return store.Article{}, fmt.Errorf("bad status code: %d", resp.StatusCode)
	}

	article, err := s.extractor.Extract(resp.Body, pageURL)
	if err != nil {
		return store.Article{}, fmt.Errorf("extract article: %w", err)
	}

	article.BulletPoints = s.bulletPoints(ctx, article)
	return article, nil
}

// Expandable reports whether Expand can add anything to the article.
func (s *Service) Expandable(article store.Article) bool {
	if article.URL != "" {
		return true
	}
	return article.Origin == store.OriginUserSubmitted && s.summarizer != nil && long(article.Content)
}

// Expand replaces the truncated content of a feed article with the full
// text of its page. Metadata from the feed wins over the extracted one.
// Community posts have no page, their own text is summarized.
func (s *Service) Expand(ctx context.Context, article store.Article) (store.Article, error) {
	if article.URL == "" {
		if article.Origin != store.OriginUserSubmitted {
			return article, ErrNoURL
		}
		article.BulletPoints = s.bulletPoints(ctx, article)
		return article, nil
	}

	full, err := s.Read(ctx, article.URL)
	if err != nil {
		return article, err
	}

	if len(full.Content) > len(article.Content) {
		article.Content = full.Content
	}
	if article.Title == "" {
		article.Title = full.Title
	}
	if article.Author == "" {
		article.Author = full.Author
	}
	if article.ImageURL == "" {
		article.ImageURL = full.ImageURL
	}
	if article.Description == "" {
		article.Description = full.Description
	}
	article.BulletPoints = full.BulletPoints

	return article, nil
}

func (s *Service) bulletPoints(ctx context.Context, article store.Article) string {
	if s.summarizer == nil || !long(article.Content) {
		return ""
	}

	bp, err := s.summarizer.BulletPoints(ctx, article)
	if err != nil {
		s.log.WarnCtx(ctx, "failed to make bullet points",
			slog.String("url", article.URL),
			slog.Any("err", err))
		return ""
	}

	return bp
}

func long(text string) bool { return len(strings.Fields(text)) >= MinSummaryWords }
