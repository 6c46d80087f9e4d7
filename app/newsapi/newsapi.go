// Package newsapi is a client for the newsapi.org search endpoint.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Semior001/newsreader/app/store"
	"github.com/go-pkgz/requester"
	"github.com/go-pkgz/requester/middleware"
	"golang.org/x/exp/slog"
)

// DefaultBaseURL is the address of the public API.
const DefaultBaseURL = "https://newsapi.org/v2"

// SortBy defines the order of results.
type SortBy string

// Sort orders supported by the API.
const (
	SortRelevancy   SortBy = "relevancy"
	SortPopularity  SortBy = "popularity"
	SortPublishedAt SortBy = "publishedAt"
)

// Default query parameters.
const (
	DefaultPageSize = 20
	DefaultSortBy   = SortPublishedAt
)

// Query describes a search request.
type Query struct {
	Query    string
	From     time.Time
	To       time.Time
	PageSize int
	SortBy   SortBy
}

// Error is returned when the API responds with a non-2xx status.
type Error struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// Error returns a human-readable message of the API.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("news api responded with status %d", e.StatusCode)
}

// Client makes requests to the news API.
type Client struct {
	log     *slog.Logger
	rq      *requester.Requester
	baseURL string
}

// NewClient creates new Client.
func NewClient(lg *slog.Logger, cl http.Client, baseURL, apiKey string, mws ...middleware.RoundTripperHandler) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	mws = append(mws, middleware.Header("X-Api-Key", apiKey))

	return &Client{
		log:     lg,
		rq:      requester.New(cl, mws...),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

type article struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string    `json:"author"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	URLToImage  string    `json:"urlToImage"`
	PublishedAt time.Time `json:"publishedAt"`
	Content     string    `json:"content"`
}

// Everything searches articles matching the query.
func (c *Client) Everything(ctx context.Context, q Query) ([]store.Article, error) {
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.SortBy == "" {
		q.SortBy = DefaultSortBy
	}

	params := url.Values{}
	params.Set("q", q.Query)
	params.Set("sortBy", string(q.SortBy))
	params.Set("pageSize", strconv.Itoa(q.PageSize))
	if !q.From.IsZero() {
		params.Set("from", q.From.UTC().Format(time.RFC3339))
	}
	if !q.To.IsZero() {
		params.Set("to", q.To.UTC().Format(time.RFC3339))
	}

	u := c.baseURL + "/everything?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.rq.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.WarnCtx(ctx, "failed to close response body", slog.Any("err", err))
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &Error{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil {
			c.log.DebugCtx(ctx, "failed to decode error response", slog.Any("err", err))
		}
		return nil, apiErr
	}

	var body struct {
		Status       string    `json:"status"`
		TotalResults int       `json:"totalResults"`
		Articles     []article `json:"articles"`
	}

	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	c.log.DebugCtx(ctx, "news fetched",
		slog.String("query", q.Query),
		slog.Int("total_results", body.TotalResults),
		slog.Int("received", len(body.Articles)),
	)

	result := make([]store.Article, 0, len(body.Articles))
	for idx, a := range body.Articles {
		result = append(result, store.Article{
			ID:          "news-" + strconv.Itoa(idx),
			Title:       a.Title,
			Description: a.Description,
			Content:     a.Content,
			Author:      a.Author,
			URL:         a.URL,
			ImageURL:    a.URLToImage,
			PublishedAt: a.PublishedAt,
			SourceName:  a.Source.Name,
			Origin:      store.OriginExternal,
			Category:    q.Query,
		})
	}

	return result, nil
}
