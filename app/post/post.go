// Package post accepts news articles written by users.
package post

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Semior001/newsreader/app/store"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

//go:generate moq -out mock_store.go -pkg post ../store PostStore

// DefaultCategory is used when the draft has no category.
const DefaultCategory = "General"

// DescriptionLen is the length of the description cut from the article text.
const DescriptionLen = 120

var categories = []string{
	"General",
	"Technology",
	"Health",
	"Business",
	"Sports",
	"Entertainment",
	"Education",
}

// Categories returns categories a post may be filed under.
func Categories() []string {
	res := make([]string, len(categories))
	copy(res, categories)
	return res
}

// Draft is a post as entered by the user.
type Draft struct {
	Heading   string `json:"heading"`
	Tag       string `json:"tag"`
	Category  string `json:"category"`
	Article   string `json:"article"`
	VideoLink string `json:"video_link"`
	Author    string `json:"author"`
}

// Validate returns store.ValidationError with messages per field.
func (d Draft) Validate() error {
	errs := store.ValidationError{}

	if strings.TrimSpace(d.Heading) == "" {
		errs["heading"] = "Heading is required"
	}
	if strings.TrimSpace(d.Tag) == "" {
		errs["tag"] = "Tag is required"
	}
	if strings.TrimSpace(d.Article) == "" {
		errs["article"] = "Article is required"
	}
	if d.VideoLink != "" {
		if u, err := url.Parse(d.VideoLink); err != nil || !u.IsAbs() || u.Host == "" {
			errs["video_link"] = "Video link must be an absolute URL"
		}
	}

	return errs.OrNil()
}

// Service stores posts.
type Service struct {
	log   *slog.Logger
	posts store.PostStore
	now   func() time.Time
}

// NewService makes a new Service.
func NewService(lg *slog.Logger, posts store.PostStore) *Service {
	return &Service{log: lg, posts: posts, now: time.Now}
}

// Submit validates the draft and stores it as a new post.
func (s *Service) Submit(ctx context.Context, d Draft) (store.Post, error) {
	if err := d.Validate(); err != nil {
		return store.Post{}, err
	}

	category := strings.TrimSpace(d.Category)
	if category == "" {
		category = DefaultCategory
	}

	p := store.Post{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(d.Heading),
		Author:      d.Author,
		Tag:         strings.ReplaceAll(strings.TrimSpace(d.Tag), "#", ""),
		Category:    category,
		Description: cut(d.Article, DescriptionLen),
		Content:     d.Article,
		VideoLink:   d.VideoLink,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.posts.PutPost(ctx, p); err != nil {
		return store.Post{}, fmt.Errorf("put post: %w", err)
	}

	s.log.InfoCtx(ctx, "post submitted",
		slog.String("post_id", p.ID),
		slog.String("author", p.Author),
		slog.String("category", p.Category),
	)

	return p, nil
}

func cut(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
