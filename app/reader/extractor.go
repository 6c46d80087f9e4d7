package reader

import (
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/Semior001/newsreader/app/store"
	"github.com/go-shiori/go-readability"
)

var spaces = regexp.MustCompile(`\s+`)

// Extractor extracts the readable part of an HTML page.
type Extractor struct{}

// Extract parses the page and returns its main article.
func (e Extractor) Extract(rd io.Reader, pageURL *url.URL) (store.Article, error) {
	doc, err := readability.FromReader(rd, pageURL)
	if err != nil {
		return store.Article{}, fmt.Errorf("parse html: %w", err)
	}

	res := store.Article{
		Title:       strings.TrimSpace(doc.Title),
		Description: sanitize(doc.Excerpt),
		Content:     sanitize(doc.TextContent),
		Author:      strings.TrimSpace(doc.Byline),
		ImageURL:    doc.Image,
		SourceName:  doc.SiteName,
		Origin:      store.OriginExternal,
	}
	if pageURL != nil {
		res.URL = pageURL.String()
	}

	return res, nil
}

func sanitize(s string) string {
	// nbsp
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}
