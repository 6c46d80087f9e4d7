// Package store contains models and interfaces for application.
package store

import "time"

// Origin describes where an article came from.
type Origin string

// Known article origins.
const (
	OriginExternal      Origin = "external"
	OriginUserSubmitted Origin = "user-submitted"
)

// Article is a single news item, shaped the same regardless of its origin.
// Optional fields are empty when the source does not provide them.
type Article struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Content      string    `json:"content,omitempty"`
	Author       string    `json:"author,omitempty"`
	URL          string    `json:"url,omitempty"`
	ImageURL     string    `json:"url_to_image,omitempty"`
	VideoLink    string    `json:"video_link,omitempty"`
	PublishedAt  time.Time `json:"published_at"`
	SourceName   string    `json:"source_name"`
	Origin       Origin    `json:"origin"`
	Category     string    `json:"category,omitempty"`
	Tag          string    `json:"tag,omitempty"`
	BulletPoints string    `json:"bullet_points,omitempty"`
}

// CommunitySource is the source name of articles made from user posts.
const CommunitySource = "Community"

// Article converts the post to the feed representation.
func (p Post) Article() Article {
	return Article{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Content:     p.Content,
		Author:      p.Author,
		VideoLink:   p.VideoLink,
		PublishedAt: p.CreatedAt,
		SourceName:  CommunitySource,
		Origin:      OriginUserSubmitted,
		Category:    p.Category,
		Tag:         p.Tag,
	}
}
