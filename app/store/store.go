// Package store contains entities and services to process and contain them.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrNotFound is an error that is returned when the requested entity is not found.
var ErrNotFound = errors.New("not found")

// Interface defines methods for store
type Interface interface {
	PostStore
	PollStore
	ProfileStore
	KV
}

// PostStore keeps user-submitted posts.
type PostStore interface {
	PutPost(ctx context.Context, p Post) error
	// ListPosts returns all posts keyed by their id.
	ListPosts(ctx context.Context) (map[string]Post, error)
}

// PollStore keeps polls and their vote counts.
type PollStore interface {
	CreatePoll(ctx context.Context, p Poll) error
	// LatestPoll returns the most recently created poll or ErrNotFound.
	LatestPoll(ctx context.Context) (Poll, error)
	// IncrementVote atomically adds one vote to the option and returns
	// the new count.
	IncrementVote(ctx context.Context, pollID, option string) (int, error)
}

// ProfileStore keeps user profiles.
type ProfileStore interface {
	PutProfile(ctx context.Context, p Profile) error
	GetProfile(ctx context.Context, id string) (Profile, error)
	ListProfiles(ctx context.Context) ([]Profile, error)
	DeleteProfile(ctx context.Context, id string) error
}

// KV is a device-local key-value storage.
type KV interface {
	// GetValue returns ErrNotFound if the key is not set.
	GetValue(ctx context.Context, key string) (string, error)
	SetValue(ctx context.Context, key, value string) error
}

// ErrUnknownOption is returned when voting for an option that the poll does not have.
var ErrUnknownOption = errors.New("unknown option")

// Post is a news item submitted by a user.
type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Tag         string    `json:"tag"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	VideoLink   string    `json:"video_link,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Poll is a multiple-choice question with vote counts per option.
type Poll struct {
	ID        string         `json:"id"`
	Question  string         `json:"question"`
	Options   map[string]int `json:"options"`
	CreatedAt time.Time      `json:"created_at"`
}

// Total returns the sum of all votes.
func (p Poll) Total() int {
	total := 0
	for _, cnt := range p.Options {
		total += cnt
	}
	return total
}

// OptionKeys returns option texts in lexical order.
func (p Poll) OptionKeys() []string {
	keys := make([]string, 0, len(p.Options))
	for k := range p.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Profile roles.
const (
	RoleMedia   = "media"
	RoleVisitor = "visitor"
)

// Profile is a struct that contains the user's data.
type Profile struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Email      string `json:"email,omitempty"`
	Role       string `json:"role"`
	Authorized bool   `json:"authorized"`
	Subscribed bool   `json:"subscribed"`
}

// ValidationError maps field names to messages describing what is wrong with them.
type ValidationError map[string]string

// Error implements error.
func (v ValidationError) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f, v[f]))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// OrNil returns nil if there are no field errors.
func (v ValidationError) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}
