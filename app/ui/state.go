// Package ui holds the cross-screen state of a single device: selected
// category and article, the busy flag, the last feed error and the news
// fetched per category.
package ui

import (
	"sync"

	"github.com/Semior001/newsreader/app/store"
	cache "github.com/go-pkgz/expirable-cache/v2"
)

// DefaultCategory is selected on a fresh state.
const DefaultCategory = "Popular"

// Field names a piece of the state, passed to observers.
type Field int

// Observable fields.
const (
	FieldCategory Field = iota
	FieldSelectedArticle
	FieldLoading
	FieldError
	FieldNews
)

// State is a container of the UI state. All mutations go through its
// setters, observers are notified synchronously after every change.
// Zero value is not usable, use NewState.
type State struct {
	mu       sync.RWMutex
	category string
	selected *store.Article
	loading  bool
	err      string
	news     cache.Cache[string, []store.Article]

	subsMu sync.Mutex
	subs   map[int]func(Field)
	nextID int
}

// NewState makes a state with the default category and an empty cache.
func NewState() *State {
	return &State{
		category: DefaultCategory,
		// no TTL and no key limit: entries live until replaced
		news: cache.NewCache[string, []store.Article](),
		subs: map[int]func(Field){},
	}
}

// Subscribe registers an observer and returns a function to remove it.
func (s *State) Subscribe(fn func(Field)) (cancel func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *State) notify(f Field) {
	s.subsMu.Lock()
	subs := make([]func(Field), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range subs {
		fn(f)
	}
}

// SetCategory replaces the category, the value is not validated.
func (s *State) SetCategory(v string) {
	s.mu.Lock()
	s.category = v
	s.mu.Unlock()
	s.notify(FieldCategory)
}

// ClearCategory sets the category to an empty string.
// Empty category does not mean DefaultCategory.
func (s *State) ClearCategory() { s.SetCategory("") }

// Category returns the current category.
func (s *State) Category() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.category
}

// SetSelectedArticle sets the article being read, last writer wins.
func (s *State) SetSelectedArticle(a store.Article) {
	s.mu.Lock()
	s.selected = &a
	s.mu.Unlock()
	s.notify(FieldSelectedArticle)
}

// ClearSelectedArticle drops the article being read.
func (s *State) ClearSelectedArticle() {
	s.mu.Lock()
	s.selected = nil
	s.mu.Unlock()
	s.notify(FieldSelectedArticle)
}

// SelectedArticle returns the article being read, if any.
func (s *State) SelectedArticle() (store.Article, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return store.Article{}, false
	}
	return *s.selected, true
}

// ShowLoader sets the busy flag.
func (s *State) ShowLoader() { s.setLoading(true) }

// HideLoader clears the busy flag. There is no reference counting:
// overlapping loads clear the flag as soon as the first of them ends.
func (s *State) HideLoader() { s.setLoading(false) }

func (s *State) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
	s.notify(FieldLoading)
}

// IsLoading returns the busy flag.
func (s *State) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// SetError records the message of the last failed load.
func (s *State) SetError(msg string) {
	s.mu.Lock()
	s.err = msg
	s.mu.Unlock()
	s.notify(FieldError)
}

// ClearError drops the error message.
func (s *State) ClearError() { s.SetError("") }

// Error returns the message of the last failed load, empty if none.
func (s *State) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// SetNewsForCategory replaces the cached articles of the category
// with a snapshot of the given list.
func (s *State) SetNewsForCategory(category string, articles []store.Article) {
	snapshot := make([]store.Article, len(articles))
	copy(snapshot, articles)

	s.news.Set(category, snapshot, 0)
	s.notify(FieldNews)
}

// NewsForCategory returns the cached articles of the category.
// A category that was never fetched gives an empty list.
func (s *State) NewsForCategory(category string) []store.Article {
	articles, ok := s.news.Get(category)
	if !ok {
		return []store.Article{}
	}

	res := make([]store.Article, len(articles))
	copy(res, articles)
	return res
}

// CachedCategories returns categories present in the cache.
func (s *State) CachedCategories() []string { return s.news.Keys() }

// CacheStat returns hit and miss counters of the news cache.
func (s *State) CacheStat() cache.Stats { return s.news.Stat() }
