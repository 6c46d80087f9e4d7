package ui

import (
	"sync"
	"testing"
	"time"

	"github.com/Semior001/newsreader/app/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_Category(t *testing.T) {
	s := NewState()
	assert.Equal(t, "Popular", s.Category())

	for _, c := range []string{"Sports", "#FridayFeeling", "", "Tech"} {
		s.SetCategory(c)
		assert.Equal(t, c, s.Category())
	}

	s.ClearCategory()
	assert.Equal(t, "", s.Category(), "cleared category must not fall back to default")
}

func TestState_SelectedArticle(t *testing.T) {
	s := NewState()

	_, ok := s.SelectedArticle()
	assert.False(t, ok)

	s.SetSelectedArticle(store.Article{ID: "1", Title: "first"})
	s.SetSelectedArticle(store.Article{ID: "2", Title: "second"})

	a, ok := s.SelectedArticle()
	require.True(t, ok)
	assert.Equal(t, "2", a.ID)

	s.ClearSelectedArticle()
	_, ok = s.SelectedArticle()
	assert.False(t, ok)
}

func TestState_Loader(t *testing.T) {
	s := NewState()
	assert.False(t, s.IsLoading())

	// two overlapping loads, the first to finish clears the flag
	s.ShowLoader()
	s.ShowLoader()
	s.HideLoader()
	assert.False(t, s.IsLoading())

	s.ShowLoader()
	assert.True(t, s.IsLoading())
}

func TestState_Error(t *testing.T) {
	s := NewState()
	assert.Empty(t, s.Error())

	s.SetError("network is down")
	assert.Equal(t, "network is down", s.Error())

	s.ClearError()
	assert.Empty(t, s.Error())
}

func TestState_News(t *testing.T) {
	s := NewState()

	got := s.NewsForCategory("Sports")
	assert.NotNil(t, got)
	assert.Empty(t, got)

	list := []store.Article{
		{ID: "1", Title: "a", PublishedAt: time.Unix(100, 0)},
		{ID: "2", Title: "b", PublishedAt: time.Unix(200, 0)},
	}
	s.SetNewsForCategory("Sports", list)
	assert.Equal(t, list, s.NewsForCategory("Sports"))

	// stored list is a snapshot
	list[0].Title = "mutated"
	assert.Equal(t, "a", s.NewsForCategory("Sports")[0].Title)

	returned := s.NewsForCategory("Sports")
	returned[1].Title = "mutated"
	assert.Equal(t, "b", s.NewsForCategory("Sports")[1].Title)

	// a new write replaces, never merges
	s.SetNewsForCategory("Sports", []store.Article{{ID: "3"}})
	assert.Equal(t, []store.Article{{ID: "3"}}, s.NewsForCategory("Sports"))

	s.SetNewsForCategory("Tech", nil)
	assert.Empty(t, s.NewsForCategory("Tech"))
	assert.ElementsMatch(t, []string{"Sports", "Tech"}, s.CachedCategories())

	stat := s.CacheStat()
	assert.Equal(t, 1, stat.Misses)
	assert.Positive(t, stat.Hits)
}

func TestState_Subscribe(t *testing.T) {
	s := NewState()

	var got []Field
	cancel := s.Subscribe(func(f Field) { got = append(got, f) })

	s.SetCategory("Sports")
	s.ShowLoader()
	s.SetNewsForCategory("Sports", nil)
	s.SetSelectedArticle(store.Article{ID: "1"})
	s.SetError("oops")
	s.HideLoader()

	assert.Equal(t, []Field{FieldCategory, FieldLoading, FieldNews, FieldSelectedArticle, FieldError, FieldLoading}, got)

	cancel()
	s.SetCategory("Tech")
	assert.Len(t, got, 6)
}

func TestState_ConcurrentAccess(t *testing.T) {
	s := NewState()
	wg := &sync.WaitGroup{}

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.SetCategory("c")
			s.ShowLoader()
			_ = s.NewsForCategory("c")
			s.SetNewsForCategory("c", []store.Article{{ID: "1"}})
			s.HideLoader()
			_ = s.Category()
		}()
	}

	wg.Wait()
	assert.Equal(t, "c", s.Category())
	assert.False(t, s.IsLoading())
}
