package device

import (
	"context"
	"testing"
	"time"

	"github.com/Semior001/newsreader/app/store"
	"github.com/Semior001/newsreader/pkg/logx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func prepBolt(t *testing.T) *store.Bolt {
	t.Helper()
	b, err := store.NewBolt(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, b.Close()) })
	return b
}

func TestRegistry_Get(t *testing.T) {
	b := prepBolt(t)
	r := NewRegistry(slog.New(logx.NoOp()), b, b, Options{})

	d1 := r.Get("a")
	assert.Same(t, d1, r.Get("a"))
	assert.Equal(t, "a", d1.ID)

	d2 := r.Get("b")
	assert.NotSame(t, d1, d2)
	assert.NotSame(t, d1.State, d2.State, "devices do not share state")

	d1.State.SetCategory("Sports")
	assert.Equal(t, "Sports", r.Get("a").State.Category())
	assert.Equal(t, "Popular", d2.State.Category())

	assert.ElementsMatch(t, []string{"a", "b"}, r.Devices())
}

func TestRegistry_Evicts(t *testing.T) {
	b := prepBolt(t)
	r := NewRegistry(slog.New(logx.NoOp()), b, b, Options{MaxDevices: 2})

	a := r.Get("a")
	r.Get("b")
	r.Get("a") // a is now the most recently used
	r.Get("c")

	_, ok := r.Peek("b")
	assert.False(t, ok, "least recently used device is dropped")

	got, ok := r.Peek("a")
	require.True(t, ok)
	assert.Same(t, a, got)

	assert.Equal(t, 1, r.Stat().Evicted)
}

func TestRegistry_TTL(t *testing.T) {
	b := prepBolt(t)
	r := NewRegistry(slog.New(logx.NoOp()), b, b, Options{TTL: 50 * time.Millisecond})

	a := r.Get("a")
	time.Sleep(100 * time.Millisecond)
	assert.NotSame(t, a, r.Get("a"), "expired session is recreated")
}

func TestRegistry_TallyWired(t *testing.T) {
	b := prepBolt(t)
	ctx := context.Background()
	require.NoError(t, b.CreatePoll(ctx, store.Poll{ID: "p1", Question: "q?", Options: map[string]int{"A": 0, "B": 0}}))

	r := NewRegistry(slog.New(logx.NoOp()), b, b, Options{})
	d := r.Get("dev")

	_, ok, err := d.Tally.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = d.Tally.Vote(ctx, "p1", "B")
	require.NoError(t, err)

	voted, err := r.Get("dev").Tally.Voted(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, voted)

	voted, err = r.Get("other").Tally.Voted(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, voted)
}

func TestRegistry_NewsStat(t *testing.T) {
	b := prepBolt(t)
	r := NewRegistry(slog.New(logx.NoOp()), b, b, Options{})

	r.Get("a").State.SetNewsForCategory("Popular", []store.Article{{Title: "t"}})
	assert.Len(t, r.Get("a").State.NewsForCategory("Popular"), 1)
	assert.Empty(t, r.Get("b").State.NewsForCategory("Popular"))

	st := r.NewsStat()
	assert.Equal(t, 1, st.Added)
	assert.Equal(t, 1, st.Hits)
	assert.Equal(t, 1, st.Misses)
}
