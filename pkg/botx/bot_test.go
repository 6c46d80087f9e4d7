package botx

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type chanAPI struct {
	updates chan Request
	mu      sync.Mutex
	sent    []Response
}

func (a *chanAPI) Updates() <-chan Request { return a.updates }

func (a *chanAPI) SendMessage(_ context.Context, resp Response) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sent = append(a.sent, resp)
	if resp.Text == "fail" {
		return errors.New("send failed")
	}
	return nil
}

func TestBot_Run(t *testing.T) {
	api := &chanAPI{updates: make(chan Request, 3)}
	api.updates <- Request{Chat: Chat{ID: "1"}, Text: "a"}
	api.updates <- Request{Chat: Chat{ID: "2"}, Text: "fail"}
	api.updates <- Request{Chat: Chat{ID: "3"}, Text: "c"}
	close(api.updates)

	echo := func(_ context.Context, req Request) ([]Response, error) {
		return []Response{{ChatID: req.Chat.ID, Text: req.Text}}, nil
	}

	done := make(chan struct{})
	go func() {
		NewBot(echo, api, WithWorkers(2)).Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("bot did not stop after updates channel was closed")
	}

	texts := make([]string, 0, len(api.sent))
	for _, r := range api.sent {
		texts = append(texts, r.Text)
	}
	sort.Strings(texts)
	assert.Equal(t, []string{"a", "c", "fail"}, texts, "send failure does not stop the bot")
}

func TestBot_RunCanceled(t *testing.T) {
	api := &chanAPI{updates: make(chan Request)}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		NewBot(NotFound, api).Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("bot did not stop after context cancellation")
	}
	assert.Empty(t, api.sent)
}
