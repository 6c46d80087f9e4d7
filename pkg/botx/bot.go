// Package botx provides interfaces and types to handle bot updates,
// with a chi-like router.
package botx

import (
	"context"
	"sync"

	"github.com/Semior001/newsreader/pkg/logx"
	"golang.org/x/exp/slog"
)

// API defines methods for an API interface to receive and send chat messages.
type API interface {
	Updates() <-chan Request
	SendMessage(ctx context.Context, resp Response) error
}

// Bot dispatches updates of the API to the handler.
type Bot struct {
	h       Handler
	api     API
	workers int
	log     *slog.Logger
}

// Option configures Bot.
type Option func(*Bot)

// WithWorkers sets the number of updates handled at once.
func WithWorkers(workers int) Option {
	return func(b *Bot) {
		if workers > 0 {
			b.workers = workers
		}
	}
}

// WithLogger sets the logger to use.
func WithLogger(lg *slog.Logger) Option { return func(b *Bot) { b.log = lg } }

// NewBot creates a new Bot, handling one update at a time by default.
func NewBot(h Handler, api API, opts ...Option) *Bot {
	b := &Bot{h: h, api: api, workers: 1, log: slog.New(logx.NoOp())}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run handles updates until the context is done or the API closes
// the updates channel. Requests of the same chat are not ordered
// when there are several workers.
func (b *Bot) Run(ctx context.Context) {
	wg := &sync.WaitGroup{}
	wg.Add(b.workers)

	for i := 0; i < b.workers; i++ {
		go func(idx int) {
			defer wg.Done()
			b.work(ctx, idx)
		}(i)
	}

	wg.Wait()
}

func (b *Bot) work(ctx context.Context, idx int) {
	b.log.DebugCtx(ctx, "worker started", slog.Int("worker", idx))
	defer b.log.DebugCtx(ctx, "worker stopped", slog.Int("worker", idx))

	updates := b.api.Updates()
	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-updates:
			if !ok {
				return
			}
			b.handle(ctx, req)
		}
	}
}

func (b *Bot) handle(ctx context.Context, req Request) {
	resps, err := b.h(ctx, req)
	if err != nil {
		b.log.ErrorCtx(ctx, "failed to handle request",
			slog.String("chat_id", req.Chat.ID),
			slog.Any("err", err),
		)
	}

	for _, resp := range resps {
		if err := b.api.SendMessage(ctx, resp); err != nil {
			b.log.WarnCtx(ctx, "failed to send message",
				slog.String("chat_id", resp.ChatID),
				slog.Any("err", err),
			)
		}
	}
}
