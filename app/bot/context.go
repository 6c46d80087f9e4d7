package bot

import (
	"context"

	"github.com/Semior001/newsreader/app/store"
	"github.com/Semior001/newsreader/pkg/botx"
	"github.com/Semior001/newsreader/pkg/logx"
)

type profileKey struct{}

func profileFromContext(ctx context.Context) (store.Profile, bool) {
	p, ok := ctx.Value(profileKey{}).(store.Profile)
	return p, ok
}

func contextWithProfile(ctx context.Context, p store.Profile) context.Context {
	return context.WithValue(ctx, profileKey{}, p)
}

// withDevice marks the context with the chat id, each chat is a device.
func withDevice(next botx.Handler) botx.Handler {
	return func(ctx context.Context, req botx.Request) ([]botx.Response, error) {
		return next(logx.ContextWithDevice(ctx, req.Chat.ID), req)
	}
}
