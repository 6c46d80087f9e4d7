package botx

import "context"

// Handler handles requests.
type Handler func(ctx context.Context, req Request) ([]Response, error)

// Middleware wraps a handler.
type Middleware func(Handler) Handler

// With returns a new handler with middleware applied.
func (h Handler) With(mvs ...Middleware) Handler {
	base := h
	for i := len(mvs) - 1; i >= 0; i-- {
		base = mvs[i](base)
	}
	return base
}

// Response is a response from handler.
type Response struct {
	ReplyToMessageID string
	ChatID           string
	Text             string
	// Buttons are shown to the user as a one-time keyboard,
	// one button per row.
	Buttons []string
}

// Request is a request for handler.
type Request struct {
	MessageID string
	Chat      Chat
	Text      string
}

// Chat contains chat information.
type Chat struct {
	ID       string
	Username string
}

// NotFound is a default handler for not found commands.
func NotFound(_ context.Context, req Request) ([]Response, error) {
	return []Response{{
		ChatID: req.Chat.ID,
		Text:   "command not found",
	}}, nil
}
