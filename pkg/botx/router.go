package botx

import (
	"context"
	"strings"
)

// Router is a multiplexer for handlers, keyed by command.
type Router struct {
	notFound    Handler
	handlers    map[string]Handler
	middlewares []Middleware
}

// NewRouter makes an empty Router with NotFound as a fallback.
func NewRouter() *Router {
	return &Router{
		handlers: make(map[string]Handler),
		notFound: NotFound,
	}
}

// Add registers a handler for the command.
func (r *Router) Add(cmd string, h Handler) { r.handlers[cmd] = h }

// Use applies middleware to all handlers.
func (r *Router) Use(mvs ...Middleware) *Router {
	r.middlewares = append(r.middlewares, mvs...)
	return r
}

// With returns a copy of the router with middleware applied.
func (r *Router) With(mvs ...Middleware) *Router {
	cp := &Router{
		notFound:    r.notFound,
		handlers:    make(map[string]Handler, len(r.handlers)),
		middlewares: append(make([]Middleware, 0, len(r.middlewares)+len(mvs)), r.middlewares...),
	}
	for cmd, h := range r.handlers {
		cp.handlers[cmd] = h
	}
	return cp.Use(mvs...)
}

// Group registers handlers, wrapped with the middlewares set
// inside of f only.
func (r *Router) Group(f func(rtr *Router)) {
	nested := NewRouter()
	f(nested)

	for cmd, h := range nested.handlers {
		r.Add(cmd, chain(h, nested.middlewares))
	}
}

// NotFound sets a handler for the text that matches no command.
func (r *Router) NotFound(h Handler) { r.notFound = h }

// Handle routes the request.
// Commands addressed to a bot in group chats ("/poll@some_bot") are
// routed as if there was no mention, and the mention is dropped from
// the request text.
func (r *Router) Handle(ctx context.Context, req Request) ([]Response, error) {
	if req.Text == "" {
		return nil, nil
	}

	req.Text = stripMention(req.Text)
	return chain(r.match(req.Text), r.middlewares)(ctx, req)
}

func (r *Router) match(text string) Handler {
	cmd, _, _ := strings.Cut(text, " ")
	if h, ok := r.handlers[cmd]; ok {
		return h
	}

	// the longest matching prefix wins
	var h Handler
	matched := ""
	for prefix, candidate := range r.handlers {
		if prefix == "" || len(prefix) <= len(matched) {
			continue
		}
		if strings.HasPrefix(text, prefix) {
			h, matched = candidate, prefix
		}
	}

	if h == nil {
		return r.notFound
	}
	return h
}

func chain(h Handler, mws []Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func stripMention(text string) string {
	if !strings.HasPrefix(text, "/") {
		return text
	}

	cmd, rest, found := strings.Cut(text, " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	if !found {
		return cmd
	}
	return cmd + " " + rest
}
