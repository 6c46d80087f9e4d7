// Package botmw provides middlewares for bot handler.
package botmw

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/Semior001/newsreader/pkg/botx"
	"github.com/samber/lo"
	"golang.org/x/exp/slog"
)

// Logger logs every request with the time it took to handle it.
// The arguments of commands are logged only at debug level.
func Logger(lg *slog.Logger) botx.Middleware {
	return func(next botx.Handler) botx.Handler {
		return func(ctx context.Context, req botx.Request) ([]botx.Response, error) {
			verbose := lg.Handler().Enabled(ctx, slog.LevelDebug)

			text := req.Text
			if !verbose {
				text, _, _ = strings.Cut(text, " ")
			}

			start := time.Now()
			res, err := next(ctx, req)

			attrs := []any{
				slog.String("chat_id", req.Chat.ID),
				slog.String("chat_username", req.Chat.Username),
				slog.String("text", text),
				slog.Duration("elapsed", time.Since(start)),
				slog.Any("err", err),
			}

			if verbose {
				lg.DebugCtx(ctx, "request handled", append(attrs, slog.Any("responses", res))...)
				return res, err
			}

			lg.InfoCtx(ctx, "request handled", append(attrs,
				slog.Any("response_chats", lo.Map(res, func(r botx.Response, _ int) string { return r.ChatID })),
			)...)
			return res, err
		}
	}
}

// PanicError is returned in place of a recovered panic.
type PanicError struct {
	Value any
	Stack []byte
}

// Error returns the panic value as a string.
func (e *PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

// Recover turns a panic of the handler into *PanicError.
func Recover(lg *slog.Logger) botx.Middleware {
	return func(next botx.Handler) botx.Handler {
		return func(ctx context.Context, req botx.Request) (resps []botx.Response, err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &PanicError{Value: r, Stack: debug.Stack()}
				}

				if perr, ok := err.(*PanicError); ok {
					lg.ErrorCtx(ctx, "panic recovered",
						slog.Any("panic", perr.Value),
						slog.String("stack", string(perr.Stack)),
					)
				}
			}()

			return next(ctx, req)
		}
	}
}
