package botmw

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/Semior001/newsreader/pkg/botx"
)

// ErrTimeout is returned by Timeout middleware when handler timed out.
var ErrTimeout = errors.New("timed out")

// Timeout gives up on the handler after the duration, the handler
// context is canceled at the same moment. Panics of the handler are
// returned as *PanicError, as the handler runs in its own goroutine.
func Timeout(dur time.Duration) botx.Middleware {
	return func(next botx.Handler) botx.Handler {
		if dur <= 0 {
			return next
		}

		return func(ctx context.Context, req botx.Request) ([]botx.Response, error) {
			ctx, cancel := context.WithTimeout(ctx, dur)
			defer cancel()

			type result struct {
				resps []botx.Response
				err   error
			}

			// buffered, the handler may finish after we gave up on it
			done := make(chan result, 1)

			go func() {
				var res result
				defer func() {
					if r := recover(); r != nil {
						res = result{err: &PanicError{Value: r, Stack: debug.Stack()}}
					}
					done <- res
				}()

				res.resps, res.err = next(ctx, req)
			}()

			select {
			case res := <-done:
				return res.resps, res.err
			case <-ctx.Done():
				if errors.Is(ctx.Err(), context.DeadlineExceeded) {
					return nil, ErrTimeout
				}
				return nil, ctx.Err()
			}
		}
	}
}
