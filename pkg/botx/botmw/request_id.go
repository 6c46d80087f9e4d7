package botmw

import (
	"context"
	"errors"
	"fmt"

	"github.com/Semior001/newsreader/pkg/botx"
	"github.com/Semior001/newsreader/pkg/logx"
	"github.com/google/uuid"
)

// RequestID puts the request id into the context.
// Updates with a message id are identified as "<chat>-<message>",
// the rest get a random id.
func RequestID() botx.Middleware {
	return func(next botx.Handler) botx.Handler {
		return func(ctx context.Context, req botx.Request) ([]botx.Response, error) {
			id := uuid.New().String()
			if req.MessageID != "" && req.Chat.ID != "" {
				id = req.Chat.ID + "-" + req.MessageID
			}

			return next(logx.ContextWithRequestID(ctx, id), req)
		}
	}
}

// AppendRequestIDOnError appends the request id to every response
// of a failed request, and tells the requester that something went
// wrong if there was no response for them.
func AppendRequestIDOnError() botx.Middleware {
	return func(next botx.Handler) botx.Handler {
		return func(ctx context.Context, req botx.Request) (resps []botx.Response, err error) {
			resps, err = next(ctx, req)
			if err == nil {
				return resps, nil
			}

			reqID, _ := logx.RequestIDFromContext(ctx)
			footer := fmt.Sprintf("\n\nRequest ID: `%s`", reqID)

			hasRequester := false
			for i := range resps {
				resps[i].Text += footer
				if resps[i].ChatID == req.Chat.ID {
					hasRequester = true
				}
			}

			if hasRequester {
				return resps, err
			}

			msg := "Something went wrong. Please, ask admin for help."
			if errors.Is(err, ErrTimeout) {
				msg = "It took too long to handle your request. Please, try again later."
			}

			return append(resps, botx.Response{ChatID: req.Chat.ID, Text: msg + footer}), err
		}
	}
}
