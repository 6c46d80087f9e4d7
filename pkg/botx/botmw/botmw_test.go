package botmw

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Semior001/newsreader/pkg/botx"
	"github.com/Semior001/newsreader/pkg/logx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	slow := func(context.Context, botx.Request) ([]botx.Response, error) {
		<-release
		return []botx.Response{{Text: "late"}}, nil
	}
	fast := func(context.Context, botx.Request) ([]botx.Response, error) {
		return []botx.Response{{Text: "ok"}}, nil
	}

	_, err := Timeout(10*time.Millisecond)(slow)(context.Background(), botx.Request{})
	assert.ErrorIs(t, err, ErrTimeout)

	resps, err := Timeout(time.Second)(fast)(context.Background(), botx.Request{})
	require.NoError(t, err)
	assert.Equal(t, "ok", resps[0].Text)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Timeout(time.Second)(slow)(ctx, botx.Request{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRequestID(t *testing.T) {
	var reqID string
	h := RequestID()(AppendRequestIDOnError()(func(ctx context.Context, _ botx.Request) ([]botx.Response, error) {
		var ok bool
		reqID, ok = logx.RequestIDFromContext(ctx)
		assert.True(t, ok)
		return nil, errors.New("boom")
	}))

	resps, err := h(context.Background(), botx.Request{Chat: botx.Chat{ID: "1"}})
	assert.EqualError(t, err, "boom")
	require.Len(t, resps, 1)
	assert.NotEmpty(t, reqID)
	assert.Equal(t, "1", resps[0].ChatID)
	assert.Contains(t, resps[0].Text, "Something went wrong")
	assert.Contains(t, resps[0].Text, "Request ID: `"+reqID+"`")
}

func TestAppendRequestIDOnError_ExistingResponse(t *testing.T) {
	h := RequestID()(AppendRequestIDOnError()(func(context.Context, botx.Request) ([]botx.Response, error) {
		return []botx.Response{{ChatID: "1", Text: "failed to load feed"}}, errors.New("boom")
	}))

	resps, err := h(context.Background(), botx.Request{Chat: botx.Chat{ID: "1"}})
	assert.Error(t, err)
	require.Len(t, resps, 1)
	assert.Contains(t, resps[0].Text, "failed to load feed\n\nRequest ID: `")
}

func TestRecover(t *testing.T) {
	h := Recover(slog.New(logx.NoOp()))(func(context.Context, botx.Request) ([]botx.Response, error) {
		panic("oops")
	})

	var err error
	assert.NotPanics(t, func() { _, err = h(context.Background(), botx.Request{}) })

	var perr *PanicError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "oops", perr.Value)
	assert.NotEmpty(t, perr.Stack)
	assert.EqualError(t, err, "panic: oops")
}

func TestTimeout_Panic(t *testing.T) {
	h := Timeout(time.Second)(func(context.Context, botx.Request) ([]botx.Response, error) {
		panic("inside goroutine")
	})

	var err error
	assert.NotPanics(t, func() { _, err = h(context.Background(), botx.Request{}) })

	var perr *PanicError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "inside goroutine", perr.Value)
}

func TestTimeout_Disabled(t *testing.T) {
	h := Timeout(0)(func(ctx context.Context, _ botx.Request) ([]botx.Response, error) {
		_, hasDeadline := ctx.Deadline()
		assert.False(t, hasDeadline)
		return []botx.Response{{Text: "ok"}}, nil
	})

	resps, err := h(context.Background(), botx.Request{})
	require.NoError(t, err)
	assert.Equal(t, "ok", resps[0].Text)
}

func TestRequestID_FromMessage(t *testing.T) {
	var reqID string
	h := RequestID()(func(ctx context.Context, _ botx.Request) ([]botx.Response, error) {
		reqID, _ = logx.RequestIDFromContext(ctx)
		return nil, nil
	})

	_, err := h(context.Background(), botx.Request{MessageID: "42", Chat: botx.Chat{ID: "7"}})
	require.NoError(t, err)
	assert.Equal(t, "7-42", reqID)
}

func TestAppendRequestIDOnError_Timeout(t *testing.T) {
	h := RequestID()(AppendRequestIDOnError()(func(context.Context, botx.Request) ([]botx.Response, error) {
		return nil, ErrTimeout
	}))

	resps, err := h(context.Background(), botx.Request{Chat: botx.Chat{ID: "1"}})
	assert.ErrorIs(t, err, ErrTimeout)
	require.Len(t, resps, 1)
	assert.Contains(t, resps[0].Text, "took too long")
}

func TestLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	lg := slog.New(slog.HandlerOptions{Level: slog.LevelInfo}.NewTextHandler(buf))

	h := Logger(lg)(func(context.Context, botx.Request) ([]botx.Response, error) {
		return []botx.Response{{ChatID: "1", Text: "private reply"}}, nil
	})

	_, err := h(context.Background(), botx.Request{Chat: botx.Chat{ID: "1"}, Text: "/profile username secret-name"})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "request handled")
	assert.Contains(t, buf.String(), "text=/profile")
	assert.NotContains(t, buf.String(), "secret-name")
	assert.NotContains(t, buf.String(), "private reply")
}
