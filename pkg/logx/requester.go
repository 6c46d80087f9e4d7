package logx

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-pkgz/requester/middleware"
	"github.com/samber/lo"
	"golang.org/x/exp/slog"
)

// RoundTripperOpts contains options for client logger.
type RoundTripperOpts struct {
	Level slog.Level
	// SecretHeaders and SecretParams are masked in logs, header names
	// are matched case-insensitively.
	SecretHeaders []string
	SecretParams  []string
}

const masked = "***"

// LoggingRoundTripper logs every client request along with the response.
func LoggingRoundTripper(lg *slog.Logger, opts RoundTripperOpts) middleware.RoundTripperHandler {
	secretHeaders := lo.Map(opts.SecretHeaders, func(h string, _ int) string { return http.CanonicalHeaderKey(h) })

	return func(next http.RoundTripper) http.RoundTripper {
		return middleware.RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			ctx := req.Context()
			if !lg.Handler().Enabled(ctx, opts.Level) {
				return next.RoundTrip(req)
			}

			var reqBody string
			req.Body, reqBody = copyAndTrim(req.Body)

			lg.LogAttrs(ctx, opts.Level, "request sent", slog.Group("request",
				slog.String("method", req.Method),
				slog.String("url", maskURL(req.URL, opts.SecretParams)),
				slog.Any("headers", maskHeaders(req.Header, secretHeaders)),
				slog.String("body", reqBody),
			))

			start := time.Now()
			resp, err := next.RoundTrip(req)
			elapsed := time.Since(start)

			if err != nil {
				lg.LogAttrs(ctx, opts.Level, "request failed",
					slog.Duration("elapsed", elapsed),
					slog.Any("err", err),
				)
				return resp, err
			}

			var respBody string
			resp.Body, respBody = copyAndTrim(resp.Body)

			lg.LogAttrs(ctx, opts.Level, "response received",
				slog.Group("response",
					slog.Int("status", resp.StatusCode),
					slog.Any("headers", maskHeaders(resp.Header, secretHeaders)),
					slog.String("body", respBody),
				),
				slog.Duration("elapsed", elapsed),
			)

			return resp, nil
		})
	}
}

func maskHeaders(h http.Header, secrets []string) map[string]string {
	res := make(map[string]string, len(h))
	for k, vals := range h {
		if lo.Contains(secrets, http.CanonicalHeaderKey(k)) {
			res[k] = masked
			continue
		}
		res[k] = strings.Join(vals, ",")
	}
	return res
}

func maskURL(u *url.URL, secrets []string) string {
	if u == nil {
		return ""
	}

	q := u.Query()
	changed := false
	for _, p := range secrets {
		if q.Has(p) {
			q.Set(p, masked)
			changed = true
		}
	}

	if !changed {
		return u.String()
	}

	cp := *u
	cp.RawQuery = q.Encode()
	return cp.String()
}

const trimBodyAt = 1024

func copyAndTrim(r io.ReadCloser) (rd io.ReadCloser, result string) {
	if r == nil || r == http.NoBody {
		return r, ""
	}

	rd, result, read := readPortion(r, trimBodyAt)
	if read == trimBodyAt {
		result += "..."
	}

	result = strings.NewReplacer("\n", "", "\t", "").Replace(result)
	return rd, result
}

func readPortion(src io.ReadCloser, limit int64) (rd io.ReadCloser, portion string, read int64) {
	buf := &bytes.Buffer{}

	read, err := io.CopyN(buf, src, limit)
	if err != nil {
		return io.NopCloser(bytes.NewReader(buf.Bytes())), buf.String(), read
	}

	return &closer{rd: io.MultiReader(bytes.NewReader(buf.Bytes()), src), closeFn: src.Close}, buf.String(), read
}

type closer struct {
	rd      io.Reader
	closeFn func() error
}

func (c *closer) Read(p []byte) (n int, err error) { return c.rd.Read(p) }
func (c *closer) Close() error                     { return c.closeFn() }
