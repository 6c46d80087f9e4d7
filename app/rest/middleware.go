package rest

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/Semior001/newsreader/pkg/logx"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// requestID takes the request id from X-Request-Id or makes a new one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-Id", id)

		next.ServeHTTP(w, r.WithContext(logx.ContextWithRequestID(r.Context(), id)))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
	count  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.count += n
	return n, err
}

func logging(lg *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(sw, r)

			lg.InfoCtx(r.Context(), "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("device", r.Header.Get(DeviceHeader)),
				slog.Int("status", sw.status),
				slog.Int("bytes", sw.count),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// adminOnly passes requests with "Authorization: Bearer <token>" only.
// Nobody passes when the token is empty.
func adminOnly(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				writeError(w, http.StatusForbidden, "admin api is disabled")
				return
			}

			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(got)), []byte(token)) != 1 {
				writeError(w, http.StatusUnauthorized, "admin token is required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
