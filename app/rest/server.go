// Package rest provides a JSON API over the device sessions.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Semior001/newsreader/app/device"
	"github.com/Semior001/newsreader/app/feed"
	"github.com/Semior001/newsreader/app/poll"
	"github.com/Semior001/newsreader/app/post"
	"github.com/Semior001/newsreader/app/profile"
	"github.com/Semior001/newsreader/app/reader"
	"github.com/Semior001/newsreader/app/store"
	"github.com/Semior001/newsreader/pkg/logx"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/exp/slog"
)

// DeviceHeader carries the id of the calling device.
const DeviceHeader = "X-Device-ID"

// Server serves the JSON API.
type Server struct {
	Logger   *slog.Logger
	Devices  *device.Registry
	Feed     *feed.Aggregator
	Reader   *reader.Service
	Posts    *post.Service
	Polls    *poll.Creator
	Profiles *profile.Service
	Timeout  time.Duration
	// AdminToken guards poll creation, it is disabled when empty.
	AdminToken string
}

// Run starts the server and shuts it down when the context is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.InfoCtx(ctx, "starting http server", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen and serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}

// Routes returns the http handler with all endpoints.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer,
		requestID,
		logging(s.Logger),
	)
	if s.Timeout > 0 {
		r.Use(middleware.Timeout(s.Timeout))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/categories", s.categories)
		r.Get("/article", s.readArticle)
		r.With(adminOnly(s.AdminToken)).Post("/polls", s.createPoll)
		r.Post("/posts", s.submitPost)

		r.Group(func(r chi.Router) {
			r.Use(s.withDevice)

			r.Get("/state", s.getState)
			r.Put("/state/category", s.setCategory)
			r.Delete("/state/category", s.clearCategory)
			r.Get("/state/article", s.getSelectedArticle)
			r.Put("/state/article", s.selectArticle)
			r.Delete("/state/article", s.clearSelectedArticle)

			r.Get("/feed", s.getFeed)
			r.Get("/news/{category}", s.getNews)

			r.Get("/poll", s.getPoll)
			r.Post("/poll/vote", s.vote)

			r.Get("/profile", s.getProfile)
			r.Patch("/profile", s.updateProfile)
			r.Get("/profile/image", s.getImage)
			r.Put("/profile/image", s.setImage)

			r.Get("/theme", s.getTheme)
			r.Put("/theme", s.setTheme)
			r.Post("/theme/toggle", s.toggleTheme)
		})
	})

	return r
}

type deviceKey struct{}

func (s *Server) withDevice(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(DeviceHeader)
		if id == "" {
			writeError(w, http.StatusBadRequest, DeviceHeader+" header is required")
			return
		}

		ctx := logx.ContextWithDevice(r.Context(), id)
		ctx = context.WithValue(ctx, deviceKey{}, s.Devices.Get(id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func deviceFrom(r *http.Request) *device.Device {
	return r.Context().Value(deviceKey{}).(*device.Device)
}

type errorResponse struct {
	Error  string                `json:"error,omitempty"`
	Errors store.ValidationError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeFailure maps validation errors to 400 and everything else to 500.
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	var verr store.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Errors: verr})
		return
	}

	s.Logger.ErrorCtx(r.Context(), "request failed",
		slog.String("path", r.URL.Path),
		slog.Any("err", err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}
