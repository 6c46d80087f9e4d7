package rest

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/Semior001/newsreader/app/feed"
	"github.com/Semior001/newsreader/app/post"
	"github.com/Semior001/newsreader/app/store"
	"github.com/Semior001/newsreader/app/ui"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

type stateResponse struct {
	Category         string         `json:"category"`
	SelectedArticle  *store.Article `json:"selected_article,omitempty"`
	Loading          bool           `json:"loading"`
	Error            string         `json:"error,omitempty"`
	CachedCategories []string       `json:"cached_categories"`
}

func stateView(st *ui.State) stateResponse {
	resp := stateResponse{
		Category:         st.Category(),
		Loading:          st.IsLoading(),
		Error:            st.Error(),
		CachedCategories: st.CachedCategories(),
	}
	if a, ok := st.SelectedArticle(); ok {
		resp.SelectedArticle = &a
	}
	return resp
}

func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stateView(deviceFrom(r).State))
}

func (s *Server) setCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category string `json:"category"`
	}
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	st := deviceFrom(r).State
	st.SetCategory(req.Category)
	writeJSON(w, http.StatusOK, stateView(st))
}

func (s *Server) clearCategory(w http.ResponseWriter, r *http.Request) {
	st := deviceFrom(r).State
	st.ClearCategory()
	writeJSON(w, http.StatusOK, stateView(st))
}

func (s *Server) getSelectedArticle(w http.ResponseWriter, r *http.Request) {
	a, ok := deviceFrom(r).State.SelectedArticle()
	if !ok {
		writeError(w, http.StatusNotFound, "no article selected")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// selectArticle selects an article of the cached feed of the current
// category, expanding it to the full text if asked.
func (s *Server) selectArticle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     string `json:"id"`
		Expand bool   `json:"expand"`
	}
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	st := deviceFrom(r).State

	var (
		article store.Article
		found   bool
	)
	for _, a := range st.NewsForCategory(st.Category()) {
		if a.ID == req.ID {
			article, found = a, true
			break
		}
	}
	if !found {
		writeError(w, http.StatusNotFound, "article is not in the feed")
		return
	}

	if req.Expand && s.Reader != nil && s.Reader.Expandable(article) {
		st.ShowLoader()
		expanded, err := s.Reader.Expand(r.Context(), article)
		st.HideLoader()
		if err != nil {
			s.Logger.WarnCtx(r.Context(), "failed to expand article",
				slog.String("url", article.URL),
				slog.Any("err", err))
		} else {
			article = expanded
		}
	}

	st.SetSelectedArticle(article)
	writeJSON(w, http.StatusOK, article)
}

func (s *Server) clearSelectedArticle(w http.ResponseWriter, r *http.Request) {
	st := deviceFrom(r).State
	st.ClearSelectedArticle()
	writeJSON(w, http.StatusOK, stateView(st))
}

type feedResponse struct {
	Category  string          `json:"category"`
	Articles  []store.Article `json:"articles"`
	PollIndex int             `json:"poll_index"`
	Poll      *store.Poll     `json:"poll,omitempty"`
}

func (s *Server) getFeed(w http.ResponseWriter, r *http.Request) {
	d := deviceFrom(r)
	category := d.State.Category()

	f, err := s.Feed.Load(r.Context(), d.State, category)
	switch {
	case errors.Is(err, feed.ErrFetch):
		writeError(w, http.StatusBadGateway, d.State.Error())
		return
	case err != nil:
		s.writeFailure(w, r, err)
		return
	}

	resp := feedResponse{Category: f.Category, Articles: f.Articles, PollIndex: f.PollIndex}

	p, ok, err := d.Tally.Load(r.Context())
	if err != nil {
		s.Logger.WarnCtx(r.Context(), "failed to load poll for the feed", slog.Any("err", err))
	}
	if ok {
		resp.Poll = &p
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getNews(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	writeJSON(w, http.StatusOK, feedResponse{
		Category: category,
		Articles: deviceFrom(r).State.NewsForCategory(category),
	})
}

func (s *Server) readArticle(w http.ResponseWriter, r *http.Request) {
	u := r.URL.Query().Get("url")
	if parsed, err := url.ParseRequestURI(u); err != nil || parsed.Host == "" {
		writeError(w, http.StatusBadRequest, "url query parameter must be an absolute url")
		return
	}

	if s.Reader == nil {
		writeError(w, http.StatusNotImplemented, "reader is not configured")
		return
	}

	article, err := s.Reader.Read(r.Context(), u)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, article)
}

func (s *Server) categories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"categories":      append([]string{ui.DefaultCategory}, post.Categories()...),
		"post_categories": post.Categories(),
	})
}

func (s *Server) submitPost(w http.ResponseWriter, r *http.Request) {
	var d post.Draft
	if err := decodeStrict(r, &d); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := s.Posts.Submit(r.Context(), d)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, p)
}
