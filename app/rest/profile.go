package rest

import (
	"errors"
	"net/http"

	"github.com/Semior001/newsreader/app/profile"
	"github.com/Semior001/newsreader/app/store"
)

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.Profiles.Get(r.Context(), deviceFrom(r).ID)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var ch profile.Changes
	if err := decodeStrict(r, &ch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, updated, err := s.Profiles.Update(r.Context(), deviceFrom(r).ID, ch)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Profile store.Profile `json:"profile"`
		Updated bool          `json:"updated"`
	}{Profile: p, Updated: updated})
}

type imageBody struct {
	URI string `json:"uri"`
}

func (s *Server) getImage(w http.ResponseWriter, r *http.Request) {
	uri, err := s.Profiles.Image(r.Context(), deviceFrom(r).ID)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, imageBody{URI: uri})
}

func (s *Server) setImage(w http.ResponseWriter, r *http.Request) {
	var req imageBody
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.Profiles.SetImage(r.Context(), deviceFrom(r).ID, req.URI); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

type themeBody struct {
	Theme string `json:"theme"`
}

func (s *Server) getTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, themeBody{Theme: s.Profiles.Theme(r.Context(), deviceFrom(r).ID)})
}

func (s *Server) setTheme(w http.ResponseWriter, r *http.Request) {
	var req themeBody
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := s.Profiles.SetTheme(r.Context(), deviceFrom(r).ID, req.Theme)
	switch {
	case errors.Is(err, profile.ErrUnknownTheme):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "validation failed",
			Errors: store.ValidationError{"theme": "Theme must be either light or dark"},
		})
		return
	case err != nil:
		s.writeFailure(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, req)
}

func (s *Server) toggleTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := s.Profiles.ToggleTheme(r.Context(), deviceFrom(r).ID)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, themeBody{Theme: theme})
}
