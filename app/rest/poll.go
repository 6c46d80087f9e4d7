package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/Semior001/newsreader/app/device"
	"github.com/Semior001/newsreader/app/poll"
	"github.com/Semior001/newsreader/app/store"
)

type pollResponse struct {
	Poll   store.Poll         `json:"poll"`
	Shares map[string]float64 `json:"shares"`
	Total  int                `json:"total"`
	Voted  bool               `json:"voted"`
}

func (s *Server) pollView(ctx context.Context, d *device.Device, p store.Poll) (pollResponse, error) {
	voted, err := d.Tally.Voted(ctx, p.ID)
	if err != nil {
		return pollResponse{}, err
	}
	return pollResponse{Poll: p, Shares: poll.ComputeShares(p.Options), Total: p.Total(), Voted: voted}, nil
}

func (s *Server) getPoll(w http.ResponseWriter, r *http.Request) {
	d := deviceFrom(r)

	p, ok, err := d.Tally.Load(r.Context())
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "there are no polls yet")
		return
	}

	resp, err := s.pollView(r.Context(), d, p)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) vote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PollID string `json:"poll_id"`
		Option string `json:"option"`
	}
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	d := deviceFrom(r)

	voted, err := d.Tally.Voted(r.Context(), req.PollID)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	if voted {
		writeError(w, http.StatusConflict, "already voted in this poll")
		return
	}

	p, err := d.Tally.Vote(r.Context(), req.PollID, req.Option)
	switch {
	case errors.Is(err, poll.ErrInvalidState):
		writeError(w, http.StatusConflict, "poll is not loaded or is outdated, get it first")
		return
	case errors.Is(err, poll.ErrUnknownOption):
		writeError(w, http.StatusBadRequest, "unknown option")
		return
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "poll not found")
		return
	case err != nil:
		s.writeFailure(w, r, err)
		return
	}

	resp, err := s.pollView(r.Context(), d, p)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) createPoll(w http.ResponseWriter, r *http.Request) {
	var d poll.Draft
	if err := decodeStrict(r, &d); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := s.Polls.Create(r.Context(), d)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, p)
}
