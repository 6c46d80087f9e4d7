// Package poll counts votes of the active poll and creates new polls.
package poll

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/Semior001/newsreader/app/store"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

//go:generate moq -out mock_poll_store.go -pkg poll ../store PollStore
//go:generate moq -out mock_kv.go -pkg poll ../store KV

var (
	// ErrInvalidState is returned on voting when no poll is loaded.
	ErrInvalidState = errors.New("no poll loaded")
	// ErrUnknownOption is returned on voting for an option the poll does not have.
	ErrUnknownOption = store.ErrUnknownOption
)

// VotedKey returns the key of the local "already voted" flag.
func VotedKey(device, pollID string) string { return "voted:" + device + ":" + pollID }

// ComputeShares returns the percentage of votes per option, rounded to one
// decimal place. Polls without votes give zero shares.
func ComputeShares(options map[string]int) map[string]float64 {
	total := 0
	for _, cnt := range options {
		total += cnt
	}
	if total == 0 {
		total = 1
	}

	shares := make(map[string]float64, len(options))
	for opt, cnt := range options {
		shares[opt] = math.Round(float64(cnt)/float64(total)*1000) / 10
	}
	return shares
}

// Tally keeps the active poll of a single device and applies its votes.
type Tally struct {
	log    *slog.Logger
	polls  store.PollStore
	kv     store.KV
	device string

	mu   sync.Mutex
	poll *store.Poll
}

// NewTally makes a new Tally for the device.
func NewTally(lg *slog.Logger, polls store.PollStore, kv store.KV, device string) *Tally {
	return &Tally{log: lg, polls: polls, kv: kv, device: device}
}

// Load fetches the most recent poll. The absence of polls is not an error.
func (t *Tally) Load(ctx context.Context) (store.Poll, bool, error) {
	p, err := t.polls.LatestPoll(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		t.set(nil)
		return store.Poll{}, false, nil
	case err != nil:
		return store.Poll{}, false, fmt.Errorf("get latest poll: %w", err)
	}

	t.set(&p)
	return clone(p), true, nil
}

// Poll returns the loaded poll.
func (t *Tally) Poll() (store.Poll, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.poll == nil {
		return store.Poll{}, false
	}
	return clone(*t.poll), true
}

// Voted reports whether the device has already voted in the poll.
func (t *Tally) Voted(ctx context.Context, pollID string) (bool, error) {
	v, err := t.kv.GetValue(ctx, VotedKey(t.device, pollID))
	switch {
	case errors.Is(err, store.ErrNotFound):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("get voted flag: %w", err)
	}
	return v == "true", nil
}

// Vote adds one vote to the option of the loaded poll and marks the poll
// as voted on this device. The poll id must be the one of the loaded poll.
// Repeated votes are not blocked, front ends must disable them.
func (t *Tally) Vote(ctx context.Context, pollID, option string) (store.Poll, error) {
	t.mu.Lock()
	if t.poll == nil || pollID == "" || t.poll.ID != pollID {
		t.mu.Unlock()
		return store.Poll{}, ErrInvalidState
	}
	p := clone(*t.poll)
	t.mu.Unlock()

	cnt, err := t.polls.IncrementVote(ctx, pollID, option)
	if err != nil {
		return store.Poll{}, fmt.Errorf("increment vote for %q: %w", option, err)
	}

	// the poll might be reloaded or cleared while the vote was in flight
	t.mu.Lock()
	if t.poll != nil && t.poll.ID == pollID {
		t.poll.Options[option] = cnt
		p = clone(*t.poll)
	} else {
		p.Options[option] = cnt
	}
	t.mu.Unlock()

	if err = t.kv.SetValue(ctx, VotedKey(t.device, pollID), "true"); err != nil {
		return store.Poll{}, fmt.Errorf("mark poll as voted: %w", err)
	}

	t.log.DebugCtx(ctx, "vote counted",
		slog.String("device", t.device),
		slog.String("poll_id", pollID),
		slog.String("option", option),
		slog.Int("count", cnt),
	)

	return p, nil
}

func (t *Tally) set(p *store.Poll) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if p == nil {
		t.poll = nil
		return
	}

	c := clone(*p)
	t.poll = &c
}

func clone(p store.Poll) store.Poll {
	opts := make(map[string]int, len(p.Options))
	for k, v := range p.Options {
		opts[k] = v
	}
	p.Options = opts
	return p
}

// Draft is a poll to be created.
type Draft struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// MinOptions is the least number of options a poll may have.
const MinOptions = 2

// Validate checks the draft and returns store.ValidationError with
// messages per field.
func (d Draft) Validate() error {
	errs := store.ValidationError{}

	if strings.TrimSpace(d.Question) == "" {
		errs["question"] = "Question is required"
	}

	seen := map[string]bool{}
	for i, opt := range d.Options {
		opt = strings.TrimSpace(opt)
		switch {
		case opt == "":
			errs[fmt.Sprintf("option.%d", i+1)] = fmt.Sprintf("Option %d is empty", i+1)
		case seen[opt]:
			errs[fmt.Sprintf("option.%d", i+1)] = fmt.Sprintf("Option %d repeats another option", i+1)
		}
		seen[opt] = true
	}

	if len(d.Options) < MinOptions {
		errs["options"] = fmt.Sprintf("At least %d options are required", MinOptions)
	}

	return errs.OrNil()
}

// Creator stores new polls.
type Creator struct {
	log   *slog.Logger
	polls store.PollStore
	now   func() time.Time
}

// NewCreator makes a new Creator.
func NewCreator(lg *slog.Logger, polls store.PollStore) *Creator {
	return &Creator{log: lg, polls: polls, now: time.Now}
}

// Create validates the draft and stores a poll without votes.
// The new poll becomes the active one.
func (c *Creator) Create(ctx context.Context, d Draft) (store.Poll, error) {
	if err := d.Validate(); err != nil {
		return store.Poll{}, err
	}

	p := store.Poll{
		ID:        uuid.New().String(),
		Question:  strings.TrimSpace(d.Question),
		Options:   make(map[string]int, len(d.Options)),
		CreatedAt: c.now().UTC(),
	}
	for _, opt := range d.Options {
		p.Options[strings.TrimSpace(opt)] = 0
	}

	if err := c.polls.CreatePoll(ctx, p); err != nil {
		return store.Poll{}, fmt.Errorf("create poll: %w", err)
	}

	c.log.InfoCtx(ctx, "poll created", slog.String("poll_id", p.ID), slog.Int("options", len(p.Options)))

	return p, nil
}
