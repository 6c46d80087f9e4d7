// Package device keeps sessions of the devices that use the reader.
package device

import (
	"sync"
	"time"

	"github.com/Semior001/newsreader/app/poll"
	"github.com/Semior001/newsreader/app/store"
	"github.com/Semior001/newsreader/app/ui"
	cache "github.com/go-pkgz/expirable-cache/v2"
	"golang.org/x/exp/slog"
)

// Device is a session of a single device.
type Device struct {
	ID    string
	State *ui.State
	Tally *poll.Tally
}

// Options defines parameters of the Registry.
type Options struct {
	// MaxDevices bounds the number of sessions kept, least recently used
	// sessions are dropped first. Zero means no limit.
	MaxDevices int
	// TTL drops sessions that were not used for the given time.
	// Zero means sessions do not expire.
	TTL time.Duration
}

// Registry creates device sessions on first use and keeps them.
type Registry struct {
	log   *slog.Logger
	polls store.PollStore
	kv    store.KV

	mu      sync.Mutex
	devices cache.Cache[string, *Device]
}

// NewRegistry makes a new Registry.
func NewRegistry(lg *slog.Logger, polls store.PollStore, kv store.KV, opts Options) *Registry {
	devices := cache.NewCache[string, *Device]().WithLRU()
	if opts.MaxDevices > 0 {
		devices = devices.WithMaxKeys(opts.MaxDevices)
	}
	if opts.TTL > 0 {
		devices = devices.WithTTL(opts.TTL)
	}

	return &Registry{log: lg, polls: polls, kv: kv, devices: devices}
}

// Get returns the session of the device, creating it if needed.
func (r *Registry) Get(id string) *Device {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d, ok := r.devices.Get(id); ok {
		return d
	}

	lg := r.log.With(slog.String("device", id))
	d := &Device{
		ID:    id,
		State: ui.NewState(),
		Tally: poll.NewTally(lg, r.polls, r.kv, id),
	}
	r.devices.Set(id, d, 0)

	r.log.Debug("new device session", slog.String("device", id))

	return d
}

// Peek returns the session of the device if there is one.
func (r *Registry) Peek(id string) (*Device, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.devices.Peek(id)
}

// Devices returns ids of the kept sessions.
func (r *Registry) Devices() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.devices.Keys()
}

// Stat returns stats of the sessions cache.
func (r *Registry) Stat() cache.Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.devices.Stat()
}

// NewsStat sums the stats of the news caches of all kept sessions.
func (r *Registry) NewsStat() cache.Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res cache.Stats
	for _, id := range r.devices.Keys() {
		d, ok := r.devices.Peek(id)
		if !ok {
			continue
		}
		st := d.State.CacheStat()
		res.Hits += st.Hits
		res.Misses += st.Misses
		res.Added += st.Added
		res.Evicted += st.Evicted
	}
	return res
}
