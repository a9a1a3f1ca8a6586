package trip

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultIdleTTL is how long an untouched trip survives before the sweeper
// reclaims it. Trips are never persisted, so the registry bounds its own
// growth.
const DefaultIdleTTL = 2 * time.Hour

// Registry is the in-memory collection of live trip sessions.
type Registry struct {
	cfg    Config
	logger zerolog.Logger

	mu    sync.RWMutex
	trips map[string]*Trip
}

// NewRegistry creates an empty trip registry. New trips are constructed
// with the given config.
func NewRegistry(cfg Config) *Registry {
	return &Registry{
		cfg:    cfg,
		logger: cfg.Logger,
		trips:  make(map[string]*Trip),
	}
}

// Create constructs and retains a new trip session.
func (r *Registry) Create() *Trip {
	t := New(r.cfg)

	r.mu.Lock()
	r.trips[t.ID] = t
	r.mu.Unlock()

	r.logger.Info().Str("trip_id", t.ID).Msg("trip created")
	return t
}

// Get retrieves a trip by id.
func (r *Registry) Get(id string) (*Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.trips[id]
	if !ok {
		return nil, ErrTripNotFound
	}
	return t, nil
}

// Delete removes and closes a trip. Unknown ids are a no-op.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	t, ok := r.trips[id]
	delete(r.trips, id)
	r.mu.Unlock()

	if ok {
		t.Close()
		r.logger.Info().Str("trip_id", id).Msg("trip deleted")
	}
}

// Count returns the number of live trips.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.trips)
}

// Sweep closes trips idle for longer than ttl and returns how many were
// reclaimed.
func (r *Registry) Sweep(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	r.mu.Lock()
	var expired []*Trip
	for id, t := range r.trips {
		if t.LastActive().Before(cutoff) {
			expired = append(expired, t)
			delete(r.trips, id)
		}
	}
	r.mu.Unlock()

	for _, t := range expired {
		t.Close()
	}

	if len(expired) > 0 {
		r.logger.Info().Int("expired_trips", len(expired)).Msg("swept idle trips")
	}
	return len(expired)
}

// RunSweeper periodically sweeps idle trips until the context is cancelled.
func (r *Registry) RunSweeper(ctx context.Context, interval, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	if interval <= 0 {
		interval = ttl / 4
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(ttl)
		}
	}
}
