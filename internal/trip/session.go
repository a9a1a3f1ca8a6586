package trip

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tripmapper/tripmapper/internal/notify"
	"github.com/tripmapper/tripmapper/internal/render"
	"github.com/tripmapper/tripmapper/internal/routing"
)

// Config holds construction parameters shared by all trips.
type Config struct {
	// Planner is the external optimizer client.
	Planner routing.Planner

	// PlanTimeout bounds one planning request (optional).
	PlanTimeout time.Duration

	// NoticeVisibleFor is the status message auto-hide delay (optional).
	NoticeVisibleFor time.Duration

	// Logger for trip operations.
	Logger zerolog.Logger
}

// Trip is one interactive session. It owns the waypoint store, the status
// notifier, the recording surface, the renderer, and the plan coordinator,
// with construction and teardown as the explicit lifecycle boundaries.
type Trip struct {
	ID        string
	CreatedAt time.Time

	surface     *render.MemorySurface
	notifier    *notify.Notifier
	store       *Store
	renderer    *render.Renderer
	coordinator *routing.Coordinator

	mu         sync.Mutex
	lastActive time.Time
}

// New creates a trip session with a fresh surface and empty store.
func New(cfg Config) *Trip {
	id := "trp_" + uuid.New().String()[:22]
	logger := cfg.Logger.With().Str("trip_id", id).Logger()

	surface := render.NewMemorySurface()
	notifier := notify.NewNotifier(cfg.NoticeVisibleFor)
	store := NewStore(surface, notifier)
	renderer := render.NewRenderer(surface, logger)
	coordinator := routing.NewCoordinator(routing.CoordinatorConfig{
		Planner:     cfg.Planner,
		Spots:       store,
		Renderer:    renderer,
		Notifier:    notifier,
		PlanTimeout: cfg.PlanTimeout,
		Logger:      logger,
	})

	now := time.Now()
	return &Trip{
		ID:          id,
		CreatedAt:   now,
		surface:     surface,
		notifier:    notifier,
		store:       store,
		renderer:    renderer,
		coordinator: coordinator,
		lastActive:  now,
	}
}

// AddSpot places a waypoint and returns its id.
func (t *Trip) AddSpot(lat, lng float64) int {
	t.touch()
	return t.store.AddSpot(lat, lng)
}

// RemoveSpot removes a waypoint; unknown ids are a no-op.
func (t *Trip) RemoveSpot(id int) {
	t.touch()
	t.store.RemoveSpot(id)
}

// ClearAll removes every waypoint and tears down any rendered route.
func (t *Trip) ClearAll() {
	t.touch()
	t.store.Clear()
	t.renderer.ClearRoute()
}

// PlanRoute runs one planning cycle against the optimizer.
func (t *Trip) PlanRoute(ctx context.Context) (*routing.RouteResult, error) {
	t.touch()
	return t.coordinator.PlanRoute(ctx)
}

// ClearRoute tears down the rendered route, leaving the waypoints in place.
func (t *Trip) ClearRoute() {
	t.touch()
	t.renderer.ClearRoute()
}

// Spots returns the waypoints in insertion order.
func (t *Trip) Spots() []Spot {
	return t.store.Spots()
}

// CanPlanRoute reports whether the plan affordance should be enabled,
// ignoring any in-flight request.
func (t *Trip) CanPlanRoute() bool {
	return t.store.CanPlanRoute()
}

// Planning reports whether a planning request is in flight.
func (t *Trip) Planning() bool {
	return t.coordinator.InFlight()
}

// Notice returns the currently visible status message, if any.
func (t *Trip) Notice() *notify.Message {
	return t.notifier.Current()
}

// Document serializes the surface for clients.
func (t *Trip) Document() render.Document {
	return t.surface.Document()
}

// Itinerary returns the results panel, or nil when no route is displayed.
func (t *Trip) Itinerary() *render.Itinerary {
	return t.renderer.Itinerary()
}

// LastActive returns the time of the last user interaction.
func (t *Trip) LastActive() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastActive
}

// Close releases the trip's resources.
func (t *Trip) Close() {
	t.notifier.Close()
}

func (t *Trip) touch() {
	t.mu.Lock()
	t.lastActive = time.Now()
	t.mu.Unlock()
}
