package routing

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// DefaultPlanTimeout bounds one planning round trip. A hung provider call
// must not leave the plan affordance locked forever.
const DefaultPlanTimeout = 30 * time.Second

// CoordinatorConfig holds configuration for the coordinator.
type CoordinatorConfig struct {
	// Planner is the external optimizer client.
	Planner Planner

	// Spots is the trip's waypoint store.
	Spots SpotSource

	// Renderer receives validated results.
	Renderer Renderer

	// Notifier receives user-facing status messages.
	Notifier Notifier

	// PlanTimeout bounds one planning request (default: 30s).
	PlanTimeout time.Duration

	// Logger for coordinator operations.
	Logger zerolog.Logger
}

// Coordinator owns the asynchronous planning lifecycle for one trip. At most
// one request is in flight at a time, guarded by an atomic flag rather than
// a UI-side disable.
type Coordinator struct {
	planner     Planner
	spots       SpotSource
	renderer    Renderer
	notifier    Notifier
	planTimeout time.Duration
	logger      zerolog.Logger

	inFlight atomic.Bool
}

// NewCoordinator creates a coordinator for one trip.
func NewCoordinator(cfg CoordinatorConfig) *Coordinator {
	planTimeout := cfg.PlanTimeout
	if planTimeout == 0 {
		planTimeout = DefaultPlanTimeout
	}

	return &Coordinator{
		planner:     cfg.Planner,
		spots:       cfg.Spots,
		renderer:    cfg.Renderer,
		notifier:    cfg.Notifier,
		planTimeout: planTimeout,
		logger:      cfg.Logger,
	}
}

// InFlight reports whether a planning request is currently outstanding.
// Clients derive the plan affordance's disabled state and label from this.
func (c *Coordinator) InFlight() bool {
	return c.inFlight.Load()
}

// PlanRoute runs one full planning cycle: precondition check, snapshot,
// provider call, response validation, render handoff. Every failure is
// converted to a single error notification and the previously rendered
// route is left untouched. The in-flight flag is released on all paths.
func (c *Coordinator) PlanRoute(ctx context.Context) (*RouteResult, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, ErrPlanInFlight
	}
	defer c.inFlight.Store(false)

	if !c.spots.CanPlanRoute() {
		c.notifier.Error("Please select at least 2 spots to plan a route")
		return nil, ErrNotEnoughSpots
	}

	c.notifier.Info("Planning optimal route...")

	snapshot := c.spots.Snapshot()
	coords := make([]Coordinate, len(snapshot))
	for i, wp := range snapshot {
		coords[i] = wp.Coord
	}

	ctx, cancel := context.WithTimeout(ctx, c.planTimeout)
	defer cancel()

	start := time.Now()
	result, err := c.planner.PlanRoute(ctx, coords)
	if err != nil {
		c.logger.Error().Err(err).
			Int("spot_count", len(coords)).
			Str("provider", c.planner.Name()).
			Dur("duration", time.Since(start)).
			Msg("route planning failed")
		c.notifier.Error(userMessage(err))
		return nil, err
	}

	if err := validateVisitingOrder(result.VisitingOrder, len(snapshot)); err != nil {
		c.logger.Error().Err(err).
			Ints("visiting_order", result.VisitingOrder).
			Int("spot_count", len(snapshot)).
			Msg("rejecting plan response with invalid visiting order")
		c.notifier.Error("Failed to plan route")
		return nil, err
	}

	c.renderer.DisplayRoute(*result, snapshot)
	c.notifier.Success(fmt.Sprintf("Route planned! Total distance: %.2f km", result.TotalDistanceKm))

	c.logger.Info().
		Int("spot_count", len(coords)).
		Float64("total_distance_km", result.TotalDistanceKm).
		Int("road_segments", len(result.RoadSegments)).
		Dur("duration", time.Since(start)).
		Msg("route planned")

	return result, nil
}

// validateVisitingOrder rejects orders that are not a permutation of the
// submitted waypoint indices. Partial or duplicated orders would otherwise
// render silently wrong itineraries.
func validateVisitingOrder(order []int, spotCount int) error {
	if len(order) != spotCount {
		return fmt.Errorf("%w: got %d indices for %d spots", ErrInvalidVisitingOrder, len(order), spotCount)
	}
	seen := make(map[int]bool, len(order))
	for _, idx := range order {
		if idx < 0 || idx >= spotCount {
			return fmt.Errorf("%w: index %d out of range [0, %d)", ErrInvalidVisitingOrder, idx, spotCount)
		}
		if seen[idx] {
			return fmt.Errorf("%w: duplicate index %d", ErrInvalidVisitingOrder, idx)
		}
		seen[idx] = true
	}
	return nil
}

// userMessage extracts the most specific user-facing message from a
// planning error.
func userMessage(err error) string {
	var planErr *Error
	if errors.As(err, &planErr) {
		return planErr.UserMessage()
	}
	return "Failed to plan route"
}
