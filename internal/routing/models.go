// Package routing owns the route-planning request lifecycle: it snapshots
// the trip's waypoints, calls the external optimizer, validates the result,
// and hands it to the renderer.
package routing

import (
	"context"
	"errors"
)

// Sentinel errors for planning operations.
var (
	// ErrPlanInFlight indicates a planning request is already outstanding for
	// this trip. Overlapping submissions are rejected, not queued.
	ErrPlanInFlight = errors.New("a route planning request is already in flight")
	// ErrNotEnoughSpots indicates the trip holds fewer than two waypoints.
	ErrNotEnoughSpots = errors.New("at least 2 spots are required to plan a route")
	// ErrProviderUnavailable indicates the optimizer is unreachable or returned
	// a transport-level failure.
	ErrProviderUnavailable = errors.New("route planning service unavailable")
	// ErrPlanRejected indicates the optimizer answered but reported failure.
	ErrPlanRejected = errors.New("route planning request rejected")
	// ErrInvalidVisitingOrder indicates the optimizer returned a visiting order
	// that does not form a permutation of the submitted waypoints.
	ErrInvalidVisitingOrder = errors.New("invalid visiting order in plan response")
)

// Coordinate is a geographic point in (lat, lng) order, matching the
// optimizer wire format.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Waypoint is one entry of the waypoint snapshot captured at request
// submission time. VisitingOrder indices resolve against this snapshot, so
// store mutations during the network round trip cannot skew the rendering.
type Waypoint struct {
	ID    int
	Coord Coordinate
}

// RouteResult is the outcome of one successful planning request.
type RouteResult struct {
	// RouteCoords is the optimized waypoint sequence as coordinates.
	RouteCoords []Coordinate
	// VisitingOrder holds indices into the submitted coordinate sequence,
	// giving the optimized visiting permutation.
	VisitingOrder []int
	// TotalDistanceKm is the service-reported path length in kilometers.
	TotalDistanceKm float64
	// RoadSegments is road-following geometry, one polyline per leg.
	// Empty when the service could not furnish it.
	RoadSegments [][]Coordinate
}

// Planner computes an optimized visiting order and path for a coordinate
// sequence. Implementations call the external optimizer service.
type Planner interface {
	// PlanRoute submits the coordinates in trip order and returns the
	// optimized result. The sequence must hold at least 2 entries.
	PlanRoute(ctx context.Context, coords []Coordinate) (*RouteResult, error)
	// Name returns the provider identifier for logging and health tracking.
	Name() string
}

// Renderer consumes a validated plan result. Implemented by the render
// package; declared here so the coordinator does not depend on it.
type Renderer interface {
	DisplayRoute(result RouteResult, snapshot []Waypoint)
}

// SpotSource exposes the waypoint store operations the coordinator needs.
type SpotSource interface {
	CanPlanRoute() bool
	Snapshot() []Waypoint
}

// Notifier is the transient status feedback channel.
type Notifier interface {
	Success(text string)
	Info(text string)
	Error(text string)
}

// Error carries detailed failure information from the planning provider.
type Error struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage returns the most specific message suitable for showing to the
// user, falling back to a generic one.
func (e *Error) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return "Failed to plan route"
}
