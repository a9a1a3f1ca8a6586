package render

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tripmapper/tripmapper/internal/routing"
)

// Route paths use one style whether they follow roads or fall back to
// straight lines; the user-facing contract is "a route is shown", not "the
// route follows roads".
var routeStyle = PathStyle{Color: "#2e86de", Weight: 5, Opacity: 0.8}

// boundsPadding is the fixed visual margin used when fitting the viewport.
const boundsPadding = 48

// Renderer draws plan results onto a surface and maintains the itinerary
// panel. It owns every handle it places, so a new result fully supersedes
// the previous rendering.
type Renderer struct {
	surface Surface
	logger  zerolog.Logger

	mu        sync.Mutex
	handles   []Handle
	itinerary *Itinerary
}

// NewRenderer creates a renderer for the given surface.
func NewRenderer(surface Surface, logger zerolog.Logger) *Renderer {
	return &Renderer{
		surface: surface,
		logger:  logger,
	}
}

// DisplayRoute tears down the previous rendering and draws the result.
// Visiting-order entries that cannot be resolved against the snapshot are
// skipped; one bad index must not blank the whole route.
func (r *Renderer) DisplayRoute(result routing.RouteResult, snapshot []routing.Waypoint) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.teardownLocked()

	r.drawPaths(result)
	r.drawStopMarkers(result.VisitingOrder, snapshot)
	r.fitViewport(result)
	r.itinerary = buildItinerary(result, snapshot)
}

// ClearRoute removes the rendered route and hides the panel.
func (r *Renderer) ClearRoute() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.teardownLocked()
	r.itinerary = nil
}

// Itinerary returns a copy of the results panel, or nil when no route is
// displayed.
func (r *Renderer) Itinerary() *Itinerary {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.itinerary == nil {
		return nil
	}
	cpy := *r.itinerary
	cpy.Stops = make([]ItineraryStop, len(r.itinerary.Stops))
	copy(cpy.Stops, r.itinerary.Stops)
	return &cpy
}

func (r *Renderer) teardownLocked() {
	for _, h := range r.handles {
		r.surface.Remove(h)
	}
	r.handles = nil
}

func (r *Renderer) drawPaths(result routing.RouteResult) {
	if len(result.RoadSegments) > 0 {
		// One independent primitive per segment preserves road-following
		// geometry across legs.
		for _, segment := range result.RoadSegments {
			if len(segment) == 0 {
				continue
			}
			r.handles = append(r.handles, r.surface.AddPath(Path{Coords: segment, Style: routeStyle}))
		}
		return
	}

	if len(result.RouteCoords) == 0 {
		return
	}
	r.handles = append(r.handles, r.surface.AddPath(Path{Coords: result.RouteCoords, Style: routeStyle}))
}

func (r *Renderer) drawStopMarkers(order []int, snapshot []routing.Waypoint) {
	for position, idx := range order {
		if idx < 0 || idx >= len(snapshot) {
			r.logger.Warn().
				Int("index", idx).
				Int("snapshot_size", len(snapshot)).
				Msg("skipping unresolvable visiting-order index")
			continue
		}
		wp := snapshot[idx]
		r.handles = append(r.handles, r.surface.AddMarker(Marker{
			Coord: wp.Coord,
			Label: strconv.Itoa(position + 1),
			Popup: fmt.Sprintf("Stop %d", position+1),
		}))
	}
}

// fitViewport fits the viewport around the drawn geometry. Road-segment
// coordinates win over the bare route coordinates; with no coordinates at
// all the viewport is left untouched.
func (r *Renderer) fitViewport(result routing.RouteResult) {
	var coords []routing.Coordinate
	for _, segment := range result.RoadSegments {
		coords = append(coords, segment...)
	}
	if len(coords) == 0 {
		coords = result.RouteCoords
	}
	if len(coords) == 0 {
		return
	}
	r.surface.FitBounds(BoxAround(coords), boundsPadding)
}

func buildItinerary(result routing.RouteResult, snapshot []routing.Waypoint) *Itinerary {
	itinerary := &Itinerary{
		TotalDistance: fmt.Sprintf("%.2f km", result.TotalDistanceKm),
		Stops:         make([]ItineraryStop, 0, len(result.VisitingOrder)),
	}
	for position, idx := range result.VisitingOrder {
		if idx < 0 || idx >= len(snapshot) {
			continue
		}
		wp := snapshot[idx]
		itinerary.Stops = append(itinerary.Stops, ItineraryStop{
			Position:    position + 1,
			SpotID:      wp.ID,
			Coordinates: fmt.Sprintf("%.4f, %.4f", wp.Coord.Lat, wp.Coord.Lng),
		})
	}
	return itinerary
}

// Ensure Renderer satisfies the coordinator's renderer contract.
var _ routing.Renderer = (*Renderer)(nil)
