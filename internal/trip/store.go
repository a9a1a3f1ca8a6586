package trip

import (
	"fmt"
	"sync"

	"github.com/tripmapper/tripmapper/internal/notify"
	"github.com/tripmapper/tripmapper/internal/render"
	"github.com/tripmapper/tripmapper/internal/routing"
)

// Store holds the ordered waypoint collection of one trip. Spot ids are
// monotonically assigned and never reused while a spot holds them;
// insertion order is the coordinate order submitted to the optimizer.
type Store struct {
	surface  render.Surface
	notifier *notify.Notifier

	mu     sync.Mutex
	spots  []*Spot
	nextID int
}

// NewStore creates an empty waypoint store drawing markers on the surface.
func NewStore(surface render.Surface, notifier *notify.Notifier) *Store {
	return &Store{
		surface:  surface,
		notifier: notifier,
		nextID:   1,
	}
}

// AddSpot allocates the next id, retains a spot at the coordinates, and
// draws its marker. Returns the new id.
func (s *Store) AddSpot(lat, lng float64) int {
	s.mu.Lock()

	id := s.nextID
	s.nextID++

	marker := s.surface.AddMarker(render.Marker{
		Coord: routing.Coordinate{Lat: lat, Lng: lng},
		Popup: fmt.Sprintf("Spot %d", id),
	})
	s.spots = append(s.spots, &Spot{ID: id, Lat: lat, Lng: lng, Marker: marker})

	s.mu.Unlock()

	s.notifier.Success(fmt.Sprintf("Added Spot %d", id))
	return id
}

// RemoveSpot removes the spot with the given id and releases its marker.
// Removing an unknown id is a no-op, not an error.
func (s *Store) RemoveSpot(id int) {
	s.mu.Lock()
	for i, spot := range s.spots {
		if spot.ID == id {
			s.surface.Remove(spot.Marker)
			s.spots = append(s.spots[:i], s.spots[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.notifier.Success(fmt.Sprintf("Removed Spot %d", id))
}

// Clear removes every spot, releases all markers, and resets the id
// allocator back to 1.
func (s *Store) Clear() {
	s.mu.Lock()
	for _, spot := range s.spots {
		s.surface.Remove(spot.Marker)
	}
	s.spots = nil
	s.nextID = 1
	s.mu.Unlock()

	s.notifier.Success("All spots cleared")
}

// CanPlanRoute reports whether the store holds enough spots for a planning
// request.
func (s *Store) CanPlanRoute() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.spots) >= 2
}

// Count returns the number of stored spots.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.spots)
}

// Spots returns a copy of the spot collection in insertion order.
func (s *Store) Spots() []Spot {
	s.mu.Lock()
	defer s.mu.Unlock()

	spots := make([]Spot, len(s.spots))
	for i, spot := range s.spots {
		spots[i] = *spot
	}
	return spots
}

// Snapshot returns an immutable ordered copy of the waypoints for a
// planning request. Later store mutations do not affect it.
func (s *Store) Snapshot() []routing.Waypoint {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]routing.Waypoint, len(s.spots))
	for i, spot := range s.spots {
		snapshot[i] = routing.Waypoint{
			ID:    spot.ID,
			Coord: routing.Coordinate{Lat: spot.Lat, Lng: spot.Lng},
		}
	}
	return snapshot
}

// Ensure Store satisfies the coordinator's waypoint contract.
var _ routing.SpotSource = (*Store)(nil)
