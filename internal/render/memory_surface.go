package render

import (
	"sort"
	"sync"

	"github.com/tripmapper/tripmapper/internal/routing"
	"github.com/tripmapper/tripmapper/pkg/polyline"
)

// MemorySurface is an in-memory Surface that records primitives so they can
// be serialized to clients as a render document. A map widget on the client
// replays the document onto the real surface.
type MemorySurface struct {
	mu       sync.RWMutex
	next     Handle
	markers  map[Handle]Marker
	paths    map[Handle]Path
	viewport *ViewportView
}

// NewMemorySurface creates an empty recording surface.
func NewMemorySurface() *MemorySurface {
	return &MemorySurface{
		markers: make(map[Handle]Marker),
		paths:   make(map[Handle]Path),
	}
}

// AddMarker records a marker primitive.
func (s *MemorySurface) AddMarker(m Marker) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	s.markers[s.next] = m
	return s.next
}

// AddPath records a path primitive.
func (s *MemorySurface) AddPath(p Path) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	coords := make([]routing.Coordinate, len(p.Coords))
	copy(coords, p.Coords)
	p.Coords = coords

	s.next++
	s.paths[s.next] = p
	return s.next
}

// Remove drops the primitive with the given handle. Unknown handles are
// ignored.
func (s *MemorySurface) Remove(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.markers, h)
	delete(s.paths, h)
}

// FitBounds records the requested viewport.
func (s *MemorySurface) FitBounds(b GeoBox, padding int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.viewport = &ViewportView{
		MinLat:  b.MinLat,
		MinLng:  b.MinLng,
		MaxLat:  b.MaxLat,
		MaxLng:  b.MaxLng,
		Padding: padding,
	}
}

// MarkerCount returns the number of recorded markers.
func (s *MemorySurface) MarkerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.markers)
}

// PathCount returns the number of recorded paths.
func (s *MemorySurface) PathCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.paths)
}

// Document serializes the surface state. Primitives are ordered by handle,
// which matches insertion order.
func (s *MemorySurface) Document() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc := Document{
		Markers: make([]MarkerView, 0, len(s.markers)),
		Paths:   make([]PathView, 0, len(s.paths)),
	}

	for _, h := range sortedHandles(s.markers) {
		m := s.markers[h]
		doc.Markers = append(doc.Markers, MarkerView{
			ID:    int(h),
			Lat:   m.Coord.Lat,
			Lng:   m.Coord.Lng,
			Label: m.Label,
			Popup: m.Popup,
		})
	}

	for _, h := range sortedHandles(s.paths) {
		p := s.paths[h]
		line := make([]polyline.Coordinate, len(p.Coords))
		pairs := make([][]float64, len(p.Coords))
		for i, c := range p.Coords {
			line[i] = polyline.Coordinate{Lat: c.Lat, Lng: c.Lng}
			pairs[i] = []float64{c.Lat, c.Lng}
		}
		doc.Paths = append(doc.Paths, PathView{
			ID:           int(h),
			Coords:       pairs,
			Polyline:     polyline.Encode(line),
			LengthMeters: polyline.Length(line),
			Color:        p.Style.Color,
			Weight:       p.Style.Weight,
			Opacity:      p.Style.Opacity,
		})
	}

	if s.viewport != nil {
		cpy := *s.viewport
		doc.Viewport = &cpy
	}

	return doc
}

func sortedHandles[T any](m map[Handle]T) []Handle {
	handles := make([]Handle, 0, len(m))
	for h := range m {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })
	return handles
}

// Ensure MemorySurface implements Surface.
var _ Surface = (*MemorySurface)(nil)
