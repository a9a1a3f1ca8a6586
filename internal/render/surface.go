// Package render turns a plan result into map-surface drawing primitives
// and a human-readable itinerary panel.
package render

import (
	"github.com/tripmapper/tripmapper/internal/routing"
)

// Handle identifies a primitive placed on a surface. Handles are unique for
// the lifetime of the surface.
type Handle int

// PathStyle holds the visual parameters of a path primitive.
type PathStyle struct {
	Color   string
	Weight  int
	Opacity float64
}

// Marker is a point primitive. Label carries the visiting-order number for
// route stop markers and is empty for plain spot markers.
type Marker struct {
	Coord routing.Coordinate
	Label string
	Popup string
}

// Path is an ordered-coordinate primitive.
type Path struct {
	Coords []routing.Coordinate
	Style  PathStyle
}

// GeoBox is a geographic bounding box.
type GeoBox struct {
	MinLat float64
	MinLng float64
	MaxLat float64
	MaxLng float64
}

// Extend grows the box to include the coordinate.
func (b *GeoBox) Extend(c routing.Coordinate) {
	if c.Lat < b.MinLat {
		b.MinLat = c.Lat
	}
	if c.Lat > b.MaxLat {
		b.MaxLat = c.Lat
	}
	if c.Lng < b.MinLng {
		b.MinLng = c.Lng
	}
	if c.Lng > b.MaxLng {
		b.MaxLng = c.Lng
	}
}

// BoxAround computes the bounding box of a non-empty coordinate set.
func BoxAround(coords []routing.Coordinate) GeoBox {
	box := GeoBox{
		MinLat: coords[0].Lat,
		MaxLat: coords[0].Lat,
		MinLng: coords[0].Lng,
		MaxLng: coords[0].Lng,
	}
	for _, c := range coords[1:] {
		box.Extend(c)
	}
	return box
}

// Surface is the map-widget collaborator contract: it places and removes
// primitives and adjusts the viewport. Implementations must tolerate Remove
// calls for unknown handles.
type Surface interface {
	AddMarker(m Marker) Handle
	AddPath(p Path) Handle
	Remove(h Handle)
	FitBounds(b GeoBox, padding int)
}
