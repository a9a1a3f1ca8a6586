// Package trip provides trip sessions: each holds the user-placed waypoints
// and the collaborators that plan and render routes over them.
package trip

import (
	"errors"

	"github.com/tripmapper/tripmapper/internal/render"
)

// Registry errors.
var (
	ErrTripNotFound = errors.New("trip not found")
)

// Spot is a user-placed waypoint. Coordinates are immutable once created;
// the marker handle is owned exclusively by the spot and released with it.
type Spot struct {
	ID     int
	Lat    float64
	Lng    float64
	Marker render.Handle
}
