package models

import "github.com/tripmapper/tripmapper/internal/render"

// SpotRequest is the body for placing a new spot on a trip.
type SpotRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SpotResponse represents a single stored spot.
type SpotResponse struct {
	ID  int     `json:"id"`
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PlanAffordance mirrors the plan-route control: whether it is enabled
// and which label it should show.
type PlanAffordance struct {
	Enabled bool   `json:"enabled"`
	Label   string `json:"label"`
}

// Notice is the currently visible status message, if any.
type Notice struct {
	Text     string `json:"text"`
	Severity string `json:"severity"`
}

// TripResponse is the full state of one trip session.
type TripResponse struct {
	TripID    string            `json:"tripId"`
	CreatedAt Timestamp         `json:"createdAt"`
	Spots     []SpotResponse    `json:"spots"`
	Plan      PlanAffordance    `json:"plan"`
	Notice    *Notice           `json:"notice,omitempty"`
	Map       render.Document   `json:"map"`
	Itinerary *render.Itinerary `json:"itinerary,omitempty"`
}
