package render

// Document is the serialized state of a recording surface, replayed by map
// widget clients.
type Document struct {
	Markers  []MarkerView  `json:"markers"`
	Paths    []PathView    `json:"paths"`
	Viewport *ViewportView `json:"viewport,omitempty"`
}

// MarkerView is a serialized marker primitive.
type MarkerView struct {
	ID    int     `json:"id"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Label string  `json:"label,omitempty"`
	Popup string  `json:"popup,omitempty"`
}

// PathView is a serialized path primitive. Geometry is carried both as raw
// [lat, lng] pairs and as an encoded polyline for clients that prefer it.
type PathView struct {
	ID           int         `json:"id"`
	Coords       [][]float64 `json:"coords"`
	Polyline     string      `json:"polyline"`
	LengthMeters float64     `json:"lengthMeters"`
	Color        string      `json:"color"`
	Weight       int         `json:"weight"`
	Opacity      float64     `json:"opacity"`
}

// ViewportView is the requested viewport: a bounding box fitted with a
// fixed pixel padding.
type ViewportView struct {
	MinLat  float64 `json:"minLat"`
	MinLng  float64 `json:"minLng"`
	MaxLat  float64 `json:"maxLat"`
	MaxLng  float64 `json:"maxLng"`
	Padding int     `json:"padding"`
}

// Itinerary is the results panel populated after a successful plan.
type Itinerary struct {
	// TotalDistance is the formatted service-reported distance, e.g. "12.34 km".
	TotalDistance string `json:"totalDistance"`
	// Stops lists the visiting order; coordinates use fixed 4-decimal precision.
	Stops []ItineraryStop `json:"stops"`
}

// ItineraryStop is one entry of the itinerary, 1-based.
type ItineraryStop struct {
	Position    int    `json:"position"`
	SpotID      int    `json:"spotId"`
	Coordinates string `json:"coordinates"`
}
