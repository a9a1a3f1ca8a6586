package planapi

// planRequest is the plan_route API request body. Coordinate pairs are in
// [lat, lng] order.
type planRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

// planResponse is the plan_route API response body.
type planResponse struct {
	Success       bool          `json:"success"`
	RouteCoords   [][]float64   `json:"route_coords"`
	VisitingOrder []int         `json:"visiting_order"`
	TotalDistance float64       `json:"total_distance"`
	RoadSegments  [][][]float64 `json:"road_segments,omitempty"`
	Error         string        `json:"error,omitempty"`
}
