package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tripmapper/tripmapper/internal/api/models"
	"github.com/tripmapper/tripmapper/internal/api/response"
	"github.com/tripmapper/tripmapper/internal/routing"
	"github.com/tripmapper/tripmapper/internal/trip"
)

// Plan affordance labels.
const (
	planLabelIdle     = "Plan Route"
	planLabelPlanning = "Planning..."
)

// TripHandler handles trip session endpoints.
type TripHandler struct {
	trips *trip.Registry
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(trips *trip.Registry) *TripHandler {
	return &TripHandler{trips: trips}
}

// CreateTrip handles POST /v1/trips - start a new trip session.
func (h *TripHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	t := h.trips.Create()
	response.Created(w, r, "/v1/trips/"+t.ID, tripState(t))
}

// GetTrip handles GET /v1/trips/{tripId} - full trip state.
func (h *TripHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	t, ok := h.lookup(w, r)
	if !ok {
		return
	}
	response.JSON(w, r, http.StatusOK, tripState(t))
}

// DeleteTrip handles DELETE /v1/trips/{tripId} - session teardown.
// Deleting an unknown trip is a no-op.
func (h *TripHandler) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	h.trips.Delete(chi.URLParam(r, "tripId"))
	response.NoContent(w, r)
}

// AddSpot handles POST /v1/trips/{tripId}/spots - place a waypoint.
func (h *TripHandler) AddSpot(w http.ResponseWriter, r *http.Request) {
	t, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req models.SpotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	if fieldErrs := validateSpot(req); len(fieldErrs) > 0 {
		response.BadRequest(w, r, "invalid coordinates", fieldErrs)
		return
	}

	id := t.AddSpot(req.Lat, req.Lng)
	location := fmt.Sprintf("/v1/trips/%s/spots/%d", t.ID, id)
	response.Created(w, r, location, models.SpotResponse{ID: id, Lat: req.Lat, Lng: req.Lng})
}

// RemoveSpot handles DELETE /v1/trips/{tripId}/spots/{spotId}.
// Removing an unknown spot id is a no-op, matching the store semantics.
func (h *TripHandler) RemoveSpot(w http.ResponseWriter, r *http.Request) {
	t, ok := h.lookup(w, r)
	if !ok {
		return
	}

	spotID, err := strconv.Atoi(chi.URLParam(r, "spotId"))
	if err != nil {
		response.BadRequest(w, r, "spot id must be an integer", nil)
		return
	}

	t.RemoveSpot(spotID)
	response.NoContent(w, r)
}

// ClearSpots handles DELETE /v1/trips/{tripId}/spots - remove every spot
// and tear down any rendered route.
func (h *TripHandler) ClearSpots(w http.ResponseWriter, r *http.Request) {
	t, ok := h.lookup(w, r)
	if !ok {
		return
	}

	t.ClearAll()
	response.NoContent(w, r)
}

// PlanRoute handles POST /v1/trips/{tripId}/route:plan - one planning cycle
// against the external optimizer.
func (h *TripHandler) PlanRoute(w http.ResponseWriter, r *http.Request) {
	t, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if _, err := t.PlanRoute(r.Context()); err != nil {
		switch {
		case errors.Is(err, routing.ErrPlanInFlight):
			response.Conflict(w, r, "a route request is already in flight for this trip")
		case errors.Is(err, routing.ErrNotEnoughSpots):
			response.UnprocessableEntity(w, r, "Please select at least 2 spots to plan a route")
		default:
			response.BadGateway(w, r, planFailureDetail(err))
		}
		return
	}

	response.JSON(w, r, http.StatusOK, tripState(t))
}

// ClearRoute handles DELETE /v1/trips/{tripId}/route - tear down the
// rendered route, keeping the spots.
func (h *TripHandler) ClearRoute(w http.ResponseWriter, r *http.Request) {
	t, ok := h.lookup(w, r)
	if !ok {
		return
	}

	t.ClearRoute()
	response.NoContent(w, r)
}

// lookup resolves the tripId route parameter, writing a 404 problem when
// the trip does not exist.
func (h *TripHandler) lookup(w http.ResponseWriter, r *http.Request) (*trip.Trip, bool) {
	t, err := h.trips.Get(chi.URLParam(r, "tripId"))
	if err != nil {
		response.NotFound(w, r, "trip not found")
		return nil, false
	}
	return t, true
}

// planFailureDetail surfaces the most specific user-facing message carried
// by a failed planning attempt.
func planFailureDetail(err error) string {
	var provErr *routing.Error
	if errors.As(err, &provErr) {
		return provErr.UserMessage()
	}
	return "Failed to plan route"
}

// tripState assembles the full trip response: spots, plan affordance,
// current notice, render document, and itinerary panel.
func tripState(t *trip.Trip) models.TripResponse {
	spots := t.Spots()
	resp := models.TripResponse{
		TripID:    t.ID,
		CreatedAt: models.Timestamp(t.CreatedAt),
		Spots:     make([]models.SpotResponse, len(spots)),
		Plan:      planAffordance(t),
		Map:       t.Document(),
		Itinerary: t.Itinerary(),
	}
	for i, s := range spots {
		resp.Spots[i] = models.SpotResponse{ID: s.ID, Lat: s.Lat, Lng: s.Lng}
	}
	if msg := t.Notice(); msg != nil {
		resp.Notice = &models.Notice{Text: msg.Text, Severity: string(msg.Severity)}
	}
	return resp
}

// planAffordance derives the plan control state: disabled while a request
// is in flight or while fewer than two spots are placed.
func planAffordance(t *trip.Trip) models.PlanAffordance {
	if t.Planning() {
		return models.PlanAffordance{Enabled: false, Label: planLabelPlanning}
	}
	return models.PlanAffordance{Enabled: t.CanPlanRoute(), Label: planLabelIdle}
}

func validateSpot(req models.SpotRequest) []models.FieldError {
	var fieldErrs []models.FieldError
	if req.Lat < -90 || req.Lat > 90 {
		fieldErrs = append(fieldErrs, models.FieldError{
			Field:   "lat",
			Message: "must be between -90 and 90",
			Code:    "out_of_range",
		})
	}
	if req.Lng < -180 || req.Lng > 180 {
		fieldErrs = append(fieldErrs, models.FieldError{
			Field:   "lng",
			Message: "must be between -180 and 180",
			Code:    "out_of_range",
		})
	}
	return fieldErrs
}
