// Package handler provides HTTP handlers for the TripMapper API.
package handler

import (
	"net/http"
	"time"

	"github.com/tripmapper/tripmapper/internal/api/models"
	"github.com/tripmapper/tripmapper/internal/api/response"
	"github.com/tripmapper/tripmapper/internal/provider/resilience"
	"github.com/tripmapper/tripmapper/internal/trip"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	providers *resilience.Registry
	trips     *trip.Registry
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string, providers *resilience.Registry, trips *trip.Registry) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		providers: providers,
		trips:     trips,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
// The service holds all state in memory, so readiness follows liveness.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}
	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - provider and session status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	status := models.SystemStatus{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}

	if h.trips != nil {
		status.ActiveTrips = h.trips.Count()
	}

	if h.providers != nil {
		for _, ph := range h.providers.GetAllHealth() {
			ps := models.ProviderStatus{
				Provider:     ph.Name,
				Status:       providerHealthStatus(ph),
				CircuitState: ph.CircuitState.String(),
			}
			if ph.LastSuccessAt != nil {
				t := models.Timestamp(*ph.LastSuccessAt)
				ps.LastSuccessAt = &t
			}
			if ph.LastFailureAt != nil {
				t := models.Timestamp(*ph.LastFailureAt)
				ps.LastFailureAt = &t
			}
			if ph.LastError != "" {
				msg := ph.LastError
				ps.Message = &msg
			}
			status.Providers = append(status.Providers, ps)

			// An open circuit on any provider degrades the whole service.
			if !ph.IsHealthy() && status.Status == models.HealthStatusOK {
				status.Status = models.HealthStatusDegraded
			}
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}

func providerHealthStatus(ph *resilience.ProviderHealth) models.HealthStatus {
	switch {
	case ph.IsUnhealthy():
		return models.HealthStatusFail
	case ph.IsDegraded():
		return models.HealthStatusDegraded
	default:
		return models.HealthStatusOK
	}
}
