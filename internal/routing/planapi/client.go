// Package planapi provides a client for the external route-optimization
// service's plan_route API.
package planapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripmapper/tripmapper/internal/provider/resilience"
	"github.com/tripmapper/tripmapper/internal/routing"
)

const (
	// ProviderName identifies this planning provider.
	ProviderName = "planapi"

	// DefaultBaseURL is the optimizer base URL for local development.
	DefaultBaseURL = "http://localhost:5000"

	// DefaultTimeout is the default request timeout. Planning runs a TSP
	// heuristic plus per-leg road lookups server-side, so it is slower than
	// a plain directions call.
	DefaultTimeout = 25 * time.Second

	planPath = "/plan_route"
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// MetricsRecorder records timing for provider calls.
type MetricsRecorder interface {
	RecordRequest(provider, operation string, duration time.Duration, err error)
}

// ClientConfig holds configuration for the plan API client.
type ClientConfig struct {
	// BaseURL is the optimizer base URL (optional, defaults to local dev).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 25s).
	Timeout time.Duration

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Metrics records provider call timings (optional).
	Metrics MetricsRecorder

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a plan API client.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	registry   *resilience.Registry
	metrics    MetricsRecorder
	logger     zerolog.Logger
}

// NewClient creates a new plan API client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		client := resilience.NewClient(clientCfg)
		if cfg.Registry != nil {
			cfg.Registry.Register(ProviderName, client)
		}
		httpClient = client
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		registry:   cfg.Registry,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// PlanRoute submits the coordinate sequence and returns the optimized route.
func (c *Client) PlanRoute(ctx context.Context, coords []routing.Coordinate) (*routing.RouteResult, error) {
	if len(coords) < 2 {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "TOO_FEW_COORDINATES",
			Message:  "Please select at least 2 spots to plan a route",
			Err:      routing.ErrNotEnoughSpots,
		}
	}
	for i, coord := range coords {
		if err := validateCoordinate(coord); err != nil {
			return nil, &routing.Error{
				Provider: ProviderName,
				Code:     "INVALID_COORDINATE",
				Message:  fmt.Sprintf("invalid coordinate at position %d", i),
				Err:      err,
			}
		}
	}

	// The wire format carries pairs in [lat, lng] order.
	body, err := json.Marshal(planRequest{Coordinates: toPairs(coords)})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+planPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Int("coordinate_count", len(coords)).
		Str("provider", ProviderName).
		Msg("requesting route plan")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	c.recordTiming(time.Since(start), err)
	if err != nil {
		c.recordFailure(err)
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "Failed to plan route",
			Err:      routing.ErrProviderUnavailable,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.recordFailure(err)
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var planResp planResponse
	if decodeErr := json.Unmarshal(respBody, &planResp); decodeErr != nil {
		// Status handling below still wants whatever error text is present,
		// so a decode failure only matters on a 2xx response.
		if resp.StatusCode == http.StatusOK {
			c.recordFailure(decodeErr)
			return nil, &routing.Error{
				Provider: ProviderName,
				Code:     "MALFORMED_RESPONSE",
				Message:  "Failed to plan route",
				Err:      routing.ErrPlanRejected,
			}
		}
	}

	// Transport success and an explicit success flag are both required.
	if resp.StatusCode != http.StatusOK || !planResp.Success {
		err := c.planError(resp.StatusCode, &planResp)
		c.recordFailure(err)
		return nil, err
	}

	if c.registry != nil {
		c.registry.RecordSuccess(ProviderName)
	}

	result := toRouteResult(&planResp)

	c.logger.Debug().
		Int("route_coords", len(result.RouteCoords)).
		Int("road_segments", len(result.RoadSegments)).
		Float64("total_distance_km", result.TotalDistanceKm).
		Msg("received route plan")

	return result, nil
}

// planError maps a failed plan response to a domain error, surfacing the
// service-supplied message verbatim when one is present.
func (c *Client) planError(statusCode int, resp *planResponse) error {
	message := resp.Error
	code := "PLAN_REJECTED"
	cause := routing.ErrPlanRejected

	switch {
	case statusCode >= 500:
		code = fmt.Sprintf("SERVER_%d", statusCode)
		cause = routing.ErrProviderUnavailable
		if message == "" {
			message = "route planning service is temporarily unavailable"
		}
	case statusCode != http.StatusOK:
		code = fmt.Sprintf("HTTP_%d", statusCode)
	}

	if message == "" {
		message = "Failed to plan route"
	}

	return &routing.Error{
		Provider: ProviderName,
		Code:     code,
		Message:  message,
		Err:      cause,
	}
}

func (c *Client) recordFailure(err error) {
	if c.registry != nil {
		c.registry.RecordFailure(ProviderName, err)
	}
}

func (c *Client) recordTiming(d time.Duration, err error) {
	if c.metrics != nil {
		c.metrics.RecordRequest(ProviderName, "plan_route", d, err)
	}
}

func toPairs(coords []routing.Coordinate) [][]float64 {
	pairs := make([][]float64, len(coords))
	for i, coord := range coords {
		pairs[i] = []float64{coord.Lat, coord.Lng}
	}
	return pairs
}

func fromPairs(pairs [][]float64) []routing.Coordinate {
	coords := make([]routing.Coordinate, 0, len(pairs))
	for _, p := range pairs {
		if len(p) < 2 {
			continue
		}
		coords = append(coords, routing.Coordinate{Lat: p[0], Lng: p[1]})
	}
	return coords
}

// toRouteResult converts a wire response to the domain model.
func toRouteResult(resp *planResponse) *routing.RouteResult {
	result := &routing.RouteResult{
		RouteCoords:     fromPairs(resp.RouteCoords),
		VisitingOrder:   resp.VisitingOrder,
		TotalDistanceKm: resp.TotalDistance,
	}
	for _, segment := range resp.RoadSegments {
		result.RoadSegments = append(result.RoadSegments, fromPairs(segment))
	}
	return result
}

// validateCoordinate checks that a coordinate is within valid ranges.
func validateCoordinate(c routing.Coordinate) error {
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("latitude %f out of range [-90, 90]", c.Lat)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("longitude %f out of range [-180, 180]", c.Lng)
	}
	return nil
}
