// Package maps implements domain.Mapper against the Google Maps web services:
// the Distance Matrix API for driving distances and the Places Nearby API for
// school/hospital lookups.
package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/golang/geo/s2"

	"github.com/abhijithns29/propchain/internal/domain"
	"github.com/abhijithns29/propchain/internal/observability"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api"

// Client implements domain.Mapper using the Google Maps APIs.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Google Maps client. Every call is bounded by timeout.
func NewClient(apiKey string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: defaultBaseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// DrivingDistance returns the road distance in kilometers between two points.
// ok is false when the API reports no drivable route.
func (c *Client) DrivingDistance(ctx context.Context, origin, dest domain.LatLng) (float64, bool, error) {
	params := url.Values{
		"origins":      {fmt.Sprintf("%.6f,%.6f", origin.Lat, origin.Lng)},
		"destinations": {fmt.Sprintf("%.6f,%.6f", dest.Lat, dest.Lng)},
		"mode":         {"driving"},
		"key":          {c.apiKey},
	}

	var resp distanceMatrixResponse
	if err := c.doRequest(ctx, "driving", c.baseURL+"/distancematrix/json?"+params.Encode(), &resp); err != nil {
		return 0, false, err
	}

	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		c.metrics.MapsRequests.WithLabelValues("driving", "empty").Inc()
		return 0, false, nil
	}

	element := resp.Rows[0].Elements[0]
	if element.Status != "OK" {
		c.metrics.MapsRequests.WithLabelValues("driving", "empty").Inc()
		return 0, false, nil
	}

	c.metrics.MapsRequests.WithLabelValues("driving", "success").Inc()
	return float64(element.Distance.Value) / 1000, true, nil
}

// NearestPlace returns the closest place of the given type within
// radiusMeters of the point, or found=false when the search comes back empty.
func (c *Client) NearestPlace(ctx context.Context, around domain.LatLng, radiusMeters int, placeType domain.PlaceType) (domain.LatLng, bool, error) {
	params := url.Values{
		"location": {fmt.Sprintf("%.6f,%.6f", around.Lat, around.Lng)},
		"radius":   {fmt.Sprintf("%d", radiusMeters)},
		"type":     {string(placeType)},
		"key":      {c.apiKey},
	}

	var resp placesResponse
	if err := c.doRequest(ctx, "places", c.baseURL+"/place/nearbysearch/json?"+params.Encode(), &resp); err != nil {
		return domain.LatLng{}, false, err
	}

	if len(resp.Results) == 0 {
		c.metrics.MapsRequests.WithLabelValues("places", "empty").Inc()
		return domain.LatLng{}, false, nil
	}

	c.metrics.MapsRequests.WithLabelValues("places", "success").Inc()
	return nearestCandidate(around, resp.Results), true, nil
}

// nearestCandidate picks the result closest to the search point by
// great-circle distance.
func nearestCandidate(around domain.LatLng, results []placeResult) domain.LatLng {
	origin := s2.LatLngFromDegrees(around.Lat, around.Lng)

	best := results[0].Geometry.Location
	bestAngle := origin.Distance(s2.LatLngFromDegrees(best.Lat, best.Lng))

	for _, r := range results[1:] {
		loc := r.Geometry.Location
		if angle := origin.Distance(s2.LatLngFromDegrees(loc.Lat, loc.Lng)); angle < bestAngle {
			best = loc
			bestAngle = angle
		}
	}

	return domain.LatLng{Lat: best.Lat, Lng: best.Lng}
}

func (c *Client) doRequest(ctx context.Context, op, fullURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.MapsAPIDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.MapsRequests.WithLabelValues(op, "error").Inc()
		return fmt.Errorf("%s request: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.MapsRequests.WithLabelValues(op, "error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("maps API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.MapsRequests.WithLabelValues(op, "error").Inc()
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

// Google Maps API response types.

type distanceMatrixResponse struct {
	Rows []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value int `json:"value"` // meters
			} `json:"distance"`
		} `json:"elements"`
	} `json:"rows"`
	Status string `json:"status"`
}

type placesResponse struct {
	Results []placeResult `json:"results"`
	Status  string        `json:"status"`
}

type placeResult struct {
	Name     string `json:"name"`
	Geometry struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}
