// ABOUTME: Elevation lookup collaborator for altitude backfill
// ABOUTME: Batched coordinate-to-elevation queries over HTTP or in memory

package elevation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harper/trackedit/internal/models"
)

// StatusOK is the only response status that carries usable data.
const StatusOK = "OK"

// DefaultTimeout bounds a single batched lookup.
const DefaultTimeout = 10 * time.Second

// Response is a batched elevation answer keyed by "lat,lng".
type Response struct {
	Status     string            `json:"status"`
	Elevations map[string]string `json:"elevations"`
}

// OK reports whether the response carries usable data.
func (r Response) OK() bool {
	return r.Status == StatusOK
}

// Lookup resolves elevations for a batch of positions.
type Lookup interface {
	Elevations(ctx context.Context, positions []models.Position) (Response, error)
}

// Key formats a coordinate pair the way responses are keyed.
func Key(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
}

// Client queries an HTTP elevation service.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *log.Logger
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL, apiKey string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  logger.WithPrefix("elevation"),
	}
}

// Compile-time check that Client implements Lookup.
var _ Lookup = (*Client)(nil)

// Elevations requests all positions in one call.
func (c *Client) Elevations(ctx context.Context, positions []models.Position) (Response, error) {
	if len(positions) == 0 {
		return Response{Status: StatusOK, Elevations: map[string]string{}}, nil
	}

	locations := make([]string, len(positions))
	for i, p := range positions {
		locations[i] = Key(p.Latitude, p.Longitude)
	}

	q := url.Values{}
	q.Set("locations", strings.Join(locations, "|"))
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Response{}, fmt.Errorf("build request: %w", err)
	}

	c.logger.Debug("requesting elevations", "points", len(positions))
	resp, err := c.http.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("request elevations: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("elevation service returned error", "status", resp.StatusCode)
		return Response{Status: strconv.Itoa(resp.StatusCode)}, nil
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Response{}, fmt.Errorf("decode elevations: %w", err)
	}
	return out, nil
}

// Static answers lookups from a fixed table.
type Static struct {
	Status string
	Table  map[string]string
	Calls  int
}

// Compile-time check that Static implements Lookup.
var _ Lookup = (*Static)(nil)

// Elevations returns the table entries for the requested positions.
func (s *Static) Elevations(_ context.Context, positions []models.Position) (Response, error) {
	s.Calls++
	status := s.Status
	if status == "" {
		status = StatusOK
	}
	out := Response{Status: status, Elevations: make(map[string]string, len(positions))}
	for _, p := range positions {
		k := Key(p.Latitude, p.Longitude)
		if v, ok := s.Table[k]; ok {
			out.Elevations[k] = v
		}
	}
	return out, nil
}
