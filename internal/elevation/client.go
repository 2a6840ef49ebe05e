package elevation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the IGN altimetry elevation line endpoint
	DefaultBaseURL = "https://data.geopf.fr/altimetrie/calcul/alti/rest/elevationLine.json"
	// DefaultResource is the IGN elevation model queried by default
	DefaultResource = "ign_rge_alti_par_territoires"
	// MaxBatch is the largest number of points sent in one request
	MaxBatch = 5000
)

// Coordinate is a lat/lon pair sent to an elevation service
type Coordinate struct {
	Lat float64
	Lon float64
}

// Source returns one raw elevation value per coordinate, in order. A raw
// value is whatever the service sent: a number, a numeric string, or a
// sentinel.
type Source interface {
	FetchElevations(ctx context.Context, coords []Coordinate) ([]any, error)
}

// Client queries the IGN altimetry service
type Client struct {
	baseURL    string
	resource   string
	batchSize  int
	httpClient *http.Client
	logger     *log.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithBaseURL points the client at another endpoint
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithResource selects the elevation model
func WithResource(resource string) Option {
	return func(c *Client) { c.resource = resource }
}

// WithBatchSize limits the points per request (capped at MaxBatch)
func WithBatchSize(n int) Option {
	return func(c *Client) {
		if n > 0 && n <= MaxBatch {
			c.batchSize = n
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request progress
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates an IGN altimetry client
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		resource:  DefaultResource,
		batchSize: MaxBatch,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type elevationLineRequest struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Resource    string `json:"resource"`
	Delimiter   string `json:"delimiter"`
	ZOnly       string `json:"zonly"`
	Measures    string `json:"measures"`
	Indent      string `json:"indent"`
	ProfileMode string `json:"profile_mode"`
	Sampling    int    `json:"sampling"`
}

type elevationLineResponse struct {
	Elevations []any `json:"elevations"`
}

// FetchElevations requests elevations in batches of at most MaxBatch
// points and concatenates the results
func (c *Client) FetchElevations(ctx context.Context, coords []Coordinate) ([]any, error) {
	if len(coords) == 0 {
		return nil, nil
	}

	results := make([]any, 0, len(coords))
	for start := 0; start < len(coords); start += c.batchSize {
		end := min(start+c.batchSize, len(coords))
		c.logger.Printf("Requesting elevations for points %d-%d of %d", start+1, end, len(coords))

		batch, err := c.fetchBatch(ctx, coords[start:end])
		if err != nil {
			return nil, err
		}
		results = append(results, batch...)
	}
	return results, nil
}

func (c *Client) fetchBatch(ctx context.Context, coords []Coordinate) ([]any, error) {
	lats := make([]string, len(coords))
	lons := make([]string, len(coords))
	for i, coord := range coords {
		lats[i] = strconv.FormatFloat(coord.Lat, 'f', -1, 64)
		lons[i] = strconv.FormatFloat(coord.Lon, 'f', -1, 64)
	}

	body, err := json.Marshal(elevationLineRequest{
		Lat:         strings.Join(lats, "|"),
		Lon:         strings.Join(lons, "|"),
		Resource:    c.resource,
		Delimiter:   "|",
		ZOnly:       "true",
		Measures:    "false",
		Indent:      "false",
		ProfileMode: "accurate",
		Sampling:    len(coords),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("elevation API error %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var response elevationLineResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return response.Elevations, nil
}
