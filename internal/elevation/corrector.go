package elevation

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/planbiir/gstat/internal/track"
)

// NoData is the service sentinel; values at or below it are rejected
const NoData = -9999.0

// Corrector overwrites point elevations with values from a Source
type Corrector struct {
	source Source
}

// NewCorrector creates a Corrector backed by source
func NewCorrector(source Source) *Corrector {
	return &Corrector{source: source}
}

// Correct fetches elevations for every point and applies them in place.
// It returns the number of points updated.
func (c *Corrector) Correct(ctx context.Context, points []*track.Point) (int, error) {
	if len(points) == 0 {
		return 0, nil
	}

	coords := make([]Coordinate, len(points))
	for i, pt := range points {
		coords[i] = Coordinate{Lat: pt.Lat, Lon: pt.Lon}
	}

	values, err := c.source.FetchElevations(ctx, coords)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch elevations: %w", err)
	}
	return Apply(points, values), nil
}

// Apply writes values[i] into points[i] when it is an accepted elevation.
// Missing, non-numeric and sentinel values leave the point untouched.
func Apply(points []*track.Point, values []any) int {
	updated := 0
	for i, pt := range points {
		if i >= len(values) {
			break
		}
		if z, ok := Accept(values[i]); ok {
			pt.SetElevation(z)
			updated++
		}
	}
	return updated
}

// Accept reports whether raw is a numeric elevation strictly above NoData
func Accept(raw any) (float64, bool) {
	var z float64
	switch v := raw.(type) {
	case float64:
		z = v
	case float32:
		z = float64(v)
	case int:
		z = float64(v)
	case int64:
		z = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		z = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		z = f
	default:
		return 0, false
	}

	if math.IsNaN(z) || math.IsInf(z, 0) || z <= NoData {
		return 0, false
	}
	return z, true
}
