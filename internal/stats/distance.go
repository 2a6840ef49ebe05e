package stats

import (
	"math"

	"github.com/planbiir/gstat/internal/geo"
	"github.com/planbiir/gstat/internal/track"
)

// TotalDistance sums the haversine distance along the points in meters.
//
// A move shorter than threshold from the last accepted point is dropped
// entirely and the last accepted point stays put. Successive small moves
// are never accumulated, so slow jittery tracks undercount.
func TotalDistance(points []track.Point, threshold float64) float64 {
	if len(points) < 2 {
		return 0
	}

	var total float64
	last := points[0]

	for _, pt := range points[1:] {
		if geo.Equal(pt.Lat, pt.Lon, last.Lat, last.Lon) {
			continue
		}

		dist := geo.Distance(last.Lat, last.Lon, pt.Lat, pt.Lon)
		if math.IsNaN(dist) || dist < threshold {
			continue
		}

		total += dist
		last = pt
	}

	return round1(total)
}
