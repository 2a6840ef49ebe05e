package stats

import (
	"math"

	"github.com/planbiir/gstat/internal/geo"
	"github.com/planbiir/gstat/internal/track"
)

// Speed computes maximum and average speed in km/h from timestamped points
func Speed(points []track.Point) SpeedSummary {
	if len(points) < 2 {
		return SpeedSummary{}
	}

	var (
		maxSpeed  float64
		totalDist float64
		totalTime float64 // seconds
	)
	last := points[0]

	for _, pt := range points[1:] {
		if !last.HasTime() || !pt.HasTime() {
			continue
		}
		if geo.Equal(pt.Lat, pt.Lon, last.Lat, last.Lon) {
			continue
		}

		dist := geo.Distance(last.Lat, last.Lon, pt.Lat, pt.Lon)
		dt := pt.Time.Sub(last.Time).Seconds()

		if dist > 0 && dt > 0 {
			maxSpeed = math.Max(maxSpeed, geo.SpeedKmh(dist, dt))
			totalDist += dist
			totalTime += dt
		}

		// Advance even without a contribution so a bad timestamp
		// cannot wedge the accumulator.
		last = pt
	}

	summary := SpeedSummary{Max: round1(maxSpeed)}
	if totalTime > 0 {
		summary.Avg = round1(geo.SpeedKmh(totalDist, totalTime))
	}
	return summary
}
