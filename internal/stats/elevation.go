package stats

import (
	"math"

	"github.com/planbiir/gstat/internal/track"
)

// Elevation computes cumulative gain and loss with a hysteresis threshold.
//
// The baseline only moves when a change reaches the threshold, so noise
// inside the dead band never resets the reference. Min and max cover every
// known elevation regardless of the threshold.
func Elevation(points []track.Point, threshold float64) ElevationSummary {
	var (
		summary    ElevationSummary
		gain, loss float64
		baseline   *float64
		lo, hi     float64
	)

	for _, pt := range points {
		if pt.Elevation == nil {
			continue
		}
		ele := *pt.Elevation

		if baseline == nil {
			base := ele
			baseline = &base
			lo, hi = ele, ele
			continue
		}

		lo = math.Min(lo, ele)
		hi = math.Max(hi, ele)

		delta := ele - *baseline
		switch {
		case delta >= threshold:
			gain += delta
			*baseline = ele
		case delta <= -threshold:
			loss += math.Abs(delta)
			*baseline = ele
		}
	}

	summary.Gain = round1(gain)
	summary.Loss = round1(loss)
	if baseline != nil {
		summary.Min = &lo
		summary.Max = &hi
	}
	return summary
}
