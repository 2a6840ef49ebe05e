package stats

import (
	"time"

	"github.com/planbiir/gstat/internal/geo"
	"github.com/planbiir/gstat/internal/track"
)

type motionState int

const (
	stateMoving motionState = iota
	statePotentialStop
)

// movementClassifier debounces a moving/stopped interval stream. Stop runs
// shorter than MinStopDuration that end in a moving interval are folded
// back into moving time.
type movementClassifier struct {
	cfg     Config
	state   motionState
	run     time.Duration // length of the pending stop run
	moving  time.Duration
	stopped time.Duration
}

func (m *movementClassifier) observe(elapsed time.Duration, moving bool) {
	if !moving {
		m.stopped += elapsed
		m.run += elapsed
		m.state = statePotentialStop
		return
	}

	m.moving += elapsed
	if m.state == statePotentialStop {
		if m.run < m.cfg.MinStopDuration {
			m.stopped -= m.run
			m.moving += m.run
		}
		m.run = 0
		m.state = stateMoving
	}
}

// speedThreshold returns the stopped speed limit for the interval from a
// to b. Steep climbs are slow but still moving.
func (m *movementClassifier) speedThreshold(a, b track.Point, dist float64) float64 {
	if a.Elevation == nil || b.Elevation == nil || dist <= 0 {
		return m.cfg.StoppedSpeed
	}
	rise := *b.Elevation - *a.Elevation
	if rise > 0 && geo.Grade(rise, dist) > steepGrade {
		return m.cfg.StoppedSpeed * steepSpeedFactor
	}
	return m.cfg.StoppedSpeed
}

// Movement classifies each interval between timestamped points as moving
// or stopped and returns the totals.
//
// An interval is moving when its speed is above the (grade adjusted)
// stopped speed and it covers at least DistanceThreshold. A stop run still
// open at the end of the sequence stays stopped. The totals are then
// reconciled so Moving+Stopped equals the first-to-last point duration
// whenever both ends carry a timestamp.
func Movement(points []track.Point, cfg Config) MovementSummary {
	c := movementClassifier{cfg: cfg}

	var last *track.Point
	for i := range points {
		pt := &points[i]
		if !pt.HasTime() {
			continue
		}
		if last == nil {
			last = pt
			continue
		}

		elapsed := pt.Time.Sub(last.Time)
		if elapsed <= 0 {
			last = pt
			continue
		}

		dist := geo.Distance(last.Lat, last.Lon, pt.Lat, pt.Lon)
		speed := geo.SpeedKmh(dist, elapsed.Seconds())
		threshold := c.speedThreshold(*last, *pt, dist)

		c.observe(elapsed, speed > threshold && dist >= cfg.DistanceThreshold)
		last = pt
	}

	span := Span(points)
	summary := MovementSummary{
		Moving:   c.moving,
		Stopped:  c.stopped,
		Duration: span.Duration,
	}
	if span.Known() {
		summary.reconcile()
	}
	return summary
}

// reconcile absorbs any difference between the classified totals and the
// overall duration into moving time, spilling into stopped time only when
// moving time would go negative.
func (s *MovementSummary) reconcile() {
	if s.Duration < 0 {
		return
	}
	s.Moving += s.Duration - (s.Moving + s.Stopped)
	if s.Moving < 0 {
		s.Stopped += s.Moving
		s.Moving = 0
	}
}
