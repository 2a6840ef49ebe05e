package stats

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	// steepGrade is the climbing grade (percent) above which the stopped
	// speed threshold is relaxed
	steepGrade = 15.0
	// steepSpeedFactor scales the stopped speed threshold on steep climbs
	steepSpeedFactor = 0.7
)

// ErrInvalidConfig is returned by Config.Validate for unusable thresholds
var ErrInvalidConfig = errors.New("invalid statistics config")

// Config holds the thresholds used by the aggregators
type Config struct {
	ElevationThreshold float64       // meters - hysteresis dead band for gain/loss
	DistanceThreshold  float64       // meters - jitter floor for distance and movement
	StoppedSpeed       float64       // km/h - intervals at or below this are stopped
	MinStopDuration    time.Duration // stop runs shorter than this count as moving
}

// DefaultConfig returns the default analysis thresholds
func DefaultConfig() Config {
	return Config{
		ElevationThreshold: 10.0,             // ignore barometric wobble below 10 m
		DistanceThreshold:  5.0,              // typical consumer GPS jitter
		StoppedSpeed:       0.5,              // km/h
		MinStopDuration:    30 * time.Second, // traffic lights, gates
	}
}

// Validate rejects negative or non-finite thresholds
func (c Config) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"elevation threshold", c.ElevationThreshold},
		{"distance threshold", c.DistanceThreshold},
		{"stopped speed", c.StoppedSpeed},
	}
	for _, check := range checks {
		if check.value < 0 || math.IsNaN(check.value) || math.IsInf(check.value, 0) {
			return fmt.Errorf("%w: %s must be a non-negative number, got %v", ErrInvalidConfig, check.name, check.value)
		}
	}
	if c.MinStopDuration < 0 {
		return fmt.Errorf("%w: minimum stop duration must not be negative, got %v", ErrInvalidConfig, c.MinStopDuration)
	}
	return nil
}

// LatLng is a plain coordinate pair in degrees
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ElevationSummary holds gain/loss and the raw elevation range
type ElevationSummary struct {
	Gain float64  // meters, rounded to 0.1
	Loss float64  // meters, rounded to 0.1
	Min  *float64 // nil without elevation data
	Max  *float64
}

// SpeedSummary holds speeds in km/h rounded to 0.1
type SpeedSummary struct {
	Max float64
	Avg float64
}

// BoundingBox is the axis-aligned lat/lon box of a point sequence
type BoundingBox struct {
	Start LatLng
	End   LatLng
	Min   *LatLng // nil for an empty sequence
	Max   *LatLng
}

// Empty reports whether the box was built from no points
func (b BoundingBox) Empty() bool {
	return b.Min == nil
}

// TimeSpan is the first and last timestamp of a sequence
type TimeSpan struct {
	Start    time.Time
	End      time.Time
	Duration time.Duration
}

// Known reports whether both ends of the span carry a timestamp
func (s TimeSpan) Known() bool {
	return !s.Start.IsZero() && !s.End.IsZero()
}

// MovementSummary splits a sequence's duration into moving and stopped time
type MovementSummary struct {
	Moving   time.Duration
	Stopped  time.Duration
	Duration time.Duration
}

// round1 rounds to one decimal place
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
