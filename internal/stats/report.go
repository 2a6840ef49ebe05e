package stats

import (
	"encoding/json"
	"time"

	"github.com/planbiir/gstat/internal/track"
)

// Report is a read-only snapshot of every aggregate computed over one
// point sequence. It holds no reference to the points.
type Report struct {
	ElevationGain float64
	ElevationLoss float64
	MinElevation  *float64
	MaxElevation  *float64

	TotalDistance float64 // meters
	AvgSpeed      float64 // km/h
	MaxSpeed      float64 // km/h

	StartTime   time.Time // zero when unknown
	EndTime     time.Time
	Duration    time.Duration
	MovingTime  time.Duration
	StoppedTime time.Duration

	StartLat       float64
	StartLng       float64
	EndLat         float64
	EndLng         float64
	MinCoordinates *LatLng // nil for an empty sequence
	MaxCoordinates *LatLng
}

// NewReport runs every aggregator over points with the given thresholds
func NewReport(points []track.Point, cfg Config) Report {
	elevation := Elevation(points, cfg.ElevationThreshold)
	speed := Speed(points)
	span := Span(points)
	movement := Movement(points, cfg)
	box := Bounds(points)

	return Report{
		ElevationGain:  elevation.Gain,
		ElevationLoss:  elevation.Loss,
		MinElevation:   elevation.Min,
		MaxElevation:   elevation.Max,
		TotalDistance:  TotalDistance(points, cfg.DistanceThreshold),
		AvgSpeed:       speed.Avg,
		MaxSpeed:       speed.Max,
		StartTime:      span.Start,
		EndTime:        span.End,
		Duration:       movement.Duration,
		MovingTime:     movement.Moving,
		StoppedTime:    movement.Stopped,
		StartLat:       box.Start.Lat,
		StartLng:       box.Start.Lng,
		EndLat:         box.End.Lat,
		EndLng:         box.End.Lng,
		MinCoordinates: box.Min,
		MaxCoordinates: box.Max,
	}
}

// FileReport analyses every point of the file as one sequence
func FileReport(f *track.File, cfg Config) Report {
	return NewReport(f.FlattenPoints(), cfg)
}

// SegmentReports analyses each segment of the file independently
func SegmentReports(f *track.File, cfg Config) []Report {
	segments := f.Segments()
	reports := make([]Report, len(segments))
	for i, segment := range segments {
		reports[i] = NewReport(segment.Points, cfg)
	}
	return reports
}

type reportJSON struct {
	ElevationGain  float64    `json:"elevation_gain_m"`
	ElevationLoss  float64    `json:"elevation_loss_m"`
	MinElevation   *float64   `json:"min_elevation_m"`
	MaxElevation   *float64   `json:"max_elevation_m"`
	TotalDistance  float64    `json:"total_distance_m"`
	AvgSpeed       float64    `json:"avg_speed_kmh"`
	MaxSpeed       float64    `json:"max_speed_kmh"`
	StartTime      *time.Time `json:"start_time"`
	EndTime        *time.Time `json:"end_time"`
	Duration       int64      `json:"duration_s"`
	MovingTime     int64      `json:"moving_time_s"`
	StoppedTime    int64      `json:"stopped_time_s"`
	StartLat       float64    `json:"start_lat"`
	StartLng       float64    `json:"start_lng"`
	EndLat         float64    `json:"end_lat"`
	EndLng         float64    `json:"end_lng"`
	MinCoordinates *LatLng    `json:"min_coordinates"`
	MaxCoordinates *LatLng    `json:"max_coordinates"`
}

// MarshalJSON encodes durations as whole seconds and unknown values as null
func (r Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(reportJSON{
		ElevationGain:  r.ElevationGain,
		ElevationLoss:  r.ElevationLoss,
		MinElevation:   r.MinElevation,
		MaxElevation:   r.MaxElevation,
		TotalDistance:  r.TotalDistance,
		AvgSpeed:       r.AvgSpeed,
		MaxSpeed:       r.MaxSpeed,
		StartTime:      optionalTime(r.StartTime),
		EndTime:        optionalTime(r.EndTime),
		Duration:       int64(r.Duration / time.Second),
		MovingTime:     int64(r.MovingTime / time.Second),
		StoppedTime:    int64(r.StoppedTime / time.Second),
		StartLat:       r.StartLat,
		StartLng:       r.StartLng,
		EndLat:         r.EndLat,
		EndLng:         r.EndLng,
		MinCoordinates: r.MinCoordinates,
		MaxCoordinates: r.MaxCoordinates,
	})
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
