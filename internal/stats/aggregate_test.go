package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planbiir/gstat/internal/track"
)

var base = time.Date(2025, 1, 1, 7, 0, 0, 0, time.UTC)

func elevations(values ...float64) []track.Point {
	points := make([]track.Point, len(values))
	for i, v := range values {
		points[i] = track.Point{Lat: 46.0, Lon: 7.0, Elevation: track.Elevation(v)}
	}
	return points
}

func TestTotalDistanceDegenerate(t *testing.T) {
	p := track.Point{Lat: 46.0, Lon: 7.0}

	assert.Equal(t, 0.0, TotalDistance(nil, 5))
	assert.Equal(t, 0.0, TotalDistance([]track.Point{p}, 5))
	assert.Equal(t, 0.0, TotalDistance([]track.Point{p, p}, 5))
}

func TestTotalDistance(t *testing.T) {
	points := []track.Point{
		{Lat: 45.0, Lon: 6.0},
		{Lat: 45.1, Lon: 6.0},
	}
	dist := TotalDistance(points, 5)
	assert.Greater(t, dist, 10000.0)
	assert.Less(t, dist, 12000.0)
	assert.Equal(t, 11119.5, dist)
}

func TestTotalDistanceDropsJitter(t *testing.T) {
	// Each step is about 2.2 m; no single move from the start reaches 5 m.
	points := []track.Point{
		{Lat: 46.0, Lon: 7.0},
		{Lat: 46.00002, Lon: 7.0},
		{Lat: 46.00004, Lon: 7.0},
	}
	assert.Equal(t, 0.0, TotalDistance(points, 5))

	// The third step is measured from the start, not from the previous point.
	points = append(points, track.Point{Lat: 46.00006, Lon: 7.0})
	assert.Equal(t, 6.7, TotalDistance(points, 5))
}

func TestTotalDistanceUsesPointsWithoutElevationOrTime(t *testing.T) {
	points := []track.Point{
		{Lat: 46.0, Lon: 7.0},
		{Lat: 46.01, Lon: 7.0, Elevation: track.Elevation(1200)},
		{Lat: 46.02, Lon: 7.0, Time: base},
	}
	assert.InDelta(t, 2223.9, TotalDistance(points, 5), 0.1)
}

func TestElevationHysteresisZeroThreshold(t *testing.T) {
	summary := Elevation(elevations(1000, 1100, 1050, 1200), 0)

	assert.Equal(t, 250.0, summary.Gain)
	assert.Equal(t, 50.0, summary.Loss)
	require.NotNil(t, summary.Min)
	require.NotNil(t, summary.Max)
	assert.Equal(t, 1000.0, *summary.Min)
	assert.Equal(t, 1200.0, *summary.Max)
}

func TestElevationDeadBand(t *testing.T) {
	summary := Elevation(elevations(1000, 1015, 990), 20)

	assert.Equal(t, 0.0, summary.Gain)
	assert.Equal(t, 0.0, summary.Loss)
	require.NotNil(t, summary.Min)
	assert.Equal(t, 990.0, *summary.Min)
	assert.Equal(t, 1015.0, *summary.Max)
}

func TestElevationNoiseDoesNotMoveBaseline(t *testing.T) {
	// 1005 is absorbed, so 1012 is compared against 1000 and counts.
	summary := Elevation(elevations(1000, 1005, 1012, 1001), 10)
	assert.Equal(t, 12.0, summary.Gain)
	assert.Equal(t, 11.0, summary.Loss)
}

func TestElevationSkipsUnknown(t *testing.T) {
	points := []track.Point{
		{Lat: 46.0, Lon: 7.0},
		{Lat: 46.0, Lon: 7.0, Elevation: track.Elevation(1000)},
		{Lat: 46.0, Lon: 7.0},
		{Lat: 46.0, Lon: 7.0, Elevation: track.Elevation(1020.44)},
	}
	summary := Elevation(points, 10)
	assert.Equal(t, 20.4, summary.Gain)
	assert.Equal(t, 0.0, summary.Loss)
	assert.Equal(t, 1000.0, *summary.Min)
	assert.Equal(t, 1020.44, *summary.Max)
}

func TestElevationWithoutData(t *testing.T) {
	summary := Elevation([]track.Point{{Lat: 1, Lon: 2}}, 10)
	assert.Nil(t, summary.Min)
	assert.Nil(t, summary.Max)
	assert.Zero(t, summary.Gain)

	summary = Elevation(nil, 10)
	assert.Nil(t, summary.Min)
}

func TestSpeed(t *testing.T) {
	points := []track.Point{
		{Lat: 46.0, Lon: 7.0, Time: base},
		{Lat: 46.01, Lon: 7.0, Time: base.Add(time.Minute)},     // 1112 m in 60 s
		{Lat: 46.02, Lon: 7.0, Time: base.Add(3 * time.Minute)}, // 1112 m in 120 s
	}
	summary := Speed(points)
	assert.Equal(t, 66.7, summary.Max)
	assert.Equal(t, 44.5, summary.Avg)
}

func TestSpeedSkipsDuplicatesWithoutAdvancing(t *testing.T) {
	points := []track.Point{
		{Lat: 46.0, Lon: 7.0, Time: base},
		{Lat: 46.0, Lon: 7.0, Time: base.Add(30 * time.Second)},
		{Lat: 46.01, Lon: 7.0, Time: base.Add(90 * time.Second)},
	}
	summary := Speed(points)
	assert.Equal(t, 44.5, summary.Max)
	assert.Equal(t, 44.5, summary.Avg)
}

func TestSpeedNonPositiveTimeAdvances(t *testing.T) {
	points := []track.Point{
		{Lat: 46.0, Lon: 7.0, Time: base},
		{Lat: 46.01, Lon: 7.0, Time: base},
		{Lat: 46.02, Lon: 7.0, Time: base.Add(time.Minute)},
	}
	summary := Speed(points)
	assert.Equal(t, 66.7, summary.Max)
	assert.Equal(t, 66.7, summary.Avg)
}

func TestSpeedWithoutTimestamps(t *testing.T) {
	points := []track.Point{
		{Lat: 46.0, Lon: 7.0},
		{Lat: 46.01, Lon: 7.0, Time: base},
		{Lat: 46.02, Lon: 7.0, Time: base.Add(time.Minute)},
	}
	assert.Equal(t, SpeedSummary{}, Speed(points))
	assert.Equal(t, SpeedSummary{}, Speed(nil))
}

func TestBounds(t *testing.T) {
	points := []track.Point{
		{Lat: 46.0, Lon: 7.5},
		{Lat: 46.3, Lon: 7.1},
		{Lat: 45.8, Lon: 7.9},
		{Lat: 46.1, Lon: 7.2},
	}
	box := Bounds(points)

	assert.False(t, box.Empty())
	assert.Equal(t, LatLng{Lat: 46.0, Lng: 7.5}, box.Start)
	assert.Equal(t, LatLng{Lat: 46.1, Lng: 7.2}, box.End)
	assert.Equal(t, &LatLng{Lat: 45.8, Lng: 7.1}, box.Min)
	assert.Equal(t, &LatLng{Lat: 46.3, Lng: 7.9}, box.Max)
}

func TestBoundsEmpty(t *testing.T) {
	box := Bounds(nil)
	assert.True(t, box.Empty())
	assert.Nil(t, box.Min)
	assert.Nil(t, box.Max)
}

func TestSpan(t *testing.T) {
	points := []track.Point{
		{Lat: 46.0, Lon: 7.0, Time: base},
		{Lat: 46.0, Lon: 7.0},
		{Lat: 46.0, Lon: 7.0, Time: base.Add(90 * time.Minute)},
	}
	span := Span(points)
	assert.True(t, span.Known())
	assert.Equal(t, 90*time.Minute, span.Duration)

	span = Span(points[:2])
	assert.False(t, span.Known())
	assert.Zero(t, span.Duration)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.DistanceThreshold = -1
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.MinStopDuration = -time.Second
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}
