package smooth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/planbiir/gstat/internal/sgolay"
	"github.com/planbiir/gstat/internal/track"
)

// ErrUnknownChannel is returned by ParseChannel for an unsupported name
var ErrUnknownChannel = errors.New("unknown channel")

// Channel selects one numeric field of a track point
type Channel int

const (
	Elevation Channel = iota
	Latitude
	Longitude
)

func (c Channel) String() string {
	switch c {
	case Elevation:
		return "elevation"
	case Latitude:
		return "latitude"
	case Longitude:
		return "longitude"
	default:
		return fmt.Sprintf("Channel(%d)", int(c))
	}
}

// ParseChannel maps "elevation", "latitude" or "longitude" (or the short
// forms "ele", "lat", "lon") to a Channel
func ParseChannel(name string) (Channel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "elevation", "ele":
		return Elevation, nil
	case "latitude", "lat":
		return Latitude, nil
	case "longitude", "lon", "lng":
		return Longitude, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownChannel, name)
}

// Config holds Savitzky-Golay filter settings
type Config struct {
	WindowSize int // odd number of samples per fit
	PolyOrder  int // polynomial order, below WindowSize
}

// DefaultConfig returns the default filter settings
func DefaultConfig() Config {
	return Config{
		WindowSize: 9,
		PolyOrder:  2,
	}
}

// Validate rejects even windows and orders not below the window size
func (c Config) Validate() error {
	return sgolay.Validate(c.WindowSize, c.PolyOrder)
}

// Values extracts one channel from points. Unknown elevations read as 0.
func Values(points []track.Point, ch Channel) []float64 {
	values := make([]float64, len(points))
	for i, pt := range points {
		switch ch {
		case Elevation:
			if pt.Elevation != nil {
				values[i] = *pt.Elevation
			}
		case Latitude:
			values[i] = pt.Lat
		case Longitude:
			values[i] = pt.Lon
		}
	}
	return values
}

// Store writes a channel back into points. Elevation is only written to
// points that already had one.
func Store(points []track.Point, ch Channel, values []float64) {
	for i := range points {
		if i >= len(values) {
			return
		}
		switch ch {
		case Elevation:
			if points[i].Elevation != nil {
				points[i].SetElevation(values[i])
			}
		case Latitude:
			points[i].Lat = values[i]
		case Longitude:
			points[i].Lon = values[i]
		}
	}
}

// Series returns the smoothed channel of points without modifying them.
// The result has one value per point.
func Series(points []track.Point, ch Channel, window, order int) ([]float64, error) {
	return sgolay.Filter(Values(points, ch), window, order)
}

// File smooths the given channels of every segment in place. Each channel
// is filtered on its own. Segments without any elevation data are left
// alone when smoothing elevation.
func File(f *track.File, cfg Config, channels ...Channel) error {
	s, err := sgolay.New(cfg.WindowSize, cfg.PolyOrder)
	if err != nil {
		return err
	}

	for _, segment := range f.Segments() {
		for _, ch := range channels {
			values := Values(segment.Points, ch)
			if ch == Elevation && !anyNonZero(values) {
				continue
			}
			Store(segment.Points, ch, s.Smooth(values))
		}
	}
	return nil
}

func anyNonZero(values []float64) bool {
	for _, v := range values {
		if v != 0 {
			return true
		}
	}
	return false
}
