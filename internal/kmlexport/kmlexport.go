// Package kmlexport exports tracks as KML documents for Google Earth and
// similar viewers.
package kmlexport

import (
	"fmt"
	"io"
	"os"

	"github.com/twpayne/go-kml/v2"

	"github.com/planbiir/gstat/internal/stats"
	"github.com/planbiir/gstat/internal/track"
)

// Document builds a KML document with one placemark per track. Each
// segment with at least two points becomes a LineString; tracks with
// several segments use a MultiGeometry. The placemark description
// summarizes the track using cfg.
func Document(f *track.File, cfg stats.Config) *kml.CompoundElement {
	var placemarks []kml.Element
	for i, t := range f.Tracks {
		var lines []kml.Element
		var points []track.Point
		for _, segment := range t.Segments {
			points = append(points, segment.Points...)
			if len(segment.Points) < 2 {
				continue
			}
			lines = append(lines, kml.LineString(
				kml.Tessellate(true),
				kml.Coordinates(coordinates(segment.Points)...),
			))
		}
		if len(lines) == 0 {
			continue
		}

		name := t.Name
		if name == "" {
			name = fmt.Sprintf("Track %d", i+1)
		}

		geometry := lines[0]
		if len(lines) > 1 {
			geometry = kml.MultiGeometry(lines...)
		}

		placemarks = append(placemarks, kml.Placemark(
			kml.Name(name),
			kml.Description(describe(stats.NewReport(points, cfg))),
			geometry,
		))
	}

	children := []kml.Element{}
	if f.Name != "" {
		children = append(children, kml.Name(f.Name))
	}
	children = append(children, placemarks...)
	return kml.KML(kml.Document(children...))
}

// Encode writes the KML document for f to w
func Encode(w io.Writer, f *track.File, cfg stats.Config) error {
	if err := Document(f, cfg).WriteIndent(w, "", "  "); err != nil {
		return fmt.Errorf("failed to encode KML: %w", err)
	}
	return nil
}

// Write saves the KML document for f to filename
func Write(filename string, f *track.File, cfg stats.Config) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	return Encode(file, f, cfg)
}

func coordinates(points []track.Point) []kml.Coordinate {
	coords := make([]kml.Coordinate, len(points))
	for i, pt := range points {
		coords[i] = kml.Coordinate{Lon: pt.Lon, Lat: pt.Lat}
		if pt.Elevation != nil {
			coords[i].Alt = *pt.Elevation
		}
	}
	return coords
}

func describe(r stats.Report) string {
	s := fmt.Sprintf("Distance: %.2f km, gain: %.0f m, loss: %.0f m",
		r.TotalDistance/1000, r.ElevationGain, r.ElevationLoss)
	if r.Duration > 0 {
		s += fmt.Sprintf(", moving: %s, avg: %.1f km/h", r.MovingTime, r.AvgSpeed)
	}
	return s
}
