package stats

import (
	"github.com/paulmach/orb"

	"github.com/planbiir/gstat/internal/track"
)

// Bounds returns the start and end coordinates and the lat/lon extrema.
// The box is axis-aligned in degrees, not a geodesic hull.
func Bounds(points []track.Point) BoundingBox {
	if len(points) == 0 {
		return BoundingBox{}
	}

	first := points[0]
	last := points[len(points)-1]

	// orb points are (lon, lat)
	bound := orb.Point{first.Lon, first.Lat}.Bound()
	for _, pt := range points[1:] {
		bound = bound.Extend(orb.Point{pt.Lon, pt.Lat})
	}

	return BoundingBox{
		Start: LatLng{Lat: first.Lat, Lng: first.Lon},
		End:   LatLng{Lat: last.Lat, Lng: last.Lon},
		Min:   &LatLng{Lat: bound.Min.Lat(), Lng: bound.Min.Lon()},
		Max:   &LatLng{Lat: bound.Max.Lat(), Lng: bound.Max.Lon()},
	}
}

// Span returns the first and last point's timestamps and the duration
// between them. Duration is zero unless both ends carry a timestamp.
func Span(points []track.Point) TimeSpan {
	if len(points) == 0 {
		return TimeSpan{}
	}

	span := TimeSpan{
		Start: points[0].Time,
		End:   points[len(points)-1].Time,
	}
	if span.Known() {
		span.Duration = span.End.Sub(span.Start)
	}
	return span
}
