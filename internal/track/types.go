package track

import (
	"time"
)

// Point represents a GPS track point. Elevation is nil when unknown and
// Time is the zero value when the point carries no timestamp.
type Point struct {
	Lat       float64
	Lon       float64
	Elevation *float64
	Time      time.Time
}

// HasTime reports whether the point carries a timestamp
func (p Point) HasTime() bool {
	return !p.Time.IsZero()
}

// HasElevation reports whether the point carries an elevation
func (p Point) HasElevation() bool {
	return p.Elevation != nil
}

// SetElevation overwrites the point's elevation in place
func (p *Point) SetElevation(ele float64) {
	p.Elevation = &ele
}

// Segment is an ordered run of points. Insertion order is traversal order.
type Segment struct {
	Points []Point
}

// Track is a named list of segments
type Track struct {
	Name        string
	Description string
	Segments    []Segment
}

// File is the in-memory form of a whole GPX document
type File struct {
	Name    string
	Creator string
	Tracks  []Track
}

// Elevation returns a pointer to a copy of v, for building points
func Elevation(v float64) *float64 {
	return &v
}

// Points returns every point of every track and segment in order.
// The returned pointers alias the segment storage so callers can update
// points in place.
func (f *File) Points() []*Point {
	var points []*Point
	for trackIdx := range f.Tracks {
		for segIdx := range f.Tracks[trackIdx].Segments {
			segment := &f.Tracks[trackIdx].Segments[segIdx]
			for ptIdx := range segment.Points {
				points = append(points, &segment.Points[ptIdx])
			}
		}
	}
	return points
}

// Segments returns every segment of every track in order
func (f *File) Segments() []*Segment {
	var segments []*Segment
	for trackIdx := range f.Tracks {
		for segIdx := range f.Tracks[trackIdx].Segments {
			segments = append(segments, &f.Tracks[trackIdx].Segments[segIdx])
		}
	}
	return segments
}

// FlattenPoints returns copies of all points in traversal order
func (f *File) FlattenPoints() []Point {
	var points []Point
	for _, t := range f.Tracks {
		for _, s := range t.Segments {
			points = append(points, s.Points...)
		}
	}
	return points
}
