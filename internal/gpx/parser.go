package gpx

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/planbiir/gstat/internal/track"
)

// ErrNoPoints is returned when a document has no track points at all
var ErrNoPoints = errors.New("no track points")

// ErrLayoutMismatch is returned by Update when the track layout differs
var ErrLayoutMismatch = errors.New("track layout mismatch")

// Parse reads and parses a GPX file, preserving all extensions and namespaces
func Parse(filename string) (*GPX, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ParseReader(file)
}

// ParseReader parses GPX from an io.Reader
func ParseReader(r io.Reader) (*GPX, error) {
	decoder := xml.NewDecoder(r)

	var gpxData GPX
	if err := decoder.Decode(&gpxData); err != nil {
		return nil, fmt.Errorf("failed to parse GPX: %w", err)
	}

	// Set default namespaces if missing
	if gpxData.XMLNS == "" {
		gpxData.XMLNS = "http://www.topografix.com/GPX/1/1"
	}
	if gpxData.Version == "" {
		gpxData.Version = "1.1"
	}
	if gpxData.Creator == "" {
		gpxData.Creator = "gstat"
	}

	return &gpxData, nil
}

// Write saves GPX data to a file, preserving all extensions and structure
func (g *GPX) Write(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	return g.WriteToWriter(file)
}

// WriteToWriter writes GPX data to an io.Writer
func (g *GPX) WriteToWriter(w io.Writer) error {
	if _, err := w.Write([]byte(xml.Header)); err != nil {
		return err
	}

	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")

	if err := encoder.Encode(g); err != nil {
		return fmt.Errorf("failed to encode GPX: %w", err)
	}

	return nil
}

// File converts the document into the analysis model. Track and segment
// layout is kept as is.
func (g *GPX) File() (*track.File, error) {
	f := &track.File{
		Creator: g.Creator,
		Tracks:  make([]track.Track, len(g.Tracks)),
	}
	if g.Metadata != nil {
		f.Name = g.Metadata.Name
	}

	count := 0
	for trackIdx, trk := range g.Tracks {
		t := track.Track{
			Name:        trk.Name,
			Description: trk.Description,
			Segments:    make([]track.Segment, len(trk.Segments)),
		}
		for segIdx, segment := range trk.Segments {
			points := make([]track.Point, len(segment.Points))
			for ptIdx, pt := range segment.Points {
				points[ptIdx] = toTrackPoint(pt)
			}
			t.Segments[segIdx].Points = points
			count += len(points)
		}
		f.Tracks[trackIdx] = t
	}

	if count == 0 {
		return nil, ErrNoPoints
	}
	if f.Name == "" && len(f.Tracks) > 0 {
		f.Name = f.Tracks[0].Name
	}
	return f, nil
}

// Update copies coordinates and elevations from f back into the document.
// Times and extensions are left as parsed. f must have the same track,
// segment and point counts as the document.
func (g *GPX) Update(f *track.File) error {
	if len(f.Tracks) != len(g.Tracks) {
		return fmt.Errorf("%w: %d tracks, want %d", ErrLayoutMismatch, len(f.Tracks), len(g.Tracks))
	}

	for trackIdx := range g.Tracks {
		segments := g.Tracks[trackIdx].Segments
		if len(f.Tracks[trackIdx].Segments) != len(segments) {
			return fmt.Errorf("%w: track %d has %d segments, want %d",
				ErrLayoutMismatch, trackIdx, len(f.Tracks[trackIdx].Segments), len(segments))
		}
		for segIdx := range segments {
			src := f.Tracks[trackIdx].Segments[segIdx].Points
			dst := segments[segIdx].Points
			if len(src) != len(dst) {
				return fmt.Errorf("%w: track %d segment %d has %d points, want %d",
					ErrLayoutMismatch, trackIdx, segIdx, len(src), len(dst))
			}
			for ptIdx := range dst {
				dst[ptIdx].Lat = src[ptIdx].Lat
				dst[ptIdx].Lon = src[ptIdx].Lon
				dst[ptIdx].Elevation = copyFloat(src[ptIdx].Elevation)
			}
		}
	}
	return nil
}

func toTrackPoint(pt Point) track.Point {
	p := track.Point{
		Lat:       pt.Lat,
		Lon:       pt.Lon,
		Elevation: copyFloat(pt.Elevation),
	}
	if pt.Time != nil {
		p.Time = pt.Time.UTC()
	}
	return p
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Counts returns the number of tracks, segments and points
func (g *GPX) Counts() (trackCount, segmentCount, pointCount int) {
	trackCount = len(g.Tracks)
	for _, trk := range g.Tracks {
		segmentCount += len(trk.Segments)
		for _, segment := range trk.Segments {
			pointCount += len(segment.Points)
		}
	}
	return
}
