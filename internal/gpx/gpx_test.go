package gpx

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planbiir/gstat/internal/track"
)

const sampleGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test">
	<metadata>
		<name>Morning Ride</name>
	</metadata>
	<trk>
		<name>Test Track</name>
		<trkseg>
			<trkpt lat="46.0" lon="7.0">
				<ele>1000</ele>
				<time>2025-01-01T10:00:00Z</time>
			</trkpt>
			<trkpt lat="46.001" lon="7.001">
				<ele>1005</ele>
				<time>2025-01-01T10:00:01Z</time>
			</trkpt>
		</trkseg>
		<trkseg>
			<trkpt lat="46.002" lon="7.002"></trkpt>
		</trkseg>
	</trk>
</gpx>`

func TestParseReader(t *testing.T) {
	gpxData, err := ParseReader(strings.NewReader(sampleGPX))
	require.NoError(t, err)

	require.Len(t, gpxData.Tracks, 1)
	require.Len(t, gpxData.Tracks[0].Segments, 2)
	require.Len(t, gpxData.Tracks[0].Segments[0].Points, 2)

	point := gpxData.Tracks[0].Segments[0].Points[0]
	assert.Equal(t, 46.0, point.Lat)
	assert.Equal(t, 7.0, point.Lon)
	require.NotNil(t, point.Elevation)
	assert.Equal(t, 1000.0, *point.Elevation)
	require.NotNil(t, point.Time)
	assert.Equal(t, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC), point.Time.UTC())

	bare := gpxData.Tracks[0].Segments[1].Points[0]
	assert.Nil(t, bare.Elevation)
	assert.Nil(t, bare.Time)

	assert.Equal(t, "http://www.topografix.com/GPX/1/1", gpxData.XMLNS)
	assert.Equal(t, "test", gpxData.Creator)
}

func TestParseReaderInvalid(t *testing.T) {
	_, err := ParseReader(strings.NewReader("<gpx><trk>"))
	assert.ErrorContains(t, err, "failed to parse GPX")
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "missing.gpx"))
	assert.ErrorContains(t, err, "failed to open file")
}

func TestFile(t *testing.T) {
	gpxData, err := ParseReader(strings.NewReader(sampleGPX))
	require.NoError(t, err)

	f, err := gpxData.File()
	require.NoError(t, err)

	assert.Equal(t, "Morning Ride", f.Name)
	assert.Equal(t, "test", f.Creator)
	require.Len(t, f.Tracks, 1)
	assert.Equal(t, "Test Track", f.Tracks[0].Name)
	require.Len(t, f.Tracks[0].Segments, 2)

	first := f.Tracks[0].Segments[0].Points[0]
	assert.True(t, first.HasTime())
	assert.True(t, first.HasElevation())
	assert.Equal(t, 1000.0, *first.Elevation)

	bare := f.Tracks[0].Segments[1].Points[0]
	assert.False(t, bare.HasTime())
	assert.False(t, bare.HasElevation())

	// the model owns its elevations
	*f.Tracks[0].Segments[0].Points[0].Elevation = 1
	assert.Equal(t, 1000.0, *gpxData.Tracks[0].Segments[0].Points[0].Elevation)
}

func TestFileWithoutPoints(t *testing.T) {
	gpxData := &GPX{Tracks: []Track{{Name: "empty", Segments: []TrackSegment{{}}}}}
	_, err := gpxData.File()
	assert.ErrorIs(t, err, ErrNoPoints)

	_, err = (&GPX{}).File()
	assert.ErrorIs(t, err, ErrNoPoints)
}

func TestUpdate(t *testing.T) {
	gpxData, err := ParseReader(strings.NewReader(sampleGPX))
	require.NoError(t, err)
	f, err := gpxData.File()
	require.NoError(t, err)

	points := f.Points()
	points[0].SetElevation(1234.5)
	points[1].Lat = 46.0011
	points[2].SetElevation(980)

	require.NoError(t, gpxData.Update(f))

	segs := gpxData.Tracks[0].Segments
	assert.Equal(t, 1234.5, *segs[0].Points[0].Elevation)
	assert.Equal(t, 46.0011, segs[0].Points[1].Lat)
	assert.Equal(t, 980.0, *segs[1].Points[0].Elevation)
	assert.Nil(t, segs[1].Points[0].Time, "times are left as parsed")
}

func TestUpdateLayoutMismatch(t *testing.T) {
	gpxData, err := ParseReader(strings.NewReader(sampleGPX))
	require.NoError(t, err)

	tests := map[string]*track.File{
		"tracks":   {},
		"segments": {Tracks: []track.Track{{Segments: []track.Segment{{}}}}},
		"points": {Tracks: []track.Track{{Segments: []track.Segment{
			{Points: []track.Point{{Lat: 1, Lon: 1}}},
			{Points: []track.Point{{Lat: 1, Lon: 1}}},
		}}}},
	}
	for name, f := range tests {
		assert.ErrorIs(t, gpxData.Update(f), ErrLayoutMismatch, name)
	}
}

func TestCounts(t *testing.T) {
	gpxData, err := ParseReader(strings.NewReader(sampleGPX))
	require.NoError(t, err)

	tracks, segments, points := gpxData.Counts()
	assert.Equal(t, 1, tracks)
	assert.Equal(t, 2, segments)
	assert.Equal(t, 3, points)
}

func TestWriteRoundTrip(t *testing.T) {
	gpxData, err := ParseReader(strings.NewReader(sampleGPX))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.gpx")
	require.NoError(t, gpxData.Write(path))

	reread, err := Parse(path)
	require.NoError(t, err)
	want, err := gpxData.File()
	require.NoError(t, err)
	got, err := reread.File()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWriteOmitsMissingFields(t *testing.T) {
	gpxData := &GPX{
		Version: "1.1",
		Creator: "gstat",
		Tracks: []Track{{Segments: []TrackSegment{{Points: []Point{
			{Lat: 46, Lon: 7},
		}}}}},
	}

	var buf bytes.Buffer
	require.NoError(t, gpxData.WriteToWriter(&buf))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.NotContains(t, out, "<ele>")
	assert.NotContains(t, out, "<time>")
	assert.NotContains(t, out, "<metadata>")
	assert.Contains(t, out, `<trkpt lat="46" lon="7">`)
}
