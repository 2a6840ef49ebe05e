package gpx

import (
	"encoding/xml"
	"time"
)

// RawXML keeps the content of an <extensions> element as it was read.
// Heart rate, cadence and other vendor data come back out unchanged
// when the file is written.
type RawXML []byte

type innerXML struct {
	Content string `xml:",innerxml"`
}

// MarshalXML writes nothing for an empty block.
func (r RawXML) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if len(r) > 0 {
		return e.EncodeElement(innerXML{Content: string(r)}, start)
	}
	return nil
}

func (r *RawXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var block innerXML
	if err := d.DecodeElement(&block, &start); err != nil {
		return err
	}
	if block.Content == "" {
		*r = nil
	} else {
		*r = RawXML(block.Content)
	}
	return nil
}

// Point is a <trkpt>. Elevation and Time are nil when the element is absent.
type Point struct {
	Lat       float64    `xml:"lat,attr"`
	Lon       float64    `xml:"lon,attr"`
	Elevation *float64   `xml:"ele,omitempty"`
	Time      *time.Time `xml:"time,omitempty"`

	Extensions RawXML `xml:"extensions,omitempty"`
}

// Track is a <trk>
type Track struct {
	Name        string         `xml:"name,omitempty"`
	Description string         `xml:"desc,omitempty"`
	Segments    []TrackSegment `xml:"trkseg"`
	Extensions  RawXML         `xml:"extensions,omitempty"`
}

// TrackSegment is a <trkseg>; its points are in recording order
type TrackSegment struct {
	Points     []Point `xml:"trkpt"`
	Extensions RawXML  `xml:"extensions,omitempty"`
}

// GPX is a whole document. Only tracks are modeled; waypoints and routes
// are dropped on rewrite.
type GPX struct {
	XMLName xml.Name `xml:"gpx"`
	Version string   `xml:"version,attr"`
	Creator string   `xml:"creator,attr"`

	// namespace declarations are copied through so extension prefixes
	// stay bound
	XMLNS    string `xml:"xmlns,attr,omitempty"`
	XMLNSXSI string `xml:"xmlns:xsi,attr,omitempty"`
	XSI      string `xml:"xsi:schemaLocation,attr,omitempty"`

	XMLNSGPXTPX string `xml:"xmlns:gpxtpx,attr,omitempty"`
	XMLNSGPXX   string `xml:"xmlns:gpxx,attr,omitempty"`

	Metadata   *Metadata `xml:"metadata,omitempty"`
	Tracks     []Track   `xml:"trk"`
	Extensions RawXML    `xml:"extensions,omitempty"`
}

// Metadata is the optional <metadata> block; its name becomes the
// analysed file's name
type Metadata struct {
	Name        string     `xml:"name,omitempty"`
	Description string     `xml:"desc,omitempty"`
	Author      string     `xml:"author,omitempty"`
	Time        *time.Time `xml:"time,omitempty"`
	Extensions  RawXML     `xml:"extensions,omitempty"`
}
