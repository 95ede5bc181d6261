package track

import (
	"errors"
	"fmt"

	"github.com/tkrajina/gpxgo/gpx"
)

// Error kinds surfaced to the HTTP layer. Parsing and version problems map to
// client errors, everything else to a server error.
var (
	ErrMalformedInput     = errors.New("malformed gpx input")
	ErrUnsupportedVersion = errors.New("unsupported gpx version")
	ErrEmptyTrack         = errors.New("gpx file contains no points")
)

// Parse decodes an uploaded GPX document. The returned document owns every
// track, segment and point of the upload and is the unit passed through the
// anonymizer and back into Serialize.
func Parse(data []byte) (*gpx.GPX, error) {
	doc, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if doc.Version != "" && doc.Version != "1.0" && doc.Version != "1.1" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedVersion, doc.Version)
	}
	return doc, nil
}

// Serialize re-encodes a document as GPX XML. Non-coordinate fields (names,
// elevations, timestamps, metadata) pass through gpxgo untouched.
func Serialize(doc *gpx.GPX) ([]byte, error) {
	out, err := doc.ToXml(gpx.ToXmlParams{Indent: true})
	if err != nil {
		return nil, fmt.Errorf("serialize gpx: %w", err)
	}
	return out, nil
}

// PointCount returns the total number of points across all tracks and
// segments.
func PointCount(doc *gpx.GPX) int {
	n := 0
	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			n += len(seg.Points)
		}
	}
	return n
}

// Reference returns the coordinates of the first recorded point in document
// order, the point the anonymizer maps onto the origin.
func Reference(doc *gpx.GPX) (lat, lon float64, err error) {
	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			if len(seg.Points) > 0 {
				return seg.Points[0].Latitude, seg.Points[0].Longitude, nil
			}
		}
	}
	return 0, 0, ErrEmptyTrack
}
