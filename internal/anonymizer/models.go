package anonymizer

import (
	"time"

	"github.com/tkrajina/gpxgo/gpx"
)

// AnonymizeResponse is the JSON body returned by POST /api/v1/anonymize.
// Distances are meters, processing time is seconds.
type AnonymizeResponse struct {
	AnonymizedGPX      string  `json:"anonymized_gpx"`
	OriginalDistance   float64 `json:"original_distance"`
	AnonymizedDistance float64 `json:"anonymized_distance"`
	ProcessingTime     float64 `json:"processing_time"`
}

// Result is the outcome of anonymizing one track document.
type Result struct {
	Doc                 *gpx.GPX
	OriginalDistanceM   float64
	AnonymizedDistanceM float64
	MaxPairDriftM       float64
	ProcessingTime      time.Duration
}
