package anonymizer

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/Baptiste-Leterrier/gpx-anonymous/internal/metrics"
	"github.com/Baptiste-Leterrier/gpx-anonymous/internal/shared/geo"
	"github.com/Baptiste-Leterrier/gpx-anonymous/internal/track"

	"github.com/tkrajina/gpxgo/gpx"
)

// ErrNotFinite is returned when a computed coordinate or distance is NaN or
// infinite. Deterministic for a given input, so never retried.
var ErrNotFinite = errors.New("non-finite value during track computation")

// pairDriftWarnM is the per-pair geodesic drift above which a warning is
// logged. Translation keeps coordinate deltas intact, but great-circle
// distances between the shifted points diverge as the track moves toward the
// equator.
const pairDriftWarnM = 1.0

// Service translates a track's coordinates so that its first point lands on
// (0,0). Stateless; a single instance serves concurrent requests.
type Service struct {
	log     *slog.Logger
	metrics *metrics.Metrics
}

func NewService(log *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{log: log, metrics: m}
}

// Anonymize shifts every point of every segment by (-refLat, -refLon), where
// the reference is the first point in document order. Timestamps, elevations
// and all metadata stay untouched. Distances are measured with a flat
// projection anchored at the original reference latitude, applied identically
// before and after the shift, so the reported totals agree to float rounding.
func (s *Service) Anonymize(ctx context.Context, doc *gpx.GPX) (Result, error) {
	start := time.Now()

	refLat, refLon, err := track.Reference(doc)
	if err != nil {
		s.metrics.TracksProcessed.WithLabelValues("empty").Inc()
		return Result{}, err
	}

	flat := geo.NewFlatMetric(refLat)
	originalM := totalDistanceM(doc, flat)
	geodesicBefore := pairDistancesM(doc)

	dLat, dLon := -refLat, -refLon
	for ti := range doc.Tracks {
		for si := range doc.Tracks[ti].Segments {
			points := doc.Tracks[ti].Segments[si].Points
			for pi := range points {
				points[pi].Latitude += dLat
				points[pi].Longitude += dLon
			}
		}
	}

	anonymizedM := totalDistanceM(doc, flat)
	geodesicAfter := pairDistancesM(doc)

	maxDrift := 0.0
	for i := range geodesicBefore {
		drift := math.Abs(geodesicAfter[i] - geodesicBefore[i])
		if drift > maxDrift {
			maxDrift = drift
		}
		if drift > pairDriftWarnM {
			s.log.WarnContext(ctx, "geodesic pair distance drifted after translation",
				"pair", i,
				"original_m", geodesicBefore[i],
				"anonymized_m", geodesicAfter[i],
				"drift_m", drift)
		}
	}

	if !isFinite(originalM) || !isFinite(anonymizedM) || !isFinite(maxDrift) {
		s.metrics.TracksProcessed.WithLabelValues("error").Inc()
		return Result{}, ErrNotFinite
	}

	elapsed := time.Since(start)
	s.metrics.TracksProcessed.WithLabelValues("ok").Inc()
	s.metrics.ProcessingSeconds.Observe(elapsed.Seconds())
	s.metrics.PairDriftMeters.Set(maxDrift)

	s.log.InfoContext(ctx, "track anonymized",
		"points", track.PointCount(doc),
		"original_m", originalM,
		"anonymized_m", anonymizedM,
		"max_geodesic_drift_m", maxDrift,
		"duration", elapsed)

	return Result{
		Doc:                 doc,
		OriginalDistanceM:   originalM,
		AnonymizedDistanceM: anonymizedM,
		MaxPairDriftM:       maxDrift,
		ProcessingTime:      elapsed,
	}, nil
}

// totalDistanceM sums consecutive-point distances within each segment.
func totalDistanceM(doc *gpx.GPX, m geo.FlatMetric) float64 {
	total := 0.0
	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			for i := 1; i < len(seg.Points); i++ {
				p, q := seg.Points[i-1], seg.Points[i]
				total += m.DistanceM(p.Latitude, p.Longitude, q.Latitude, q.Longitude)
			}
		}
	}
	return total
}

// pairDistancesM returns the great-circle distance of every consecutive pair,
// segment by segment, used to report drift of the geodesic measurement.
func pairDistancesM(doc *gpx.GPX) []float64 {
	var out []float64
	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			for i := 1; i < len(seg.Points); i++ {
				p, q := seg.Points[i-1], seg.Points[i]
				out = append(out, geo.HaversineM(p.Latitude, p.Longitude, q.Latitude, q.Longitude))
			}
		}
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
