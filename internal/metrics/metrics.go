package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	TracksProcessed   *prometheus.CounterVec
	ProcessingSeconds prometheus.Histogram
	PairDriftMeters   prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		TracksProcessed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "gpx_anonymizer_tracks_processed_total",
			Help: "Total number of anonymization requests, by outcome.",
		}, []string{"status"}),
		ProcessingSeconds: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "gpx_anonymizer_processing_seconds",
			Help:    "Wall-clock duration of a single track anonymization.",
			Buckets: prometheus.DefBuckets,
		}),
		PairDriftMeters: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "gpx_anonymizer_max_pair_drift_meters",
			Help: "Largest geodesic distance drift between consecutive points observed in the last processed track.",
		}),
	}
}
