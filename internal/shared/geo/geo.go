package geo

import "math"

const (
	earthRadiusKm = 6371.0
	earthRadiusM  = 6371000.0
	degToRad      = math.Pi / 180.0
)

// HaversineKm returns the great-circle distance in kilometers between two
// WGS84 coordinates.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * degToRad
	phi2 := lat2 * degToRad
	dPhi := (lat2 - lat1) * degToRad
	dLambda := (lon2 - lon1) * degToRad

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Asin(math.Sqrt(a))
	return earthRadiusKm * c
}

// HaversineM returns the great-circle distance in meters.
func HaversineM(lat1, lon1, lat2, lon2 float64) float64 {
	return HaversineKm(lat1, lon1, lat2, lon2) * 1000
}

// FlatMetric is an equirectangular local projection anchored at a fixed
// reference latitude. Distances between two points depend only on their
// coordinate deltas, so the metric is invariant under a uniform shift of all
// coordinates. Accurate at track scale, unlike a geodesic formula it does not
// drift when a track is moved to another latitude.
type FlatMetric struct {
	cosRefLat float64
}

// NewFlatMetric anchors the projection at refLatDeg, typically the latitude
// of a track's reference point before any translation.
func NewFlatMetric(refLatDeg float64) FlatMetric {
	return FlatMetric{cosRefLat: math.Cos(refLatDeg * degToRad)}
}

// DistanceM returns the planar distance in meters between two coordinates.
func (m FlatMetric) DistanceM(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * degToRad
	dLon := (lon2 - lon1) * degToRad * m.cosRefLat
	return earthRadiusM * math.Hypot(dLat, dLon)
}
