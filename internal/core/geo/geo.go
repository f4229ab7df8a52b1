// Package geo holds the coordinate arithmetic shared by the decoders,
// the aggregator and the stats report.
package geo

import (
	"math"

	"github.com/jindracerny/gpx-plot-on-map/internal/core/model"
)

// 2^31 semicircles span 180 degrees.
const degreesPerSemicircle = 180.0 / 2147483648.0

const earthRadiusKm = 6371.0

// SemicirclesToDegrees converts a raw 32-bit semicircle coordinate to
// decimal degrees. The caller is responsible for filtering the invalid
// sentinel before conversion; this function is total over int32.
func SemicirclesToDegrees(s int32) float64 {
	return float64(s) * degreesPerSemicircle
}

// Centroid returns the component-wise arithmetic mean of the points.
// The mean is flat: latitude and longitude are averaged independently,
// with no spherical correction. The second return is false when the
// slice is empty.
func Centroid(points []model.TrackPoint) (model.TrackPoint, bool) {
	if len(points) == 0 {
		return model.TrackPoint{}, false
	}
	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Lat
		sumLon += p.Lon
	}
	n := float64(len(points))
	return model.TrackPoint{Lat: sumLat / n, Lon: sumLon / n}, true
}

// Haversine returns the great-circle distance between two positions in
// kilometers.
func Haversine(a, b model.TrackPoint) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// TrackDistance sums the leg distances along an ordered track, in
// kilometers. Tracks with fewer than two points have zero length.
func TrackDistance(points []model.TrackPoint) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += Haversine(points[i-1], points[i])
	}
	return total
}
