// ABOUTME: Great-circle geometry on a spherical Earth
// ABOUTME: Spherical law of cosines distance between two coordinates

package geo

import "math"

// EarthRadius is the mean Earth radius in metres.
const EarthRadius = 6371000.0

// Radians converts decimal degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Distance returns the great-circle distance in metres between two
// coordinates given in decimal degrees.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := Radians(lat1)
	phi2 := Radians(lat2)
	dLambda := Radians(lng2 - lng1)

	cosAngle := math.Sin(phi1)*math.Sin(phi2) + math.Cos(phi1)*math.Cos(phi2)*math.Cos(dLambda)
	// rounding can push identical points just past 1
	cosAngle = math.Max(-1, math.Min(1, cosAngle))

	return EarthRadius * math.Acos(cosAngle)
}
