// Package geo holds the spherical geometry used by the tracking layer:
// haversine distances, snapping a vehicle onto its route and picking the
// closest stop.
package geo

import (
	"math"

	"busradar.dev/internal/models"
)

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Haversine returns the great-circle distance between a and b in meters.
func Haversine(a, b models.LatLng) float64 {
	phi1 := radians(a.Lat)
	phi2 := radians(b.Lat)
	deltaPhi := radians(b.Lat - a.Lat)
	deltaLambda := radians(b.Lng - a.Lng)

	h := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return models.EarthRadiusMeters * c
}

// Bearing returns the initial bearing from a to b in degrees (0-360).
func Bearing(a, b models.LatLng) float64 {
	phi1 := radians(a.Lat)
	phi2 := radians(b.Lat)
	deltaLambda := radians(b.Lng - a.Lng)

	y := math.Sin(deltaLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(deltaLambda)

	return math.Mod(math.Atan2(y, x)*180/math.Pi+360, 360)
}

var compassPoints = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// CompassDirection converts the bearing from a to b to an 8-point compass direction.
func CompassDirection(a, b models.LatLng) string {
	if a == b {
		return models.UnknownValue
	}
	index := int((Bearing(a, b)+22.5)/45.0) % 8
	return compassPoints[index]
}
