package geo

import (
	"math"

	"busradar.dev/internal/models"
)

// NearestStop returns the stop closest to fix among the stops that have a
// position, with its distance in meters. Ties go to the stop listed first.
func NearestStop(fix models.LatLng, stops []models.Stop) (models.Stop, float64, bool) {
	var best models.Stop
	bestDist := math.MaxFloat64
	found := false

	for _, stop := range stops {
		if !stop.HasPosition() {
			continue
		}
		dist := Haversine(fix, *stop.Position)
		if dist < bestDist {
			best = stop
			bestDist = dist
			found = true
		}
	}

	if !found {
		return models.Stop{}, 0, false
	}
	return best, bestDist, true
}
