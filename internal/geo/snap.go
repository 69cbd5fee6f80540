package geo

import (
	"math"

	"busradar.dev/internal/models"
)

// DefaultSnapThresholdMeters is how far a fix may drift from the route
// polyline and still be drawn on it.
const DefaultSnapThresholdMeters = 120.0

// Snapper moves raw vehicle fixes onto the nearest vertex of a route polyline.
type Snapper struct {
	ThresholdMeters float64
}

func NewSnapper(thresholdMeters float64) Snapper {
	if thresholdMeters <= 0 {
		thresholdMeters = DefaultSnapThresholdMeters
	}
	return Snapper{ThresholdMeters: thresholdMeters}
}

// Snap returns the vertex of line closest to raw when it lies strictly
// within the threshold. Otherwise raw is returned unchanged with false.
func (s Snapper) Snap(raw models.LatLng, line []models.LatLng) (models.LatLng, bool) {
	idx, dist := ClosestVertex(line, raw)
	if idx < 0 || dist >= s.ThresholdMeters {
		return raw, false
	}
	return line[idx], true
}

// ClosestVertex returns the index of the point in line nearest to target and
// its distance in meters. Ties go to the earliest point; an empty line
// yields -1.
func ClosestVertex(line []models.LatLng, target models.LatLng) (int, float64) {
	minDist := math.MaxFloat64
	minIdx := -1

	for i, p := range line {
		dist := Haversine(p, target)
		if dist < minDist {
			minDist = dist
			minIdx = i
		}
	}

	return minIdx, minDist
}

// SnapFix snaps a vehicle fix onto line, keeping the reported position.
func (s Snapper) SnapFix(fix models.VehicleFix, line []models.LatLng) models.VehicleEntry {
	entry := models.VehicleEntry{VehicleFix: fix, RawPosition: fix.Position}
	entry.Position, entry.Snapped = s.Snap(fix.Position, line)
	return entry
}
