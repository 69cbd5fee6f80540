package geo

import (
	"github.com/twpayne/go-polyline"

	"busradar.dev/internal/models"
)

// EncodePolyline renders points in Google's encoded polyline format.
func EncodePolyline(points []models.LatLng) string {
	if len(points) == 0 {
		return ""
	}
	coords := make([][]float64, 0, len(points))
	for _, p := range points {
		coords = append(coords, []float64{p.Lat, p.Lng})
	}
	return string(polyline.EncodeCoords(coords))
}
