package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"busradar.dev/internal/models"
)

var syntagma = models.LatLng{Lat: 37.9755, Lng: 23.7348}

// northOf returns the point d meters due north of p.
func northOf(p models.LatLng, d float64) models.LatLng {
	return models.LatLng{Lat: p.Lat + d/models.EarthRadiusMeters*180/math.Pi, Lng: p.Lng}
}

func stopAt(code string, p *models.LatLng) models.Stop {
	return models.NewStop(code, "", "stop "+code, p, 0)
}

func TestHaversine(t *testing.T) {
	oneDegree := models.EarthRadiusMeters * math.Pi / 180
	assert.InDelta(t, oneDegree, Haversine(models.LatLng{}, models.LatLng{Lng: 1}), 1e-6)
	assert.InDelta(t, oneDegree, Haversine(models.LatLng{}, models.LatLng{Lat: 1}), 1e-6)
	assert.Zero(t, Haversine(syntagma, syntagma))

	assert.InDelta(t, 250, Haversine(syntagma, northOf(syntagma, 250)), 1e-6)
}

func TestCompassDirection(t *testing.T) {
	tests := []struct {
		name     string
		to       models.LatLng
		expected string
	}{
		{name: "north", to: models.LatLng{Lat: 41, Lng: -122}, expected: "N"},
		{name: "east", to: models.LatLng{Lat: 40, Lng: -121}, expected: "E"},
		{name: "south", to: models.LatLng{Lat: 39, Lng: -122}, expected: "S"},
		{name: "west", to: models.LatLng{Lat: 40, Lng: -123}, expected: "W"},
		{name: "same point", to: models.LatLng{Lat: 40, Lng: -122}, expected: models.UnknownValue},
	}

	from := models.LatLng{Lat: 40, Lng: -122}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CompassDirection(from, tt.to))
		})
	}
	assert.InDelta(t, 90, Bearing(from, models.LatLng{Lat: 40, Lng: -121}), 1)
}

func TestSnapThreshold(t *testing.T) {
	snapper := NewSnapper(DefaultSnapThresholdMeters)
	line := []models.LatLng{syntagma}

	snapped, ok := snapper.Snap(northOf(syntagma, 119), line)
	assert.True(t, ok, "119m is within the threshold")
	assert.Equal(t, syntagma, snapped)

	raw := northOf(syntagma, 121)
	snapped, ok = snapper.Snap(raw, line)
	assert.False(t, ok, "121m is outside the threshold")
	assert.Equal(t, raw, snapped)
}

func TestSnapEmptyLine(t *testing.T) {
	snapped, ok := NewSnapper(0).Snap(syntagma, nil)
	assert.False(t, ok)
	assert.Equal(t, syntagma, snapped)
}

func TestSnapPicksNearestVertexAndFirstOnTie(t *testing.T) {
	raw := models.LatLng{}
	south := models.LatLng{Lat: -0.0005}
	north := models.LatLng{Lat: 0.0005}
	far := models.LatLng{Lat: 0.001}

	snapped, ok := NewSnapper(0).Snap(raw, []models.LatLng{far, south, north})
	require.True(t, ok)
	assert.Equal(t, south, snapped, "equidistant vertices resolve to the first one")

	snapped, ok = NewSnapper(0).Snap(raw, []models.LatLng{far, north, south})
	require.True(t, ok)
	assert.Equal(t, north, snapped)
}

func TestClosestVertex(t *testing.T) {
	idx, dist := ClosestVertex(nil, syntagma)
	assert.Equal(t, -1, idx)
	assert.Equal(t, math.MaxFloat64, dist)

	line := []models.LatLng{northOf(syntagma, 500), northOf(syntagma, 40), northOf(syntagma, 300)}
	idx, dist = ClosestVertex(line, syntagma)
	assert.Equal(t, 1, idx)
	assert.InDelta(t, 40, dist, 1e-6)
}

func TestNearestStop(t *testing.T) {
	a := models.LatLng{Lat: 0.01}
	b := models.LatLng{Lat: -0.01}
	c := models.LatLng{Lat: 0.02}

	stops := []models.Stop{stopAt("no-position", nil), stopAt("A", &a), stopAt("B", &b), stopAt("C", &c)}

	stop, dist, ok := NearestStop(models.LatLng{}, stops)
	require.True(t, ok)
	assert.Equal(t, "A", stop.Code, "ties resolve to the first stop encountered")
	assert.InDelta(t, Haversine(models.LatLng{}, a), dist, 1e-9)

	stop, _, ok = NearestStop(models.LatLng{Lat: 0.019}, stops)
	require.True(t, ok)
	assert.Equal(t, "C", stop.Code)
}

func TestNearestStopWithoutPositions(t *testing.T) {
	_, _, ok := NearestStop(syntagma, []models.Stop{stopAt("X", nil)})
	assert.False(t, ok)

	_, _, ok = NearestStop(syntagma, nil)
	assert.False(t, ok)
}

func TestEncodePolyline(t *testing.T) {
	points := []models.LatLng{
		{Lat: 38.5, Lng: -120.2},
		{Lat: 40.7, Lng: -120.95},
		{Lat: 43.252, Lng: -126.453},
	}
	assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", EncodePolyline(points))
	assert.Empty(t, EncodePolyline(nil))
}

func TestSnapFix(t *testing.T) {
	raw := northOf(syntagma, 30)
	fix := models.VehicleFix{VehicleID: "60432", RouteCode: "2045", Position: raw}

	entry := NewSnapper(0).SnapFix(fix, []models.LatLng{syntagma})
	assert.True(t, entry.Snapped)
	assert.Equal(t, syntagma, entry.Position)
	assert.Equal(t, raw, entry.RawPosition)
	assert.Equal(t, "60432", entry.VehicleID)

	entry = NewSnapper(0).SnapFix(fix, nil)
	assert.False(t, entry.Snapped)
	assert.Equal(t, raw, entry.Position)
}
