package models

// LatLng is a WGS84 coordinate pair in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the coordinate lies within the WGS84 ranges.
func (p LatLng) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// GeometrySource tells where a route polyline came from.
type GeometrySource string

const (
	GeometryUpstream GeometrySource = "upstream"
	GeometryStops    GeometrySource = "stops"
	GeometryNone     GeometrySource = "none"
)

// RouteGeometry is the polyline drawn for a route. Points either come from the
// upstream shape or from ordered stop coordinates, never a mix of both.
type RouteGeometry struct {
	RouteCode string         `json:"routeCode"`
	Source    GeometrySource `json:"source"`
	Points    []LatLng       `json:"points"`
}

// Degraded is true when the polyline was built from stop coordinates.
func (g RouteGeometry) Degraded() bool {
	return g.Source == GeometryStops
}

// Empty is true when there is no line to draw or snap onto.
func (g RouteGeometry) Empty() bool {
	return len(g.Points) == 0
}

// RouteGeometryEntry is the API representation of a RouteGeometry.
type RouteGeometryEntry struct {
	RouteGeometry
	Degraded       bool   `json:"degraded"`
	EncodedPoints  string `json:"encodedPoints"`
	NumberOfPoints int    `json:"length"`
}
