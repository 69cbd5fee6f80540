package models

// VehicleFix is a single reported vehicle position. Vehicles are not tracked
// across polls.
type VehicleFix struct {
	VehicleID  string `json:"vehicleId,omitempty"`
	RouteCode  string `json:"routeCode,omitempty"`
	Position   LatLng `json:"position"`
	ReportedAt string `json:"reportedAt,omitempty"`
}

// VehicleEntry is a vehicle fix as displayed: the position after snapping
// onto the route plus the raw one reported upstream.
type VehicleEntry struct {
	VehicleFix
	RawPosition LatLng `json:"rawPosition"`
	Snapped     bool   `json:"snapped"`
}

// ArrivalEstimate is the upstream prediction for one approaching vehicle.
type ArrivalEstimate struct {
	RouteLabel string `json:"routeLabel"`
	VehicleID  string `json:"vehicleId,omitempty"`
	Minutes    int    `json:"minutes"`
}

// Urgent reports whether the vehicle is due in under five minutes.
func (a ArrivalEstimate) Urgent() bool {
	return a.Minutes < 5
}
