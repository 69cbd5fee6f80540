package models

// Stop belongs to a single route for the current query. Position is nil when
// the upstream omitted or garbled the coordinates.
type Stop struct {
	Code        string  `json:"stopCode"`
	ID          string  `json:"stopId,omitempty"`
	Description string  `json:"description"`
	Position    *LatLng `json:"position,omitempty"`
	Order       int     `json:"order,omitempty"`
}

func NewStop(code, id, description string, position *LatLng, order int) Stop {
	return Stop{
		Code:        code,
		ID:          id,
		Description: description,
		Position:    position,
		Order:       order,
	}
}

// HasPosition reports whether the stop can be placed on a map.
func (s Stop) HasPosition() bool {
	return s.Position != nil
}

// NearestStopEntry is the payload of the nearest-stop lookup.
type NearestStopEntry struct {
	Stop           Stop    `json:"stop"`
	DistanceMeters float64 `json:"distanceMeters"`
	// Direction is the compass direction from the rider to the stop.
	Direction string `json:"direction"`
}
