package tracking

import (
	"context"

	"busradar.dev/internal/models"
)

// Selection is what the rider is watching.
type Selection struct {
	LineCode  string
	RouteCode string
	StopCode  string
	// Geometry is the route polyline vehicles are snapped onto; it may be empty.
	Geometry []models.LatLng
}

// ViewState tells a renderer what to show when there is no fresh data.
type ViewState int32

const (
	// Loading means no refresh has completed for the current selection.
	Loading ViewState = iota
	Ready
	// Unavailable means refreshes failed and nothing has been shown yet.
	Unavailable
)

func (s ViewState) String() string {
	switch s {
	case Ready:
		return "ready"
	case Unavailable:
		return "unavailable"
	default:
		return "loading"
	}
}

// Update is the result of a refresh in which at least one of the arrivals
// and vehicles fetches succeeded.
type Update struct {
	Selection  Selection
	Generation uint64
	Arrivals   []models.ArrivalEstimate
	// ArrivalsChanged is false when the leading arrivals match the previous
	// update or could not be fetched; renderers keep the displayed ETA then.
	ArrivalsChanged bool
	// Vehicle is the first reported vehicle, nil when none is reported or
	// the vehicles fetch failed.
	Vehicle *models.VehicleEntry
	Snapped bool

	ArrivalsErr error
	VehicleErr  error
}

// Source provides the live data polled for a selection.
type Source interface {
	Arrivals(ctx context.Context, stopCode string) ([]models.ArrivalEstimate, error)
	Vehicles(ctx context.Context, routeCode string) ([]models.VehicleFix, error)
}

// Renderer receives refresh results. Calls come from background goroutines
// but never concurrently for the same controller.
type Renderer interface {
	OnUpdate(update Update)
	OnError(sel Selection, err error)
}
