package restapi

import (
	"net/http"

	"busradar.dev/internal/models"
)

// vehiclesForRouteHandler returns the live vehicles of a route, each snapped
// onto the route polyline when close enough to it.
func (api *RestAPI) vehiclesForRouteHandler(w http.ResponseWriter, r *http.Request) {
	routeCode, ok := api.pathCode(w, r, "routeCode")
	if !ok {
		return
	}

	ctx := r.Context()
	fixes, err := api.Transit.Client.Vehicles(ctx, routeCode)
	if err != nil {
		api.badGatewayResponse(w, r, err)
		return
	}

	entries := make([]models.VehicleEntry, 0, len(fixes))
	if len(fixes) > 0 {
		line := api.routeGeometry(ctx, routeCode).Points
		for _, fix := range fixes {
			entries = append(entries, api.Snapper.SnapFix(fix, line))
		}
	}
	api.sendResponse(w, r, models.NewListResponse(entries, false))
}
