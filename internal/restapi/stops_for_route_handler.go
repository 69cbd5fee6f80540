package restapi

import (
	"net/http"

	"busradar.dev/internal/models"
)

func (api *RestAPI) stopsForRouteHandler(w http.ResponseWriter, r *http.Request) {
	routeCode, ok := api.pathCode(w, r, "routeCode")
	if !ok {
		return
	}

	stops, err := api.Transit.Stops.Stops(r.Context(), routeCode)
	if err != nil {
		api.unavailableResponse(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewListResponse(stops, false))
}
