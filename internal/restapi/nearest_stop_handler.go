package restapi

import (
	"net/http"

	"busradar.dev/internal/geo"
	"busradar.dev/internal/models"
	"busradar.dev/internal/utils"
)

func (api *RestAPI) nearestStopHandler(w http.ResponseWriter, r *http.Request) {
	routeCode, ok := api.pathCode(w, r, "routeCode")
	if !ok {
		return
	}

	query := r.URL.Query()
	lat, lon, fieldErrors := utils.ParseLocationParams(query.Get("lat"), query.Get("lon"))
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	stops, err := api.Transit.Stops.Stops(r.Context(), routeCode)
	if err != nil {
		api.unavailableResponse(w, r, err)
		return
	}

	rider := models.LatLng{Lat: lat, Lng: lon}
	stop, distance, found := geo.NearestStop(rider, stops)
	if !found {
		api.sendNotFound(w, r)
		return
	}

	api.sendResponse(w, r, models.NewEntryResponse(models.NearestStopEntry{
		Stop:           stop,
		DistanceMeters: distance,
		Direction:      geo.CompassDirection(rider, *stop.Position),
	}))
}
