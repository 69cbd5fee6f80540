package restapi

import (
	"net/http"

	"busradar.dev/internal/models"
)

func (api *RestAPI) arrivalsForStopHandler(w http.ResponseWriter, r *http.Request) {
	stopCode, ok := api.pathCode(w, r, "stopCode")
	if !ok {
		return
	}

	arrivals, err := api.Transit.Client.Arrivals(r.Context(), stopCode)
	if err != nil {
		api.badGatewayResponse(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewListResponse(arrivals, false))
}
