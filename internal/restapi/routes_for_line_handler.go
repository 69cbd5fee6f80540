package restapi

import (
	"net/http"

	"busradar.dev/internal/models"
)

func (api *RestAPI) routesForLineHandler(w http.ResponseWriter, r *http.Request) {
	lineCode, ok := api.pathCode(w, r, "lineCode")
	if !ok {
		return
	}

	routes, err := api.Transit.Client.Routes(r.Context(), lineCode)
	if err != nil {
		api.badGatewayResponse(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewListResponse(routes, false))
}
