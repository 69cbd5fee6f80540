package restapi

import (
	"net/http"

	"busradar.dev/internal/models"
)

func (api *RestAPI) linesHandler(w http.ResponseWriter, r *http.Request) {
	result, err := api.Transit.Lines.Lines(r.Context())
	if err != nil {
		api.unavailableResponse(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewListResponse(result.Lines, result.Stale()))
}
