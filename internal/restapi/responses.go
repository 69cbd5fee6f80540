package restapi

import (
	"encoding/json"
	"net/http"

	"busradar.dev/internal/models"
)

func (api *RestAPI) sendResponse(w http.ResponseWriter, r *http.Request, response models.ResponseModel) {
	setJSONResponseType(&w)
	if response.Code != 0 && response.Code != http.StatusOK {
		w.WriteHeader(response.Code)
	}
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		api.Logger.Error("failed to encode response", "error", err, "path", r.URL.Path)
	}
}

// sendRaw writes an already encoded JSON document as is.
func (api *RestAPI) sendRaw(w http.ResponseWriter, r *http.Request, body []byte) {
	setJSONResponseType(&w)
	if _, err := w.Write(body); err != nil {
		api.Logger.Error("failed to write response", "error", err, "path", r.URL.Path)
	}
}

// sendJSON encodes v without the response envelope.
func (api *RestAPI) sendJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	setJSONResponseType(&w)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		api.Logger.Error("failed to encode response", "error", err, "path", r.URL.Path)
	}
}

func (api *RestAPI) sendNotFound(w http.ResponseWriter, r *http.Request) {
	api.sendResponse(w, r, models.NewErrorResponse(http.StatusNotFound, "resource not found"))
}

func setJSONResponseType(w *http.ResponseWriter) {
	(*w).Header().Set("Content-Type", "application/json")
}
