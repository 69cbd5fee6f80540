package restapi

import (
	"errors"
	"net/http"

	"busradar.dev/internal/logging"
	"busradar.dev/internal/models"
	"busradar.dev/internal/upstream"
)

func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(logging.FromContext(r.Context()), "internal server error", err)
	api.sendResponse(w, r, models.NewErrorResponse(http.StatusInternalServerError, "internal server error"))
}

// validationErrorResponse sends a 400 Bad Request response with field-specific validation errors
func (api *RestAPI) validationErrorResponse(w http.ResponseWriter, r *http.Request, fieldErrors map[string][]string) {
	api.sendResponse(w, r, models.NewResponse(http.StatusBadRequest, map[string]interface{}{
		"fieldErrors": fieldErrors,
	}, "validation failed"))
}

func (api *RestAPI) badRequestResponse(w http.ResponseWriter, r *http.Request, text string) {
	api.sendResponse(w, r, models.NewErrorResponse(http.StatusBadRequest, text))
}

// badGatewayResponse reports a failed upstream call for data that has no
// fallback.
func (api *RestAPI) badGatewayResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(logging.FromContext(r.Context()), "upstream request failed", err)
	api.sendResponse(w, r, models.NewErrorResponse(http.StatusBadGateway, upstreamErrorText(err)))
}

// unavailableResponse reports that every upstream option and the cache were
// exhausted.
func (api *RestAPI) unavailableResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(logging.FromContext(r.Context()), "data unavailable", err)
	api.sendResponse(w, r, models.NewErrorResponse(http.StatusServiceUnavailable, "temporarily unavailable, try again later"))
}

func upstreamErrorText(err error) string {
	var statusErr *upstream.StatusError
	switch {
	case errors.Is(err, upstream.ErrTimeout):
		return "upstream timed out"
	case errors.As(err, &statusErr):
		return "upstream answered " + http.StatusText(statusErr.StatusCode)
	case errors.Is(err, upstream.ErrUpstreamReported):
		return "upstream reported an error"
	default:
		return "upstream request failed"
	}
}
