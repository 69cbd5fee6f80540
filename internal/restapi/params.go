package restapi

import (
	"net/http"

	"busradar.dev/internal/utils"
)

// pathCode reads and validates an upstream code from the route parameters.
// It writes the 400 response itself when the code is unusable.
func (api *RestAPI) pathCode(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	code := utils.ExtractIDFromParams(r, name)
	if err := utils.ValidateID(code); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{
			name: {err.Error()},
		})
		return "", false
	}
	return code, true
}
