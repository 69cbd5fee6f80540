package restapi

import (
	"errors"
	"net/http"
	"strings"

	"busradar.dev/internal/upstream"
	"busradar.dev/internal/utils"
)

// legacyQuery returns the q parameter. Clients that forgot to escape it end
// up with p1/p2 as sibling parameters, which are folded back in.
func legacyQuery(r *http.Request) string {
	values := r.URL.Query()
	q := values.Get("q")
	if q == "" {
		return ""
	}
	for _, name := range []string{"p1", "p2"} {
		if v := values.Get(name); v != "" && !strings.Contains(q, name+"=") {
			q += "&" + name + "=" + v
		}
	}
	return q
}

// legacyProxyHandler keeps the original single endpoint alive. Lines and
// route stops go through the resilient services; other known acts are passed
// through. Successful bodies are the upstream records as received, unwrapped
// from any envelope, so existing clients keep reading upstream field names.
func (api *RestAPI) legacyProxyHandler(w http.ResponseWriter, r *http.Request) {
	raw := legacyQuery(r)
	if raw == "" {
		api.validationErrorResponse(w, r, map[string][]string{"q": {"is required"}})
		return
	}
	if err := utils.ValidateQuery(raw); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"q": {err.Error()}})
		return
	}

	q, err := upstream.ParseQuery(raw)
	if err != nil {
		text := err.Error()
		if errors.Is(err, upstream.ErrUnknownAct) {
			text = "unsupported act"
		}
		api.validationErrorResponse(w, r, map[string][]string{"q": {text}})
		return
	}

	ctx := r.Context()
	switch q.Act {
	case upstream.ActGetLines:
		result, err := api.Transit.Lines.Lines(ctx)
		if err != nil {
			api.unavailableResponse(w, r, err)
			return
		}
		api.sendJSON(w, r, result.Records)

	case upstream.ActGetStopsForRoute:
		if q.P1 == "" {
			api.validationErrorResponse(w, r, map[string][]string{"p1": {"is required"}})
			return
		}
		resolved, err := api.Transit.Stops.Resolve(ctx, q.P1)
		if err != nil {
			api.unavailableResponse(w, r, err)
			return
		}
		api.sendJSON(w, r, resolved.Records)

	default:
		body, err := api.Transit.Client.Proxy(ctx, q)
		if err != nil {
			api.badGatewayResponse(w, r, err)
			return
		}
		api.sendRaw(w, r, body)
	}
}
