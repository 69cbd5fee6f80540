package restapi

import (
	"net/http"
	"net/http/pprof"

	"github.com/julienschmidt/httprouter"

	"busradar.dev/internal/appconf"
	"busradar.dev/internal/models"
)

func registerPprofHandlers(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/debug/pprof/*item", func(w http.ResponseWriter, r *http.Request) {
		switch httprouter.ParamsFromContext(r.Context()).ByName("item") {
		case "/cmdline":
			pprof.Cmdline(w, r)
		case "/profile":
			pprof.Profile(w, r)
		case "/symbol":
			pprof.Symbol(w, r)
		case "/trace":
			pprof.Trace(w, r)
		default:
			pprof.Index(w, r)
		}
	})
}

func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/", api.healthHandler)
	router.HandlerFunc(http.MethodGet, "/api", api.legacyProxyHandler)
	router.HandlerFunc(http.MethodGet, "/api/lines", api.linesHandler)
	router.HandlerFunc(http.MethodGet, "/api/lines/:lineCode/routes", api.routesForLineHandler)
	router.HandlerFunc(http.MethodGet, "/api/routes/:routeCode/stops", api.stopsForRouteHandler)
	router.HandlerFunc(http.MethodGet, "/api/routes/:routeCode/geometry", api.routeGeometryHandler)
	router.HandlerFunc(http.MethodGet, "/api/routes/:routeCode/vehicles", api.vehiclesForRouteHandler)
	router.HandlerFunc(http.MethodGet, "/api/routes/:routeCode/nearest-stop", api.nearestStopHandler)
	router.HandlerFunc(http.MethodGet, "/api/stops/:stopCode/arrivals", api.arrivalsForStopHandler)

	router.NotFound = http.HandlerFunc(api.sendNotFound)
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.sendResponse(w, r, models.NewErrorResponse(http.StatusMethodNotAllowed, "method not allowed"))
	})
	// CORS preflights are answered by the CORS middleware
	router.HandleOPTIONS = false

	if api.Config.Env == appconf.Development {
		registerPprofHandlers(router)
	}
}

// Handler wraps router with the middleware chain, outermost first: request
// logging, CORS, security headers, rate limiting and compression.
func (api *RestAPI) Handler(router http.Handler) http.Handler {
	var handler http.Handler = router
	handler = CompressionMiddleware(handler)
	handler = api.rateLimiter.Handler(handler)
	handler = securityHeaders(handler)
	handler = NewCORSMiddleware(api.Config.AllowedOrigins)(handler)
	handler = NewRequestLoggingMiddleware(api.Logger)(handler)
	return handler
}
