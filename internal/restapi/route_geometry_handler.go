package restapi

import (
	"context"
	"log/slog"
	"net/http"

	"busradar.dev/internal/geo"
	"busradar.dev/internal/logging"
	"busradar.dev/internal/models"
	"busradar.dev/internal/transit"
)

// routeGeometry resolves the polyline of a route, looking up the route's
// stops only when the upstream shape is unusable.
func (api *RestAPI) routeGeometry(ctx context.Context, routeCode string) models.RouteGeometry {
	return api.Transit.Geometry.Resolve(ctx, routeCode, func(ctx context.Context) []models.LatLng {
		stops, err := api.Transit.Stops.Stops(ctx, routeCode)
		if err != nil {
			logging.FromContext(ctx).Warn("no stops to draw route from",
				slog.String("route_code", routeCode),
				slog.String("error", err.Error()))
			return nil
		}
		return transit.StopsFallback(stops)
	})
}

func newRouteGeometryEntry(geometry models.RouteGeometry) models.RouteGeometryEntry {
	return models.RouteGeometryEntry{
		RouteGeometry:  geometry,
		Degraded:       geometry.Degraded(),
		EncodedPoints:  geo.EncodePolyline(geometry.Points),
		NumberOfPoints: len(geometry.Points),
	}
}

func (api *RestAPI) routeGeometryHandler(w http.ResponseWriter, r *http.Request) {
	routeCode, ok := api.pathCode(w, r, "routeCode")
	if !ok {
		return
	}

	geometry := api.routeGeometry(r.Context(), routeCode)
	api.sendResponse(w, r, models.NewEntryResponse(newRouteGeometryEntry(geometry)))
}
