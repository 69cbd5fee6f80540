package transit

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"busradar.dev/internal/cache"
	"busradar.dev/internal/models"
	"busradar.dev/internal/upstream"
)

// minPolylinePoints is the fewest vertices that still form a line.
const minPolylinePoints = 2

// GeometryService resolves the polyline drawn for a route, preferring the
// upstream shape and falling back to the ordered stop coordinates.
type GeometryService struct {
	api     Upstream
	cache   *cache.Timed[string, []models.LatLng]
	timeout time.Duration
	logger  *slog.Logger
}

func NewGeometryService(api Upstream, clock cache.Clock, ttl, timeout time.Duration, logger *slog.Logger) *GeometryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GeometryService{
		api:     api,
		cache:   cache.NewTimed[string, []models.LatLng](ttl, clock, cache.DefaultCapacity),
		timeout: timeout,
		logger:  logger.With(slog.String("component", "geometry_service")),
	}
}

// Geometry never fails: when neither the upstream shape nor fallbackStops
// provide two points the result has Source none and no points.
func (g *GeometryService) Geometry(ctx context.Context, routeCode string, fallbackStops []models.LatLng) models.RouteGeometry {
	return g.Resolve(ctx, routeCode, func(context.Context) []models.LatLng {
		return fallbackStops
	})
}

// Resolve is Geometry with the fallback coordinates produced on demand, so
// stops are only looked up when the upstream shape is rejected.
func (g *GeometryService) Resolve(ctx context.Context, routeCode string, fallback func(context.Context) []models.LatLng) models.RouteGeometry {
	cached, freshness := g.cache.Get(routeCode)
	if freshness == cache.Fresh {
		return upstreamGeometry(routeCode, cached)
	}

	points, err := g.cache.Do(ctx, routeCode, func(ctx context.Context) ([]models.LatLng, error) {
		raw, err := g.api.Fetch(ctx, upstream.NewQuery(upstream.ActGetRouteShape, routeCode), g.timeout)
		if err != nil {
			return nil, err
		}
		points, err := upstream.ParseShape(raw)
		if err != nil {
			return nil, err
		}
		if len(points) < minPolylinePoints {
			return nil, fmt.Errorf("route shape has %d usable points", len(points))
		}
		g.cache.Put(routeCode, points)
		return points, nil
	})
	if err == nil {
		return upstreamGeometry(routeCode, points)
	}

	g.logger.Debug("route shape unavailable",
		slog.String("route_code", routeCode),
		slog.String("error", err.Error()))

	if freshness == cache.Stale {
		return upstreamGeometry(routeCode, cached)
	}
	fallbackStops := fallback(ctx)
	if len(fallbackStops) >= minPolylinePoints {
		return models.RouteGeometry{
			RouteCode: routeCode,
			Source:    models.GeometryStops,
			Points:    slices.Clone(fallbackStops),
		}
	}
	return models.RouteGeometry{
		RouteCode: routeCode,
		Source:    models.GeometryNone,
		Points:    []models.LatLng{},
	}
}

func upstreamGeometry(routeCode string, points []models.LatLng) models.RouteGeometry {
	return models.RouteGeometry{
		RouteCode: routeCode,
		Source:    models.GeometryUpstream,
		Points:    slices.Clone(points),
	}
}

// StopsFallback returns the coordinates of stops in order, skipping stops
// without a position.
func StopsFallback(stops []models.Stop) []models.LatLng {
	points := make([]models.LatLng, 0, len(stops))
	for _, s := range stops {
		if s.HasPosition() {
			points = append(points, *s.Position)
		}
	}
	return points
}
