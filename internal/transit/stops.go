package transit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"busradar.dev/internal/fallback"
	"busradar.dev/internal/logging"
	"busradar.dev/internal/models"
	"busradar.dev/internal/upstream"
)

// ErrStopsUnavailable is returned when no stops variant yields stops.
var ErrStopsUnavailable = errors.New("stops unavailable")

// StopsResolver probes the upstream's stops endpoints in order, since
// which one answers for a given route varies.
type StopsResolver struct {
	api     Upstream
	timeout time.Duration
	logger  *slog.Logger
}

func NewStopsResolver(api Upstream, timeout time.Duration, logger *slog.Logger) *StopsResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &StopsResolver{
		api:     api,
		timeout: timeout,
		logger:  logger.With(slog.String("component", "stops_resolver")),
	}
}

// RouteStops is an accepted stops payload: the normalized stops and the
// upstream records they were parsed from.
type RouteStops struct {
	Stops   []models.Stop
	Records []json.RawMessage
	// Variant names the upstream act that answered.
	Variant upstream.Act
}

// Stops returns the stops of a route in route order. The first variant that
// yields a non-empty list wins; later variants are not tried.
func (r *StopsResolver) Stops(ctx context.Context, routeCode string) ([]models.Stop, error) {
	resolved, err := r.Resolve(ctx, routeCode)
	return resolved.Stops, err
}

// Resolve is Stops keeping the accepted upstream records alongside.
func (r *StopsResolver) Resolve(ctx context.Context, routeCode string) (RouteStops, error) {
	variants := upstream.StopsVariants(routeCode)
	strategies := make([]fallback.Strategy[RouteStops], 0, len(variants))
	for _, q := range variants {
		strategies = append(strategies, fallback.Strategy[RouteStops]{
			Name: string(q.Act),
			Run: func(ctx context.Context) (RouteStops, error) {
				raw, err := r.api.Fetch(ctx, q, r.timeout)
				if err != nil {
					return RouteStops{}, err
				}
				stops, err := upstream.ParseStops(raw)
				if err != nil {
					return RouteStops{}, err
				}
				records, err := upstream.DecodeList(raw)
				if err != nil {
					return RouteStops{}, err
				}
				return RouteStops{Stops: stops, Records: records, Variant: q.Act}, nil
			},
		})
	}

	resolved, outcome, err := fallback.FirstAccepted(ctx, strategies, func(rs RouteStops) bool {
		return len(rs.Stops) > 0
	})
	if err != nil {
		logging.LogError(r.logger, "All stops variants failed", err,
			slog.String("route_code", routeCode),
			slog.Int("attempts", outcome.Tried()))
		return RouteStops{Stops: []models.Stop{}, Records: []json.RawMessage{}},
			fmt.Errorf("%w: route %s: %w", ErrStopsUnavailable, routeCode, err)
	}

	r.logger.Debug("stops resolved",
		slog.String("route_code", routeCode),
		slog.String("variant", outcome.Winner),
		slog.Int("attempts", outcome.Tried()),
		slog.Int("count", len(resolved.Stops)))
	return resolved, nil
}
