// Package transit is the resilient data-access layer in front of the
// upstream transit API: cached lines with stale fallback, probing for
// route stops, route geometry and uncached live lookups.
package transit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"busradar.dev/internal/cache"
	"busradar.dev/internal/upstream"
)

// Upstream runs a single query against the upstream API.
type Upstream interface {
	Fetch(ctx context.Context, q upstream.Query, timeout time.Duration) (json.RawMessage, error)
}

// Services bundles everything built on one upstream connection.
type Services struct {
	Lines    *LinesService
	Stops    *StopsResolver
	Geometry *GeometryService
	Client   *Client
}

func NewServices(api Upstream, config Config, clock cache.Clock, logger *slog.Logger) *Services {
	if logger == nil {
		logger = slog.Default()
	}
	return &Services{
		Lines:    NewLinesService(api, clock, config.LinesTTL, config.LinesTimeout, logger),
		Stops:    NewStopsResolver(api, config.StopsTimeout, logger),
		Geometry: NewGeometryService(api, clock, config.GeometryTTL, config.GeometryTimeout, logger),
		Client:   NewClient(api, config.RealtimeTimeout, config.ProxyTimeout, logger),
	}
}
