package transit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"busradar.dev/internal/models"
	"busradar.dev/internal/upstream"
)

// Client performs the uncached lookups: a line's routes, a stop's arrivals,
// a route's vehicles and raw passthrough queries.
type Client struct {
	api          Upstream
	timeout      time.Duration
	proxyTimeout time.Duration
	logger       *slog.Logger
}

func NewClient(api Upstream, timeout, proxyTimeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		api:          api,
		timeout:      timeout,
		proxyTimeout: proxyTimeout,
		logger:       logger.With(slog.String("component", "transit_client")),
	}
}

func (c *Client) Routes(ctx context.Context, lineCode string) ([]models.Route, error) {
	raw, err := c.api.Fetch(ctx, upstream.NewQuery(upstream.ActGetRoutesForLine, lineCode), c.timeout)
	if err != nil {
		return nil, fmt.Errorf("routes for line %s: %w", lineCode, err)
	}
	return upstream.ParseRoutes(raw, lineCode)
}

// Arrivals returns the upstream estimates for a stop in upstream order.
func (c *Client) Arrivals(ctx context.Context, stopCode string) ([]models.ArrivalEstimate, error) {
	raw, err := c.api.Fetch(ctx, upstream.NewQuery(upstream.ActGetStopArrivals, stopCode), c.timeout)
	if err != nil {
		return nil, fmt.Errorf("arrivals for stop %s: %w", stopCode, err)
	}
	return upstream.ParseArrivals(raw)
}

// Vehicles returns the current fixes on a route; the first one is the
// vehicle the tracker follows.
func (c *Client) Vehicles(ctx context.Context, routeCode string) ([]models.VehicleFix, error) {
	raw, err := c.api.Fetch(ctx, upstream.NewQuery(upstream.ActGetBusLocation, routeCode), c.timeout)
	if err != nil {
		return nil, fmt.Errorf("vehicles for route %s: %w", routeCode, err)
	}
	return upstream.ParseVehicles(raw, routeCode)
}

// Proxy forwards q as is and returns the upstream payload untouched.
func (c *Client) Proxy(ctx context.Context, q upstream.Query) (json.RawMessage, error) {
	raw, err := c.api.Fetch(ctx, q, c.proxyTimeout)
	if err != nil {
		c.logger.Warn("proxy request failed",
			slog.String("query", q.String()),
			slog.String("error", err.Error()))
		return nil, err
	}
	return raw, nil
}
