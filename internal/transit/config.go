package transit

import "time"

// Config holds the freshness windows and per-attempt time budgets of the
// transit services.
type Config struct {
	LinesTTL        time.Duration
	LinesTimeout    time.Duration
	StopsTimeout    time.Duration
	GeometryTTL     time.Duration
	GeometryTimeout time.Duration
	// RealtimeTimeout bounds routes, arrivals and vehicle lookups.
	RealtimeTimeout time.Duration
	ProxyTimeout    time.Duration
}
