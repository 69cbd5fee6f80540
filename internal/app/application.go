package app

import (
	"log/slog"
	"net/http"
	"time"

	"busradar.dev/internal/appconf"
	"busradar.dev/internal/cache"
	"busradar.dev/internal/geo"
	"busradar.dev/internal/tracking"
	"busradar.dev/internal/transit"
	"busradar.dev/internal/upstream"
)

// Application holds the dependencies shared by the HTTP handlers, the
// middleware and the tracker.
type Application struct {
	Config    appconf.Config
	Logger    *slog.Logger
	Upstream  *upstream.API
	Transit   *transit.Services
	Warmer    *transit.Warmer
	Snapper   geo.Snapper
	StartedAt time.Time
}

// New wires the services on top of fetcher. The lines warmer is created
// when enabled in the config but only runs once StartBackground is called.
func New(cfg appconf.Config, logger *slog.Logger, fetcher upstream.Fetcher) *Application {
	if logger == nil {
		logger = slog.Default()
	}

	api := upstream.NewAPI(fetcher, cfg.Upstream.BaseURL)
	services := transit.NewServices(api, TransitConfig(cfg), cache.SystemClock, logger)

	application := &Application{
		Config:    cfg,
		Logger:    logger,
		Upstream:  api,
		Transit:   services,
		Snapper:   geo.NewSnapper(cfg.Tracking.SnapThresholdMeters),
		StartedAt: time.Now(),
	}
	if cfg.Cache.Warm {
		application.Warmer = transit.NewWarmer(services.Lines, transit.WarmerConfig{
			Interval:   cfg.Cache.WarmInterval,
			MaxElapsed: cfg.Cache.WarmMaxElapsed,
		}, logger)
	}
	return application
}

// NewUpstreamFetcher builds the HTTP fetcher described by cfg.
func NewUpstreamFetcher(cfg appconf.Config, logger *slog.Logger) *upstream.HTTPFetcher {
	client := &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConnsPerHost: 16,
			IdleConnTimeout:     90 * time.Second,
		},
	}
	return upstream.NewHTTPFetcher(client, upstream.FetcherConfig{
		UserAgent:     cfg.Upstream.UserAgent,
		RatePerSecond: cfg.Upstream.RatePerSecond,
		Burst:         cfg.Upstream.Burst,
	}, logger)
}

func TransitConfig(cfg appconf.Config) transit.Config {
	return transit.Config{
		LinesTTL:        cfg.Cache.LinesTTL,
		LinesTimeout:    cfg.Timeouts.Lines,
		StopsTimeout:    cfg.Timeouts.Stops,
		GeometryTTL:     cfg.Cache.GeometryTTL,
		GeometryTimeout: cfg.Timeouts.Geometry,
		RealtimeTimeout: cfg.Timeouts.Realtime,
		ProxyTimeout:    cfg.Timeouts.Proxy,
	}
}

func TrackingConfig(cfg appconf.Config) tracking.Config {
	return tracking.Config{
		Interval:            cfg.Tracking.Interval,
		SnapThresholdMeters: cfg.Tracking.SnapThresholdMeters,
	}
}

// StartBackground starts the lines warmer, if any.
func (app *Application) StartBackground() {
	if app.Warmer != nil {
		app.Warmer.Start()
	}
}

// Shutdown stops background work. Safe to call more than once.
func (app *Application) Shutdown() {
	if app.Warmer != nil {
		app.Warmer.Shutdown()
	}
}
