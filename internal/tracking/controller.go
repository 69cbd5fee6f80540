// Package tracking polls arrivals and vehicle positions for a rider's
// selection and hands snapped, de-duplicated updates to a renderer.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"busradar.dev/internal/geo"
	"busradar.dev/internal/logging"
	"busradar.dev/internal/models"
)

// DefaultInterval is the auto-refresh period.
const DefaultInterval = 20 * time.Second

type Config struct {
	Interval            time.Duration
	SnapThresholdMeters float64
}

// Controller runs the refresh loop for one selection at a time. A tick that
// fires while a refresh is still running is dropped, not queued.
type Controller struct {
	source   Source
	renderer Renderer
	snapper  geo.Snapper
	gate     *ChangeGate
	interval time.Duration
	logger   *slog.Logger

	mu        sync.Mutex
	cancel    context.CancelFunc
	selection Selection
	wg        sync.WaitGroup

	generation atomic.Uint64
	inFlight   atomic.Bool
	state      atomic.Int32
}

func NewController(source Source, renderer Renderer, config Config, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	return &Controller{
		source:   source,
		renderer: renderer,
		snapper:  geo.NewSnapper(config.SnapThresholdMeters),
		gate:     NewChangeGate(),
		interval: config.Interval,
		logger:   logger.With(slog.String("component", "polling_controller")),
	}
}

// Start switches to sel: any running loop is stopped, one refresh runs
// immediately and further refreshes follow every interval.
func (c *Controller) Start(sel Selection) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()

	gen := c.generation.Add(1)
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.selection = sel
	c.gate.Reset()
	c.state.Store(int32(Loading))

	logging.LogOperation(c.logger, "polling_started",
		slog.String("route_code", sel.RouteCode),
		slog.String("stop_code", sel.StopCode),
		slog.Uint64("generation", gen),
		slog.Duration("interval", c.interval))

	c.wg.Add(1)
	go c.loop(ctx, sel, gen)
}

// Stop cancels the ticker and any in-flight refresh and waits for them to
// exit. Calling it when nothing runs is a no-op.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Controller) stopLocked() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	c.cancel = nil
	c.wg.Wait()
	logging.LogOperation(c.logger, "polling_stopped",
		slog.String("route_code", c.selection.RouteCode))
}

// Running reports whether a refresh loop is active.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}

// InFlight reports whether a refresh is currently running.
func (c *Controller) InFlight() bool {
	return c.inFlight.Load()
}

func (c *Controller) State() ViewState {
	return ViewState(c.state.Load())
}

func (c *Controller) Selection() Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection
}

func (c *Controller) loop(ctx context.Context, sel Selection, gen uint64) {
	defer c.wg.Done()

	c.spawn(ctx, sel, gen)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.spawn(ctx, sel, gen)
		case <-ctx.Done():
			return
		}
	}
}

// spawn runs a tick without blocking the loop, so the ticker never backs up.
func (c *Controller) spawn(ctx context.Context, sel Selection, gen uint64) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.tick(ctx, sel, gen)
	}()
}

func (c *Controller) tick(ctx context.Context, sel Selection, gen uint64) {
	if !c.inFlight.CompareAndSwap(false, true) {
		c.logger.Debug("refresh skipped, previous one still running",
			slog.String("route_code", sel.RouteCode))
		return
	}
	defer c.inFlight.Store(false)

	c.refresh(ctx, sel, gen)
}

func (c *Controller) refresh(ctx context.Context, sel Selection, gen uint64) {
	var (
		arrivals                []models.ArrivalEstimate
		fixes                   []models.VehicleFix
		arrivalsErr, vehicleErr error
		g                       errgroup.Group
	)
	g.Go(func() error {
		arrivals, arrivalsErr = c.source.Arrivals(ctx, sel.StopCode)
		return arrivalsErr
	})
	g.Go(func() error {
		fixes, vehicleErr = c.source.Vehicles(ctx, sel.RouteCode)
		return vehicleErr
	})
	_ = g.Wait()

	if ctx.Err() != nil || c.generation.Load() != gen {
		c.logger.Debug("discarding refresh for a previous selection",
			slog.String("route_code", sel.RouteCode),
			slog.Uint64("generation", gen))
		return
	}

	arrivalsErr = wrapPart("arrivals", arrivalsErr)
	vehicleErr = wrapPart("vehicles", vehicleErr)
	if arrivalsErr != nil && vehicleErr != nil {
		err := errors.Join(arrivalsErr, vehicleErr)
		c.state.CompareAndSwap(int32(Loading), int32(Unavailable))
		logging.LogError(c.logger, "Refresh failed", err,
			slog.String("route_code", sel.RouteCode),
			slog.String("stop_code", sel.StopCode))
		c.renderer.OnError(sel, err)
		return
	}

	// One side failing still delivers the other; the fetches are independent.
	update := Update{
		Selection:   sel,
		Generation:  gen,
		ArrivalsErr: arrivalsErr,
		VehicleErr:  vehicleErr,
	}
	if arrivalsErr == nil {
		update.Arrivals = arrivals
		update.ArrivalsChanged = c.gate.ShouldUpdate(arrivals)
	} else {
		c.logger.Warn("arrivals refresh failed, delivering vehicles only",
			slog.String("stop_code", sel.StopCode),
			slog.String("error", arrivalsErr.Error()))
	}
	if vehicleErr != nil {
		c.logger.Warn("vehicles refresh failed, delivering arrivals only",
			slog.String("route_code", sel.RouteCode),
			slog.String("error", vehicleErr.Error()))
	} else if len(fixes) > 0 {
		entry := c.snapper.SnapFix(fixes[0], sel.Geometry)
		update.Vehicle = &entry
		update.Snapped = entry.Snapped
	}

	c.state.Store(int32(Ready))
	c.renderer.OnUpdate(update)
}

func wrapPart(part string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", part, err)
}
