package transit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"busradar.dev/internal/logging"
)

// WarmerConfig controls background refreshing of the lines cache.
type WarmerConfig struct {
	Interval time.Duration
	// InitialBackoff and MaxElapsed shape the retries of the first preload.
	InitialBackoff time.Duration
	MaxElapsed     time.Duration
}

func DefaultWarmerConfig() WarmerConfig {
	return WarmerConfig{
		Interval:       time.Hour,
		InitialBackoff: 2 * time.Second,
		MaxElapsed:     5 * time.Minute,
	}
}

// Warmer keeps the lines cache populated so the first rider after an expiry
// does not pay for the refresh. Lines are served correctly without it.
type Warmer struct {
	lines  *LinesService
	config WarmerConfig
	logger *slog.Logger

	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	startOnce    sync.Once
	shutdownOnce sync.Once
}

func NewWarmer(lines *LinesService, config WarmerConfig, logger *slog.Logger) *Warmer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Interval <= 0 {
		config.Interval = DefaultWarmerConfig().Interval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Warmer{
		lines:  lines,
		config: config,
		logger: logger.With(slog.String("component", "lines_warmer")),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start launches the preload and the periodic refresh in the background.
func (w *Warmer) Start() {
	w.startOnce.Do(func() {
		w.wg.Add(1)
		go w.run()
	})
}

func (w *Warmer) run() {
	defer w.wg.Done()

	if err := w.preload(); err != nil {
		logging.LogError(w.logger, "Initial lines preload failed", err)
	}

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logging.LogOperation(w.logger, "refreshing_lines")
			if _, err := w.lines.Refresh(w.ctx); err != nil {
				logging.LogError(w.logger, "Periodic lines refresh failed", err)
			}
		case <-w.ctx.Done():
			logging.LogOperation(w.logger, "shutting_down_lines_warmer")
			return
		}
	}
}

func (w *Warmer) preload() error {
	b := backoff.NewExponentialBackOff()
	if w.config.InitialBackoff > 0 {
		b.InitialInterval = w.config.InitialBackoff
	}
	b.MaxElapsedTime = w.config.MaxElapsed

	operation := func() error {
		_, err := w.lines.Refresh(w.ctx)
		return err
	}
	notify := func(err error, next time.Duration) {
		w.logger.Warn("lines preload failed, retrying",
			slog.String("error", err.Error()),
			slog.Duration("retry_in", next))
	}
	return backoff.RetryNotify(operation, backoff.WithContext(b, w.ctx), notify)
}

// Shutdown stops the warmer and waits for its goroutine. Safe to call more
// than once, and before Start.
func (w *Warmer) Shutdown() {
	w.shutdownOnce.Do(func() {
		w.cancel()
		w.wg.Wait()
	})
}
