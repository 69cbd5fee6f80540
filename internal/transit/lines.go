package transit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"busradar.dev/internal/cache"
	"busradar.dev/internal/fallback"
	"busradar.dev/internal/logging"
	"busradar.dev/internal/models"
	"busradar.dev/internal/upstream"
)

// ErrLinesUnavailable is returned when neither the upstream nor the cache can
// provide a lines list.
var ErrLinesUnavailable = errors.New("lines unavailable")

var errEmptyLines = errors.New("upstream returned no lines")

const linesKey = "lines"

// Availability tells how current a served lines list is.
type Availability string

const (
	AvailabilityFresh       Availability = "fresh"
	AvailabilityStale       Availability = "stale"
	AvailabilityUnavailable Availability = "unavailable"
)

// LinesResult is a served lines list and how current it is.
type LinesResult struct {
	Lines        []models.Line
	Availability Availability
	// Records are the upstream line records as received, in upstream order.
	Records []json.RawMessage
}

// Stale reports whether the lines were served past their TTL.
func (r LinesResult) Stale() bool {
	return r.Availability == AvailabilityStale
}

// LinesStatus summarizes the cached lines for health reporting.
type LinesStatus struct {
	Count  int
	Age    time.Duration
	Cached bool
}

// linesSnapshot is one accepted upstream lines payload.
type linesSnapshot struct {
	lines   []models.Line
	records []json.RawMessage
}

func (s linesSnapshot) result(availability Availability) LinesResult {
	return LinesResult{
		Lines:        slices.Clone(s.lines),
		Availability: availability,
		Records:      slices.Clone(s.records),
	}
}

// LinesService serves the lines list from a TTL cache, refreshing it from the
// upstream when it expires and serving the expired copy when that fails.
type LinesService struct {
	api     Upstream
	cache   *cache.Timed[string, linesSnapshot]
	timeout time.Duration
	logger  *slog.Logger
}

func NewLinesService(api Upstream, clock cache.Clock, ttl, timeout time.Duration, logger *slog.Logger) *LinesService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LinesService{
		api:     api,
		cache:   cache.NewTimed[string, linesSnapshot](ttl, clock, 1),
		timeout: timeout,
		logger:  logger.With(slog.String("component", "lines_service")),
	}
}

// Lines returns the lines list. On failure the result holds an empty, non-nil
// list and the error wraps ErrLinesUnavailable.
func (s *LinesService) Lines(ctx context.Context) (LinesResult, error) {
	var refreshErr error
	strategies := []fallback.Strategy[LinesResult]{
		{Name: "fresh_cache", Run: s.cached(false), Local: true},
		{Name: "upstream", Run: func(ctx context.Context) (LinesResult, error) {
			result, err := s.Refresh(ctx)
			refreshErr = err
			return result, err
		}},
		{Name: "stale_cache", Run: s.cached(true), Local: true},
	}

	result, outcome, err := fallback.FirstAccepted(ctx, strategies, func(r LinesResult) bool {
		return len(r.Lines) > 0
	})
	if err != nil {
		// The refresh failure says more than the empty cache behind it.
		if refreshErr != nil {
			err = fmt.Errorf("%w: %w", fallback.ErrNoneAccepted, refreshErr)
		}
		logging.LogError(s.logger, "Lines unavailable", err,
			slog.Int("attempts", outcome.Tried()))
		return LinesResult{Lines: []models.Line{}, Availability: AvailabilityUnavailable},
			fmt.Errorf("%w: %w", ErrLinesUnavailable, err)
	}

	if outcome.Winner == "stale_cache" {
		age, _ := s.cache.Age(linesKey)
		attrs := []any{slog.Int("count", len(result.Lines)), slog.Duration("age", age)}
		if refreshErr != nil {
			attrs = append(attrs, slog.String("refresh_error", refreshErr.Error()))
		}
		s.logger.Warn("serving stale lines", attrs...)
	}
	return result, nil
}

// cached reads the cache. Without allowStale only a fresh entry is accepted.
func (s *LinesService) cached(allowStale bool) func(context.Context) (LinesResult, error) {
	return func(context.Context) (LinesResult, error) {
		snapshot, freshness := s.cache.Get(linesKey)
		switch {
		case freshness == cache.Fresh:
			return snapshot.result(AvailabilityFresh), nil
		case freshness == cache.Stale && allowStale:
			return snapshot.result(AvailabilityStale), nil
		default:
			return LinesResult{}, fmt.Errorf("lines cache %s", freshness)
		}
	}
}

// Refresh fetches the lines from upstream and replaces the cached list on
// success. Concurrent refreshes share one upstream call, bounded by the
// service timeout rather than by any single caller's ctx.
func (s *LinesService) Refresh(ctx context.Context) (LinesResult, error) {
	snapshot, err := s.cache.Do(ctx, linesKey, func(ctx context.Context) (linesSnapshot, error) {
		start := time.Now()
		raw, err := s.api.Fetch(ctx, upstream.NewQuery(upstream.ActGetLines), s.timeout)
		if err != nil {
			return linesSnapshot{}, err
		}
		lines, err := upstream.ParseLines(raw)
		if err != nil {
			return linesSnapshot{}, err
		}
		if len(lines) == 0 {
			return linesSnapshot{}, errEmptyLines
		}
		records, err := upstream.DecodeList(raw)
		if err != nil {
			return linesSnapshot{}, err
		}

		snapshot := linesSnapshot{lines: lines, records: records}
		s.cache.Put(linesKey, snapshot)
		logging.LogOperation(s.logger, "lines_refreshed",
			slog.Int("count", len(lines)),
			slog.Duration("duration", time.Since(start)))
		return snapshot, nil
	})
	if err != nil {
		return LinesResult{}, err
	}
	return snapshot.result(AvailabilityFresh), nil
}

// Status reports the cached list without triggering a refresh.
func (s *LinesService) Status() LinesStatus {
	snapshot, freshness := s.cache.Get(linesKey)
	if freshness == cache.Miss {
		return LinesStatus{}
	}
	age, _ := s.cache.Age(linesKey)
	return LinesStatus{Count: len(snapshot.lines), Age: age, Cached: true}
}
