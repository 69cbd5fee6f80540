package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"busradar.dev/internal/logging"
)

// maxBodyBytes caps how much of an upstream response is read.
const maxBodyBytes = 8 << 20

var (
	// ErrInvalidJSON is returned when the upstream body is not valid JSON.
	ErrInvalidJSON = errors.New("upstream returned invalid JSON")
	// ErrTimeout is returned when an attempt exceeds its time budget.
	ErrTimeout = errors.New("upstream request timed out")
)

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

// Fetcher is the "fetch JSON from URL with timeout" primitive everything
// else is built on. Implementations must abort the request once timeout
// elapses and report it as an error.
type Fetcher interface {
	FetchJSON(ctx context.Context, rawURL string, timeout time.Duration) (json.RawMessage, error)
}

// FetcherConfig configures an HTTPFetcher.
type FetcherConfig struct {
	UserAgent string
	// RatePerSecond limits outbound requests; zero disables limiting.
	RatePerSecond float64
	Burst         int
}

// HTTPFetcher fetches JSON over HTTP, throttled by a token bucket so a burst
// of clients cannot trip the upstream's own rate limiting.
type HTTPFetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	logger    *slog.Logger
}

// NewHTTPFetcher creates a fetcher. A nil client means a fresh http.Client;
// timeouts are applied per call through the request context.
func NewHTTPFetcher(client *http.Client, config FetcherConfig, logger *slog.Logger) *HTTPFetcher {
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	var limiter *rate.Limiter
	if config.RatePerSecond > 0 {
		burst := config.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(config.RatePerSecond), burst)
	}

	return &HTTPFetcher{
		client:    client,
		limiter:   limiter,
		userAgent: config.UserAgent,
		logger:    logger.With(slog.String("component", "upstream_fetcher")),
	}
}

func (f *HTTPFetcher) FetchJSON(ctx context.Context, rawURL string, timeout time.Duration) (json.RawMessage, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if f.limiter != nil {
		// Wait fails early when the reservation would outlive the deadline.
		if err := f.limiter.Wait(ctx); err != nil {
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: throttled: %w", ErrTimeout, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, wrapContextError(ctx, err)
	}
	defer logging.DrainAndClose(resp.Body, f.logger, "upstream_response_body", slog.String("url", rawURL))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: rawURL}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, wrapContextError(ctx, err)
	}

	body = bytes.TrimPrefix(bytes.TrimSpace(body), []byte("\xef\xbb\xbf"))
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w (%d bytes from %s)", ErrInvalidJSON, len(body), rawURL)
	}

	f.logger.Debug("upstream_fetch",
		slog.String("url", rawURL),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	return json.RawMessage(body), nil
}

func wrapContextError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return err
}
