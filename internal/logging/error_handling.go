package logging

import (
	"io"
	"log/slog"
)

// maxDrainBytes bounds how much of an unread response body is discarded
// before closing it.
const maxDrainBytes = 64 << 10

// SafeCloseWithLogging closes a resource and logs any error from Close.
func SafeCloseWithLogging(closer io.Closer, logger *slog.Logger, operation string, attrs ...slog.Attr) {
	if closer == nil {
		return
	}

	if err := closer.Close(); err != nil {
		all := make([]slog.Attr, 0, len(attrs)+1)
		all = append(all, slog.String("operation", operation))
		all = append(all, attrs...)
		LogError(logger, "failed to close resource", err, all...)
	}
}

// DrainAndClose discards what is left of an HTTP response body, up to a
// limit, and closes it. A body closed unread cannot hand its connection back
// to the transport's idle pool.
func DrainAndClose(body io.ReadCloser, logger *slog.Logger, operation string, attrs ...slog.Attr) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxDrainBytes))
	SafeCloseWithLogging(body, logger, operation, attrs...)
}
