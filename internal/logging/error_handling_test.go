package logging

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type trackingBody struct {
	io.Reader
	closeErr error
	closed   bool
}

func (b *trackingBody) Close() error {
	b.closed = true
	return b.closeErr
}

func TestSafeCloseWithLogging(t *testing.T) {
	t.Run("successful close logs nothing", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)
		body := &trackingBody{Reader: strings.NewReader("")}

		SafeCloseWithLogging(body, logger, "upstream_response_body")

		assert.True(t, body.closed)
		assert.Empty(t, buf.String())
	})

	t.Run("failed close is logged with its attributes", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)
		body := &trackingBody{Reader: strings.NewReader(""), closeErr: assert.AnError}

		SafeCloseWithLogging(body, logger, "upstream_response_body",
			slog.String("url", "http://oasa.test/api/?act=webGetLines"))

		output := buf.String()
		assert.Contains(t, output, `"level":"ERROR"`)
		assert.Contains(t, output, `"msg":"failed to close resource"`)
		assert.Contains(t, output, `"operation":"upstream_response_body"`)
		assert.Contains(t, output, `"url":"http://oasa.test/api/?act=webGetLines"`)
	})

	t.Run("nil closer is ignored", func(t *testing.T) {
		assert.NotPanics(t, func() {
			SafeCloseWithLogging(nil, slog.Default(), "nothing")
		})
	})
}

func TestDrainAndClose(t *testing.T) {
	t.Run("drains the unread remainder", func(t *testing.T) {
		reader := strings.NewReader(`{"data":[]}`)
		body := &trackingBody{Reader: reader}

		DrainAndClose(body, slog.Default(), "upstream_response_body")

		assert.True(t, body.closed)
		assert.Zero(t, reader.Len())
	})

	t.Run("stops draining at the limit", func(t *testing.T) {
		reader := strings.NewReader(strings.Repeat("x", maxDrainBytes+10))
		body := &trackingBody{Reader: reader}

		DrainAndClose(body, slog.Default(), "upstream_response_body")

		assert.True(t, body.closed)
		assert.Equal(t, 10, reader.Len())
	})
}
