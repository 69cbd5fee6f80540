package restapi

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"busradar.dev/internal/logging"
)

func TestRequestLoggingMiddleware(t *testing.T) {
	t.Run("logs HTTP request details", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.NewStructuredLogger(&buf, slog.LevelInfo)

		testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
			_, _ = w.Write([]byte("test response"))
		})

		req := httptest.NewRequest(http.MethodGet, "/api/routes/2045/nearest-stop?lat=37.9&lon=23.7", nil)
		req.Header.Set("User-Agent", "test-client/1.0")
		recorder := httptest.NewRecorder()

		NewRequestLoggingMiddleware(logger)(testHandler).ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusTeapot, recorder.Code)
		assert.Equal(t, "test response", recorder.Body.String())

		output := buf.String()
		assert.Contains(t, output, `"level":"INFO"`)
		assert.Contains(t, output, `"msg":"http_request"`)
		assert.Contains(t, output, `"method":"GET"`)
		assert.Contains(t, output, `"path":"/api/routes/2045/nearest-stop"`)
		assert.NotContains(t, output, "lat=37.9")
		assert.Contains(t, output, `"status":418`)
		assert.Contains(t, output, `"user_agent":"test-client/1.0"`)
		assert.Contains(t, output, `"duration_ms":`)
		assert.Contains(t, output, `"component":"http_server"`)
	})

	t.Run("issues a request ID", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.NewStructuredLogger(&buf, slog.LevelInfo)

		var fromContext *slog.Logger
		testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fromContext = logging.FromContext(r.Context())
		})

		recorder := httptest.NewRecorder()
		NewRequestLoggingMiddleware(logger)(testHandler).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

		requestID := recorder.Header().Get(requestIDHeader)
		_, err := uuid.Parse(requestID)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), `"request_id":"`+requestID+`"`)
		require.NotNil(t, fromContext)
		assert.NotSame(t, logger, fromContext, "handlers get the request-scoped logger")
	})

	t.Run("keeps a valid incoming request ID", func(t *testing.T) {
		logger := logging.NewStructuredLogger(&bytes.Buffer{}, slog.LevelInfo)
		incoming := uuid.NewString()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(requestIDHeader, incoming)
		recorder := httptest.NewRecorder()
		NewRequestLoggingMiddleware(logger)(okHandler()).ServeHTTP(recorder, req)

		assert.Equal(t, incoming, recorder.Header().Get(requestIDHeader))
	})

	t.Run("replaces a malformed incoming request ID", func(t *testing.T) {
		logger := logging.NewStructuredLogger(&bytes.Buffer{}, slog.LevelInfo)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(requestIDHeader, `"><script>`)
		recorder := httptest.NewRecorder()
		NewRequestLoggingMiddleware(logger)(okHandler()).ServeHTTP(recorder, req)

		assert.NotEqual(t, `"><script>`, recorder.Header().Get(requestIDHeader))
	})
}
