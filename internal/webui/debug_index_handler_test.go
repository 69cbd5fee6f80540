package webui

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"busradar.dev/internal/app"
	"busradar.dev/internal/appconf"
	"busradar.dev/internal/upstream"
)

func newTestRouter(t *testing.T) (*httprouter.Router, *upstream.MockFetcher) {
	t.Helper()

	cfg := appconf.Default()
	cfg.Cache.Warm = false
	fetcher := upstream.NewMockFetcher()
	application := app.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), fetcher)

	router := httprouter.New()
	SetWebUIRoutes(router, &WebUI{Application: application})
	return router, fetcher
}

func getDebugPage(t *testing.T, router http.Handler, target string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return rec.Code, string(body)
}

func TestDebugIndexHandler(t *testing.T) {
	router, fetcher := newTestRouter(t)
	fetcher.OnJSON(upstream.ActGetLines, `[{"LineID":"1","LineCode":"1151","LineDescr":"PIREAS"}]`)

	testCases := []struct {
		dataType string
		title    string
		contains string
	}{
		{"lines", "Lines", "1151"},
		{"health", "Health", "Count"},
		{"config", "Configuration", "OASA-Proxy/1.0"},
		{"", "Choose a data type", "lines, health, config"},
	}

	for _, tc := range testCases {
		t.Run(tc.title, func(t *testing.T) {
			status, body := getDebugPage(t, router, "/debug/?dataType="+tc.dataType)

			assert.Equal(t, http.StatusOK, status)
			assert.Contains(t, body, "<h1>"+tc.title+"</h1>")
			assert.Contains(t, body, tc.contains)
		})
	}
}

func TestDebugIndexHandlerReportsUnavailableLines(t *testing.T) {
	router, _ := newTestRouter(t)

	status, body := getDebugPage(t, router, "/debug/?dataType=lines")

	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "lines unavailable")
}
