package restapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"

	"busradar.dev/internal/app"
	"busradar.dev/internal/appconf"
	"busradar.dev/internal/logging"
	"busradar.dev/internal/models"
	"busradar.dev/internal/upstream"
)

// createTestApi creates a RestAPI backed by an in-memory upstream.
func createTestApi(t *testing.T) (*RestAPI, *upstream.MockFetcher) {
	t.Helper()

	cfg := appconf.Default()
	cfg.Env = appconf.EnvFlagToEnvironment("test")
	cfg.Cache.Warm = false
	cfg.Timeouts.Stops = time.Second
	cfg.Timeouts.Geometry = time.Second

	fetcher := upstream.NewMockFetcher()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	api := NewRestAPI(app.New(cfg, logger, fetcher))
	t.Cleanup(api.Close)

	return api, fetcher
}

func testHandler(api *RestAPI) http.Handler {
	router := httprouter.New()
	api.SetRoutes(router)
	return api.Handler(router)
}

// serveApiAndRetrieveBody requests endpoint through the full middleware chain
// and returns the raw body.
func serveApiAndRetrieveBody(t *testing.T, api *RestAPI, endpoint string) (*http.Response, []byte) {
	t.Helper()

	server := httptest.NewServer(testHandler(api))
	defer server.Close()

	resp, err := http.Get(server.URL + endpoint)
	require.NoError(t, err)
	defer logging.SafeCloseWithLogging(resp.Body,
		slog.Default().With(slog.String("component", "test")),
		"http_response_body")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, endpoint string) (*http.Response, models.ResponseModel) {
	t.Helper()

	resp, body := serveApiAndRetrieveBody(t, api, endpoint)

	var response models.ResponseModel
	require.NoError(t, json.Unmarshal(body, &response), string(body))
	return resp, response
}

func fixture(t *testing.T, name string) string {
	t.Helper()
	return string(models.ReadFixture(t, name))
}

// dataMap returns the envelope payload as a generic map.
func dataMap(t *testing.T, model models.ResponseModel) map[string]interface{} {
	t.Helper()
	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok, "data should be an object, got %T", model.Data)
	return data
}

func dataList(t *testing.T, model models.ResponseModel) []interface{} {
	t.Helper()
	list, ok := dataMap(t, model)["list"].([]interface{})
	require.True(t, ok, "data.list should be an array")
	return list
}

func dataEntry(t *testing.T, model models.ResponseModel) map[string]interface{} {
	t.Helper()
	entry, ok := dataMap(t, model)["entry"].(map[string]interface{})
	require.True(t, ok, "data.entry should be an object")
	return entry
}
