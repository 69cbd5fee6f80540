package upstream

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// API binds a Fetcher to the upstream base URL and speaks its query vocabulary.
type API struct {
	fetcher Fetcher
	baseURL string
}

func NewAPI(fetcher Fetcher, baseURL string) *API {
	return &API{
		fetcher: fetcher,
		baseURL: strings.TrimRight(baseURL, "?"),
	}
}

// URL returns the full upstream URL for q.
func (a *API) URL(q Query) string {
	return a.baseURL + "?" + q.Encode()
}

// Fetch runs q against the upstream, bounded by timeout.
func (a *API) Fetch(ctx context.Context, q Query, timeout time.Duration) (json.RawMessage, error) {
	return a.fetcher.FetchJSON(ctx, a.URL(q), timeout)
}
