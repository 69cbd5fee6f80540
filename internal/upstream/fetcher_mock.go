package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// MockResponder produces the payload for one mocked upstream call.
type MockResponder func(ctx context.Context, q Query) (json.RawMessage, error)

// MockFetcher is an in-memory Fetcher for tests. Responses are keyed by act;
// acts without a responder answer with a 404 StatusError.
type MockFetcher struct {
	mu         sync.Mutex
	responders map[Act]MockResponder
	calls      []Query
}

func NewMockFetcher() *MockFetcher {
	return &MockFetcher{responders: make(map[Act]MockResponder)}
}

// On registers responder for act, replacing any previous one.
func (m *MockFetcher) On(act Act, responder MockResponder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responders[act] = responder
}

// OnJSON answers act with a fixed body.
func (m *MockFetcher) OnJSON(act Act, body string) {
	m.On(act, func(context.Context, Query) (json.RawMessage, error) {
		return json.RawMessage(body), nil
	})
}

// OnError fails every call for act with err.
func (m *MockFetcher) OnError(act Act, err error) {
	m.On(act, func(context.Context, Query) (json.RawMessage, error) {
		return nil, err
	})
}

// OnBlock makes act hang until the attempt's timeout fires.
func (m *MockFetcher) OnBlock(act Act) {
	m.On(act, func(ctx context.Context, _ Query) (json.RawMessage, error) {
		<-ctx.Done()
		return nil, wrapContextError(ctx, ctx.Err())
	})
}

func (m *MockFetcher) FetchJSON(ctx context.Context, rawURL string, timeout time.Duration) (json.RawMessage, error) {
	q := Query{}
	if u, err := url.Parse(rawURL); err == nil {
		values := u.Query()
		q = Query{Act: Act(values.Get("act")), P1: values.Get("p1"), P2: values.Get("p2")}
	}

	m.mu.Lock()
	m.calls = append(m.calls, q)
	responder := m.responders[q.Act]
	m.mu.Unlock()

	if responder == nil {
		return nil, &StatusError{StatusCode: http.StatusNotFound, URL: rawURL}
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return responder(ctx, q)
}

// Calls returns every query received, in order.
func (m *MockFetcher) Calls() []Query {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Query(nil), m.calls...)
}

// CallCount returns how many times act was requested.
func (m *MockFetcher) CallCount(act Act) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, q := range m.calls {
		if q.Act == act {
			n++
		}
	}
	return n
}

// Reset forgets recorded calls but keeps responders.
func (m *MockFetcher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}
