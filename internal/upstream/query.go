package upstream

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"busradar.dev/internal/utils"
)

// Act names an upstream operation (the `act` query parameter).
type Act string

const (
	ActGetLines            Act = "webGetLines"
	ActGetRoutesForLine    Act = "getRoutesForLine"
	ActGetStopsForRoute    Act = "getStopsForRoute"
	ActWebGetStops         Act = "webGetStops"
	ActWebGetStopsForRoute Act = "webGetStopsForRoute"
	ActGetStops            Act = "getStops"
	ActGetBusLocation      Act = "getBusLocation"
	ActGetStopArrivals     Act = "getStopArrivals"
	ActGetRouteShape       Act = "getRouteShape"
)

// ErrUnknownAct is returned by ParseQuery for operations the proxy does not forward.
var ErrUnknownAct = errors.New("unknown upstream act")

// knownActs also lists read-only operations that are only ever passed through.
var knownActs = map[Act]bool{
	ActGetLines:            true,
	ActGetRoutesForLine:    true,
	ActGetStopsForRoute:    true,
	ActWebGetStops:         true,
	ActWebGetStopsForRoute: true,
	ActGetStops:            true,
	ActGetBusLocation:      true,
	ActGetStopArrivals:     true,
	ActGetRouteShape:       true,

	"webGetRoutes":                true,
	"webGetRoutesDetailsAndStops": true,
	"webRouteDetails":             true,
	"getRoutesForStop":            true,
	"getStopNameAndXY":            true,
	"getClosestStops":             true,
	"getDailySchedule":            true,
	"getMLName":                   true,
}

// Query is one upstream request: an act plus up to two positional parameters.
type Query struct {
	Act Act
	P1  string
	P2  string
}

func NewQuery(act Act, params ...string) Query {
	q := Query{Act: act}
	if len(params) > 0 {
		q.P1 = params[0]
	}
	if len(params) > 1 {
		q.P2 = params[1]
	}
	return q
}

// Encode renders the query in the upstream's positional form, e.g.
// "act=getStopArrivals&p1=10001".
func (q Query) Encode() string {
	var b strings.Builder
	b.WriteString("act=")
	b.WriteString(url.QueryEscape(string(q.Act)))
	if q.P1 != "" {
		b.WriteString("&p1=")
		b.WriteString(url.QueryEscape(q.P1))
	}
	if q.P2 != "" {
		b.WriteString("&p2=")
		b.WriteString(url.QueryEscape(q.P2))
	}
	return b.String()
}

func (q Query) String() string {
	return q.Encode()
}

// ParseQuery parses the legacy `q` parameter ("act=...&p1=...") and rejects
// acts and parameters the proxy does not forward.
func ParseQuery(raw string) (Query, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(strings.TrimSpace(raw), "?"))
	if err != nil {
		return Query{}, fmt.Errorf("invalid query: %w", err)
	}

	act := Act(values.Get("act"))
	if act == "" {
		return Query{}, errors.New("missing act")
	}
	if !knownActs[act] {
		return Query{}, fmt.Errorf("%w: %s", ErrUnknownAct, act)
	}

	q := Query{Act: act, P1: values.Get("p1"), P2: values.Get("p2")}
	for name, p := range map[string]string{"p1": q.P1, "p2": q.P2} {
		if p == "" {
			continue
		}
		if err := utils.ValidateID(p); err != nil {
			return Query{}, fmt.Errorf("%s: %w", name, err)
		}
	}
	return q, nil
}

// StopsVariants lists, in probing order, the names under which the upstream
// has exposed the stops of a route.
func StopsVariants(routeCode string) []Query {
	return []Query{
		NewQuery(ActGetStopsForRoute, routeCode),
		NewQuery(ActWebGetStops, routeCode),
		NewQuery(ActWebGetStopsForRoute, routeCode),
		NewQuery(ActGetStops, routeCode),
	}
}
