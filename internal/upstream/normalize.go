package upstream

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"busradar.dev/internal/models"
)

// ErrUpstreamReported is returned when the upstream answers with an error
// payload instead of data.
var ErrUpstreamReported = errors.New("upstream reported an error")

// DecodeList unwraps the list envelopes the upstream uses: a bare array,
// {"data": [...]} or {"points": [...]}. null decodes to an empty list.
func DecodeList(raw json.RawMessage) ([]json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []json.RawMessage{}, nil
	}

	switch raw[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		return items, nil
	case '{':
		var envelope struct {
			Data   json.RawMessage `json:"data"`
			Points json.RawMessage `json:"points"`
			Error  json.RawMessage `json:"error"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, err
		}
		if len(envelope.Error) > 0 && !bytes.Equal(envelope.Error, []byte("null")) {
			return nil, fmt.Errorf("%w: %s", ErrUpstreamReported, strings.Trim(string(envelope.Error), `"`))
		}
		for _, inner := range []json.RawMessage{envelope.Data, envelope.Points} {
			inner = bytes.TrimSpace(inner)
			if len(inner) > 0 && inner[0] == '[' {
				return DecodeList(inner)
			}
		}
		return []json.RawMessage{}, nil
	default:
		return nil, fmt.Errorf("unexpected payload starting with %q", raw[0])
	}
}

// flexString accepts JSON strings, numbers and null.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	*s = flexString(b)
	return nil
}

// flexFloat accepts numbers or numeric strings. Anything else leaves it
// invalid rather than failing the whole record.
type flexFloat struct {
	value float64
	valid bool
}

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		*f = flexFloat{}
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.Replace(string(s), ",", ".", 1)), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		*f = flexFloat{}
		return nil
	}
	*f = flexFloat{value: v, valid: true}
	return nil
}

func firstFloat(values ...flexFloat) flexFloat {
	for _, v := range values {
		if v.valid {
			return v
		}
	}
	return flexFloat{}
}

var escapedRune = regexp.MustCompile(`\\u[0-9a-fA-F]{4}`)

// unescapeText decodes literal \uXXXX sequences the upstream sometimes
// leaves in Greek descriptions.
func unescapeText(s string) string {
	if !strings.Contains(s, `\u`) {
		return s
	}
	return escapedRune.ReplaceAllStringFunc(s, func(m string) string {
		n, err := strconv.ParseUint(m[2:], 16, 32)
		if err != nil {
			return m
		}
		return string(rune(n))
	})
}

// first returns the first non-blank value, trimmed and unescaped.
func first(values ...flexString) string {
	for _, v := range values {
		if s := strings.TrimSpace(string(v)); s != "" {
			return unescapeText(s)
		}
	}
	return ""
}

func position(lat, lng flexFloat) *models.LatLng {
	if !lat.valid || !lng.valid {
		return nil
	}
	p := models.LatLng{Lat: lat.value, Lng: lng.value}
	if !p.Valid() || (p.Lat == 0 && p.Lng == 0) {
		return nil
	}
	return &p
}

// decodeRecords unmarshals every list element into T, skipping elements that
// are not objects of the expected shape.
func decodeRecords[T any](raw json.RawMessage) ([]T, error) {
	items, err := DecodeList(raw)
	if err != nil {
		return nil, err
	}
	records := make([]T, 0, len(items))
	for _, item := range items {
		var rec T
		if err := json.Unmarshal(item, &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

type rawLine struct {
	LineCode     flexString `json:"LineCode"`
	LineCodeAlt  flexString `json:"line_code"`
	LineID       flexString `json:"LineID"`
	LineIDAlt    flexString `json:"line_id"`
	LineDescr    flexString `json:"LineDescr"`
	LineDescrAlt flexString `json:"line_descr"`
	LineDescrEng flexString `json:"LineDescrEng"`
	LineEngAlt   flexString `json:"line_descr_eng"`
}

// ParseLines normalizes a lines payload, ordered by numeric line ID with
// non-numeric IDs last.
func ParseLines(raw json.RawMessage) ([]models.Line, error) {
	records, err := decodeRecords[rawLine](raw)
	if err != nil {
		return nil, err
	}

	lines := make([]models.Line, 0, len(records))
	for _, r := range records {
		code := first(r.LineCode, r.LineCodeAlt)
		if code == "" {
			continue
		}
		lines = append(lines, models.NewLine(
			first(r.LineID, r.LineIDAlt),
			code,
			first(r.LineDescr, r.LineDescrAlt),
			first(r.LineDescrEng, r.LineEngAlt),
		))
	}

	sort.SliceStable(lines, func(i, j int) bool {
		a, errA := strconv.Atoi(lines[i].ID)
		b, errB := strconv.Atoi(lines[j].ID)
		if errA == nil && errB == nil {
			return a < b
		}
		return errA == nil && errB != nil
	})
	return lines, nil
}

type rawRoute struct {
	RouteCode     flexString `json:"route_code"`
	RouteCodeAlt  flexString `json:"RouteCode"`
	RouteDescr    flexString `json:"route_descr"`
	RouteDescrAlt flexString `json:"RouteDescr"`
	LineCode      flexString `json:"line_code"`
	LineCodeAlt   flexString `json:"LineCode"`
}

// ParseRoutes normalizes the directions of a line.
func ParseRoutes(raw json.RawMessage, lineCode string) ([]models.Route, error) {
	records, err := decodeRecords[rawRoute](raw)
	if err != nil {
		return nil, err
	}

	routes := make([]models.Route, 0, len(records))
	for _, r := range records {
		code := first(r.RouteCode, r.RouteCodeAlt)
		if code == "" {
			continue
		}
		line := first(r.LineCode, r.LineCodeAlt)
		if line == "" {
			line = lineCode
		}
		routes = append(routes, models.NewRoute(code, line, first(r.RouteDescr, r.RouteDescrAlt)))
	}
	return routes, nil
}

type rawStop struct {
	StopCode     flexString `json:"StopCode"`
	StopCodeAlt  flexString `json:"stop_code"`
	StopID       flexString `json:"StopID"`
	StopIDAlt    flexString `json:"stop_id"`
	StopDescr    flexString `json:"StopDescr"`
	StopDescrAlt flexString `json:"stop_descr"`
	StopLat      flexFloat  `json:"StopLat"`
	Lat          flexFloat  `json:"lat"`
	StopLng      flexFloat  `json:"StopLng"`
	Lng          flexFloat  `json:"lng"`
	Order        flexFloat  `json:"RouteStopOrder"`
}

// ParseStops normalizes a stops payload. Stops keep their place even when
// their coordinates are unusable; only stops without a code are dropped.
func ParseStops(raw json.RawMessage) ([]models.Stop, error) {
	records, err := decodeRecords[rawStop](raw)
	if err != nil {
		return nil, err
	}

	stops := make([]models.Stop, 0, len(records))
	ordered := false
	for _, r := range records {
		code := first(r.StopCode, r.StopCodeAlt)
		if code == "" {
			continue
		}
		order := 0
		if r.Order.valid {
			order = int(r.Order.value)
			ordered = true
		}
		stops = append(stops, models.NewStop(
			code,
			first(r.StopID, r.StopIDAlt),
			first(r.StopDescr, r.StopDescrAlt),
			position(firstFloat(r.StopLat, r.Lat), firstFloat(r.StopLng, r.Lng)),
			order,
		))
	}

	if ordered {
		sort.SliceStable(stops, func(i, j int) bool { return stops[i].Order < stops[j].Order })
	}
	return stops, nil
}

type rawPoint struct {
	CSLat   flexFloat `json:"CS_LAT"`
	Lat     flexFloat `json:"lat"`
	RoutedY flexFloat `json:"routed_y"`
	CSLng   flexFloat `json:"CS_LNG"`
	Lng     flexFloat `json:"lng"`
	RoutedX flexFloat `json:"routed_x"`
}

// ParseShape returns the valid vertices of a route shape in upstream order.
func ParseShape(raw json.RawMessage) ([]models.LatLng, error) {
	records, err := decodeRecords[rawPoint](raw)
	if err != nil {
		return nil, err
	}

	points := make([]models.LatLng, 0, len(records))
	for _, r := range records {
		p := position(firstFloat(r.CSLat, r.Lat, r.RoutedY), firstFloat(r.CSLng, r.Lng, r.RoutedX))
		if p == nil {
			continue
		}
		points = append(points, *p)
	}
	return points, nil
}

type rawVehicle struct {
	rawPoint
	VehNo     flexString `json:"VEH_NO"`
	CSDate    flexString `json:"CS_DATE"`
	RouteCode flexString `json:"ROUTE_CODE"`
}

// ParseVehicles returns the vehicle fixes with usable coordinates.
func ParseVehicles(raw json.RawMessage, routeCode string) ([]models.VehicleFix, error) {
	records, err := decodeRecords[rawVehicle](raw)
	if err != nil {
		return nil, err
	}

	fixes := make([]models.VehicleFix, 0, len(records))
	for _, r := range records {
		p := position(firstFloat(r.CSLat, r.Lat, r.RoutedY), firstFloat(r.CSLng, r.Lng, r.RoutedX))
		if p == nil {
			continue
		}
		route := first(r.RouteCode)
		if route == "" {
			route = routeCode
		}
		fixes = append(fixes, models.VehicleFix{
			VehicleID:  first(r.VehNo),
			RouteCode:  route,
			Position:   *p,
			ReportedAt: first(r.CSDate),
		})
	}
	return fixes, nil
}

type rawArrival struct {
	RouteCode flexString `json:"route_code"`
	VehCode   flexString `json:"veh_code"`
	BTime2    flexFloat  `json:"btime2"`
	BTime     flexFloat  `json:"btime"`
}

// ParseArrivals returns the arrival estimates in upstream order, skipping
// records without a usable minutes value.
func ParseArrivals(raw json.RawMessage) ([]models.ArrivalEstimate, error) {
	records, err := decodeRecords[rawArrival](raw)
	if err != nil {
		return nil, err
	}

	arrivals := make([]models.ArrivalEstimate, 0, len(records))
	for _, r := range records {
		minutes := firstFloat(r.BTime2, r.BTime)
		if !minutes.valid {
			continue
		}
		arrivals = append(arrivals, models.ArrivalEstimate{
			RouteLabel: first(r.RouteCode),
			VehicleID:  first(r.VehCode),
			Minutes:    int(minutes.value),
		})
	}
	return arrivals, nil
}
