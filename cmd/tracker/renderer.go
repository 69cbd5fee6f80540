package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"busradar.dev/internal/models"
	"busradar.dev/internal/tracking"
)

const shownArrivals = 3

// textRenderer prints refresh results as plain lines.
type textRenderer struct {
	mu  sync.Mutex
	out io.Writer
	now func() time.Time
}

func newTextRenderer(out io.Writer) *textRenderer {
	return &textRenderer{out: out, now: time.Now}
}

func (r *textRenderer) printf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "%s "+format+"\n", append([]interface{}{r.now().Format("15:04:05")}, args...)...)
}

func (r *textRenderer) OnUpdate(update tracking.Update) {
	switch {
	case update.ArrivalsErr != nil:
		r.printf("stop %s: arrivals unavailable: %v", update.Selection.StopCode, update.ArrivalsErr)
	case update.ArrivalsChanged:
		r.printf("stop %s: %s", update.Selection.StopCode, formatArrivals(update.Arrivals))
	}

	if update.VehicleErr != nil {
		r.printf("route %s: vehicle positions unavailable: %v", update.Selection.RouteCode, update.VehicleErr)
		return
	}
	if update.Vehicle == nil {
		r.printf("route %s: no vehicle reported", update.Selection.RouteCode)
		return
	}
	r.printf("route %s: %s", update.Selection.RouteCode, formatVehicle(*update.Vehicle))
}

func (r *textRenderer) OnError(sel tracking.Selection, err error) {
	r.printf("route %s: refresh failed: %v", sel.RouteCode, err)
}

func formatArrivals(arrivals []models.ArrivalEstimate) string {
	if len(arrivals) == 0 {
		return "no arrivals reported"
	}
	parts := make([]string, 0, shownArrivals)
	for i, a := range arrivals {
		if i == shownArrivals {
			break
		}
		mark := ""
		if a.Urgent() {
			mark = "!"
		}
		parts = append(parts, fmt.Sprintf("%s in %d min%s", a.RouteLabel, a.Minutes, mark))
	}
	return strings.Join(parts, ", ")
}

func formatVehicle(v models.VehicleEntry) string {
	id := v.VehicleID
	if id == "" {
		id = "vehicle"
	}
	state := "off route"
	if v.Snapped {
		state = "on route"
	}
	return fmt.Sprintf("%s at %.5f,%.5f (%s)", id, v.Position.Lat, v.Position.Lng, state)
}
