package tracking

import (
	"strconv"
	"strings"
	"sync"

	"busradar.dev/internal/models"
)

// signatureDepth is how many leading arrivals decide whether the ETA changed.
const signatureDepth = 3

// Signature summarizes the leading arrivals as "route:minutes" pairs.
func Signature(arrivals []models.ArrivalEstimate) string {
	n := min(len(arrivals), signatureDepth)
	parts := make([]string, 0, n)
	for _, a := range arrivals[:n] {
		parts = append(parts, a.RouteLabel+":"+strconv.Itoa(a.Minutes))
	}
	return strings.Join(parts, "|")
}

// ChangeGate suppresses ETA redraws when the leading arrivals did not change
// since the last accepted update.
type ChangeGate struct {
	mu     sync.Mutex
	last   string
	primed bool
}

func NewChangeGate() *ChangeGate {
	return &ChangeGate{}
}

// ShouldUpdate reports whether arrivals differ from the last accepted ones
// and, if so, remembers them.
func (g *ChangeGate) ShouldUpdate(arrivals []models.ArrivalEstimate) bool {
	sig := Signature(arrivals)

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.primed && sig == g.last {
		return false
	}
	g.last = sig
	g.primed = true
	return true
}

// Reset forgets the last signature, so the next call always passes.
func (g *ChangeGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last = ""
	g.primed = false
}
