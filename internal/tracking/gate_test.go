package tracking

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"busradar.dev/internal/models"
)

func arrival(route string, minutes int) models.ArrivalEstimate {
	return models.ArrivalEstimate{RouteLabel: route, Minutes: minutes}
}

func TestSignatureUsesFirstThree(t *testing.T) {
	arrivals := []models.ArrivalEstimate{arrival("040", 3), arrival("040", 11), arrival("A10", 17), arrival("040", 25)}
	assert.Equal(t, "040:3|040:11|A10:17", Signature(arrivals))
	assert.Equal(t, "", Signature(nil))
}

func TestChangeGateIsIdempotent(t *testing.T) {
	gate := NewChangeGate()
	arrivals := []models.ArrivalEstimate{arrival("040", 3), arrival("040", 11)}

	assert.True(t, gate.ShouldUpdate(arrivals))
	assert.False(t, gate.ShouldUpdate(arrivals))
	assert.False(t, gate.ShouldUpdate(append([]models.ArrivalEstimate(nil), arrivals...)))

	assert.True(t, gate.ShouldUpdate([]models.ArrivalEstimate{arrival("040", 2), arrival("040", 11)}))
}

func TestChangeGateIgnoresTrailingArrivals(t *testing.T) {
	gate := NewChangeGate()
	head := []models.ArrivalEstimate{arrival("040", 3), arrival("040", 11), arrival("A10", 17)}

	assert.True(t, gate.ShouldUpdate(append(head, arrival("040", 30))))
	assert.False(t, gate.ShouldUpdate(append(head, arrival("040", 29))))
}

func TestChangeGateEmptyAndReset(t *testing.T) {
	gate := NewChangeGate()
	assert.True(t, gate.ShouldUpdate(nil), "the first result always passes")
	assert.False(t, gate.ShouldUpdate([]models.ArrivalEstimate{}))

	gate.Reset()
	assert.True(t, gate.ShouldUpdate(nil))
}

func TestChangeGateConcurrentUse(t *testing.T) {
	gate := NewChangeGate()
	arrivals := []models.ArrivalEstimate{arrival("040", 3)}

	var wg sync.WaitGroup
	var mu sync.Mutex
	passed := 0
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if gate.ShouldUpdate(arrivals) {
				mu.Lock()
				passed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, passed)
}
