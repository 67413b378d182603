// Package testutil provides common utility functions for testing.
package testutil

import (
	"sync"
	"time"

	"github.com/iwvelando/ai-business-solutions/internal/forecast"
)

// Polling bounds for assertions on asynchronous generations.
const (
	EventuallyTimeout = 2 * time.Second
	EventuallyTick    = 10 * time.Millisecond
)

// FindPoint finds a row by period label in a combined series.
// Returns a pointer to the row if found, nil otherwise.
func FindPoint(series []forecast.CombinedPoint, period string) *forecast.CombinedPoint {
	for i := range series {
		if series[i].Period == period {
			return &series[i]
		}
	}
	return nil
}

// ProjectedValues returns the projected values of a result in period order.
func ProjectedValues(r forecast.Result) []float64 {
	values := make([]float64, 0, len(r.Forecast))
	for _, p := range r.Forecast {
		values = append(values, p.Projected)
	}
	return values
}

// SequenceJitter replays a fixed list of factors, repeating the last one once
// the list is exhausted. The zero value returns 1.
type SequenceJitter struct {
	mu      sync.Mutex
	Factors []float64
	next    int
}

// Next returns the next factor in the sequence.
func (s *SequenceJitter) Next() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Factors) == 0 {
		return 1
	}
	idx := s.next
	if idx >= len(s.Factors) {
		idx = len(s.Factors) - 1
	}
	s.next++
	return s.Factors[idx]
}
