// Package stepscale accelerates the step size of held directional input.
//
// The multiplier is a monotonic staircase over the hold duration. The
// thresholds are tuning constants, not invariants, so they can be replaced
// through configuration; the only guarantee kept regardless of the table is
// that the scaled step is never smaller than the base step.
package stepscale

import (
	"fmt"
	"sort"
	"time"
)

// Threshold maps a minimum hold duration to a step multiplier.
type Threshold struct {
	After  time.Duration
	Factor float64
}

// DefaultThresholds is the staircase used when nothing is configured.
var DefaultThresholds = []Threshold{
	{After: 3 * time.Second, Factor: 5},
	{After: 6 * time.Second, Factor: 10},
	{After: 9 * time.Second, Factor: 100},
	{After: 12 * time.Second, Factor: 1_000},
	{After: 15 * time.Second, Factor: 10_000},
	{After: 18 * time.Second, Factor: 100_000},
	{After: 21 * time.Second, Factor: 1_000_000},
}

// Scaler computes accelerated steps.
type Scaler struct {
	steps []Threshold
}

// New creates a scaler from a threshold table. The table is sorted by
// duration; multipliers that would decrease along the staircase are raised
// to keep the output monotonic.
func New(thresholds []Threshold) (*Scaler, error) {
	steps := make([]Threshold, len(thresholds))
	copy(steps, thresholds)
	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].After < steps[j].After
	})

	floor := 1.0
	for i := range steps {
		if steps[i].After < 0 {
			return nil, fmt.Errorf("%w: negative duration %s", ErrInvalidThreshold, steps[i].After)
		}
		if steps[i].Factor < floor {
			steps[i].Factor = floor
		}
		floor = steps[i].Factor
	}

	return &Scaler{steps: steps}, nil
}

// Default returns a scaler using DefaultThresholds.
func Default() *Scaler {
	s, _ := New(DefaultThresholds)
	return s
}

// Multiplier returns the factor applied for the given hold duration.
func (s *Scaler) Multiplier(hold time.Duration) float64 {
	if s == nil {
		return 1
	}
	factor := 1.0
	for _, th := range s.steps {
		if hold < th.After {
			break
		}
		factor = th.Factor
	}
	return factor
}

// Scale returns step multiplied by the factor for hold.
// The result is never below step.
func (s *Scaler) Scale(step float64, hold time.Duration) float64 {
	scaled := step * s.Multiplier(hold)
	if scaled < step {
		return step
	}
	return scaled
}

// Thresholds returns a copy of the active table.
func (s *Scaler) Thresholds() []Threshold {
	if s == nil {
		return nil
	}
	out := make([]Threshold, len(s.steps))
	copy(out, s.steps)
	return out
}
