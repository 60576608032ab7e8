package life

import (
	"sort"

	"golife/domain/core"
)

// ============================================================================
// OBSERVATIONS (Canonical input primitives)
// ============================================================================

// EventKind classifies a single observation
type EventKind string

const (
	EventFailure    EventKind = "failure"    // Unit failed at the recorded time
	EventSuspension EventKind = "suspension" // Unit survived past the recorded time (right-censored)
)

// Observation is one unit's recorded outcome: a failure at Time, or survival
// to Time without failing.
type Observation struct {
	Time  float64   `json:"time"`
	Event EventKind `json:"event"`
}

// Dataset is an ordered life-data sample, sorted ascending by time.
// INVARIANTS:
// - Every Time > 0
// - Sorted ascending (ties allowed, failures sort before suspensions at equal time)
// - At least 2 failures required before any fit is attempted
type Dataset struct {
	observations []Observation
}

// NewDataset validates and sorts the observations into a Dataset.
// Fewer than 2 failures is allowed here; fitting code rejects it at the
// point of use so that purely descriptive callers can still hold the data.
func NewDataset(obs []Observation) (Dataset, error) {
	for _, o := range obs {
		if o.Time <= 0 {
			return Dataset{}, core.NewDomainErrorf("observation time", "must be > 0, got %g", o.Time)
		}
		if o.Event != EventFailure && o.Event != EventSuspension {
			return Dataset{}, core.NewDomainErrorf("observation event", "unknown kind %q", o.Event)
		}
	}
	sorted := make([]Observation, len(obs))
	copy(sorted, obs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Time != sorted[j].Time {
			return sorted[i].Time < sorted[j].Time
		}
		return sorted[i].Event == EventFailure && sorted[j].Event == EventSuspension
	})
	return Dataset{observations: sorted}, nil
}

// MustNewDataset creates a dataset (panics on invalid input)
// Use only in tests and development - production code should handle validation errors
func MustNewDataset(obs []Observation) Dataset {
	ds, err := NewDataset(obs)
	if err != nil {
		panic(err)
	}
	return ds
}

// NewCompleteDataset builds a dataset of failures only, from raw times.
func NewCompleteDataset(times []float64) (Dataset, error) {
	obs := make([]Observation, len(times))
	for i, t := range times {
		obs[i] = Observation{Time: t, Event: EventFailure}
	}
	return NewDataset(obs)
}

// Observations returns a copy of the ordered observations.
func (d Dataset) Observations() []Observation {
	out := make([]Observation, len(d.observations))
	copy(out, d.observations)
	return out
}

// Len returns the total number of observations.
func (d Dataset) Len() int { return len(d.observations) }

// FailureCount returns the number of failure events.
func (d Dataset) FailureCount() int {
	n := 0
	for _, o := range d.observations {
		if o.Event == EventFailure {
			n++
		}
	}
	return n
}

// SuspensionCount returns the number of suspension events.
func (d Dataset) SuspensionCount() int {
	return len(d.observations) - d.FailureCount()
}

// FailureTimes returns the ordered failure times only.
func (d Dataset) FailureTimes() []float64 {
	out := make([]float64, 0, d.FailureCount())
	for _, o := range d.observations {
		if o.Event == EventFailure {
			out = append(out, o.Time)
		}
	}
	return out
}

// MaxTime returns the largest observed time, or 0 for an empty dataset.
func (d Dataset) MaxTime() float64 {
	if len(d.observations) == 0 {
		return 0
	}
	return d.observations[len(d.observations)-1].Time
}

// MinTime returns the smallest observed time, or 0 for an empty dataset.
func (d Dataset) MinTime() float64 {
	if len(d.observations) == 0 {
		return 0
	}
	return d.observations[0].Time
}

// CheckFittable returns a typed error unless the dataset carries at least
// two failures.
func (d Dataset) CheckFittable() error {
	if n := d.FailureCount(); n < 2 {
		return core.NewInsufficientDataError(n)
	}
	return nil
}

// ============================================================================
// CONFIDENCE INPUTS
// ============================================================================

// ConfidenceLevel is a percentage in the open interval (0,100).
type ConfidenceLevel float64

// NewConfidenceLevel validates a percentage confidence level.
func NewConfidenceLevel(pct float64) (ConfidenceLevel, error) {
	if pct <= 0 || pct >= 100 {
		return 0, core.NewDomainErrorf("confidence level", "must be in (0,100), got %g", pct)
	}
	return ConfidenceLevel(pct), nil
}

// Fraction returns the level as a fraction in (0,1).
func (c ConfidenceLevel) Fraction() float64 { return float64(c) / 100 }

// BoundMethod selects the confidence-bound methodology.
type BoundMethod string

const (
	MethodFisher          BoundMethod = "fisher"
	MethodLikelihoodRatio BoundMethod = "likelihood_ratio"
)
