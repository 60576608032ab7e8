package montecarlo

import (
	"testing"

	"golife/adapters/rng"
	"golife/domain/core"
	"golife/domain/life"
)

func weibullRequest(trials, sampleSize int, seed int64) Request {
	return Request{
		Reference:  life.Params{Family: life.FamilyWeibull, Shape: 2.0, Scale: 1000},
		Trials:     trials,
		SampleSize: sampleSize,
		Seed:       seed,
	}
}

// TestEngine_Deterministic verifies identical requests produce identical
// trial parameters
func TestEngine_Deterministic(t *testing.T) {
	engine := NewEngine(rng.NewSeeded())
	req := weibullRequest(50, 10, 99)

	first, err := engine.Run(req)
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	second, err := engine.Run(req)
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}

	if len(first.TrialParams) != len(second.TrialParams) {
		t.Fatalf("Trial counts differ: %d vs %d", len(first.TrialParams), len(second.TrialParams))
	}
	for i := range first.TrialParams {
		if first.TrialParams[i] != second.TrialParams[i] {
			t.Fatalf("Trial %d diverged: %+v vs %+v", i, first.TrialParams[i], second.TrialParams[i])
		}
	}
}

// TestEngine_SeedChangesOutcome verifies different seeds draw different
// samples
func TestEngine_SeedChangesOutcome(t *testing.T) {
	engine := NewEngine(rng.NewSeeded())

	a, err := engine.Run(weibullRequest(20, 10, 1))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	b, err := engine.Run(weibullRequest(20, 10, 2))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	same := true
	for i := range a.TrialParams {
		if a.TrialParams[i] != b.TrialParams[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("Different seeds produced identical trials")
	}
}

// TestEngine_BandOrdering verifies lower <= mean <= upper on every grid time
func TestEngine_BandOrdering(t *testing.T) {
	engine := NewEngine(rng.NewSeeded())

	result, err := engine.Run(weibullRequest(200, 10, 7))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Times) == 0 {
		t.Fatal("Expected a non-empty grid")
	}
	if len(result.LowerBand) != len(result.Times) || len(result.UpperBand) != len(result.Times) {
		t.Fatalf("Band lengths do not match grid: %d/%d/%d", len(result.LowerBand), len(result.UpperBand), len(result.Times))
	}
	for i := range result.Times {
		lo, mean, hi := result.LowerBand[i].Y, result.MeanCurve[i].Y, result.UpperBand[i].Y
		if lo > mean || mean > hi {
			t.Errorf("Band ordering violated at grid %d: %g, %g, %g", i, lo, mean, hi)
		}
	}
}

// TestEngine_TrialParamsValid verifies every recovered trial estimate is a
// usable parameter set of the reference family
func TestEngine_TrialParamsValid(t *testing.T) {
	engine := NewEngine(rng.NewSeeded())

	result, err := engine.Run(weibullRequest(50, 6, 3))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.TrialParams) != 50 {
		t.Fatalf("Expected 50 trial params, got %d", len(result.TrialParams))
	}
	for i, p := range result.TrialParams {
		if p.Family != life.FamilyWeibull {
			t.Fatalf("Trial %d family %s, want weibull", i, p.Family)
		}
		if err := p.Validate(); err != nil {
			t.Errorf("Trial %d invalid params: %v", i, err)
		}
	}
}

// TestEngine_RejectsOutOfRangeRequests verifies the K and N contracts
func TestEngine_RejectsOutOfRangeRequests(t *testing.T) {
	engine := NewEngine(rng.NewSeeded())

	cases := []struct {
		name string
		req  Request
	}{
		{"too few trials", weibullRequest(MinTrials-1, 10, 1)},
		{"too many trials", weibullRequest(MaxTrials+1, 10, 1)},
		{"sample too small", weibullRequest(50, MinSampleSize-1, 1)},
		{"sample too large", weibullRequest(50, MaxSampleSize+1, 1)},
	}
	for _, tc := range cases {
		if _, err := engine.Run(tc.req); !core.IsIncompatibleInput(err) {
			t.Errorf("%s: expected IncompatibleInput, got %v", tc.name, err)
		}
	}
}

// TestEngine_RejectsInvalidReference verifies bad reference parameters fail
func TestEngine_RejectsInvalidReference(t *testing.T) {
	engine := NewEngine(rng.NewSeeded())
	req := Request{
		Reference:  life.Params{Family: life.FamilyWeibull, Shape: -2, Scale: 1000},
		Trials:     50,
		SampleSize: 10,
		Seed:       1,
	}
	if _, err := engine.Run(req); !core.IsDomainError(err) {
		t.Errorf("Expected DomainError, got %v", err)
	}
}
