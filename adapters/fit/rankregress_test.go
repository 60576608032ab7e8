package fit

import (
	"math"
	"testing"

	"golife/domain/core"
	"golife/domain/life"
)

// TestPlottingPositions_CompleteSample verifies the textbook median ranks
// for a complete five-failure sample
func TestPlottingPositions_CompleteSample(t *testing.T) {
	ds := life.MustNewDataset([]life.Observation{
		{Time: 500, Event: life.EventFailure},
		{Time: 900, Event: life.EventFailure},
		{Time: 1200, Event: life.EventFailure},
		{Time: 1600, Event: life.EventFailure},
		{Time: 1800, Event: life.EventFailure},
	})

	rr := NewRankRegression()
	positions, err := rr.PlottingPositions(ds)
	if err != nil {
		t.Fatalf("PlottingPositions failed: %v", err)
	}
	if len(positions) != 5 {
		t.Fatalf("Expected 5 positions, got %d", len(positions))
	}

	// Complete sample: mean order numbers are 1..N and the exact median
	// ranks track Benard's approximation (i-0.3)/(N+0.4) within ~1%
	for i, pos := range positions {
		wantMON := float64(i + 1)
		if math.Abs(pos.MeanOrder-wantMON) > 1e-10 {
			t.Errorf("Position %d: mean order %g, want %g", i, pos.MeanOrder, wantMON)
		}
		benard := (wantMON - 0.3) / (5 + 0.4)
		if math.Abs(pos.MedianRank-benard) > 0.01 {
			t.Errorf("Position %d: median rank %g, far from Benard %g", i, pos.MedianRank, benard)
		}
	}

	// Ranks strictly increase with time
	for i := 1; i < len(positions); i++ {
		if positions[i].MedianRank <= positions[i-1].MedianRank {
			t.Errorf("Median ranks not increasing at %d", i)
		}
	}
}

// TestPlottingPositions_SuspensionsShiftRanks verifies Johnson's adjustment:
// a suspension before a failure pushes its mean order past the complete-
// sample value
func TestPlottingPositions_SuspensionsShiftRanks(t *testing.T) {
	ds := life.MustNewDataset([]life.Observation{
		{Time: 100, Event: life.EventFailure},
		{Time: 200, Event: life.EventSuspension},
		{Time: 300, Event: life.EventFailure},
		{Time: 400, Event: life.EventFailure},
	})

	rr := NewRankRegression()
	positions, err := rr.PlottingPositions(ds)
	if err != nil {
		t.Fatalf("PlottingPositions failed: %v", err)
	}
	if len(positions) != 3 {
		t.Fatalf("Expected 3 positions (failures only), got %d", len(positions))
	}

	// First failure precedes the suspension, so its MON stays 1
	if math.Abs(positions[0].MeanOrder-1) > 1e-10 {
		t.Errorf("First MON = %g, want 1", positions[0].MeanOrder)
	}
	// N=4, first MON=1, second failure has order index 3:
	// increment = (4+1-1)/(4+2-3) = 4/3, MON = 1 + 4/3
	want := 1 + 4.0/3.0
	if math.Abs(positions[1].MeanOrder-want) > 1e-10 {
		t.Errorf("Second MON = %g, want %g", positions[1].MeanOrder, want)
	}
	// Same increment applies to the third failure
	want += 4.0 / 3.0
	if math.Abs(positions[2].MeanOrder-want) > 1e-10 {
		t.Errorf("Third MON = %g, want %g", positions[2].MeanOrder, want)
	}
}

// TestRankRegression_WeibullRecovery fits a plausible wearout sample
func TestRankRegression_WeibullRecovery(t *testing.T) {
	ds := life.MustNewDataset([]life.Observation{
		{Time: 500, Event: life.EventFailure},
		{Time: 900, Event: life.EventFailure},
		{Time: 1200, Event: life.EventFailure},
		{Time: 1600, Event: life.EventFailure},
		{Time: 1800, Event: life.EventFailure},
	})

	rr := NewRankRegression()
	result, err := rr.Fit(ds, life.FamilyWeibull)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if result.Parameters.Shape <= 0 {
		t.Errorf("Expected positive beta, got %g", result.Parameters.Shape)
	}
	if result.Parameters.Shape <= 1 {
		t.Errorf("Wearout data should fit beta > 1, got %g", result.Parameters.Shape)
	}
	if result.Parameters.Scale < 500 || result.Parameters.Scale > 1800*2 {
		t.Errorf("Eta %g implausible for data spanning 500-1800", result.Parameters.Scale)
	}
	if result.GoodnessOfFit < 0 || result.GoodnessOfFit > 1 {
		t.Errorf("R^2 = %g outside [0,1]", result.GoodnessOfFit)
	}
	if result.GoodnessOfFit < 0.9 {
		t.Errorf("Clean monotone sample should fit well, R^2 = %g", result.GoodnessOfFit)
	}
	if len(result.PlotPoints) != 5 {
		t.Errorf("Expected 5 plot points, got %d", len(result.PlotPoints))
	}
	if len(result.FittedLine) == 0 {
		t.Error("Expected a sampled fitted line")
	}
}

// TestRankRegression_TwoFailuresPerfectFit verifies two points give R^2 = 1
func TestRankRegression_TwoFailuresPerfectFit(t *testing.T) {
	ds := life.MustNewDataset([]life.Observation{
		{Time: 400, Event: life.EventFailure},
		{Time: 1100, Event: life.EventFailure},
	})

	result, err := NewRankRegression().Fit(ds, life.FamilyWeibull)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if math.Abs(result.GoodnessOfFit-1) > 1e-12 {
		t.Errorf("Two-point fit R^2 = %g, want exactly 1", result.GoodnessOfFit)
	}
}

// TestRankRegression_InsufficientFailures rejects one-failure datasets
func TestRankRegression_InsufficientFailures(t *testing.T) {
	ds := life.MustNewDataset([]life.Observation{
		{Time: 400, Event: life.EventFailure},
		{Time: 800, Event: life.EventSuspension},
		{Time: 900, Event: life.EventSuspension},
	})

	_, err := NewRankRegression().Fit(ds, life.FamilyWeibull)
	if !core.IsInsufficientData(err) {
		t.Errorf("Expected InsufficientData, got %v", err)
	}
}

// TestRankRegression_AllFamilies fits every family on the same sample
func TestRankRegression_AllFamilies(t *testing.T) {
	ds := life.MustNewDataset([]life.Observation{
		{Time: 300, Event: life.EventFailure},
		{Time: 550, Event: life.EventFailure},
		{Time: 820, Event: life.EventFailure},
		{Time: 1100, Event: life.EventFailure},
		{Time: 1500, Event: life.EventFailure},
		{Time: 2100, Event: life.EventFailure},
	})

	rr := NewRankRegression()
	for _, family := range life.Families() {
		result, err := rr.Fit(ds, family)
		if err != nil {
			t.Fatalf("Fit(%s) failed: %v", family, err)
		}
		if err := result.Parameters.Validate(); err != nil {
			t.Errorf("%s: invalid fitted parameters: %v", family, err)
		}
		if result.GoodnessOfFit < 0 || result.GoodnessOfFit > 1 {
			t.Errorf("%s: R^2 = %g outside [0,1]", family, result.GoodnessOfFit)
		}
	}
}

// TestCheckSampleTable_DeclaredMismatch verifies declared-size validation
func TestCheckSampleTable_DeclaredMismatch(t *testing.T) {
	ds := life.MustNewDataset([]life.Observation{
		{Time: 100, Event: life.EventFailure},
		{Time: 200, Event: life.EventFailure},
	})
	if err := CheckSampleTable(5, ds); !core.IsIncompatibleInput(err) {
		t.Errorf("Expected IncompatibleInput, got %v", err)
	}
	if err := CheckSampleTable(2, ds); err != nil {
		t.Errorf("Matching declared size should pass, got %v", err)
	}
}
