package forecast

import (
	"math"
	"testing"

	"golife/adapters/dist"
	"golife/domain/core"
	"golife/domain/life"
)

func weibullTriple() (lower, median, upper life.Params) {
	lower = life.Params{Family: life.FamilyWeibull, Shape: 1.7, Scale: 900}
	median = life.Params{Family: life.FamilyWeibull, Shape: 2.0, Scale: 1000}
	upper = life.Params{Family: life.FamilyWeibull, Shape: 2.3, Scale: 1100}
	return
}

// TestForecast_NewUnitEqualsCDF verifies an age-zero group contributes
// exactly quantity x F(horizon) under the point estimate
func TestForecast_NewUnitEqualsCDF(t *testing.T) {
	lower, median, upper := weibullTriple()
	req := Request{
		Median:     median,
		Lower:      lower,
		Upper:      upper,
		Population: []life.PopulationItem{{CurrentAge: 0, Quantity: 40}},
		Horizon:    365,
		LevelPct:   90,
	}

	budget, err := NewForecaster().Forecast(req)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}

	model, err := dist.ForFamily(life.FamilyWeibull)
	if err != nil {
		t.Fatalf("ForFamily failed: %v", err)
	}
	f365, err := model.CDF(365, median)
	if err != nil {
		t.Fatalf("CDF failed: %v", err)
	}
	want := 40 * f365
	if math.Abs(budget.Totals.Median-want) > 1e-12 {
		t.Errorf("Age-zero median forecast %g, want 40*F(365) = %g", budget.Totals.Median, want)
	}
}

// TestForecast_TripleOrdering verifies lower <= median <= upper per group
// and in the totals
func TestForecast_TripleOrdering(t *testing.T) {
	lower, median, upper := weibullTriple()
	req := Request{
		Median: median,
		Lower:  lower,
		Upper:  upper,
		Population: []life.PopulationItem{
			{CurrentAge: 0, Quantity: 20},
			{CurrentAge: 500, Quantity: 35},
			{CurrentAge: 1200, Quantity: 10},
		},
		Horizon:  365,
		LevelPct: 90,
	}

	budget, err := NewForecaster().Forecast(req)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	if len(budget.PerItem) != 3 {
		t.Fatalf("Expected 3 per-item forecasts, got %d", len(budget.PerItem))
	}
	for i, item := range budget.PerItem {
		ef := item.ExpectedFailures
		if !(ef.Lower <= ef.Median && ef.Median <= ef.Upper) {
			t.Errorf("Group %d triple out of order: %g, %g, %g", i, ef.Lower, ef.Median, ef.Upper)
		}
		if ef.Lower < 0 || ef.Upper > float64(item.Quantity) {
			t.Errorf("Group %d forecast outside [0, quantity]: %g..%g", i, ef.Lower, ef.Upper)
		}
	}
	tt := budget.Totals
	if !(tt.Lower <= tt.Median && tt.Median <= tt.Upper) {
		t.Errorf("Totals out of order: %g, %g, %g", tt.Lower, tt.Median, tt.Upper)
	}
}

// TestForecast_OldGroupsFailMore verifies aging raises the conditional
// failure probability for a wearout distribution
func TestForecast_OldGroupsFailMore(t *testing.T) {
	lower, median, upper := weibullTriple()
	req := Request{
		Median: median,
		Lower:  lower,
		Upper:  upper,
		Population: []life.PopulationItem{
			{CurrentAge: 0, Quantity: 10},
			{CurrentAge: 800, Quantity: 10},
		},
		Horizon:  200,
		LevelPct: 90,
	}

	budget, err := NewForecaster().Forecast(req)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	young := budget.PerItem[0].ExpectedFailures.Median
	old := budget.PerItem[1].ExpectedFailures.Median
	if old <= young {
		t.Errorf("Wearout: aged group should fail more, got young %g, old %g", young, old)
	}
}

// TestForecast_CostScalesTotals verifies the budget line applies unit cost
func TestForecast_CostScalesTotals(t *testing.T) {
	lower, median, upper := weibullTriple()
	req := Request{
		Median:     median,
		Lower:      lower,
		Upper:      upper,
		Population: []life.PopulationItem{{CurrentAge: 100, Quantity: 25}},
		Horizon:    365,
		UnitCost:   1200,
		LevelPct:   90,
	}

	budget, err := NewForecaster().Forecast(req)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	if math.Abs(budget.Cost.Upper-budget.Totals.Upper*1200) > 1e-9 {
		t.Errorf("Cost upper %g, want totals upper x 1200 = %g", budget.Cost.Upper, budget.Totals.Upper*1200)
	}
	if budget.AppliedUnitCost != 1200 {
		t.Errorf("Applied unit cost %g, want 1200", budget.AppliedUnitCost)
	}
}

// TestForecast_InputValidation verifies the boundary contract
func TestForecast_InputValidation(t *testing.T) {
	lower, median, upper := weibullTriple()
	base := Request{
		Median:     median,
		Lower:      lower,
		Upper:      upper,
		Population: []life.PopulationItem{{CurrentAge: 0, Quantity: 5}},
		Horizon:    365,
		LevelPct:   90,
	}
	f := NewForecaster()

	empty := base
	empty.Population = nil
	if _, err := f.Forecast(empty); !core.IsIncompatibleInput(err) {
		t.Errorf("Empty population: expected IncompatibleInput, got %v", err)
	}

	negAge := base
	negAge.Population = []life.PopulationItem{{CurrentAge: -5, Quantity: 5}}
	if _, err := f.Forecast(negAge); !core.IsDomainError(err) {
		t.Errorf("Negative age: expected DomainError, got %v", err)
	}

	zeroQty := base
	zeroQty.Population = []life.PopulationItem{{CurrentAge: 10, Quantity: 0}}
	if _, err := f.Forecast(zeroQty); !core.IsDomainError(err) {
		t.Errorf("Zero quantity: expected DomainError, got %v", err)
	}

	badHorizon := base
	badHorizon.Horizon = 0
	if _, err := f.Forecast(badHorizon); !core.IsDomainError(err) {
		t.Errorf("Zero horizon: expected DomainError, got %v", err)
	}

	badLevel := base
	badLevel.LevelPct = 100
	if _, err := f.Forecast(badLevel); !core.IsDomainError(err) {
		t.Errorf("Level 100: expected DomainError, got %v", err)
	}

	mixed := base
	mixed.Lower = life.Params{Family: life.FamilyNormal, Shape: 100, Scale: 1000}
	if _, err := f.Forecast(mixed); !core.IsIncompatibleInput(err) {
		t.Errorf("Mixed families: expected IncompatibleInput, got %v", err)
	}
}
