package forecast

import (
	"math"
	"sort"

	"golife/adapters/dist"
	"golife/domain/core"
	"golife/domain/life"
)

// Forecaster turns a fitted hazard model and an aging population into
// expected failure counts over a horizon. Each group contributes
// quantity x (F(age+T) - F(age)) / (1 - F(age)), the conditional failure
// probability given survival to its current age. Confidence comes from
// propagating lower/median/upper parameter sets through the same formula.
type Forecaster struct{}

// NewForecaster creates a spares-budget forecaster
func NewForecaster() *Forecaster {
	return &Forecaster{}
}

// Request is one budget forecast invocation. Lower and Upper are the
// bound parameter sets produced by the Fisher or likelihood-ratio
// calculators at the requested level; Median is the point estimate.
type Request struct {
	Median     life.Params           `json:"median"`
	Lower      life.Params           `json:"lower"`
	Upper      life.Params           `json:"upper"`
	Population []life.PopulationItem `json:"population"`
	Horizon    float64               `json:"horizon"`
	UnitCost   float64               `json:"unit_cost"`
	LevelPct   float64               `json:"level_pct"`
}

// Forecast computes the per-group and total expected-failure triples with
// cost applied. The upper bound is the recommended stocking basis at the
// requested confidence level.
func (f *Forecaster) Forecast(req Request) (life.BudgetForecast, error) {
	level, err := life.NewConfidenceLevel(req.LevelPct)
	if err != nil {
		return life.BudgetForecast{}, err
	}
	if err := life.ValidatePopulation(req.Population); err != nil {
		return life.BudgetForecast{}, err
	}
	if req.Horizon <= 0 {
		return life.BudgetForecast{}, core.NewDomainErrorf("horizon", "must be > 0, got %g", req.Horizon)
	}
	if req.UnitCost < 0 {
		return life.BudgetForecast{}, core.NewDomainErrorf("unit cost", "must be >= 0, got %g", req.UnitCost)
	}
	model, err := dist.ForFamily(req.Median.Family)
	if err != nil {
		return life.BudgetForecast{}, err
	}
	for _, p := range []life.Params{req.Median, req.Lower, req.Upper} {
		if p.Family != req.Median.Family {
			return life.BudgetForecast{}, core.NewIncompatibleInputError(
				"bound parameter families do not match the point estimate")
		}
		if err := p.Validate(); err != nil {
			return life.BudgetForecast{}, err
		}
	}

	perItem := make([]life.ItemForecast, len(req.Population))
	var totals [3]float64
	for i, item := range req.Population {
		var counts [3]float64
		for j, p := range []life.Params{req.Lower, req.Median, req.Upper} {
			prob, err := conditionalFailure(model, p, item.CurrentAge, req.Horizon)
			if err != nil {
				return life.BudgetForecast{}, err
			}
			counts[j] = float64(item.Quantity) * prob
		}
		triple := orderedTriple(counts)
		perItem[i] = life.ItemForecast{
			Age:              item.CurrentAge,
			Quantity:         item.Quantity,
			ExpectedFailures: triple,
		}
		totals[0] += triple.Lower
		totals[1] += triple.Median
		totals[2] += triple.Upper
	}

	totalTriple := life.ForecastTriple{Lower: totals[0], Median: totals[1], Upper: totals[2]}
	return life.BudgetForecast{
		PerItem:         perItem,
		Totals:          totalTriple,
		Cost:            scaleTriple(totalTriple, req.UnitCost),
		AppliedUnitCost: req.UnitCost,
		Horizon:         req.Horizon,
		ConfidenceLevel: level,
	}, nil
}

// conditionalFailure is the probability a unit aged `age` fails within the
// next `horizon`, given it has survived to `age`. At age zero this reduces
// exactly to F(horizon).
func conditionalFailure(model dist.Model, p life.Params, age, horizon float64) (float64, error) {
	fEnd, err := model.CDF(age+horizon, p)
	if err != nil {
		return 0, err
	}
	if age == 0 {
		return fEnd, nil
	}
	fNow, err := model.CDF(age, p)
	if err != nil {
		return 0, err
	}
	survival := 1 - fNow
	if survival <= 0 {
		// The whole group is already past its modeled life; every unit is
		// expected to fail.
		return 1, nil
	}
	prob := (fEnd - fNow) / survival
	return math.Max(0, math.Min(1, prob)), nil
}

// orderedTriple sorts the propagated counts: bound parameter sets are
// symmetric in the unconstrained space, so which set yields the larger
// count depends on the age region.
func orderedTriple(counts [3]float64) life.ForecastTriple {
	s := counts[:]
	sort.Float64s(s)
	return life.ForecastTriple{Lower: s[0], Median: s[1], Upper: s[2]}
}

func scaleTriple(t life.ForecastTriple, unitCost float64) life.ForecastTriple {
	return life.ForecastTriple{
		Lower:  t.Lower * unitCost,
		Median: t.Median * unitCost,
		Upper:  t.Upper * unitCost,
	}
}
