package life

import (
	"golife/domain/core"
)

// ============================================================================
// FIT OUTPUTS (Derived, read-only)
// ============================================================================

// XY is one point on a curve. Axis meaning depends on context: probability
// paper uses the family's transform pair, time-domain curves use raw time.
type XY struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Curve is an ordered sequence of points.
type Curve []XY

// PlotPoint is one failure's position on the family's probability paper.
type PlotPoint struct {
	Time                 float64 `json:"time"`
	EmpiricalProbability float64 `json:"empirical_probability"` // Rank-adjusted median rank
	TransformedX         float64 `json:"transformed_x"`
	TransformedY         float64 `json:"transformed_y"`
}

// FitResult is a completed parameter estimate with its supporting geometry.
type FitResult struct {
	Parameters    Params      `json:"parameters"`
	PlotPoints    []PlotPoint `json:"plot_points"`
	FittedLine    Curve       `json:"fitted_line"` // On the transformed axes
	GoodnessOfFit float64     `json:"goodness_of_fit"`
	LogLikelihood float64     `json:"log_likelihood,omitempty"` // Populated by MLE fits
	Iterations    int         `json:"iterations,omitempty"`
}

// ============================================================================
// CONFIDENCE BOUNDS
// ============================================================================

// PointBounds holds lower/upper failure probabilities evaluated at one time.
type PointBounds struct {
	Time     float64 `json:"time"`
	Lower    float64 `json:"lower"`
	Estimate float64 `json:"estimate"`
	Upper    float64 `json:"upper"`
}

// BoundSet is a pair of confidence-bound curves around a fitted model.
// Curves are on the family's transformed axes: X is the paper abscissa,
// Y the paper ordinate of the bounded failure probability.
type BoundSet struct {
	ConfidenceLevel ConfidenceLevel `json:"confidence_level"`
	Method          BoundMethod     `json:"method"`
	LowerCurve      Curve           `json:"lower_curve"`
	UpperCurve      Curve           `json:"upper_curve"`
	PointQuery      *PointBounds    `json:"point_query,omitempty"`
}

// ParamInterval is a lower/median/upper triple for a single parameter.
type ParamInterval struct {
	Lower  float64 `json:"lower"`
	Median float64 `json:"median"`
	Upper  float64 `json:"upper"`
}

// ParamBounds carries per-parameter intervals in the (Shape, Scale) order
// of Params. Shape is absent for one-parameter families.
type ParamBounds struct {
	Shape *ParamInterval `json:"shape,omitempty"`
	Scale ParamInterval  `json:"scale"`
}

// AxisLimits frames a rendered region in parameter space.
type AxisLimits struct {
	XMin float64 `json:"x_min"`
	XMax float64 `json:"x_max"`
	YMin float64 `json:"y_min"`
	YMax float64 `json:"y_max"`
}

// ContourData is a closed joint-confidence region in parameter space.
// INVARIANT: Ellipse is a closed polygon (first point repeated last) that
// encloses CenterEstimate.
type ContourData struct {
	ConfidenceLevel ConfidenceLevel `json:"confidence_level"`
	CenterEstimate  Params          `json:"center_estimate"`
	Ellipse         Curve           `json:"ellipse"` // x = shape, y = scale
	PerParameter    ParamBounds     `json:"per_parameter"`
	Axes            AxisLimits      `json:"axes"`
}

// ============================================================================
// COMPETING MODES
// ============================================================================

// Mode is one declared failure mechanism with its own censored dataset:
// the mode's failures are failures, every other mode's failure time is a
// suspension.
type Mode struct {
	Name    core.ModeName `json:"name"`
	Data    Dataset       `json:"-"`
	Fit     FitResult     `json:"fit"`
	RankAt  float64       `json:"rank_at,omitempty"`   // Individual F(t*) at the query time
	IsTopAt bool          `json:"is_top_at,omitempty"` // Most likely root cause at the query time
}

// SystemCurve is the time-indexed product of per-mode survival values.
// INVARIANT: reliability is monotonically non-increasing in time.
type SystemCurve struct {
	Times       []float64 `json:"times"`
	Reliability []float64 `json:"reliability"`
}

// ModeAnalysis is a completed competing-failure-mode decomposition.
type ModeAnalysis struct {
	Modes     []Mode      `json:"modes"`
	System    SystemCurve `json:"system"`
	QueryTime float64     `json:"query_time"`
}

// ============================================================================
// SPARES BUDGET
// ============================================================================

// PopulationItem is a group of identical in-service units.
type PopulationItem struct {
	CurrentAge float64 `json:"current_age"` // >= 0
	Quantity   int     `json:"quantity"`    // > 0
}

// ValidatePopulation applies the boundary contract for forecast input.
func ValidatePopulation(items []PopulationItem) error {
	if len(items) == 0 {
		return core.NewIncompatibleInputError("population is empty")
	}
	for i, it := range items {
		if it.CurrentAge < 0 {
			return core.NewDomainErrorf("population age", "must be >= 0, got %g at index %d", it.CurrentAge, i)
		}
		if it.Quantity <= 0 {
			return core.NewDomainErrorf("population quantity", "must be > 0, got %d at index %d", it.Quantity, i)
		}
	}
	return nil
}

// ForecastTriple is lower/median/upper expected failure counts.
type ForecastTriple struct {
	Lower  float64 `json:"lower"`
	Median float64 `json:"median"`
	Upper  float64 `json:"upper"`
}

// ItemForecast is one population group's expected failures over the horizon.
type ItemForecast struct {
	Age              float64        `json:"age"`
	Quantity         int            `json:"quantity"`
	ExpectedFailures ForecastTriple `json:"expected_failures"`
}

// BudgetForecast aggregates per-group forecasts with cost applied.
// The upper bound is the recommended stocking basis at the requested level.
type BudgetForecast struct {
	PerItem         []ItemForecast  `json:"per_item"`
	Totals          ForecastTriple  `json:"totals"`
	Cost            ForecastTriple  `json:"cost"`
	AppliedUnitCost float64         `json:"applied_unit_cost"`
	Horizon         float64         `json:"horizon"`
	ConfidenceLevel ConfidenceLevel `json:"confidence_level"`
}
