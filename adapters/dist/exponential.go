package dist

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"golife/domain/life"
)

// ExponentialModel implements the one-parameter exponential family.
// Params convention: Scale = mean life θ (= 1/λ), Shape unused.
type ExponentialModel struct{}

// NewExponentialModel creates a new exponential model
func NewExponentialModel() *ExponentialModel {
	return &ExponentialModel{}
}

// Family returns the family tag
func (m *ExponentialModel) Family() life.Family { return life.FamilyExponential }

func (m *ExponentialModel) dist(p life.Params) distuv.Exponential {
	return distuv.Exponential{Rate: 1 / p.Scale}
}

// CDF returns F(t) = 1 - exp(-t/θ)
func (m *ExponentialModel) CDF(t float64, p life.Params) (float64, error) {
	if err := checkTime(t); err != nil {
		return 0, err
	}
	if err := checkParams(p, life.FamilyExponential); err != nil {
		return 0, err
	}
	return m.dist(p).CDF(t), nil
}

// Survival returns R(t) = exp(-t/θ)
func (m *ExponentialModel) Survival(t float64, p life.Params) (float64, error) {
	ls, err := m.LogSurvival(t, p)
	if err != nil {
		return 0, err
	}
	return math.Exp(ls), nil
}

// LogDensity returns ln f(t) = -ln θ - t/θ
func (m *ExponentialModel) LogDensity(t float64, p life.Params) (float64, error) {
	if err := checkTime(t); err != nil {
		return 0, err
	}
	if err := checkParams(p, life.FamilyExponential); err != nil {
		return 0, err
	}
	return m.dist(p).LogProb(t), nil
}

// LogSurvival is exact in log space: ln R(t) = -t/θ
func (m *ExponentialModel) LogSurvival(t float64, p life.Params) (float64, error) {
	if err := checkTime(t); err != nil {
		return 0, err
	}
	if err := checkParams(p, life.FamilyExponential); err != nil {
		return 0, err
	}
	return -t / p.Scale, nil
}

// Quantile returns t such that F(t) = prob
func (m *ExponentialModel) Quantile(prob float64, p life.Params) (float64, error) {
	if err := checkProbability(prob); err != nil {
		return 0, err
	}
	if err := checkParams(p, life.FamilyExponential); err != nil {
		return 0, err
	}
	return m.dist(p).Quantile(prob), nil
}

// TransformX is raw time
func (m *ExponentialModel) TransformX(t float64) (float64, error) {
	if err := checkTime(t); err != nil {
		return 0, err
	}
	return t, nil
}

// TransformY is -ln(1-F), the cumulative hazard
func (m *ExponentialModel) TransformY(f float64) (float64, error) {
	if err := checkProbability(f); err != nil {
		return 0, err
	}
	return -math.Log1p(-f), nil
}

// UntransformY inverts the cumulative hazard: F = 1 - exp(-y)
func (m *ExponentialModel) UntransformY(y float64) float64 {
	return -math.Expm1(-y)
}

// LineParams recovers θ from the paper line y = t/θ. The regression is fit
// with a free intercept but only the slope carries the parameter; the
// intercept expresses lack of fit, not a shift.
func (m *ExponentialModel) LineParams(slope, intercept float64) (life.Params, error) {
	if err := checkSlope(slope); err != nil {
		return life.Params{}, err
	}
	return life.NewExponentialParams(1 / slope)
}

// ParamsLine returns the paper line implied by θ
func (m *ExponentialModel) ParamsLine(p life.Params) (float64, float64) {
	return 1 / p.Scale, 0
}

// ToVector encodes (ln θ)
func (m *ExponentialModel) ToVector(p life.Params) []float64 {
	return []float64{math.Log(p.Scale)}
}

// FromVector decodes (ln θ)
func (m *ExponentialModel) FromVector(v []float64) (life.Params, error) {
	return life.NewExponentialParams(math.Exp(v[0]))
}
