package dist

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"golife/domain/life"
)

// WeibullModel implements the two-parameter Weibull family
// (shape β, characteristic life η).
type WeibullModel struct{}

// NewWeibullModel creates a new Weibull model
func NewWeibullModel() *WeibullModel {
	return &WeibullModel{}
}

// Family returns the family tag
func (m *WeibullModel) Family() life.Family { return life.FamilyWeibull }

func (m *WeibullModel) dist(p life.Params) distuv.Weibull {
	return distuv.Weibull{K: p.Shape, Lambda: p.Scale}
}

// CDF returns F(t) = 1 - exp(-(t/η)^β)
func (m *WeibullModel) CDF(t float64, p life.Params) (float64, error) {
	if err := checkTime(t); err != nil {
		return 0, err
	}
	if err := checkParams(p, life.FamilyWeibull); err != nil {
		return 0, err
	}
	return m.dist(p).CDF(t), nil
}

// Survival returns R(t) = exp(-(t/η)^β)
func (m *WeibullModel) Survival(t float64, p life.Params) (float64, error) {
	ls, err := m.LogSurvival(t, p)
	if err != nil {
		return 0, err
	}
	return math.Exp(ls), nil
}

// LogDensity returns ln f(t)
func (m *WeibullModel) LogDensity(t float64, p life.Params) (float64, error) {
	if err := checkTime(t); err != nil {
		return 0, err
	}
	if err := checkParams(p, life.FamilyWeibull); err != nil {
		return 0, err
	}
	return m.dist(p).LogProb(t), nil
}

// LogSurvival is exact in log space: ln R(t) = -(t/η)^β
func (m *WeibullModel) LogSurvival(t float64, p life.Params) (float64, error) {
	if err := checkTime(t); err != nil {
		return 0, err
	}
	if err := checkParams(p, life.FamilyWeibull); err != nil {
		return 0, err
	}
	return -math.Pow(t/p.Scale, p.Shape), nil
}

// Quantile returns t such that F(t) = prob
func (m *WeibullModel) Quantile(prob float64, p life.Params) (float64, error) {
	if err := checkProbability(prob); err != nil {
		return 0, err
	}
	if err := checkParams(p, life.FamilyWeibull); err != nil {
		return 0, err
	}
	return m.dist(p).Quantile(prob), nil
}

// TransformX is ln t
func (m *WeibullModel) TransformX(t float64) (float64, error) {
	if err := checkTime(t); err != nil {
		return 0, err
	}
	return math.Log(t), nil
}

// TransformY is ln(ln(1/(1-F)))
func (m *WeibullModel) TransformY(f float64) (float64, error) {
	if err := checkProbability(f); err != nil {
		return 0, err
	}
	return math.Log(-math.Log1p(-f)), nil
}

// UntransformY inverts the paper ordinate: F = 1 - exp(-exp(y))
func (m *WeibullModel) UntransformY(y float64) float64 {
	return -math.Expm1(-math.Exp(y))
}

// LineParams recovers (β, η) from the paper line y = βx - β ln η
func (m *WeibullModel) LineParams(slope, intercept float64) (life.Params, error) {
	if err := checkSlope(slope); err != nil {
		return life.Params{}, err
	}
	return life.NewWeibullParams(slope, math.Exp(-intercept/slope))
}

// ParamsLine returns the paper line implied by (β, η)
func (m *WeibullModel) ParamsLine(p life.Params) (float64, float64) {
	return p.Shape, -p.Shape * math.Log(p.Scale)
}

// ToVector encodes (ln β, ln η)
func (m *WeibullModel) ToVector(p life.Params) []float64 {
	return []float64{math.Log(p.Shape), math.Log(p.Scale)}
}

// FromVector decodes (ln β, ln η)
func (m *WeibullModel) FromVector(v []float64) (life.Params, error) {
	return life.NewWeibullParams(math.Exp(v[0]), math.Exp(v[1]))
}
