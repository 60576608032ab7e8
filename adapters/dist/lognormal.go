package dist

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"golife/domain/life"
)

// LognormalModel implements the lognormal family (log mean μ, log std σ).
// Params convention: Shape = σ, Scale = μ.
type LognormalModel struct{}

// NewLognormalModel creates a new lognormal model
func NewLognormalModel() *LognormalModel {
	return &LognormalModel{}
}

// Family returns the family tag
func (m *LognormalModel) Family() life.Family { return life.FamilyLognormal }

func (m *LognormalModel) dist(p life.Params) distuv.LogNormal {
	return distuv.LogNormal{Mu: p.Scale, Sigma: p.Shape}
}

// CDF returns F(t) = Φ((ln t - μ)/σ)
func (m *LognormalModel) CDF(t float64, p life.Params) (float64, error) {
	if err := checkTime(t); err != nil {
		return 0, err
	}
	if err := checkParams(p, life.FamilyLognormal); err != nil {
		return 0, err
	}
	return m.dist(p).CDF(t), nil
}

// Survival returns R(t) = 1 - F(t)
func (m *LognormalModel) Survival(t float64, p life.Params) (float64, error) {
	if err := checkTime(t); err != nil {
		return 0, err
	}
	if err := checkParams(p, life.FamilyLognormal); err != nil {
		return 0, err
	}
	return m.dist(p).Survival(t), nil
}

// LogDensity returns ln f(t)
func (m *LognormalModel) LogDensity(t float64, p life.Params) (float64, error) {
	if err := checkTime(t); err != nil {
		return 0, err
	}
	if err := checkParams(p, life.FamilyLognormal); err != nil {
		return 0, err
	}
	return m.dist(p).LogProb(t), nil
}

// LogSurvival returns ln R(t)
func (m *LognormalModel) LogSurvival(t float64, p life.Params) (float64, error) {
	if err := checkTime(t); err != nil {
		return 0, err
	}
	if err := checkParams(p, life.FamilyLognormal); err != nil {
		return 0, err
	}
	d := m.dist(p)
	return logFromCDF(d.CDF(t), d.Survival(t)), nil
}

// Quantile returns t such that F(t) = prob
func (m *LognormalModel) Quantile(prob float64, p life.Params) (float64, error) {
	if err := checkProbability(prob); err != nil {
		return 0, err
	}
	if err := checkParams(p, life.FamilyLognormal); err != nil {
		return 0, err
	}
	return m.dist(p).Quantile(prob), nil
}

// TransformX is ln t
func (m *LognormalModel) TransformX(t float64) (float64, error) {
	if err := checkTime(t); err != nil {
		return 0, err
	}
	return math.Log(t), nil
}

// TransformY is the standard normal quantile Φ⁻¹(F)
func (m *LognormalModel) TransformY(f float64) (float64, error) {
	if err := checkProbability(f); err != nil {
		return 0, err
	}
	return distuv.UnitNormal.Quantile(f), nil
}

// UntransformY is Φ(y)
func (m *LognormalModel) UntransformY(y float64) float64 {
	return distuv.UnitNormal.CDF(y)
}

// LineParams recovers (μ, σ) from the paper line y = (x-μ)/σ
func (m *LognormalModel) LineParams(slope, intercept float64) (life.Params, error) {
	if err := checkSlope(slope); err != nil {
		return life.Params{}, err
	}
	p := life.Params{Family: life.FamilyLognormal, Shape: 1 / slope, Scale: -intercept / slope}
	return p, p.Validate()
}

// ParamsLine returns the paper line implied by (μ, σ)
func (m *LognormalModel) ParamsLine(p life.Params) (float64, float64) {
	return 1 / p.Shape, -p.Scale / p.Shape
}

// ToVector encodes (ln σ, μ)
func (m *LognormalModel) ToVector(p life.Params) []float64 {
	return []float64{math.Log(p.Shape), p.Scale}
}

// FromVector decodes (ln σ, μ)
func (m *LognormalModel) FromVector(v []float64) (life.Params, error) {
	p := life.Params{Family: life.FamilyLognormal, Shape: math.Exp(v[0]), Scale: v[1]}
	return p, p.Validate()
}
