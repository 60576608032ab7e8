package dist

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"golife/domain/life"
)

// NormalModel implements the normal family on raw time.
// Params convention: Shape = σ, Scale = μ. Life data is positive, so time
// inputs are still required to be > 0 even though the density extends below.
type NormalModel struct{}

// NewNormalModel creates a new normal model
func NewNormalModel() *NormalModel {
	return &NormalModel{}
}

// Family returns the family tag
func (m *NormalModel) Family() life.Family { return life.FamilyNormal }

func (m *NormalModel) dist(p life.Params) distuv.Normal {
	return distuv.Normal{Mu: p.Scale, Sigma: p.Shape}
}

// CDF returns F(t) = Φ((t - μ)/σ)
func (m *NormalModel) CDF(t float64, p life.Params) (float64, error) {
	if err := checkTime(t); err != nil {
		return 0, err
	}
	if err := checkParams(p, life.FamilyNormal); err != nil {
		return 0, err
	}
	return m.dist(p).CDF(t), nil
}

// Survival returns R(t) = 1 - F(t)
func (m *NormalModel) Survival(t float64, p life.Params) (float64, error) {
	if err := checkTime(t); err != nil {
		return 0, err
	}
	if err := checkParams(p, life.FamilyNormal); err != nil {
		return 0, err
	}
	return m.dist(p).Survival(t), nil
}

// LogDensity returns ln f(t)
func (m *NormalModel) LogDensity(t float64, p life.Params) (float64, error) {
	if err := checkTime(t); err != nil {
		return 0, err
	}
	if err := checkParams(p, life.FamilyNormal); err != nil {
		return 0, err
	}
	return m.dist(p).LogProb(t), nil
}

// LogSurvival returns ln R(t)
func (m *NormalModel) LogSurvival(t float64, p life.Params) (float64, error) {
	if err := checkTime(t); err != nil {
		return 0, err
	}
	if err := checkParams(p, life.FamilyNormal); err != nil {
		return 0, err
	}
	d := m.dist(p)
	return logFromCDF(d.CDF(t), d.Survival(t)), nil
}

// Quantile returns t such that F(t) = prob
func (m *NormalModel) Quantile(prob float64, p life.Params) (float64, error) {
	if err := checkProbability(prob); err != nil {
		return 0, err
	}
	if err := checkParams(p, life.FamilyNormal); err != nil {
		return 0, err
	}
	return m.dist(p).Quantile(prob), nil
}

// TransformX is raw time
func (m *NormalModel) TransformX(t float64) (float64, error) {
	if err := checkTime(t); err != nil {
		return 0, err
	}
	return t, nil
}

// TransformY is the standard normal quantile Φ⁻¹(F)
func (m *NormalModel) TransformY(f float64) (float64, error) {
	if err := checkProbability(f); err != nil {
		return 0, err
	}
	return distuv.UnitNormal.Quantile(f), nil
}

// UntransformY is Φ(y)
func (m *NormalModel) UntransformY(y float64) float64 {
	return distuv.UnitNormal.CDF(y)
}

// LineParams recovers (μ, σ) from the paper line y = (t-μ)/σ
func (m *NormalModel) LineParams(slope, intercept float64) (life.Params, error) {
	if err := checkSlope(slope); err != nil {
		return life.Params{}, err
	}
	p := life.Params{Family: life.FamilyNormal, Shape: 1 / slope, Scale: -intercept / slope}
	return p, p.Validate()
}

// ParamsLine returns the paper line implied by (μ, σ)
func (m *NormalModel) ParamsLine(p life.Params) (float64, float64) {
	return 1 / p.Shape, -p.Scale / p.Shape
}

// ToVector encodes (ln σ, μ)
func (m *NormalModel) ToVector(p life.Params) []float64 {
	return []float64{math.Log(p.Shape), p.Scale}
}

// FromVector decodes (ln σ, μ)
func (m *NormalModel) FromVector(v []float64) (life.Params, error) {
	p := life.Params{Family: life.FamilyNormal, Shape: math.Exp(v[0]), Scale: v[1]}
	return p, p.Validate()
}
