package dist

import (
	"math"

	"golife/domain/life"
)

// GumbelModel implements the smallest-extreme-value (Gumbel minimum) family
// on raw time. Params convention: Shape = σ (scale of the extreme-value
// spread), Scale = μ (location). gonum's distuv carries the largest-extreme
// variant; the minimum form used for life data is written out directly.
type GumbelModel struct{}

// NewGumbelModel creates a new smallest-extreme-value model
func NewGumbelModel() *GumbelModel {
	return &GumbelModel{}
}

// Family returns the family tag
func (m *GumbelModel) Family() life.Family { return life.FamilyGumbel }

func (m *GumbelModel) z(t float64, p life.Params) float64 {
	return (t - p.Scale) / p.Shape
}

// CDF returns F(t) = 1 - exp(-exp(z)), z = (t-μ)/σ
func (m *GumbelModel) CDF(t float64, p life.Params) (float64, error) {
	if err := checkTime(t); err != nil {
		return 0, err
	}
	if err := checkParams(p, life.FamilyGumbel); err != nil {
		return 0, err
	}
	return -math.Expm1(-math.Exp(m.z(t, p))), nil
}

// Survival returns R(t) = exp(-exp(z))
func (m *GumbelModel) Survival(t float64, p life.Params) (float64, error) {
	ls, err := m.LogSurvival(t, p)
	if err != nil {
		return 0, err
	}
	return math.Exp(ls), nil
}

// LogDensity returns ln f(t) = -ln σ + z - e^z
func (m *GumbelModel) LogDensity(t float64, p life.Params) (float64, error) {
	if err := checkTime(t); err != nil {
		return 0, err
	}
	if err := checkParams(p, life.FamilyGumbel); err != nil {
		return 0, err
	}
	z := m.z(t, p)
	return -math.Log(p.Shape) + z - math.Exp(z), nil
}

// LogSurvival is exact in log space: ln R(t) = -e^z
func (m *GumbelModel) LogSurvival(t float64, p life.Params) (float64, error) {
	if err := checkTime(t); err != nil {
		return 0, err
	}
	if err := checkParams(p, life.FamilyGumbel); err != nil {
		return 0, err
	}
	return -math.Exp(m.z(t, p)), nil
}

// Quantile returns t = μ + σ ln(-ln(1-prob))
func (m *GumbelModel) Quantile(prob float64, p life.Params) (float64, error) {
	if err := checkProbability(prob); err != nil {
		return 0, err
	}
	if err := checkParams(p, life.FamilyGumbel); err != nil {
		return 0, err
	}
	return p.Scale + p.Shape*math.Log(-math.Log1p(-prob)), nil
}

// TransformX is raw time
func (m *GumbelModel) TransformX(t float64) (float64, error) {
	if err := checkTime(t); err != nil {
		return 0, err
	}
	return t, nil
}

// TransformY is ln(-ln(1-F)), shared with the Weibull paper ordinate
func (m *GumbelModel) TransformY(f float64) (float64, error) {
	if err := checkProbability(f); err != nil {
		return 0, err
	}
	return math.Log(-math.Log1p(-f)), nil
}

// UntransformY inverts the paper ordinate: F = 1 - exp(-exp(y))
func (m *GumbelModel) UntransformY(y float64) float64 {
	return -math.Expm1(-math.Exp(y))
}

// LineParams recovers (μ, σ) from the paper line y = (t-μ)/σ
func (m *GumbelModel) LineParams(slope, intercept float64) (life.Params, error) {
	if err := checkSlope(slope); err != nil {
		return life.Params{}, err
	}
	p := life.Params{Family: life.FamilyGumbel, Shape: 1 / slope, Scale: -intercept / slope}
	return p, p.Validate()
}

// ParamsLine returns the paper line implied by (μ, σ)
func (m *GumbelModel) ParamsLine(p life.Params) (float64, float64) {
	return 1 / p.Shape, -p.Scale / p.Shape
}

// ToVector encodes (ln σ, μ)
func (m *GumbelModel) ToVector(p life.Params) []float64 {
	return []float64{math.Log(p.Shape), p.Scale}
}

// FromVector decodes (ln σ, μ)
func (m *GumbelModel) FromVector(v []float64) (life.Params, error) {
	p := life.Params{Family: life.FamilyGumbel, Shape: math.Exp(v[0]), Scale: v[1]}
	return p, p.Validate()
}
