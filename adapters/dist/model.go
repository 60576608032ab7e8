package dist

import (
	"math"

	"golife/domain/core"
	"golife/domain/life"
)

// Model is the strategy interface implemented once per life-distribution
// family. All methods are pure; adding a family means adding one
// implementation file and registering it below.
//
// Probability-paper convention: TransformX/TransformY map (time, failure
// probability) onto the family's linearizing axes, so that a correctly
// distributed sample plots as a straight line. LineParams and ParamsLine
// convert between that line's (slope, intercept) and the family parameters.
type Model interface {
	Family() life.Family

	// CDF returns F(t), the failure probability by time t.
	CDF(t float64, p life.Params) (float64, error)
	// Survival returns R(t) = 1 - F(t).
	Survival(t float64, p life.Params) (float64, error)
	// LogDensity returns ln f(t), the log probability density.
	LogDensity(t float64, p life.Params) (float64, error)
	// LogSurvival returns ln R(t), computed in log space so deep tails do
	// not underflow the censored-data likelihood.
	LogSurvival(t float64, p life.Params) (float64, error)
	// Quantile returns the time at which F reaches prob (inverse CDF).
	Quantile(prob float64, p life.Params) (float64, error)

	// TransformX maps time onto the paper abscissa.
	TransformX(t float64) (float64, error)
	// TransformY maps a failure probability in (0,1) onto the paper ordinate.
	TransformY(f float64) (float64, error)
	// UntransformY inverts TransformY back to a probability.
	UntransformY(y float64) float64

	// LineParams converts a fitted paper line into family parameters.
	LineParams(slope, intercept float64) (life.Params, error)
	// ParamsLine converts family parameters into the paper line they imply.
	ParamsLine(p life.Params) (slope, intercept float64)

	// ToVector encodes parameters as an unconstrained optimizer vector
	// (positive parameters are log-transformed). FromVector inverts it.
	ToVector(p life.Params) []float64
	FromVector(v []float64) (life.Params, error)
}

// ForFamily returns the model for a family.
func ForFamily(f life.Family) (Model, error) {
	switch f {
	case life.FamilyWeibull:
		return NewWeibullModel(), nil
	case life.FamilyLognormal:
		return NewLognormalModel(), nil
	case life.FamilyNormal:
		return NewNormalModel(), nil
	case life.FamilyExponential:
		return NewExponentialModel(), nil
	case life.FamilyLoglogistic:
		return NewLoglogisticModel(), nil
	case life.FamilyGumbel:
		return NewGumbelModel(), nil
	default:
		return nil, core.NewDomainErrorf("family", "unknown %q", f)
	}
}

// All returns one model per supported family.
func All() []Model {
	families := life.Families()
	models := make([]Model, len(families))
	for i, f := range families {
		m, _ := ForFamily(f)
		models[i] = m
	}
	return models
}

// Shared domain checks

func checkTime(t float64) error {
	if t <= 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return core.NewDomainErrorf("time", "must be a positive finite value, got %g", t)
	}
	return nil
}

func checkProbability(f float64) error {
	if f <= 0 || f >= 1 || math.IsNaN(f) {
		return core.NewDomainErrorf("probability", "must be in (0,1), got %g", f)
	}
	return nil
}

func checkParams(p life.Params, want life.Family) error {
	if p.Family != want {
		return core.NewDomainErrorf("params", "family %q passed to %q model", p.Family, want)
	}
	return p.Validate()
}

// logFromCDF returns ln(1-F) without catastrophic cancellation when F is
// tiny, and without taking the log of an underflowed survival when F is
// near 1 (callers pass both so each regime uses the accurate input).
func logFromCDF(cdf, survival float64) float64 {
	if cdf < 0.5 {
		return math.Log1p(-cdf)
	}
	return math.Log(survival)
}

func checkSlope(slope float64) error {
	if slope <= 0 || math.IsNaN(slope) || math.IsInf(slope, 0) {
		return core.NewDomainErrorf("regression slope", "must be positive finite, got %g", slope)
	}
	return nil
}
