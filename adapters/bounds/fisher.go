package bounds

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"golife/adapters/dist"
	"golife/adapters/fit"
	"golife/domain/core"
	"golife/domain/life"
)

// Fisher computes asymptotic confidence bounds from the observed
// information matrix at the MLE. Variance is propagated to the paper-space
// ordinate by the delta method, so bounds are symmetric on the transformed
// axes and deliberately asymmetric after back-transformation to probability.
type Fisher struct {
	mle        *fit.MLE
	GridPoints int
}

// NewFisher creates a Fisher-matrix bounds calculator
func NewFisher() *Fisher {
	return &Fisher{mle: fit.NewMLE(), GridPoints: 50}
}

// Covariance inverts the observed information at p, in the family's
// unconstrained parameter space.
func (f *Fisher) Covariance(ds life.Dataset, p life.Params) (*mat.Dense, error) {
	info, err := f.mle.ObservedInformation(ds, p)
	if err != nil {
		return nil, err
	}
	dim, _ := info.Dims()
	var cov mat.Dense
	if err := cov.Inverse(info); err != nil {
		return nil, core.NewNonConvergentError("information matrix singular", 0)
	}
	for i := 0; i < dim; i++ {
		if cov.At(i, i) <= 0 || math.IsNaN(cov.At(i, i)) {
			return nil, core.NewNonConvergentError("information matrix not positive definite", 0)
		}
	}
	return &cov, nil
}

// CurveBounds computes the two-sided bound curves over an automatic time
// grid spanning the dataset.
func (f *Fisher) CurveBounds(ds life.Dataset, p life.Params, levelPct float64) (life.BoundSet, error) {
	return f.curveBounds(ds, p, levelPct, nil)
}

// CurveBoundsAt additionally evaluates the bounds at one caller-supplied
// time, reported in probability space.
func (f *Fisher) CurveBoundsAt(ds life.Dataset, p life.Params, levelPct, queryTime float64) (life.BoundSet, error) {
	if queryTime <= 0 {
		return life.BoundSet{}, core.NewDomainErrorf("query time", "must be > 0, got %g", queryTime)
	}
	return f.curveBounds(ds, p, levelPct, &queryTime)
}

func (f *Fisher) curveBounds(ds life.Dataset, p life.Params, levelPct float64, queryTime *float64) (life.BoundSet, error) {
	level, err := life.NewConfidenceLevel(levelPct)
	if err != nil {
		return life.BoundSet{}, err
	}
	model, err := dist.ForFamily(p.Family)
	if err != nil {
		return life.BoundSet{}, err
	}
	cov, err := f.Covariance(ds, p)
	if err != nil {
		return life.BoundSet{}, err
	}
	z := twoSidedZ(level)

	grid := timeGrid(ds, f.GridPoints)
	lower := make(life.Curve, 0, len(grid))
	upper := make(life.Curve, 0, len(grid))
	for _, t := range grid {
		x, y, half, err := f.ordinateBound(model, cov, p, t, z)
		if err != nil {
			return life.BoundSet{}, err
		}
		lower = append(lower, life.XY{X: x, Y: y - half})
		upper = append(upper, life.XY{X: x, Y: y + half})
	}

	set := life.BoundSet{
		ConfidenceLevel: level,
		Method:          life.MethodFisher,
		LowerCurve:      lower,
		UpperCurve:      upper,
	}

	if queryTime != nil {
		_, y, half, err := f.ordinateBound(model, cov, p, *queryTime, z)
		if err != nil {
			return life.BoundSet{}, err
		}
		set.PointQuery = &life.PointBounds{
			Time:     *queryTime,
			Lower:    model.UntransformY(y - half),
			Estimate: model.UntransformY(y),
			Upper:    model.UntransformY(y + half),
		}
	}
	return set, nil
}

// ordinateBound returns the paper abscissa, the point-estimate ordinate and
// the half-width z*sqrt(g' Σ g) at time t.
func (f *Fisher) ordinateBound(model dist.Model, cov *mat.Dense, p life.Params, t, z float64) (x, y, half float64, err error) {
	x, err = model.TransformX(t)
	if err != nil {
		return 0, 0, 0, err
	}
	v := model.ToVector(p)
	y = paperOrdinate(model, v, x)
	if math.IsNaN(y) {
		return 0, 0, 0, core.NewDomainError("fitted ordinate", "undefined at requested time")
	}

	g := ordinateGradient(model, v, x)
	variance := quadForm(g, cov)
	if variance < 0 || math.IsNaN(variance) {
		return 0, 0, 0, core.NewNonConvergentError("propagated variance negative", 0)
	}
	return x, y, z * math.Sqrt(variance), nil
}

// ParamTriples returns lower/median/upper parameter sets at the requested
// level, symmetric in the unconstrained space (multiplicative for
// log-encoded parameters). Lower and upper are ordered so that the lower
// set produces the earlier-failing curve.
func (f *Fisher) ParamTriples(ds life.Dataset, p life.Params, levelPct float64) (lower, median, upper life.Params, err error) {
	level, err := life.NewConfidenceLevel(levelPct)
	if err != nil {
		return life.Params{}, life.Params{}, life.Params{}, err
	}
	model, err := dist.ForFamily(p.Family)
	if err != nil {
		return life.Params{}, life.Params{}, life.Params{}, err
	}
	cov, err := f.Covariance(ds, p)
	if err != nil {
		return life.Params{}, life.Params{}, life.Params{}, err
	}
	z := twoSidedZ(level)

	v := model.ToVector(p)
	lo := make([]float64, len(v))
	hi := make([]float64, len(v))
	for i := range v {
		sd := math.Sqrt(cov.At(i, i))
		lo[i] = v[i] - z*sd
		hi[i] = v[i] + z*sd
	}
	lower, err = model.FromVector(lo)
	if err != nil {
		return life.Params{}, life.Params{}, life.Params{}, err
	}
	upper, err = model.FromVector(hi)
	if err != nil {
		return life.Params{}, life.Params{}, life.Params{}, err
	}
	return lower, p, upper, nil
}

// ParamBounds reports the per-parameter intervals from ParamTriples.
func (f *Fisher) ParamBounds(ds life.Dataset, p life.Params, levelPct float64) (life.ParamBounds, error) {
	lower, median, upper, err := f.ParamTriples(ds, p, levelPct)
	if err != nil {
		return life.ParamBounds{}, err
	}
	pb := life.ParamBounds{
		Scale: life.ParamInterval{
			Lower:  math.Min(lower.Scale, upper.Scale),
			Median: median.Scale,
			Upper:  math.Max(lower.Scale, upper.Scale),
		},
	}
	if p.Dim() == 2 {
		pb.Shape = &life.ParamInterval{
			Lower:  math.Min(lower.Shape, upper.Shape),
			Median: median.Shape,
			Upper:  math.Max(lower.Shape, upper.Shape),
		}
	}
	return pb, nil
}

// Shared helpers for both bound methods

// twoSidedZ is the standard-normal quantile for a two-sided level.
func twoSidedZ(level life.ConfidenceLevel) float64 {
	alpha := 1 - level.Fraction()
	return distuv.UnitNormal.Quantile(1 - alpha/2)
}

// timeGrid spans the dataset geometrically from half the earliest to 1.5x
// the latest observation, which keeps log-time families evenly covered.
func timeGrid(ds life.Dataset, n int) []float64 {
	if n < 2 {
		n = 2
	}
	lo := ds.MinTime() * 0.5
	hi := ds.MaxTime() * 1.5
	if lo <= 0 {
		lo = 1e-9
	}
	grid := make([]float64, n)
	ratio := math.Log(hi / lo)
	for i := 0; i < n; i++ {
		grid[i] = lo * math.Exp(ratio*float64(i)/float64(n-1))
	}
	return grid
}

// paperOrdinate evaluates the paper line y(x) implied by the vector-encoded
// parameters.
func paperOrdinate(model dist.Model, v []float64, x float64) float64 {
	p, err := model.FromVector(v)
	if err != nil {
		return math.NaN()
	}
	slope, intercept := model.ParamsLine(p)
	return slope*x + intercept
}

// ordinateGradient is the central-difference gradient of the paper ordinate
// with respect to the unconstrained parameter vector.
func ordinateGradient(model dist.Model, v []float64, x float64) []float64 {
	g := make([]float64, len(v))
	for i := range v {
		h := 1e-6 * (1 + math.Abs(v[i]))
		up := append([]float64(nil), v...)
		dn := append([]float64(nil), v...)
		up[i] += h
		dn[i] -= h
		g[i] = (paperOrdinate(model, up, x) - paperOrdinate(model, dn, x)) / (2 * h)
	}
	return g
}

func quadForm(g []float64, cov *mat.Dense) float64 {
	total := 0.0
	for i := range g {
		for j := range g {
			total += g[i] * cov.At(i, j) * g[j]
		}
	}
	return total
}
