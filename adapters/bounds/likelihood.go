package bounds

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"golife/adapters/dist"
	"golife/adapters/fit"
	"golife/domain/core"
	"golife/domain/life"
)

// LikelihoodRatio computes small-sample confidence bounds by profiling the
// likelihood: a candidate value is inside the bound while twice the
// log-likelihood deficit against the MLE stays under the chi-square
// critical value. No quadratic shape is assumed, so the asymmetry of small
// samples survives where Fisher bounds would flatten it.
type LikelihoodRatio struct {
	mle        *fit.MLE
	GridPoints int
	// MaxExpand caps the outward bracket search; exhausting it means the
	// likelihood surface is too flat to bracket and the engine reports a
	// typed failure instead of a wrong bound.
	MaxExpand  int
	BisectIter int
}

// NewLikelihoodRatio creates a profile-likelihood bounds engine
func NewLikelihoodRatio() *LikelihoodRatio {
	return &LikelihoodRatio{
		mle:        fit.NewMLE(),
		GridPoints: 25,
		MaxExpand:  60,
		BisectIter: 60,
	}
}

// TimeBounds is a lower/upper interval on time at a fixed failure probability.
type TimeBounds struct {
	Probability float64 `json:"probability"`
	Lower       float64 `json:"lower"`
	Estimate    float64 `json:"estimate"`
	Upper       float64 `json:"upper"`
}

func chiSquaredCrit(df int, level life.ConfidenceLevel) float64 {
	return distuv.ChiSquared{K: float64(df)}.Quantile(level.Fraction())
}

// CurveBounds traces probability bounds over an automatic time grid.
func (l *LikelihoodRatio) CurveBounds(ds life.Dataset, p life.Params, levelPct float64) (life.BoundSet, error) {
	return l.curveBounds(ds, p, levelPct, nil)
}

// CurveBoundsAt additionally evaluates the bounds at one caller-supplied time.
func (l *LikelihoodRatio) CurveBoundsAt(ds life.Dataset, p life.Params, levelPct, queryTime float64) (life.BoundSet, error) {
	if queryTime <= 0 {
		return life.BoundSet{}, core.NewDomainErrorf("query time", "must be > 0, got %g", queryTime)
	}
	return l.curveBounds(ds, p, levelPct, &queryTime)
}

func (l *LikelihoodRatio) curveBounds(ds life.Dataset, p life.Params, levelPct float64, queryTime *float64) (life.BoundSet, error) {
	level, err := life.NewConfidenceLevel(levelPct)
	if err != nil {
		return life.BoundSet{}, err
	}
	model, err := dist.ForFamily(p.Family)
	if err != nil {
		return life.BoundSet{}, err
	}
	llHat, err := l.mle.LogLikelihood(ds, p)
	if err != nil {
		return life.BoundSet{}, err
	}
	crit := chiSquaredCrit(1, level)

	grid := timeGrid(ds, l.GridPoints)
	lower := make(life.Curve, 0, len(grid))
	upper := make(life.Curve, 0, len(grid))
	for _, t := range grid {
		x, err := model.TransformX(t)
		if err != nil {
			return life.BoundSet{}, err
		}
		lo, hi, err := l.probabilityBoundsAt(model, ds, p, t, llHat, crit)
		if err != nil {
			return life.BoundSet{}, err
		}
		yLo, err := model.TransformY(lo)
		if err != nil {
			return life.BoundSet{}, err
		}
		yHi, err := model.TransformY(hi)
		if err != nil {
			return life.BoundSet{}, err
		}
		lower = append(lower, life.XY{X: x, Y: yLo})
		upper = append(upper, life.XY{X: x, Y: yHi})
	}

	set := life.BoundSet{
		ConfidenceLevel: level,
		Method:          life.MethodLikelihoodRatio,
		LowerCurve:      lower,
		UpperCurve:      upper,
	}

	if queryTime != nil {
		lo, hi, err := l.probabilityBoundsAt(model, ds, p, *queryTime, llHat, crit)
		if err != nil {
			return life.BoundSet{}, err
		}
		est, err := model.CDF(*queryTime, p)
		if err != nil {
			return life.BoundSet{}, err
		}
		set.PointQuery = &life.PointBounds{Time: *queryTime, Lower: lo, Estimate: est, Upper: hi}
	}
	return set, nil
}

// TimeBoundsAt inverts the search: the interval on time at which the
// failure probability reaches prob.
func (l *LikelihoodRatio) TimeBoundsAt(ds life.Dataset, p life.Params, levelPct, prob float64) (TimeBounds, error) {
	level, err := life.NewConfidenceLevel(levelPct)
	if err != nil {
		return TimeBounds{}, err
	}
	model, err := dist.ForFamily(p.Family)
	if err != nil {
		return TimeBounds{}, err
	}
	tHat, err := model.Quantile(prob, p)
	if err != nil {
		return TimeBounds{}, err
	}
	llHat, err := l.mle.LogLikelihood(ds, p)
	if err != nil {
		return TimeBounds{}, err
	}
	crit := chiSquaredCrit(1, level)

	deficit := func(t float64) float64 {
		pll := l.profileLL(model, ds, p, t, prob)
		return 2*(llHat-pll) - crit
	}

	// Times are positive, so the bracket expands multiplicatively.
	lowerT, err := l.bisectOutward(tHat, deficit, func(t, step float64) float64 { return t / (1 + step) })
	if err != nil {
		return TimeBounds{}, err
	}
	upperT, err := l.bisectOutward(tHat, deficit, func(t, step float64) float64 { return t * (1 + step) })
	if err != nil {
		return TimeBounds{}, err
	}
	return TimeBounds{Probability: prob, Lower: lowerT, Estimate: tHat, Upper: upperT}, nil
}

// probabilityBoundsAt finds the lower and upper failure probabilities at
// time t whose profile deficit equals the critical value.
func (l *LikelihoodRatio) probabilityBoundsAt(model dist.Model, ds life.Dataset, p life.Params, t, llHat, crit float64) (float64, float64, error) {
	pHat, err := model.CDF(t, p)
	if err != nil {
		return 0, 0, err
	}
	yHat, err := model.TransformY(clampProb(pHat))
	if err != nil {
		return 0, 0, err
	}

	// Search on the paper ordinate so both tails stretch without pinning
	// against 0 or 1.
	deficit := func(y float64) float64 {
		prob := clampProb(model.UntransformY(y))
		pll := l.profileLL(model, ds, p, t, prob)
		return 2*(llHat-pll) - crit
	}

	yLo, err := l.bisectOutward(yHat, deficit, func(y, step float64) float64 { return y - step })
	if err != nil {
		return 0, 0, err
	}
	yHi, err := l.bisectOutward(yHat, deficit, func(y, step float64) float64 { return y + step })
	if err != nil {
		return 0, 0, err
	}
	return clampProb(model.UntransformY(yLo)), clampProb(model.UntransformY(yHi)), nil
}

// bisectOutward expands from the center with advance() until the deficit
// changes sign, then bisects the crossing. A bracket that never forms is a
// non-convergent (flat-surface) failure, never a silent wrong answer.
func (l *LikelihoodRatio) bisectOutward(center float64, deficit func(float64) float64, advance func(v, step float64) float64) (float64, error) {
	inside := center
	if deficit(inside) > 0 {
		return 0, core.NewNonConvergentError("profile deficit positive at the point estimate", 0)
	}
	step := 0.1
	outside := center
	found := false
	for i := 0; i < l.MaxExpand; i++ {
		outside = advance(outside, step)
		d := deficit(outside)
		if math.IsNaN(d) {
			break
		}
		if d > 0 {
			found = true
			break
		}
		inside = outside
		step *= 1.5
	}
	if !found {
		return 0, core.NewNonConvergentError("likelihood-ratio bound bracket", l.MaxExpand)
	}
	for i := 0; i < l.BisectIter; i++ {
		mid := (inside + outside) / 2
		if deficit(mid) > 0 {
			outside = mid
		} else {
			inside = mid
		}
	}
	return (inside + outside) / 2, nil
}

// profileLL is the constrained maximum log-likelihood subject to
// F(t) = prob. The constraint pins the scale-type coordinate given the
// dispersion coordinate, leaving a 1-D maximization for two-parameter
// families and nothing free for the exponential.
func (l *LikelihoodRatio) profileLL(model dist.Model, ds life.Dataset, p life.Params, t, prob float64) float64 {
	vHat := model.ToVector(p)
	if len(vHat) == 1 {
		s, ok := l.solveConstraint(model, nil, t, prob)
		if !ok {
			return math.Inf(-1)
		}
		return l.llAt(model, ds, []float64{s})
	}

	phi := func(w float64) float64 {
		s, ok := l.solveConstraint(model, &w, t, prob)
		if !ok {
			return math.Inf(-1)
		}
		return l.llAt(model, ds, []float64{w, s})
	}
	_, f := l.argmax1D(phi, vHat[0])
	return f
}

// solveConstraint finds the scale-type vector coordinate s with
// F(t; w, s) = prob by bisection. F is monotone in s for every family
// (raising the central parameter lowers the failure probability).
func (l *LikelihoodRatio) solveConstraint(model dist.Model, w *float64, t, prob float64) (float64, bool) {
	cdf := func(s float64) float64 {
		var v []float64
		if w == nil {
			v = []float64{s}
		} else {
			v = []float64{*w, s}
		}
		p, err := model.FromVector(v)
		if err != nil {
			return math.NaN()
		}
		f, err := model.CDF(t, p)
		if err != nil {
			return math.NaN()
		}
		return f
	}

	// Expand a bracket around s=0 in the unconstrained coordinate.
	lo, hi := -1.0, 1.0
	for i := 0; i < l.MaxExpand; i++ {
		fLo, fHi := cdf(lo), cdf(hi)
		if math.IsNaN(fLo) || math.IsNaN(fHi) {
			return 0, false
		}
		// cdf is decreasing in s: want cdf(lo) >= prob >= cdf(hi).
		if fLo >= prob && fHi <= prob {
			break
		}
		if fLo < prob {
			lo *= 2
		}
		if fHi > prob {
			hi *= 2
		}
		if i == l.MaxExpand-1 {
			return 0, false
		}
	}
	for i := 0; i < l.BisectIter; i++ {
		mid := (lo + hi) / 2
		f := cdf(mid)
		if math.IsNaN(f) {
			return 0, false
		}
		if f >= prob {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, true
}

// argmax1D walks uphill from the center with growing steps until both
// neighbors fall below the incumbent, then refines the bracketed peak by
// golden-section search. Returns the maximizer and the maximum.
func (l *LikelihoodRatio) argmax1D(phi func(float64) float64, center float64) (float64, float64) {
	best := center
	fBest := phi(center)
	if math.IsInf(fBest, -1) {
		return center, fBest
	}

	step := 0.25
	bracketed := false
	for i := 0; i < l.MaxExpand; i++ {
		fl, fr := phi(best-step), phi(best+step)
		if fl <= fBest && fr <= fBest {
			bracketed = true
			break
		}
		if fr > fl {
			best += step
			fBest = fr
		} else {
			best -= step
			fBest = fl
		}
		step *= 1.6
	}
	if !bracketed {
		return best, fBest
	}

	a, b := best-step, best+step
	const golden = 0.6180339887498949
	x1 := b - golden*(b-a)
	x2 := a + golden*(b-a)
	f1, f2 := phi(x1), phi(x2)
	for i := 0; i < l.BisectIter; i++ {
		if f1 < f2 {
			a = x1
			x1, f1 = x2, f2
			x2 = a + golden*(b-a)
			f2 = phi(x2)
		} else {
			b = x2
			x2, f2 = x1, f1
			x1 = b - golden*(b-a)
			f1 = phi(x1)
		}
	}
	if f1 >= f2 && f1 >= fBest {
		return x1, f1
	}
	if f2 >= f1 && f2 >= fBest {
		return x2, f2
	}
	return best, fBest
}

func (l *LikelihoodRatio) llAt(model dist.Model, ds life.Dataset, v []float64) float64 {
	p, err := model.FromVector(v)
	if err != nil {
		return math.Inf(-1)
	}
	ll, err := l.mle.LogLikelihood(ds, p)
	if err != nil || math.IsNaN(ll) {
		return math.Inf(-1)
	}
	return ll
}

func clampProb(p float64) float64 {
	const eps = 1e-12
	if p < eps {
		return eps
	}
	if p > 1-eps {
		return 1 - eps
	}
	return p
}
