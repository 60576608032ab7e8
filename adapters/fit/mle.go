package fit

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"golife/adapters/dist"
	"golife/domain/core"
	"golife/domain/life"
)

// Default solver constants. The reference tolerances for this class of
// fitter are undocumented; these are standard, stated values: convergence
// when the damped update norm falls below Tol relative to the parameter
// norm, within MaxIter Newton iterations.
const (
	DefaultTol     = 1e-6
	DefaultMaxIter = 200

	maxBacktracks = 40
)

// MLE maximizes the right-censored log-likelihood with a damped Newton
// scheme over the family's unconstrained parameter vector. It initializes
// from rank regression for robustness and returns a typed failure instead
// of a garbage estimate when the likelihood is flat or divergent.
type MLE struct {
	init    *RankRegression
	Tol     float64
	MaxIter int
}

// NewMLE creates a maximum-likelihood estimator with default settings
func NewMLE() *MLE {
	return &MLE{
		init:    NewRankRegression(),
		Tol:     DefaultTol,
		MaxIter: DefaultMaxIter,
	}
}

// LogLikelihood returns the total censored log-likelihood: log density at
// each failure plus log survival at each suspension.
func (e *MLE) LogLikelihood(ds life.Dataset, p life.Params) (float64, error) {
	model, err := dist.ForFamily(p.Family)
	if err != nil {
		return 0, err
	}
	if err := p.Validate(); err != nil {
		return 0, err
	}
	total := 0.0
	for _, obs := range ds.Observations() {
		var term float64
		var terr error
		if obs.Event == life.EventFailure {
			term, terr = model.LogDensity(obs.Time, p)
		} else {
			term, terr = model.LogSurvival(obs.Time, p)
		}
		if terr != nil {
			return 0, terr
		}
		total += term
	}
	return total, nil
}

// logLikVec evaluates the log-likelihood at an unconstrained vector,
// mapping any invalid decode or evaluation to -Inf so the line search
// simply refuses the region.
func (e *MLE) logLikVec(model dist.Model, ds life.Dataset, v []float64) float64 {
	p, err := model.FromVector(v)
	if err != nil {
		return math.Inf(-1)
	}
	ll, err := e.LogLikelihood(ds, p)
	if err != nil || math.IsNaN(ll) {
		return math.Inf(-1)
	}
	return ll
}

// Fit finds the maximum-likelihood parameters for one family.
func (e *MLE) Fit(ds life.Dataset, family life.Family) (life.FitResult, error) {
	model, err := dist.ForFamily(family)
	if err != nil {
		return life.FitResult{}, err
	}
	start, err := e.init.Fit(ds, family)
	if err != nil {
		return life.FitResult{}, err
	}

	v := model.ToVector(start.Parameters)
	f := e.logLikVec(model, ds, v)
	if math.IsInf(f, -1) {
		return life.FitResult{}, core.NewNonConvergentError("likelihood undefined at starting estimate", 0)
	}

	iterations := 0
	converged := false
	for ; iterations < e.MaxIter; iterations++ {
		g := e.gradient(model, ds, v)
		h := e.hessian(model, ds, v)

		step := newtonStep(h, g)
		// The Newton direction can point downhill away from the optimum
		// when the Hessian is not yet negative definite; fall back to
		// steepest ascent there.
		if dot(g, step) <= 0 {
			step = append([]float64(nil), g...)
		}

		lambda := 1.0
		improved := false
		var vNext []float64
		for b := 0; b < maxBacktracks; b++ {
			candidate := axpy(v, step, lambda)
			if fc := e.logLikVec(model, ds, candidate); fc > f {
				vNext = candidate
				f = fc
				improved = true
				break
			}
			lambda /= 2
		}

		if !improved {
			// Flat to machine precision: accept if the gradient has
			// effectively vanished, otherwise the surface is pathological.
			if norm(g) < e.Tol*(1+math.Abs(f)) {
				converged = true
				break
			}
			return life.FitResult{}, core.NewNonConvergentError("likelihood surface flat", iterations)
		}

		delta := lambda * norm(step)
		v = vNext
		if delta < e.Tol*(1+norm(v)) {
			iterations++
			converged = true
			break
		}
	}
	if !converged {
		return life.FitResult{}, core.NewNonConvergentError("maximum likelihood search", iterations)
	}

	params, err := model.FromVector(v)
	if err != nil {
		return life.FitResult{}, err
	}

	slope, intercept := model.ParamsLine(params)
	xs := make([]float64, len(start.PlotPoints))
	ys := make([]float64, len(start.PlotPoints))
	for i, pt := range start.PlotPoints {
		xs[i] = pt.TransformedX
		ys[i] = pt.TransformedY
	}

	return life.FitResult{
		Parameters:    params,
		PlotPoints:    start.PlotPoints,
		FittedLine:    sampleLine(xs, slope, intercept, e.init.linePoints),
		GoodnessOfFit: rSquared(xs, ys, intercept, slope),
		LogLikelihood: f,
		Iterations:    iterations,
	}, nil
}

// ObservedInformation returns the negative Hessian of the log-likelihood at
// p, taken with respect to the family's unconstrained parameter vector.
func (e *MLE) ObservedInformation(ds life.Dataset, p life.Params) (*mat.SymDense, error) {
	model, err := dist.ForFamily(p.Family)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	v := model.ToVector(p)
	h := e.hessian(model, ds, v)
	dim := len(v)
	info := mat.NewSymDense(dim, nil)
	for i := 0; i < dim; i++ {
		for j := i; j < dim; j++ {
			val := -h[i][j]
			if math.IsNaN(val) || math.IsInf(val, 0) {
				return nil, core.NewNonConvergentError("observed information undefined", 0)
			}
			info.SetSym(i, j, val)
		}
	}
	return info, nil
}

// Central-difference numerics. Step sizes scale with the coordinate so the
// log-transformed and raw-location coordinates are treated evenly.

func fdStep(x float64) float64 {
	return 1e-4 * (1 + math.Abs(x))
}

func (e *MLE) gradient(model dist.Model, ds life.Dataset, v []float64) []float64 {
	g := make([]float64, len(v))
	for i := range v {
		h := fdStep(v[i])
		up := perturb(v, i, h)
		dn := perturb(v, i, -h)
		g[i] = (e.logLikVec(model, ds, up) - e.logLikVec(model, ds, dn)) / (2 * h)
	}
	return g
}

func (e *MLE) hessian(model dist.Model, ds life.Dataset, v []float64) [][]float64 {
	dim := len(v)
	f0 := e.logLikVec(model, ds, v)
	h := make([][]float64, dim)
	for i := range h {
		h[i] = make([]float64, dim)
	}
	for i := 0; i < dim; i++ {
		hi := fdStep(v[i])
		fp := e.logLikVec(model, ds, perturb(v, i, hi))
		fm := e.logLikVec(model, ds, perturb(v, i, -hi))
		h[i][i] = (fp - 2*f0 + fm) / (hi * hi)
		for j := i + 1; j < dim; j++ {
			hj := fdStep(v[j])
			fpp := e.logLikVec(model, ds, perturb(perturb(v, i, hi), j, hj))
			fpm := e.logLikVec(model, ds, perturb(perturb(v, i, hi), j, -hj))
			fmp := e.logLikVec(model, ds, perturb(perturb(v, i, -hi), j, hj))
			fmm := e.logLikVec(model, ds, perturb(perturb(v, i, -hi), j, -hj))
			val := (fpp - fpm - fmp + fmm) / (4 * hi * hj)
			h[i][j] = val
			h[j][i] = val
		}
	}
	return h
}

// newtonStep solves H s = -g for the ascent step; a singular Hessian yields
// the steepest-ascent direction instead.
func newtonStep(h [][]float64, g []float64) []float64 {
	dim := len(g)
	hm := mat.NewDense(dim, dim, nil)
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			hm.Set(i, j, h[i][j])
		}
	}
	neg := mat.NewVecDense(dim, nil)
	for i, gi := range g {
		neg.SetVec(i, -gi)
	}
	var sol mat.VecDense
	if err := sol.SolveVec(hm, neg); err != nil {
		return append([]float64(nil), g...)
	}
	step := make([]float64, dim)
	for i := range step {
		step[i] = sol.AtVec(i)
	}
	return step
}

func perturb(v []float64, i int, h float64) []float64 {
	out := append([]float64(nil), v...)
	out[i] += h
	return out
}

func axpy(v, step []float64, lambda float64) []float64 {
	out := make([]float64, len(v))
	for i := range v {
		out[i] = v[i] + lambda*step[i]
	}
	return out
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func norm(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}
