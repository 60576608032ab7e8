package montecarlo

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"golife/adapters/dist"
	"golife/adapters/fit"
	"golife/domain/core"
	"golife/domain/life"
	"golife/ports"
)

// Trial-count and sample-size contract enforced at the boundary.
const (
	MinTrials     = 10
	MaxTrials     = 2000
	MinSampleSize = 2
	MaxSampleSize = 100
)

// Engine quantifies rank-regression dispersion by simulation: it draws K
// synthetic complete samples of size N from a reference distribution by
// inverse-transform sampling, refits each, and aggregates the fitted
// curves into percentile bands on a shared grid.
type Engine struct {
	rng         ports.RNGPort
	fitter      *fit.RankRegression
	GridPoints  int
	BandLowPct  float64
	BandHighPct float64
}

// NewEngine creates a Monte Carlo engine over a seeded stream factory
func NewEngine(rng ports.RNGPort) *Engine {
	return &Engine{
		rng:         rng,
		fitter:      fit.NewRankRegression(),
		GridPoints:  50,
		BandLowPct:  5,
		BandHighPct: 95,
	}
}

// Request describes one simulation run.
type Request struct {
	Reference  life.Params `json:"reference"`
	Trials     int         `json:"trials"`      // K in [10, 2000]
	SampleSize int         `json:"sample_size"` // N in [2, 100]
	Seed       int64       `json:"seed"`
}

// Result carries the dispersion bands on the reference family's paper axes
// plus every trial's recovered parameters.
type Result struct {
	Reference   life.Params   `json:"reference"`
	Trials      int           `json:"trials"`
	SampleSize  int           `json:"sample_size"`
	Seed        int64         `json:"seed"`
	Times       []float64     `json:"times"`
	LowerBand   life.Curve    `json:"lower_band"`
	MeanCurve   life.Curve    `json:"mean_curve"`
	UpperBand   life.Curve    `json:"upper_band"`
	TrialParams []life.Params `json:"trial_params"`
}

// Run executes the simulation. Runs with the same request are identical;
// trials draw from independent derived streams so they can execute
// concurrently without ordering effects.
func (e *Engine) Run(req Request) (Result, error) {
	if err := e.validate(req); err != nil {
		return Result{}, err
	}
	model, err := dist.ForFamily(req.Reference.Family)
	if err != nil {
		return Result{}, err
	}

	trialParams := make([]life.Params, req.Trials)
	var group errgroup.Group
	for k := 0; k < req.Trials; k++ {
		k := k
		group.Go(func() error {
			p, err := e.runTrial(model, req, k)
			if err != nil {
				return err
			}
			trialParams[k] = p
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return Result{}, err
	}

	times := e.grid(model, req.Reference)
	lower, mean, upper, err := e.aggregate(model, trialParams, times)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Reference:   req.Reference,
		Trials:      req.Trials,
		SampleSize:  req.SampleSize,
		Seed:        req.Seed,
		Times:       times,
		LowerBand:   lower,
		MeanCurve:   mean,
		UpperBand:   upper,
		TrialParams: trialParams,
	}, nil
}

func (e *Engine) validate(req Request) error {
	if req.Trials < MinTrials || req.Trials > MaxTrials {
		return core.NewIncompatibleInputError(
			fmt.Sprintf("trial count must be in [%d,%d], got %d", MinTrials, MaxTrials, req.Trials))
	}
	if req.SampleSize < MinSampleSize || req.SampleSize > MaxSampleSize {
		return core.NewIncompatibleInputError(
			fmt.Sprintf("sample size must be in [%d,%d], got %d", MinSampleSize, MaxSampleSize, req.SampleSize))
	}
	return req.Reference.Validate()
}

// runTrial samples one synthetic dataset and refits it by rank regression.
// A degenerate draw (identical times to machine precision) is redrawn from
// a fresh derived stream a bounded number of times.
func (e *Engine) runTrial(model dist.Model, req Request, trial int) (life.Params, error) {
	const redraws = 3
	for attempt := 0; attempt < redraws; attempt++ {
		r := e.rng.TrialStream("montecarlo", req.Seed, trial+attempt*req.Trials)
		times := make([]float64, req.SampleSize)
		for i := range times {
			u := r.Float64()
			// Float64 is in [0,1); keep the draw inside the quantile domain.
			if u <= 0 {
				u = math.SmallestNonzeroFloat64
			}
			t, err := model.Quantile(u, req.Reference)
			if err != nil {
				return life.Params{}, err
			}
			times[i] = t
		}
		ds, err := life.NewCompleteDataset(times)
		if err != nil {
			return life.Params{}, err
		}
		if err := fit.CheckSampleTable(req.SampleSize, ds); err != nil {
			return life.Params{}, err
		}
		res, err := e.fitter.Fit(ds, req.Reference.Family)
		if err == nil {
			return res.Parameters, nil
		}
		if !core.IsDomainError(err) && !core.IsNonConvergent(err) {
			return life.Params{}, err
		}
	}
	return life.Params{}, core.NewNonConvergentError("monte carlo trial refit", redraws)
}

// grid spans the reference distribution's 1st..99th percentile range.
func (e *Engine) grid(model dist.Model, ref life.Params) []float64 {
	n := e.GridPoints
	if n < 2 {
		n = 2
	}
	lo, _ := model.Quantile(0.01, ref)
	hi, _ := model.Quantile(0.99, ref)
	times := make([]float64, n)
	ratio := math.Log(hi / lo)
	for i := range times {
		times[i] = lo * math.Exp(ratio*float64(i)/float64(n-1))
	}
	return times
}

// aggregate evaluates every trial's fitted curve at each grid time and
// reduces pointwise to percentile bands and the mean, all on the paper axes.
func (e *Engine) aggregate(model dist.Model, trialParams []life.Params, times []float64) (lower, mean, upper life.Curve, err error) {
	lower = make(life.Curve, len(times))
	mean = make(life.Curve, len(times))
	upper = make(life.Curve, len(times))

	for i, t := range times {
		x, xerr := model.TransformX(t)
		if xerr != nil {
			return nil, nil, nil, xerr
		}
		ys := make([]float64, 0, len(trialParams))
		for _, p := range trialParams {
			slope, intercept := model.ParamsLine(p)
			ys = append(ys, slope*x+intercept)
		}
		lo, perr := stats.Percentile(ys, e.BandLowPct)
		if perr != nil {
			return nil, nil, nil, core.NewIncompatibleInputError("percentile aggregation: " + perr.Error())
		}
		hi, perr := stats.Percentile(ys, e.BandHighPct)
		if perr != nil {
			return nil, nil, nil, core.NewIncompatibleInputError("percentile aggregation: " + perr.Error())
		}
		avg, perr := stats.Mean(ys)
		if perr != nil {
			return nil, nil, nil, core.NewIncompatibleInputError("mean aggregation: " + perr.Error())
		}
		lower[i] = life.XY{X: x, Y: lo}
		mean[i] = life.XY{X: x, Y: avg}
		upper[i] = life.XY{X: x, Y: hi}
	}
	return lower, mean, upper, nil
}
