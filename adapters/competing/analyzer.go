package competing

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"golife/adapters/dist"
	"golife/adapters/fit"
	"golife/domain/core"
	"golife/domain/life"
	"golife/ports"
)

// Analyzer decomposes a multi-mechanism failure history. Each declared mode
// is fitted on its own risk set: the mode's failure times stay failures and
// every other mode's failure time becomes a suspension, the standard
// competing-risks censoring. The system curve is the product of the
// per-mode survival functions.
type Analyzer struct {
	fitter     ports.Fitter
	GridPoints int
}

// NewAnalyzer creates a competing-failure-mode analyzer over a fitter
// (maximum likelihood by default).
func NewAnalyzer() *Analyzer {
	return &Analyzer{fitter: fit.NewMLE(), GridPoints: 50}
}

// NewAnalyzerWith creates an analyzer using a caller-supplied fitter.
func NewAnalyzerWith(fitter ports.Fitter) *Analyzer {
	return &Analyzer{fitter: fitter, GridPoints: 50}
}

// ModeInput is one declared failure mechanism's own failure times.
type ModeInput struct {
	Name         string    `json:"name"`
	FailureTimes []float64 `json:"failure_times"`
}

// Analyze fits every mode, composes the system reliability curve out to
// horizon, and ranks the modes by individual failure probability at
// queryTime. Suspensions shared by the whole system (units removed
// unfailed) may be passed in suspensions and censor every mode.
func (a *Analyzer) Analyze(modes []ModeInput, suspensions []float64, family life.Family, horizon, queryTime float64) (life.ModeAnalysis, error) {
	if len(modes) == 0 {
		return life.ModeAnalysis{}, core.NewIncompatibleInputError("no failure modes declared")
	}
	if horizon <= 0 {
		return life.ModeAnalysis{}, core.NewDomainErrorf("horizon", "must be > 0, got %g", horizon)
	}
	if queryTime <= 0 {
		return life.ModeAnalysis{}, core.NewDomainErrorf("query time", "must be > 0, got %g", queryTime)
	}
	for _, m := range modes {
		if len(m.FailureTimes) == 0 {
			return life.ModeAnalysis{}, fmt.Errorf("%w: mode %q has no failures", core.ErrInsufficientData, m.Name)
		}
	}
	model, err := dist.ForFamily(family)
	if err != nil {
		return life.ModeAnalysis{}, err
	}

	fitted := make([]life.Mode, len(modes))
	var group errgroup.Group
	for i := range modes {
		i := i
		group.Go(func() error {
			ds, err := a.modeDataset(modes, i, suspensions)
			if err != nil {
				return err
			}
			res, err := a.fitter.Fit(ds, family)
			if err != nil {
				return fmt.Errorf("mode %q: %w", modes[i].Name, err)
			}
			fitted[i] = life.Mode{
				Name: core.ModeName(modes[i].Name),
				Data: ds,
				Fit:  res,
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return life.ModeAnalysis{}, err
	}

	system, err := a.systemCurve(model, fitted, horizon)
	if err != nil {
		return life.ModeAnalysis{}, err
	}
	if err := a.rankModes(model, fitted, queryTime); err != nil {
		return life.ModeAnalysis{}, err
	}

	return life.ModeAnalysis{
		Modes:     fitted,
		System:    system,
		QueryTime: queryTime,
	}, nil
}

// modeDataset builds mode i's risk set.
func (a *Analyzer) modeDataset(modes []ModeInput, i int, suspensions []float64) (life.Dataset, error) {
	obs := make([]life.Observation, 0)
	for j, m := range modes {
		kind := life.EventSuspension
		if j == i {
			kind = life.EventFailure
		}
		for _, t := range m.FailureTimes {
			obs = append(obs, life.Observation{Time: t, Event: kind})
		}
	}
	for _, t := range suspensions {
		obs = append(obs, life.Observation{Time: t, Event: life.EventSuspension})
	}
	return life.NewDataset(obs)
}

// systemCurve multiplies per-mode survival over a shared grid out to the
// horizon. Reliability is monotone non-increasing by construction.
func (a *Analyzer) systemCurve(model dist.Model, fitted []life.Mode, horizon float64) (life.SystemCurve, error) {
	n := a.GridPoints
	if n < 2 {
		n = 2
	}
	earliest := math.Inf(1)
	for _, m := range fitted {
		earliest = math.Min(earliest, m.Data.MinTime())
	}
	lo := earliest * 0.1
	if lo <= 0 || math.IsInf(lo, 0) {
		lo = horizon / float64(n)
	}

	times := make([]float64, n)
	reliability := make([]float64, n)
	ratio := math.Log(horizon / lo)
	for i := 0; i < n; i++ {
		t := lo * math.Exp(ratio*float64(i)/float64(n-1))
		product := 1.0
		for _, m := range fitted {
			s, err := model.Survival(t, m.Fit.Parameters)
			if err != nil {
				return life.SystemCurve{}, err
			}
			product *= s
		}
		times[i] = t
		reliability[i] = product
	}
	return life.SystemCurve{Times: times, Reliability: reliability}, nil
}

// rankModes orders modes by individual failure probability at the query
// time and flags the top-ranked one as the most likely root cause.
func (a *Analyzer) rankModes(model dist.Model, fitted []life.Mode, queryTime float64) error {
	type ranked struct {
		idx  int
		prob float64
	}
	ranks := make([]ranked, len(fitted))
	for i := range fitted {
		f, err := model.CDF(queryTime, fitted[i].Fit.Parameters)
		if err != nil {
			return err
		}
		fitted[i].RankAt = f
		ranks[i] = ranked{idx: i, prob: f}
	}
	sort.Slice(ranks, func(i, j int) bool { return ranks[i].prob > ranks[j].prob })
	fitted[ranks[0].idx].IsTopAt = true
	return nil
}
