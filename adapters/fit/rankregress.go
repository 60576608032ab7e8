package fit

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"golife/adapters/dist"
	"golife/domain/core"
	"golife/domain/life"
)

// RankRegression estimates parameters by median-rank plotting positions and
// ordinary least squares on the family's probability paper. Suspensions
// never receive a plotting position; they inflate the mean order number of
// the failures that follow them (Johnson rank adjustment).
type RankRegression struct {
	linePoints int // resolution of the reported fitted line
}

// NewRankRegression creates a rank-regression estimator
func NewRankRegression() *RankRegression {
	return &RankRegression{linePoints: 50}
}

// PlottingPosition is one failure's rank-adjusted empirical probability.
type PlottingPosition struct {
	Time       float64
	OrderIndex int     // 1-based position in the combined ordered sample
	MeanOrder  float64 // adjusted mean order number
	MedianRank float64
}

// PlottingPositions computes Johnson-adjusted median ranks for each failure.
// The median rank is the Beta(MON, N-MON+1) median, which stays exact for
// the fractional order numbers the adjustment produces.
func (r *RankRegression) PlottingPositions(ds life.Dataset) ([]PlottingPosition, error) {
	if err := ds.CheckFittable(); err != nil {
		return nil, err
	}
	n := float64(ds.Len())
	positions := make([]PlottingPosition, 0, ds.FailureCount())

	mon := 0.0
	for i, obs := range ds.Observations() {
		if obs.Event != life.EventFailure {
			continue
		}
		increment := (n + 1 - mon) / (n + 2 - float64(i+1))
		mon += increment
		beta := distuv.Beta{Alpha: mon, Beta: n - mon + 1}
		positions = append(positions, PlottingPosition{
			Time:       obs.Time,
			OrderIndex: i + 1,
			MeanOrder:  mon,
			MedianRank: beta.Quantile(0.5),
		})
	}
	return positions, nil
}

// Fit runs the full rank-regression estimate for one family.
func (r *RankRegression) Fit(ds life.Dataset, family life.Family) (life.FitResult, error) {
	model, err := dist.ForFamily(family)
	if err != nil {
		return life.FitResult{}, err
	}
	positions, err := r.PlottingPositions(ds)
	if err != nil {
		return life.FitResult{}, err
	}

	points := make([]life.PlotPoint, len(positions))
	xs := make([]float64, len(positions))
	ys := make([]float64, len(positions))
	for i, pos := range positions {
		x, err := model.TransformX(pos.Time)
		if err != nil {
			return life.FitResult{}, err
		}
		y, err := model.TransformY(pos.MedianRank)
		if err != nil {
			return life.FitResult{}, err
		}
		points[i] = life.PlotPoint{
			Time:                 pos.Time,
			EmpiricalProbability: pos.MedianRank,
			TransformedX:         x,
			TransformedY:         y,
		}
		xs[i] = x
		ys[i] = y
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	params, err := model.LineParams(slope, intercept)
	if err != nil {
		return life.FitResult{}, err
	}

	r2 := rSquared(xs, ys, intercept, slope)
	line := sampleLine(xs, slope, intercept, r.linePoints)

	return life.FitResult{
		Parameters:    params,
		PlotPoints:    points,
		FittedLine:    line,
		GoodnessOfFit: r2,
	}, nil
}

// rSquared guards the degenerate two-point and zero-variance cases so a
// perfect line reports exactly 1 instead of dividing by zero.
func rSquared(xs, ys []float64, intercept, slope float64) float64 {
	if len(xs) == 2 {
		return 1
	}
	ssTot := 0.0
	meanY := stat.Mean(ys, nil)
	for _, y := range ys {
		d := y - meanY
		ssTot += d * d
	}
	if ssTot == 0 {
		return 1
	}
	r2 := stat.RSquared(xs, ys, nil, intercept, slope)
	return math.Max(0, math.Min(1, r2))
}

// sampleLine lays the fitted line out over the plotted x-range with a small
// margin on each side.
func sampleLine(xs []float64, slope, intercept float64, n int) life.Curve {
	minX, maxX := xs[0], xs[0]
	for _, x := range xs {
		minX = math.Min(minX, x)
		maxX = math.Max(maxX, x)
	}
	span := maxX - minX
	if span == 0 {
		span = math.Abs(maxX)
		if span == 0 {
			span = 1
		}
	}
	minX -= 0.05 * span
	maxX += 0.05 * span

	if n < 2 {
		n = 2
	}
	line := make(life.Curve, n)
	for i := 0; i < n; i++ {
		x := minX + (maxX-minX)*float64(i)/float64(n-1)
		line[i] = life.XY{X: x, Y: slope*x + intercept}
	}
	return line
}

// CheckSampleTable validates a caller-declared sample size against the
// dataset the plotting positions were computed from.
func CheckSampleTable(declared int, ds life.Dataset) error {
	if declared != ds.Len() {
		return core.NewIncompatibleInputError(
			"declared plotting-position table size does not match dataset")
	}
	return nil
}
