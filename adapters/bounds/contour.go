package bounds

import (
	"math"

	"golife/adapters/dist"
	"golife/domain/core"
	"golife/domain/life"
)

// contourSweepPoints is how many dispersion-parameter stations the contour
// trace visits between its extreme crossings.
const contourSweepPoints = 32

// Contour traces the closed joint-confidence region around the MLE in
// parameter space. The first (dispersion) parameter is swept across the
// range where the profile deficit stays under chi-square(2, level); at each
// station the second parameter is re-maximized and the two crossings of
// the critical deficit are bisected, yielding the two branches of a closed
// curve. This is an explicit trace, not a fitted ellipse, so the
// small-sample asymmetry of the likelihood surface is preserved.
func (l *LikelihoodRatio) Contour(ds life.Dataset, p life.Params, levelPct float64) (life.ContourData, error) {
	level, err := life.NewConfidenceLevel(levelPct)
	if err != nil {
		return life.ContourData{}, err
	}
	if p.Dim() != 2 {
		return life.ContourData{}, core.NewIncompatibleInputError(
			"joint contour requires a two-parameter family")
	}
	model, err := dist.ForFamily(p.Family)
	if err != nil {
		return life.ContourData{}, err
	}
	llHat, err := l.mle.LogLikelihood(ds, p)
	if err != nil {
		return life.ContourData{}, err
	}
	crit := chiSquaredCrit(2, level)
	vHat := model.ToVector(p)

	// Profile deficit over the dispersion coordinate alone.
	profile := func(w float64) (sStar, ll float64) {
		return l.argmax1D(func(s float64) float64 {
			return l.llAt(model, ds, []float64{w, s})
		}, vHat[1])
	}
	deficitW := func(w float64) float64 {
		_, ll := profile(w)
		return 2*(llHat-ll) - crit
	}

	wLo, err := l.bisectOutward(vHat[0], deficitW, func(w, step float64) float64 { return w - step })
	if err != nil {
		return life.ContourData{}, err
	}
	wHi, err := l.bisectOutward(vHat[0], deficitW, func(w, step float64) float64 { return w + step })
	if err != nil {
		return life.ContourData{}, err
	}

	upperBranch := make([]life.XY, 0, contourSweepPoints)
	lowerBranch := make([]life.XY, 0, contourSweepPoints)
	for k := 0; k < contourSweepPoints; k++ {
		// Half-step inset keeps every station strictly inside the region
		// so the scale-direction bisection always has a bracket.
		w := wLo + (wHi-wLo)*(float64(k)+0.5)/float64(contourSweepPoints)
		sStar, _ := profile(w)
		deficitS := func(s float64) float64 {
			return 2*(llHat-l.llAt(model, ds, []float64{w, s})) - crit
		}
		sLow, err := l.bisectOutward(sStar, deficitS, func(s, step float64) float64 { return s - step })
		if err != nil {
			return life.ContourData{}, err
		}
		sHigh, err := l.bisectOutward(sStar, deficitS, func(s, step float64) float64 { return s + step })
		if err != nil {
			return life.ContourData{}, err
		}
		loPt, err := vectorPoint(model, w, sLow)
		if err != nil {
			return life.ContourData{}, err
		}
		hiPt, err := vectorPoint(model, w, sHigh)
		if err != nil {
			return life.ContourData{}, err
		}
		lowerBranch = append(lowerBranch, loPt)
		upperBranch = append(upperBranch, hiPt)
	}

	leftVertex, err := contourVertex(model, l, wLo, profile)
	if err != nil {
		return life.ContourData{}, err
	}
	rightVertex, err := contourVertex(model, l, wHi, profile)
	if err != nil {
		return life.ContourData{}, err
	}

	// Closed polygon: left vertex, upper branch forward, right vertex,
	// lower branch backward, repeat first point.
	polygon := make(life.Curve, 0, 2*contourSweepPoints+3)
	polygon = append(polygon, leftVertex)
	polygon = append(polygon, upperBranch...)
	polygon = append(polygon, rightVertex)
	for i := len(lowerBranch) - 1; i >= 0; i-- {
		polygon = append(polygon, lowerBranch[i])
	}
	polygon = append(polygon, leftVertex)

	perParam := polygonBounds(polygon, p)
	return life.ContourData{
		ConfidenceLevel: level,
		CenterEstimate:  p,
		Ellipse:         polygon,
		PerParameter:    perParam,
		Axes:            polygonAxes(polygon),
	}, nil
}

// vectorPoint decodes an unconstrained (w, s) pair to a (shape, scale)
// parameter-space point.
func vectorPoint(model dist.Model, w, s float64) (life.XY, error) {
	p, err := model.FromVector([]float64{w, s})
	if err != nil {
		return life.XY{}, err
	}
	return life.XY{X: p.Shape, Y: p.Scale}, nil
}

// contourVertex is the point where the two branches meet at an extreme of
// the dispersion sweep.
func contourVertex(model dist.Model, l *LikelihoodRatio, w float64, profile func(float64) (float64, float64)) (life.XY, error) {
	sStar, _ := profile(w)
	return vectorPoint(model, w, sStar)
}

func polygonBounds(polygon life.Curve, center life.Params) life.ParamBounds {
	shapeLo, shapeHi := polygon[0].X, polygon[0].X
	scaleLo, scaleHi := polygon[0].Y, polygon[0].Y
	for _, pt := range polygon {
		shapeLo = math.Min(shapeLo, pt.X)
		shapeHi = math.Max(shapeHi, pt.X)
		scaleLo = math.Min(scaleLo, pt.Y)
		scaleHi = math.Max(scaleHi, pt.Y)
	}
	return life.ParamBounds{
		Shape: &life.ParamInterval{Lower: shapeLo, Median: center.Shape, Upper: shapeHi},
		Scale: life.ParamInterval{Lower: scaleLo, Median: center.Scale, Upper: scaleHi},
	}
}

func polygonAxes(polygon life.Curve) life.AxisLimits {
	xLo, xHi := polygon[0].X, polygon[0].X
	yLo, yHi := polygon[0].Y, polygon[0].Y
	for _, pt := range polygon {
		xLo = math.Min(xLo, pt.X)
		xHi = math.Max(xHi, pt.X)
		yLo = math.Min(yLo, pt.Y)
		yHi = math.Max(yHi, pt.Y)
	}
	padX := 0.1 * (xHi - xLo)
	padY := 0.1 * (yHi - yLo)
	return life.AxisLimits{
		XMin: xLo - padX,
		XMax: xHi + padX,
		YMin: yLo - padY,
		YMax: yHi + padY,
	}
}
