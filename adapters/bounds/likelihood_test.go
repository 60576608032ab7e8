package bounds

import (
	"math"
	"testing"

	"golife/adapters/dist"
	"golife/domain/core"
	"golife/domain/life"
)

// TestLikelihoodRatioCurveBounds_BracketEstimate verifies the band structure
func TestLikelihoodRatioCurveBounds_BracketEstimate(t *testing.T) {
	ds, p := fittedWeibull(t, 30, 17)

	set, err := NewLikelihoodRatio().CurveBounds(ds, p, 90)
	if err != nil {
		t.Fatalf("CurveBounds failed: %v", err)
	}
	if set.Method != life.MethodLikelihoodRatio {
		t.Errorf("Expected method %s, got %s", life.MethodLikelihoodRatio, set.Method)
	}
	if len(set.LowerCurve) == 0 || len(set.LowerCurve) != len(set.UpperCurve) {
		t.Fatalf("Band curves malformed: %d lower, %d upper", len(set.LowerCurve), len(set.UpperCurve))
	}
	for i := range set.LowerCurve {
		if set.LowerCurve[i].Y >= set.UpperCurve[i].Y {
			t.Errorf("Lower bound above upper at grid %d", i)
		}
	}
}

// TestLikelihoodRatioCurveBounds_WidthGrowsWithLevel verifies nesting
func TestLikelihoodRatioCurveBounds_WidthGrowsWithLevel(t *testing.T) {
	ds, p := fittedWeibull(t, 30, 17)
	lr := NewLikelihoodRatio()

	narrow, err := lr.CurveBounds(ds, p, 80)
	if err != nil {
		t.Fatalf("80%% bounds failed: %v", err)
	}
	wide, err := lr.CurveBounds(ds, p, 95)
	if err != nil {
		t.Fatalf("95%% bounds failed: %v", err)
	}
	for i := range narrow.LowerCurve {
		nw := narrow.UpperCurve[i].Y - narrow.LowerCurve[i].Y
		ww := wide.UpperCurve[i].Y - wide.LowerCurve[i].Y
		if ww <= nw {
			t.Errorf("95%% band not wider at grid %d: %g <= %g", i, ww, nw)
		}
	}
}

// TestLikelihoodRatio_RejectsDegenerateLevels verifies 0 and 100 fail
func TestLikelihoodRatio_RejectsDegenerateLevels(t *testing.T) {
	ds, p := fittedWeibull(t, 25, 29)
	lr := NewLikelihoodRatio()

	for _, level := range []float64{0, 100} {
		if _, err := lr.CurveBounds(ds, p, level); !core.IsDomainError(err) {
			t.Errorf("Level %g: expected DomainError, got %v", level, err)
		}
	}
}

// TestLikelihoodRatioTimeBounds_BracketQuantile verifies the fixed-
// probability time interval encloses the point-estimate quantile
func TestLikelihoodRatioTimeBounds_BracketQuantile(t *testing.T) {
	ds, p := fittedWeibull(t, 30, 17)

	tb, err := NewLikelihoodRatio().TimeBoundsAt(ds, p, 90, 0.10)
	if err != nil {
		t.Fatalf("TimeBoundsAt failed: %v", err)
	}

	model, err := dist.ForFamily(p.Family)
	if err != nil {
		t.Fatalf("ForFamily failed: %v", err)
	}
	b10, err := model.Quantile(0.10, p)
	if err != nil {
		t.Fatalf("Quantile failed: %v", err)
	}
	if math.Abs(tb.Estimate-b10) > 1e-6*b10 {
		t.Errorf("Estimate %g, want the B10 life %g", tb.Estimate, b10)
	}
	if !(tb.Lower < tb.Estimate && tb.Estimate < tb.Upper) {
		t.Errorf("Time bounds do not bracket: %g < %g < %g", tb.Lower, tb.Estimate, tb.Upper)
	}
	if tb.Lower <= 0 {
		t.Errorf("Lower time bound must stay positive, got %g", tb.Lower)
	}
}

// TestLikelihoodRatio_AgreesWithFisherAtLargeN verifies the two methods
// converge on large samples, where the likelihood surface is near quadratic
func TestLikelihoodRatio_AgreesWithFisherAtLargeN(t *testing.T) {
	ds, p := fittedWeibull(t, 200, 31)

	fisherSet, err := NewFisher().CurveBoundsAt(ds, p, 90, 900)
	if err != nil {
		t.Fatalf("Fisher bounds failed: %v", err)
	}
	lrSet, err := NewLikelihoodRatio().CurveBoundsAt(ds, p, 90, 900)
	if err != nil {
		t.Fatalf("LR bounds failed: %v", err)
	}

	fq, lq := fisherSet.PointQuery, lrSet.PointQuery
	if fq == nil || lq == nil {
		t.Fatal("Expected point query results from both methods")
	}
	// Compare the bounded probabilities; at n=200 the disagreement should
	// be a small fraction of the interval width
	width := fq.Upper - fq.Lower
	if math.Abs(fq.Lower-lq.Lower) > 0.25*width {
		t.Errorf("Lower bounds disagree at large n: fisher %g, lr %g", fq.Lower, lq.Lower)
	}
	if math.Abs(fq.Upper-lq.Upper) > 0.25*width {
		t.Errorf("Upper bounds disagree at large n: fisher %g, lr %g", fq.Upper, lq.Upper)
	}
}

// TestContour_ClosedAndCentered verifies the joint region is a closed
// polygon enclosing the MLE
func TestContour_ClosedAndCentered(t *testing.T) {
	ds, p := fittedWeibull(t, 30, 17)

	contour, err := NewLikelihoodRatio().Contour(ds, p, 90)
	if err != nil {
		t.Fatalf("Contour failed: %v", err)
	}

	poly := contour.Ellipse
	if len(poly) < 8 {
		t.Fatalf("Contour too sparse: %d points", len(poly))
	}
	first, last := poly[0], poly[len(poly)-1]
	if first.X != last.X || first.Y != last.Y {
		t.Errorf("Contour not closed: first (%g,%g), last (%g,%g)", first.X, first.Y, last.X, last.Y)
	}

	// The MLE must sit inside the polygon's bounding box
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, pt := range poly {
		minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
		minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
	}
	if p.Shape <= minX || p.Shape >= maxX {
		t.Errorf("MLE shape %g outside contour range [%g, %g]", p.Shape, minX, maxX)
	}
	if p.Scale <= minY || p.Scale >= maxY {
		t.Errorf("MLE scale %g outside contour range [%g, %g]", p.Scale, minY, maxY)
	}

	if contour.Axes.XMin >= minX || contour.Axes.XMax <= maxX {
		t.Errorf("Axis limits should pad the polygon horizontally")
	}
	pp := contour.PerParameter
	if pp.Shape == nil || !(pp.Shape.Lower < p.Shape && p.Shape < pp.Shape.Upper) {
		t.Errorf("Per-parameter shape bounds missing or not bracketing")
	}
}

// TestContour_GrowsWithLevel verifies a 95%% region encloses a wider
// parameter range than an 80%% region
func TestContour_GrowsWithLevel(t *testing.T) {
	ds, p := fittedWeibull(t, 30, 17)
	lr := NewLikelihoodRatio()

	narrow, err := lr.Contour(ds, p, 80)
	if err != nil {
		t.Fatalf("80%% contour failed: %v", err)
	}
	wide, err := lr.Contour(ds, p, 95)
	if err != nil {
		t.Fatalf("95%% contour failed: %v", err)
	}
	narrowSpan := narrow.PerParameter.Shape.Upper - narrow.PerParameter.Shape.Lower
	wideSpan := wide.PerParameter.Shape.Upper - wide.PerParameter.Shape.Lower
	if wideSpan <= narrowSpan {
		t.Errorf("95%% contour shape span %g not wider than 80%%'s %g", wideSpan, narrowSpan)
	}
}

// TestContour_RejectsOneParameterFamily verifies the exponential is refused
func TestContour_RejectsOneParameterFamily(t *testing.T) {
	ds := life.MustNewDataset([]life.Observation{
		{Time: 120, Event: life.EventFailure},
		{Time: 340, Event: life.EventFailure},
		{Time: 700, Event: life.EventFailure},
	})
	p := life.Params{Family: life.FamilyExponential, Scale: 400}

	_, err := NewLikelihoodRatio().Contour(ds, p, 90)
	if !core.IsIncompatibleInput(err) {
		t.Errorf("Expected IncompatibleInput, got %v", err)
	}
}
