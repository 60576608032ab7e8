package bounds

import (
	"math"
	"testing"

	"golife/adapters/fit"
	"golife/domain/core"
	"golife/domain/life"
	"golife/internal/testkit"
)

func fittedWeibull(t *testing.T, n int, seed int64) (life.Dataset, life.Params) {
	t.Helper()
	gen := testkit.NewLifeDataGenerator(testkit.LifeGeneratorConfig{
		Family:     life.FamilyWeibull,
		Shape:      2.0,
		Scale:      1000,
		SampleSize: n,
		Seed:       seed,
	})
	ds, err := gen.Generate()
	if err != nil {
		t.Fatalf("generate sample: %v", err)
	}
	result, err := fit.NewMLE().Fit(ds, life.FamilyWeibull)
	if err != nil {
		t.Fatalf("fit sample: %v", err)
	}
	return ds, result.Parameters
}

// TestFisherCurveBounds_BracketEstimate verifies lower < estimate < upper
// on the paper ordinate at every grid time
func TestFisherCurveBounds_BracketEstimate(t *testing.T) {
	ds, p := fittedWeibull(t, 40, 5)

	set, err := NewFisher().CurveBounds(ds, p, 90)
	if err != nil {
		t.Fatalf("CurveBounds failed: %v", err)
	}
	if set.Method != life.MethodFisher {
		t.Errorf("Expected method %s, got %s", life.MethodFisher, set.Method)
	}
	if len(set.LowerCurve) == 0 || len(set.LowerCurve) != len(set.UpperCurve) {
		t.Fatalf("Band curves malformed: %d lower, %d upper", len(set.LowerCurve), len(set.UpperCurve))
	}
	for i := range set.LowerCurve {
		if set.LowerCurve[i].X != set.UpperCurve[i].X {
			t.Fatalf("Band abscissas diverge at %d", i)
		}
		if set.LowerCurve[i].Y >= set.UpperCurve[i].Y {
			t.Errorf("Lower bound above upper at grid %d", i)
		}
	}
}

// TestFisherCurveBounds_WidthGrowsWithLevel verifies the 95%% band encloses
// the 80%% band
func TestFisherCurveBounds_WidthGrowsWithLevel(t *testing.T) {
	ds, p := fittedWeibull(t, 40, 5)
	f := NewFisher()

	narrow, err := f.CurveBounds(ds, p, 80)
	if err != nil {
		t.Fatalf("80%% bounds failed: %v", err)
	}
	wide, err := f.CurveBounds(ds, p, 95)
	if err != nil {
		t.Fatalf("95%% bounds failed: %v", err)
	}
	if len(narrow.LowerCurve) != len(wide.LowerCurve) {
		t.Fatalf("Grid sizes differ: %d vs %d", len(narrow.LowerCurve), len(wide.LowerCurve))
	}
	for i := range narrow.LowerCurve {
		nw := narrow.UpperCurve[i].Y - narrow.LowerCurve[i].Y
		ww := wide.UpperCurve[i].Y - wide.LowerCurve[i].Y
		if ww <= nw {
			t.Errorf("95%% band not wider at grid %d: %g <= %g", i, ww, nw)
		}
	}
}

// TestFisherCurveBounds_RejectsDegenerateLevels verifies 0 and 100 fail
func TestFisherCurveBounds_RejectsDegenerateLevels(t *testing.T) {
	ds, p := fittedWeibull(t, 30, 9)
	f := NewFisher()

	for _, level := range []float64{0, 100, -5, 140} {
		if _, err := f.CurveBounds(ds, p, level); !core.IsDomainError(err) {
			t.Errorf("Level %g: expected DomainError, got %v", level, err)
		}
	}
}

// TestFisherCurveBoundsAt_PointQuery verifies the single-time query carries
// a bracketing probability triple
func TestFisherCurveBoundsAt_PointQuery(t *testing.T) {
	ds, p := fittedWeibull(t, 40, 5)

	set, err := NewFisher().CurveBoundsAt(ds, p, 90, 800)
	if err != nil {
		t.Fatalf("CurveBoundsAt failed: %v", err)
	}
	q := set.PointQuery
	if q == nil {
		t.Fatal("Expected a point query result")
	}
	if q.Time != 800 {
		t.Errorf("Query time %g, want 800", q.Time)
	}
	if !(q.Lower < q.Estimate && q.Estimate < q.Upper) {
		t.Errorf("Point bounds do not bracket: %g < %g < %g", q.Lower, q.Estimate, q.Upper)
	}
	if q.Lower <= 0 || q.Upper >= 1 {
		t.Errorf("Point bounds outside (0,1): [%g, %g]", q.Lower, q.Upper)
	}

	if _, err := NewFisher().CurveBoundsAt(ds, p, 90, -10); !core.IsDomainError(err) {
		t.Errorf("Expected DomainError for negative query time, got %v", err)
	}
}

// TestFisherParamBounds_BracketMLE verifies per-parameter intervals
func TestFisherParamBounds_BracketMLE(t *testing.T) {
	ds, p := fittedWeibull(t, 40, 5)

	pb, err := NewFisher().ParamBounds(ds, p, 90)
	if err != nil {
		t.Fatalf("ParamBounds failed: %v", err)
	}
	if pb.Shape == nil {
		t.Fatal("Weibull should carry a shape interval")
	}
	if !(pb.Shape.Lower < p.Shape && p.Shape < pb.Shape.Upper) {
		t.Errorf("Shape interval [%g, %g] does not bracket %g", pb.Shape.Lower, pb.Shape.Upper, p.Shape)
	}
	if !(pb.Scale.Lower < p.Scale && p.Scale < pb.Scale.Upper) {
		t.Errorf("Scale interval [%g, %g] does not bracket %g", pb.Scale.Lower, pb.Scale.Upper, p.Scale)
	}
	if pb.Shape.Lower <= 0 || pb.Scale.Lower <= 0 {
		t.Errorf("Log-encoded parameters must stay positive: shape lower %g, scale lower %g", pb.Shape.Lower, pb.Scale.Lower)
	}
	if math.Abs(pb.Shape.Median-p.Shape) > 1e-9 || math.Abs(pb.Scale.Median-p.Scale) > 1e-9 {
		t.Errorf("Medians should equal the point estimate")
	}
}

// TestFisherBounds_TightenWithSampleSize verifies more data narrows the
// parameter interval
func TestFisherBounds_TightenWithSampleSize(t *testing.T) {
	dsSmall, pSmall := fittedWeibull(t, 15, 13)
	dsLarge, pLarge := fittedWeibull(t, 120, 13)
	f := NewFisher()

	small, err := f.ParamBounds(dsSmall, pSmall, 90)
	if err != nil {
		t.Fatalf("Small-sample bounds failed: %v", err)
	}
	large, err := f.ParamBounds(dsLarge, pLarge, 90)
	if err != nil {
		t.Fatalf("Large-sample bounds failed: %v", err)
	}

	smallWidth := small.Shape.Upper / small.Shape.Lower
	largeWidth := large.Shape.Upper / large.Shape.Lower
	if largeWidth >= smallWidth {
		t.Errorf("Shape interval did not tighten: ratio %g (n=120) vs %g (n=15)", largeWidth, smallWidth)
	}
}
