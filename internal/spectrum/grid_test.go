package spectrum

import (
	"errors"
	"math"
	"testing"
)

func TestLogSpaced_Endpoints(t *testing.T) {
	g, err := LogSpaced(0.01, 0.3, 50)
	if err != nil {
		t.Fatalf("LogSpaced: %v", err)
	}
	if len(g) != 50 {
		t.Fatalf("expected 50 points, got %d", len(g))
	}
	if math.Abs(g[0]-0.01) > 1e-12 || math.Abs(g[49]-0.3) > 1e-12 {
		t.Errorf("endpoints wrong: [%v, %v]", g[0], g[49])
	}
	if err := g.Validate(); err != nil {
		t.Errorf("generated grid failed validation: %v", err)
	}
}

func TestLogSpaced_Errors(t *testing.T) {
	if _, err := LogSpaced(0, 0.3, 10); !errors.Is(err, ErrNonPositiveWavenumber) {
		t.Errorf("expected ErrNonPositiveWavenumber, got %v", err)
	}
	if _, err := LogSpaced(0.3, 0.01, 10); !errors.Is(err, ErrNotIncreasing) {
		t.Errorf("expected ErrNotIncreasing, got %v", err)
	}
	if _, err := LogSpaced(0.01, 0.3, 1); !errors.Is(err, ErrNotIncreasing) {
		t.Errorf("expected ErrNotIncreasing for n=1, got %v", err)
	}
}

func TestGrid_Validate(t *testing.T) {
	if err := (Grid{0.1, 0.1, 0.2}).Validate(); !errors.Is(err, ErrNotIncreasing) {
		t.Errorf("expected ErrNotIncreasing for duplicate, got %v", err)
	}
	if err := (Grid{0.1, math.NaN()}).Validate(); !errors.Is(err, ErrNonPositiveWavenumber) {
		t.Errorf("expected ErrNonPositiveWavenumber for NaN, got %v", err)
	}
}

func TestBinWidths_Forward(t *testing.T) {
	g := Grid{0.01, 0.02, 0.04, 0.08}
	dk, err := g.BinWidths(BinWidthForward)
	if err != nil {
		t.Fatalf("BinWidths: %v", err)
	}

	expected := []float64{0.01, 0.02, 0.04, 0.04}
	for i := range dk {
		if math.Abs(dk[i]-expected[i]) > 1e-12 {
			t.Errorf("bin %d: expected %v, got %v", i, expected[i], dk[i])
		}
	}
}

func TestBinWidths_Log10(t *testing.T) {
	g, _ := LogSpaced(0.01, 0.3, 50)
	dk, err := g.BinWidths(BinWidthLog10)
	if err != nil {
		t.Fatalf("BinWidths: %v", err)
	}

	span := (math.Log10(0.3) - math.Log10(0.01)) / 50
	for i, k := range g {
		if math.Abs(dk[i]-k*span) > 1e-12 {
			t.Errorf("bin %d: expected %v, got %v", i, k*span, dk[i])
		}
	}
}

func TestBinWidths_ConventionsDiffer(t *testing.T) {
	g, _ := LogSpaced(0.01, 0.3, 50)
	fwd, _ := g.BinWidths(BinWidthForward)
	leg, _ := g.BinWidths(BinWidthLog10)

	// The legacy widths are narrower by roughly ln(10).
	ratio := fwd[0] / leg[0]
	if ratio < 2 || ratio > 3 {
		t.Errorf("expected forward/log10 ratio near ln(10), got %v", ratio)
	}
}

func TestBinWidths_UnknownConvention(t *testing.T) {
	g := Grid{0.01, 0.02}
	if _, err := g.BinWidths("trapezoid"); !errors.Is(err, ErrUnknownConvention) {
		t.Errorf("expected ErrUnknownConvention, got %v", err)
	}
}

func TestBinWidths_EmptyDefaultsToForward(t *testing.T) {
	g := Grid{0.01, 0.02, 0.03}
	a, err := g.BinWidths("")
	if err != nil {
		t.Fatalf("BinWidths: %v", err)
	}
	b, _ := g.BinWidths(BinWidthForward)
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("bin %d: empty convention diverged from forward", i)
		}
	}
}
