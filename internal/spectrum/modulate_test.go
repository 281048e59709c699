package spectrum

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/lssforecast/internal/cosmo"
)

func testGrid(t *testing.T, n int) Grid {
	t.Helper()
	g, err := LogSpaced(0.01, 0.3, n)
	if err != nil {
		t.Fatalf("LogSpaced: %v", err)
	}
	return g
}

func flatPower(n int) []float64 {
	p := make([]float64, n)
	for i := range p {
		p[i] = 1000.0
	}
	return p
}

func TestModulate_ZeroAmplitudeIdentity(t *testing.T) {
	g := testGrid(t, 50)
	p := flatPower(len(g))

	mod, factor, err := Modulate(g, p, 0, 0.7, 0.05)
	if err != nil {
		t.Fatalf("Modulate: %v", err)
	}

	for i := range g {
		if mod[i] != p[i] {
			t.Errorf("bin %d: expected exact identity, got %v != %v", i, mod[i], p[i])
		}
		if factor[i] != 1 {
			t.Errorf("bin %d: expected factor 1, got %v", i, factor[i])
		}
	}
}

func TestModulate_FactorBounds(t *testing.T) {
	g := testGrid(t, 200)
	p := flatPower(len(g))
	amp := 0.03

	_, factor, err := Modulate(g, p, amp, 1.3, 0.05)
	if err != nil {
		t.Fatalf("Modulate: %v", err)
	}

	for i, f := range factor {
		if f < 1-amp-1e-12 || f > 1+amp+1e-12 {
			t.Errorf("bin %d: factor %v outside [%v, %v]", i, f, 1-amp, 1+amp)
		}
	}
}

func TestCarrier_PeriodIsLnPhi(t *testing.T) {
	k := []float64{0.02, 0.05, 0.1, 0.2}
	scaled := make([]float64, len(k))
	for i := range k {
		scaled[i] = k[i] * cosmo.GoldenRatio
	}

	c1, err := Carrier(k, 0.4, 0.05)
	if err != nil {
		t.Fatalf("Carrier: %v", err)
	}
	c2, err := Carrier(scaled, 0.4, 0.05)
	if err != nil {
		t.Fatalf("Carrier: %v", err)
	}

	for i := range k {
		if math.Abs(c1[i]-c2[i]) > 1e-9 {
			t.Errorf("carrier not periodic in ln k: %v vs %v at k=%v", c1[i], c2[i], k[i])
		}
	}
}

func TestCarrier_UnityAtPivot(t *testing.T) {
	c, err := Carrier([]float64{0.05}, 0, 0.05)
	if err != nil {
		t.Fatalf("Carrier: %v", err)
	}
	if math.Abs(c[0]-1) > 1e-12 {
		t.Errorf("expected carrier 1 at pivot with zero phase, got %v", c[0])
	}
}

func TestModulate_DomainErrors(t *testing.T) {
	if _, _, err := Modulate([]float64{-0.1, 0.2}, []float64{1, 1}, 0.01, 0, 0.05); !errors.Is(err, ErrNonPositiveWavenumber) {
		t.Errorf("expected ErrNonPositiveWavenumber, got %v", err)
	}
	if _, _, err := Modulate([]float64{0.1, 0.2}, []float64{1, 1}, 0.01, 0, 0); !errors.Is(err, ErrNonPositivePivot) {
		t.Errorf("expected ErrNonPositivePivot, got %v", err)
	}
	if _, _, err := Modulate([]float64{0.1, 0.2}, []float64{1}, 0.01, 0, 0.05); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
}
