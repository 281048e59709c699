package cosmo

import (
	"math"
	"testing"
)

func TestPlanck18_DerivedQuantities(t *testing.T) {
	p := Planck18()

	if math.Abs(p.LittleH()-0.6736) > 1e-9 {
		t.Errorf("h: expected 0.6736, got %v", p.LittleH())
	}
	om := p.OmegaM()
	if om < 0.30 || om > 0.33 {
		t.Errorf("Omega_m out of range: %v", om)
	}
	if math.Abs(p.OmegaM()+p.OmegaL()-1) > 1e-12 {
		t.Errorf("flatness violated: %v", p.OmegaM()+p.OmegaL())
	}
}

func TestEOfZ(t *testing.T) {
	p := Planck18()
	if math.Abs(p.EOfZ(0)-1) > 1e-12 {
		t.Errorf("E(0) must be 1, got %v", p.EOfZ(0))
	}
	if p.EOfZ(1) <= p.EOfZ(0.5) {
		t.Error("E(z) must increase with z")
	}
}

func TestGrowthFactor_Decreasing(t *testing.T) {
	p := Planck18()
	d0 := p.GrowthFactor(0)
	d1 := p.GrowthFactor(0.8)
	d2 := p.GrowthFactor(2.0)

	if !(d0 > d1 && d1 > d2) {
		t.Errorf("growth must decrease with z: %v, %v, %v", d0, d1, d2)
	}
	// Today's suppression relative to pure matter domination.
	if d0 < 0.7 || d0 > 0.85 {
		t.Errorf("D(0) out of expected range: %v", d0)
	}
}

func TestGrowthFactor_MatterEraLimit(t *testing.T) {
	p := Planck18()
	z := 20.0
	ratio := p.GrowthFactor(z) * (1 + z)
	if ratio < 0.9 || ratio > 1.05 {
		t.Errorf("D(z)(1+z) should approach 1 at high z, got %v", ratio)
	}
}

func TestTransfer_Shape(t *testing.T) {
	var eh EisensteinHu
	p := Planck18()

	tLow := eh.Transfer(p, 1e-4)
	tMid := eh.Transfer(p, 0.1)
	tHigh := eh.Transfer(p, 1.0)

	if tLow < 0.99 || tLow > 1.0 {
		t.Errorf("T(k->0) should approach 1, got %v", tLow)
	}
	if !(tLow > tMid && tMid > tHigh) {
		t.Errorf("transfer must decrease with k: %v, %v, %v", tLow, tMid, tHigh)
	}
	if tMid < 0.12 || tMid > 0.15 {
		t.Errorf("T(0.1) out of expected range: %v", tMid)
	}
}

func TestLinearPower_Magnitude(t *testing.T) {
	var eh EisensteinHu
	p := Planck18()

	// Present-day linear power near k = 0.1 h/Mpc for Planck-like
	// parameters sits at a few thousand (Mpc/h)^3.
	p0 := eh.LinearPower(p, 0.1, 0)
	if p0 < 3000 || p0 > 10000 {
		t.Errorf("P(0.1, 0) out of expected range: %v", p0)
	}

	p8 := eh.LinearPower(p, 0.1, 0.8)
	if p8 >= p0 {
		t.Errorf("power must decay with redshift: P(z=0.8)=%v >= P(z=0)=%v", p8, p0)
	}
	ratio := p8 / p0
	d := p.GrowthFactor(0.8) / p.GrowthFactor(0)
	if math.Abs(ratio-d*d) > 1e-9 {
		t.Errorf("redshift scaling must be D^2: %v vs %v", ratio, d*d)
	}
}

func TestSpectrum_Contract(t *testing.T) {
	var eh EisensteinHu
	p := Planck18()

	k, pk, err := eh.Spectrum(p, []float64{0, 0.8}, 0.005, 0.6, 200)
	if err != nil {
		t.Fatalf("Spectrum: %v", err)
	}
	if len(k) != 200 || len(pk) != 2 || len(pk[0]) != 200 {
		t.Fatalf("unexpected shapes: %d, %d rows", len(k), len(pk))
	}
	for i := 1; i < len(k); i++ {
		if k[i] <= k[i-1] {
			t.Fatalf("grid not increasing at %d", i)
		}
	}
	for _, row := range pk {
		for i, v := range row {
			if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("non-physical power %v at k=%v", v, k[i])
			}
		}
	}
}

func TestSpectrum_InputValidation(t *testing.T) {
	var eh EisensteinHu
	p := Planck18()

	if _, _, err := eh.Spectrum(p, []float64{0}, -0.01, 0.3, 100); err == nil {
		t.Error("expected error for negative kMin")
	}
	if _, _, err := eh.Spectrum(p, []float64{0}, 0.3, 0.01, 100); err == nil {
		t.Error("expected error for inverted range")
	}
	if _, _, err := eh.Spectrum(p, nil, 0.01, 0.3, 100); err == nil {
		t.Error("expected error for no redshifts")
	}
	bad := Planck18()
	bad.H0 = 0
	if _, _, err := eh.Spectrum(bad, []float64{0}, 0.01, 0.3, 100); err == nil {
		t.Error("expected error for invalid cosmology")
	}
}

func TestHubbleScale(t *testing.T) {
	p := Planck18()
	// c/H0 in Mpc/h is c/100 regardless of h.
	if math.Abs(p.HubbleScale(0)-SpeedOfLight/100) > 1e-9 {
		t.Errorf("HubbleScale(0): expected %v, got %v", SpeedOfLight/100, p.HubbleScale(0))
	}
	if p.HubbleScale(1) >= p.HubbleScale(0) {
		t.Error("HubbleScale must shrink with z")
	}
}
