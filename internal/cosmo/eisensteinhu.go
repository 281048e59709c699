package cosmo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// primordialPivot is the CMB pivot scale for the primordial spectrum [1/Mpc].
const primordialPivot = 0.05

// EisensteinHu is the built-in linear matter power spectrum generator. It
// evaluates the Eisenstein & Hu (1998) zero-baryon transfer function with the
// Sugiyama shape correction, normalized from the primordial amplitude As.
// No BAO wiggles: the smooth shape is accurate to a few percent against a
// Boltzmann code, which is what a Fisher forecast needs. Tabulated Boltzmann
// output can be fed in through spectrum.FileProvider instead.
type EisensteinHu struct{}

// Transfer evaluates the zero-baryon transfer function at k [h/Mpc].
func (EisensteinHu) Transfer(p Params, k float64) float64 {
	h := p.LittleH()
	omh2 := p.OmegaM() * h * h
	obh2 := p.OmBh2

	// Sound horizon fit [Mpc], EH98 eq. 26.
	s := 44.5 * math.Log(9.83/omh2) / math.Sqrt(1+10*math.Pow(obh2, 0.75))

	// Baryon suppression of the effective shape, EH98 eq. 31.
	fb := p.OmegaB() / p.OmegaM()
	alphaGamma := 1 - 0.328*math.Log(431*omh2)*fb + 0.38*math.Log(22.3*omh2)*fb*fb

	kMpc := k * h
	gammaEff := p.OmegaM() * h * (alphaGamma + (1-alphaGamma)/(1+math.Pow(0.43*kMpc*s, 4)))

	theta := CMBTemperature / 2.7
	q := k * theta * theta / gammaEff

	l0 := math.Log(2*math.E + 1.8*q)
	c0 := 14.2 + 731/(1+62.5*q)
	return l0 / (l0 + c0*q*q)
}

// LinearPower returns the linear matter power spectrum P(k,z) in (Mpc/h)³
// for k in h/Mpc:
//
//	P(k,z) = 2π²/k³ · (4/25) · As (k_phys/k_pivot)^(ns-1) · (k c/H0)⁴ · T²(k) · (D(z)/Ω_m)²
//
// with k c/H0 evaluated in h-units so the result carries (Mpc/h)³.
func (eh EisensteinHu) LinearPower(p Params, k, z float64) float64 {
	if k <= 0 {
		return 0
	}
	t := eh.Transfer(p, k)
	d := p.GrowthFactor(z)
	om := p.OmegaM()

	kc := k * SpeedOfLight / 100 // k·c/H0 in h-units, dimensionless
	tilt := math.Pow(k*p.LittleH()/primordialPivot, p.Ns-1)
	delta2 := (4.0 / 25.0) * p.As * tilt * kc * kc * kc * kc * t * t * d * d / (om * om)

	return 2 * math.Pi * math.Pi * delta2 / (k * k * k)
}

// Spectrum implements the base-spectrum collaborator contract: it returns its
// own log-spaced grid over [kMin, kMax] and one row of P(k) per requested
// redshift. Callers must interpolate onto their analysis grid; grid identity
// is not promised.
func (eh EisensteinHu) Spectrum(p Params, zs []float64, kMin, kMax float64, n int) ([]float64, [][]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, nil, err
	}
	if kMin <= 0 || kMax <= kMin {
		return nil, nil, fmt.Errorf("cosmo: invalid wavenumber range [%g, %g]", kMin, kMax)
	}
	if n < 2 {
		return nil, nil, fmt.Errorf("cosmo: need at least 2 grid points, got %d", n)
	}
	if len(zs) == 0 {
		return nil, nil, fmt.Errorf("cosmo: no redshifts requested")
	}

	k := make([]float64, n)
	floats.LogSpan(k, kMin, kMax)

	pk := make([][]float64, len(zs))
	for i, z := range zs {
		row := make([]float64, n)
		for j, kj := range k {
			row[j] = eh.LinearPower(p, kj, z)
		}
		pk[i] = row
	}
	return k, pk, nil
}
