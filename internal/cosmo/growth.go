package cosmo

import "math"

// GrowthFactor returns the linear growth factor D(z) for flat ΛCDM,
// normalized so that D(z) → 1/(1+z) deep in matter domination.
// Uses the Carroll, Press & Turner (1992) closed-form approximation,
// accurate to a few percent over the redshifts surveys care about.
func (p Params) GrowthFactor(z float64) float64 {
	a := 1 / (1 + z)
	e2 := p.EOfZ(z)
	e2 *= e2

	omz := p.OmegaM() * math.Pow(1+z, 3) / e2
	olz := p.OmegaL() / e2

	g := 2.5 * omz / (math.Pow(omz, 4.0/7.0) - olz + (1+omz/2)*(1+olz/70))
	return g * a
}
