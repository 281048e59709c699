package spectrum

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Grid is an ordered sequence of wavenumber samples in h/Mpc, strictly
// positive and strictly increasing. Grids are built per forecast call and
// never mutated afterwards.
type Grid []float64

// LogSpaced builds an n-point logarithmically spaced grid over [kMin, kMax].
// Log spacing is required by the forecast: the modulation and the noise model
// are both natural in ln k, and linear spacing under-samples low k.
func LogSpaced(kMin, kMax float64, n int) (Grid, error) {
	if kMin <= 0 {
		return nil, &DomainError{Op: "grid", Wrapped: ErrNonPositiveWavenumber}
	}
	if kMax <= kMin {
		return nil, &DomainError{Op: "grid", Wrapped: ErrNotIncreasing}
	}
	if n < 2 {
		return nil, &DomainError{Op: "grid", Wrapped: ErrNotIncreasing}
	}
	g := make(Grid, n)
	floats.LogSpan(g, kMin, kMax)
	return g, nil
}

// Validate checks positivity and strict monotonicity.
func (g Grid) Validate() error {
	if len(g) == 0 {
		return &DomainError{Op: "grid", Wrapped: ErrNonPositiveWavenumber}
	}
	prev := 0.0
	for _, k := range g {
		if k <= 0 || math.IsNaN(k) || math.IsInf(k, 0) {
			return &DomainError{Op: "grid", Wrapped: ErrNonPositiveWavenumber}
		}
		if k <= prev {
			return &DomainError{Op: "grid", Wrapped: ErrNotIncreasing}
		}
		prev = k
	}
	return nil
}

// BinWidthConvention selects how per-bin widths Δk are derived from the grid.
// The two conventions are not interchangeable: the mode count, and with it
// every forecast uncertainty, scales directly with Δk. Results must declare
// which convention produced them.
type BinWidthConvention string

const (
	// BinWidthForward uses the forward difference k[i+1]−k[i]; the last bin
	// repeats the previous width.
	BinWidthForward BinWidthConvention = "forward"

	// BinWidthLog10 is the legacy convention of the documented survey
	// forecasts: Δk = k·(log₁₀k_max − log₁₀k_min)/n. It is narrower than the
	// forward difference by roughly a factor ln(10).
	BinWidthLog10 BinWidthConvention = "log10"
)

// BinWidths derives Δk for every sample under the given convention.
func (g Grid) BinWidths(conv BinWidthConvention) ([]float64, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	n := len(g)
	dk := make([]float64, n)

	switch conv {
	case BinWidthForward, "":
		if n < 2 {
			return nil, &DomainError{Op: "binwidths", Wrapped: ErrNotIncreasing}
		}
		for i := 0; i < n-1; i++ {
			dk[i] = g[i+1] - g[i]
		}
		dk[n-1] = dk[n-2]
	case BinWidthLog10:
		span := (math.Log10(g[n-1]) - math.Log10(g[0])) / float64(n)
		for i, k := range g {
			dk[i] = k * span
		}
	default:
		return nil, &DomainError{Op: "binwidths " + string(conv), Wrapped: ErrUnknownConvention}
	}
	return dk, nil
}
