package spectrum

import (
	"math"

	"github.com/san-kum/lssforecast/internal/cosmo"
)

// Carrier evaluates the log-periodic oscillation cos(2π·ln(k/kPivot)/ln φ + phase)
// for every wavenumber. This is also the analytic dP/dA_φ kernel in the
// A_φ → 0 limit.
func Carrier(k []float64, phase, kPivot float64) ([]float64, error) {
	if kPivot <= 0 {
		return nil, &DomainError{Op: "carrier", Wrapped: ErrNonPositivePivot}
	}
	out := make([]float64, len(k))
	for i, ki := range k {
		if ki <= 0 {
			return nil, &DomainError{Op: "carrier", Wrapped: ErrNonPositiveWavenumber}
		}
		out[i] = math.Cos(2*math.Pi*math.Log(ki/kPivot)/cosmo.LnGoldenRatio + phase)
	}
	return out, nil
}

// Modulate applies the φ-modulation to a power spectrum:
//
//	P_mod(k) = P(k) · [1 + A_φ·cos(2π·ln(k/kPivot)/ln φ + phase)]
//
// Returns the modulated spectrum and the modulation factor, aligned
// index-for-index with the input. The factor is bounded in
// [1−|A_φ|, 1+|A_φ|], and A_φ = 0 is an exact identity.
func Modulate(k, p []float64, amplitude, phase, kPivot float64) (mod, factor []float64, err error) {
	if len(k) != len(p) {
		return nil, nil, &DomainError{Op: "modulate", Wrapped: ErrLengthMismatch}
	}
	carrier, err := Carrier(k, phase, kPivot)
	if err != nil {
		return nil, nil, err
	}
	mod = make([]float64, len(k))
	factor = make([]float64, len(k))
	for i := range k {
		factor[i] = 1 + amplitude*carrier[i]
		mod[i] = p[i] * factor[i]
	}
	return mod, factor, nil
}
