package forecast

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/lssforecast/internal/cosmo"
	"github.com/san-kum/lssforecast/internal/spectrum"
)

// GpcCubedToMpcCubed converts a survey volume from (Gpc/h)³ to (Mpc/h)³.
// This conversion is load-bearing: the wavenumber grid is in h/Mpc, so the
// mode count needs the volume in (Mpc/h)³. Dropping it understates N_modes
// by nine orders of magnitude and inflates σ(A_φ) by a factor ~3×10⁴.
const GpcCubedToMpcCubed = 1e9

// providerPoints is the resolution requested from the base-spectrum
// collaborator; it covers [k_min/2, 2·k_max] so the resample never leans on
// the extrapolation branch inside the analysis range.
const providerPoints = 500

// ShotNoiseConvention declares how galaxy shot noise enters the per-bin
// error. The conventions are not interchangeable and every result records
// which one produced it.
type ShotNoiseConvention string

const (
	// ShotNoiseNone: pure cosmic variance, σ_P = P·√(2/N_modes).
	ShotNoiseNone ShotNoiseConvention = "none"

	// ShotNoiseFolded: σ_P² = 2P²/N_modes + (P_shot)²/N_modes with
	// P_shot = 1/n_gal, the convention of the documented survey forecasts.
	ShotNoiseFolded ShotNoiseConvention = "folded"
)

// Options configure a single forecast. Immutable per call.
type Options struct {
	Amplitude float64                     `yaml:"a_phi"`   // A_φ assumed true
	Phase     float64                     `yaml:"phase"`   // φ_0 [radians]
	KPivot    float64                     `yaml:"k_pivot"` // pivot scale [h/Mpc]
	NK        int                         `yaml:"n_k"`     // number of k bins
	BinWidth  spectrum.BinWidthConvention `yaml:"bin_width"`
	ShotNoise ShotNoiseConvention         `yaml:"shot_noise"`
}

// DefaultOptions: A_φ = 0.01, φ_0 = 0, k_pivot = 0.05 h/Mpc, 100 bins,
// forward-difference widths, cosmic variance only.
func DefaultOptions() Options {
	return Options{
		Amplitude: 0.01,
		KPivot:    0.05,
		NK:        100,
		BinWidth:  spectrum.BinWidthForward,
		ShotNoise: ShotNoiseNone,
	}
}

// Forecaster runs Fisher forecasts of the modulation amplitude against a
// base-spectrum collaborator. Stateless between calls.
type Forecaster struct {
	Provider spectrum.Provider
	Cosmo    cosmo.Params
}

func New(p spectrum.Provider, c cosmo.Params) *Forecaster {
	return &Forecaster{Provider: p, Cosmo: c}
}

// Forecast computes the expected uncertainty σ(A_φ) on the modulation
// amplitude for the given survey. It returns a complete Result or an error,
// never a partial one.
func (f *Forecaster) Forecast(survey SurveySpec, opts Options) (*Result, error) {
	if err := survey.Validate(); err != nil {
		return nil, err
	}
	if opts.KPivot <= 0 {
		return nil, &spectrum.DomainError{Op: "forecast", Wrapped: spectrum.ErrNonPositivePivot}
	}
	if opts.NK < 2 {
		return nil, fmt.Errorf("forecast: need at least 2 bins, got %d", opts.NK)
	}
	if opts.ShotNoise == ShotNoiseFolded && survey.NGal <= 0 {
		return nil, fmt.Errorf("forecast: folded shot noise needs n_gal > 0, got %g", survey.NGal)
	}

	grid, err := spectrum.LogSpaced(survey.KMin, survey.KMax, opts.NK)
	if err != nil {
		return nil, err
	}

	pBase, err := f.baseSpectrum(survey, grid)
	if err != nil {
		return nil, err
	}

	pMod, factor, err := spectrum.Modulate(grid, pBase, opts.Amplitude, opts.Phase, opts.KPivot)
	if err != nil {
		return nil, err
	}

	dk, err := grid.BinWidths(opts.BinWidth)
	if err != nil {
		return nil, err
	}

	volMpc := survey.Volume * GpcCubedToMpcCubed
	sigmaP := make([]float64, len(grid))
	for i, k := range grid {
		nModes := volMpc * k * k * dk[i] / (2 * math.Pi * math.Pi)
		cv := pBase[i] * math.Sqrt(2/nModes)
		switch opts.ShotNoise {
		case ShotNoiseFolded:
			shot := 1 / survey.NGal
			sigmaP[i] = math.Sqrt(cv*cv + shot*shot/nModes)
		default:
			sigmaP[i] = cv
		}
	}

	dPdA, err := signalDerivative(grid, pBase, factor, opts)
	if err != nil {
		return nil, err
	}

	fisher := FisherSum(dPdA, sigmaP)
	if fisher <= 0 {
		return nil, fmt.Errorf("forecast: no modulation sensitivity in [%g, %g]", survey.KMin, survey.KMax)
	}
	sigmaA := 1 / math.Sqrt(fisher)

	return &Result{
		Survey:  survey,
		Options: opts,
		K:       grid,
		PBase:   pBase,
		PMod:    pMod,
		Factor:  factor,
		SigmaP:  sigmaP,
		DPdA:    dPdA,
		SigmaA:  sigmaA,
		SNR:     opts.Amplitude / sigmaA,
	}, nil
}

// baseSpectrum fetches P(k, z_eff) from the collaborator on a wider grid and
// interpolates it onto the analysis grid. Failures and non-finite values
// surface as spectrum.ErrUnavailable; zeros are never substituted.
func (f *Forecaster) baseSpectrum(survey SurveySpec, grid spectrum.Grid) ([]float64, error) {
	srcK, rows, err := f.Provider.Spectrum(f.Cosmo, []float64{survey.ZEff}, survey.KMin*0.5, survey.KMax*2, providerPoints)
	if err != nil {
		if errors.Is(err, spectrum.ErrUnavailable) {
			return nil, err
		}
		return nil, &spectrum.UnavailableError{Provider: "base-spectrum", Wrapped: err}
	}
	if len(rows) == 0 || len(rows[0]) != len(srcK) {
		return nil, &spectrum.UnavailableError{
			Provider: "base-spectrum",
			Wrapped:  fmt.Errorf("malformed response: %d rows for %d wavenumbers", len(rows), len(srcK)),
		}
	}
	for i, v := range rows[0] {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return nil, &spectrum.UnavailableError{
				Provider: "base-spectrum",
				Wrapped:  fmt.Errorf("non-physical power %g at k=%g", v, srcK[i]),
			}
		}
	}
	pBase, err := spectrum.Resample(srcK, rows[0], grid)
	if err != nil {
		return nil, err
	}
	// A tabulation narrower than the analysis range extrapolates, and
	// extrapolation can leave the physical domain even when every tabulated
	// value was fine. Checked again here so a short file never produces
	// negative power inside a complete-looking result.
	for i, v := range pBase {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return nil, &spectrum.UnavailableError{
				Provider: "base-spectrum",
				Wrapped:  fmt.Errorf("non-physical power %g at k=%g after resampling onto [%g, %g]", v, grid[i], grid[0], grid[len(grid)-1]),
			}
		}
	}
	return pBase, nil
}

// signalDerivative is dP/dA_φ per bin. The model is linear in A_φ, so
// P·(factor−1)/A_φ is exact; at A_φ = 0 that form divides by zero and the
// analytic limit P·cos(2π·ln(k/k_pivot)/ln φ + φ_0) is used instead.
func signalDerivative(grid spectrum.Grid, pBase, factor []float64, opts Options) ([]float64, error) {
	dPdA := make([]float64, len(grid))
	if opts.Amplitude == 0 {
		carrier, err := spectrum.Carrier(grid, opts.Phase, opts.KPivot)
		if err != nil {
			return nil, err
		}
		for i := range grid {
			dPdA[i] = pBase[i] * carrier[i]
		}
		return dPdA, nil
	}
	for i := range grid {
		dPdA[i] = pBase[i] * (factor[i] - 1) / opts.Amplitude
	}
	return dPdA, nil
}

// FisherSum is the single-parameter Fisher information Σ (dP/dA)²/σ², an
// associative reduction over bins. Bins with σ = 0 are skipped rather than
// allowed to produce infinities.
func FisherSum(dPdA, sigma []float64) float64 {
	var sum float64
	for i := range dPdA {
		if sigma[i] == 0 {
			continue
		}
		r := dPdA[i] / sigma[i]
		sum += r * r
	}
	return sum
}
