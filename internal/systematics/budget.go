package systematics

import (
	"fmt"
	"math"

	"github.com/san-kum/lssforecast/internal/cosmo"
	"github.com/san-kum/lssforecast/internal/forecast"
)

// Default DESI-like systematic error parameters.
const (
	DefaultSigmaZ           = 0.02 // photo-z scatter σ_z/(1+z)
	DefaultSigmaBOverB      = 0.05 // fractional galaxy bias uncertainty
	DefaultGeometryFraction = 0.15 // window-function leakage amplitude

	// photoZCap bounds the photo-z fractional error; beyond it the
	// small-smearing expansion stops being meaningful.
	photoZCap = 0.1
)

// Options enumerate the systematic sources and their knobs. Toggling a flag
// off removes exactly that contribution from the total.
type Options struct {
	IncludePhotoZ    bool    `yaml:"include_photo_z"`
	IncludeBias      bool    `yaml:"include_bias"`
	IncludeGeometry  bool    `yaml:"include_geometry"`
	SigmaZ           float64 `yaml:"sigma_z"`           // σ_z/(1+z)
	SigmaBOverB      float64 `yaml:"sigma_b_over_b"`    // σ_b/b
	GeometryFraction float64 `yaml:"geometry_fraction"` // fractional leakage at k → 0
}

func DefaultOptions() Options {
	return Options{
		IncludePhotoZ:    true,
		IncludeBias:      true,
		IncludeGeometry:  true,
		SigmaZ:           DefaultSigmaZ,
		SigmaBOverB:      DefaultSigmaBOverB,
		GeometryFraction: DefaultGeometryFraction,
	}
}

// Budget holds the per-source and combined systematic errors for one
// forecast, plus their propagation to the modulation amplitude.
type Budget struct {
	Options Options

	PhotoZ     []float64 // σ_P from photo-z smearing [(Mpc/h)³]
	Bias       []float64 // σ_P from bias uncertainty [(Mpc/h)³]
	Geometry   []float64 // σ_P from window leakage [(Mpc/h)³]
	SigmaSys   []float64 // combined systematic σ_P per bin
	SigmaTotal []float64 // quadrature of statistical and systematic per bin

	SigmaAStat  float64 // statistical σ(A_φ), carried over from the forecast
	SigmaASys   float64 // Fisher sum with σ_sys alone
	SigmaATotal float64 // Fisher sum with σ_total
}

// PhotoZError models the power suppression from photometric redshift
// smearing: the scatter σ_z(1+z) maps to a radial distance error
// σ_r = σ_z(1+z)·c/H(z), and the fractional error grows as (kσ_r)²/2,
// capped. Monotonic in both k and σ_z.
func PhotoZError(c cosmo.Params, z float64, k, p []float64, sigmaZ float64) []float64 {
	sigmaR := sigmaZ * (1 + z) * c.HubbleScale(z)
	out := make([]float64, len(k))
	for i := range k {
		rel := k[i] * sigmaR
		rel = rel * rel / 2
		if rel > photoZCap {
			rel = photoZCap
		}
		out[i] = p[i] * rel
	}
	return out
}

// BiasError propagates a fractional galaxy bias uncertainty to the power
// spectrum. P_gal ∝ b², so σ_P/P = 2·σ_b/b exactly.
func BiasError(p []float64, sigmaBOverB float64) []float64 {
	out := make([]float64, len(p))
	for i := range p {
		out[i] = 2 * sigmaBOverB * p[i]
	}
	return out
}

// GeometryError models mode coupling from the survey window as a fractional
// error that is largest at the survey scale and dies off as (k/k_min)⁻²
// toward small scales. Volume is in (Gpc/h)³.
func GeometryError(k, p []float64, volume, fraction float64) []float64 {
	volMpc := volume * forecast.GpcCubedToMpcCubed
	kMinSurvey := 2 * math.Pi / math.Cbrt(volMpc)
	out := make([]float64, len(k))
	for i := range k {
		x := k[i] / kMinSurvey
		out[i] = p[i] * fraction / (1 + x*x)
	}
	return out
}

// Apply computes the systematic error budget for a completed forecast and
// propagates it to the amplitude. Sources are combined assuming independence
// (variances add), and the total per-bin error is the quadrature of
// statistical and systematic parts:
//
//	σ_total(k)² = σ_stat(k)² + σ_sys(k)²
//
// σ(A_φ) is then re-derived by the same Fisher sum as the forecast, once with
// σ_total and once with σ_sys alone.
func Apply(res *forecast.Result, c cosmo.Params, opts Options) (*Budget, error) {
	if res == nil || len(res.K) == 0 {
		return nil, fmt.Errorf("systematics: empty forecast result")
	}
	if opts.SigmaZ < 0 || opts.SigmaBOverB < 0 || opts.GeometryFraction < 0 {
		return nil, fmt.Errorf("systematics: error parameters must be non-negative")
	}

	n := len(res.K)
	b := &Budget{
		Options:    opts,
		PhotoZ:     make([]float64, n),
		Bias:       make([]float64, n),
		Geometry:   make([]float64, n),
		SigmaSys:   make([]float64, n),
		SigmaTotal: make([]float64, n),
		SigmaAStat: res.SigmaA,
	}

	if opts.IncludePhotoZ {
		b.PhotoZ = PhotoZError(c, res.Survey.ZEff, res.K, res.PBase, opts.SigmaZ)
	}
	if opts.IncludeBias {
		b.Bias = BiasError(res.PBase, opts.SigmaBOverB)
	}
	if opts.IncludeGeometry {
		b.Geometry = GeometryError(res.K, res.PBase, res.Survey.Volume, opts.GeometryFraction)
	}

	for i := 0; i < n; i++ {
		sys2 := b.PhotoZ[i]*b.PhotoZ[i] + b.Bias[i]*b.Bias[i] + b.Geometry[i]*b.Geometry[i]
		b.SigmaSys[i] = math.Sqrt(sys2)
		b.SigmaTotal[i] = math.Sqrt(res.SigmaP[i]*res.SigmaP[i] + sys2)
	}

	if f := forecast.FisherSum(res.DPdA, b.SigmaSys); f > 0 {
		b.SigmaASys = 1 / math.Sqrt(f)
	}
	fTotal := forecast.FisherSum(res.DPdA, b.SigmaTotal)
	if fTotal <= 0 {
		return nil, fmt.Errorf("systematics: no modulation sensitivity after error inflation")
	}
	b.SigmaATotal = 1 / math.Sqrt(fTotal)

	return b, nil
}
