package cosmo

import (
	"fmt"
	"math"
)

// Physical constants shared across the forecast pipeline.
const (
	// GoldenRatio is φ = (1+√5)/2, the fixed log-period of the modulation.
	// It is a constant of the model, not a free parameter.
	GoldenRatio = 1.618033988749895

	// SpeedOfLight in km/s.
	SpeedOfLight = 299792.458

	// CMBTemperature in Kelvin (Fixsen 2009).
	CMBTemperature = 2.7255
)

// LnGoldenRatio is ln(φ), the modulation period in ln k.
var LnGoldenRatio = math.Log(GoldenRatio)

// Params holds the flat ΛCDM background parameters. Values are copied, never
// mutated; treat a Params as an immutable record.
type Params struct {
	H0    float64 `yaml:"h0"`    // Hubble constant [km/s/Mpc]
	OmBh2 float64 `yaml:"ombh2"` // physical baryon density Ω_b h²
	OmCh2 float64 `yaml:"omch2"` // physical CDM density Ω_c h²
	As    float64 `yaml:"as"`    // primordial scalar amplitude
	Ns    float64 `yaml:"ns"`    // scalar spectral index
	Tau   float64 `yaml:"tau"`   // optical depth to reionization
}

// Planck18 returns the Planck 2018 TT,TE,EE+lowE+lensing best fit.
func Planck18() Params {
	return Params{
		H0:    67.36,
		OmBh2: 0.02237,
		OmCh2: 0.1200,
		As:    2.1e-9,
		Ns:    0.9649,
		Tau:   0.0544,
	}
}

func (p Params) Validate() error {
	if p.H0 <= 0 {
		return fmt.Errorf("cosmo: H0 must be positive, got %g", p.H0)
	}
	if p.OmBh2 <= 0 || p.OmCh2 <= 0 {
		return fmt.Errorf("cosmo: density parameters must be positive")
	}
	if p.As <= 0 {
		return fmt.Errorf("cosmo: As must be positive, got %g", p.As)
	}
	return nil
}

// LittleH is the dimensionless Hubble parameter h = H0/100.
func (p Params) LittleH() float64 { return p.H0 / 100 }

// OmegaM is the total matter density fraction today.
func (p Params) OmegaM() float64 {
	h := p.LittleH()
	return (p.OmBh2 + p.OmCh2) / (h * h)
}

// OmegaB is the baryon density fraction today.
func (p Params) OmegaB() float64 {
	h := p.LittleH()
	return p.OmBh2 / (h * h)
}

// OmegaL is the dark energy fraction, assuming flatness.
func (p Params) OmegaL() float64 { return 1 - p.OmegaM() }

// EOfZ is the dimensionless Hubble rate E(z) = H(z)/H0 for flat ΛCDM.
func (p Params) EOfZ(z float64) float64 {
	om := p.OmegaM()
	return math.Sqrt(om*math.Pow(1+z, 3) + (1 - om))
}

// HubbleScale returns c/H(z) in Mpc/h, the comoving distance per unit
// redshift at z. Used to convert redshift errors into distance errors.
func (p Params) HubbleScale(z float64) float64 {
	return SpeedOfLight / (100 * p.EOfZ(z))
}
