package forecast

import "fmt"

// SurveySpec describes a galaxy redshift survey. Immutable per forecast call.
type SurveySpec struct {
	Name   string  `yaml:"name"`
	Volume float64 `yaml:"volume"` // survey volume [(Gpc/h)³]
	ZEff   float64 `yaml:"z_eff"`  // effective redshift
	NGal   float64 `yaml:"n_gal"`  // galaxy number density [(h/Mpc)³]
	KMin   float64 `yaml:"k_min"`  // reliable range, lower edge [h/Mpc]
	KMax   float64 `yaml:"k_max"`  // reliable range, upper edge [h/Mpc]
}

func (s SurveySpec) Validate() error {
	if s.Volume <= 0 {
		return fmt.Errorf("forecast: survey volume must be positive, got %g", s.Volume)
	}
	if s.ZEff < 0 {
		return fmt.Errorf("forecast: effective redshift must be non-negative, got %g", s.ZEff)
	}
	if s.KMin <= 0 || s.KMax <= s.KMin {
		return fmt.Errorf("forecast: invalid wavenumber range [%g, %g]", s.KMin, s.KMax)
	}
	return nil
}
