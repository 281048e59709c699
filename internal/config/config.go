package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/lssforecast/internal/cosmo"
	"github.com/san-kum/lssforecast/internal/forecast"
	"github.com/san-kum/lssforecast/internal/systematics"
)

const (
	DefaultAmplitude = 0.01
	DefaultKPivot    = 0.05
	DefaultNK        = 100
	DefaultKMin      = 0.01
	DefaultKMax      = 0.3
	DefaultVolume    = 100.0
	DefaultZEff      = 0.8
	DefaultNGal      = 3e-4
)

type Config struct {
	Survey      forecast.SurveySpec `yaml:"survey"`
	Forecast    forecast.Options    `yaml:"forecast"`
	Systematics systematics.Options `yaml:"systematics"`
	Cosmology   cosmo.Params        `yaml:"cosmology"`

	// Provider selects the base-spectrum source: "eisenstein-hu" or
	// "file". File providers also need ProviderPath.
	Provider     string `yaml:"provider"`
	ProviderPath string `yaml:"provider_path"`

	IncludeSystematics bool `yaml:"include_systematics"`
}

func DefaultConfig() *Config {
	return &Config{
		Survey: forecast.SurveySpec{
			Name:   "custom",
			Volume: DefaultVolume,
			ZEff:   DefaultZEff,
			NGal:   DefaultNGal,
			KMin:   DefaultKMin,
			KMax:   DefaultKMax,
		},
		Forecast:           forecast.DefaultOptions(),
		Systematics:        systematics.DefaultOptions(),
		Cosmology:          cosmo.Planck18(),
		Provider:           "eisenstein-hu",
		IncludeSystematics: true,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.Survey.Validate(); err != nil {
		return err
	}
	if err := c.Cosmology.Validate(); err != nil {
		return err
	}
	switch c.Provider {
	case "eisenstein-hu":
	case "file":
		if c.ProviderPath == "" {
			return fmt.Errorf("config: file provider needs provider_path")
		}
	default:
		return fmt.Errorf("config: unknown provider %q", c.Provider)
	}
	return nil
}
