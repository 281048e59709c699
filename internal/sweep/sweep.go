package sweep

import (
	"context"
	"fmt"
	"os"
	"sort"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/lssforecast/internal/forecast"
)

// AmplitudeSweep forecasts σ(A_φ) and SNR across a range of assumed true
// amplitudes for one survey.
type AmplitudeSweep struct {
	Survey  forecast.SurveySpec `yaml:"survey"`
	Options forecast.Options    `yaml:"options"`
	AMin    float64             `yaml:"a_min"`
	AMax    float64             `yaml:"a_max"`
	Steps   int                 `yaml:"steps"`
	Workers int                 `yaml:"workers"`
}

// Point is the outcome at one amplitude.
type Point struct {
	Amplitude float64
	SigmaA    float64
	SNR       float64
}

// Scenario is a scripted batch of sweeps loaded from YAML.
type Scenario struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Sweeps      []AmplitudeSweep `yaml:"sweeps"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	return &scenario, nil
}

// Run executes the sweep, fanning amplitudes out over a bounded worker pool.
// Results come back ordered by amplitude regardless of completion order.
func Run(ctx context.Context, f *forecast.Forecaster, sw *AmplitudeSweep) ([]Point, error) {
	if sw.Steps < 2 {
		return nil, fmt.Errorf("sweep: need at least 2 steps, got %d", sw.Steps)
	}
	if sw.AMin < 0 || sw.AMax <= sw.AMin {
		return nil, fmt.Errorf("sweep: invalid amplitude range [%g, %g]", sw.AMin, sw.AMax)
	}

	workers := sw.Workers
	if workers <= 0 {
		workers = 4
	}

	step := (sw.AMax - sw.AMin) / float64(sw.Steps-1)
	points := make([]Point, sw.Steps)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < sw.Steps; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			opts := sw.Options
			opts.Amplitude = sw.AMin + float64(i)*step
			res, err := f.Forecast(sw.Survey, opts)
			if err != nil {
				return fmt.Errorf("sweep: amplitude %g: %w", opts.Amplitude, err)
			}
			points[i] = Point{Amplitude: opts.Amplitude, SigmaA: res.SigmaA, SNR: res.SNR}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(points, func(a, b int) bool { return points[a].Amplitude < points[b].Amplitude })
	return points, nil
}

// DetectionThreshold returns the smallest swept amplitude with SNR at or
// above the requested level, or an error if none reach it.
func DetectionThreshold(points []Point, snr float64) (float64, error) {
	for _, p := range points {
		if p.SNR >= snr {
			return p.Amplitude, nil
		}
	}
	return 0, fmt.Errorf("sweep: no amplitude reaches SNR %g", snr)
}
