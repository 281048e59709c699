package forecast_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/san-kum/lssforecast/internal/cosmo"
	"github.com/san-kum/lssforecast/internal/forecast"
	"github.com/san-kum/lssforecast/internal/spectrum"
)

// stubProvider returns a fixed tabulation, or a fixed error.
type stubProvider struct {
	k   []float64
	p   []float64
	err error
}

func (s *stubProvider) Spectrum(_ cosmo.Params, zs []float64, kMin, kMax float64, n int) ([]float64, [][]float64, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	rows := make([][]float64, len(zs))
	for i := range rows {
		rows[i] = s.p
	}
	return s.k, rows, nil
}

func flatProvider(t *testing.T) *stubProvider {
	t.Helper()
	k, err := spectrum.LogSpaced(0.001, 1.0, 500)
	if err != nil {
		t.Fatalf("LogSpaced: %v", err)
	}
	p := make([]float64, len(k))
	for i := range p {
		p[i] = 1e4
	}
	return &stubProvider{k: k, p: p}
}

func testSurvey() forecast.SurveySpec {
	return forecast.SurveySpec{
		Name: "test", Volume: 100.0, ZEff: 0.8, NGal: 3e-4,
		KMin: 0.01, KMax: 0.3,
	}
}

func TestForecast_SigmaIndependentOfAmplitude(t *testing.T) {
	f := forecast.New(flatProvider(t), cosmo.Planck18())
	survey := testSurvey()

	var last float64
	for i, amp := range []float64{0.005, 0.01, 0.02, 0.05} {
		opts := forecast.DefaultOptions()
		opts.Amplitude = amp
		res, err := f.Forecast(survey, opts)
		if err != nil {
			t.Fatalf("Forecast(A=%v): %v", amp, err)
		}
		if i > 0 && math.Abs(res.SigmaA-last)/last > 1e-9 {
			t.Errorf("sigma(A) drifted with amplitude: %v vs %v", res.SigmaA, last)
		}
		last = res.SigmaA

		if math.Abs(res.SNR-amp/res.SigmaA) > 1e-9 {
			t.Errorf("SNR not A/sigma: %v vs %v", res.SNR, amp/res.SigmaA)
		}
	}
}

func TestForecast_ZeroAmplitudeAnalyticLimit(t *testing.T) {
	f := forecast.New(flatProvider(t), cosmo.Planck18())
	survey := testSurvey()

	optsZero := forecast.DefaultOptions()
	optsZero.Amplitude = 0
	resZero, err := f.Forecast(survey, optsZero)
	if err != nil {
		t.Fatalf("Forecast(A=0): %v", err)
	}
	if resZero.SNR != 0 {
		t.Errorf("SNR at A=0 must be 0, got %v", resZero.SNR)
	}

	opts := forecast.DefaultOptions()
	opts.Amplitude = 0.01
	res, err := f.Forecast(survey, opts)
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}

	// The model is linear in the amplitude, so the analytic limit and the
	// finite-amplitude derivative agree bin for bin.
	for i := range res.DPdA {
		if math.Abs(res.DPdA[i]-resZero.DPdA[i]) > 1e-6*math.Abs(res.DPdA[i])+1e-7 {
			t.Fatalf("bin %d: derivative mismatch %v vs %v", i, res.DPdA[i], resZero.DPdA[i])
		}
	}
	if math.Abs(res.SigmaA-resZero.SigmaA)/res.SigmaA > 1e-9 {
		t.Errorf("sigma(A) differs between A=0 and A>0: %v vs %v", resZero.SigmaA, res.SigmaA)
	}
}

func TestForecast_ProviderErrorSurfaces(t *testing.T) {
	f := forecast.New(&stubProvider{err: fmt.Errorf("boltzmann code crashed")}, cosmo.Planck18())

	_, err := f.Forecast(testSurvey(), forecast.DefaultOptions())
	if !errors.Is(err, spectrum.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestForecast_NonFinitePowerRejected(t *testing.T) {
	sp := flatProvider(t)
	sp.p[250] = math.NaN()
	f := forecast.New(sp, cosmo.Planck18())

	_, err := f.Forecast(testSurvey(), forecast.DefaultOptions())
	if !errors.Is(err, spectrum.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable for NaN power, got %v", err)
	}
}

func TestForecast_NarrowTabulationRejected(t *testing.T) {
	// Tabulated only over [0.05, 0.2] with power falling toward zero, so
	// extrapolating onto [0.01, 0.3] crosses into negative power near the
	// top of the analysis range. That must surface as an error, never as a
	// result carrying negative P or sigma_P.
	k, err := spectrum.LogSpaced(0.05, 0.2, 100)
	if err != nil {
		t.Fatalf("LogSpaced: %v", err)
	}
	p := make([]float64, len(k))
	for i, ki := range k {
		p[i] = 1000 * (0.25 - ki) / 0.2
	}
	f := forecast.New(&stubProvider{k: k, p: p}, cosmo.Planck18())

	_, err = f.Forecast(testSurvey(), forecast.DefaultOptions())
	if !errors.Is(err, spectrum.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable for extrapolated negative power, got %v", err)
	}
}

func TestForecast_FoldedShotNoiseNeedsDensity(t *testing.T) {
	f := forecast.New(flatProvider(t), cosmo.Planck18())
	survey := testSurvey()
	survey.NGal = 0

	opts := forecast.DefaultOptions()
	opts.ShotNoise = forecast.ShotNoiseFolded
	if _, err := f.Forecast(survey, opts); err == nil {
		t.Error("expected error for folded shot noise without n_gal")
	}
}

func TestForecast_ShotNoiseInflatesSigma(t *testing.T) {
	f := forecast.New(flatProvider(t), cosmo.Planck18())
	survey := testSurvey()

	optsNone := forecast.DefaultOptions()
	resNone, err := f.Forecast(survey, optsNone)
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}

	optsFolded := forecast.DefaultOptions()
	optsFolded.ShotNoise = forecast.ShotNoiseFolded
	resFolded, err := f.Forecast(survey, optsFolded)
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}

	if resFolded.SigmaA <= resNone.SigmaA {
		t.Errorf("folded shot noise must loosen the forecast: %v <= %v", resFolded.SigmaA, resNone.SigmaA)
	}
}

func TestForecast_LegacyConventionWiderSigma(t *testing.T) {
	f := forecast.New(flatProvider(t), cosmo.Planck18())
	survey := testSurvey()

	fwd := forecast.DefaultOptions()
	resFwd, err := f.Forecast(survey, fwd)
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}

	leg := forecast.DefaultOptions()
	leg.BinWidth = spectrum.BinWidthLog10
	resLeg, err := f.Forecast(survey, leg)
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}

	// Narrower legacy bins mean fewer modes per bin and a weaker forecast.
	if resLeg.SigmaA <= resFwd.SigmaA {
		t.Errorf("legacy widths must loosen the forecast: %v <= %v", resLeg.SigmaA, resFwd.SigmaA)
	}
}

// TestForecast_DESIY5Reference pins the documented five-year forecast:
// sigma(A_phi) ~ 1.3e-3 for A_phi = 0.01, so a one-percent modulation is a
// seven-to-eight sigma detection. Computed with the legacy bin widths and
// folded shot noise that produced the published number.
func TestForecast_DESIY5Reference(t *testing.T) {
	f := forecast.New(cosmo.EisensteinHu{}, cosmo.Planck18())

	survey := forecast.SurveySpec{
		Name: "DESI-Y5", Volume: 100.0, ZEff: 0.8, NGal: 3e-4,
		KMin: 0.01, KMax: 0.3,
	}
	opts := forecast.Options{
		Amplitude: 0.01, Phase: 0, KPivot: 0.05, NK: 50,
		BinWidth:  spectrum.BinWidthLog10,
		ShotNoise: forecast.ShotNoiseFolded,
	}

	res, err := f.Forecast(survey, opts)
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}

	if res.SigmaA < 0.0013*0.8 || res.SigmaA > 0.0013*1.2 {
		t.Errorf("sigma(A) = %v, expected 0.0013 within 20%%", res.SigmaA)
	}
	if res.SNR < 6.0 || res.SNR > 10.0 {
		t.Errorf("SNR = %v, expected ~7.7", res.SNR)
	}
}

func TestForecast_ValidationErrors(t *testing.T) {
	f := forecast.New(flatProvider(t), cosmo.Planck18())

	bad := testSurvey()
	bad.Volume = 0
	if _, err := f.Forecast(bad, forecast.DefaultOptions()); err == nil {
		t.Error("expected error for zero volume")
	}

	opts := forecast.DefaultOptions()
	opts.KPivot = 0
	if _, err := f.Forecast(testSurvey(), opts); !errors.Is(err, spectrum.ErrNonPositivePivot) {
		t.Errorf("expected ErrNonPositivePivot, got %v", err)
	}

	opts = forecast.DefaultOptions()
	opts.NK = 1
	if _, err := f.Forecast(testSurvey(), opts); err == nil {
		t.Error("expected error for single bin")
	}
}

func TestFisherSum_SkipsZeroSigma(t *testing.T) {
	sum := forecast.FisherSum([]float64{1, 2, 3}, []float64{1, 0, 1})
	if math.Abs(sum-10) > 1e-12 {
		t.Errorf("expected 10 (zero-sigma bin skipped), got %v", sum)
	}
}
