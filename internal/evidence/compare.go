package evidence

import (
	"fmt"
	"math"
)

// Comparison is the outcome of a two-model evidence run.
type Comparison struct {
	LogZLCDM float64 // harmonic-mean log Z under ΛCDM
	LogZPhi  float64 // harmonic-mean log Z under the φ model
	Log10B   float64 // log₁₀ B = log₁₀(Z_φ / Z_ΛCDM)
	Unstable bool    // either harmonic-mean estimate tripped the spread check

	BICLCDM  float64
	BICPhi   float64
	DeltaBIC float64 // BIC_ΛCDM − BIC_φ, positive favors φ

	BayesVerdict string
	BICVerdict   string
}

// BIC is the Bayesian information criterion −2·logL_max + k·ln n for a model
// with k free parameters fit to n data points. Lower is better.
func BIC(maxLogL float64, nParams, nData int) float64 {
	return -2*maxLogL + float64(nParams)*math.Log(float64(nData))
}

// InterpretBayes maps log₁₀ B onto the usual qualitative scale. Negative
// values favor ΛCDM; the graded labels apply to the φ model.
func InterpretBayes(log10B float64) string {
	switch {
	case log10B < 0:
		return "evidence favors ΛCDM"
	case log10B < 0.5:
		return "weak evidence for φ-modulation"
	case log10B < 1:
		return "substantial evidence for φ-modulation"
	case log10B < 2:
		return "strong evidence for φ-modulation"
	default:
		return "decisive evidence for φ-modulation"
	}
}

// InterpretBIC maps ΔBIC = BIC_ΛCDM − BIC_φ onto the same scale. Swapping the
// models negates ΔBIC and mirrors the verdict.
func InterpretBIC(delta float64) string {
	mag := math.Abs(delta)
	var grade string
	switch {
	case mag < 2:
		grade = "inconclusive"
	case mag < 6:
		grade = "positive"
	case mag < 10:
		grade = "strong"
	default:
		grade = "very strong"
	}
	if grade == "inconclusive" {
		return "ΔBIC inconclusive"
	}
	if delta > 0 {
		return grade + " preference for φ-modulation"
	}
	return grade + " preference for ΛCDM"
}

// Compare evaluates both models on their posterior samples and assembles the
// Bayes factor and BIC comparison. Each samples slice holds one parameter
// vector per posterior draw; the per-model parameter count is the vector
// dimension.
func Compare(g *GaussianLikelihood, samplesLCDM, samplesPhi [][]float64) (*Comparison, error) {
	logLsLCDM, err := evalAll(g, samplesLCDM, ModelLCDM)
	if err != nil {
		return nil, err
	}
	logLsPhi, err := evalAll(g, samplesPhi, ModelPhi)
	if err != nil {
		return nil, err
	}

	logZLCDM, unstableLCDM, err := HarmonicMeanLogZ(logLsLCDM)
	if err != nil {
		return nil, err
	}
	logZPhi, unstablePhi, err := HarmonicMeanLogZ(logLsPhi)
	if err != nil {
		return nil, err
	}

	n := g.NData()
	bicLCDM := BIC(maxOf(logLsLCDM), len(samplesLCDM[0]), n)
	bicPhi := BIC(maxOf(logLsPhi), len(samplesPhi[0]), n)

	c := &Comparison{
		LogZLCDM: logZLCDM,
		LogZPhi:  logZPhi,
		Log10B:   (logZPhi - logZLCDM) / math.Ln10,
		Unstable: unstableLCDM || unstablePhi,
		BICLCDM:  bicLCDM,
		BICPhi:   bicPhi,
		DeltaBIC: bicLCDM - bicPhi,
	}
	c.BayesVerdict = InterpretBayes(c.Log10B)
	c.BICVerdict = InterpretBIC(c.DeltaBIC)
	return c, nil
}

func evalAll(g *GaussianLikelihood, samples [][]float64, kind ModelKind) ([]float64, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("evidence: no posterior samples for %v", kind)
	}
	out := make([]float64, len(samples))
	for i, theta := range samples {
		l, err := g.LogL(theta, kind)
		if err != nil {
			return nil, err
		}
		out[i] = l
	}
	return out, nil
}

func maxOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}
