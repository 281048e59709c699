package evidence

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
)

// SpreadThreshold is the per-model log-likelihood spread (in nats) above
// which the harmonic-mean estimate is flagged as unstable. The estimator has
// unbounded variance when the posterior samples span many likelihood decades,
// and past roughly this spread the estimate is dominated by the few
// lowest-likelihood samples.
const SpreadThreshold = 10.0

// HarmonicMeanLogZ estimates the log marginal likelihood from posterior
// samples via the harmonic mean of the likelihoods,
//
//	1/Z ≈ (1/n) Σ 1/L_i  ⇒  log Z = log n − logΣexp(−logL_i),
//
// evaluated in log space so very negative log-likelihoods do not underflow.
// The returned flag is advisory: a true flag means the spread of the inputs
// exceeded SpreadThreshold and the estimate should be treated as
// order-of-magnitude only, not that it failed.
func HarmonicMeanLogZ(logLs []float64) (logZ float64, unstable bool, err error) {
	if len(logLs) == 0 {
		return 0, false, fmt.Errorf("evidence: no posterior samples")
	}

	neg := make([]float64, len(logLs))
	for i, l := range logLs {
		neg[i] = -l
	}
	logZ = math.Log(float64(len(logLs))) - floats.LogSumExp(neg)

	spread, serr := stats.StandardDeviation(stats.Float64Data(logLs))
	if serr != nil {
		return logZ, false, nil
	}
	return logZ, spread > SpreadThreshold, nil
}
