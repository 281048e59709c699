package evidence

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ModelKind enumerates the two competing models. The set is closed: anything
// outside it is rejected rather than dispatched.
type ModelKind int

const (
	ModelLCDM ModelKind = iota // ΛCDM baseline
	ModelPhi                   // φ-modulated extension
)

func (m ModelKind) String() string {
	switch m {
	case ModelLCDM:
		return "lcdm"
	case ModelPhi:
		return "phi"
	default:
		return fmt.Sprintf("ModelKind(%d)", int(m))
	}
}

// InvalidModelError reports a model kind outside the closed set.
type InvalidModelError struct {
	Kind ModelKind
}

func (e *InvalidModelError) Error() string {
	return fmt.Sprintf("evidence: unsupported model kind %v", e.Kind)
}

// Predictor maps a parameter vector to a model prediction on the data grid.
type Predictor func(theta []float64) []float64

// GaussianLikelihood evaluates
//
//	logL = −½ [ (d−m)ᵀ Σ⁻¹ (d−m) + log|Σ| + n·ln 2π ]
//
// for either model kind. The covariance is factorized once (Cholesky) at
// construction; evaluation is a triangular solve per sample.
type GaussianLikelihood struct {
	data   []float64
	chol   mat.Cholesky
	logDet float64
	lcdm   Predictor
	phi    Predictor
}

func NewGaussianLikelihood(data []float64, cov *mat.SymDense, lcdm, phi Predictor) (*GaussianLikelihood, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("evidence: empty data vector")
	}
	if r, _ := cov.Dims(); r != len(data) {
		return nil, fmt.Errorf("evidence: covariance is %d×%d for %d data points", r, r, len(data))
	}
	if lcdm == nil || phi == nil {
		return nil, fmt.Errorf("evidence: both model predictors are required")
	}

	g := &GaussianLikelihood{data: data, lcdm: lcdm, phi: phi}
	if ok := g.chol.Factorize(cov); !ok {
		return nil, fmt.Errorf("evidence: covariance is not positive definite")
	}
	g.logDet = g.chol.LogDet()
	return g, nil
}

// NData is the length of the data vector, the n in the BIC penalty.
func (g *GaussianLikelihood) NData() int { return len(g.data) }

// LogL evaluates the log-likelihood at theta under the given model kind.
func (g *GaussianLikelihood) LogL(theta []float64, kind ModelKind) (float64, error) {
	var pred []float64
	switch kind {
	case ModelLCDM:
		pred = g.lcdm(theta)
	case ModelPhi:
		pred = g.phi(theta)
	default:
		return 0, &InvalidModelError{Kind: kind}
	}
	if len(pred) != len(g.data) {
		return 0, fmt.Errorf("evidence: %v prediction has %d points, data has %d", kind, len(pred), len(g.data))
	}

	n := len(g.data)
	resid := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		resid.SetVec(i, g.data[i]-pred[i])
	}

	var solved mat.VecDense
	if err := g.chol.SolveVecTo(&solved, resid); err != nil {
		return 0, fmt.Errorf("evidence: covariance solve failed: %w", err)
	}
	chi2 := mat.Dot(resid, &solved)

	return -0.5 * (chi2 + g.logDet + float64(n)*math.Log(2*math.Pi)), nil
}
