package forecast

import "github.com/san-kum/lssforecast/internal/spectrum"

// Result is the outcome of one Fisher forecast. Produced once per call and
// read-only afterwards.
type Result struct {
	Survey  SurveySpec
	Options Options

	K      spectrum.Grid // analysis grid [h/Mpc]
	PBase  []float64     // base spectrum on the grid [(Mpc/h)³]
	PMod   []float64     // modulated spectrum [(Mpc/h)³]
	Factor []float64     // modulation factor per bin
	SigmaP []float64     // per-bin statistical error on P(k) [(Mpc/h)³]
	DPdA   []float64     // signal derivative dP/dA_φ per bin [(Mpc/h)³]

	SigmaA float64 // forecast statistical uncertainty on A_φ
	SNR    float64 // A_φ_true / σ(A_φ)
}
