package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/lssforecast/internal/forecast"
	"github.com/san-kum/lssforecast/internal/systematics"
)

type ExportData struct {
	Survey  forecast.SurveySpec `json:"survey"`
	Options forecast.Options    `json:"options"`

	K      []float64 `json:"k"`
	PBase  []float64 `json:"p_base"`
	PMod   []float64 `json:"p_mod"`
	SigmaP []float64 `json:"sigma_p"`
	DPdA   []float64 `json:"dp_da"`

	SigmaA float64 `json:"sigma_a"`
	SNR    float64 `json:"snr"`

	Systematics *ExportBudget `json:"systematics,omitempty"`
}

type ExportBudget struct {
	PhotoZ      []float64 `json:"photo_z"`
	Bias        []float64 `json:"bias"`
	Geometry    []float64 `json:"geometry"`
	SigmaSys    []float64 `json:"sigma_sys"`
	SigmaTotal  []float64 `json:"sigma_total"`
	SigmaASys   float64   `json:"sigma_a_sys"`
	SigmaATotal float64   `json:"sigma_a_total"`
}

func buildExport(res *forecast.Result, budget *systematics.Budget) ExportData {
	data := ExportData{
		Survey:  res.Survey,
		Options: res.Options,
		K:       res.K,
		PBase:   res.PBase,
		PMod:    res.PMod,
		SigmaP:  res.SigmaP,
		DPdA:    res.DPdA,
		SigmaA:  res.SigmaA,
		SNR:     res.SNR,
	}
	if budget != nil {
		data.Systematics = &ExportBudget{
			PhotoZ:      budget.PhotoZ,
			Bias:        budget.Bias,
			Geometry:    budget.Geometry,
			SigmaSys:    budget.SigmaSys,
			SigmaTotal:  budget.SigmaTotal,
			SigmaASys:   budget.SigmaASys,
			SigmaATotal: budget.SigmaATotal,
		}
	}
	return data
}

func ExportJSON(path string, res *forecast.Result, budget *systematics.Budget) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeJSON(file, res, budget)
}

func ExportJSONStdout(res *forecast.Result, budget *systematics.Budget) error {
	return writeJSON(os.Stdout, res, budget)
}

func writeJSON(w io.Writer, res *forecast.Result, budget *systematics.Budget) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildExport(res, budget))
}
