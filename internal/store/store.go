package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/lssforecast/internal/forecast"
	"github.com/san-kum/lssforecast/internal/systematics"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string              `json:"id"`
	Survey    forecast.SurveySpec `json:"survey"`
	Timestamp time.Time           `json:"timestamp"`
	Options   forecast.Options    `json:"options"`
	SigmaA    float64             `json:"sigma_a"`
	SNR       float64             `json:"snr"`

	// Filled in when a systematic budget was applied to the run.
	SigmaASys   float64 `json:"sigma_a_sys,omitempty"`
	SigmaATotal float64 `json:"sigma_a_total,omitempty"`
}

// Save writes one forecast run as a directory: metadata.json with the scalar
// outcome and bins.csv with the per-bin arrays. budget may be nil.
func (s *Store) Save(res *forecast.Result, budget *systematics.Budget) (string, error) {
	runID := fmt.Sprintf("%s_%d", sanitize(res.Survey.Name), time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Survey:    res.Survey,
		Timestamp: time.Now(),
		Options:   res.Options,
		SigmaA:    res.SigmaA,
		SNR:       res.SNR,
	}
	if budget != nil {
		meta.SigmaASys = budget.SigmaASys
		meta.SigmaATotal = budget.SigmaATotal
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "bins.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := []string{"k", "p_base", "p_mod", "sigma_p", "dp_da"}
	if budget != nil {
		header = append(header, "sigma_sys", "sigma_total")
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i := range res.K {
		row := []string{
			formatFloat(res.K[i]),
			formatFloat(res.PBase[i]),
			formatFloat(res.PMod[i]),
			formatFloat(res.SigmaP[i]),
			formatFloat(res.DPdA[i]),
		}
		if budget != nil {
			row = append(row, formatFloat(budget.SigmaSys[i]), formatFloat(budget.SigmaTotal[i]))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadBins reads the per-bin arrays back as named columns.
func (s *Store) LoadBins(runID string) (map[string][]float64, error) {
	csvPath := filepath.Join(s.baseDir, runID, "bins.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return map[string][]float64{}, nil
	}

	header := records[0]
	cols := make(map[string][]float64, len(header))
	for _, name := range header {
		cols[name] = make([]float64, 0, len(records)-1)
	}

	for _, record := range records[1:] {
		if len(record) != len(header) {
			continue
		}
		for j, field := range record {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				continue
			}
			cols[header[j]] = append(cols[header[j]], val)
		}
	}

	return cols, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}

func sanitize(name string) string {
	if name == "" {
		return "run"
	}
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		default:
			out = append(out, '-')
		}
	}
	return string(out)
}
