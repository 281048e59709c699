package spectrum

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/san-kum/lssforecast/internal/cosmo"
)

// Provider is the external base-spectrum collaborator. Implementations may
// return any internal grid covering the requested range; consumers must
// interpolate onto the grid they actually need rather than assume identity.
// The returned power is indexed [redshift][k].
type Provider interface {
	Spectrum(p cosmo.Params, zs []float64, kMin, kMax float64, n int) (k []float64, pk [][]float64, err error)
}

// FileProvider serves a spectrum tabulated at a single redshift in a CSV file
// with two columns, k [h/Mpc] and P(k) [(Mpc/h)³]. This is how Boltzmann-code
// output (CAMB, CLASS) enters the pipeline without linking the solver.
type FileProvider struct {
	Path     string
	Redshift float64
}

// Spectrum returns the tabulated grid regardless of the requested resolution;
// the cosmology parameters are carried by the file, not re-derived. Every
// requested redshift must match the tabulated one.
func (f *FileProvider) Spectrum(_ cosmo.Params, zs []float64, kMin, kMax float64, n int) ([]float64, [][]float64, error) {
	for _, z := range zs {
		if math.Abs(z-f.Redshift) > 1e-6 {
			return nil, nil, &UnavailableError{
				Provider: f.Path,
				Wrapped:  fmt.Errorf("tabulated at z=%g, requested z=%g", f.Redshift, z),
			}
		}
	}

	k, p, err := f.load()
	if err != nil {
		return nil, nil, &UnavailableError{Provider: f.Path, Wrapped: err}
	}

	pk := make([][]float64, len(zs))
	for i := range zs {
		pk[i] = p
	}
	return k, pk, nil
}

func (f *FileProvider) load() ([]float64, []float64, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	k := make([]float64, 0, len(records))
	p := make([]float64, 0, len(records))
	for i, rec := range records {
		if len(rec) < 2 {
			continue
		}
		kv, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			if i == 0 {
				continue // header row
			}
			return nil, nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		pv, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		if math.IsNaN(pv) || math.IsInf(pv, 0) || pv < 0 {
			return nil, nil, fmt.Errorf("row %d: non-physical power %g", i+1, pv)
		}
		k = append(k, kv)
		p = append(p, pv)
	}

	if len(k) < 2 {
		return nil, nil, fmt.Errorf("too few samples: %d", len(k))
	}
	if err := Grid(k).Validate(); err != nil {
		return nil, nil, err
	}
	return k, p, nil
}
