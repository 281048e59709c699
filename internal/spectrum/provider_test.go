package spectrum

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/lssforecast/internal/cosmo"
)

func writeSpectrumFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pk.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestFileProvider_Load(t *testing.T) {
	path := writeSpectrumFile(t, "k,pk\n0.01,1000\n0.05,4000\n0.1,2500\n")
	fp := &FileProvider{Path: path, Redshift: 0.8}

	k, pk, err := fp.Spectrum(cosmo.Planck18(), []float64{0.8}, 0.01, 0.1, 100)
	if err != nil {
		t.Fatalf("Spectrum: %v", err)
	}
	if len(k) != 3 {
		t.Fatalf("expected 3 samples (header skipped), got %d", len(k))
	}
	if len(pk) != 1 || pk[0][1] != 4000 {
		t.Errorf("unexpected power values: %v", pk)
	}
}

func TestFileProvider_RedshiftMismatch(t *testing.T) {
	path := writeSpectrumFile(t, "0.01,1000\n0.05,4000\n")
	fp := &FileProvider{Path: path, Redshift: 0.8}

	_, _, err := fp.Spectrum(cosmo.Planck18(), []float64{1.5}, 0.01, 0.1, 100)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable for redshift mismatch, got %v", err)
	}
}

func TestFileProvider_NonPhysicalPower(t *testing.T) {
	path := writeSpectrumFile(t, "0.01,1000\n0.05,-4\n")
	fp := &FileProvider{Path: path, Redshift: 0.8}

	_, _, err := fp.Spectrum(cosmo.Planck18(), []float64{0.8}, 0.01, 0.1, 100)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable for negative power, got %v", err)
	}
}

func TestFileProvider_MissingFile(t *testing.T) {
	fp := &FileProvider{Path: "/nonexistent/pk.csv", Redshift: 0.8}
	_, _, err := fp.Spectrum(cosmo.Planck18(), []float64{0.8}, 0.01, 0.1, 100)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable for missing file, got %v", err)
	}
}
