package spectrum

import "sort"

// Resample linearly interpolates a tabulated spectrum (srcK, srcP) onto the
// target grid. Targets outside the source range are linearly extrapolated
// from the end segments. The target grid is never altered: bin widths
// downstream stay exact because the analysis grid is the one actually used.
func Resample(srcK, srcP []float64, dst Grid) ([]float64, error) {
	if len(srcK) != len(srcP) {
		return nil, &DomainError{Op: "resample", Wrapped: ErrLengthMismatch}
	}
	if len(srcK) < 2 {
		return nil, &DomainError{Op: "resample", Wrapped: ErrNotIncreasing}
	}
	if err := Grid(srcK).Validate(); err != nil {
		return nil, err
	}
	if err := dst.Validate(); err != nil {
		return nil, err
	}

	out := make([]float64, len(dst))
	for i, k := range dst {
		// Index of the segment [srcK[j], srcK[j+1]] containing k.
		j := sort.SearchFloat64s(srcK, k) - 1
		if j < 0 {
			j = 0
		}
		if j > len(srcK)-2 {
			j = len(srcK) - 2
		}
		t := (k - srcK[j]) / (srcK[j+1] - srcK[j])
		out[i] = srcP[j] + t*(srcP[j+1]-srcP[j])
	}
	return out, nil
}
