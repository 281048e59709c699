package spectrum

import (
	"errors"
	"fmt"
)

// Domain errors for spectrum operations.
var (
	// ErrNonPositiveWavenumber indicates a wavenumber ≤ 0 where ln(k) is needed.
	ErrNonPositiveWavenumber = errors.New("spectrum: wavenumber must be positive")

	// ErrNonPositivePivot indicates a pivot scale ≤ 0.
	ErrNonPositivePivot = errors.New("spectrum: pivot scale must be positive")

	// ErrLengthMismatch indicates k and P(k) arrays of different lengths.
	ErrLengthMismatch = errors.New("spectrum: wavenumber and power arrays differ in length")

	// ErrNotIncreasing indicates a wavenumber grid that is not strictly increasing.
	ErrNotIncreasing = errors.New("spectrum: wavenumber grid must be strictly increasing")

	// ErrUnknownConvention indicates an unrecognized bin-width convention.
	ErrUnknownConvention = errors.New("spectrum: unknown bin-width convention")

	// ErrUnavailable indicates the base-spectrum collaborator failed or
	// returned non-finite values. Never silently substituted.
	ErrUnavailable = errors.New("spectrum: base spectrum unavailable")
)

// DomainError wraps an invalid mathematical input with the operation that
// rejected it. Domain errors are surfaced to the caller, never corrected.
type DomainError struct {
	Op      string
	Wrapped error
}

func (e *DomainError) Error() string {
	return e.Op + ": " + e.Wrapped.Error()
}

func (e *DomainError) Unwrap() error { return e.Wrapped }

// UnavailableError reports a failed base-spectrum collaborator call.
type UnavailableError struct {
	Provider string
	Wrapped  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("spectrum: provider %q: %v", e.Provider, e.Wrapped)
}

func (e *UnavailableError) Unwrap() error { return e.Wrapped }

func (e *UnavailableError) Is(target error) bool { return target == ErrUnavailable }
