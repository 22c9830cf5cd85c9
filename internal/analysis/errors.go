package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrNumericParse means a sample cell is not a number.
	ErrNumericParse = errors.New("non-numeric sample")
	// ErrDegenerateFit means the fit cannot produce a finite metric.
	ErrDegenerateFit = errors.New("degenerate fit")
	// ErrInsufficientSamples means the series is too short for the fit degree.
	ErrInsufficientSamples = fmt.Errorf("%w: too few samples", ErrDegenerateFit)
	// ErrSeriesLength means two series that must line up do not.
	ErrSeriesLength = errors.New("series length mismatch")
	// ErrNoModels means an aggregate was requested over nothing.
	ErrNoModels = errors.New("no sweep models")
	// ErrVariantMismatch means models of different sweep types were mixed.
	ErrVariantMismatch = errors.New("sweep variant mismatch")
	// ErrUnknownVariant and ErrUnknownAxis reject bad selector strings.
	ErrUnknownVariant = errors.New("unknown sweep type")
	ErrUnknownAxis    = errors.New("unknown axis")
)

// FileError ties a per-file failure to the file that caused it.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e FileError) Unwrap() error {
	return e.Err
}
