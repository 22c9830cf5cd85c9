package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/user/b1500a_analyzer_go/internal/parser"
)

// Variant selects the kind of sweep a file holds.
type Variant int

const (
	// LinearSweep is a drain I-V sweep; the metric is resistance.
	LinearSweep Variant = iota
	// ParabolicSweep is a gate sweep; the metric is the Dirac voltage.
	ParabolicSweep
)

// VariantSpec is the fixed configuration behind a Variant.
type VariantSpec struct {
	Name          string
	VoltColumn    string
	CurrentColumn string
	FitDegree     int
	MetricHeader  string // summary column header
	metric        func(coeffs []float64) (float64, error)
}

var variantSpecs = map[Variant]VariantSpec{
	LinearSweep: {
		Name:          "iv",
		VoltColumn:    "DrainV",
		CurrentColumn: "DrainI",
		FitDegree:     1,
		MetricHeader:  "Resistance (ohms)",
		metric:        resistance,
	},
	ParabolicSweep: {
		Name:          "gate",
		VoltColumn:    "GateV",
		CurrentColumn: "DrainI",
		FitDegree:     2,
		MetricHeader:  "Dirac Point (V)",
		metric:        diracVoltage,
	},
}

// Spec returns the variant's descriptor. ok is false for an undefined Variant.
func (v Variant) Spec() (VariantSpec, bool) {
	s, ok := variantSpecs[v]
	return s, ok
}

func (v Variant) String() string {
	if s, ok := variantSpecs[v]; ok {
		return s.Name
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// ParseVariant accepts "iv"/"IV Sweep"/"linear" and "gate"/"Gate Sweep"/"parabolic".
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "iv", "iv sweep", "i-v", "linear":
		return LinearSweep, nil
	case "gate", "gate sweep", "parabolic":
		return ParabolicSweep, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

// resistance is 1/slope of a degree-1 fit.
func resistance(coeffs []float64) (float64, error) {
	slope := coeffs[0]
	if slope == 0 {
		return math.NaN(), fmt.Errorf("%w: zero slope, resistance undefined", ErrDegenerateFit)
	}
	return finite(1/slope, "resistance")
}

// diracVoltage is the vertex -b/2a of a degree-2 fit.
func diracVoltage(coeffs []float64) (float64, error) {
	a, b := coeffs[0], coeffs[1]
	if a == 0 {
		return math.NaN(), fmt.Errorf("%w: zero curvature, Dirac point undefined", ErrDegenerateFit)
	}
	return finite(-b/(2*a), "Dirac voltage")
}

func finite(v float64, what string) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return math.NaN(), fmt.Errorf("%w: %s is %v", ErrDegenerateFit, what, v)
	}
	return v, nil
}

// Axis picks which series a unit change applies to.
type Axis int

const (
	Voltage Axis = iota
	Current
)

func (a Axis) String() string {
	switch a {
	case Voltage:
		return "V"
	case Current:
		return "I"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// ParseAxis accepts "V"/"voltage" and "I"/"current", case-insensitively.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "V", "VOLTAGE":
		return Voltage, nil
	case "I", "CURRENT":
		return Current, nil
	}
	return 0, fmt.Errorf("%w: %q, should be 'V' for volts or 'I' for current", ErrUnknownAxis, s)
}

// SweepModel is one parsed sweep with its fit.
// Volts/Current and FitVolts/FitCurrent are held in the units recorded in
// VoltUnit/CurrentUnit; Coefficients and Metric stay in base units.
type SweepModel struct {
	Path     string
	FileName string
	Metadata parser.FileMetadata
	Variant  Variant

	Volts   []float64
	Current []float64

	Coefficients []float64 // highest power first
	Metric       float64   // resistance (ohms) or Dirac voltage (V)

	FitVolts   []float64
	FitCurrent []float64

	VoltUnit    string
	CurrentUnit string
}

// Label is the legend text for the sweep.
func (m *SweepModel) Label() string {
	if l := m.Metadata.Label(); l != "" {
		return l
	}
	return m.FileName
}

// AggregateCurve is the fit through the index-wise mean of several sweeps.
type AggregateCurve struct {
	X            []float64
	Y            []float64
	Coefficients []float64
	MeanCurrent  []float64
}

// SummaryRow is one line of the results table.
type SummaryRow struct {
	Test  string
	Value float64
}

// SummaryTable is the per-file metric table with a trailing "average" row.
type SummaryTable struct {
	Header [2]string
	Rows   []SummaryRow
}

// BatchResult separates the files that parsed from the ones that did not.
type BatchResult struct {
	Models   []*SweepModel
	Failures []FileError
}

func NewBatchResult() *BatchResult {
	return &BatchResult{
		Models:   make([]*SweepModel, 0),
		Failures: make([]FileError, 0),
	}
}
