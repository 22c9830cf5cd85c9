package analysis

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/user/b1500a_analyzer_go/internal/parser"
	"github.com/user/b1500a_analyzer_go/internal/units"
)

// Options controls how a file is read into a SweepModel.
type Options struct {
	// Channels is the SMU count the export was written with.
	Channels int
	// VoltColumn and CurrentColumn override the variant's default channel labels.
	VoltColumn    string
	CurrentColumn string
}

// DefaultOptions returns options for a stock three-SMU export.
func DefaultOptions() Options {
	return Options{Channels: parser.DefaultChannels}
}

// ParseFile reads one export and builds its SweepModel, fit included.
func ParseFile(path string, variant Variant, opts Options) (*SweepModel, error) {
	if opts.Channels == 0 {
		opts.Channels = parser.DefaultChannels
	}
	table, err := parser.ParseMeasurementFile(path, opts.Channels)
	if err != nil {
		return nil, err
	}
	m, err := NewSweepModel(filepath.Base(path), table, variant, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Path = path
	return m, nil
}

// NewSweepModel extracts the variant's voltage/current channels from table,
// fits them and derives the metric. name is the export's file name.
func NewSweepModel(name string, table *parser.MeasurementTable, variant Variant, opts Options) (*SweepModel, error) {
	spec, ok := variant.Spec()
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownVariant, variant)
	}
	voltCol, currCol := spec.VoltColumn, spec.CurrentColumn
	if opts.VoltColumn != "" {
		voltCol = opts.VoltColumn
	}
	if opts.CurrentColumn != "" {
		currCol = opts.CurrentColumn
	}

	volts, err := numericColumn(table, voltCol)
	if err != nil {
		return nil, err
	}
	current, err := numericColumn(table, currCol)
	if err != nil {
		return nil, err
	}

	coeffs, err := PolyFit(volts, current, spec.FitDegree)
	if err != nil {
		return nil, err
	}
	metric, err := spec.metric(coeffs)
	if err != nil {
		return nil, err
	}

	fitVolts := FitGrid(volts)
	return &SweepModel{
		FileName:     name,
		Metadata:     parser.ExtractMetadata(name),
		Variant:      variant,
		Volts:        volts,
		Current:      current,
		Coefficients: coeffs,
		Metric:       metric,
		FitVolts:     fitVolts,
		FitCurrent:   evalGrid(coeffs, fitVolts),
		VoltUnit:     units.Base,
		CurrentUnit:  units.Base,
	}, nil
}

func numericColumn(table *parser.MeasurementTable, name string) ([]float64, error) {
	cells, err := table.Column(name)
	if err != nil {
		return nil, err
	}
	values := make([]float64, len(cells))
	for i, c := range cells {
		v, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: column %q row %d: %q", ErrNumericParse, name, i+1, c)
		}
		values[i] = v
	}
	return values, nil
}

// ChangeUnits re-expresses one axis in the prefix symbol. Any previous prefix
// on that axis is undone first, so repeated calls never compound: the result
// always equals base-unit values divided by the scale of symbol. The sample
// series and the fit curve move together. An unknown symbol leaves the model
// untouched.
func (m *SweepModel) ChangeUnits(axis Axis, symbol string) error {
	target, err := units.ScaleOf(symbol)
	if err != nil {
		return err
	}

	var series, fit []float64
	var recorded *string
	switch axis {
	case Voltage:
		series, fit, recorded = m.Volts, m.FitVolts, &m.VoltUnit
	case Current:
		series, fit, recorded = m.Current, m.FitCurrent, &m.CurrentUnit
	default:
		return fmt.Errorf("%w: %v", ErrUnknownAxis, axis)
	}

	if *recorded != units.Base {
		prev, err := units.ScaleOf(*recorded)
		if err != nil {
			return err
		}
		multiply(series, prev)
		multiply(fit, prev)
	}
	divide(series, target)
	divide(fit, target)
	*recorded = symbol
	return nil
}

func multiply(values []float64, scale float64) {
	for i := range values {
		values[i] *= scale
	}
}

func divide(values []float64, scale float64) {
	for i := range values {
		values[i] /= scale
	}
}

// Header returns the per-file column names for the current units.
func (m *SweepModel) Header() []string {
	return []string{
		fmt.Sprintf("Voltage (%sV)", m.VoltUnit),
		fmt.Sprintf("Current (%sA)", m.CurrentUnit),
	}
}

// Serialize returns the per-file table: the header plus one row per sample.
func (m *SweepModel) Serialize() ([]string, [][]string) {
	rows := make([][]string, len(m.Volts))
	for i := range m.Volts {
		rows[i] = []string{formatFloat(m.Volts[i]), formatFloat(m.Current[i])}
	}
	return m.Header(), rows
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
