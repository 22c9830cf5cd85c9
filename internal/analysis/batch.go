package analysis

import (
	"log/slog"

	"github.com/user/b1500a_analyzer_go/internal/units"
)

// LoadBatch parses every path as the given variant. A bad file is recorded in
// Failures and does not stop the rest.
func LoadBatch(paths []string, variant Variant, opts Options) *BatchResult {
	result := NewBatchResult()
	for _, path := range paths {
		m, err := ParseFile(path, variant, opts)
		if err != nil {
			slog.Warn("Skipping measurement file",
				slog.String("file", path),
				slog.String("variant", variant.String()),
				slog.String("error", err.Error()))
			result.Failures = append(result.Failures, FileError{Path: path, Err: err})
			continue
		}
		slog.Info("Parsed sweep",
			slog.String("file", path),
			slog.String("variant", variant.String()),
			slog.Int("samples", len(m.Volts)),
			slog.Float64("metric", m.Metric))
		result.Models = append(result.Models, m)
	}
	return result
}

// ApplyUnits sets the voltage and current prefixes on every model. Both
// symbols are checked before any model is touched.
func ApplyUnits(models []*SweepModel, voltUnit, currentUnit string) error {
	if err := units.Validate(voltUnit); err != nil {
		return err
	}
	if err := units.Validate(currentUnit); err != nil {
		return err
	}
	for _, m := range models {
		if err := m.ChangeUnits(Voltage, voltUnit); err != nil {
			return err
		}
		if err := m.ChangeUnits(Current, currentUnit); err != nil {
			return err
		}
	}
	slog.Debug("Applied units",
		slog.Int("models", len(models)),
		slog.String("volt_unit", voltUnit),
		slog.String("current_unit", currentUnit))
	return nil
}
