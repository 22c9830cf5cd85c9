package analysis

import (
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/stat"
)

// AverageLabel is the test name of the summary's final row.
const AverageLabel = "average"

// Summarize builds the filename -> metric table for models of one variant,
// ending with the arithmetic mean of all metrics.
func Summarize(models []*SweepModel, variant Variant) (SummaryTable, error) {
	spec, ok := variant.Spec()
	if !ok {
		return SummaryTable{}, fmt.Errorf("%w: %v", ErrUnknownVariant, variant)
	}
	if len(models) == 0 {
		return SummaryTable{}, ErrNoModels
	}

	table := SummaryTable{
		Header: [2]string{"Test", spec.MetricHeader},
		Rows:   make([]SummaryRow, 0, len(models)+1),
	}
	metrics := make([]float64, 0, len(models))
	for _, m := range models {
		if m.Variant != variant {
			return SummaryTable{}, fmt.Errorf("%w: %s is %v, summary is %v", ErrVariantMismatch, m.FileName, m.Variant, variant)
		}
		table.Rows = append(table.Rows, SummaryRow{Test: m.FileName, Value: m.Metric})
		metrics = append(metrics, m.Metric)
	}
	table.Rows = append(table.Rows, SummaryRow{Test: AverageLabel, Value: stat.Mean(metrics, nil)})
	return table, nil
}

// Average is the value of the final row.
func (t SummaryTable) Average() float64 {
	return t.Rows[len(t.Rows)-1].Value
}

// Records renders the table as text rows, header first.
func (t SummaryTable) Records() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, []string{t.Header[0], t.Header[1]})
	for _, r := range t.Rows {
		out = append(out, []string{r.Test, strconv.FormatFloat(r.Value, 'g', -1, 64)})
	}
	return out
}
