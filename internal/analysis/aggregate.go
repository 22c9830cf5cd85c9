package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// FitAggregate averages current index by index across models, fits the mean
// against the first model's voltages with the given degree and evaluates the
// fit on the first model's grid. Every model must have the same number of
// current samples.
func FitAggregate(models []*SweepModel, degree int) (AggregateCurve, error) {
	if len(models) == 0 {
		return AggregateCurve{}, ErrNoModels
	}
	first := models[0]
	n := len(first.Current)
	for _, m := range models[1:] {
		if len(m.Current) != n {
			return AggregateCurve{}, fmt.Errorf("%w: %s has %d samples, %s has %d",
				ErrSeriesLength, m.FileName, len(m.Current), first.FileName, n)
		}
	}

	meanCurrent := make([]float64, n)
	column := make([]float64, len(models))
	for i := 0; i < n; i++ {
		for k, m := range models {
			column[k] = m.Current[i]
		}
		meanCurrent[i] = stat.Mean(column, nil)
	}

	coeffs, err := PolyFit(first.Volts, meanCurrent, degree)
	if err != nil {
		return AggregateCurve{}, err
	}
	grid := FitGrid(first.Volts)
	return AggregateCurve{
		X:            grid,
		Y:            evalGrid(coeffs, grid),
		Coefficients: coeffs,
		MeanCurrent:  meanCurrent,
	}, nil
}

// FitAggregateVariant runs FitAggregate with the variant's fit degree.
func FitAggregateVariant(models []*SweepModel, variant Variant) (AggregateCurve, error) {
	spec, ok := variant.Spec()
	if !ok {
		return AggregateCurve{}, fmt.Errorf("%w: %v", ErrUnknownVariant, variant)
	}
	return FitAggregate(models, spec.FitDegree)
}
