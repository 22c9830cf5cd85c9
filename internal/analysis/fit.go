package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// PolyFit returns the least-squares polynomial coefficients of y against x,
// highest power first. Columns of the Vandermonde matrix are scaled to unit
// norm before the QR solve.
func PolyFit(x, y []float64, degree int) ([]float64, error) {
	if degree < 1 {
		return nil, fmt.Errorf("invalid fit degree %d", degree)
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d x values, %d y values", ErrSeriesLength, len(x), len(y))
	}
	if len(x) < degree+1 {
		return nil, fmt.Errorf("%w: degree %d needs %d points, have %d", ErrInsufficientSamples, degree, degree+1, len(x))
	}

	n, cols := len(x), degree+1
	a := mat.NewDense(n, cols, nil)
	for i, xi := range x {
		p := 1.0
		for j := cols - 1; j >= 0; j-- {
			a.Set(i, j, p)
			p *= xi
		}
	}

	scale := make([]float64, cols)
	for j := 0; j < cols; j++ {
		col := mat.Col(nil, j, a)
		scale[j] = floats.Norm(col, 2)
		if scale[j] == 0 {
			return nil, fmt.Errorf("%w: x^%d column is all zero", ErrDegenerateFit, cols-1-j)
		}
		floats.Scale(1/scale[j], col)
		a.SetCol(j, col)
	}

	b := mat.NewVecDense(n, append([]float64(nil), y...))
	var beta mat.VecDense
	if err := beta.SolveVec(a, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDegenerateFit, err)
	}

	coeffs := make([]float64, cols)
	for j := range coeffs {
		coeffs[j] = beta.AtVec(j) / scale[j]
	}
	return coeffs, nil
}

// PolyVal evaluates coeffs (highest power first) at x as a sum of
// coefficient*x^k terms, highest power first.
func PolyVal(coeffs []float64, x float64) float64 {
	deg := len(coeffs) - 1
	y := 0.0
	for j, c := range coeffs {
		power := deg - j
		if power == 0 {
			y += c
			continue
		}
		xp := x
		for k := 1; k < power; k++ {
			xp *= x
		}
		y += xp * c
	}
	return y
}

// FitGrid builds the x grid for drawing a fit over the samples x: it starts at
// x[0], steps by (x[last]-x[0])/len(x) and stops before x[last]. Like an
// open-interval arange it can be one element shorter or longer than x.
// An empty grid is returned when the first and last samples coincide.
func FitGrid(x []float64) []float64 {
	if len(x) < 2 {
		return []float64{}
	}
	start, stop := x[0], x[len(x)-1]
	step := (stop - start) / float64(len(x))
	if step == 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return []float64{}
	}

	size := math.Ceil((stop - start) / step)
	if !(size > 0) {
		return []float64{}
	}
	n := int(size)

	delta := (start + step) - start
	grid := make([]float64, n)
	for i := range grid {
		grid[i] = start + float64(i)*delta
	}
	return grid
}

// evalGrid evaluates coeffs at every grid point.
func evalGrid(coeffs, grid []float64) []float64 {
	out := make([]float64, len(grid))
	for i, x := range grid {
		out[i] = PolyVal(coeffs, x)
	}
	return out
}
