package report

import (
	"fmt"
	"image/color"
	"math"

	"github.com/user/b1500a_analyzer_go/internal/analysis"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// currentGrid lays sweeps out as rows and sample indices as columns.
// Shorter sweeps are padded with NaN.
type currentGrid struct {
	rows [][]float64
	cols int
}

func (g currentGrid) Dims() (c, r int) { return g.cols, len(g.rows) }

func (g currentGrid) Z(c, r int) float64 {
	if c >= len(g.rows[r]) {
		return math.NaN()
	}
	return g.rows[r][c]
}

func (g currentGrid) X(c int) float64 { return float64(c) }
func (g currentGrid) Y(r int) float64 { return float64(r) }

// CreateCurrentHeatmap shows the current of every sweep against sample index,
// one row per file.
func CreateCurrentHeatmap(models []*analysis.SweepModel) ([]byte, error) {
	if len(models) == 0 {
		return nil, fmt.Errorf("no sweeps to plot heatmap")
	}

	grid := currentGrid{rows: make([][]float64, len(models))}
	zMin, zMax := math.Inf(1), math.Inf(-1)
	for r, m := range models {
		grid.rows[r] = m.Current
		if len(m.Current) > grid.cols {
			grid.cols = len(m.Current)
		}
		for _, v := range m.Current {
			if math.IsNaN(v) {
				continue
			}
			zMin = math.Min(zMin, v)
			zMax = math.Max(zMax, v)
		}
	}
	if grid.cols == 0 || math.IsInf(zMin, 1) {
		return nil, fmt.Errorf("no current samples for heatmap")
	}
	if zMin == zMax {
		zMax = zMin + 1
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Current by sample (%s)", models[0].Header()[1])
	p.X.Label.Text = "Sample index"
	p.Y.Label.Text = "File"

	yTicks := make([]plot.Tick, len(models))
	for i, m := range models {
		yTicks[i] = plot.Tick{Value: float64(i), Label: m.Label()}
	}
	p.Y.Tick.Marker = plot.ConstantTicks(yTicks)
	p.Y.Min = -0.5
	p.Y.Max = float64(len(models)) - 0.5
	p.X.Min = -0.5
	p.X.Max = float64(grid.cols) - 0.5

	hm := plotter.NewHeatMap(grid, palette.Heat(32, 1))
	hm.Min = zMin
	hm.Max = zMax
	hm.NaN = color.Gray{Y: 200}
	p.Add(hm)

	height := vg.Points(120 + 30*float64(len(models)))
	return renderPNG(p, vg.Points(800), height)
}
