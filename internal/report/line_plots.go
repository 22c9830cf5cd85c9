package report

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/user/b1500a_analyzer_go/internal/analysis"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var plotColors = []color.Color{
	color.RGBA{B: 255, A: 255},                // Blue
	color.RGBA{R: 255, A: 255},                // Red
	color.RGBA{G: 160, A: 255},                // Green
	color.RGBA{R: 255, G: 165, A: 255},        // Orange
	color.RGBA{R: 128, B: 128, A: 255},        // Purple
	color.RGBA{G: 128, B: 128, A: 255},        // Teal
	color.RGBA{R: 140, G: 86, B: 75, A: 255},  // Brown
	color.RGBA{R: 227, G: 119, B: 194, A: 255}, // Pink
}

var fitColor = color.Black

// CreateSweepPlot draws every sweep on one chart. If aggregate is non-nil its
// curve is drawn dashed and labelled "fit".
func CreateSweepPlot(models []*analysis.SweepModel, aggregate *analysis.AggregateCurve) ([]byte, error) {
	if len(models) == 0 {
		return nil, fmt.Errorf("no sweeps to plot")
	}

	p := newSweepPlot(models[0])
	p.Title.Text = fmt.Sprintf("%s sweeps (%d files)", sweepTitle(models[0].Variant), len(models))

	for i, m := range models {
		line, err := plotter.NewLine(seriesXYs(m.Volts, m.Current))
		if err != nil {
			return nil, fmt.Errorf("failed to create line for %s: %v", m.FileName, err)
		}
		line.Color = plotColors[i%len(plotColors)]
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(m.Label(), line)
	}

	if aggregate != nil && len(aggregate.X) > 0 {
		fit, err := fitLine(aggregate.X, aggregate.Y)
		if err != nil {
			return nil, err
		}
		p.Add(fit)
		p.Legend.Add("fit", fit)
	}

	return renderPNG(p, vg.Points(800), vg.Points(500))
}

// CreateSingleSweepPlot draws one sweep, optionally with its own fit curve.
func CreateSingleSweepPlot(m *analysis.SweepModel, withFit bool) ([]byte, error) {
	if m == nil || len(m.Volts) == 0 {
		return nil, fmt.Errorf("no sweep to plot")
	}

	p := newSweepPlot(m)
	p.Title.Text = m.FileName

	line, err := plotter.NewLine(seriesXYs(m.Volts, m.Current))
	if err != nil {
		return nil, fmt.Errorf("failed to create line for %s: %v", m.FileName, err)
	}
	line.Color = plotColors[0]
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(line)
	p.Legend.Add(m.Label(), line)

	if withFit && len(m.FitVolts) > 0 {
		fit, err := fitLine(m.FitVolts, m.FitCurrent)
		if err != nil {
			return nil, err
		}
		p.Add(fit)
		p.Legend.Add("fit", fit)
	}

	return renderPNG(p, vg.Points(600), vg.Points(400))
}

func newSweepPlot(m *analysis.SweepModel) *plot.Plot {
	p := plot.New()
	header := m.Header()
	p.X.Label.Text = header[0]
	p.Y.Label.Text = header[1]
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.XOffs = vg.Points(-10)
	return p
}

func sweepTitle(v analysis.Variant) string {
	if v == analysis.ParabolicSweep {
		return "Gate"
	}
	return "I-V"
}

func fitLine(x, y []float64) (*plotter.Line, error) {
	line, err := plotter.NewLine(seriesXYs(x, y))
	if err != nil {
		return nil, fmt.Errorf("failed to create fit line: %v", err)
	}
	line.Color = fitColor
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
	return line, nil
}

func seriesXYs(x, y []float64) plotter.XYs {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	pts := make(plotter.XYs, n)
	for i := 0; i < n; i++ {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	return pts
}

func renderPNG(p *plot.Plot, width, height vg.Length) ([]byte, error) {
	writer, err := p.WriterTo(width, height, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create plot writer: %v", err)
	}
	buf := new(bytes.Buffer)
	if _, err := writer.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to write plot to buffer: %v", err)
	}
	return buf.Bytes(), nil
}
