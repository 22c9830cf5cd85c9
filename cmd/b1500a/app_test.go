package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/b1500a_analyzer_go/internal/analysis"
	"github.com/user/b1500a_analyzer_go/internal/config"
	"github.com/user/b1500a_analyzer_go/internal/report"
)

// export renders a three-channel B1500A file with the given samples.
func export(x, y []float64, xLabel, yLabel string) string {
	var b strings.Builder
	b.WriteString("SetupTitle,I/V Sweep\n")
	b.WriteString("PrimitiveTest,I/V Sweep\n")
	fmt.Fprintf(&b, "DataName, %s, %s, Other,\n", xLabel, yLabel)
	for i := range x {
		fmt.Fprintf(&b, "DataValue, %g, %g, 1,\n", x[i], y[i])
	}
	return b.String()
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func ivBatchDir(t *testing.T) string {
	dir := t.TempDir()
	volts := []float64{0, 1, 2, 3}
	writeFile(t, dir, "IV [D1(1) ; 1_2_2023 9_00_00 AM].csv", export(volts, []float64{0, 2, 4, 6}, "DrainV", "DrainI"))
	writeFile(t, dir, "IV [D1(2) ; 1_2_2023 9_05_00 AM].csv", export(volts, []float64{0, 4, 8, 12}, "DrainV", "DrainI"))
	writeFile(t, dir, "broken.csv", "DataName, DrainV, DrainI, Other,\n")
	writeFile(t, dir, "notes.txt", "ignored")
	return dir
}

func TestAppRunFolder(t *testing.T) {
	dir := ivBatchDir(t)
	cfg := config.Default()
	cfg.CurrentUnit = "m"
	cfg.XLSX = true
	cfg.PDF = filepath.Join(t.TempDir(), "report.pdf")

	run, err := NewApp(cfg).Run(context.Background(), []string{dir})
	require.NoError(t, err)

	assert.NotEmpty(t, run.RunID)
	assert.Equal(t, filepath.Join(dir, defaultOutputFolder), run.OutputDir)
	require.Len(t, run.Batch.Models, 2)
	require.Len(t, run.Batch.Failures, 1)
	assert.Equal(t, "broken.csv", filepath.Base(run.Batch.Failures[0].Path))
	require.NotNil(t, run.Aggregate)

	// metrics stay in base units while tables are rescaled
	require.Len(t, run.Summary.Rows, 3)
	assert.InDelta(t, 0.375, run.Summary.Average(), 1e-9)

	records := readCSV(t, filepath.Join(run.OutputDir, "IV [D1(1) ; 1_2_2023 9_00_00 AM].csv"))
	assert.Equal(t, []string{"Voltage (V)", "Current (mA)"}, records[0])
	assert.Equal(t, []string{"3", "6000"}, records[4])

	for _, name := range []string{report.SummaryFileName, workbookFileName, combinedPlotFile, heatmapPlotFile} {
		assert.FileExists(t, filepath.Join(run.OutputDir, name))
	}
	assert.Contains(t, run.Written, cfg.PDF)

	body, err := os.ReadFile(cfg.PDF)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestAppRunPerFilePlots(t *testing.T) {
	dir := t.TempDir()
	var volts, current []float64
	for x := -1.0; x <= 3.0; x += 0.5 {
		volts = append(volts, x)
		current = append(current, x*x-2*x+1)
	}
	path := writeFile(t, dir, "Gate [G1(1) ; 1_2_2023 9_00_00 AM].csv", export(volts, current, "GateV", "DrainI"))

	out := filepath.Join(t.TempDir(), "out")
	cfg := config.Default()
	cfg.SweepType = "gate"
	cfg.OutputDir = out
	cfg.SinglePlot = false
	cfg.SaveCSV = false

	run, err := NewApp(cfg).Run(context.Background(), []string{path})
	require.NoError(t, err)

	require.Len(t, run.Batch.Models, 1)
	assert.InDelta(t, 1.0, run.Batch.Models[0].Metric, 1e-9)
	assert.Equal(t, out, run.OutputDir)

	assert.FileExists(t, filepath.Join(out, "Gate [G1(1) ; 1_2_2023 9_00_00 AM].png"))
	assert.FileExists(t, filepath.Join(out, report.SummaryFileName))
	assert.NoFileExists(t, filepath.Join(out, "Gate [G1(1) ; 1_2_2023 9_00_00 AM].csv"))
	assert.NoFileExists(t, filepath.Join(out, combinedPlotFile))

	records := readCSV(t, filepath.Join(out, report.SummaryFileName))
	assert.Equal(t, []string{"Test", "Dirac Point (V)"}, records[0])
	v, err := strconv.ParseFloat(records[1][1], 64)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v, 1e-9)
}

func TestAppRunAllFilesFail(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.csv", "SetupTitle,I/V Sweep\n")

	run, err := NewApp(config.Default()).Run(context.Background(), []string{path})
	require.ErrorIs(t, err, analysis.ErrNoModels)
	require.Len(t, run.Batch.Failures, 1)
	assert.NoDirExists(t, filepath.Join(dir, defaultOutputFolder))
}

func TestAppRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewApp(config.Default()).Run(ctx, []string{ivBatchDir(t)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolveInputs(t *testing.T) {
	dir := ivBatchDir(t)
	paths, err := resolveInputs([]string{dir})
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Equal(t, "IV [D1(1) ; 1_2_2023 9_00_00 AM].csv", filepath.Base(paths[0]))
	assert.Equal(t, "broken.csv", filepath.Base(paths[2]))

	_, err = resolveInputs([]string{t.TempDir()})
	assert.ErrorIs(t, err, errNoInputs)

	_, err = resolveInputs([]string{filepath.Join(dir, "missing.csv")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}
