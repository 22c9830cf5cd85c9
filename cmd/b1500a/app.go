package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/user/b1500a_analyzer_go/internal/analysis"
	"github.com/user/b1500a_analyzer_go/internal/config"
	"github.com/user/b1500a_analyzer_go/internal/parser"
	"github.com/user/b1500a_analyzer_go/internal/report"
)

const (
	defaultOutputFolder = "modified_csv"
	workbookFileName    = "stats.xlsx"
	combinedPlotFile    = "combined.png"
	heatmapPlotFile     = "heatmap.png"
)

var errNoInputs = errors.New("no measurement files found")

// App runs one analysis batch with a fixed configuration.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewApp creates an App that logs through the default slog logger.
func NewApp(cfg *config.Config) *App {
	return &App{cfg: cfg, logger: slog.Default()}
}

// RunResult describes what one batch produced.
type RunResult struct {
	RunID     string
	OutputDir string
	Batch     *analysis.BatchResult
	Summary   analysis.SummaryTable
	Aggregate *analysis.AggregateCurve
	Written   []string
}

func (a *App) sendStatus(message string, args ...any) {
	a.logger.Info(message, args...)
}

// Run analyzes the files and folders in inputs and writes every enabled
// output. Bad files are skipped; Run fails only when nothing could be parsed
// or an output cannot be written.
func (a *App) Run(ctx context.Context, inputs []string) (*RunResult, error) {
	variant := a.cfg.Variant()
	run := &RunResult{RunID: uuid.NewString()}
	a.logger = a.logger.With(slog.String("run_id", run.RunID))

	paths, err := resolveInputs(inputs)
	if err != nil {
		return nil, err
	}
	a.sendStatus("Request", slog.Int("files", len(paths)), slog.String("sweep_type", variant.String()))

	run.Batch = analysis.LoadBatch(paths, variant, a.cfg.AnalysisOptions())
	if len(run.Batch.Models) == 0 {
		return run, fmt.Errorf("%w: all %d files failed", analysis.ErrNoModels, len(run.Batch.Failures))
	}
	if err := ctx.Err(); err != nil {
		return run, err
	}

	if err := analysis.ApplyUnits(run.Batch.Models, a.cfg.VoltUnit, a.cfg.CurrentUnit); err != nil {
		return run, err
	}

	run.OutputDir = a.cfg.OutputDir
	if run.OutputDir == "" {
		run.OutputDir = filepath.Join(filepath.Dir(paths[0]), defaultOutputFolder)
	}
	writer := report.NewCSVWriter(run.OutputDir)

	if a.cfg.SaveCSV {
		for _, m := range run.Batch.Models {
			path, err := writer.WriteSweep(m)
			if err != nil {
				return run, err
			}
			run.Written = append(run.Written, path)
		}
	}

	run.Summary, err = analysis.Summarize(run.Batch.Models, variant)
	if err != nil {
		return run, err
	}
	path, err := writer.WriteSummary(run.Summary)
	if err != nil {
		return run, err
	}
	run.Written = append(run.Written, path)
	a.sendStatus("Batch summary", slog.String("metric", run.Summary.Header[1]), slog.Float64("average", run.Summary.Average()))

	if a.cfg.XLSX {
		path := filepath.Join(run.OutputDir, workbookFileName)
		if err := report.WriteWorkbook(path, run.Summary, run.Batch.Models); err != nil {
			return run, err
		}
		run.Written = append(run.Written, path)
	}

	if a.cfg.Fit {
		curve, err := analysis.FitAggregateVariant(run.Batch.Models, variant)
		if err != nil {
			a.logger.Warn("Aggregate fit skipped", slog.String("error", err.Error()))
		} else {
			run.Aggregate = &curve
		}
	}
	if err := ctx.Err(); err != nil {
		return run, err
	}

	var plotImages map[string][]byte
	if a.cfg.Plots {
		plotImages, err = a.writePlots(run)
		if err != nil {
			return run, err
		}
	}

	if a.cfg.PDF != "" {
		err := report.BuildPDFReport(a.cfg.PDF, report.ReportData{
			RunID:       run.RunID,
			GeneratedAt: time.Now(),
			Variant:     variant,
			Models:      run.Batch.Models,
			Summary:     run.Summary,
			Failures:    run.Batch.Failures,
			Aggregate:   run.Aggregate,
			PlotImages:  plotImages,
		})
		if err != nil {
			return run, err
		}
		run.Written = append(run.Written, a.cfg.PDF)
	}

	a.sendStatus("Batch complete",
		slog.Int("analyzed", len(run.Batch.Models)),
		slog.Int("failed", len(run.Batch.Failures)),
		slog.String("output_dir", run.OutputDir))
	return run, nil
}

// writePlots renders either one combined plot plus the heatmap, or one plot
// per sweep, and saves them as PNGs. A plot that fails to render is logged
// and skipped.
func (a *App) writePlots(run *RunResult) (map[string][]byte, error) {
	images := make(map[string][]byte)
	if err := os.MkdirAll(run.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	save := func(key, file string, img []byte, err error) error {
		if err != nil {
			a.logger.Warn("Plot skipped", slog.String("plot", key), slog.String("error", err.Error()))
			return nil
		}
		images[key] = img
		path := filepath.Join(run.OutputDir, file)
		if err := os.WriteFile(path, img, 0o644); err != nil {
			return fmt.Errorf("failed to write plot: %w", err)
		}
		run.Written = append(run.Written, path)
		return nil
	}

	if a.cfg.SinglePlot {
		img, err := report.CreateSweepPlot(run.Batch.Models, run.Aggregate)
		if err := save(report.PlotCombined, combinedPlotFile, img, err); err != nil {
			return nil, err
		}
		img, err = report.CreateCurrentHeatmap(run.Batch.Models)
		if err := save(report.PlotHeatmap, heatmapPlotFile, img, err); err != nil {
			return nil, err
		}
		return images, nil
	}

	for _, m := range run.Batch.Models {
		img, err := report.CreateSingleSweepPlot(m, a.cfg.Fit)
		file := strings.TrimSuffix(m.FileName, filepath.Ext(m.FileName)) + ".png"
		if err := save(m.FileName, file, img, err); err != nil {
			return nil, err
		}
	}
	return images, nil
}

// resolveInputs expands folders to their CSV files and keeps plain files as given.
func resolveInputs(inputs []string) ([]string, error) {
	var paths []string
	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", in, err)
		}
		if !info.IsDir() {
			paths = append(paths, in)
			continue
		}
		files, err := parser.ListMeasurementFiles(in)
		if err != nil {
			return nil, err
		}
		paths = append(paths, files...)
	}
	if len(paths) == 0 {
		return nil, errNoInputs
	}
	return paths, nil
}
