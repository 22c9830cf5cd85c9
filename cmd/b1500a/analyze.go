package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	flagSweepType   string
	flagChannels    int
	flagVoltUnit    string
	flagCurrentUnit string
	flagOutDir      string
	flagSaveCSV     bool
	flagFit         bool
	flagSinglePlot  bool
	flagPlots       bool
	flagXLSX        bool
	flagPDF         string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [files or folders...]",
	Short: "Analyze one batch of sweep files",
	Long: `Parses every CSV given (folders are expanded to the CSV files they contain),
computes the resistance (iv) or Dirac point (gate) of each sweep, and writes
the outputs next to the first input unless --out is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		applyAnalyzeFlags(cmd)
		if err := cfg.Validate(); err != nil {
			return err
		}

		app := NewApp(cfg)
		run, err := app.Run(cmd.Context(), args)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Analyzed %d of %d files (run %s), outputs in %s\n",
			len(run.Batch.Models), len(run.Batch.Models)+len(run.Batch.Failures), run.RunID, run.OutputDir)
		for _, f := range run.Batch.Failures {
			fmt.Fprintf(cmd.OutOrStdout(), "  skipped %s: %v\n", f.Path, f.Err)
		}
		return nil
	},
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVarP(&flagSweepType, "type", "t", "", "sweep type: iv or gate")
	f.IntVar(&flagChannels, "channels", 0, "number of data channels in the export")
	f.StringVar(&flagVoltUnit, "volt-unit", "", "SI prefix for voltage output (e.g. m, u)")
	f.StringVar(&flagCurrentUnit, "current-unit", "", "SI prefix for current output (e.g. m, u, n)")
	f.StringVarP(&flagOutDir, "out", "o", "", "output folder (default <first input dir>/modified_csv)")
	f.BoolVar(&flagSaveCSV, "csv", true, "write rescaled per-file CSVs")
	f.BoolVar(&flagFit, "fit", true, "fit the batch mean and draw it")
	f.BoolVar(&flagSinglePlot, "single-plot", true, "draw all sweeps on one plot instead of one plot per file")
	f.BoolVar(&flagPlots, "plots", true, "render PNG plots")
	f.BoolVar(&flagXLSX, "xlsx", false, "also write stats.xlsx")
	f.StringVar(&flagPDF, "pdf", "", "write a PDF report to this path")
}

// applyAnalyzeFlags copies explicitly set flags over the loaded config.
func applyAnalyzeFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	if f.Changed("type") {
		cfg.SweepType = flagSweepType
	}
	if f.Changed("channels") {
		cfg.Channels = flagChannels
	}
	if f.Changed("volt-unit") {
		cfg.VoltUnit = flagVoltUnit
	}
	if f.Changed("current-unit") {
		cfg.CurrentUnit = flagCurrentUnit
	}
	if f.Changed("out") {
		cfg.OutputDir = flagOutDir
	}
	if f.Changed("csv") {
		cfg.SaveCSV = flagSaveCSV
	}
	if f.Changed("fit") {
		cfg.Fit = flagFit
	}
	if f.Changed("single-plot") {
		cfg.SinglePlot = flagSinglePlot
	}
	if f.Changed("plots") {
		cfg.Plots = flagPlots
	}
	if f.Changed("xlsx") {
		cfg.XLSX = flagXLSX
	}
	if f.Changed("pdf") {
		cfg.PDF = flagPDF
	}
}
