package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/user/b1500a_analyzer_go/internal/config"
	"github.com/user/b1500a_analyzer_go/internal/logging"
)

var (
	cfgFile string
	debug   bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "b1500a",
	Short: "Analyze B1500A IV and gate sweep exports",
	Long: `b1500a parses Keysight B1500A CSV exports, fits each sweep, and writes
rescaled tables, a per-batch stats table, plots, and optional workbook and PDF reports.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd == configInitCmd {
			// the file being created may not exist yet
			return nil
		}
		c, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = c
		level := cfg.LogLevel
		if debug {
			level = "debug"
		}
		slog.SetDefault(logging.New(level, cfg.LogFormat, os.Stderr))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.b1500a/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.AddCommand(analyzeCmd, configCmd)
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
