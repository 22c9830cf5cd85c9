package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/user/b1500a_analyzer_go/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or create the analyzer configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration to disk",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if len(args) == 1 {
			path = args[0]
		}
		written, err := config.Save(config.Default(), path)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", written)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configInitCmd)
}
