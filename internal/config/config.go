package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/user/b1500a_analyzer_go/internal/analysis"
	"github.com/user/b1500a_analyzer_go/internal/units"
)

// Config is the analyzer's runtime configuration.
type Config struct {
	SweepType   string `mapstructure:"sweep_type" yaml:"sweep_type"`
	Channels    int    `mapstructure:"channels" yaml:"channels"`
	VoltUnit    string `mapstructure:"volt_unit" yaml:"volt_unit"`
	CurrentUnit string `mapstructure:"current_unit" yaml:"current_unit"`

	// Channel labels per sweep type
	IVVoltColumn      string `mapstructure:"iv_volt_column" yaml:"iv_volt_column"`
	IVCurrentColumn   string `mapstructure:"iv_current_column" yaml:"iv_current_column"`
	GateVoltColumn    string `mapstructure:"gate_volt_column" yaml:"gate_volt_column"`
	GateCurrentColumn string `mapstructure:"gate_current_column" yaml:"gate_current_column"`

	// Outputs
	OutputDir  string `mapstructure:"output_dir" yaml:"output_dir"`
	SaveCSV    bool   `mapstructure:"save_csv" yaml:"save_csv"`
	Fit        bool   `mapstructure:"fit" yaml:"fit"`
	SinglePlot bool   `mapstructure:"single_plot" yaml:"single_plot"`
	Plots      bool   `mapstructure:"plots" yaml:"plots"`
	XLSX       bool   `mapstructure:"xlsx" yaml:"xlsx"`
	PDF        string `mapstructure:"pdf" yaml:"pdf"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// EnvPrefix is prepended to every environment override, e.g. B1500A_CHANNELS.
const EnvPrefix = "B1500A"

func setDefaults(v *viper.Viper) {
	v.SetDefault("sweep_type", "iv")
	v.SetDefault("channels", 3)
	v.SetDefault("volt_unit", "")
	v.SetDefault("current_unit", "")
	v.SetDefault("iv_volt_column", "DrainV")
	v.SetDefault("iv_current_column", "DrainI")
	v.SetDefault("gate_volt_column", "GateV")
	v.SetDefault("gate_current_column", "DrainI")
	v.SetDefault("output_dir", "")
	v.SetDefault("save_csv", true)
	v.SetDefault("fit", true)
	v.SetDefault("single_plot", true)
	v.SetDefault("plots", true)
	v.SetDefault("xlsx", false)
	v.SetDefault("pdf", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// DefaultPath is ~/.b1500a/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".b1500a", "config.yaml"), nil
}

// Load reads configuration from defaults, the config file, .env and the
// environment. Precedence: env > config file > defaults; flags are applied
// on top by the caller.
func Load(cfgFile string) (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		path, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(path))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Default returns the built-in configuration without reading any file.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	_ = v.Unmarshal(&c)
	return &c
}

// Save writes the configuration as YAML, creating the directory if needed.
// An empty path means DefaultPath.
func Save(c *Config, path string) (string, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return "", err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}

// Validate checks the settings the analysis depends on.
func (c *Config) Validate() error {
	if _, err := analysis.ParseVariant(c.SweepType); err != nil {
		return err
	}
	if c.Channels < 1 {
		return fmt.Errorf("channels must be at least 1, got %d", c.Channels)
	}
	if err := units.Validate(c.VoltUnit); err != nil {
		return fmt.Errorf("volt_unit: %w", err)
	}
	if err := units.Validate(c.CurrentUnit); err != nil {
		return fmt.Errorf("current_unit: %w", err)
	}
	return nil
}

// Variant is the parsed sweep type. Call Validate first.
func (c *Config) Variant() analysis.Variant {
	v, _ := analysis.ParseVariant(c.SweepType)
	return v
}

// AnalysisOptions returns parse options for the configured sweep type.
func (c *Config) AnalysisOptions() analysis.Options {
	opts := analysis.Options{Channels: c.Channels}
	switch c.Variant() {
	case analysis.ParabolicSweep:
		opts.VoltColumn, opts.CurrentColumn = c.GateVoltColumn, c.GateCurrentColumn
	default:
		opts.VoltColumn, opts.CurrentColumn = c.IVVoltColumn, c.IVCurrentColumn
	}
	return opts
}
