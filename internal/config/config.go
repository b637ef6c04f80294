package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultLabels are the display names of the prepared dataset's columns, in order.
var DefaultLabels = []string{
	"Age", "Gender", "Air Pollution", "Alcohol use", "Dust Allergy",
	"Occupational Hazards", "Genetic Risk", "Chronic Lung Disease",
	"Balanced Diet", "Obesity", "Smoking", "Passive Smoker", "Chest Pain",
	"Coughing of Blood", "Fatigue", "Weight Loss", "Shortness of Breath",
	"Wheezing", "Swallowing Difficulty", "Clubbing of Finger Nails",
	"Frequent Cold", "Dry Cough", "Snoring", "Level",
}

// Global configuration structure.
type Global struct {
	DatasetPath    string `mapstructure:"dataset_path" yaml:"dataset_path"`
	Sheet          string `mapstructure:"sheet" yaml:"sheet"`
	IDColumn       string `mapstructure:"id_column" yaml:"id_column"`
	SeverityColumn string `mapstructure:"severity_column" yaml:"severity_column"`
	// Labels name each prepared column for the statistics table; empty uses column names.
	Labels        []string `mapstructure:"labels" yaml:"labels"`
	PreviewRows   int      `mapstructure:"preview_rows" yaml:"preview_rows"`
	HistogramBins int      `mapstructure:"histogram_bins" yaml:"histogram_bins"`

	// Dashboard server
	ListenAddr         string `mapstructure:"listen_addr" yaml:"listen_addr"`
	ShutdownTimeoutSec int    `mapstructure:"shutdown_timeout_sec" yaml:"shutdown_timeout_sec"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// Dir returns ~/.cancerlens.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".cancerlens"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.cancerlens/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("CANCERLENS")
	v.AutomaticEnv()

	v.SetDefault("dataset_path", filepath.Join(".", "dataset", "cancer patient data sets.xlsx"))
	v.SetDefault("sheet", "")
	v.SetDefault("id_column", "Patient Id")
	v.SetDefault("severity_column", "Level")
	v.SetDefault("labels", DefaultLabels)
	v.SetDefault("preview_rows", 5)
	v.SetDefault("histogram_bins", 10)
	v.SetDefault("listen_addr", ":8501")
	v.SetDefault("shutdown_timeout_sec", 10)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.PreviewRows < 0 {
		c.PreviewRows = 0
	}
	if c.HistogramBins <= 0 {
		c.HistogramBins = 10
	}
	return &c, nil
}
