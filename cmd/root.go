package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/cancerlens/internal/config"
	"github.com/KaramelBytes/cancerlens/internal/logging"
	"github.com/KaramelBytes/cancerlens/internal/pipeline"
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	flagSheet string

	// Loaded configuration
	cfg    *cfgpkg.Global
	logger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "cancerlens",
	Short: "CancerLens: explore the cancer patient dataset",
	Long: `CancerLens loads the cancer patient dataset (XLSX or CSV), drops the patient
identifier, label-encodes the severity level and reports descriptive statistics,
chart data and a browsable dashboard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.cancerlens/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagSheet, "sheet", "", "XLSX: sheet name to read (overrides config)")
}

func loadConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to read .env: %v\n", err)
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal here; commands that need config call ensureConfig.
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
		return
	}
	cfg = c
	if rootCmd.PersistentFlags().Changed("sheet") {
		cfg.Sheet = flagSheet
	}
	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	logger = logging.Setup(os.Stderr, level, cfg.LogFormat)
}

func ensureConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg = c
	return cfg, nil
}

// buildReport runs the pipeline against args[0] when given, else the configured dataset.
func buildReport(ctx context.Context, args []string) (*pipeline.Report, error) {
	c, err := ensureConfig()
	if err != nil {
		return nil, err
	}
	opt := pipeline.OptionsFromConfig(c)
	if len(args) > 0 {
		opt.Path = args[0]
	}
	if ctx == nil {
		ctx = context.Background()
	}
	rep, err := pipeline.Build(logger.WithContext(ctx), opt)
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}
	return rep, nil
}
