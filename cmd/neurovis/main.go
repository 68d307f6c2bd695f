package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nvandessel/neurovis/internal/config"
	"github.com/nvandessel/neurovis/internal/encoder"
	"github.com/nvandessel/neurovis/internal/logging"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "neurovis",
		Short: "Spiking network visualization encoder",
		Long: `neurovis loads a spiking neural network dataset (neuron positions per
group and type, plus spike times) and encodes it frame by frame into
per-neuron visual state: type color, alpha and point size.

Frames are streamed to render sinks (JSONL, SQLite, Arrow, BMP spike map)
for a host renderer to consume.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.neurovis/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: info, debug, trace (overrides config)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRenderCmd(),
		newInfoCmd(),
		newConfigCmd(),
		newMCPServerCmd(),
	)

	return rootCmd
}

// loadConfig loads and validates configuration, applying the --log-level flag.
func loadConfig(cmd *cobra.Command) (*config.NeurovisConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger returns a stderr logger at the configured level.
func newLogger(cmd *cobra.Command, cfg *config.NeurovisConfig) *slog.Logger {
	return logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())
}

// encoderParams extracts the values the encoder consumes.
func encoderParams(cfg *config.NeurovisConfig) encoder.Params {
	return encoder.Params{
		BaseAlpha:  cfg.Render.BaseAlpha,
		SpikeAlpha: cfg.Render.SpikeAlpha,
		Size:       cfg.Render.Size,
		SizeSpike:  cfg.Render.SizeSpike,
	}
}

// writeJSON encodes v to w with the command's JSON style.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
