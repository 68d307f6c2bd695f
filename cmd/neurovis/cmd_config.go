package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/nvandessel/neurovis/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage neurovis configuration",
		Long: `View and modify neurovis configuration settings.

Configuration is stored in ~/.neurovis/config.yaml unless --config is given.
NEUROVIS_* environment variables override the file.

Examples:
  neurovis config list                          # Show all settings
  neurovis config get render.base_alpha         # Get a specific setting
  neurovis config set render.skip_render false  # Set a setting
  neurovis config set output.sinks jsonl,sqlite`,
	}

	cmd.AddCommand(
		newConfigListCmd(),
		newConfigGetCmd(),
		newConfigSetCmd(),
	)

	return cmd
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), cfg)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Configuration (%s):\n", configPath(cmd))
			for _, key := range configKeys {
				value, _ := getConfigValue(cfg, key)
				fmt.Fprintf(w, "  %-24s %v\n", key+":", value)
			}
			return nil
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			value, found := getConfigValue(cfg, key)
			if !found {
				return fmt.Errorf("unknown configuration key: %s", key)
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"key":   key,
					"value": value,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", key, value)
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			path := configPath(cmd)
			if path == "" {
				return fmt.Errorf("no config path: set --config or HOME")
			}

			// Start from the file only, so env overrides are not persisted.
			cfg, err := config.LoadFromFile(path)
			if errors.Is(err, fs.ErrNotExist) {
				cfg = config.Default()
			} else if err != nil {
				return err
			}

			if err := setConfigValue(cfg, key, value); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid value for %s: %w", key, err)
			}
			if err := config.Save(cfg, path); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"status": "updated",
					"key":    key,
					"value":  value,
					"path":   path,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
			return nil
		},
	}
}

// configKeys lists every key in display order.
var configKeys = []string{
	"render.base_alpha",
	"render.spike_alpha",
	"render.emission",
	"render.size",
	"render.size_spike",
	"render.resolution_scale",
	"render.draw_legend",
	"render.skip_render",
	"output.sinks",
	"output.legend_file",
	"output.neurons_file",
	"output.positions_file",
	"logging.level",
}

// configPath returns the --config flag or the default config location.
func configPath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path
	}
	return config.DefaultPath()
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.NeurovisConfig, key string) (any, bool) {
	switch key {
	case "render.base_alpha":
		return cfg.Render.BaseAlpha, true
	case "render.spike_alpha":
		return cfg.Render.SpikeAlpha, true
	case "render.emission":
		return cfg.Render.Emission, true
	case "render.size":
		return cfg.Render.Size, true
	case "render.size_spike":
		return cfg.Render.SizeSpike, true
	case "render.resolution_scale":
		return cfg.Render.ResolutionScale, true
	case "render.draw_legend":
		return cfg.Render.DrawLegend, true
	case "render.skip_render":
		return cfg.Render.SkipRender, true
	case "output.sinks":
		return strings.Join(cfg.Output.Sinks, ","), true
	case "output.legend_file":
		return cfg.Output.LegendFile, true
	case "output.neurons_file":
		return cfg.Output.NeuronsFile, true
	case "output.positions_file":
		return cfg.Output.PositionsFile, true
	case "logging.level":
		return valueOrDefault(cfg.Logging.Level, "info"), true
	default:
		return nil, false
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.NeurovisConfig, key, value string) error {
	parseFloat := func(dst *float64) error {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number for %s: %s", key, value)
		}
		*dst = f
		return nil
	}

	switch key {
	case "render.base_alpha":
		return parseFloat(&cfg.Render.BaseAlpha)
	case "render.spike_alpha":
		return parseFloat(&cfg.Render.SpikeAlpha)
	case "render.emission":
		return parseFloat(&cfg.Render.Emission)
	case "render.size":
		return parseFloat(&cfg.Render.Size)
	case "render.size_spike":
		return parseFloat(&cfg.Render.SizeSpike)
	case "render.resolution_scale":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %s", key, value)
		}
		cfg.Render.ResolutionScale = n
	case "render.draw_legend":
		cfg.Render.DrawLegend = value == "true" || value == "1"
	case "render.skip_render":
		cfg.Render.SkipRender = value == "true" || value == "1"
	case "output.sinks":
		cfg.Output.Sinks = config.SplitList(value)
	case "output.legend_file":
		cfg.Output.LegendFile = value
	case "output.neurons_file":
		cfg.Output.NeuronsFile = value
	case "output.positions_file":
		cfg.Output.PositionsFile = value
	case "logging.level":
		cfg.Logging.Level = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

// valueOrDefault returns the value if non-empty, otherwise the default.
func valueOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
