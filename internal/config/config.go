// Package config provides unified configuration loading for neurovis.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nvandessel/neurovis/internal/constants"
	"gopkg.in/yaml.v3"
)

// NeurovisConfig contains all neurovis configuration settings.
type NeurovisConfig struct {
	// Render contains the visual constants and host-side render options.
	Render RenderConfig `json:"render" yaml:"render"`

	// Output contains sink selection and output file names.
	Output OutputConfig `json:"output" yaml:"output"`

	// Logging contains settings for operational and frame trace logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// RenderConfig holds the values consumed by the encoder plus options that
// only the render host reads.
type RenderConfig struct {
	// BaseAlpha is the alpha of a neuron that did not spike this frame.
	BaseAlpha float64 `json:"base_alpha" yaml:"base_alpha"`

	// SpikeAlpha is the alpha of a neuron that spiked this frame.
	SpikeAlpha float64 `json:"spike_alpha" yaml:"spike_alpha"`

	// Emission is the point brightness. Host only.
	Emission float64 `json:"emission" yaml:"emission"`

	// Size is the point size of a non-spiking neuron.
	Size float64 `json:"size" yaml:"size"`

	// SizeSpike is the point size of a spiking neuron.
	SizeSpike float64 `json:"size_spike" yaml:"size_spike"`

	// ResolutionScale is the output resolution in percent (100 is 1920x1080). Host only.
	ResolutionScale int `json:"resolution_scale" yaml:"resolution_scale"`

	// DrawLegend asks the host to render a legend image. Host only.
	DrawLegend bool `json:"draw_legend" yaml:"draw_legend"`

	// SkipRender applies only the first frame of the range: positions are
	// written but no animation is produced.
	SkipRender bool `json:"skip_render" yaml:"skip_render"`
}

// OutputConfig selects sinks and names output artifacts.
type OutputConfig struct {
	// Sinks lists render sinks by kind: jsonl, sqlite, arrow, spikemap.
	Sinks []string `json:"sinks" yaml:"sinks"`

	// LegendFile is written with the type legend when DrawLegend is set.
	LegendFile string `json:"legend_file" yaml:"legend_file"`

	// NeuronsFile is the SQLite database name for full renders.
	NeuronsFile string `json:"neurons_file" yaml:"neurons_file"`

	// PositionsFile is the SQLite database name when SkipRender is set.
	PositionsFile string `json:"positions_file" yaml:"positions_file"`
}

// LoggingConfig configures neurovis's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables per-frame trace logging to frames-trace.jsonl.
	// "trace" additionally logs every frame to stderr.
	Level string `json:"level" yaml:"level"`
}

// Default returns a NeurovisConfig with the reference render settings.
func Default() *NeurovisConfig {
	return &NeurovisConfig{
		Render: RenderConfig{
			BaseAlpha:       constants.DefaultBaseAlpha,
			SpikeAlpha:      constants.DefaultSpikeAlpha,
			Emission:        constants.DefaultEmission,
			Size:            constants.DefaultSize,
			SizeSpike:       constants.DefaultSizeSpike,
			ResolutionScale: constants.DefaultResolutionScale,
			DrawLegend:      false,
			SkipRender:      true,
		},
		Output: OutputConfig{
			Sinks:         []string{string(constants.SinkJSONL)},
			LegendFile:    constants.DefaultLegendFile,
			NeuronsFile:   constants.DefaultNeuronsFile,
			PositionsFile: constants.DefaultPositionsFile,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns ~/.neurovis/config.yaml, or "" if there is no home directory.
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".neurovis", "config.yaml")
}

// Load loads configuration from path, or from the default location when
// path is empty, then applies environment variables.
// Order: defaults -> config file -> environment variables
// An explicit path must exist; a missing default file is not an error.
func Load(path string) (*NeurovisConfig, error) {
	config := Default()

	if path != "" {
		fileConfig, err := LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		config = fileConfig
	} else if defaultPath := DefaultPath(); defaultPath != "" {
		if _, statErr := os.Stat(defaultPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(defaultPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
// Keys absent from the file keep their defaults.
func LoadFromFile(path string) (*NeurovisConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return config, nil
}

// Save writes the configuration as YAML to path, creating its directory.
func Save(config *NeurovisConfig, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration is valid.
func (c *NeurovisConfig) Validate() error {
	r := c.Render
	if !(r.BaseAlpha >= 0 && r.BaseAlpha <= 1) {
		return fmt.Errorf("base_alpha must be between 0 and 1, got %f", r.BaseAlpha)
	}
	if !(r.SpikeAlpha >= 0 && r.SpikeAlpha <= 1) {
		return fmt.Errorf("spike_alpha must be between 0 and 1, got %f", r.SpikeAlpha)
	}
	if !finiteNonNegative(r.Size) {
		return fmt.Errorf("size must be finite and non-negative, got %f", r.Size)
	}
	if !finiteNonNegative(r.SizeSpike) {
		return fmt.Errorf("size_spike must be finite and non-negative, got %f", r.SizeSpike)
	}
	if !finiteNonNegative(r.Emission) {
		return fmt.Errorf("emission must be finite and non-negative, got %f", r.Emission)
	}
	if r.ResolutionScale <= 0 || r.ResolutionScale > 100 {
		return fmt.Errorf("resolution_scale must be between 1 and 100, got %d", r.ResolutionScale)
	}

	if len(c.Output.Sinks) == 0 {
		return fmt.Errorf("at least one sink is required")
	}
	for _, s := range c.Output.Sinks {
		if !constants.SinkKind(s).Valid() {
			return fmt.Errorf("invalid sink: %s (valid: jsonl, sqlite, arrow, spikemap)", s)
		}
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// finiteNonNegative rejects negatives, nan and +inf.
func finiteNonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}

// SinkKinds returns the configured sinks as typed kinds.
func (c *NeurovisConfig) SinkKinds() []constants.SinkKind {
	kinds := make([]constants.SinkKind, 0, len(c.Output.Sinks))
	for _, s := range c.Output.Sinks {
		kinds = append(kinds, constants.SinkKind(s))
	}
	return kinds
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *NeurovisConfig) {
	floatVars := map[string]*float64{
		"NEUROVIS_BASE_ALPHA":  &config.Render.BaseAlpha,
		"NEUROVIS_SPIKE_ALPHA": &config.Render.SpikeAlpha,
		"NEUROVIS_EMISSION":    &config.Render.Emission,
		"NEUROVIS_SIZE":        &config.Render.Size,
		"NEUROVIS_SIZE_SPIKE":  &config.Render.SizeSpike,
	}
	for name, dst := range floatVars {
		if v := os.Getenv(name); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = f
			}
		}
	}

	if v := os.Getenv("NEUROVIS_RESOLUTION_SCALE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Render.ResolutionScale = n
		}
	}

	if v := os.Getenv("NEUROVIS_DRAW_LEGEND"); v != "" {
		config.Render.DrawLegend = v == "true" || v == "1"
	}

	if v := os.Getenv("NEUROVIS_SKIP_RENDER"); v != "" {
		config.Render.SkipRender = v == "true" || v == "1"
	}

	if v := os.Getenv("NEUROVIS_SINKS"); v != "" {
		config.Output.Sinks = SplitList(v)
	}

	if v := os.Getenv("NEUROVIS_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}

// SplitList splits a comma-separated list, trimming blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
