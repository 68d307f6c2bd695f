package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/nvandessel/neurovis/internal/config"
	"github.com/nvandessel/neurovis/internal/logging"
	"github.com/nvandessel/neurovis/internal/models"
	"github.com/nvandessel/neurovis/internal/palette"
	"github.com/nvandessel/neurovis/internal/pathutil"
	"github.com/nvandessel/neurovis/internal/render"
	"github.com/nvandessel/neurovis/internal/sink"
	"github.com/spf13/cobra"
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <input> <output>",
		Short: "Encode a dataset frame by frame into render sinks",
		Long: `Load the dataset under <input>, assign one color per neuron type and
stream the visual state of every selected frame to the configured sinks
under <output>.

With skip_render (the default), only the first frame of the range is
applied: positions and colors are written without an animation, and
render nodes other than 1 exit immediately.

Examples:
  neurovis render data out                         # positions only
  neurovis render data out --full --to 500         # frames 0..500
  neurovis render data out --full --node 2 --step 4
  neurovis render data out --full --sink sqlite,arrow`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, output := args[0], args[1]

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := applyRenderFlags(cmd, cfg); err != nil {
				return err
			}
			logger := newLogger(cmd, cfg)

			opts := render.DefaultOptions()
			opts.Range.From, _ = cmd.Flags().GetInt("from")
			opts.Range.To, _ = cmd.Flags().GetInt("to")
			opts.Range.Step, _ = cmd.Flags().GetInt("step")
			opts.NodeIndex, _ = cmd.Flags().GetInt("node")
			opts.SkipRender = cfg.Render.SkipRender
			if opts.NodeIndex < 1 {
				return fmt.Errorf("node index must be at least 1, got %d", opts.NodeIndex)
			}

			// Secondary nodes have nothing to do without rendering.
			if opts.SkipRender && opts.NodeIndex > 1 {
				return printRenderResult(cmd, input, output, opts.NodeIndex, cfg, 0, render.Result{Skipped: true})
			}

			ds, top, err := render.Prepare(input, logger)
			if err != nil {
				return err
			}
			top.Host = render.HostSettings{
				Emission:        cfg.Render.Emission,
				ResolutionScale: cfg.Render.ResolutionScale,
			}

			if cfg.Render.DrawLegend && opts.NodeIndex == 1 {
				legendPath, err := pathutil.OutputPath(output, cfg.Output.LegendFile)
				if err != nil {
					return err
				}
				if err := writeLegend(legendPath, ds.Types); err != nil {
					return err
				}
			}

			dbFile := cfg.Output.NeuronsFile
			if cfg.Render.SkipRender {
				dbFile = cfg.Output.PositionsFile
			}
			out, err := sink.NewAll(cfg.SinkKinds(), sink.Options{
				Dir:        output,
				SQLiteFile: dbFile,
				NodeIndex:  opts.NodeIndex,
			})
			if err != nil {
				return err
			}

			frameLog := logging.NewFrameLogger(output, cfg.Logging.Level)
			defer frameLog.Close()

			driver := render.NewDriver(top, encoderParams(cfg), opts)
			driver.SetLogger(logger)
			driver.SetFrameLogger(frameLog)

			ctx, stop := signal.NotifyContext(cmd.Context(), shutdownSignals...)
			defer stop()

			res, runErr := driver.Run(ctx, out)
			closeErr := out.Close()
			if err := errors.Join(runErr, closeErr); err != nil {
				return err
			}

			return printRenderResult(cmd, input, output, opts.NodeIndex, cfg, len(top.Neurons), res)
		},
	}

	def := render.DefaultOptions()
	cmd.Flags().Int("from", def.Range.From, "First frame index")
	cmd.Flags().Int("to", def.Range.To, "Last frame index, inclusive (clipped to the timeline)")
	cmd.Flags().Int("step", def.Range.Step, "Frame step")
	cmd.Flags().Int("node", def.NodeIndex, "1-based render node index")
	cmd.Flags().StringSlice("sink", nil, "Sinks to write: jsonl, sqlite, arrow, spikemap (overrides config)")
	cmd.Flags().Bool("full", false, "Render every frame in range (clears skip_render)")
	cmd.Flags().Bool("legend", false, "Write the type legend (sets draw_legend)")

	return cmd
}

// applyRenderFlags folds command-line overrides into cfg and revalidates it.
func applyRenderFlags(cmd *cobra.Command, cfg *config.NeurovisConfig) error {
	if sinks, _ := cmd.Flags().GetStringSlice("sink"); len(sinks) > 0 {
		cfg.Output.Sinks = sinks
	}
	if full, _ := cmd.Flags().GetBool("full"); full {
		cfg.Render.SkipRender = false
	}
	if legend, _ := cmd.Flags().GetBool("legend"); legend {
		cfg.Render.DrawLegend = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

// writeLegend writes the type legend as JSON.
func writeLegend(path string, types []*models.NeuronType) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create legend: %w", err)
	}
	defer f.Close()

	if err := writeJSON(f, palette.Legend(types)); err != nil {
		return fmt.Errorf("failed to write legend: %w", err)
	}
	return f.Close()
}

func printRenderResult(cmd *cobra.Command, input, output string, node int, cfg *config.NeurovisConfig, neurons int, res render.Result) error {
	jsonOut, _ := cmd.Flags().GetBool("json")
	if jsonOut {
		return writeJSON(cmd.OutOrStdout(), map[string]any{
			"input":   input,
			"output":  output,
			"node":    node,
			"sinks":   cfg.Output.Sinks,
			"neurons": neurons,
			"result":  res,
		})
	}

	w := cmd.OutOrStdout()
	if res.Skipped {
		fmt.Fprintf(w, "Node %d: nothing to do with skip_render set\n", node)
		return nil
	}
	fmt.Fprintf(w, "Rendered %d frame(s) of %d neurons to %s\n", res.Frames, neurons, output)
	fmt.Fprintf(w, "  spikes: %d\n", res.Spikes)
	fmt.Fprintf(w, "  sinks:  %v\n", cfg.Output.Sinks)
	return nil
}
