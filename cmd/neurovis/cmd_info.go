package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/nvandessel/neurovis/internal/encoder"
	"github.com/nvandessel/neurovis/internal/render"
	"github.com/spf13/cobra"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <input>",
		Short: "Summarize a dataset without rendering",
		Long: `Load the dataset under <input> and report groups, types, neuron and
spike counts, the timeline bounds, the assigned type colors and the
memory held by one frame buffer.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ds, top, err := render.Prepare(args[0], newLogger(cmd, cfg))
			if err != nil {
				return err
			}
			stats := ds.Stats()
			bufSize := encoder.BufferSize(len(top.Neurons))

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"root":         ds.Root,
					"stats":        stats,
					"legend":       top.Legend,
					"buffer_bytes": bufSize.Bytes(),
				})
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Dataset: %s\n", ds.Root)
			fmt.Fprintf(w, "  groups:   %d\n", stats.Groups)
			fmt.Fprintf(w, "  types:    %d\n", stats.Types)
			fmt.Fprintf(w, "  neurons:  %d (%d spiking)\n", stats.Neurons, stats.SpikingNeurons)
			fmt.Fprintf(w, "  frames:   %d (t = %g .. %g)\n", stats.Frames, stats.TimeMin, stats.TimeMax)
			fmt.Fprintf(w, "  buffer:   %s per frame\n", bufSize.HumanReadable())
			fmt.Fprintln(w)

			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "GROUP\tTYPE\tNEURONS\tSPIKING\tSPIKES\tCOLOR")
			for i, ts := range stats.PerType {
				c := top.Legend[i].Color
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t#%02x%02x%02x\n",
					ts.Group, ts.Type, ts.Neurons, ts.Spiking, ts.Spikes,
					byteOf(c.R), byteOf(c.G), byteOf(c.B))
			}
			return tw.Flush()
		},
	}
}

// byteOf maps a [0,1] channel to 0..255.
func byteOf(v float64) uint8 {
	return uint8(v*255 + 0.5)
}
