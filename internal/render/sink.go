// Package render drives encoded frames into a RenderSink.
package render

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nvandessel/neurovis/internal/models"
	"github.com/nvandessel/neurovis/internal/palette"
	"github.com/nvandessel/neurovis/internal/topology"
)

// RenderSink consumes a topology once and then a stream of frames.
// Implementations own whatever they write; the driver only calls them
// in order: SetTopology, ApplyFrame for each frame ascending, Close.
type RenderSink interface {
	// SetTopology receives neuron positions, colors and the legend.
	SetTopology(ctx context.Context, top Topology) error

	// ApplyFrame receives the full state of every neuron for one frame.
	// The buffer is reused by the encoder after the call returns, so a
	// sink that keeps it must Clone it.
	ApplyFrame(ctx context.Context, buf models.VisualStateBuffer, frameIndex int) error

	// Close flushes and releases the sink.
	Close() error
}

// HostSettings are render options the encoder never reads. Sinks pass them
// through so the render host can apply them.
type HostSettings struct {
	Emission        float64
	ResolutionScale int
}

// Topology is everything a sink needs before the first frame.
type Topology struct {
	Neurons  []*models.Neuron
	Legend   []palette.LegendEntry
	Timeline *models.SimulationTimeline
	Host     HostSettings
}

// NewTopology builds a Topology from a colored dataset.
func NewTopology(ds *topology.Dataset) Topology {
	return Topology{
		Neurons:  ds.Neurons,
		Legend:   palette.Legend(ds.Types),
		Timeline: ds.Timeline,
	}
}

// Prepare loads the dataset under root and assigns type colors.
func Prepare(root string, logger *slog.Logger) (*topology.Dataset, Topology, error) {
	ds, err := topology.Build(root, logger)
	if err != nil {
		return nil, Topology{}, err
	}
	if err := palette.AssignColors(ds.Types); err != nil {
		return nil, Topology{}, fmt.Errorf("assigning colors for %s: %w", root, err)
	}
	return ds, NewTopology(ds), nil
}
