package render

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nvandessel/neurovis/internal/constants"
	"github.com/nvandessel/neurovis/internal/encoder"
	"github.com/nvandessel/neurovis/internal/logging"
	"github.com/nvandessel/neurovis/internal/models"
)

// Options controls which frames a Driver emits.
type Options struct {
	Range FrameRange

	// NodeIndex is this process's 1-based index when frames are split
	// across render nodes.
	NodeIndex int

	// SkipRender applies only the first frame of the range.
	SkipRender bool
}

// DefaultOptions returns the default range on node 1 with rendering enabled.
func DefaultOptions() Options {
	return Options{
		Range:     DefaultFrameRange(),
		NodeIndex: constants.DefaultNodeIndex,
	}
}

// Result summarizes a Run.
type Result struct {
	Frames  int  `json:"frames"`
	Spikes  int  `json:"spikes"`
	Skipped bool `json:"skipped"`
}

// Driver encodes the frames selected by Options and feeds them to a sink.
type Driver struct {
	top     Topology
	enc     *encoder.Encoder
	opts    Options
	logger  *slog.Logger
	frameLg *logging.FrameLogger
}

// NewDriver creates a driver over a prepared topology.
func NewDriver(top Topology, params encoder.Params, opts Options) *Driver {
	return &Driver{
		top:    top,
		enc:    encoder.New(top.Neurons, params),
		opts:   opts,
		logger: slog.New(slog.DiscardHandler),
	}
}

// SetLogger sets the operational logger.
func (d *Driver) SetLogger(l *slog.Logger) {
	if l != nil {
		d.logger = l
	}
}

// SetFrameLogger sets the per-frame trace logger. Nil disables tracing.
func (d *Driver) SetFrameLogger(fl *logging.FrameLogger) {
	d.frameLg = fl
}

// Run sends the topology once and then each selected frame in ascending
// order. With SkipRender set, nodes other than the first do nothing.
// Cancellation is checked between frames.
func (d *Driver) Run(ctx context.Context, sink RenderSink) (Result, error) {
	if d.opts.SkipRender && d.opts.NodeIndex > 1 {
		d.logger.Info("skip render on secondary node, nothing to do", "node", d.opts.NodeIndex)
		return Result{Skipped: true}, nil
	}

	frames, err := d.opts.Range.Resolve(d.top.Timeline.Len())
	if err != nil {
		return Result{}, err
	}
	if d.opts.SkipRender {
		frames = frames[:1]
	}

	if err := sink.SetTopology(ctx, d.top); err != nil {
		return Result{}, fmt.Errorf("setting topology: %w", err)
	}

	d.logger.Info("rendering frames",
		"first", frames[0],
		"last", frames[len(frames)-1],
		"count", len(frames),
		"buffer", encoder.BufferSize(len(d.top.Neurons)).HumanReadable(),
	)

	var res Result
	for _, f := range frames {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		t := d.top.Timeline.At(f)
		buf, spiked := d.enc.Encode(t)
		if err := sink.ApplyFrame(ctx, buf, f); err != nil {
			return res, fmt.Errorf("applying frame %d: %w", f, err)
		}

		res.Frames++
		res.Spikes += spiked
		d.frameLg.Log(logging.FrameEvent{Frame: f, Time: models.Number(t), Spiked: spiked, Neurons: len(buf.States)})
		d.logger.Log(ctx, logging.LevelTrace, "frame applied", "frame", f, "time", t, "spiked", spiked)
	}

	return res, nil
}
