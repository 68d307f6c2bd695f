// Package sink provides RenderSink implementations that persist a render
// stream: JSONL, SQLite, Arrow IPC and a debug spike map image.
package sink

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/nvandessel/neurovis/internal/constants"
	"github.com/nvandessel/neurovis/internal/models"
	"github.com/nvandessel/neurovis/internal/pathutil"
	"github.com/nvandessel/neurovis/internal/render"
)

// Options configures sinks built by New.
type Options struct {
	// Dir is the output directory shared by all sinks.
	Dir string

	// SQLiteFile is the database file name inside Dir.
	SQLiteFile string

	// NodeIndex is the 1-based render node. Only node 1 writes the spike map.
	NodeIndex int
}

// New creates the sink for kind.
func New(kind constants.SinkKind, opts Options) (render.RenderSink, error) {
	switch kind {
	case constants.SinkJSONL:
		return NewJSONLSink(opts.Dir)
	case constants.SinkSQLite:
		name := opts.SQLiteFile
		if name == "" {
			name = constants.DefaultNeuronsFile
		}
		path, err := pathutil.OutputPath(opts.Dir, name)
		if err != nil {
			return nil, err
		}
		return NewSQLiteSink(path)
	case constants.SinkArrow:
		return NewArrowSink(opts.Dir)
	case constants.SinkSpikeMap:
		return NewSpikeMapSink(filepath.Join(opts.Dir, constants.SpikeMapFile), opts.NodeIndex), nil
	default:
		return nil, fmt.Errorf("unknown sink kind: %q", kind)
	}
}

// NewAll creates one sink per kind and fans out to them. A single kind
// returns that sink directly.
func NewAll(kinds []constants.SinkKind, opts Options) (render.RenderSink, error) {
	if len(kinds) == 0 {
		return nil, errors.New("no sinks configured")
	}

	sinks := make([]render.RenderSink, 0, len(kinds))
	for _, kind := range kinds {
		s, err := New(kind, opts)
		if err != nil {
			for _, opened := range sinks {
				opened.Close()
			}
			return nil, fmt.Errorf("creating %s sink: %w", kind, err)
		}
		sinks = append(sinks, s)
	}

	if len(sinks) == 1 {
		return sinks[0], nil
	}
	return NewMulti(sinks...), nil
}

// Multi forwards every call to each of its sinks in order.
type Multi struct {
	sinks []render.RenderSink
}

// NewMulti returns a sink that fans out to sinks.
func NewMulti(sinks ...render.RenderSink) *Multi {
	return &Multi{sinks: sinks}
}

// SetTopology stops at the first failing sink.
func (m *Multi) SetTopology(ctx context.Context, top render.Topology) error {
	for _, s := range m.sinks {
		if err := s.SetTopology(ctx, top); err != nil {
			return err
		}
	}
	return nil
}

// ApplyFrame stops at the first failing sink.
func (m *Multi) ApplyFrame(ctx context.Context, buf models.VisualStateBuffer, frameIndex int) error {
	for _, s := range m.sinks {
		if err := s.ApplyFrame(ctx, buf, frameIndex); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink and joins their errors.
func (m *Multi) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
