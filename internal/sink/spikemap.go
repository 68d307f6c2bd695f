package sink

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/nvandessel/neurovis/internal/models"
	"github.com/nvandessel/neurovis/internal/render"
)

// SpikeMapSink keeps one pixel per neuron and saves the last applied frame
// as a BMP on Close. Only node 1 writes the file.
type SpikeMapSink struct {
	path      string
	nodeIndex int
	img       *image.NRGBA
	applied   bool
}

// NewSpikeMapSink returns a spike map sink writing to path.
func NewSpikeMapSink(path string, nodeIndex int) *SpikeMapSink {
	return &SpikeMapSink{path: path, nodeIndex: nodeIndex}
}

// SetTopology sizes the image to len(neurons) x 1 and paints type colors
// at full opacity.
func (s *SpikeMapSink) SetTopology(ctx context.Context, top render.Topology) error {
	s.img = image.NewNRGBA(image.Rect(0, 0, len(top.Neurons), 1))
	for i, n := range top.Neurons {
		s.img.SetNRGBA(i, 0, toNRGBA(n.Color(), 1))
	}
	return nil
}

// ApplyFrame overwrites every pixel with the frame's color and alpha.
func (s *SpikeMapSink) ApplyFrame(ctx context.Context, buf models.VisualStateBuffer, frameIndex int) error {
	if s.img == nil {
		return fmt.Errorf("frame %d applied before topology", frameIndex)
	}
	if len(buf.States) != s.img.Bounds().Dx() {
		return fmt.Errorf("frame %d has %d states, spike map has %d pixels", frameIndex, len(buf.States), s.img.Bounds().Dx())
	}
	for i, st := range buf.States {
		s.img.SetNRGBA(i, 0, toNRGBA(st.Color, st.Alpha))
	}
	s.applied = true
	return nil
}

// Close writes the image when this is node 1 and a frame was applied.
func (s *SpikeMapSink) Close() error {
	if s.nodeIndex > 1 || !s.applied || s.img.Bounds().Empty() {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := imgio.Save(s.path, s.img, imgio.BMPEncoder()); err != nil {
		return fmt.Errorf("failed to save spike map: %w", err)
	}
	return nil
}

func toNRGBA(c models.RGB, alpha float64) color.NRGBA {
	return color.NRGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: channel(alpha)}
}

// channel maps [0,1] to [0,255], clamping out-of-range values.
func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
