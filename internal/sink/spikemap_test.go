package sink

import (
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/nvandessel/neurovis/internal/models"
)

func TestSpikeMapSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spikes-map-debug-only.bmp")
	s := NewSpikeMapSink(path, 1)
	runAll(t, s, testTopology(t))

	img, err := imgio.Open(path)
	if err != nil {
		t.Fatalf("imgio.Open() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 1 {
		t.Errorf("image size = %dx%d, want 3x1", b.Dx(), b.Dy())
	}
}

func TestSpikeMapSink_LastFramePixels(t *testing.T) {
	s := NewSpikeMapSink(filepath.Join(t.TempDir(), "map.bmp"), 1)
	ctx := context.Background()
	top := testTopology(t)
	if err := s.SetTopology(ctx, top); err != nil {
		t.Fatalf("SetTopology() error = %v", err)
	}

	red := models.RGB{R: 1}
	buf := models.VisualStateBuffer{Time: 2, States: []models.VisualState{
		{Color: red, Alpha: 1},
		{Color: red, Alpha: 0},
		{Color: red, Alpha: 0.5},
	}}
	if err := s.ApplyFrame(ctx, buf, 1); err != nil {
		t.Fatalf("ApplyFrame() error = %v", err)
	}

	want := []color.NRGBA{
		{R: 255, A: 255},
		{R: 255, A: 0},
		{R: 255, A: 128},
	}
	for i, w := range want {
		if got := s.img.NRGBAAt(i, 0); got != w {
			t.Errorf("pixel %d = %+v, want %+v", i, got, w)
		}
	}
}

func TestSpikeMapSink_SecondaryNodeWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.bmp")
	s := NewSpikeMapSink(path, 2)
	runAll(t, s, testTopology(t))

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("spike map written on node 2: %v", err)
	}
}

func TestSpikeMapSink_NoFramesWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.bmp")
	s := NewSpikeMapSink(path, 1)
	if err := s.SetTopology(context.Background(), testTopology(t)); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("spike map written without frames: %v", err)
	}
}

func TestSpikeMapSink_FrameBeforeTopology(t *testing.T) {
	s := NewSpikeMapSink(filepath.Join(t.TempDir(), "map.bmp"), 1)
	if err := s.ApplyFrame(context.Background(), models.VisualStateBuffer{}, 0); err == nil {
		t.Error("expected error for frame before topology")
	}
}

func TestChannel(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{0, 0},
		{1, 255},
		{0.5, 128},
		{-1, 0},
		{2, 255},
	}
	for _, tt := range tests {
		if got := channel(tt.in); got != tt.want {
			t.Errorf("channel(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
