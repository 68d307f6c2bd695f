package sink

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"

	"github.com/nvandessel/neurovis/internal/constants"
)

// readStream returns every record in an Arrow IPC stream file. The
// caller must Release each record.
func readStream(t *testing.T, path string) (*arrow.Schema, []arrow.Record) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer f.Close()

	r, err := ipc.NewReader(f)
	if err != nil {
		t.Fatalf("ipc.NewReader() error = %v", err)
	}
	defer r.Release()

	var recs []arrow.Record
	for r.Next() {
		rec := r.Record()
		rec.Retain()
		recs = append(recs, rec)
	}
	if err := r.Err(); err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return r.Schema(), recs
}

func TestArrowSink(t *testing.T) {
	dir := t.TempDir()
	s, err := NewArrowSink(dir)
	if err != nil {
		t.Fatalf("NewArrowSink() error = %v", err)
	}
	runAll(t, s, testTopology(t))

	schema, neurons := readStream(t, filepath.Join(dir, constants.NeuronsArrowFile))
	defer func() {
		for _, r := range neurons {
			r.Release()
		}
	}()
	if len(neurons) != 1 || neurons[0].NumRows() != 3 {
		t.Fatalf("neurons stream = %d records", len(neurons))
	}
	for key, want := range map[string]string{"frames": "2", "emission": "12.5", "resolution_scale": "50"} {
		if v, ok := schema.Metadata().GetValue(key); !ok || v != want {
			t.Errorf("%s metadata = %q, %v; want %q", key, v, ok, want)
		}
	}
	ids := neurons[0].Column(1).(*array.String)
	groups := neurons[0].Column(2).(*array.String)
	xs := neurons[0].Column(4).(*array.Float64)
	if ids.Value(2) != "1.0" || groups.Value(2) != "B" || xs.Value(1) != 1.5 {
		t.Errorf("neuron row values: id=%q group=%q x=%v", ids.Value(2), groups.Value(2), xs.Value(1))
	}

	_, frames := readStream(t, filepath.Join(dir, constants.FramesArrowFile))
	defer func() {
		for _, r := range frames {
			r.Release()
		}
	}()
	if len(frames) != 2 {
		t.Fatalf("frames stream = %d records, want 2", len(frames))
	}
	for i, rec := range frames {
		if rec.NumRows() != 3 {
			t.Errorf("frame %d has %d rows, want 3", i, rec.NumRows())
		}
		if got := rec.Column(0).(*array.Int64).Value(0); got != int64(i) {
			t.Errorf("frame column = %d, want %d", got, i)
		}
	}

	// t=2.0: A:2.0 (row 1) spiked.
	alphas := frames[1].Column(6).(*array.Float64)
	if frames[1].Column(1).(*array.Float64).Value(0) != 2.0 {
		t.Errorf("frame 1 time = %v", frames[1].Column(1).(*array.Float64).Value(0))
	}
	if alphas.Value(0) != 0.05 || alphas.Value(1) != 1 {
		t.Errorf("frame 1 alphas = %v, %v", alphas.Value(0), alphas.Value(1))
	}
}

func TestArrowSink_CloseTwice(t *testing.T) {
	s, err := NewArrowSink(t.TempDir())
	if err != nil {
		t.Fatalf("NewArrowSink() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
