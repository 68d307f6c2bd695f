package sink

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nvandessel/neurovis/internal/constants"
	"github.com/nvandessel/neurovis/internal/models"
	"github.com/nvandessel/neurovis/internal/render"
)

// JSONLSink writes topology.json once and one FrameRecord per line to frames.jsonl.
type JSONLSink struct {
	dir    string
	file   *os.File
	w      *bufio.Writer
	enc    *json.Encoder
	frames int
}

// NewJSONLSink creates dir and truncates frames.jsonl inside it.
func NewJSONLSink(dir string) (*JSONLSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, constants.FramesFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create frames file: %w", err)
	}

	w := bufio.NewWriter(f)
	return &JSONLSink{dir: dir, file: f, w: w, enc: json.NewEncoder(w)}, nil
}

// SetTopology writes topology.json.
func (s *JSONLSink) SetTopology(ctx context.Context, top render.Topology) error {
	data, err := json.MarshalIndent(topologyRecord(top), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal topology: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, constants.TopologyFile), data, 0644); err != nil {
		return fmt.Errorf("failed to write topology: %w", err)
	}
	return nil
}

// ApplyFrame appends one line to frames.jsonl.
func (s *JSONLSink) ApplyFrame(ctx context.Context, buf models.VisualStateBuffer, frameIndex int) error {
	rec := FrameRecord{Frame: frameIndex, Time: models.Number(buf.Time), States: buf.States}
	if err := s.enc.Encode(rec); err != nil {
		return fmt.Errorf("failed to write frame %d: %w", frameIndex, err)
	}
	s.frames++
	return nil
}

// Close flushes and closes frames.jsonl.
func (s *JSONLSink) Close() error {
	if s.file == nil {
		return nil
	}
	flushErr := s.w.Flush()
	closeErr := s.file.Close()
	s.file = nil
	if flushErr != nil {
		return fmt.Errorf("failed to flush frames: %w", flushErr)
	}
	return closeErr
}

// ReadFrames decodes a frames.jsonl file.
func ReadFrames(path string) ([]FrameRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var frames []FrameRecord
	dec := json.NewDecoder(f)
	for dec.More() {
		var rec FrameRecord
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("decoding %s record %d: %w", path, len(frames)+1, err)
		}
		frames = append(frames, rec)
	}
	return frames, nil
}
