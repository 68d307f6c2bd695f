package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/nvandessel/neurovis/internal/constants"
	"github.com/nvandessel/neurovis/internal/models"
	"github.com/nvandessel/neurovis/internal/render"
)

// NeuronsSchema is the schema of neurons.arrows: one row per neuron in render order.
var NeuronsSchema = arrow.NewSchema([]arrow.Field{
	{Name: "index", Type: arrow.PrimitiveTypes.Int64},
	{Name: "id", Type: arrow.BinaryTypes.String},
	{Name: "group", Type: arrow.BinaryTypes.String},
	{Name: "type", Type: arrow.BinaryTypes.String},
	{Name: "x", Type: arrow.PrimitiveTypes.Float64},
	{Name: "y", Type: arrow.PrimitiveTypes.Float64},
	{Name: "z", Type: arrow.PrimitiveTypes.Float64},
	{Name: "polarity", Type: arrow.BinaryTypes.String},
	{Name: "r", Type: arrow.PrimitiveTypes.Float64},
	{Name: "g", Type: arrow.PrimitiveTypes.Float64},
	{Name: "b", Type: arrow.PrimitiveTypes.Float64},
}, nil)

// FramesSchema is the schema of frames.arrows: one record batch per frame,
// one row per neuron.
var FramesSchema = arrow.NewSchema([]arrow.Field{
	{Name: "frame", Type: arrow.PrimitiveTypes.Int64},
	{Name: "time", Type: arrow.PrimitiveTypes.Float64},
	{Name: "index", Type: arrow.PrimitiveTypes.Int64},
	{Name: "r", Type: arrow.PrimitiveTypes.Float64},
	{Name: "g", Type: arrow.PrimitiveTypes.Float64},
	{Name: "b", Type: arrow.PrimitiveTypes.Float64},
	{Name: "alpha", Type: arrow.PrimitiveTypes.Float64},
	{Name: "size", Type: arrow.PrimitiveTypes.Float64},
}, nil)

// ArrowSink writes the render as two Arrow IPC streams.
type ArrowSink struct {
	dir        string
	mem        memory.Allocator
	frameFile  *os.File
	frameW     *ipc.Writer
	frameBuild *array.RecordBuilder
}

// NewArrowSink creates dir and opens frames.arrows for writing.
func NewArrowSink(dir string) (*ArrowSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, constants.FramesArrowFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create frames stream: %w", err)
	}

	mem := memory.NewGoAllocator()
	return &ArrowSink{
		dir:        dir,
		mem:        mem,
		frameFile:  f,
		frameW:     ipc.NewWriter(f, ipc.WithSchema(FramesSchema), ipc.WithAllocator(mem)),
		frameBuild: array.NewRecordBuilder(mem, FramesSchema),
	}, nil
}

// SetTopology writes neurons.arrows as a single record batch. The stream
// schema carries the host settings and the timeline length and bounds as
// metadata.
func (s *ArrowSink) SetTopology(ctx context.Context, top render.Topology) error {
	keys := []string{"emission", "resolution_scale"}
	values := []string{
		strconv.FormatFloat(top.Host.Emission, 'g', -1, 64),
		strconv.Itoa(top.Host.ResolutionScale),
	}
	if top.Timeline != nil {
		keys = append(keys, "frames", "time_min", "time_max")
		values = append(values,
			strconv.Itoa(top.Timeline.Len()),
			strconv.FormatFloat(top.Timeline.Min(), 'g', -1, 64),
			strconv.FormatFloat(top.Timeline.Max(), 'g', -1, 64),
		)
	}
	md := arrow.NewMetadata(keys, values)
	schema := arrow.NewSchema(NeuronsSchema.Fields(), &md)

	b := array.NewRecordBuilder(s.mem, schema)
	defer b.Release()

	for _, rec := range NeuronRecords(top.Neurons) {
		b.Field(0).(*array.Int64Builder).Append(int64(rec.Index))
		b.Field(1).(*array.StringBuilder).Append(rec.ID)
		b.Field(2).(*array.StringBuilder).Append(rec.Group)
		b.Field(3).(*array.StringBuilder).Append(rec.Type)
		b.Field(4).(*array.Float64Builder).Append(float64(rec.X))
		b.Field(5).(*array.Float64Builder).Append(float64(rec.Y))
		b.Field(6).(*array.Float64Builder).Append(float64(rec.Z))
		b.Field(7).(*array.StringBuilder).Append(string(rec.Polarity))
		b.Field(8).(*array.Float64Builder).Append(rec.Color.R)
		b.Field(9).(*array.Float64Builder).Append(rec.Color.G)
		b.Field(10).(*array.Float64Builder).Append(rec.Color.B)
	}

	rec := b.NewRecord()
	defer rec.Release()

	f, err := os.Create(filepath.Join(s.dir, constants.NeuronsArrowFile))
	if err != nil {
		return fmt.Errorf("failed to create neurons stream: %w", err)
	}
	defer f.Close()

	w := ipc.NewWriter(f, ipc.WithSchema(schema), ipc.WithAllocator(s.mem))
	if err := w.Write(rec); err != nil {
		w.Close()
		return fmt.Errorf("failed to write neurons: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close neurons stream: %w", err)
	}
	return f.Close()
}

// ApplyFrame appends one record batch to frames.arrows.
func (s *ArrowSink) ApplyFrame(ctx context.Context, buf models.VisualStateBuffer, frameIndex int) error {
	b := s.frameBuild

	frames := b.Field(0).(*array.Int64Builder)
	times := b.Field(1).(*array.Float64Builder)
	idx := b.Field(2).(*array.Int64Builder)
	rs := b.Field(3).(*array.Float64Builder)
	gs := b.Field(4).(*array.Float64Builder)
	bs := b.Field(5).(*array.Float64Builder)
	alphas := b.Field(6).(*array.Float64Builder)
	sizes := b.Field(7).(*array.Float64Builder)

	for i, st := range buf.States {
		frames.Append(int64(frameIndex))
		times.Append(buf.Time)
		idx.Append(int64(i))
		rs.Append(st.Color.R)
		gs.Append(st.Color.G)
		bs.Append(st.Color.B)
		alphas.Append(st.Alpha)
		sizes.Append(st.Size)
	}

	rec := b.NewRecord()
	defer rec.Release()

	if err := s.frameW.Write(rec); err != nil {
		return fmt.Errorf("failed to write frame %d: %w", frameIndex, err)
	}
	return nil
}

// Close ends the frames stream.
func (s *ArrowSink) Close() error {
	if s.frameFile == nil {
		return nil
	}
	s.frameBuild.Release()
	werr := s.frameW.Close()
	ferr := s.frameFile.Close()
	s.frameFile = nil
	if werr != nil {
		return fmt.Errorf("failed to close frames stream: %w", werr)
	}
	return ferr
}
