package mcp

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nvandessel/neurovis/internal/encoder"
	"github.com/nvandessel/neurovis/internal/models"
	"github.com/nvandessel/neurovis/internal/palette"
	"github.com/nvandessel/neurovis/internal/pathutil"
	"github.com/nvandessel/neurovis/internal/ratelimit"
	"github.com/nvandessel/neurovis/internal/topology"
)

const (
	defaultTimelineLimit = 100
	maxTimelineLimit     = 10000
)

// registerTools registers all neurovis MCP tools with the server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:         ratelimit.ToolTopology,
		Description:  "Describe the loaded neuron dataset: groups, types, counts, colors and optionally every neuron position",
		OutputSchema: mustOutputSchema[TopologyOutput](),
	}, s.handleTopology)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:         ratelimit.ToolTimeline,
		Description:  "List the simulation timeline: distinct spike times in ascending order, one per frame",
		OutputSchema: mustOutputSchema[TimelineOutput](),
	}, s.handleTimeline)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:         ratelimit.ToolFrame,
		Description:  "Encode one frame by index or simulation time and report which neurons spiked",
		OutputSchema: mustOutputSchema[FrameOutput](),
	}, s.handleFrame)
}

// mustOutputSchema infers the output schema of T, allowing models.Number
// fields to hold the "inf", "-inf" and "nan" strings they marshal to.
func mustOutputSchema[T any]() *jsonschema.Schema {
	schema, err := jsonschema.For[T](&jsonschema.ForOptions{
		TypeSchemas: map[reflect.Type]*jsonschema.Schema{
			reflect.TypeFor[models.Number](): {Types: []string{"number", "string"}},
		},
	})
	if err != nil {
		panic(fmt.Sprintf("output schema for %T: %v", *new(T), err))
	}
	return schema
}

func (s *Server) handleTopology(ctx context.Context, req *sdk.CallToolRequest, args TopologyInput) (_ *sdk.CallToolResult, _ TopologyOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool(ratelimit.ToolTopology, start, retErr, map[string]string{
			"group": args.Group, "include_neurons": strconv.FormatBool(args.IncludeNeurons),
		})
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, ratelimit.ToolTopology); err != nil {
		return nil, TopologyOutput{}, err
	}

	stats := s.dataset.Stats()
	legend := s.top.Legend
	if args.Group != "" {
		stats.PerType = filterTypeStats(stats.PerType, args.Group)
		if len(stats.PerType) == 0 {
			return nil, TopologyOutput{}, fmt.Errorf("unknown group: %q", args.Group)
		}
		legend = filterLegend(legend, args.Group)
	}

	out := TopologyOutput{
		Dataset: pathutil.RedactPath(s.dataset.Root),
		Stats:   stats,
		Legend:  legend,
	}
	if args.IncludeNeurons {
		out.Neurons = make([]NeuronItem, 0, len(s.top.Neurons))
		for i, n := range s.top.Neurons {
			group := n.Type.GroupName()
			if args.Group != "" && group != args.Group {
				continue
			}
			out.Neurons = append(out.Neurons, NeuronItem{
				Index:    i,
				ID:       n.ID,
				Group:    group,
				Type:     n.Type.Name,
				Pos:      Point{X: models.Number(n.Pos.X), Y: models.Number(n.Pos.Y), Z: models.Number(n.Pos.Z)},
				Polarity: n.Polarity,
				Spikes:   len(n.Spikes),
			})
		}
	}

	return nil, out, nil
}

func (s *Server) handleTimeline(ctx context.Context, req *sdk.CallToolRequest, args TimelineInput) (_ *sdk.CallToolResult, _ TimelineOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool(ratelimit.ToolTimeline, start, retErr, map[string]string{
			"offset": strconv.Itoa(args.Offset), "limit": strconv.Itoa(args.Limit),
		})
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, ratelimit.ToolTimeline); err != nil {
		return nil, TimelineOutput{}, err
	}

	tl := s.top.Timeline
	if args.Offset < 0 || args.Offset > tl.Len() {
		return nil, TimelineOutput{}, fmt.Errorf("offset %d outside timeline of %d frames", args.Offset, tl.Len())
	}
	limit := args.Limit
	if limit <= 0 {
		limit = defaultTimelineLimit
	}
	limit = min(limit, maxTimelineLimit)

	end := min(args.Offset+limit, tl.Len())
	times := make([]models.Number, 0, end-args.Offset)
	for i := args.Offset; i < end; i++ {
		times = append(times, models.Number(tl.At(i)))
	}

	return nil, TimelineOutput{
		Frames:  tl.Len(),
		TimeMin: models.Number(tl.Min()),
		TimeMax: models.Number(tl.Max()),
		Offset:  args.Offset,
		Times:   times,
	}, nil
}

func (s *Server) handleFrame(ctx context.Context, req *sdk.CallToolRequest, args FrameInput) (_ *sdk.CallToolResult, _ FrameOutput, retErr error) {
	start := time.Now()
	defer func() {
		params := map[string]string{"include_states": strconv.FormatBool(args.IncludeStates)}
		if args.Frame != nil {
			params["frame"] = strconv.Itoa(*args.Frame)
		}
		if args.Time != nil {
			params["time"] = strconv.FormatFloat(*args.Time, 'g', -1, 64)
		}
		s.auditTool(ratelimit.ToolFrame, start, retErr, params)
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, ratelimit.ToolFrame); err != nil {
		return nil, FrameOutput{}, err
	}

	frame, t, err := s.resolveFrame(args)
	if err != nil {
		return nil, FrameOutput{}, err
	}

	buf := encoder.EncodeFrame(s.top.Neurons, t, s.params)

	out := FrameOutput{Frame: frame, Time: models.Number(t), Neurons: []SpikedNeuron{}}
	for i, n := range s.top.Neurons {
		if !n.IsSpiked(t) {
			continue
		}
		out.Neurons = append(out.Neurons, SpikedNeuron{
			Index: i,
			ID:    n.ID,
			Group: n.Type.GroupName(),
			Type:  n.Type.Name,
		})
	}
	out.Spiked = len(out.Neurons)
	if args.IncludeStates {
		out.States = buf.States
	}

	return nil, out, nil
}

// resolveFrame maps a frame index or a time to both. A time that is not
// on the timeline still encodes, with frame -1.
func (s *Server) resolveFrame(args FrameInput) (int, float64, error) {
	tl := s.top.Timeline
	switch {
	case args.Frame != nil && args.Time != nil:
		return 0, 0, errors.New("specify either frame or time, not both")
	case args.Frame != nil:
		f := *args.Frame
		if f < 0 || f >= tl.Len() {
			return 0, 0, fmt.Errorf("frame %d outside timeline of %d frames", f, tl.Len())
		}
		return f, tl.At(f), nil
	case args.Time != nil:
		t := *args.Time
		if f, ok := tl.IndexOf(t); ok {
			return f, t, nil
		}
		return -1, t, nil
	default:
		return 0, 0, errors.New("frame or time is required")
	}
}

func filterTypeStats(stats []topology.TypeStats, group string) []topology.TypeStats {
	var out []topology.TypeStats
	for _, ts := range stats {
		if ts.Group == group {
			out = append(out, ts)
		}
	}
	return out
}

func filterLegend(legend []palette.LegendEntry, group string) []palette.LegendEntry {
	var out []palette.LegendEntry
	for _, e := range legend {
		if e.Group == group {
			out = append(out, e)
		}
	}
	return out
}
