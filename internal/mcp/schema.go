package mcp

import (
	"github.com/nvandessel/neurovis/internal/models"
	"github.com/nvandessel/neurovis/internal/palette"
	"github.com/nvandessel/neurovis/internal/topology"
)

// TopologyInput defines the input for neurovis_topology tool.
type TopologyInput struct {
	Group          string `json:"group,omitempty" jsonschema:"Only report types of this group"`
	IncludeNeurons bool   `json:"include_neurons,omitempty" jsonschema:"Include every neuron with its position (can be large)"`
}

// TopologyOutput defines the output for neurovis_topology tool.
type TopologyOutput struct {
	Dataset string                `json:"dataset"`
	Stats   topology.Stats        `json:"stats"`
	Legend  []palette.LegendEntry `json:"legend"`
	Neurons []NeuronItem          `json:"neurons,omitempty"`
}

// NeuronItem is one neuron in render order.
type NeuronItem struct {
	Index    int             `json:"index"`
	ID       string          `json:"id"`
	Group    string          `json:"group"`
	Type     string          `json:"type"`
	Pos      Point           `json:"pos"`
	Polarity models.Polarity `json:"polarity"`
	Spikes   int             `json:"spikes"`
}

// Point is a neuron position. Coordinates that are not finite are
// reported as "inf", "-inf" or "nan".
type Point struct {
	X models.Number `json:"x"`
	Y models.Number `json:"y"`
	Z models.Number `json:"z"`
}

// TimelineInput defines the input for neurovis_timeline tool.
type TimelineInput struct {
	Offset int `json:"offset,omitempty" jsonschema:"First frame index to list (default 0)"`
	Limit  int `json:"limit,omitempty" jsonschema:"Maximum number of times to list (default 100, max 10000)"`
}

// TimelineOutput defines the output for neurovis_timeline tool.
type TimelineOutput struct {
	Frames  int             `json:"frames"`
	TimeMin models.Number   `json:"time_min"`
	TimeMax models.Number   `json:"time_max"`
	Offset  int             `json:"offset"`
	Times   []models.Number `json:"times"`
}

// FrameInput defines the input for neurovis_frame tool.
type FrameInput struct {
	Frame         *int     `json:"frame,omitempty" jsonschema:"Frame index on the timeline"`
	Time          *float64 `json:"time,omitempty" jsonschema:"Simulation time to encode (exact match against spike times)"`
	IncludeStates bool     `json:"include_states,omitempty" jsonschema:"Include the full per-neuron visual state buffer"`
}

// FrameOutput defines the output for neurovis_frame tool.
type FrameOutput struct {
	Frame   int                  `json:"frame"` // -1 when the time is not on the timeline
	Time    models.Number        `json:"time"`
	Spiked  int                  `json:"spiked"`
	Neurons []SpikedNeuron       `json:"spiked_neurons"`
	States  []models.VisualState `json:"states,omitempty"`
}

// SpikedNeuron identifies a neuron that fired in the requested frame.
type SpikedNeuron struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
	Group string `json:"group"`
	Type  string `json:"type"`
}
