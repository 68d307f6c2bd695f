package sink

import (
	"github.com/nvandessel/neurovis/internal/models"
	"github.com/nvandessel/neurovis/internal/palette"
	"github.com/nvandessel/neurovis/internal/render"
)

// NeuronRecord is the flattened, serializable form of one neuron.
type NeuronRecord struct {
	Index    int             `json:"index"`
	ID       string          `json:"id"`
	Group    string          `json:"group"`
	Type     string          `json:"type"`
	X        models.Number   `json:"x"`
	Y        models.Number   `json:"y"`
	Z        models.Number   `json:"z"`
	Polarity models.Polarity `json:"polarity"`
	Color    models.RGB      `json:"color"`
}

// TopologyRecord is the document written once per render.
type TopologyRecord struct {
	Neurons  []NeuronRecord        `json:"neurons"`
	Legend   []palette.LegendEntry `json:"legend"`
	Frames   int                   `json:"frames"`
	TimeMin  models.Number         `json:"time_min"`
	TimeMax  models.Number         `json:"time_max"`
	Timeline []models.Number       `json:"timeline"`

	Emission        float64 `json:"emission"`
	ResolutionScale int     `json:"resolution_scale"`
}

// FrameRecord is one line of frames.jsonl.
type FrameRecord struct {
	Frame  int                  `json:"frame"`
	Time   models.Number        `json:"time"`
	States []models.VisualState `json:"states"`
}

// NeuronRecords flattens neurons in render order.
func NeuronRecords(neurons []*models.Neuron) []NeuronRecord {
	out := make([]NeuronRecord, len(neurons))
	for i, n := range neurons {
		rec := NeuronRecord{
			Index:    i,
			ID:       n.ID,
			X:        models.Number(n.Pos.X),
			Y:        models.Number(n.Pos.Y),
			Z:        models.Number(n.Pos.Z),
			Polarity: n.Polarity,
			Color:    n.Color(),
		}
		if n.Type != nil {
			rec.Group = n.Type.GroupName()
			rec.Type = n.Type.Name
		}
		out[i] = rec
	}
	return out
}

func topologyRecord(top render.Topology) TopologyRecord {
	rec := TopologyRecord{
		Neurons:         NeuronRecords(top.Neurons),
		Legend:          top.Legend,
		Emission:        top.Host.Emission,
		ResolutionScale: top.Host.ResolutionScale,
	}
	if top.Timeline != nil {
		rec.Frames = top.Timeline.Len()
		rec.TimeMin = models.Number(top.Timeline.Min())
		rec.TimeMax = models.Number(top.Timeline.Max())
		rec.Timeline = models.Numbers(top.Timeline.Times())
	}
	return rec
}
