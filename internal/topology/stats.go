package topology

import "github.com/nvandessel/neurovis/internal/models"

// TypeStats summarizes one neuron type.
type TypeStats struct {
	Group   string `json:"group"`
	Type    string `json:"type"`
	Neurons int    `json:"neurons"`
	Spiking int    `json:"spiking"`
	Spikes  int    `json:"spikes"`
}

// Stats summarizes a dataset for reporting.
type Stats struct {
	Groups         int           `json:"groups"`
	Types          int           `json:"types"`
	Neurons        int           `json:"neurons"`
	SpikingNeurons int           `json:"spiking_neurons"`
	Frames         int           `json:"frames"`
	TimeMin        models.Number `json:"time_min"`
	TimeMax        models.Number `json:"time_max"`
	PerType        []TypeStats   `json:"per_type"`
}

// Stats computes counts per type plus the timeline bounds.
func (d *Dataset) Stats() Stats {
	s := Stats{
		Groups:  len(d.Groups),
		Types:   len(d.Types),
		Neurons: len(d.Neurons),
	}
	if d.Timeline != nil {
		s.Frames = d.Timeline.Len()
		s.TimeMin = models.Number(d.Timeline.Min())
		s.TimeMax = models.Number(d.Timeline.Max())
	}

	for _, t := range d.Types {
		ts := TypeStats{Group: t.GroupName(), Type: t.Name, Neurons: len(t.Neurons)}
		for _, n := range t.Neurons {
			if len(n.Spikes) > 0 {
				ts.Spiking++
				ts.Spikes += len(n.Spikes)
			}
		}
		s.SpikingNeurons += ts.Spiking
		s.PerType = append(s.PerType, ts)
	}
	return s
}
