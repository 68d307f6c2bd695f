// Package palette assigns one display color per neuron type.
package palette

import (
	"errors"
	"fmt"
	"math"

	"github.com/nvandessel/neurovis/internal/constants"
	"github.com/nvandessel/neurovis/internal/models"
)

// ErrNoTypes is returned when there is nothing to color: the hue step
// would divide by zero.
var ErrNoTypes = errors.New("no neuron types discovered: cannot compute hue step")

// LegendEntry pairs a type with its assigned color.
type LegendEntry struct {
	Key   string     `json:"key"`
	Group string     `json:"group"`
	Type  string     `json:"type"`
	Color models.RGB `json:"color"`
}

// AssignColors spreads fully saturated hues over the first 90% of the hue
// wheel in traversal order: type i gets hue i*0.9/len(types). Each type is
// colored exactly once.
func AssignColors(types []*models.NeuronType) error {
	if len(types) == 0 {
		return ErrNoTypes
	}

	hueStep := constants.HueSpan / float64(len(types))
	hue := 0.0
	for _, t := range types {
		if err := t.SetColor(HSVToRGB(hue, 1, 1)); err != nil {
			return fmt.Errorf("coloring %s: %w", ColorKey(t), err)
		}
		hue += hueStep
	}
	return nil
}

// HSVToRGB converts a hue/saturation/value triple in [0,1] to RGB using the
// six-sector model (the same results as Python's colorsys.hsv_to_rgb).
func HSVToRGB(h, s, v float64) models.RGB {
	if s == 0 {
		return models.RGB{R: v, G: v, B: v}
	}
	i := math.Floor(h * 6)
	f := h*6 - i
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	switch int(i) % 6 {
	case 0:
		return models.RGB{R: v, G: t, B: p}
	case 1:
		return models.RGB{R: q, G: v, B: p}
	case 2:
		return models.RGB{R: p, G: v, B: t}
	case 3:
		return models.RGB{R: p, G: q, B: v}
	case 4:
		return models.RGB{R: t, G: p, B: v}
	default:
		return models.RGB{R: v, G: p, B: q}
	}
}

// ColorKey identifies a type's material/legend entry as "<group>-<type>".
func ColorKey(t *models.NeuronType) string {
	return t.GroupName() + "-" + t.Name
}

// Legend lists the colored types in traversal order.
func Legend(types []*models.NeuronType) []LegendEntry {
	entries := make([]LegendEntry, 0, len(types))
	for _, t := range types {
		entries = append(entries, LegendEntry{
			Key:   ColorKey(t),
			Group: t.GroupName(),
			Type:  t.Name,
			Color: t.Color,
		})
	}
	return entries
}
