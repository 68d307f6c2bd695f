// Package encoder turns a simulation time into per-neuron visual state.
//
// Encoding is pure and frame-independent: any frame can be computed in
// isolation from the flattened neurons, their type colors and Params.
package encoder

import (
	"github.com/c2h5oh/datasize"

	"github.com/nvandessel/neurovis/internal/models"
)

// stateBytes is the in-memory size of one models.VisualState (five float64s).
const stateBytes = 5 * 8

// Params holds the visual constants applied to every frame.
type Params struct {
	BaseAlpha  float64
	SpikeAlpha float64
	Size       float64
	SizeSpike  float64
}

// state returns the visual state of n at time t.
func (p Params) state(n *models.Neuron, t float64) (models.VisualState, bool) {
	if n.IsSpiked(t) {
		return models.VisualState{Color: n.Color(), Alpha: p.SpikeAlpha, Size: p.SizeSpike}, true
	}
	return models.VisualState{Color: n.Color(), Alpha: p.BaseAlpha, Size: p.Size}, false
}

// EncodeFrame returns a fresh buffer with one state per neuron, in order.
// A neuron that spiked at exactly t gets SpikeAlpha and SizeSpike, every
// other neuron BaseAlpha and Size; the color always comes from its type.
func EncodeFrame(neurons []*models.Neuron, t float64, p Params) models.VisualStateBuffer {
	states := make([]models.VisualState, len(neurons))
	for i, n := range neurons {
		states[i], _ = p.state(n, t)
	}
	return models.VisualStateBuffer{Time: t, States: states}
}

// Encoder encodes frames into a single reusable buffer. Each call
// overwrites every entry, so a returned buffer is only valid until the
// next Encode; use Clone to keep one.
type Encoder struct {
	neurons []*models.Neuron
	params  Params
	states  []models.VisualState
}

// New returns an Encoder for the flattened neurons.
func New(neurons []*models.Neuron, p Params) *Encoder {
	return &Encoder{
		neurons: neurons,
		params:  p,
		states:  make([]models.VisualState, len(neurons)),
	}
}

// Encode computes the frame at time t and reports how many neurons spiked.
func (e *Encoder) Encode(t float64) (models.VisualStateBuffer, int) {
	spiked := 0
	for i, n := range e.neurons {
		s, ok := e.params.state(n, t)
		e.states[i] = s
		if ok {
			spiked++
		}
	}
	return models.VisualStateBuffer{Time: t, States: e.states}, spiked
}

// Params returns the encoder's visual constants.
func (e *Encoder) Params() Params { return e.params }

// BufferSize is the memory held by one frame buffer of n neurons.
func BufferSize(n int) datasize.ByteSize {
	return datasize.ByteSize(n * stateBytes)
}
