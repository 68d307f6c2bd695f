// Package models defines the neuron topology and per-frame visual state types.
package models

import (
	"errors"
	"slices"
)

// ErrColorAlreadySet is returned when a neuron type's color is assigned twice.
var ErrColorAlreadySet = errors.New("neuron type color already assigned")

// Polarity is the raw excitatory/inhibitory tag read from a neuron record.
// It is carried through to sinks but never used for color or size.
type Polarity string

const (
	PolarityExcitatory Polarity = "E"
	PolarityInhibitory Polarity = "I"
)

// Position is a neuron's location in 3D space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// RGB is a display color with components in [0,1].
type RGB struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// Neuron is a single point in the visualization.
type Neuron struct {
	// ID is the normalized join key shared with the spike file
	ID  string   `json:"id"`
	Pos Position `json:"pos"`

	// Spikes holds spike times in file order. Set once during assembly.
	Spikes []float64 `json:"spikes,omitempty"`

	// Type is a non-owning back reference to the owning type
	Type     *NeuronType `json:"-"`
	Polarity Polarity    `json:"polarity"`
}

// IsSpiked reports whether the neuron fired at exactly t.
// Timestamps are compared with exact float equality; there is no tolerance window.
func (n *Neuron) IsSpiked(t float64) bool {
	return slices.Contains(n.Spikes, t)
}

// Color returns the color of the neuron's type, or black when it has no type.
func (n *Neuron) Color() RGB {
	if n.Type == nil {
		return RGB{}
	}
	return n.Type.Color
}

// NeuronType is a named population of neurons inside a group.
type NeuronType struct {
	Name    string
	Group   *NeuronGroup
	Neurons []*Neuron

	// Color is unset (ColorSet == false) until the palette assigns it.
	Color    RGB
	ColorSet bool
}

// SetColor assigns the display color. A type is colored exactly once.
func (t *NeuronType) SetColor(c RGB) error {
	if t.ColorSet {
		return ErrColorAlreadySet
	}
	t.Color = c
	t.ColorSet = true
	return nil
}

// GetSpiked returns the neurons of this type that fired at t.
func (t *NeuronType) GetSpiked(time float64) []*Neuron {
	var spiked []*Neuron
	for _, n := range t.Neurons {
		if n.IsSpiked(time) {
			spiked = append(spiked, n)
		}
	}
	return spiked
}

// GroupName returns the name of the owning group, or "" if detached.
func (t *NeuronType) GroupName() string {
	if t.Group == nil {
		return ""
	}
	return t.Group.Name
}

// NeuronGroup is a named collection of neuron types (e.g. BG, M1, S1, TH_M1).
type NeuronGroup struct {
	Name  string
	Types []*NeuronType
}

// AddType creates a type owned by g and appends it in traversal order.
func (g *NeuronGroup) AddType(name string) *NeuronType {
	t := &NeuronType{Name: name, Group: g}
	g.Types = append(g.Types, t)
	return t
}

// GetSpiked returns every neuron of the group that fired at t, type by type.
func (g *NeuronGroup) GetSpiked(time float64) []*Neuron {
	var spiked []*Neuron
	for _, t := range g.Types {
		spiked = append(spiked, t.GetSpiked(time)...)
	}
	return spiked
}

// NeuronCount returns the total number of neurons across the group's types.
func (g *NeuronGroup) NeuronCount() int {
	n := 0
	for _, t := range g.Types {
		n += len(t.Neurons)
	}
	return n
}
