package models

// VisualState is the rendered look of one neuron in one frame.
type VisualState struct {
	Color RGB     `json:"color"`
	Alpha float64 `json:"alpha"`
	Size  float64 `json:"size"`
}

// VisualStateBuffer holds one VisualState per flattened neuron, in flattened order.
type VisualStateBuffer struct {
	Time   float64       `json:"time"`
	States []VisualState `json:"states"`
}

// RGBA returns the state packed as r, g, b, alpha, the layout of a host pixel buffer.
func (s VisualState) RGBA() [4]float64 {
	return [4]float64{s.Color.R, s.Color.G, s.Color.B, s.Alpha}
}

// Clone returns a deep copy so callers can keep a frame after the encoder reuses its buffer.
func (b VisualStateBuffer) Clone() VisualStateBuffer {
	states := make([]VisualState, len(b.States))
	copy(states, b.States)
	return VisualStateBuffer{Time: b.Time, States: states}
}
