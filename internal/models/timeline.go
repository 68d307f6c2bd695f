package models

import (
	"math"
	"slices"
	"sort"
)

// SimulationTimeline is the ascending set of distinct spike timestamps.
// Frame i renders time At(i). A timeline is immutable once built.
type SimulationTimeline struct {
	times []float64
}

// NewSimulationTimeline sorts and deduplicates times into a timeline.
// NaN timestamps can never match a spike and are dropped. The input is not modified.
func NewSimulationTimeline(times []float64) *SimulationTimeline {
	sorted := make([]float64, 0, len(times))
	for _, t := range times {
		if !math.IsNaN(t) {
			sorted = append(sorted, t)
		}
	}
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	return &SimulationTimeline{times: sorted}
}

// Len returns the number of frames.
func (tl *SimulationTimeline) Len() int { return len(tl.times) }

// Min returns the earliest spike time, or 0 for an empty timeline.
func (tl *SimulationTimeline) Min() float64 {
	if len(tl.times) == 0 {
		return 0
	}
	return tl.times[0]
}

// Max returns the latest spike time, or 0 for an empty timeline.
func (tl *SimulationTimeline) Max() float64 {
	if len(tl.times) == 0 {
		return 0
	}
	return tl.times[len(tl.times)-1]
}

// At returns the timestamp of frame i. It panics if i is out of range.
func (tl *SimulationTimeline) At(i int) float64 { return tl.times[i] }

// IndexOf returns the frame index of t and whether t is on the timeline.
func (tl *SimulationTimeline) IndexOf(t float64) (int, bool) {
	i := sort.SearchFloat64s(tl.times, t)
	if i < len(tl.times) && tl.times[i] == t {
		return i, true
	}
	return -1, false
}

// Times returns a copy of the timestamps in frame order.
func (tl *SimulationTimeline) Times() []float64 {
	return slices.Clone(tl.times)
}
