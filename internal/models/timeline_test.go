package models

import (
	"math"
	"slices"
	"testing"
)

func TestNewSimulationTimeline_Dedup(t *testing.T) {
	want := []float64{1.0, 2.5, 4.0}
	orders := [][]float64{
		{1.0, 1.0, 2.5, 4.0},
		{4.0, 1.0, 2.5, 1.0},
		{2.5, 4.0, 1.0, 1.0},
	}

	for _, in := range orders {
		tl := NewSimulationTimeline(in)
		if got := tl.Times(); !slices.Equal(got, want) {
			t.Errorf("NewSimulationTimeline(%v) = %v, want %v", in, got, want)
		}
		if tl.Len() != 3 {
			t.Errorf("Len() = %d, want 3", tl.Len())
		}
		if tl.Min() != 1.0 || tl.Max() != 4.0 {
			t.Errorf("Min/Max = %v/%v, want 1/4", tl.Min(), tl.Max())
		}
	}
}

func TestNewSimulationTimeline_DoesNotModifyInput(t *testing.T) {
	in := []float64{3, 1, 2}
	NewSimulationTimeline(in)
	if !slices.Equal(in, []float64{3, 1, 2}) {
		t.Errorf("input modified: %v", in)
	}
}

func TestNewSimulationTimeline_DropsNaN(t *testing.T) {
	tl := NewSimulationTimeline([]float64{math.NaN(), 2, math.NaN()})
	if tl.Len() != 1 || tl.At(0) != 2 {
		t.Errorf("Times() = %v, want [2]", tl.Times())
	}
}

func TestSimulationTimeline_IndexOf(t *testing.T) {
	tl := NewSimulationTimeline([]float64{0.5, 1.5, 3.0})

	tests := []struct {
		time  float64
		want  int
		found bool
	}{
		{0.5, 0, true},
		{1.5, 1, true},
		{3.0, 2, true},
		{1.0, -1, false},
		{9.0, -1, false},
	}
	for _, tt := range tests {
		got, ok := tl.IndexOf(tt.time)
		if got != tt.want || ok != tt.found {
			t.Errorf("IndexOf(%v) = (%d, %v), want (%d, %v)", tt.time, got, ok, tt.want, tt.found)
		}
	}
}

func TestSimulationTimeline_Empty(t *testing.T) {
	tl := NewSimulationTimeline(nil)
	if tl.Len() != 0 || tl.Min() != 0 || tl.Max() != 0 {
		t.Errorf("empty timeline = len %d min %v max %v", tl.Len(), tl.Min(), tl.Max())
	}
}

func TestVisualStateBuffer_Clone(t *testing.T) {
	buf := VisualStateBuffer{Time: 1.5, States: []VisualState{{Alpha: 1, Size: 0.7}}}
	c := buf.Clone()
	buf.States[0].Alpha = 0
	if c.States[0].Alpha != 1 {
		t.Error("Clone shares the states slice")
	}
	if got := c.States[0].RGBA(); got[3] != 1 {
		t.Errorf("RGBA()[3] = %v, want 1", got[3])
	}
}
