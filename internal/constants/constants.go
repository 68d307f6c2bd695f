// Package constants provides named constants used throughout the neurovis codebase.
// This centralizes defaults and file layout names for better maintainability.
package constants

// Visual state defaults, matching the reference render settings.
const (
	// DefaultBaseAlpha is the alpha of a neuron that did not spike in the current frame.
	DefaultBaseAlpha = 0.05

	// DefaultSpikeAlpha is the alpha of a neuron that spiked in the current frame.
	DefaultSpikeAlpha = 1.0

	// DefaultEmission is the emission strength handed to the render host (~ point brightness).
	DefaultEmission = 20.0

	// DefaultSize is the point size of a non-spiking neuron.
	DefaultSize = 0.05

	// DefaultSizeSpike is the point size of a spiking neuron.
	DefaultSizeSpike = 0.7

	// DefaultResolutionScale is the output resolution in percent; 100 is 1920x1080.
	DefaultResolutionScale = 100
)

// Palette constants
const (
	// HueSpan is the fraction of the hue wheel spread across all neuron types.
	// Stopping short of 1.0 keeps the first and last type from sharing a hue.
	HueSpan = 0.9
)

// Frame range defaults
const (
	DefaultFrameFrom = 0
	DefaultFrameTo   = 100
	DefaultFrameStep = 1
	DefaultNodeIndex = 1
)

// Input layout
const (
	// SpikesDir is the per-group directory holding spike files. It is never a group.
	SpikesDir = "spikes"

	// NeuronFileExt is the extension of neuron type files inside a group directory.
	NeuronFileExt = ".txt"

	// SpikeFileSuffix is appended to the type name to form its spike file name.
	SpikeFileSuffix = "_spikes.txt"
)

// Output file names
const (
	DefaultLegendFile    = "out_legend.json"
	DefaultNeuronsFile   = "out_neurons.db"
	DefaultPositionsFile = "out_neurons_positions.db"
	TopologyFile         = "topology.json"
	FramesFile           = "frames.jsonl"
	FrameTraceFile       = "frames-trace.jsonl"
	NeuronsArrowFile     = "neurons.arrows"
	FramesArrowFile      = "frames.arrows"
	SpikeMapFile         = "spikes-map-debug-only.bmp"
)
