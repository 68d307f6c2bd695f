package constants

// SinkKind names a render sink implementation.
type SinkKind string

const (
	// SinkJSONL writes topology.json and one JSON line per frame
	SinkJSONL SinkKind = "jsonl"

	// SinkSQLite writes topology and frame states into a SQLite database
	SinkSQLite SinkKind = "sqlite"

	// SinkArrow writes Arrow IPC streams, one record batch per frame
	SinkArrow SinkKind = "arrow"

	// SinkSpikeMap writes the last frame as a one-pixel-per-neuron image
	SinkSpikeMap SinkKind = "spikemap"
)

// SinkKinds lists every known sink in display order.
var SinkKinds = []SinkKind{SinkJSONL, SinkSQLite, SinkArrow, SinkSpikeMap}

// Valid returns true if the sink kind is a recognized value.
func (k SinkKind) Valid() bool {
	switch k {
	case SinkJSONL, SinkSQLite, SinkArrow, SinkSpikeMap:
		return true
	}
	return false
}

// String returns the string representation of the sink kind.
func (k SinkKind) String() string {
	return string(k)
}
