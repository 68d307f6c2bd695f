package loader

import (
	"fmt"
	"io/fs"
)

// MalformedRecordError reports a record that could not be parsed.
// It is fatal: the dataset is loaded all-or-nothing.
type MalformedRecordError struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Content string `json:"content"`
	Reason  string `json:"reason"`
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%s:%d: malformed record %q: %s", e.File, e.Line, e.Content, e.Reason)
}

// MissingSpikeFileError reports a neuron type without a spike file.
// Callers treat it as "no neuron of this type ever spikes".
type MissingSpikeFileError struct {
	Path string `json:"path"`
}

func (e *MissingSpikeFileError) Error() string {
	return fmt.Sprintf("spike file not found: %s", e.Path)
}

// Unwrap lets errors.Is(err, fs.ErrNotExist) match.
func (e *MissingSpikeFileError) Unwrap() error {
	return fs.ErrNotExist
}
