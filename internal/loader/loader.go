// Package loader parses neuron position files and spike-time files.
//
// Both formats are whitespace-delimited text, one record per line:
//
//	<type>.txt                 id x y z polarity
//	spikes/<type>_spikes.txt   id time
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/nvandessel/neurovis/internal/models"
)

// maxLineBytes bounds a single input line.
const maxLineBytes = 1024 * 1024

// LoadNeurons reads a neuron file and returns its neurons in file order,
// each owned by typ. Any unparseable record fails the whole load.
func LoadNeurons(path string, typ *models.NeuronType) ([]*models.Neuron, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening neuron file: %w", err)
	}
	defer f.Close()

	return ParseNeurons(f, path, typ)
}

// ParseNeurons reads neuron records from r. name identifies the source in errors.
func ParseNeurons(r io.Reader, name string, typ *models.NeuronType) ([]*models.Neuron, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var neurons []*models.Neuron
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		n, reason := parseNeuron(fields)
		if reason != "" {
			return nil, &MalformedRecordError{File: name, Line: lineNum, Content: line, Reason: reason}
		}
		n.Type = typ
		neurons = append(neurons, n)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	return neurons, nil
}

// parseNeuron builds a neuron from one record's fields. A non-empty
// reason means the record is malformed.
func parseNeuron(fields []string) (*models.Neuron, string) {
	if len(fields) < 5 {
		return nil, fmt.Sprintf("expected 5 fields (id x y z polarity), got %d", len(fields))
	}

	id, err := NormalizeID(fields[0])
	if err != nil {
		return nil, fmt.Sprintf("invalid id %q", fields[0])
	}

	var xyz [3]float64
	for i := range xyz {
		v, err := parseFloat(fields[i+1])
		if err != nil {
			return nil, fmt.Sprintf("invalid coordinate %q", fields[i+1])
		}
		xyz[i] = v
	}

	return &models.Neuron{
		ID:       id,
		Pos:      models.Position{X: xyz[0], Y: xyz[1], Z: xyz[2]},
		Polarity: models.Polarity(fields[4]),
	}, ""
}

// LoadSpikes reads a spike file into a map of normalized id to spike times
// in file order. Lines without exactly two fields are skipped. A missing
// file is reported as *MissingSpikeFileError.
func LoadSpikes(path string) (map[string][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &MissingSpikeFileError{Path: path}
		}
		return nil, fmt.Errorf("opening spike file: %w", err)
	}
	defer f.Close()

	return ParseSpikes(f, path)
}

// ParseSpikes reads spike records from r. name identifies the source in errors.
func ParseSpikes(r io.Reader, name string) (map[string][]float64, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	spikes := make(map[string][]float64)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}

		id, err := NormalizeID(fields[0])
		if err != nil {
			return nil, &MalformedRecordError{File: name, Line: lineNum, Content: line, Reason: fmt.Sprintf("invalid id %q", fields[0])}
		}
		t, err := parseFloat(fields[1])
		if err != nil {
			return nil, &MalformedRecordError{File: name, Line: lineNum, Content: line, Reason: fmt.Sprintf("invalid spike time %q", fields[1])}
		}
		spikes[id] = append(spikes[id], t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	return spikes, nil
}

// TimeAccumulator collects every attached spike time for the timeline.
type TimeAccumulator struct {
	times []float64
}

// Add appends times in order.
func (a *TimeAccumulator) Add(times ...float64) {
	a.times = append(a.times, times...)
}

// Times returns the accumulated times, duplicates included.
func (a *TimeAccumulator) Times() []float64 {
	return a.times
}

// AttachSpikes gives each neuron whose id appears in spikes that id's full
// spike list, replacing whatever it had, and feeds the times to acc.
// Neurons without a match keep an empty list. acc may be nil.
func AttachSpikes(neurons []*models.Neuron, spikes map[string][]float64, acc *TimeAccumulator) {
	for _, n := range neurons {
		times, ok := spikes[n.ID]
		if !ok {
			continue
		}
		n.Spikes = slices.Clone(times)
		if acc != nil {
			acc.Add(n.Spikes...)
		}
	}
}

// FormatNeuron writes a neuron back as an "id x y z polarity" record.
func FormatNeuron(n *models.Neuron) string {
	return strings.Join([]string{
		n.ID,
		strconv.FormatFloat(n.Pos.X, 'g', -1, 64),
		strconv.FormatFloat(n.Pos.Y, 'g', -1, 64),
		strconv.FormatFloat(n.Pos.Z, 'g', -1, 64),
		string(n.Polarity),
	}, " ")
}
