// Package topology discovers a dataset's groups and types on disk, assembles
// the Group → Type → Neuron tree and derives the simulation timeline.
package topology

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nvandessel/neurovis/internal/constants"
	"github.com/nvandessel/neurovis/internal/loader"
	"github.com/nvandessel/neurovis/internal/models"
	"github.com/nvandessel/neurovis/internal/palette"
)

// EmptyTimelineError is returned when no neuron in the dataset ever spikes,
// leaving the frame range undefined.
type EmptyTimelineError struct {
	Root string
}

func (e *EmptyTimelineError) Error() string {
	return fmt.Sprintf("no spikes found in dataset %s: timeline is empty", e.Root)
}

// Dataset is a fully assembled simulation dataset.
type Dataset struct {
	Root   string
	Groups []*models.NeuronGroup

	// Neurons is the flattened group → type → file order used by the encoder.
	Neurons []*models.Neuron

	// Types lists every type in the same traversal order; it drives color assignment.
	Types    []*models.NeuronType
	Timeline *models.SimulationTimeline
}

// Discover lists groups (top-level directories other than "spikes") and
// their types (*.txt files, named up to the first dot). Both are returned in
// lexicographic order. Types have no neurons yet.
func Discover(root string) ([]*models.NeuronGroup, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading dataset directory: %w", err)
	}

	var groups []*models.NeuronGroup
	for _, e := range entries {
		if !e.IsDir() || e.Name() == constants.SpikesDir {
			continue
		}
		group := &models.NeuronGroup{Name: e.Name()}

		files, err := os.ReadDir(filepath.Join(root, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading group %s: %w", e.Name(), err)
		}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), constants.NeuronFileExt) {
				continue
			}
			typeName, _, _ := strings.Cut(f.Name(), ".")
			if typeName == "" {
				continue
			}
			group.AddType(typeName)
		}
		groups = append(groups, group)
	}

	return groups, nil
}

// NeuronFilePath returns the neuron file of a type inside root.
func NeuronFilePath(root string, t *models.NeuronType) string {
	return filepath.Join(root, t.GroupName(), t.Name+constants.NeuronFileExt)
}

// SpikeFilePath returns the spike file matching a type inside root.
func SpikeFilePath(root string, t *models.NeuronType) string {
	return filepath.Join(root, t.GroupName(), constants.SpikesDir, t.Name+constants.SpikeFileSuffix)
}

// Build discovers and loads the dataset at root. A root with no types fails
// with palette.ErrNoTypes before anything is loaded. A type without a spike
// file is logged and treated as never spiking; every other error is fatal.
// A nil logger discards output.
func Build(root string, logger *slog.Logger) (*Dataset, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	groups, err := Discover(root)
	if err != nil {
		return nil, err
	}
	if len(Types(groups)) == 0 {
		return nil, fmt.Errorf("discovering %s: %w", root, palette.ErrNoTypes)
	}

	var acc loader.TimeAccumulator
	for _, g := range groups {
		for _, t := range g.Types {
			if err := loadType(root, t, &acc, logger); err != nil {
				return nil, err
			}
		}
	}

	timeline, err := NewTimeline(root, acc.Times())
	if err != nil {
		return nil, err
	}

	ds := &Dataset{
		Root:     root,
		Groups:   groups,
		Neurons:  Flatten(groups),
		Types:    Types(groups),
		Timeline: timeline,
	}
	logger.Info("dataset loaded",
		"groups", len(ds.Groups),
		"types", len(ds.Types),
		"neurons", len(ds.Neurons),
		"frames", timeline.Len(),
		"time_min", timeline.Min(),
		"time_max", timeline.Max())

	return ds, nil
}

// loadType reads one type's neurons and attaches its spikes.
func loadType(root string, t *models.NeuronType, acc *loader.TimeAccumulator, logger *slog.Logger) error {
	neurons, err := loader.LoadNeurons(NeuronFilePath(root, t), t)
	if err != nil {
		return fmt.Errorf("loading type %s/%s: %w", t.GroupName(), t.Name, err)
	}
	t.Neurons = neurons

	spikes, err := loader.LoadSpikes(SpikeFilePath(root, t))
	var missing *loader.MissingSpikeFileError
	switch {
	case errors.As(err, &missing):
		logger.Warn("no spike file for type, treating as silent",
			"group", t.GroupName(), "type", t.Name, "path", missing.Path)
		return nil
	case err != nil:
		return fmt.Errorf("loading spikes for %s/%s: %w", t.GroupName(), t.Name, err)
	}

	loader.AttachSpikes(neurons, spikes, acc)
	logger.Debug("type loaded",
		"group", t.GroupName(), "type", t.Name,
		"neurons", len(neurons), "spike_ids", len(spikes))
	return nil
}

// NewTimeline builds the sorted, deduplicated timeline from every attached
// spike time. It fails with *EmptyTimelineError when there are none.
func NewTimeline(root string, times []float64) (*models.SimulationTimeline, error) {
	tl := models.NewSimulationTimeline(times)
	if tl.Len() == 0 {
		return nil, &EmptyTimelineError{Root: root}
	}
	return tl, nil
}

// Flatten returns every neuron in group → type → file order.
func Flatten(groups []*models.NeuronGroup) []*models.Neuron {
	var all []*models.Neuron
	for _, g := range groups {
		for _, t := range g.Types {
			all = append(all, t.Neurons...)
		}
	}
	return all
}

// Types returns every type in group-major, type-minor order.
func Types(groups []*models.NeuronGroup) []*models.NeuronType {
	var all []*models.NeuronType
	for _, g := range groups {
		all = append(all, g.Types...)
	}
	return all
}
