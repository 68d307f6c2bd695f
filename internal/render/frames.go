package render

import (
	"fmt"

	"github.com/nvandessel/neurovis/internal/constants"
)

// FrameRange selects timeline frames: From through To inclusive, every Step.
type FrameRange struct {
	From int `json:"from"`
	To   int `json:"to"`
	Step int `json:"step"`
}

// DefaultFrameRange returns frames 0..100 at every frame.
func DefaultFrameRange() FrameRange {
	return FrameRange{
		From: constants.DefaultFrameFrom,
		To:   constants.DefaultFrameTo,
		Step: constants.DefaultFrameStep,
	}
}

// FrameRangeError reports a range that selects no valid frame.
type FrameRangeError struct {
	Range  FrameRange
	Total  int
	Reason string
}

func (e *FrameRangeError) Error() string {
	return fmt.Sprintf("invalid frame range %d..%d step %d over %d frames: %s",
		e.Range.From, e.Range.To, e.Range.Step, e.Total, e.Reason)
}

// Resolve returns the frame indices the range selects on a timeline of
// total frames. To is clipped to the last frame.
func (r FrameRange) Resolve(total int) ([]int, error) {
	if r.Step < 1 {
		return nil, &FrameRangeError{Range: r, Total: total, Reason: "step must be at least 1"}
	}
	if r.From < 0 || r.From >= total {
		return nil, &FrameRangeError{Range: r, Total: total, Reason: "start frame outside timeline"}
	}
	if r.To < r.From {
		return nil, &FrameRangeError{Range: r, Total: total, Reason: "end frame before start frame"}
	}

	last := min(r.To, total-1)
	frames := make([]int, 0, (last-r.From)/r.Step+1)
	for f := r.From; f <= last; f += r.Step {
		frames = append(frames, f)
	}
	return frames, nil
}
