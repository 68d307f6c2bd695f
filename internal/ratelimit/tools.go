package ratelimit

import (
	"fmt"
	"time"
)

// MCP tool names.
const (
	ToolTopology = "neurovis_topology"
	ToolTimeline = "neurovis_timeline"
	ToolFrame    = "neurovis_frame"
)

// Rate is a per-minute refill with a burst allowance.
type Rate struct {
	PerMinute float64
	Burst     int
}

// DefaultRates holds the budget of each tool. Frame encoding walks every
// neuron, so it gets the tightest one.
var DefaultRates = map[string]Rate{
	ToolTopology: {PerMinute: 60, Burst: 10},
	ToolTimeline: {PerMinute: 60, Burst: 10},
	ToolFrame:    {PerMinute: 30, Burst: 5},
}

// LimitError is returned when a tool call exceeds its rate.
type LimitError struct {
	Tool       string
	RetryAfter time.Duration
}

func (e *LimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limit exceeded for %s, retry in %s", e.Tool, e.RetryAfter.Round(time.Millisecond))
	}
	return fmt.Sprintf("rate limit exceeded for %s", e.Tool)
}

// ToolLimiters maps tool names to their buckets.
type ToolLimiters map[string]*Bucket

// NewToolLimiters creates one bucket per entry of DefaultRates.
func NewToolLimiters() ToolLimiters {
	limiters := make(ToolLimiters, len(DefaultRates))
	for tool, r := range DefaultRates {
		limiters[tool] = NewBucket(r.PerMinute, r.Burst)
	}
	return limiters
}

// CheckLimit takes a token for toolName. Tools without a bucket are never
// limited.
func CheckLimit(limiters ToolLimiters, toolName string) error {
	b, ok := limiters[toolName]
	if !ok {
		return nil
	}
	if ok, wait := b.Take(); !ok {
		return &LimitError{Tool: toolName, RetryAfter: wait}
	}
	return nil
}
