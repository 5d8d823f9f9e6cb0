package provider

import (
	"sync/atomic"
	"time"
)

// Operation names used as metric keys.
const (
	OpChat   = "chat"
	OpImage  = "image"
	OpSpeech = "speech"
)

type counter struct {
	calls   int64
	errors  int64
	latency int64 // nanoseconds
}

// Metrics tracks calls made to the AI provider
type Metrics struct {
	chat   counter
	image  counter
	speech counter
}

// OpStats is a point-in-time view of one operation's counters.
type OpStats struct {
	Calls        int64   `json:"calls"`
	Errors       int64   `json:"errors"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
}

func (m *Metrics) counter(op string) *counter {
	switch op {
	case OpChat:
		return &m.chat
	case OpImage:
		return &m.image
	case OpSpeech:
		return &m.speech
	}
	return nil
}

func (m *Metrics) record(op string, duration time.Duration, err error) {
	c := m.counter(op)
	if c == nil {
		return
	}
	atomic.AddInt64(&c.calls, 1)
	atomic.AddInt64(&c.latency, duration.Nanoseconds())
	if err != nil {
		atomic.AddInt64(&c.errors, 1)
	}
}

// Snapshot returns the current counters keyed by operation.
func (m *Metrics) Snapshot() map[string]OpStats {
	out := make(map[string]OpStats, 3)
	for _, op := range []string{OpChat, OpImage, OpSpeech} {
		c := m.counter(op)
		calls := atomic.LoadInt64(&c.calls)
		s := OpStats{
			Calls:  calls,
			Errors: atomic.LoadInt64(&c.errors),
		}
		if calls > 0 {
			s.AvgLatencyMs = float64(atomic.LoadInt64(&c.latency)) / float64(calls) / 1e6
		}
		out[op] = s
	}
	return out
}
