package inmemory

import "sync"

type Snapshot struct {
	DecisionTotal  uint64            `json:"decision_total"`
	FallbackTotal  uint64            `json:"fallback_total"`
	FailureTotal   uint64            `json:"failure_total"`
	ByRule         map[string]uint64 `json:"by_rule"`
	FallbackReason map[string]uint64 `json:"fallback_reason"`
}

type Recorder struct {
	mu         sync.Mutex
	decisions  uint64
	fallbacks  uint64
	failures   uint64
	byRule     map[string]uint64
	byFallback map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byRule:     map[string]uint64{},
		byFallback: map[string]uint64{},
	}
}

func (r *Recorder) RecordDecision(rule string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decisions++
	r.byRule[rule]++
}

func (r *Recorder) RecordFallback(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallbacks++
	r.byFallback[reason]++
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		DecisionTotal:  r.decisions + r.fallbacks,
		FallbackTotal:  r.fallbacks,
		FailureTotal:   r.failures,
		ByRule:         make(map[string]uint64, len(r.byRule)),
		FallbackReason: make(map[string]uint64, len(r.byFallback)),
	}
	for k, v := range r.byRule {
		out.ByRule[k] = v
	}
	for k, v := range r.byFallback {
		out.FallbackReason[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
