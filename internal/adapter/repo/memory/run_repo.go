package memory

import (
	"context"
	"time"

	"blitzbot/internal/app/ports"
)

type RunRepo struct {
	store *Store
}

func NewRunRepo(store *Store) RunRepo {
	return RunRepo{store: store}
}

func (r RunRepo) Start(_ context.Context, run ports.RunRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.runs[run.RunID]; exists {
		return ports.ErrConflict
	}
	if run.Status == "" {
		run.Status = ports.RunStatusRunning
	}
	r.store.runs[run.RunID] = run
	return nil
}

func (r RunRepo) Progress(_ context.Context, runID string, turns int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	run, ok := r.store.runs[runID]
	if !ok {
		return ports.ErrNotFound
	}
	if turns > run.Turns {
		run.Turns = turns
	}
	r.store.runs[runID] = run
	return nil
}

func (r RunRepo) Finish(_ context.Context, runID string, status ports.RunStatus, reason string, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	run, ok := r.store.runs[runID]
	if !ok {
		return ports.ErrNotFound
	}
	run.Status = status
	run.FinishReason = reason
	run.FinishedAt = at
	r.store.runs[runID] = run
	return nil
}

func (r RunRepo) Get(_ context.Context, runID string) (ports.RunRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	run, ok := r.store.runs[runID]
	if !ok {
		return ports.RunRecord{}, ports.ErrNotFound
	}
	return run, nil
}
