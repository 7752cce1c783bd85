package memory

import (
	"context"
	"slices"

	"blitzbot/internal/app/ports"
)

type TurnRepo struct {
	store *Store
}

func NewTurnRepo(store *Store) TurnRepo {
	return TurnRepo{store: store}
}

func (r TurnRepo) Append(_ context.Context, turn ports.TurnRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	list := r.store.turns[turn.RunID]
	i, found := slices.BinarySearchFunc(list, turn.Seq, func(t ports.TurnRecord, seq int) int {
		return t.Seq - seq
	})
	if found {
		return ports.ErrConflict
	}
	r.store.turns[turn.RunID] = slices.Insert(list, i, turn)
	return nil
}

func (r TurnRepo) ListByRun(_ context.Context, runID string, limit int) ([]ports.TurnRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	list := r.store.turns[runID]
	if limit > 0 && len(list) > limit {
		list = list[len(list)-limit:]
	}
	return slices.Clone(list), nil
}
