package memory

import (
	"sync"

	"blitzbot/internal/app/ports"
)

// Store backs the in-memory repositories. mu guards each call; txMu
// serialises whole transactions.
type Store struct {
	mu    sync.RWMutex
	txMu  sync.Mutex
	runs  map[string]ports.RunRecord
	turns map[string][]ports.TurnRecord
}

func NewStore() *Store {
	return &Store{
		runs:  make(map[string]ports.RunRecord),
		turns: make(map[string][]ports.TurnRecord),
	}
}

func (s *Store) SeedRun(run ports.RunRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.RunID] = run
}
