package memory

import (
	"context"
	"fmt"
	"sync"

	"paydown/internal/storage"
)

// Store is an in-memory ScenarioWriter used in tests and local development.
type Store struct {
	mu    sync.Mutex
	items []storage.Scenario
}

func New() *Store {
	return &Store{}
}

// Append stores the scenario and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, scenario storage.Scenario) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, scenario)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Scenarios returns a copy of everything appended so far.
func (s *Store) Scenarios() []storage.Scenario {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]storage.Scenario(nil), s.items...)
}
