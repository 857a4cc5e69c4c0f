package library

import (
	"context"
	"sync"

	"github.com/goliatone/go-formdesigner/pkg/model"
)

// MemoryStore keeps designs in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	cfg     config
	designs map[string]model.Design
}

// NewMemoryStore returns an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{cfg: newConfig(opts), designs: make(map[string]model.Design)}
}

// Save implements Store.
func (s *MemoryStore) Save(ctx context.Context, design model.Design) (model.Design, error) {
	if err := ctx.Err(); err != nil {
		return model.Design{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var previous *model.Design
	if existing, ok := s.designs[design.ID]; ok {
		previous = &existing
	}
	stored, err := s.cfg.stamp(design, previous)
	if err != nil {
		return model.Design{}, err
	}
	s.designs[stored.ID] = stored
	return model.CloneDesign(stored), nil
}

// Load implements Store.
func (s *MemoryStore) Load(ctx context.Context, id string) (model.Design, error) {
	if err := ctx.Err(); err != nil {
		return model.Design{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	design, ok := s.designs[id]
	if !ok {
		return model.Design{}, ErrNotFound
	}
	return model.CloneDesign(design), nil
}

// List implements Store.
func (s *MemoryStore) List(ctx context.Context) ([]Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Summary, 0, len(s.designs))
	for _, design := range s.designs {
		out = append(out, Summarize(design))
	}
	sortSummaries(out)
	return out, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.designs[id]; !ok {
		return ErrNotFound
	}
	delete(s.designs, id)
	return nil
}
