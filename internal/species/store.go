// Package species holds the species reference catalog: conservation status,
// allowed harvest seasons and restricted regions per herb.
package species

import (
	"context"
	"sort"
	"strings"
	"sync"

	"herbcheck/internal/domain"
	"herbcheck/pkg/platform/sentinel"
)

// Key normalizes a common name for lookup.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// InMemory is a mutex-guarded catalog.
type InMemory struct {
	mu      sync.RWMutex
	species map[string]domain.Species
}

// NewInMemory returns an empty catalog.
func NewInMemory() *InMemory {
	return &InMemory{species: make(map[string]domain.Species)}
}

// Get returns the species with the given common name, or sentinel.ErrNotFound.
func (s *InMemory) Get(_ context.Context, name string) (*domain.Species, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sp, ok := s.species[Key(name)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &sp, nil
}

// List returns every species ordered by common name.
func (s *InMemory) List(_ context.Context) ([]domain.Species, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Species, 0, len(s.species))
	for _, sp := range s.species {
		out = append(out, sp)
	}
	sort.Slice(out, func(i, j int) bool { return Key(out[i].CommonName) < Key(out[j].CommonName) })
	return out, nil
}

// Save inserts or replaces a species.
func (s *InMemory) Save(_ context.Context, sp domain.Species) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.species[Key(sp.CommonName)] = sp
	return nil
}

// Health always succeeds.
func (s *InMemory) Health(context.Context) error { return nil }
