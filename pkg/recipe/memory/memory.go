// Package memory implements an in-memory recipe repository.
package memory

import (
	"context"
	"sort"
	"sync"

	"recipebook/pkg/recipe"
)

// Store provides an in-memory implementation of recipe.Repository. A single
// mutex guards the whole map, so every call observes a consistent view.
type Store struct {
	mu      sync.Mutex
	recipes map[string]recipe.Recipe
}

// New creates an empty store.
func New() *Store {
	return &Store{recipes: make(map[string]recipe.Recipe)}
}

// Put stores r under name, discarding any previous record for that name.
func (s *Store) Put(ctx context.Context, name string, r recipe.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes[name] = r
	return nil
}

// ListNames returns a sorted snapshot of the stored names. Later writes are
// not reflected in the returned slice.
func (s *Store) ListNames(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	names := make([]string, 0, len(s.recipes))
	for name := range s.recipes {
		names = append(names, name)
	}
	s.mu.Unlock()

	sort.Strings(names)
	return names, nil
}

// Get retrieves a recipe by name.
func (s *Store) Get(ctx context.Context, name string) (recipe.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recipes[name]
	if !ok {
		return recipe.Recipe{}, recipe.ErrNotFound
	}
	return r, nil
}

// Len reports how many recipes are stored.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.recipes)
}
