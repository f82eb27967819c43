package definition

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hupe1980/customelements/core"
)

// InMemoryStore is a process local core.DefinitionStore. It is safe for
// concurrent access. Definitions are stored by pointer: the engine mutates
// their construction stacks and lazy slot states in place.
type InMemoryStore struct {
	mu          sync.RWMutex
	definitions map[string]*core.Definition
	lazy        map[string]*core.LazyDefinition
	byFactory   map[core.Factory]*core.Definition
}

// NewInMemoryStore constructs an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		definitions: make(map[string]*core.Definition),
		lazy:        make(map[string]*core.LazyDefinition),
		byFactory:   make(map[core.Factory]*core.Definition),
	}
}

// SetDefinition stores def under name and drops the lazy slot of the same
// name, if any.
func (s *InMemoryStore) SetDefinition(name string, def *core.Definition) error {
	if def == nil || !core.ValidFactory(def.Factory) {
		return core.ErrInvalidFactory
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.definitions[name]; ok {
		return fmt.Errorf("%w: %s", core.ErrAlreadyDefined, name)
	}
	s.definitions[name] = def
	delete(s.lazy, name)
	if _, ok := s.byFactory[def.Factory]; !ok {
		s.byFactory[def.Factory] = def
	}
	return nil
}

// SetLazy stores an unresolved slot under name.
func (s *InMemoryStore) SetLazy(name string, slot *core.LazyDefinition) error {
	if slot == nil || slot.Generator == nil {
		return core.ErrInvalidGenerator
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.definitions[name]; ok {
		return fmt.Errorf("%w: %s", core.ErrAlreadyDefined, name)
	}
	if _, ok := s.lazy[name]; ok {
		return fmt.Errorf("%w: %s", core.ErrAlreadyDefined, name)
	}
	s.lazy[name] = slot
	return nil
}

// Definition returns the definition stored under name.
func (s *InMemoryStore) Definition(name string) (*core.Definition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	def, ok := s.definitions[name]
	return def, ok
}

// DefinitionByFactory returns the first definition registered with f.
func (s *InMemoryStore) DefinitionByFactory(f core.Factory) (*core.Definition, bool) {
	if !core.ValidFactory(f) {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	def, ok := s.byFactory[f]
	return def, ok
}

// Lazy returns the lazy slot stored under name.
func (s *InMemoryStore) Lazy(name string) (*core.LazyDefinition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slot, ok := s.lazy[name]
	return slot, ok
}

// ClearLazy drops the lazy slot stored under name.
func (s *InMemoryStore) ClearLazy(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lazy, name)
}

// Has reports whether name has a definition or a lazy slot.
func (s *InMemoryStore) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.definitions[name]; ok {
		return true
	}
	_, ok := s.lazy[name]
	return ok
}

// Names returns every defined or lazily defined name in lexical order.
func (s *InMemoryStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.definitions)+len(s.lazy))
	for name := range s.definitions {
		names = append(names, name)
	}
	for name := range s.lazy {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
