package localstore

import (
	"fmt"
	"sync"
)

// IndexHandle is the per-node materialization of one index: its mapper
// state, keyed by the index name that owns it.
type IndexHandle struct {
	Name   string
	Mapper *MapperService
}

// LocalIndexStore is the per-node collaborator the coordinator calls during
// C6 step 4 (spec.md §4.6): create an index locally, add its mappings one
// type at a time, and roll the whole thing back with Delete if any mapping
// fails to parse.
type LocalIndexStore struct {
	mu      sync.RWMutex
	indices map[string]*IndexHandle
}

// New returns an empty LocalIndexStore.
func New() *LocalIndexStore {
	return &LocalIndexStore{indices: make(map[string]*IndexHandle)}
}

// Create registers a new, empty index handle. It is an error to create an
// index name that's already present.
func (s *LocalIndexStore) Create(name string) (*IndexHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.indices[name]; exists {
		return nil, fmt.Errorf("local index %q already exists", name)
	}
	handle := &IndexHandle{Name: name, Mapper: NewMapperService()}
	s.indices[name] = handle
	return handle, nil
}

// Delete removes an index handle. It is not an error to delete an index
// that isn't present — the coordinator calls Delete unconditionally on the
// cleanup path after a mapping failure (spec.md §4.6 step 4).
func (s *LocalIndexStore) Delete(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.indices, name)
}

// Has reports whether an index is currently materialized on this node.
func (s *LocalIndexStore) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.indices[name]
	return ok
}

// Get returns an index's handle, if present.
func (s *LocalIndexStore) Get(name string) (*IndexHandle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.indices[name]
	return h, ok
}
