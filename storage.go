/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entityservice

import (
	"fmt"
	"sort"
	"sync"

	"github.com/suparena/entityservice/datastore"
)

// Storage manages one DataStore per entity type name. It implements
// datastore.Lookup, which is how the service factory binds services to storage.
type Storage struct {
	mu     sync.RWMutex
	stores map[string]datastore.DataStore
}

// NewStorage creates an empty Storage.
func NewStorage() *Storage {
	return &Storage{
		stores: make(map[string]datastore.DataStore),
	}
}

// RegisterDataStore registers a DataStore under a given entity type name (for example, "person").
func (s *Storage) RegisterDataStore(name string, ds datastore.DataStore) error {
	if name == "" {
		return fmt.Errorf("datastore name must not be empty")
	}
	if ds == nil {
		return fmt.Errorf("datastore %q must not be nil", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.stores[name]; exists {
		return fmt.Errorf("datastore with key %q already registered", name)
	}
	s.stores[name] = ds
	return nil
}

// GetDataStore retrieves the DataStore registered for the given name.
func (s *Storage) GetDataStore(name string) (datastore.DataStore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ds, exists := s.stores[name]
	if !exists {
		return nil, fmt.Errorf("datastore with key %q not found", name)
	}
	return ds, nil
}

// RemoveDataStore deletes the DataStore registered for the given name.
func (s *Storage) RemoveDataStore(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.stores[name]; !exists {
		return fmt.Errorf("datastore with key %q not found", name)
	}
	delete(s.stores, name)
	return nil
}

// List returns all registered names in sorted order.
func (s *Storage) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.stores))
	for k := range s.stores {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var _ datastore.Lookup = (*Storage)(nil)
