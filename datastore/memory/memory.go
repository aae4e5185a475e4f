/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package memory provides an in-memory implementation of the DataStore interface.
// It backs the CLI's default backend and the service tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/suparena/entityservice/errors"
	"github.com/suparena/entityservice/storagemodels"
)

// Operation names recorded by Calls.
const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpQuery  = "query"
)

// DataStore is an in-memory implementation of datastore.DataStore
type DataStore struct {
	mu          sync.RWMutex
	entityType  string
	data        map[string]storagemodels.Record
	order       []string
	calls       []string
	queryFunc   func(ctx context.Context, filter storagemodels.Filter) ([]storagemodels.Record, error)
	newID       func() string
	insertError error
	updateError error
	queryError  error
}

// New creates a new in-memory DataStore for the named entity type
func New(entityType string) *DataStore {
	return &DataStore{
		entityType: entityType,
		data:       make(map[string]storagemodels.Record),
		newID:      uuid.NewString,
	}
}

// WithIDFunc sets the function generating ids for records inserted without one
func (m *DataStore) WithIDFunc(f func() string) *DataStore {
	m.newID = f
	return m
}

// WithQueryFunc sets a custom query function for testing
func (m *DataStore) WithQueryFunc(f func(ctx context.Context, filter storagemodels.Filter) ([]storagemodels.Record, error)) *DataStore {
	m.queryFunc = f
	return m
}

// WithInsertError makes Insert operations return an error
func (m *DataStore) WithInsertError(err error) *DataStore {
	m.insertError = err
	return m
}

// WithUpdateError makes Update operations return an error
func (m *DataStore) WithUpdateError(err error) *DataStore {
	m.updateError = err
	return m
}

// WithQueryError makes Query operations return an error
func (m *DataStore) WithQueryError(err error) *DataStore {
	m.queryError = err
	return m
}

// Insert stores a new record
func (m *DataStore) Insert(ctx context.Context, record storagemodels.Record) (storagemodels.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, OpInsert)
	if m.insertError != nil {
		return nil, m.insertError
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stored := record.Clone()
	if stored == nil {
		stored = storagemodels.Record{}
	}
	id := stored.ID()
	if id == "" {
		id = m.newID()
		stored[storagemodels.FieldID] = id
	}
	if _, exists := m.data[id]; exists {
		return nil, errors.NewAlreadyExistsError(m.entityType, id)
	}

	m.data[id] = stored
	m.order = append(m.order, id)
	return stored.Clone(), nil
}

// Update merges the record into the stored one with the same id
func (m *DataStore) Update(ctx context.Context, record storagemodels.Record) (storagemodels.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, OpUpdate)
	if m.updateError != nil {
		return nil, m.updateError
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := record.ID()
	existing, exists := m.data[id]
	if id == "" || !exists {
		return nil, errors.NewNotFoundError(m.entityType, id)
	}

	for k, v := range record {
		existing[k] = v
	}
	return existing.Clone(), nil
}

// Query returns matching records in insertion order
func (m *DataStore) Query(ctx context.Context, filter storagemodels.Filter) ([]storagemodels.Record, error) {
	m.mu.Lock()
	m.calls = append(m.calls, OpQuery)
	m.mu.Unlock()

	if m.queryError != nil {
		return nil, m.queryError
	}
	if m.queryFunc != nil {
		return m.queryFunc(ctx, filter)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]storagemodels.Record, 0)
	for _, id := range m.order {
		if rec := m.data[id]; filter.Match(rec) {
			results = append(results, rec.Clone())
		}
	}
	return results, nil
}

// Helper methods for testing

// SetData replaces the stored records (for testing)
func (m *DataStore) SetData(records ...storagemodels.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = make(map[string]storagemodels.Record, len(records))
	m.order = m.order[:0]
	for _, r := range records {
		m.data[r.ID()] = r.Clone()
		m.order = append(m.order, r.ID())
	}
}

// Get returns a copy of the stored record with the given id (for testing)
func (m *DataStore) Get(id string) (storagemodels.Record, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.data[id]
	return rec.Clone(), ok
}

// Calls returns the operations performed so far, in order
func (m *DataStore) Calls() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]string(nil), m.calls...)
}

// Count returns the number of stored entities
func (m *DataStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Clear removes all data
func (m *DataStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]storagemodels.Record)
	m.order = nil
	m.calls = nil
}
