/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/entityservice/storagemodels"
)

// DataStore persists the records of one entity type.
type DataStore interface {
	// Insert stores a new record and returns it as stored, with an id assigned
	// when the input had none. A duplicate id yields an AlreadyExists error.
	Insert(ctx context.Context, record storagemodels.Record) (storagemodels.Record, error)

	// Update merges the record's fields into the stored record with the same id
	// and returns the result. A record without an id, or whose id is unknown,
	// yields a NotFound error.
	Update(ctx context.Context, record storagemodels.Record) (storagemodels.Record, error)

	// Query returns every record matching the filter, possibly none.
	Query(ctx context.Context, filter storagemodels.Filter) ([]storagemodels.Record, error)
}

// Lookup resolves the datastore registered for an entity type name.
type Lookup interface {
	GetDataStore(name string) (DataStore, error)
}

// LookupFunc adapts a function to the Lookup interface.
type LookupFunc func(name string) (DataStore, error)

// GetDataStore calls f(name).
func (f LookupFunc) GetDataStore(name string) (DataStore, error) {
	return f(name)
}
