/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package badgerdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/suparena/entityservice/datastore"
	storeerrors "github.com/suparena/entityservice/errors"
	"github.com/suparena/entityservice/storagemodels"
)

// Options configures Open.
type Options struct {
	// Dir is the database directory. It is ignored when InMemory is set.
	Dir string
	// InMemory keeps all data in memory, which is mostly useful for tests.
	InMemory bool
}

// Open opens a Badger database shared by the datastores of every entity type.
// Badger's own logging is disabled; callers log at the datastore boundary.
func Open(opts Options) (*badger.DB, error) {
	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Dir == "" {
			return nil, storeerrors.NewValidationError("dir", "a directory is required unless running in memory")
		}
		bopts = badger.DefaultOptions(opts.Dir)
	}

	db, err := badger.Open(bopts.WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}
	return db, nil
}

// DataStore implements datastore.DataStore for one entity type. Records are
// stored as JSON under "<entityType>/<id>".
type DataStore struct {
	db         *badger.DB
	entityType string
	newID      func() string
}

// NewDataStore returns the datastore of entityType backed by db.
func NewDataStore(db *badger.DB, entityType string) (*DataStore, error) {
	if db == nil {
		return nil, errors.New("badger database must not be nil")
	}
	if entityType == "" {
		return nil, errors.New("entity type is required")
	}
	return &DataStore{db: db, entityType: entityType, newID: uuid.NewString}, nil
}

func (d *DataStore) prefix() []byte {
	return []byte(d.entityType + "/")
}

func (d *DataStore) key(id string) []byte {
	return append(d.prefix(), id...)
}

// Insert stores a new record, assigning an id when it has none.
func (d *DataStore) Insert(ctx context.Context, record storagemodels.Record) (storagemodels.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stored := record.Clone()
	if stored == nil {
		stored = storagemodels.Record{}
	}
	if stored.ID() == "" {
		stored[storagemodels.FieldID] = d.newID()
	}

	val, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", d.entityType, err)
	}

	err = d.db.Update(func(txn *badger.Txn) error {
		k := d.key(stored.ID())
		_, err := txn.Get(k)
		if err == nil {
			return storeerrors.NewAlreadyExistsError(d.entityType, stored.ID())
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(k, val)
	})
	if err != nil {
		return nil, err
	}

	// Hand back what a later read returns
	return decode(val)
}

// Update merges the record's fields into the stored record with the same id.
func (d *DataStore) Update(ctx context.Context, record storagemodels.Record) (storagemodels.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := record.ID()
	if id == "" {
		return nil, storeerrors.NewNotFoundError(d.entityType, id)
	}

	var merged storagemodels.Record
	err := d.db.Update(func(txn *badger.Txn) error {
		k := d.key(id)
		current, err := get(txn, k)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storeerrors.NewNotFoundError(d.entityType, id)
		}
		if err != nil {
			return err
		}

		maps.Copy(current, record)
		val, err := json.Marshal(current)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", d.entityType, err)
		}
		if err := txn.Set(k, val); err != nil {
			return err
		}
		merged, err = decode(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return merged, nil
}

// Query returns the records matching the filter, ordered by id. A lookup by
// a single id reads one key; every other filter iterates the entity prefix.
func (d *DataStore) Query(ctx context.Context, filter storagemodels.Filter) ([]storagemodels.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]storagemodels.Record, 0)
	if filter.Empty() {
		return results, nil
	}

	err := d.db.View(func(txn *badger.Txn) error {
		if id, ok := filter[storagemodels.FieldID].(string); ok && len(filter) == 1 {
			rec, err := get(txn, d.key(id))
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			results = append(results, rec)
			return nil
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = d.prefix()
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var rec storagemodels.Record
			err := it.Item().Value(func(val []byte) error {
				var err error
				rec, err = decode(val)
				return err
			})
			if err != nil {
				return err
			}
			if filter.Match(rec) {
				results = append(results, rec)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query %s records: %w", d.entityType, err)
	}
	return results, nil
}

func get(txn *badger.Txn, key []byte) (storagemodels.Record, error) {
	item, err := txn.Get(key)
	if err != nil {
		return nil, err
	}
	var rec storagemodels.Record
	err = item.Value(func(val []byte) error {
		var err error
		rec, err = decode(val)
		return err
	})
	return rec, err
}

func decode(val []byte) (storagemodels.Record, error) {
	var rec storagemodels.Record
	if err := json.Unmarshal(val, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return rec, nil
}

var _ datastore.DataStore = (*DataStore)(nil)
