/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/suparena/entityservice/datastore"
	"github.com/suparena/entityservice/errors"
	"github.com/suparena/entityservice/schema"
	"github.com/suparena/entityservice/storagemodels"
)

// Service is the operation set every entity service exposes.
type Service interface {
	// Kind returns the entity kind the service manages.
	Kind() Kind

	// Save updates the stored record with the same id, or inserts the record
	// when no such record exists. See entityService.Save for the details.
	Save(ctx context.Context, record storagemodels.Record) (storagemodels.Record, error)

	// FindAll returns every record of the kind, possibly none.
	FindAll(ctx context.Context) ([]storagemodels.Record, error)

	// FindByID returns the record with the given id, or nil when there is none.
	FindByID(ctx context.Context, id string) (storagemodels.Record, error)
}

// BatchFinder is implemented by services that can look up several ids at once.
type BatchFinder interface {
	// FindByIDs returns the records whose id is in ids, in datastore order.
	FindByIDs(ctx context.Context, ids []string) ([]storagemodels.Record, error)
}

// entityService implements the save and find operations shared by all kinds.
// It holds no per-call state and is safe for concurrent use.
type entityService struct {
	kind       Kind
	dao        datastore.DataStore
	schemas    *schema.Registry
	descriptor schema.Descriptor
	log        logrus.FieldLogger
	opts       options
}

func newEntityService(kind Kind, dao datastore.DataStore, opts ...Option) *entityService {
	o := buildOptions(opts)

	s := &entityService{
		kind:    kind,
		dao:     dao,
		schemas: o.schemas,
		log:     o.log.WithField("service", kind.String()),
		opts:    o,
	}
	if s.schemas != nil {
		// The name is never empty here, so Get cannot fail.
		s.descriptor, _ = s.schemas.Get(kind.String())
	}
	return s
}

// Kind returns the entity kind the service manages.
func (s *entityService) Kind() Kind {
	return s.kind
}

// Save persists record.
//
// The record's modified field is always set to the current time first. The
// service then tries to update the stored record with the same id; if the
// datastore reports that no such record exists, created is set to the same
// timestamp and the record is inserted instead. A record is never inserted
// unless the update was rejected as not found, and nothing is retried.
//
// With a schema registry configured, the fields present are validated before
// the update and required fields before the insert.
//
// The caller's map receives the timestamps. The created field is never sent
// with an update, so it keeps the value from the first insert.
func (s *entityService) Save(ctx context.Context, record storagemodels.Record) (storagemodels.Record, error) {
	if record == nil {
		return nil, errors.NewPreconditionError("record", fmt.Sprintf("please define a %s which should be saved", s.kind))
	}
	if id, ok := record[storagemodels.FieldID]; ok && id != nil {
		if _, isString := id.(string); !isString {
			return nil, errors.NewPreconditionError("id", fmt.Sprintf("the id of a %s must be a string, got %T", s.kind, id))
		}
	}
	if s.validating() {
		if err := s.schemas.ValidatePresent(s.descriptor, record); err != nil {
			return nil, err
		}
	}

	record[storagemodels.FieldModified] = s.opts.now().Unix()

	updated, err := s.dao.Update(ctx, record.Without(storagemodels.FieldCreated))
	if err == nil {
		s.log.WithField("id", updated.ID()).Debugf("Updated existing %s", s.kind)
		return updated, nil
	}
	if !errors.IsNotFound(err) {
		return nil, errors.NewPersistenceError(err, "failed to save the %s", s.kind)
	}

	s.log.Debugf("The %s does not exist. Inserting it.", s.kind)

	if s.validating() {
		if err := s.schemas.Validate(s.descriptor, record); err != nil {
			return nil, err
		}
	}

	record[storagemodels.FieldCreated] = record[storagemodels.FieldModified]

	inserted, err := s.dao.Insert(ctx, record)
	if err != nil {
		return nil, errors.NewPersistenceError(err, "failed to persist a new %s", s.kind)
	}

	s.log.WithField("id", inserted.ID()).Debugf("Created new %s", s.kind)
	return inserted, nil
}

func (s *entityService) validating() bool {
	return s.schemas != nil && !s.descriptor.IsEmpty()
}

// FindAll returns every record of the kind. An empty store yields an empty slice.
func (s *entityService) FindAll(ctx context.Context) ([]storagemodels.Record, error) {
	records, err := s.dao.Query(ctx, storagemodels.Filter{})
	if err != nil {
		return nil, errors.NewPersistenceError(err, "failed to find all %ss", s.kind)
	}
	return nonNil(records), nil
}

// FindByID returns the record with the given id. Not finding it is not an
// error: the result is nil. More than one match means the datastore is
// corrupt and yields an InvariantViolationError.
func (s *entityService) FindByID(ctx context.Context, id string) (storagemodels.Record, error) {
	if id == "" {
		return nil, errors.NewPreconditionError("id", fmt.Sprintf("please define an id for the %s that should be found", s.kind))
	}

	records, err := s.dao.Query(ctx, storagemodels.ByID(id))
	if err != nil {
		return nil, errors.NewPersistenceError(err, "failed to search for the %s with the id %q", s.kind, id)
	}

	switch len(records) {
	case 0:
		return nil, nil
	case 1:
		return records[0], nil
	default:
		s.log.WithField("id", id).Errorf("Found %d %ss sharing one id", len(records), s.kind)
		return nil, errors.NewInvariantViolationError("found multiple %ss with the id %q, that should not be possible", s.kind, id)
	}
}

func (s *entityService) findByIDs(ctx context.Context, ids []string) ([]storagemodels.Record, error) {
	records, err := s.dao.Query(ctx, storagemodels.ByIDs(ids))
	if err != nil {
		return nil, errors.NewPersistenceError(err, "failed to search for %ss by ids %v", s.kind, ids)
	}
	return nonNil(records), nil
}

func nonNil(records []storagemodels.Record) []storagemodels.Record {
	if records == nil {
		return []storagemodels.Record{}
	}
	return records
}
