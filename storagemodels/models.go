/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"encoding/json"
	"maps"
)

// Reserved record fields.
const (
	FieldID       = "id"
	FieldCreated  = "created"
	FieldModified = "modified"
)

// Record is a schemaless document. The id, created and modified fields are
// reserved; everything else belongs to the entity.
type Record map[string]any

// ID returns the record id, or "" when the record has not been stored yet.
func (r Record) ID() string {
	id, _ := r[FieldID].(string)
	return id
}

// Created returns the creation timestamp in epoch seconds.
func (r Record) Created() (int64, bool) {
	return r.Int64(FieldCreated)
}

// Modified returns the last modification timestamp in epoch seconds.
func (r Record) Modified() (int64, bool) {
	return r.Int64(FieldModified)
}

// Int64 reads a numeric field. Backends decode numbers differently
// (JSON and DynamoDB yield float64, BSON yields int32/int64), so every
// numeric representation is accepted.
func (r Record) Int64(field string) (int64, bool) {
	switch v := r[field].(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float32:
		return int64(v), true
	case float64:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	default:
		return 0, false
	}
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return maps.Clone(r)
}

// Without returns a shallow copy of the record without the given fields.
func (r Record) Without(fields ...string) Record {
	c := r.Clone()
	for _, f := range fields {
		delete(c, f)
	}
	return c
}
