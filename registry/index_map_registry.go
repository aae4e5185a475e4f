/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"maps"
	"strings"
	"sync"
)

// IndexMapRegistry associates entity type names with their DynamoDB key templates.

var (
	indexMapRegistry = make(map[string]map[string]string)
	mu               sync.RWMutex
)

// RegisterIndexMap associates an entity type with a DynamoDB index map (PK, SK, etc.).
// Values are templates whose {field} macros are replaced by record fields.
func RegisterIndexMap(entityType string, idxMap map[string]string) {
	mu.Lock()
	defer mu.Unlock()
	indexMapRegistry[entityType] = maps.Clone(idxMap)
}

// GetIndexMap retrieves the index map for an entity type, if any.
func GetIndexMap(entityType string) (map[string]string, bool) {
	mu.RLock()
	defer mu.RUnlock()
	m, ok := indexMapRegistry[entityType]
	return maps.Clone(m), ok
}

// IndexMapFor returns the registered index map for an entity type, or the
// single-object default where PK and SK are both "<TYPE>#{id}".
func IndexMapFor(entityType string) map[string]string {
	if m, ok := GetIndexMap(entityType); ok {
		return m
	}
	return DefaultIndexMap(entityType)
}

// DefaultIndexMap builds the single-object key layout for an entity type.
func DefaultIndexMap(entityType string) map[string]string {
	key := strings.ToUpper(entityType) + "#{id}"
	return map[string]string{
		"PK": key,
		"SK": key,
	}
}
