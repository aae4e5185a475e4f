/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package service

import (
	"github.com/suparena/entityservice/errors"
)

// Kind identifies one of the entity services the factory can build.
type Kind int

const (
	KindAccount Kind = iota + 1
	KindPerson
	KindOrganization
)

var kindNames = map[Kind]string{
	KindAccount:      "account",
	KindPerson:       "person",
	KindOrganization: "organization",
}

// Kinds returns every known kind.
func Kinds() []Kind {
	return []Kind{KindAccount, KindPerson, KindOrganization}
}

// String returns the entity type name, which is also the name of the
// datastore and the schema backing the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind maps a service type name to its Kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, errors.NewConfigurationError(name, "service does not exist", nil)
}
