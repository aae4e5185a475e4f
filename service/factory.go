/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package service

import (
	"github.com/sirupsen/logrus"

	"github.com/suparena/entityservice/datastore"
	"github.com/suparena/entityservice/errors"
)

// Factory builds entity services bound to the datastores of a Lookup.
type Factory struct {
	lookup datastore.Lookup
	opts   []Option
	log    logrus.FieldLogger
}

// NewFactory creates a Factory. The options are passed on to every service it builds.
func NewFactory(lookup datastore.Lookup, opts ...Option) *Factory {
	return &Factory{
		lookup: lookup,
		opts:   opts,
		log:    buildOptions(opts).log,
	}
}

// Create builds the service registered under name ("account", "person" or
// "organization"). Unknown names fail with a ConfigurationError before any
// datastore is looked up. Every call returns a new service.
func (f *Factory) Create(name string) (Service, error) {
	kind, err := ParseKind(name)
	if err != nil {
		return nil, err
	}
	return f.New(kind)
}

// New builds the service for kind.
func (f *Factory) New(kind Kind) (Service, error) {
	if !kind.Valid() {
		return nil, errors.NewConfigurationError(kind.String(), "service does not exist", nil)
	}

	dao, err := f.lookup.GetDataStore(kind.String())
	if err != nil {
		return nil, errors.NewConfigurationError(kind.String(), "no datastore available", err)
	}

	var svc Service
	switch kind {
	case KindAccount:
		svc = NewAccount(dao, f.opts...)
	case KindPerson:
		svc = NewPerson(dao, f.opts...)
	case KindOrganization:
		svc = NewOrganization(dao, f.opts...)
	}

	f.log.Debugf("Created service with type %q", kind.String())
	return svc, nil
}
