/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package service

import (
	"context"

	"github.com/suparena/entityservice/datastore"
	"github.com/suparena/entityservice/storagemodels"
)

// Person manages person records. It does not support FindByIDs.
type Person struct {
	*entityService
}

// NewPerson creates a Person service that owns dao.
func NewPerson(dao datastore.DataStore, opts ...Option) *Person {
	return &Person{newEntityService(KindPerson, dao, opts...)}
}

// Account manages account records. It does not support FindByIDs.
type Account struct {
	*entityService
}

// NewAccount creates an Account service that owns dao.
func NewAccount(dao datastore.DataStore, opts ...Option) *Account {
	return &Account{newEntityService(KindAccount, dao, opts...)}
}

// Organization manages organization records.
type Organization struct {
	*entityService
}

// NewOrganization creates an Organization service that owns dao.
func NewOrganization(dao datastore.DataStore, opts ...Option) *Organization {
	return &Organization{newEntityService(KindOrganization, dao, opts...)}
}

// FindByIDs returns the organizations whose id is in ids. The order follows
// the datastore, not ids. An empty ids slice yields an empty result.
func (o *Organization) FindByIDs(ctx context.Context, ids []string) ([]storagemodels.Record, error) {
	return o.findByIDs(ctx, ids)
}

var (
	_ Service     = (*Person)(nil)
	_ Service     = (*Account)(nil)
	_ Service     = (*Organization)(nil)
	_ BatchFinder = (*Organization)(nil)
)
