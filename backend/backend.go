/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package backend opens the datastore selected by the configuration and
// registers one DataStore per entity kind.
package backend

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/suparena/entityservice"
	"github.com/suparena/entityservice/config"
	"github.com/suparena/entityservice/datastore"
	"github.com/suparena/entityservice/datastore/badgerdb"
	"github.com/suparena/entityservice/datastore/ddb"
	"github.com/suparena/entityservice/datastore/memory"
	"github.com/suparena/entityservice/datastore/mongodb"
	"github.com/suparena/entityservice/errors"
	"github.com/suparena/entityservice/service"
)

// CloseFunc releases the resources held by an opened backend.
type CloseFunc func(ctx context.Context) error

func noClose(context.Context) error { return nil }

// Open connects to the configured backend and returns a Storage holding one
// datastore per entity kind, ready to be handed to service.NewFactory.
func Open(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*entityservice.Storage, CloseFunc, error) {
	if cfg == nil {
		return nil, nil, errors.NewPreconditionError("cfg", "a configuration is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	var (
		newStore func(entityType string) (datastore.DataStore, error)
		closeFn  CloseFunc = noClose
	)

	switch cfg.Backend {
	case config.BackendMemory:
		newStore = func(entityType string) (datastore.DataStore, error) {
			return memory.New(entityType), nil
		}

	case config.BackendBadger:
		db, err := badgerdb.Open(badgerdb.Options{Dir: cfg.Badger.Dir, InMemory: cfg.Badger.InMemory})
		if err != nil {
			return nil, nil, err
		}
		newStore = func(entityType string) (datastore.DataStore, error) {
			return badgerdb.NewDataStore(db, entityType)
		}
		closeFn = func(context.Context) error { return db.Close() }

	case config.BackendDynamoDB:
		client, err := ddb.NewDynamoDBClient(ctx, ddb.ClientOptions{
			AccessKey: cfg.AWS.AccessKey,
			SecretKey: cfg.AWS.SecretKey,
			Region:    cfg.AWS.Region,
			Endpoint:  cfg.AWS.Endpoint,
		})
		if err != nil {
			return nil, nil, err
		}
		newStore = func(entityType string) (datastore.DataStore, error) {
			return ddb.NewDynamodbDataStore(client, cfg.AWS.Table, entityType)
		}

	case config.BackendMongoDB:
		client, err := mongodb.Connect(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, nil, err
		}
		db := client.Database(cfg.Mongo.Database)
		newStore = func(entityType string) (datastore.DataStore, error) {
			store, err := mongodb.NewDataStore(db, entityType)
			if err != nil {
				return nil, err
			}
			if err := store.EnsureIndexes(ctx); err != nil {
				return nil, err
			}
			return store, nil
		}
		closeFn = client.Disconnect
	}

	storage := entityservice.NewStorage()
	for _, kind := range service.Kinds() {
		ds, err := newStore(kind.String())
		if err != nil {
			_ = closeFn(ctx)
			return nil, nil, fmt.Errorf("failed to open the %s datastore: %w", kind, err)
		}
		if err := storage.RegisterDataStore(kind.String(), ds); err != nil {
			_ = closeFn(ctx)
			return nil, nil, err
		}
	}

	log.WithField("backend", cfg.Backend).Debugf("Opened datastores for %v", storage.List())
	return storage, closeFn, nil
}
