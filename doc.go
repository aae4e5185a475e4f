/*
Package entityservice provides the service layer for person, organization and
account entities, backed by pluggable document datastores.

The module is organised leaf to root:
  - storagemodels: Record and Filter, the shapes every layer exchanges
  - datastore: the Insert/Update/Query contract and its backends (ddb, mongo, badgerdb, memory)
  - schema: named descriptors with field rules, looked up by name
  - service: entity services with upsert-on-missing Save, and the Factory building them

This root package holds Storage, the registry that hands each service the
datastore registered under its entity type name.

Basic Usage:

	// Create a storage manager and register one datastore per entity type
	storage := entityservice.NewStorage()
	storage.RegisterDataStore("person", memory.New("person"))

	// Build a service through the factory
	factory := service.NewFactory(storage)
	persons, _ := factory.Create("person")

	// Save inserts on first call and updates afterwards
	ada, _ := persons.Save(ctx, storagemodels.Record{"name": "Ada"})
	ada["name"] = "Ada Lovelace"
	ada, _ = persons.Save(ctx, ada)
*/
package entityservice
