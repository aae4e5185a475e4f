/*
Package datastore defines the core interfaces for the persistence layer the
entity services consume.

The main interface is DataStore, which provides the three primitives an
entity service needs:

	type DataStore interface {
	    Insert(ctx context.Context, record storagemodels.Record) (storagemodels.Record, error)
	    Update(ctx context.Context, record storagemodels.Record) (storagemodels.Record, error)
	    Query(ctx context.Context, filter storagemodels.Filter) ([]storagemodels.Record, error)
	}

Update must report a missing record with an error matching errors.ErrNotFound;
the services rely on that classification to fall back to Insert.

Implementations:
  - ddb: DynamoDB implementation using a single-table design
  - mongo: MongoDB implementation, one collection per entity type
  - badgerdb: embedded Badger implementation
  - memory: In-memory implementation with error injection for testing

Datastores are looked up by entity type name through the Lookup interface.
*/
package datastore
