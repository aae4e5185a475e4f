/*
Package storagemodels defines the data structures shared by the services and
every datastore backend.

Record:
A schemaless document with three reserved fields:

	rec := storagemodels.Record{
	    "id":       "5f0c...",   // assigned by the datastore on insert
	    "created":  int64(1700000000),
	    "modified": int64(1700000042),
	    "name":     "Ada",
	}

Filter:
Queries are expressed as field constraints. A value means equality, an In
means set membership, and an empty filter matches everything:

	storagemodels.Filter{}                                // all records
	storagemodels.ByID("5f0c...")                         // {"id": "5f0c..."}
	storagemodels.Filter{"id": storagemodels.In{"a", "b"}} // id in (a, b)

These types provide a consistent interface across different storage implementations.
*/
package storagemodels
