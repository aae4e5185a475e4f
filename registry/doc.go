/*
Package registry manages the DynamoDB key layout of each entity type.

All entity types share one table. An index map tells the DynamoDB datastore
how to derive key attributes from a record:

	registry.RegisterIndexMap("person", map[string]string{
	    "PK": "PERSON#{id}",
	    "SK": "PERSON#{id}",
	})

Entity types without a registered map use DefaultIndexMap, which produces
exactly the layout above. The registry is thread-safe and should be populated
during initialization.
*/
package registry
