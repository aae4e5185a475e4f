/*
Package ddb provides a DynamoDB implementation of the DataStore interface.

The DynamodbDataStore supports:
  - Single-table design, one datastore per entity type
  - Macro-based key expansion (e.g., "PERSON#{id}")
  - Conditional writes, so inserts never overwrite and updates never create
  - Automatic EntityType injection for polymorphic storage

Macro Expansion:
Keys are built from the index map registered for the entity type in the
registry package. Macros are replaced with record field values:

	registry.RegisterIndexMap("membership", map[string]string{
	    "PK": "ORG#{organization}",  // Becomes "ORG#o-1"
	    "SK": "MEMBER#{id}",         // Becomes "MEMBER#m-1"
	})

Entity types without a registered map use registry.DefaultIndexMap, which
derives PK and SK from the id alone. For such layouts lookups by id use
GetItem and BatchGetItem; every other filter scans the table.

Client construction:

	client, err := ddb.NewDynamoDBClient(ctx, ddb.ClientOptions{Region: "us-east-1"})
	persons, err := ddb.NewDynamodbDataStore(client, "entities", "person")
*/
package ddb
