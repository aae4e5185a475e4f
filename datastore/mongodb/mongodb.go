/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/suparena/entityservice/datastore"
	storeerrors "github.com/suparena/entityservice/errors"
	"github.com/suparena/entityservice/storagemodels"
)

// Connect opens a client for uri and verifies the connection. Nested
// documents decode as bson.M so that records stay plain maps.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return client, nil
}

// DataStore implements datastore.DataStore with one collection per entity
// type. Records are addressed by their id field; the driver's _id is never
// exposed.
type DataStore struct {
	collection *mongo.Collection
	entityType string
	newID      func() string
}

// NewDataStore returns the datastore of entityType, stored in the collection
// of the same name.
func NewDataStore(db *mongo.Database, entityType string) (*DataStore, error) {
	if db == nil {
		return nil, errors.New("mongodb database must not be nil")
	}
	if entityType == "" {
		return nil, errors.New("entity type is required")
	}
	return &DataStore{
		collection: db.Collection(entityType),
		entityType: entityType,
		newID:      uuid.NewString,
	}, nil
}

// EnsureIndexes creates the unique index on the id field that makes
// duplicate inserts fail.
func (d *DataStore) EnsureIndexes(ctx context.Context) error {
	_, err := d.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: storagemodels.FieldID, Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create index on %s.%s: %w", d.entityType, storagemodels.FieldID, err)
	}
	return nil
}

// Insert stores a new document, assigning an id when the record has none.
func (d *DataStore) Insert(ctx context.Context, record storagemodels.Record) (storagemodels.Record, error) {
	stored := record.Clone()
	if stored == nil {
		stored = storagemodels.Record{}
	}
	if stored.ID() == "" {
		stored[storagemodels.FieldID] = d.newID()
	}

	// InsertOne sets _id on bson.M documents, so insert a copy
	if _, err := d.collection.InsertOne(ctx, bson.M(stored.Clone())); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, storeerrors.NewAlreadyExistsError(d.entityType, stored.ID())
		}
		return nil, fmt.Errorf("failed to insert %s: %w", d.entityType, err)
	}
	return stored, nil
}

// Update sets the record's fields on the document with the same id and
// returns the document as stored afterwards.
func (d *DataStore) Update(ctx context.Context, record storagemodels.Record) (storagemodels.Record, error) {
	id := record.ID()
	if id == "" {
		return nil, storeerrors.NewNotFoundError(d.entityType, id)
	}

	filter := bson.M{storagemodels.FieldID: id}
	set := updateDocument(record)

	var result *mongo.SingleResult
	if set == nil {
		result = d.collection.FindOne(ctx, filter, options.FindOne().SetProjection(hideObjectID))
	} else {
		result = d.collection.FindOneAndUpdate(ctx, filter, set,
			options.FindOneAndUpdate().
				SetReturnDocument(options.After).
				SetProjection(hideObjectID))
	}

	if err := result.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storeerrors.NewNotFoundError(d.entityType, id)
		}
		return nil, fmt.Errorf("failed to update %s: %w", d.entityType, err)
	}

	var doc bson.M
	if err := result.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode updated %s: %w", d.entityType, err)
	}
	return storagemodels.Record(doc), nil
}

// Query returns the documents matching the filter.
func (d *DataStore) Query(ctx context.Context, filter storagemodels.Filter) ([]storagemodels.Record, error) {
	results := make([]storagemodels.Record, 0)
	if filter.Empty() {
		return results, nil
	}

	cursor, err := d.collection.Find(ctx, filterDocument(filter), options.Find().SetProjection(hideObjectID))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", d.entityType, err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s documents: %w", d.entityType, err)
	}
	for _, doc := range docs {
		results = append(results, storagemodels.Record(doc))
	}
	return results, nil
}

var hideObjectID = bson.D{{Key: "_id", Value: 0}}

// filterDocument translates a filter into a query document. In constraints
// become $in clauses.
func filterDocument(filter storagemodels.Filter) bson.D {
	doc := bson.D{}
	for _, field := range filter.Fields() {
		value := filter[field]
		if in, ok := value.(storagemodels.In); ok {
			value = bson.M{"$in": bson.A(in)}
		}
		doc = append(doc, bson.E{Key: field, Value: value})
	}
	return doc
}

// updateDocument returns the $set document for every field except the id,
// or nil when there is nothing to set.
func updateDocument(record storagemodels.Record) bson.M {
	fields := record.Without(storagemodels.FieldID, "_id")
	if len(fields) == 0 {
		return nil
	}
	return bson.M{"$set": bson.M(fields)}
}

var _ datastore.DataStore = (*DataStore)(nil)
