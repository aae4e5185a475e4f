/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mongodb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/suparena/entityservice/errors"
	"github.com/suparena/entityservice/service"
	"github.com/suparena/entityservice/storagemodels"
)

func newMockStore(mt *mtest.T, entityType string) *DataStore {
	mt.Helper()
	store, err := NewDataStore(mt.DB, entityType)
	require.NoError(mt, err)
	store.newID = func() string { return entityType + "-1" }
	return store
}

func TestDataStoreAgainstMockDeployment(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("insert assigns an id", func(mt *mtest.T) {
		store := newMockStore(mt, "person")
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		inserted, err := store.Insert(ctx, storagemodels.Record{"name": "Ada"})
		require.NoError(mt, err)
		assert.Equal(mt, "person-1", inserted.ID())

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "insert", started.CommandName)
	})

	mt.Run("duplicate id is already exists", func(mt *mtest.T) {
		store := newMockStore(mt, "person")
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: person index: id_1",
		}))

		_, err := store.Insert(ctx, storagemodels.Record{"id": "p-1", "name": "Ada"})
		assert.True(mt, errors.IsAlreadyExists(err))
	})

	mt.Run("update of a missing document is not found", func(mt *mtest.T) {
		store := newMockStore(mt, "person")
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := store.Update(ctx, storagemodels.Record{"id": "ghost", "name": "Nobody"})
		assert.True(mt, errors.IsNotFound(err))
	})

	mt.Run("update returns the merged document", func(mt *mtest.T) {
		store := newMockStore(mt, "person")
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "id", Value: "p-1"},
			{Key: "name", Value: "Ada"},
			{Key: "phone", Value: "123"},
		}}))

		updated, err := store.Update(ctx, storagemodels.Record{"id": "p-1", "phone": "123"})
		require.NoError(mt, err)
		assert.Equal(mt, "Ada", updated["name"])
		assert.Equal(mt, "123", updated["phone"])
		assert.Equal(mt, "findAndModify", mt.GetStartedEvent().CommandName)
	})

	mt.Run("update without fields reads the document", func(mt *mtest.T) {
		store := newMockStore(mt, "person")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.person", mtest.FirstBatch))

		_, err := store.Update(ctx, storagemodels.Record{"id": "ghost"})
		assert.True(mt, errors.IsNotFound(err))
		assert.Equal(mt, "find", mt.GetStartedEvent().CommandName)
	})

	mt.Run("query by ids decodes records", func(mt *mtest.T) {
		store := newMockStore(mt, "organization")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.organization", mtest.FirstBatch,
			bson.D{{Key: "id", Value: "o-1"}, {Key: "name", Value: "Acme"}},
			bson.D{{Key: "id", Value: "o-2"}, {Key: "name", Value: "Initech"}},
		))

		records, err := store.Query(ctx, storagemodels.ByIDs([]string{"o-1", "o-2", "o-9"}))
		require.NoError(mt, err)
		require.Len(mt, records, 2)
		assert.Equal(mt, "o-1", records[0].ID())
		assert.Equal(mt, "Initech", records[1]["name"])

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "find", started.CommandName)
		in, err := started.Command.LookupErr("filter", "id", "$in")
		require.NoError(mt, err)
		values, err := in.Array().Values()
		require.NoError(mt, err)
		assert.Len(mt, values, 3)
	})

	mt.Run("empty id list skips the server", func(mt *mtest.T) {
		store := newMockStore(mt, "organization")

		records, err := store.Query(ctx, storagemodels.ByIDs(nil))
		require.NoError(mt, err)
		assert.NotNil(mt, records)
		assert.Empty(mt, records)
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("save inserts after a not found update", func(mt *mtest.T) {
		store := newMockStore(mt, "person")
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			mtest.CreateSuccessResponse(),
		)

		saved, err := service.NewPerson(store).Save(ctx, storagemodels.Record{"id": "p-7", "name": "Ada"})
		require.NoError(mt, err)
		assert.Equal(mt, "p-7", saved.ID())

		created, _ := saved.Created()
		modified, _ := saved.Modified()
		assert.Equal(mt, modified, created)
	})
}
