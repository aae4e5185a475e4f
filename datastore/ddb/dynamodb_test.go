/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/entityservice/errors"
	"github.com/suparena/entityservice/registry"
	"github.com/suparena/entityservice/service"
	"github.com/suparena/entityservice/storagemodels"
)

func newTestStore(t *testing.T, client *fakeClient, entityType string) *DynamodbDataStore {
	t.Helper()
	store, err := NewDynamodbDataStore(client, "entities", entityType)
	require.NoError(t, err)
	n := 0
	store.newID = func() string {
		n++
		return fmt.Sprintf("%s-%d", entityType, n)
	}
	return store
}

func TestNewDynamodbDataStoreValidation(t *testing.T) {
	_, err := NewDynamodbDataStore(nil, "entities", "person")
	assert.Error(t, err)

	_, err = NewDynamodbDataStore(newFakeClient(), "", "person")
	assert.Error(t, err)
}

func TestInsert(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	store := newTestStore(t, client, "person")

	inserted, err := store.Insert(ctx, storagemodels.Record{"name": "Ada", "created": int64(10)})
	require.NoError(t, err)
	assert.Equal(t, "person-1", inserted.ID())

	item := client.items["PERSON#person-1|PERSON#person-1"]
	require.NotNil(t, item)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "person"}, item[entityTypeAttr])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "Ada"}, item["name"])
	assert.Equal(t, &types.AttributeValueMemberN{Value: "10"}, item["created"])

	_, err = store.Insert(ctx, storagemodels.Record{"id": "person-1"})
	assert.True(t, errors.IsAlreadyExists(err))
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	store := newTestStore(t, client, "person")

	t.Run("without id", func(t *testing.T) {
		_, err := store.Update(ctx, storagemodels.Record{"name": "Ada"})
		assert.True(t, errors.IsNotFound(err))
		assert.Empty(t, client.calls)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := store.Update(ctx, storagemodels.Record{"id": "nope", "name": "Ada"})
		assert.True(t, errors.IsNotFound(err))
		assert.Empty(t, client.items)
	})

	t.Run("existing item", func(t *testing.T) {
		_, err := store.Insert(ctx, storagemodels.Record{"id": "p-1", "name": "Ada", "created": int64(10), "modified": int64(10)})
		require.NoError(t, err)

		updated, err := store.Update(ctx, storagemodels.Record{"id": "p-1", "name": "Ada Lovelace", "modified": int64(20)})
		require.NoError(t, err)

		assert.Equal(t, "Ada Lovelace", updated["name"])
		created, _ := updated.Created()
		modified, _ := updated.Modified()
		assert.Equal(t, int64(10), created)
		assert.Equal(t, int64(20), modified)
		assert.NotContains(t, updated, "PK")
		assert.NotContains(t, updated, entityTypeAttr)
	})

	t.Run("only id", func(t *testing.T) {
		rec, err := store.Update(ctx, storagemodels.Record{"id": "p-1"})
		require.NoError(t, err)
		assert.Equal(t, "p-1", rec.ID())

		_, err = store.Update(ctx, storagemodels.Record{"id": "ghost"})
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("client failure is not classified as not found", func(t *testing.T) {
		failing := newFakeClient()
		failing.err = stderrors.New("ProvisionedThroughputExceeded")
		s := newTestStore(t, failing, "person")

		_, err := s.Update(ctx, storagemodels.Record{"id": "p-1", "name": "Ada"})
		require.Error(t, err)
		assert.False(t, errors.IsNotFound(err))
		assert.ErrorIs(t, err, failing.err)
	})
}

func TestQuery(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	persons := newTestStore(t, client, "person")
	orgs := newTestStore(t, client, "organization")

	for _, name := range []string{"Ada", "Grace", "Edsger"} {
		_, err := persons.Insert(ctx, storagemodels.Record{"name": name})
		require.NoError(t, err)
	}
	_, err := orgs.Insert(ctx, storagemodels.Record{"name": "Acme"})
	require.NoError(t, err)

	t.Run("all of one type", func(t *testing.T) {
		records, err := persons.Query(ctx, storagemodels.Filter{})
		require.NoError(t, err)
		assert.Len(t, records, 3)
		for _, r := range records {
			assert.NotEqual(t, "Acme", r["name"])
		}
	})

	t.Run("by id uses GetItem", func(t *testing.T) {
		client.calls = nil
		records, err := persons.Query(ctx, storagemodels.ByID("person-2"))
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "Grace", records[0]["name"])
		assert.Equal(t, []string{"GetItem"}, client.calls)

		records, err = persons.Query(ctx, storagemodels.ByID("person-9"))
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("by ids uses BatchGetItem", func(t *testing.T) {
		client.calls = nil
		client.unprocessedOnce = true
		records, err := persons.Query(ctx, storagemodels.ByIDs([]string{"person-1", "person-3", "person-1", "person-9"}))
		require.NoError(t, err)
		assert.Len(t, records, 2)
		assert.Equal(t, []string{"BatchGetItem", "BatchGetItem"}, client.calls)
	})

	t.Run("empty ids skip the call", func(t *testing.T) {
		client.calls = nil
		records, err := persons.Query(ctx, storagemodels.ByIDs(nil))
		require.NoError(t, err)
		assert.NotNil(t, records)
		assert.Empty(t, records)
		assert.Empty(t, client.calls)
	})

	t.Run("other filters scan", func(t *testing.T) {
		client.calls = nil
		records, err := persons.Query(ctx, storagemodels.Filter{"name": storagemodels.In{"Ada", "Edsger", "Acme"}})
		require.NoError(t, err)
		assert.Len(t, records, 2)
		assert.Equal(t, []string{"Scan"}, client.calls)
	})

	t.Run("failure", func(t *testing.T) {
		client.err = stderrors.New("boom")
		defer func() { client.err = nil }()

		_, err := persons.Query(ctx, storagemodels.Filter{})
		assert.ErrorIs(t, err, client.err)
	})
}

func TestCompositeKeysFallBackToScan(t *testing.T) {
	ctx := context.Background()
	registry.RegisterIndexMap("membership", map[string]string{
		"PK": "ORG#{organization}",
		"SK": "MEMBER#{id}",
	})
	client := newFakeClient()
	store := newTestStore(t, client, "membership")

	_, err := store.Insert(ctx, storagemodels.Record{"id": "m-1", "organization": "o-1"})
	require.NoError(t, err)
	require.Contains(t, client.items, "ORG#o-1|MEMBER#m-1")

	client.calls = nil
	records, err := store.Query(ctx, storagemodels.ByID("m-1"))
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, []string{"Scan"}, client.calls)

	_, err = store.Insert(ctx, storagemodels.Record{"id": "m-2"})
	assert.True(t, errors.IsValidationError(err))
}

func TestPersonServiceOnDynamoDB(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1700000000, 0)
	clock := func() time.Time { return now }

	store := newTestStore(t, newFakeClient(), "person")
	persons := service.NewPerson(store, service.WithClock(clock))

	first, err := persons.Save(ctx, storagemodels.Record{"name": "Ada"})
	require.NoError(t, err)
	t0 := now.Unix()

	now = now.Add(time.Minute)
	second, err := persons.Save(ctx, storagemodels.Record{"id": first.ID(), "name": "Ada Lovelace"})
	require.NoError(t, err)

	created, _ := second.Created()
	modified, _ := second.Modified()
	assert.Equal(t, t0, created)
	assert.Equal(t, now.Unix(), modified)

	found, err := persons.FindByID(ctx, first.ID())
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", found["name"])
}
