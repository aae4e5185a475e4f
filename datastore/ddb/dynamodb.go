/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/suparena/entityservice/datastore"
	storeerrors "github.com/suparena/entityservice/errors"
	"github.com/suparena/entityservice/registry"
	"github.com/suparena/entityservice/storagemodels"
)

// entityTypeAttr is injected into every item so that entity types can share a table.
const entityTypeAttr = "EntityType"

// API is the subset of the DynamoDB client used by the datastore.
type API interface {
	GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *sdk.UpdateItemInput, optFns ...func(*sdk.Options)) (*sdk.UpdateItemOutput, error)
	BatchGetItem(ctx context.Context, params *sdk.BatchGetItemInput, optFns ...func(*sdk.Options)) (*sdk.BatchGetItemOutput, error)
	sdk.ScanAPIClient
}

// DynamodbDataStore implements datastore.DataStore for one entity type stored
// in a shared DynamoDB table.
type DynamodbDataStore struct {
	client     API
	tableName  string
	entityType string
	indexMap   map[string]string
	newID      func() string
}

// ClientOptions configures NewDynamoDBClient.
type ClientOptions struct {
	AccessKey string
	SecretKey string
	Region    string
	// Endpoint overrides the service endpoint, e.g. for DynamoDB Local.
	Endpoint string
}

// NewDynamoDBClient initializes a DynamoDB client. Static credentials are used
// when an access key is given, otherwise the default AWS credential chain.
func NewDynamoDBClient(ctx context.Context, opts ClientOptions) (*sdk.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return sdk.NewFromConfig(cfg, func(o *sdk.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	}), nil
}

// NewDynamodbDataStore constructs a datastore for entityType. Keys follow the
// index map registered for the entity type, or registry.DefaultIndexMap.
func NewDynamodbDataStore(client API, tableName, entityType string) (*DynamodbDataStore, error) {
	if client == nil {
		return nil, errors.New("dynamodb client must not be nil")
	}
	if tableName == "" || entityType == "" {
		return nil, errors.New("table name and entity type are required")
	}

	return &DynamodbDataStore{
		client:     client,
		tableName:  tableName,
		entityType: entityType,
		indexMap:   registry.IndexMapFor(entityType),
		newID:      uuid.NewString,
	}, nil
}

// Insert writes a new item. The write is conditional on no item existing
// under the same key, so a duplicate id yields an AlreadyExists error.
func (d *DynamodbDataStore) Insert(ctx context.Context, record storagemodels.Record) (storagemodels.Record, error) {
	stored := record.Clone()
	if stored == nil {
		stored = storagemodels.Record{}
	}
	if stored.ID() == "" {
		stored[storagemodels.FieldID] = d.newID()
	}

	av, err := attributevalue.MarshalMap(map[string]any(stored))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}

	// Expand macros using the record itself
	expanded, err := expandMacros(d.indexMap, map[string]any(stored))
	if err != nil {
		return nil, storeerrors.NewValidationError("key", err.Error())
	}
	if _, err := buildKeyFromExpanded(expanded); err != nil {
		return nil, storeerrors.NewValidationError("key", err.Error())
	}

	// Insert the expanded fields as PK, SK, etc.
	for k, v := range expanded {
		av[k] = &types.AttributeValueMemberS{Value: v}
	}
	av[entityTypeAttr] = &types.AttributeValueMemberS{Value: d.entityType}

	_, err = d.client.PutItem(ctx, &sdk.PutItemInput{
		TableName:           &d.tableName,
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return nil, storeerrors.NewAlreadyExistsError(d.entityType, stored.ID())
		}
		return nil, fmt.Errorf("PutItem failed: %w", err)
	}
	return stored, nil
}

// Update sets every field of the record on the existing item and returns the
// item as stored afterwards. The write is conditional on the item existing,
// so an unknown id yields a NotFound error.
func (d *DynamodbDataStore) Update(ctx context.Context, record storagemodels.Record) (storagemodels.Record, error) {
	id := record.ID()
	if id == "" {
		return nil, storeerrors.NewNotFoundError(d.entityType, id)
	}

	key, err := d.keyFor(record)
	if err != nil {
		return nil, err
	}

	updates := record.Without(storagemodels.FieldID)
	for attr := range d.indexMap {
		delete(updates, attr)
	}
	delete(updates, entityTypeAttr)

	if len(updates) == 0 {
		out, err := d.client.GetItem(ctx, &sdk.GetItemInput{TableName: &d.tableName, Key: key})
		if err != nil {
			return nil, fmt.Errorf("GetItem error: %w", err)
		}
		if out.Item == nil {
			return nil, storeerrors.NewNotFoundError(d.entityType, id)
		}
		return d.unmarshal(out.Item)
	}

	update, err := buildUpdateExpression(updates)
	if err != nil {
		return nil, fmt.Errorf("failed to build update expression: %w", err)
	}

	out, err := d.client.UpdateItem(ctx, &sdk.UpdateItemInput{
		TableName:                 &d.tableName,
		Key:                       key,
		UpdateExpression:          &update.Expr,
		ExpressionAttributeNames:  update.Names,
		ExpressionAttributeValues: update.Values,
		ConditionExpression:       aws.String("attribute_exists(PK)"),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		// A failed existence condition means there is nothing to update
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return nil, storeerrors.NewNotFoundError(d.entityType, id)
		}
		return nil, fmt.Errorf("UpdateWithCondition failed: %w", err)
	}

	return d.unmarshal(out.Attributes)
}

// keyFor builds the primary key of the item a record addresses.
func (d *DynamodbDataStore) keyFor(record storagemodels.Record) (map[string]types.AttributeValue, error) {
	expanded, err := expandMacros(d.indexMap, map[string]any(record))
	if err != nil {
		return nil, storeerrors.NewValidationError("key", err.Error())
	}
	key, err := buildKeyFromExpanded(expanded)
	if err != nil {
		return nil, storeerrors.NewValidationError("key", err.Error())
	}
	return key, nil
}

// keyForID builds the primary key from an id alone; see idOnly.
func (d *DynamodbDataStore) keyForID(id string) (map[string]types.AttributeValue, error) {
	return buildKeyFromExpanded(expandStringKey(d.indexMap, id))
}

// unmarshal converts an item into a record, dropping the key attributes the
// datastore injected.
func (d *DynamodbDataStore) unmarshal(item map[string]types.AttributeValue) (storagemodels.Record, error) {
	var rec map[string]any
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	for attr := range d.indexMap {
		delete(rec, attr)
	}
	delete(rec, entityTypeAttr)
	return storagemodels.Record(rec), nil
}

var (
	_ datastore.DataStore = (*DynamodbDataStore)(nil)
	_ API                 = (*sdk.Client)(nil)
)
