/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"

	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/entityservice/storagemodels"
)

// batchGetLimit is the maximum number of keys DynamoDB accepts per BatchGetItem call.
const batchGetLimit = 100

// maxUnprocessedRounds bounds how often unprocessed batch keys are resubmitted.
const maxUnprocessedRounds = 5

// Query returns the items of this entity type matching the filter.
//
// Lookups by id or by a set of ids use GetItem and BatchGetItem when the key
// layout is derived from the id alone. Every other filter scans the table
// with a filter expression; DynamoDB limits IN lists in such scans to 100 values.
func (d *DynamodbDataStore) Query(ctx context.Context, filter storagemodels.Filter) ([]storagemodels.Record, error) {
	if filter.Empty() {
		return []storagemodels.Record{}, nil
	}

	if len(filter) == 1 && idOnly(d.indexMap) {
		switch v := filter[storagemodels.FieldID].(type) {
		case string:
			return d.getOne(ctx, v)
		case storagemodels.In:
			if ids, ok := stringIDs(v); ok {
				return d.batchGet(ctx, ids)
			}
		}
	}

	return d.scan(ctx, filter)
}

func (d *DynamodbDataStore) getOne(ctx context.Context, id string) ([]storagemodels.Record, error) {
	key, err := d.keyForID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to build key: %w", err)
	}

	out, err := d.client.GetItem(ctx, &sdk.GetItemInput{
		TableName: &d.tableName,
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem error: %w", err)
	}
	if out.Item == nil {
		return []storagemodels.Record{}, nil
	}

	rec, err := d.unmarshal(out.Item)
	if err != nil {
		return nil, err
	}
	return []storagemodels.Record{rec}, nil
}

func (d *DynamodbDataStore) batchGet(ctx context.Context, ids []string) ([]storagemodels.Record, error) {
	// BatchGetItem rejects duplicate keys
	seen := make(map[string]struct{}, len(ids))
	keys := make([]map[string]types.AttributeValue, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		key, err := d.keyForID(id)
		if err != nil {
			return nil, fmt.Errorf("failed to build key: %w", err)
		}
		keys = append(keys, key)
	}

	results := make([]storagemodels.Record, 0, len(keys))
	for start := 0; start < len(keys); start += batchGetLimit {
		end := min(start+batchGetLimit, len(keys))

		pending := map[string]types.KeysAndAttributes{
			d.tableName: {Keys: keys[start:end]},
		}
		for round := 0; len(pending) > 0; round++ {
			if round == maxUnprocessedRounds {
				return nil, fmt.Errorf("BatchGetItem left %d keys unprocessed", len(pending[d.tableName].Keys))
			}

			out, err := d.client.BatchGetItem(ctx, &sdk.BatchGetItemInput{RequestItems: pending})
			if err != nil {
				return nil, fmt.Errorf("BatchGetItem error: %w", err)
			}
			for _, item := range out.Responses[d.tableName] {
				rec, err := d.unmarshal(item)
				if err != nil {
					return nil, err
				}
				results = append(results, rec)
			}
			pending = out.UnprocessedKeys
		}
	}
	return results, nil
}

func (d *DynamodbDataStore) scan(ctx context.Context, filter storagemodels.Filter) ([]storagemodels.Record, error) {
	expr, err := buildFilterExpression(d.entityType, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to build filter expression: %w", err)
	}

	paginator := sdk.NewScanPaginator(d.client, &sdk.ScanInput{
		TableName:                 &d.tableName,
		FilterExpression:          &expr.Expr,
		ExpressionAttributeNames:  expr.Names,
		ExpressionAttributeValues: expr.Values,
	})

	results := make([]storagemodels.Record, 0)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		for _, item := range page.Items {
			rec, err := d.unmarshal(item)
			if err != nil {
				return nil, err
			}
			results = append(results, rec)
		}
	}
	return results, nil
}

func stringIDs(in storagemodels.In) ([]string, bool) {
	ids := make([]string, len(in))
	for i, v := range in {
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		ids[i] = s
	}
	return ids, true
}
