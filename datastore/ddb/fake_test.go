/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/entityservice/storagemodels"
)

// fakeClient is an in-memory stand-in for the DynamoDB API. It understands
// exactly the expressions this package generates.
type fakeClient struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue
	calls []string
	err   error

	// unprocessedOnce makes the first BatchGetItem call return every key unprocessed.
	unprocessedOnce bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{items: make(map[string]map[string]types.AttributeValue)}
}

func itemKey(key map[string]types.AttributeValue) string {
	pk := key["PK"].(*types.AttributeValueMemberS).Value
	sk := key["SK"].(*types.AttributeValueMemberS).Value
	return pk + "|" + sk
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	c := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		c[k] = v
	}
	return c
}

func conditionFailed() error {
	return &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
}

func (f *fakeClient) record(op string) error {
	f.calls = append(f.calls, op)
	return f.err
}

func (f *fakeClient) GetItem(_ context.Context, in *sdk.GetItemInput, _ ...func(*sdk.Options)) (*sdk.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetItem"); err != nil {
		return nil, err
	}

	item, ok := f.items[itemKey(in.Key)]
	if !ok {
		return &sdk.GetItemOutput{}, nil
	}
	return &sdk.GetItemOutput{Item: copyItem(item)}, nil
}

func (f *fakeClient) PutItem(_ context.Context, in *sdk.PutItemInput, _ ...func(*sdk.Options)) (*sdk.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("PutItem"); err != nil {
		return nil, err
	}

	k := itemKey(in.Item)
	if _, exists := f.items[k]; exists && aws.ToString(in.ConditionExpression) == "attribute_not_exists(PK)" {
		return nil, conditionFailed()
	}
	f.items[k] = copyItem(in.Item)
	return &sdk.PutItemOutput{}, nil
}

func (f *fakeClient) UpdateItem(_ context.Context, in *sdk.UpdateItemInput, _ ...func(*sdk.Options)) (*sdk.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("UpdateItem"); err != nil {
		return nil, err
	}

	k := itemKey(in.Key)
	item, exists := f.items[k]
	if !exists {
		if aws.ToString(in.ConditionExpression) == "attribute_exists(PK)" {
			return nil, conditionFailed()
		}
		item = copyItem(in.Key)
	}
	for placeholder, field := range in.ExpressionAttributeNames {
		item[field] = in.ExpressionAttributeValues[":v"+strings.TrimPrefix(placeholder, "#f")]
	}
	f.items[k] = item
	return &sdk.UpdateItemOutput{Attributes: copyItem(item)}, nil
}

func (f *fakeClient) BatchGetItem(_ context.Context, in *sdk.BatchGetItemInput, _ ...func(*sdk.Options)) (*sdk.BatchGetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("BatchGetItem"); err != nil {
		return nil, err
	}

	if f.unprocessedOnce {
		f.unprocessedOnce = false
		return &sdk.BatchGetItemOutput{UnprocessedKeys: in.RequestItems}, nil
	}

	out := &sdk.BatchGetItemOutput{Responses: make(map[string][]map[string]types.AttributeValue)}
	for table, ka := range in.RequestItems {
		for _, key := range ka.Keys {
			if item, ok := f.items[itemKey(key)]; ok {
				out.Responses[table] = append(out.Responses[table], copyItem(item))
			}
		}
	}
	return out, nil
}

func (f *fakeClient) Scan(_ context.Context, in *sdk.ScanInput, _ ...func(*sdk.Options)) (*sdk.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Scan"); err != nil {
		return nil, err
	}

	out := &sdk.ScanOutput{}
	for _, item := range f.items {
		if matchesScan(item, in) {
			out.Items = append(out.Items, copyItem(item))
		}
	}
	return out, nil
}

// matchesScan evaluates the filter expressions built by buildFilterExpression.
func matchesScan(item map[string]types.AttributeValue, in *sdk.ScanInput) bool {
	for placeholder, field := range in.ExpressionAttributeNames {
		got, ok := item[field]
		if !ok {
			return false
		}
		valuePrefix := ":" + strings.TrimPrefix(placeholder, "#")

		var candidates []types.AttributeValue
		if v, ok := in.ExpressionAttributeValues[valuePrefix]; ok {
			candidates = append(candidates, v)
		} else {
			for name, v := range in.ExpressionAttributeValues {
				if strings.HasPrefix(name, valuePrefix+"_") {
					candidates = append(candidates, v)
				}
			}
		}

		if !anyEqual(got, candidates) {
			return false
		}
	}
	return true
}

func anyEqual(got types.AttributeValue, candidates []types.AttributeValue) bool {
	var g any
	if err := attributevalue.Unmarshal(got, &g); err != nil {
		return false
	}
	for _, c := range candidates {
		var w any
		if err := attributevalue.Unmarshal(c, &w); err != nil {
			continue
		}
		if storagemodels.ValuesEqual(g, w) {
			return true
		}
	}
	return false
}

var _ API = (*fakeClient)(nil)
