/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/entityservice/storagemodels"
)

// expression is a condition, filter or update expression with its placeholders.
type expression struct {
	Expr   string
	Names  map[string]string
	Values map[string]types.AttributeValue
}

// buildUpdateExpression transforms a map of field->value into
// "SET #f0 = :v0, #f1 = :v1" plus the placeholder maps. Fields are emitted
// in sorted order.
func buildUpdateExpression(updates map[string]any) (expression, error) {
	if len(updates) == 0 {
		return expression{}, errors.New("no updates provided")
	}

	fields := make([]string, 0, len(updates))
	for f := range updates {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	setClauses := make([]string, 0, len(fields))
	exprAttrNames := make(map[string]string, len(fields))
	exprAttrValues := make(map[string]types.AttributeValue, len(fields))

	for i, field := range fields {
		placeholderName := fmt.Sprintf("#f%d", i)
		placeholderValue := fmt.Sprintf(":v%d", i)

		av, err := attributevalue.Marshal(updates[field])
		if err != nil {
			return expression{}, fmt.Errorf("unhandled update value type for field '%s': %w", field, err)
		}

		setClauses = append(setClauses, fmt.Sprintf("%s = %s", placeholderName, placeholderValue))
		exprAttrNames[placeholderName] = field
		exprAttrValues[placeholderValue] = av
	}

	return expression{
		Expr:   "SET " + strings.Join(setClauses, ", "),
		Names:  exprAttrNames,
		Values: exprAttrValues,
	}, nil
}

// buildFilterExpression translates a Filter into a scan filter restricted to
// one entity type, e.g. "#et = :et AND #q0 = :q0 AND #q1 IN (:q1_0, :q1_1)".
// Callers must skip the scan when filter.Empty() holds, since DynamoDB
// rejects an empty IN list.
func buildFilterExpression(entityType string, filter storagemodels.Filter) (expression, error) {
	et, err := attributevalue.Marshal(entityType)
	if err != nil {
		return expression{}, err
	}

	clauses := []string{"#et = :et"}
	names := map[string]string{"#et": entityTypeAttr}
	values := map[string]types.AttributeValue{":et": et}

	for i, field := range filter.Fields() {
		name := fmt.Sprintf("#q%d", i)
		names[name] = field

		if in, ok := filter[field].(storagemodels.In); ok {
			placeholders := make([]string, len(in))
			for j, v := range in {
				ph := fmt.Sprintf(":q%d_%d", i, j)
				av, err := attributevalue.Marshal(v)
				if err != nil {
					return expression{}, fmt.Errorf("failed to marshal filter value for '%s': %w", field, err)
				}
				values[ph] = av
				placeholders[j] = ph
			}
			clauses = append(clauses, fmt.Sprintf("%s IN (%s)", name, strings.Join(placeholders, ", ")))
			continue
		}

		ph := fmt.Sprintf(":q%d", i)
		av, err := attributevalue.Marshal(filter[field])
		if err != nil {
			return expression{}, fmt.Errorf("failed to marshal filter value for '%s': %w", field, err)
		}
		values[ph] = av
		clauses = append(clauses, fmt.Sprintf("%s = %s", name, ph))
	}

	return expression{
		Expr:   strings.Join(clauses, " AND "),
		Names:  names,
		Values: values,
	}, nil
}
