/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var macroPattern = regexp.MustCompile(`{([^}]+)}`)

// expandMacros fills every template of the index map from the fields of keysInput.
// A macro whose field is absent, or not a scalar, is an error.
func expandMacros(indexMap map[string]string, keysInput any) (map[string]string, error) {
	// Convert keysInput to a map of attribute values
	av, err := attributevalue.MarshalMap(keysInput)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal keysInput: %w", err)
	}

	res := make(map[string]string, len(indexMap))

	var missing string
	for fieldName, template := range indexMap {
		expanded := macroPattern.ReplaceAllStringFunc(template, func(macro string) string {
			// macro is something like "{id}"
			key := strings.Trim(macro, "{}")

			val, ok := av[key]
			if !ok {
				missing = key
				return ""
			}

			switch tv := val.(type) {
			case *types.AttributeValueMemberS:
				return tv.Value
			case *types.AttributeValueMemberN:
				return tv.Value
			case *types.AttributeValueMemberBOOL:
				return fmt.Sprintf("%v", tv.Value)
			default:
				// sets, lists, maps and binaries cannot be part of a key
				missing = key
				return ""
			}
		})
		if missing != "" {
			return nil, fmt.Errorf("no usable value for %q in %s template %q", missing, fieldName, template)
		}
		res[fieldName] = expanded
	}

	return res, nil
}

// expandStringKey replaces macro patterns in the indexMap values with the provided key.
// It is only meaningful when idOnly(indexMap) holds.
func expandStringKey(indexMap map[string]string, key string) map[string]string {
	expanded := make(map[string]string, len(indexMap))
	for field, template := range indexMap {
		expanded[field] = macroPattern.ReplaceAllString(template, key)
	}
	return expanded
}

// idOnly reports whether PK and SK are derived from the id field alone, so a
// bare id is enough to address an item.
func idOnly(indexMap map[string]string) bool {
	for _, attr := range []string{"PK", "SK"} {
		template, ok := indexMap[attr]
		if !ok {
			return false
		}
		for _, m := range macroPattern.FindAllStringSubmatch(template, -1) {
			if m[1] != "id" {
				return false
			}
		}
	}
	return true
}

// buildKeyFromExpanded builds a DynamoDB key from the expanded index map.
// It requires non-empty values for "PK" and "SK".
func buildKeyFromExpanded(expanded map[string]string) (map[string]types.AttributeValue, error) {
	pk, okPK := expanded["PK"]
	sk, okSK := expanded["SK"]

	if !okPK || !okSK || pk == "" || sk == "" {
		return nil, fmt.Errorf("expanded index map missing valid PK or SK")
	}

	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}, nil
}
