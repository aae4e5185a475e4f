/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"reflect"
	"sort"
)

// Filter selects records. Each entry maps a field either to an exact value
// or to an In constraint. An empty filter matches every record.
type Filter map[string]any

// In is a set-membership constraint for a single field.
type In []any

// ByID returns a filter matching the record with the given id.
func ByID(id string) Filter {
	return Filter{FieldID: id}
}

// ByIDs returns a filter matching every record whose id is in ids.
func ByIDs(ids []string) Filter {
	in := make(In, len(ids))
	for i, id := range ids {
		in[i] = id
	}
	return Filter{FieldID: in}
}

// Fields returns the filtered field names in sorted order, so that
// backends translating a filter produce stable expressions.
func (f Filter) Fields() []string {
	fields := make([]string, 0, len(f))
	for k := range f {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}

// Empty reports whether some In constraint has no members, meaning the
// filter can never match.
func (f Filter) Empty() bool {
	for _, v := range f {
		if in, ok := v.(In); ok && len(in) == 0 {
			return true
		}
	}
	return false
}

// Match reports whether the record satisfies every constraint.
func (f Filter) Match(r Record) bool {
	for field, want := range f {
		got, ok := r[field]
		if !ok {
			return false
		}
		if in, isIn := want.(In); isIn {
			if !in.contains(got) {
				return false
			}
			continue
		}
		if !ValuesEqual(got, want) {
			return false
		}
	}
	return true
}

func (in In) contains(v any) bool {
	for _, candidate := range in {
		if ValuesEqual(v, candidate) {
			return true
		}
	}
	return false
}

// ValuesEqual compares two field values, treating all numeric types as equal
// when they hold the same value.
func ValuesEqual(a, b any) bool {
	na, aNum := toFloat(a)
	nb, bNum := toFloat(b)
	if aNum && bNum {
		return na == nb
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
