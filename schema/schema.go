/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package schema

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"math"
	"reflect"
	"sort"
	"sync"

	"github.com/go-openapi/strfmt"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/suparena/entityservice/errors"
	"github.com/suparena/entityservice/storagemodels"
)

//go:embed definitions/*.yaml
var definitions embed.FS

// Field types understood by Validate.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// Field describes one field of an entity.
type Field struct {
	// Type is one of the Type* constants. Empty accepts any value.
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
	// Required rejects records where the field is absent or nil.
	Required bool `json:"required,omitempty" yaml:"required,omitempty"`
	// Rules are go-playground/validator tags applied to the value, e.g. "min=1,max=200".
	Rules string `json:"rules,omitempty" yaml:"rules,omitempty"`
	// Format is a strfmt format name such as "email", "uri" or "uuid".
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// Descriptor is the named shape of one entity type.
type Descriptor struct {
	Name   string           `json:"name" yaml:"name"`
	Fields map[string]Field `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// IsEmpty reports whether the descriptor declares no fields. Lookups of
// unknown names return an empty descriptor.
func (d Descriptor) IsEmpty() bool {
	return len(d.Fields) == 0
}

func (d Descriptor) clone() Descriptor {
	return Descriptor{Name: d.Name, Fields: maps.Clone(d.Fields)}
}

// Registry maps schema names to descriptors. Descriptors are copied on the
// way in and out, so a registered descriptor cannot be changed afterwards.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]Descriptor
	validate    *validator.Validate
	formats     strfmt.Registry
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		descriptors: make(map[string]Descriptor),
		validate:    validator.New(),
		formats:     strfmt.Default,
	}
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the registry holding the built-in person, organization and
// account descriptors.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
		if err := defaultRegistry.LoadFS(definitions, "definitions/*.yaml"); err != nil {
			panic(fmt.Sprintf("schema: invalid built-in definitions: %v", err))
		}
	})
	return defaultRegistry
}

// Get looks up name in the default registry.
func Get(name string) (Descriptor, error) {
	return Default().Get(name)
}

// Register adds a descriptor. Names must be unique.
func (r *Registry) Register(d Descriptor) error {
	if d.Name == "" {
		return errors.NewValidationError("name", "schema name must not be empty")
	}
	for name, f := range d.Fields {
		if !knownType(f.Type) {
			return errors.NewValidationError(name, fmt.Sprintf("unknown type %q", f.Type))
		}
		if f.Format != "" && !r.formats.ContainsName(f.Format) {
			return errors.NewValidationError(name, fmt.Sprintf("unknown format %q", f.Format))
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.descriptors[d.Name]; exists {
		return errors.NewAlreadyExistsError("schema", d.Name)
	}
	r.descriptors[d.Name] = d.clone()
	return nil
}

// Load decodes one YAML descriptor and registers it.
func (r *Registry) Load(in io.Reader) error {
	var d Descriptor
	if err := yaml.NewDecoder(in).Decode(&d); err != nil {
		return fmt.Errorf("failed to decode schema: %w", err)
	}
	return r.Register(d)
}

// LoadFS registers every descriptor file in fsys matching pattern.
func (r *Registry) LoadFS(fsys fs.FS, pattern string) error {
	paths, err := fs.Glob(fsys, pattern)
	if err != nil {
		return fmt.Errorf("failed to list schemas: %w", err)
	}
	for _, p := range paths {
		f, err := fsys.Open(p)
		if err != nil {
			return fmt.Errorf("failed to open schema %s: %w", p, err)
		}
		err = r.Load(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("schema %s: %w", p, err)
		}
	}
	return nil
}

// Get returns the descriptor registered under name. An unknown name is not
// an error: it yields an empty descriptor carrying only the name.
func (r *Registry) Get(name string) (Descriptor, error) {
	if name == "" {
		return Descriptor{}, errors.NewPreconditionError("name", "please define the name of the schema")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.descriptors[name]
	if !ok {
		return Descriptor{Name: name}, nil
	}
	return d.clone(), nil
}

// Names returns the registered schema names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.descriptors))
	for n := range r.descriptors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Validate checks record against d. Fields not declared in d are accepted.
// The first violation, in field name order, is returned as a ValidationError.
func (r *Registry) Validate(d Descriptor, record storagemodels.Record) error {
	return r.validateRecord(d, record, true)
}

// ValidatePresent is Validate without the required checks: only the fields
// the record carries are checked. It suits partial records sent as updates.
func (r *Registry) ValidatePresent(d Descriptor, record storagemodels.Record) error {
	return r.validateRecord(d, record, false)
}

func (r *Registry) validateRecord(d Descriptor, record storagemodels.Record, requireAll bool) error {
	names := make([]string, 0, len(d.Fields))
	for n := range d.Fields {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, name := range names {
		field := d.Fields[name]
		value, present := record[name]
		if !present || value == nil {
			if field.Required && requireAll {
				return errors.NewValidationError(name, "is required")
			}
			continue
		}

		if !matchesType(field.Type, value) {
			return errors.NewValidationError(name, fmt.Sprintf("must be of type %s", field.Type))
		}

		if field.Format != "" {
			s, ok := value.(string)
			if !ok || !r.formats.Validates(field.Format, s) {
				return errors.NewValidationError(name, fmt.Sprintf("must be a valid %s", field.Format))
			}
		}

		if field.Rules != "" {
			if err := r.validate.Var(value, field.Rules); err != nil {
				return errors.NewValidationError(name, fmt.Sprintf("violates %q", field.Rules))
			}
		}
	}
	return nil
}

func knownType(t string) bool {
	switch t {
	case "", TypeString, TypeInteger, TypeNumber, TypeBoolean, TypeArray, TypeObject:
		return true
	}
	return false
}

func matchesType(t string, v any) bool {
	switch t {
	case "":
		return true
	case TypeString:
		_, ok := v.(string)
		return ok
	case TypeBoolean:
		_, ok := v.(bool)
		return ok
	case TypeInteger:
		switch n := v.(type) {
		case int, int32, int64:
			return true
		case float64:
			return n == math.Trunc(n)
		}
		return false
	case TypeNumber:
		switch v.(type) {
		case int, int32, int64, float32, float64:
			return true
		}
		return false
	case TypeArray:
		k := reflect.TypeOf(v).Kind()
		return k == reflect.Slice || k == reflect.Array
	case TypeObject:
		return reflect.TypeOf(v).Kind() == reflect.Map
	}
	return false
}
