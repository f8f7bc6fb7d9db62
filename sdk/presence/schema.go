/*
Copyright 2025 The KCP Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package presence

import (
	"fmt"
	"reflect"
	"strings"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/apimachinery/pkg/util/sets"
)

// Schema is the presence declaration for one resource kind: the list of its
// top-level wire keys and the policy each of them follows. A Schema is plain
// data; adding a new non-conforming kind means declaring a new Schema, not
// writing new encode/decode logic.
type Schema struct {
	kind   string
	fields []Field
}

func NewSchema(kind string, fields ...Field) *Schema {
	return &Schema{
		kind:   kind,
		fields: append([]Field(nil), fields...),
	}
}

func (s *Schema) Kind() string {
	return s.kind
}

// Fields returns a copy of the declared fields in declaration order.
func (s *Schema) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

// Policy returns the policy declared for the given wire key.
func (s *Schema) Policy(key string) (Policy, bool) {
	for _, f := range s.fields {
		if f.Key == key {
			return f.Policy, true
		}
	}

	return 0, false
}

// Validate checks that the schema describes exactly the wire fields of the
// given struct type and that each field's Go type can honour its policy.
// It is meant to be called once, when a kind is registered.
func (s *Schema) Validate(t reflect.Type) error {
	if t == nil {
		return fmt.Errorf("cannot validate %s schema against nil type", s.kind)
	}

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return fmt.Errorf("cannot validate %s schema against non-struct type %v", s.kind, t)
	}

	info := typeFieldsOf(t)
	declared := sets.New[string]()
	errs := []error{}

	for _, f := range s.fields {
		if !isValidKey(f.Key) {
			errs = append(errs, fmt.Errorf("%s: invalid wire key %q", s.kind, f.Key))
			continue
		}

		if declared.Has(f.Key) {
			errs = append(errs, fmt.Errorf("%s: wire key %q is declared more than once", s.kind, f.Key))
			continue
		}
		declared.Insert(f.Key)

		wf, ok := info.byKey[f.Key]
		if !ok {
			errs = append(errs, fmt.Errorf("%s: wire key %q is not a field of %v", s.kind, f.Key, t))
			continue
		}

		if err := checkFieldType(f, wf); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.kind, err))
		}
	}

	for _, key := range info.keys {
		if !declared.Has(key) {
			errs = append(errs, fmt.Errorf("%s: field %q of %v has no presence policy", s.kind, key, t))
		}
	}

	return utilerrors.NewAggregate(errs)
}

func checkFieldType(f Field, wf wireField) error {
	switch f.Policy {
	case Required, Defaulted:
		if wf.typ.Kind() == reflect.Ptr {
			return fmt.Errorf("%s field %q must not be a pointer, but is %v", f.Policy, f.Key, wf.typ)
		}

		if wf.omitEmpty {
			return fmt.Errorf("%s field %q must always be emitted, remove omitempty", f.Policy, f.Key)
		}

	case Optional:
		if !isNilable(wf.typ) {
			return fmt.Errorf("%s field %q must be nilable, but is %v", f.Policy, f.Key, wf.typ)
		}

	case OmitIfEmpty:
		if !isCollection(wf.typ) {
			return fmt.Errorf("%s field %q must be a map or slice, but is %v", f.Policy, f.Key, wf.typ)
		}

	default:
		return fmt.Errorf("field %q has unknown policy %v", f.Key, f.Policy)
	}

	return nil
}

// isValidKey rejects keys that gjson/sjson would interpret as path syntax.
func isValidKey(key string) bool {
	return key != "" && !strings.ContainsAny(key, `.*?|#@\!:`)
}
