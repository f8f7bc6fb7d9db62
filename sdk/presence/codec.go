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
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	sigsjson "sigs.k8s.io/json"
)

// Encode marshals obj and applies the schema's omission rules: null Optional
// fields and empty OmitIfEmpty collections are removed from the payload.
// Struct fields keep their declaration order and map keys are sorted, so
// encoding the same value twice yields identical bytes.
//
// Types that already encode themselves through their schema (by
// implementing json.Marshaler) are marshalled as-is.
func (s *Schema) Encode(obj any) ([]byte, error) {
	if isNilValue(obj) {
		return nil, fmt.Errorf("cannot encode nil %s", s.kind)
	}

	if m, ok := obj.(json.Marshaler); ok {
		return m.MarshalJSON()
	}

	data, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", s.kind, err)
	}

	for _, f := range s.fields {
		if !omittable(f.Policy, gjson.GetBytes(data, f.Key)) {
			continue
		}

		data, err = sjson.DeleteBytes(data, f.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to omit %s field %q: %w", s.kind, f.Key, err)
		}
	}

	return data, nil
}

func omittable(policy Policy, value gjson.Result) bool {
	if !value.Exists() {
		return false
	}

	switch policy {
	case Optional:
		return value.Type == gjson.Null

	case OmitIfEmpty:
		switch {
		case value.Type == gjson.Null:
			return true
		case value.IsObject():
			return len(value.Map()) == 0
		case value.IsArray():
			return len(value.Array()) == 0
		}
	}

	return false
}

// Decode checks the Required fields of the payload and then unmarshals it
// into the pointer into, which should point to a zero value. Keys are
// matched case-sensitively. Absent Defaulted, Optional and OmitIfEmpty
// fields are left at their zero value.
func (s *Schema) Decode(data []byte, into any) error {
	t := reflect.TypeOf(into)
	if t == nil || t.Kind() != reflect.Ptr {
		return fmt.Errorf("cannot decode %s into non-pointer %T", s.kind, into)
	}

	if u, ok := into.(json.Unmarshaler); ok {
		return u.UnmarshalJSON(data)
	}

	if !gjson.ValidBytes(data) {
		return fmt.Errorf("failed to decode %s: payload is not valid JSON", s.kind)
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return &SchemaViolation{Kind: s.kind, Reason: "payload is not an object"}
	}

	info := typeFieldsOf(t.Elem())

	for _, f := range s.fields {
		if f.Policy != Required {
			continue
		}

		value := root.Get(f.Key)
		if !value.Exists() || value.Type == gjson.Null {
			return &SchemaViolation{Kind: s.kind, Field: f.Key, Reason: "is missing"}
		}

		wf, ok := info.byKey[f.Key]
		if !ok {
			continue
		}

		probe := reflect.New(wf.typ).Interface()
		if err := sigsjson.UnmarshalCaseSensitivePreserveInts([]byte(value.Raw), probe); err != nil {
			return &SchemaViolation{Kind: s.kind, Field: f.Key, Reason: "is malformed", Err: err}
		}
	}

	if err := sigsjson.UnmarshalCaseSensitivePreserveInts(data, into); err != nil {
		return fmt.Errorf("failed to decode %s: %w", s.kind, err)
	}

	return nil
}

func isNilValue(obj any) bool {
	if obj == nil {
		return true
	}

	v := reflect.ValueOf(obj)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
