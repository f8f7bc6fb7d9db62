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

package client

import (
	"fmt"
	"reflect"

	"k8c.io/snowflake/sdk/presence"

	"sigs.k8s.io/yaml"
)

// Kind binds a Go resource type to its descriptor and presence schema.
// New must return a pointer to a fresh zero value.
type Kind[T Resource] struct {
	Descriptor Descriptor
	Schema     *presence.Schema
	New        func() T
}

// Validate checks that the kind is complete and that its schema matches the
// wire fields of T. A mismatch is a programming error in the resource
// definition.
func (k Kind[T]) Validate() error {
	return k.Registration().Validate()
}

// Encode serializes obj according to the kind's presence schema.
func (k Kind[T]) Encode(obj T) ([]byte, error) {
	if isNil(obj) {
		return nil, fmt.Errorf("cannot encode nil %s", k.Descriptor.Kind)
	}

	return k.Schema.Encode(obj)
}

// Decode creates a new T from the payload.
func (k Kind[T]) Decode(data []byte) (T, error) {
	obj := k.New()
	if err := k.Schema.Decode(data, obj); err != nil {
		var zero T
		return zero, err
	}

	return obj, nil
}

// DecodeYAML converts a YAML document to JSON and decodes it like Decode.
// Unlike yaml.Unmarshal, it keeps a *presence.SchemaViolation intact.
func (k Kind[T]) DecodeYAML(data []byte) (T, error) {
	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to convert %s YAML to JSON: %w", k.Descriptor.Kind, err)
	}

	return k.Decode(jsonData)
}

// Registration returns the type-erased form of the kind for use in a Registry.
func (k Kind[T]) Registration() Registration {
	reg := Registration{
		Descriptor: k.Descriptor,
		Schema:     k.Schema,
	}

	if k.New != nil {
		reg.NewObject = func() Resource {
			return k.New()
		}
	}

	return reg
}

func isNil(obj Resource) bool {
	if obj == nil {
		return true
	}

	v := reflect.ValueOf(obj)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
