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
	"reflect"
	"strings"
	"sync"
)

// wireField describes how one JSON key is carried by a Go struct.
type wireField struct {
	key       string
	index     []int
	typ       reflect.Type
	omitEmpty bool
}

type typeInfo struct {
	byKey map[string]wireField
	// keys in struct declaration order
	keys []string
}

var typeInfoCache sync.Map // map[reflect.Type]*typeInfo

func typeFieldsOf(t reflect.Type) *typeInfo {
	if cached, ok := typeInfoCache.Load(t); ok {
		return cached.(*typeInfo)
	}

	info := &typeInfo{
		byKey: map[string]wireField{},
	}

	if t.Kind() == reflect.Struct {
		collectFields(t, nil, info)
	}

	actual, _ := typeInfoCache.LoadOrStore(t, info)

	return actual.(*typeInfo)
}

// collectFields mirrors the subset of encoding/json's field resolution that
// resource types rely on: tagged fields, untagged exported fields and inlined
// anonymous structs (e.g. `json:",inline"`).
func collectFields(t reflect.Type, index []int, info *typeInfo) {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)

		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}

		name, opts, _ := strings.Cut(tag, ",")

		fieldIndex := make([]int, len(index)+1)
		copy(fieldIndex, index)
		fieldIndex[len(index)] = i

		if sf.Anonymous && name == "" {
			ft := sf.Type
			if ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}

			if ft.Kind() == reflect.Struct {
				collectFields(ft, fieldIndex, info)
				continue
			}
		}

		if !sf.IsExported() {
			continue
		}

		if name == "" {
			name = sf.Name
		}

		if _, exists := info.byKey[name]; exists {
			continue
		}

		info.byKey[name] = wireField{
			key:       name,
			index:     fieldIndex,
			typ:       sf.Type,
			omitEmpty: hasOption(opts, "omitempty"),
		}
		info.keys = append(info.keys, name)
	}
}

func hasOption(opts string, option string) bool {
	for opts != "" {
		var current string
		current, opts, _ = strings.Cut(opts, ",")
		if current == option {
			return true
		}
	}

	return false
}

func isNilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return true
	default:
		return false
	}
}

func isCollection(t reflect.Type) bool {
	return t.Kind() == reflect.Map || t.Kind() == reflect.Slice
}
