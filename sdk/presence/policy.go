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

import "fmt"

// Policy controls how a single top-level field of a resource payload behaves
// when it is absent on decode or empty on encode.
type Policy int

const (
	// Required fields must be present (and not null) in every payload;
	// decoding fails with a SchemaViolation otherwise.
	Required Policy = iota

	// Defaulted fields are decoded as their zero value when absent and are
	// always emitted, even when empty.
	Defaulted

	// Optional fields are nilable; nil is never put on the wire.
	Optional

	// OmitIfEmpty collections decode as empty when absent and are left out
	// of the payload entirely when they contain no elements.
	OmitIfEmpty
)

func (p Policy) String() string {
	switch p {
	case Required:
		return "Required"
	case Defaulted:
		return "Defaulted"
	case Optional:
		return "Optional"
	case OmitIfEmpty:
		return "OmitIfEmpty"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// Field declares the presence policy for one wire key. The wire key is the
// JSON key, which may be spelled differently from the Go field it maps to
// (e.g. "type" is carried by a field named Type).
type Field struct {
	Key    string
	Policy Policy
}
