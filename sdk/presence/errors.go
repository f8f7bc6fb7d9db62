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
	"errors"
	"fmt"
)

// SchemaViolation is returned when a payload lacks a Required field or the
// field cannot be decoded into its Go type. Absent non-Required fields are
// absorbed; malformed ones surface as plain decode errors.
type SchemaViolation struct {
	Kind   string
	Field  string
	Reason string
	Err    error
}

func (e *SchemaViolation) Error() string {
	msg := fmt.Sprintf("invalid %s: ", e.Kind)
	if e.Field != "" {
		msg += fmt.Sprintf("field %q ", e.Field)
	}
	msg += e.Reason

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *SchemaViolation) Unwrap() error {
	return e.Err
}

// IsSchemaViolation returns true if err is or wraps a *SchemaViolation.
func IsSchemaViolation(err error) bool {
	var sv *SchemaViolation
	return errors.As(err, &sv)
}
