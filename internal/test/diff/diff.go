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

// Package diff renders human-readable differences for test failures.
package diff

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"k8s.io/apimachinery/pkg/api/equality"
	"sigs.k8s.io/yaml"
)

// SemanticallyEqual compares two values the way the API server would,
// treating nil and empty collections alike and comparing times by instant.
func SemanticallyEqual(a, b any) bool {
	return equality.Semantic.DeepEqual(a, b)
}

// ObjectDiff renders both values as YAML and returns a unified diff, or an
// empty string if the renderings are identical.
func ObjectDiff(expected, actual any) string {
	return StringDiff(toYAML(expected), toYAML(actual))
}

func StringDiff(expected, actual string) string {
	if expected == actual {
		return ""
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(strings.TrimSpace(expected) + "\n"),
		B:        difflib.SplitLines(strings.TrimSpace(actual) + "\n"),
		FromFile: "Expected",
		ToFile:   "Actual",
		Context:  3,
	})
	if err != nil {
		return fmt.Sprintf("failed to compute diff: %v", err)
	}

	return diff
}

func toYAML(value any) string {
	encoded, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Sprintf("<failed to encode %T: %v>", value, err)
	}

	return string(encoded)
}
