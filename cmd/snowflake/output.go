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

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/template"

	corev1 "k8c.io/snowflake/sdk/apis/core/v1"
	"k8c.io/snowflake/sdk/client"

	"sigs.k8s.io/yaml"
)

// stamp adds apiVersion and kind to an object's payload, which the typed
// representation does not carry.
func stamp(desc client.Descriptor, obj client.Resource) (map[string]any, error) {
	encoded, err := json.Marshal(obj)
	if err != nil {
		return nil, err
	}

	data := map[string]any{}
	if err := json.Unmarshal(encoded, &data); err != nil {
		return nil, err
	}

	data["apiVersion"] = desc.APIVersion()
	data["kind"] = desc.Kind

	return data, nil
}

func buildDocument(desc client.Descriptor, objects []client.Resource, single bool) (any, error) {
	if single && len(objects) == 1 {
		return stamp(desc, objects[0])
	}

	items := make([]any, 0, len(objects))
	for _, obj := range objects {
		item, err := stamp(desc, obj)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return map[string]any{
		"apiVersion": "v1",
		"kind":       "List",
		"items":      items,
	}, nil
}

func render(w io.Writer, output string, tpl *template.Template, doc any) error {
	switch output {
	case OutputJSON:
		encoded, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}

		_, err = fmt.Fprintln(w, string(encoded))
		return err

	case OutputYAML:
		encoded, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}

		_, err = w.Write(encoded)
		return err

	case OutputTemplate:
		if err := tpl.Execute(w, doc); err != nil {
			return fmt.Errorf("failed to render template: %w", err)
		}

		return nil

	default:
		return fmt.Errorf("unknown output format %q", output)
	}
}

// redact hides secret values. Data and StringData are folded into
// StringData entries that only state the value length.
func redact(obj client.Resource) client.Resource {
	secret, ok := obj.(*corev1.Secret)
	if !ok {
		return obj
	}

	merged := secret.MergedData()
	if len(merged) == 0 {
		return obj
	}

	redacted := secret.DeepCopy()
	redacted.Data = nil
	redacted.StringData = make(map[string]string, len(merged))

	for key, value := range merged {
		redacted.StringData[key] = fmt.Sprintf("<redacted, %d bytes>", len(value))
	}

	return redacted
}
