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

// Package v1 contains typed bindings for the core/v1 kinds whose wire format
// does not follow the usual spec/status layout: Event, Secret and ConfigMap.
// Each kind carries a presence schema that decides, field by field, what
// happens when the field is absent on decode or empty on encode.
package v1

import (
	"k8c.io/snowflake/sdk/client"

	"k8s.io/apimachinery/pkg/runtime/schema"
)

// GroupVersion is the group version of all kinds in this package.
var GroupVersion = schema.GroupVersion{Group: "", Version: "v1"}

var (
	registryBuilder = client.NewRegistryBuilder(addKnownKinds)
	AddToRegistry   = registryBuilder.AddToRegistry
)

func addKnownKinds(r *client.Registry) error {
	for _, reg := range []client.Registration{
		EventKind.Registration(),
		SecretKind.Registration(),
		ConfigMapKind.Registration(),
	} {
		if err := r.Register(reg); err != nil {
			return err
		}
	}

	return nil
}

func descriptor(kind, resource string) client.Descriptor {
	return client.Descriptor{
		Group:      GroupVersion.Group,
		Version:    GroupVersion.Version,
		Kind:       kind,
		Resource:   resource,
		Namespaced: true,
	}
}
