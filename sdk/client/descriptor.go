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

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Resource is implemented by every resource type that can be bound to a
// Client. Generic infrastructure (caches, indexers) only ever needs the
// object's metadata; everything else is read after recovering the
// concrete type.
type Resource interface {
	Meta() *metav1.ObjectMeta
}

// Descriptor is the addressing information for one resource kind.
type Descriptor struct {
	Group      string
	Version    string
	Kind       string
	Resource   string
	Namespaced bool
}

func (d Descriptor) GroupVersion() schema.GroupVersion {
	return schema.GroupVersion{Group: d.Group, Version: d.Version}
}

func (d Descriptor) GroupVersionKind() schema.GroupVersionKind {
	return d.GroupVersion().WithKind(d.Kind)
}

func (d Descriptor) GroupVersionResource() schema.GroupVersionResource {
	return d.GroupVersion().WithResource(d.Resource)
}

// APIVersion returns the value for the "apiVersion" field of payloads.
func (d Descriptor) APIVersion() string {
	return d.GroupVersion().String()
}

// APIPath returns the path segments under which the kind's group version
// is served, i.e. "/api/v1" for the core group.
func (d Descriptor) APIPath() []string {
	if d.Group == "" {
		return []string{"/api", d.Version}
	}

	return []string{"/apis", d.Group, d.Version}
}

func (d Descriptor) String() string {
	return d.GroupVersionResource().String()
}

func (d Descriptor) validate() error {
	switch {
	case d.Version == "":
		return fmt.Errorf("descriptor for %q has no version", d.Kind)
	case d.Kind == "":
		return fmt.Errorf("descriptor %v has no kind", d)
	case d.Resource == "":
		return fmt.Errorf("descriptor for %q has no resource", d.Kind)
	}

	return nil
}
