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
	"strings"
	"sync"

	"github.com/gobuffalo/flect"

	"k8c.io/snowflake/sdk/presence"

	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/util/sets"
)

// Registration is the type-erased form of a Kind.
type Registration struct {
	Descriptor Descriptor
	Schema     *presence.Schema
	NewObject  func() Resource
}

// Validate checks that the registration is complete and that its schema
// matches the wire fields of the constructed type.
func (r Registration) Validate() error {
	if err := r.Descriptor.validate(); err != nil {
		return err
	}

	kind := r.Descriptor.Kind

	if r.Schema == nil {
		return fmt.Errorf("kind %s has no presence schema", kind)
	}

	if r.Schema.Kind() != kind {
		return fmt.Errorf("kind %s is paired with the schema for %s", kind, r.Schema.Kind())
	}

	if r.NewObject == nil {
		return fmt.Errorf("kind %s has no constructor", kind)
	}

	if err := r.Schema.Validate(reflect.TypeOf(r.NewObject())); err != nil {
		return fmt.Errorf("invalid registration for %s: %w", kind, err)
	}

	return nil
}

// Kind returns the registration as a Kind over the Resource interface, so
// that generic clients and stores can be built for kinds that are only known
// at runtime.
func (r Registration) Kind() Kind[Resource] {
	return Kind[Resource]{
		Descriptor: r.Descriptor,
		Schema:     r.Schema,
		New:        r.NewObject,
	}
}

// Decode creates a new object of the registered kind from the payload.
func (r Registration) Decode(data []byte) (Resource, error) {
	obj := r.NewObject()
	if err := r.Schema.Decode(data, obj); err != nil {
		return nil, err
	}

	return obj, nil
}

// Registry maps kind names to their registrations. Every registration is
// validated when it is added, so a registry never holds a descriptor whose
// schema disagrees with its Go type.
//
// Kind names are unique across groups: registering a second Event from
// another API group fails. Use one registry per group if kinds overlap.
type Registry struct {
	lock      sync.RWMutex
	kinds     map[string]Registration
	resources map[schema.GroupResource]string
}

func NewRegistry() *Registry {
	return &Registry{
		kinds:     map[string]Registration{},
		resources: map[schema.GroupResource]string{},
	}
}

func (r *Registry) Register(reg Registration) error {
	if err := reg.Validate(); err != nil {
		return err
	}

	kind := reg.Descriptor.Kind

	r.lock.Lock()
	defer r.lock.Unlock()

	if _, exists := r.kinds[kind]; exists {
		return fmt.Errorf("kind %s is already registered", kind)
	}

	gr := reg.Descriptor.GroupVersionResource().GroupResource()
	if other, exists := r.resources[gr]; exists {
		return fmt.Errorf("resource %s is already registered for kind %s", gr, other)
	}

	r.kinds[kind] = reg
	r.resources[gr] = kind

	return nil
}

// MustRegister is like Register but panics on error. It is meant for
// registries assembled from compile-time definitions.
func (r *Registry) MustRegister(regs ...Registration) {
	for _, reg := range regs {
		if err := r.Register(reg); err != nil {
			panic(err)
		}
	}
}

func (r *Registry) Lookup(kind string) (Registration, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	reg, ok := r.kinds[kind]
	return reg, ok
}

// ResolveKind resolves user input like "secret", "Secrets" or "configmaps"
// to the name of a registered kind. Exact kind and resource names win over
// case-insensitive and singular/plural matches.
func (r *Registry) ResolveKind(input string) (string, bool) {
	if input == "" {
		return "", false
	}

	r.lock.RLock()
	defer r.lock.RUnlock()

	if _, ok := r.kinds[input]; ok {
		return input, true
	}

	kinds := sets.List(sets.KeySet(r.kinds))

	for _, kind := range kinds {
		if r.kinds[kind].Descriptor.Resource == input {
			return kind, true
		}
	}

	candidates := sets.New(strings.ToLower(input), strings.ToLower(flect.Singularize(input)))

	for _, kind := range kinds {
		reg := r.kinds[kind]

		if candidates.Has(strings.ToLower(kind)) || candidates.Has(strings.ToLower(reg.Descriptor.Resource)) {
			return kind, true
		}

		if candidates.Has(strings.ToLower(flect.Singularize(reg.Descriptor.Resource))) {
			return kind, true
		}
	}

	return "", false
}

// Kinds returns the sorted names of all registered kinds.
func (r *Registry) Kinds() []string {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return sets.List(sets.KeySet(r.kinds))
}

// Decode decodes the payload as an object of the given kind.
func (r *Registry) Decode(kind string, data []byte) (Resource, error) {
	reg, ok := r.Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("kind %s is not registered", kind)
	}

	return reg.Decode(data)
}

// RegistryBuilder collects functions that add kinds to a registry.
type RegistryBuilder []func(*Registry) error

func NewRegistryBuilder(funcs ...func(*Registry) error) RegistryBuilder {
	var rb RegistryBuilder
	rb.Register(funcs...)
	return rb
}

func (rb *RegistryBuilder) Register(funcs ...func(*Registry) error) {
	*rb = append(*rb, funcs...)
}

// AddToRegistry applies all stored functions to the registry.
func (rb *RegistryBuilder) AddToRegistry(r *Registry) error {
	for _, f := range *rb {
		if err := f(r); err != nil {
			return err
		}
	}

	return nil
}
