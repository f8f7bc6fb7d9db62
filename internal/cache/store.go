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

// Package cache keeps decoded objects in memory, indexed by their metadata.
package cache

import (
	"fmt"
	"sort"
	"sync"

	"k8c.io/snowflake/internal/crypto"
	"k8c.io/snowflake/sdk/client"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	toolscache "k8s.io/client-go/tools/cache"
)

const (
	namespaceIndex = "namespace"
	labelIndex     = "label"
)

// ObjectKey identifies an object within one kind.
type ObjectKey struct {
	Namespace string
	Name      string
}

func NewObjectKey(meta *metav1.ObjectMeta) ObjectKey {
	return ObjectKey{
		Namespace: meta.Namespace,
		Name:      meta.Name,
	}
}

func (k ObjectKey) String() string {
	if k.Namespace == "" {
		return k.Name
	}

	return k.Namespace + "/" + k.Name
}

type entry[T client.Resource] struct {
	object      T
	fingerprint string
}

// Store is an indexed, concurrency-safe set of objects of one kind. It only
// ever looks at objects through their metadata; the fingerprint of the
// encoded payload is used to tell whether an object changed. Stored objects
// must not be modified by callers.
type Store[T client.Resource] struct {
	kind    client.Kind[T]
	lock    sync.Mutex
	indexer toolscache.Indexer
}

func NewStore[T client.Resource](kind client.Kind[T]) *Store[T] {
	return &Store[T]{
		kind: kind,
		indexer: toolscache.NewIndexer(keyFunc[T], toolscache.Indexers{
			namespaceIndex: indexByNamespace[T],
			labelIndex:     indexByLabel[T],
		}),
	}
}

func keyFunc[T client.Resource](obj any) (string, error) {
	e, ok := obj.(*entry[T])
	if !ok {
		return "", fmt.Errorf("unexpected object of type %T in store", obj)
	}

	return NewObjectKey(e.object.Meta()).String(), nil
}

func indexByNamespace[T client.Resource](obj any) ([]string, error) {
	e, ok := obj.(*entry[T])
	if !ok {
		return nil, fmt.Errorf("unexpected object of type %T in store", obj)
	}

	return []string{e.object.Meta().Namespace}, nil
}

func indexByLabel[T client.Resource](obj any) ([]string, error) {
	e, ok := obj.(*entry[T])
	if !ok {
		return nil, fmt.Errorf("unexpected object of type %T in store", obj)
	}

	values := make([]string, 0, len(e.object.Meta().Labels))
	for key, value := range e.object.Meta().Labels {
		values = append(values, labelIndexValue(key, value))
	}

	return values, nil
}

func labelIndexValue(key, value string) string {
	return key + "=" + value
}

// Upsert adds or replaces obj. It reports a change if the object was not
// known before, or if its resourceVersion or payload differ from the stored
// copy.
func (s *Store[T]) Upsert(obj T) (changed bool, err error) {
	payload, err := s.kind.Encode(obj)
	if err != nil {
		return false, err
	}

	fingerprint, err := crypto.Fingerprint(payload)
	if err != nil {
		return false, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	key := NewObjectKey(obj.Meta()).String()

	existing, exists, err := s.indexer.GetByKey(key)
	if err != nil {
		return false, err
	}

	if exists {
		old := existing.(*entry[T])
		if old.fingerprint == fingerprint && old.object.Meta().ResourceVersion == obj.Meta().ResourceVersion {
			return false, nil
		}
	}

	if err := s.indexer.Add(&entry[T]{object: obj, fingerprint: fingerprint}); err != nil {
		return false, fmt.Errorf("failed to store %s %s: %w", s.kind.Descriptor.Kind, key, err)
	}

	return true, nil
}

func (s *Store[T]) Get(key ObjectKey) (T, bool) {
	var zero T

	item, exists, err := s.indexer.GetByKey(key.String())
	if err != nil || !exists {
		return zero, false
	}

	return item.(*entry[T]).object, true
}

// Delete removes the object and reports whether it was present.
func (s *Store[T]) Delete(key ObjectKey) (bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	item, exists, err := s.indexer.GetByKey(key.String())
	if err != nil || !exists {
		return false, err
	}

	if err := s.indexer.Delete(item); err != nil {
		return false, fmt.Errorf("failed to delete %s %s: %w", s.kind.Descriptor.Kind, key, err)
	}

	return true, nil
}

// List returns all objects sorted by key.
func (s *Store[T]) List() []T {
	return s.sorted(s.indexer.List())
}

func (s *Store[T]) ByNamespace(namespace string) ([]T, error) {
	return s.byIndex(namespaceIndex, namespace)
}

// ByLabel returns all objects that have the label key set to value.
func (s *Store[T]) ByLabel(key, value string) ([]T, error) {
	return s.byIndex(labelIndex, labelIndexValue(key, value))
}

func (s *Store[T]) Len() int {
	return len(s.indexer.ListKeys())
}

func (s *Store[T]) byIndex(index, value string) ([]T, error) {
	items, err := s.indexer.ByIndex(index, value)
	if err != nil {
		return nil, err
	}

	return s.sorted(items), nil
}

func (s *Store[T]) sorted(items []any) []T {
	entries := make([]*entry[T], 0, len(items))
	for _, item := range items {
		entries = append(entries, item.(*entry[T]))
	}

	sort.Slice(entries, func(i, j int) bool {
		return NewObjectKey(entries[i].object.Meta()).String() < NewObjectKey(entries[j].object.Meta()).String()
	})

	result := make([]T, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.object)
	}

	return result
}
