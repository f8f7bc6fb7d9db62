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
	"context"
	"fmt"
	"strconv"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/client-go/rest"
)

// Client is a typed client for one resource kind. It only builds requests
// and decodes responses; transport, authentication and retries are left to
// the underlying rest.Interface. Client is a value type and all methods
// that change its configuration return a copy.
type Client[T Resource] struct {
	kind      Kind[T]
	rest      rest.Interface
	namespace string
	log       *zap.SugaredLogger
}

// New pairs a kind with a transport handle.
func New[T Resource](kind Kind[T], restClient rest.Interface) Client[T] {
	return Client[T]{
		kind: kind,
		rest: restClient,
		log:  zap.NewNop().Sugar(),
	}
}

func (c Client[T]) Kind() Kind[T] {
	return c.kind
}

func (c Client[T]) Descriptor() Descriptor {
	return c.kind.Descriptor
}

func (c Client[T]) RESTClient() rest.Interface {
	return c.rest
}

// Namespace returns a copy of the client scoped to the given namespace.
// The scope has no effect for cluster-scoped kinds.
func (c Client[T]) Namespace(namespace string) Client[T] {
	c.namespace = namespace
	return c
}

func (c Client[T]) WithLogger(log *zap.SugaredLogger) Client[T] {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	c.log = log
	return c
}

// ListOptions restricts the objects returned by List.
type ListOptions struct {
	LabelSelector string
	FieldSelector string
	Limit         int64
	Continue      string
}

// List is one page of decoded objects.
type List[T Resource] struct {
	ResourceVersion string
	Continue        string
	Items           []T
}

func (c Client[T]) Get(ctx context.Context, name string) (T, error) {
	var zero T

	if name == "" {
		return zero, fmt.Errorf("cannot get %s without a name", c.kind.Descriptor.Kind)
	}

	namespace, err := c.scope(nil)
	if err != nil {
		return zero, err
	}

	c.log.Debugw("Fetching object…", "resource", c.kind.Descriptor.String(), "key", objectKey(namespace, name))

	body, err := c.request(c.rest.Get(), namespace).Name(name).Do(ctx).Raw()
	if err != nil {
		return zero, fmt.Errorf("failed to get %s %s: %w", c.kind.Descriptor.Kind, objectKey(namespace, name), err)
	}

	return c.kind.Decode(body)
}

// List returns the objects in the client's namespace, or in all namespaces
// if no namespace was set. Items that cannot be decoded do not abort the
// listing: all decodable items are returned together with an aggregate of
// the per-item errors.
func (c Client[T]) List(ctx context.Context, opts ListOptions) (*List[T], error) {
	namespace := c.listScope()

	req := c.request(c.rest.Get(), namespace)
	if opts.LabelSelector != "" {
		req = req.Param("labelSelector", opts.LabelSelector)
	}
	if opts.FieldSelector != "" {
		req = req.Param("fieldSelector", opts.FieldSelector)
	}
	if opts.Limit > 0 {
		req = req.Param("limit", strconv.FormatInt(opts.Limit, 10))
	}
	if opts.Continue != "" {
		req = req.Param("continue", opts.Continue)
	}

	c.log.Debugw("Listing objects…", "resource", c.kind.Descriptor.String(), "namespace", namespace)

	body, err := req.Do(ctx).Raw()
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", c.kind.Descriptor.Resource, err)
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("failed to list %s: response is not valid JSON", c.kind.Descriptor.Resource)
	}

	parsed := gjson.ParseBytes(body)
	items := parsed.Get("items")
	if items.Exists() && !items.IsArray() && items.Type != gjson.Null {
		return nil, fmt.Errorf("failed to list %s: items is not an array", c.kind.Descriptor.Resource)
	}

	result := &List[T]{
		ResourceVersion: parsed.Get("metadata.resourceVersion").String(),
		Continue:        parsed.Get("metadata.continue").String(),
	}

	var errs []error
	for i, item := range items.Array() {
		obj, err := c.kind.Decode([]byte(item.Raw))
		if err != nil {
			key := objectKey(item.Get("metadata.namespace").String(), item.Get("metadata.name").String())
			c.log.Warnw("Failed to decode list item", "resource", c.kind.Descriptor.String(), "index", i, "key", key, "error", err)
			errs = append(errs, fmt.Errorf("item %d (%s): %w", i, key, err))
			continue
		}

		result.Items = append(result.Items, obj)
	}

	return result, utilerrors.NewAggregate(errs)
}

// Create sends obj to the server and returns the object as persisted.
func (c Client[T]) Create(ctx context.Context, obj T) (T, error) {
	var zero T

	if isNil(obj) {
		return zero, fmt.Errorf("cannot create nil %s", c.kind.Descriptor.Kind)
	}

	meta := obj.Meta()
	if meta.Name == "" && meta.GenerateName == "" {
		return zero, fmt.Errorf("cannot create %s without a name or generateName", c.kind.Descriptor.Kind)
	}

	namespace, err := c.scope(meta)
	if err != nil {
		return zero, err
	}

	payload, err := c.payload(obj)
	if err != nil {
		return zero, err
	}

	c.log.Debugw("Creating object…", "resource", c.kind.Descriptor.String(), "key", objectKey(namespace, meta.Name))

	body, err := c.request(c.rest.Post(), namespace).SetHeader("Content-Type", runtime.ContentTypeJSON).Body(payload).Do(ctx).Raw()
	if err != nil {
		return zero, fmt.Errorf("failed to create %s %s: %w", c.kind.Descriptor.Kind, objectKey(namespace, meta.Name), err)
	}

	return c.kind.Decode(body)
}

// Update replaces the object on the server with obj.
func (c Client[T]) Update(ctx context.Context, obj T) (T, error) {
	var zero T

	if isNil(obj) {
		return zero, fmt.Errorf("cannot update nil %s", c.kind.Descriptor.Kind)
	}

	meta := obj.Meta()
	if meta.Name == "" {
		return zero, fmt.Errorf("cannot update %s without a name", c.kind.Descriptor.Kind)
	}

	namespace, err := c.scope(meta)
	if err != nil {
		return zero, err
	}

	payload, err := c.payload(obj)
	if err != nil {
		return zero, err
	}

	c.log.Debugw("Updating object…", "resource", c.kind.Descriptor.String(), "key", objectKey(namespace, meta.Name))

	body, err := c.request(c.rest.Put(), namespace).Name(meta.Name).SetHeader("Content-Type", runtime.ContentTypeJSON).Body(payload).Do(ctx).Raw()
	if err != nil {
		return zero, fmt.Errorf("failed to update %s %s: %w", c.kind.Descriptor.Kind, objectKey(namespace, meta.Name), err)
	}

	return c.kind.Decode(body)
}

// Patch sends a JSON merge patch that turns original into modified. If both
// encode to the same payload, no request is made and original is returned.
func (c Client[T]) Patch(ctx context.Context, original, modified T) (T, error) {
	var zero T

	if isNil(original) || isNil(modified) {
		return zero, fmt.Errorf("cannot patch nil %s", c.kind.Descriptor.Kind)
	}

	meta := modified.Meta()
	if meta.Name == "" {
		return zero, fmt.Errorf("cannot patch %s without a name", c.kind.Descriptor.Kind)
	}

	namespace, err := c.scope(meta)
	if err != nil {
		return zero, err
	}

	originalData, err := c.kind.Encode(original)
	if err != nil {
		return zero, err
	}

	modifiedData, err := c.kind.Encode(modified)
	if err != nil {
		return zero, err
	}

	patch, err := jsonpatch.CreateMergePatch(originalData, modifiedData)
	if err != nil {
		return zero, fmt.Errorf("failed to create patch: %w", err)
	}

	if string(patch) == "{}" {
		c.log.Debugw("Patch is empty, skipping", "resource", c.kind.Descriptor.String(), "key", objectKey(namespace, meta.Name))
		return original, nil
	}

	c.log.Debugw("Patching object…", "resource", c.kind.Descriptor.String(), "key", objectKey(namespace, meta.Name), "patch", string(patch))

	body, err := c.request(c.rest.Patch(types.MergePatchType), namespace).Name(meta.Name).Body(patch).Do(ctx).Raw()
	if err != nil {
		return zero, fmt.Errorf("failed to patch %s %s: %w", c.kind.Descriptor.Kind, objectKey(namespace, meta.Name), err)
	}

	return c.kind.Decode(body)
}

func (c Client[T]) Delete(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("cannot delete %s without a name", c.kind.Descriptor.Kind)
	}

	namespace, err := c.scope(nil)
	if err != nil {
		return err
	}

	c.log.Debugw("Deleting object…", "resource", c.kind.Descriptor.String(), "key", objectKey(namespace, name))

	if err := c.request(c.rest.Delete(), namespace).Name(name).Do(ctx).Error(); err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", c.kind.Descriptor.Kind, objectKey(namespace, name), err)
	}

	return nil
}

func (c Client[T]) request(req *rest.Request, namespace string) *rest.Request {
	req = req.AbsPath(c.kind.Descriptor.APIPath()...)
	if namespace != "" {
		req = req.Namespace(namespace)
	}

	return req.Resource(c.kind.Descriptor.Resource)
}

// scope determines the namespace a request is sent to. For namespaced kinds
// this is the client's namespace or, failing that, the object's.
func (c Client[T]) scope(meta *metav1.ObjectMeta) (string, error) {
	if !c.kind.Descriptor.Namespaced {
		return "", nil
	}

	namespace := c.namespace
	if meta != nil && meta.Namespace != "" {
		if namespace != "" && namespace != meta.Namespace {
			return "", fmt.Errorf("object namespace %q does not match client namespace %q", meta.Namespace, namespace)
		}

		namespace = meta.Namespace
	}

	if namespace == "" {
		return "", fmt.Errorf("%s is namespaced but no namespace was given", c.kind.Descriptor.Kind)
	}

	return namespace, nil
}

// listScope is the namespace a list request is sent to. Unlike scope, an
// empty namespace is valid and selects all namespaces.
func (c Client[T]) listScope() string {
	if !c.kind.Descriptor.Namespaced {
		return ""
	}

	return c.namespace
}

// payload encodes obj and stamps the apiVersion and kind of the descriptor.
func (c Client[T]) payload(obj T) ([]byte, error) {
	data, err := c.kind.Encode(obj)
	if err != nil {
		return nil, err
	}

	data, err = sjson.SetBytes(data, "apiVersion", c.kind.Descriptor.APIVersion())
	if err != nil {
		return nil, fmt.Errorf("failed to set apiVersion: %w", err)
	}

	data, err = sjson.SetBytes(data, "kind", c.kind.Descriptor.Kind)
	if err != nil {
		return nil, fmt.Errorf("failed to set kind: %w", err)
	}

	return data, nil
}

func objectKey(namespace, name string) string {
	if namespace == "" {
		return name
	}

	return namespace + "/" + name
}
