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
	"io"
	"net/http"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"k8c.io/snowflake/sdk/presence"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest/fake"
	"k8s.io/utils/ptr"
)

type gadget struct {
	metav1.ObjectMeta `json:"metadata"`

	Size  int32             `json:"size"`
	Color *string           `json:"color,omitempty"`
	Parts map[string]string `json:"parts,omitempty"`
}

func (g *gadget) Meta() *metav1.ObjectMeta {
	return &g.ObjectMeta
}

var gadgetSchema = presence.NewSchema("Gadget",
	presence.Field{Key: "metadata", Policy: presence.Required},
	presence.Field{Key: "size", Policy: presence.Defaulted},
	presence.Field{Key: "color", Policy: presence.Optional},
	presence.Field{Key: "parts", Policy: presence.OmitIfEmpty},
)

var gadgetKind = Kind[*gadget]{
	Descriptor: Descriptor{
		Group:      "example.com",
		Version:    "v1",
		Kind:       "Gadget",
		Resource:   "gadgets",
		Namespaced: true,
	},
	Schema: gadgetSchema,
	New:    func() *gadget { return &gadget{} },
}

type gizmo struct {
	metav1.ObjectMeta `json:"metadata"`
}

func (g *gizmo) Meta() *metav1.ObjectMeta {
	return &g.ObjectMeta
}

var gizmoKind = Kind[*gizmo]{
	Descriptor: Descriptor{
		Version:  "v1",
		Kind:     "Gizmo",
		Resource: "gizmos",
	},
	Schema: presence.NewSchema("Gizmo", presence.Field{Key: "metadata", Policy: presence.Required}),
	New:    func() *gizmo { return &gizmo{} },
}

func newFakeClient(t *testing.T, handler func(*http.Request) (*http.Response, error)) *fake.RESTClient {
	t.Helper()

	if handler == nil {
		handler = func(req *http.Request) (*http.Response, error) {
			t.Fatalf("Expected no request, but got %s %s.", req.Method, req.URL)
			return nil, nil
		}
	}

	return &fake.RESTClient{
		NegotiatedSerializer: scheme.Codecs.WithoutConversion(),
		Client:               fake.CreateHTTPClient(handler),
	}
}

func copyGadget(g *gadget) *gadget {
	out := *g
	out.ObjectMeta = *g.ObjectMeta.DeepCopy()
	if g.Color != nil {
		out.Color = ptr.To(*g.Color)
	}
	if g.Parts != nil {
		out.Parts = map[string]string{}
		for k, v := range g.Parts {
			out.Parts[k] = v
		}
	}

	return &out
}

func jsonResponse(code int, body string) *http.Response {
	return &http.Response{
		StatusCode: code,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestDescriptor(t *testing.T) {
	testcases := []struct {
		descriptor Descriptor
		apiVersion string
		apiPath    string
		str        string
	}{
		{
			descriptor: gizmoKind.Descriptor,
			apiVersion: "v1",
			apiPath:    "/api/v1",
			str:        "/v1, Resource=gizmos",
		},
		{
			descriptor: gadgetKind.Descriptor,
			apiVersion: "example.com/v1",
			apiPath:    "/apis/example.com/v1",
			str:        "example.com/v1, Resource=gadgets",
		},
	}

	for _, testcase := range testcases {
		t.Run(testcase.descriptor.Kind, func(t *testing.T) {
			assert.Equal(t, testcase.apiVersion, testcase.descriptor.APIVersion())
			assert.Equal(t, testcase.apiPath, path.Join(testcase.descriptor.APIPath()...))
			assert.Equal(t, testcase.str, testcase.descriptor.String())
			assert.Equal(t, testcase.descriptor.Kind, testcase.descriptor.GroupVersionKind().Kind)
		})
	}
}

func TestKindValidate(t *testing.T) {
	require.NoError(t, gadgetKind.Validate())
	require.NoError(t, gizmoKind.Validate())

	mismatched := gadgetKind
	mismatched.Schema = presence.NewSchema("Gadget", presence.Field{Key: "metadata", Policy: presence.Required})
	assert.Error(t, mismatched.Validate(), "schema without size/color/parts should not validate")

	wrongSchema := gadgetKind
	wrongSchema.Schema = gizmoKind.Schema
	assert.Error(t, wrongSchema.Validate())

	noConstructor := gadgetKind
	noConstructor.New = nil
	assert.Error(t, noConstructor.Validate())

	noResource := gadgetKind
	noResource.Descriptor.Resource = ""
	assert.Error(t, noResource.Validate())
}

func TestClientRequests(t *testing.T) {
	const gadgetJSON = `{"metadata":{"name":"g1","namespace":"ns"},"size":1}`
	const gizmoJSON = `{"metadata":{"name":"z1"}}`

	testcases := []struct {
		name   string
		body   string
		call   func(*fake.RESTClient) error
		method string
		path   string
	}{
		{
			name: "get namespaced object",
			body: gadgetJSON,
			call: func(rc *fake.RESTClient) error {
				_, err := New(gadgetKind, rc).Namespace("ns").Get(context.Background(), "g1")
				return err
			},
			method: http.MethodGet,
			path:   "/apis/example.com/v1/namespaces/ns/gadgets/g1",
		},
		{
			name: "get cluster-scoped object ignores namespace",
			body: gizmoJSON,
			call: func(rc *fake.RESTClient) error {
				_, err := New(gizmoKind, rc).Namespace("ns").Get(context.Background(), "z1")
				return err
			},
			method: http.MethodGet,
			path:   "/api/v1/gizmos/z1",
		},
		{
			name: "list across all namespaces",
			body: `{"items":[]}`,
			call: func(rc *fake.RESTClient) error {
				_, err := New(gadgetKind, rc).List(context.Background(), ListOptions{})
				return err
			},
			method: http.MethodGet,
			path:   "/apis/example.com/v1/gadgets",
		},
		{
			name: "list in client namespace",
			body: `{"items":[]}`,
			call: func(rc *fake.RESTClient) error {
				_, err := New(gadgetKind, rc).Namespace("ns").List(context.Background(), ListOptions{})
				return err
			},
			method: http.MethodGet,
			path:   "/apis/example.com/v1/namespaces/ns/gadgets",
		},
		{
			name: "list cluster-scoped objects ignores namespace",
			body: `{"items":[]}`,
			call: func(rc *fake.RESTClient) error {
				_, err := New(gizmoKind, rc).Namespace("ns").List(context.Background(), ListOptions{})
				return err
			},
			method: http.MethodGet,
			path:   "/api/v1/gizmos",
		},
		{
			name: "create uses namespace from object",
			body: gadgetJSON,
			call: func(rc *fake.RESTClient) error {
				obj := &gadget{ObjectMeta: metav1.ObjectMeta{Name: "g1", Namespace: "ns"}}
				_, err := New(gadgetKind, rc).Create(context.Background(), obj)
				return err
			},
			method: http.MethodPost,
			path:   "/apis/example.com/v1/namespaces/ns/gadgets",
		},
		{
			name: "update",
			body: gadgetJSON,
			call: func(rc *fake.RESTClient) error {
				obj := &gadget{ObjectMeta: metav1.ObjectMeta{Name: "g1"}}
				_, err := New(gadgetKind, rc).Namespace("ns").Update(context.Background(), obj)
				return err
			},
			method: http.MethodPut,
			path:   "/apis/example.com/v1/namespaces/ns/gadgets/g1",
		},
		{
			name: "delete",
			body: `{}`,
			call: func(rc *fake.RESTClient) error {
				return New(gadgetKind, rc).Namespace("ns").Delete(context.Background(), "g1")
			},
			method: http.MethodDelete,
			path:   "/apis/example.com/v1/namespaces/ns/gadgets/g1",
		},
	}

	for _, testcase := range testcases {
		t.Run(testcase.name, func(t *testing.T) {
			var (
				method string
				path   string
			)

			rc := newFakeClient(t, func(req *http.Request) (*http.Response, error) {
				method = req.Method
				path = req.URL.Path
				return jsonResponse(http.StatusOK, testcase.body), nil
			})

			require.NoError(t, testcase.call(rc))
			assert.Equal(t, testcase.method, method)
			assert.Equal(t, testcase.path, path)
		})
	}
}

func TestClientRejectsIncompleteRequests(t *testing.T) {
	ctx := context.Background()
	rc := newFakeClient(t, nil)
	c := New(gadgetKind, rc)

	_, err := c.Namespace("ns").Get(ctx, "")
	assert.Error(t, err, "get without name")

	_, err = c.Get(ctx, "g1")
	assert.Error(t, err, "get without namespace")

	assert.Error(t, c.Delete(ctx, "g1"), "delete without namespace")

	_, err = c.Namespace("ns").Create(ctx, &gadget{})
	assert.Error(t, err, "create without name")

	_, err = c.Namespace("ns").Create(ctx, &gadget{ObjectMeta: metav1.ObjectMeta{Name: "g1", Namespace: "other"}})
	assert.Error(t, err, "create with conflicting namespace")

	_, err = c.Namespace("ns").Update(ctx, &gadget{})
	assert.Error(t, err, "update without name")

	_, err = c.Namespace("ns").Create(ctx, nil)
	assert.Error(t, err, "create nil object")

	_, err = c.Namespace("ns").Patch(ctx, nil, &gadget{ObjectMeta: metav1.ObjectMeta{Name: "g1"}})
	assert.Error(t, err, "patch from nil object")
}

func TestClientCreatePayload(t *testing.T) {
	var body []byte

	var contentType string

	rc := newFakeClient(t, func(req *http.Request) (*http.Response, error) {
		contentType = req.Header.Get("Content-Type")

		var err error
		body, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}

		return jsonResponse(http.StatusCreated, `{"metadata":{"name":"g1","namespace":"ns","resourceVersion":"7"},"size":2}`), nil
	})

	obj := &gadget{
		ObjectMeta: metav1.ObjectMeta{Name: "g1"},
		Size:       2,
	}

	created, err := New(gadgetKind, rc).Namespace("ns").Create(context.Background(), obj)
	require.NoError(t, err)

	assert.Equal(t, "application/json", contentType)

	parsed := gjson.ParseBytes(body)
	assert.Equal(t, "example.com/v1", parsed.Get("apiVersion").String())
	assert.Equal(t, "Gadget", parsed.Get("kind").String())
	assert.Equal(t, int64(2), parsed.Get("size").Int())
	assert.False(t, parsed.Get("color").Exists(), "nil optional field should be omitted")
	assert.False(t, parsed.Get("parts").Exists(), "empty collection should be omitted")

	assert.Equal(t, "7", created.ResourceVersion)
	assert.Empty(t, obj.ResourceVersion, "input object should not be modified")
}

func TestClientListToleratesBrokenItems(t *testing.T) {
	var query map[string][]string

	rc := newFakeClient(t, func(req *http.Request) (*http.Response, error) {
		query = req.URL.Query()

		return jsonResponse(http.StatusOK, `{
			"apiVersion": "example.com/v1",
			"kind": "GadgetList",
			"metadata": {"resourceVersion": "42", "continue": "next"},
			"items": [
				{"metadata": {"name": "a", "namespace": "ns"}, "size": 1},
				{"size": 2},
				{"metadata": {"name": "c", "namespace": "ns"}, "color": "red"}
			]
		}`), nil
	})

	list, err := New(gadgetKind, rc).Namespace("ns").List(context.Background(), ListOptions{
		LabelSelector: "app=demo",
		Limit:         10,
	})
	require.Error(t, err)
	require.NotNil(t, list)

	assert.Equal(t, []string{"app=demo"}, query["labelSelector"])
	assert.Equal(t, []string{"10"}, query["limit"])
	assert.NotContains(t, query, "continue")

	assert.Equal(t, "42", list.ResourceVersion)
	assert.Equal(t, "next", list.Continue)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "a", list.Items[0].Name)
	assert.Equal(t, "c", list.Items[1].Name)
	assert.Equal(t, ptr.To("red"), list.Items[1].Color)

	agg, ok := err.(utilerrors.Aggregate)
	require.True(t, ok, "expected an aggregate error, got %T", err)
	require.Len(t, agg.Errors(), 1)
	assert.True(t, presence.IsSchemaViolation(agg.Errors()[0]))
}

func TestClientPatch(t *testing.T) {
	original := &gadget{
		ObjectMeta: metav1.ObjectMeta{Name: "g1", Namespace: "ns"},
		Size:       1,
		Parts:      map[string]string{"a": "b"},
	}

	t.Run("empty patch sends no request", func(t *testing.T) {
		c := New(gadgetKind, newFakeClient(t, nil))

		modified := copyGadget(original)
		modified.Parts = map[string]string{"a": "b"}

		result, err := c.Patch(context.Background(), original, modified)
		require.NoError(t, err)
		assert.Same(t, original, result)
	})

	t.Run("changed fields are sent as merge patch", func(t *testing.T) {
		var (
			contentType string
			body        []byte
		)

		rc := newFakeClient(t, func(req *http.Request) (*http.Response, error) {
			contentType = req.Header.Get("Content-Type")

			var err error
			body, err = io.ReadAll(req.Body)
			if err != nil {
				return nil, err
			}

			return jsonResponse(http.StatusOK, `{"metadata":{"name":"g1","namespace":"ns"},"size":3,"color":"blue"}`), nil
		})

		modified := copyGadget(original)
		modified.Size = 3
		modified.Color = ptr.To("blue")
		modified.Parts = nil

		result, err := New(gadgetKind, rc).Patch(context.Background(), original, modified)
		require.NoError(t, err)

		assert.Equal(t, "application/merge-patch+json", contentType)
		assert.JSONEq(t, `{"size":3,"color":"blue","parts":null}`, string(body))
		assert.Equal(t, int32(3), result.Size)
	})
}

func TestClientPreservesAPIErrors(t *testing.T) {
	rc := newFakeClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusNotFound, `{
			"apiVersion": "v1",
			"kind": "Status",
			"status": "Failure",
			"reason": "NotFound",
			"message": "gadgets \"g1\" not found",
			"code": 404
		}`), nil
	})

	_, err := New(gadgetKind, rc).Namespace("ns").Get(context.Background(), "g1")
	require.Error(t, err)
	assert.True(t, apierrors.IsNotFound(err), "expected NotFound, got %v", err)
}

func TestClientIsValueType(t *testing.T) {
	base := New(gadgetKind, newFakeClient(t, nil))
	scoped := base.Namespace("ns")

	assert.Empty(t, base.namespace)
	assert.Equal(t, "ns", scoped.namespace)
	assert.Equal(t, base.RESTClient(), scoped.RESTClient())
	assert.Equal(t, gadgetKind.Descriptor, scoped.Descriptor())
}
