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

package v1

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"k8c.io/snowflake/sdk/client"

	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest/fake"
)

func TestAddToRegistry(t *testing.T) {
	registry := client.NewRegistry()
	require.NoError(t, AddToRegistry(registry))

	assert.Equal(t, []string{"ConfigMap", "Event", "Secret"}, registry.Kinds())

	for input, expected := range map[string]string{
		"events":     "Event",
		"secret":     "Secret",
		"Secrets":    "Secret",
		"configmap":  "ConfigMap",
		"configmaps": "ConfigMap",
	} {
		kind, ok := registry.ResolveKind(input)
		assert.True(t, ok, "expected %q to resolve", input)
		assert.Equal(t, expected, kind, "resolving %q", input)
	}

	require.Error(t, AddToRegistry(registry), "registering the same kinds twice should fail")
}

func TestKindsAreValid(t *testing.T) {
	require.NoError(t, EventKind.Validate())
	require.NoError(t, SecretKind.Validate())
	require.NoError(t, ConfigMapKind.Validate())
}

func TestClientConstructors(t *testing.T) {
	testcases := []struct {
		name string
		path string
		body string
		call func(*fake.RESTClient) (client.Resource, error)
	}{
		{
			name: "event",
			path: "/api/v1/namespaces/default/events/e1",
			body: `{"apiVersion":"v1","kind":"Event","metadata":{"name":"e1","namespace":"default"},"involvedObject":{"kind":"Pod","name":"p1"}}`,
			call: func(rc *fake.RESTClient) (client.Resource, error) {
				return NewEventClient(rc).Namespace("default").Get(context.Background(), "e1")
			},
		},
		{
			name: "secret",
			path: "/api/v1/namespaces/default/secrets/s1",
			body: `{"apiVersion":"v1","kind":"Secret","metadata":{"name":"s1","namespace":"default"},"type":"Opaque"}`,
			call: func(rc *fake.RESTClient) (client.Resource, error) {
				return NewSecretClient(rc).Namespace("default").Get(context.Background(), "s1")
			},
		},
		{
			name: "configmap",
			path: "/api/v1/namespaces/default/configmaps/c1",
			body: `{"apiVersion":"v1","kind":"ConfigMap","metadata":{"name":"c1","namespace":"default"},"data":{"a":"b"}}`,
			call: func(rc *fake.RESTClient) (client.Resource, error) {
				return NewConfigMapClient(rc).Namespace("default").Get(context.Background(), "c1")
			},
		},
	}

	for _, testcase := range testcases {
		t.Run(testcase.name, func(t *testing.T) {
			var path string

			rc := &fake.RESTClient{
				NegotiatedSerializer: scheme.Codecs.WithoutConversion(),
				Client: fake.CreateHTTPClient(func(req *http.Request) (*http.Response, error) {
					path = req.URL.Path

					return &http.Response{
						StatusCode: http.StatusOK,
						Header:     http.Header{"Content-Type": []string{"application/json"}},
						Body:       io.NopCloser(strings.NewReader(testcase.body)),
					}, nil
				}),
			}

			obj, err := testcase.call(rc)
			require.NoError(t, err)
			assert.Equal(t, testcase.path, path)
			assert.Equal(t, "default", obj.Meta().Namespace)
		})
	}
}
