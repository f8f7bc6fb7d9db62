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
	"k8c.io/snowflake/sdk/client"
	"k8c.io/snowflake/sdk/presence"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/rest"
)

// Secret holds sensitive data. Both maps are omitted from payloads when
// empty; StringData is write-only and never returned by the server.
type Secret struct {
	metav1.ObjectMeta `json:"metadata"`

	// Data values are base64-encoded on the wire.
	Data map[string][]byte `json:"data,omitempty"`
	// StringData is merged into Data by the server on write, taking
	// precedence over Data for duplicate keys.
	StringData map[string]string `json:"stringData,omitempty"`

	Type *corev1.SecretType `json:"type,omitempty"`

	// Immutable prevents changes to Data once set to true.
	Immutable *bool `json:"immutable,omitempty"`
}

var secretSchema = presence.NewSchema("Secret",
	presence.Field{Key: "metadata", Policy: presence.Required},
	presence.Field{Key: "data", Policy: presence.OmitIfEmpty},
	presence.Field{Key: "stringData", Policy: presence.OmitIfEmpty},
	presence.Field{Key: "type", Policy: presence.Optional},
	presence.Field{Key: "immutable", Policy: presence.Optional},
)

var SecretKind = client.Kind[*Secret]{
	Descriptor: descriptor("Secret", "secrets"),
	Schema:     secretSchema,
	New:        func() *Secret { return &Secret{} },
}

func NewSecretClient(restClient rest.Interface) client.Client[*Secret] {
	return client.New(SecretKind, restClient)
}

func (s *Secret) Meta() *metav1.ObjectMeta {
	return &s.ObjectMeta
}

// MergedData returns Data overlaid with StringData, which is what the server
// stores when the secret is written. The secret itself is not modified.
func (s *Secret) MergedData() map[string][]byte {
	merged := make(map[string][]byte, len(s.Data)+len(s.StringData))

	for key, value := range s.Data {
		merged[key] = append([]byte(nil), value...)
	}

	for key, value := range s.StringData {
		merged[key] = []byte(value)
	}

	return merged
}

type plainSecret Secret

func (s Secret) MarshalJSON() ([]byte, error) {
	return secretSchema.Encode(plainSecret(s))
}

func (s *Secret) UnmarshalJSON(data []byte) error {
	decoded := plainSecret{}
	if err := secretSchema.Decode(data, &decoded); err != nil {
		return err
	}

	*s = Secret(decoded)
	return nil
}
