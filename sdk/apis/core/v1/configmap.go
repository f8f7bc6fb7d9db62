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

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/rest"
)

// ConfigMap holds non-confidential configuration data.
type ConfigMap struct {
	metav1.ObjectMeta `json:"metadata"`

	// BinaryData values are base64-encoded on the wire. Keys must not
	// overlap with Data.
	BinaryData map[string][]byte `json:"binaryData,omitempty"`
	Data       map[string]string `json:"data,omitempty"`

	// Type is not part of the upstream ConfigMap API, but some producers set
	// it. It round-trips unchanged and is omitted when unset.
	Type *string `json:"type,omitempty"`

	Immutable *bool `json:"immutable,omitempty"`
}

var configMapSchema = presence.NewSchema("ConfigMap",
	presence.Field{Key: "metadata", Policy: presence.Required},
	presence.Field{Key: "binaryData", Policy: presence.OmitIfEmpty},
	presence.Field{Key: "data", Policy: presence.OmitIfEmpty},
	presence.Field{Key: "type", Policy: presence.Optional},
	presence.Field{Key: "immutable", Policy: presence.Optional},
)

var ConfigMapKind = client.Kind[*ConfigMap]{
	Descriptor: descriptor("ConfigMap", "configmaps"),
	Schema:     configMapSchema,
	New:        func() *ConfigMap { return &ConfigMap{} },
}

func NewConfigMapClient(restClient rest.Interface) client.Client[*ConfigMap] {
	return client.New(ConfigMapKind, restClient)
}

func (c *ConfigMap) Meta() *metav1.ObjectMeta {
	return &c.ObjectMeta
}

type plainConfigMap ConfigMap

func (c ConfigMap) MarshalJSON() ([]byte, error) {
	return configMapSchema.Encode(plainConfigMap(c))
}

func (c *ConfigMap) UnmarshalJSON(data []byte) error {
	decoded := plainConfigMap{}
	if err := configMapSchema.Decode(data, &decoded); err != nil {
		return err
	}

	*c = ConfigMap(decoded)
	return nil
}
