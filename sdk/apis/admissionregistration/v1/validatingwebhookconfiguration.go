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

// Package v1 contains typed bindings for admissionregistration.k8s.io/v1.
// Adding a kind here is a data declaration: the struct, its presence schema
// and its descriptor.
package v1

import (
	"k8c.io/snowflake/sdk/client"
	"k8c.io/snowflake/sdk/presence"

	admissionregistrationv1 "k8s.io/api/admissionregistration/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/rest"
)

var GroupVersion = schema.GroupVersion{Group: "admissionregistration.k8s.io", Version: "v1"}

var (
	registryBuilder = client.NewRegistryBuilder(addKnownKinds)
	AddToRegistry   = registryBuilder.AddToRegistry
)

func addKnownKinds(r *client.Registry) error {
	return r.Register(ValidatingWebhookConfigurationKind.Registration())
}

// ValidatingWebhookConfiguration describes the admission webhooks that
// may accept or reject an object without changing it.
type ValidatingWebhookConfiguration struct {
	metav1.ObjectMeta `json:"metadata"`

	Webhooks []admissionregistrationv1.ValidatingWebhook `json:"webhooks,omitempty"`
}

var validatingWebhookConfigurationSchema = presence.NewSchema("ValidatingWebhookConfiguration",
	presence.Field{Key: "metadata", Policy: presence.Required},
	presence.Field{Key: "webhooks", Policy: presence.OmitIfEmpty},
)

var ValidatingWebhookConfigurationKind = client.Kind[*ValidatingWebhookConfiguration]{
	Descriptor: client.Descriptor{
		Group:    GroupVersion.Group,
		Version:  GroupVersion.Version,
		Kind:     "ValidatingWebhookConfiguration",
		Resource: "validatingwebhookconfigurations",
	},
	Schema: validatingWebhookConfigurationSchema,
	New:    func() *ValidatingWebhookConfiguration { return &ValidatingWebhookConfiguration{} },
}

func NewValidatingWebhookConfigurationClient(restClient rest.Interface) client.Client[*ValidatingWebhookConfiguration] {
	return client.New(ValidatingWebhookConfigurationKind, restClient)
}

func (v *ValidatingWebhookConfiguration) Meta() *metav1.ObjectMeta {
	return &v.ObjectMeta
}

type plainValidatingWebhookConfiguration ValidatingWebhookConfiguration

func (v ValidatingWebhookConfiguration) MarshalJSON() ([]byte, error) {
	return validatingWebhookConfigurationSchema.Encode(plainValidatingWebhookConfiguration(v))
}

func (v *ValidatingWebhookConfiguration) UnmarshalJSON(data []byte) error {
	decoded := plainValidatingWebhookConfiguration{}
	if err := validatingWebhookConfigurationSchema.Decode(data, &decoded); err != nil {
		return err
	}

	*v = ValidatingWebhookConfiguration(decoded)
	return nil
}

func (in *ValidatingWebhookConfiguration) DeepCopy() *ValidatingWebhookConfiguration {
	if in == nil {
		return nil
	}

	out := new(ValidatingWebhookConfiguration)
	*out = *in
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	if in.Webhooks != nil {
		out.Webhooks = make([]admissionregistrationv1.ValidatingWebhook, len(in.Webhooks))
		for i := range in.Webhooks {
			in.Webhooks[i].DeepCopyInto(&out.Webhooks[i])
		}
	}

	return out
}
