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
	corev1 "k8s.io/api/core/v1"
)

func (in *Event) DeepCopyInto(out *Event) {
	*out = *in
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	out.InvolvedObject = in.InvolvedObject
	if in.Action != nil {
		out.Action = new(string)
		*out.Action = *in.Action
	}
	if in.EventTime != nil {
		out.EventTime = in.EventTime.DeepCopy()
	}
	if in.FirstTimestamp != nil {
		out.FirstTimestamp = in.FirstTimestamp.DeepCopy()
	}
	if in.LastTimestamp != nil {
		out.LastTimestamp = in.LastTimestamp.DeepCopy()
	}
	if in.Related != nil {
		out.Related = new(corev1.ObjectReference)
		*out.Related = *in.Related
	}
	if in.Series != nil {
		out.Series = in.Series.DeepCopy()
	}
	if in.Source != nil {
		out.Source = new(corev1.EventSource)
		*out.Source = *in.Source
	}
}

func (in *Event) DeepCopy() *Event {
	if in == nil {
		return nil
	}
	out := new(Event)
	in.DeepCopyInto(out)
	return out
}

func (in *Secret) DeepCopyInto(out *Secret) {
	*out = *in
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	if in.Data != nil {
		out.Data = make(map[string][]byte, len(in.Data))
		for key, val := range in.Data {
			var outVal []byte
			if val != nil {
				outVal = make([]byte, len(val))
				copy(outVal, val)
			}
			out.Data[key] = outVal
		}
	}
	if in.StringData != nil {
		out.StringData = make(map[string]string, len(in.StringData))
		for key, val := range in.StringData {
			out.StringData[key] = val
		}
	}
	if in.Type != nil {
		out.Type = new(corev1.SecretType)
		*out.Type = *in.Type
	}
	if in.Immutable != nil {
		out.Immutable = new(bool)
		*out.Immutable = *in.Immutable
	}
}

func (in *Secret) DeepCopy() *Secret {
	if in == nil {
		return nil
	}
	out := new(Secret)
	in.DeepCopyInto(out)
	return out
}

func (in *ConfigMap) DeepCopyInto(out *ConfigMap) {
	*out = *in
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	if in.BinaryData != nil {
		out.BinaryData = make(map[string][]byte, len(in.BinaryData))
		for key, val := range in.BinaryData {
			var outVal []byte
			if val != nil {
				outVal = make([]byte, len(val))
				copy(outVal, val)
			}
			out.BinaryData[key] = outVal
		}
	}
	if in.Data != nil {
		out.Data = make(map[string]string, len(in.Data))
		for key, val := range in.Data {
			out.Data[key] = val
		}
	}
	if in.Type != nil {
		out.Type = new(string)
		*out.Type = *in.Type
	}
	if in.Immutable != nil {
		out.Immutable = new(bool)
		*out.Immutable = *in.Immutable
	}
}

func (in *ConfigMap) DeepCopy() *ConfigMap {
	if in == nil {
		return nil
	}
	out := new(ConfigMap)
	in.DeepCopyInto(out)
	return out
}
