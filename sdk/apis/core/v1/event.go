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

// Event is a report of something that happened to an object. Events emitted
// by different components disagree on which fields they fill in, so apart
// from the metadata and the involved object every field is either defaulted
// or optional.
type Event struct {
	metav1.ObjectMeta `json:"metadata"`

	// InvolvedObject is the object this event is about.
	InvolvedObject corev1.ObjectReference `json:"involvedObject"`

	// ReportingComponent is the controller that emitted the event. Frequently
	// sent as an empty string.
	ReportingComponent string `json:"reportingComponent"`
	// ReportingInstance is the ID of the controller instance.
	ReportingInstance string `json:"reportingInstance"`

	Message string `json:"message"`
	Reason  string `json:"reason"`
	Count   int32  `json:"count"`
	// Type is usually "Normal" or "Warning".
	Type string `json:"type"`

	Action         *string                 `json:"action,omitempty"`
	EventTime      *metav1.MicroTime       `json:"eventTime,omitempty"`
	FirstTimestamp *metav1.Time            `json:"firstTimestamp,omitempty"`
	LastTimestamp  *metav1.Time            `json:"lastTimestamp,omitempty"`
	Related        *corev1.ObjectReference `json:"related,omitempty"`
	Series         *corev1.EventSeries     `json:"series,omitempty"`
	Source         *corev1.EventSource     `json:"source,omitempty"`
}

var eventSchema = presence.NewSchema("Event",
	presence.Field{Key: "metadata", Policy: presence.Required},
	presence.Field{Key: "involvedObject", Policy: presence.Required},
	presence.Field{Key: "reportingComponent", Policy: presence.Defaulted},
	presence.Field{Key: "reportingInstance", Policy: presence.Defaulted},
	presence.Field{Key: "message", Policy: presence.Defaulted},
	presence.Field{Key: "reason", Policy: presence.Defaulted},
	presence.Field{Key: "count", Policy: presence.Defaulted},
	presence.Field{Key: "type", Policy: presence.Defaulted},
	presence.Field{Key: "action", Policy: presence.Optional},
	presence.Field{Key: "eventTime", Policy: presence.Optional},
	presence.Field{Key: "firstTimestamp", Policy: presence.Optional},
	presence.Field{Key: "lastTimestamp", Policy: presence.Optional},
	presence.Field{Key: "related", Policy: presence.Optional},
	presence.Field{Key: "series", Policy: presence.Optional},
	presence.Field{Key: "source", Policy: presence.Optional},
)

var EventKind = client.Kind[*Event]{
	Descriptor: descriptor("Event", "events"),
	Schema:     eventSchema,
	New:        func() *Event { return &Event{} },
}

func NewEventClient(restClient rest.Interface) client.Client[*Event] {
	return client.New(EventKind, restClient)
}

func (e *Event) Meta() *metav1.ObjectMeta {
	return &e.ObjectMeta
}

type plainEvent Event

func (e Event) MarshalJSON() ([]byte, error) {
	return eventSchema.Encode(plainEvent(e))
}

func (e *Event) UnmarshalJSON(data []byte) error {
	decoded := plainEvent{}
	if err := eventSchema.Decode(data, &decoded); err != nil {
		return err
	}

	*e = Event(decoded)
	return nil
}
