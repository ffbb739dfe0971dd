package outbox

import (
	"encoding/json"
	"time"
)

const (
	cloudEventsSpec        = "1.0"
	cloudEventsContentType = "application/cloudevents+json"
)

// CloudEvent is the structured-mode envelope written to the broker. Outbox
// payloads that are not JSON travel base64 encoded in DataBase64.
type CloudEvent struct {
	SpecVersion     string          `json:"specversion"`
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	Source          string          `json:"source"`
	Subject         string          `json:"subject,omitempty"`
	Time            time.Time       `json:"time"`
	DataContentType string          `json:"datacontenttype"`
	TraceParent     string          `json:"traceparent,omitempty"`
	Data            json.RawMessage `json:"data,omitempty"`
	DataBase64      []byte          `json:"data_base64,omitempty"`
}

// NewCloudEvent wraps an outbox row. The type carries the schema version,
// e.g. booking.cancelled.v1.
func NewCloudEvent(doc *EventDocument, source string) CloudEvent {
	evt := CloudEvent{
		SpecVersion:     cloudEventsSpec,
		ID:              doc.ID,
		Type:            doc.Name + ".v1",
		Source:          source,
		Subject:         doc.Aggregate,
		Time:            doc.OccurredAt,
		DataContentType: "application/json",
		TraceParent:     doc.Headers["traceparent"],
	}
	if json.Valid(doc.Payload) {
		evt.Data = json.RawMessage(doc.Payload)
	} else {
		evt.DataContentType = "application/octet-stream"
		evt.DataBase64 = doc.Payload
	}
	return evt
}

// Headers are the broker headers sent with the envelope. Row headers such as
// aggregate-type and event-name are passed through.
func (e CloudEvent) Headers(row map[string]string) map[string]string {
	headers := map[string]string{
		"content-type": cloudEventsContentType,
		"ce-id":        e.ID,
		"ce-type":      e.Type,
		"ce-source":    e.Source,
	}
	for k, v := range row {
		headers[k] = v
	}
	return headers
}
