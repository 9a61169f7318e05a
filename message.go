// SPDX-License-Identifier: GPL-3.0-or-later

package loginsight

// Field is an individual field attached to a Log Insight message.
//
// A field either carries its content inline, or references a slice of the
// message text via StartPosition and Length. The ingestion API accepts
// both forms; query responses typically populate all attributes.
type Field struct {
	// Name is the field name.
	Name string `json:"name,omitempty"`

	// Content is the field content/value.
	Content string `json:"content,omitempty"`

	// StartPosition is the offset of the field content within the
	// message text, when the content is not inlined.
	StartPosition string `json:"startPosition,omitempty"`

	// Length is the length of the field content within the message text.
	Length string `json:"length,omitempty"`
}

// NewField creates a [Field] carrying inline content.
func NewField(name, content string) Field {
	return Field{Name: name, Content: content}
}

// Message is a single log message, both as ingested and as returned by
// message queries.
type Message struct {
	// Text is the message text.
	Text string `json:"text,omitempty"`

	// Timestamp is the message timestamp in milliseconds since the epoch.
	// When zero it is omitted and the server assigns the ingestion time.
	Timestamp int64 `json:"timestamp,omitempty"`

	// Fields are the structured fields attached to the message.
	Fields []Field `json:"fields,omitempty"`
}

// IngestionRequest is the payload of a bulk ingestion call: the list of
// messages to submit to the Log Insight index.
type IngestionRequest struct {
	// Messages are the messages to ingest.
	Messages []Message `json:"messages"`
}

// NewIngestionRequest creates an [*IngestionRequest] with the given messages.
func NewIngestionRequest(messages ...Message) *IngestionRequest {
	return &IngestionRequest{Messages: messages}
}

// AddMessages appends messages to the ingestion payload.
func (r *IngestionRequest) AddMessages(messages ...Message) {
	r.Messages = append(r.Messages, messages...)
}

// Count returns the number of messages in the payload.
func (r *IngestionRequest) Count() int {
	return len(r.Messages)
}
