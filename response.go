// SPDX-License-Identifier: GPL-3.0-or-later

package loginsight

// AuthInfo is the body of a successful authentication handshake.
type AuthInfo struct {
	// UserID identifies the authenticated user.
	UserID string `json:"userId"`

	// SessionID is the opaque session token to attach to subsequent
	// authenticated calls via the X-li-session-id header.
	SessionID string `json:"sessionId"`

	// TTL is the session lifetime in seconds.
	TTL int `json:"ttl"`
}

// MessageQueryResponse is the typed result of a message query.
type MessageQueryResponse struct {
	// Complete reports whether the result set is complete or was
	// truncated by the query limit.
	Complete bool `json:"complete"`

	// Duration is the server-side query duration in milliseconds.
	Duration int64 `json:"duration"`

	// Events are the matching log messages.
	Events []Message `json:"events"`
}

// AggregateBin is one bucket of an aggregate (grouped) query result.
type AggregateBin struct {
	// Minimum is the inclusive lower bound of the bucket, in
	// milliseconds since the epoch.
	Minimum int64 `json:"minimum"`

	// Maximum is the exclusive upper bound of the bucket, in
	// milliseconds since the epoch.
	Maximum int64 `json:"maximum"`

	// Count is the number of events that fell into the bucket.
	Count int64 `json:"count"`
}

// AggregateResponse is the typed result of an aggregate (grouped) query.
type AggregateResponse struct {
	// Complete reports whether the result set is complete.
	Complete bool `json:"complete"`

	// Duration is the server-side query duration in milliseconds.
	Duration int64 `json:"duration"`

	// Bins are the aggregation buckets.
	Bins []AggregateBin `json:"bins"`
}

// IngestionResponse is the acknowledgment of a bulk ingestion call.
type IngestionResponse struct {
	// Status is the server-reported status ("ok" on success).
	Status string `json:"status"`

	// Message is the human-readable server message, if any.
	Message string `json:"message"`

	// Ingested is the number of messages accepted into the index.
	Ingested int `json:"ingested"`
}
