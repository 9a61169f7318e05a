// SPDX-License-Identifier: GPL-3.0-or-later

package loginsight

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Relative paths of the Log Insight API endpoint families.
const (
	sessionsPath         = "/api/v1/sessions"
	eventsPath           = "/api/v1/events/"
	aggregatedEventsPath = "/api/v1/aggregated-events/"
	ingestionPath        = "/api/v1/messages/ingest/"
)

// DefaultIngestionAgentID is the fixed agent identifier required by the
// Log Insight ingestion API. Ingestion authenticates via this identifier
// in the URL rather than via a session token.
const DefaultIngestionAgentID = "54947df8-0e9e-4471-a2f9-9af509fb5889"

// Header names used by the Log Insight API.
const (
	headerSessionID = "X-li-session-id"
	headerTimestamp = "x-li-timestamp"
)

// requestBuilder constructs fully-formed requests (URL, headers, body)
// for the session, message-query, aggregate-query, and ingestion
// endpoint families.
type requestBuilder struct {
	// config holds the connection parameters.
	config *Config

	// timeNow is the function to get the current time. It feeds the
	// x-li-timestamp header.
	timeNow func() time.Time
}

// newRequestBuilder creates a [*requestBuilder] for the given config.
func newRequestBuilder(config *Config) *requestBuilder {
	return &requestBuilder{config: config, timeNow: config.TimeNow}
}

// apiURL returns the base URL of the query and session endpoints.
func (rb *requestBuilder) apiURL() string {
	return fmt.Sprintf("%s://%s:%d", rb.config.Scheme, rb.config.Host, rb.config.Port)
}

// sessionURL returns the URL of the authentication handshake endpoint.
func (rb *requestBuilder) sessionURL() string {
	return rb.apiURL() + sessionsPath
}

// ingestionURL returns the URL of the ingestion endpoint, which always
// embeds [DefaultIngestionAgentID] regardless of configuration.
func (rb *requestBuilder) ingestionURL() string {
	return fmt.Sprintf("%s://%s:%d%s%s", rb.config.Scheme, rb.config.Host,
		rb.config.IngestionPort, ingestionPath, DefaultIngestionAgentID)
}

// addDefaultHeaders sets the headers attached to every request:
// Content-Type, Accept, and the x-li-timestamp epoch-seconds header.
func (rb *requestBuilder) addDefaultHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerTimestamp, strconv.FormatInt(rb.timeNow().Unix(), 10))
}

// buildSessionRequest constructs the authentication handshake request
// carrying the given credentials as a JSON body.
func (rb *requestBuilder) buildSessionRequest(user, password string) (*http.Request, error) {
	body, err := json.Marshal(map[string]string{"username": user, "password": password})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, rb.sessionURL(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequestURL, err.Error())
	}
	rb.addDefaultHeaders(req)
	return req, nil
}

// buildQueryRequest constructs a GET request for the message-query or
// aggregate-query endpoint family, attaching the default headers plus the
// session header with the given token.
//
// The relative URL is the query expression path understood by the API,
// e.g. "text/CONTAINS Test/timestamp/GT 0". A malformed relative URL
// fails with an error wrapping [ErrInvalidRequestURL].
func (rb *requestBuilder) buildQueryRequest(relativeURL string, aggregate bool, sessionID string) (*http.Request, error) {
	base := eventsPath
	if aggregate {
		base = aggregatedEventsPath
	}
	fullURL := rb.apiURL() + base + relativeURL
	req, err := http.NewRequest(http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequestURL, err.Error())
	}
	rb.addDefaultHeaders(req)
	req.Header.Set(headerSessionID, sessionID)
	return req, nil
}

// buildIngestionRequest constructs a POST request for the ingestion
// endpoint. The body is the exact JSON serialization of the payload and
// no session header is attached: ingestion authenticates via the agent
// identifier embedded in the URL.
func (rb *requestBuilder) buildIngestionRequest(payload *IngestionRequest) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, rb.ingestionURL(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequestURL, err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req, nil
}
