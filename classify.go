// SPDX-License-Identifier: GPL-3.0-or-later

package loginsight

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// statusSessionExpired is the Log Insight "login time-out" status,
// treated the same as 401: the session token is no longer valid.
const statusSessionExpired = 440

// outcomeKind tags the classification of a raw HTTP outcome.
type outcomeKind int

const (
	// outcomeSuccess is an HTTP 200 with a raw body.
	outcomeSuccess outcomeKind = iota

	// outcomeAuthExpired is an HTTP 401 or 440 on any endpoint.
	outcomeAuthExpired

	// outcomeGenericError is any other HTTP status.
	outcomeGenericError

	// outcomeTransportFailure is a transport-level fault.
	outcomeTransportFailure

	// outcomeCancelled is a cancellation notification from the transport.
	outcomeCancelled
)

// outcome is the classified result of a raw HTTP exchange, before any
// typed parsing happens.
type outcome struct {
	// kind tags the variant.
	kind outcomeKind

	// statusCode is the HTTP status, when one was observed.
	statusCode int

	// body is the raw response body, when one was observed.
	body []byte

	// cause is the transport-level fault, for the failure variants.
	cause error
}

// classifyResponse maps an HTTP status and raw body to an [outcome].
//
// Callers surfacing an auth-expired outcome MUST invalidate the session
// token first; see [*executor.outcomeOf].
func classifyResponse(statusCode int, body []byte) outcome {
	switch statusCode {
	case http.StatusOK:
		return outcome{kind: outcomeSuccess, statusCode: statusCode, body: body}
	case http.StatusUnauthorized, statusSessionExpired:
		return outcome{kind: outcomeAuthExpired, statusCode: statusCode, body: body}
	default:
		return outcome{kind: outcomeGenericError, statusCode: statusCode, body: body}
	}
}

// classifyTransportError maps a transport-level fault to an [outcome],
// distinguishing cancellation from genuine failure.
func classifyTransportError(err error) outcome {
	if errors.Is(err, context.Canceled) {
		return outcome{kind: outcomeCancelled, cause: err}
	}
	return outcome{kind: outcomeTransportFailure, cause: err}
}

// intoError maps a non-success [outcome] to the corresponding typed error.
func (o outcome) intoError() error {
	switch o.kind {
	case outcomeAuthExpired:
		return &AuthFailure{
			Message:    "session expired",
			StatusCode: o.statusCode,
			Body:       string(o.body),
		}
	case outcomeGenericError:
		return &APIError{
			Message:    "unexpected response status",
			StatusCode: o.statusCode,
			Body:       string(o.body),
		}
	case outcomeCancelled:
		return newCancelledError(o.cause)
	default:
		if errors.Is(o.cause, ErrClientClosed) {
			return o.cause
		}
		return &APIError{Message: "transport failure", cause: o.cause}
	}
}

// parseBody decodes the raw body of a success outcome into T. A decoding
// failure yields [*ParseError] carrying the raw body for diagnostics,
// never a partially-populated value.
func parseBody[T any](body []byte) (*T, error) {
	var value T
	if err := json.Unmarshal(body, &value); err != nil {
		return nil, &ParseError{
			Message: "response body does not match the expected shape",
			Body:    string(body),
			cause:   err,
		}
	}
	return &value, nil
}

// readResponseBody drains and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}
