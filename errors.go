// SPDX-License-Identifier: GPL-3.0-or-later

package loginsight

import (
	"errors"
	"fmt"
)

// ErrClientClosed is returned by operations issued after [*Client.Close].
var ErrClientClosed = errors.New("loginsight: client is closed")

// ErrRequestCancelled wraps failures caused by context cancellation.
//
// Use [errors.Is] to distinguish a cancelled request from a generic
// transport failure.
var ErrRequestCancelled = errors.New("loginsight: request cancelled")

// ErrInvalidRequestURL wraps failures to build a request from a malformed
// relative query URL.
var ErrInvalidRequestURL = errors.New("loginsight: invalid request URL")

// AuthFailure indicates an authentication handshake failure or a detected
// session expiry (status 401 or 440 on any endpoint).
//
// StatusCode and Body are populated when the failure was observed on the
// wire; they are zero when the failure is local (e.g., no session token
// held, or a transport fault during the handshake).
type AuthFailure struct {
	// Message describes the failure.
	Message string

	// StatusCode is the HTTP status observed, if any.
	StatusCode int

	// Body is the raw response body observed, if any.
	Body string

	// cause is the wrapped underlying error, if any.
	cause error
}

var _ error = &AuthFailure{}

// Error implements error.
func (e *AuthFailure) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("loginsight: auth failure: %s (status %d)", e.Message, e.StatusCode)
	}
	if e.cause != nil {
		return fmt.Sprintf("loginsight: auth failure: %s: %s", e.Message, e.cause.Error())
	}
	return fmt.Sprintf("loginsight: auth failure: %s", e.Message)
}

// Unwrap returns the wrapped underlying error, if any.
func (e *AuthFailure) Unwrap() error {
	return e.cause
}

// APIError indicates a non-2xx response unrelated to authentication, or a
// transport-level failure wrapped before reaching the caller.
type APIError struct {
	// Message describes the failure.
	Message string

	// StatusCode is the HTTP status observed; zero for transport faults.
	StatusCode int

	// Body is the raw response body observed, if any.
	Body string

	// cause is the wrapped underlying error, if any.
	cause error
}

var _ error = &APIError{}

// Error implements error.
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("loginsight: api error: %s (status %d)", e.Message, e.StatusCode)
	}
	if e.cause != nil {
		return fmt.Sprintf("loginsight: api error: %s: %s", e.Message, e.cause.Error())
	}
	return fmt.Sprintf("loginsight: api error: %s", e.Message)
}

// Unwrap returns the wrapped underlying error, if any.
func (e *APIError) Unwrap() error {
	return e.cause
}

// ParseError indicates a successful HTTP response whose body does not match
// the expected shape. The raw body is retained for diagnostics.
type ParseError struct {
	// Message describes the failure.
	Message string

	// Body is the raw response body that failed to decode.
	Body string

	// cause is the wrapped decoding error.
	cause error
}

var _ error = &ParseError{}

// Error implements error.
func (e *ParseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("loginsight: parse error: %s: %s", e.Message, e.cause.Error())
	}
	return fmt.Sprintf("loginsight: parse error: %s", e.Message)
}

// Unwrap returns the wrapped decoding error.
func (e *ParseError) Unwrap() error {
	return e.cause
}

// newCancelledError wraps cause so that the result matches both
// [ErrRequestCancelled] and the original cancellation cause.
func newCancelledError(cause error) error {
	return fmt.Errorf("%w: %w", ErrRequestCancelled, cause)
}
