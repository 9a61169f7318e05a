// SPDX-License-Identifier: GPL-3.0-or-later

package loginsight

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Error includes the HTTP status when one was observed and the cause otherwise.
func TestAuthFailureError(t *testing.T) {
	withStatus := &AuthFailure{Message: "handshake rejected", StatusCode: 403, Body: "nope"}
	assert.Contains(t, withStatus.Error(), "handshake rejected")
	assert.Contains(t, withStatus.Error(), "403")

	cause := errors.New("connection refused")
	withCause := &AuthFailure{Message: "handshake request failed", cause: cause}
	assert.Contains(t, withCause.Error(), "connection refused")

	local := &AuthFailure{Message: "no valid session token"}
	assert.Contains(t, local.Error(), "no valid session token")
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func TestAuthFailureUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := error(&AuthFailure{Message: "handshake request failed", cause: cause})

	require.ErrorIs(t, err, cause)

	var authFailure *AuthFailure
	require.ErrorAs(t, err, &authFailure)
	assert.Equal(t, "handshake request failed", authFailure.Message)
}

func TestAPIErrorError(t *testing.T) {
	withStatus := &APIError{Message: "unexpected response status", StatusCode: 500, Body: "oops"}
	assert.Contains(t, withStatus.Error(), "500")

	cause := errors.New("broken pipe")
	withCause := &APIError{Message: "transport failure", cause: cause}
	assert.Contains(t, withCause.Error(), "broken pipe")
	require.ErrorIs(t, withCause, cause)

	bare := &APIError{Message: "transport failure"}
	assert.Contains(t, bare.Error(), "transport failure")
}

// ParseError retains the raw body for diagnostics.
func TestParseErrorRetainsBody(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := error(&ParseError{Message: "response body does not match the expected shape",
		Body: `{"events":`, cause: cause})

	var parseError *ParseError
	require.ErrorAs(t, err, &parseError)
	assert.Equal(t, `{"events":`, parseError.Body)
	require.ErrorIs(t, err, cause)
}

// Cancellation errors match both ErrRequestCancelled and the context cause.
func TestNewCancelledError(t *testing.T) {
	err := newCancelledError(context.Canceled)

	require.ErrorIs(t, err, ErrRequestCancelled)
	require.ErrorIs(t, err, context.Canceled)
}
