// SPDX-License-Identifier: GPL-3.0-or-later

package loginsight

import (
	"context"
	"net/http"
)

// AsyncCallback delivers the result of an asynchronous operation: either
// the typed response or an error, never both.
//
// The callback is invoked exactly once per submitted request, on a
// completion goroutine rather than on the submitting goroutine, on
// exactly one of these paths: success, classification or parse failure,
// wrapped transport failure, or cancellation.
type AsyncCallback[T any] func(response *T, err error)

// executor drives requests through the shared [Transport] in either
// blocking or callback mode. Both modes share one submit primitive:
// the blocking surface waits on the [*Handle], the asynchronous surface
// attaches a listener goroutine to it.
//
// There is no automatic retry on session expiry in either mode: the
// [*AuthFailure] is surfaced and the caller is responsible for
// re-authenticating and resubmitting.
type executor struct {
	// session is invalidated when expiry is observed.
	session *sessionManager

	// txp is the shared transport.
	txp Transport
}

// outcomeOf classifies the raw result of a completed round trip. An
// auth-expired outcome unconditionally clears the session token before
// being returned, so no later request reuses a token known to be stale.
func (ex *executor) outcomeOf(resp *http.Response, err error) outcome {
	if err != nil {
		return classifyTransportError(err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return classifyTransportError(err)
	}
	oc := classifyResponse(resp.StatusCode, body)
	if oc.kind == outcomeAuthExpired {
		ex.session.invalidate()
	}
	return oc
}

// finishOutcome turns a classified outcome into the typed result or the
// corresponding typed error. A call yields either a fully-typed response
// or exactly one error value, never both.
func finishOutcome[T any](oc outcome) (*T, error) {
	if oc.kind != outcomeSuccess {
		return nil, oc.intoError()
	}
	return parseBody[T](oc.body)
}

// executeBlocking submits the request, waits for completion, classifies,
// and parses on success. It fails fast: any auth-expired, generic,
// parse, or transport failure is returned as the corresponding error
// kind, with no retry.
func executeBlocking[T any](ctx context.Context, ex *executor, req *http.Request) (*T, error) {
	resp, err := ex.txp.Submit(ctx, req).Wait()
	return finishOutcome[T](ex.outcomeOf(resp, err))
}

// executeAsync submits the request and attaches a listener that invokes
// the callback exactly once when the handle completes. The submitting
// goroutine is never blocked and never observes a panic or error from
// this call: every failure travels through the callback's error slot.
func executeAsync[T any](ctx context.Context, ex *executor, req *http.Request, callback AsyncCallback[T]) {
	h := ex.txp.Submit(ctx, req)
	go func() {
		resp, err := h.Wait()
		callback(finishOutcome[T](ex.outcomeOf(resp, err)))
	}()
}

// failAsync delivers a pre-submission failure (e.g., request construction)
// through the callback on a separate goroutine, preserving the contract
// that the callback never runs on the submitting goroutine.
func failAsync[T any](callback AsyncCallback[T], err error) {
	go callback(nil, err)
}
