// SPDX-License-Identifier: GPL-3.0-or-later

package loginsight

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newStubExecutor returns an executor whose transport always yields the
// given raw result, plus the session manager so tests can observe
// invalidation.
func newStubExecutor(resp func() *http.Response, err error) (*executor, *sessionManager) {
	sm := newTestSessionManager("token-abc")
	txp := &funcTransport{
		SubmitFunc: func(ctx context.Context, req *http.Request) *Handle {
			var r *http.Response
			if resp != nil {
				r = resp()
			}
			return completedHandle(r, err)
		},
	}
	return &executor{session: sm, txp: txp}, sm
}

// newTestRequest builds a throwaway GET request.
func newTestRequest(t *testing.T) *http.Request {
	req, err := http.NewRequest(http.MethodGet, "https://loginsight.example.com/api/v1/events/x", nil)
	require.NoError(t, err)
	return req
}

// runAsync runs executeAsync and waits for the single callback invocation,
// also returning how many times the callback fired.
func runAsync(t *testing.T, ex *executor, req *http.Request) (*MessageQueryResponse, error, int64) {
	var calls atomic.Int64
	done := make(chan struct{})
	var gotResp *MessageQueryResponse
	var gotErr error
	executeAsync(context.Background(), ex, req, func(resp *MessageQueryResponse, err error) {
		calls.Add(1)
		gotResp, gotErr = resp, err
		close(done)
	})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("callback was never invoked")
	}
	// Give a second (erroneous) invocation a chance to show up
	time.Sleep(10 * time.Millisecond)
	return gotResp, gotErr, calls.Load()
}

// For identical raw outcomes, the blocking and callback paths produce
// equivalent classified results, and the callback fires exactly once.
func TestExecuteModesAreEquivalent(t *testing.T) {
	transportFault := errors.New("connection reset")

	tests := []struct {
		name      string
		resp      func() *http.Response
		err       error
		wantKind  func(t *testing.T, err error)
		wantValue bool
	}{
		{
			name:      "success",
			resp:      func() *http.Response { return responseWith(200, `{"complete":true,"events":[]}`) },
			wantValue: true,
		},
		{
			name: "parse failure",
			resp: func() *http.Response { return responseWith(200, `{"events":`) },
			wantKind: func(t *testing.T, err error) {
				var parseError *ParseError
				require.ErrorAs(t, err, &parseError)
			},
		},
		{
			name: "auth expired",
			resp: func() *http.Response { return responseWith(401, "expired") },
			wantKind: func(t *testing.T, err error) {
				var authFailure *AuthFailure
				require.ErrorAs(t, err, &authFailure)
			},
		},
		{
			name: "generic error",
			resp: func() *http.Response { return responseWith(500, "oops") },
			wantKind: func(t *testing.T, err error) {
				var apiError *APIError
				require.ErrorAs(t, err, &apiError)
			},
		},
		{
			name: "transport failure",
			err:  transportFault,
			wantKind: func(t *testing.T, err error) {
				var apiError *APIError
				require.ErrorAs(t, err, &apiError)
				require.ErrorIs(t, err, transportFault)
			},
		},
		{
			name: "cancellation",
			err:  context.Canceled,
			wantKind: func(t *testing.T, err error) {
				require.ErrorIs(t, err, ErrRequestCancelled)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Blocking path
			exSync, _ := newStubExecutor(tt.resp, tt.err)
			syncResp, syncErr := executeBlocking[MessageQueryResponse](
				context.Background(), exSync, newTestRequest(t))

			// Callback path
			exAsync, _ := newStubExecutor(tt.resp, tt.err)
			asyncResp, asyncErr, calls := runAsync(t, exAsync, newTestRequest(t))

			assert.Equal(t, int64(1), calls, "callback must fire exactly once")

			if tt.wantValue {
				require.NoError(t, syncErr)
				require.NoError(t, asyncErr)
				require.NotNil(t, syncResp)
				require.NotNil(t, asyncResp)
				assert.Equal(t, syncResp, asyncResp)
				return
			}

			require.Error(t, syncErr)
			require.Error(t, asyncErr)
			tt.wantKind(t, syncErr)
			tt.wantKind(t, asyncErr)
			assert.Nil(t, syncResp)
			assert.Nil(t, asyncResp)
		})
	}
}

// Observing 401 clears the session token before the failure is surfaced.
func TestExecuteInvalidatesSessionOnExpiry(t *testing.T) {
	ex, sm := newStubExecutor(func() *http.Response { return responseWith(401, "expired") }, nil)

	_, err := executeBlocking[MessageQueryResponse](context.Background(), ex, newTestRequest(t))

	var authFailure *AuthFailure
	require.ErrorAs(t, err, &authFailure)
	_, err = sm.SessionID()
	require.Error(t, err, "token must be cleared after 401")
}

// Observing 440 clears the session token as well.
func TestExecuteInvalidatesSessionOnLoginTimeout(t *testing.T) {
	ex, sm := newStubExecutor(func() *http.Response { return responseWith(440, "timeout") }, nil)

	_, err := executeBlocking[MessageQueryResponse](context.Background(), ex, newTestRequest(t))

	require.Error(t, err)
	_, err = sm.SessionID()
	require.Error(t, err)
}

// A generic failure leaves the session token untouched.
func TestExecuteKeepsSessionOnGenericError(t *testing.T) {
	ex, sm := newStubExecutor(func() *http.Response { return responseWith(500, "oops") }, nil)

	_, err := executeBlocking[MessageQueryResponse](context.Background(), ex, newTestRequest(t))

	require.Error(t, err)
	token, err := sm.SessionID()
	require.NoError(t, err)
	assert.Equal(t, "token-abc", token)
}

// failAsync delivers pre-submission failures through the callback slot.
func TestFailAsync(t *testing.T) {
	done := make(chan struct{})
	var gotErr error
	failAsync(func(resp *MessageQueryResponse, err error) {
		gotErr = err
		close(done)
	}, ErrClientClosed)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("callback was never invoked")
	}
	require.ErrorIs(t, gotErr, ErrClientClosed)
}
