// SPDX-License-Identifier: GPL-3.0-or-later

package loginsight

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// sessionManager owns the current session token: it performs the
// authentication handshake, hands the token out to the request builder,
// and clears it when expiry is detected.
//
// The token is a single shared mutable cell read by every outgoing
// authenticated request and written by both successful handshakes and
// expiry detection. Invalidation is eventually consistent: a request
// already in flight when expiry is detected elsewhere is classified
// independently rather than preemptively cancelled.
type sessionManager struct {
	// builder constructs the handshake request.
	builder *requestBuilder

	// logger is the [SLogger] to use.
	logger SLogger

	// errClassifier classifies errors for structured logging.
	errClassifier ErrClassifier

	// timeNow is the function to get the current time.
	timeNow func() time.Time

	// txp is the shared transport.
	txp Transport

	// mu guards token.
	mu sync.Mutex

	// token is the opaque session token; empty when unauthenticated.
	token string
}

// newSessionManager creates a [*sessionManager] in the unauthenticated state.
func newSessionManager(config *Config, builder *requestBuilder, txp Transport, logger SLogger) *sessionManager {
	return &sessionManager{
		builder:       builder,
		logger:        logger,
		errClassifier: config.ErrClassifier,
		timeNow:       config.TimeNow,
		txp:           txp,
	}
}

// authenticate performs the handshake with the given credentials and
// blocks until it resolves. On HTTP 200 the response body is parsed for
// the session token, which replaces the stored token wholesale. Any other
// status, and any transport or I/O fault, is wrapped into [*AuthFailure],
// never propagated raw.
func (sm *sessionManager) authenticate(ctx context.Context, user, password string) error {
	req, err := sm.builder.buildSessionRequest(user, password)
	if err != nil {
		return &AuthFailure{Message: "cannot build handshake request", cause: err}
	}

	t0 := sm.timeNow()
	sm.logger.Info(
		"authStart",
		slog.String("httpUrl", req.URL.String()),
		slog.String("username", user),
		slog.Time("t", t0),
	)

	resp, err := sm.txp.Submit(ctx, req).Wait()
	if err != nil {
		sm.logAuthDone(t0, 0, err)
		return &AuthFailure{Message: "handshake request failed", cause: err}
	}
	body, err := readResponseBody(resp)
	if err != nil {
		sm.logAuthDone(t0, resp.StatusCode, err)
		return &AuthFailure{Message: "cannot read handshake response", cause: err}
	}
	if resp.StatusCode != http.StatusOK {
		sm.logAuthDone(t0, resp.StatusCode, nil)
		return &AuthFailure{
			Message:    "handshake rejected",
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var info AuthInfo
	if err := json.Unmarshal(body, &info); err != nil {
		sm.logAuthDone(t0, resp.StatusCode, err)
		return &AuthFailure{Message: "cannot parse handshake response", Body: string(body), cause: err}
	}
	if info.SessionID == "" {
		sm.logAuthDone(t0, resp.StatusCode, nil)
		return &AuthFailure{Message: "handshake response missing session token", Body: string(body)}
	}

	sm.replace(info.SessionID)
	sm.logAuthDone(t0, resp.StatusCode, nil)
	return nil
}

// logAuthDone emits the handshake completion span event.
func (sm *sessionManager) logAuthDone(t0 time.Time, statusCode int, err error) {
	sm.logger.Info(
		"authDone",
		slog.Any("err", err),
		slog.String("errClass", sm.errClassifier.Classify(err)),
		slog.Int("httpResponseStatusCode", statusCode),
		slog.Time("t0", t0),
		slog.Time("t", sm.timeNow()),
	)
}

// SessionID returns the current session token. It fails with
// [*AuthFailure] when no valid token is held; it never returns a
// sentinel empty value.
func (sm *sessionManager) SessionID() (string, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.token == "" {
		return "", &AuthFailure{Message: "no valid session token"}
	}
	return sm.token, nil
}

// replace stores a fresh token, replacing any previous one wholesale.
func (sm *sessionManager) replace(token string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.token = token
}

// invalidate clears the token. It is idempotent and safe to call when
// the token is already cleared.
func (sm *sessionManager) invalidate() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.token != "" {
		sm.logger.Info("sessionInvalidated", slog.Time("t", sm.timeNow()))
	}
	sm.token = ""
}
