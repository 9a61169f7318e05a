// SPDX-License-Identifier: GPL-3.0-or-later

package loginsight

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/bassosimone/slogstub"
	"github.com/stretchr/testify/require"
)

// newCapturingLogger returns a logger that captures all log records into the
// returned slice. The caller can inspect the slice after exercising the code
// under test to verify which events were emitted.
func newCapturingLogger() (*slog.Logger, *[]slog.Record) {
	var records []slog.Record
	handler := &slogstub.FuncHandler{
		EnabledFunc: func(ctx context.Context, level slog.Level) bool {
			return true
		},
		HandleFunc: func(ctx context.Context, record slog.Record) error {
			records = append(records, record)
			return nil
		},
	}
	return slog.New(handler), &records
}

// recordMessages extracts the message of each captured record.
func recordMessages(records *[]slog.Record) []string {
	var messages []string
	for _, record := range *records {
		messages = append(messages, record.Message)
	}
	return messages
}

// newTestServerConfig returns a [*Config] pointing both the API port and
// the ingestion port at the given test server, with a fixed clock so the
// x-li-timestamp header is deterministic.
func newTestServerConfig(t *testing.T, server *httptest.Server) *Config {
	parsed, err := url.Parse(server.URL)
	require.NoError(t, err)
	host, portString, err := net.SplitHostPort(parsed.Host)
	require.NoError(t, err)
	port, err := strconv.Atoi(portString)
	require.NoError(t, err)

	cfg := NewConfig(host, "admin", "s3cret")
	cfg.Scheme = "http"
	cfg.Port = port
	cfg.IngestionPort = port
	cfg.TimeNow = func() time.Time { return time.Unix(1700000000, 0) }
	return cfg
}

// sessionsHandler returns a handler for POST /api/v1/sessions issuing
// the given session token.
func sessionsHandler(token string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"userId":"u1","sessionId":"%s","ttl":1800}`, token)
	}
}

// funcTransport is a [Transport] stub driven by function fields, in the
// spirit of the netstub/tlsstub test doubles.
type funcTransport struct {
	SubmitFunc func(ctx context.Context, req *http.Request) *Handle
	CloseFunc  func() error
}

var _ Transport = &funcTransport{}

// Submit implements [Transport].
func (t *funcTransport) Submit(ctx context.Context, req *http.Request) *Handle {
	return t.SubmitFunc(ctx, req)
}

// Close implements [Transport].
func (t *funcTransport) Close() error {
	if t.CloseFunc != nil {
		return t.CloseFunc()
	}
	return nil
}

// completedHandle returns a [*Handle] that has already completed with the
// given raw result.
func completedHandle(resp *http.Response, err error) *Handle {
	h := newHandle(func() {})
	h.complete(resp, err)
	return h
}

// responseWith builds a minimal [*http.Response] with the given status
// and body.
func responseWith(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// newTestSessionManager returns a session manager holding the given token
// without performing a handshake.
func newTestSessionManager(token string) *sessionManager {
	cfg := NewConfig("loginsight.example.com", "admin", "s3cret")
	sm := newSessionManager(cfg, newRequestBuilder(cfg), nil, DefaultSLogger())
	if token != "" {
		sm.replace(token)
	}
	return sm
}
