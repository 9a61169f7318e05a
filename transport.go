// SPDX-License-Identifier: GPL-3.0-or-later

package loginsight

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptrace"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bassosimone/safeconn"
	"golang.org/x/net/http2"
)

// Transport is the shared, non-blocking HTTP execution engine serving all
// logical requests concurrently. Requests are independent and may complete
// in any order relative to each other.
//
// Submit never blocks the calling goroutine: it returns a [*Handle] that
// completes exactly once. Close releases the transport's resources; Submit
// after Close completes the handle with [ErrClientClosed].
//
// The default implementation is created by [DefaultConnectionStrategy];
// provide a custom [ConnectionStrategy] to substitute it.
type Transport interface {
	Submit(ctx context.Context, req *http.Request) *Handle
	Close() error
}

// Handle is the single-fire completion handle of a submitted request.
//
// A handle completes exactly once, with either a response or an error.
// [*Handle.Wait] blocks until completion; [*Handle.Done] exposes the
// completion channel for callers attaching their own listener;
// [*Handle.Cancel] requests cancellation of the in-flight request.
type Handle struct {
	// cancel cancels the request's derived context.
	cancel context.CancelFunc

	// done is closed exactly once upon completion.
	done chan struct{}

	// once guards the completion.
	once sync.Once

	// resp is the response; set before done is closed.
	resp *http.Response

	// err is the error; set before done is closed.
	err error
}

// newHandle creates a [*Handle] bound to the given cancel function.
func newHandle(cancel context.CancelFunc) *Handle {
	return &Handle{cancel: cancel, done: make(chan struct{})}
}

// complete records the result and closes the done channel. Subsequent
// calls are no-ops, which enforces the single-fire contract.
func (h *Handle) complete(resp *http.Response, err error) {
	h.once.Do(func() {
		h.resp = resp
		h.err = err
		close(h.done)
	})
}

// Wait blocks until the request completes and returns its raw result.
func (h *Handle) Wait() (*http.Response, error) {
	<-h.done
	return h.resp, h.err
}

// Done returns a channel closed when the request completes. After the
// channel is closed, [*Handle.Wait] returns without blocking.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Cancel requests cancellation of the in-flight request. The handle still
// completes exactly once, with a cancellation error.
func (h *Handle) Cancel() {
	h.cancel()
}

// ConnectionStrategy creates the [Transport] used by a [*Client].
//
// This is the pluggable transport factory: substitute it to inject a
// custom engine (e.g., a recording transport in tests).
type ConnectionStrategy interface {
	NewTransport(config *Config, logger SLogger) (Transport, error)
}

// DefaultConnectionStrategy builds the default [Transport] on top of
// [net/http] with HTTP/2 enabled via ALPN.
type DefaultConnectionStrategy struct{}

var _ ConnectionStrategy = &DefaultConnectionStrategy{}

// NewTransport implements [ConnectionStrategy].
func (*DefaultConnectionStrategy) NewTransport(config *Config, logger SLogger) (Transport, error) {
	txp := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: config.InsecureSkipVerify},
	}
	if err := http2.ConfigureTransport(txp); err != nil {
		return nil, err
	}
	return &httpTransport{
		client:        &http.Client{Transport: txp},
		closed:        atomic.Bool{},
		errClassifier: config.ErrClassifier,
		logger:        logger,
		timeNow:       config.TimeNow,
	}, nil
}

// httpTransport is the default [Transport] implementation.
//
// Each submitted request runs in its own goroutine; the handle's derived
// context is cancelled when the goroutine finishes, releasing resources
// even when the caller never cancels.
type httpTransport struct {
	// client performs the actual round trips.
	client *http.Client

	// closed records whether Close was called.
	closed atomic.Bool

	// errClassifier classifies errors for structured logging.
	errClassifier ErrClassifier

	// logger is the [SLogger] to use.
	logger SLogger

	// timeNow is the function to get the current time.
	timeNow func() time.Time
}

var _ Transport = &httpTransport{}

// Submit implements [Transport].
func (t *httpTransport) Submit(ctx context.Context, req *http.Request) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := newHandle(cancel)
	if t.closed.Load() {
		cancel()
		h.complete(nil, ErrClientClosed)
		return h
	}
	go t.roundTrip(ctx, req, h)
	return h
}

// Close implements [Transport]. It is idempotent.
func (t *httpTransport) Close() error {
	if t.closed.CompareAndSwap(false, true) {
		t.client.CloseIdleConnections()
	}
	return nil
}

// roundTrip performs one round trip and completes the handle.
func (t *httpTransport) roundTrip(ctx context.Context, req *http.Request, h *Handle) {
	defer h.cancel()

	// 1. Capture the underlying connection for logging metadata
	var connHolder atomic.Value
	trace := &httptrace.ClientTrace{
		GotConn: func(info httptrace.GotConnInfo) {
			connHolder.Store(info.Conn)
		},
	}
	req = req.WithContext(httptrace.WithClientTrace(ctx, trace))

	// 2. Log before the round trip
	spanID := NewSpanID()
	t0 := t.timeNow()
	deadline, _ := ctx.Deadline()
	t.logger.Info(
		"httpRoundTripStart",
		slog.Time("deadline", deadline),
		slog.String("httpMethod", req.Method),
		slog.String("httpUrl", req.URL.String()),
		slog.Any("httpRequestHeaders", req.Header),
		slog.String("spanID", spanID),
		slog.Time("t", t0),
	)

	// 3. Perform the round trip
	resp, err := t.client.Do(req)

	// 4. Log after the round trip
	var (
		statusCode int
		headers    http.Header
	)
	if resp != nil {
		statusCode = resp.StatusCode
		headers = resp.Header
	}
	conn, _ := connHolder.Load().(net.Conn)
	t.logger.Info(
		"httpRoundTripDone",
		slog.Time("deadline", deadline),
		slog.Any("err", err),
		slog.String("errClass", t.errClassifier.Classify(err)),
		slog.String("httpMethod", req.Method),
		slog.String("httpUrl", req.URL.String()),
		slog.Any("httpResponseHeaders", headers),
		slog.Int("httpResponseStatusCode", statusCode),
		slog.String("localAddr", connLocalAddr(conn)),
		slog.String("protocol", connNetwork(conn)),
		slog.String("remoteAddr", connRemoteAddr(conn)),
		slog.String("spanID", spanID),
		slog.Time("t0", t0),
		slog.Time("t", t.timeNow()),
	)

	// 5. Complete the handle exactly once
	h.complete(resp, err)
}

// connLocalAddr returns the local address of conn, or the empty string
// when no connection was captured before the round trip failed.
func connLocalAddr(conn net.Conn) string {
	if conn == nil {
		return ""
	}
	return safeconn.LocalAddr(conn)
}

// connRemoteAddr returns the remote address of conn, or the empty string
// when no connection was captured.
func connRemoteAddr(conn net.Conn) string {
	if conn == nil {
		return ""
	}
	return safeconn.RemoteAddr(conn)
}

// connNetwork returns the network of conn ("tcp" or "udp"), or the empty
// string when no connection was captured.
func connNetwork(conn net.Conn) string {
	if conn == nil {
		return ""
	}
	return safeconn.Network(conn)
}
