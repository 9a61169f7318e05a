// SPDX-License-Identifier: GPL-3.0-or-later

package loginsight

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
)

// Client is the Log Insight API client facade.
//
// Construct with [New] or [NewWithStrategy]; construction blocks until
// the authentication handshake resolves or fails, so an unauthenticated
// client is never observable.
//
// The client is safe for concurrent use: all logical requests share one
// non-blocking [Transport] and may complete in any order. Call
// [*Client.Close] when done; operations issued after Close fail with
// [ErrClientClosed].
type Client struct {
	// builder constructs requests for the endpoint families.
	builder *requestBuilder

	// closed records whether Close was called.
	closed atomic.Bool

	// closeOnce ensures the transport is released exactly once.
	closeOnce sync.Once

	// config holds the connection parameters.
	config *Config

	// exec drives requests through the transport in both modes.
	exec *executor

	// session owns the session token.
	session *sessionManager

	// txp is the shared transport.
	txp Transport
}

// New creates a [*Client] using the default connection strategy and
// performs the authentication handshake before returning.
//
// The logger argument is the [SLogger] to use for structured logging;
// pass [DefaultSLogger]() to disable logging.
func New(ctx context.Context, config *Config, logger SLogger) (*Client, error) {
	return NewWithStrategy(ctx, config, &DefaultConnectionStrategy{}, logger)
}

// NewWithStrategy is like [New] but uses the given [ConnectionStrategy]
// to create the transport.
func NewWithStrategy(ctx context.Context, config *Config,
	strategy ConnectionStrategy, logger SLogger) (*Client, error) {
	config.setDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = DefaultSLogger()
	}

	txp, err := strategy.NewTransport(config, logger)
	if err != nil {
		return nil, err
	}

	builder := newRequestBuilder(config)
	session := newSessionManager(config, builder, txp, logger)
	c := &Client{
		builder: builder,
		config:  config,
		exec:    &executor{session: session, txp: txp},
		session: session,
		txp:     txp,
	}

	// Blocking precondition: the handshake must resolve before the
	// client becomes observable by any caller.
	if err := c.Authenticate(ctx); err != nil {
		txp.Close()
		return nil, err
	}
	return c, nil
}

// Authenticate performs a fresh authentication handshake, replacing the
// stored session token wholesale on success. The client never calls this
// on its own after construction: when a call fails with [*AuthFailure],
// re-authenticating and resubmitting is the caller's responsibility.
func (c *Client) Authenticate(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClientClosed
	}
	return c.session.authenticate(ctx, c.config.User, c.config.Password)
}

// SessionID returns the current session token, or [*AuthFailure] when no
// valid token is held.
func (c *Client) SessionID() (string, error) {
	return c.session.SessionID()
}

// MessageQuery performs a message query with the given relative query URL
// and blocks until the typed result is available.
func (c *Client) MessageQuery(ctx context.Context, relativeURL string) (*MessageQueryResponse, error) {
	req, err := c.newQueryRequest(relativeURL, false)
	if err != nil {
		return nil, err
	}
	return executeBlocking[MessageQueryResponse](ctx, c.exec, req)
}

// MessageQueryAsync performs a message query and delivers the result
// through the callback, which is invoked exactly once on a completion
// goroutine. The submitting goroutine is never blocked.
func (c *Client) MessageQueryAsync(ctx context.Context, relativeURL string,
	callback AsyncCallback[MessageQueryResponse]) {
	req, err := c.newQueryRequest(relativeURL, false)
	if err != nil {
		failAsync(callback, err)
		return
	}
	executeAsync(ctx, c.exec, req, callback)
}

// AggregateQuery performs an aggregate (grouped) query with the given
// relative query URL and blocks until the typed result is available.
func (c *Client) AggregateQuery(ctx context.Context, relativeURL string) (*AggregateResponse, error) {
	req, err := c.newQueryRequest(relativeURL, true)
	if err != nil {
		return nil, err
	}
	return executeBlocking[AggregateResponse](ctx, c.exec, req)
}

// AggregateQueryAsync performs an aggregate query and delivers the result
// through the callback, which is invoked exactly once on a completion
// goroutine.
func (c *Client) AggregateQueryAsync(ctx context.Context, relativeURL string,
	callback AsyncCallback[AggregateResponse]) {
	req, err := c.newQueryRequest(relativeURL, true)
	if err != nil {
		failAsync(callback, err)
		return
	}
	executeAsync(ctx, c.exec, req, callback)
}

// Ingest submits messages to the Log Insight index and blocks until the
// acknowledgment is available. Ingestion authenticates via the fixed
// agent identifier in the URL, not via the session token.
func (c *Client) Ingest(ctx context.Context, payload *IngestionRequest) (*IngestionResponse, error) {
	req, err := c.newIngestionRequest(payload)
	if err != nil {
		return nil, err
	}
	return executeBlocking[IngestionResponse](ctx, c.exec, req)
}

// IngestAsync submits messages to the index and delivers the
// acknowledgment through the callback, which is invoked exactly once on
// a completion goroutine.
func (c *Client) IngestAsync(ctx context.Context, payload *IngestionRequest,
	callback AsyncCallback[IngestionResponse]) {
	req, err := c.newIngestionRequest(payload)
	if err != nil {
		failAsync(callback, err)
		return
	}
	executeAsync(ctx, c.exec, req, callback)
}

// Close releases the transport exactly once and discards the session.
// It is idempotent; operations issued after Close fail with
// [ErrClientClosed].
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.session.invalidate()
		err = c.txp.Close()
	})
	return err
}

// newQueryRequest builds a query request with the session header
// attached, propagating [*AuthFailure] when no token is held.
func (c *Client) newQueryRequest(relativeURL string, aggregate bool) (*http.Request, error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}
	sessionID, err := c.session.SessionID()
	if err != nil {
		return nil, err
	}
	return c.builder.buildQueryRequest(relativeURL, aggregate, sessionID)
}

// newIngestionRequest builds an ingestion request; no session header is
// attached.
func (c *Client) newIngestionRequest(payload *IngestionRequest) (*http.Request, error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}
	return c.builder.buildIngestionRequest(payload)
}
