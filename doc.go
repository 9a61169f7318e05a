// SPDX-License-Identifier: GPL-3.0-or-later

// Package loginsight provides a client for the VMware Log Insight HTTP API:
// session-based authentication, message queries, aggregated (grouped)
// queries, and bulk log ingestion.
//
// # Core Abstraction
//
// The package is built around a single facade, [*Client], which composes
// four internal concerns:
//
//   - a session manager owning the session token and the authentication
//     handshake with POST /api/v1/sessions
//   - a request builder constructing fully-formed requests for the
//     session, message-query, aggregate-query, and ingestion endpoints
//   - a response classifier mapping HTTP outcomes to success, session
//     expiry (401/440), or generic API errors
//   - a dual-mode executor driving requests through a shared non-blocking
//     [Transport] in either blocking or callback mode
//
// # Execution Modes
//
// Every query and ingestion operation exists in two forms. The blocking
// form ([*Client.MessageQuery], [*Client.AggregateQuery], [*Client.Ingest])
// submits the request and waits for the classified, parsed result. The
// asynchronous form ([*Client.MessageQueryAsync], [*Client.AggregateQueryAsync],
// [*Client.IngestAsync]) accepts an [AsyncCallback] which is invoked exactly
// once, on a completion goroutine, with either the typed response or an
// error, never both. Both modes share one submit primitive: the blocking
// surface waits on the transport [*Handle], the asynchronous surface
// attaches a listener to it.
//
// # Session Lifecycle
//
// [New] performs the authentication handshake before returning: an
// unauthenticated client is never observable. Observing status 401 or 440
// on any endpoint unconditionally clears the stored token before the
// corresponding [*AuthFailure] is surfaced. The client never refreshes the
// token on its own; the caller re-authenticates via [*Client.Authenticate]
// and resubmits. Ingestion does not use the session: it authenticates via
// a fixed agent identifier embedded in the URL.
//
// # Observability
//
// All operations support structured logging via [SLogger] (compatible with
// [log/slog]). By default, logging is disabled. Operations emit span events
// (*Start/*Done pairs) recording timing, status codes, and failures. Error
// classification for log events is configurable via [ErrClassifier]; the
// default classifier maps errors to categorical labels using
// [github.com/bassosimone/errclass].
//
// Each submitted request carries a unique, time-ordered spanID (UUIDv7,
// see [NewSpanID]) shared by its round-trip events, enabling correlation
// when many requests are in flight concurrently.
//
// # Timeout and Context Philosophy
//
// This package is context-transparent: operations never modify the context
// they receive. The caller controls timeouts externally via
// [context.WithTimeout] or [context.WithDeadline]. Context cancellation is
// surfaced as a distinct cancellation error ([ErrRequestCancelled]), never
// conflated with a generic API failure.
//
// # Design Boundaries
//
// The following are out of scope and should be implemented by callers:
//
//   - Automatic reauthentication and retry on session expiry
//   - Query-language construction (relative query URLs are passed through)
//   - Connection pooling policy (delegated to the [Transport])
package loginsight
