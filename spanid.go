// SPDX-License-Identifier: GPL-3.0-or-later

package loginsight

import (
	"github.com/bassosimone/runtimex"
	"github.com/google/uuid"
)

// NewSpanID returns a UUIDv7 representing a span.
//
// A span is a sequence of operations that can fail in a single, specific
// way. In this package each submitted API request is a span: the transport
// attaches a fresh span ID to the round-trip events it emits, so that
// concurrent requests can be told apart in the structured log stream.
//
// The span terminology is borrowed from OTel.
//
// This function panics if the system random number generator fails,
// which should only happen under extraordinary circumstances.
func NewSpanID() string {
	return runtimex.PanicOnError1(uuid.NewV7()).String()
}
