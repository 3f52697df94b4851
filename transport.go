// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fmtio

import (
	"time"
)

// Transport is the capability surface the buffering engine is written
// against: one receive and one send primitive over an open handle. Files,
// sockets and in-memory pipes are all variants of this interface; the
// Read/Write buffer logic exists once, on top of it.
//
// Implementation contract:
//   - Recv returns the number of bytes received and io.EOF at end-of-stream.
//     Both the (0, io.EOF) and the combined (n > 0, io.EOF) conventions are
//     accepted; the engine consumes the data first either way.
//   - Send returns the number of bytes accepted. A return of (0, nil) for a
//     non-empty p is a broken transport and is reported as a failure by the
//     write buffer, never ignored.
//   - Interrupted-call conditions (EINTR equivalents) are retried inside the
//     adapter, uniformly, so the buffering code never observes spurious
//     partial operations.
//   - Expired waits are reported as ErrTimedOut; all other transport errors
//     pass through verbatim.
//   - After Close, Recv and Send fail with ErrClosed. Close is idempotent.
type Transport interface {
	Recv(p []byte) (int, error)
	Send(p []byte) (int, error)
	Close() error
}

// Timeout tri-state. Any negative duration passed to SetTimeout is
// normalized to WaitForever; exactly zero means NeverWait. A positive
// duration is a bounded wait with microsecond granularity.
const (
	// WaitForever blocks until the operation can proceed.
	WaitForever time.Duration = -1

	// NeverWait fails immediately with ErrTimedOut when no progress is
	// possible right now.
	NeverWait time.Duration = 0
)

// TimeoutPolicy is implemented by transports whose blocking operations
// (receive, send, accept, connect) honor the tri-state timeout model.
// Buffer-local work (parsing already-buffered bytes) is never subject to a
// timeout.
type TimeoutPolicy interface {
	// SetTimeout applies the tri-state rule: d < 0 waits forever, d == 0
	// never waits, d > 0 bounds the wait.
	SetTimeout(d time.Duration) error

	// Timeout reports the current setting, normalized to WaitForever,
	// NeverWait, or a positive duration.
	Timeout() (time.Duration, error)
}

// normalizeTimeout applies the fixed mapping rule for non-positive values.
func normalizeTimeout(d time.Duration) time.Duration {
	if d < 0 {
		return WaitForever
	}
	return d
}
