// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fmtio

// Package fmtio provides format-driven buffered I/O over arbitrary byte
// transports: regular files, TCP/UDP sockets, and in-memory duplex pipes all
// share one buffering engine with identical read semantics.
//
// Read formats
//   - Count(n): exactly n bytes; at end-of-stream a shorter final chunk is
//     delivered once, then ErrNoData.
//   - Line: one line with the '\n' terminator stripped (and an immediately
//     preceding '\r' stripped with it).
//   - All: everything up to end-of-stream; always succeeds, possibly empty.
//   - Number: the longest strictly numeric prefix, parsed as a float64; on no
//     valid prefix the buffer position is left untouched.
//
// Extended result semantics
//   - ErrNoData: the stream has ended for this format. A first-class result,
//     not a failure; callers loop until they see it.
//   - ErrTimedOut: a transport wait expired under the tri-state timeout model
//     (wait forever / never wait / bounded wait). Retry is the caller's
//     decision; nothing in this package retries for you.
//   - ErrClosed: the handle was closed; every later operation fails the same
//     way. Never confused with end-of-stream.
//
// Writes are buffered for throughput but every Stream-level write flushes
// before returning, so on a duplex handle bytes are visible to the peer
// before the next read can block.
//
// The model is strictly synchronous: one goroutine owns a Stream; there is no
// internal locking and no event loop. Closing a handle from another goroutine
// while an operation is in flight is caller error.
