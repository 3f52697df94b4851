// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fmtio

import (
	"io"
)

// readBuffer is a fixed-capacity byte window over a Transport with
// fill-on-demand semantics. Unread bytes live in data[start:end] and are
// discarded only by consume. The eof flag records that a refill observed
// end-of-stream, so a blocking receive is never re-issued after EOF.
type readBuffer struct {
	t     Transport
	data  []byte
	start int
	end   int
	eof   bool
}

func newReadBuffer(t Transport, buf []byte) *readBuffer {
	return &readBuffer{t: t, data: buf}
}

// buffered reports the number of unread bytes.
func (b *readBuffer) buffered() int { return b.end - b.start }

// window returns the unread bytes without consuming them. The slice is only
// valid until the next fill or consume.
func (b *readBuffer) window() []byte { return b.data[b.start:b.end] }

// consume advances the window start by n. n must not exceed buffered().
func (b *readBuffer) consume(n int) { b.start += n }

// full reports whether the window holds capacity() unread bytes, i.e. no
// refill can add anything until some of them are consumed.
func (b *readBuffer) full() bool { return b.buffered() == len(b.data) }

// fill makes one receive attempt into the back of the window, compacting
// unread bytes to offset 0 first when the tail is exhausted. It reports the
// number of new bytes, 0 at end-of-stream (or on a full window), or the
// transport error unchanged.
//
// A transport that returns data together with io.EOF is handled like a data
// return followed by a bare EOF: the bytes are kept and the eof flag is set,
// so formats still observe the two-phase "partial, then no more data"
// contract.
func (b *readBuffer) fill() (int, error) {
	if b.eof {
		return 0, nil
	}
	if b.start == b.end {
		b.start, b.end = 0, 0
	} else if b.end == len(b.data) && b.start > 0 {
		n := copy(b.data, b.data[b.start:b.end])
		b.start, b.end = 0, n
	}
	if b.end == len(b.data) {
		return 0, nil
	}
	n, err := b.t.Recv(b.data[b.end:])
	if n > 0 {
		b.end += n
	}
	if err != nil {
		if err == io.EOF {
			b.eof = true
			return n, nil
		}
		return n, err
	}
	if n == 0 {
		b.eof = true
	}
	return n, nil
}

// exhausted reports whether the stream has nothing left to deliver: the
// window is empty and end-of-stream was observed.
func (b *readBuffer) exhausted() bool { return b.eof && b.start == b.end }
