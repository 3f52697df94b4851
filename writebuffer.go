// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fmtio

import (
	"io"
)

// writeBuffer accumulates outgoing bytes in a fixed-capacity window and
// drains them front-to-back through a Transport. Buffered bytes are never
// reordered; a partial send resumes from the unsent offset and never
// resubmits bytes the transport already accepted.
type writeBuffer struct {
	t    Transport
	data []byte
	used int
}

func newWriteBuffer(t Transport, buf []byte) *writeBuffer {
	return &writeBuffer{t: t, data: buf}
}

// append queues p, force-flushing whenever the window fills, and repeats
// until every byte is queued or a flush fails. It reports the number of
// bytes accepted into the buffer.
func (b *writeBuffer) append(p []byte) (int, error) {
	total := 0
	for len(p) > 0 {
		if b.used == len(b.data) {
			if err := b.flush(true); err != nil {
				return total, err
			}
		}
		n := copy(b.data[b.used:], p)
		b.used += n
		p = p[n:]
		total += n
	}
	return total, nil
}

// flush sends buffered bytes until the buffer drains or the transport fails.
// When force is false it only runs on a full window.
//
// A send of length 0 with no error would loop forever on a blocking handle;
// it is reported as io.ErrShortWrite instead of being ignored.
func (b *writeBuffer) flush(force bool) error {
	if !force && b.used < len(b.data) {
		return nil
	}
	sent := 0
	for sent < b.used {
		n, err := b.t.Send(b.data[sent:b.used])
		if n > 0 {
			sent += n
		}
		if err != nil {
			b.used = copy(b.data, b.data[sent:b.used])
			return err
		}
		if n == 0 {
			b.used = copy(b.data, b.data[sent:b.used])
			return io.ErrShortWrite
		}
	}
	b.used = 0
	return nil
}
