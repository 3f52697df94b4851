// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fmtio_test

import (
	"bytes"
	"io"

	"code.hybscloud.com/fmtio"
)

// Helpers

// chunkTransport serves a fixed byte sequence in receives of at most chunk
// bytes, then end-of-stream. Sends are recorded.
type chunkTransport struct {
	data   []byte
	chunk  int
	pos    int
	sent   bytes.Buffer
	closed bool
}

func newChunkTransport(data string, chunk int) *chunkTransport {
	return &chunkTransport{data: []byte(data), chunk: chunk}
}

func (t *chunkTransport) Recv(p []byte) (int, error) {
	if t.closed {
		return 0, fmtio.ErrClosed
	}
	if t.pos >= len(t.data) {
		return 0, io.EOF
	}
	n := len(t.data) - t.pos
	if n > t.chunk {
		n = t.chunk
	}
	if n > len(p) {
		n = len(p)
	}
	copy(p, t.data[t.pos:t.pos+n])
	t.pos += n
	return n, nil
}

func (t *chunkTransport) Send(p []byte) (int, error) {
	if t.closed {
		return 0, fmtio.ErrClosed
	}
	return t.sent.Write(p)
}

func (t *chunkTransport) Close() error {
	t.closed = true
	return nil
}

// sinkTransport records sends and lets tests script per-call behavior.
type sinkTransport struct {
	sent  bytes.Buffer
	calls []int // size of each Send payload as presented

	limit   int   // max bytes accepted per Send; 0 means unlimited
	zeroAt  int   // 1-indexed call number returning (0, nil); 0 disables
	errAt   int   // 1-indexed call number returning errAfter; 0 disables
	errN    int   // bytes accepted on the failing call
	err     error // error returned at errAt
	callNum int
}

func (t *sinkTransport) Recv(p []byte) (int, error) { return 0, io.EOF }

func (t *sinkTransport) Send(p []byte) (int, error) {
	t.callNum++
	t.calls = append(t.calls, len(p))
	if t.zeroAt != 0 && t.callNum == t.zeroAt {
		return 0, nil
	}
	if t.errAt != 0 && t.callNum == t.errAt {
		n := t.errN
		if n > len(p) {
			n = len(p)
		}
		t.sent.Write(p[:n])
		return n, t.err
	}
	n := len(p)
	if t.limit > 0 && n > t.limit {
		n = t.limit
	}
	t.sent.Write(p[:n])
	return n, nil
}

func (t *sinkTransport) Close() error { return nil }

// errTransport fails every operation with a fixed error.
type errTransport struct{ err error }

func (t errTransport) Recv(p []byte) (int, error) { return 0, t.err }
func (t errTransport) Send(p []byte) (int, error) { return 0, t.err }
func (t errTransport) Close() error               { return nil }
