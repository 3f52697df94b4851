// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fmtio

import (
	"io"
	"sync"
	"time"
)

// Pipe returns a connected pair of in-memory duplex streams. Bytes written
// to one end become readable from the other in issuance order. The pair
// honors the tri-state timeout model, which makes it a faithful stand-in for
// a connected socket in tests and examples.
func Pipe() (*Stream, *Stream) {
	return PipeSize(DefaultBufferSize)
}

// PipeSize is Pipe with an explicit buffer-window capacity on both ends.
// Small capacities force multiple internal refills, which is exactly what
// tests of the all-remaining format want to provoke.
func PipeSize(size int) (*Stream, *Stream) {
	ab := &pipeQueue{}
	ba := &pipeQueue{}
	a := &pipeTransport{in: ba, out: ab, timeout: WaitForever}
	b := &pipeTransport{in: ab, out: ba, timeout: WaitForever}
	return NewStreamSize(a, size), NewStreamSize(b, size)
}

// pipeQueue is one direction of the pair: an unbounded ordered byte queue.
// The mutex makes the pair usable from two goroutines, one per end.
type pipeQueue struct {
	mu     sync.Mutex
	data   []byte
	closed bool
}

func (q *pipeQueue) push(p []byte) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return 0, io.ErrClosedPipe
	}
	q.data = append(q.data, p...)
	return len(p), nil
}

// pop moves up to len(p) queued bytes into p. ended reports that the queue
// is drained and its write side is closed.
func (q *pipeQueue) pop(p []byte) (n int, ended bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.data) > 0 {
		n = copy(p, q.data)
		q.data = q.data[n:]
		return n, false
	}
	return 0, q.closed
}

func (q *pipeQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
}

// pipeTransport is the in-memory Transport variant. Waiting for peer data
// has no kernel primitive here, so the "wait forever" and bounded states
// poll with a Backoff.
type pipeTransport struct {
	in      *pipeQueue
	out     *pipeQueue
	timeout time.Duration
	closed  bool
}

func (t *pipeTransport) Recv(p []byte) (int, error) {
	if t.closed {
		return 0, ErrClosed
	}
	if len(p) == 0 {
		return 0, nil
	}
	var deadline time.Time
	if t.timeout > 0 {
		deadline = time.Now().Add(t.timeout)
	}
	var b Backoff
	for {
		n, ended := t.in.pop(p)
		if n > 0 {
			return n, nil
		}
		if ended {
			return 0, io.EOF
		}
		if t.timeout == NeverWait {
			return 0, ErrTimedOut
		}
		if t.timeout > 0 && !time.Now().Before(deadline) {
			return 0, ErrTimedOut
		}
		b.Wait()
	}
}

func (t *pipeTransport) Send(p []byte) (int, error) {
	if t.closed {
		return 0, ErrClosed
	}
	return t.out.push(p)
}

// Close ends both directions: the peer's pending and future receives drain
// to end-of-stream, and its sends fail with io.ErrClosedPipe.
func (t *pipeTransport) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	t.out.close()
	t.in.close()
	return nil
}

func (t *pipeTransport) SetTimeout(d time.Duration) error {
	if t.closed {
		return ErrClosed
	}
	t.timeout = normalizeTimeout(d)
	return nil
}

func (t *pipeTransport) Timeout() (time.Duration, error) {
	return t.timeout, nil
}
