// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fmtio

import (
	"errors"
	"time"
)

// Stream ties one Transport to a read buffer and a write buffer and exposes
// the format-driven API. A Stream is exclusively owned by one goroutine;
// there is no internal locking.
type Stream struct {
	t      Transport
	in     *readBuffer
	out    *writeBuffer
	pool   *Pool
	closed bool
}

// NewStream wraps t with DefaultBufferSize read and write windows drawn from
// a fresh resource pool.
func NewStream(t Transport) *Stream {
	return NewStreamSize(t, DefaultBufferSize)
}

// NewStreamSize is NewStream with an explicit window capacity. Sizes below 1
// fall back to DefaultBufferSize.
func NewStreamSize(t Transport, size int) *Stream {
	pool := NewPool()
	return newStreamPool(t, size, pool)
}

func newStreamPool(t Transport, size int, pool *Pool) *Stream {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &Stream{
		t:    t,
		in:   newReadBuffer(t, pool.Buffer(size)),
		out:  newWriteBuffer(t, pool.Buffer(size)),
		pool: pool,
	}
}

// Transport returns the underlying transport handle.
func (s *Stream) Transport() Transport { return s.t }

// Read runs the given format specifiers left to right and returns one Value
// per completed specifier. Parsing stops at the first format that reports
// ErrNoData; the values produced so far are returned together with ErrNoData,
// mirroring the short-circuit contract callers rely on when looping until the
// sentinel. Transport errors abort immediately. With no specifiers, Read
// reads one line.
func (s *Stream) Read(specs ...Format) ([]Value, error) {
	if s.closed {
		return nil, ErrClosed
	}
	// Queued writes must reach the peer before a read is allowed to block.
	if err := s.out.flush(true); err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		specs = []Format{Line}
	}
	vals := make([]Value, 0, len(specs))
	for _, f := range specs {
		v, err := readFormat(s.in, f)
		if err != nil {
			return vals, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}

// ReadN reads exactly n bytes, or the final shorter chunk at end-of-stream.
// On a transport error (including ErrTimedOut) the bytes consumed so far are
// returned together with the error; they are no longer in the buffer, so a
// caller that retries must stitch the partial result onto the retry's.
func (s *Stream) ReadN(n int) ([]byte, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if err := s.out.flush(true); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, &FormatError{Token: n}
	}
	return readCounted(s.in, n)
}

// ReadLine reads one line per the Line format. On a transport error the
// consumed prefix of the unfinished line comes back with the error; a retry
// continues from the unread position, so callers keep the prefix or use
// Lines, whose iterator stitches retries itself.
func (s *Stream) ReadLine() (string, error) {
	if s.closed {
		return "", ErrClosed
	}
	if err := s.out.flush(true); err != nil {
		return "", err
	}
	p, err := readLine(s.in)
	return string(p), err
}

// ReadAll reads the full remainder of the stream.
func (s *Stream) ReadAll() ([]byte, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if err := s.out.flush(true); err != nil {
		return nil, err
	}
	return readAll(s.in)
}

// ReadNumber reads and parses one number per the Number format.
func (s *Stream) ReadNumber() (float64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if err := s.out.flush(true); err != nil {
		return 0, err
	}
	return readNumber(s.in)
}

// Write queues p and flushes before returning, so the bytes are visible to a
// peer before any following read on the same handle can block.
func (s *Stream) Write(p []byte) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	n, err := s.out.append(p)
	if err != nil {
		return n, err
	}
	return n, s.out.flush(true)
}

// WriteString is Write for a string payload.
func (s *Stream) WriteString(str string) (int, error) {
	return s.Write([]byte(str))
}

// Flush forces any buffered bytes out through the transport.
func (s *Stream) Flush() error {
	if s.closed {
		return ErrClosed
	}
	return s.out.flush(true)
}

// Buffered reports the number of unread bytes currently held by the read
// window.
func (s *Stream) Buffered() int { return s.in.buffered() }

// Lines returns a lazy iterator over the remaining lines of the stream.
func (s *Stream) Lines() *LineIterator { return &LineIterator{s: s} }

// SetTimeout forwards the tri-state timeout to the transport. Transports
// without a timeout policy reject the call.
func (s *Stream) SetTimeout(d time.Duration) error {
	if s.closed {
		return ErrClosed
	}
	tp, ok := s.t.(TimeoutPolicy)
	if !ok {
		return errors.New("fmtio: transport has no timeout policy")
	}
	return tp.SetTimeout(normalizeTimeout(d))
}

// Timeout reports the transport's current timeout setting.
func (s *Stream) Timeout() (time.Duration, error) {
	tp, ok := s.t.(TimeoutPolicy)
	if !ok {
		return 0, errors.New("fmtio: transport has no timeout policy")
	}
	return tp.Timeout()
}

// Close releases the transport and then the owning pool, in that order.
// Buffered unsent bytes are dropped; callers that rely on delivery must
// Flush first. Close is idempotent.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.t.Close()
	s.pool.Release()
	return err
}
