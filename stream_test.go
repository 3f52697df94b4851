// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fmtio_test

import (
	"errors"
	"io"
	"testing"
	"time"

	"code.hybscloud.com/fmtio"
)

func TestPipe_DeliversInIssuanceOrder(t *testing.T) {
	a, b := fmtio.Pipe()

	if _, err := a.WriteString("one\n"); err != nil {
		t.Fatalf("write one: %v", err)
	}
	if _, err := a.WriteString("two\n"); err != nil {
		t.Fatalf("write two: %v", err)
	}

	for _, want := range []string{"one", "two"} {
		line, err := b.ReadLine()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if line != want {
			t.Fatalf("want %q got %q", want, line)
		}
	}

	// Both directions work independently.
	if _, err := b.WriteString("ack\n"); err != nil {
		t.Fatalf("write ack: %v", err)
	}
	line, err := a.ReadLine()
	if err != nil || line != "ack" {
		t.Fatalf("want ack got %q, %v", line, err)
	}
}

func TestPipe_WriteIsVisibleBeforeNextRead(t *testing.T) {
	a, b := fmtio.Pipe()

	// Writes flush before returning, so the peer can read without waiting
	// even in never-wait mode.
	if err := b.SetTimeout(fmtio.NeverWait); err != nil {
		t.Fatalf("set timeout: %v", err)
	}
	if _, err := a.WriteString("ping"); err != nil {
		t.Fatalf("write: %v", err)
	}
	p, err := b.ReadN(4)
	if err != nil || string(p) != "ping" {
		t.Fatalf("want ping got %q, %v", p, err)
	}
}

func TestPipe_NeverWaitTimesOutImmediately(t *testing.T) {
	_, b := fmtio.Pipe()

	if err := b.SetTimeout(fmtio.NeverWait); err != nil {
		t.Fatalf("set timeout: %v", err)
	}
	start := time.Now()
	_, err := b.ReadN(1)
	if !fmtio.IsTimedOut(err) {
		t.Fatalf("want ErrTimedOut got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("never-wait blocked for %v", elapsed)
	}
}

func TestPipe_BoundedTimeout(t *testing.T) {
	_, b := fmtio.Pipe()

	if err := b.SetTimeout(10 * time.Millisecond); err != nil {
		t.Fatalf("set timeout: %v", err)
	}
	if _, err := b.ReadN(1); !fmtio.IsTimedOut(err) {
		t.Fatalf("want ErrTimedOut got %v", err)
	}

	got, err := b.Timeout()
	if err != nil || got != 10*time.Millisecond {
		t.Fatalf("Timeout() = %v, %v", got, err)
	}
}

func TestPipe_TimeoutNormalization(t *testing.T) {
	a, _ := fmtio.Pipe()

	// Any negative duration maps to the wait-forever extreme, never to an
	// arbitrary small timeout.
	if err := a.SetTimeout(-5 * time.Second); err != nil {
		t.Fatalf("set timeout: %v", err)
	}
	got, err := a.Timeout()
	if err != nil || got != fmtio.WaitForever {
		t.Fatalf("Timeout() = %v, %v; want WaitForever", got, err)
	}
}

func TestPipe_TimedOutIsRetryable(t *testing.T) {
	a, b := fmtio.Pipe()

	if err := b.SetTimeout(fmtio.NeverWait); err != nil {
		t.Fatalf("set timeout: %v", err)
	}
	if _, err := b.ReadN(1); !fmtio.IsTimedOut(err) {
		t.Fatalf("want ErrTimedOut got %v", err)
	}
	if _, err := a.WriteString("x"); err != nil {
		t.Fatalf("write: %v", err)
	}
	p, err := b.ReadN(1)
	if err != nil || string(p) != "x" {
		t.Fatalf("retry: want x got %q, %v", p, err)
	}
}

func TestPipe_PeerCloseDrainsThenNoData(t *testing.T) {
	a, b := fmtio.Pipe()

	if _, err := a.WriteString("last words"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	p, err := b.ReadAll()
	if err != nil || string(p) != "last words" {
		t.Fatalf("drain: want %q got %q, %v", "last words", p, err)
	}
	if _, err := b.ReadLine(); !fmtio.IsNoData(err) {
		t.Fatalf("want ErrNoData got %v", err)
	}

	// Sending toward a closed peer fails like a closed pipe.
	if _, err := b.WriteString("anyone?"); !errors.Is(err, io.ErrClosedPipe) {
		t.Fatalf("want ErrClosedPipe got %v", err)
	}
}

func TestStream_ClosedHandleFailsEverything(t *testing.T) {
	a, _ := fmtio.Pipe()

	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("close is idempotent, got %v", err)
	}

	if _, err := a.ReadN(1); !fmtio.IsClosed(err) {
		t.Fatalf("ReadN: want ErrClosed got %v", err)
	}
	if _, err := a.ReadLine(); !fmtio.IsClosed(err) {
		t.Fatalf("ReadLine: want ErrClosed got %v", err)
	}
	if _, err := a.Write([]byte("x")); !fmtio.IsClosed(err) {
		t.Fatalf("Write: want ErrClosed got %v", err)
	}
	if err := a.Flush(); !fmtio.IsClosed(err) {
		t.Fatalf("Flush: want ErrClosed got %v", err)
	}
	if err := a.SetTimeout(fmtio.NeverWait); !fmtio.IsClosed(err) {
		t.Fatalf("SetTimeout: want ErrClosed got %v", err)
	}
}

func TestStream_ClosedIsNotNoData(t *testing.T) {
	a, _ := fmtio.Pipe()
	_ = a.Close()

	_, err := a.ReadN(1)
	if fmtio.IsNoData(err) {
		t.Fatal("closed handle must not read as end-of-stream")
	}
	if !fmtio.IsClosed(err) {
		t.Fatalf("want ErrClosed got %v", err)
	}
}

func TestStream_PartialProgressSurfacesWithError(t *testing.T) {
	a, b := fmtio.Pipe()

	if err := b.SetTimeout(fmtio.NeverWait); err != nil {
		t.Fatalf("set timeout: %v", err)
	}

	// Counted read: the two available bytes come back with the timeout,
	// never silently dropped.
	if _, err := a.WriteString("ab"); err != nil {
		t.Fatalf("write: %v", err)
	}
	p, err := b.ReadN(4)
	if !fmtio.IsTimedOut(err) {
		t.Fatalf("want ErrTimedOut got %v", err)
	}
	if string(p) != "ab" {
		t.Fatalf("partial: want %q got %q", "ab", p)
	}

	// Line read: the consumed prefix of the unfinished line likewise.
	if _, err := a.WriteString("cd"); err != nil {
		t.Fatalf("write: %v", err)
	}
	line, err := b.ReadLine()
	if !fmtio.IsTimedOut(err) {
		t.Fatalf("want ErrTimedOut got %v", err)
	}
	if line != "cd" {
		t.Fatalf("partial: want %q got %q", "cd", line)
	}

	// A retry continues from the unread position.
	if _, err := a.WriteString("ef\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	line, err = b.ReadLine()
	if err != nil || line != "ef" {
		t.Fatalf("retry: want %q got %q, %v", "ef", line, err)
	}
}

func TestStream_TransportErrorPassesThroughVerbatim(t *testing.T) {
	boom := errors.New("connection reset by peer")
	s := fmtio.NewStream(errTransport{err: boom})

	if _, err := s.ReadN(1); !errors.Is(err, boom) {
		t.Fatalf("want boom got %v", err)
	}
	// The error was not coalesced into an end-of-stream condition.
	if _, err := s.ReadN(1); fmtio.IsNoData(err) {
		t.Fatal("transport error must not become ErrNoData")
	}
}

func TestStream_FileTransportHasNoTimeoutPolicy(t *testing.T) {
	s := fmtio.NewStream(newChunkTransport("data", 4))
	if err := s.SetTimeout(time.Second); err == nil {
		t.Fatal("want error for transport without timeout policy")
	}
}
