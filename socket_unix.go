// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build unix

package fmtio

import (
	"fmt"
	"io"
	"net"
	"time"

	"golang.org/x/sys/unix"
)

func familyAF(f Family) int {
	if f == IPv6 {
		return unix.AF_INET6
	}
	return unix.AF_INET
}

func protoType(p Protocol) int {
	if p == UDP {
		return unix.SOCK_DGRAM
	}
	return unix.SOCK_STREAM
}

func newSocketFD(proto Protocol, family Family) (int, error) {
	fd, err := unix.Socket(familyAF(family), protoType(proto), 0)
	if err != nil {
		return -1, err
	}
	unix.CloseOnExec(fd)
	return fd, nil
}

// sockTransport is the descriptor-level Transport behind Socket.
//
// Retry policy lives here, uniformly, so the buffering engine never observes
// spurious partial operations: EINTR is always retried, and an expired
// SO_RCVTIMEO/SO_SNDTIMEO wait surfaces as ErrTimedOut exactly once per
// call. Everything else passes through verbatim.
type sockTransport struct {
	fd      int
	closed  bool
	timeout time.Duration
}

func (t *sockTransport) Recv(p []byte) (int, error) {
	if t.closed {
		return 0, ErrClosed
	}
	for {
		n, err := unix.Read(t.fd, p)
		if err == unix.EINTR {
			continue
		}
		if err == unix.EAGAIN {
			return 0, ErrTimedOut
		}
		if err != nil {
			return 0, err
		}
		if n == 0 && len(p) > 0 {
			return 0, io.EOF
		}
		return n, nil
	}
}

func (t *sockTransport) Send(p []byte) (int, error) {
	if t.closed {
		return 0, ErrClosed
	}
	for {
		n, err := unix.Write(t.fd, p)
		if err == unix.EINTR {
			continue
		}
		if err == unix.EAGAIN {
			return 0, ErrTimedOut
		}
		if err != nil {
			return 0, err
		}
		return n, nil
	}
}

func (t *sockTransport) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	return unix.Close(t.fd)
}

func (t *sockTransport) bind(sa unix.Sockaddr) error {
	if t.closed {
		return ErrClosed
	}
	return unix.Bind(t.fd, sa)
}

func (t *sockTransport) listen(backlog int) error {
	if t.closed {
		return ErrClosed
	}
	return unix.Listen(t.fd, backlog)
}

func (t *sockTransport) accept() (int, error) {
	if t.closed {
		return -1, ErrClosed
	}
	for {
		nfd, _, err := unix.Accept(t.fd)
		if err == unix.EINTR {
			continue
		}
		if err == unix.EAGAIN {
			return -1, ErrTimedOut
		}
		if err != nil {
			return -1, fmt.Errorf("fmtio: accept: %w", err)
		}
		unix.CloseOnExec(nfd)
		return nfd, nil
	}
}

func (t *sockTransport) connect(sa unix.Sockaddr) error {
	if t.closed {
		return ErrClosed
	}
	var b Backoff
	for {
		err := unix.Connect(t.fd, sa)
		switch err {
		case nil, unix.EISCONN:
			return nil
		case unix.EINTR:
			continue
		case unix.EALREADY:
			// The kernel keeps the handshake going. Under never-wait the
			// caller polls; otherwise wait for it to settle.
			if t.timeout == NeverWait {
				return ErrTimedOut
			}
			b.Wait()
			continue
		case unix.EINPROGRESS, unix.EAGAIN:
			// Non-blocking socket: the handshake would have to wait.
			return ErrTimedOut
		default:
			return err
		}
	}
}

func (t *sockTransport) name(kind AddrKind) (unix.Sockaddr, error) {
	if t.closed {
		return nil, ErrClosed
	}
	if kind == RemoteAddr {
		return unix.Getpeername(t.fd)
	}
	return unix.Getsockname(t.fd)
}

// SetTimeout applies the tri-state timeout: never-wait switches the
// descriptor to non-blocking mode, a bounded wait arms SO_RCVTIMEO and
// SO_SNDTIMEO (microsecond granularity, minimum 1µs), and wait-forever
// clears both.
func (t *sockTransport) SetTimeout(d time.Duration) error {
	if t.closed {
		return ErrClosed
	}
	d = normalizeTimeout(d)
	switch {
	case d == NeverWait:
		if err := unix.SetNonblock(t.fd, true); err != nil {
			return err
		}
	case d == WaitForever:
		if err := unix.SetNonblock(t.fd, false); err != nil {
			return err
		}
		if err := t.setSockTimeouts(unix.Timeval{}); err != nil {
			return err
		}
	default:
		if err := unix.SetNonblock(t.fd, false); err != nil {
			return err
		}
		tv := unix.NsecToTimeval(int64(d))
		if tv.Sec == 0 && tv.Usec == 0 {
			tv.Usec = 1
		}
		if err := t.setSockTimeouts(tv); err != nil {
			return err
		}
	}
	t.timeout = d
	return nil
}

func (t *sockTransport) setSockTimeouts(tv unix.Timeval) error {
	if err := unix.SetsockoptTimeval(t.fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv); err != nil {
		return err
	}
	return unix.SetsockoptTimeval(t.fd, unix.SOL_SOCKET, unix.SO_SNDTIMEO, &tv)
}

// Timeout reports the stored setting, already normalized to WaitForever,
// NeverWait, or a positive duration.
func (t *sockTransport) Timeout() (time.Duration, error) {
	if t.closed {
		return 0, ErrClosed
	}
	return t.timeout, nil
}

// resolveSockaddr turns host:port into a transport-level address of the
// socket's family. The Wildcard host maps to the any-address.
func resolveSockaddr(host string, family Family, port int) (unix.Sockaddr, error) {
	if port < 0 || port > 65535 {
		return nil, fmt.Errorf("fmtio: port %d out of range", port)
	}
	if host == Wildcard {
		if family == IPv6 {
			return &unix.SockaddrInet6{Port: port}, nil
		}
		return &unix.SockaddrInet4{Port: port}, nil
	}
	ip, err := lookupHost(host, family)
	if err != nil {
		return nil, err
	}
	if v4 := ip.To4(); v4 != nil && family != IPv6 {
		sa := &unix.SockaddrInet4{Port: port}
		copy(sa.Addr[:], v4)
		return sa, nil
	}
	sa := &unix.SockaddrInet6{Port: port}
	copy(sa.Addr[:], ip.To16())
	return sa, nil
}

func sockaddrAddr(sa unix.Sockaddr) (string, int, error) {
	switch v := sa.(type) {
	case *unix.SockaddrInet4:
		return net.IP(v.Addr[:]).String(), v.Port, nil
	case *unix.SockaddrInet6:
		return net.IP(v.Addr[:]).String(), v.Port, nil
	}
	return "", 0, fmt.Errorf("fmtio: unsupported sockaddr %T", sa)
}
