// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build unix

package fmtio

import (
	"fmt"
	"net"
	"os"
	"strings"
)

// Family selects the socket address family.
type Family uint8

const (
	// IPv4 is the AF_INET address family.
	IPv4 Family = iota
	// IPv6 is the AF_INET6 address family.
	IPv6
	// Unspec lets the library pick; resolution prefers IPv4 addresses.
	Unspec
)

func (f Family) String() string {
	switch f {
	case IPv6:
		return "inet6"
	case Unspec:
		return "unspec"
	default:
		return "inet"
	}
}

// Protocol selects the transport protocol.
type Protocol uint8

const (
	// TCP is the stream protocol.
	TCP Protocol = iota
	// UDP is the datagram protocol.
	UDP
)

func (p Protocol) String() string {
	if p == UDP {
		return "udp"
	}
	return "tcp"
}

// AddrKind selects which of a socket's two addresses Addr reports.
type AddrKind uint8

const (
	// LocalAddr is the address the socket is bound to locally.
	LocalAddr AddrKind = iota
	// RemoteAddr is the address of the connected peer.
	RemoteAddr
)

// Wildcard is the sentinel host accepted by Bind for the any-address.
const Wildcard = "*"

type socketState uint8

const (
	stateCreated socketState = iota
	stateBound
	stateListening
	stateConnected
	stateClosed
)

// Socket is a lifecycle-managed network endpoint sharing the Stream engine
// with files and pipes. Lifecycle: created → bound → listening → (accept)*,
// or created → connected via Connect; any state → closed, terminal and
// idempotent.
//
// Like every Stream, a Socket belongs to one goroutine. Closing it from
// another goroutine while an operation is in flight is caller error, not
// something the implementation defends against.
type Socket struct {
	*Stream
	tr     *sockTransport
	family Family
	proto  Protocol
	state  socketState
}

// NewSocket creates an unconnected socket of the given protocol and family,
// together with its owning resource pool and buffer windows.
func NewSocket(proto Protocol, family Family) (*Socket, error) {
	fd, err := newSocketFD(proto, family)
	if err != nil {
		return nil, fmt.Errorf("fmtio: create %s socket: %w", proto, err)
	}
	return newSocket(fd, proto, family, stateCreated), nil
}

func newSocket(fd int, proto Protocol, family Family, st socketState) *Socket {
	tr := &sockTransport{fd: fd, timeout: WaitForever}
	pool := NewPool()
	return &Socket{
		Stream: newStreamPool(tr, DefaultBufferSize, pool),
		tr:     tr,
		family: family,
		proto:  proto,
		state:  st,
	}
}

func (s *Socket) usable() error {
	if s.state == stateClosed {
		return ErrClosed
	}
	return nil
}

// Family returns the socket's address family tag.
func (s *Socket) Family() Family { return s.family }

// Protocol returns the socket's protocol tag.
func (s *Socket) Protocol() Protocol { return s.proto }

// Bind binds the socket to the given host and port. The Wildcard host "*"
// selects the any-address.
func (s *Socket) Bind(host string, port int) error {
	if err := s.usable(); err != nil {
		return err
	}
	sa, err := resolveSockaddr(host, s.family, port)
	if err != nil {
		return err
	}
	if err := s.tr.bind(sa); err != nil {
		return fmt.Errorf("fmtio: bind %s:%d: %w", host, port, err)
	}
	s.state = stateBound
	return nil
}

// Listen marks the socket as willing to accept connections, with the given
// queue limit for not-yet-accepted peers. A negative backlog is clamped to
// zero. Listen itself never blocks.
func (s *Socket) Listen(backlog int) error {
	if err := s.usable(); err != nil {
		return err
	}
	if backlog < 0 {
		backlog = 0
	}
	if err := s.tr.listen(backlog); err != nil {
		return fmt.Errorf("fmtio: listen: %w", err)
	}
	s.state = stateListening
	return nil
}

// Accept waits for a peer, subject to the socket's timeout policy, and
// returns a new connected Socket inheriting this socket's family and
// protocol. The accepted socket has its own buffers and resource pool and is
// fully independent of the listener's lifecycle.
func (s *Socket) Accept() (*Socket, error) {
	if err := s.usable(); err != nil {
		return nil, err
	}
	nfd, err := s.tr.accept()
	if err != nil {
		return nil, err
	}
	return newSocket(nfd, s.proto, s.family, stateConnected), nil
}

// Connect issues a connection request to host:port, blocking subject to the
// socket's timeout policy.
func (s *Socket) Connect(host string, port int) error {
	if err := s.usable(); err != nil {
		return err
	}
	sa, err := resolveSockaddr(host, s.family, port)
	if err != nil {
		return err
	}
	if err := s.tr.connect(sa); err != nil {
		if IsTimedOut(err) {
			return err
		}
		return fmt.Errorf("fmtio: connect %s:%d: %w", host, port, err)
	}
	s.state = stateConnected
	return nil
}

// Addr reports one of the socket's addresses as an IP string plus port.
func (s *Socket) Addr(kind AddrKind) (string, int, error) {
	if err := s.usable(); err != nil {
		return "", 0, err
	}
	sa, err := s.tr.name(kind)
	if err != nil {
		return "", 0, err
	}
	return sockaddrAddr(sa)
}

// Close releases the transport handle first and the owning resource pool
// after it, mirroring the required teardown order. Safe to call any number
// of times and from a finalizer path. Pending unflushed writes are dropped;
// callers that rely on delivery flush before closing.
func (s *Socket) Close() error {
	if s.state == stateClosed {
		return nil
	}
	s.state = stateClosed
	return s.Stream.Close()
}

func (s *Socket) String() string {
	if s.state == stateClosed {
		return "closed fmtio socket"
	}
	return "open fmtio socket"
}

// Hostname returns the name of the current machine.
func Hostname() (string, error) { return os.Hostname() }

// HostToAddr resolves a host name to an IP address string of the given
// family.
func HostToAddr(host string, family Family) (string, error) {
	ip, err := lookupHost(host, family)
	if err != nil {
		return "", err
	}
	return ip.String(), nil
}

// AddrToHost looks up the host name for an IP address.
func AddrToHost(addr string) (string, error) {
	names, err := net.LookupAddr(addr)
	if err != nil {
		return "", fmt.Errorf("fmtio: reverse lookup %s: %w", addr, err)
	}
	if len(names) == 0 {
		return "", fmt.Errorf("fmtio: reverse lookup %s: no name", addr)
	}
	return strings.TrimSuffix(names[0], "."), nil
}

// lookupHost resolves host to one IP of the requested family. With Unspec,
// IPv4 addresses win when present.
func lookupHost(host string, family Family) (net.IP, error) {
	ips, err := net.LookupIP(host)
	if err != nil {
		return nil, fmt.Errorf("fmtio: resolve %s: %w", host, err)
	}
	for _, ip := range ips {
		switch family {
		case IPv4, Unspec:
			if v4 := ip.To4(); v4 != nil {
				return v4, nil
			}
		case IPv6:
			if ip.To4() == nil {
				return ip, nil
			}
		}
	}
	if family == Unspec && len(ips) > 0 {
		return ips[0], nil
	}
	return nil, fmt.Errorf("fmtio: resolve %s: no %s address", host, family)
}
