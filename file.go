// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fmtio

import (
	"errors"
	"os"
)

// fileTransport adapts *os.File to the Transport capability. Files have no
// timeout policy; every operation blocks until the kernel completes it.
type fileTransport struct {
	f      *os.File
	closed bool
}

func (t *fileTransport) Recv(p []byte) (int, error) {
	if t.closed {
		return 0, ErrClosed
	}
	n, err := t.f.Read(p)
	if err != nil && errors.Is(err, os.ErrClosed) {
		return n, ErrClosed
	}
	// io.EOF passes through for the read buffer to record.
	return n, err
}

func (t *fileTransport) Send(p []byte) (int, error) {
	if t.closed {
		return 0, ErrClosed
	}
	n, err := t.f.Write(p)
	if err != nil && errors.Is(err, os.ErrClosed) {
		return n, ErrClosed
	}
	return n, err
}

func (t *fileTransport) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	return t.f.Close()
}

// File is a buffered, format-driven handle over a regular file. It shares
// the Stream engine with sockets and pipes; only the transport differs.
type File struct {
	*Stream
	name string
}

// Open opens the named file for formatted reading.
func Open(name string) (*File, error) {
	return OpenFile(name, os.O_RDONLY, 0)
}

// Create truncates or creates the named file for formatted writing.
func Create(name string) (*File, error) {
	return OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
}

// OpenFile is the generalized form with explicit flags and permissions.
func OpenFile(name string, flag int, perm os.FileMode) (*File, error) {
	f, err := os.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return &File{Stream: NewStream(&fileTransport{f: f}), name: name}, nil
}

// NewFile wraps an already-open os file, taking ownership of it.
func NewFile(f *os.File) *File {
	return &File{Stream: NewStream(&fileTransport{f: f}), name: f.Name()}
}

// Name returns the name the file was opened with.
func (f *File) Name() string { return f.name }
