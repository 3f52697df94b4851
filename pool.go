// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fmtio

import (
	"sync"
)

// DefaultBufferSize is 4096 to align with PIPE_BUF on Linux, so a full
// buffer flush maps to one atomic pipe write.
const DefaultBufferSize = 4096

// sharedBuffers feeds DefaultBufferSize-byte windows to pools. Oddly sized
// windows are allocated directly and dropped on release.
var sharedBuffers = sync.Pool{
	New: func() any {
		buf := make([]byte, DefaultBufferSize)
		return &buf
	},
}

// Pool is a handle-scoped allocation context with guaranteed bulk release.
// Buffer windows and cleanup hooks registered on it live exactly as long as
// the owning handle; nothing drawn from a Pool is freed individually.
//
// Teardown order matters: the owner must release its Transport before
// releasing the Pool, never the reverse.
type Pool struct {
	bufs     []*[]byte
	cleanups []func()
	released bool
}

// NewPool returns an empty pool.
func NewPool() *Pool { return &Pool{} }

// Buffer draws a byte window of the given size from the pool. Windows of
// DefaultBufferSize are recycled through a shared free list on Release.
func (p *Pool) Buffer(size int) []byte {
	if size <= 0 {
		size = DefaultBufferSize
	}
	if size == DefaultBufferSize {
		buf := sharedBuffers.Get().(*[]byte)
		p.bufs = append(p.bufs, buf)
		return *buf
	}
	return make([]byte, size)
}

// Defer registers fn to run on Release. Hooks run in reverse registration
// order, like defer.
func (p *Pool) Defer(fn func()) {
	p.cleanups = append(p.cleanups, fn)
}

// Release runs the deferred hooks and returns recycled windows to the shared
// free list. Release is idempotent; using buffers drawn from the pool after
// Release is caller error.
func (p *Pool) Release() {
	if p.released {
		return
	}
	p.released = true
	for i := len(p.cleanups) - 1; i >= 0; i-- {
		p.cleanups[i]()
	}
	p.cleanups = nil
	for _, buf := range p.bufs {
		sharedBuffers.Put(buf)
	}
	p.bufs = nil
}
