// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fmtio_test

import (
	"testing"

	"code.hybscloud.com/fmtio"
)

func TestPool_BufferSizes(t *testing.T) {
	p := fmtio.NewPool()
	defer p.Release()

	if got := len(p.Buffer(64)); got != 64 {
		t.Fatalf("Buffer(64): want len 64 got %d", got)
	}
	if got := len(p.Buffer(fmtio.DefaultBufferSize)); got != fmtio.DefaultBufferSize {
		t.Fatalf("Buffer(default): want len %d got %d", fmtio.DefaultBufferSize, got)
	}
	if got := len(p.Buffer(0)); got != fmtio.DefaultBufferSize {
		t.Fatalf("Buffer(0): want default size got %d", got)
	}
	if got := len(p.Buffer(-1)); got != fmtio.DefaultBufferSize {
		t.Fatalf("Buffer(-1): want default size got %d", got)
	}
}

func TestPool_DeferRunsInReverseOrder(t *testing.T) {
	p := fmtio.NewPool()

	var order []int
	p.Defer(func() { order = append(order, 1) })
	p.Defer(func() { order = append(order, 2) })
	p.Defer(func() { order = append(order, 3) })

	p.Release()

	if len(order) != 3 || order[0] != 3 || order[1] != 2 || order[2] != 1 {
		t.Fatalf("want [3 2 1] got %v", order)
	}
}

func TestPool_ReleaseIsIdempotent(t *testing.T) {
	p := fmtio.NewPool()

	calls := 0
	p.Defer(func() { calls++ })
	_ = p.Buffer(fmtio.DefaultBufferSize)

	p.Release()
	p.Release()

	if calls != 1 {
		t.Fatalf("cleanup ran %d times, want 1", calls)
	}
}
