package arena

import (
	"reflect"
	"unsafe"
)

type releaser interface{ release() }

// Pool allocates values of a single type from chunks owned by an Arena. It
// follows the same policy as Alloc: values are never moved once handed out,
// a full chunk is followed by a new one, and a request larger than a regular
// chunk gets a chunk of its own.
type Pool[T any] struct {
	a        *Arena
	elemSize int
	chunkLen int
	cur      []T
	chunks   [][]T
}

// NewPool creates a Pool owned by a. The pool is released when a is freed.
func NewPool[T any](a *Arena) *Pool[T] {
	a.checkLive()
	var zero T
	size := roundUp(int(unsafe.Sizeof(zero)))
	if size == 0 {
		size = Alignment
	}
	chunkLen := a.blockSize / size
	if chunkLen < 1 {
		chunkLen = 1
	}
	p := &Pool[T]{a: a, elemSize: size, chunkLen: chunkLen}
	a.pools = append(a.pools, p)
	return p
}

func (p *Pool[T]) grow(n int) {
	if len(p.chunks) > 0 {
		p.chunks[len(p.chunks)-1] = p.cur
	}
	l := p.chunkLen
	if n > l {
		l = n
		p.a.stats.BigBlocks++
	}
	p.cur = make([]T, 0, l)
	p.chunks = append(p.chunks, p.cur)
	p.a.stats.Blocks++
	p.a.stats.BlockBytes += l * p.elemSize
}

// New returns a pointer to a new zero value.
func (p *Pool[T]) New() *T {
	p.a.checkLive()
	if len(p.cur) == cap(p.cur) {
		p.grow(1)
	}
	var zero T
	p.cur = append(p.cur, zero)
	p.a.stats.Allocs++
	p.a.stats.Bytes += p.elemSize
	return &p.cur[len(p.cur)-1]
}

// Slice returns a slice of n zero values. The capacity of the result equals
// its length, so appending to it never writes into memory owned by other
// allocations.
func (p *Pool[T]) Slice(n int) []T {
	p.a.checkLive()
	if n <= 0 {
		return nil
	}
	if cap(p.cur)-len(p.cur) < n {
		p.grow(n)
	}
	start := len(p.cur)
	p.cur = p.cur[:start+n]
	p.a.stats.Allocs++
	p.a.stats.Bytes += n * p.elemSize
	return p.cur[start : start+n : start+n]
}

// Len returns the number of values handed out.
func (p *Pool[T]) Len() int {
	n := 0
	for _, c := range p.chunks[:max(len(p.chunks)-1, 0)] {
		n += len(c)
	}
	return n + len(p.cur)
}

func (p *Pool[T]) release() {
	p.cur, p.chunks = nil, nil
}

func poolFor[T any](a *Arena) *Pool[T] {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if a.typed == nil {
		a.typed = make(map[reflect.Type]any)
	}
	if p, ok := a.typed[t]; ok {
		return p.(*Pool[T])
	}
	p := NewPool[T](a)
	a.typed[t] = p
	return p
}

// NewOf allocates a zero T from the arena's pool for T.
func NewOf[T any](a *Arena) *T {
	a.checkLive()
	return poolFor[T](a).New()
}

// MakeSlice allocates n zero values of T from the arena's pool for T.
func MakeSlice[T any](a *Arena, n int) []T {
	a.checkLive()
	return poolFor[T](a).Slice(n)
}

// Copy returns a copy of s whose backing array lives in the arena.
func Copy[T any](a *Arena, s []T) []T {
	if len(s) == 0 {
		return nil
	}
	c := MakeSlice[T](a, len(s))
	copy(c, s)
	return c
}
