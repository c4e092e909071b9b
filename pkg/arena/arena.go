// Package arena implements the bump allocator backing a parse.
//
// An Arena hands out memory from a singly-linked list of blocks. Nothing is
// freed individually: nodes built for an alternative that later fails are
// simply left behind, and everything is released at once by Free. Runtime
// values created during parsing are registered with the arena so that they
// are released together with the tree that refers to them.
//
// Go memory is garbage collected, so "releasing" a block means dropping the
// arena's references to it; the useful guarantees are that allocation never
// moves or reuses memory that has been handed out, and that registered values
// are released exactly once.
package arena

import (
	"errors"
	"fmt"
	"reflect"
	"unsafe"

	"src.cronus.dev/pkg/object"
)

// Parameters of the block policy.
const (
	// DefaultBlockSize is the size of a regular block. Most parses of
	// ordinary modules fit in a single block.
	DefaultBlockSize = 8192
	// Alignment is the granularity of Alloc.
	Alignment = 8
)

// ErrFreed is the panic value when an arena is used after Free.
var ErrFreed = errors.New("arena: use after free")

type block struct {
	mem    []byte
	offset int
	next   *block
}

func newBlock(size int) *block {
	return &block{mem: make([]byte, size)}
}

func (b *block) fits(size int) bool { return b.offset+size <= len(b.mem) }

// Arena is a region that is freed in one operation.
//
// An Arena is not safe for concurrent use.
type Arena struct {
	blockSize int
	head, cur *block

	pools   []releaser
	typed   map[reflect.Type]any
	objects []object.Object
	freed   bool

	stats Stats
}

// Stats keeps allocation counters of an Arena.
type Stats struct {
	// Number of Alloc calls, including those made on behalf of pools.
	Allocs int
	// Total bytes requested, after rounding up to Alignment.
	Bytes int
	// Number of blocks, including the first one.
	Blocks int
	// Total size of all blocks.
	BlockBytes int
	// Number of blocks larger than the regular block size.
	BigBlocks int
	// Number of registered values.
	Objects int
}

func (s Stats) String() string {
	return fmt.Sprintf("alloc=%d size=%d blocks=%d block_size=%d big=%d objects=%d",
		s.Allocs, s.Bytes, s.Blocks, s.BlockBytes, s.BigBlocks, s.Objects)
}

// New creates an Arena with the default block size.
func New() *Arena { return NewSized(DefaultBlockSize) }

// NewSized creates an Arena whose regular blocks have the given size, rounded
// up to Alignment. It is mostly useful for tests.
func NewSized(blockSize int) *Arena {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	blockSize = roundUp(blockSize)
	b := newBlock(blockSize)
	return &Arena{
		blockSize: blockSize, head: b, cur: b,
		stats: Stats{Blocks: 1, BlockBytes: blockSize},
	}
}

func roundUp(n int) int {
	return (n + Alignment - 1) &^ (Alignment - 1)
}

// BlockSize returns the size of regular blocks.
func (a *Arena) BlockSize() int { return a.blockSize }

// Alloc returns size bytes of zeroed memory, rounded up to Alignment. The
// returned slice has the requested length and a capacity of the rounded size.
//
// If the request does not fit in the current block, a new block is linked
// after it and becomes current. The new block has the regular size, or
// exactly the rounded request if that is larger, so oversized requests get a
// dedicated block instead of wasting a regular one.
func (a *Arena) Alloc(size int) []byte {
	a.checkLive()
	if size < 0 {
		panic(fmt.Sprintf("arena: negative allocation size %d", size))
	}
	rounded := roundUp(size)
	b := a.cur
	if !b.fits(rounded) {
		n := a.blockSize
		if rounded > n {
			n = rounded
			a.stats.BigBlocks++
		}
		nb := newBlock(n)
		b.next = nb
		a.cur = nb
		a.stats.Blocks++
		a.stats.BlockBytes += n
		b = nb
	}
	p := b.mem[b.offset : b.offset+size : b.offset+rounded]
	b.offset += rounded
	a.stats.Allocs++
	a.stats.Bytes += rounded
	return p
}

// String copies s into arena memory and returns the copy.
func (a *Arena) String(s string) string {
	if s == "" {
		return ""
	}
	p := a.Alloc(len(s))
	copy(p, s)
	// The block is never written again, so the bytes are immutable from
	// here on.
	return unsafe.String(&p[0], len(p))
}

// Register hands one reference of v over to the arena. The reference is
// released when the arena is freed.
func (a *Arena) Register(v object.Object) {
	a.checkLive()
	if v == nil {
		return
	}
	a.objects = append(a.objects, v)
	a.stats.Objects++
}

// Free releases all blocks and pools and every registered reference. Calling
// Free more than once has no further effect.
func (a *Arena) Free() {
	if a.freed {
		return
	}
	a.freed = true
	for b := a.head; b != nil; {
		next := b.next
		b.mem, b.next = nil, nil
		b = next
	}
	a.head, a.cur = nil, nil
	for _, p := range a.pools {
		p.release()
	}
	a.pools, a.typed = nil, nil
	for _, v := range a.objects {
		v.DecRef()
	}
	a.objects = nil
}

// Freed reports whether Free has been called.
func (a *Arena) Freed() bool { return a.freed }

// Stats returns the allocation counters.
func (a *Arena) Stats() Stats { return a.stats }

func (a *Arena) checkLive() {
	if a.freed {
		panic(ErrFreed)
	}
}

// Walks the block list. Used by tests.
func (a *Arena) blocks() []*block {
	var bs []*block
	for b := a.head; b != nil; b = b.next {
		bs = append(bs, b)
	}
	return bs
}
