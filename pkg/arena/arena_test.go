package arena

import (
	"testing"

	"src.cronus.dev/pkg/object"
)

func TestAlloc_RoundsUpToAlignment(t *testing.T) {
	a := New()
	for _, size := range []int{0, 1, 7, 8, 9, 20} {
		before := a.Stats().Bytes
		p := a.Alloc(size)
		if len(p) != size {
			t.Errorf("len(Alloc(%d)) = %d", size, len(p))
		}
		if got, want := a.Stats().Bytes-before, roundUp(size); got != want {
			t.Errorf("Alloc(%d) consumed %d bytes, want %d", size, got, want)
		}
	}
}

func TestAlloc_ReturnsZeroedDisjointMemory(t *testing.T) {
	a := NewSized(64)
	var chunks [][]byte
	for i := 0; i < 40; i++ {
		p := a.Alloc(12)
		for _, b := range p {
			if b != 0 {
				t.Fatalf("Alloc returned non-zero memory")
			}
		}
		for j := range p {
			p[j] = byte(i)
		}
		chunks = append(chunks, p)
	}
	for i, p := range chunks {
		for _, b := range p {
			if b != byte(i) {
				t.Fatalf("allocation %d was overwritten", i)
			}
		}
	}
}

func TestAlloc_NewBlockWhenFull(t *testing.T) {
	a := NewSized(32)
	a.Alloc(24)
	a.Alloc(16)
	if n := len(a.blocks()); n != 2 {
		t.Errorf("got %d blocks, want 2", n)
	}
	if a.cur != a.blocks()[1] {
		t.Errorf("new block did not become current")
	}
}

func TestAlloc_Oversized(t *testing.T) {
	a := NewSized(64)
	small := a.Alloc(8)
	copy(small, "previous")

	big := a.Alloc(1000)
	if len(big) != 1000 {
		t.Fatalf("len(big) = %d", len(big))
	}
	bs := a.blocks()
	if len(bs) != 2 || len(bs[1].mem) != roundUp(1000) {
		t.Errorf("oversized request did not get a dedicated block")
	}
	if st := a.Stats(); st.BigBlocks != 1 {
		t.Errorf("BigBlocks = %d, want 1", st.BigBlocks)
	}

	after := a.Alloc(8)
	copy(after, "12345678")
	if string(small) != "previous" {
		t.Errorf("earlier allocation corrupted: %q", small)
	}
	if string(after) != "12345678" {
		t.Errorf("later allocation corrupted: %q", after)
	}
}

func TestString(t *testing.T) {
	a := New()
	s := a.String("hello")
	if s != "hello" {
		t.Errorf("String -> %q", s)
	}
	if a.String("") != "" {
		t.Errorf("String of empty string is not empty")
	}
}

func TestFree_ReleasesEachRegisteredValueOnce(t *testing.T) {
	a := New()
	var vals []object.Object
	for i := 0; i < 10; i++ {
		v := object.NewInt(int64(i))
		a.Register(v)
		vals = append(vals, v)
		a.Alloc(i * 100)
	}
	// The same value may be registered once per reference handed over.
	shared := object.NewStr("shared")
	shared.IncRef()
	a.Register(shared)
	a.Register(shared)

	a.Free()
	for i, v := range vals {
		if n := v.RefCount(); n != 0 {
			t.Errorf("value %d has %d references after Free", i, n)
		}
	}
	if n := shared.RefCount(); n != 0 {
		t.Errorf("shared value has %d references after Free", n)
	}

	a.Free()
	for i, v := range vals {
		if n := v.RefCount(); n != 0 {
			t.Errorf("second Free changed value %d to %d references", i, n)
		}
	}
	if a.head != nil || a.cur != nil {
		t.Errorf("blocks still reachable after Free")
	}
}

func TestUseAfterFreePanics(t *testing.T) {
	a := New()
	a.Free()
	defer func() {
		if r := recover(); r != ErrFreed {
			t.Errorf("recovered %v, want ErrFreed", r)
		}
	}()
	a.Alloc(1)
}

func TestPool(t *testing.T) {
	type node struct{ a, b int64 }
	a := NewSized(64)
	p := NewPool[node](a)

	var ptrs []*node
	for i := 0; i < 20; i++ {
		n := p.New()
		n.a = int64(i)
		ptrs = append(ptrs, n)
	}
	for i, n := range ptrs {
		if n.a != int64(i) {
			t.Errorf("node %d moved or was overwritten: %v", i, *n)
		}
	}
	if p.Len() != 20 {
		t.Errorf("Len = %d, want 20", p.Len())
	}

	s := p.Slice(3)
	if len(s) != 3 || cap(s) != 3 {
		t.Errorf("Slice(3) has len %d cap %d", len(s), cap(s))
	}
	big := p.Slice(100)
	if len(big) != 100 {
		t.Errorf("oversized Slice has len %d", len(big))
	}
	s = append(s, node{a: 99})
	for i, n := range ptrs {
		if n.a != int64(i) {
			t.Errorf("append to pool slice clobbered node %d", i)
		}
	}
}

func TestNewAndMakeSlice(t *testing.T) {
	a := New()
	x := NewOf[int](a)
	*x = 42
	y := NewOf[int](a)
	if *y != 0 || *x != 42 {
		t.Errorf("NewOf[int] returned shared memory")
	}
	ss := Copy(a, []string{"a", "b"})
	if len(ss) != 2 || ss[1] != "b" {
		t.Errorf("Copy -> %v", ss)
	}
	if Copy[string](a, nil) != nil {
		t.Errorf("Copy of nil is not nil")
	}
	if st := a.Stats(); st.Allocs != 3 {
		t.Errorf("Allocs = %d, want 3", st.Allocs)
	}
}
