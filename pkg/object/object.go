// Package object implements the runtime values that the parser embeds in the
// syntax tree.
//
// The parser never inspects a value beyond constructing it and handing one
// reference to the arena that owns the tree. Values are reference-counted so
// that the owner of the last reference can tell when it is safe to drop
// resources associated with them.
package object

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"sync/atomic"
)

// Object is a reference-counted runtime value.
type Object interface {
	// Type returns the name of the value's type.
	Type() string
	// Repr returns the source-like representation of the value.
	Repr() string
	// IncRef acquires a reference.
	IncRef()
	// DecRef releases a reference. Releasing more references than were
	// acquired is a contract violation and panics.
	DecRef()
	// RefCount returns the number of outstanding references.
	RefCount() int
}

// refs implements the reference counting part of Object. A new value starts
// with one reference, owned by whoever created it.
type refs struct {
	n int64
}

func newRefs() refs { return refs{n: 1} }

func (r *refs) IncRef() { atomic.AddInt64(&r.n, 1) }

func (r *refs) DecRef() {
	if atomic.AddInt64(&r.n, -1) < 0 {
		panic("object: reference count dropped below zero")
	}
}

func (r *refs) RefCount() int { return int(atomic.LoadInt64(&r.n)) }

// Int is an integer that fits in 64 bits.
type Int struct {
	refs
	V int64
}

// NewInt returns a new Int holding one reference.
func NewInt(v int64) *Int { return &Int{newRefs(), v} }

func (*Int) Type() string { return "int" }
func (i *Int) Repr() string { return strconv.FormatInt(i.V, 10) }
func (i *Int) String() string { return i.Repr() }

// BigInt is an integer that does not fit in 64 bits.
type BigInt struct {
	refs
	V *big.Int
}

// NewBigInt returns a new BigInt holding one reference.
func NewBigInt(v *big.Int) *BigInt { return &BigInt{newRefs(), v} }

func (*BigInt) Type() string { return "int" }
func (i *BigInt) Repr() string { return i.V.String() }
func (i *BigInt) String() string { return i.Repr() }

// Float is a double precision floating point number.
type Float struct {
	refs
	V float64
}

// NewFloat returns a new Float holding one reference.
func NewFloat(v float64) *Float { return &Float{newRefs(), v} }

func (*Float) Type() string { return "float" }

func (f *Float) Repr() string {
	s := strconv.FormatFloat(f.V, 'g', -1, 64)
	if strings.ContainsAny(s, ".eIN") {
		return s
	}
	return s + ".0"
}

func (f *Float) String() string { return f.Repr() }

// Str is a text string.
type Str struct {
	refs
	V string
}

// NewStr returns a new Str holding one reference.
func NewStr(v string) *Str { return &Str{newRefs(), v} }

func (*Str) Type() string { return "str" }
func (s *Str) Repr() string { return strconv.Quote(s.V) }
func (s *Str) String() string { return s.Repr() }

// Bytes is a byte string.
type Bytes struct {
	refs
	V []byte
}

// NewBytes returns a new Bytes holding one reference.
func NewBytes(v []byte) *Bytes { return &Bytes{newRefs(), v} }

func (*Bytes) Type() string { return "bytes" }
func (b *Bytes) Repr() string { return "b" + strconv.Quote(string(b.V)) }
func (b *Bytes) String() string { return b.Repr() }

// Singleton values are never freed; their reference counts are still tracked
// so that leaks and double releases remain observable.
type singleton struct {
	refs
	typ, repr string
}

func newSingleton(typ, repr string) *singleton {
	return &singleton{newRefs(), typ, repr}
}

func (s *singleton) Type() string { return s.typ }
func (s *singleton) Repr() string { return s.repr }
func (s *singleton) String() string { return s.repr }

// The singleton values.
var (
	True     Object = newSingleton("bool", "True")
	False    Object = newSingleton("bool", "False")
	Null     Object = newSingleton("NullType", "Null")
	Ellipsis Object = newSingleton("ellipsis", "...")
)

// Acquire increments the reference count of a singleton and returns it, so
// that a caller can treat singletons and freshly created values uniformly.
func Acquire(o Object) Object {
	o.IncRef()
	return o
}

// Equal reports whether two values have the same type and payload. It is used
// by tests.
func Equal(a, b Object) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch a := a.(type) {
	case *Int:
		b, ok := b.(*Int)
		return ok && a.V == b.V
	case *BigInt:
		b, ok := b.(*BigInt)
		return ok && a.V.Cmp(b.V) == 0
	case *Float:
		b, ok := b.(*Float)
		return ok && a.V == b.V
	case *Str:
		b, ok := b.(*Str)
		return ok && a.V == b.V
	case *Bytes:
		b, ok := b.(*Bytes)
		return ok && string(a.V) == string(b.V)
	}
	return a == b
}

// Describe returns a short description of a value for diagnostics.
func Describe(o Object) string {
	if o == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s %s", o.Type(), o.Repr())
}
