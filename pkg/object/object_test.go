package object

import (
	"math"
	"math/big"
	"testing"

	. "src.cronus.dev/pkg/tt"
)

func repr(text string) (string, error) {
	o, err := ParseNumber(text)
	if err != nil {
		return "", err
	}
	return o.Type() + " " + o.Repr(), nil
}

func TestParseNumber(t *testing.T) {
	Test(t, Fn("ParseNumber", repr), Table{
		Args("0").Rets("int 0", nil),
		Args("000").Rets("int 0", nil),
		Args("42").Rets("int 42", nil),
		Args("1_000_000").Rets("int 1000000", nil),
		Args("0xff").Rets("int 255", nil),
		Args("0x_ff").Rets("int 255", nil),
		Args("0o17").Rets("int 15", nil),
		Args("0b101").Rets("int 5", nil),
		Args("99999999999999999999").Rets("int 99999999999999999999", nil),
		Args("1.5").Rets("float 1.5", nil),
		Args("1.").Rets("float 1.0", nil),
		Args(".5").Rets("float 0.5", nil),
		Args("1e3").Rets("float 1000.0", nil),
		Args("1e400").Rets("float +Inf", nil),

		Args("").Rets("", ErrBadNumber),
		Args("012").Rets("", ErrBadNumber),
		Args("1__0").Rets("", ErrBadNumber),
		Args("1_").Rets("", ErrBadNumber),
		Args("0x").Rets("", ErrBadNumber),
		Args("0b102").Rets("", ErrBadNumber),
	})
}

func TestRepr(t *testing.T) {
	Test(t, Fn("Repr", Object.Repr), Table{
		Args(NewStr("a\"b")).Rets(`"a\"b"`),
		Args(NewBytes([]byte("x"))).Rets(`b"x"`),
		Args(NewFloat(math.NaN())).Rets("NaN"),
		Args(NewFloat(2)).Rets("2.0"),
		Args(NewBigInt(big.NewInt(7))).Rets("7"),
		Args(True).Rets("True"),
		Args(Null).Rets("Null"),
		Args(Ellipsis).Rets("..."),
	})
}

func TestRefCount(t *testing.T) {
	s := NewStr("x")
	if n := s.RefCount(); n != 1 {
		t.Errorf("new value has %d references, want 1", n)
	}
	s.IncRef()
	s.DecRef()
	s.DecRef()
	if n := s.RefCount(); n != 0 {
		t.Errorf("got %d references after releasing all, want 0", n)
	}
	defer func() {
		if recover() == nil {
			t.Errorf("releasing a dead value did not panic")
		}
	}()
	s.DecRef()
}

func TestAcquire(t *testing.T) {
	before := True.RefCount()
	if Acquire(True) != True {
		t.Errorf("Acquire did not return its argument")
	}
	True.DecRef()
	if after := True.RefCount(); after != before {
		t.Errorf("reference count changed from %d to %d", before, after)
	}
}

func TestEqual(t *testing.T) {
	Test(t, Fn("Equal", Equal), Table{
		Args(NewInt(1), NewInt(1)).Rets(true),
		Args(NewInt(1), NewFloat(1)).Rets(false),
		Args(NewStr("a"), NewStr("a")).Rets(true),
		Args(NewBytes([]byte("a")), NewBytes([]byte("b"))).Rets(false),
		Args(True, True).Rets(true),
		Args(True, False).Rets(false),
	})
}
