package ast

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"src.cronus.dev/pkg/arena"
	"src.cronus.dev/pkg/object"
	. "src.cronus.dev/pkg/tt"
)

var p = Pos{1, 0, 1, 1}

func newBuilder(t *testing.T) *Builder {
	a := arena.New()
	t.Cleanup(a.Free)
	return NewBuilder(a)
}

func constant(b *Builder, i int64) *Constant {
	return b.Constant(object.NewInt(i), "", p)
}

func TestFormat(t *testing.T) {
	b := newBuilder(t)
	x := b.Name("x", Load, p)
	Test(t, Fn("Format", Format), Table{
		Args(b.BinOp(constant(b, 1), Add,
			b.BinOp(constant(b, 2), Mult, constant(b, 3), p), p)).
			Rets("BinOp(Add, Constant(1), BinOp(Mult, Constant(2), Constant(3)))"),
		Args(b.Compare(x, []CmpOperator{NotIn, IsNot}, []Expr{x, x}, p)).
			Rets("Compare(Name(x, Load), [NotIn, IsNot], [Name(x, Load), Name(x, Load)])"),
		Args(b.Module([]Stmt{b.Pass(p), b.Return(nil, p)})).
			Rets("Module([Pass(), Return()])"),
		Args(b.Dict([]Expr{nil}, []Expr{x}, p)).
			Rets("Dict([None], [Name(x, Load)])"),
		Args(b.FormattedValue(x, 'r', nil, p)).
			Rets("FormattedValue(Name(x, Load), 'r')"),
		Args(b.Constant(object.NewStr("a"), "u", p)).
			Rets(`Constant("a", u)`),
		Args((*Name)(nil)).Rets("None"),
	})
}

func TestBuilder_MissingField(t *testing.T) {
	b := newBuilder(t)
	n := b.BinOp(constant(b, 1), Add, nil, p)
	if n == nil {
		t.Fatalf("constructor returned nil")
	}
	if err := b.Err(); !errors.Is(err, ErrMissingField) {
		t.Errorf("got error %v, want ErrMissingField", err)
	}
	want := b.Err()
	b.Name("", Load, p)
	if b.Err() != want {
		t.Errorf("first error was replaced")
	}
}

func TestBuilder_MissingTypedNil(t *testing.T) {
	b := newBuilder(t)
	var name *Name
	b.Attribute(name, "a", Load, p)
	if !errors.Is(b.Err(), ErrMissingField) {
		t.Errorf("typed nil child not reported as missing")
	}
}

func TestBuilder_ConstantRegistersValue(t *testing.T) {
	a := arena.New()
	b := NewBuilder(a)
	v := object.NewInt(1)
	b.Constant(v, "", p)
	if got := a.Stats().Objects; got != 1 {
		t.Errorf("arena tracks %d objects, want 1", got)
	}
	a.Free()
	if v.RefCount() != 0 {
		t.Errorf("value has %d references after arena freed, want 0", v.RefCount())
	}
}

func TestSetContext(t *testing.T) {
	b := newBuilder(t)
	x := b.Name("x", Load, p)
	attr := b.Attribute(x, "y", Load, p)
	tuple := b.Tuple([]Expr{x, b.Starred(attr, Load, p)}, Load, p)

	stored := b.SetContext(tuple, Store)
	if got, want := Format(stored),
		"Tuple([Name(x, Store), Starred(Attribute(Name(x, Load), y, Store), Store)], Store)"; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
	if got, want := Format(tuple),
		"Tuple([Name(x, Load), Starred(Attribute(Name(x, Load), y, Load), Load)], Load)"; got != want {
		t.Errorf("original modified: %s", got)
	}
	c := constant(b, 1)
	if b.SetContext(c, Store) != Expr(c) {
		t.Errorf("SetContext copied a node without context")
	}
}

func TestDump(t *testing.T) {
	b := newBuilder(t)
	n := b.Assign([]Expr{b.Name("x", Store, Pos{1, 0, 1, 1})},
		constant(b, 1), Pos{1, 0, 1, 5})
	want := map[string]any{
		"_type": "Assign",
		"targets": []any{map[string]any{
			"_type": "Name", "id": "x", "ctx": "Store",
		}},
		"value": map[string]any{"_type": "Constant", "value": "1"},
	}
	if diff := cmp.Diff(want, Dump(n, false)); diff != "" {
		t.Errorf("Dump (-want +got):\n%s", diff)
	}

	withPos := Dump(n, true).(map[string]any)
	if withPos["end_col_offset"] != 5 || withPos["lineno"] != 1 {
		t.Errorf("positions missing from %v", withPos)
	}

	if _, err := json.Marshal(Dump(n, true)); err != nil {
		t.Errorf("JSON encoding failed: %v", err)
	}
	out, err := yaml.Marshal(Dump(n, false))
	if err != nil {
		t.Fatalf("YAML encoding failed: %v", err)
	}
	var back map[string]any
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, back); diff != "" {
		t.Errorf("YAML round trip (-want +got):\n%s", diff)
	}
}

func TestWalk(t *testing.T) {
	b := newBuilder(t)
	x := b.Name("x", Load, p)
	call := b.Call(x, []Expr{constant(b, 1)},
		[]*Keyword{b.Keyword("k", constant(b, 2), p)}, p)
	var types []string
	Walk(call, func(n Node) bool {
		types = append(types, Format(n)[:3])
		return true
	})
	want := []string{"Cal", "Nam", "Con", "Key", "Con"}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Errorf("Walk order (-want +got):\n%s", diff)
	}

	n := 0
	Walk(call, func(Node) bool { n++; return false })
	if n != 1 {
		t.Errorf("Walk visited %d nodes after pruning, want 1", n)
	}
}

func TestEnumString(t *testing.T) {
	Test(t, Fn("String", func(s interface{ String() string }) string { return s.String() }), Table{
		Args(Modulo).Rets("Mod"),
		Args(FloorDiv).Rets("FloorDiv"),
		Args(USub).Rets("USub"),
		Args(NotIn).Rets("NotIn"),
		Args(Del).Rets("Del"),
		Args(Or).Rets("Or"),
		Args(Operator(99)).Rets("Operator(99)"),
	})
}
