package parse

import (
	"context"
	"strings"
	"testing"

	"src.cronus.dev/pkg/arena"
	"src.cronus.dev/pkg/ast"
	. "src.cronus.dev/pkg/tt"
)

// Parses src and formats the tree with ast.Format.
func format(mode Mode, src string) (string, error) {
	a := arena.New()
	defer a.Free()
	n, err := ParseSource(context.Background(), Source{"[test]", src}, a, Config{Mode: mode})
	if err != nil {
		return "", err
	}
	return ast.Format(n), nil
}

func formatEval(src string) (string, error) { return format(Eval, src) }
func formatFile(src string) (string, error) { return format(File, src) }

func TestParse_Expressions(t *testing.T) {
	Test(t, Fn("formatEval", formatEval), Table{
		// Precedence and associativity
		Args("1 + 2 * 3").Rets(
			"Expression(BinOp(Add, Constant(1), BinOp(Mult, Constant(2), Constant(3))))", nil),
		Args("1 - 2 - 3").Rets(
			"Expression(BinOp(Sub, BinOp(Sub, Constant(1), Constant(2)), Constant(3)))", nil),
		Args("a // b % c").Rets(
			"Expression(BinOp(Mod, BinOp(FloorDiv, Name(a, Load), Name(b, Load)), Name(c, Load)))", nil),
		Args("2 ** 3 ** 4").Rets(
			"Expression(BinOp(Pow, Constant(2), BinOp(Pow, Constant(3), Constant(4))))", nil),
		Args("-x ** 2").Rets(
			"Expression(UnaryOp(USub, BinOp(Pow, Name(x, Load), Constant(2))))", nil),
		Args("a | b ^ c & d << 1").Rets(
			"Expression(BinOp(BitOr, Name(a, Load), BinOp(BitXor, Name(b, Load), "+
				"BinOp(BitAnd, Name(c, Load), BinOp(LShift, Name(d, Load), Constant(1))))))", nil),
		Args("a or b and not c").Rets(
			"Expression(BoolOp(Or, [Name(a, Load), BoolOp(And, [Name(b, Load), UnaryOp(Not, Name(c, Load))])]))", nil),
		Args("a < b <= c").Rets(
			"Expression(Compare(Name(a, Load), [Lt, LtE], [Name(b, Load), Name(c, Load)]))", nil),
		Args("a is not b not in c").Rets(
			"Expression(Compare(Name(a, Load), [IsNot, NotIn], [Name(b, Load), Name(c, Load)]))", nil),
		Args("x if c else y").Rets(
			"Expression(IfExp(Name(c, Load), Name(x, Load), Name(y, Load)))", nil),
		Args("await x").Rets("Expression(Await(Name(x, Load)))", nil),

		// Primaries
		Args("f(a, *b, k=1, **d)").Rets(
			"Expression(Call(Name(f, Load), [Name(a, Load), Starred(Name(b, Load), Load)], "+
				"[Keyword(k, Constant(1)), Keyword(Name(d, Load))]))", nil),
		Args("f(x for x in y)").Rets(
			"Expression(Call(Name(f, Load), [GeneratorExp(Name(x, Load), "+
				"[Comprehension(Name(x, Store), Name(y, Load))])]))", nil),
		Args("a.b[1:2, ::3]").Rets(
			"Expression(Subscript(Attribute(Name(a, Load), b, Load), "+
				"Tuple([Slice(Constant(1), Constant(2)), Slice(Constant(3))], Load), Load))", nil),
		Args("a.b.c()").Rets(
			"Expression(Call(Attribute(Attribute(Name(a, Load), b, Load), c, Load)))", nil),

		// Atoms and displays
		Args("...").Rets("Expression(Constant(...))", nil),
		Args("Null").Rets("Expression(Constant(Null))", nil),
		Args("(1,)").Rets("Expression(Tuple([Constant(1)], Load))", nil),
		Args("()").Rets("Expression(Tuple(Load))", nil),
		Args("1, 2").Rets("Expression(Tuple([Constant(1), Constant(2)], Load))", nil),
		Args("[x for x in y if x]").Rets(
			"Expression(ListComp(Name(x, Load), [Comprehension(Name(x, Store), Name(y, Load), [Name(x, Load)])]))", nil),
		Args("{1: 2, **d}").Rets(
			"Expression(Dict([Constant(1), None], [Constant(2), Name(d, Load)]))", nil),
		Args("{k: v for k, v in d}").Rets(
			"Expression(DictComp(Name(k, Load), Name(v, Load), [Comprehension("+
				"Tuple([Name(k, Store), Name(v, Store)], Store), Name(d, Load))]))", nil),
		Args("{1, *s}").Rets("Expression(Set([Constant(1), Starred(Name(s, Load), Load)]))", nil),
		Args("(x := 1)").Rets("Expression(NamedExpr(Name(x, Store), Constant(1)))", nil),
		Args("lambda x, *a, y=1, **k: x").Rets(
			"Expression(Lambda(Arguments([Arg(x)], Arg(a), [Arg(y)], [Constant(1)], Arg(k)), Name(x, Load)))", nil),
		Args("lambda: 0").Rets("Expression(Lambda(Arguments(), Constant(0)))", nil),
	})
}

func TestParse_Strings(t *testing.T) {
	Test(t, Fn("formatEval", formatEval), Table{
		Args(`'a' "b"`).Rets(`Expression(Constant("ab"))`, nil),
		Args(`u'a'`).Rets(`Expression(Constant("a", u))`, nil),
		Args(`'\n\x41\u00e9'`).Rets(`Expression(Constant("\nAé"))`, nil),
		Args(`r'\n'`).Rets(`Expression(Constant("\\n"))`, nil),
		Args(`'\q'`).Rets(`Expression(Constant("\\q"))`, nil),
		Args(`b'\x41' b'B'`).Rets(`Expression(Constant(b"AB"))`, nil),
		Args(`'''a
b'''`).Rets(`Expression(Constant("a\nb"))`, nil),
		Args(`f'{x}'`).Rets(`Expression(JoinedStr([FormattedValue(Name(x, Load))]))`, nil),
		Args(`f'a{x!r:>{w}} b'`).Rets(
			`Expression(JoinedStr([Constant("a"), FormattedValue(Name(x, Load), 'r', `+
				`JoinedStr([Constant(">"), FormattedValue(Name(w, Load))])), Constant(" b")]))`, nil),
		Args(`f'{x=}'`).Rets(
			`Expression(JoinedStr([Constant("x="), FormattedValue(Name(x, Load), 'r')]))`, nil),
		Args(`f'{{}}' 'c'`).Rets(`Expression(JoinedStr([Constant("{}c")]))`, nil),
		Args(`f'{a["}"]}'`).Rets(
			`Expression(JoinedStr([FormattedValue(Subscript(Name(a, Load), Constant("}"), Load))]))`, nil),
		Args(`f'{a != b}'`).Rets(
			`Expression(JoinedStr([FormattedValue(Compare(Name(a, Load), [NotEq], [Name(b, Load)]))]))`, nil),
	})
}

func TestParse_Statements(t *testing.T) {
	Test(t, Fn("formatFile", formatFile), Table{
		Args("").Rets("Module()", nil),
		Args("x = y = 1\n").Rets(
			"Module([Assign([Name(x, Store), Name(y, Store)], Constant(1))])", nil),
		Args("x = 1; y = 2\nz\n").Rets(
			"Module([Assign([Name(x, Store)], Constant(1)), Assign([Name(y, Store)], Constant(2)), "+
				"ExprStmt(Name(z, Load))])", nil),
		Args("x += 1").Rets("Module([AugAssign(Name(x, Store), Add, Constant(1))])", nil),
		Args("a, *b = c").Rets(
			"Module([Assign([Tuple([Name(a, Store), Starred(Name(b, Store), Store)], Store)], Name(c, Load))])", nil),
		Args("a.b[0] = c").Rets(
			"Module([Assign([Subscript(Attribute(Name(a, Load), b, Load), Constant(0), Store)], Name(c, Load))])", nil),
		Args("x: int = 1").Rets(
			"Module([AnnAssign(Name(x, Store), Name(int, Load), Constant(1), true)])", nil),
		Args("match = 1").Rets("Module([Assign([Name(match, Store)], Constant(1))])", nil),
		Args("global a, b").Rets("Module([Global([a, b])])", nil),
		Args("raise E from e").Rets("Module([Raise(Name(E, Load), Name(e, Load))])", nil),
		Args("assert x, 'm'").Rets(`Module([Assert(Name(x, Load), Constant("m"))])`, nil),
		Args("del a, b[0]").Rets(
			"Module([Delete([Name(a, Del), Subscript(Name(b, Load), Constant(0), Del)])])", nil),
		Args("import a.b as c").Rets("Module([Import([Alias(a.b, c)])])", nil),
		Args("from ..a.b import (c as d, e,)").Rets(
			"Module([ImportFrom(a.b, [Alias(c, d), Alias(e)], 2)])", nil),
		Args("from . import *").Rets("Module([ImportFrom([Alias(*)], 1)])", nil),
		Args("if a:\n  pass\nelif b:\n  pass\nelse:\n  pass\n").Rets(
			"Module([If(Name(a, Load), [Pass()], [If(Name(b, Load), [Pass()], [Pass()])])])", nil),
		Args("while x:\n  break\nelse:\n  continue\n").Rets(
			"Module([While(Name(x, Load), [Break()], [Continue()])])", nil),
		Args("for x, y in z: pass\n").Rets(
			"Module([For(Tuple([Name(x, Store), Name(y, Store)], Store), Name(z, Load), [Pass()])])", nil),
		Args("with a as b, c:\n  pass\n").Rets(
			"Module([With([WithItem(Name(a, Load), Name(b, Store)), WithItem(Name(c, Load))], [Pass()])])", nil),
		Args("try:\n  pass\nexcept E as e:\n  pass\nfinally:\n  pass\n").Rets(
			"Module([Try([Pass()], [ExceptHandler(Name(E, Load), e, [Pass()])], [Pass()])])", nil),
		Args("func f(a, /, b=1, *, c):\n  return a\n").Rets(
			"Module([FunctionDef(f, Arguments([Arg(a)], [Arg(b)], [Arg(c)], [None], [Constant(1)]), "+
				"[Return(Name(a, Load))])])", nil),
		Args("async func f() -> T:\n  await x\n").Rets(
			"Module([AsyncFunctionDef(f, Arguments(), [ExprStmt(Await(Name(x, Load)))], Name(T, Load))])", nil),
		Args("@d\nclass C(B, k=1):\n  x = 1\n").Rets(
			"Module([ClassDef(C, [Name(B, Load)], [Keyword(k, Constant(1))], "+
				"[Assign([Name(x, Store)], Constant(1))], [Name(d, Load)])])", nil),
		Args("match p:\n  case [1, *r] | {'k': _, **m}:\n    pass\n  case Point(x=0) if x:\n    pass\n").Rets(
			"Module([Match(Name(p, Load), ["+
				`MatchCase(MatchOr([MatchSequence([MatchValue(Constant(1)), MatchStar(r)]), `+
				`MatchMapping([Constant("k")], [MatchAs()], m)]), [Pass()]), `+
				"MatchCase(MatchClass(Name(Point, Load), [x], [MatchValue(Constant(0))]), Name(x, Load), [Pass()])])])", nil),
		Args("match x:\n  case -1 | 'a' | m.y as z:\n    pass\n").Rets(
			"Module([Match(Name(x, Load), [MatchCase(MatchAs(MatchOr([MatchValue(UnaryOp(USub, Constant(1))), "+
				`MatchValue(Constant("a")), MatchValue(Attribute(Name(m, Load), y, Load))]), z), [Pass()])])])`, nil),
	})
}

func TestParse_Interactive(t *testing.T) {
	a := arena.New()
	defer a.Free()
	n, err := ParseSource(context.Background(), Source{"[tty]", "x = 1\n"}, a, Config{Mode: Single})
	if err != nil {
		t.Fatalf("got error %v", err)
	}
	if got, want := ast.Format(n), "Interactive([Assign([Name(x, Store)], Constant(1))])"; got != want {
		t.Errorf("got %s, want %s", got, want)
	}

	for _, src := range []string{"", "if x:\n", "func f():\n", "(1,\n"} {
		_, err := ParseSource(context.Background(), Source{"[tty]", src}, a, Config{Mode: Single})
		if !IsEOF(err) {
			t.Errorf("%q: got error %v, want EOF", src, err)
		}
	}

	_, err = ParseSource(context.Background(), Source{"[tty]", "x = 1\ny = 2\n"}, a, Config{Mode: Single})
	if err == nil || !strings.Contains(err.Error(), "multiple statements found") {
		t.Errorf("got error %v, want multiple statements error", err)
	}
	if Code(err) != Syntax {
		t.Errorf("got code %v, want %v", Code(err), Syntax)
	}
}

func TestParse_Positions(t *testing.T) {
	a := arena.New()
	defer a.Free()
	n, err := ParseSource(context.Background(), Source{"[test]", "x = a.b(1)\n"}, a, Config{})
	if err != nil {
		t.Fatal(err)
	}
	assign := n.(*ast.Module).Body[0].(*ast.Assign)
	if got, want := assign.Span(), (ast.Pos{Lineno: 1, ColOffset: 0, EndLineno: 1, EndColOffset: 10}); got != want {
		t.Errorf("assign span %v, want %v", got, want)
	}
	call := assign.Value.(*ast.Call)
	if got, want := call.Func.Span(), (ast.Pos{Lineno: 1, ColOffset: 4, EndLineno: 1, EndColOffset: 7}); got != want {
		t.Errorf("attribute span %v, want %v", got, want)
	}
}

func TestParse_FStringPositions(t *testing.T) {
	a := arena.New()
	defer a.Free()
	n, err := ParseSource(context.Background(), Source{"[test]", "f'ab{xy}'"}, a, Config{Mode: Eval})
	if err != nil {
		t.Fatal(err)
	}
	js := n.(*ast.Expression).Body.(*ast.JoinedStr)
	name := js.Values[1].(*ast.FormattedValue).Value
	if got, want := name.Span(), (ast.Pos{Lineno: 1, ColOffset: 5, EndLineno: 1, EndColOffset: 7}); got != want {
		t.Errorf("name span %v, want %v", got, want)
	}
}

func TestParse_FreeReleasesConstants(t *testing.T) {
	a := arena.New()
	n, err := ParseSource(context.Background(), Source{"[test]", "x = 100\n"}, a, Config{})
	if err != nil {
		t.Fatal(err)
	}
	v := n.(*ast.Module).Body[0].(*ast.Assign).Value.(*ast.Constant).Value
	if got := v.RefCount(); got != 1 {
		t.Errorf("refcount before Free is %d, want 1", got)
	}
	a.Free()
	if got := v.RefCount(); got != 0 {
		t.Errorf("refcount after Free is %d, want 0", got)
	}
}
