package ast

import (
	"errors"
	"fmt"
	"reflect"

	"src.cronus.dev/pkg/arena"
	"src.cronus.dev/pkg/object"
)

// ErrMissingField is wrapped by the errors a Builder records when a required
// field of a node is missing.
var ErrMissingField = errors.New("required field missing")

// Builder constructs nodes in an arena.
//
// A constructor whose required fields are missing still returns a node, but
// records an error that wraps ErrMissingField; only the first error is kept.
// Such errors indicate a bug in the caller rather than in the parsed source.
type Builder struct {
	a   *arena.Arena
	err error
}

// NewBuilder returns a Builder that allocates from a.
func NewBuilder(a *arena.Arena) *Builder {
	return &Builder{a: a}
}

// Arena returns the arena the Builder allocates from.
func (b *Builder) Arena() *arena.Arena { return b.a }

// Err returns the first error recorded by a constructor.
func (b *Builder) Err() error { return b.err }

func alloc[T any](b *Builder) *T { return arena.NewOf[T](b.a) }

// Seq copies s into the arena. Callers collect children in ordinary slices
// and call Seq once the sequence is complete.
func Seq[T any](b *Builder, s []T) []T { return arena.Copy(b.a, s) }

// Identifier copies an identifier into the arena.
func (b *Builder) Identifier(s string) string {
	if s == "" {
		return ""
	}
	return b.a.String(s)
}

// Checks required fields, given as alternating names and values.
func (b *Builder) require(kind string, fields ...any) {
	for i := 0; i+1 < len(fields); i += 2 {
		if isNil(fields[i+1]) {
			if b.err == nil {
				b.err = fmt.Errorf("%w: field %q of %s", ErrMissingField, fields[i], kind)
			}
			return
		}
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	case reflect.String:
		return rv.Len() == 0
	}
	return false
}

func (b *Builder) Module(body []Stmt) *Module {
	n := alloc[Module](b)
	n.Body = body
	return n
}

func (b *Builder) Interactive(body []Stmt) *Interactive {
	n := alloc[Interactive](b)
	n.Body = body
	return n
}

func (b *Builder) Expression(body Expr) *Expression {
	b.require("Expression", "body", body)
	n := alloc[Expression](b)
	n.Body = body
	return n
}

func (b *Builder) FunctionDef(name string, args *Arguments, body []Stmt, decorators []Expr, returns Expr, pos Pos) *FunctionDef {
	b.require("FunctionDef", "name", name, "args", args)
	n := alloc[FunctionDef](b)
	*n = FunctionDef{pos, name, args, body, decorators, returns}
	return n
}

func (b *Builder) AsyncFunctionDef(name string, args *Arguments, body []Stmt, decorators []Expr, returns Expr, pos Pos) *AsyncFunctionDef {
	b.require("AsyncFunctionDef", "name", name, "args", args)
	n := alloc[AsyncFunctionDef](b)
	*n = AsyncFunctionDef{pos, name, args, body, decorators, returns}
	return n
}

func (b *Builder) ClassDef(name string, bases []Expr, keywords []*Keyword, body []Stmt, decorators []Expr, pos Pos) *ClassDef {
	b.require("ClassDef", "name", name)
	n := alloc[ClassDef](b)
	*n = ClassDef{pos, name, bases, keywords, body, decorators}
	return n
}

func (b *Builder) Return(value Expr, pos Pos) *Return {
	n := alloc[Return](b)
	*n = Return{pos, value}
	return n
}

func (b *Builder) Delete(targets []Expr, pos Pos) *Delete {
	n := alloc[Delete](b)
	*n = Delete{pos, targets}
	return n
}

func (b *Builder) Assign(targets []Expr, value Expr, pos Pos) *Assign {
	b.require("Assign", "value", value)
	n := alloc[Assign](b)
	*n = Assign{pos, targets, value}
	return n
}

func (b *Builder) AugAssign(target Expr, op Operator, value Expr, pos Pos) *AugAssign {
	b.require("AugAssign", "target", target, "value", value)
	n := alloc[AugAssign](b)
	*n = AugAssign{pos, target, op, value}
	return n
}

func (b *Builder) AnnAssign(target, annotation, value Expr, simple bool, pos Pos) *AnnAssign {
	b.require("AnnAssign", "target", target, "annotation", annotation)
	n := alloc[AnnAssign](b)
	*n = AnnAssign{pos, target, annotation, value, simple}
	return n
}

func (b *Builder) For(target, iter Expr, body, orelse []Stmt, pos Pos) *For {
	b.require("For", "target", target, "iter", iter)
	n := alloc[For](b)
	*n = For{pos, target, iter, body, orelse}
	return n
}

func (b *Builder) AsyncFor(target, iter Expr, body, orelse []Stmt, pos Pos) *AsyncFor {
	b.require("AsyncFor", "target", target, "iter", iter)
	n := alloc[AsyncFor](b)
	*n = AsyncFor{pos, target, iter, body, orelse}
	return n
}

func (b *Builder) While(test Expr, body, orelse []Stmt, pos Pos) *While {
	b.require("While", "test", test)
	n := alloc[While](b)
	*n = While{pos, test, body, orelse}
	return n
}

func (b *Builder) If(test Expr, body, orelse []Stmt, pos Pos) *If {
	b.require("If", "test", test)
	n := alloc[If](b)
	*n = If{pos, test, body, orelse}
	return n
}

func (b *Builder) With(items []*WithItem, body []Stmt, pos Pos) *With {
	n := alloc[With](b)
	*n = With{pos, items, body}
	return n
}

func (b *Builder) AsyncWith(items []*WithItem, body []Stmt, pos Pos) *AsyncWith {
	n := alloc[AsyncWith](b)
	*n = AsyncWith{pos, items, body}
	return n
}

func (b *Builder) Match(subject Expr, cases []*MatchCase, pos Pos) *Match {
	b.require("Match", "subject", subject)
	n := alloc[Match](b)
	*n = Match{pos, subject, cases}
	return n
}

func (b *Builder) Raise(exc, cause Expr, pos Pos) *Raise {
	n := alloc[Raise](b)
	*n = Raise{pos, exc, cause}
	return n
}

func (b *Builder) Try(body []Stmt, handlers []*ExceptHandler, orelse, finalbody []Stmt, pos Pos) *Try {
	n := alloc[Try](b)
	*n = Try{pos, body, handlers, orelse, finalbody}
	return n
}

func (b *Builder) Assert(test, msg Expr, pos Pos) *Assert {
	b.require("Assert", "test", test)
	n := alloc[Assert](b)
	*n = Assert{pos, test, msg}
	return n
}

func (b *Builder) Import(names []*Alias, pos Pos) *Import {
	n := alloc[Import](b)
	*n = Import{pos, names}
	return n
}

func (b *Builder) ImportFrom(module string, names []*Alias, level int, pos Pos) *ImportFrom {
	n := alloc[ImportFrom](b)
	*n = ImportFrom{pos, module, names, level}
	return n
}

func (b *Builder) Global(names []string, pos Pos) *Global {
	n := alloc[Global](b)
	*n = Global{pos, names}
	return n
}

func (b *Builder) Nonlocal(names []string, pos Pos) *Nonlocal {
	n := alloc[Nonlocal](b)
	*n = Nonlocal{pos, names}
	return n
}

func (b *Builder) ExprStmt(value Expr, pos Pos) *ExprStmt {
	b.require("Expr", "value", value)
	n := alloc[ExprStmt](b)
	*n = ExprStmt{pos, value}
	return n
}

func (b *Builder) Pass(pos Pos) *Pass {
	n := alloc[Pass](b)
	n.Pos = pos
	return n
}

func (b *Builder) Break(pos Pos) *Break {
	n := alloc[Break](b)
	n.Pos = pos
	return n
}

func (b *Builder) Continue(pos Pos) *Continue {
	n := alloc[Continue](b)
	n.Pos = pos
	return n
}

func (b *Builder) BoolOp(op BoolOperator, values []Expr, pos Pos) *BoolOp {
	n := alloc[BoolOp](b)
	*n = BoolOp{pos, op, values}
	return n
}

func (b *Builder) NamedExpr(target, value Expr, pos Pos) *NamedExpr {
	b.require("NamedExpr", "target", target, "value", value)
	n := alloc[NamedExpr](b)
	*n = NamedExpr{pos, target, value}
	return n
}

func (b *Builder) BinOp(left Expr, op Operator, right Expr, pos Pos) *BinOp {
	b.require("BinOp", "left", left, "right", right)
	n := alloc[BinOp](b)
	*n = BinOp{pos, op, left, right}
	return n
}

func (b *Builder) UnaryOp(op UnaryOperator, operand Expr, pos Pos) *UnaryOp {
	b.require("UnaryOp", "operand", operand)
	n := alloc[UnaryOp](b)
	*n = UnaryOp{pos, op, operand}
	return n
}

func (b *Builder) Lambda(args *Arguments, body Expr, pos Pos) *Lambda {
	b.require("Lambda", "args", args, "body", body)
	n := alloc[Lambda](b)
	*n = Lambda{pos, args, body}
	return n
}

func (b *Builder) IfExp(test, body, orelse Expr, pos Pos) *IfExp {
	b.require("IfExp", "test", test, "body", body, "orelse", orelse)
	n := alloc[IfExp](b)
	*n = IfExp{pos, test, body, orelse}
	return n
}

func (b *Builder) Dict(keys, values []Expr, pos Pos) *Dict {
	n := alloc[Dict](b)
	*n = Dict{pos, keys, values}
	return n
}

func (b *Builder) Set(elts []Expr, pos Pos) *Set {
	n := alloc[Set](b)
	*n = Set{pos, elts}
	return n
}

func (b *Builder) ListComp(elt Expr, generators []*Comprehension, pos Pos) *ListComp {
	b.require("ListComp", "elt", elt)
	n := alloc[ListComp](b)
	*n = ListComp{pos, elt, generators}
	return n
}

func (b *Builder) SetComp(elt Expr, generators []*Comprehension, pos Pos) *SetComp {
	b.require("SetComp", "elt", elt)
	n := alloc[SetComp](b)
	*n = SetComp{pos, elt, generators}
	return n
}

func (b *Builder) DictComp(key, value Expr, generators []*Comprehension, pos Pos) *DictComp {
	b.require("DictComp", "key", key, "value", value)
	n := alloc[DictComp](b)
	*n = DictComp{pos, key, value, generators}
	return n
}

func (b *Builder) GeneratorExp(elt Expr, generators []*Comprehension, pos Pos) *GeneratorExp {
	b.require("GeneratorExp", "elt", elt)
	n := alloc[GeneratorExp](b)
	*n = GeneratorExp{pos, elt, generators}
	return n
}

func (b *Builder) Await(value Expr, pos Pos) *Await {
	b.require("Await", "value", value)
	n := alloc[Await](b)
	*n = Await{pos, value}
	return n
}

func (b *Builder) Yield(value Expr, pos Pos) *Yield {
	n := alloc[Yield](b)
	*n = Yield{pos, value}
	return n
}

func (b *Builder) YieldFrom(value Expr, pos Pos) *YieldFrom {
	b.require("YieldFrom", "value", value)
	n := alloc[YieldFrom](b)
	*n = YieldFrom{pos, value}
	return n
}

func (b *Builder) Compare(left Expr, ops []CmpOperator, comparators []Expr, pos Pos) *Compare {
	b.require("Compare", "left", left)
	n := alloc[Compare](b)
	*n = Compare{pos, left, ops, comparators}
	return n
}

func (b *Builder) Call(fn Expr, args []Expr, keywords []*Keyword, pos Pos) *Call {
	b.require("Call", "func", fn)
	n := alloc[Call](b)
	*n = Call{pos, fn, args, keywords}
	return n
}

func (b *Builder) FormattedValue(value Expr, conversion rune, formatSpec Expr, pos Pos) *FormattedValue {
	b.require("FormattedValue", "value", value)
	n := alloc[FormattedValue](b)
	*n = FormattedValue{pos, value, conversion, formatSpec}
	return n
}

func (b *Builder) JoinedStr(values []Expr, pos Pos) *JoinedStr {
	n := alloc[JoinedStr](b)
	*n = JoinedStr{pos, values}
	return n
}

// Constant builds a Constant node. It takes over the caller's reference to
// value, which is released when the arena is freed.
func (b *Builder) Constant(value object.Object, kind string, pos Pos) *Constant {
	b.require("Constant", "value", value)
	if value != nil {
		b.a.Register(value)
	}
	n := alloc[Constant](b)
	*n = Constant{pos, value, kind}
	return n
}

func (b *Builder) Attribute(value Expr, attr string, ctx ExprContext, pos Pos) *Attribute {
	b.require("Attribute", "value", value, "attr", attr)
	n := alloc[Attribute](b)
	*n = Attribute{pos, value, attr, ctx}
	return n
}

func (b *Builder) Subscript(value, slice Expr, ctx ExprContext, pos Pos) *Subscript {
	b.require("Subscript", "value", value, "slice", slice)
	n := alloc[Subscript](b)
	*n = Subscript{pos, value, slice, ctx}
	return n
}

func (b *Builder) Starred(value Expr, ctx ExprContext, pos Pos) *Starred {
	b.require("Starred", "value", value)
	n := alloc[Starred](b)
	*n = Starred{pos, value, ctx}
	return n
}

func (b *Builder) Name(id string, ctx ExprContext, pos Pos) *Name {
	b.require("Name", "id", id)
	n := alloc[Name](b)
	*n = Name{pos, id, ctx}
	return n
}

func (b *Builder) List(elts []Expr, ctx ExprContext, pos Pos) *List {
	n := alloc[List](b)
	*n = List{pos, elts, ctx}
	return n
}

func (b *Builder) Tuple(elts []Expr, ctx ExprContext, pos Pos) *Tuple {
	n := alloc[Tuple](b)
	*n = Tuple{pos, elts, ctx}
	return n
}

func (b *Builder) Slice(lower, upper, step Expr, pos Pos) *Slice {
	n := alloc[Slice](b)
	*n = Slice{pos, lower, upper, step}
	return n
}

func (b *Builder) MatchValue(value Expr, pos Pos) *MatchValue {
	b.require("MatchValue", "value", value)
	n := alloc[MatchValue](b)
	*n = MatchValue{pos, value}
	return n
}

// MatchSingleton takes over the caller's reference to value.
func (b *Builder) MatchSingleton(value object.Object, pos Pos) *MatchSingleton {
	b.require("MatchSingleton", "value", value)
	if value != nil {
		b.a.Register(value)
	}
	n := alloc[MatchSingleton](b)
	*n = MatchSingleton{pos, value}
	return n
}

func (b *Builder) MatchSequence(patterns []Pattern, pos Pos) *MatchSequence {
	n := alloc[MatchSequence](b)
	*n = MatchSequence{pos, patterns}
	return n
}

func (b *Builder) MatchMapping(keys []Expr, patterns []Pattern, rest string, pos Pos) *MatchMapping {
	n := alloc[MatchMapping](b)
	*n = MatchMapping{pos, keys, patterns, rest}
	return n
}

func (b *Builder) MatchClass(cls Expr, patterns []Pattern, kwdAttrs []string, kwdPatterns []Pattern, pos Pos) *MatchClass {
	b.require("MatchClass", "cls", cls)
	n := alloc[MatchClass](b)
	*n = MatchClass{pos, cls, patterns, kwdAttrs, kwdPatterns}
	return n
}

func (b *Builder) MatchStar(name string, pos Pos) *MatchStar {
	n := alloc[MatchStar](b)
	*n = MatchStar{pos, name}
	return n
}

func (b *Builder) MatchAs(pattern Pattern, name string, pos Pos) *MatchAs {
	n := alloc[MatchAs](b)
	*n = MatchAs{pos, pattern, name}
	return n
}

func (b *Builder) MatchOr(patterns []Pattern, pos Pos) *MatchOr {
	n := alloc[MatchOr](b)
	*n = MatchOr{pos, patterns}
	return n
}

func (b *Builder) Arguments(posOnly, args []*Arg, vararg *Arg, kwOnly []*Arg, kwDefaults []Expr, kwarg *Arg, defaults []Expr) *Arguments {
	n := alloc[Arguments](b)
	*n = Arguments{posOnly, args, vararg, kwOnly, kwDefaults, kwarg, defaults}
	return n
}

// EmptyArguments returns the parameter list of a function without
// parameters.
func (b *Builder) EmptyArguments() *Arguments {
	return alloc[Arguments](b)
}

func (b *Builder) Arg(arg string, annotation Expr, pos Pos) *Arg {
	b.require("arg", "arg", arg)
	n := alloc[Arg](b)
	*n = Arg{pos, arg, annotation}
	return n
}

func (b *Builder) Keyword(arg string, value Expr, pos Pos) *Keyword {
	b.require("keyword", "value", value)
	n := alloc[Keyword](b)
	*n = Keyword{pos, arg, value}
	return n
}

func (b *Builder) Alias(name, asname string, pos Pos) *Alias {
	b.require("alias", "name", name)
	n := alloc[Alias](b)
	*n = Alias{pos, name, asname}
	return n
}

func (b *Builder) WithItem(contextExpr, optionalVars Expr) *WithItem {
	b.require("withitem", "context_expr", contextExpr)
	n := alloc[WithItem](b)
	*n = WithItem{contextExpr, optionalVars}
	return n
}

func (b *Builder) MatchCase(pattern Pattern, guard Expr, body []Stmt) *MatchCase {
	b.require("match_case", "pattern", pattern)
	n := alloc[MatchCase](b)
	*n = MatchCase{pattern, guard, body}
	return n
}

func (b *Builder) Comprehension(target, iter Expr, ifs []Expr, isAsync bool) *Comprehension {
	b.require("comprehension", "target", target, "iter", iter)
	n := alloc[Comprehension](b)
	*n = Comprehension{target, iter, ifs, isAsync}
	return n
}

func (b *Builder) ExceptHandler(typ Expr, name string, body []Stmt, pos Pos) *ExceptHandler {
	n := alloc[ExceptHandler](b)
	*n = ExceptHandler{pos, typ, name, body}
	return n
}

// SetContext returns a copy of e with the given context. Tuples, lists and
// starred expressions are copied recursively. Expressions that carry no
// context are returned unchanged. The original is never modified, since it
// may still be referenced from a memoized result.
func (b *Builder) SetContext(e Expr, ctx ExprContext) Expr {
	switch e := e.(type) {
	case *Name:
		return b.Name(e.Id, ctx, e.Pos)
	case *Attribute:
		return b.Attribute(e.Value, e.Attr, ctx, e.Pos)
	case *Subscript:
		return b.Subscript(e.Value, e.Slice, ctx, e.Pos)
	case *Starred:
		return b.Starred(b.SetContext(e.Value, ctx), ctx, e.Pos)
	case *List:
		return b.List(b.setContextSeq(e.Elts, ctx), ctx, e.Pos)
	case *Tuple:
		return b.Tuple(b.setContextSeq(e.Elts, ctx), ctx, e.Pos)
	}
	return e
}

func (b *Builder) setContextSeq(elts []Expr, ctx ExprContext) []Expr {
	if len(elts) == 0 {
		return nil
	}
	s := arena.MakeSlice[Expr](b.a, len(elts))
	for i, elt := range elts {
		s[i] = b.SetContext(elt, ctx)
	}
	return s
}
