// Package ast defines the syntax tree produced by the parser.
//
// Nodes fall into four categories, each represented by an interface: Mod for
// tree roots, Stmt, Expr and Pattern. The helper types Arguments, Arg,
// Keyword, Alias, WithItem, MatchCase, Comprehension and ExceptHandler
// appear only as fields of other nodes.
//
// Nodes are allocated by a Builder from an arena and live as long as the
// arena does. A node may be shared by several parents, so nodes must not be
// modified after construction.
package ast

import "src.cronus.dev/pkg/object"

// Node is implemented by all node types.
type Node interface {
	astNode()
}

// Pos is the source range of a node. Lines are 1-based, columns are 0-based
// byte offsets.
type Pos struct {
	Lineno       int
	ColOffset    int
	EndLineno    int
	EndColOffset int
}

// Span returns p itself. It is promoted to all node types that embed Pos.
func (p Pos) Span() Pos { return p }

// Spanned is implemented by nodes with a source range.
type Spanned interface {
	Node
	Span() Pos
}

// Mod is a tree root.
type Mod interface {
	Node
	mod()
}

// Stmt is a statement.
type Stmt interface {
	Spanned
	stmt()
}

// Expr is an expression.
type Expr interface {
	Spanned
	expr()
}

// Pattern is a pattern of a match statement.
type Pattern interface {
	Spanned
	pattern()
}

// Roots.

type Module struct {
	Body []Stmt
}

type Interactive struct {
	Body []Stmt
}

type Expression struct {
	Body Expr
}

// Statements.

type FunctionDef struct {
	Pos
	Name          string
	Args          *Arguments
	Body          []Stmt
	DecoratorList []Expr
	Returns       Expr
}

type AsyncFunctionDef struct {
	Pos
	Name          string
	Args          *Arguments
	Body          []Stmt
	DecoratorList []Expr
	Returns       Expr
}

type ClassDef struct {
	Pos
	Name          string
	Bases         []Expr
	Keywords      []*Keyword
	Body          []Stmt
	DecoratorList []Expr
}

type Return struct {
	Pos
	Value Expr
}

type Delete struct {
	Pos
	Targets []Expr
}

type Assign struct {
	Pos
	Targets []Expr
	Value   Expr
}

type AugAssign struct {
	Pos
	Target Expr
	Op     Operator
	Value  Expr
}

type AnnAssign struct {
	Pos
	Target     Expr
	Annotation Expr
	Value      Expr
	// Simple is set when the target is a plain name not enclosed in
	// parentheses.
	Simple bool
}

type For struct {
	Pos
	Target Expr
	Iter   Expr
	Body   []Stmt
	Orelse []Stmt
}

type AsyncFor struct {
	Pos
	Target Expr
	Iter   Expr
	Body   []Stmt
	Orelse []Stmt
}

type While struct {
	Pos
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
}

type If struct {
	Pos
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
}

type With struct {
	Pos
	Items []*WithItem
	Body  []Stmt
}

type AsyncWith struct {
	Pos
	Items []*WithItem
	Body  []Stmt
}

type Match struct {
	Pos
	Subject Expr
	Cases   []*MatchCase
}

type Raise struct {
	Pos
	Exc   Expr
	Cause Expr
}

type Try struct {
	Pos
	Body      []Stmt
	Handlers  []*ExceptHandler
	Orelse    []Stmt
	Finalbody []Stmt
}

type Assert struct {
	Pos
	Test Expr
	Msg  Expr
}

type Import struct {
	Pos
	Names []*Alias
}

type ImportFrom struct {
	Pos
	Module string
	Names  []*Alias
	Level  int
}

type Global struct {
	Pos
	Names []string
}

type Nonlocal struct {
	Pos
	Names []string
}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	Pos
	Value Expr
}

type Pass struct{ Pos }

type Break struct{ Pos }

type Continue struct{ Pos }

// Expressions.

type BoolOp struct {
	Pos
	Op     BoolOperator
	Values []Expr
}

type NamedExpr struct {
	Pos
	Target Expr
	Value  Expr
}

type BinOp struct {
	Pos
	Op    Operator
	Left  Expr
	Right Expr
}

type UnaryOp struct {
	Pos
	Op      UnaryOperator
	Operand Expr
}

type Lambda struct {
	Pos
	Args *Arguments
	Body Expr
}

type IfExp struct {
	Pos
	Test   Expr
	Body   Expr
	Orelse Expr
}

// Dict is a dict display. A nil key marks a "**" unpacking of the
// corresponding value.
type Dict struct {
	Pos
	Keys   []Expr
	Values []Expr
}

type Set struct {
	Pos
	Elts []Expr
}

type ListComp struct {
	Pos
	Elt        Expr
	Generators []*Comprehension
}

type SetComp struct {
	Pos
	Elt        Expr
	Generators []*Comprehension
}

type DictComp struct {
	Pos
	Key        Expr
	Value      Expr
	Generators []*Comprehension
}

type GeneratorExp struct {
	Pos
	Elt        Expr
	Generators []*Comprehension
}

type Await struct {
	Pos
	Value Expr
}

type Yield struct {
	Pos
	Value Expr
}

type YieldFrom struct {
	Pos
	Value Expr
}

// Compare is a chain of comparisons. Ops and Comparators have the same
// length.
type Compare struct {
	Pos
	Left        Expr
	Ops         []CmpOperator
	Comparators []Expr
}

type Call struct {
	Pos
	Func     Expr
	Args     []Expr
	Keywords []*Keyword
}

// FormattedValue is a replacement field of an f-string. Conversion is one of
// 's', 'r', 'a', or 0 for none.
type FormattedValue struct {
	Pos
	Value      Expr
	Conversion rune
	FormatSpec Expr
}

type JoinedStr struct {
	Pos
	Values []Expr
}

type Constant struct {
	Pos
	Value object.Object
	// Kind is "u" for strings with a u prefix and empty otherwise.
	Kind string
}

type Attribute struct {
	Pos
	Value Expr
	Attr  string
	Ctx   ExprContext
}

type Subscript struct {
	Pos
	Value Expr
	Slice Expr
	Ctx   ExprContext
}

type Starred struct {
	Pos
	Value Expr
	Ctx   ExprContext
}

type Name struct {
	Pos
	Id  string
	Ctx ExprContext
}

type List struct {
	Pos
	Elts []Expr
	Ctx  ExprContext
}

type Tuple struct {
	Pos
	Elts []Expr
	Ctx  ExprContext
}

type Slice struct {
	Pos
	Lower Expr
	Upper Expr
	Step  Expr
}

// Patterns.

type MatchValue struct {
	Pos
	Value Expr
}

// MatchSingleton matches True, False or Null by identity.
type MatchSingleton struct {
	Pos
	Value object.Object
}

type MatchSequence struct {
	Pos
	Patterns []Pattern
}

// MatchMapping matches a mapping. Rest is the name bound by a "**rest"
// element, or empty.
type MatchMapping struct {
	Pos
	Keys     []Expr
	Patterns []Pattern
	Rest     string
}

type MatchClass struct {
	Pos
	Cls         Expr
	Patterns    []Pattern
	KwdAttrs    []string
	KwdPatterns []Pattern
}

// MatchStar is a "*name" element of a sequence pattern. An empty Name stands
// for "*_".
type MatchStar struct {
	Pos
	Name string
}

// MatchAs is "pattern as name", a capture pattern (nil Pattern) or the
// wildcard (nil Pattern, empty Name).
type MatchAs struct {
	Pos
	Pattern Pattern
	Name    string
}

type MatchOr struct {
	Pos
	Patterns []Pattern
}

// Helpers.

// Arguments is the parameter list of a function or lambda. KwDefaults has
// the same length as KwOnlyArgs, with nil entries for parameters without a
// default; Defaults applies to the last parameters of PosOnlyArgs and Args.
type Arguments struct {
	PosOnlyArgs []*Arg
	Args        []*Arg
	Vararg      *Arg
	KwOnlyArgs  []*Arg
	KwDefaults  []Expr
	Kwarg       *Arg
	Defaults    []Expr
}

type Arg struct {
	Pos
	Arg        string
	Annotation Expr
}

// Keyword is a keyword argument of a call or class definition. An empty Arg
// marks a "**" unpacking.
type Keyword struct {
	Pos
	Arg   string
	Value Expr
}

type Alias struct {
	Pos
	Name   string
	Asname string
}

type WithItem struct {
	ContextExpr  Expr
	OptionalVars Expr
}

type MatchCase struct {
	Pattern Pattern
	Guard   Expr
	Body    []Stmt
}

type Comprehension struct {
	Target  Expr
	Iter    Expr
	Ifs     []Expr
	IsAsync bool
}

type ExceptHandler struct {
	Pos
	Type Expr
	Name string
	Body []Stmt
}

func (*Module) astNode()           {}
func (*Interactive) astNode()      {}
func (*Expression) astNode()       {}
func (*FunctionDef) astNode()      {}
func (*AsyncFunctionDef) astNode() {}
func (*ClassDef) astNode()         {}
func (*Return) astNode()           {}
func (*Delete) astNode()           {}
func (*Assign) astNode()           {}
func (*AugAssign) astNode()        {}
func (*AnnAssign) astNode()        {}
func (*For) astNode()              {}
func (*AsyncFor) astNode()         {}
func (*While) astNode()            {}
func (*If) astNode()               {}
func (*With) astNode()             {}
func (*AsyncWith) astNode()        {}
func (*Match) astNode()            {}
func (*Raise) astNode()            {}
func (*Try) astNode()              {}
func (*Assert) astNode()           {}
func (*Import) astNode()           {}
func (*ImportFrom) astNode()       {}
func (*Global) astNode()           {}
func (*Nonlocal) astNode()         {}
func (*ExprStmt) astNode()         {}
func (*Pass) astNode()             {}
func (*Break) astNode()            {}
func (*Continue) astNode()         {}
func (*BoolOp) astNode()           {}
func (*NamedExpr) astNode()        {}
func (*BinOp) astNode()            {}
func (*UnaryOp) astNode()          {}
func (*Lambda) astNode()           {}
func (*IfExp) astNode()            {}
func (*Dict) astNode()             {}
func (*Set) astNode()              {}
func (*ListComp) astNode()         {}
func (*SetComp) astNode()          {}
func (*DictComp) astNode()         {}
func (*GeneratorExp) astNode()     {}
func (*Await) astNode()            {}
func (*Yield) astNode()            {}
func (*YieldFrom) astNode()        {}
func (*Compare) astNode()          {}
func (*Call) astNode()             {}
func (*FormattedValue) astNode()   {}
func (*JoinedStr) astNode()        {}
func (*Constant) astNode()         {}
func (*Attribute) astNode()        {}
func (*Subscript) astNode()        {}
func (*Starred) astNode()          {}
func (*Name) astNode()             {}
func (*List) astNode()             {}
func (*Tuple) astNode()            {}
func (*Slice) astNode()            {}
func (*MatchValue) astNode()       {}
func (*MatchSingleton) astNode()   {}
func (*MatchSequence) astNode()    {}
func (*MatchMapping) astNode()     {}
func (*MatchClass) astNode()       {}
func (*MatchStar) astNode()        {}
func (*MatchAs) astNode()          {}
func (*MatchOr) astNode()          {}
func (*Arguments) astNode()        {}
func (*Arg) astNode()              {}
func (*Keyword) astNode()          {}
func (*Alias) astNode()            {}
func (*WithItem) astNode()         {}
func (*MatchCase) astNode()        {}
func (*Comprehension) astNode()    {}
func (*ExceptHandler) astNode()    {}

func (*Module) mod()      {}
func (*Interactive) mod() {}
func (*Expression) mod()  {}

func (*FunctionDef) stmt()      {}
func (*AsyncFunctionDef) stmt() {}
func (*ClassDef) stmt()         {}
func (*Return) stmt()           {}
func (*Delete) stmt()           {}
func (*Assign) stmt()           {}
func (*AugAssign) stmt()        {}
func (*AnnAssign) stmt()        {}
func (*For) stmt()              {}
func (*AsyncFor) stmt()         {}
func (*While) stmt()            {}
func (*If) stmt()               {}
func (*With) stmt()             {}
func (*AsyncWith) stmt()        {}
func (*Match) stmt()            {}
func (*Raise) stmt()            {}
func (*Try) stmt()              {}
func (*Assert) stmt()           {}
func (*Import) stmt()           {}
func (*ImportFrom) stmt()       {}
func (*Global) stmt()           {}
func (*Nonlocal) stmt()         {}
func (*ExprStmt) stmt()         {}
func (*Pass) stmt()             {}
func (*Break) stmt()            {}
func (*Continue) stmt()         {}

func (*BoolOp) expr()         {}
func (*NamedExpr) expr()      {}
func (*BinOp) expr()          {}
func (*UnaryOp) expr()        {}
func (*Lambda) expr()         {}
func (*IfExp) expr()          {}
func (*Dict) expr()           {}
func (*Set) expr()            {}
func (*ListComp) expr()       {}
func (*SetComp) expr()        {}
func (*DictComp) expr()       {}
func (*GeneratorExp) expr()   {}
func (*Await) expr()          {}
func (*Yield) expr()          {}
func (*YieldFrom) expr()      {}
func (*Compare) expr()        {}
func (*Call) expr()           {}
func (*FormattedValue) expr() {}
func (*JoinedStr) expr()      {}
func (*Constant) expr()       {}
func (*Attribute) expr()      {}
func (*Subscript) expr()      {}
func (*Starred) expr()        {}
func (*Name) expr()           {}
func (*List) expr()           {}
func (*Tuple) expr()          {}
func (*Slice) expr()          {}

func (*MatchValue) pattern()     {}
func (*MatchSingleton) pattern() {}
func (*MatchSequence) pattern()  {}
func (*MatchMapping) pattern()   {}
func (*MatchClass) pattern()     {}
func (*MatchStar) pattern()      {}
func (*MatchAs) pattern()        {}
func (*MatchOr) pattern()        {}
