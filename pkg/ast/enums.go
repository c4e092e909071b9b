package ast

import "fmt"

// BoolOperator is the operator of a BoolOp.
type BoolOperator int

const (
	And BoolOperator = iota
	Or
)

var boolOperatorNames = [...]string{And: "And", Or: "Or"}

func (op BoolOperator) String() string { return enumName(boolOperatorNames[:], int(op), "BoolOperator") }

// Operator is the operator of a BinOp or AugAssign.
type Operator int

const (
	Add Operator = iota
	Sub
	Mult
	MatMult
	Div
	Modulo
	Pow
	LShift
	RShift
	BitOr
	BitXor
	BitAnd
	FloorDiv
)

var operatorNames = [...]string{
	Add: "Add", Sub: "Sub", Mult: "Mult", MatMult: "MatMult", Div: "Div",
	Modulo: "Mod", Pow: "Pow", LShift: "LShift", RShift: "RShift",
	BitOr: "BitOr", BitXor: "BitXor", BitAnd: "BitAnd", FloorDiv: "FloorDiv",
}

func (op Operator) String() string { return enumName(operatorNames[:], int(op), "Operator") }

// UnaryOperator is the operator of a UnaryOp.
type UnaryOperator int

const (
	Invert UnaryOperator = iota
	Not
	UAdd
	USub
)

var unaryOperatorNames = [...]string{Invert: "Invert", Not: "Not", UAdd: "UAdd", USub: "USub"}

func (op UnaryOperator) String() string {
	return enumName(unaryOperatorNames[:], int(op), "UnaryOperator")
}

// CmpOperator is an operator of a Compare.
type CmpOperator int

const (
	Eq CmpOperator = iota
	NotEq
	Lt
	LtE
	Gt
	GtE
	Is
	IsNot
	In
	NotIn
)

var cmpOperatorNames = [...]string{
	Eq: "Eq", NotEq: "NotEq", Lt: "Lt", LtE: "LtE", Gt: "Gt", GtE: "GtE",
	Is: "Is", IsNot: "IsNot", In: "In", NotIn: "NotIn",
}

func (op CmpOperator) String() string { return enumName(cmpOperatorNames[:], int(op), "CmpOperator") }

// ExprContext says whether an expression is read, assigned to or deleted.
type ExprContext int

const (
	Load ExprContext = iota
	Store
	Del
)

var exprContextNames = [...]string{Load: "Load", Store: "Store", Del: "Del"}

func (c ExprContext) String() string { return enumName(exprContextNames[:], int(c), "ExprContext") }

func enumName(names []string, i int, typ string) string {
	if 0 <= i && i < len(names) {
		return names[i]
	}
	return fmt.Sprintf("%s(%d)", typ, i)
}
