// Package token defines the tokens consumed by the parser.
package token

import "fmt"

// Type is the category of a token.
type Type int

// Token types. Keyword types follow the operators.
const (
	ENDMARKER Type = iota
	NAME
	NUMBER
	STRING
	NEWLINE
	INDENT
	DEDENT

	LPAR
	RPAR
	LSQB
	RSQB
	COLON
	COMMA
	SEMI
	PLUS
	MINUS
	STAR
	SLASH
	BACKSLASH
	VBAR
	AMPER
	LESS
	GREATER
	EQUAL
	DOT
	PERCENT
	LBRACE
	RBRACE
	EQEQUAL
	NOTEQUAL
	LESSEQUAL
	GREATEREQUAL
	TILDE
	CIRCUMFLEX
	LEFTSHIFT
	RIGHTSHIFT
	DOUBLESTAR
	PLUSEQUAL
	MINEQUAL
	STAREQUAL
	SLASHEQUAL
	PERCENTEQUAL
	AMPEREQUAL
	VBAREQUAL
	CIRCUMFLEXEQUAL
	LEFTSHIFTEQUAL
	RIGHTSHIFTEQUAL
	DOUBLESTAREQUAL
	DOUBLESLASH
	DOUBLESLASHEQUAL
	AT
	ATEQUAL
	RARROW
	ELLIPSIS
	COLONEQUAL
	EXCLAMATION
	OP

	keywordsStart

	IF
	ELIF
	ELSE
	WHILE
	FOR
	IN
	DO
	FUNC
	CLASS
	RETURN
	BREAK
	CONTINUE
	PASS
	AND
	OR
	NOT
	IS
	NULL
	TRUE
	FALSE
	IMPORT
	FROM
	AS
	DEL
	GLOBAL
	NONLOCAL
	ASSERT
	RAISE
	TRY
	EXCEPT
	FINALLY
	WITH
	LAMBDA
	YIELD
	ASYNC
	AWAIT
	EXTENSION

	keywordsEnd

	ERRORTOKEN
)

var typeNames = map[Type]string{
	ENDMARKER: "ENDMARKER", NAME: "NAME", NUMBER: "NUMBER", STRING: "STRING",
	NEWLINE: "NEWLINE", INDENT: "INDENT", DEDENT: "DEDENT",
	ERRORTOKEN: "ERRORTOKEN", OP: "OP",
}

var operatorText = map[Type]string{
	LPAR: "(", RPAR: ")", LSQB: "[", RSQB: "]", COLON: ":", COMMA: ",",
	SEMI: ";", PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/",
	BACKSLASH: "\\", VBAR: "|", AMPER: "&", LESS: "<", GREATER: ">",
	EQUAL: "=", DOT: ".", PERCENT: "%", LBRACE: "{", RBRACE: "}",
	EQEQUAL: "==", NOTEQUAL: "!=", LESSEQUAL: "<=", GREATEREQUAL: ">=",
	TILDE: "~", CIRCUMFLEX: "^", LEFTSHIFT: "<<", RIGHTSHIFT: ">>",
	DOUBLESTAR: "**", PLUSEQUAL: "+=", MINEQUAL: "-=", STAREQUAL: "*=",
	SLASHEQUAL: "/=", PERCENTEQUAL: "%=", AMPEREQUAL: "&=",
	VBAREQUAL: "|=", CIRCUMFLEXEQUAL: "^=", LEFTSHIFTEQUAL: "<<=",
	RIGHTSHIFTEQUAL: ">>=", DOUBLESTAREQUAL: "**=", DOUBLESLASH: "//",
	DOUBLESLASHEQUAL: "//=", AT: "@", ATEQUAL: "@=", RARROW: "->",
	ELLIPSIS: "...", COLONEQUAL: ":=", EXCLAMATION: "!",
}

// String returns the name of a token type. Operators and keywords are shown
// quoted, the way they appear in grammar rules.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	if text, ok := operatorText[t]; ok {
		return "'" + text + "'"
	}
	if t.IsKeyword() {
		for word, kt := range defaultKeywords {
			if kt == t {
				return "'" + word + "'"
			}
		}
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// IsKeyword reports whether t is a keyword type.
func (t Type) IsKeyword() bool { return keywordsStart < t && t < keywordsEnd }

// IsOperator reports whether t is an operator type.
func (t Type) IsOperator() bool {
	_, ok := operatorText[t]
	return ok
}

// IsWhitespace reports whether t carries no visible text. Such tokens are
// skipped when computing the end position of a node.
func (t Type) IsWhitespace() bool {
	return t == NEWLINE || t == INDENT || t == DEDENT || t == ENDMARKER
}

// Pos is a position in source code. Lines are 1-based and columns are 0-based
// byte offsets within the line.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Col) }

// Token is a single token.
type Token struct {
	Type Type
	Text string
	// Start and End delimit the token by line and column.
	Start, End Pos
	// From and To delimit the token as byte offsets into the source.
	From, To int
	// Implicit is set for tokens that do not correspond to any source text,
	// such as a NEWLINE inserted at the end of input.
	Implicit bool
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q %s-%s", t.Type, t.Text, t.Start, t.End)
}
