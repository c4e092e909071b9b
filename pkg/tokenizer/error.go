package tokenizer

import (
	"fmt"

	"src.cronus.dev/pkg/token"
)

// Kind classifies tokenizer failures.
type Kind int

// Kinds of tokenizer failures.
const (
	// A character or character sequence that cannot start a token.
	KindBadToken Kind = iota + 1
	// A single-quoted string not closed before the end of the line.
	KindUnterminatedString
	// A triple-quoted string not closed before the end of input.
	KindUnterminatedTripleString
	// A dedent to a column that matches no outer indentation level.
	KindBadDedent
	// Indentation whose meaning depends on the tab size.
	KindTabSpace
	// Too many levels of indentation.
	KindTooDeep
	// A character after a line continuation backslash.
	KindLineContinuation
	// Tokenization was cancelled through its context.
	KindInterrupted
	// Memory for the token could not be obtained.
	KindNoMemory
	// Input ended inside an open bracket or after a continuation backslash.
	KindEOF
)

var kindNames = [...]string{
	KindBadToken:                 "bad token",
	KindUnterminatedString:       "unterminated string",
	KindUnterminatedTripleString: "unterminated triple-quoted string",
	KindBadDedent:                "bad dedent",
	KindTabSpace:                 "inconsistent tabs and spaces",
	KindTooDeep:                  "too deep indentation",
	KindLineContinuation:         "bad line continuation",
	KindInterrupted:              "interrupted",
	KindNoMemory:                 "out of memory",
	KindEOF:                      "EOF",
}

func (k Kind) String() string {
	if 0 < k && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a tokenizer failure.
type Error struct {
	Kind    Kind
	Message string
	// Position of the offending text.
	Pos      token.Pos
	From, To int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}
