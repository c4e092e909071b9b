// Package tokenizer splits Cronus source code into tokens.
//
// The tokenizer works on a complete source string. It tracks indentation with
// a stack of columns and emits INDENT and DEDENT tokens when the indentation
// of a logical line changes. Newlines inside brackets and after a line
// continuation backslash do not end a logical line.
package tokenizer

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"src.cronus.dev/pkg/token"
)

// Limits of the tokenizer.
const (
	TabSize   = 8
	MaxIndent = 100
	MaxParen  = 200
)

// Tokenizer produces tokens from a source string.
type Tokenizer struct {
	ctx  context.Context
	name string
	src  string

	pos       int
	line      int
	lineStart int

	indents    []int
	altIndents []int
	pending    int // > 0: INDENTs to emit; < 0: DEDENTs to emit

	parens    []byte
	atBOL     bool
	lineEmpty bool // no token emitted on the current logical line
	done      bool
	err       *Error
}

// New creates a Tokenizer. The context is checked at the start of every line;
// once it is done, Next fails with KindInterrupted.
func New(ctx context.Context, name, src string) *Tokenizer {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Tokenizer{
		ctx: ctx, name: name, src: src,
		line: 1, indents: []int{0}, altIndents: []int{0},
		atBOL: true, lineEmpty: true,
	}
}

// Name returns the name of the source.
func (t *Tokenizer) Name() string { return t.name }

// Source returns the source text.
func (t *Tokenizer) Source() string { return t.src }

// All returns all tokens up to and including ENDMARKER, or the first error.
func (t *Tokenizer) All() ([]token.Token, error) {
	var toks []token.Token
	for {
		tok, err := t.Next()
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
		if tok.Type == token.ENDMARKER {
			return toks, nil
		}
	}
}

func (t *Tokenizer) posAt(offset int) token.Pos {
	return token.Pos{Line: t.line, Col: offset - t.lineStart}
}

func (t *Tokenizer) fail(kind Kind, from, to int, msg string) (token.Token, error) {
	t.err = &Error{Kind: kind, Message: msg, Pos: t.posAt(from), From: from, To: to}
	return token.Token{Type: token.ERRORTOKEN, Start: t.posAt(from), From: from, To: to}, t.err
}

func (t *Tokenizer) make(typ token.Type, from int) token.Token {
	t.lineEmpty = false
	return token.Token{
		Type: typ, Text: t.src[from:t.pos],
		Start: t.posAt(from), End: t.posAt(t.pos), From: from, To: t.pos,
	}
}

func (t *Tokenizer) implicit(typ token.Type) token.Token {
	p := t.posAt(t.pos)
	return token.Token{Type: typ, Start: p, End: p, From: t.pos, To: t.pos, Implicit: true}
}

func (t *Tokenizer) peekByte(i int) byte {
	if t.pos+i < len(t.src) {
		return t.src[t.pos+i]
	}
	return 0
}

func (t *Tokenizer) newline(at int) {
	t.line++
	t.lineStart = at
}

// Next returns the next token. After an error, every call returns the same
// error; after ENDMARKER, every call returns ENDMARKER.
func (t *Tokenizer) Next() (token.Token, error) {
	if t.err != nil {
		return token.Token{Type: token.ERRORTOKEN}, t.err
	}
	if t.pending != 0 {
		return t.emitPending(), nil
	}
	if t.done {
		return t.implicit(token.ENDMARKER), nil
	}

	if t.atBOL && len(t.parens) == 0 {
		if err := t.ctx.Err(); err != nil {
			return t.fail(KindInterrupted, t.pos, t.pos, "interrupted")
		}
		if tok, err, ok := t.indentation(); ok {
			return tok, err
		}
	}

	for {
		t.skipSpace()
		if t.pos >= len(t.src) {
			return t.eof()
		}
		c := t.src[t.pos]
		switch {
		case c == '#':
			for t.pos < len(t.src) && t.src[t.pos] != '\n' && t.src[t.pos] != '\r' {
				t.pos++
			}
			continue
		case c == '\n' || c == '\r':
			from := t.pos
			t.pos++
			if c == '\r' && t.peekByte(0) == '\n' {
				t.pos++
			}
			if len(t.parens) > 0 || t.lineEmpty {
				t.newline(t.pos)
				if len(t.parens) == 0 {
					t.atBOL = true
					return t.Next()
				}
				continue
			}
			tok := token.Token{
				Type: token.NEWLINE, Text: t.src[from:t.pos],
				Start: t.posAt(from), End: t.posAt(t.pos), From: from, To: t.pos,
			}
			t.newline(t.pos)
			t.atBOL, t.lineEmpty = true, true
			return tok, nil
		case c == '\\':
			from := t.pos
			t.pos++
			switch {
			case t.pos >= len(t.src):
				return t.fail(KindEOF, from, t.pos, "unexpected EOF after line continuation")
			case t.src[t.pos] == '\n':
				t.pos++
				t.newline(t.pos)
				continue
			case t.src[t.pos] == '\r':
				t.pos++
				if t.peekByte(0) == '\n' {
					t.pos++
				}
				t.newline(t.pos)
				continue
			}
			return t.fail(KindLineContinuation, from, t.pos+1,
				"unexpected character after line continuation character")
		}
		return t.token()
	}
}

func (t *Tokenizer) emitPending() token.Token {
	if t.pending > 0 {
		t.pending--
		tok := t.implicit(token.INDENT)
		// The INDENT token covers the indentation of the line.
		tok.Start = token.Pos{Line: t.line, Col: 0}
		tok.From = t.lineStart
		tok.Text = t.src[t.lineStart:t.pos]
		return tok
	}
	t.pending++
	return t.implicit(token.DEDENT)
}

func (t *Tokenizer) skipSpace() {
	for t.pos < len(t.src) {
		switch t.src[t.pos] {
		case ' ', '\t', '\f':
			t.pos++
		default:
			return
		}
	}
}

// Measures the indentation at the beginning of a line and updates the
// indentation stack. It returns ok = false if no INDENT or DEDENT token is
// due, in which case the caller continues with the line content.
func (t *Tokenizer) indentation() (tok token.Token, err error, ok bool) {
	for {
		col, altCol := 0, 0
	measure:
		for t.pos < len(t.src) {
			switch t.src[t.pos] {
			case ' ':
				col++
				altCol++
			case '\t':
				col = (col/TabSize + 1) * TabSize
				altCol++
			case '\f':
				col, altCol = 0, 0
			default:
				break measure
			}
			t.pos++
		}
		if t.pos < len(t.src) {
			switch c := t.src[t.pos]; c {
			case '#', '\n', '\r':
				// Blank or comment-only line; it does not affect indentation.
				for t.pos < len(t.src) && t.src[t.pos] != '\n' && t.src[t.pos] != '\r' {
					t.pos++
				}
				if t.pos < len(t.src) {
					if t.src[t.pos] == '\r' && t.peekByte(1) == '\n' {
						t.pos++
					}
					t.pos++
					t.newline(t.pos)
				}
				continue
			}
		} else {
			// End of input; eof takes care of the remaining dedents.
			t.atBOL = false
			return token.Token{}, nil, false
		}
		t.atBOL = false

		top := len(t.indents) - 1
		switch {
		case col == t.indents[top]:
			if altCol != t.altIndents[top] {
				tok, err := t.failTabSpace()
				return tok, err, true
			}
			return token.Token{}, nil, false
		case col > t.indents[top]:
			if len(t.indents) >= MaxIndent {
				tok, err := t.fail(KindTooDeep, t.lineStart, t.pos, "too many levels of indentation")
				return tok, err, true
			}
			if altCol <= t.altIndents[top] {
				tok, err := t.failTabSpace()
				return tok, err, true
			}
			t.indents = append(t.indents, col)
			t.altIndents = append(t.altIndents, altCol)
			t.pending = 1
		default:
			n := 0
			for top > 0 && col < t.indents[top] {
				top--
				n++
			}
			if col != t.indents[top] {
				tok, err := t.fail(KindBadDedent, t.lineStart, t.pos,
					"unindent does not match any outer indentation level")
				return tok, err, true
			}
			if altCol != t.altIndents[top] {
				tok, err := t.failTabSpace()
				return tok, err, true
			}
			t.indents = t.indents[:top+1]
			t.altIndents = t.altIndents[:top+1]
			t.pending = -n
		}
		return t.emitPending(), nil, true
	}
}

func (t *Tokenizer) failTabSpace() (token.Token, error) {
	return t.fail(KindTabSpace, t.lineStart, t.pos, "inconsistent use of tabs and spaces in indentation")
}

func (t *Tokenizer) eof() (token.Token, error) {
	if len(t.parens) > 0 {
		return t.fail(KindEOF, t.pos, t.pos, "unexpected EOF in multi-line statement")
	}
	if !t.lineEmpty {
		t.lineEmpty = true
		return t.implicit(token.NEWLINE), nil
	}
	t.done = true
	if n := len(t.indents) - 1; n > 0 {
		t.indents = t.indents[:1]
		t.altIndents = t.altIndents[:1]
		t.pending = -n
		return t.emitPending(), nil
	}
	return t.implicit(token.ENDMARKER), nil
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func (t *Tokenizer) token() (token.Token, error) {
	from := t.pos
	c := t.src[t.pos]
	r, size := utf8.DecodeRuneInString(t.src[t.pos:])

	switch {
	case isIdentStart(r):
		t.pos += size
		for t.pos < len(t.src) {
			r, size := utf8.DecodeRuneInString(t.src[t.pos:])
			if !isIdentChar(r) {
				break
			}
			t.pos += size
		}
		if q := t.peekByte(0); (q == '"' || q == '\'') && isStringPrefix(t.src[from:t.pos]) {
			return t.str(from)
		}
		return t.make(token.NAME, from), nil
	case isDigit(c) || (c == '.' && isDigit(t.peekByte(1))):
		return t.number(from)
	case c == '"' || c == '\'':
		return t.str(from)
	}

	if t.pos+2 < len(t.src) {
		if typ := token.ThreeChars(c, t.src[t.pos+1], t.src[t.pos+2]); typ != token.OP {
			t.pos += 3
			return t.make(typ, from), nil
		}
	}
	if t.pos+1 < len(t.src) {
		if typ := token.TwoChars(c, t.src[t.pos+1]); typ != token.OP {
			t.pos += 2
			return t.make(typ, from), nil
		}
	}
	typ := token.OneChar(c)
	if typ == token.OP || typ == token.BACKSLASH {
		return t.fail(KindBadToken, from, from+size, "invalid character "+quoteRune(r))
	}
	t.pos++
	switch c {
	case '(', '[', '{':
		if len(t.parens) >= MaxParen {
			return t.fail(KindBadToken, from, t.pos, "too many nested parentheses")
		}
		t.parens = append(t.parens, c)
	case ')', ']', '}':
		if len(t.parens) == 0 {
			return t.fail(KindBadToken, from, t.pos, "unmatched '"+string(c)+"'")
		}
		open := t.parens[len(t.parens)-1]
		if !matches(open, c) {
			return t.fail(KindBadToken, from, t.pos,
				"closing parenthesis '"+string(c)+"' does not match opening parenthesis '"+string(open)+"'")
		}
		t.parens = t.parens[:len(t.parens)-1]
	}
	return t.make(typ, from), nil
}

func matches(open, close byte) bool {
	return open == '(' && close == ')' || open == '[' && close == ']' || open == '{' && close == '}'
}

func quoteRune(r rune) string {
	if r == utf8.RuneError {
		return "(invalid UTF-8)"
	}
	return "'" + string(r) + "'"
}

func isStringPrefix(s string) bool {
	switch strings.ToLower(s) {
	case "r", "u", "b", "f", "br", "rb", "fr", "rf":
		return true
	}
	return false
}

func (t *Tokenizer) number(from int) (token.Token, error) {
	c := t.src[t.pos]
	if c == '0' && strings.ContainsRune("xXoObB", rune(t.peekByte(1))) {
		t.pos += 2
		for t.pos < len(t.src) && (isHexDigit(t.src[t.pos]) || t.src[t.pos] == '_') {
			t.pos++
		}
		return t.finishNumber(from)
	}
	t.digits()
	if t.peekByte(0) == '.' {
		t.pos++
		t.digits()
	}
	if e := t.peekByte(0); e == 'e' || e == 'E' {
		save := t.pos
		t.pos++
		if s := t.peekByte(0); s == '+' || s == '-' {
			t.pos++
		}
		if !isDigit(t.peekByte(0)) {
			t.pos = save
		} else {
			t.digits()
		}
	}
	return t.finishNumber(from)
}

func (t *Tokenizer) digits() {
	for t.pos < len(t.src) && (isDigit(t.src[t.pos]) || t.src[t.pos] == '_') {
		t.pos++
	}
}

func (t *Tokenizer) finishNumber(from int) (token.Token, error) {
	// A number may not run into an identifier, as in "1abc".
	if t.pos < len(t.src) {
		r, _ := utf8.DecodeRuneInString(t.src[t.pos:])
		if isIdentStart(r) {
			return t.fail(KindBadToken, from, t.pos+1, "invalid decimal literal")
		}
	}
	return t.make(token.NUMBER, from), nil
}

func isHexDigit(c byte) bool {
	return isDigit(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// Scans a string literal starting at the quote at t.pos; from points at the
// start of the prefix, if any.
func (t *Tokenizer) str(from int) (token.Token, error) {
	q := t.src[t.pos]
	startLine, startLineStart := t.line, t.lineStart
	triple := t.peekByte(1) == q && t.peekByte(2) == q
	if triple {
		t.pos += 3
	} else {
		t.pos++
	}
	for {
		if t.pos >= len(t.src) {
			if triple {
				t.line, t.lineStart = startLine, startLineStart
				return t.fail(KindUnterminatedTripleString, from, t.pos,
					"unterminated triple-quoted string literal")
			}
			return t.fail(KindUnterminatedString, from, t.pos, "unterminated string literal")
		}
		c := t.src[t.pos]
		switch {
		case c == '\\':
			t.pos++
			if t.pos < len(t.src) {
				if t.src[t.pos] == '\n' {
					t.newline(t.pos + 1)
				}
				t.pos++
			}
		case c == '\n' || c == '\r':
			if !triple {
				return t.fail(KindUnterminatedString, from, t.pos, "unterminated string literal")
			}
			t.pos++
			if c == '\r' && t.peekByte(0) == '\n' {
				t.pos++
			}
			t.newline(t.pos)
		case c == q && (!triple || t.peekByte(1) == q && t.peekByte(2) == q):
			if triple {
				t.pos += 3
			} else {
				t.pos++
			}
			tok := t.make(token.STRING, from)
			tok.Start = token.Pos{Line: startLine, Col: from - startLineStart}
			return tok, nil
		default:
			t.pos++
		}
	}
}
