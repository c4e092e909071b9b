package parse

import (
	"strings"

	"src.cronus.dev/pkg/arena"
	"src.cronus.dev/pkg/ast"
	"src.cronus.dev/pkg/object"
	"src.cronus.dev/pkg/token"
)

// Parser keeps the state of one parse: the token buffer, the cursor and the
// sticky error indicator. A Parser must not be used from multiple goroutines.
type Parser struct {
	tok      Tokenizer
	keywords *token.KeywordTable
	mode     Mode
	cfg      Config
	stats    *Stats
	a        *arena.Arena
	ast      *ast.Builder

	// Filled tokens. A token at index i is the mark i.
	tokens []*tokenEntry
	// The cursor.
	mark int
	// Depth of rule calls.
	level int
	// The sticky error indicator.
	err *Error

	// Whether any token has been filled since the start of the current
	// Single mode statement.
	parsingStarted bool
	// Whether the tokenizer has reached the end of input.
	reachedEnd bool
	// Enables the diagnostic rules, in the second pass.
	callInvalidRules bool
	// Current bracket nesting while filling.
	parens int

	lineStarts []int
}

type tokenEntry struct {
	token.Token
	// Bracket nesting depth at the token.
	level int
	// Memo entries of rules that started at this token, most recent first.
	memo *memoEntry
}

func newParser(tok Tokenizer, a *arena.Arena, cfg Config) *Parser {
	if cfg.Keywords == nil {
		cfg.Keywords = token.DefaultKeywords()
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if cfg.MaxGrowIterations <= 0 {
		cfg.MaxGrowIterations = DefaultMaxGrowIterations
	}
	return &Parser{
		tok: tok, keywords: cfg.Keywords, mode: cfg.Mode, cfg: cfg,
		stats: cfg.Stats, a: a, ast: ast.NewBuilder(a),
	}
}

type fillStatus int

const (
	fillOK fillStatus = iota
	// The ENDMARKER of a Single mode statement was turned into a NEWLINE.
	fillSyntheticNewline
	fillError
)

// Pulls one token from the tokenizer and appends it to the buffer.
func (p *Parser) fill() fillStatus {
	if p.err != nil {
		return fillError
	}
	tok, err := p.tok.Next()
	if err != nil {
		p.tokenizerError(err)
		return fillError
	}
	if p.stats != nil {
		p.stats.Fills++
	}

	status := fillOK
	switch tok.Type {
	case token.NAME:
		tok.Type = p.keywords.Lookup(tok.Text)
	case token.ENDMARKER:
		p.reachedEnd = true
	case token.NEWLINE:
		if tok.Implicit {
			p.reachedEnd = true
		}
	}
	if p.mode == Single && tok.Type == token.ENDMARKER && p.parsingStarted {
		tok.Type = token.NEWLINE
		tok.Implicit = true
		p.parsingStarted = false
		status = fillSyntheticNewline
	} else {
		p.parsingStarted = true
	}
	p.shift(&tok)

	if len(p.tokens) == cap(p.tokens) {
		grown := make([]*tokenEntry, len(p.tokens), max(2*cap(p.tokens), 1))
		copy(grown, p.tokens)
		p.tokens = grown
	}
	entry := arena.NewOf[tokenEntry](p.a)
	entry.Token = tok
	entry.level = p.parens
	p.tokens = append(p.tokens, entry)

	switch tok.Type {
	case token.LPAR, token.LSQB, token.LBRACE:
		p.parens++
	case token.RPAR, token.RSQB, token.RBRACE:
		if p.parens > 0 {
			p.parens--
		}
	}
	return status
}

// Applies the position offsets of an f-string replacement field.
func (p *Parser) shift(tok *token.Token) {
	if p.cfg.lineOffset == 0 && p.cfg.colOffset == 0 {
		return
	}
	for _, pos := range []*token.Pos{&tok.Start, &tok.End} {
		if pos.Line == 1 {
			pos.Col += p.cfg.colOffset
		}
		pos.Line += p.cfg.lineOffset
	}
}

// Returns the token at the cursor, filling the buffer if needed. It returns
// nil if the tokenizer fails.
func (p *Parser) peek() *tokenEntry {
	if p.mark == len(p.tokens) && p.fill() == fillError {
		return nil
	}
	return p.tokens[p.mark]
}

// Consumes the token at the cursor if it has the given type. The cursor does
// not move if the token does not match.
func (p *Parser) expect(typ token.Type) *token.Token {
	t := p.peek()
	if t == nil || t.Type != typ {
		return nil
	}
	p.mark++
	return &t.Token
}

// Like expect, but raises "expected 'x'" if the token does not match. It
// implements the "&&" forced items of the grammar.
func (p *Parser) expectForced(typ token.Type, text string) *token.Token {
	if t := p.expect(typ); t != nil {
		return t
	}
	if p.err == nil {
		p.raiseAt(SyntaxError, p.mark, "expected '%s'", text)
	}
	return nil
}

// Consumes a NAME token with the given text. Soft keywords are recognized
// only where the grammar expects them.
func (p *Parser) expectSoft(word string) *token.Token {
	t := p.peek()
	if t == nil || t.Type != token.NAME || t.Text != word {
		return nil
	}
	p.mark++
	return &t.Token
}

// Reports whether the token at the cursor has the given type, without
// consuming it.
func (p *Parser) at(typ token.Type) bool {
	t := p.peek()
	return t != nil && t.Type == typ
}

// Reports whether the token at the cursor has one of the given types.
func (p *Parser) atAny(types ...token.Type) bool {
	t := p.peek()
	if t == nil {
		return false
	}
	for _, typ := range types {
		if t.Type == typ {
			return true
		}
	}
	return false
}

// Evaluates a rule and reports whether its success matches positive. The
// cursor is always restored.
func lookahead[T any](p *Parser, positive bool, rule func() (T, bool)) bool {
	mark := p.mark
	_, ok := rule()
	p.mark = mark
	return ok == positive
}

// Returns the source range from the token at start to the last
// non-whitespace token before the cursor.
func (p *Parser) span(start int) ast.Pos {
	if start >= len(p.tokens) {
		p.peek()
		if start >= len(p.tokens) {
			return ast.Pos{}
		}
	}
	s := p.tokens[start].Start
	e := s
	for i := p.mark - 1; i >= start; i-- {
		if !p.tokens[i].Type.IsWhitespace() {
			e = p.tokens[i].End
			break
		}
	}
	return ast.Pos{Lineno: s.Line, ColOffset: s.Col, EndLineno: e.Line, EndColOffset: e.Col}
}

// Returns the range covered by two spans.
func join(a, b ast.Pos) ast.Pos {
	return ast.Pos{Lineno: a.Lineno, ColOffset: a.ColOffset, EndLineno: b.EndLineno, EndColOffset: b.EndColOffset}
}

// Converts a span to byte offsets in the source.
func (p *Parser) offsets(pos ast.Pos) (from, to int) {
	if p.lineStarts == nil {
		src := p.tok.Source()
		p.lineStarts = []int{0}
		for i := 0; i < len(src); i++ {
			if src[i] == '\n' {
				p.lineStarts = append(p.lineStarts, i+1)
			}
		}
	}
	offset := func(line, col int) int {
		if line < 1 {
			return 0
		}
		if line > len(p.lineStarts) {
			return len(p.tok.Source())
		}
		return p.lineStarts[line-1] + col
	}
	return offset(pos.Lineno, pos.ColOffset), offset(pos.EndLineno, pos.EndColOffset)
}

// Rule helpers for terminals.

func (p *Parser) nameToken() *token.Token { return p.expect(token.NAME) }

// name: NAME
func (p *Parser) name() (*ast.Name, bool) {
	start := p.mark
	t := p.nameToken()
	if t == nil {
		return nil, false
	}
	return p.ast.Name(p.ast.Identifier(t.Text), ast.Load, p.span(start)), true
}

// number: NUMBER
func (p *Parser) number() (ast.Expr, bool) {
	start := p.mark
	t := p.expect(token.NUMBER)
	if t == nil {
		return nil, false
	}
	v, err := object.ParseNumber(t.Text)
	if err != nil {
		p.raiseAt(SyntaxError, start, "invalid number literal %q", t.Text)
		return nil, false
	}
	return p.ast.Constant(v, "", p.span(start)), true
}

// Consumes a keyword constant: True, False or Null. The caller acquires a
// reference to the value if it keeps it.
func (p *Parser) singleton() (object.Object, *token.Token) {
	switch {
	case p.at(token.TRUE):
		return object.True, p.expect(token.TRUE)
	case p.at(token.FALSE):
		return object.False, p.expect(token.FALSE)
	case p.at(token.NULL):
		return object.Null, p.expect(token.NULL)
	}
	return nil, nil
}

// Reports whether the text of the token at index i is a soft keyword.
func (p *Parser) isSoftKeyword(i int) bool {
	for i >= len(p.tokens) {
		if p.fill() == fillError {
			return false
		}
	}
	if p.tokens[i].Type != token.NAME {
		return false
	}
	switch p.tokens[i].Text {
	case "match", "case", "_":
		return true
	}
	return false
}

func (p *Parser) indent() string {
	return strings.Repeat(" ", p.level)
}
