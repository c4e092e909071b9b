// Package parse implements the Cronus parser.
//
// The parser is a packrat parser: each grammar rule is a method that tries
// its alternatives in order against a lazily filled token buffer, and results
// of selected rules are memoized per token position so that backtracking
// never repeats work. Left-recursive rules are evaluated by growing a seed.
//
// All nodes and transient buffers are allocated from an arena supplied by the
// caller. The tree returned by Parse stays valid until the arena is freed.
package parse

import (
	"context"
	"errors"
	"fmt"

	"src.cronus.dev/pkg/arena"
	"src.cronus.dev/pkg/ast"
	"src.cronus.dev/pkg/diag"
	"src.cronus.dev/pkg/logutil"
	"src.cronus.dev/pkg/token"
	"src.cronus.dev/pkg/tokenizer"
)

var logger = logutil.GetLogger("[parse] ")

// Mode selects the start rule.
type Mode int

const (
	// File parses a sequence of statements into an *ast.Module.
	File Mode = iota
	// Single parses one interactive statement into an *ast.Interactive.
	Single
	// Eval parses an expression list into an *ast.Expression.
	Eval
	// String parses the content of an f-string replacement field into an
	// ast.Expr.
	String
)

var modeNames = [...]string{File: "file", Single: "single", Eval: "eval", String: "string"}

func (m Mode) String() string {
	if 0 <= m && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode converts the name of a mode to a Mode.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return Mode(m), nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q, should be file, single, eval or string", s)
}

// Source describes a piece of source code.
type Source struct {
	Name string
	Code string
}

// Tokenizer is the source of tokens. Name and Source are used to build error
// contexts.
type Tokenizer interface {
	Next() (token.Token, error)
	Name() string
	Source() string
}

// Defaults of Config fields.
const (
	DefaultMaxDepth          = 6000
	DefaultMaxGrowIterations = 1 << 20
)

// Config keeps configuration options when parsing. The zero value is usable.
type Config struct {
	Mode Mode
	// Keyword table; if nil, token.DefaultKeywords() is used.
	Keywords *token.KeywordTable
	// If not nil, memoization statistics are accumulated here.
	Stats *Stats
	// Log every rule attempt.
	Trace bool
	// Maximum depth of rule calls; defaults to DefaultMaxDepth.
	MaxDepth int
	// Maximum number of growth iterations of a left-recursive rule at one
	// position; defaults to DefaultMaxGrowIterations.
	MaxGrowIterations int

	// Offsets applied to all token positions, used when parsing the
	// replacement fields of f-strings.
	lineOffset, colOffset int
}

// Error is a parse error. Its Type is one of the Category values.
type Error = diag.Error

// Category classifies errors.
type Category = string

// Categories of errors.
const (
	SyntaxError       Category = "SyntaxError"
	IndentationError  Category = "IndentationError"
	TabError          Category = "TabError"
	KeyboardInterrupt Category = "KeyboardInterrupt"
	MemoryError       Category = "MemoryError"
	SystemError       Category = "SystemError"
)

// ErrorCode is a coarse classification of the result of Parse.
type ErrorCode int

const (
	OK ErrorCode = iota
	// More input is needed; only reported in Single mode.
	EOF
	Syntax
	Interrupted
	NoMemory
	Internal
)

var errorCodeNames = [...]string{
	OK: "ok", EOF: "EOF", Syntax: "syntax error", Interrupted: "interrupted",
	NoMemory: "out of memory", Internal: "internal error",
}

func (c ErrorCode) String() string {
	if 0 <= c && int(c) < len(errorCodeNames) {
		return errorCodeNames[c]
	}
	return fmt.Sprintf("ErrorCode(%d)", int(c))
}

// Code returns the ErrorCode for an error returned by Parse.
func Code(err error) ErrorCode {
	if err == nil {
		return OK
	}
	var e *Error
	if !errors.As(err, &e) {
		return Internal
	}
	switch {
	case e.Partial:
		return EOF
	case e.Type == KeyboardInterrupt:
		return Interrupted
	case e.Type == MemoryError:
		return NoMemory
	case e.Type == SystemError:
		return Internal
	}
	return Syntax
}

// IsEOF reports whether err means that a Single mode parse needs more input.
func IsEOF(err error) bool { return Code(err) == EOF }

// Parse parses the tokens produced by tok. The root of the tree depends on
// cfg.Mode: *ast.Module for File, *ast.Interactive for Single,
// *ast.Expression for Eval and ast.Expr for String. A non-nil error always
// has type *Error.
func Parse(tok Tokenizer, a *arena.Arena, cfg Config) (ast.Node, error) {
	p := newParser(tok, a, cfg)
	return p.run()
}

// ParseSource tokenizes and parses src. Cancelling ctx interrupts the
// tokenizer.
func ParseSource(ctx context.Context, src Source, a *arena.Arena, cfg Config) (ast.Node, error) {
	return Parse(tokenizer.New(ctx, src.Name, src.Code), a, cfg)
}

func (p *Parser) run() (ast.Node, error) {
	res, ok := p.start()
	if p.err == nil && ok {
		return p.accept(res)
	}
	if p.err != nil {
		return nil, p.err
	}

	logger.Printf("%s: first pass failed after %d tokens, retrying for diagnostics", p.tok.Name(), len(p.tokens))
	p.resetForErrorPass()
	p.start()
	if p.err != nil {
		return nil, p.err
	}
	p.setSyntaxError()
	return nil, p.err
}

// Runs the final checks on the tree returned by the start rule. The root
// node is built after the last rule entry, so builder errors are checked
// again here.
func (p *Parser) accept(res ast.Node) (ast.Node, error) {
	if p.mode == Single && p.badSingleStatement() {
		p.raiseAt(SyntaxError, p.mark, "multiple statements found while compiling a single statement")
		return nil, p.err
	}
	p.checkBuilder()
	if p.err != nil {
		return nil, p.err
	}
	return res, nil
}

func (p *Parser) start() (ast.Node, bool) {
	switch p.mode {
	case Single:
		return nodeResult(p.interactive())
	case Eval:
		return nodeResult(p.eval())
	case String:
		return nodeResult(p.fstring())
	}
	return nodeResult(p.file())
}

func nodeResult[N ast.Node](n N, ok bool) (ast.Node, bool) {
	if !ok {
		return nil, false
	}
	return n, true
}

// Clears all memo entries and rewinds, so that the start rule can be tried
// again with the diagnostic rules enabled. Filled tokens are kept.
func (p *Parser) resetForErrorPass() {
	for _, t := range p.tokens {
		t.memo = nil
	}
	p.mark = 0
	p.level = 0
	p.callInvalidRules = true
}

// Reports the generic error after both passes have failed without a more
// specific diagnostic.
func (p *Parser) setSyntaxError() {
	if len(p.tokens) == 0 {
		p.raiseAt(SyntaxError, 0, "error at start before reading any input")
		return
	}
	last := len(p.tokens) - 1
	if p.mode == Single && p.atEndOfInput(last) {
		p.raiseEOF(p.tokens[last].From)
		return
	}
	switch p.tokens[last].Type {
	case token.INDENT:
		p.raiseAt(IndentationError, last, "unexpected indent")
	case token.DEDENT:
		p.raiseAt(IndentationError, last, "unexpected unindent")
	default:
		p.raiseAt(SyntaxError, last, "invalid syntax")
	}
}

// Reports whether the token at index i, and everything after it, is at the
// end of the input.
func (p *Parser) atEndOfInput(i int) bool {
	t := p.tokens[i]
	return p.reachedEnd && (t.Implicit || t.Type == token.ENDMARKER || t.Type == token.DEDENT)
}

// Checks that the source of a Single mode parse really is a single
// statement, by looking at what is left after the parsed statement.
// Whitespace and comments are allowed.
func (p *Parser) badSingleStatement() bool {
	src := p.tok.Source()
	rest := ""
	if p.mark > 0 {
		if end := p.tokens[p.mark-1].To; end <= len(src) {
			rest = src[end:]
		}
	}
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case ' ', '\t', '\n', '\r', '\f', '\\':
		case '#':
			for i < len(rest) && rest[i] != '\n' {
				i++
			}
		default:
			return true
		}
	}
	return false
}

func (p *Parser) newError(cat Category, from, to int, msg string) *Error {
	src := p.tok.Source()
	if from > len(src) {
		from = len(src)
	}
	if to > len(src) {
		to = len(src)
	}
	if to < from {
		to = from
	}
	return &Error{
		Type:    cat,
		Message: msg,
		Context: *diag.NewContext(p.tok.Name(), src, diag.Ranging{From: from, To: to}),
	}
}

// Records an error if none has been recorded yet. All rules fail once an
// error is recorded.
func (p *Parser) setError(err *Error) {
	if p.err == nil {
		p.err = err
	}
}

// Raises an error covering the token at index i.
func (p *Parser) raiseAt(cat Category, i int, format string, args ...any) {
	from, to := 0, 0
	if i < len(p.tokens) {
		from, to = p.tokens[i].From, p.tokens[i].To
	} else if len(p.tokens) > 0 {
		from = p.tokens[len(p.tokens)-1].To
		to = from
	}
	p.setError(p.newError(cat, from, to, fmt.Sprintf(format, args...)))
}

// Raises an error covering a node.
func (p *Parser) raiseNode(cat Category, n ast.Spanned, format string, args ...any) {
	p.raiseSpan(cat, n.Span(), format, args...)
}

// Raises an error covering a source range.
func (p *Parser) raiseSpan(cat Category, pos ast.Pos, format string, args ...any) {
	from, to := p.offsets(pos)
	p.setError(p.newError(cat, from, to, fmt.Sprintf(format, args...)))
}

// Raises an error covering the tokens from index i to index j, inclusive.
func (p *Parser) raiseRange(cat Category, i, j int, format string, args ...any) {
	p.setError(p.newError(cat, p.tokens[i].From, p.tokens[j].To, fmt.Sprintf(format, args...)))
}

func (p *Parser) raiseEOF(at int) {
	err := p.newError(SyntaxError, at, at, "unexpected EOF while parsing")
	err.Partial = p.mode == Single
	p.setError(err)
}

// Converts a failure of the tokenizer into a parse error.
func (p *Parser) tokenizerError(err error) {
	var te *tokenizer.Error
	if !errors.As(err, &te) {
		p.setError(p.newError(SystemError, 0, 0, err.Error()))
		return
	}
	from, to := te.From, te.To
	switch te.Kind {
	case tokenizer.KindEOF, tokenizer.KindUnterminatedTripleString:
		msg := "unexpected EOF while parsing"
		if te.Kind == tokenizer.KindUnterminatedTripleString {
			msg = te.Message
		}
		e := p.newError(SyntaxError, from, to, msg)
		e.Partial = p.mode == Single
		p.setError(e)
	case tokenizer.KindBadDedent, tokenizer.KindTooDeep:
		p.setError(p.newError(IndentationError, from, to, te.Message))
	case tokenizer.KindTabSpace:
		p.setError(p.newError(TabError, from, to, te.Message))
	case tokenizer.KindInterrupted:
		p.setError(p.newError(KeyboardInterrupt, from, to, te.Message))
	case tokenizer.KindNoMemory:
		p.setError(p.newError(MemoryError, from, to, te.Message))
	default:
		p.setError(p.newError(SyntaxError, from, to, te.Message))
	}
}
