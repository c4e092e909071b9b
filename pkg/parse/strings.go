package parse

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"src.cronus.dev/pkg/ast"
	"src.cronus.dev/pkg/object"
	"src.cronus.dev/pkg/token"
	"src.cronus.dev/pkg/tokenizer"
)

// A string literal split into its parts.
type stringLiteral struct {
	raw, bytes, fstring, unicode bool
	// The text between the quotes.
	body string
	// Offset of the body within the token text.
	offset int
}

func splitStringLiteral(text string) (stringLiteral, error) {
	var lit stringLiteral
	i := 0
prefix:
	for ; i < len(text); i++ {
		switch text[i] {
		case 'r', 'R':
			lit.raw = true
		case 'b', 'B':
			lit.bytes = true
		case 'f', 'F':
			lit.fstring = true
		case 'u', 'U':
			lit.unicode = true
		default:
			break prefix
		}
	}
	if i == len(text) || (text[i] != '\'' && text[i] != '"') {
		return lit, fmt.Errorf("malformed string literal %q", text)
	}
	quote := text[i : i+1]
	if strings.HasPrefix(text[i:], strings.Repeat(quote, 3)) && len(text)-i >= 6 {
		quote = strings.Repeat(quote, 3)
	}
	if !strings.HasSuffix(text, quote) || len(text)-i < 2*len(quote) {
		return lit, fmt.Errorf("malformed string literal %q", text)
	}
	lit.offset = i + len(quote)
	lit.body = text[lit.offset : len(text)-len(quote)]
	return lit, nil
}

// Builds the node for adjacent string literals: a Constant holding a str or
// bytes value, or a JoinedStr if any of the literals is an f-string.
func (p *Parser) concatStrings(toks []*token.Token, pos ast.Pos) (ast.Expr, bool) {
	first := p.mark - len(toks)
	lits := make([]stringLiteral, len(toks))
	bytesMode, fmode := false, false
	for i, t := range toks {
		lit, err := splitStringLiteral(t.Text)
		if err != nil {
			p.raiseAt(SyntaxError, first+i, "%s", err.Error())
			return nil, false
		}
		if i > 0 && lit.bytes != bytesMode {
			p.raiseRange(SyntaxError, first, first+i, "cannot mix bytes and nonbytes literals")
			return nil, false
		}
		bytesMode = lit.bytes
		fmode = fmode || lit.fstring
		lits[i] = lit
	}

	if bytesMode {
		var buf []byte
		for i, lit := range lits {
			b, err := decodeBytes(lit.body, lit.raw)
			if err != nil {
				p.raiseAt(SyntaxError, first+i, "%s", err.Error())
				return nil, false
			}
			buf = append(buf, b...)
		}
		return p.ast.Constant(object.NewBytes(buf), "", pos), true
	}

	kind := ""
	if lits[0].unicode {
		kind = "u"
	}
	if !fmode {
		var sb strings.Builder
		for i, lit := range lits {
			s, err := decodeString(lit.body, lit.raw)
			if err != nil {
				p.raiseAt(SyntaxError, first+i, "%s", err.Error())
				return nil, false
			}
			sb.WriteString(s)
		}
		return p.ast.Constant(object.NewStr(sb.String()), kind, pos), true
	}

	js := &joinedStr{p: p, pos: pos, kind: kind}
	for i, lit := range lits {
		js.tok = first + i
		if !lit.fstring {
			s, err := decodeString(lit.body, lit.raw)
			if err != nil {
				p.raiseAt(SyntaxError, js.tok, "%s", err.Error())
				return nil, false
			}
			js.lit.WriteString(s)
			continue
		}
		if _, ok := js.parse(lit, lit.body, 0, 0); !ok {
			return nil, false
		}
	}
	js.flush()
	return p.ast.JoinedStr(seq(p, js.values), pos), true
}

// Accumulates the values of a JoinedStr.
type joinedStr struct {
	p    *Parser
	pos  ast.Pos
	kind string
	// Index of the string token being parsed.
	tok    int
	lit    strings.Builder
	values []ast.Expr
}

func (js *joinedStr) flush() {
	if js.lit.Len() == 0 {
		return
	}
	js.values = append(js.values, js.p.ast.Constant(object.NewStr(js.lit.String()), js.kind, js.pos))
	js.lit.Reset()
}

func (js *joinedStr) fail(format string, args ...any) bool {
	js.p.raiseAt(SyntaxError, js.tok, "f-string: "+format, args...)
	return false
}

// Parses the body of an f-string starting at offset i, up to the end of the
// body or, if depth is positive, up to the '}' closing a format spec. It
// returns the offset where it stopped.
func (js *joinedStr) parse(lit stringLiteral, body string, i, depth int) (int, bool) {
	var raw strings.Builder
	literal := func() bool {
		if raw.Len() == 0 {
			return true
		}
		s, err := decodeString(raw.String(), lit.raw)
		if err != nil {
			js.p.raiseAt(SyntaxError, js.tok, "%s", err.Error())
			return false
		}
		js.lit.WriteString(s)
		raw.Reset()
		return true
	}
	for i < len(body) {
		c := body[i]
		switch {
		case c == '{' && i+1 < len(body) && body[i+1] == '{' && depth == 0:
			raw.WriteByte('{')
			i += 2
		case c == '}' && i+1 < len(body) && body[i+1] == '}' && depth == 0:
			raw.WriteByte('}')
			i += 2
		case c == '{':
			if !literal() {
				return i, false
			}
			next, ok := js.field(lit, body, i+1, depth)
			if !ok {
				return i, false
			}
			i = next
		case c == '}':
			if depth > 0 {
				return i, literal()
			}
			return i, js.fail("single '}' is not allowed")
		case c == '\\' && !lit.raw && strings.HasPrefix(body[i:], `\N{`):
			// Named escapes are not decoded, but their braces do not start
			// replacement fields.
			end := strings.IndexByte(body[i:], '}')
			if end < 0 {
				return i, js.fail("expecting '}'")
			}
			raw.WriteString(body[i : i+end+1])
			i += end + 1
		case c == '\\' && !lit.raw && i+1 < len(body):
			raw.WriteString(body[i : i+2])
			i += 2
		default:
			raw.WriteByte(c)
			i++
		}
	}
	if depth > 0 {
		return i, js.fail("expecting '}'")
	}
	return i, literal()
}

// Parses a replacement field whose expression starts at offset i, just after
// the '{'. It returns the offset after the closing '}'.
func (js *joinedStr) field(lit stringLiteral, body string, i, depth int) (int, bool) {
	if depth >= 2 {
		return i, js.fail("expressions nested too deeply")
	}
	start := i
	end, selfDoc, err := scanFieldExpr(body, i)
	if err != "" {
		return i, js.fail("%s", err)
	}
	exprText := body[start:end]
	if strings.TrimSpace(exprText) == "" {
		return i, js.fail("empty expression not allowed")
	}
	value, ok := js.p.parseFieldExpr(exprText, js.tok, lit.offset+start)
	if !ok {
		return i, false
	}
	i = end

	var conversion rune
	if selfDoc {
		// The text of the expression, the '=' and any whitespace after it
		// are copied to the output.
		i++
		for i < len(body) && isSpace(body[i]) {
			i++
		}
		js.lit.WriteString(body[start:i])
	}
	if i < len(body) && body[i] == '!' {
		i++
		if i >= len(body) {
			return i, js.fail("expecting '}'")
		}
		switch c := body[i]; c {
		case 's', 'r', 'a':
			conversion = rune(c)
		default:
			return i, js.fail("invalid conversion character: expected 's', 'r', or 'a'")
		}
		i++
		if i >= len(body) || (body[i] != ':' && body[i] != '}') {
			return i, js.fail("expecting '}'")
		}
	}

	var spec ast.Expr
	if i < len(body) && body[i] == ':' {
		inner := &joinedStr{p: js.p, pos: js.pos, kind: js.kind, tok: js.tok}
		next, ok := inner.parse(lit, body, i+1, depth+1)
		if !ok {
			return i, false
		}
		inner.flush()
		spec = js.p.ast.JoinedStr(seq(js.p, inner.values), js.pos)
		i = next
	}
	if i >= len(body) || body[i] != '}' {
		return i, js.fail("expecting '}'")
	}
	i++
	if selfDoc && conversion == 0 && spec == nil {
		conversion = 'r'
	}
	js.flush()
	js.values = append(js.values, js.p.ast.FormattedValue(value, conversion, spec, js.pos))
	return i, true
}

// Finds the end of the expression of a replacement field starting at i. The
// expression ends at a '}', '!', ':' or '=' outside brackets and strings.
// selfDoc is set if it ends at a '=' that is not part of an operator.
func scanFieldExpr(body string, i int) (end int, selfDoc bool, err string) {
	var nesting []byte
	var quote string
	for ; i < len(body); i++ {
		c := body[i]
		if quote != "" {
			if strings.HasPrefix(body[i:], quote) {
				i += len(quote) - 1
				quote = ""
			}
			continue
		}
		switch c {
		case '\\':
			return i, false, "expression part cannot include a backslash"
		case '#':
			return i, false, "expression part cannot include '#'"
		case '\'', '"':
			quote = body[i : i+1]
			if strings.HasPrefix(body[i:], strings.Repeat(quote, 3)) {
				quote = strings.Repeat(quote, 3)
			}
			i += len(quote) - 1
		case '(', '[', '{':
			nesting = append(nesting, c)
		case ')', ']', '}':
			if len(nesting) == 0 {
				if c == '}' {
					return i, false, ""
				}
				return i, false, fmt.Sprintf("unmatched '%c'", c)
			}
			open := nesting[len(nesting)-1]
			if open == '(' && c != ')' || open == '[' && c != ']' || open == '{' && c != '}' {
				return i, false, fmt.Sprintf("closing parenthesis '%c' does not match opening parenthesis '%c'", c, open)
			}
			nesting = nesting[:len(nesting)-1]
		case '!':
			if i+1 < len(body) && body[i+1] == '=' {
				i++
			} else if len(nesting) == 0 {
				return i, false, ""
			}
		case ':':
			if len(nesting) == 0 {
				return i, false, ""
			}
		case '=':
			if i+1 < len(body) && body[i+1] == '=' {
				i++
				continue
			}
			if i > 0 && strings.IndexByte("=!<>", body[i-1]) >= 0 {
				continue
			}
			if len(nesting) == 0 {
				return i, true, ""
			}
		}
	}
	if quote != "" {
		return i, false, "unterminated string"
	}
	return i, false, "expecting '}'"
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' }

// Parses the expression of a replacement field. The expression appears at
// the given byte offset in the text of the string token at index tok.
//
// The expression is parenthesized, so that it may span lines, and parsed in
// String mode by a separate parser that shares the arena. Its tokens are
// shifted to their positions in the enclosing source.
func (p *Parser) parseFieldExpr(text string, tok, offset int) (ast.Expr, bool) {
	t := p.tokens[tok]
	line, col := t.Start.Line, t.Start.Col+offset
	if nl := strings.LastIndexByte(t.Text[:offset], '\n'); nl >= 0 {
		line += strings.Count(t.Text[:offset], "\n")
		col = offset - nl - 1
	}

	cfg := p.cfg
	cfg.Mode = String
	cfg.lineOffset = line - 1
	cfg.colOffset = col - 1
	sub := newParser(tokenizer.New(context.Background(), p.tok.Name(), "("+text+")"), p.a, cfg)
	sub.level = p.level
	res, err := sub.run()
	if err != nil {
		var e *Error
		msg := err.Error()
		if errors.As(err, &e) {
			if e.Type != SyntaxError && e.Type != IndentationError && e.Type != TabError {
				p.setError(e)
				return nil, false
			}
			msg = e.Message
		}
		p.raiseAt(SyntaxError, tok, "f-string: %s", msg)
		return nil, false
	}
	return res.(ast.Expr), true
}

// Decodes the body of a str literal.
func decodeString(s string, raw bool) (string, error) {
	if raw || !strings.Contains(s, `\`) {
		return s, nil
	}
	var sb strings.Builder
	for i := 0; i < len(s); {
		if s[i] != '\\' {
			sb.WriteByte(s[i])
			i++
			continue
		}
		r, n, err := decodeEscape(s[i:], false)
		if err != nil {
			return "", err
		}
		if r >= 0 {
			sb.WriteRune(r)
		} else if n > 0 && r == keepEscape {
			sb.WriteString(s[i : i+n])
		}
		i += n
	}
	return sb.String(), nil
}

// Decodes the body of a bytes literal. Only ASCII characters may appear in
// the source.
func decodeBytes(s string, raw bool) ([]byte, error) {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return nil, errors.New("bytes can only contain ASCII literal characters")
		}
	}
	if raw {
		return []byte(s), nil
	}
	var buf []byte
	for i := 0; i < len(s); {
		if s[i] != '\\' {
			buf = append(buf, s[i])
			i++
			continue
		}
		r, n, err := decodeEscape(s[i:], true)
		if err != nil {
			return nil, err
		}
		if r >= 0 {
			buf = append(buf, byte(r))
		} else if r == keepEscape {
			buf = append(buf, s[i:i+n]...)
		}
		i += n
	}
	return buf, nil
}

const (
	// The escape sequence produces nothing.
	dropEscape = -1
	// The escape sequence is not recognized and is kept as is.
	keepEscape = -2
)

// Decodes one escape sequence at the start of s, which begins with a
// backslash. It returns the decoded value or one of dropEscape and
// keepEscape, and the length of the sequence.
func decodeEscape(s string, bytes bool) (rune, int, error) {
	if len(s) < 2 {
		return keepEscape, len(s), nil
	}
	switch c := s[1]; c {
	case '\n':
		return dropEscape, 2, nil
	case '\r':
		if len(s) > 2 && s[2] == '\n' {
			return dropEscape, 3, nil
		}
		return dropEscape, 2, nil
	case '\\', '\'', '"':
		return rune(c), 2, nil
	case 'a':
		return '\a', 2, nil
	case 'b':
		return '\b', 2, nil
	case 'f':
		return '\f', 2, nil
	case 'n':
		return '\n', 2, nil
	case 'r':
		return '\r', 2, nil
	case 't':
		return '\t', 2, nil
	case 'v':
		return '\v', 2, nil
	case '0', '1', '2', '3', '4', '5', '6', '7':
		n := 2
		for n < 4 && n < len(s) && '0' <= s[n] && s[n] <= '7' {
			n++
		}
		v, _ := strconv.ParseUint(s[1:n], 8, 32)
		if bytes {
			v &= 0xff
		}
		return rune(v), n, nil
	case 'x':
		return hexEscape(s, 2, `\xXX`)
	case 'u':
		if bytes {
			return keepEscape, 2, nil
		}
		return hexEscape(s, 4, `\uXXXX`)
	case 'U':
		if bytes {
			return keepEscape, 2, nil
		}
		r, n, err := hexEscape(s, 8, `\UXXXXXXXX`)
		if err == nil && r > utf8.MaxRune {
			return 0, n, errors.New("(unicode error) illegal Unicode character")
		}
		return r, n, err
	}
	return keepEscape, 2, nil
}

func hexEscape(s string, digits int, form string) (rune, int, error) {
	end := 2 + digits
	if len(s) < end {
		return 0, len(s), fmt.Errorf("(unicode error) truncated %s escape", form)
	}
	v, err := strconv.ParseUint(s[2:end], 16, 32)
	if err != nil {
		return 0, end, fmt.Errorf("(unicode error) truncated %s escape", form)
	}
	return rune(v), end, nil
}
