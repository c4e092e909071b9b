package parse

import (
	"src.cronus.dev/pkg/ast"
	"src.cronus.dev/pkg/token"
)

// gather parses one or more items separated by sep. A trailing separator is
// not consumed.
func gather[T any](p *Parser, sep token.Type, item func() (T, bool)) ([]T, bool) {
	first, ok := item()
	if !ok {
		return nil, false
	}
	items := []T{first}
	for {
		mark := p.mark
		if p.expect(sep) == nil {
			break
		}
		next, ok := item()
		if !ok {
			p.mark = mark
			break
		}
		items = append(items, next)
	}
	return items, true
}

// repeat0 parses zero or more items.
func repeat0[T any](p *Parser, item func() (T, bool)) []T {
	var items []T
	for {
		mark := p.mark
		next, ok := item()
		if !ok {
			p.mark = mark
			return items
		}
		items = append(items, next)
	}
}

// repeat1 parses one or more items.
func repeat1[T any](p *Parser, item func() (T, bool)) ([]T, bool) {
	items := repeat0(p, item)
	return items, len(items) > 0
}

// seq copies a sequence of children into the arena.
func seq[T any](p *Parser, s []T) []T { return ast.Seq(p.ast, s) }

// Consumes an optional token of the given type.
func (p *Parser) skip(typ token.Type) {
	p.expect(typ)
}

// Reports whether the token before the cursor is inside brackets.
func (p *Parser) inBrackets() bool {
	return p.mark > 0 && p.tokens[p.mark-1].level > 0
}
