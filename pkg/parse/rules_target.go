package parse

import (
	"src.cronus.dev/pkg/ast"
	"src.cronus.dev/pkg/token"
)

// star_targets: star_target !',' | star_target (',' star_target)* [',']
func (p *Parser) starTargets() (ast.Expr, bool) {
	return rule(p, ruleStarTargets, func() (ast.Expr, bool) {
		start := p.mark
		items, ok := gather(p, token.COMMA, p.starTarget)
		if !ok {
			return nil, false
		}
		if len(items) == 1 && !p.at(token.COMMA) {
			return items[0], true
		}
		p.skip(token.COMMA)
		return p.ast.Tuple(seq(p, items), ast.Store, p.span(start)), true
	})
}

// star_targets_list_seq: ','.star_target+ [',']
func (p *Parser) starTargetsListSeq() ([]ast.Expr, bool) {
	return rule(p, ruleStarTargetsListSeq, func() ([]ast.Expr, bool) {
		items, ok := gather(p, token.COMMA, p.starTarget)
		if !ok {
			return nil, false
		}
		p.skip(token.COMMA)
		return seq(p, items), true
	})
}

// star_targets_tuple_seq: star_target (',' star_target)+ [','] | star_target ','
func (p *Parser) starTargetsTupleSeq() ([]ast.Expr, bool) {
	return rule(p, ruleStarTargetsTupleSeq, func() ([]ast.Expr, bool) {
		items, ok := gather(p, token.COMMA, p.starTarget)
		if !ok {
			return nil, false
		}
		if p.expect(token.COMMA) == nil && len(items) == 1 {
			return nil, false
		}
		return seq(p, items), true
	})
}

// star_target: '*' (!'*' star_target) | target_with_star_atom
func (p *Parser) starTarget() (ast.Expr, bool) {
	return memoized(p, ruleStarTarget, func() (ast.Expr, bool) {
		start := p.mark
		if p.expect(token.STAR) != nil && !p.at(token.STAR) {
			if a, ok := p.starTarget(); ok {
				return p.ast.Starred(p.ast.SetContext(a, ast.Store), ast.Store, p.span(start)), true
			}
		}
		p.mark = start
		return p.targetWithStarAtom()
	})
}

// target_with_star_atom:
//
//	| t_primary '.' NAME !t_lookahead
//	| t_primary '[' slices ']' !t_lookahead
//	| star_atom
func (p *Parser) targetWithStarAtom() (ast.Expr, bool) {
	return memoized(p, ruleTargetWithStarAtom, func() (ast.Expr, bool) {
		start := p.mark
		if a, ok := p.subscriptAttributeTarget(ast.Store); ok {
			return a, true
		}
		p.mark = start
		return p.starAtom()
	})
}

// t_primary '.' NAME !t_lookahead | t_primary '[' slices ']' !t_lookahead
func (p *Parser) subscriptAttributeTarget(ctx ast.ExprContext) (ast.Expr, bool) {
	start := p.mark
	a, ok := p.tPrimary()
	if !ok {
		return nil, false
	}
	mark := p.mark
	if p.expect(token.DOT) != nil {
		if n := p.nameToken(); n != nil && !p.tLookahead() {
			return p.ast.Attribute(a, p.ast.Identifier(n.Text), ctx, p.span(start)), true
		}
	}
	p.mark = mark
	if p.expect(token.LSQB) != nil {
		if s, ok := p.slices(); ok && p.expect(token.RSQB) != nil && !p.tLookahead() {
			return p.ast.Subscript(a, s, ctx, p.span(start)), true
		}
	}
	p.mark = start
	return nil, false
}

// star_atom:
//
//	| NAME
//	| '(' target_with_star_atom ')'
//	| '(' [star_targets_tuple_seq] ')'
//	| '[' [star_targets_list_seq] ']'
func (p *Parser) starAtom() (ast.Expr, bool) {
	return rule(p, ruleStarAtom, func() (ast.Expr, bool) {
		start := p.mark
		if n := p.nameToken(); n != nil {
			return p.ast.Name(p.ast.Identifier(n.Text), ast.Store, p.span(start)), true
		}
		if p.expect(token.LPAR) != nil {
			if a, ok := p.targetWithStarAtom(); ok && p.expect(token.RPAR) != nil {
				return p.ast.SetContext(a, ast.Store), true
			}
			p.mark = start + 1
			elts, _ := p.starTargetsTupleSeq()
			if p.expect(token.RPAR) != nil {
				return p.ast.Tuple(elts, ast.Store, p.span(start)), true
			}
			return nil, false
		}
		if p.expect(token.LSQB) != nil {
			elts, _ := p.starTargetsListSeq()
			if p.expect(token.RSQB) != nil {
				return p.ast.List(elts, ast.Store, p.span(start)), true
			}
		}
		return nil, false
	})
}

// single_target: single_subscript_attribute_target | NAME | '(' single_target ')'
func (p *Parser) singleTarget() (ast.Expr, bool) {
	return rule(p, ruleSingleTarget, func() (ast.Expr, bool) {
		start := p.mark
		if a, ok := p.singleSubscriptAttributeTarget(); ok {
			return a, true
		}
		p.mark = start
		if n := p.nameToken(); n != nil {
			return p.ast.Name(p.ast.Identifier(n.Text), ast.Store, p.span(start)), true
		}
		if p.expect(token.LPAR) != nil {
			if a, ok := p.singleTarget(); ok && p.expect(token.RPAR) != nil {
				return a, true
			}
		}
		return nil, false
	})
}

// single_subscript_attribute_target:
//
//	| t_primary '.' NAME !t_lookahead
//	| t_primary '[' slices ']' !t_lookahead
func (p *Parser) singleSubscriptAttributeTarget() (ast.Expr, bool) {
	return rule(p, ruleSingleSubscriptAttributeTarget, func() (ast.Expr, bool) {
		return p.subscriptAttributeTarget(ast.Store)
	})
}

// t_primary:
//
//	| t_primary '.' NAME &t_lookahead
//	| t_primary '[' slices ']' &t_lookahead
//	| t_primary genexp &t_lookahead
//	| t_primary '(' [arguments] ')' &t_lookahead
//	| atom &t_lookahead
func (p *Parser) tPrimary() (ast.Expr, bool) {
	return leftRec(p, ruleTPrimary, func() (ast.Expr, bool) {
		start := p.mark
		if a, ok := p.tPrimary(); ok {
			if e, ok := p.trailer(a, start); ok && p.tLookahead() {
				return e, true
			}
		}
		p.mark = start
		if a, ok := p.atom(); ok && p.tLookahead() {
			return a, true
		}
		return nil, false
	})
}

// t_lookahead: '(' | '[' | '.'
func (p *Parser) tLookahead() bool {
	return p.atAny(token.LPAR, token.LSQB, token.DOT)
}

// del_targets: ','.del_target+ [',']
func (p *Parser) delTargets() ([]ast.Expr, bool) {
	return rule(p, ruleDelTargets, func() ([]ast.Expr, bool) {
		items, ok := gather(p, token.COMMA, p.delTarget)
		if !ok {
			return nil, false
		}
		p.skip(token.COMMA)
		return seq(p, items), true
	})
}

// del_target:
//
//	| t_primary '.' NAME !t_lookahead
//	| t_primary '[' slices ']' !t_lookahead
//	| del_t_atom
func (p *Parser) delTarget() (ast.Expr, bool) {
	return memoized(p, ruleDelTarget, func() (ast.Expr, bool) {
		start := p.mark
		if a, ok := p.subscriptAttributeTarget(ast.Del); ok {
			return a, true
		}
		p.mark = start
		return p.delTAtom()
	})
}

// del_t_atom: NAME | '(' del_target ')' | '(' [del_targets] ')' | '[' [del_targets] ']'
func (p *Parser) delTAtom() (ast.Expr, bool) {
	return rule(p, ruleDelTAtom, func() (ast.Expr, bool) {
		start := p.mark
		if n := p.nameToken(); n != nil {
			return p.ast.Name(p.ast.Identifier(n.Text), ast.Del, p.span(start)), true
		}
		if p.expect(token.LPAR) != nil {
			if a, ok := p.delTarget(); ok && p.expect(token.RPAR) != nil {
				return p.ast.SetContext(a, ast.Del), true
			}
			p.mark = start + 1
			elts, _ := p.delTargets()
			if p.expect(token.RPAR) != nil {
				return p.ast.Tuple(elts, ast.Del, p.span(start)), true
			}
			return nil, false
		}
		if p.expect(token.LSQB) != nil {
			elts, _ := p.delTargets()
			if p.expect(token.RSQB) != nil {
				return p.ast.List(elts, ast.Del, p.span(start)), true
			}
		}
		return nil, false
	})
}
