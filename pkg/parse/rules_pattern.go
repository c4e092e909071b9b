package parse

import (
	"src.cronus.dev/pkg/ast"
	"src.cronus.dev/pkg/object"
	"src.cronus.dev/pkg/token"
)

// match_stmt: "match" subject_expr ':' NEWLINE INDENT case_block+ DEDENT
func (p *Parser) matchStmt() (ast.Stmt, bool) {
	return rule(p, ruleMatchStmt, func() (ast.Stmt, bool) {
		start := p.mark
		if p.expectSoft("match") == nil {
			return nil, false
		}
		subject, ok := p.subjectExpr()
		if !ok || !p.headerColon() {
			return nil, false
		}
		if p.expect(token.NEWLINE) == nil {
			return nil, false
		}
		if p.expect(token.INDENT) == nil {
			if p.callInvalidRules {
				p.raiseAt(IndentationError, p.mark, "expected an indented block")
			}
			return nil, false
		}
		cases, ok := repeat1(p, p.caseBlock)
		if !ok || p.expect(token.DEDENT) == nil {
			return nil, false
		}
		return p.ast.Match(subject, seq(p, cases), p.span(start)), true
	})
}

// subject_expr: star_named_expression ',' star_named_expressions? | named_expression
func (p *Parser) subjectExpr() (ast.Expr, bool) {
	return rule(p, ruleSubjectExpr, func() (ast.Expr, bool) {
		start := p.mark
		if a, ok := p.starNamedExpression(); ok && p.expect(token.COMMA) != nil {
			rest, _ := p.starNamedExpressions()
			elts := append([]ast.Expr{a}, rest...)
			return p.ast.Tuple(seq(p, elts), ast.Load, p.span(start)), true
		}
		p.mark = start
		return p.namedExpression()
	})
}

// case_block: "case" patterns guard? ':' block
//
// guard: 'if' named_expression
func (p *Parser) caseBlock() (*ast.MatchCase, bool) {
	return rule(p, ruleCaseBlock, func() (*ast.MatchCase, bool) {
		if p.expectSoft("case") == nil {
			return nil, false
		}
		pattern, ok := p.patterns()
		if !ok {
			return nil, false
		}
		var guard ast.Expr
		if p.expect(token.IF) != nil {
			if guard, ok = p.namedExpression(); !ok {
				return nil, false
			}
		}
		if !p.headerColon() {
			return nil, false
		}
		body, ok := p.block()
		if !ok {
			return nil, false
		}
		return p.ast.MatchCase(pattern, guard, body), true
	})
}

// patterns: open_sequence_pattern | pattern
func (p *Parser) patterns() (ast.Pattern, bool) {
	return rule(p, rulePatterns, func() (ast.Pattern, bool) {
		start := p.mark
		if items, ok := p.openSequencePattern(); ok {
			return p.ast.MatchSequence(items, p.span(start)), true
		}
		p.mark = start
		return p.pattern()
	})
}

// pattern: as_pattern | or_pattern
//
// as_pattern: or_pattern 'as' pattern_capture_target
func (p *Parser) pattern() (ast.Pattern, bool) {
	return rule(p, rulePattern, func() (ast.Pattern, bool) {
		start := p.mark
		a, ok := p.orPattern()
		if !ok {
			return nil, false
		}
		mark := p.mark
		if p.expect(token.AS) != nil {
			if name, ok := p.patternCaptureTarget(); ok {
				return p.ast.MatchAs(a, name, p.span(start)), true
			}
			if p.callInvalidRules {
				if p.expectSoft("_") != nil {
					p.raiseAt(SyntaxError, p.mark-1, "cannot use '_' as a target")
				} else if e, ok := p.expression(); ok {
					p.raiseNode(SyntaxError, e, "invalid pattern target")
				}
				return nil, false
			}
		}
		p.mark = mark
		return a, true
	})
}

// or_pattern: '|'.closed_pattern+
func (p *Parser) orPattern() (ast.Pattern, bool) {
	return rule(p, ruleOrPattern, func() (ast.Pattern, bool) {
		start := p.mark
		items, ok := gather(p, token.VBAR, p.closedPattern)
		if !ok {
			return nil, false
		}
		if len(items) == 1 {
			return items[0], true
		}
		return p.ast.MatchOr(seq(p, items), p.span(start)), true
	})
}

// closed_pattern:
//
//	| literal_pattern
//	| capture_pattern
//	| wildcard_pattern
//	| value_pattern
//	| group_pattern
//	| sequence_pattern
//	| mapping_pattern
//	| class_pattern
func (p *Parser) closedPattern() (ast.Pattern, bool) {
	return memoized(p, ruleClosedPattern, func() (ast.Pattern, bool) {
		return firstOf(p, p.literalPattern, p.capturePattern, p.wildcardPattern,
			p.valuePattern, p.groupPattern, p.sequencePattern, p.mappingPattern,
			p.classPattern)
	})
}

// literal_pattern:
//
//	| signed_number !('+' | '-')
//	| complex_number
//	| strings
//	| 'Null' | 'True' | 'False'
func (p *Parser) literalPattern() (ast.Pattern, bool) {
	return rule(p, ruleLiteralPattern, func() (ast.Pattern, bool) {
		start := p.mark
		if v, t := p.singleton(); t != nil {
			return p.ast.MatchSingleton(object.Acquire(v), p.span(start)), true
		}
		if e, ok := p.literalValue(); ok {
			return p.ast.MatchValue(e, p.span(start)), true
		}
		return nil, false
	})
}

// literal_expr: the expressions of literal_pattern
func (p *Parser) literalExpr() (ast.Expr, bool) {
	return rule(p, ruleLiteralExpr, func() (ast.Expr, bool) {
		start := p.mark
		if v, t := p.singleton(); t != nil {
			return p.ast.Constant(object.Acquire(v), "", p.span(start)), true
		}
		return p.literalValue()
	})
}

// signed_number !('+' | '-') | complex_number | strings
//
// complex_number: signed_number ('+' | '-') NUMBER
func (p *Parser) literalValue() (ast.Expr, bool) {
	start := p.mark
	if p.at(token.STRING) {
		return p.strings()
	}
	re, ok := p.signedNumber()
	if !ok {
		return nil, false
	}
	mark := p.mark
	if t := p.peek(); t != nil && (t.Type == token.PLUS || t.Type == token.MINUS) {
		p.mark++
		if imag, ok := p.number(); ok {
			op := ast.Add
			if t.Type == token.MINUS {
				op = ast.Sub
			}
			return p.ast.BinOp(re, op, imag, p.span(start)), true
		}
		p.mark = mark
		return nil, false
	}
	return re, true
}

// signed_number: NUMBER | '-' NUMBER
func (p *Parser) signedNumber() (ast.Expr, bool) {
	return rule(p, ruleSignedNumber, func() (ast.Expr, bool) {
		start := p.mark
		if p.expect(token.MINUS) != nil {
			if n, ok := p.number(); ok {
				return p.ast.UnaryOp(ast.USub, n, p.span(start)), true
			}
			return nil, false
		}
		return p.number()
	})
}

// capture_pattern: pattern_capture_target
func (p *Parser) capturePattern() (ast.Pattern, bool) {
	return rule(p, ruleCapturePattern, func() (ast.Pattern, bool) {
		start := p.mark
		if name, ok := p.patternCaptureTarget(); ok {
			return p.ast.MatchAs(nil, name, p.span(start)), true
		}
		return nil, false
	})
}

// pattern_capture_target: !"_" NAME !('.' | '(' | '=')
func (p *Parser) patternCaptureTarget() (string, bool) {
	return rule(p, rulePatternCaptureTarget, func() (string, bool) {
		if p.isSoftKeyword(p.mark) && p.tokens[p.mark].Text == "_" {
			return "", false
		}
		n := p.nameToken()
		if n == nil || p.atAny(token.DOT, token.LPAR, token.EQUAL) {
			return "", false
		}
		return p.ast.Identifier(n.Text), true
	})
}

// wildcard_pattern: "_"
func (p *Parser) wildcardPattern() (ast.Pattern, bool) {
	return rule(p, ruleWildcardPattern, func() (ast.Pattern, bool) {
		start := p.mark
		if p.expectSoft("_") == nil {
			return nil, false
		}
		return p.ast.MatchAs(nil, "", p.span(start)), true
	})
}

// value_pattern: attr !('.' | '(' | '=')
func (p *Parser) valuePattern() (ast.Pattern, bool) {
	return rule(p, ruleValuePattern, func() (ast.Pattern, bool) {
		start := p.mark
		if a, ok := p.attr(); ok && !p.atAny(token.DOT, token.LPAR, token.EQUAL) {
			return p.ast.MatchValue(a, p.span(start)), true
		}
		return nil, false
	})
}

// attr: name_or_attr '.' NAME
func (p *Parser) attr() (ast.Expr, bool) {
	return leftRec(p, ruleAttr, func() (ast.Expr, bool) {
		start := p.mark
		if a, ok := p.nameOrAttr(); ok && p.expect(token.DOT) != nil {
			if n := p.nameToken(); n != nil {
				return p.ast.Attribute(a, p.ast.Identifier(n.Text), ast.Load, p.span(start)), true
			}
		}
		return nil, false
	})
}

// name_or_attr: attr | NAME
func (p *Parser) nameOrAttr() (ast.Expr, bool) {
	start := p.mark
	if a, ok := p.attr(); ok {
		return a, true
	}
	p.mark = start
	return p.name()
}

// group_pattern: '(' pattern ')'
func (p *Parser) groupPattern() (ast.Pattern, bool) {
	return rule(p, ruleGroupPattern, func() (ast.Pattern, bool) {
		if p.expect(token.LPAR) != nil {
			if a, ok := p.pattern(); ok && p.expect(token.RPAR) != nil {
				return a, true
			}
		}
		return nil, false
	})
}

// sequence_pattern: '[' maybe_sequence_pattern? ']' | '(' open_sequence_pattern? ')'
func (p *Parser) sequencePattern() (ast.Pattern, bool) {
	return rule(p, ruleSequencePattern, func() (ast.Pattern, bool) {
		start := p.mark
		if p.expect(token.LSQB) != nil {
			items, _ := p.maybeSequencePattern()
			if p.expect(token.RSQB) != nil {
				return p.ast.MatchSequence(items, p.span(start)), true
			}
			return nil, false
		}
		if p.expect(token.LPAR) != nil {
			items, _ := p.openSequencePattern()
			if p.expect(token.RPAR) != nil {
				return p.ast.MatchSequence(items, p.span(start)), true
			}
		}
		return nil, false
	})
}

// open_sequence_pattern: maybe_star_pattern ',' maybe_sequence_pattern?
func (p *Parser) openSequencePattern() ([]ast.Pattern, bool) {
	return rule(p, ruleOpenSequencePattern, func() ([]ast.Pattern, bool) {
		a, ok := p.maybeStarPattern()
		if !ok || p.expect(token.COMMA) == nil {
			return nil, false
		}
		rest, _ := p.maybeSequencePattern()
		return seq(p, append([]ast.Pattern{a}, rest...)), true
	})
}

// maybe_sequence_pattern: ','.maybe_star_pattern+ ','?
func (p *Parser) maybeSequencePattern() ([]ast.Pattern, bool) {
	return rule(p, ruleMaybeSequencePattern, func() ([]ast.Pattern, bool) {
		items, ok := gather(p, token.COMMA, p.maybeStarPattern)
		if !ok {
			return nil, false
		}
		p.skip(token.COMMA)
		return seq(p, items), true
	})
}

// maybe_star_pattern: star_pattern | pattern
func (p *Parser) maybeStarPattern() (ast.Pattern, bool) {
	return rule(p, ruleMaybeStarPattern, func() (ast.Pattern, bool) {
		return firstOf(p, p.starPattern, p.pattern)
	})
}

// star_pattern: '*' pattern_capture_target | '*' wildcard_pattern
func (p *Parser) starPattern() (ast.Pattern, bool) {
	return memoized(p, ruleStarPattern, func() (ast.Pattern, bool) {
		start := p.mark
		if p.expect(token.STAR) == nil {
			return nil, false
		}
		if name, ok := p.patternCaptureTarget(); ok {
			return p.ast.MatchStar(name, p.span(start)), true
		}
		if p.expectSoft("_") != nil {
			return p.ast.MatchStar("", p.span(start)), true
		}
		return nil, false
	})
}

// mapping_pattern:
//
//	| '{' '}'
//	| '{' double_star_pattern ','? '}'
//	| '{' items_pattern ',' double_star_pattern ','? '}'
//	| '{' items_pattern ','? '}'
func (p *Parser) mappingPattern() (ast.Pattern, bool) {
	return rule(p, ruleMappingPattern, func() (ast.Pattern, bool) {
		start := p.mark
		if p.expect(token.LBRACE) == nil {
			return nil, false
		}
		var keys []ast.Expr
		var patterns []ast.Pattern
		items, ok := p.itemsPattern()
		for _, kv := range items {
			keys = append(keys, kv.key)
			patterns = append(patterns, kv.pattern)
		}
		var rest string
		mark := p.mark
		if !ok || p.expect(token.COMMA) != nil {
			if rest, ok = p.doubleStarPattern(); !ok {
				p.mark = mark
			}
		}
		p.skip(token.COMMA)
		if p.expect(token.RBRACE) == nil {
			return nil, false
		}
		return p.ast.MatchMapping(seq(p, keys), seq(p, patterns), rest, p.span(start)), true
	})
}

type keyPattern struct {
	key     ast.Expr
	pattern ast.Pattern
}

// items_pattern: ','.key_value_pattern+
func (p *Parser) itemsPattern() ([]keyPattern, bool) {
	return rule(p, ruleItemsPattern, func() ([]keyPattern, bool) {
		return gather(p, token.COMMA, p.keyValuePattern)
	})
}

// key_value_pattern: (literal_expr | attr) ':' pattern
func (p *Parser) keyValuePattern() (keyPattern, bool) {
	return rule(p, ruleKeyValuePattern, func() (keyPattern, bool) {
		key, ok := firstOf(p, p.literalExpr, p.attr)
		if !ok || p.expect(token.COLON) == nil {
			return keyPattern{}, false
		}
		if v, ok := p.pattern(); ok {
			return keyPattern{key, v}, true
		}
		return keyPattern{}, false
	})
}

// double_star_pattern: '**' pattern_capture_target
func (p *Parser) doubleStarPattern() (string, bool) {
	return rule(p, ruleDoubleStarPattern, func() (string, bool) {
		if p.expect(token.DOUBLESTAR) == nil {
			return "", false
		}
		return p.patternCaptureTarget()
	})
}

// class_pattern:
//
//	| name_or_attr '(' ')'
//	| name_or_attr '(' positional_patterns ','? ')'
//	| name_or_attr '(' keyword_patterns ','? ')'
//	| name_or_attr '(' positional_patterns ',' keyword_patterns ','? ')'
func (p *Parser) classPattern() (ast.Pattern, bool) {
	return rule(p, ruleClassPattern, func() (ast.Pattern, bool) {
		start := p.mark
		cls, ok := p.nameOrAttr()
		if !ok || p.expect(token.LPAR) == nil {
			return nil, false
		}
		var positional []ast.Pattern
		mark := p.mark
		separated := true
		if items, ok := gather(p, token.COMMA, p.positionalPattern); ok {
			positional = items
			separated = p.expect(token.COMMA) != nil
		} else {
			p.mark = mark
		}
		var kwdAttrs []string
		var kwdPatterns []ast.Pattern
		if separated {
			mark = p.mark
			if items, ok := gather(p, token.COMMA, p.keywordPattern); ok {
				for _, kv := range items {
					kwdAttrs = append(kwdAttrs, kv.name)
					kwdPatterns = append(kwdPatterns, kv.pattern)
				}
				p.skip(token.COMMA)
			} else {
				p.mark = mark
			}
		}
		if p.expect(token.RPAR) == nil {
			if p.callInvalidRules && len(kwdAttrs) > 0 {
				m := p.mark
				if _, ok := gather(p, token.COMMA, p.positionalPattern); ok {
					p.raiseRange(SyntaxError, m, p.mark-1, "positional patterns follow keyword patterns")
				}
			}
			return nil, false
		}
		return p.ast.MatchClass(cls, seq(p, positional), seq(p, kwdAttrs), seq(p, kwdPatterns), p.span(start)), true
	})
}

// pattern !'='
func (p *Parser) positionalPattern() (ast.Pattern, bool) {
	start := p.mark
	if a, ok := p.pattern(); ok && !p.at(token.EQUAL) {
		return a, true
	}
	p.mark = start
	return nil, false
}

type keywordPattern struct {
	name    string
	pattern ast.Pattern
}

// keyword_pattern: NAME '=' pattern
func (p *Parser) keywordPattern() (keywordPattern, bool) {
	return rule(p, ruleKeywordPattern, func() (keywordPattern, bool) {
		n := p.nameToken()
		if n == nil || p.expect(token.EQUAL) == nil {
			return keywordPattern{}, false
		}
		if a, ok := p.pattern(); ok {
			return keywordPattern{p.ast.Identifier(n.Text), a}, true
		}
		return keywordPattern{}, false
	})
}
