package parse

import (
	"src.cronus.dev/pkg/ast"
	"src.cronus.dev/pkg/object"
	"src.cronus.dev/pkg/token"
)

// The rules in this file only run in the second pass, after the first pass
// has failed. Each of them recognizes a common mistake and raises an error
// describing it. None of them ever succeeds.

type targetsKind int

const (
	starTargets targetsKind = iota
	delTargets
	forTargets
)

// Returns the part of e that cannot be assigned to or deleted, or nil if
// there is none.
func invalidTarget(kind targetsKind, e ast.Expr) ast.Expr {
	switch e := e.(type) {
	case *ast.List:
		return invalidTargetSeq(kind, e.Elts)
	case *ast.Tuple:
		return invalidTargetSeq(kind, e.Elts)
	case *ast.Starred:
		if kind == delTargets {
			return e
		}
		return invalidTarget(kind, e.Value)
	case *ast.Compare:
		// "for x in y" may have been parsed as a comparison.
		if kind == forTargets && e.Ops[0] == ast.In {
			return invalidTarget(kind, e.Left)
		}
		return e
	case *ast.Name, *ast.Subscript, *ast.Attribute:
		return nil
	}
	return e
}

func invalidTargetSeq(kind targetsKind, elts []ast.Expr) ast.Expr {
	for _, elt := range elts {
		if t := invalidTarget(kind, elt); t != nil {
			return t
		}
	}
	return nil
}

// exprName describes an expression in error messages.
func exprName(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.Attribute:
		return "attribute"
	case *ast.Subscript:
		return "subscript"
	case *ast.Starred:
		return "starred"
	case *ast.Name:
		return "name"
	case *ast.List:
		return "list"
	case *ast.Tuple:
		return "tuple"
	case *ast.Lambda:
		return "lambda"
	case *ast.Call:
		return "function call"
	case *ast.BoolOp, *ast.BinOp, *ast.UnaryOp:
		return "expression"
	case *ast.GeneratorExp:
		return "generator expression"
	case *ast.Yield, *ast.YieldFrom:
		return "yield expression"
	case *ast.Await:
		return "await expression"
	case *ast.ListComp:
		return "list comprehension"
	case *ast.SetComp:
		return "set comprehension"
	case *ast.DictComp:
		return "dict comprehension"
	case *ast.Dict:
		return "dict literal"
	case *ast.Set:
		return "set display"
	case *ast.JoinedStr, *ast.FormattedValue:
		return "f-string expression"
	case *ast.Constant:
		switch e.Value {
		case object.Null:
			return "Null"
		case object.True:
			return "True"
		case object.False:
			return "False"
		case object.Ellipsis:
			return "Ellipsis"
		}
		return "literal"
	case *ast.Compare:
		return "comparison"
	case *ast.IfExp:
		return "conditional expression"
	case *ast.NamedExpr:
		return "named expression"
	}
	return "expression"
}

func (p *Parser) raiseInvalidTarget(kind targetsKind, e ast.Expr) {
	t := invalidTarget(kind, e)
	if t == nil {
		p.raiseAt(SyntaxError, p.mark, "invalid syntax")
		return
	}
	if kind == delTargets {
		p.raiseNode(SyntaxError, t, "cannot delete %s", exprName(t))
	} else {
		p.raiseNode(SyntaxError, t, "cannot assign to %s", exprName(t))
	}
}

// Raises an error covering the nodes a and b and everything in between.
func (p *Parser) raiseBetween(cat Category, a, b ast.Spanned, format string, args ...any) {
	p.raiseSpan(cat, join(a.Span(), b.Span()), format, args...)
}

// Runs the body of a diagnostic rule if the diagnostic rules are enabled.
func (p *Parser) invalid(id ruleID, body func()) {
	if !p.callInvalidRules {
		return
	}
	rule(p, id, func() (struct{}, bool) {
		body()
		return struct{}{}, false
	})
}

// invalid_expression:
//
//	| !(NAME STRING | SOFT_KEYWORD) disjunction expression_without_invalid
//	| disjunction 'if' disjunction !('else' | ':')
func (p *Parser) invalidExpression() {
	p.invalid(ruleInvalidExpression, func() {
		start := p.mark
		p.peek()
		if !p.isSoftKeyword(start) && !p.nameBeforeString(start) {
			if a, ok := p.disjunction(); ok {
				if b, ok := p.expressionWithoutInvalid(); ok {
					if !isLegacyStatement(a) && p.inBrackets() {
						p.raiseBetween(SyntaxError, a, b, "invalid syntax. Perhaps you forgot a comma?")
					}
					return
				}
			}
		}
		p.mark = start
		if a, ok := p.disjunction(); ok && p.expect(token.IF) != nil {
			if b, ok := p.disjunction(); ok && !p.atAny(token.ELSE, token.COLON) {
				p.raiseBetween(SyntaxError, a, b, "expected 'else' after 'if' expression")
			}
		}
	})
}

func (p *Parser) nameBeforeString(i int) bool {
	p.peek()
	if i >= len(p.tokens) || p.tokens[i].Type != token.NAME {
		return false
	}
	mark := p.mark
	p.mark = i + 1
	ok := p.at(token.STRING)
	p.mark = mark
	return ok
}

func isLegacyStatement(e ast.Expr) bool {
	n, ok := e.(*ast.Name)
	return ok && (n.Id == "print" || n.Id == "exec")
}

// invalid_named_expression:
//
//	| expression ':=' expression
//	| NAME '=' bitwise_or !('=' | ':=')
//	| !(list | tuple | genexp | 'True' | 'Null' | 'False') bitwise_or '=' bitwise_or !('=' | ':=')
func (p *Parser) invalidNamedExpression() {
	p.invalid(ruleInvalidNamedExpression, func() {
		start := p.mark
		if a, ok := p.expression(); ok && p.expect(token.COLONEQUAL) != nil {
			if _, ok := p.expression(); ok {
				p.raiseNode(SyntaxError, a, "cannot use assignment expressions with %s", exprName(a))
				return
			}
		}
		p.mark = start
		if a, ok := p.name(); ok && p.expect(token.EQUAL) != nil {
			if b, ok := p.bitwiseOr(); ok && !p.atAny(token.EQUAL, token.COLONEQUAL) {
				p.raiseBetween(SyntaxError, a, b, "invalid syntax. Maybe you meant '==' or ':=' instead of '='?")
				return
			}
		}
		p.mark = start
		if lookahead(p, false, p.literalDisplay) {
			if a, ok := p.bitwiseOr(); ok && p.expect(token.EQUAL) != nil {
				if _, ok := p.bitwiseOr(); ok && !p.atAny(token.EQUAL, token.COLONEQUAL) {
					p.raiseNode(SyntaxError, a, "cannot assign to %s here. Maybe you meant '==' instead of '='?", exprName(a))
				}
			}
		}
	})
}

// list | tuple | genexp | 'True' | 'Null' | 'False'
func (p *Parser) literalDisplay() (ast.Expr, bool) {
	if t := p.peek(); t != nil {
		switch t.Type {
		case token.TRUE, token.FALSE, token.NULL:
			return nil, true
		}
	}
	return firstOf(p, p.list, p.tuple, p.genexp)
}

// invalid_comprehension:
//
//	| ('[' | '(' | '{') starred_expression for_if_clauses
//	| ('[' | '{') star_named_expression ',' star_named_expressions for_if_clauses
//	| ('[' | '{') star_named_expression ',' for_if_clauses
func (p *Parser) invalidComprehension() {
	p.invalid(ruleInvalidComprehension, func() {
		start := p.mark
		open := p.peek()
		if open == nil || (open.Type != token.LSQB && open.Type != token.LPAR && open.Type != token.LBRACE) {
			return
		}
		p.mark++
		if a, ok := p.starredExpression(); ok {
			if _, ok := p.forIfClauses(); ok {
				p.raiseNode(SyntaxError, a, "iterable unpacking cannot be used in comprehension")
				return
			}
		}
		if open.Type == token.LPAR {
			return
		}
		p.mark = start + 1
		if a, ok := p.starNamedExpression(); ok && p.expect(token.COMMA) != nil {
			last := ast.Spanned(a)
			if rest, ok := p.starNamedExpressions(); ok {
				last = rest[len(rest)-1]
			}
			if _, ok := p.forIfClauses(); ok {
				p.raiseBetween(SyntaxError, a, last, "did you forget parentheses around the comprehension target?")
			}
		}
	})
}

// invalid_group: '(' starred_expression ')' | '(' '**' expression ')'
func (p *Parser) invalidGroup() {
	p.invalid(ruleInvalidGroup, func() {
		start := p.mark
		if p.expect(token.LPAR) == nil {
			return
		}
		if a, ok := p.starredExpression(); ok && p.expect(token.RPAR) != nil {
			p.raiseNode(SyntaxError, a, "cannot use starred expression here")
			return
		}
		p.mark = start + 1
		if p.expect(token.DOUBLESTAR) != nil {
			if _, ok := p.expression(); ok && p.expect(token.RPAR) != nil {
				p.raiseAt(SyntaxError, start+1, "cannot use double starred expression here")
			}
		}
	})
}

// invalid_double_starred_kvpairs:
//
//	| ','.double_starred_kvpair+ ',' expression !':'
//	| expression ':' '*' bitwise_or
//	| expression ':' &('}' | ',')
func (p *Parser) invalidDoubleStarredKVPairs() {
	p.invalid(ruleInvalidDoubleStarredKVPairs, func() {
		start := p.mark
		if _, ok := gather(p, token.COMMA, p.doubleStarredKVPair); ok && p.expect(token.COMMA) != nil {
			if a, ok := p.expression(); ok && !p.at(token.COLON) {
				p.raiseNode(SyntaxError, a, "':' expected after dictionary key")
				return
			}
		}
		p.mark = start
		if _, ok := p.expression(); ok && p.expect(token.COLON) != nil {
			colon := p.mark - 1
			if p.expect(token.STAR) != nil {
				if _, ok := p.bitwiseOr(); ok {
					p.raiseAt(SyntaxError, colon+1, "cannot use a starred expression in a dictionary value")
					return
				}
			}
			p.mark = colon + 1
			if p.atAny(token.RBRACE, token.COMMA) {
				p.raiseAt(SyntaxError, colon, "expression expected after dictionary key and ':'")
			}
		}
	})
}

// invalid_for_target: ASYNC? 'for' star_expressions
func (p *Parser) invalidForTarget() {
	p.invalid(ruleInvalidForTarget, func() {
		p.expect(token.ASYNC)
		if p.expect(token.FOR) == nil {
			return
		}
		if a, ok := p.starExpressions(); ok {
			p.raiseInvalidTarget(forTargets, a)
		}
	})
}

// invalid_with_item: expression 'as' expression &(',' | ')' | ':')
func (p *Parser) invalidWithItem() {
	p.invalid(ruleInvalidWithItem, func() {
		if _, ok := p.expression(); ok && p.expect(token.AS) != nil {
			if a, ok := p.expression(); ok && p.atAny(token.COMMA, token.RPAR, token.COLON) {
				p.raiseInvalidTarget(starTargets, a)
			}
		}
	})
}

// invalid_arguments:
//
//	| args ',' '*'
//	| expression for_if_clauses ',' [args | expression for_if_clauses]
//	| NAME '=' expression for_if_clauses
//	| args for_if_clauses
//	| args ',' expression for_if_clauses
//	| args ',' args
func (p *Parser) invalidArguments() {
	p.invalid(ruleInvalidArguments, func() {
		start := p.mark
		if _, ok := p.args(); ok && p.expect(token.COMMA) != nil && p.at(token.STAR) {
			p.raiseAt(SyntaxError, p.mark, "iterable argument unpacking follows keyword argument unpacking")
			return
		}
		p.mark = start
		if _, ok := p.expression(); ok {
			if _, ok := p.forIfClauses(); ok && p.expect(token.COMMA) != nil {
				p.raiseRange(SyntaxError, start, p.mark-2, "Generator expression must be parenthesized")
				return
			}
		}
		p.mark = start
		if _, ok := p.name(); ok && p.expect(token.EQUAL) != nil {
			if _, ok := p.expression(); ok {
				if _, ok := p.forIfClauses(); ok {
					p.raiseRange(SyntaxError, start, start+1, "invalid syntax. Maybe you meant '==' or ':=' instead of '='?")
					return
				}
			}
		}
		p.mark = start
		if a, ok := p.args(); ok {
			mark := p.mark
			if _, ok := p.forIfClauses(); ok {
				if len(a.args) > 1 {
					last := a.args[len(a.args)-1]
					p.raiseNode(SyntaxError, last, "Generator expression must be parenthesized")
					return
				}
			}
			p.mark = mark
			if p.expect(token.COMMA) != nil {
				at := p.mark
				if _, ok := p.expression(); ok {
					if _, ok := p.forIfClauses(); ok {
						p.raiseRange(SyntaxError, at, p.mark-1, "Generator expression must be parenthesized")
						return
					}
				}
				p.mark = at
				if _, ok := p.args(); ok {
					if hasDoubleStar(a.keywords) {
						p.raiseAt(SyntaxError, at, "positional argument follows keyword argument unpacking")
					} else {
						p.raiseAt(SyntaxError, at, "positional argument follows keyword argument")
					}
				}
			}
		}
	})
}

func hasDoubleStar(keywords []*ast.Keyword) bool {
	for _, k := range keywords {
		if k.Arg == "" {
			return true
		}
	}
	return false
}

// invalid_kwarg:
//
//	| ('True' | 'False' | 'Null') '='
//	| NAME '=' expression for_if_clauses
//	| !(NAME '=') expression '='
func (p *Parser) invalidKwarg() {
	p.invalid(ruleInvalidKwarg, func() {
		start := p.mark
		if v, t := p.singleton(); t != nil && p.expect(token.EQUAL) != nil {
			p.raiseRange(SyntaxError, start, start+1, "cannot assign to %s", v.Repr())
			return
		}
		p.mark = start
		if p.nameToken() != nil && p.expect(token.EQUAL) != nil {
			if _, ok := p.expression(); ok {
				if _, ok := p.forIfClauses(); ok {
					p.raiseRange(SyntaxError, start, start+1, "invalid syntax. Maybe you meant '==' or ':=' instead of '='?")
				}
			}
			return
		}
		p.mark = start
		if a, ok := p.expression(); ok && p.expect(token.EQUAL) != nil {
			from, _ := p.offsets(a.Span())
			p.setError(p.newError(SyntaxError, from, p.tokens[p.mark-1].To,
				`expression cannot contain assignment, perhaps you meant "=="?`))
		}
	})
}

// invalid_assignment:
//
//	| invalid_ann_assign_target ':' expression
//	| star_named_expression ',' star_named_expressions* ':' expression
//	| expression ':' expression
//	| (star_targets '=')* star_expressions '='
//	| (star_targets '=')* yield_expr '='
//	| star_expressions augassign (yield_expr | star_expressions)
func (p *Parser) invalidAssignment() {
	p.invalid(ruleInvalidAssignment, func() {
		start := p.mark
		if a, ok := p.invalidAnnAssignTarget(); ok && p.expect(token.COLON) != nil {
			if _, ok := p.expression(); ok {
				p.raiseNode(SyntaxError, a, "only single target (not %s) can be annotated", exprName(a))
				return
			}
		}
		p.mark = start
		if a, ok := p.starNamedExpression(); ok && p.expect(token.COMMA) != nil {
			p.starNamedExpressions()
			if p.expect(token.COLON) != nil {
				if _, ok := p.expression(); ok {
					p.raiseNode(SyntaxError, a, "only single target (not tuple) can be annotated")
					return
				}
			}
		}
		p.mark = start
		if a, ok := p.expression(); ok && p.expect(token.COLON) != nil {
			if _, ok := p.expression(); ok {
				p.raiseNode(SyntaxError, a, "illegal target for annotation")
				return
			}
		}

		p.mark = start
		repeat0(p, func() (ast.Expr, bool) {
			if a, ok := p.starTargets(); ok && p.expect(token.EQUAL) != nil {
				return a, true
			}
			return nil, false
		})
		targets := p.mark
		if a, ok := p.starExpressions(); ok && p.at(token.EQUAL) {
			p.raiseInvalidTarget(starTargets, a)
			return
		}
		p.mark = targets
		if a, ok := p.yieldExpr(); ok && p.at(token.EQUAL) {
			p.raiseNode(SyntaxError, a, "assignment to yield expression not possible")
			return
		}

		p.mark = start
		if a, ok := p.starExpressions(); ok {
			if _, ok := p.augassign(); ok {
				if _, ok := p.annotatedRHS(); ok {
					p.raiseNode(SyntaxError, a, "'%s' is an illegal expression for augmented assignment", exprName(a))
				}
			}
		}
	})
}

// invalid_ann_assign_target: list | tuple | '(' invalid_ann_assign_target ')'
func (p *Parser) invalidAnnAssignTarget() (ast.Expr, bool) {
	return rule(p, ruleInvalidAnnAssignTarget, func() (ast.Expr, bool) {
		start := p.mark
		if a, ok := firstOf(p, p.list, p.tuple); ok {
			return a, true
		}
		p.mark = start
		if p.expect(token.LPAR) != nil {
			if a, ok := p.invalidAnnAssignTarget(); ok && p.expect(token.RPAR) != nil {
				return a, true
			}
		}
		return nil, false
	})
}

// invalid_del_stmt: 'del' star_expressions
func (p *Parser) invalidDelStmt() {
	p.invalid(ruleInvalidDelStmt, func() {
		if p.expect(token.DEL) == nil {
			return
		}
		if a, ok := p.starExpressions(); ok {
			p.raiseInvalidTarget(delTargets, a)
		}
	})
}

// invalid_import_from_targets: import_from_as_names ',' NEWLINE
func (p *Parser) invalidImportFromTargets() {
	p.invalid(ruleInvalidImportFromTargets, func() {
		if _, ok := gather(p, token.COMMA, p.importFromAsName); ok && p.expect(token.COMMA) != nil && p.at(token.NEWLINE) {
			p.raiseAt(SyntaxError, p.mark-1, "trailing comma not allowed without surrounding parentheses")
		}
	})
}

// invalid_block: NEWLINE !INDENT
func (p *Parser) invalidBlock() {
	p.invalid(ruleInvalidBlock, func() {
		if p.expect(token.NEWLINE) == nil || p.at(token.INDENT) {
			return
		}
		if p.err != nil {
			return
		}
		if p.mode == Single && p.atEndOfInput(p.mark) {
			p.raiseEOF(p.tokens[p.mark].From)
			return
		}
		p.raiseAt(IndentationError, p.mark, "expected an indented block")
	})
}
