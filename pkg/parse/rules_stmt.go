package parse

import (
	"strings"

	"src.cronus.dev/pkg/ast"
	"src.cronus.dev/pkg/token"
)

// file: [statements] ENDMARKER
func (p *Parser) file() (*ast.Module, bool) {
	return rule(p, ruleFile, func() (*ast.Module, bool) {
		body, _ := p.statements()
		if p.expect(token.ENDMARKER) == nil {
			return nil, false
		}
		return p.ast.Module(body), true
	})
}

// interactive: statement_newline
func (p *Parser) interactive() (*ast.Interactive, bool) {
	return rule(p, ruleInteractive, func() (*ast.Interactive, bool) {
		body, ok := p.statementNewline()
		if !ok {
			return nil, false
		}
		return p.ast.Interactive(body), true
	})
}

// eval: expressions NEWLINE* ENDMARKER
func (p *Parser) eval() (*ast.Expression, bool) {
	return rule(p, ruleEval, func() (*ast.Expression, bool) {
		a, ok := p.expressions()
		if !ok {
			return nil, false
		}
		p.newlines()
		if p.expect(token.ENDMARKER) == nil {
			return nil, false
		}
		return p.ast.Expression(a), true
	})
}

// fstring: star_expressions NEWLINE* ENDMARKER
func (p *Parser) fstring() (ast.Expr, bool) {
	return rule(p, ruleFstring, func() (ast.Expr, bool) {
		a, ok := p.starExpressions()
		if !ok {
			return nil, false
		}
		p.newlines()
		if p.expect(token.ENDMARKER) == nil {
			return nil, false
		}
		return a, true
	})
}

func (p *Parser) newlines() {
	for p.expect(token.NEWLINE) != nil {
	}
}

// statements: statement+
func (p *Parser) statements() ([]ast.Stmt, bool) {
	return rule(p, ruleStatements, func() ([]ast.Stmt, bool) {
		groups, ok := repeat1(p, p.statement)
		if !ok {
			return nil, false
		}
		var body []ast.Stmt
		for _, g := range groups {
			body = append(body, g...)
		}
		return seq(p, body), true
	})
}

// statement: compound_stmt | simple_stmts
func (p *Parser) statement() ([]ast.Stmt, bool) {
	return rule(p, ruleStatement, func() ([]ast.Stmt, bool) {
		start := p.mark
		if a, ok := p.compoundStmt(); ok {
			return seq(p, []ast.Stmt{a}), true
		}
		p.mark = start
		return p.simpleStmts()
	})
}

// statement_newline:
//
//	| compound_stmt NEWLINE
//	| simple_stmts
//	| NEWLINE
//	| ENDMARKER
func (p *Parser) statementNewline() ([]ast.Stmt, bool) {
	return rule(p, ruleStatementNewline, func() ([]ast.Stmt, bool) {
		start := p.mark
		if a, ok := p.compoundStmt(); ok && p.expect(token.NEWLINE) != nil {
			return seq(p, []ast.Stmt{a}), true
		}
		p.mark = start
		if a, ok := p.simpleStmts(); ok {
			return a, true
		}
		p.mark = start
		if p.expect(token.NEWLINE) != nil {
			return seq(p, []ast.Stmt{p.ast.Pass(p.span(start))}), true
		}
		if t := p.expect(token.ENDMARKER); t != nil {
			p.raiseEOF(t.From)
		}
		return nil, false
	})
}

// simple_stmts: simple_stmt !';' NEWLINE | ';'.simple_stmt+ [';'] NEWLINE
func (p *Parser) simpleStmts() ([]ast.Stmt, bool) {
	return rule(p, ruleSimpleStmts, func() ([]ast.Stmt, bool) {
		items, ok := gather(p, token.SEMI, p.simpleStmt)
		if !ok {
			return nil, false
		}
		p.skip(token.SEMI)
		if p.expect(token.NEWLINE) == nil {
			return nil, false
		}
		return seq(p, items), true
	})
}

// simple_stmt:
//
//	| assignment
//	| star_expressions
//	| &'return' return_stmt
//	| &('import' | 'from') import_stmt
//	| &'raise' raise_stmt
//	| 'pass'
//	| &'del' del_stmt
//	| &'yield' yield_stmt
//	| &'assert' assert_stmt
//	| 'break'
//	| 'continue'
//	| &'global' global_stmt
//	| &'nonlocal' nonlocal_stmt
func (p *Parser) simpleStmt() (ast.Stmt, bool) {
	return memoized(p, ruleSimpleStmt, func() (ast.Stmt, bool) {
		start := p.mark
		t := p.peek()
		if t == nil {
			return nil, false
		}
		switch t.Type {
		case token.RETURN:
			return p.returnStmt()
		case token.IMPORT:
			return p.importName()
		case token.FROM:
			return p.importFrom()
		case token.RAISE:
			return p.raiseStmt()
		case token.PASS:
			p.mark++
			return p.ast.Pass(p.span(start)), true
		case token.DEL:
			return p.delStmt()
		case token.YIELD:
			return p.yieldStmt()
		case token.ASSERT:
			return p.assertStmt()
		case token.BREAK:
			p.mark++
			return p.ast.Break(p.span(start)), true
		case token.CONTINUE:
			p.mark++
			return p.ast.Continue(p.span(start)), true
		case token.GLOBAL, token.NONLOCAL:
			return p.globalStmt()
		}
		if a, ok := p.assignment(); ok {
			return a, true
		}
		p.mark = start
		if p.err != nil {
			return nil, false
		}
		if e, ok := p.starExpressions(); ok {
			return p.ast.ExprStmt(e, p.span(start)), true
		}
		return nil, false
	})
}

// compound_stmt:
//
//	| &('func' | '@' | ASYNC) function_def
//	| &'if' if_stmt
//	| &('class' | '@') class_def
//	| &('with' | ASYNC) with_stmt
//	| &('for' | ASYNC) for_stmt
//	| &'try' try_stmt
//	| &'while' while_stmt
//	| match_stmt
func (p *Parser) compoundStmt() (ast.Stmt, bool) {
	return rule(p, ruleCompoundStmt, func() (ast.Stmt, bool) {
		t := p.peek()
		if t == nil {
			return nil, false
		}
		switch t.Type {
		case token.FUNC:
			return p.functionDef()
		case token.AT:
			return firstOf(p, p.functionDef, p.classDef)
		case token.ASYNC:
			return firstOf(p, p.functionDef, p.withStmt, p.forStmt)
		case token.IF:
			return p.ifStmt()
		case token.CLASS:
			return p.classDef()
		case token.WITH:
			return p.withStmt()
		case token.FOR:
			return p.forStmt()
		case token.TRY:
			return p.tryStmt()
		case token.WHILE:
			return p.whileStmt()
		case token.NAME:
			return p.matchStmt()
		}
		return nil, false
	})
}

// assignment:
//
//	| NAME ':' expression ['=' annotated_rhs]
//	| ('(' single_target ')' | single_subscript_attribute_target) ':' expression ['=' annotated_rhs]
//	| (star_targets '=')+ (yield_expr | star_expressions) !'='
//	| single_target augassign ~ (yield_expr | star_expressions)
//	| invalid_assignment
func (p *Parser) assignment() (ast.Stmt, bool) {
	return rule(p, ruleAssignment, func() (ast.Stmt, bool) {
		start := p.mark
		if n := p.nameToken(); n != nil {
			target := p.ast.Name(p.ast.Identifier(n.Text), ast.Store, p.span(start))
			if p.expect(token.COLON) != nil {
				if ann, ok := p.expression(); ok {
					value := p.annotatedValue()
					return p.ast.AnnAssign(target, ann, value, true, p.span(start)), true
				}
			}
		}
		p.mark = start
		if target, ok := p.annotationTarget(); ok && p.expect(token.COLON) != nil {
			if ann, ok := p.expression(); ok {
				value := p.annotatedValue()
				return p.ast.AnnAssign(target, ann, value, false, p.span(start)), true
			}
		}
		p.mark = start
		targets := repeat0(p, func() (ast.Expr, bool) {
			if a, ok := p.starTargets(); ok && p.expect(token.EQUAL) != nil {
				return a, true
			}
			return nil, false
		})
		if len(targets) > 0 {
			if v, ok := p.annotatedRHS(); ok && !p.at(token.EQUAL) {
				return p.ast.Assign(seq(p, targets), v, p.span(start)), true
			}
		}
		p.mark = start
		if target, ok := p.singleTarget(); ok {
			if op, ok := p.augassign(); ok {
				v, ok := p.annotatedRHS()
				if !ok {
					return nil, false
				}
				return p.ast.AugAssign(target, op, v, p.span(start)), true
			}
		}
		p.mark = start
		p.invalidAssignment()
		return nil, false
	})
}

// '(' single_target ')' | single_subscript_attribute_target
func (p *Parser) annotationTarget() (ast.Expr, bool) {
	start := p.mark
	if p.expect(token.LPAR) != nil {
		if a, ok := p.singleTarget(); ok && p.expect(token.RPAR) != nil {
			return a, true
		}
	}
	p.mark = start
	return p.singleSubscriptAttributeTarget()
}

// ['=' annotated_rhs]
func (p *Parser) annotatedValue() ast.Expr {
	mark := p.mark
	if p.expect(token.EQUAL) != nil {
		if v, ok := p.annotatedRHS(); ok {
			return v
		}
	}
	p.mark = mark
	return nil
}

// annotated_rhs: yield_expr | star_expressions
func (p *Parser) annotatedRHS() (ast.Expr, bool) {
	return rule(p, ruleAnnotatedRHS, func() (ast.Expr, bool) {
		return firstOf(p, p.yieldExpr, p.starExpressions)
	})
}

var augOps = map[token.Type]ast.Operator{
	token.PLUSEQUAL: ast.Add, token.MINEQUAL: ast.Sub, token.STAREQUAL: ast.Mult,
	token.ATEQUAL: ast.MatMult, token.SLASHEQUAL: ast.Div, token.PERCENTEQUAL: ast.Modulo,
	token.AMPEREQUAL: ast.BitAnd, token.VBAREQUAL: ast.BitOr, token.CIRCUMFLEXEQUAL: ast.BitXor,
	token.LEFTSHIFTEQUAL: ast.LShift, token.RIGHTSHIFTEQUAL: ast.RShift,
	token.DOUBLESTAREQUAL: ast.Pow, token.DOUBLESLASHEQUAL: ast.FloorDiv,
}

// augassign: '+=' | '-=' | '*=' | '@=' | '/=' | '%=' | '&=' | '|=' | '^=' | '<<=' | '>>=' | '**=' | '//='
func (p *Parser) augassign() (ast.Operator, bool) {
	t := p.peek()
	if t == nil {
		return 0, false
	}
	op, ok := augOps[t.Type]
	if ok {
		p.mark++
	}
	return op, ok
}

// return_stmt: 'return' [star_expressions]
func (p *Parser) returnStmt() (ast.Stmt, bool) {
	return rule(p, ruleReturnStmt, func() (ast.Stmt, bool) {
		start := p.mark
		if p.expect(token.RETURN) == nil {
			return nil, false
		}
		a, _ := p.starExpressions()
		return p.ast.Return(a, p.span(start)), true
	})
}

// raise_stmt: 'raise' expression ['from' expression] | 'raise'
func (p *Parser) raiseStmt() (ast.Stmt, bool) {
	return rule(p, ruleRaiseStmt, func() (ast.Stmt, bool) {
		start := p.mark
		if p.expect(token.RAISE) == nil {
			return nil, false
		}
		exc, ok := p.expression()
		if !ok {
			return p.ast.Raise(nil, nil, p.span(start)), true
		}
		var cause ast.Expr
		mark := p.mark
		if p.expect(token.FROM) != nil {
			if cause, ok = p.expression(); !ok {
				p.mark = mark
			}
		}
		return p.ast.Raise(exc, cause, p.span(start)), true
	})
}

// global_stmt: 'global' ','.NAME+
// nonlocal_stmt: 'nonlocal' ','.NAME+
func (p *Parser) globalStmt() (ast.Stmt, bool) {
	return rule(p, ruleGlobalStmt, func() (ast.Stmt, bool) {
		start := p.mark
		kw := p.peek()
		if kw == nil || (kw.Type != token.GLOBAL && kw.Type != token.NONLOCAL) {
			return nil, false
		}
		p.mark++
		names, ok := gather(p, token.COMMA, func() (string, bool) {
			if n := p.nameToken(); n != nil {
				return p.ast.Identifier(n.Text), true
			}
			return "", false
		})
		if !ok {
			return nil, false
		}
		if kw.Type == token.GLOBAL {
			return p.ast.Global(seq(p, names), p.span(start)), true
		}
		return p.ast.Nonlocal(seq(p, names), p.span(start)), true
	})
}

// del_stmt: 'del' del_targets &(';' | NEWLINE) | invalid_del_stmt
func (p *Parser) delStmt() (ast.Stmt, bool) {
	return rule(p, ruleDelStmt, func() (ast.Stmt, bool) {
		start := p.mark
		if p.expect(token.DEL) != nil {
			if a, ok := p.delTargets(); ok && p.atAny(token.SEMI, token.NEWLINE) {
				return p.ast.Delete(a, p.span(start)), true
			}
		}
		p.mark = start
		p.invalidDelStmt()
		return nil, false
	})
}

// yield_stmt: yield_expr
func (p *Parser) yieldStmt() (ast.Stmt, bool) {
	return rule(p, ruleYieldStmt, func() (ast.Stmt, bool) {
		start := p.mark
		if a, ok := p.yieldExpr(); ok {
			return p.ast.ExprStmt(a, p.span(start)), true
		}
		return nil, false
	})
}

// assert_stmt: 'assert' expression [',' expression]
func (p *Parser) assertStmt() (ast.Stmt, bool) {
	return rule(p, ruleAssertStmt, func() (ast.Stmt, bool) {
		start := p.mark
		if p.expect(token.ASSERT) == nil {
			return nil, false
		}
		test, ok := p.expression()
		if !ok {
			return nil, false
		}
		var msg ast.Expr
		mark := p.mark
		if p.expect(token.COMMA) != nil {
			if msg, ok = p.expression(); !ok {
				p.mark = mark
			}
		}
		return p.ast.Assert(test, msg, p.span(start)), true
	})
}

// import_name: 'import' dotted_as_names
func (p *Parser) importName() (ast.Stmt, bool) {
	return rule(p, ruleImportName, func() (ast.Stmt, bool) {
		start := p.mark
		if p.expect(token.IMPORT) == nil {
			return nil, false
		}
		names, ok := gather(p, token.COMMA, p.dottedAsName)
		if !ok {
			return nil, false
		}
		return p.ast.Import(seq(p, names), p.span(start)), true
	})
}

// import_from:
//
//	| 'from' ('.' | '...')* dotted_name 'import' import_from_targets
//	| 'from' ('.' | '...')+ 'import' import_from_targets
func (p *Parser) importFrom() (ast.Stmt, bool) {
	return rule(p, ruleImportFrom, func() (ast.Stmt, bool) {
		start := p.mark
		if p.expect(token.FROM) == nil {
			return nil, false
		}
		level := 0
		for {
			if p.expect(token.DOT) != nil {
				level++
			} else if p.expect(token.ELLIPSIS) != nil {
				level += 3
			} else {
				break
			}
		}
		module, ok := p.dottedName()
		if !ok && level == 0 {
			return nil, false
		}
		if p.expect(token.IMPORT) == nil {
			return nil, false
		}
		names, ok := p.importFromTargets()
		if !ok {
			return nil, false
		}
		return p.ast.ImportFrom(module, names, level, p.span(start)), true
	})
}

// import_from_targets:
//
//	| '(' import_from_as_names [','] ')'
//	| import_from_as_names !','
//	| '*'
//	| invalid_import_from_targets
func (p *Parser) importFromTargets() ([]*ast.Alias, bool) {
	return rule(p, ruleImportFromTargets, func() ([]*ast.Alias, bool) {
		start := p.mark
		if p.expect(token.LPAR) != nil {
			if names, ok := gather(p, token.COMMA, p.importFromAsName); ok {
				p.skip(token.COMMA)
				if p.expect(token.RPAR) != nil {
					return seq(p, names), true
				}
			}
		}
		p.mark = start
		if names, ok := gather(p, token.COMMA, p.importFromAsName); ok && !p.at(token.COMMA) {
			return seq(p, names), true
		}
		p.mark = start
		if p.expect(token.STAR) != nil {
			return seq(p, []*ast.Alias{p.ast.Alias("*", "", p.span(start))}), true
		}
		p.invalidImportFromTargets()
		return nil, false
	})
}

// import_from_as_name: NAME ['as' NAME]
func (p *Parser) importFromAsName() (*ast.Alias, bool) {
	return rule(p, ruleImportFromAsName, func() (*ast.Alias, bool) {
		start := p.mark
		n := p.nameToken()
		if n == nil {
			return nil, false
		}
		asname := p.asName()
		return p.ast.Alias(p.ast.Identifier(n.Text), asname, p.span(start)), true
	})
}

// dotted_as_name: dotted_name ['as' NAME]
func (p *Parser) dottedAsName() (*ast.Alias, bool) {
	return rule(p, ruleDottedAsName, func() (*ast.Alias, bool) {
		start := p.mark
		name, ok := p.dottedName()
		if !ok {
			return nil, false
		}
		asname := p.asName()
		return p.ast.Alias(name, asname, p.span(start)), true
	})
}

// ['as' NAME]
func (p *Parser) asName() string {
	mark := p.mark
	if p.expect(token.AS) != nil {
		if n := p.nameToken(); n != nil {
			return p.ast.Identifier(n.Text)
		}
	}
	p.mark = mark
	return ""
}

// dotted_name: dotted_name '.' NAME | NAME
func (p *Parser) dottedName() (string, bool) {
	return leftRec(p, ruleDottedName, func() (string, bool) {
		start := p.mark
		if a, ok := p.dottedName(); ok && p.expect(token.DOT) != nil {
			if n := p.nameToken(); n != nil {
				return p.ast.Identifier(strings.Join([]string{a, n.Text}, ".")), true
			}
		}
		p.mark = start
		if n := p.nameToken(); n != nil {
			return p.ast.Identifier(n.Text), true
		}
		return "", false
	})
}

// block: NEWLINE INDENT statements DEDENT | simple_stmts | invalid_block
func (p *Parser) block() ([]ast.Stmt, bool) {
	return memoized(p, ruleBlock, func() ([]ast.Stmt, bool) {
		start := p.mark
		if p.expect(token.NEWLINE) != nil && p.expect(token.INDENT) != nil {
			if a, ok := p.statements(); ok && p.expect(token.DEDENT) != nil {
				return a, true
			}
		}
		p.mark = start
		if a, ok := p.simpleStmts(); ok {
			return a, true
		}
		p.mark = start
		p.invalidBlock()
		return nil, false
	})
}

// Consumes the ':' ending the header of a compound statement. A header that
// runs into the end of the line is reported in the second pass.
func (p *Parser) headerColon() bool {
	if p.expect(token.COLON) != nil {
		return true
	}
	if p.callInvalidRules && p.at(token.NEWLINE) {
		p.raiseAt(SyntaxError, p.mark, "expected ':'")
	}
	return false
}

// if_stmt:
//
//	| 'if' named_expression ':' block elif_stmt
//	| 'if' named_expression ':' block [else_block]
//
// elif_stmt:
//
//	| 'elif' named_expression ':' block elif_stmt
//	| 'elif' named_expression ':' block [else_block]
func (p *Parser) ifStmt() (ast.Stmt, bool) {
	return rule(p, ruleIfStmt, func() (ast.Stmt, bool) {
		return p.ifChain(token.IF)
	})
}

func (p *Parser) elifStmt() (ast.Stmt, bool) {
	return rule(p, ruleElifStmt, func() (ast.Stmt, bool) {
		return p.ifChain(token.ELIF)
	})
}

func (p *Parser) ifChain(kw token.Type) (ast.Stmt, bool) {
	start := p.mark
	if p.expect(kw) == nil {
		return nil, false
	}
	test, ok := p.namedExpression()
	if !ok || !p.headerColon() {
		return nil, false
	}
	body, ok := p.block()
	if !ok {
		return nil, false
	}
	var orelse []ast.Stmt
	if p.at(token.ELIF) {
		elif, ok := p.elifStmt()
		if !ok {
			return nil, false
		}
		orelse = seq(p, []ast.Stmt{elif})
	} else {
		orelse = p.elseBlock()
		if p.err != nil {
			return nil, false
		}
	}
	return p.ast.If(test, body, orelse, p.span(start)), true
}

// else_block: 'else' &&':' block
func (p *Parser) elseBlock() []ast.Stmt {
	mark := p.mark
	if p.expect(token.ELSE) != nil && p.expectForced(token.COLON, ":") != nil {
		if body, ok := p.block(); ok {
			return body
		}
	}
	p.mark = mark
	return nil
}

// while_stmt: 'while' named_expression ':' block [else_block]
func (p *Parser) whileStmt() (ast.Stmt, bool) {
	return rule(p, ruleWhileStmt, func() (ast.Stmt, bool) {
		start := p.mark
		if p.expect(token.WHILE) == nil {
			return nil, false
		}
		test, ok := p.namedExpression()
		if !ok || !p.headerColon() {
			return nil, false
		}
		body, ok := p.block()
		if !ok {
			return nil, false
		}
		orelse := p.elseBlock()
		return p.ast.While(test, body, orelse, p.span(start)), true
	})
}

// for_stmt:
//
//	| [ASYNC] 'for' star_targets 'in' ~ star_expressions &&':' block [else_block]
//	| invalid_for_target
func (p *Parser) forStmt() (ast.Stmt, bool) {
	return rule(p, ruleForStmt, func() (ast.Stmt, bool) {
		start := p.mark
		isAsync := p.expect(token.ASYNC) != nil
		if p.expect(token.FOR) != nil {
			if target, ok := p.starTargets(); ok && p.expect(token.IN) != nil {
				iter, ok := p.starExpressions()
				if !ok || p.expectForced(token.COLON, ":") == nil {
					return nil, false
				}
				body, ok := p.block()
				if !ok {
					return nil, false
				}
				orelse := p.elseBlock()
				if isAsync {
					return p.ast.AsyncFor(target, iter, body, orelse, p.span(start)), true
				}
				return p.ast.For(target, iter, body, orelse, p.span(start)), true
			}
		}
		p.mark = start
		p.invalidForTarget()
		return nil, false
	})
}

// with_stmt:
//
//	| [ASYNC] 'with' '(' ','.with_item+ ','? ')' ':' block
//	| [ASYNC] 'with' ','.with_item+ ':' block
func (p *Parser) withStmt() (ast.Stmt, bool) {
	return rule(p, ruleWithStmt, func() (ast.Stmt, bool) {
		start := p.mark
		isAsync := p.expect(token.ASYNC) != nil
		if p.expect(token.WITH) == nil {
			return nil, false
		}
		head := p.mark
		items, ok := p.parenthesizedWithItems()
		if !ok {
			p.mark = head
			if items, ok = gather(p, token.COMMA, p.withItem); !ok {
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
		if isAsync {
			return p.ast.AsyncWith(seq(p, items), body, p.span(start)), true
		}
		return p.ast.With(seq(p, items), body, p.span(start)), true
	})
}

// '(' ','.with_item+ ','? ')' &':'
func (p *Parser) parenthesizedWithItems() ([]*ast.WithItem, bool) {
	if p.expect(token.LPAR) == nil {
		return nil, false
	}
	items, ok := gather(p, token.COMMA, p.withItem)
	if !ok {
		return nil, false
	}
	p.skip(token.COMMA)
	if p.expect(token.RPAR) == nil || !p.at(token.COLON) {
		return nil, false
	}
	return items, true
}

// with_item:
//
//	| expression 'as' star_target &(',' | ')' | ':')
//	| invalid_with_item
//	| expression
func (p *Parser) withItem() (*ast.WithItem, bool) {
	return rule(p, ruleWithItem, func() (*ast.WithItem, bool) {
		start := p.mark
		e, ok := p.expression()
		if !ok {
			return nil, false
		}
		mark := p.mark
		if p.expect(token.AS) != nil {
			if t, ok := p.starTarget(); ok && p.atAny(token.COMMA, token.RPAR, token.COLON) {
				return p.ast.WithItem(e, t), true
			}
		}
		p.mark = start
		if p.invalidWithItem(); p.err != nil {
			return nil, false
		}
		p.mark = mark
		return p.ast.WithItem(e, nil), true
	})
}

// try_stmt:
//
//	| 'try' &&':' block finally_block
//	| 'try' &&':' block except_block+ [else_block] [finally_block]
func (p *Parser) tryStmt() (ast.Stmt, bool) {
	return rule(p, ruleTryStmt, func() (ast.Stmt, bool) {
		start := p.mark
		if p.expect(token.TRY) == nil || p.expectForced(token.COLON, ":") == nil {
			return nil, false
		}
		body, ok := p.block()
		if !ok {
			return nil, false
		}
		handlers := repeat0(p, p.exceptBlock)
		var orelse []ast.Stmt
		if len(handlers) > 0 {
			orelse = p.elseBlock()
		}
		final := p.finallyBlock()
		if p.err != nil {
			return nil, false
		}
		if len(handlers) == 0 && final == nil {
			if p.callInvalidRules {
				p.raiseAt(SyntaxError, p.mark, "expected 'except' or 'finally' block")
			}
			return nil, false
		}
		return p.ast.Try(body, seq(p, handlers), orelse, final, p.span(start)), true
	})
}

// except_block: 'except' expression ['as' NAME] ':' block | 'except' ':' block
func (p *Parser) exceptBlock() (*ast.ExceptHandler, bool) {
	return rule(p, ruleExceptBlock, func() (*ast.ExceptHandler, bool) {
		start := p.mark
		if p.expect(token.EXCEPT) == nil {
			return nil, false
		}
		var typ ast.Expr
		var name string
		if !p.at(token.COLON) {
			var ok bool
			if typ, ok = p.expression(); !ok {
				return nil, false
			}
			name = p.asName()
		}
		if !p.headerColon() {
			return nil, false
		}
		body, ok := p.block()
		if !ok {
			return nil, false
		}
		return p.ast.ExceptHandler(typ, name, body, p.span(start)), true
	})
}

// finally_block: 'finally' &&':' block
func (p *Parser) finallyBlock() []ast.Stmt {
	mark := p.mark
	if p.expect(token.FINALLY) != nil && p.expectForced(token.COLON, ":") != nil {
		if body, ok := p.block(); ok {
			return body
		}
	}
	p.mark = mark
	return nil
}

// decorators: ('@' named_expression NEWLINE)+
func (p *Parser) decorators() ([]ast.Expr, bool) {
	return memoized(p, ruleDecorators, func() ([]ast.Expr, bool) {
		items, ok := repeat1(p, func() (ast.Expr, bool) {
			if p.expect(token.AT) == nil {
				return nil, false
			}
			if a, ok := p.namedExpression(); ok && p.expect(token.NEWLINE) != nil {
				return a, true
			}
			return nil, false
		})
		if !ok {
			return nil, false
		}
		return seq(p, items), true
	})
}

// function_def: decorators function_def_raw | function_def_raw
func (p *Parser) functionDef() (ast.Stmt, bool) {
	return rule(p, ruleFunctionDef, func() (ast.Stmt, bool) {
		decorators, _ := p.decorators()
		return p.functionDefRaw(decorators)
	})
}

// function_def_raw: [ASYNC] 'func' NAME '(' [params] ')' ['->' expression] &&':' block
func (p *Parser) functionDefRaw(decorators []ast.Expr) (ast.Stmt, bool) {
	return rule(p, ruleFunctionDefRaw, func() (ast.Stmt, bool) {
		start := p.mark
		isAsync := p.expect(token.ASYNC) != nil
		if p.expect(token.FUNC) == nil {
			return nil, false
		}
		n := p.nameToken()
		if n == nil || p.expect(token.LPAR) == nil {
			return nil, false
		}
		args, ok := p.params()
		if !ok {
			if p.err != nil {
				return nil, false
			}
			args = p.ast.EmptyArguments()
		}
		if p.expect(token.RPAR) == nil {
			return nil, false
		}
		var returns ast.Expr
		if p.expect(token.RARROW) != nil {
			if returns, ok = p.expression(); !ok {
				return nil, false
			}
		}
		if p.expectForced(token.COLON, ":") == nil {
			return nil, false
		}
		body, ok := p.block()
		if !ok {
			return nil, false
		}
		name := p.ast.Identifier(n.Text)
		if isAsync {
			return p.ast.AsyncFunctionDef(name, args, body, decorators, returns, p.span(start)), true
		}
		return p.ast.FunctionDef(name, args, body, decorators, returns, p.span(start)), true
	})
}

// class_def: decorators class_def_raw | class_def_raw
func (p *Parser) classDef() (ast.Stmt, bool) {
	return rule(p, ruleClassDef, func() (ast.Stmt, bool) {
		decorators, _ := p.decorators()
		return p.classDefRaw(decorators)
	})
}

// class_def_raw: 'class' NAME ['(' [arguments] ')'] &&':' block
func (p *Parser) classDefRaw(decorators []ast.Expr) (ast.Stmt, bool) {
	return rule(p, ruleClassDefRaw, func() (ast.Stmt, bool) {
		start := p.mark
		if p.expect(token.CLASS) == nil {
			return nil, false
		}
		n := p.nameToken()
		if n == nil {
			return nil, false
		}
		var args *callArgs
		if p.expect(token.LPAR) != nil {
			args, _ = p.arguments()
			if p.expect(token.RPAR) == nil {
				return nil, false
			}
		}
		if p.expectForced(token.COLON, ":") == nil {
			return nil, false
		}
		body, ok := p.block()
		if !ok {
			return nil, false
		}
		return p.ast.ClassDef(p.ast.Identifier(n.Text), args.positional(), args.keywordList(), body, decorators, p.span(start)), true
	})
}
