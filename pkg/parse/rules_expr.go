package parse

import (
	"src.cronus.dev/pkg/arena"
	"src.cronus.dev/pkg/ast"
	"src.cronus.dev/pkg/object"
	"src.cronus.dev/pkg/token"
)

// expressions: expression (',' expression)* [',']
func (p *Parser) expressions() (ast.Expr, bool) {
	return rule(p, ruleExpressions, func() (ast.Expr, bool) {
		start := p.mark
		items, ok := gather(p, token.COMMA, p.expression)
		if !ok {
			return nil, false
		}
		if len(items) == 1 && p.expect(token.COMMA) == nil {
			return items[0], true
		}
		p.skip(token.COMMA)
		return p.ast.Tuple(seq(p, items), ast.Load, p.span(start)), true
	})
}

// expression:
//
//	| invalid_expression
//	| disjunction 'if' disjunction 'else' expression
//	| disjunction
//	| lambdef
func (p *Parser) expression() (ast.Expr, bool) {
	return memoized(p, ruleExpression, func() (ast.Expr, bool) {
		mark := p.mark
		if p.invalidExpression(); p.err != nil {
			return nil, false
		}
		p.mark = mark
		return p.expressionAlts()
	})
}

// expression without the invalid_expression alternative. The diagnostic
// rules are disabled while it runs.
func (p *Parser) expressionWithoutInvalid() (ast.Expr, bool) {
	return rule(p, ruleExpressionWithoutInvalid, func() (ast.Expr, bool) {
		saved := p.callInvalidRules
		p.callInvalidRules = false
		defer func() { p.callInvalidRules = saved }()
		return p.expressionAlts()
	})
}

func (p *Parser) expressionAlts() (ast.Expr, bool) {
	start := p.mark
	if a, ok := p.disjunction(); ok {
		mark := p.mark
		if p.expect(token.IF) != nil {
			if b, ok := p.disjunction(); ok {
				if p.expect(token.ELSE) != nil {
					if c, ok := p.expression(); ok {
						return p.ast.IfExp(b, a, c, p.span(start)), true
					}
				}
			}
		}
		p.mark = mark
		return a, true
	}
	p.mark = start
	return p.lambdef()
}

// yield_expr: 'yield' 'from' expression | 'yield' [star_expressions]
func (p *Parser) yieldExpr() (ast.Expr, bool) {
	return rule(p, ruleYieldExpr, func() (ast.Expr, bool) {
		start := p.mark
		if p.expect(token.YIELD) == nil {
			return nil, false
		}
		mark := p.mark
		if p.expect(token.FROM) != nil {
			if a, ok := p.expression(); ok {
				return p.ast.YieldFrom(a, p.span(start)), true
			}
		}
		p.mark = mark
		a, _ := p.starExpressions()
		return p.ast.Yield(a, p.span(start)), true
	})
}

// star_expressions: star_expression (',' star_expression)* [',']
func (p *Parser) starExpressions() (ast.Expr, bool) {
	return rule(p, ruleStarExpressions, func() (ast.Expr, bool) {
		start := p.mark
		items, ok := gather(p, token.COMMA, p.starExpression)
		if !ok {
			return nil, false
		}
		if len(items) == 1 && !p.at(token.COMMA) {
			return items[0], true
		}
		p.skip(token.COMMA)
		return p.ast.Tuple(seq(p, items), ast.Load, p.span(start)), true
	})
}

// star_expression: '*' bitwise_or | expression
func (p *Parser) starExpression() (ast.Expr, bool) {
	return memoized(p, ruleStarExpression, func() (ast.Expr, bool) {
		start := p.mark
		if p.expect(token.STAR) != nil {
			if a, ok := p.bitwiseOr(); ok {
				return p.ast.Starred(a, ast.Load, p.span(start)), true
			}
		}
		p.mark = start
		return p.expression()
	})
}

// star_named_expressions: ','.star_named_expression+ [',']
func (p *Parser) starNamedExpressions() ([]ast.Expr, bool) {
	return rule(p, ruleStarNamedExpressions, func() ([]ast.Expr, bool) {
		items, ok := gather(p, token.COMMA, p.starNamedExpression)
		if !ok {
			return nil, false
		}
		p.skip(token.COMMA)
		return seq(p, items), true
	})
}

// star_named_expression: '*' bitwise_or | named_expression
func (p *Parser) starNamedExpression() (ast.Expr, bool) {
	return rule(p, ruleStarNamedExpression, func() (ast.Expr, bool) {
		start := p.mark
		if p.expect(token.STAR) != nil {
			if a, ok := p.bitwiseOr(); ok {
				return p.ast.Starred(a, ast.Load, p.span(start)), true
			}
		}
		p.mark = start
		return p.namedExpression()
	})
}

// assignment_expression: NAME ':=' ~ expression
func (p *Parser) assignmentExpression() (ast.Expr, bool) {
	return rule(p, ruleAssignmentExpression, func() (ast.Expr, bool) {
		start := p.mark
		n := p.nameToken()
		if n == nil || p.expect(token.COLONEQUAL) == nil {
			return nil, false
		}
		target := p.ast.Name(p.ast.Identifier(n.Text), ast.Store, p.span(start))
		if b, ok := p.expression(); ok {
			return p.ast.NamedExpr(target, b, p.span(start)), true
		}
		return nil, false
	})
}

// named_expression:
//
//	| assignment_expression
//	| invalid_named_expression
//	| expression !':='
func (p *Parser) namedExpression() (ast.Expr, bool) {
	return rule(p, ruleNamedExpression, func() (ast.Expr, bool) {
		start := p.mark
		if a, ok := p.assignmentExpression(); ok {
			return a, true
		}
		p.mark = start
		if p.invalidNamedExpression(); p.err != nil {
			return nil, false
		}
		p.mark = start
		if a, ok := p.expression(); ok && !p.at(token.COLONEQUAL) {
			return a, true
		}
		return nil, false
	})
}

// disjunction: conjunction ('or' conjunction)+ | conjunction
func (p *Parser) disjunction() (ast.Expr, bool) {
	return memoized(p, ruleDisjunction, func() (ast.Expr, bool) {
		return p.boolOp(token.OR, ast.Or, p.conjunction)
	})
}

// conjunction: inversion ('and' inversion)+ | inversion
func (p *Parser) conjunction() (ast.Expr, bool) {
	return memoized(p, ruleConjunction, func() (ast.Expr, bool) {
		return p.boolOp(token.AND, ast.And, p.inversion)
	})
}

func (p *Parser) boolOp(typ token.Type, op ast.BoolOperator, operand func() (ast.Expr, bool)) (ast.Expr, bool) {
	start := p.mark
	items, ok := gather(p, typ, operand)
	if !ok {
		return nil, false
	}
	if len(items) == 1 {
		return items[0], true
	}
	return p.ast.BoolOp(op, seq(p, items), p.span(start)), true
}

// inversion: 'not' inversion | comparison
func (p *Parser) inversion() (ast.Expr, bool) {
	return memoized(p, ruleInversion, func() (ast.Expr, bool) {
		start := p.mark
		if p.expect(token.NOT) != nil {
			if a, ok := p.inversion(); ok {
				return p.ast.UnaryOp(ast.Not, a, p.span(start)), true
			}
		}
		p.mark = start
		return p.comparison()
	})
}

type comparePair struct {
	op    ast.CmpOperator
	right ast.Expr
}

// comparison: bitwise_or compare_op_bitwise_or_pair+ | bitwise_or
func (p *Parser) comparison() (ast.Expr, bool) {
	return rule(p, ruleComparison, func() (ast.Expr, bool) {
		start := p.mark
		a, ok := p.bitwiseOr()
		if !ok {
			return nil, false
		}
		pairs := repeat0(p, p.comparePair)
		if len(pairs) == 0 {
			return a, true
		}
		ops := make([]ast.CmpOperator, len(pairs))
		rights := make([]ast.Expr, len(pairs))
		for i, pair := range pairs {
			ops[i], rights[i] = pair.op, pair.right
		}
		return p.ast.Compare(a, seq(p, ops), seq(p, rights), p.span(start)), true
	})
}

var compareOps = map[token.Type]ast.CmpOperator{
	token.EQEQUAL: ast.Eq, token.NOTEQUAL: ast.NotEq, token.LESSEQUAL: ast.LtE,
	token.LESS: ast.Lt, token.GREATEREQUAL: ast.GtE, token.GREATER: ast.Gt,
	token.IN: ast.In, token.IS: ast.Is,
}

// compare_op_bitwise_or_pair:
//
//	| ('==' | '!=' | '<=' | '<' | '>=' | '>' | 'in' | 'is') bitwise_or
//	| 'not' 'in' bitwise_or
//	| 'is' 'not' bitwise_or
func (p *Parser) comparePair() (comparePair, bool) {
	return rule(p, ruleComparePair, func() (comparePair, bool) {
		t := p.peek()
		if t == nil {
			return comparePair{}, false
		}
		var op ast.CmpOperator
		switch t.Type {
		case token.NOT:
			p.mark++
			if p.expect(token.IN) == nil {
				return comparePair{}, false
			}
			op = ast.NotIn
		case token.IS:
			p.mark++
			op = ast.Is
			if p.expect(token.NOT) != nil {
				op = ast.IsNot
			}
		default:
			var ok bool
			if op, ok = compareOps[t.Type]; !ok {
				return comparePair{}, false
			}
			p.mark++
		}
		if b, ok := p.bitwiseOr(); ok {
			return comparePair{op, b}, true
		}
		return comparePair{}, false
	})
}

// A left-recursive binary operator level: level (op operand)* | operand
func (p *Parser) binaryLevel(self, operand func() (ast.Expr, bool), ops map[token.Type]ast.Operator) (ast.Expr, bool) {
	start := p.mark
	if a, ok := self(); ok {
		if t := p.peek(); t != nil {
			if op, ok := ops[t.Type]; ok {
				p.mark++
				if b, ok := operand(); ok {
					return p.ast.BinOp(a, op, b, p.span(start)), true
				}
			}
		}
	}
	p.mark = start
	return operand()
}

var (
	bitwiseOrOps  = map[token.Type]ast.Operator{token.VBAR: ast.BitOr}
	bitwiseXorOps = map[token.Type]ast.Operator{token.CIRCUMFLEX: ast.BitXor}
	bitwiseAndOps = map[token.Type]ast.Operator{token.AMPER: ast.BitAnd}
	shiftOps      = map[token.Type]ast.Operator{token.LEFTSHIFT: ast.LShift, token.RIGHTSHIFT: ast.RShift}
	sumOps        = map[token.Type]ast.Operator{token.PLUS: ast.Add, token.MINUS: ast.Sub}
	termOps       = map[token.Type]ast.Operator{
		token.STAR: ast.Mult, token.SLASH: ast.Div, token.DOUBLESLASH: ast.FloorDiv,
		token.PERCENT: ast.Modulo, token.AT: ast.MatMult,
	}
)

// bitwise_or: bitwise_or '|' bitwise_xor | bitwise_xor
func (p *Parser) bitwiseOr() (ast.Expr, bool) {
	return leftRec(p, ruleBitwiseOr, func() (ast.Expr, bool) {
		return p.binaryLevel(p.bitwiseOr, p.bitwiseXor, bitwiseOrOps)
	})
}

// bitwise_xor: bitwise_xor '^' bitwise_and | bitwise_and
func (p *Parser) bitwiseXor() (ast.Expr, bool) {
	return leftRec(p, ruleBitwiseXor, func() (ast.Expr, bool) {
		return p.binaryLevel(p.bitwiseXor, p.bitwiseAnd, bitwiseXorOps)
	})
}

// bitwise_and: bitwise_and '&' shift_expr | shift_expr
func (p *Parser) bitwiseAnd() (ast.Expr, bool) {
	return leftRec(p, ruleBitwiseAnd, func() (ast.Expr, bool) {
		return p.binaryLevel(p.bitwiseAnd, p.shiftExpr, bitwiseAndOps)
	})
}

// shift_expr: shift_expr ('<<' | '>>') sum | sum
func (p *Parser) shiftExpr() (ast.Expr, bool) {
	return leftRec(p, ruleShiftExpr, func() (ast.Expr, bool) {
		return p.binaryLevel(p.shiftExpr, p.sum, shiftOps)
	})
}

// sum: sum ('+' | '-') term | term
func (p *Parser) sum() (ast.Expr, bool) {
	return leftRec(p, ruleSum, func() (ast.Expr, bool) {
		return p.binaryLevel(p.sum, p.term, sumOps)
	})
}

// term: term ('*' | '/' | '//' | '%' | '@') factor | factor
func (p *Parser) term() (ast.Expr, bool) {
	return leftRec(p, ruleTerm, func() (ast.Expr, bool) {
		return p.binaryLevel(p.term, p.factor, termOps)
	})
}

var unaryOps = map[token.Type]ast.UnaryOperator{
	token.PLUS: ast.UAdd, token.MINUS: ast.USub, token.TILDE: ast.Invert,
}

// factor: ('+' | '-' | '~') factor | power
func (p *Parser) factor() (ast.Expr, bool) {
	return memoized(p, ruleFactor, func() (ast.Expr, bool) {
		start := p.mark
		if t := p.peek(); t != nil {
			if op, ok := unaryOps[t.Type]; ok {
				p.mark++
				if a, ok := p.factor(); ok {
					return p.ast.UnaryOp(op, a, p.span(start)), true
				}
			}
		}
		p.mark = start
		return p.power()
	})
}

// power: await_primary '**' factor | await_primary
func (p *Parser) power() (ast.Expr, bool) {
	return rule(p, rulePower, func() (ast.Expr, bool) {
		start := p.mark
		a, ok := p.awaitPrimary()
		if !ok {
			return nil, false
		}
		mark := p.mark
		if p.expect(token.DOUBLESTAR) != nil {
			if b, ok := p.factor(); ok {
				return p.ast.BinOp(a, ast.Pow, b, p.span(start)), true
			}
		}
		p.mark = mark
		return a, true
	})
}

// await_primary: AWAIT primary | primary
func (p *Parser) awaitPrimary() (ast.Expr, bool) {
	return memoized(p, ruleAwaitPrimary, func() (ast.Expr, bool) {
		start := p.mark
		if p.expect(token.AWAIT) != nil {
			if a, ok := p.primary(); ok {
				return p.ast.Await(a, p.span(start)), true
			}
		}
		p.mark = start
		return p.primary()
	})
}

// primary:
//
//	| primary '.' NAME
//	| primary genexp
//	| primary '(' [arguments] ')'
//	| primary '[' slices ']'
//	| atom
func (p *Parser) primary() (ast.Expr, bool) {
	return leftRec(p, rulePrimary, func() (ast.Expr, bool) {
		start := p.mark
		if a, ok := p.primary(); ok {
			if e, ok := p.trailer(a, start); ok {
				return e, true
			}
		}
		p.mark = start
		return p.atom()
	})
}

// Parses one attribute reference, call or subscription applied to a, which
// started at the token start. Shared by primary and t_primary.
func (p *Parser) trailer(a ast.Expr, start int) (ast.Expr, bool) {
	mark := p.mark
	if p.expect(token.DOT) != nil {
		if n := p.nameToken(); n != nil {
			return p.ast.Attribute(a, p.ast.Identifier(n.Text), ast.Load, p.span(start)), true
		}
	}
	p.mark = mark
	if g, ok := p.genexp(); ok {
		return p.ast.Call(a, seq(p, []ast.Expr{g}), nil, p.span(start)), true
	}
	p.mark = mark
	if p.expect(token.LPAR) != nil {
		args, _ := p.arguments()
		if p.expect(token.RPAR) != nil {
			return p.ast.Call(a, args.positional(), args.keywordList(), p.span(start)), true
		}
	}
	p.mark = mark
	if p.expect(token.LSQB) != nil {
		if s, ok := p.slices(); ok && p.expect(token.RSQB) != nil {
			return p.ast.Subscript(a, s, ast.Load, p.span(start)), true
		}
	}
	p.mark = mark
	return nil, false
}

// slices: slice !',' | ','.slice+ [',']
func (p *Parser) slices() (ast.Expr, bool) {
	return rule(p, ruleSlices, func() (ast.Expr, bool) {
		start := p.mark
		items, ok := gather(p, token.COMMA, p.slice)
		if !ok {
			return nil, false
		}
		if len(items) == 1 && !p.at(token.COMMA) {
			return items[0], true
		}
		p.skip(token.COMMA)
		return p.ast.Tuple(seq(p, items), ast.Load, p.span(start)), true
	})
}

// slice: [expression] ':' [expression] [':' [expression]] | named_expression
func (p *Parser) slice() (ast.Expr, bool) {
	return rule(p, ruleSlice, func() (ast.Expr, bool) {
		start := p.mark
		lower, _ := p.expression()
		if p.expect(token.COLON) != nil {
			upper, _ := p.expression()
			var step ast.Expr
			mark := p.mark
			if p.expect(token.COLON) != nil {
				step, _ = p.expression()
			} else {
				p.mark = mark
			}
			return p.ast.Slice(lower, upper, step, p.span(start)), true
		}
		p.mark = start
		return p.namedExpression()
	})
}

// atom:
//
//	| NAME
//	| 'True' | 'False' | 'Null'
//	| &STRING strings
//	| NUMBER
//	| &'(' (tuple | group | genexp)
//	| &'[' (list | listcomp)
//	| &'{' (dict | set | dictcomp | setcomp)
//	| '...'
func (p *Parser) atom() (ast.Expr, bool) {
	return rule(p, ruleAtom, func() (ast.Expr, bool) {
		start := p.mark
		t := p.peek()
		if t == nil {
			return nil, false
		}
		switch t.Type {
		case token.NAME:
			return p.name()
		case token.TRUE, token.FALSE, token.NULL:
			v, _ := p.singleton()
			return p.ast.Constant(object.Acquire(v), "", p.span(start)), true
		case token.STRING:
			return p.strings()
		case token.NUMBER:
			return p.number()
		case token.LPAR:
			return firstOf(p, p.tuple, p.group, p.genexp)
		case token.LSQB:
			return firstOf(p, p.list, p.listcomp)
		case token.LBRACE:
			return firstOf(p, p.dict, p.set, p.dictcomp, p.setcomp)
		case token.ELLIPSIS:
			p.mark++
			return p.ast.Constant(object.Acquire(object.Ellipsis), "", p.span(start)), true
		}
		return nil, false
	})
}

// firstOf returns the result of the first alternative that succeeds.
func firstOf[T any](p *Parser, alts ...func() (T, bool)) (T, bool) {
	start := p.mark
	for _, alt := range alts {
		if r, ok := alt(); ok {
			return r, true
		}
		p.mark = start
		if p.err != nil {
			break
		}
	}
	var zero T
	return zero, false
}

// strings: STRING+
func (p *Parser) strings() (ast.Expr, bool) {
	return memoized(p, ruleStrings, func() (ast.Expr, bool) {
		start := p.mark
		var toks []*token.Token
		for {
			t := p.expect(token.STRING)
			if t == nil {
				break
			}
			toks = append(toks, t)
		}
		if len(toks) == 0 {
			return nil, false
		}
		return p.concatStrings(toks, p.span(start))
	})
}

// list: '[' [star_named_expressions] ']'
func (p *Parser) list() (ast.Expr, bool) {
	return rule(p, ruleList, func() (ast.Expr, bool) {
		start := p.mark
		if p.expect(token.LSQB) == nil {
			return nil, false
		}
		a, _ := p.starNamedExpressions()
		if p.expect(token.RSQB) == nil {
			return nil, false
		}
		return p.ast.List(a, ast.Load, p.span(start)), true
	})
}

// listcomp: '[' named_expression for_if_clauses ']' | invalid_comprehension
func (p *Parser) listcomp() (ast.Expr, bool) {
	return rule(p, ruleListcomp, func() (ast.Expr, bool) {
		start := p.mark
		if p.expect(token.LSQB) != nil {
			if a, ok := p.namedExpression(); ok {
				if gens, ok := p.forIfClauses(); ok && p.expect(token.RSQB) != nil {
					return p.ast.ListComp(a, gens, p.span(start)), true
				}
			}
		}
		p.mark = start
		p.invalidComprehension()
		return nil, false
	})
}

// tuple: '(' [star_named_expression ',' [star_named_expressions]] ')'
func (p *Parser) tuple() (ast.Expr, bool) {
	return rule(p, ruleTuple, func() (ast.Expr, bool) {
		start := p.mark
		if p.expect(token.LPAR) == nil {
			return nil, false
		}
		var elts []ast.Expr
		mark := p.mark
		if a, ok := p.starNamedExpression(); ok && p.expect(token.COMMA) != nil {
			elts = append(elts, a)
			rest, _ := p.starNamedExpressions()
			elts = append(elts, rest...)
		} else {
			p.mark = mark
		}
		if p.expect(token.RPAR) == nil {
			return nil, false
		}
		return p.ast.Tuple(seq(p, elts), ast.Load, p.span(start)), true
	})
}

// group: '(' (yield_expr | named_expression) ')' | invalid_group
func (p *Parser) group() (ast.Expr, bool) {
	return rule(p, ruleGroup, func() (ast.Expr, bool) {
		start := p.mark
		if p.expect(token.LPAR) != nil {
			if a, ok := firstOf(p, p.yieldExpr, p.namedExpression); ok && p.expect(token.RPAR) != nil {
				return a, true
			}
		}
		p.mark = start
		p.invalidGroup()
		return nil, false
	})
}

// genexp:
//
//	| '(' (assignment_expression | expression !':=') for_if_clauses ')'
//	| invalid_comprehension
func (p *Parser) genexp() (ast.Expr, bool) {
	return rule(p, ruleGenexp, func() (ast.Expr, bool) {
		start := p.mark
		if p.expect(token.LPAR) != nil {
			if a, ok := firstOf(p, p.assignmentExpression, p.expressionNotWalrus); ok {
				if gens, ok := p.forIfClauses(); ok && p.expect(token.RPAR) != nil {
					return p.ast.GeneratorExp(a, gens, p.span(start)), true
				}
			}
		}
		p.mark = start
		p.invalidComprehension()
		return nil, false
	})
}

// expression !':='
func (p *Parser) expressionNotWalrus() (ast.Expr, bool) {
	a, ok := p.expression()
	if !ok || p.at(token.COLONEQUAL) {
		return nil, false
	}
	return a, true
}

// set: '{' star_named_expressions '}'
func (p *Parser) set() (ast.Expr, bool) {
	return rule(p, ruleSet, func() (ast.Expr, bool) {
		start := p.mark
		if p.expect(token.LBRACE) != nil {
			if a, ok := p.starNamedExpressions(); ok && p.expect(token.RBRACE) != nil {
				return p.ast.Set(a, p.span(start)), true
			}
		}
		return nil, false
	})
}

// setcomp: '{' named_expression for_if_clauses '}' | invalid_comprehension
func (p *Parser) setcomp() (ast.Expr, bool) {
	return rule(p, ruleSetcomp, func() (ast.Expr, bool) {
		start := p.mark
		if p.expect(token.LBRACE) != nil {
			if a, ok := p.namedExpression(); ok {
				if gens, ok := p.forIfClauses(); ok && p.expect(token.RBRACE) != nil {
					return p.ast.SetComp(a, gens, p.span(start)), true
				}
			}
		}
		p.mark = start
		p.invalidComprehension()
		return nil, false
	})
}

type kvPair struct {
	// nil for a "**" unpacking.
	key   ast.Expr
	value ast.Expr
}

// dict:
//
//	| '{' [double_starred_kvpairs] '}'
//	| '{' invalid_double_starred_kvpairs '}'
func (p *Parser) dict() (ast.Expr, bool) {
	return rule(p, ruleDict, func() (ast.Expr, bool) {
		start := p.mark
		if p.expect(token.LBRACE) == nil {
			return nil, false
		}
		mark := p.mark
		pairs, ok := p.doubleStarredKVPairs()
		if !ok {
			p.mark = mark
		}
		if p.expect(token.RBRACE) != nil {
			keys := make([]ast.Expr, len(pairs))
			values := make([]ast.Expr, len(pairs))
			for i, kv := range pairs {
				keys[i], values[i] = kv.key, kv.value
			}
			return p.ast.Dict(seq(p, keys), seq(p, values), p.span(start)), true
		}
		p.mark = mark
		p.invalidDoubleStarredKVPairs()
		return nil, false
	})
}

// dictcomp: '{' kvpair for_if_clauses '}'
func (p *Parser) dictcomp() (ast.Expr, bool) {
	return rule(p, ruleDictcomp, func() (ast.Expr, bool) {
		start := p.mark
		if p.expect(token.LBRACE) != nil {
			if kv, ok := p.kvpair(); ok {
				if gens, ok := p.forIfClauses(); ok && p.expect(token.RBRACE) != nil {
					return p.ast.DictComp(kv.key, kv.value, gens, p.span(start)), true
				}
			}
		}
		p.mark = start
		if p.callInvalidRules && p.expect(token.LBRACE) != nil {
			d := p.mark
			if p.expect(token.DOUBLESTAR) != nil {
				if _, ok := p.bitwiseOr(); ok {
					if _, ok := p.forIfClauses(); ok && p.at(token.RBRACE) {
						p.raiseAt(SyntaxError, d, "dict unpacking cannot be used in dict comprehension")
					}
				}
			}
		}
		return nil, false
	})
}

// double_starred_kvpairs: ','.double_starred_kvpair+ [',']
func (p *Parser) doubleStarredKVPairs() ([]kvPair, bool) {
	return rule(p, ruleDoubleStarredKVPairs, func() ([]kvPair, bool) {
		pairs, ok := gather(p, token.COMMA, p.doubleStarredKVPair)
		if !ok {
			return nil, false
		}
		p.skip(token.COMMA)
		return pairs, true
	})
}

// double_starred_kvpair: '**' bitwise_or | kvpair
func (p *Parser) doubleStarredKVPair() (kvPair, bool) {
	return rule(p, ruleDoubleStarredKVPair, func() (kvPair, bool) {
		start := p.mark
		if p.expect(token.DOUBLESTAR) != nil {
			if a, ok := p.bitwiseOr(); ok {
				return kvPair{nil, a}, true
			}
		}
		p.mark = start
		return p.kvpair()
	})
}

// kvpair: expression ':' expression
func (p *Parser) kvpair() (kvPair, bool) {
	return rule(p, ruleKVPair, func() (kvPair, bool) {
		if a, ok := p.expression(); ok && p.expect(token.COLON) != nil {
			if b, ok := p.expression(); ok {
				return kvPair{a, b}, true
			}
		}
		return kvPair{}, false
	})
}

// for_if_clauses: for_if_clause+
func (p *Parser) forIfClauses() ([]*ast.Comprehension, bool) {
	return rule(p, ruleForIfClauses, func() ([]*ast.Comprehension, bool) {
		gens, ok := repeat1(p, p.forIfClause)
		if !ok {
			return nil, false
		}
		return seq(p, gens), true
	})
}

// for_if_clause:
//
//	| [ASYNC] 'for' star_targets 'in' ~ disjunction ('if' disjunction)*
//	| invalid_for_target
func (p *Parser) forIfClause() (*ast.Comprehension, bool) {
	return rule(p, ruleForIfClause, func() (*ast.Comprehension, bool) {
		start := p.mark
		isAsync := p.expect(token.ASYNC) != nil
		if p.expect(token.FOR) != nil {
			if target, ok := p.starTargets(); ok && p.expect(token.IN) != nil {
				iter, ok := p.disjunction()
				if !ok {
					return nil, false
				}
				ifs := repeat0(p, func() (ast.Expr, bool) {
					if p.expect(token.IF) == nil {
						return nil, false
					}
					return p.disjunction()
				})
				return p.ast.Comprehension(target, iter, seq(p, ifs), isAsync), true
			}
		}
		p.mark = start
		p.invalidForTarget()
		return nil, false
	})
}

// Arguments of a call.
type callArgs struct {
	args     []ast.Expr
	keywords []*ast.Keyword
}

func (c *callArgs) positional() []ast.Expr {
	if c == nil {
		return nil
	}
	return c.args
}

func (c *callArgs) keywordList() []*ast.Keyword {
	if c == nil {
		return nil
	}
	return c.keywords
}

// arguments: args [','] &')' | invalid_arguments
func (p *Parser) arguments() (*callArgs, bool) {
	return memoized(p, ruleArguments, func() (*callArgs, bool) {
		start := p.mark
		if a, ok := p.args(); ok {
			p.skip(token.COMMA)
			if p.at(token.RPAR) {
				return a, true
			}
		}
		p.mark = start
		p.invalidArguments()
		return nil, false
	})
}

// args:
//
//	| ','.(starred_expression | (assignment_expression | expression !':=') !'=')+ [',' kwargs]
//	| kwargs
func (p *Parser) args() (*callArgs, bool) {
	return rule(p, ruleArgs, func() (*callArgs, bool) {
		start := p.mark
		positional, ok := gather(p, token.COMMA, p.positionalArg)
		if ok {
			mark := p.mark
			var kw []keywordOrStarred
			if p.expect(token.COMMA) != nil {
				if kw, ok = p.kwargs(); !ok {
					p.mark = mark
				}
			}
			return p.collectCallArgs(positional, kw), true
		}
		p.mark = start
		if kw, ok := p.kwargs(); ok {
			return p.collectCallArgs(nil, kw), true
		}
		return nil, false
	})
}

// starred_expression | (assignment_expression | expression !':=') !'='
func (p *Parser) positionalArg() (ast.Expr, bool) {
	start := p.mark
	if a, ok := p.starredExpression(); ok {
		return a, true
	}
	p.mark = start
	if a, ok := firstOf(p, p.assignmentExpression, p.expressionNotWalrus); ok && !p.at(token.EQUAL) {
		return a, true
	}
	p.mark = start
	return nil, false
}

// Starred items among keyword arguments are appended to the positional
// arguments.
func (p *Parser) collectCallArgs(positional []ast.Expr, kw []keywordOrStarred) *callArgs {
	var keywords []*ast.Keyword
	for _, k := range kw {
		if k.starred != nil {
			positional = append(positional, k.starred)
		} else {
			keywords = append(keywords, k.keyword)
		}
	}
	c := arena.NewOf[callArgs](p.a)
	*c = callArgs{seq(p, positional), seq(p, keywords)}
	return c
}

type keywordOrStarred struct {
	keyword *ast.Keyword
	starred ast.Expr
}

// kwargs:
//
//	| ','.kwarg_or_starred+ ',' ','.kwarg_or_double_starred+
//	| ','.kwarg_or_starred+
//	| ','.kwarg_or_double_starred+
func (p *Parser) kwargs() ([]keywordOrStarred, bool) {
	return rule(p, ruleKwargs, func() ([]keywordOrStarred, bool) {
		start := p.mark
		if a, ok := gather(p, token.COMMA, p.kwargOrStarred); ok {
			mark := p.mark
			if p.expect(token.COMMA) != nil {
				if b, ok := gather(p, token.COMMA, p.kwargOrDoubleStarred); ok {
					return append(a, b...), true
				}
			}
			p.mark = mark
			return a, true
		}
		p.mark = start
		return gather(p, token.COMMA, p.kwargOrDoubleStarred)
	})
}

// starred_expression: '*' expression
func (p *Parser) starredExpression() (ast.Expr, bool) {
	return rule(p, ruleStarredExpression, func() (ast.Expr, bool) {
		start := p.mark
		if p.expect(token.STAR) != nil {
			if a, ok := p.expression(); ok {
				return p.ast.Starred(a, ast.Load, p.span(start)), true
			}
		}
		return nil, false
	})
}

// kwarg_or_starred: invalid_kwarg | NAME '=' expression | starred_expression
func (p *Parser) kwargOrStarred() (keywordOrStarred, bool) {
	return rule(p, ruleKwargOrStarred, func() (keywordOrStarred, bool) {
		start := p.mark
		if p.invalidKwarg(); p.err != nil {
			return keywordOrStarred{}, false
		}
		p.mark = start
		if k, ok := p.kwarg(); ok {
			return keywordOrStarred{keyword: k}, true
		}
		p.mark = start
		if a, ok := p.starredExpression(); ok {
			return keywordOrStarred{starred: a}, true
		}
		return keywordOrStarred{}, false
	})
}

// kwarg_or_double_starred: invalid_kwarg | NAME '=' expression | '**' expression
func (p *Parser) kwargOrDoubleStarred() (keywordOrStarred, bool) {
	return rule(p, ruleKwargOrDoubleStarred, func() (keywordOrStarred, bool) {
		start := p.mark
		if p.invalidKwarg(); p.err != nil {
			return keywordOrStarred{}, false
		}
		p.mark = start
		if k, ok := p.kwarg(); ok {
			return keywordOrStarred{keyword: k}, true
		}
		p.mark = start
		if p.expect(token.DOUBLESTAR) != nil {
			if a, ok := p.expression(); ok {
				return keywordOrStarred{keyword: p.ast.Keyword("", a, p.span(start))}, true
			}
		}
		return keywordOrStarred{}, false
	})
}

// NAME '=' expression
func (p *Parser) kwarg() (*ast.Keyword, bool) {
	start := p.mark
	if n := p.nameToken(); n != nil && p.expect(token.EQUAL) != nil {
		if a, ok := p.expression(); ok {
			return p.ast.Keyword(p.ast.Identifier(n.Text), a, p.span(start)), true
		}
	}
	return nil, false
}

// lambdef: 'lambda' [lambda_params] ':' expression
func (p *Parser) lambdef() (ast.Expr, bool) {
	return rule(p, ruleLambdef, func() (ast.Expr, bool) {
		start := p.mark
		if p.expect(token.LAMBDA) == nil {
			return nil, false
		}
		args, ok := p.lambdaParams()
		if !ok {
			if p.err != nil {
				return nil, false
			}
			args = p.ast.EmptyArguments()
		}
		if p.expect(token.COLON) == nil {
			return nil, false
		}
		if body, ok := p.expression(); ok {
			return p.ast.Lambda(args, body, p.span(start)), true
		}
		return nil, false
	})
}
