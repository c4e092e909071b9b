package parse

import (
	"src.cronus.dev/pkg/ast"
	"src.cronus.dev/pkg/token"
)

type paramKind int

const (
	paramPlain paramKind = iota
	// "/"
	paramSlash
	// "*" or "*args"
	paramStar
	// "**kwargs"
	paramDoubleStar
)

// One element of a parameter list.
type paramItem struct {
	kind paramKind
	// nil for "/" and a bare "*".
	arg *ast.Arg
	// The default value, if any.
	def ast.Expr
	// Index of the first token of the item.
	at int
}

// params: ','.param_item+ [',']
func (p *Parser) params() (*ast.Arguments, bool) {
	return rule(p, ruleParams, func() (*ast.Arguments, bool) {
		return p.paramList(false)
	})
}

// lambda_params: ','.lambda_param_item+ [',']
func (p *Parser) lambdaParams() (*ast.Arguments, bool) {
	return rule(p, ruleLambdaParams, func() (*ast.Arguments, bool) {
		return p.paramList(true)
	})
}

func (p *Parser) paramList(lambda bool) (*ast.Arguments, bool) {
	items, ok := gather(p, token.COMMA, func() (paramItem, bool) {
		return p.paramItem(lambda)
	})
	if !ok {
		return nil, false
	}
	p.skip(token.COMMA)
	return p.classifyParams(items)
}

// param_item:
//
//	| '/'
//	| '*' [param] ['=' expression]
//	| '**' param ['=' expression]
//	| param ['=' expression]
func (p *Parser) paramItem(lambda bool) (paramItem, bool) {
	return rule(p, ruleParamItem, func() (paramItem, bool) {
		start := p.mark
		item := paramItem{at: start}
		switch {
		case p.expect(token.SLASH) != nil:
			item.kind = paramSlash
			return item, true
		case p.expect(token.STAR) != nil:
			item.kind = paramStar
			item.arg, _ = p.param(lambda)
		case p.expect(token.DOUBLESTAR) != nil:
			item.kind = paramDoubleStar
			var ok bool
			if item.arg, ok = p.param(lambda); !ok {
				return item, false
			}
		default:
			var ok bool
			if item.arg, ok = p.param(lambda); !ok {
				return item, false
			}
		}
		mark := p.mark
		if p.expect(token.EQUAL) != nil {
			var ok bool
			if item.def, ok = p.expression(); !ok {
				p.mark = mark
			}
		}
		return item, true
	})
}

// param: NAME [':' expression]
//
// lambda_param: NAME
func (p *Parser) param(lambda bool) (*ast.Arg, bool) {
	return rule(p, ruleParam, func() (*ast.Arg, bool) {
		start := p.mark
		n := p.nameToken()
		if n == nil {
			return nil, false
		}
		var annotation ast.Expr
		if !lambda {
			mark := p.mark
			if p.expect(token.COLON) != nil {
				var ok bool
				if annotation, ok = p.expression(); !ok {
					p.mark = mark
				}
			}
		}
		return p.ast.Arg(p.ast.Identifier(n.Text), annotation, p.span(start)), true
	})
}

// Sorts the items of a parameter list into the fields of Arguments.
// Malformed lists make the rule fail, and are reported in the second pass.
func (p *Parser) classifyParams(items []paramItem) (*ast.Arguments, bool) {
	var (
		posOnly, args, kwOnly []*ast.Arg
		defaults, kwDefaults  []ast.Expr
		vararg, kwarg         *ast.Arg
		seenSlash, seenStar   bool
	)
	fail := func(it paramItem, msg string) (*ast.Arguments, bool) {
		if p.callInvalidRules {
			p.raiseAt(SyntaxError, it.at, "%s", msg)
		}
		return nil, false
	}
	for i, it := range items {
		if kwarg != nil {
			return fail(it, "arguments cannot follow var-keyword argument")
		}
		switch it.kind {
		case paramSlash:
			switch {
			case seenSlash:
				return fail(it, "/ may appear only once")
			case seenStar:
				return fail(it, "/ must be ahead of *")
			case len(args) == 0:
				return fail(it, "at least one argument must precede /")
			}
			seenSlash = true
			posOnly, args = args, nil
		case paramStar:
			switch {
			case seenStar:
				return fail(it, "* argument may appear only once")
			case it.def != nil:
				return fail(it, "var-positional argument cannot have default value")
			case it.arg == nil && (i+1 == len(items) || items[i+1].kind != paramPlain):
				return fail(it, "named arguments must follow bare *")
			}
			seenStar = true
			vararg = it.arg
		case paramDoubleStar:
			if it.def != nil {
				return fail(it, "var-keyword argument cannot have default value")
			}
			kwarg = it.arg
		default:
			switch {
			case seenStar:
				kwOnly = append(kwOnly, it.arg)
				kwDefaults = append(kwDefaults, it.def)
			case it.def != nil:
				args = append(args, it.arg)
				defaults = append(defaults, it.def)
			case len(defaults) > 0:
				return fail(it, "non-default argument follows default argument")
			default:
				args = append(args, it.arg)
			}
		}
	}
	return p.ast.Arguments(seq(p, posOnly), seq(p, args), vararg, seq(p, kwOnly),
		seq(p, kwDefaults), kwarg, seq(p, defaults)), true
}
