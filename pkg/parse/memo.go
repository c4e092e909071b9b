package parse

import "src.cronus.dev/pkg/arena"

// A memoized result of a rule at a token position. The end mark is where the
// cursor was left after the rule returned.
type memoEntry struct {
	rule ruleID
	node any
	ok   bool
	end  int
	next *memoEntry
}

// Checks the memo chain of the token at the cursor for the rule. On a hit,
// the cursor moves to the end mark of the entry.
func (p *Parser) lookup(id ruleID) (node any, ok, hit bool) {
	t := p.peek()
	if t == nil {
		return nil, false, false
	}
	for m := t.memo; m != nil; m = m.next {
		if m.rule == id {
			if p.stats != nil {
				p.stats.hit(id)
			}
			p.mark = m.end
			return m.node, m.ok, true
		}
	}
	return nil, false, false
}

// Prepends an entry for the rule to the memo chain of the token at start. The
// current cursor becomes the end mark.
func (p *Parser) insert(start int, id ruleID, node any, ok bool) {
	m := arena.NewOf[memoEntry](p.a)
	*m = memoEntry{id, node, ok, p.mark, p.tokens[start].memo}
	p.tokens[start].memo = m
}

// Overwrites the entry for the rule at start, or inserts one if there is
// none. Only used while growing a left-recursive rule.
func (p *Parser) update(start int, id ruleID, node any, ok bool) {
	for m := p.tokens[start].memo; m != nil; m = m.next {
		if m.rule == id {
			m.node, m.ok, m.end = node, ok, p.mark
			return
		}
	}
	p.insert(start, id, node, ok)
}

func as[T any](v any, ok bool) (T, bool) {
	if v == nil {
		var zero T
		return zero, ok
	}
	return v.(T), ok
}

// Checks the error indicator and the depth ceiling on rule entry.
func (p *Parser) enter() bool {
	p.checkBuilder()
	if p.err != nil {
		return false
	}
	if p.level >= p.cfg.MaxDepth {
		logger.Printf("%s: rule depth exceeded %d", p.tok.Name(), p.cfg.MaxDepth)
		p.raiseAt(MemoryError, p.mark, "parser stack overflowed: source too complex to parse")
		return false
	}
	p.level++
	return true
}

func (p *Parser) leave() { p.level-- }

// Turns an error recorded by the AST builder into a SystemError.
func (p *Parser) checkBuilder() {
	if p.err == nil {
		if err := p.ast.Err(); err != nil {
			p.setError(p.newError(SystemError, 0, 0, err.Error()))
		}
	}
}

// Runs the body of a rule that is not memoized. The cursor is restored if the
// body fails.
func rule[T any](p *Parser, id ruleID, body func() (T, bool)) (T, bool) {
	var zero T
	if !p.enter() {
		return zero, false
	}
	defer p.leave()
	mark := p.mark
	p.traceEnter(id, mark)
	res, ok := body()
	if p.err != nil {
		return zero, false
	}
	if !ok {
		p.mark = mark
	}
	p.traceExit(id, mark, ok)
	return res, ok
}

// Runs the body of a memoized rule. A second call at the same position is
// answered from the memo table without running the body.
func memoized[T any](p *Parser, id ruleID, body func() (T, bool)) (T, bool) {
	var zero T
	if !p.enter() {
		return zero, false
	}
	defer p.leave()
	mark := p.mark
	if v, ok, hit := p.lookup(id); hit {
		p.traceHit(id, mark, ok)
		return as[T](v, ok)
	}
	if p.err != nil {
		return zero, false
	}
	p.traceEnter(id, mark)
	res, ok := body()
	if p.err != nil {
		return zero, false
	}
	if !ok {
		p.mark = mark
	}
	p.insert(mark, id, res, ok)
	p.traceExit(id, mark, ok)
	return res, ok
}

// Runs the body of a left-recursive rule by growing a seed.
//
// A failure is first memoized for the rule at the current position, so that
// the recursive call in the first alternative fails and a non-recursive
// alternative matches. The body is then run again and again with the last
// result memoized, each time extending the match, until the end mark no
// longer advances.
func leftRec[T any](p *Parser, id ruleID, body func() (T, bool)) (T, bool) {
	var zero T
	if !p.enter() {
		return zero, false
	}
	defer p.leave()
	mark := p.mark
	if v, ok, hit := p.lookup(id); hit {
		p.traceHit(id, mark, ok)
		return as[T](v, ok)
	}
	if p.err != nil {
		return zero, false
	}
	p.traceEnter(id, mark)

	p.insert(mark, id, nil, false)
	res, resOK, resMark := zero, false, mark
	for i := 0; ; i++ {
		if i == p.cfg.MaxGrowIterations {
			logger.Printf("%s: rule %s did not converge at token %d", p.tok.Name(), id, mark)
			p.raiseAt(SystemError, mark, "left-recursive rule %s did not converge", id)
			return zero, false
		}
		p.mark = mark
		r, ok := body()
		if p.err != nil {
			return zero, false
		}
		if !ok || p.mark <= resMark {
			break
		}
		p.update(mark, id, r, true)
		res, resOK, resMark = r, true, p.mark
	}
	p.mark = resMark
	p.traceExit(id, mark, resOK)
	return res, resOK
}

func (p *Parser) traceEnter(id ruleID, mark int) {
	if p.cfg.Trace {
		logger.Printf("%s> %s[%d-%d]?", p.indent(), id, mark, p.mark)
	}
}

func (p *Parser) traceExit(id ruleID, mark int, ok bool) {
	if !p.cfg.Trace {
		return
	}
	if ok {
		logger.Printf("%s+ %s[%d-%d] succeeded!", p.indent(), id, mark, p.mark)
	} else {
		logger.Printf("%s- %s[%d-%d] failed!", p.indent(), id, mark, p.mark)
	}
}

func (p *Parser) traceHit(id ruleID, mark int, ok bool) {
	if p.cfg.Trace {
		logger.Printf("%s= %s[%d-%d] memo hit, ok=%v", p.indent(), id, mark, p.mark, ok)
	}
}
