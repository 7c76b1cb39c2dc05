package tmpl

import (
	"fmt"
)

// ============================================================================
// Expression AST
// ============================================================================

type expr interface {
	eval(s *scope) (any, error)
}

type litExpr struct{ val any }

type nameExpr struct{ name string }

type listExpr struct{ items []expr }

type dictExpr struct {
	keys []expr
	vals []expr
}

type attrExpr struct {
	x    expr
	name string
}

type indexExpr struct {
	x   expr
	idx expr
}

type callExpr struct {
	fn   expr
	args []expr
}

type unaryExpr struct {
	op string
	x  expr
}

type binaryExpr struct {
	op   string
	l, r expr
}

type condExpr struct {
	cond, yes, no expr
}

// ============================================================================
// Parser
// ============================================================================

type parser struct {
	src  string
	toks []token
	pos  int
}

func parseExpr(src string) (expr, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, toks: toks}
	e, err := p.ternary()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tkEOF {
		return nil, p.errorf("unexpected %q", p.peek().text)
	}
	return e, nil
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tkEOF {
		p.pos++
	}
	return t
}

func (p *parser) isOp(op string) bool {
	t := p.peek()
	return t.kind == tkOp && t.text == op
}

func (p *parser) isWord(w string) bool {
	t := p.peek()
	return t.kind == tkIdent && t.text == w
}

func (p *parser) expect(op string) error {
	if !p.isOp(op) {
		return p.errorf("expected %q, got %q", op, p.peek().text)
	}
	p.next()
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s at %d in %q", ErrSyntax, fmt.Sprintf(format, args...), p.peek().pos, p.src)
}

// ternary: or ('if' or 'else' ternary)?
func (p *parser) ternary() (expr, error) {
	yes, err := p.or()
	if err != nil {
		return nil, err
	}
	if !p.isWord("if") {
		return yes, nil
	}
	p.next()
	cond, err := p.or()
	if err != nil {
		return nil, err
	}
	if !p.isWord("else") {
		return nil, p.errorf("expected else")
	}
	p.next()
	no, err := p.ternary()
	if err != nil {
		return nil, err
	}
	return &condExpr{cond: cond, yes: yes, no: no}, nil
}

func (p *parser) or() (expr, error) {
	l, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.isWord("or") {
		p.next()
		r, err := p.and()
		if err != nil {
			return nil, err
		}
		l = &binaryExpr{op: "or", l: l, r: r}
	}
	return l, nil
}

func (p *parser) and() (expr, error) {
	l, err := p.not()
	if err != nil {
		return nil, err
	}
	for p.isWord("and") {
		p.next()
		r, err := p.not()
		if err != nil {
			return nil, err
		}
		l = &binaryExpr{op: "and", l: l, r: r}
	}
	return l, nil
}

func (p *parser) not() (expr, error) {
	if p.isWord("not") {
		p.next()
		x, err := p.not()
		if err != nil {
			return nil, err
		}
		return &unaryExpr{op: "not", x: x}, nil
	}
	return p.comparison()
}

func (p *parser) comparison() (expr, error) {
	l, err := p.sum()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		switch {
		case p.isOp("=="), p.isOp("!="), p.isOp("<"), p.isOp("<="), p.isOp(">"), p.isOp(">="):
			op = p.next().text
		case p.isWord("in"):
			p.next()
			op = "in"
		case p.isWord("not") && p.toks[p.pos+1].kind == tkIdent && p.toks[p.pos+1].text == "in":
			p.next()
			p.next()
			op = "not in"
		default:
			return l, nil
		}
		r, err := p.sum()
		if err != nil {
			return nil, err
		}
		l = &binaryExpr{op: op, l: l, r: r}
	}
}

func (p *parser) sum() (expr, error) {
	l, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.isOp("+") || p.isOp("-") {
		op := p.next().text
		r, err := p.term()
		if err != nil {
			return nil, err
		}
		l = &binaryExpr{op: op, l: l, r: r}
	}
	return l, nil
}

func (p *parser) term() (expr, error) {
	l, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.isOp("*") || p.isOp("/") || p.isOp("%") {
		op := p.next().text
		r, err := p.unary()
		if err != nil {
			return nil, err
		}
		l = &binaryExpr{op: op, l: l, r: r}
	}
	return l, nil
}

func (p *parser) unary() (expr, error) {
	if p.isOp("-") || p.isOp("+") {
		op := p.next().text
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &unaryExpr{op: op, x: x}, nil
	}
	return p.postfix()
}

func (p *parser) postfix() (expr, error) {
	x, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.isOp("."):
			p.next()
			t := p.next()
			if t.kind != tkIdent {
				return nil, p.errorf("expected attribute name")
			}
			x = &attrExpr{x: x, name: t.text}
		case p.isOp("["):
			p.next()
			idx, err := p.ternary()
			if err != nil {
				return nil, err
			}
			if err := p.expect("]"); err != nil {
				return nil, err
			}
			x = &indexExpr{x: x, idx: idx}
		case p.isOp("("):
			p.next()
			args, err := p.list(")")
			if err != nil {
				return nil, err
			}
			x = &callExpr{fn: x, args: args}
		default:
			return x, nil
		}
	}
}

// list parses comma separated expressions up to and including close.
func (p *parser) list(close string) ([]expr, error) {
	var items []expr
	for !p.isOp(close) {
		e, err := p.ternary()
		if err != nil {
			return nil, err
		}
		items = append(items, e)
		if p.isOp(",") {
			p.next()
			continue
		}
		if !p.isOp(close) {
			return nil, p.errorf("expected %q or \",\"", close)
		}
	}
	p.next()
	return items, nil
}

func (p *parser) primary() (expr, error) {
	t := p.next()
	switch t.kind {
	case tkNum, tkStr:
		return &litExpr{val: t.val}, nil
	case tkIdent:
		switch t.text {
		case "True", "true":
			return &litExpr{val: true}, nil
		case "False", "false":
			return &litExpr{val: false}, nil
		case "None", "null":
			return &litExpr{val: nil}, nil
		}
		return &nameExpr{name: t.text}, nil
	case tkOp:
		switch t.text {
		case "(":
			e, err := p.ternary()
			if err != nil {
				return nil, err
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			return e, nil
		case "[":
			items, err := p.list("]")
			if err != nil {
				return nil, err
			}
			return &listExpr{items: items}, nil
		case "{":
			return p.dict()
		}
	}
	if t.kind != tkEOF {
		p.pos--
	}
	return nil, p.errorf("unexpected %q", t.text)
}

func (p *parser) dict() (expr, error) {
	d := &dictExpr{}
	for !p.isOp("}") {
		k, err := p.ternary()
		if err != nil {
			return nil, err
		}
		if err := p.expect(":"); err != nil {
			return nil, err
		}
		v, err := p.ternary()
		if err != nil {
			return nil, err
		}
		d.keys = append(d.keys, k)
		d.vals = append(d.vals, v)
		if p.isOp(",") {
			p.next()
			continue
		}
		if !p.isOp("}") {
			return nil, p.errorf("expected \"}\" or \",\"")
		}
	}
	p.next()
	return d, nil
}
