package pattern

import (
	"fmt"
	"strings"

	"rubric/internal/syntax"
)

type op uint8

const (
	opAny op = iota
	opBind
	opEllipsis
	opKind
	opAbsent
	opAtom
	opPred
	opSeq
	opUnion
	opCapture
	opNot
	opDescend
)

// elem is one compiled pattern element.
type elem struct {
	op    op
	kinds []syntax.Kind // opKind, opSeq head; empty head means any kind
	name  string        // opBind, opPred
	atom  syntax.Atom   // opAtom
	pred  Predicate     // opPred
	slot  int           // opCapture
	kids  []*elem       // opSeq children, opUnion branches, single inner element otherwise
}

// Predicate tests a child for a #name pattern element.
type Predicate func(syntax.Child) bool

// Option configures compilation.
type Option func(*options)

type options struct {
	preds map[string]Predicate
}

// WithPredicate registers fn under #name.
func WithPredicate(name string, fn Predicate) Option {
	return func(o *options) {
		if o.preds == nil {
			o.preds = make(map[string]Predicate)
		}
		o.preds[name] = fn
	}
}

// Matcher is a compiled pattern. It is immutable and safe for concurrent use.
type Matcher struct {
	src   string
	root  *elem
	ncaps int
}

// Compile parses src into a Matcher.
func Compile(src string, opts ...Option) (*Matcher, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, toks: toks, opts: o}
	root, err := p.parseElem()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, p.errorf(tok, "unexpected %s after pattern", tok.kind)
	}
	return &Matcher{src: src, root: root, ncaps: p.ncaps}, nil
}

// MustCompile is Compile that panics on error. Use it for patterns that are
// constants in code.
func MustCompile(src string, opts ...Option) *Matcher {
	m, err := Compile(src, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// NumCaptures is the number of $ slots.
func (m *Matcher) NumCaptures() int { return m.ncaps }

func (m *Matcher) String() string { return m.src }

type parser struct {
	src     string
	toks    []token
	i       int
	opts    *options
	ncaps   int
	negated int
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) errorf(t token, format string, args ...any) error {
	return errorAt(p.src, t.pos, fmt.Sprintf(format, args...))
}

func (p *parser) parseElem() (*elem, error) {
	t := p.next()
	switch t.kind {
	case tokLParen:
		return p.parseSeq(t)
	case tokLBrace:
		return p.parseUnion(t)
	case tokDollar:
		if p.negated > 0 {
			return nil, p.errorf(t, "capture inside negation")
		}
		slot := p.ncaps
		p.ncaps++
		inner, err := p.parseElem()
		if err != nil {
			return nil, err
		}
		return &elem{op: opCapture, slot: slot, kids: []*elem{inner}}, nil
	case tokBang:
		p.negated++
		inner, err := p.parseElem()
		p.negated--
		if err != nil {
			return nil, err
		}
		return &elem{op: opNot, kids: []*elem{inner}}, nil
	case tokBacktick:
		inner, err := p.parseElem()
		if err != nil {
			return nil, err
		}
		return &elem{op: opDescend, kids: []*elem{inner}}, nil
	case tokEllipsis:
		return nil, p.errorf(t, "'...' is only valid inside a sequence")
	case tokIdent:
		return p.identElem(t)
	case tokSymbol, tokString, tokInt:
		return &elem{op: opAtom, atom: syntax.Atom(t.text)}, nil
	case tokPred:
		fn, ok := p.opts.preds[t.text]
		if !ok {
			return nil, p.errorf(t, "unknown predicate #%s", t.text)
		}
		return &elem{op: opPred, name: t.text, pred: fn}, nil
	case tokEOF:
		return nil, p.errorf(t, "unexpected end of pattern")
	default:
		return nil, p.errorf(t, "unexpected %s", t.kind)
	}
}

func (p *parser) identElem(t token) (*elem, error) {
	switch {
	case t.text == "_":
		return &elem{op: opAny}, nil
	case strings.HasPrefix(t.text, "_"):
		return &elem{op: opBind, name: t.text[1:]}, nil
	case t.text == "nil":
		return &elem{op: opAbsent}, nil
	}
	k, ok := syntax.ParseKind(t.text)
	if !ok {
		return nil, p.errorf(t, "unknown node kind %q", t.text)
	}
	return &elem{op: opKind, kinds: []syntax.Kind{k}}, nil
}

func (p *parser) parseHead() ([]syntax.Kind, error) {
	t := p.next()
	switch t.kind {
	case tokIdent:
		if t.text == "_" {
			return nil, nil
		}
		k, ok := syntax.ParseKind(t.text)
		if !ok {
			return nil, p.errorf(t, "unknown node kind %q", t.text)
		}
		return []syntax.Kind{k}, nil
	case tokLBrace:
		var kinds []syntax.Kind
		for {
			kt := p.next()
			switch kt.kind {
			case tokRBrace:
				if len(kinds) == 0 {
					return nil, p.errorf(kt, "empty kind set")
				}
				return kinds, nil
			case tokIdent:
				k, ok := syntax.ParseKind(kt.text)
				if !ok {
					return nil, p.errorf(kt, "unknown node kind %q", kt.text)
				}
				kinds = append(kinds, k)
			case tokEOF:
				return nil, p.errorf(kt, "unbalanced '{'")
			default:
				return nil, p.errorf(kt, "expected node kind in head set, got %s", kt.kind)
			}
		}
	case tokRParen:
		return nil, p.errorf(t, "empty sequence")
	case tokEOF:
		return nil, p.errorf(t, "unbalanced '('")
	default:
		return nil, p.errorf(t, "expected node kind, got %s", t.kind)
	}
}

func (p *parser) parseSeq(open token) (*elem, error) {
	kinds, err := p.parseHead()
	if err != nil {
		return nil, err
	}
	seq := &elem{op: opSeq, kinds: kinds}
	for {
		t := p.peek()
		switch t.kind {
		case tokRParen:
			p.next()
			return seq, nil
		case tokEOF:
			return nil, p.errorf(open, "unbalanced '('")
		case tokEllipsis:
			p.next()
			seq.kids = append(seq.kids, &elem{op: opEllipsis})
		default:
			child, err := p.parseElem()
			if err != nil {
				return nil, err
			}
			seq.kids = append(seq.kids, child)
		}
	}
}

func (p *parser) parseUnion(open token) (*elem, error) {
	u := &elem{op: opUnion}
	base := p.ncaps
	width := -1
	for {
		t := p.peek()
		switch t.kind {
		case tokRBrace:
			p.next()
			if len(u.kids) == 0 {
				return nil, p.errorf(open, "empty union")
			}
			p.ncaps = base + width
			return u, nil
		case tokEOF:
			return nil, p.errorf(open, "unbalanced '{'")
		}
		// каждая ветка пишет в одни и те же слоты
		p.ncaps = base
		branch, err := p.parseElem()
		if err != nil {
			return nil, err
		}
		got := p.ncaps - base
		if width >= 0 && got != width {
			return nil, p.errorf(t, "union branches capture %d and %d values", width, got)
		}
		width = got
		u.kids = append(u.kids, branch)
	}
}
