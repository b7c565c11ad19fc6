package platform

import (
	"fmt"
	"strings"
)

// Expr is a parsed platform predicate.
type Expr interface {
	// Matches reports whether the triple satisfies the predicate.
	Matches(t Triple) bool
	String() string
}

type (
	nameExpr struct{ name string }
	keyExpr  struct{ key, value string }
	notExpr  struct{ inner Expr }
	anyExpr  struct{ items []Expr }
	allExpr  struct{ items []Expr }
)

func (e nameExpr) Matches(t Triple) bool {
	switch e.name {
	case "unix", "windows":
		return contains(t.Family, e.name)
	default:
		return false
	}
}

func (e nameExpr) String() string { return e.name }

func (e keyExpr) Matches(t Triple) bool {
	values, ok := t.attr(e.key)
	if !ok {
		return false
	}
	return contains(values, e.value)
}

func (e keyExpr) String() string { return fmt.Sprintf("%s = %q", e.key, e.value) }

func (e notExpr) Matches(t Triple) bool { return !e.inner.Matches(t) }

func (e notExpr) String() string { return "not(" + e.inner.String() + ")" }

func (e anyExpr) Matches(t Triple) bool {
	for _, item := range e.items {
		if item.Matches(t) {
			return true
		}
	}
	return false
}

func (e anyExpr) String() string { return "any(" + joinExprs(e.items) + ")" }

func (e allExpr) Matches(t Triple) bool {
	for _, item := range e.items {
		if !item.Matches(t) {
			return false
		}
	}
	return true
}

func (e allExpr) String() string { return "all(" + joinExprs(e.items) + ")" }

func joinExprs(items []Expr) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return strings.Join(parts, ", ")
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// Parse parses a predicate. Input that does not start with "cfg(" is taken
// as a bare target triple.
func Parse(predicate string) (Expr, error) {
	trimmed := strings.TrimSpace(predicate)
	if trimmed == "" {
		return nil, &ParseError{Predicate: predicate, Reason: "empty predicate"}
	}
	if !strings.HasPrefix(trimmed, "cfg(") {
		return keyExpr{key: "target", value: trimmed}, nil
	}

	p := &parser{input: trimmed}
	p.next()
	if err := p.expectIdent("cfg"); err != nil {
		return nil, p.wrap(predicate, err)
	}
	if err := p.expect(tokLParen); err != nil {
		return nil, p.wrap(predicate, err)
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, p.wrap(predicate, err)
	}
	if err := p.expect(tokRParen); err != nil {
		return nil, p.wrap(predicate, err)
	}
	if p.tok.kind != tokEOF {
		return nil, p.wrap(predicate, fmt.Errorf("unexpected %s after predicate", p.tok))
	}
	return expr, nil
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokLParen
	tokRParen
	tokComma
	tokEquals
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokString:
		return fmt.Sprintf("string %q", t.text)
	default:
		return fmt.Sprintf("%q", t.text)
	}
}

type parser struct {
	input string
	pos   int
	tok   token
	err   error
}

func (p *parser) wrap(predicate string, err error) error {
	return &ParseError{Predicate: predicate, Reason: err.Error()}
}

// next advances to the following token, recording a lexing error in p.err.
func (p *parser) next() {
	for p.pos < len(p.input) && isSpace(p.input[p.pos]) {
		p.pos++
	}
	start := p.pos
	if p.pos >= len(p.input) {
		p.tok = token{kind: tokEOF, pos: start}
		return
	}
	c := p.input[p.pos]
	switch {
	case c == '(':
		p.pos++
		p.tok = token{kind: tokLParen, text: "(", pos: start}
	case c == ')':
		p.pos++
		p.tok = token{kind: tokRParen, text: ")", pos: start}
	case c == ',':
		p.pos++
		p.tok = token{kind: tokComma, text: ",", pos: start}
	case c == '=':
		p.pos++
		p.tok = token{kind: tokEquals, text: "=", pos: start}
	case c == '"':
		end := strings.IndexByte(p.input[p.pos+1:], '"')
		if end < 0 {
			p.err = fmt.Errorf("unterminated string at offset %d", start)
			p.pos = len(p.input)
			p.tok = token{kind: tokEOF, pos: start}
			return
		}
		p.tok = token{kind: tokString, text: p.input[p.pos+1 : p.pos+1+end], pos: start}
		p.pos += end + 2
	case isIdentStart(c):
		for p.pos < len(p.input) && isIdentChar(p.input[p.pos]) {
			p.pos++
		}
		p.tok = token{kind: tokIdent, text: p.input[start:p.pos], pos: start}
	default:
		p.err = fmt.Errorf("unexpected character %q at offset %d", c, start)
		p.pos = len(p.input)
		p.tok = token{kind: tokEOF, pos: start}
	}
}

func (p *parser) expect(kind tokenKind) error {
	if p.err != nil {
		return p.err
	}
	if p.tok.kind != kind {
		return fmt.Errorf("unexpected %s at offset %d", p.tok, p.tok.pos)
	}
	p.next()
	return p.err
}

func (p *parser) expectIdent(name string) error {
	if p.tok.kind != tokIdent || p.tok.text != name {
		return fmt.Errorf("expected %q, found %s", name, p.tok)
	}
	p.next()
	return p.err
}

func (p *parser) parseExpr() (Expr, error) {
	if p.err != nil {
		return nil, p.err
	}
	if p.tok.kind != tokIdent {
		return nil, fmt.Errorf("expected identifier at offset %d, found %s", p.tok.pos, p.tok)
	}
	name := p.tok.text
	p.next()
	if p.err != nil {
		return nil, p.err
	}

	switch p.tok.kind {
	case tokEquals:
		p.next()
		if p.err != nil {
			return nil, p.err
		}
		if p.tok.kind != tokString {
			return nil, fmt.Errorf("expected string value for %q, found %s", name, p.tok)
		}
		value := p.tok.text
		p.next()
		return keyExpr{key: name, value: value}, p.err
	case tokLParen:
		return p.parseCall(name)
	default:
		return nameExpr{name: name}, nil
	}
}

func (p *parser) parseCall(name string) (Expr, error) {
	if err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	var items []Expr
	for p.tok.kind != tokRParen {
		item, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.tok.kind == tokComma {
			p.next()
			continue
		}
		if p.tok.kind != tokRParen {
			return nil, fmt.Errorf("expected ',' or ')' at offset %d, found %s", p.tok.pos, p.tok)
		}
	}
	if err := p.expect(tokRParen); err != nil {
		return nil, err
	}

	switch name {
	case "not":
		if len(items) != 1 {
			return nil, fmt.Errorf("not() takes exactly one argument, got %d", len(items))
		}
		return notExpr{inner: items[0]}, nil
	case "any":
		return anyExpr{items: items}, nil
	case "all":
		return allExpr{items: items}, nil
	default:
		return nil, fmt.Errorf("unknown operator %q", name)
	}
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool { return isIdentStart(c) || (c >= '0' && c <= '9') }
