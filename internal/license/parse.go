package license

import (
	"fmt"
	"strings"
)

// Expr is a parsed license expression: a Leaf, And or Or.
type Expr interface {
	isExpr()
}

// Leaf is a single license, optionally with an exception.
type Leaf struct {
	// ID is the license identifier used for rating.
	ID string
	// Name is the identifier as displayed, including any exception.
	Name string
}

// And requires both licenses.
type And struct{ Left, Right Expr }

// Or allows either license.
type Or struct{ Left, Right Expr }

func (Leaf) isExpr() {}
func (And) isExpr() {}
func (Or) isExpr() {}

// Parse parses a license expression. "/" is accepted as a legacy spelling of
// OR. AND binds tighter than OR and chains associate to the right.
func Parse(text string) (Expr, error) {
	p := &exprParser{tokens: tokenize(text)}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, fmt.Errorf("unexpected %q", p.tokens[p.pos])
	}
	return expr, nil
}

type exprParser struct {
	tokens []string
	pos    int
}

func (p *exprParser) peek() string {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return ""
}

func (p *exprParser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok == "/" || strings.EqualFold(tok, "OR") {
		p.pos++
		right, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		return Or{Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *exprParser) parseAnd() (Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(p.peek(), "AND") {
		p.pos++
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		return And{Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *exprParser) parsePrimary() (Expr, error) {
	tok := p.peek()
	switch {
	case tok == "":
		return nil, fmt.Errorf("unexpected end of expression")
	case tok == "(":
		p.pos++
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ")" {
			return nil, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return inner, nil
	case tok == ")" || tok == "/" || isKeyword(tok):
		return nil, fmt.Errorf("unexpected %q", tok)
	}

	p.pos++
	leaf := Leaf{ID: tok, Name: tok}
	if strings.EqualFold(p.peek(), "WITH") {
		p.pos++
		exception := p.peek()
		if exception == "" || exception == "(" || exception == ")" || exception == "/" || isKeyword(exception) {
			return nil, fmt.Errorf("missing exception after %q", tok)
		}
		p.pos++
		leaf.Name = tok + " WITH " + exception
	}
	return leaf, nil
}

func isKeyword(tok string) bool {
	return strings.EqualFold(tok, "AND") || strings.EqualFold(tok, "OR") || strings.EqualFold(tok, "WITH")
}

func tokenize(text string) []string {
	var tokens []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	for _, r := range text {
		switch r {
		case '(', ')', '/':
			flush()
			tokens = append(tokens, string(r))
		case ' ', '\t', '\n', '\r':
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return tokens
}
