// Package license reduces SPDX-style license expressions to a single
// worst-case rating.
package license

import (
	"fmt"
	"strings"
)

// NoLicense is the display of an empty license field.
const NoLicense = "no license"

// Result is the outcome of evaluating a license field.
type Result struct {
	// Rating is the effective rating of the whole expression.
	Rating Rating `json:"rating" yaml:"rating"`
	// Name is the license that determined Rating.
	Name string `json:"name" yaml:"name"`
	// Display is the reduced expression.
	Display string `json:"display" yaml:"display"`
}

// Evaluate parses text and reduces it. It never fails: empty and unparsable
// input are rated Restricted.
func Evaluate(text string) Result {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Result{Rating: Restricted, Name: NoLicense, Display: NoLicense}
	}

	expr, err := Parse(trimmed)
	if err != nil {
		return Result{
			Rating:  Restricted,
			Name:    trimmed,
			Display: fmt.Sprintf("%s (failed to parse)", trimmed),
		}
	}
	return reduce(expr)
}

// operand is one entry on the evaluation stack.
type operand struct {
	name    string
	rating  Rating
	display string
	leaf    bool
}

// reduce evaluates expr in postfix order with an explicit operand stack.
// AND keeps the more restrictive operand and OR the less restrictive one;
// ties keep the left operand.
func reduce(expr Expr) Result {
	var stack []operand
	for _, node := range postfix(expr, nil) {
		switch n := node.(type) {
		case Leaf:
			stack = append(stack, operand{name: n.Name, rating: Rate(n.ID), display: n.Name, leaf: true})
		case And, Or:
			right, left := stack[len(stack)-1], stack[len(stack)-2]
			stack = stack[:len(stack)-2]

			keep := left
			op := "OR"
			if _, isAnd := n.(And); isAnd {
				op = "AND"
				if right.rating > left.rating {
					keep = right
				}
			} else if right.rating < left.rating {
				keep = right
			}
			stack = append(stack, operand{
				name:    keep.name,
				rating:  keep.rating,
				display: group(left) + " " + op + " " + group(right),
			})
		}
	}
	top := stack[len(stack)-1]
	return Result{Rating: top.rating, Name: top.name, Display: top.display}
}

func group(o operand) string {
	if o.leaf {
		return o.display
	}
	return "(" + o.display + ")"
}

func postfix(expr Expr, out []Expr) []Expr {
	switch e := expr.(type) {
	case And:
		out = postfix(e.Left, out)
		out = postfix(e.Right, out)
	case Or:
		out = postfix(e.Left, out)
		out = postfix(e.Right, out)
	}
	return append(out, expr)
}
