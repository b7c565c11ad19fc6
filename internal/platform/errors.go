package platform

import "fmt"

// ParseError is returned when a predicate cannot be parsed.
type ParseError struct {
	Predicate string
	Reason    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing platform predicate %q: %s", e.Predicate, e.Reason)
}

// UnknownTripleError is returned when a triple is not in the supported set.
type UnknownTripleError struct {
	Triple string
}

func (e *UnknownTripleError) Error() string {
	return fmt.Sprintf("unknown target triple %q", e.Triple)
}
