package pas

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyLiteral is returned when a literal rule has no content
	ErrEmptyLiteral = errors.New("literal rule requires content")

	// ErrInvalidRange is returned when a range starts after its end
	ErrInvalidRange = errors.New("range rule requires first <= last")

	// ErrEmptyRuleList is returned when sequences or disjunctions
	// are built without any rule
	ErrEmptyRuleList = errors.New("rule list can't be empty")

	// ErrNilRule is returned when a composite rule receives a nil
	// rule or when a proxy is resolved with nil
	ErrNilRule = errors.New("rule can't be nil")

	// ErrInvalidCardinality is returned by repeat rules with
	// negative or inverted bounds
	ErrInvalidCardinality = errors.New("invalid cardinality")

	// ErrProxyResolved is returned when a proxy is resolved twice
	ErrProxyResolved = errors.New("proxy already resolved")

	// ErrProxyUnresolved is returned (or panicked with, while
	// matching) when a proxy is used before being resolved
	ErrProxyUnresolved = errors.New("proxy isn't resolved")

	// ErrMaxDepthExceeded aborts a match nesting too many rules
	ErrMaxDepthExceeded = errors.New("max match depth exceeded")

	// ErrMatchCancelled aborts a match whose done channel closed
	ErrMatchCancelled = errors.New("match cancelled")

	// ErrUnknownRule is returned when a grammar is asked to match
	// a rule it doesn't define
	ErrUnknownRule = errors.New("unknown rule")
)

// abort is the value the engine panics with when a match attempt
// must stop right away.  Unlike a failing rule, it isn't swallowed
// by ordered choice or repetition, only First recovers it.
type abort struct{ err error }

// recoverAbort turns an abort panic into an error and lets any other
// panic through
func recoverAbort(err *error) {
	if r := recover(); r != nil {
		a, ok := r.(abort)
		if !ok {
			panic(r)
		}
		*err = a.err
	}
}

// Diagnostic describes one problem found in a grammar
type Diagnostic struct {
	Message string
	Span    Span
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s @ %s", d.Message, d.Span)
}

// GrammarError is returned when a grammar can't be compiled.  It
// carries every diagnostic found.
type GrammarError struct {
	Diagnostics []Diagnostic
}

func (e *GrammarError) Error() string {
	if len(e.Diagnostics) == 1 {
		return e.Diagnostics[0].String()
	}
	var s strings.Builder
	fmt.Fprintf(&s, "%d grammar errors:", len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		s.WriteString("\n  ")
		s.WriteString(d.String())
	}
	return s.String()
}

// backtrackingError is an internal error type that is captured by
// the Choice operator of the grammar parser
type backtrackingError struct {
	Expected string
	Message  string
	Span     Span
}

func (e backtrackingError) Error() string {
	return fmt.Sprintf("%s @ %s", e.Message, e.Span)
}

// syntaxError can't be caught by backtracking and fails the grammar
// parser right away
type syntaxError struct {
	Message string
	Span    Span
}

func (e syntaxError) Error() string {
	return fmt.Sprintf("%s @ %s", e.Message, e.Span)
}

func isthrown(err error) bool {
	_, ok := err.(syntaxError)
	return ok
}
