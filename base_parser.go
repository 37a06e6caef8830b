package pas

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

const eof = -1

// BaseParser holds the cursor over the input and the bookkeeping
// needed to report the furthest position parsing failed at
type BaseParser struct {
	input  string
	cursor int
	line   int
	column int

	// end of the last token, before the spacing that follows it
	tokenEnd Location

	// furthest failure position and what was expected there
	ffp      int
	expected map[string]struct{}
}

func newBaseParser(input string) BaseParser {
	return BaseParser{
		input:    input,
		line:     1,
		column:   1,
		tokenEnd: Location{Line: 1, Column: 1},
		ffp:      -1,
		expected: map[string]struct{}{},
	}
}

// Location returns in which line/column/cursor the parser's input is
// currently in
func (p *BaseParser) Location() Location {
	return Location{Line: p.line, Column: p.column, Cursor: p.cursor}
}

// Peek returns the character under the input cursor, or eof if the
// entire input has been consumed
func (p *BaseParser) Peek() rune {
	if p.cursor >= len(p.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(p.input[p.cursor:])
	return r
}

// Backtrack resets the internal parser state to the Location l
func (p *BaseParser) Backtrack(l Location) {
	p.cursor = l.Cursor
	p.line = l.Line
	p.column = l.Column
}

// Any matches any rune under the input cursor, and fails on EOF
func (p *BaseParser) Any() (rune, error) {
	if p.cursor >= len(p.input) {
		return 0, p.NewError("any character", "unexpected end of input")
	}
	c, size := utf8.DecodeRuneInString(p.input[p.cursor:])
	p.cursor += size
	p.column++
	if c == '\n' {
		p.column = 1
		p.line++
	}
	return c, nil
}

func (p *BaseParser) ExpectRune(v rune) (rune, error) {
	if p.Peek() == v {
		return p.Any()
	}
	return 0, p.NewError(fmt.Sprintf("'%c'", v), fmt.Sprintf("Expected '%c'", v))
}

func (p *BaseParser) ExpectRuneFn(v rune) ParserFn[rune] {
	return func(p Parser) (rune, error) { return p.ExpectRune(v) }
}

// ExpectLiteral matches all the characters of `s` or none of them
func (p *BaseParser) ExpectLiteral(s string) (string, error) {
	if strings.HasPrefix(p.input[p.cursor:], s) {
		for range s {
			p.Any()
		}
		return s, nil
	}
	return "", p.NewError(fmt.Sprintf("'%s'", s), fmt.Sprintf("Expected '%s'", s))
}

// NewError creates a backtracking error at the cursor.  The failure
// is recorded if it's the furthest one seen so far, so the parser
// can report what it expected where it got stuck.
func (p *BaseParser) NewError(expected, msg string) error {
	switch {
	case p.cursor > p.ffp:
		p.ffp = p.cursor
		clear(p.expected)
		fallthrough
	case p.cursor == p.ffp:
		if expected != "" {
			p.expected[expected] = struct{}{}
		}
	}
	loc := p.Location()
	return backtrackingError{Expected: expected, Message: msg, Span: NewSpan(loc, loc)}
}

// Throw returns an error that can't be caught by the backtracking
// combinators and fails parsing right away
func (p *BaseParser) Throw(msg string, span Span) error {
	return syntaxError{Message: msg, Span: span}
}

// FurthestError reports the position the parser got furthest to
// before failing, alongside everything it expected to find there
func (p *BaseParser) FurthestError() error {
	cursor := max(p.ffp, 0)
	loc := newPosIndex(p.input).LocationAt(cursor)
	span := NewSpan(loc, loc)

	found := "end of input"
	if cursor < len(p.input) {
		r, _ := utf8.DecodeRuneInString(p.input[cursor:])
		found = fmt.Sprintf("'%c'", r)
	}
	if len(p.expected) == 0 {
		return syntaxError{Message: "Unexpected " + found, Span: span}
	}
	expected := make([]string, 0, len(p.expected))
	for e := range p.expected {
		expected = append(expected, e)
	}
	sort.Strings(expected)
	return syntaxError{
		Message: fmt.Sprintf("Expected %s but got %s", strings.Join(expected, ", "), found),
		Span:    span,
	}
}

// spacing consumes whitespace and comments after a token
func (p *BaseParser) spacing() {
	p.tokenEnd = p.Location()
	for {
		switch p.Peek() {
		case ' ', '\t', '\r', '\n':
			p.Any()
		case '#':
			for c := p.Peek(); c != '\n' && c != eof; c = p.Peek() {
				p.Any()
			}
		default:
			return
		}
	}
}

// span covers from `start` to the end of the last token
func (p *BaseParser) span(start Location) Span {
	end := p.tokenEnd
	if end.Cursor < start.Cursor {
		end = start
	}
	return NewSpan(start, end)
}
