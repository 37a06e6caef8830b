package pas

type Parser interface {
	// Peek returns the rune within the input that is under the
	// parser cursor.  It does not change the cursor.
	Peek() rune

	// Any returns the current rune and advances the cursor.  It
	// errors if the cursor is beyond the input length.
	Any() (rune, error)

	// Backtrack resets the parser's cursor to `location`
	Backtrack(location Location)

	// Location returns the full location of the cursor within the
	// input.
	Location() Location

	// NewError creates a backtracking error, `expected` describes
	// what would have been accepted at the cursor
	NewError(expected, msg string) error

	// ExpectRune returns `r` if it's the same rune that's under
	// the cursor, or errors otherwise.
	ExpectRune(r rune) (rune, error)

	// ExpectLiteral consumes `s` if the input continues with it
	ExpectLiteral(s string) (string, error)

	// ExpectRuneFn returns a function wrapping an `ExpectRune` call.
	ExpectRuneFn(r rune) ParserFn[rune]
}

// ParserFn is the signature of a parser function.  By being generic
// on its return, all the combinators can be generic over the same
// `T`, which allows composing recursive parsers with different
// return types.
type ParserFn[T any] func(p Parser) (T, error)

// ZeroOrMore calls `fn` until it errors out, collecting and
// returning all the successful outputs.  It backtracks the failed
// attempt.
func ZeroOrMore[T any](p Parser, fn ParserFn[T]) ([]T, error) {
	var output []T
	for {
		pos := p.Location()
		item, err := fn(p)
		if err != nil {
			p.Backtrack(pos)
			if isthrown(err) {
				return nil, err
			}
			break
		}
		output = append(output, item)
	}
	return output, nil
}

// OneOrMore matches `fn` once and then passes it to ZeroOrMore
func OneOrMore[T any](p Parser, fn ParserFn[T]) ([]T, error) {
	head, err := fn(p)
	if err != nil {
		return nil, err
	}
	tail, err := ZeroOrMore(p, fn)
	if err != nil {
		return nil, err
	}
	return append([]T{head}, tail...), nil
}

// Choice walks through fns and returns the first to succeed.  It
// backtracks the parser cursor before each attempt, and it fails if
// no alternatives match.
func Choice[T any](p Parser, fns []ParserFn[T]) (T, error) {
	var zero T
	pos := p.Location()
	for _, fn := range fns {
		item, err := fn(p)
		if err == nil {
			return item, nil
		}
		p.Backtrack(pos)
		if isthrown(err) {
			return zero, err
		}
	}
	return zero, p.NewError("", "Choice Error")
}

// Optional is a syntax sugar for an ordered choice in which the
// second option is the zero value
func Optional[T any](p Parser, fn ParserFn[T]) (T, error) {
	return Choice(p, []ParserFn[T]{
		fn,
		func(p Parser) (T, error) {
			var zero T
			return zero, nil
		},
	})
}

// Not returns an error if fn succeeds, or succeeds if fn doesn't
func Not[T any](p Parser, fn ParserFn[T]) (T, error) {
	var zero T
	pos := p.Location()
	_, err := fn(p)

	// unconditionally backtrack as the predicate never consumes any input
	p.Backtrack(pos)

	if err == nil {
		return zero, p.NewError("", "Not Error")
	}
	if isthrown(err) {
		return zero, err
	}
	return zero, nil
}
