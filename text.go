package pas

import (
	"fmt"
	"iter"
	"unicode/utf8"
)

// TextView is an immutable window over the input text.  Views never
// copy the text they point to, slicing one produces a new view that
// shares the same origin.  Offsets and lengths are byte offsets into
// the UTF-8 origin, characters are decoded on demand.
type TextView struct {
	origin string
	start  int
	length int
}

// NewTextView creates a view covering the whole `text`
func NewTextView(text string) TextView {
	return TextView{origin: text, start: 0, length: len(text)}
}

// HasContent returns true if there is at least one byte left
func (v TextView) HasContent() bool { return v.length > 0 }

// Len is the length of the view in bytes
func (v TextView) Len() int { return v.length }

// Start is the offset of the view within its origin
func (v TextView) Start() int { return v.start }

// End is the offset right after the last byte of the view
func (v TextView) End() int { return v.start + v.length }

// Origin returns the whole text the view was created from
func (v TextView) Origin() string { return v.origin }

// String returns the text under the view.  It's a substring of the
// origin, so no copy is made.
func (v TextView) String() string { return v.origin[v.start : v.start+v.length] }

// Take returns a view over the first `n` bytes of `v`.  Asking for
// more than what's available is a programming error.
func (v TextView) Take(n int) TextView {
	if n < 0 || n > v.length {
		panic(fmt.Sprintf("text view: can't take %d bytes out of %d", n, v.length))
	}
	return TextView{origin: v.origin, start: v.start, length: n}
}

// Skip returns a view over what's left after the first `n` bytes
func (v TextView) Skip(n int) TextView {
	if n < 0 || n > v.length {
		panic(fmt.Sprintf("text view: can't skip %d bytes out of %d", n, v.length))
	}
	return TextView{origin: v.origin, start: v.start + n, length: v.length - n}
}

// Span returns a view from the beginning of `v` up to the end of
// `other`.  Both views must share the same origin.
func (v TextView) Span(other TextView) TextView {
	return v.Take(other.End() - v.start)
}

// FirstRune decodes the character under the beginning of the view.
// It returns the rune, its width in bytes and false if the view is
// empty.
func (v TextView) FirstRune() (rune, int, bool) {
	if v.length == 0 {
		return 0, 0, false
	}
	r, size := utf8.DecodeRuneInString(v.String())
	return r, size, true
}

// Runes enumerates the characters within the view.  The sequence is
// lazy, finite and can be restarted.
func (v TextView) Runes() iter.Seq[rune] {
	return func(yield func(rune) bool) {
		for _, r := range v.String() {
			if !yield(r) {
				return
			}
		}
	}
}
