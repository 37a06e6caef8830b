package pas

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Location is a position within a text.  Line and Column start at 1
// and columns count characters, Cursor is the byte offset.
type Location struct {
	Line   int
	Column int
	Cursor int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Span is the region between two locations
type Span struct {
	Start Location
	End   Location
}

func NewSpan(start, end Location) Span {
	return Span{Start: start, End: end}
}

// String omits the line when the whole span is on the first line,
// and collapses empty spans into a single position
func (s Span) String() string {
	startLine, startCol := s.Start.Line, s.Start.Column
	endLine, endCol := s.End.Line, s.End.Column
	if startLine == 0 && endLine == 0 {
		startLine, endLine = 1, 1
		startCol, endCol = startCol+1, endCol+1
	}
	if startLine == endLine && startLine == 1 {
		if startCol == endCol {
			return fmt.Sprintf("%d", startCol)
		}
		return fmt.Sprintf("%d..%d", startCol, endCol)
	}
	if startLine == endLine && startCol == endCol {
		return fmt.Sprintf("%d:%d", startLine, startCol)
	}
	return fmt.Sprintf("%d:%d..%d:%d", startLine, startCol, endLine, endCol)
}

// posIndex turns byte offsets into line and column locations
type posIndex struct {
	input string

	// lineStart holds the byte offset of the beginning of each line
	lineStart []int
}

func newPosIndex(input string) *posIndex {
	lineStart := make([]int, 1, 64)
	for i := 0; i < len(input); i++ {
		if input[i] == '\n' {
			lineStart = append(lineStart, i+1)
		}
	}
	return &posIndex{input: input, lineStart: lineStart}
}

func (pi *posIndex) Span(start, end int) Span {
	return Span{Start: pi.LocationAt(start), End: pi.LocationAt(end)}
}

func (pi *posIndex) LocationAt(cursor int) Location {
	cursor = max(0, min(cursor, len(pi.input)))

	// first line starting after the cursor, then one step back
	lineIdx := sort.Search(len(pi.lineStart), func(i int) bool {
		return pi.lineStart[i] > cursor
	}) - 1
	lineIdx = max(lineIdx, 0)

	lineStart := pi.lineStart[lineIdx]
	return Location{
		Line:   lineIdx + 1,
		Column: utf8.RuneCountInString(pi.input[lineStart:cursor]) + 1,
		Cursor: cursor,
	}
}
