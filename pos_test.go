package pas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPosIndex(t *testing.T) {
	index := newPosIndex("ab\ncdé\n\nf")

	for _, test := range []struct {
		cursor   int
		expected Location
	}{
		{0, Location{Line: 1, Column: 1, Cursor: 0}},
		{2, Location{Line: 1, Column: 3, Cursor: 2}},
		{3, Location{Line: 2, Column: 1, Cursor: 3}},
		{7, Location{Line: 2, Column: 4, Cursor: 7}},
		{8, Location{Line: 3, Column: 1, Cursor: 8}},
		{9, Location{Line: 4, Column: 1, Cursor: 9}},
		{10, Location{Line: 4, Column: 2, Cursor: 10}},
		{99, Location{Line: 4, Column: 2, Cursor: 10}},
		{-1, Location{Line: 1, Column: 1, Cursor: 0}},
	} {
		t.Run(test.expected.String(), func(t *testing.T) {
			assert.Equal(t, test.expected, index.LocationAt(test.cursor))
		})
	}
}

func TestSpanString(t *testing.T) {
	for _, test := range []struct {
		span     Span
		expected string
	}{
		{Span{}, "1"},
		{NewSpan(Location{Line: 1, Column: 3}, Location{Line: 1, Column: 3}), "3"},
		{NewSpan(Location{Line: 1, Column: 1}, Location{Line: 1, Column: 5}), "1..5"},
		{NewSpan(Location{Line: 2, Column: 3}, Location{Line: 2, Column: 3}), "2:3"},
		{NewSpan(Location{Line: 2, Column: 3}, Location{Line: 2, Column: 7}), "2:3..2:7"},
		{NewSpan(Location{Line: 1, Column: 3}, Location{Line: 4, Column: 1}), "1:3..4:1"},
	} {
		t.Run(test.expected, func(t *testing.T) {
			assert.Equal(t, test.expected, test.span.String())
		})
	}
}
