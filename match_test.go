package pas

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clarete/pas/ascii"
)

func TestComputeOutput(t *testing.T) {
	digit := Must(NewRange("digit", '0', '9'))
	digits := Must(NewRepeat("digits", Untagged(digit), 1, Unbounded))

	for _, test := range []struct {
		name     string
		rule     Rule
		text     string
		expected Output
	}{
		{
			name:     "terminal",
			rule:     digit,
			text:     "4",
			expected: Text("4"),
		},
		{
			name:     "untagged repeat",
			rule:     digits,
			text:     "42",
			expected: List{Text("4"), Text("2")},
		},
		{
			name:     "tagged repeat inherits the tag per repetition",
			rule:     Must(NewRepeat("", Tagged("d", digit), 0, Unbounded)),
			text:     "123",
			expected: Mapping{"d": List{Text("1"), Text("2"), Text("3")}},
		},
		{
			name:     "tagged repeat with a single repetition",
			rule:     Must(NewRepeat("", Tagged("d", digit), 0, Unbounded)),
			text:     "1",
			expected: Mapping{"d": Text("1")},
		},
		{
			name: "nested levels decide independently",
			rule: Must(NewSequence("", []TaggedRule{
				Tagged("n", digits),
				Untagged(lit(";")),
			})),
			text:     "12;",
			expected: Mapping{"n": List{Text("1"), Text("2")}},
		},
		{
			name: "untagged disjunction passes through",
			rule: Must(NewDisjunction("", []TaggedRule{
				Untagged(lit("x")),
				Untagged(digits),
			})),
			text:     "12",
			expected: List{Text("1"), Text("2")},
		},
		{
			name:     "substract outputs the positive match",
			rule:     Must(NewSubstract("", digits, lit("0"))),
			text:     "10",
			expected: List{Text("1"), Text("0")},
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			m := matchFirst(t, test.rule, test.text)
			require.NotNil(t, m)
			if diff := cmp.Diff(test.expected, m.ComputeOutput()); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMatchPrettyString(t *testing.T) {
	digit := Must(NewRange("digit", '0', '9'))

	t.Run("single line", func(t *testing.T) {
		rule := Must(NewSequence("pair", []TaggedRule{
			Tagged("l", digit),
			Untagged(lit(",")),
			Tagged("r", digit),
		}))
		m := matchFirst(t, rule, "1,2")
		require.NotNil(t, m)
		assert.Equal(t, `pair (1..4)
├── l: digit "1" (1..2)
├── literal "," (2..3)
└── r: digit "2" (3..4)`, m.PrettyString())
	})

	t.Run("multiple lines", func(t *testing.T) {
		rule := Must(NewRepeat("", Untagged(NewAnyCharacter("")), 0, Unbounded))
		m := matchFirst(t, rule, "a\nb")
		require.NotNil(t, m)
		assert.Equal(t, `repeat (1:1..2:2)
├── any "a" (1..2)
├── any "\n" (1:2..2:1)
└── any "b" (2:1..2:2)`, m.PrettyString())
	})

	t.Run("nested", func(t *testing.T) {
		inner := Must(NewSequence("inner", []TaggedRule{Untagged(digit), Untagged(digit)}))
		rule := Must(NewSequence("outer", []TaggedRule{Untagged(inner), Untagged(lit("!"))}))
		m := matchFirst(t, rule, "12!")
		require.NotNil(t, m)
		assert.Equal(t, `outer (1..4)
├── inner (1..3)
│   ├── digit "1" (1..2)
│   └── digit "2" (2..3)
└── literal "!" (3..4)`, m.PrettyString())
	})

	t.Run("highlight only adds colors", func(t *testing.T) {
		m := matchFirst(t, digit, "5")
		require.NotNil(t, m)
		highlighted := m.HighlightPrettyString()
		assert.NotEqual(t, m.PrettyString(), highlighted)
		assert.Equal(t, m.PrettyString(), ascii.Strip(highlighted))
	})
}
