package pas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func matchFirst(t *testing.T, rule Rule, text string, opts ...ContextOption) *RuleMatch {
	t.Helper()
	m, err := First(rule, NewMatchContext(text, opts...))
	require.NoError(t, err)
	return m
}

func lit(value string) *LiteralRule {
	return Must(NewLiteral("", value))
}

func TestTrivialRules(t *testing.T) {
	t.Run("none never matches", func(t *testing.T) {
		assert.Nil(t, matchFirst(t, NewNone("none"), ""))
		assert.Nil(t, matchFirst(t, NewNone("none"), "anything"))
	})

	t.Run("any fails on empty text", func(t *testing.T) {
		assert.Nil(t, matchFirst(t, NewAnyCharacter(""), ""))
	})
}

func TestAnyCharacter(t *testing.T) {
	rule := NewAnyCharacter("Any")
	for _, sample := range []string{"g", "K", "@", "*", "/", "é", "日本"} {
		t.Run(sample, func(t *testing.T) {
			m := matchFirst(t, rule, sample)
			require.NotNil(t, m)
			assert.Equal(t, "Any", m.Rule().Name())
			first, _, _ := NewTextView(sample).FirstRune()
			assert.Equal(t, string(first), m.Text().String())
		})
	}
}

func TestLiteral(t *testing.T) {
	rule := Must(NewLiteral("Lit", "great"))

	t.Run("matches the whole literal", func(t *testing.T) {
		m := matchFirst(t, rule, "great")
		require.NotNil(t, m)
		assert.Equal(t, "Lit", m.Rule().Name())
		assert.Equal(t, 5, m.Text().Len())
	})

	t.Run("matches a prefix of the text", func(t *testing.T) {
		m := matchFirst(t, rule, "greatest")
		require.NotNil(t, m)
		assert.Equal(t, "great", m.Text().String())
	})

	for _, text := range []string{"h", "", "grea", "Great"} {
		t.Run("fails on "+text, func(t *testing.T) {
			assert.Nil(t, matchFirst(t, rule, text))
		})
	}

	t.Run("empty literal", func(t *testing.T) {
		_, err := NewLiteral("Lit", "")
		require.ErrorIs(t, err, ErrEmptyLiteral)
	})
}

func TestRange(t *testing.T) {
	for _, test := range []struct {
		first, last rune
		text        string
		matches     bool
	}{
		{'a', 'e', "c", true},
		{'a', 'e', "e", true},
		{'a', 'e', "a", true},
		{'a', 'e', "f", false},
		{'b', 'e', "a", false},
		{'b', 'e', "C", false},
		{'a', 'e', "", false},
		{'à', 'ÿ', "é", true},
	} {
		t.Run(string(test.first)+".."+string(test.last)+" "+test.text, func(t *testing.T) {
			rule := Must(NewRange("Range", test.first, test.last))
			m := matchFirst(t, rule, test.text)
			if !test.matches {
				assert.Nil(t, m)
				return
			}
			require.NotNil(t, m)
			assert.Equal(t, "Range", m.Rule().Name())
			assert.Equal(t, test.text, m.Text().String())
		})
	}

	t.Run("consumes a single character", func(t *testing.T) {
		m := matchFirst(t, Must(NewRange("", 'a', 'z')), "abc")
		require.NotNil(t, m)
		assert.Equal(t, "a", m.Text().String())
	})

	t.Run("inverted range", func(t *testing.T) {
		_, err := NewRange("Range", 'z', 'a')
		require.ErrorIs(t, err, ErrInvalidRange)
	})
}

func TestRepeat(t *testing.T) {
	oneChar := Must(NewLiteral("oneChar", "g"))

	t.Run("empty text", func(t *testing.T) {
		rule := Must(NewRepeat("Repeat", Untagged(oneChar), 0, Unbounded))
		m := matchFirst(t, rule, "")
		require.NotNil(t, m)
		assert.Equal(t, "Repeat", m.Rule().Name())
		assert.Equal(t, 0, m.Text().Len())
		assert.Equal(t, List{}, m.ComputeOutput())
	})

	t.Run("one character", func(t *testing.T) {
		rule := Must(NewRepeat("Repeat", Untagged(oneChar), 0, Unbounded))
		m := matchFirst(t, rule, "ggggg")
		require.NotNil(t, m)
		assert.Equal(t, 5, m.Text().Len())
		assert.Len(t, m.ComputeOutput(), 5)
	})

	for _, test := range []struct {
		text     string
		min, max int
		matches  bool
	}{
		{"gg", 2, 2, true},
		{"gg", 1, 2, true},
		{"gg", 0, 2, true},
		{"gg", 2, Unbounded, true},
		{"ggg", 2, 2, false},
		{"ggg", 2, 3, true},
		{"g", 2, 2, false},
		{"g", 2, 3, false},
	} {
		rule := Must(NewRepeat("Repeat", Untagged(oneChar), test.min, test.max))
		t.Run(test.text+rule.quantifier(), func(t *testing.T) {
			m := matchFirst(t, rule, test.text)
			if !test.matches {
				assert.True(t, m == nil || m.Text().Len() != len(test.text))
				return
			}
			require.NotNil(t, m)
			assert.Equal(t, len(test.text), m.Text().Len())
			assert.Len(t, m.ComputeOutput(), len(test.text))
		})
	}

	t.Run("sequence with interleave", func(t *testing.T) {
		interleave := Must(NewRepeat("interleave", Untagged(lit(" ")), 0, Unbounded))
		seq := Must(NewSequence("seq", []TaggedRule{
			Untagged(lit("|")),
			Tagged("t", lit("a")),
		}))
		rule := Must(NewRepeat("rep", Untagged(seq), 1, Unbounded))
		text := "  |a  |a   |a"

		m := matchFirst(t, rule, text, WithInterleave(interleave))
		require.NotNil(t, m)
		assert.Equal(t, "rep", m.Rule().Name())
		assert.Equal(t, text, m.Text().String())
		assert.Equal(t, List{
			Mapping{"t": Text("a")},
			Mapping{"t": Text("a")},
			Mapping{"t": Text("a")},
		}, m.ComputeOutput())
	})

	t.Run("trailing interleave is left out", func(t *testing.T) {
		interleave := Must(NewRepeat("", Untagged(lit(" ")), 0, Unbounded))
		rule := Must(NewRepeat("", Untagged(lit("a")), 0, Unbounded))
		m := matchFirst(t, rule, "a a  ", WithInterleave(interleave))
		require.NotNil(t, m)
		assert.Equal(t, "a a", m.Text().String())
	})

	t.Run("invalid cardinality", func(t *testing.T) {
		_, err := NewRepeat("", Untagged(oneChar), 3, 2)
		require.ErrorIs(t, err, ErrInvalidCardinality)
		_, err = NewRepeat("", Untagged(oneChar), -1, 2)
		require.ErrorIs(t, err, ErrInvalidCardinality)
		_, err = NewRepeat("", Untagged(nil), 0, 2)
		require.ErrorIs(t, err, ErrNilRule)
	})
}

func TestDisjunction(t *testing.T) {
	t.Run("without tags", func(t *testing.T) {
		rule := Must(NewDisjunction("Disjunction", []TaggedRule{
			Untagged(Must(NewLiteral("Alice", "Alice"))),
			Untagged(Must(NewLiteral("Bob", "Bob"))),
			Untagged(Must(NewLiteral("Charles", "Charles"))),
		}))
		for _, test := range []struct {
			text    string
			matches bool
		}{
			{"Alice", true},
			{"Bob", true},
			{"Charles", true},
			{"Didier", false},
		} {
			t.Run(test.text, func(t *testing.T) {
				m := matchFirst(t, rule, test.text)
				if !test.matches {
					assert.Nil(t, m)
					return
				}
				require.NotNil(t, m)
				assert.Equal(t, "Disjunction", m.Rule().Name())
				assert.Equal(t, test.text, m.Text().String())
				assert.Equal(t, Text(test.text), m.ComputeOutput())
			})
		}
	})

	t.Run("with tags", func(t *testing.T) {
		// a:Alice | s1:(b:Bob | c:Charles) | s2:(d:Darwin | e:Ernest)
		sub1 := Must(NewDisjunction("", []TaggedRule{
			Tagged("b", lit("Bob")),
			Tagged("c", lit("Charles")),
		}))
		sub2 := Must(NewDisjunction("", []TaggedRule{
			Tagged("d", lit("Darwin")),
			Tagged("e", lit("Ernest")),
		}))
		rule := Must(NewDisjunction("Disjunction", []TaggedRule{
			Tagged("a", lit("Alice")),
			Tagged("s1", sub1),
			Tagged("s2", sub2),
		}))
		for _, test := range []struct {
			text     string
			expected Output
		}{
			{"Alice", Mapping{"a": Text("Alice")}},
			{"Bob", Mapping{"s1": Mapping{"b": Text("Bob")}}},
			{"Charles", Mapping{"s1": Mapping{"c": Text("Charles")}}},
			{"Didier", nil},
			{"Darwin", Mapping{"s2": Mapping{"d": Text("Darwin")}}},
			{"Ernest", Mapping{"s2": Mapping{"e": Text("Ernest")}}},
			{"Ephreme", nil},
		} {
			t.Run(test.text, func(t *testing.T) {
				m := matchFirst(t, rule, test.text)
				if test.expected == nil {
					assert.Nil(t, m)
					return
				}
				require.NotNil(t, m)
				assert.Equal(t, len(test.text), m.Text().Len())
				assert.Equal(t, test.expected, m.ComputeOutput())
			})
		}
	})

	t.Run("with repeat", func(t *testing.T) {
		// ("a"* | "b"*)*
		as := Must(NewRepeat("RepeatA", Untagged(lit("a")), 0, Unbounded))
		bs := Must(NewRepeat("RepeatB", Untagged(lit("b")), 0, Unbounded))
		choice := Must(NewDisjunction("Disjunction", []TaggedRule{Untagged(as), Untagged(bs)}))
		rule := Must(NewRepeat("MasterRepeat", Untagged(choice), 0, Unbounded))
		for _, test := range []struct {
			text    string
			matches bool
		}{
			{"ababab", true},
			{"aaaaaa", true},
			{"bbbbbbb", true},
			{"bbbbaaaabbbaaaa", true},
			{"", true},
			{"kaaaaabbbbb", false},
			{"kaaaa", false},
		} {
			t.Run(test.text, func(t *testing.T) {
				m := matchFirst(t, rule, test.text)
				if !test.matches {
					assert.True(t, m == nil || m.Text().Len() != len(test.text))
					return
				}
				require.NotNil(t, m)
				assert.Equal(t, "MasterRepeat", m.Rule().Name())
				assert.Equal(t, len(test.text), m.Text().Len())
			})
		}
	})

	t.Run("commits to the first alternative", func(t *testing.T) {
		rule := Must(NewDisjunction("", []TaggedRule{
			Tagged("short", lit("ab")),
			Tagged("long", lit("abc")),
		}))
		m := matchFirst(t, rule, "abc")
		require.NotNil(t, m)
		assert.Equal(t, Mapping{"short": Text("ab")}, m.ComputeOutput())
	})

	t.Run("empty alternatives", func(t *testing.T) {
		_, err := NewDisjunction("", nil)
		require.ErrorIs(t, err, ErrEmptyRuleList)
		_, err = NewDisjunction("", []TaggedRule{Untagged(nil)})
		require.ErrorIs(t, err, ErrNilRule)
	})
}

func TestSequence(t *testing.T) {
	t.Run("without tags", func(t *testing.T) {
		rule := Must(NewSequence("Seq", []TaggedRule{
			Untagged(lit("Hi")),
			Untagged(lit("Bob")),
			Untagged(lit("!")),
		}))
		m := matchFirst(t, rule, "HiBob!")
		require.NotNil(t, m)
		assert.Equal(t, "Seq", m.Rule().Name())
		assert.Equal(t, "HiBob!", m.Text().String())
		assert.Equal(t, List{Text("Hi"), Text("Bob"), Text("!")}, m.ComputeOutput())
	})

	t.Run("with tags", func(t *testing.T) {
		rule := Must(NewSequence("Seq", []TaggedRule{
			Tagged("h", lit("Hi")),
			Tagged("b", lit("Bob")),
			Untagged(lit("!")),
		}))
		m := matchFirst(t, rule, "HiBob!")
		require.NotNil(t, m)
		assert.Equal(t, 6, m.Text().Len())
		assert.Equal(t, Mapping{"h": Text("Hi"), "b": Text("Bob")}, m.ComputeOutput())
	})

	t.Run("with tagged repeats", func(t *testing.T) {
		rule := Must(NewSequence("Seq", []TaggedRule{
			Tagged("a", Must(NewRepeat("", Untagged(lit("a")), 1, Unbounded))),
			Tagged("b", Must(NewRepeat("", Untagged(lit("b")), 1, Unbounded))),
		}))
		m := matchFirst(t, rule, "aaaabb")
		require.NotNil(t, m)
		assert.Equal(t, 6, m.Text().Len())
		assert.Equal(t, Mapping{
			"a": List{Text("a"), Text("a"), Text("a"), Text("a")},
			"b": List{Text("b"), Text("b")},
		}, m.ComputeOutput())
	})

	t.Run("skips interleave before each element", func(t *testing.T) {
		interleave := Must(NewRepeat("", Untagged(lit(" ")), 0, Unbounded))
		rule := Must(NewSequence("", []TaggedRule{Untagged(lit("a")), Untagged(lit("b"))}))
		m := matchFirst(t, rule, "  a   b ", WithInterleave(interleave))
		require.NotNil(t, m)
		assert.Equal(t, "  a   b", m.Text().String())
		assert.Equal(t, List{Text("a"), Text("b")}, m.ComputeOutput())
	})

	t.Run("disabled interleave", func(t *testing.T) {
		interleave := Must(NewRepeat("", Untagged(lit(" ")), 0, Unbounded))
		rule := Must(NewSequence("", []TaggedRule{Untagged(lit("a")), Untagged(lit("b"))},
			WithInterleaveMode(InterleaveDisabled)))
		assert.Nil(t, matchFirst(t, rule, "a b", WithInterleave(interleave)))
		assert.NotNil(t, matchFirst(t, rule, "ab", WithInterleave(interleave)))
	})

	t.Run("fails if any element fails", func(t *testing.T) {
		rule := Must(NewSequence("", []TaggedRule{Untagged(lit("a")), Untagged(lit("b"))}))
		assert.Nil(t, matchFirst(t, rule, "ac"))
		assert.Nil(t, matchFirst(t, rule, "a"))
	})

	t.Run("shared tag within a sequence", func(t *testing.T) {
		rule := Must(NewSequence("", []TaggedRule{
			Tagged("n", lit("1")),
			Untagged(lit(",")),
			Tagged("n", lit("2")),
		}))
		m := matchFirst(t, rule, "1,2")
		require.NotNil(t, m)
		assert.Equal(t, Mapping{"n": List{Text("1"), Text("2")}}, m.ComputeOutput())
	})

	t.Run("empty elements", func(t *testing.T) {
		_, err := NewSequence("", []TaggedRule{})
		require.ErrorIs(t, err, ErrEmptyRuleList)
	})
}

func TestSubstract(t *testing.T) {
	rule := Must(NewSubstract("Substract",
		Must(NewRange("", 'a', 'z')),
		Must(NewRange("", 'f', 'h'))))
	for _, test := range []struct {
		text    string
		matches bool
	}{
		{"a", true},
		{"z", true},
		{"t", true},
		{"f", false},
		{"g", false},
		{"h", false},
		{"A", false},
	} {
		t.Run(test.text, func(t *testing.T) {
			m := matchFirst(t, rule, test.text)
			if !test.matches {
				assert.Nil(t, m)
				return
			}
			require.NotNil(t, m)
			assert.Equal(t, "Substract", m.Rule().Name())
			assert.Equal(t, test.text, m.Text().String())
			assert.Equal(t, Text(test.text), m.ComputeOutput())
		})
	}

	t.Run("negative matching a different span", func(t *testing.T) {
		// identifiers except the keyword "if"
		ident := Must(NewRepeat("", Untagged(Must(NewRange("", 'a', 'z'))), 1, Unbounded))
		rule := Must(NewSubstract("", ident, lit("if")))
		assert.Nil(t, matchFirst(t, rule, "if"))
		m := matchFirst(t, rule, "iffy")
		require.NotNil(t, m)
		assert.Equal(t, "iffy", m.Text().String())
		assert.Equal(t, List{Text("i"), Text("f"), Text("f"), Text("y")}, m.ComputeOutput())
	})
}

func TestRecursion(t *testing.T) {
	// rule A = "a".."z";
	// rule B = C "," C;
	// rule C = A | B;
	build := func() *DisjunctionRule {
		a := Must(NewRange("A", 'a', 'z'))
		proxyC := NewProxy("C")
		b := Must(NewSequence("B", []TaggedRule{
			Untagged(proxyC),
			Untagged(lit(",")),
			Untagged(proxyC),
		}))
		c := Must(NewDisjunction("C", []TaggedRule{Untagged(a), Untagged(b)}))
		require.NoError(t, proxyC.Resolve(c))
		return c
	}

	t.Run("non recursive alternative first", func(t *testing.T) {
		m := matchFirst(t, build(), "a")
		require.NotNil(t, m)
		assert.Equal(t, "a", m.Text().String())
	})

	t.Run("without the recursion guard", func(t *testing.T) {
		m := matchFirst(t, build(), "a", WithRecursionGuard(false))
		require.NotNil(t, m)
		assert.Equal(t, "a", m.Text().String())
	})

	t.Run("left recursion fails instead of looping", func(t *testing.T) {
		// rule E = E "+" N | N;
		n := Must(NewRange("N", '0', '9'))
		proxyE := NewProxy("E")
		e := Must(NewDisjunction("E", []TaggedRule{
			Untagged(Must(NewSequence("", []TaggedRule{Untagged(proxyE), Untagged(lit("+")), Untagged(n)}))),
			Untagged(n),
		}))
		require.NoError(t, proxyE.Resolve(e))

		// entering through the proxy, the recursive alternative
		// fails right away and the second one matches
		m := matchFirst(t, proxyE, "1+2")
		require.NotNil(t, m)
		assert.Equal(t, "1", m.Text().String())

		// entering the rule itself, the proxy gets expanded once
		m = matchFirst(t, e, "1+2")
		require.NotNil(t, m)
		assert.Equal(t, "1+2", m.Text().String())
	})

	t.Run("left recursion without guard hits the depth limit", func(t *testing.T) {
		proxy := NewProxy("L")
		l := Must(NewSequence("L", []TaggedRule{Untagged(proxy), Untagged(lit("x"))}))
		require.NoError(t, proxy.Resolve(l))

		_, err := First(l, NewMatchContext("x", WithRecursionGuard(false), WithMaxDepth(100)))
		require.ErrorIs(t, err, ErrMaxDepthExceeded)
	})

	t.Run("right recursion", func(t *testing.T) {
		// rule L = "(" L? ")";
		proxy := NewProxy("L")
		l := Must(NewSequence("L", []TaggedRule{
			Untagged(lit("(")),
			Untagged(Must(NewRepeat("", Untagged(proxy), 0, 1))),
			Untagged(lit(")")),
		}))
		require.NoError(t, proxy.Resolve(l))

		m := matchFirst(t, l, "((()))")
		require.NotNil(t, m)
		assert.Equal(t, "((()))", m.Text().String())
		assert.Nil(t, matchFirst(t, l, "(()"))
	})
}

func TestDeterminism(t *testing.T) {
	rule := Must(NewSequence("", []TaggedRule{
		Tagged("a", Must(NewRepeat("", Untagged(lit("a")), 1, Unbounded))),
		Tagged("b", Must(NewRepeat("", Untagged(lit("b")), 0, Unbounded))),
	}))
	ctx := NewMatchContext("aabbb")
	m1, err := First(rule, ctx)
	require.NoError(t, err)
	m2, err := First(rule, ctx)
	require.NoError(t, err)
	assert.Equal(t, m1.Text(), m2.Text())
	assert.Equal(t, m1.ComputeOutput(), m2.ComputeOutput())
}

func TestRuleString(t *testing.T) {
	digit := Must(NewRange("digit", '0', '9'))
	for _, test := range []struct {
		rule     Rule
		expected string
	}{
		{lit("a"), `"a"`},
		{digit, `<digit> '0'..'9'`},
		{NewAnyCharacter(""), `.`},
		{NewNone("nothing"), `<nothing> none`},
		{Must(NewRepeat("", Untagged(digit), 1, Unbounded)), `digit+`},
		{Must(NewRepeat("", Tagged("d", digit), 2, 3)), `d:digit{2,3}`},
		{Must(NewRepeat("", Untagged(digit), 2, Unbounded)), `digit{2,}`},
		{Must(NewSequence("pair", []TaggedRule{Tagged("l", digit), Untagged(lit(","))})), `<pair> (l:digit ",")`},
		{Must(NewDisjunction("", []TaggedRule{Untagged(digit), Untagged(lit("x"))})), `(digit | "x")`},
		{Must(NewSubstract("", digit, lit("0"))), `digit - "0"`},
		{NewProxy("fwd"), `<fwd>`},
	} {
		t.Run(test.expected, func(t *testing.T) {
			assert.Equal(t, test.expected, test.rule.String())
		})
	}
}
