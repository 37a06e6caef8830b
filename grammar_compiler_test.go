package pas

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileErrors(t *testing.T) {
	for _, test := range []struct {
		Name     string
		Grammar  string
		Expected string
	}{
		{
			Name:     "Duplicated rule",
			Grammar:  "rule a = \"x\";\nrule a = \"y\";",
			Expected: "Rule 'a' already defined @ 2:6..2:7",
		},
		{
			Name:     "Undefined rule",
			Grammar:  `rule a = b;`,
			Expected: "Rule 'b' isn't defined @ 10..11",
		},
		{
			Name:     "Unknown parameter",
			Grammar:  `rule(skip=true) a = "x";`,
			Expected: "Unknown rule parameter 'skip' @ 6..15",
		},
		{
			Name:     "Repeated parameter",
			Grammar:  `rule(interleave=true, interleave=false) a = "x";`,
			Expected: "Parameter 'interleave' given more than once @ 23..39",
		},
		{
			Name:     "Empty literal",
			Grammar:  `rule a = "";`,
			Expected: "Literal can't be empty @ 10..12",
		},
		{
			Name:     "Range bound with many characters",
			Grammar:  `rule a = "ab".."z";`,
			Expected: `Range bound "ab" must be a single character @ 10..14`,
		},
		{
			Name:     "Inverted range",
			Grammar:  `rule a = "z".."a";`,
			Expected: `Range "z".."a" starts after it ends @ 10..18`,
		},
		{
			Name:     "Inverted cardinality",
			Grammar:  `rule a = "x"{3,2};`,
			Expected: "Cardinality {3,2} has its minimum above its maximum @ 10..18",
		},
		{
			Name:     "Duplicated interleave",
			Grammar:  "interleave = \" \";\ninterleave = \"\\t\";\nrule a = \"x\";",
			Expected: "Interleave already declared at 1..18 @ 2:1..2:19",
		},
		{
			Name:     "No rules",
			Grammar:  "# nothing to see",
			Expected: "Grammar doesn't define any rule @ 1",
		},
		{
			Name:     "Alias cycle",
			Grammar:  "rule a = b;\nrule b = a;",
			Expected: "2 grammar errors:\n  Rule 'a' is an alias of itself @ 1..12\n  Rule 'b' is an alias of itself @ 2:1..2:12",
		},
		{
			Name:     "All errors are reported",
			Grammar:  "rule a = b;\nrule c = \"\";",
			Expected: "2 grammar errors:\n  Rule 'b' isn't defined @ 10..11\n  Literal can't be empty @ 2:10..2:12",
		},
		{
			Name:     "Syntax error",
			Grammar:  `rule a = "\q";`,
			Expected: `Unknown escape sequence \q @ 11..13`,
		},
	} {
		t.Run(test.Name, func(t *testing.T) {
			_, err := Compile(test.Grammar, nil)
			require.Error(t, err)

			var grammarErr *GrammarError
			require.ErrorAs(t, err, &grammarErr)
			assert.Equal(t, test.Expected, err.Error())
		})
	}
}

func TestCompileDefaultRule(t *testing.T) {
	grammar := "rule a = \"x\";\nrule b = \"y\";"

	t.Run("First rule", func(t *testing.T) {
		g, err := Compile(grammar, nil)
		require.NoError(t, err)
		assert.Equal(t, "a", g.DefaultRule())
	})

	t.Run("From config", func(t *testing.T) {
		cfg := NewConfig()
		cfg.SetString("grammar.default_rule", "b")
		g, err := Compile(grammar, cfg)
		require.NoError(t, err)
		assert.Equal(t, "b", g.DefaultRule())
	})

	t.Run("Missing", func(t *testing.T) {
		cfg := NewConfig()
		cfg.SetString("grammar.default_rule", "c")
		_, err := Compile(grammar, cfg)
		require.Error(t, err)
		assert.Equal(t, "Default rule 'c' isn't defined @ 1:1..2:14", err.Error())
	})
}

func TestCompileRules(t *testing.T) {
	g, err := Compile(`
interleave = " "*;
rule(interleave=false) word = ("a".."z" - "x")+;
rule pair = l:word "=" r:word;
rule alias = word;
rule nested = t:(u:word);
`, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"word", "pair", "alias", "nested"}, g.RuleNames())
	assert.Len(t, g.Rules(), 4)
	require.NotNil(t, g.Interleave())
	assert.Equal(t, KindRepeat, g.Interleave().Kind())

	word, ok := g.Rule("word")
	require.True(t, ok)
	assert.Equal(t, KindRepeat, word.Kind())
	assert.Equal(t, "word", word.Name())
	assert.Equal(t, InterleaveDisabled, word.Interleave())

	pair, ok := g.Rule("pair")
	require.True(t, ok)
	seq, ok := pair.(*SequenceRule)
	require.True(t, ok)
	elements := seq.Elements()
	require.Len(t, elements, 3)
	assert.Equal(t, "l", elements[0].Tag)
	assert.Equal(t, KindProxy, elements[0].Rule.Kind())
	assert.Equal(t, "", elements[1].Tag)
	assert.Equal(t, "r", elements[2].Tag)

	// aliases share the rule they point to
	alias, ok := g.Rule("alias")
	require.True(t, ok)
	assert.Equal(t, "word", alias.Name())

	// a tag around a tagged expression gets its own sequence
	nested, ok := g.Rule("nested")
	require.True(t, ok)
	outer, ok := nested.(*SequenceRule)
	require.True(t, ok)
	require.Len(t, outer.Elements(), 1)
	assert.Equal(t, "t", outer.Elements()[0].Tag)
	inner, ok := outer.Elements()[0].Rule.(*SequenceRule)
	require.True(t, ok)
	assert.Equal(t, "u", inner.Elements()[0].Tag)

	_, ok = g.Rule("missing")
	assert.False(t, ok)
}

func TestCompileAliasWithParams(t *testing.T) {
	g, err := Compile(`
interleave = " "*;
rule(interleave=false) glued = word;
rule word = letter+;
rule letter = "a".."z";
`, nil)
	require.NoError(t, err)

	glued, ok := g.Rule("glued")
	require.True(t, ok)
	assert.Equal(t, "glued", glued.Name())
	assert.Equal(t, KindDisjunction, glued.Kind())
	assert.Equal(t, InterleaveDisabled, glued.Interleave())

	ctx := context.Background()
	m, err := g.Match(ctx, "glued", "a b")
	require.NoError(t, err)
	assert.Nil(t, m)

	m, err = g.Match(ctx, "word", "a b")
	require.NoError(t, err)
	require.NotNil(t, m)

	m, err = g.Match(ctx, "glued", "ab")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "", cmp.Diff(List{Text("a"), Text("b")}, m.ComputeOutput()))

	// parameters turn the alias into a rule, so it's no longer a cycle
	g, err = Compile(`
rule(interleave=false) a = b;
rule b = a | "x";
`, nil)
	require.NoError(t, err)
	m, err = g.Match(ctx, "a", "x")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "", cmp.Diff(Text("x"), m.ComputeOutput()))
}

func TestCompileFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "digits.pas")
	require.NoError(t, os.WriteFile(path, []byte(`rule digits = ("0".."9")+;`), 0o644))

	g, err := CompileFile(path, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"digits"}, g.RuleNames())

	_, err = CompileFile(filepath.Join(t.TempDir(), "missing.pas"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
