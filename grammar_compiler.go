package pas

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"
)

// Compile parses `source` and builds the rules it declares.  All the
// problems found are reported at once within a *GrammarError.  A nil
// `cfg` uses the defaults of NewConfig.
func Compile(source string, cfg *Config) (*Grammar, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	ast, err := NewGrammarParser(source).Parse()
	if err != nil {
		var se syntaxError
		if errors.As(err, &se) {
			return nil, &GrammarError{Diagnostics: []Diagnostic{{Message: se.Message, Span: se.Span}}}
		}
		return nil, err
	}
	return newCompiler(cfg).compile(ast)
}

// CompileFile reads the grammar at `path` and compiles it
func CompileFile(path string, cfg *Config) (*Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Compile(string(data), cfg)
}

type compiler struct {
	cfg         *Config
	proxies     map[string]*ProxyRule
	diagnostics []Diagnostic
}

func newCompiler(cfg *Config) *compiler {
	return &compiler{cfg: cfg, proxies: map[string]*ProxyRule{}}
}

func (c *compiler) errorf(span Span, format string, args ...any) {
	c.diagnostics = append(c.diagnostics, Diagnostic{Message: fmt.Sprintf(format, args...), Span: span})
}

func (c *compiler) compile(ast *GrammarNode) (*Grammar, error) {
	g := &Grammar{ast: ast, cfg: c.cfg, rules: map[string]Rule{}}

	// first pass: a proxy for each rule so references can be
	// compiled before the rules they point to
	var (
		defs       []*DefinitionNode
		interleave *InterleaveNode
	)
	for _, stmt := range ast.Statements {
		switch n := stmt.(type) {
		case *InterleaveNode:
			if interleave != nil {
				c.errorf(n.Span(), "Interleave already declared at %s", interleave.Span())
				continue
			}
			interleave = n
		case *DefinitionNode:
			name := n.Name.Value
			if _, ok := c.proxies[name]; ok {
				c.errorf(n.Name.Span(), "Rule '%s' already defined", name)
				continue
			}
			c.proxies[name] = NewProxy(name)
			defs = append(defs, n)
		}
	}
	if len(defs) == 0 {
		c.errorf(ast.Span(), "Grammar doesn't define any rule")
	}
	c.checkAliasCycles(defs)

	// second pass: rule bodies
	for _, def := range defs {
		name := def.Name.Value
		proxy := c.proxies[name]
		if proxy.Resolved() {
			continue
		}
		body := c.build(def.Expr, name, c.ruleOptions(def))
		if err := proxy.Resolve(body); err != nil {
			c.errorf(def.Span(), "%s", err)
			continue
		}
		g.order = append(g.order, name)
	}
	if interleave != nil {
		g.interleave = c.build(interleave.Expr, "", nil)
	}

	g.defaultRule = c.cfg.GetString("grammar.default_rule")
	if g.defaultRule == "" && len(g.order) > 0 {
		g.defaultRule = g.order[0]
	}
	if _, ok := c.proxies[g.defaultRule]; !ok && g.defaultRule != "" {
		c.errorf(ast.Span(), "Default rule '%s' isn't defined", g.defaultRule)
	}

	if len(c.diagnostics) > 0 {
		return nil, &GrammarError{Diagnostics: c.diagnostics}
	}
	for _, name := range g.order {
		target, _ := c.proxies[name].Target()
		g.rules[name] = target
	}
	return g, nil
}

// checkAliasCycles reports rules that only refer to each other, like
// `rule a = b; rule b = a;`.  Their proxies would point to each other
// and never reach an actual rule.  They get resolved to none so the
// rest of the grammar can still be checked.
func (c *compiler) checkAliasCycles(defs []*DefinitionNode) {
	aliases := map[string]string{}
	for _, def := range defs {
		if id, ok := def.Expr.(*IdentifierNode); ok && len(def.Params) == 0 {
			aliases[def.Name.Value] = id.Value
		}
	}
	for _, def := range defs {
		seen := map[string]struct{}{}
		for name := def.Name.Value; ; {
			next, ok := aliases[name]
			if !ok {
				break
			}
			if next == def.Name.Value {
				c.errorf(def.Span(), "Rule '%s' is an alias of itself", def.Name.Value)
				if err := c.proxies[def.Name.Value].Resolve(NewNone(def.Name.Value)); err != nil {
					c.errorf(def.Span(), "%s", err)
				}
				break
			}
			if _, ok := seen[next]; ok {
				break
			}
			seen[next] = struct{}{}
			name = next
		}
	}
}

func (c *compiler) ruleOptions(def *DefinitionNode) []RuleOption {
	var opts []RuleOption
	seen := map[string]struct{}{}
	for _, param := range def.Params {
		if _, ok := seen[param.Name]; ok {
			c.errorf(param.Span(), "Parameter '%s' given more than once", param.Name)
			continue
		}
		seen[param.Name] = struct{}{}
		switch param.Name {
		case "interleave":
			mode := InterleaveDisabled
			if param.Value {
				mode = InterleaveEnabled
			}
			opts = append(opts, WithInterleaveMode(mode))
		default:
			c.errorf(param.Span(), "Unknown rule parameter '%s'", param.Name)
		}
	}
	return opts
}

// tagged compiles an element of a sequence, a choice or a repetition,
// where a tag applies to the element itself
func (c *compiler) tagged(node AstNode) TaggedRule {
	if t, ok := node.(*TaggedNode); ok {
		return Tagged(t.Tag, c.build(t.Expr, "", nil))
	}
	return Untagged(c.build(node, "", nil))
}

func (c *compiler) taggedAll(nodes []AstNode) []TaggedRule {
	rules := make([]TaggedRule, len(nodes))
	for i, node := range nodes {
		rules[i] = c.tagged(node)
	}
	return rules
}

// build compiles `node` into a rule called `name`.  Errors are
// recorded as diagnostics and replaced by a rule that never matches.
func (c *compiler) build(node AstNode, name string, opts []RuleOption) Rule {
	switch n := node.(type) {
	case *LiteralNode:
		r, err := NewLiteral(name, n.Value, opts...)
		if err != nil {
			c.errorf(n.Span(), "Literal can't be empty")
			return NewNone(name)
		}
		return r

	case *RangeNode:
		first, ok1 := c.rangeBound(n.First)
		last, ok2 := c.rangeBound(n.Last)
		if !ok1 || !ok2 {
			return NewNone(name)
		}
		r, err := NewRange(name, first, last, opts...)
		if err != nil {
			c.errorf(n.Span(), "Range %s starts after it ends", n.Text())
			return NewNone(name)
		}
		return r

	case *AnyNode:
		return NewAnyCharacter(name, opts...)

	case *NoneNode:
		return NewNone(name)

	case *IdentifierNode:
		proxy, ok := c.proxies[n.Value]
		if !ok {
			c.errorf(n.Span(), "Rule '%s' isn't defined", n.Value)
			return NewNone(name)
		}
		if len(opts) > 0 {
			// an alias with parameters needs a rule of its own to
			// carry them, a lone alternative keeps the output as is
			return Must(NewDisjunction(name, []TaggedRule{Untagged(proxy)}, opts...))
		}
		return proxy

	case *SequenceNode:
		return Must(NewSequence(name, c.taggedAll(n.Items), opts...))

	case *ChoiceNode:
		return Must(NewDisjunction(name, c.taggedAll(n.Items), opts...))

	case *TaggedNode:
		// a tag needs an enclosing sequence to show up in the output
		return Must(NewSequence(name, []TaggedRule{c.tagged(n)}, opts...))

	case *RepeatNode:
		r, err := NewRepeat(name, c.tagged(n.Expr), n.Min, n.Max, opts...)
		if err != nil {
			c.errorf(n.Span(), "Cardinality {%d,%d} has its minimum above its maximum", n.Min, n.Max)
			return NewNone(name)
		}
		return r

	case *DifferenceNode:
		positive := c.build(n.Positive, "", nil)
		negative := c.build(n.Negative, "", nil)
		return Must(NewSubstract(name, positive, negative, opts...))

	default:
		panic(fmt.Sprintf("unknown grammar node %T", node))
	}
}

func (c *compiler) rangeBound(n *LiteralNode) (rune, bool) {
	if utf8.RuneCountInString(n.Value) != 1 {
		c.errorf(n.Span(), "Range bound %s must be a single character", n.Text())
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(n.Value)
	return r, true
}
