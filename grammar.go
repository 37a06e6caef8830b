package pas

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Grammar is a compiled set of named rules.  It's immutable once
// compiled and safe to share between goroutines.
type Grammar struct {
	ast         *GrammarNode
	cfg         *Config
	rules       map[string]Rule
	order       []string
	interleave  Rule
	defaultRule string
}

// AST returns the tree the grammar was compiled from
func (g *Grammar) AST() *GrammarNode { return g.ast }

// Interleave returns the rule skipped between elements, or nil
func (g *Grammar) Interleave() Rule { return g.interleave }

// DefaultRule returns the name of the rule matched when none is
// given
func (g *Grammar) DefaultRule() string { return g.defaultRule }

// RuleNames returns the name of each rule in declaration order
func (g *Grammar) RuleNames() []string { return append([]string(nil), g.order...) }

// Rules returns the rules in declaration order
func (g *Grammar) Rules() []Rule {
	rules := make([]Rule, len(g.order))
	for i, name := range g.order {
		rules[i] = g.rules[name]
	}
	return rules
}

// Rule looks a rule up by the name it was declared with
func (g *Grammar) Rule(name string) (Rule, bool) {
	r, ok := g.rules[name]
	return r, ok
}

func (g *Grammar) String() string {
	var s strings.Builder
	if g.interleave != nil {
		fmt.Fprintf(&s, "interleave = %s\n", g.interleave)
	}
	for _, name := range g.order {
		r := g.rules[name]
		if r.Name() != name {
			fmt.Fprintf(&s, "<%s> %s\n", name, ruleRef(r))
			continue
		}
		fmt.Fprintf(&s, "%s\n", r)
	}
	return s.String()
}

// Match applies the rule called `name` to `text`.  An empty name
// picks the default rule.  The interleave rule is skipped around the
// match unless the rule disables interleave.  It returns nil without
// error when the rule doesn't match, and when the match doesn't
// cover the whole text if `match.full_text` is set.
func (g *Grammar) Match(ctx context.Context, name, text string) (*RuleMatch, error) {
	if name == "" {
		name = g.defaultRule
	}
	rule, ok := g.Rule(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRule, name)
	}
	opts := append(g.cfg.contextOptions(),
		WithInterleave(g.interleave),
		WithDone(ctx.Done()),
	)
	m, err := g.match(rule, NewMatchContext(text, opts...))
	if errors.Is(err, ErrMatchCancelled) && ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %w", ErrMatchCancelled, ctx.Err())
	}
	return m, err
}

func (g *Grammar) match(rule Rule, ctx MatchContext) (m *RuleMatch, err error) {
	defer recoverAbort(&err)
	skip := rule.Interleave() != InterleaveDisabled
	if skip {
		ctx = ctx.skipInterleave()
	}
	m, ok := first(rule.Match(ctx))
	if !ok {
		return nil, nil
	}
	end := ctx.advance(m.Text().Len())
	if skip {
		end = end.skipInterleave()
	}
	if g.cfg.GetBool("match.full_text") && end.Text().HasContent() {
		return nil, nil
	}
	return m, nil
}
