package pas

import (
	"iter"
	"strings"
)

// RuleKind identifies each one of the rule variants
type RuleKind int

const (
	KindLiteral RuleKind = iota
	KindRange
	KindAnyCharacter
	KindNone
	KindSequence
	KindDisjunction
	KindRepeat
	KindSubstract
	KindProxy
)

func (k RuleKind) String() string {
	return map[RuleKind]string{
		KindLiteral:      "literal",
		KindRange:        "range",
		KindAnyCharacter: "any",
		KindNone:         "none",
		KindSequence:     "sequence",
		KindDisjunction:  "disjunction",
		KindRepeat:       "repeat",
		KindSubstract:    "substract",
		KindProxy:        "proxy",
	}[k]
}

// Rule is the interface implemented by all the rule variants.  The
// set of variants is closed, rules can only be created with the
// constructors of this package.
type Rule interface {
	// Name returns the name of the rule.  It's empty for anonymous
	// rules.
	Name() string

	// Kind tells which variant the rule is
	Kind() RuleKind

	// Interleave tells how the rule treats the interleave rule
	// of the context
	Interleave() InterleaveMode

	// IsTerminal is true for the rules that don't have children
	IsTerminal() bool

	// Match produces the candidate matches of the rule at the
	// position of `ctx`.  The sequence is lazy: nothing is
	// evaluated until it is iterated, and only as far as the
	// caller asks for.  An empty sequence means no match.
	Match(ctx MatchContext) iter.Seq[*RuleMatch]

	// String returns a readable definition of the rule
	String() string

	sealed()
}

type ruleBase struct {
	name       string
	interleave InterleaveMode
}

func (b *ruleBase) Name() string               { return b.name }
func (b *ruleBase) Interleave() InterleaveMode { return b.interleave }
func (b *ruleBase) sealed()                    {}

// label prefixes the definition of named rules with their name
func (b *ruleBase) label(definition string) string {
	if b.name == "" {
		return definition
	}
	return "<" + b.name + "> " + definition
}

// RuleOption customizes the attributes shared by all rules
type RuleOption func(*ruleBase)

// WithInterleaveMode sets how the rule deals with interleave
func WithInterleaveMode(mode InterleaveMode) RuleOption {
	return func(b *ruleBase) { b.interleave = mode }
}

func newRuleBase(name string, opts []RuleOption) ruleBase {
	b := ruleBase{name: name}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// TaggedRule pairs a rule with an optional tag.  Tags decide which
// parts of a match show up in the output and under which key.
type TaggedRule struct {
	Tag  string
	Rule Rule
}

// Tagged pairs `rule` with `tag`
func Tagged(tag string, rule Rule) TaggedRule {
	return TaggedRule{Tag: tag, Rule: rule}
}

// Untagged wraps `rule` without a tag
func Untagged(rule Rule) TaggedRule {
	return TaggedRule{Rule: rule}
}

// HasTag returns true if the rule carries a tag
func (t TaggedRule) HasTag() bool { return t.Tag != "" }

func (t TaggedRule) String() string {
	if t.Tag == "" {
		return ruleRef(t.Rule)
	}
	return t.Tag + ":" + ruleRef(t.Rule)
}

// Must panics if `err` isn't nil and returns `rule` otherwise.  It's
// meant for grammars written down in code, where a construction
// error is a programming error.
func Must[T Rule](rule T, err error) T {
	if err != nil {
		panic(err)
	}
	return rule
}

// First returns the first match `rule` produces at the position of
// `ctx`, or nil if there isn't any.  The error is only set when the
// match attempt was aborted by one of the limits of the context.
func First(rule Rule, ctx MatchContext) (m *RuleMatch, err error) {
	defer recoverAbort(&err)
	m, _ = first(rule.Match(ctx))
	return m, nil
}

func first(seq iter.Seq[*RuleMatch]) (*RuleMatch, bool) {
	for m := range seq {
		return m, true
	}
	return nil, false
}

// ruleRef shows rules within other rules, named rules are referred
// by name so recursive grammars can be printed
func ruleRef(r Rule) string {
	if r == nil {
		return "<nil>"
	}
	if n := r.Name(); n != "" {
		return n
	}
	return r.String()
}

func taggedRulesString(rules []TaggedRule, sep string) string {
	items := make([]string, len(rules))
	for i, r := range rules {
		items[i] = r.String()
	}
	return strings.Join(items, sep)
}

func checkTaggedRules(rules []TaggedRule) error {
	if len(rules) == 0 {
		return ErrEmptyRuleList
	}
	for _, r := range rules {
		if r.Rule == nil {
			return ErrNilRule
		}
	}
	return nil
}
