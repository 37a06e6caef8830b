package pas

import (
	"fmt"
	"iter"
	"strconv"
)

// SequenceRule matches its elements one after the other
type SequenceRule struct {
	ruleBase
	elements []TaggedRule
}

// NewSequence creates a rule matching each one of `elements` in
// order.  The interleave rule is skipped before each element.
func NewSequence(name string, elements []TaggedRule, opts ...RuleOption) (*SequenceRule, error) {
	if err := checkTaggedRules(elements); err != nil {
		return nil, fmt.Errorf("sequence %q: %w", name, err)
	}
	return &SequenceRule{
		ruleBase: newRuleBase(name, opts),
		elements: append([]TaggedRule(nil), elements...),
	}, nil
}

func (r *SequenceRule) Kind() RuleKind         { return KindSequence }
func (r *SequenceRule) IsTerminal() bool       { return false }
func (r *SequenceRule) Elements() []TaggedRule { return append([]TaggedRule(nil), r.elements...) }
func (r *SequenceRule) String() string         { return r.label("(" + taggedRulesString(r.elements, " ") + ")") }

func (r *SequenceRule) Match(ctx MatchContext) iter.Seq[*RuleMatch] {
	return func(yield func(*RuleMatch) bool) {
		ctx = ctx.enter(r)
		start := ctx.Text()
		children := make([]TaggedMatch, 0, len(r.elements))
		for _, element := range r.elements {
			ctx = ctx.skipInterleave()
			m, ok := first(element.Rule.Match(ctx))
			if !ok {
				return
			}
			children = append(children, TaggedMatch{Tag: element.Tag, Match: m})
			ctx = ctx.advance(m.Text().Len())
		}
		yield(newRuleMatch(r, start.Take(ctx.Text().Start()-start.Start()), children))
	}
}

// DisjunctionRule is an ordered choice between alternatives
type DisjunctionRule struct {
	ruleBase
	alternatives []TaggedRule
}

// NewDisjunction creates a rule that tries each one of the
// `alternatives` in order and commits to the first one that matches
func NewDisjunction(name string, alternatives []TaggedRule, opts ...RuleOption) (*DisjunctionRule, error) {
	if err := checkTaggedRules(alternatives); err != nil {
		return nil, fmt.Errorf("disjunction %q: %w", name, err)
	}
	return &DisjunctionRule{
		ruleBase:     newRuleBase(name, opts),
		alternatives: append([]TaggedRule(nil), alternatives...),
	}, nil
}

func (r *DisjunctionRule) Kind() RuleKind             { return KindDisjunction }
func (r *DisjunctionRule) IsTerminal() bool           { return false }
func (r *DisjunctionRule) Alternatives() []TaggedRule { return append([]TaggedRule(nil), r.alternatives...) }
func (r *DisjunctionRule) String() string             { return r.label("(" + taggedRulesString(r.alternatives, " | ") + ")") }

// Match yields the first match of each alternative, in order, and
// only moves on to the next alternative when asked for another
// candidate.  Callers that take the first candidate never cause an
// alternative to be explored after one that matched, which is what
// recursive grammars depend on to terminate.
func (r *DisjunctionRule) Match(ctx MatchContext) iter.Seq[*RuleMatch] {
	return func(yield func(*RuleMatch) bool) {
		ctx = ctx.enter(r)
		for _, alternative := range r.alternatives {
			m, ok := first(alternative.Rule.Match(ctx))
			if !ok {
				continue
			}
			if !yield(newRuleMatch(r, m.Text(), []TaggedMatch{{Tag: alternative.Tag, Match: m}})) {
				return
			}
		}
	}
}

// Unbounded is the maximum of a repetition without upper bound
const Unbounded = -1

// RepeatRule matches its inner rule a bounded number of times
type RepeatRule struct {
	ruleBase
	inner    TaggedRule
	min, max int
}

// NewRepeat creates a rule matching `inner` greedily, at least `min`
// and at most `max` times.  Use Unbounded for `max` to remove the
// upper bound.  The tag of `inner`, if any, is carried by every
// repetition.
func NewRepeat(name string, inner TaggedRule, min, max int, opts ...RuleOption) (*RepeatRule, error) {
	if inner.Rule == nil {
		return nil, fmt.Errorf("repeat %q: %w", name, ErrNilRule)
	}
	if min < 0 || (max != Unbounded && max < min) {
		return nil, fmt.Errorf("repeat %q: %w: {%d,%d}", name, ErrInvalidCardinality, min, max)
	}
	return &RepeatRule{ruleBase: newRuleBase(name, opts), inner: inner, min: min, max: max}, nil
}

func (r *RepeatRule) Kind() RuleKind           { return KindRepeat }
func (r *RepeatRule) IsTerminal() bool         { return false }
func (r *RepeatRule) Inner() TaggedRule        { return r.inner }
func (r *RepeatRule) Cardinality() (int, int)  { return r.min, r.max }
func (r *RepeatRule) String() string           { return r.label(r.inner.String() + r.quantifier()) }
func (r *RepeatRule) bounded(count int) bool   { return r.max == Unbounded || count < r.max }
func (r *RepeatRule) satisfied(count int) bool { return count >= r.min && (r.max == Unbounded || count <= r.max) }

func (r *RepeatRule) quantifier() string {
	switch {
	case r.min == 0 && r.max == Unbounded:
		return "*"
	case r.min == 1 && r.max == Unbounded:
		return "+"
	case r.min == 0 && r.max == 1:
		return "?"
	case r.max == Unbounded:
		return "{" + strconv.Itoa(r.min) + ",}"
	case r.min == r.max:
		return "{" + strconv.Itoa(r.min) + "}"
	default:
		return "{" + strconv.Itoa(r.min) + "," + strconv.Itoa(r.max) + "}"
	}
}

// Match is greedy: it takes as many repetitions as it can and then
// checks the count against the cardinality.  It never looks for a
// smaller count.  Candidates of the inner rule that consume nothing
// aren't repetitions, the next candidate is tried instead, and the
// loop ends when none is left.
func (r *RepeatRule) Match(ctx MatchContext) iter.Seq[*RuleMatch] {
	return func(yield func(*RuleMatch) bool) {
		ctx = ctx.enter(r)
		start := ctx.Text()
		var children []TaggedMatch
		for r.bounded(len(children)) {
			next := ctx.skipInterleave()
			m, ok := firstConsuming(r.inner.Rule.Match(next))
			if !ok {
				break
			}
			children = append(children, TaggedMatch{Tag: r.inner.Tag, Match: m})
			ctx = next.advance(m.Text().Len())
		}
		if !r.satisfied(len(children)) {
			return
		}
		yield(newRuleMatch(r, start.Take(ctx.Text().Start()-start.Start()), children))
	}
}

// firstConsuming returns the first candidate that isn't empty
func firstConsuming(seq iter.Seq[*RuleMatch]) (*RuleMatch, bool) {
	for m := range seq {
		if m.Text().HasContent() {
			return m, true
		}
	}
	return nil, false
}

// SubstractRule matches what its positive rule matches, unless the
// negative rule matches the exact same span
type SubstractRule struct {
	ruleBase
	positive, negative Rule
}

// NewSubstract creates the set difference between `positive` and
// `negative`
func NewSubstract(name string, positive, negative Rule, opts ...RuleOption) (*SubstractRule, error) {
	if positive == nil || negative == nil {
		return nil, fmt.Errorf("substract %q: %w", name, ErrNilRule)
	}
	return &SubstractRule{ruleBase: newRuleBase(name, opts), positive: positive, negative: negative}, nil
}

func (r *SubstractRule) Kind() RuleKind         { return KindSubstract }
func (r *SubstractRule) IsTerminal() bool       { return false }
func (r *SubstractRule) Operands() (Rule, Rule) { return r.positive, r.negative }
func (r *SubstractRule) String() string         { return r.label(ruleRef(r.positive) + " - " + ruleRef(r.negative)) }

func (r *SubstractRule) Match(ctx MatchContext) iter.Seq[*RuleMatch] {
	return func(yield func(*RuleMatch) bool) {
		ctx = ctx.enter(r)
		pm, ok := first(r.positive.Match(ctx))
		if !ok {
			return
		}
		for nm := range r.negative.Match(ctx) {
			if nm.Text().Len() == pm.Text().Len() {
				return
			}
		}
		yield(newRuleMatch(r, pm.Text(), []TaggedMatch{{Match: pm}}))
	}
}
