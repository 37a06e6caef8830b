package pas

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
)

// LiteralRule matches an exact string
type LiteralRule struct {
	ruleBase
	literal string
}

// NewLiteral creates a rule matching exactly `literal`
func NewLiteral(name, literal string, opts ...RuleOption) (*LiteralRule, error) {
	if literal == "" {
		return nil, ErrEmptyLiteral
	}
	return &LiteralRule{ruleBase: newRuleBase(name, opts), literal: literal}, nil
}

func (r *LiteralRule) Kind() RuleKind   { return KindLiteral }
func (r *LiteralRule) IsTerminal() bool { return true }
func (r *LiteralRule) Literal() string  { return r.literal }
func (r *LiteralRule) String() string   { return r.label(strconv.Quote(r.literal)) }

func (r *LiteralRule) Match(ctx MatchContext) iter.Seq[*RuleMatch] {
	return func(yield func(*RuleMatch) bool) {
		ctx = ctx.enter(r)
		text := ctx.Text()
		if strings.HasPrefix(text.String(), r.literal) {
			yield(newRuleMatch(r, text.Take(len(r.literal)), nil))
		}
	}
}

// RangeRule matches one character within an inclusive range of
// code points
type RangeRule struct {
	ruleBase
	first, last rune
}

// NewRange creates a rule matching any character between `first`
// and `last`, both included
func NewRange(name string, first, last rune, opts ...RuleOption) (*RangeRule, error) {
	if first > last {
		return nil, fmt.Errorf("%w: %q > %q", ErrInvalidRange, first, last)
	}
	return &RangeRule{ruleBase: newRuleBase(name, opts), first: first, last: last}, nil
}

func (r *RangeRule) Kind() RuleKind       { return KindRange }
func (r *RangeRule) IsTerminal() bool     { return true }
func (r *RangeRule) Bounds() (rune, rune) { return r.first, r.last }

func (r *RangeRule) String() string {
	return r.label(strconv.QuoteRune(r.first) + ".." + strconv.QuoteRune(r.last))
}

func (r *RangeRule) Match(ctx MatchContext) iter.Seq[*RuleMatch] {
	return func(yield func(*RuleMatch) bool) {
		ctx = ctx.enter(r)
		text := ctx.Text()
		c, size, ok := text.FirstRune()
		if ok && c >= r.first && c <= r.last {
			yield(newRuleMatch(r, text.Take(size), nil))
		}
	}
}

// AnyCharacterRule matches any single character
type AnyCharacterRule struct {
	ruleBase
}

// NewAnyCharacter creates a rule that only fails at the end of the
// input
func NewAnyCharacter(name string, opts ...RuleOption) *AnyCharacterRule {
	return &AnyCharacterRule{ruleBase: newRuleBase(name, opts)}
}

func (r *AnyCharacterRule) Kind() RuleKind   { return KindAnyCharacter }
func (r *AnyCharacterRule) IsTerminal() bool { return true }
func (r *AnyCharacterRule) String() string   { return r.label(".") }

func (r *AnyCharacterRule) Match(ctx MatchContext) iter.Seq[*RuleMatch] {
	return func(yield func(*RuleMatch) bool) {
		ctx = ctx.enter(r)
		text := ctx.Text()
		if _, size, ok := text.FirstRune(); ok {
			yield(newRuleMatch(r, text.Take(size), nil))
		}
	}
}

// NoneRule never matches
type NoneRule struct {
	ruleBase
}

// NewNone creates a rule that never matches anything
func NewNone(name string) *NoneRule {
	return &NoneRule{ruleBase: ruleBase{name: name}}
}

func (r *NoneRule) Kind() RuleKind   { return KindNone }
func (r *NoneRule) IsTerminal() bool { return true }
func (r *NoneRule) String() string   { return r.label("none") }

func (r *NoneRule) Match(ctx MatchContext) iter.Seq[*RuleMatch] {
	return func(yield func(*RuleMatch) bool) {
		ctx.enter(r)
	}
}
