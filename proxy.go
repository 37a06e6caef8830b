package pas

import (
	"fmt"
	"iter"
)

// ProxyRule stands in for a rule that isn't built yet.  It allows
// recursive grammars to be expressed as a graph: the proxy is used
// wherever the recursive reference is needed, and is resolved once
// the whole graph is built.  The target can be set exactly once.
type ProxyRule struct {
	name   string
	target Rule
}

// NewProxy creates an unresolved proxy.  The name is only used until
// the proxy is resolved, after that it reports its target's name.
func NewProxy(name string) *ProxyRule {
	return &ProxyRule{name: name}
}

// Resolve binds the proxy to `rule`.  It fails if the proxy is
// already bound or if `rule` is nil.
func (r *ProxyRule) Resolve(rule Rule) error {
	if r.target != nil {
		return fmt.Errorf("%w: %s", ErrProxyResolved, r.name)
	}
	if rule == nil {
		return fmt.Errorf("proxy %s: %w", r.name, ErrNilRule)
	}
	r.target = rule
	return nil
}

// Target returns the rule the proxy points to
func (r *ProxyRule) Target() (Rule, error) {
	if r.target == nil {
		return nil, fmt.Errorf("%w: %s", ErrProxyUnresolved, r.name)
	}
	return r.target, nil
}

// Resolved returns true once the proxy has a target
func (r *ProxyRule) Resolved() bool { return r.target != nil }

func (r *ProxyRule) Kind() RuleKind { return KindProxy }
func (r *ProxyRule) sealed()        {}

func (r *ProxyRule) Name() string {
	if r.target != nil {
		return r.target.Name()
	}
	return r.name
}

func (r *ProxyRule) Interleave() InterleaveMode {
	return InterleaveInherit
}

func (r *ProxyRule) IsTerminal() bool {
	return r.target != nil && r.target.IsTerminal()
}

func (r *ProxyRule) String() string {
	if n := r.Name(); n != "" {
		return "<" + n + ">"
	}
	return "<proxy>"
}

// Match delegates to the target of the proxy, the matches it yields
// are the target's own.  Matching an unresolved proxy means the
// grammar was published before being completely built, so it panics.
func (r *ProxyRule) Match(ctx MatchContext) iter.Seq[*RuleMatch] {
	return func(yield func(*RuleMatch) bool) {
		target, err := r.Target()
		if err != nil {
			panic(err)
		}
		ctx = ctx.enter(r)
		if ctx.onPath(r) {
			return
		}
		for m := range target.Match(ctx.push(r)) {
			if !yield(m) {
				return
			}
		}
	}
}
