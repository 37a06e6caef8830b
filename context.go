package pas

import "fmt"

// InterleaveMode tells how a rule deals with the interleave rule of
// the context it's matched within.
type InterleaveMode int

const (
	// InterleaveInherit keeps whatever setting the parent rule had
	InterleaveInherit InterleaveMode = iota

	// InterleaveEnabled turns interleave skipping back on for the
	// rule and its descendants
	InterleaveEnabled

	// InterleaveDisabled suspends interleave skipping for the rule
	// and its descendants.  Useful for lexical rules like numbers
	// or identifiers.
	InterleaveDisabled
)

func (m InterleaveMode) String() string {
	switch m {
	case InterleaveEnabled:
		return "enabled"
	case InterleaveDisabled:
		return "disabled"
	default:
		return "inherit"
	}
}

// matchLimits is shared by all the contexts derived from the same
// match attempt
type matchLimits struct {
	maxDepth       int
	done           <-chan struct{}
	recursionGuard bool
}

// pathFrame records a proxy being expanded at a given offset on the
// active call path.  Offsets never decrease along a path, so frames
// are only kept while they share the offset of the innermost one.
type pathFrame struct {
	proxy  *ProxyRule
	offset int
	parent *pathFrame
}

// MatchContext carries the position of a match attempt alongside
// the interleave rule and the depth of the rule invocation.  It's a
// value type, deriving a context never changes the original one.
type MatchContext struct {
	text       TextView
	interleave Rule
	suspended  bool
	depth      int
	limits     *matchLimits
	path       *pathFrame
}

// ContextOption customizes a context created with NewMatchContext
type ContextOption func(*MatchContext)

// WithInterleave sets the rule used to skip ignorable content
// between the elements of sequences and repetitions
func WithInterleave(rule Rule) ContextOption {
	return func(c *MatchContext) { c.interleave = rule }
}

// WithMaxDepth aborts the match attempt when rule invocations nest
// deeper than `depth`.  Zero means no limit.
func WithMaxDepth(depth int) ContextOption {
	return func(c *MatchContext) { c.limits.maxDepth = depth }
}

// WithDone aborts the match attempt once `done` is closed.  It's
// meant to receive `ctx.Done()`.
func WithDone(done <-chan struct{}) ContextOption {
	return func(c *MatchContext) { c.limits.done = done }
}

// WithRecursionGuard toggles left recursion detection.  When it's
// on, a proxy that is re-entered at the same offset without having
// consumed any input fails instead of looping forever.
func WithRecursionGuard(enabled bool) ContextOption {
	return func(c *MatchContext) { c.limits.recursionGuard = enabled }
}

// NewMatchContext creates the context for matching against `text`
func NewMatchContext(text string, opts ...ContextOption) MatchContext {
	c := MatchContext{
		text:   NewTextView(text),
		limits: &matchLimits{recursionGuard: true},
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Text returns the view starting at the current position
func (c MatchContext) Text() TextView { return c.text }

// Depth returns how many rule invocations are active
func (c MatchContext) Depth() int { return c.depth }

// Interleave returns the interleave rule that applies at this point
// of the match, or nil if there's none or if it's suspended
func (c MatchContext) Interleave() Rule {
	if c.suspended {
		return nil
	}
	return c.interleave
}

// SwitchInterleave returns a context using `rule` as its interleave
// rule.  Passing nil removes interleave skipping altogether.
func (c MatchContext) SwitchInterleave(rule Rule) MatchContext {
	c.interleave = rule
	c.suspended = false
	return c
}

// At returns a context positioned at the beginning of `text`
func (c MatchContext) At(text TextView) MatchContext {
	c.text = text
	return c
}

func (c MatchContext) advance(n int) MatchContext {
	c.text = c.text.Skip(n)
	return c
}

// enter is called by every rule when it starts matching.  It bumps
// the depth, enforces the limits and applies the interleave mode of
// the rule.
func (c MatchContext) enter(r Rule) MatchContext {
	c.depth++
	if l := c.limits; l != nil {
		if l.maxDepth > 0 && c.depth > l.maxDepth {
			panic(abort{fmt.Errorf("%w: %d (rule %s at offset %d)",
				ErrMaxDepthExceeded, l.maxDepth, ruleRef(r), c.text.Start())})
		}
		if l.done != nil {
			select {
			case <-l.done:
				panic(abort{ErrMatchCancelled})
			default:
			}
		}
	}
	switch r.Interleave() {
	case InterleaveEnabled:
		c.suspended = false
	case InterleaveDisabled:
		c.suspended = true
	}
	return c
}

// skipInterleave consumes whatever the interleave rule matches at
// the current position.  Not matching anything isn't a failure.
func (c MatchContext) skipInterleave() MatchContext {
	il := c.Interleave()
	if il == nil {
		return c
	}
	inner := c
	inner.suspended = true
	m, ok := first(il.Match(inner))
	if !ok {
		return c
	}
	return c.advance(m.Text().Len())
}

func (c MatchContext) onPath(p *ProxyRule) bool {
	if c.limits == nil || !c.limits.recursionGuard {
		return false
	}
	offset := c.text.Start()
	for f := c.path; f != nil && f.offset == offset; f = f.parent {
		if f.proxy == p {
			return true
		}
	}
	return false
}

func (c MatchContext) push(p *ProxyRule) MatchContext {
	offset := c.text.Start()
	parent := c.path
	if parent != nil && parent.offset != offset {
		parent = nil
	}
	c.path = &pathFrame{proxy: p, offset: offset, parent: parent}
	return c
}
