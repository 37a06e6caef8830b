package pas

import (
	"fmt"
	"strconv"
)

// TaggedMatch is a child match alongside the tag of the rule that
// produced it
type TaggedMatch struct {
	Tag   string
	Match *RuleMatch
}

// RuleMatch is the result of a successful rule application.  Its
// text is exactly the span consumed by the rule, including the
// interleave skipped between children.
type RuleMatch struct {
	rule     Rule
	text     TextView
	children []TaggedMatch
}

func newRuleMatch(rule Rule, text TextView, children []TaggedMatch) *RuleMatch {
	return &RuleMatch{rule: rule, text: text, children: children}
}

func (m *RuleMatch) Rule() Rule              { return m.rule }
func (m *RuleMatch) Text() TextView          { return m.text }
func (m *RuleMatch) Children() []TaggedMatch { return m.children }
func (m *RuleMatch) String() string          { return m.text.String() }

// ComputeOutput builds the output value of the match.  Terminal
// rules output the text they matched.  Disjunctions output their
// winning branch, wrapped in a one entry mapping if the branch is
// tagged.  Sequences and repetitions output the list of all their
// children outputs when none of the children is tagged, or else a
// mapping of the tagged children only, where a tag carried by more
// than one child maps to the list of their outputs.  Substractions
// output what their positive rule matched.
func (m *RuleMatch) ComputeOutput() Output {
	switch m.rule.Kind() {
	case KindLiteral, KindRange, KindAnyCharacter:
		return Text(m.text.String())

	case KindDisjunction:
		winner := m.children[0]
		output := winner.Match.ComputeOutput()
		if winner.Tag == "" {
			return output
		}
		return Mapping{winner.Tag: output}

	case KindSubstract:
		return m.children[0].Match.ComputeOutput()

	case KindSequence, KindRepeat:
		return childrenOutput(m.children)

	default:
		panic(fmt.Sprintf("can't compute the output of a %s match", m.rule.Kind()))
	}
}

func childrenOutput(children []TaggedMatch) Output {
	counts := map[string]int{}
	for _, child := range children {
		if child.Tag != "" {
			counts[child.Tag]++
		}
	}
	if len(counts) == 0 {
		list := make(List, len(children))
		for i, child := range children {
			list[i] = child.Match.ComputeOutput()
		}
		return list
	}
	mapping := make(Mapping, len(counts))
	for _, child := range children {
		if child.Tag == "" {
			continue
		}
		output := child.Match.ComputeOutput()
		if counts[child.Tag] == 1 {
			mapping[child.Tag] = output
			continue
		}
		list, _ := mapping[child.Tag].(List)
		mapping[child.Tag] = append(list, output)
	}
	return mapping
}

// PrettyString renders the match tree with the rule that produced
// each node and the span it covers
func (m *RuleMatch) PrettyString() string {
	return m.Format(plain)
}

// HighlightPrettyString is PrettyString with terminal colors
func (m *RuleMatch) HighlightPrettyString() string {
	return m.Format(highlight)
}

// Format renders the match tree decorating each element with `fn`
func (m *RuleMatch) Format(fn FormatFunc[FormatToken]) string {
	p := &matchPrinter{
		index:       newPosIndex(m.text.Origin()),
		treePrinter: newTreePrinter(fn),
	}
	p.visit("", m)
	return p.output.String()
}

type matchPrinter struct {
	index *posIndex
	*treePrinter[FormatToken]
}

func (p *matchPrinter) visit(tag string, m *RuleMatch) {
	if tag != "" {
		p.write(p.format(tag+":", FormatToken_Tag))
		p.write(" ")
	}
	name := m.rule.Name()
	if name == "" {
		name = m.rule.Kind().String()
	}
	p.write(p.format(name, FormatToken_Kind))
	if m.rule.IsTerminal() {
		p.write(" ")
		p.write(p.format(strconv.Quote(m.text.String()), FormatToken_Literal))
	}
	span := p.index.Span(m.text.Start(), m.text.End())
	p.write(p.format(fmt.Sprintf(" (%s)", span), FormatToken_Span))
	for i, child := range m.children {
		p.child(i, len(m.children), func() { p.visit(child.Tag, child.Match) })
	}
}
