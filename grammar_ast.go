package pas

import (
	"fmt"
	"strings"
)

// AstNode is implemented by all the nodes the grammar parser outputs
type AstNode interface {
	// Span returns where the node was found within the grammar
	Span() Span

	// Text renders the node back as grammar source
	Text() string

	// String returns a debugging representation of the node
	String() string
}

// Node Type: Grammar

type GrammarNode struct {
	span       Span
	Statements []AstNode
}

func NewGrammarNode(statements []AstNode, s Span) *GrammarNode {
	return &GrammarNode{Statements: statements, span: s}
}

func (n GrammarNode) Span() Span     { return n.span }
func (n GrammarNode) Text() string   { return nodesText(n.Statements, "\n") }
func (n GrammarNode) String() string { return nodesString("Grammar", n, n.Statements) }

// Definitions returns the rule declarations in the order they were
// written
func (n GrammarNode) Definitions() []*DefinitionNode {
	var defs []*DefinitionNode
	for _, s := range n.Statements {
		if d, ok := s.(*DefinitionNode); ok {
			defs = append(defs, d)
		}
	}
	return defs
}

// Node Type: Interleave

type InterleaveNode struct {
	span Span
	Expr AstNode
}

func NewInterleaveNode(expr AstNode, s Span) *InterleaveNode {
	return &InterleaveNode{Expr: expr, span: s}
}

func (n InterleaveNode) Span() Span     { return n.span }
func (n InterleaveNode) Text() string   { return fmt.Sprintf("interleave = %s;", n.Expr.Text()) }
func (n InterleaveNode) String() string { return fmt.Sprintf("Interleave(%s) @ %s", n.Expr, n.Span()) }

// Node Type: Definition

type DefinitionNode struct {
	span   Span
	Name   *IdentifierNode
	Params []*ParamNode
	Expr   AstNode
}

func NewDefinitionNode(name *IdentifierNode, params []*ParamNode, expr AstNode, s Span) *DefinitionNode {
	return &DefinitionNode{Name: name, Params: params, Expr: expr, span: s}
}

func (n DefinitionNode) Span() Span { return n.span }

func (n DefinitionNode) Text() string {
	var s strings.Builder
	s.WriteString("rule")
	if len(n.Params) > 0 {
		items := make([]AstNode, len(n.Params))
		for i, p := range n.Params {
			items[i] = p
		}
		s.WriteString("(" + nodesText(items, ", ") + ")")
	}
	fmt.Fprintf(&s, " %s = %s;", n.Name.Value, n.Expr.Text())
	return s.String()
}

func (n DefinitionNode) String() string {
	return fmt.Sprintf("Definition[%s](%s) @ %s", n.Name.Value, n.Expr, n.Span())
}

// Node Type: Param

type ParamNode struct {
	span  Span
	Name  string
	Value bool
}

func NewParamNode(name string, value bool, s Span) *ParamNode {
	return &ParamNode{Name: name, Value: value, span: s}
}

func (n ParamNode) Span() Span     { return n.span }
func (n ParamNode) Text() string   { return fmt.Sprintf("%s=%t", n.Name, n.Value) }
func (n ParamNode) String() string { return fmt.Sprintf("Param(%s=%t) @ %s", n.Name, n.Value, n.Span()) }

// Node Type: Choice

type ChoiceNode struct {
	span  Span
	Items []AstNode
}

func NewChoiceNode(items []AstNode, s Span) *ChoiceNode {
	return &ChoiceNode{Items: items, span: s}
}

func (n ChoiceNode) Span() Span     { return n.span }
func (n ChoiceNode) Text() string   { return nodesText(n.Items, " | ") }
func (n ChoiceNode) String() string { return nodesString("Choice", n, n.Items) }

// Node Type: Sequence

type SequenceNode struct {
	span  Span
	Items []AstNode
}

func NewSequenceNode(items []AstNode, s Span) *SequenceNode {
	return &SequenceNode{Items: items, span: s}
}

func (n SequenceNode) Span() Span     { return n.span }
func (n SequenceNode) Text() string   { return nodesText(n.Items, " ") }
func (n SequenceNode) String() string { return nodesString("Sequence", n, n.Items) }

// Node Type: Tagged

type TaggedNode struct {
	span Span
	Tag  string
	Expr AstNode
}

func NewTaggedNode(tag string, expr AstNode, s Span) *TaggedNode {
	return &TaggedNode{Tag: tag, Expr: expr, span: s}
}

func (n TaggedNode) Span() Span     { return n.span }
func (n TaggedNode) Text() string   { return n.Tag + ":" + groupText(n.Expr) }
func (n TaggedNode) String() string { return fmt.Sprintf("Tagged[%s](%s) @ %s", n.Tag, n.Expr, n.Span()) }

// Node Type: Difference

type DifferenceNode struct {
	span     Span
	Positive AstNode
	Negative AstNode
}

func NewDifferenceNode(positive, negative AstNode, s Span) *DifferenceNode {
	return &DifferenceNode{Positive: positive, Negative: negative, span: s}
}

func (n DifferenceNode) Span() Span   { return n.span }
func (n DifferenceNode) Text() string { return groupText(n.Positive) + " - " + groupText(n.Negative) }

func (n DifferenceNode) String() string {
	return fmt.Sprintf("Difference(%s, %s) @ %s", n.Positive, n.Negative, n.Span())
}

// Node Type: Repeat

type RepeatNode struct {
	span Span
	Expr AstNode
	Min  int
	Max  int
}

func NewRepeatNode(expr AstNode, min, max int, s Span) *RepeatNode {
	return &RepeatNode{Expr: expr, Min: min, Max: max, span: s}
}

func (n RepeatNode) Span() Span { return n.span }

func (n RepeatNode) Text() string {
	return groupText(n.Expr) + (&RepeatRule{min: n.Min, max: n.Max}).quantifier()
}

func (n RepeatNode) String() string {
	return fmt.Sprintf("Repeat{%d,%d}(%s) @ %s", n.Min, n.Max, n.Expr, n.Span())
}

// Node Type: Literal

type LiteralNode struct {
	span  Span
	Value string
}

func NewLiteralNode(v string, s Span) *LiteralNode {
	return &LiteralNode{Value: v, span: s}
}

func (n LiteralNode) Span() Span     { return n.span }
func (n LiteralNode) Text() string   { return `"` + escapeLiteral(n.Value) + `"` }
func (n LiteralNode) String() string { return fmt.Sprintf("Literal(%s) @ %s", n.Value, n.Span()) }

// Node Type: Range

type RangeNode struct {
	span  Span
	First *LiteralNode
	Last  *LiteralNode
}

func NewRangeNode(first, last *LiteralNode, s Span) *RangeNode {
	return &RangeNode{First: first, Last: last, span: s}
}

func (n RangeNode) Span() Span   { return n.span }
func (n RangeNode) Text() string { return n.First.Text() + ".." + n.Last.Text() }

func (n RangeNode) String() string {
	return fmt.Sprintf("Range(%s, %s) @ %s", n.First.Value, n.Last.Value, n.Span())
}

// Node Type: Any

type AnyNode struct{ span Span }

func NewAnyNode(s Span) *AnyNode { return &AnyNode{span: s} }

func (n AnyNode) Span() Span     { return n.span }
func (n AnyNode) Text() string   { return "." }
func (n AnyNode) String() string { return fmt.Sprintf("Any @ %s", n.Span()) }

// Node Type: None

type NoneNode struct{ span Span }

func NewNoneNode(s Span) *NoneNode { return &NoneNode{span: s} }

func (n NoneNode) Span() Span     { return n.span }
func (n NoneNode) Text() string   { return "none" }
func (n NoneNode) String() string { return fmt.Sprintf("None @ %s", n.Span()) }

// Node Type: Identifier

type IdentifierNode struct {
	span  Span
	Value string
}

func NewIdentifierNode(v string, s Span) *IdentifierNode {
	return &IdentifierNode{Value: v, span: s}
}

func (n IdentifierNode) Span() Span     { return n.span }
func (n IdentifierNode) Text() string   { return n.Value }
func (n IdentifierNode) String() string { return fmt.Sprintf("Identifier(%s) @ %s", n.Value, n.Span()) }

// Helpers

func nodesText(nodes []AstNode, sep string) string {
	items := make([]string, len(nodes))
	for i, node := range nodes {
		items[i] = node.Text()
	}
	return strings.Join(items, sep)
}

func nodesString(name string, n AstNode, nodes []AstNode) string {
	var s strings.Builder
	s.WriteString(name)
	s.WriteString("(")
	for i, child := range nodes {
		if i > 0 {
			s.WriteString(", ")
		}
		s.WriteString(child.String())
	}
	fmt.Fprintf(&s, ") @ %s", n.Span())
	return s.String()
}

// groupText wraps the text of nodes that would bind differently
// without parenthesis when nested within an operator
func groupText(n AstNode) string {
	switch n.(type) {
	case *ChoiceNode, *SequenceNode, *DifferenceNode, *TaggedNode:
		return "(" + n.Text() + ")"
	default:
		return n.Text()
	}
}
