package pas

import (
	"fmt"
	"strconv"
)

// PrettyAst renders the tree of `n` with the span of each node
func PrettyAst(n AstNode) string {
	return FormatAst(n, plain)
}

// HighlightAst is PrettyAst with terminal colors
func HighlightAst(n AstNode) string {
	return FormatAst(n, highlight)
}

// FormatAst renders the tree of `n` decorating each element with
// `fn`
func FormatAst(n AstNode, fn FormatFunc[FormatToken]) string {
	gp := &grammarPrinter{newTreePrinter(fn)}
	gp.visit(n)
	return gp.output.String()
}

type grammarPrinter struct {
	*treePrinter[FormatToken]
}

func (gp *grammarPrinter) visit(node AstNode) {
	switch n := node.(type) {
	case *GrammarNode:
		gp.writeOperator("Grammar")
		gp.writeSpan(n)
		gp.children(n.Statements...)
	case *InterleaveNode:
		gp.writeOperator("Interleave")
		gp.writeSpan(n)
		gp.children(n.Expr)
	case *DefinitionNode:
		gp.writeOperatorWithOneRand("Definition", n.Name.Value)
		gp.writeSpan(n)
		children := make([]AstNode, 0, len(n.Params)+1)
		for _, param := range n.Params {
			children = append(children, param)
		}
		gp.children(append(children, n.Expr)...)
	case *ParamNode:
		gp.writeOperatorWithOneRand("Param", n.Text())
		gp.writeSpan(n)
	case *ChoiceNode:
		gp.writeOperator("Choice")
		gp.writeSpan(n)
		gp.children(n.Items...)
	case *SequenceNode:
		gp.writeOperator("Sequence")
		gp.writeSpan(n)
		gp.children(n.Items...)
	case *TaggedNode:
		gp.writeOperatorWithOneRand("Tagged", n.Tag)
		gp.writeSpan(n)
		gp.children(n.Expr)
	case *DifferenceNode:
		gp.writeOperator("Difference")
		gp.writeSpan(n)
		gp.children(n.Positive, n.Negative)
	case *RepeatNode:
		bounds := strconv.Itoa(n.Min) + ","
		if n.Max != Unbounded {
			bounds += strconv.Itoa(n.Max)
		}
		gp.writeOperatorWithOneRand("Repeat", bounds)
		gp.writeSpan(n)
		gp.children(n.Expr)
	case *RangeNode:
		gp.writeOperator("Range")
		gp.writeSpan(n)
		gp.children(n.First, n.Last)
	case *LiteralNode:
		gp.writeOperator("Literal")
		gp.write(" ")
		gp.write(gp.format(`"`+escapeLiteral(n.Value)+`"`, FormatToken_Literal))
		gp.writeSpan(n)
	case *AnyNode:
		gp.writeOperator("Any")
		gp.writeSpan(n)
	case *NoneNode:
		gp.writeOperator("None")
		gp.writeSpan(n)
	case *IdentifierNode:
		gp.writeOperatorWithOneRand("Identifier", n.Value)
		gp.writeSpan(n)
	default:
		panic(fmt.Sprintf("unknown grammar node %T", node))
	}
}

func (gp *grammarPrinter) children(nodes ...AstNode) {
	for i, child := range nodes {
		gp.child(i, len(nodes), func() { gp.visit(child) })
	}
}

func (gp *grammarPrinter) writeOperator(op string) {
	gp.write(gp.format(op, FormatToken_Kind))
}

func (gp *grammarPrinter) writeOperatorWithOneRand(rator, rand string) {
	gp.write(gp.format(rator, FormatToken_Kind))
	gp.write(gp.format("[", FormatToken_Kind))
	gp.write(gp.format(rand, FormatToken_Tag))
	gp.write(gp.format("]", FormatToken_Kind))
}

func (gp *grammarPrinter) writeSpan(n AstNode) {
	gp.write(gp.format(fmt.Sprintf(" (%s)", n.Span()), FormatToken_Span))
}
