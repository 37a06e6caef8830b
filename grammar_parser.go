package pas

import (
	"strconv"
	"strings"
)

var keywords = map[string]struct{}{
	"rule":       {},
	"interleave": {},
	"none":       {},
}

type GrammarParser struct {
	BaseParser
}

func NewGrammarParser(grammar string) *GrammarParser {
	return &GrammarParser{newBaseParser(grammar)}
}

// Parse kicks off parsing the input string and generates an AST
// describing a grammar
func (p *GrammarParser) Parse() (*GrammarNode, error) {
	return p.ParseGrammar()
}

// GR: Grammar <- Spacing Statement* EOF
func (p *GrammarParser) ParseGrammar() (*GrammarNode, error) {
	start := p.Location()
	p.spacing()
	stmts, err := ZeroOrMore(p, func(p Parser) (AstNode, error) {
		return p.(*GrammarParser).ParseStatement()
	})
	if err != nil {
		return nil, err
	}
	if p.Peek() != eof {
		p.NewError("end of input", "Expected end of input")
		return nil, p.FurthestError()
	}
	return NewGrammarNode(stmts, p.span(start)), nil
}

// GR: Statement <- InterleaveDecl / RuleDecl
func (p *GrammarParser) ParseStatement() (AstNode, error) {
	return Choice(p, []ParserFn[AstNode]{
		func(p Parser) (AstNode, error) { return p.(*GrammarParser).ParseInterleave() },
		func(p Parser) (AstNode, error) { return p.(*GrammarParser).ParseDefinition() },
	})
}

// GR: InterleaveDecl <- "interleave" "=" Expression ";"
func (p *GrammarParser) ParseInterleave() (AstNode, error) {
	start := p.Location()
	if err := p.parseKeyword("interleave"); err != nil {
		return nil, err
	}
	if err := p.parseToken("="); err != nil {
		return nil, err
	}
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.parseToken(";"); err != nil {
		return nil, err
	}
	return NewInterleaveNode(expr, p.span(start)), nil
}

// GR: RuleDecl <- "rule" Params? Identifier "=" Expression ";"
func (p *GrammarParser) ParseDefinition() (AstNode, error) {
	start := p.Location()
	if err := p.parseKeyword("rule"); err != nil {
		return nil, err
	}
	params, err := Optional(p, func(p Parser) ([]*ParamNode, error) {
		return p.(*GrammarParser).ParseParams()
	})
	if err != nil {
		return nil, err
	}
	name, err := p.ParseIdentifier()
	if err != nil {
		return nil, err
	}
	if err := p.parseToken("="); err != nil {
		return nil, err
	}
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.parseToken(";"); err != nil {
		return nil, err
	}
	return NewDefinitionNode(name, params, expr, p.span(start)), nil
}

// GR: Params <- "(" Param ("," Param)* ")"
func (p *GrammarParser) ParseParams() ([]*ParamNode, error) {
	if err := p.parseToken("("); err != nil {
		return nil, err
	}
	head, err := p.ParseParam()
	if err != nil {
		return nil, err
	}
	tail, err := ZeroOrMore(p, func(p Parser) (*ParamNode, error) {
		if err := p.(*GrammarParser).parseToken(","); err != nil {
			return nil, err
		}
		return p.(*GrammarParser).ParseParam()
	})
	if err != nil {
		return nil, err
	}
	if err := p.parseToken(")"); err != nil {
		return nil, err
	}
	return append([]*ParamNode{head}, tail...), nil
}

// GR: Param <- Identifier "=" ("true" / "false")
func (p *GrammarParser) ParseParam() (*ParamNode, error) {
	start := p.Location()
	name, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	p.spacing()
	if err := p.parseToken("="); err != nil {
		return nil, err
	}
	value, err := Choice(p, []ParserFn[bool]{
		func(p Parser) (bool, error) { return true, p.(*GrammarParser).parseKeyword("true") },
		func(p Parser) (bool, error) { return false, p.(*GrammarParser).parseKeyword("false") },
	})
	if err != nil {
		return nil, err
	}
	return NewParamNode(name, value, p.span(start)), nil
}

// GR: Expression <- Sequence ("|" Sequence)*
func (p *GrammarParser) ParseExpression() (AstNode, error) {
	start := p.Location()
	head, err := p.ParseSequence()
	if err != nil {
		return nil, err
	}
	tail, err := ZeroOrMore(p, func(p Parser) (AstNode, error) {
		if err := p.(*GrammarParser).parseToken("|"); err != nil {
			return nil, err
		}
		return p.(*GrammarParser).ParseSequence()
	})
	if err != nil {
		return nil, err
	}
	if len(tail) == 0 {
		return head, nil
	}
	return NewChoiceNode(append([]AstNode{head}, tail...), p.span(start)), nil
}

// GR: Sequence <- Tagged+
func (p *GrammarParser) ParseSequence() (AstNode, error) {
	start := p.Location()
	items, err := OneOrMore(p, func(p Parser) (AstNode, error) {
		return p.(*GrammarParser).ParseTagged()
	})
	if err != nil {
		return nil, err
	}
	if len(items) == 1 {
		return items[0], nil
	}
	return NewSequenceNode(items, p.span(start)), nil
}

// GR: Tagged <- (Identifier ":")? Difference
func (p *GrammarParser) ParseTagged() (AstNode, error) {
	start := p.Location()
	tag, err := Optional(p, func(p Parser) (string, error) {
		gp := p.(*GrammarParser)
		tag, err := gp.parseIdentifier()
		if err != nil {
			return "", err
		}
		gp.spacing()
		if err := gp.parseToken(":"); err != nil {
			return "", err
		}
		return tag, nil
	})
	if err != nil {
		return nil, err
	}
	expr, err := p.ParseDifference()
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return expr, nil
	}
	return NewTaggedNode(tag, expr, p.span(start)), nil
}

// GR: Difference <- Suffixed ("-" Suffixed)?
func (p *GrammarParser) ParseDifference() (AstNode, error) {
	start := p.Location()
	positive, err := p.ParseSuffixed()
	if err != nil {
		return nil, err
	}
	negative, err := Optional(p, func(p Parser) (AstNode, error) {
		if err := p.(*GrammarParser).parseToken("-"); err != nil {
			return nil, err
		}
		return p.(*GrammarParser).ParseSuffixed()
	})
	if err != nil {
		return nil, err
	}
	if negative == nil {
		return positive, nil
	}
	return NewDifferenceNode(positive, negative, p.span(start)), nil
}

// GR: Suffixed <- Primary ("*" / "+" / "?" / Cardinality)?
func (p *GrammarParser) ParseSuffixed() (AstNode, error) {
	start := p.Location()
	primary, err := p.ParsePrimary()
	if err != nil {
		return nil, err
	}
	bounds, err := Choice(p, []ParserFn[[]int]{
		func(p Parser) ([]int, error) { return []int{0, Unbounded}, p.(*GrammarParser).parseToken("*") },
		func(p Parser) ([]int, error) { return []int{1, Unbounded}, p.(*GrammarParser).parseToken("+") },
		func(p Parser) ([]int, error) { return []int{0, 1}, p.(*GrammarParser).parseToken("?") },
		func(p Parser) ([]int, error) { return p.(*GrammarParser).ParseCardinality() },
		func(p Parser) ([]int, error) { return nil, nil },
	})
	if err != nil {
		return nil, err
	}
	if bounds == nil {
		return primary, nil
	}
	return NewRepeatNode(primary, bounds[0], bounds[1], p.span(start)), nil
}

// GR: Cardinality <- "{" Int? ("," Int?)? "}"
func (p *GrammarParser) ParseCardinality() ([]int, error) {
	start := p.Location()
	if err := p.parseToken("{"); err != nil {
		return nil, err
	}
	lo, hasLo, err := p.parseInt()
	if err != nil {
		return nil, err
	}
	hasComma := p.parseToken(",") == nil
	hi, hasHi, err := p.parseInt()
	if err != nil {
		return nil, err
	}
	if err := p.parseToken("}"); err != nil {
		return nil, err
	}
	switch {
	case !hasLo && !hasComma:
		return nil, p.Throw("Cardinality requires at least one bound", p.span(start))
	case !hasComma:
		return []int{lo, lo}, nil
	case !hasHi:
		return []int{lo, Unbounded}, nil
	default:
		return []int{lo, hi}, nil
	}
}

// GR: Primary <- Literal ".." Literal / Literal / "." / "none"
// GR:          / Identifier / "(" Expression ")"
func (p *GrammarParser) ParsePrimary() (AstNode, error) {
	return Choice(p, []ParserFn[AstNode]{
		func(p Parser) (AstNode, error) { return p.(*GrammarParser).ParseRange() },
		func(p Parser) (AstNode, error) { return p.(*GrammarParser).ParseLiteral() },
		func(p Parser) (AstNode, error) { return p.(*GrammarParser).ParseDot() },
		func(p Parser) (AstNode, error) { return p.(*GrammarParser).ParseNone() },
		func(p Parser) (AstNode, error) { return p.(*GrammarParser).ParseReference() },
		func(p Parser) (AstNode, error) { return p.(*GrammarParser).ParseParenExpression() },
	})
}

func (p *GrammarParser) ParseRange() (AstNode, error) {
	start := p.Location()
	first, err := p.ParseLiteral()
	if err != nil {
		return nil, err
	}
	if err := p.parseToken(".."); err != nil {
		return nil, err
	}
	last, err := p.ParseLiteral()
	if err != nil {
		return nil, err
	}
	return NewRangeNode(first, last, p.span(start)), nil
}

func (p *GrammarParser) ParseDot() (AstNode, error) {
	start := p.Location()
	if err := p.parseToken("."); err != nil {
		return nil, err
	}
	return NewAnyNode(p.span(start)), nil
}

func (p *GrammarParser) ParseNone() (AstNode, error) {
	start := p.Location()
	if err := p.parseKeyword("none"); err != nil {
		return nil, err
	}
	return NewNoneNode(p.span(start)), nil
}

// ParseReference parses an identifier used as a reference to a rule.
// It must not be followed by a colon, otherwise it's a tag.
func (p *GrammarParser) ParseReference() (AstNode, error) {
	id, err := p.ParseIdentifier()
	if err != nil {
		return nil, err
	}
	if _, err := Not(p, p.ExpectRuneFn(':')); err != nil {
		return nil, err
	}
	return id, nil
}

func (p *GrammarParser) ParseParenExpression() (AstNode, error) {
	if err := p.parseToken("("); err != nil {
		return nil, err
	}
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.parseToken(")"); err != nil {
		return nil, err
	}
	return expr, nil
}

// GR: Identifier <- IdentStart IdentCont* Spacing
// GR: IdentStart <- [a-zA-Z_]
// GR: IdentCont  <- IdentStart / [0-9]
func (p *GrammarParser) ParseIdentifier() (*IdentifierNode, error) {
	start := p.Location()
	value, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	if _, ok := keywords[value]; ok {
		p.Backtrack(start)
		return nil, p.NewError("identifier", "Expected identifier, got keyword "+value)
	}
	end := p.Location()
	p.spacing()
	return NewIdentifierNode(value, NewSpan(start, end)), nil
}

func (p *GrammarParser) parseIdentifier() (string, error) {
	if !isIdentStart(p.Peek()) {
		return "", p.NewError("identifier", "Expected identifier")
	}
	var s strings.Builder
	for isIdentStart(p.Peek()) || isDigit(p.Peek()) {
		c, _ := p.Any()
		s.WriteRune(c)
	}
	return s.String(), nil
}

// GR: Literal <- ['] (!['] Char)* ['] Spacing
// GR:          / ["] (!["] Char)* ["] Spacing
func (p *GrammarParser) ParseLiteral() (*LiteralNode, error) {
	start := p.Location()
	quote := p.Peek()
	if quote != '"' && quote != '\'' {
		return nil, p.NewError("literal", "Expected literal")
	}
	p.Any()
	var s strings.Builder
	for {
		switch c := p.Peek(); c {
		case quote:
			p.Any()
			span := NewSpan(start, p.Location())
			p.spacing()
			return NewLiteralNode(s.String(), span), nil
		case eof, '\n':
			return nil, p.NewError("'"+string(quote)+"'", "Unterminated literal")
		case '\\':
			c, err := p.parseEscape()
			if err != nil {
				return nil, err
			}
			s.WriteRune(c)
		default:
			p.Any()
			s.WriteRune(c)
		}
	}
}

// GR: Escape <- '\\' ([nrt\\"'] / 'u{' Hex+ '}')
func (p *GrammarParser) parseEscape() (rune, error) {
	start := p.Location()
	p.Any()
	c, err := p.Any()
	if err != nil {
		return 0, err
	}
	switch c {
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case '\\', '"', '\'':
		return c, nil
	case 'u':
		if _, err := p.ExpectRune('{'); err != nil {
			return 0, p.Throw("Expected '{' after \\u", NewSpan(start, p.Location()))
		}
		var hex strings.Builder
		for c := p.Peek(); c != '}' && c != eof && c != '\n'; c = p.Peek() {
			p.Any()
			hex.WriteRune(c)
		}
		if _, err := p.ExpectRune('}'); err != nil {
			return 0, p.Throw("Unterminated unicode escape", NewSpan(start, p.Location()))
		}
		code, err := strconv.ParseUint(hex.String(), 16, 32)
		if err != nil || code > 0x10FFFF {
			return 0, p.Throw("Invalid unicode escape \\u{"+hex.String()+"}", NewSpan(start, p.Location()))
		}
		return rune(code), nil
	default:
		return 0, p.Throw("Unknown escape sequence \\"+string(c), NewSpan(start, p.Location()))
	}
}

func (p *GrammarParser) parseInt() (int, bool, error) {
	start := p.Location()
	var s strings.Builder
	for isDigit(p.Peek()) {
		c, _ := p.Any()
		s.WriteRune(c)
	}
	if s.Len() == 0 {
		return 0, false, nil
	}
	end := p.Location()
	p.spacing()
	n, err := strconv.Atoi(s.String())
	if err != nil {
		return 0, false, p.Throw("Invalid number "+s.String(), NewSpan(start, end))
	}
	return n, true, nil
}

// parseKeyword matches `word` as long as it isn't the prefix of a
// longer identifier
func (p *GrammarParser) parseKeyword(word string) error {
	start := p.Location()
	if _, err := p.ExpectLiteral(word); err != nil {
		return err
	}
	if c := p.Peek(); isIdentStart(c) || isDigit(c) {
		p.Backtrack(start)
		return p.NewError("'"+word+"'", "Expected keyword "+word)
	}
	p.spacing()
	return nil
}

func (p *GrammarParser) parseToken(token string) error {
	if _, err := p.ExpectLiteral(token); err != nil {
		return err
	}
	p.spacing()
	return nil
}

func isIdentStart(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isDigit(c rune) bool { return c >= '0' && c <= '9' }
