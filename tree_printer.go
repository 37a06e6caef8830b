package pas

import (
	"strings"

	"github.com/clarete/pas/ascii"
)

// FormatToken tells the printers what kind of element they're about
// to write, so a FormatFunc can decorate it
type FormatToken int

const (
	FormatToken_None FormatToken = iota
	FormatToken_Kind
	FormatToken_Tag
	FormatToken_Literal
	FormatToken_Span
	FormatToken_Keyword
)

type FormatFunc[T any] func(input string, token T) string

// ThemeFormat returns a FormatFunc painting each token with the
// colors of `theme`
func ThemeFormat(theme ascii.Theme) FormatFunc[FormatToken] {
	colors := map[FormatToken]string{
		FormatToken_Kind:    theme.Rule,
		FormatToken_Tag:     theme.Tag,
		FormatToken_Literal: theme.Literal,
		FormatToken_Span:    theme.Span,
		FormatToken_Keyword: theme.Keyword,
	}
	return func(input string, token FormatToken) string {
		color := colors[token]
		if color == "" {
			return input
		}
		return color + input + ascii.Reset
	}
}

func plain(input string, _ FormatToken) string { return input }

var highlight = ThemeFormat(ascii.DefaultTheme)

type treePrinter[T any] struct {
	padStr *[]string
	output *strings.Builder
	format FormatFunc[T]
}

func newTreePrinter[T any](format FormatFunc[T]) *treePrinter[T] {
	return &treePrinter[T]{
		padStr: &[]string{},
		output: &strings.Builder{},
		format: format,
	}
}

func (tp *treePrinter[T]) indent(s string) {
	*tp.padStr = append(*tp.padStr, s)
}

func (tp *treePrinter[T]) unindent() {
	index := len(*tp.padStr) - 1
	*tp.padStr = (*tp.padStr)[:index]
}

func (tp *treePrinter[T]) padding() {
	for _, item := range *tp.padStr {
		tp.write(item)
	}
}

func (tp *treePrinter[T]) writel(s string) {
	tp.write(s)
	tp.output.WriteRune('\n')
}

func (tp *treePrinter[T]) write(s string) {
	tp.output.WriteString(s)
}

func (tp *treePrinter[T]) pwrite(s string) {
	tp.padding()
	tp.write(s)
}

// child writes the branch for the child `i` out of `n` and indents
// everything `fn` writes under it
func (tp *treePrinter[T]) child(i, n int, fn func()) {
	tp.writel("")
	if i == n-1 {
		tp.pwrite("└── ")
		tp.indent("    ")
	} else {
		tp.pwrite("├── ")
		tp.indent("│   ")
	}
	fn()
	tp.unindent()
}

var literalSanitizer = strings.NewReplacer(
	`"`, `\"`,
	`\`, `\\`,
	string('\n'), `\n`,
	string('\r'), `\r`,
	string('\t'), `\t`,
)

// escapeLiteral escapes what the grammar literal syntax would not
// read back as is
func escapeLiteral(s string) string {
	return literalSanitizer.Replace(s)
}
