// Package ascii provides semantic names for terminal ANSI colors so
// they can be grouped in themes.
package ascii

import (
	"fmt"
	"strings"
)

const (
	Reset  = "\033[0m"
	Red    = "\033[1;31m"
	Yellow = "\033[1;33m"
	Green  = "\033[1;32m"
	Blue   = "\033[1;34m"
	Cyan   = "\033[1;36m"
	Gray   = "\033[90m"

	Bold = "\033[1m"

	// 256-color palette
	Orange  = "\033[38;5;208m"
	Gray245 = "\033[1;38;5;245m"
	Purple  = "\033[1;38;5;99m"
	Pink    = "\033[1;38;5;127m"
)

// Theme maps the elements printed by the match and grammar printers
// to colors
type Theme struct {
	Error   string
	Success string
	Muted   string

	Rule    string // rule names and kinds
	Tag     string // tags of children
	Literal string // matched text and literals
	Span    string // positions
	Keyword string // grammar keywords and operators
}

// DefaultTheme is used unless colors are turned off
var DefaultTheme = Theme{
	Error:   Red,
	Success: Green,
	Muted:   Gray,

	Rule:    Purple,
	Tag:     Cyan,
	Literal: Green,
	Span:    Orange,
	Keyword: Pink,
}

// NoColor is the theme that leaves everything untouched
var NoColor = Theme{}

// Color wraps the formatted text in `color`.  An empty color returns
// the formatted text as is.
func Color(color, format string, args ...any) string {
	if color == "" {
		return fmt.Sprintf(format, args...)
	}
	return fmt.Sprintf(color+format+Reset, args...)
}

// Strip removes every escape sequence defined in this package from
// `s`
func Strip(s string) string {
	return stripper.Replace(s)
}

var stripper = strings.NewReplacer(
	Reset, "", Red, "", Yellow, "", Green, "", Blue, "", Cyan, "", Gray, "",
	Bold, "", Orange, "", Gray245, "", Purple, "", Pink, "",
)
