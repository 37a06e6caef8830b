package pas

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// Output is the value computed out of a match.  It's either the
// Text matched by a terminal rule, a List of outputs or a Mapping
// from tags to outputs.
type Output interface {
	// Type returns the name of the variant
	Type() string

	// String returns a compact, single line representation
	String() string

	// Accept calls the method of `v` matching the variant
	Accept(v OutputVisitor) error

	// Format renders the output as a tree decorating each element
	// with `fn`
	Format(fn FormatFunc[FormatToken]) string

	sealed()
}

type OutputVisitor interface {
	VisitText(Text) error
	VisitList(List) error
	VisitMapping(Mapping) error
}

// Text Output

type Text string

func (n Text) Type() string                             { return "text" }
func (n Text) String() string                           { return strconv.Quote(string(n)) }
func (n Text) Accept(v OutputVisitor) error             { return v.VisitText(n) }
func (n Text) Format(fn FormatFunc[FormatToken]) string { return formatOutput(n, fn) }
func (n Text) sealed()                                  {}

// List Output

type List []Output

func (n List) Type() string                             { return "list" }
func (n List) Accept(v OutputVisitor) error             { return v.VisitList(n) }
func (n List) Format(fn FormatFunc[FormatToken]) string { return formatOutput(n, fn) }
func (n List) sealed()                                  {}

func (n List) String() string {
	items := make([]string, len(n))
	for i, item := range n {
		items[i] = item.String()
	}
	return "[" + strings.Join(items, ", ") + "]"
}

// Mapping Output

type Mapping map[string]Output

func (n Mapping) Type() string                             { return "mapping" }
func (n Mapping) Accept(v OutputVisitor) error             { return v.VisitMapping(n) }
func (n Mapping) Format(fn FormatFunc[FormatToken]) string { return formatOutput(n, fn) }
func (n Mapping) sealed()                                  {}

// Keys returns the tags of the mapping in lexical order
func (n Mapping) Keys() []string {
	keys := make([]string, 0, len(n))
	for k := range n {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (n Mapping) String() string {
	keys := n.Keys()
	items := make([]string, len(keys))
	for i, k := range keys {
		items[i] = k + ": " + n[k].String()
	}
	return "{" + strings.Join(items, ", ") + "}"
}

// ToNative converts `o` into plain Go values: strings, slices of any
// and maps of string to any.  That's the shape encoding/json and
// yaml encoders expect.
func ToNative(o Output) any {
	switch n := o.(type) {
	case Text:
		return string(n)
	case List:
		items := make([]any, len(n))
		for i, item := range n {
			items[i] = ToNative(item)
		}
		return items
	case Mapping:
		items := make(map[string]any, len(n))
		for k, v := range n {
			items[k] = ToNative(v)
		}
		return items
	default:
		return nil
	}
}

func (n Text) MarshalJSON() ([]byte, error)    { return json.Marshal(string(n)) }
func (n List) MarshalJSON() ([]byte, error)    { return json.Marshal(ToNative(n)) }
func (n Mapping) MarshalJSON() ([]byte, error) { return json.Marshal(ToNative(n)) }

// OutputFromJSON rebuilds an output out of the generic values
// encoding/json decodes into `any`
func OutputFromJSON(value any) (Output, error) {
	switch v := value.(type) {
	case string:
		return Text(v), nil
	case []any:
		list := make(List, len(v))
		for i, item := range v {
			o, err := OutputFromJSON(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			list[i] = o
		}
		return list, nil
	case map[string]any:
		mapping := make(Mapping, len(v))
		for k, item := range v {
			o, err := OutputFromJSON(item)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			mapping[k] = o
		}
		return mapping, nil
	default:
		return nil, fmt.Errorf("unexpected output value of type %T", value)
	}
}

// EqualOutput compares outputs structurally
func EqualOutput(a, b Output) bool {
	switch x := a.(type) {
	case Text:
		y, ok := b.(Text)
		return ok && x == y
	case List:
		y, ok := b.(List)
		return ok && slices.EqualFunc(x, y, EqualOutput)
	case Mapping:
		y, ok := b.(Mapping)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, v := range x {
			w, ok := y[k]
			if !ok || !EqualOutput(v, w) {
				return false
			}
		}
		return true
	default:
		return a == nil && b == nil
	}
}

type outputPrinter struct {
	*treePrinter[FormatToken]
}

func formatOutput(o Output, fn FormatFunc[FormatToken]) string {
	p := &outputPrinter{newTreePrinter(fn)}
	o.Accept(p)
	return p.output.String()
}

func (p *outputPrinter) VisitText(n Text) error {
	p.write(p.format(n.String(), FormatToken_Literal))
	return nil
}

func (p *outputPrinter) VisitList(n List) error {
	p.write(p.format(fmt.Sprintf("List<%d>", len(n)), FormatToken_Kind))
	for i, item := range n {
		p.child(i, len(n), func() { item.Accept(p) })
	}
	return nil
}

func (p *outputPrinter) VisitMapping(n Mapping) error {
	p.write(p.format(fmt.Sprintf("Mapping<%d>", len(n)), FormatToken_Kind))
	keys := n.Keys()
	for i, k := range keys {
		p.child(i, len(keys), func() {
			p.write(p.format(k+":", FormatToken_Tag))
			p.write(" ")
			n[k].Accept(p)
		})
	}
	return nil
}
