package pas

import (
	"fmt"
	"io"
	"sort"
)

type Config map[string]*cfgVal

// NewConfig creates a configuration object primed with the default
// values expected by the compiler and by Grammar.Match
func NewConfig() *Config {
	m := make(Config)
	// rule matched when none is named; empty means the first one
	// declared in the grammar
	m.SetString("grammar.default_rule", "")
	// a match must consume the whole text to count
	m.SetBool("match.full_text", true)
	// max nesting of rule invocations, zero disables the limit
	m.SetInt("match.max_depth", 10000)
	// fail proxies re-entered at the same offset instead of
	// recursing forever
	m.SetBool("match.recursion_guard", true)
	return &m
}

// Keys returns the settings available in lexical order
func (c *Config) Keys() []string {
	keys := make([]string, 0, len(*c))
	for k := range *c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has returns true if `path` is a known setting
func (c *Config) Has(path string) bool {
	_, ok := (*c)[path]
	return ok
}

// Debug writes every setting and its value to `w`
func (c *Config) Debug(w io.Writer) {
	fmt.Fprintln(w, "Configuration")

	keys := c.Keys()
	width := 0
	for _, k := range keys {
		width = max(width, len(k))
	}
	for _, k := range keys {
		fmt.Fprintf(w, "%-*s : %s\n", width, k, (*c)[k])
	}
}

// contextOptions translates the match settings into options for
// NewMatchContext
func (c *Config) contextOptions() []ContextOption {
	return []ContextOption{
		WithMaxDepth(c.GetInt("match.max_depth")),
		WithRecursionGuard(c.GetBool("match.recursion_guard")),
	}
}

type cfgValType int

const (
	cfgValType_Undefined cfgValType = iota
	cfgValType_Bool
	cfgValType_Int
	cfgValType_String
)

func (vt cfgValType) String() string {
	return map[cfgValType]string{
		cfgValType_Undefined: "undefined",
		cfgValType_Bool:      "bool",
		cfgValType_Int:       "int",
		cfgValType_String:    "string",
	}[vt]
}

type cfgVal struct {
	typ      cfgValType
	asBool   bool
	asInt    int
	asString string
}

// assignType prevents a setting from changing its type
func (v *cfgVal) assignType(vt cfgValType) {
	if v.typ != vt && v.typ != cfgValType_Undefined {
		panic(fmt.Sprintf("Can't assign `%s` to type `%s`", vt, v.typ))
	}
	v.typ = vt
}

func (v *cfgVal) checkType(vt cfgValType) {
	if v.typ != vt {
		panic(fmt.Sprintf("Can't retrieve `%s` from `%s` variable", vt, v.typ))
	}
}

func (v *cfgVal) String() string {
	switch v.typ {
	case cfgValType_Bool:
		return fmt.Sprintf("%t (bool)", v.asBool)
	case cfgValType_Int:
		return fmt.Sprintf("%d (int)", v.asInt)
	case cfgValType_String:
		return fmt.Sprintf("%q (string)", v.asString)
	case cfgValType_Undefined:
		return "(undefined)"
	default:
		panic(fmt.Sprintf("unknown cfgVal type: %v", v.typ))
	}
}

func (c *Config) value(path string) *cfgVal {
	val, ok := (*c)[path]
	if !ok {
		val = &cfgVal{}
		(*c)[path] = val
	}
	return val
}

func (c *Config) SetBool(path string, v bool) {
	val := c.value(path)
	val.assignType(cfgValType_Bool)
	val.asBool = v
}

func (c *Config) SetInt(path string, v int) {
	val := c.value(path)
	val.assignType(cfgValType_Int)
	val.asInt = v
}

func (c *Config) SetString(path string, v string) {
	val := c.value(path)
	val.assignType(cfgValType_String)
	val.asString = v
}

func (c *Config) GetBool(path string) bool {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_Bool)
		return val.asBool
	}
	panic(fmt.Sprintf("Bool setting `%s` does not exist", path))
}

func (c *Config) GetInt(path string) int {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_Int)
		return val.asInt
	}
	panic(fmt.Sprintf("Int setting `%s` does not exist", path))
}

func (c *Config) GetString(path string) string {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_String)
		return val.asString
	}
	panic(fmt.Sprintf("String setting `%s` does not exist", path))
}
