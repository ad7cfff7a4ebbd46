package event

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindMap
)

// Value is the small tagged union every Event field holds, matching spec §3:
// null | bool | int64 | float64 | string | list<Value> | map<string,Value>.
type Value struct {
	Kind Kind
	Bool bool
	Int  int64
	Flt  float64
	Str  string
	List []Value
	Map  map[string]Value
}

func Null() Value                { return Value{Kind: KindNull} }
func Bool(b bool) Value          { return Value{Kind: KindBool, Bool: b} }
func Int(i int64) Value          { return Value{Kind: KindInt, Int: i} }
func Float(f float64) Value      { return Value{Kind: KindFloat, Flt: f} }
func Str(s string) Value         { return Value{Kind: KindString, Str: s} }
func List(vs []Value) Value      { return Value{Kind: KindList, List: vs} }
func Map(m map[string]Value) Value { return Value{Kind: KindMap, Map: m} }

// String renders any Value as text, used for string-mode comparisons,
// sorting, and rendering. It never panics on any Kind.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Flt, 'g', -1, 64)
	case KindString:
		return v.Str
	case KindList:
		parts := make([]string, len(v.List))
		for i, e := range v.List {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ",") + "]"
	case KindMap:
		parts := make([]string, 0, len(v.Map))
		for k, e := range v.Map {
			parts = append(parts, k+":"+e.String())
		}
		return "{" + strings.Join(parts, ",") + "}"
	default:
		return ""
	}
}

// numericPattern matches the numeric-literal shape spec §9 mandates:
// -?(\d+\.?\d*|\.\d+).
var numericPattern = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)$`)

// AsFloat reports whether v can be treated as a finite number, and its
// value if so. A string is numeric only if it matches numericPattern.
func (v Value) AsFloat() (float64, bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.Int), true
	case KindFloat:
		return v.Flt, true
	case KindString:
		if !numericPattern.MatchString(v.Str) {
			return 0, false
		}
		f, err := strconv.ParseFloat(v.Str, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// IsNumeric reports whether AsFloat would succeed.
func (v Value) IsNumeric() bool {
	_, ok := v.AsFloat()
	return ok
}

// Equal compares two Values under the numeric-if-both-numeric rule from
// spec §4.8: if both sides parse as finite numbers, compare numerically;
// otherwise compare string renderings byte-wise.
func Equal(a, b Value) bool {
	if af, aok := a.AsFloat(); aok {
		if bf, bok := b.AsFloat(); bok {
			return af == bf
		}
	}
	return a.String() == b.String()
}

// Compare returns -1, 0, or 1 for a relative to b, under the same
// numeric-if-both-numeric rule used by Equal, for use by sort and the
// ordered comparison operators (<, <=, >, >=).
func Compare(a, b Value) int {
	if af, aok := a.AsFloat(); aok {
		if bf, bok := b.AsFloat(); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}
	return strings.Compare(a.String(), b.String())
}

// FromAny converts a decoded JSON-ish value (as produced by encoding/json
// or fastjson) into a Value, recursively for lists and maps.
func FromAny(a any) Value {
	switch t := a.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(t)
	case string:
		return Str(t)
	case int:
		return Int(int64(t))
	case int64:
		return Int(t)
	case float64:
		return Float(t)
	case []any:
		list := make([]Value, len(t))
		for i, e := range t {
			list[i] = FromAny(e)
		}
		return List(list)
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, e := range t {
			m[k] = FromAny(e)
		}
		return Map(m)
	default:
		return Str(fmt.Sprintf("%v", t))
	}
}
