package exec

import (
	"regexp"
	"strings"
	"sync"

	"github.com/corvuslabs/ptx/pkg/event"
	"github.com/corvuslabs/ptx/pkg/query"
)

func literalValue(lit query.Literal) event.Value {
	switch lit.Kind {
	case query.LitInt:
		return event.Int(lit.I)
	case query.LitFloat:
		return event.Float(lit.F)
	default:
		return event.Str(lit.S)
	}
}

var (
	matchCacheMu sync.Mutex
	matchCache   = map[string]*regexp.Regexp{}
)

// compileMatch compiles and memoizes a MatchExpr pattern. A bad pattern is
// cached as nil so every evaluation of it degrades to "no match" rather
// than recompiling and failing repeatedly (spec §4.8 failure semantics).
func compileMatch(pattern string) *regexp.Regexp {
	matchCacheMu.Lock()
	defer matchCacheMu.Unlock()
	if re, ok := matchCache[pattern]; ok {
		return re
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		matchCache[pattern] = nil
		return nil
	}
	matchCache[pattern] = re
	return re
}

// evaluate implements the truth-table of spec §4.8 step 1: a missing field
// makes every Comparison, InExpr, HasExpr, and MatchExpr false, including
// '!=' (symmetric with '=='), so that NOT of a missing-field comparison is
// true. See SPEC_FULL.md §9 / DESIGN.md for the rationale carried from spec.md.
func evaluate(expr query.Expr, ev event.Event) bool {
	switch e := expr.(type) {
	case query.Comparison:
		fv, ok := ev.Get(e.Field)
		if !ok {
			return false
		}
		lit := literalValue(e.Value)
		switch e.Op {
		case query.OpEq:
			return event.Equal(fv, lit)
		case query.OpNe:
			return !event.Equal(fv, lit)
		case query.OpLt:
			return event.Compare(fv, lit) < 0
		case query.OpLte:
			return event.Compare(fv, lit) <= 0
		case query.OpGt:
			return event.Compare(fv, lit) > 0
		case query.OpGte:
			return event.Compare(fv, lit) >= 0
		default:
			return false
		}
	case query.InExpr:
		fv, ok := ev.Get(e.Field)
		if !ok {
			return false
		}
		for _, lit := range e.Values {
			if event.Equal(fv, literalValue(lit)) {
				return true
			}
		}
		return false
	case query.HasExpr:
		_, ok := ev.Get(e.Field)
		return ok
	case query.MatchExpr:
		fv, ok := ev.Get(e.Field)
		if !ok {
			return false
		}
		re := compileMatch(e.Pattern)
		if re == nil {
			return false
		}
		return re.MatchString(fv.String())
	case query.UnaryExpr:
		inner := evaluate(e.Operand, ev)
		return !inner
	case query.BinaryExpr:
		switch e.Op {
		case query.OpAnd:
			return evaluate(e.Left, ev) && evaluate(e.Right, ev)
		case query.OpOr:
			return evaluate(e.Left, ev) || evaluate(e.Right, ev)
		default:
			return false
		}
	default:
		return false
	}
}

// filter retains events for which evaluate(where, event) is true, preserving
// the pre-filter relative order (spec §5).
func filter(where *query.Expr, events []event.Event) []event.Event {
	if where == nil {
		out := make([]event.Event, len(events))
		copy(out, events)
		return out
	}
	out := make([]event.Event, 0, len(events))
	for _, ev := range events {
		if evaluate(*where, ev) {
			out = append(out, ev)
		}
	}
	return out
}

// fieldString renders a field for use as a group key component, treating a
// missing value as the empty string (spec §4.8 step 2).
func fieldString(ev event.Event, field string) string {
	v, ok := ev.Get(field)
	if !ok {
		return ""
	}
	return v.String()
}

func groupKey(ev event.Event, fields []string) string {
	if len(fields) == 0 {
		return ""
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = fieldString(ev, f)
	}
	return strings.Join(parts, "\x1f")
}
