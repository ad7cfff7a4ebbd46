// Package eval implements the closed-set expression language that backs
// `--eval field=expr` transforms (SPEC_FULL.md §4.10; spec §9 "Safe user
// eval"). Unlike the source implementation's embedded dynamic-language
// evaluator, this package exposes only arithmetic, comparisons, an if/then/
// else ternary, and a handful of string functions: there is no way to call
// back into Go code or run arbitrary statements.
package eval

import (
	"fmt"
	"strings"

	"github.com/corvuslabs/ptx/pkg/event"
)

// Expr is the sum type of every node the eval grammar can produce.
type Expr interface {
	evalNode()
}

type numberLit struct{ v float64 }
type stringLit struct{ v string }
type fieldRef struct{ name string }

type binaryExpr struct {
	op    string
	left  Expr
	right Expr
}

type unaryExpr struct {
	op      string
	operand Expr
}

type ifExpr struct {
	cond, then, els Expr
}

type callExpr struct {
	fn   string
	args []Expr
}

func (numberLit) evalNode()  {}
func (stringLit) evalNode()  {}
func (fieldRef) evalNode()   {}
func (binaryExpr) evalNode() {}
func (unaryExpr) evalNode()  {}
func (ifExpr) evalNode()     {}
func (callExpr) evalNode()   {}

// stringFuncs is the closed set of string functions spec §9 allows.
var stringFuncs = map[string]bool{
	"upper": true, "lower": true, "trim": true, "concat": true, "len": true,
}

// Compile parses an eval expression string into an Expr, ready for repeated
// evaluation against many events.
func Compile(s string) (Expr, error) {
	toks, err := tokenize(s)
	if err != nil {
		return nil, err
	}
	p := &evalParser{toks: toks}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("%w: unexpected trailing input at %q", ErrEvalSyntax, p.peek().text)
	}
	return expr, nil
}

// Eval evaluates a compiled Expr against ev's fields, returning the result
// Value. It never panics on a malformed runtime value: missing fields read
// as null, and null operands propagate as the zero value for the operator
// in play (e.g. arithmetic on null is 0).
func Eval(expr Expr, ev event.Event) event.Value {
	switch e := expr.(type) {
	case numberLit:
		return event.Float(e.v)
	case stringLit:
		return event.Str(e.v)
	case fieldRef:
		if v, ok := ev.Get(e.name); ok {
			return v
		}
		return event.Null()
	case unaryExpr:
		v := Eval(e.operand, ev)
		f, _ := v.AsFloat()
		return event.Float(-f)
	case binaryExpr:
		return evalBinary(e, ev)
	case ifExpr:
		cond := Eval(e.cond, ev)
		if truthy(cond) {
			return Eval(e.then, ev)
		}
		return Eval(e.els, ev)
	case callExpr:
		return evalCall(e, ev)
	default:
		return event.Null()
	}
}

func truthy(v event.Value) bool {
	switch v.Kind {
	case event.KindBool:
		return v.Bool
	case event.KindNull:
		return false
	default:
		return v.String() != ""
	}
}

func evalBinary(e binaryExpr, ev event.Event) event.Value {
	l := Eval(e.left, ev)
	r := Eval(e.right, ev)
	switch e.op {
	case "+", "-", "*", "/":
		lf, _ := l.AsFloat()
		rf, _ := r.AsFloat()
		switch e.op {
		case "+":
			return event.Float(lf + rf)
		case "-":
			return event.Float(lf - rf)
		case "*":
			return event.Float(lf * rf)
		case "/":
			if rf == 0 {
				return event.Float(0)
			}
			return event.Float(lf / rf)
		}
	case "==":
		return event.Bool(event.Equal(l, r))
	case "!=":
		return event.Bool(!event.Equal(l, r))
	case "<":
		return event.Bool(event.Compare(l, r) < 0)
	case "<=":
		return event.Bool(event.Compare(l, r) <= 0)
	case ">":
		return event.Bool(event.Compare(l, r) > 0)
	case ">=":
		return event.Bool(event.Compare(l, r) >= 0)
	}
	return event.Null()
}

func evalCall(e callExpr, ev event.Event) event.Value {
	switch e.fn {
	case "upper":
		return event.Str(strings.ToUpper(argString(e, 0, ev)))
	case "lower":
		return event.Str(strings.ToLower(argString(e, 0, ev)))
	case "trim":
		return event.Str(strings.TrimSpace(argString(e, 0, ev)))
	case "len":
		return event.Int(int64(len(argString(e, 0, ev))))
	case "concat":
		var b strings.Builder
		for i := range e.args {
			b.WriteString(argString(e, i, ev))
		}
		return event.Str(b.String())
	default:
		return event.Null()
	}
}

func argString(e callExpr, i int, ev event.Event) string {
	if i >= len(e.args) {
		return ""
	}
	return Eval(e.args[i], ev).String()
}
