package eval

import (
	"fmt"

	"github.com/corvuslabs/ptx/pkg/event"
)

// Assignment is a compiled `--eval field=expr` transform stage.
type Assignment struct {
	Field string
	expr  Expr
}

// CompileAssignment parses "field=expr" into an Assignment ready to be
// wrapped as a transform.Func.
func CompileAssignment(s string) (*Assignment, error) {
	field, exprSrc, ok := splitAssignment(s)
	if !ok {
		return nil, fmt.Errorf("%w: expected field=expr, got %q", ErrEvalSyntax, s)
	}
	expr, err := Compile(exprSrc)
	if err != nil {
		return nil, err
	}
	return &Assignment{Field: field, expr: expr}, nil
}

func splitAssignment(s string) (field, expr string, ok bool) {
	for i, c := range s {
		if c == '=' {
			return trimSpace(s[:i]), s[i+1:], true
		}
	}
	return "", "", false
}

func trimSpace(s string) string {
	i, j := 0, len(s)
	for i < j && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	for j > i && (s[j-1] == ' ' || s[j-1] == '\t') {
		j--
	}
	return s[i:j]
}

// Apply evaluates the assignment's expression against ev and returns a
// clone with Field set to the result.
func (a *Assignment) Apply(ev event.Event) (event.Event, bool) {
	v := Eval(a.expr, ev)
	out := ev.Clone()
	out.Set(a.Field, v)
	return out, true
}
