package httpserver

import (
	"strings"

	"github.com/google/cel-go/cel"
)

// celFilter wraps a compiled CEL program applied per result row on the
// activity endpoints. When disabled, Eval always returns true.
//
// Exposed variables: user (string, empty on room histograms), count (int),
// hour (int, -1 on per-user rows).
type celFilter struct {
	prog    cel.Program
	enabled bool
}

func newCELFilter(expr string) (celFilter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return celFilter{enabled: false}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("user", cel.StringType),
		cel.Variable("count", cel.IntType),
		cel.Variable("hour", cel.IntType),
	)
	if err != nil {
		return celFilter{}, err
	}
	ast, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return celFilter{}, iss.Err()
	}
	checked, iss2 := env.Check(ast)
	if iss2 != nil && iss2.Err() != nil {
		return celFilter{}, iss2.Err()
	}
	prog, err := env.Program(checked)
	if err != nil {
		return celFilter{}, err
	}
	return celFilter{prog: prog, enabled: true}, nil
}

// Eval evaluates the compiled expression against one row. Rows that fail to
// evaluate are dropped.
func (f celFilter) Eval(user string, count, hour int) bool {
	if !f.enabled {
		return true
	}
	out, _, err := f.prog.Eval(map[string]any{
		"user":  user,
		"count": int64(count),
		"hour":  int64(hour),
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}
