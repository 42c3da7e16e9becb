package telemetry

import (
	"strings"

	"github.com/google/cel-go/cel"
)

// Filter is a compiled per-subscription predicate. The zero value matches
// every sample.
type Filter struct {
	prog cel.Program
	expr string
}

// CompileFilter compiles a CEL expression over `value` (double),
// `timestamp` (int, ms) and `source_id` (string). The expression must
// evaluate to bool; numeric comparisons such as `value > 50` work across
// int and double. An empty expression yields a match-all filter.
func CompileFilter(expr string) (Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Filter{}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("value", cel.DoubleType),
		cel.Variable("timestamp", cel.IntType),
		cel.Variable("source_id", cel.StringType),
		cel.CrossTypeNumericComparisons(true),
	)
	if err != nil {
		return Filter{}, err
	}
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return Filter{}, &ValidationError{Kind: InvalidFilter, Message: "filter: " + iss.Err().Error()}
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return Filter{}, &ValidationError{Kind: InvalidFilter, Message: "filter: expression must evaluate to bool"}
	}
	prog, err := env.Program(ast)
	if err != nil {
		return Filter{}, &ValidationError{Kind: InvalidFilter, Message: "filter: " + err.Error()}
	}
	return Filter{prog: prog, expr: expr}, nil
}

// Enabled reports whether the filter was compiled from a non-empty expression.
func (f Filter) Enabled() bool { return f.prog != nil }

// String returns the source expression.
func (f Filter) String() string { return f.expr }

// Match evaluates the filter. Evaluation errors count as no match.
func (f Filter) Match(sourceID string, s Sample) bool {
	if f.prog == nil {
		return true
	}
	out, _, err := f.prog.Eval(map[string]any{
		"value":     s.Value,
		"timestamp": s.TimestampMs,
		"source_id": sourceID,
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}
