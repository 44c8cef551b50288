package expr

import (
	"math"
	"reflect"
)

// AST is a parsed expression. Its concrete type belongs to the Evaluator
// that produced it. A nil AST is the empty expression.
type AST any

// Parser turns rule source text into an AST.
type Parser interface {
	// Parse returns a nil AST and no error for blank source.
	Parse(source string) (AST, error)
}

// Evaluator parses and evaluates rules against the whole-form value.
// Implementations must be pure: same AST and value, same result.
type Evaluator interface {
	Parser
	Evaluate(ast AST, value map[string]any) (any, error)
}

// Referencer lists the form value paths an AST reads.
type Referencer interface {
	References(ast AST) []string
}

// Truthy coerces an evaluation result to a boolean: nil, false, zero
// numbers, NaN and the empty string are false, everything else is true.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0 && !math.IsNaN(t)
	case float32:
		return t != 0 && !math.IsNaN(float64(t))
	case int:
		return t != 0
	case int64:
		return t != 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}
