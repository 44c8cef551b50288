package expr

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/tryfunc"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// ValueVariable is the name under which the whole-form value is exposed.
// Top-level controls are also exposed directly by id, unless their id
// collides with ValueVariable.
const ValueVariable = "value"

// HCL evaluates rules written in HCL's expression syntax:
//
//	value.b == true
//	length(value.tags) > 2 && value.country != "PT"
//	try(value.address.zip, "") == ""
type HCL struct {
	functions map[string]function.Function
	filename  string
}

// HCLOption configures the HCL evaluator.
type HCLOption func(*HCL)

// WithFunction exposes an extra function to expressions.
func WithFunction(name string, fn function.Function) HCLOption {
	return func(h *HCL) {
		h.functions[name] = fn
	}
}

// WithFilename sets the name reported in diagnostics.
func WithFilename(name string) HCLOption {
	return func(h *HCL) {
		h.filename = name
	}
}

// NewHCL creates an evaluator with the cty standard library plus try and can.
func NewHCL(opts ...HCLOption) *HCL {
	h := &HCL{
		functions: defaultFunctions(),
		filename:  "expression",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func defaultFunctions() map[string]function.Function {
	return map[string]function.Function{
		"abs":       stdlib.AbsoluteFunc,
		"can":       tryfunc.CanFunc,
		"ceil":      stdlib.CeilFunc,
		"coalesce":  stdlib.CoalesceFunc,
		"contains":  stdlib.ContainsFunc,
		"floor":     stdlib.FloorFunc,
		"join":      stdlib.JoinFunc,
		"keys":      stdlib.KeysFunc,
		"length":    stdlib.LengthFunc,
		"lower":     stdlib.LowerFunc,
		"max":       stdlib.MaxFunc,
		"min":       stdlib.MinFunc,
		"parseint":  stdlib.ParseIntFunc,
		"regex":     stdlib.RegexFunc,
		"split":     stdlib.SplitFunc,
		"strlen":    stdlib.StrlenFunc,
		"substr":    stdlib.SubstrFunc,
		"trimspace": stdlib.TrimSpaceFunc,
		"try":       tryfunc.TryFunc,
		"upper":     stdlib.UpperFunc,
		"values":    stdlib.ValuesFunc,
	}
}

// Parse parses source as a single HCL expression.
func (h *HCL) Parse(source string) (AST, error) {
	if strings.TrimSpace(source) == "" {
		return nil, nil
	}
	ex, diags := hclsyntax.ParseExpression([]byte(source), h.filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse expression %q: %w", source, diags)
	}
	return ex, nil
}

// Evaluate evaluates ast with the form value bound to "value".
func (h *HCL) Evaluate(ast AST, value map[string]any) (any, error) {
	if ast == nil {
		return nil, nil
	}
	ex, ok := ast.(hcl.Expression)
	if !ok {
		return nil, fmt.Errorf("unsupported AST type %T", ast)
	}

	form, err := toCty(value)
	if err != nil {
		return nil, err
	}
	vars := map[string]cty.Value{}
	if form.Type().IsObjectType() {
		for name, v := range form.AsValueMap() {
			vars[name] = v
		}
	}
	vars[ValueVariable] = form

	result, diags := ex.Value(&hcl.EvalContext{
		Variables: vars,
		Functions: h.functions,
	})
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to evaluate expression: %w", diags)
	}
	return ctyToNative(result)
}

// References returns the dot-joined paths of the form values ast reads, in
// source order and without duplicates. value.address.city and address.city
// both yield "address.city"; a path stops at the first non-string index.
func (h *HCL) References(ast AST) []string {
	ex, ok := ast.(hcl.Expression)
	if !ok {
		return nil
	}
	var out []string
	seen := map[string]bool{}
	for _, t := range ex.Variables() {
		var parts []string
		if root := t.RootName(); root != ValueVariable {
			parts = append(parts, root)
		}
	steps:
		for _, step := range t[1:] {
			switch s := step.(type) {
			case hcl.TraverseAttr:
				parts = append(parts, s.Name)
			case hcl.TraverseIndex:
				if s.Key.Type() != cty.String || !s.Key.IsKnown() || s.Key.IsNull() {
					break steps
				}
				parts = append(parts, s.Key.AsString())
			default:
				break steps
			}
		}
		if len(parts) == 0 {
			continue
		}
		path := strings.Join(parts, ".")
		if !seen[path] {
			seen[path] = true
			out = append(out, path)
		}
	}
	return out
}

// toCty converts a form value to an object through its JSON encoding, so
// whatever a control holds ends up as the closest cty type.
func toCty(value map[string]any) (cty.Value, error) {
	if len(value) == 0 {
		return cty.EmptyObjectVal, nil
	}
	buf, err := json.Marshal(value)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to encode form value: %w", err)
	}
	ty, err := ctyjson.ImpliedType(buf)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to infer form value type: %w", err)
	}
	v, err := ctyjson.Unmarshal(buf, ty)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to decode form value: %w", err)
	}
	return v, nil
}

// ctyToNative converts a cty.Value to its most natural Go counterpart.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert cty.Number to float64: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			_, ev := it.Element()
			nv, err := ctyToNative(ev)
			if err != nil {
				return nil, err
			}
			out = append(out, nv)
		}
		return out, nil

	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any)
		it := v.ElementIterator()
		for it.Next() {
			key, ev := it.Element()
			nv, err := ctyToNative(ev)
			if err != nil {
				return nil, fmt.Errorf("in attribute '%s': %w", key.AsString(), err)
			}
			out[key.AsString()] = nv
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported cty type: %s", ty.FriendlyName())
	}
}
