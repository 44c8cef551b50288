// Package schema checks form content before it is built.
//
// Lint walks a content tree and collects every problem it finds into an
// *AggregateError of *ValidationError values keyed by node path:
//
//	err := schema.Lint(content,
//	    schema.WithParser(expr.NewHCL()),
//	    schema.WithValidatorKeys(validators.Standard().Has),
//	    schema.WithComponentTypes(render.Defaults().Has),
//	)
//	for _, e := range schema.ValidationErrors(err) {
//	    fmt.Println(e)
//	}
//
// The small type system (String, Int, Number, Slice, Option, ...) describes
// the extra fields a component reads, so a select without options is caught
// at load time rather than at render time.
package schema
