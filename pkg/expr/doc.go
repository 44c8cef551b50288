// Package expr parses and evaluates the rules attached to form content
// (hide, disabled, readonly). Rules are evaluated against the whole-form
// value and their result is coerced with Truthy.
//
// The default Evaluator is HCL, which reads rules in HCL's expression syntax
// using hclsyntax and go-cty.
package expr
