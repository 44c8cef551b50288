package validators

import (
	"encoding/json"
	"reflect"
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/aretw0/formwork/pkg/model"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

// Standard returns a registry holding the parameterless built-ins under
// "required", "requiredTrue" and "email".
func Standard() *Sync {
	r := NewSync()
	r.RegisterFn("required", Required)
	r.RegisterFn("requiredTrue", RequiredTrue)
	r.RegisterFn("email", Email)
	return r
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	}
	return false
}

func length(v any) (int, bool) {
	if s, ok := v.(string); ok {
		return utf8.RuneCountInString(s), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len(), true
	}
	return 0, false
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// Required fails on nil, empty strings and empty collections.
func Required(v any) model.Errors {
	if isEmpty(v) {
		return model.Errors{"required": true}
	}
	return nil
}

// RequiredTrue fails unless the value is exactly true.
func RequiredTrue(v any) model.Errors {
	if b, ok := v.(bool); ok && b {
		return nil
	}
	return model.Errors{"required": true}
}

// Email fails on non-empty strings that are not e-mail addresses.
func Email(v any) model.Errors {
	if isEmpty(v) {
		return nil
	}
	s, ok := v.(string)
	if ok && emailPattern.MatchString(s) {
		return nil
	}
	return model.Errors{"email": true}
}

// MinLength fails when a non-empty value is shorter than n.
func MinLength(n int) model.ValidatorFn {
	return func(v any) model.Errors {
		if isEmpty(v) {
			return nil
		}
		l, ok := length(v)
		if !ok || l >= n {
			return nil
		}
		return model.Errors{"minlength": map[string]any{"requiredLength": n, "actualLength": l}}
	}
}

// MaxLength fails when a value is longer than n.
func MaxLength(n int) model.ValidatorFn {
	return func(v any) model.Errors {
		l, ok := length(v)
		if !ok || l <= n {
			return nil
		}
		return model.Errors{"maxlength": map[string]any{"requiredLength": n, "actualLength": l}}
	}
}

// Min fails when a numeric value is below min.
func Min(min float64) model.ValidatorFn {
	return func(v any) model.Errors {
		if isEmpty(v) {
			return nil
		}
		f, ok := number(v)
		if !ok || f >= min {
			return nil
		}
		return model.Errors{"min": map[string]any{"min": min, "actual": f}}
	}
}

// Max fails when a numeric value is above max.
func Max(max float64) model.ValidatorFn {
	return func(v any) model.Errors {
		if isEmpty(v) {
			return nil
		}
		f, ok := number(v)
		if !ok || f <= max {
			return nil
		}
		return model.Errors{"max": map[string]any{"max": max, "actual": f}}
	}
}

// Pattern fails when a non-empty string does not fully match expr. It
// panics if expr does not compile.
func Pattern(expr string) model.ValidatorFn {
	re := regexp.MustCompile("^(?:" + expr + ")$")
	return func(v any) model.Errors {
		if isEmpty(v) {
			return nil
		}
		s, ok := v.(string)
		if ok && re.MatchString(s) {
			return nil
		}
		return model.Errors{"pattern": map[string]any{"requiredPattern": expr, "actualValue": v}}
	}
}
