package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Type checks the shape of one value.
type Type interface {
	// Name is the type's notation, as accepted by ParseType.
	Name() string
	Validate(value any) error
}

type simple struct {
	name  string
	check func(any) error
}

func (t *simple) Name() string             { return t.name }
func (t *simple) Validate(value any) error { return t.check(value) }

// String accepts strings.
func String() Type {
	return &simple{name: "string", check: func(v any) error {
		if _, ok := v.(string); !ok {
			return fmt.Errorf("expected string, got %T", v)
		}
		return nil
	}}
}

// Int accepts integers, whole floats and integral json.Number values.
func Int() Type {
	return &simple{name: "int", check: func(v any) error {
		switch n := v.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return nil
		case float64:
			if n == float64(int64(n)) {
				return nil
			}
			return fmt.Errorf("expected int, got float (not a whole number)")
		case json.Number:
			if _, err := n.Int64(); err != nil {
				return fmt.Errorf("expected int, got %s", n)
			}
			return nil
		}
		return fmt.Errorf("expected int, got %T", v)
	}}
}

// Number accepts any numeric value, json.Number included.
func Number() Type {
	return &simple{name: "number", check: func(v any) error {
		switch n := v.(type) {
		case json.Number:
			if _, err := n.Float64(); err != nil {
				return fmt.Errorf("expected number, got %s", n)
			}
			return nil
		}
		switch reflect.ValueOf(v).Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			return nil
		}
		return fmt.Errorf("expected number, got %T", v)
	}}
}

// Bool accepts booleans.
func Bool() Type {
	return &simple{name: "bool", check: func(v any) error {
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("expected bool, got %T", v)
		}
		return nil
	}}
}

// Any accepts everything, nil included.
func Any() Type {
	return &simple{name: "any", check: func(any) error { return nil }}
}

// Map accepts string-keyed maps.
func Map() Type {
	return &simple{name: "map", check: func(v any) error {
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("expected map, got %T", v)
		}
		return nil
	}}
}

// Option accepts a choice of a select-like control: a plain string, or a
// map carrying at least a "value" key.
func Option() Type {
	return &simple{name: "option", check: func(v any) error {
		switch o := v.(type) {
		case string:
			return nil
		case map[string]any:
			if _, ok := o["value"]; !ok {
				return fmt.Errorf("option map has no \"value\"")
			}
			return nil
		}
		return fmt.Errorf("expected string or map, got %T", v)
	}}
}

// SliceType validates every element of a slice.
type SliceType struct {
	elem Type
}

// Slice accepts slices whose elements all satisfy elem.
func Slice(elem Type) Type {
	return &SliceType{elem: elem}
}

func (t *SliceType) Name() string {
	return "[" + t.elem.Name() + "]"
}

func (t *SliceType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("expected slice, got %T", value)
	}
	for i := 0; i < rv.Len(); i++ {
		if err := t.elem.Validate(rv.Index(i).Interface()); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

// Custom wraps a validation function under a name.
func Custom(name string, validate func(any) error) Type {
	return &simple{name: name, check: validate}
}

// ParseType reads a type notation: string, int, number, bool, any, map,
// option, or [T] for a slice of T.
func ParseType(s string) (Type, error) {
	s = strings.TrimSpace(s)
	if len(s) > 2 && s[0] == '[' && s[len(s)-1] == ']' {
		elem, err := ParseType(s[1 : len(s)-1])
		if err != nil {
			return nil, err
		}
		return Slice(elem), nil
	}
	switch s {
	case "string":
		return String(), nil
	case "int":
		return Int(), nil
	case "number", "float":
		return Number(), nil
	case "bool":
		return Bool(), nil
	case "any":
		return Any(), nil
	case "map":
		return Map(), nil
	case "option":
		return Option(), nil
	}
	return nil, fmt.Errorf("unsupported type: %s", s)
}

// ParseTypeMap builds a Schema from field names and type notations.
func ParseTypeMap(typeMap map[string]string) (Schema, error) {
	out := make(Schema, len(typeMap))
	for key, notation := range typeMap {
		t, err := ParseType(notation)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		out[key] = t
	}
	return out, nil
}
