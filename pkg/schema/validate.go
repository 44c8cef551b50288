package schema

import "sort"

// Schema maps field names to their expected types.
type Schema map[string]Type

// Validate checks that data carries every field of s with the right type.
// Fields s does not declare are ignored. Errors come back sorted by key.
func Validate(s Schema, data map[string]any) error {
	return validate(s, data, "")
}

func validate(s Schema, data map[string]any, prefix string) error {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	for _, key := range keys {
		name := key
		if prefix != "" {
			name = prefix + "." + key
		}
		value, ok := data[key]
		if !ok {
			errs = append(errs, &ValidationError{Key: name, Reason: "required"})
			continue
		}
		if err := s[key].Validate(value); err != nil {
			errs = append(errs, &ValidationError{Key: name, Reason: err.Error()})
		}
	}
	return aggregate(errs)
}
