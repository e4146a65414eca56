package fields

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nucleus/ucl-sharepoint/internal/escape"
)

// Args are variant construction arguments keyed by snake_case name.
// camelCase keys ("lookupListId") are normalised on the way in.
type Args struct {
	values  map[string]any
	variant string
}

// NewArgs copies m, normalising its keys.
func NewArgs(m map[string]any) Args {
	values := make(map[string]any, len(m))
	for k, v := range m {
		values[escape.ToSnake(k)] = v
	}
	return Args{values: values}
}

// Take removes key and returns its raw value.
func (a Args) Take(key string) (any, bool) {
	v, ok := a.values[key]
	if ok {
		delete(a.values, key)
	}
	return v, ok
}

// Remaining returns the keys nobody consumed, sorted.
func (a Args) Remaining() []string {
	keys := make([]string, 0, len(a.values))
	for k := range a.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String takes key as a string. Missing keys yield "".
func (a Args) String(key string) (string, error) {
	v, ok := a.Take(key)
	if !ok || v == nil {
		return "", nil
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case fmt.Stringer:
		return s.String(), nil
	case int, int64, float64, bool:
		return fmt.Sprint(s), nil
	}
	return "", a.invalid(key, v)
}

// RequiredString is String but fails when the value is missing or empty.
func (a Args) RequiredString(key string) (string, error) {
	s, err := a.String(key)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", &ArgumentError{Variant: a.variant, Key: key, Reason: "required"}
	}
	return s, nil
}

// Strings takes key as a list. A single string is split on "|".
func (a Args) Strings(key string) ([]string, error) {
	v, ok := a.Take(key)
	if !ok || v == nil {
		return nil, nil
	}
	switch list := v.(type) {
	case []string:
		return list, nil
	case string:
		if list == "" {
			return nil, nil
		}
		return strings.Split(list, "|"), nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, a.invalid(key, v)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, a.invalid(key, v)
}

// Bool takes key as a boolean; strings are parsed with strconv.ParseBool.
func (a Args) Bool(key string) (value bool, present bool, err error) {
	v, ok := a.Take(key)
	if !ok || v == nil {
		return false, false, nil
	}
	switch b := v.(type) {
	case bool:
		return b, true, nil
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return false, true, a.invalid(key, v)
		}
		return parsed, true, nil
	}
	return false, true, a.invalid(key, v)
}

// Kind takes key as a Kind given by name, code, or Kind value.
func (a Args) Kind(key string) (Kind, bool, error) {
	v, ok := a.Take(key)
	if !ok || v == nil {
		return KindInvalid, false, nil
	}
	switch k := v.(type) {
	case Kind:
		if k.Valid() {
			return k, true, nil
		}
	case int:
		if Kind(k).Valid() {
			return Kind(k), true, nil
		}
	case string:
		parsed, err := ParseKind(k)
		if err == nil {
			return parsed, true, nil
		}
	}
	return KindInvalid, true, a.invalid(key, v)
}

// applyShared moves the attributes every variant has from the args onto base.
func (a Args) applyShared(base Plain) (Plain, error) {
	kind, ok, err := a.Kind("kind")
	if err != nil {
		return base, err
	}
	if ok {
		base.Kind = kind
	}
	// field_type_kind is accepted for payload-shaped overrides.
	kind, ok, err = a.Kind("field_type_kind")
	if err != nil {
		return base, err
	}
	if ok {
		base.Kind = kind
	}

	required, ok, err := a.Bool("required")
	if err != nil {
		return base, err
	}
	if ok {
		base.Required = required
	}

	for _, key := range []string{"description", "default", "default_value"} {
		s, err := a.String(key)
		if err != nil {
			return base, err
		}
		if s == "" {
			continue
		}
		if key == "description" {
			base.Description = s
		} else {
			base.DefaultValue = s
		}
	}
	return base, nil
}

func (a Args) invalid(key string, v any) error {
	return &ArgumentError{Variant: a.variant, Key: key, Reason: fmt.Sprintf("unsupported value %v (%T)", v, v)}
}

// ArgumentError reports a variant that cannot be built from its overrides.
type ArgumentError struct {
	Variant string
	Key     string
	Reason  string
}

func (e *ArgumentError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("field variant %q: %s", e.Variant, e.Reason)
	}
	return fmt.Sprintf("field variant %q: %s: %s", e.Variant, e.Key, e.Reason)
}
