package schema

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
)

// Violation records a single failed constraint: where it failed and why.
type Violation struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Result is the outcome of validating a value against a descriptor. A Result
// with no violations means the value conforms.
type Result struct {
	Violations []Violation
}

// OK reports whether the value conformed to the descriptor.
func (r Result) OK() bool { return len(r.Violations) == 0 }

func (r *Result) add(path, reason string) {
	r.Violations = append(r.Violations, Violation{Path: path, Reason: reason})
}

// Validate checks value against d and reports every violated constraint.
// Declared defaults are filled into a working copy before structural checks,
// so an absent property with a default never trips a required or type check.
// Validate never panics; a nil descriptor accepts anything.
func Validate(value interface{}, d *Descriptor) Result {
	var res Result
	if d == nil {
		return res
	}
	validateAt(ApplyDefaults(value, d), d, "", &res)
	return res
}

// ApplyDefaults returns a copy of value with declared property defaults
// filled in for absent keys, recursively for nested object descriptors. The
// input is never mutated. Values that are not objects pass through unchanged.
func ApplyDefaults(value interface{}, d *Descriptor) interface{} {
	if d == nil || d.Type != TypeObject || len(d.Properties) == 0 {
		return value
	}

	obj, ok := asObject(value)
	if !ok {
		return value
	}

	out := make(map[string]interface{}, len(obj)+len(d.Properties))
	for k, v := range obj {
		out[k] = v
	}
	for name, prop := range d.Properties {
		if prop == nil {
			continue
		}
		if _, present := out[name]; !present {
			if prop.Default != nil {
				out[name] = prop.Default
			}
			continue
		}
		if prop.Type == TypeObject {
			out[name] = ApplyDefaults(out[name], prop)
		}
	}
	return out
}

func validateAt(value interface{}, d *Descriptor, path string, res *Result) {
	if d == nil {
		return
	}

	switch d.Type {
	case TypeObject:
		obj, ok := asObject(value)
		if !ok {
			res.add(path, typeMismatch(TypeObject, value))
			return
		}
		for _, name := range d.Required {
			if _, present := obj[name]; !present {
				res.add(joinPath(path, name), "required property is missing")
			}
		}
		// Unknown properties are permitted; only declared ones are checked.
		for name, prop := range d.Properties {
			v, present := obj[name]
			if !present {
				continue
			}
			validateAt(v, prop, joinPath(path, name), res)
		}

	case TypeString:
		s, ok := value.(string)
		if !ok {
			res.add(path, typeMismatch(TypeString, value))
			return
		}
		if d.MinLength != nil && len(s) < *d.MinLength {
			res.add(path, fmt.Sprintf("length must be at least %d", *d.MinLength))
		}
		if d.MaxLength != nil && len(s) > *d.MaxLength {
			res.add(path, fmt.Sprintf("length must be at most %d", *d.MaxLength))
		}
		if d.Pattern != "" {
			re, err := regexp.Compile(d.Pattern)
			if err != nil {
				res.add(path, fmt.Sprintf("schema pattern is invalid: %v", err))
			} else if !re.MatchString(s) {
				res.add(path, fmt.Sprintf("must match pattern %q", d.Pattern))
			}
		}
		checkEnum(value, d, path, res)

	case TypeNumber:
		n, ok := asNumber(value)
		if !ok {
			res.add(path, typeMismatch(TypeNumber, value))
			return
		}
		checkBounds(n, d, path, res)
		checkEnum(value, d, path, res)

	case TypeInteger:
		n, ok := asNumber(value)
		if !ok || math.Trunc(n) != n {
			res.add(path, typeMismatch(TypeInteger, value))
			return
		}
		checkBounds(n, d, path, res)
		checkEnum(value, d, path, res)

	case TypeBoolean:
		if _, ok := value.(bool); !ok {
			res.add(path, typeMismatch(TypeBoolean, value))
			return
		}

	case TypeArray:
		arr, ok := asArray(value)
		if !ok {
			res.add(path, typeMismatch(TypeArray, value))
			return
		}
		if d.Items != nil {
			for i, item := range arr {
				validateAt(item, d.Items, fmt.Sprintf("%s[%d]", path, i), res)
			}
		}

	default:
		res.add(path, fmt.Sprintf("schema declares unknown type %q", d.Type))
	}
}

func checkBounds(n float64, d *Descriptor, path string, res *Result) {
	if d.Minimum != nil && n < *d.Minimum {
		res.add(path, fmt.Sprintf("must be at least %v", *d.Minimum))
	}
	if d.Maximum != nil && n > *d.Maximum {
		res.add(path, fmt.Sprintf("must be at most %v", *d.Maximum))
	}
}

func checkEnum(value interface{}, d *Descriptor, path string, res *Result) {
	if len(d.Enum) == 0 {
		return
	}
	for _, allowed := range d.Enum {
		if enumEqual(value, allowed) {
			return
		}
	}
	res.add(path, fmt.Sprintf("must be one of %v", d.Enum))
}

// enumEqual compares a value against an enum member, treating all numeric
// representations of the same quantity as equal.
func enumEqual(value, allowed interface{}) bool {
	if vn, ok := asNumber(value); ok {
		if an, ok := asNumber(allowed); ok {
			return vn == an
		}
		return false
	}
	return reflect.DeepEqual(value, allowed)
}

func typeMismatch(want Type, got interface{}) string {
	return fmt.Sprintf("expected %s, got %s", want, typeName(got))
}

func typeName(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	}
	if _, ok := asNumber(v); ok {
		return "number"
	}
	return fmt.Sprintf("%T", v)
}

func asObject(v interface{}) (map[string]interface{}, bool) {
	obj, ok := v.(map[string]interface{})
	return obj, ok
}

func asArray(v interface{}) ([]interface{}, bool) {
	arr, ok := v.([]interface{})
	return arr, ok
}

// asNumber normalizes every numeric type a handler or decoder may produce.
// encoding/json yields float64, but handlers constructed in Go frequently
// pass plain ints.
func asNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
