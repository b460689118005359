// Package schema implements the minimal JSON-Schema-like descriptor used to
// validate tool parameters and prompt arguments. It supports the object,
// string, number, integer, boolean and array types together with the
// required, properties, items, enum, minimum/maximum, minLength/maxLength,
// pattern and default keywords. Validation is total: it never panics and
// always reports every violated constraint, not just the first.
package schema

import (
	"fmt"
	"regexp"
)

// Type identifies the JSON type a descriptor accepts.
type Type string

const (
	TypeObject  Type = "object"
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
)

// validTypes is the closed set of types a well-formed descriptor may declare.
var validTypes = map[Type]bool{
	TypeObject:  true,
	TypeString:  true,
	TypeNumber:  true,
	TypeInteger: true,
	TypeBoolean: true,
	TypeArray:   true,
}

// Descriptor describes the expected shape of a JSON value. Keyword semantics
// follow JSON Schema where the two overlap; keywords that do not apply to the
// declared type are ignored rather than rejected.
type Descriptor struct {
	Type        Type                   `json:"type"`
	Description string                 `json:"description,omitempty"`
	Properties  map[string]*Descriptor `json:"properties,omitempty"`
	Required    []string               `json:"required,omitempty"`
	Items       *Descriptor            `json:"items,omitempty"`
	Enum        []interface{}          `json:"enum,omitempty"`
	Minimum     *float64               `json:"minimum,omitempty"`
	Maximum     *float64               `json:"maximum,omitempty"`
	MinLength   *int                   `json:"minLength,omitempty"`
	MaxLength   *int                   `json:"maxLength,omitempty"`
	Pattern     string                 `json:"pattern,omitempty"`
	Default     interface{}            `json:"default,omitempty"`
}

// Object is a shorthand constructor for an object descriptor with the given
// properties and required names.
func Object(properties map[string]*Descriptor, required ...string) *Descriptor {
	return &Descriptor{Type: TypeObject, Properties: properties, Required: required}
}

// Float returns a pointer to f for use in descriptor literals.
func Float(f float64) *float64 { return &f }

// Int returns a pointer to n for use in descriptor literals.
func Int(n int) *int { return &n }

// Check verifies that a descriptor is structurally well formed: the type is
// one of the supported set, numeric and length bounds are ordered, the
// pattern compiles, and every nested descriptor is itself well formed.
// Registries call this at registration time so malformed schemas are
// rejected before they can ever be used for validation.
func Check(d *Descriptor) error {
	return checkAt(d, "")
}

func checkAt(d *Descriptor, path string) error {
	if d == nil {
		return fmt.Errorf("%s: descriptor is nil", displayPath(path))
	}

	if d.Type == "" {
		return fmt.Errorf("%s: missing type", displayPath(path))
	}
	if !validTypes[d.Type] {
		return fmt.Errorf("%s: unknown type %q", displayPath(path), d.Type)
	}

	if d.Minimum != nil && d.Maximum != nil && *d.Minimum > *d.Maximum {
		return fmt.Errorf("%s: minimum %v exceeds maximum %v", displayPath(path), *d.Minimum, *d.Maximum)
	}
	if d.MinLength != nil && *d.MinLength < 0 {
		return fmt.Errorf("%s: minLength must not be negative", displayPath(path))
	}
	if d.MaxLength != nil && *d.MaxLength < 0 {
		return fmt.Errorf("%s: maxLength must not be negative", displayPath(path))
	}
	if d.MinLength != nil && d.MaxLength != nil && *d.MinLength > *d.MaxLength {
		return fmt.Errorf("%s: minLength %d exceeds maxLength %d", displayPath(path), *d.MinLength, *d.MaxLength)
	}

	if d.Pattern != "" {
		if _, err := regexp.Compile(d.Pattern); err != nil {
			return fmt.Errorf("%s: invalid pattern: %v", displayPath(path), err)
		}
	}

	if d.Enum != nil && len(d.Enum) == 0 {
		return fmt.Errorf("%s: enum must not be empty", displayPath(path))
	}

	for name, prop := range d.Properties {
		if name == "" {
			return fmt.Errorf("%s: property name must not be empty", displayPath(path))
		}
		if err := checkAt(prop, joinPath(path, name)); err != nil {
			return err
		}
	}

	if d.Items != nil {
		if err := checkAt(d.Items, path+"[]"); err != nil {
			return err
		}
	}

	return nil
}

func displayPath(path string) string {
	if path == "" {
		return "schema"
	}
	return path
}

func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
